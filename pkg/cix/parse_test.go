package cix

import (
	"math"
	"strings"
	"testing"
)

const sampleCIX = `BEGIN ID CID3
	REL= 5.0
END ID

BEGIN MAINDATA
	LPX=800
	LPY=600
	LPZ=18.2
	ORLST="5"
END MAINDATA

BEGIN MACRO
	NAME=LABEL
	PARAM,NAME=ID,VALUE=P1
	PARAM,NAME=X,VALUE=200
	PARAM,NAME=Y,VALUE=150
	PARAM,NAME=ANG,VALUE=90
	PARAM,NAME=DATA,VALUE=CabinetSide
END MACRO

BEGIN MACRO
	NAME=ROUT
	PARAM,NAME=DIA,VALUE=8
	PARAM,NAME=DP,VALUE=18.6
	NAME=START_POINT
	PARAM,NAME=X,VALUE=100
	PARAM,NAME=Y,VALUE=100
	PARAM,NAME=Z,VALUE=-18.6
	NAME=LINE_EP
	PARAM,NAME=XE,VALUE=500
	PARAM,NAME=YE,VALUE=100
	NAME=ARC_EPCE
	PARAM,NAME=XE,VALUE=500
	PARAM,NAME=YE,VALUE=300
	PARAM,NAME=XC,VALUE=500
	PARAM,NAME=YC,VALUE=200
	NAME=ENDPATH
END MACRO

BEGIN MACRO
	NAME=BV
	PARAM,NAME=ID,VALUE=HINGE
	PARAM,NAME=X,VALUE=100
	PARAM,NAME=Y,VALUE=100
	PARAM,NAME=DIA,VALUE=8
	PARAM,NAME=DP,VALUE=12
	PARAM,NAME=NRP,VALUE=3
	PARAM,NAME=DX,VALUE=50
	PARAM,NAME=DY,VALUE=0
END MACRO
`

func TestParseSheetDimensions(t *testing.T) {
	doc := Parse(sampleCIX, "sample.cix")
	if doc.SheetWidth != 800 || doc.SheetHeight != 600 {
		t.Errorf("sheet = %vx%v, want 800x600", doc.SheetWidth, doc.SheetHeight)
	}
	if doc.SheetThickness != 18.2 {
		t.Errorf("thickness = %v, want 18.2", doc.SheetThickness)
	}
	if doc.Raw != sampleCIX {
		t.Error("raw text must be retained unmodified")
	}
}

func TestParseMalformedSheetValueDroppedSilently(t *testing.T) {
	text := "BEGIN MAINDATA\nLPX=abc\nLPY=600\nEND MAINDATA\n"
	doc := Parse(text, "bad.cix")
	if doc.SheetWidth != 0 {
		t.Errorf("width = %v, want 0 after malformed value", doc.SheetWidth)
	}
	if doc.SheetHeight != 600 {
		t.Errorf("height = %v, want 600", doc.SheetHeight)
	}
}

func TestParseLabel(t *testing.T) {
	doc := Parse(sampleCIX, "sample.cix")
	if len(doc.Labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(doc.Labels))
	}
	l := doc.Labels[0]
	if l.ID != "P1" || l.Data != "CabinetSide" || l.Macro != "LABEL" {
		t.Errorf("label = %+v, want ID P1 / data CabinetSide", l)
	}
	if l.Rotation != 90 {
		t.Errorf("rotation = %v, want 90", l.Rotation)
	}
	// Y is flipped to bottom-left origin: 600 - 150.
	if l.Position.X != 200 || l.Position.Y != 450 {
		t.Errorf("position = %+v, want (200, 450)", l.Position)
	}
}

func TestParseLabelCompositeYBypassesFlip(t *testing.T) {
	text := `BEGIN MAINDATA
LPX=800
LPY=600
END MAINDATA
BEGIN MACRO
NAME=LABEL
PARAM,NAME=ID,VALUE=P2
PARAM,NAME=X,VALUE=10
PARAM,NAME=Y,VALUE=600.-150.5
END MACRO
`
	doc := Parse(text, "composite.cix")
	if len(doc.Labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(doc.Labels))
	}
	// The composite literal is already bottom-origin: 600 - 150.5, no flip.
	if got := doc.Labels[0].Position.Y; math.Abs(got-449.5) > 1e-9 {
		t.Errorf("Y = %v, want 449.5 (unflipped composite)", got)
	}
}

func TestParseRout(t *testing.T) {
	doc := Parse(sampleCIX, "sample.cix")
	if len(doc.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(doc.Paths))
	}
	p := doc.Paths[0]

	if p.Diameter != 8 {
		t.Errorf("diameter = %v, want 8", p.Diameter)
	}
	if math.Abs(p.MaxDepth-18.6) > 1e-9 {
		t.Errorf("max depth = %v, want 18.6", p.MaxDepth)
	}

	wantKinds := []SegmentKind{SegmentStart, SegmentLine, SegmentArc}
	if len(p.Points) != len(wantKinds) {
		t.Fatalf("got %d points, want %d", len(p.Points), len(wantKinds))
	}
	for i, k := range wantKinds {
		if p.Points[i].Kind != k {
			t.Errorf("point %d kind = %q, want %q", i, p.Points[i].Kind, k)
		}
	}

	// All Ys flipped against sheet height 600.
	if p.Points[0].Position != pointAt(100, 500) {
		t.Errorf("start = %+v, want (100, 500)", p.Points[0].Position)
	}
	if p.Points[1].Position != pointAt(500, 500) {
		t.Errorf("line end = %+v, want (500, 500)", p.Points[1].Position)
	}
	if p.Points[2].Position != pointAt(500, 300) {
		t.Errorf("arc end = %+v, want (500, 300)", p.Points[2].Position)
	}

	arc := p.Points[2]
	if arc.Center == nil {
		t.Fatal("arc point should carry a center")
	}
	if *arc.Center != pointAt(500, 400) {
		t.Errorf("arc center = %+v, want (500, 400)", *arc.Center)
	}

	if !p.Points[0].HasZ || p.Points[0].Z != -18.6 {
		t.Errorf("start Z = %v (hasZ %v), want -18.6", p.Points[0].Z, p.Points[0].HasZ)
	}
}

func TestParseRoutDepthFromSegmentsOnly(t *testing.T) {
	// No DP parameter: the derived depth must come from the segment Zs.
	text := `BEGIN MAINDATA
LPX=800
LPY=600
END MAINDATA
BEGIN MACRO
NAME=ROUT
NAME=START_POINT
PARAM,NAME=X,VALUE=0
PARAM,NAME=Y,VALUE=0
PARAM,NAME=Z,VALUE=-5
NAME=LINE_EP
PARAM,NAME=XE,VALUE=10
PARAM,NAME=YE,VALUE=0
PARAM,NAME=ZE,VALUE=-19.1
END MACRO
`
	doc := Parse(text, "depth.cix")
	if len(doc.Paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(doc.Paths))
	}
	if got := doc.Paths[0].MaxDepth; math.Abs(got-19.1) > 1e-9 {
		t.Errorf("max depth = %v, want 19.1 (max over segment Zs)", got)
	}
}

func TestParseRoutMultiplePathsPerMacro(t *testing.T) {
	text := `BEGIN MACRO
NAME=ROUT
PARAM,NAME=DIA,VALUE=6
NAME=START_POINT
PARAM,NAME=X,VALUE=0
PARAM,NAME=Y,VALUE=0
NAME=LINE_EP
PARAM,NAME=XE,VALUE=10
PARAM,NAME=YE,VALUE=0
NAME=ENDPATH
NAME=START_POINT
PARAM,NAME=X,VALUE=20
PARAM,NAME=Y,VALUE=0
NAME=LINE_EP
PARAM,NAME=XE,VALUE=30
PARAM,NAME=YE,VALUE=0
END MACRO
`
	doc := Parse(text, "two.cix")
	if len(doc.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(doc.Paths))
	}
	for i, p := range doc.Paths {
		if len(p.Points) != 2 {
			t.Errorf("path %d has %d points, want 2", i, len(p.Points))
		}
		if p.Diameter != 6 {
			t.Errorf("path %d diameter = %v, want inherited 6", i, p.Diameter)
		}
	}
}

func TestParseBVRepeatExpansion(t *testing.T) {
	doc := Parse(sampleCIX, "sample.cix")
	if len(doc.Drills) != 3 {
		t.Fatalf("got %d drills, want 3", len(doc.Drills))
	}
	wantX := []float64{100, 150, 200}
	for i, d := range doc.Drills {
		if d.Position.X != wantX[i] {
			t.Errorf("drill %d X = %v, want %v", i, d.Position.X, wantX[i])
		}
		// Y flipped independently: 600 - 100.
		if d.Position.Y != 500 {
			t.Errorf("drill %d Y = %v, want 500", i, d.Position.Y)
		}
		if d.Diameter != 8 || d.Depth != 12 {
			t.Errorf("drill %d = %+v, want dia 8 depth 12", i, d)
		}
		if d.Source != "HINGE" {
			t.Errorf("drill %d source = %q, want HINGE", i, d.Source)
		}
	}
}

func TestParseZeroLabelsDiagnostic(t *testing.T) {
	doc := Parse("BEGIN MAINDATA\nLPX=100\nLPY=100\nLPZ=18\nEND MAINDATA\n", "empty.cix")
	found := false
	for _, d := range doc.Diagnostics {
		if strings.Contains(d, "no label placements") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected zero-labels diagnostic, got %v", doc.Diagnostics)
	}
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"BEGIN MACRO",
		"END MACRO\nEND MACRO",
		"PARAM,NAME=X",
		"NAME=ROUT\nNAME=START_POINT",
		"BEGIN MAINDATA\nLPX\nEND MAINDATA",
		strings.Repeat("BEGIN MACRO\nNAME=BV\n", 10),
	}
	for i, in := range inputs {
		doc := Parse(in, "garbage.cix")
		if doc == nil {
			t.Errorf("input %d: Parse returned nil document", i)
		}
	}
}

func TestParseUnknownSheetHeightSkipsFlip(t *testing.T) {
	text := `BEGIN MACRO
NAME=BV
PARAM,NAME=X,VALUE=10
PARAM,NAME=Y,VALUE=20
PARAM,NAME=DIA,VALUE=5
END MACRO
`
	doc := Parse(text, "noheight.cix")
	if len(doc.Drills) != 1 {
		t.Fatalf("got %d drills, want 1", len(doc.Drills))
	}
	if doc.Drills[0].Position.Y != 20 {
		t.Errorf("Y = %v, want 20 (flip is a no-op without sheet height)", doc.Drills[0].Position.Y)
	}
}
