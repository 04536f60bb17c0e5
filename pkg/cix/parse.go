package cix

import (
	"math"
	"strconv"
)

// Macro type tags recognized by the extraction passes.
const (
	macroLabel = "LABEL"
	macroRout  = "ROUT"
	macroBV    = "BV"
)

// depthParamKeys are the synonymous depth parameters seen across macro
// dialects. The derived path depth takes the maximum over all of them and
// over every segment Z.
var depthParamKeys = []string{"DP", "DEPTH", "PRF"}

// diameterParamKeys name the tool diameter across dialects.
var diameterParamKeys = []string{"DIA", "TD"}

// parseContext threads per-document parse state (the sheet height needed
// for the Y flip) through the extraction passes explicitly.
type parseContext struct {
	sheetHeight float64
}

func (c parseContext) flipY(y float64) float64 {
	return FlipY(y, c.sheetHeight)
}

// Parse parses CIX macro text into a Document. It never fails: every
// anomaly degrades to a diagnostic on the Document and a best-effort
// partial result. The raw text is retained on the Document unmodified.
func Parse(text, filename string) *Document {
	doc := &Document{
		Filename:    filename,
		Raw:         text,
		Labels:      []LabelPlacement{},
		Paths:       []RoutingPath{},
		Drills:      []DrillHole{},
		Diagnostics: []string{},
	}

	toks := scanLines(text)

	doc.SheetWidth, doc.SheetHeight, doc.SheetThickness = sheetPass(toks)
	ctx := parseContext{sheetHeight: doc.SheetHeight}

	macros := macroPass(toks)
	for _, m := range macros {
		switch m.name {
		case macroLabel:
			doc.Labels = append(doc.Labels, extractLabel(m, ctx))
		case macroBV:
			doc.Drills = append(doc.Drills, extractDrills(m, ctx)...)
		}
	}

	doc.Paths = routPass(toks, ctx)

	validate(doc)
	return doc
}

// sheetPass scans for the BEGIN MAINDATA block and captures the three
// recognized sheet keys. Unrecognized keys are ignored; malformed numeric
// values are dropped silently (expected vendor variance, no diagnostic).
func sheetPass(toks []token) (width, height, thickness float64) {
	in := false
	for _, t := range toks {
		switch {
		case t.kind == tokBegin && t.block == "MAINDATA":
			in = true
		case t.kind == tokEnd && t.block == "MAINDATA":
			return width, height, thickness
		case in && t.kind == tokKeyValue:
			v, err := strconv.ParseFloat(t.value, 64)
			if err != nil {
				continue
			}
			switch t.key {
			case "LPX":
				width = v
			case "LPY":
				height = v
			case "LPZ":
				thickness = v
			}
		}
	}
	return width, height, thickness
}

// macro is one BEGIN MACRO block: its NAME tag plus raw parameters.
type macro struct {
	name   string
	params map[string]string
	line   int
}

// macroPass collects all BEGIN MACRO blocks into flat typed records. The
// first NAME line inside a block tags the macro; PARAM lines accumulate.
// ROUT blocks also pass through here, but their nested sub-blocks are
// handled by routPass, so later PARAM lines overwriting earlier ones is
// harmless for the macros consumed from this pass.
func macroPass(toks []token) []macro {
	var macros []macro
	var cur *macro
	for _, t := range toks {
		switch {
		case t.kind == tokBegin && t.block == "MACRO":
			macros = append(macros, macro{params: map[string]string{}, line: t.line})
			cur = &macros[len(macros)-1]
		case t.kind == tokEnd && t.block == "MACRO":
			cur = nil
		case cur != nil && t.kind == tokName:
			if cur.name == "" {
				cur.name = t.name
			}
		case cur != nil && t.kind == tokParam:
			cur.params[t.key] = t.value
		}
	}
	return macros
}

// extractLabel builds a label placement from a LABEL macro. Composite Y
// literals are already bottom-origin and bypass the Y flip.
func extractLabel(m macro, ctx parseContext) LabelPlacement {
	x := ParseNumber(m.params["X"])
	y, composite := ParseCoordinate(m.params["Y"])
	if !composite {
		y = ctx.flipY(y)
	}
	return LabelPlacement{
		ID:       m.params["ID"],
		Position: pointAt(x, y),
		Rotation: ParseNumber(m.params["ANG"]),
		Data:     m.params["DATA"],
		Macro:    m.name,
	}
}

// extractDrills expands a BV drilling macro into independent DrillHole
// records. A repeat count NRP with per-repeat steps DX/DY produces NRP
// holes; each position is Y-flipped independently.
func extractDrills(m macro, ctx parseContext) []DrillHole {
	x := ParseNumber(m.params["X"])
	y := ParseNumber(m.params["Y"])
	dia := ParseNumber(m.params["DIA"])
	depth := math.Abs(ParseNumber(m.params["DP"]))

	repeats := int(ParseNumber(m.params["NRP"]))
	if repeats < 1 {
		repeats = 1
	}
	dx := ParseNumber(m.params["DX"])
	dy := ParseNumber(m.params["DY"])

	holes := make([]DrillHole, 0, repeats)
	for i := 0; i < repeats; i++ {
		holes = append(holes, DrillHole{
			Position: pointAt(x+dx*float64(i), ctx.flipY(y+dy*float64(i))),
			Diameter: dia,
			Depth:    depth,
			Source:   m.params["ID"],
		})
	}
	return holes
}
