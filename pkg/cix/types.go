// Package cix parses the CIX CNC interchange format into a structured
// Document: sheet dimensions, label placements, routing toolpaths and drill
// holes. Parsing never fails; malformed input degrades to diagnostics and a
// best-effort partial document.
package cix

import (
	"fmt"

	"github.com/chazu/cixview/pkg/geom"
)

// Document is the root result of parsing one CIX input. The parser fills
// everything except Recovery, which the panel recovery engine attaches.
type Document struct {
	Filename       string `json:"filename"`
	Raw            string `json:"-"`
	SheetWidth     float64 `json:"sheetWidth"`
	SheetHeight    float64 `json:"sheetHeight"`
	SheetThickness float64 `json:"sheetThickness"`

	Labels []LabelPlacement `json:"labels"`
	Paths  []RoutingPath    `json:"paths"`
	Drills []DrillHole      `json:"drills"`

	// Diagnostics collects non-fatal parse and recovery anomalies.
	Diagnostics []string `json:"diagnostics"`

	// Recovery holds the panel recovery outputs once the engine has run.
	Recovery *Recovery `json:"recovery,omitempty"`
}

// Diag appends a formatted diagnostic message to the document.
func (d *Document) Diag(format string, args ...any) {
	d.Diagnostics = append(d.Diagnostics, fmt.Sprintf(format, args...))
}

// SheetRect returns the sheet outline as an axis-aligned rectangle anchored
// at the origin.
func (d *Document) SheetRect() geom.Rect {
	return geom.Rect{Max: geom.Point{X: d.SheetWidth, Y: d.SheetHeight}}
}

// LabelPlacement is one part nameplate. Positions are in bottom-left-origin
// coordinates (the parser applies the Y flip).
type LabelPlacement struct {
	ID       string     `json:"id"`
	Position geom.Point `json:"position"`
	Rotation float64    `json:"rotation"`
	Data     string     `json:"data"`
	Macro    string     `json:"macro"`
}

// SegmentKind classifies a routing path point.
type SegmentKind string

const (
	SegmentStart SegmentKind = "start"
	SegmentLine  SegmentKind = "line"
	SegmentArc   SegmentKind = "arc"
)

// RoutePoint is one point of a routing toolpath.
type RoutePoint struct {
	Position geom.Point  `json:"position"`
	Z        float64     `json:"z"`
	HasZ     bool        `json:"hasZ"`
	Kind     SegmentKind `json:"kind"`
	// Center is the arc center for arc segments that carry one, so a
	// renderer can reconstruct the true arc. Nil for lines and
	// radius-only arcs.
	Center *geom.Point       `json:"center,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// RoutingPath is one continuous toolpath, owned by its Document.
type RoutingPath struct {
	Source string       `json:"source"`
	Points []RoutePoint `json:"points"`
	// Diameter is the per-path tool diameter in millimeters; 0 means the
	// macro did not specify one.
	Diameter float64           `json:"diameter"`
	Params   map[string]string `json:"params,omitempty"`
	// MaxDepth is the maximum cut depth seen across segment Zs and the
	// macro's depth parameters, as a positive magnitude.
	MaxDepth float64 `json:"maxDepth"`
}

// Polyline returns the path's point positions in order.
func (p *RoutingPath) Polyline() []geom.Point {
	pts := make([]geom.Point, 0, len(p.Points))
	for _, rp := range p.Points {
		pts = append(pts, rp.Position)
	}
	return pts
}

// DrillHole is a single hole instance. Repeat-pattern macros are expanded
// into independent DrillHole values at parse time.
type DrillHole struct {
	Position geom.Point `json:"position"`
	Diameter float64    `json:"diameter"`
	Depth    float64    `json:"depth"`
	Source   string     `json:"source,omitempty"`
}

// RecoveredPanel is one finished part recovered from the sheet: an outer
// ring, its holes (structural openings first, then claimed drill circles),
// the net area, bounds, and the drill holes it claimed. Panels are not
// mutated after recovery returns.
type RecoveredPanel struct {
	Outer  geom.Ring   `json:"outer"`
	Holes  []geom.Ring `json:"holes"`
	Area   float64     `json:"area"`
	Bounds geom.Rect   `json:"bounds"`
	Drills []DrillHole `json:"drills"`
}

// Recovery bundles the panel recovery outputs attached to a Document for
// the rendering layer: the recovered panels, the unioned kerf polygons, and
// the removed-material polygons.
type Recovery struct {
	Panels  []RecoveredPanel        `json:"panels"`
	Kerfs   []geom.Ring             `json:"kerfs"`
	Removed []geom.PolygonWithHoles `json:"removed"`
}
