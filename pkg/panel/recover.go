// Package panel recovers finished panel geometry from a parsed CIX
// document: routing toolpaths become kerf (material-removal) polygons,
// the kerfs are subtracted from the stock sheet, and the surviving pieces
// become panels with holes and attached drill records.
//
// Recovery is deterministic and never fails: every geometry-stage anomaly
// degrades along a documented fallback chain (hole-aware difference → flat
// difference → whole sheet) and is recorded as a document diagnostic.
package panel

import (
	"math"

	"github.com/chazu/cixview/pkg/cix"
	"github.com/chazu/cixview/pkg/geom"
)

// Options configures panel recovery. All values are in source units
// (millimeters and square millimeters).
type Options struct {
	// DefaultBitDiameter is used for paths that carry no tool diameter.
	DefaultBitDiameter float64
	// DepthRatio is the fraction of the sheet thickness a path must reach
	// to count as a through-cut.
	DepthRatio float64
	// MinPanelArea discards recovered pieces below this net area.
	MinPanelArea float64
	// KerfScale multiplies the kerf half-width.
	KerfScale float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		DefaultBitDiameter: 6,
		DepthRatio:         0.8,
		MinPanelArea:       1000,
		KerfScale:          1,
	}
}

// drillSegments is the fixed segment count for drill hole circles.
const drillSegments = 40

// Recover reconstructs the panel set remaining after machining and attaches
// the full recovery output (panels, kerf polygons, removed-material
// polygons) to the document. The returned slice aliases doc.Recovery.Panels.
func Recover(doc *cix.Document, opts Options) []cix.RecoveredPanel {
	rec := &cix.Recovery{
		Panels:  []cix.RecoveredPanel{},
		Kerfs:   []geom.Ring{},
		Removed: []geom.PolygonWithHoles{},
	}
	doc.Recovery = rec

	// Nothing to recover without a sheet.
	if doc.SheetWidth <= 0 || doc.SheetHeight <= 0 {
		return rec.Panels
	}
	sheet := geom.Rectangle(0, 0, doc.SheetWidth, doc.SheetHeight)
	claimed := make([]bool, len(doc.Drills))

	kerfs := buildKerfs(doc, opts)
	if len(kerfs) == 0 {
		// No routing at all (or everything degenerate): the whole sheet
		// is the single panel.
		rec.Panels = append(rec.Panels, wholeSheetPanel(doc, sheet, claimed))
		return rec.Panels
	}

	union, err := geom.Union(kerfs)
	if err != nil {
		doc.Diag("kerf union failed: %v", err)
		union = kerfs
	}
	// The kerf union is exposed for the rendering layer regardless of how
	// the rest of recovery goes.
	rec.Kerfs = union

	pieces := subtractKerfs(doc, sheet, union)

	panels, structural := collectPanels(doc, pieces, opts, claimed)

	if len(panels) == 0 {
		// Everything fell below the area filter: degrade to the whole
		// sheet and expose the kerf union as the removed geometry.
		rec.Panels = append(rec.Panels, wholeSheetPanel(doc, sheet, claimed))
		rec.Removed = ringsAsPieces(union)
		return rec.Panels
	}

	panels, structural = filterByLabels(doc, panels, structural)

	rec.Removed = removedMaterial(doc, sheet, panels, structural, union)
	rec.Panels = panels
	return rec.Panels
}

// throughCuts selects the routing paths that sever the sheet. A path
// qualifies when its derived depth reaches DepthRatio of the sheet
// thickness; with zero or unknown thickness any positive depth qualifies.
// When nothing qualifies but paths exist, every path is treated as a cut,
// since some dialects omit depth data entirely.
func throughCuts(doc *cix.Document, opts Options) []*cix.RoutingPath {
	var cuts []*cix.RoutingPath
	threshold := doc.SheetThickness * opts.DepthRatio
	for i := range doc.Paths {
		p := &doc.Paths[i]
		if doc.SheetThickness > 0 {
			if p.MaxDepth >= threshold {
				cuts = append(cuts, p)
			}
		} else if p.MaxDepth > 0 {
			cuts = append(cuts, p)
		}
	}
	if len(cuts) == 0 && len(doc.Paths) > 0 {
		cuts = cuts[:0]
		for i := range doc.Paths {
			cuts = append(cuts, &doc.Paths[i])
		}
	}
	return cuts
}

// buildKerfs buffers every through-cut path by its kerf half-width.
func buildKerfs(doc *cix.Document, opts Options) []geom.Ring {
	var kerfs []geom.Ring
	for _, p := range throughCuts(doc, opts) {
		diameter := p.Diameter
		if diameter <= 0 {
			diameter = opts.DefaultBitDiameter
		}
		radius := diameter / 2 * opts.KerfScale
		kerfs = append(kerfs, geom.OffsetOpenPath(p.Polyline(), radius)...)
	}
	return kerfs
}

// subtractKerfs removes the kerf union from the sheet, degrading from the
// hole-aware difference to the flat form when needed.
func subtractKerfs(doc *cix.Document, sheet geom.Ring, union []geom.Ring) []geom.PolygonWithHoles {
	pieces, err := geom.Difference([]geom.Ring{sheet}, union)
	if err == nil && len(pieces) > 0 {
		return pieces
	}
	if err != nil {
		doc.Diag("hole-aware difference failed: %v", err)
	}

	flat, ferr := geom.DifferenceFlat([]geom.Ring{sheet}, union)
	if ferr != nil {
		doc.Diag("flat difference failed: %v", ferr)
		return nil
	}
	return ringsAsPieces(flat)
}

// collectPanels converts difference pieces into panels: applies the minimum
// area filter and attaches drill holes. Each drill is claimed by the first
// panel whose outer ring contains its center; existing holes are ignored
// for the claim test, so a drill sitting inside a structural opening is not
// double-subtracted against it. The returned structural slice holds each
// panel's recovery-inherent holes (without drill circles) for the
// removed-material computation.
func collectPanels(doc *cix.Document, pieces []geom.PolygonWithHoles, opts Options, claimed []bool) ([]cix.RecoveredPanel, [][]geom.Ring) {
	var panels []cix.RecoveredPanel
	var structural [][]geom.Ring

	for _, piece := range pieces {
		net := geom.NetArea(piece)
		if net < opts.MinPanelArea {
			continue
		}
		p := cix.RecoveredPanel{
			Outer:  piece.Outer,
			Holes:  append([]geom.Ring{}, piece.Holes...),
			Area:   net,
			Bounds: geom.Bounds(piece.Outer),
		}
		attachDrills(doc, &p, claimed)
		panels = append(panels, p)
		structural = append(structural, piece.Holes)
	}
	return panels, structural
}

// attachDrills claims every unclaimed drill whose center lies inside the
// panel's outer ring, appending a circle ring per hole and subtracting its
// area.
func attachDrills(doc *cix.Document, p *cix.RecoveredPanel, claimed []bool) {
	for i := range doc.Drills {
		if claimed[i] {
			continue
		}
		d := doc.Drills[i]
		if !geom.PointInRing(d.Position, p.Outer) {
			continue
		}
		if ring := geom.Circle(d.Position, d.Diameter/2, drillSegments); ring != nil {
			p.Holes = append(p.Holes, ring)
			p.Area = math.Max(p.Area-geom.Area(ring), 0)
		}
		p.Drills = append(p.Drills, d)
		claimed[i] = true
	}
}

// filterByLabels keeps the panels whose solid region contains at least one
// label position. Labels are a refinement, not a gate: if the filter would
// eliminate everything, all panels are kept.
func filterByLabels(doc *cix.Document, panels []cix.RecoveredPanel, structural [][]geom.Ring) ([]cix.RecoveredPanel, [][]geom.Ring) {
	if len(doc.Labels) == 0 {
		return panels, structural
	}
	var kept []cix.RecoveredPanel
	var keptStructural [][]geom.Ring
	for i, p := range panels {
		poly := geom.PolygonWithHoles{Outer: p.Outer, Holes: p.Holes}
		for _, l := range doc.Labels {
			if geom.PointInPolygon(l.Position, poly) {
				kept = append(kept, p)
				keptStructural = append(keptStructural, structural[i])
				break
			}
		}
	}
	if len(kept) == 0 {
		doc.Diag("no panel contains a label position, keeping all %d candidates", len(panels))
		return panels, structural
	}
	return kept, keptStructural
}

// removedMaterial computes sheet minus the final panel set. Panel outers
// and their structural holes form the clip, so interior openings count as
// removed material. On failure the raw kerf union stands in.
func removedMaterial(doc *cix.Document, sheet geom.Ring, panels []cix.RecoveredPanel, structural [][]geom.Ring, union []geom.Ring) []geom.PolygonWithHoles {
	var clip []geom.Ring
	for i, p := range panels {
		clip = append(clip, p.Outer)
		clip = append(clip, structural[i]...)
	}
	removed, err := geom.Difference([]geom.Ring{sheet}, clip)
	if err != nil {
		doc.Diag("removed-material difference failed: %v", err)
		return ringsAsPieces(union)
	}
	return removed
}

// wholeSheetPanel builds the degenerate single panel covering the sheet and
// attaches the drill holes.
func wholeSheetPanel(doc *cix.Document, sheet geom.Ring, claimed []bool) cix.RecoveredPanel {
	p := cix.RecoveredPanel{
		Outer:  sheet,
		Area:   geom.Area(sheet),
		Bounds: geom.Bounds(sheet),
	}
	attachDrills(doc, &p, claimed)
	return p
}

func ringsAsPieces(rings []geom.Ring) []geom.PolygonWithHoles {
	pieces := make([]geom.PolygonWithHoles, 0, len(rings))
	for _, r := range rings {
		pieces = append(pieces, geom.PolygonWithHoles{Outer: r})
	}
	return pieces
}
