package cix

// validate runs the post-parse document checks. Every finding is advisory:
// it is appended to the document diagnostics and never fails the parse.
func validate(doc *Document) {
	validateSheet(doc)
	validateLabels(doc)
	validatePlacements(doc)
}

// validateSheet flags missing or non-positive sheet dimensions. Recovery
// short-circuits on these, so surface them up front.
func validateSheet(doc *Document) {
	if doc.SheetWidth <= 0 {
		doc.Diag("sheet width is %.4f, panel recovery will be skipped", doc.SheetWidth)
	}
	if doc.SheetHeight <= 0 {
		doc.Diag("sheet height is %.4f, panel recovery will be skipped", doc.SheetHeight)
	}
	if doc.SheetThickness <= 0 {
		doc.Diag("sheet thickness is %.4f, through-cut detection will rely on depth presence only", doc.SheetThickness)
	}
}

// validateLabels records the zero-labels condition. A document without
// labels still recovers panels; it just loses label-based disambiguation.
func validateLabels(doc *Document) {
	if len(doc.Labels) == 0 {
		doc.Diag("no label placements found in %s", doc.Filename)
	}
}

// offSheetMargin tolerates toolpaths that lead in/out slightly beyond the
// stock edge, which is common practice.
const offSheetMargin = 50.0

// validatePlacements flags labels, drill holes and routing points that fall
// outside the sheet rectangle.
func validatePlacements(doc *Document) {
	if doc.SheetWidth <= 0 || doc.SheetHeight <= 0 {
		return
	}
	for _, l := range doc.Labels {
		if outsideSheet(doc, l.Position.X, l.Position.Y, 0) {
			doc.Diag("label %q at (%.2f, %.2f) lies outside the sheet", l.ID, l.Position.X, l.Position.Y)
		}
	}
	for _, d := range doc.Drills {
		if outsideSheet(doc, d.Position.X, d.Position.Y, 0) {
			doc.Diag("drill hole at (%.2f, %.2f) lies outside the sheet", d.Position.X, d.Position.Y)
		}
	}
	for i := range doc.Paths {
		for _, p := range doc.Paths[i].Points {
			if outsideSheet(doc, p.Position.X, p.Position.Y, offSheetMargin) {
				doc.Diag("routing path %d leaves the sheet at (%.2f, %.2f)", i, p.Position.X, p.Position.Y)
				break
			}
		}
	}
}

func outsideSheet(doc *Document, x, y, margin float64) bool {
	return x < -margin || y < -margin ||
		x > doc.SheetWidth+margin || y > doc.SheetHeight+margin
}
