package geom

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// OffsetOpenPath buffers an open polyline by radius: the result is the swept
// area of a circular tool of that radius traveling the path, approximated
// with square end caps and filled joins. Each segment becomes an oriented
// rectangle extended by radius at both ends; overlapping rectangles are
// unioned so joins close up.
//
// Degenerate inputs (fewer than 2 points, non-finite or non-positive
// radius) yield nil rather than an error.
func OffsetOpenPath(points []Point, radius float64) []Ring {
	if len(points) < 2 || !isFinite(radius) || radius <= 0 {
		return nil
	}

	var acc polyclip.Polygon
	for i := 0; i+1 < len(points); i++ {
		quad := segmentQuad(points[i], points[i+1], radius)
		if quad == nil {
			continue
		}
		clip := polyclip.Polygon{toFixed(quad)}
		if acc == nil {
			acc = clip
			continue
		}
		acc = safeUnion(acc, clip)
	}

	var result []Ring
	for _, c := range acc {
		if len(c) >= 3 {
			result = append(result, fromFixed(c))
		}
	}
	return result
}

// segmentQuad builds the rectangle of half-width r around segment a-b,
// extended by r along the segment direction at both ends (square caps).
// Zero-length segments yield nil.
func segmentQuad(a, b Point, r float64) Ring {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux := dx / length
	uy := dy / length
	// Normal to the left of travel.
	nx := -uy
	ny := ux

	a = Point{X: a.X - ux*r, Y: a.Y - uy*r}
	b = Point{X: b.X + ux*r, Y: b.Y + uy*r}
	return Ring{
		{X: a.X + nx*r, Y: a.Y + ny*r},
		{X: a.X - nx*r, Y: a.Y - ny*r},
		{X: b.X - nx*r, Y: b.Y - ny*r},
		{X: b.X + nx*r, Y: b.Y + ny*r},
	}
}

// safeUnion unions two clip polygons, keeping the accumulator unchanged if
// the clipper fails on a degenerate pairing.
func safeUnion(acc, clip polyclip.Polygon) (out polyclip.Polygon) {
	defer func() {
		if recover() != nil {
			out = acc
		}
	}()
	return acc.Construct(polyclip.UNION, clip)
}
