// Package geom is the 2D geometry kernel for panel recovery. Polygons are
// converted to a scaled integer coordinate space before any boolean
// operation and converted back on the way out; all clipping math runs on
// whole-valued coordinates to avoid floating-point robustness failures.
package geom

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// Scale is the fixed-point multiplier: coordinate units (millimeters) are
// multiplied by Scale and rounded before clipping, and divided by Scale on
// the way back out.
const Scale = 1000.0

// Point is a 2D coordinate in millimeters. X increases to the right,
// Y increases up the page (bottom-left origin).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is a closed polygon ring. The closing edge from the last point back
// to the first is implicit.
type Ring []Point

// PolygonWithHoles is one outer ring plus zero or more hole rings. Holes are
// fully contained in the outer ring and mutually non-overlapping; that is an
// invariant established by the boolean difference stage, not re-validated
// here.
type PolygonWithHoles struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Bounds computes the axis-aligned bounding box of a ring. An empty ring
// yields the zero Rect.
func Bounds(ring Ring) Rect {
	if len(ring) == 0 {
		return Rect{}
	}
	min := ring[0]
	max := ring[0]
	for _, p := range ring[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return Rect{Min: min, Max: max}
}

// Rectangle builds a ring for the axis-aligned rectangle spanning
// (x0,y0)-(x1,y1), wound counter-clockwise.
func Rectangle(x0, y0, x1, y1 float64) Ring {
	return Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Circle approximates a circle of the given radius around center with a
// fixed number of segments, wound counter-clockwise.
func Circle(center Point, radius float64, segments int) Ring {
	if segments < 3 || radius <= 0 || !isFinite(radius) {
		return nil
	}
	ring := make(Ring, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return ring
}

// Area returns the absolute area of a ring in square millimeters. The
// shoelace sum is evaluated on the fixed-point integer coordinates so the
// result is consistent with the boolean stages, then rescaled.
func Area(ring Ring) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum int64
	n := len(ring)
	for i := 0; i < n; i++ {
		a := fixPoint(ring[i])
		b := fixPoint(ring[(i+1)%n])
		sum += a.x*b.y - b.x*a.y
	}
	if sum < 0 {
		sum = -sum
	}
	return float64(sum) / 2 / (Scale * Scale)
}

// NetArea returns the outer area minus the sum of all hole areas, clamped
// at zero.
func NetArea(p PolygonWithHoles) float64 {
	a := Area(p.Outer)
	for _, h := range p.Holes {
		a -= Area(h)
	}
	return math.Max(a, 0)
}

// fixed is an integer fixed-point coordinate.
type fixed struct {
	x, y int64
}

func fixPoint(p Point) fixed {
	return fixed{
		x: int64(math.Round(p.X * Scale)),
		y: int64(math.Round(p.Y * Scale)),
	}
}

// toFixed converts a ring to a polyclip contour in fixed-point space. The
// contour coordinates are whole-valued float64s.
func toFixed(ring Ring) polyclip.Contour {
	c := make(polyclip.Contour, 0, len(ring))
	for _, p := range ring {
		f := fixPoint(p)
		c = append(c, polyclip.Point{X: float64(f.x), Y: float64(f.y)})
	}
	return c
}

// fromFixed converts a polyclip contour back to millimeter coordinates.
func fromFixed(c polyclip.Contour) Ring {
	ring := make(Ring, 0, len(c))
	for _, p := range c {
		ring = append(ring, Point{X: p.X / Scale, Y: p.Y / Scale})
	}
	return ring
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
