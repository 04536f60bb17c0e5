package geom

import "math"

// BoundaryEpsilon is the absolute distance (in millimeters) within which a
// point is considered to lie on a ring edge. It is a fixed tolerance, not
// scaled with geometry size, so the plain and holes-aware tests agree.
const BoundaryEpsilon = 1e-6

// PointInRing reports whether p lies inside the ring (ray-casting test).
// Points within BoundaryEpsilon of an edge are classified as inside.
func PointInRing(p Point, ring Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	// Boundary-adjacent points count as inside.
	for i := 0; i < n; i++ {
		if distToSegment(p, ring[i], ring[(i+1)%n]) <= BoundaryEpsilon {
			return true
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// PointInPolygon reports whether p lies inside the outer ring and outside
// every hole ring. The same boundary tolerance applies to both tests, so a
// point on a hole edge is treated as belonging to the hole.
func PointInPolygon(p Point, poly PolygonWithHoles) bool {
	if !PointInRing(p, poly.Outer) {
		return false
	}
	for _, h := range poly.Holes {
		if PointInRing(p, h) {
			return false
		}
	}
	return true
}

// distToSegment returns the distance from p to the segment a-b.
func distToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
