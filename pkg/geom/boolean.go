package geom

import (
	"fmt"

	polyclip "github.com/ctessum/polyclip-go"
)

// Union merges a set of rings into a minimal set of non-overlapping rings
// (non-zero fill). An empty input yields an empty result. Clipping failures
// are reported as an error, never as a panic.
func Union(rings []Ring) (result []Ring, err error) {
	defer recoverClip(&err, "union")

	var acc polyclip.Polygon
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		clip := polyclip.Polygon{toFixed(r)}
		if acc == nil {
			acc = clip
			continue
		}
		acc = acc.Construct(polyclip.UNION, clip)
	}
	for _, c := range acc {
		if len(c) >= 3 {
			result = append(result, fromFixed(c))
		}
	}
	return result, nil
}

// DifferenceFlat computes subject minus clip and returns the resulting
// contours as a flat list, discarding any hole structure. This is the
// fallback form used when the hierarchical difference cannot be applied.
func DifferenceFlat(subject, clip []Ring) (result []Ring, err error) {
	defer recoverClip(&err, "difference")

	out := rawDifference(subject, clip)
	for _, c := range out {
		if len(c) >= 3 {
			result = append(result, fromFixed(c))
		}
	}
	return result, nil
}

// Difference computes subject minus clip and classifies the resulting
// contours into a forest of outer regions with directly-nested holes.
// Contours at even containment depth are outer rings; contours at odd depth
// become holes of their immediate (smallest enclosing) outer ring. Nested
// islands inside holes surface as their own outer regions.
func Difference(subject, clip []Ring) (result []PolygonWithHoles, err error) {
	defer recoverClip(&err, "difference")

	out := rawDifference(subject, clip)
	rings := make([]Ring, 0, len(out))
	for _, c := range out {
		if len(c) >= 3 {
			rings = append(rings, fromFixed(c))
		}
	}
	return classifyForest(rings), nil
}

// rawDifference runs the clipper in fixed-point space.
func rawDifference(subject, clip []Ring) polyclip.Polygon {
	var subj polyclip.Polygon
	for _, r := range subject {
		if len(r) >= 3 {
			subj = append(subj, toFixed(r))
		}
	}
	var cl polyclip.Polygon
	for _, r := range clip {
		if len(r) >= 3 {
			cl = append(cl, toFixed(r))
		}
	}
	if subj == nil {
		return nil
	}
	if cl == nil {
		return subj
	}
	return subj.Construct(polyclip.DIFFERENCE, cl)
}

// classifyForest assigns each ring a containment depth and attaches
// odd-depth rings as holes of their smallest enclosing even-depth ring.
func classifyForest(rings []Ring) []PolygonWithHoles {
	n := len(rings)
	if n == 0 {
		return nil
	}

	bounds := make([]Rect, n)
	areas := make([]float64, n)
	for i, r := range rings {
		bounds[i] = Bounds(r)
		areas[i] = Area(r)
	}

	// parents[i] lists every ring that contains ring i.
	depth := make([]int, n)
	parents := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if !rectContains(bounds[j], bounds[i]) || areas[j] <= areas[i] {
				continue
			}
			if ringContainsRing(rings[j], rings[i]) {
				parents[i] = append(parents[i], j)
				depth[i]++
			}
		}
	}

	polys := make(map[int]*PolygonWithHoles)
	var order []int
	for i := 0; i < n; i++ {
		if depth[i]%2 == 0 {
			polys[i] = &PolygonWithHoles{Outer: rings[i]}
			order = append(order, i)
		}
	}
	for i := 0; i < n; i++ {
		if depth[i]%2 == 0 {
			continue
		}
		// Immediate parent: the smallest containing outer ring.
		parent := -1
		for _, j := range parents[i] {
			if depth[j]%2 != 0 {
				continue
			}
			if parent == -1 || areas[j] < areas[parent] {
				parent = j
			}
		}
		if parent >= 0 {
			polys[parent].Holes = append(polys[parent].Holes, rings[i])
		}
	}

	result := make([]PolygonWithHoles, 0, len(order))
	for _, i := range order {
		result = append(result, *polys[i])
	}
	return result
}

// ringContainsRing reports whether inner lies inside outer, testing a
// representative vertex. Contours coming out of a boolean operation do not
// cross, so one vertex decides containment.
func ringContainsRing(outer, inner Ring) bool {
	if len(inner) == 0 {
		return false
	}
	return PointInRing(inner[0], outer)
}

func rectContains(outer, inner Rect) bool {
	return outer.Min.X <= inner.Min.X+BoundaryEpsilon &&
		outer.Min.Y <= inner.Min.Y+BoundaryEpsilon &&
		outer.Max.X >= inner.Max.X-BoundaryEpsilon &&
		outer.Max.Y >= inner.Max.Y-BoundaryEpsilon
}

// recoverClip converts a clipper panic into an error so geometry failures
// degrade instead of aborting recovery.
func recoverClip(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("polygon %s failed: %v", op, r)
	}
}
