// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/chazu/cixview/pkg/geom"
	"github.com/chazu/cixview/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// toVecs converts a geometry ring to sdfx 2D vectors, reversing the ring if
// needed so the polygon winds counter-clockwise, which sdf.Polygon2D
// expects for a positive region.
func toVecs(ring geom.Ring) []v2.Vec {
	pts := make([]v2.Vec, 0, len(ring))
	if signedArea(ring) < 0 {
		for i := len(ring) - 1; i >= 0; i-- {
			pts = append(pts, v2.Vec{X: ring[i].X, Y: ring[i].Y})
		}
	} else {
		for _, p := range ring {
			pts = append(pts, v2.Vec{X: p.X, Y: p.Y})
		}
	}
	return pts
}

func signedArea(ring geom.Ring) float64 {
	sum := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// ExtrudePanel extrudes a panel outline with holes to the given thickness.
// sdf.Extrude3D centers the solid on the XY plane, so we shift it up by
// half the thickness to put the bottom face on z=0.
func (k *SdfxKernel) ExtrudePanel(outer geom.Ring, holes []geom.Ring, thickness float64) (kernel.Solid, error) {
	if len(outer) < 3 || thickness <= 0 {
		return nil, fmt.Errorf("degenerate panel: %d outline points, thickness %v", len(outer), thickness)
	}

	region, err := sdf.Polygon2D(toVecs(outer))
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D(outer): %w", err)
	}
	for i, h := range holes {
		if len(h) < 3 {
			continue
		}
		hole, err := sdf.Polygon2D(toVecs(h))
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D(hole %d): %w", i, err)
		}
		region = sdf.Difference2D(region, hole)
	}

	solid := sdf.Extrude3D(region, thickness)
	m := sdf.Translate3d(v3.Vec{Z: thickness / 2})
	return wrap(sdf.Transform3D(solid, m)), nil
}

// Cylinder creates an upright cylinder with its base on z=0.
// sdf.Cylinder3D centers the solid, so we shift it up by half the height.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("degenerate cylinder: height %v, radius %v", height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
