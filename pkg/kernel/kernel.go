// Package kernel defines the abstract mesh kernel interface used to turn
// recovered 2D panel geometry into displayable solids. Implementations
// (sdfx) provide extrusion and boolean operations behind this interface,
// so the meshing backend can be swapped without changing the rest of the
// system.
package kernel

import "github.com/chazu/cixview/pkg/geom"

// Solid is an opaque handle to a kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract mesh kernel interface.
type Kernel interface {
	// ExtrudePanel extrudes an outer ring with holes to the given
	// thickness. The solid's bottom face sits on z=0.
	ExtrudePanel(outer geom.Ring, holes []geom.Ring, thickness float64) (Solid, error)

	// Cylinder creates an upright cylinder of the given height and
	// radius with its base on z=0.
	Cylinder(height, radius float64) (Solid, error)

	// Difference returns a minus b.
	Difference(a, b Solid) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh converts a solid to a triangle mesh.
	ToMesh(s Solid) (*Mesh, error)
}
