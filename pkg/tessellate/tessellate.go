// Package tessellate turns a recovered CIX document into triangle meshes
// using a mesh kernel: one mesh per recovered panel (holes subtracted), one
// per removed-material piece, and one cylinder per unclaimed drill hole.
// The tessellator is read-only and never mutates the document.
package tessellate

import (
	"fmt"

	"github.com/chazu/cixview/pkg/cix"
	"github.com/chazu/cixview/pkg/geom"
	"github.com/chazu/cixview/pkg/kernel"
)

// fallbackThickness is used when the document carries no usable sheet
// thickness; the viewer still needs a non-degenerate solid.
const fallbackThickness = 1.0

// Tessellate produces display meshes for a parsed and recovered document.
// Panels are named after the label they contain when one exists, removed
// material pieces are named "removed-N", and unclaimed drill holes become
// "drill-N" cylinders. A document without recovery output yields no meshes.
func Tessellate(doc *cix.Document, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if doc == nil || doc.Recovery == nil {
		return nil, nil
	}

	thickness := doc.SheetThickness
	if thickness <= 0 {
		thickness = fallbackThickness
	}

	var meshes []*kernel.Mesh

	for i, p := range doc.Recovery.Panels {
		mesh, err := panelMesh(doc, k, p, thickness)
		if err != nil {
			return nil, fmt.Errorf("tessellate: panel %d: %w", i, err)
		}
		if mesh.PartName == "" {
			mesh.PartName = fmt.Sprintf("panel-%d", i+1)
		}
		meshes = append(meshes, mesh)
	}

	for i, r := range doc.Recovery.Removed {
		if len(r.Outer) < 3 {
			continue
		}
		solid, err := k.ExtrudePanel(r.Outer, r.Holes, thickness)
		if err != nil {
			// Removed material is decoration for the viewer; skip
			// slivers the kernel rejects.
			continue
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: removed piece %d: %w", i, err)
		}
		mesh.PartName = fmt.Sprintf("removed-%d", i+1)
		meshes = append(meshes, mesh)
	}

	drillMeshes, err := unclaimedDrillMeshes(doc, k, thickness)
	if err != nil {
		return nil, err
	}
	meshes = append(meshes, drillMeshes...)

	return meshes, nil
}

// panelMesh extrudes one recovered panel. Claimed drill circles are already
// part of the panel's hole list, so the extrusion carries them for free.
func panelMesh(doc *cix.Document, k kernel.Kernel, p cix.RecoveredPanel, thickness float64) (*kernel.Mesh, error) {
	solid, err := k.ExtrudePanel(p.Outer, p.Holes, thickness)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	mesh.PartName = panelName(doc, p)
	return mesh, nil
}

// panelName names a panel after the first label sitting inside it.
func panelName(doc *cix.Document, p cix.RecoveredPanel) string {
	poly := geom.PolygonWithHoles{Outer: p.Outer, Holes: p.Holes}
	for _, l := range doc.Labels {
		if l.ID != "" && geom.PointInPolygon(l.Position, poly) {
			return l.ID
		}
	}
	return ""
}

// unclaimedDrillMeshes renders the drill holes no panel claimed as plain
// cylinders so they stay visible in the scene.
func unclaimedDrillMeshes(doc *cix.Document, k kernel.Kernel, thickness float64) ([]*kernel.Mesh, error) {
	claimed := map[geom.Point]bool{}
	for _, p := range doc.Recovery.Panels {
		for _, d := range p.Drills {
			claimed[d.Position] = true
		}
	}

	var meshes []*kernel.Mesh
	for i, d := range doc.Drills {
		if claimed[d.Position] || d.Diameter <= 0 {
			continue
		}
		height := d.Depth
		if height <= 0 || height > thickness {
			height = thickness
		}
		solid, err := k.Cylinder(height, d.Diameter/2)
		if err != nil {
			continue
		}
		solid = k.Translate(solid, d.Position.X, d.Position.Y, 0)
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: drill %d: %w", i, err)
		}
		mesh.PartName = fmt.Sprintf("drill-%d", i+1)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
