package main

import (
	"context"
	"log"

	"github.com/chazu/cixview/pkg/cix"
	"github.com/chazu/cixview/pkg/kernel"
	"github.com/chazu/cixview/pkg/kernel/sdfx"
	"github.com/chazu/cixview/pkg/panel"
	"github.com/chazu/cixview/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to panels.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// removedColor marks removed-material meshes so the frontend can render
// them translucent.
const removedColor = "#555555"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	kernel kernel.Kernel
	opts   panel.Options
}

// NewApp creates a new App with the sdfx kernel and default recovery options.
func NewApp() *App {
	return &App{
		kernel: sdfx.New(),
		opts:   panel.DefaultOptions(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// SheetData describes the stock sheet for the frontend.
type SheetData struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Thickness float64 `json:"thickness"`
}

// LoadResult is the full result returned to the frontend for one CIX file.
type LoadResult struct {
	Sheet       SheetData             `json:"sheet"`
	Labels      []cix.LabelPlacement  `json:"labels"`
	Drills      []cix.DrillHole       `json:"drills"`
	Panels      []cix.RecoveredPanel  `json:"panels"`
	Meshes      []MeshData            `json:"meshes"`
	Diagnostics []string              `json:"diagnostics"`
}

// LoadCIX parses CIX source, recovers the panel geometry and tessellates it
// into display meshes. This is the primary binding called by the frontend.
// It always returns a usable result; failures shorten the mesh list and
// append diagnostics instead of erroring.
func (a *App) LoadCIX(source, name string) LoadResult {
	doc := cix.Parse(source, name)
	panels := panel.Recover(doc, a.opts)

	result := LoadResult{
		Sheet: SheetData{
			Width:     doc.SheetWidth,
			Height:    doc.SheetHeight,
			Thickness: doc.SheetThickness,
		},
		Labels: doc.Labels,
		Drills: doc.Drills,
		Panels: panels,
		Meshes: []MeshData{},
	}

	meshes, err := tessellate.Tessellate(doc, a.kernel)
	if err != nil {
		log.Printf("LoadCIX tessellate error: %v", err)
		doc.Diag("tessellation failed: %v", err)
	}

	panelIdx := 0
	for _, m := range meshes {
		color := removedColor
		if !isRemovedPart(m.PartName) {
			color = colorPalette[panelIdx%len(colorPalette)]
			panelIdx++
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    color,
		})
	}

	result.Diagnostics = doc.Diagnostics
	return result
}

func isRemovedPart(name string) bool {
	return len(name) > 8 && name[:8] == "removed-"
}
