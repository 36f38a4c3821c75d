// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/tilemap"
)

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

// newTestMap builds a map whose atlas holds three tiles: transparent
// background, red and blue.
func newTestMap(t *testing.T, size tilemap.Size, tileSize tilemap.Point, opts ...tilemap.Option) (*tilemap.Map, *image.RGBA) {
	t.Helper()

	atlasSize := tilemap.Sz(uint32(3*tileSize.X), uint32(tileSize.Y))
	opts = append([]tilemap.Option{tilemap.WithAtlasSize(atlasSize), tilemap.WithFill(1)}, opts...)
	m, err := tilemap.New(size, tileSize, opts...)
	if err != nil {
		t.Fatalf("tilemap.New: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	shape := ShapeRect
	if m.Projection().Kind() == tilemap.Axonometric {
		shape = ShapeDiamond
	}
	img, err := NewAtlasImage(m.Atlas(), AtlasStyle{
		Colors: []color.RGBA{{}, red, blue},
		Shape:  shape,
	})
	if err != nil {
		t.Fatalf("NewAtlasImage: %v", err)
	}
	return m, img
}

func TestSoftwareRendererOrthogonal(t *testing.T) {
	m, atlas := newTestMap(t, tilemap.Sz(4, 4), tilemap.Pt(32, 32))
	if err := m.WithIndexer(func(ix *tilemap.Indexer) error {
		return ix.Set(1, 2, 2)
	}); err != nil {
		t.Fatalf("WithIndexer: %v", err)
	}

	target := NewPixmapTarget(160, 128)
	view := View{Map: m, Atlas: atlas}
	if err := NewSoftwareRenderer().Render(target, view); err != nil {
		t.Fatalf("Render: %v", err)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"first tile", 10, 10, red},
		{"set tile", 40, 70, blue},
		{"set tile far corner", 63, 95, blue},
		{"neighbour of set tile", 64, 95, red},
		{"outside map", 150, 10, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := target.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSoftwareRendererAxonometric(t *testing.T) {
	m, atlas := newTestMap(t, tilemap.Sz(4, 4), tilemap.Pt(40, 20), tilemap.WithProjection(tilemap.Axonometric))
	if err := m.WithIndexer(func(ix *tilemap.Indexer) error {
		return ix.Set(2, 1, 2)
	}); err != nil {
		t.Fatalf("WithIndexer: %v", err)
	}

	// Local bounds are x in [0, 160], y in [-40, 40].
	view := View{Map: m, Atlas: atlas, Camera: Camera{Origin: tilemap.Pt(0, -40), Zoom: 1}}
	target := NewPixmapTarget(160, 80)
	if err := NewSoftwareRenderer().Render(target, view); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Cell (2, 1) is centred at local (80, -10), pixel (80, 30).
	if got := target.RGBAAt(79, 29); got != blue {
		t.Errorf("centre of cell (2,1) = %v, want blue", got)
	}
	// Cell (0, 0) is centred at local (20, 0), pixel (20, 40).
	if got := target.RGBAAt(20, 40); got != red {
		t.Errorf("centre of cell (0,0) = %v, want red", got)
	}
	// Top-left corner of the bounds is outside every diamond.
	if got := target.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("corner pixel = %v, want untouched", got)
	}

	x, y, ok := view.Pick(tilemap.Pt(79, 29))
	if !ok || x != 2 || y != 1 {
		t.Errorf("Pick(79, 29) = (%d, %d, %v), want (2, 1, true)", x, y, ok)
	}
	if _, _, ok := view.Pick(tilemap.Pt(1, 1)); ok {
		t.Error("Pick(1, 1) reported a cell outside the map")
	}
}

func TestViewPickHex(t *testing.T) {
	for _, kind := range []tilemap.ProjectionKind{tilemap.HexPointy, tilemap.HexFlat} {
		t.Run(kind.String(), func(t *testing.T) {
			m, err := tilemap.New(tilemap.Sz(6, 5), tilemap.Pt(32, 32), tilemap.WithProjection(kind))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer m.Close()

			src := tilemap.Transform{Translation: tilemap.Pt(100, 50), Scale: tilemap.Pt(2, 2)}
			view := View{Map: m, Transform: src, Camera: Camera{Zoom: 0.5}}

			for y := uint32(0); y < 5; y++ {
				for x := uint32(0); x < 6; x++ {
					world := m.MapToWorld(tilemap.Pt(float64(x)+0.5, float64(y)+0.5), src)
					pixel := view.Camera.WorldToScreen(world)
					gx, gy, ok := view.Pick(pixel)
					if !ok || gx != x || gy != y {
						t.Errorf("Pick(centre of %d,%d) = (%d, %d, %v)", x, y, gx, gy, ok)
					}
				}
			}
		})
	}
}

func TestSoftwareRendererReadsFlushedTexture(t *testing.T) {
	m, atlas := newTestMap(t, tilemap.Sz(2, 2), tilemap.Pt(16, 16))
	host := NewMemoryHost()
	if err := m.Flush(host); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	tex := m.Texture().(*MemoryTexture)

	if err := m.WithIndexer(func(ix *tilemap.Indexer) error {
		return ix.Fill(2)
	}); err != nil {
		t.Fatalf("WithIndexer: %v", err)
	}

	renderer := NewSoftwareRenderer()
	target := NewPixmapTarget(32, 32)
	if err := renderer.Render(target, View{Map: m, Atlas: atlas, Tiles: tex}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := target.RGBAAt(8, 8); got != red {
		t.Errorf("before Flush pixel = %v, want red (stale texture)", got)
	}

	if err := m.Flush(host); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if err := renderer.Render(target, View{Map: m, Atlas: atlas, Tiles: tex}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := target.RGBAAt(8, 8); got != blue {
		t.Errorf("after Flush pixel = %v, want blue", got)
	}
}

func TestSoftwareRendererErrors(t *testing.T) {
	m, atlas := newTestMap(t, tilemap.Sz(2, 2), tilemap.Pt(16, 16))
	renderer := NewSoftwareRenderer()
	target := NewPixmapTarget(8, 8)

	if err := renderer.Render(target, View{Atlas: atlas}); !errors.Is(err, ErrNilMap) {
		t.Errorf("nil map error = %v, want ErrNilMap", err)
	}
	if err := renderer.Render(target, View{Map: m}); !errors.Is(err, ErrNilAtlas) {
		t.Errorf("nil atlas error = %v, want ErrNilAtlas", err)
	}
	if err := renderer.Render(nil, View{Map: m, Atlas: atlas}); err == nil {
		t.Error("nil target accepted")
	}

	// A zero-scale transform is singular and draws nothing.
	flat := tilemap.Transform{Scale: tilemap.Pt(0, 1)}
	if err := renderer.Render(target, View{Map: m, Atlas: atlas, Transform: flat}); err != nil {
		t.Errorf("singular transform error = %v, want nil", err)
	}
	if got := target.RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("singular transform drew %v", got)
	}
}

func TestFitCamera(t *testing.T) {
	m, err := tilemap.New(tilemap.Sz(10, 5), tilemap.Pt(10, 10))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close()

	cam := FitCamera(m, tilemap.IdentityTransform(), 220, 120, 10)
	// The map is 100x50 world units; 200x100 pixels are available.
	if cam.Zoom != 2 {
		t.Errorf("Zoom = %v, want 2", cam.Zoom)
	}
	got := cam.WorldToScreen(tilemap.Pt(50, 25))
	if got.X != 110 || got.Y != 60 {
		t.Errorf("map centre on screen = %v, want (110, 60)", got)
	}
	back := cam.ScreenToWorld(got)
	if back.X != 50 || back.Y != 25 {
		t.Errorf("ScreenToWorld round trip = %v, want (50, 25)", back)
	}
}
