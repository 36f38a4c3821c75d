// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilecanvas

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/render"
)

// mockTexture implements the texture interfaces for testing.
type mockTexture struct {
	width     int
	height    int
	data      []byte
	destroyed bool
	updated   int
}

func (m *mockTexture) Width() int  { return m.width }
func (m *mockTexture) Height() int { return m.height }

func (m *mockTexture) UpdateData(data []byte) error {
	m.data = append(m.data[:0], data...)
	m.updated++
	return nil
}

func (m *mockTexture) Destroy() {
	m.destroyed = true
}

// mockCreator implements gpucontext.TextureCreator for testing.
type mockCreator struct {
	textures []*mockTexture
	failNext bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: append([]byte(nil), data...)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

// mockDrawContext implements gpucontext.TextureDrawer for testing.
type mockDrawContext struct {
	creator      *mockCreator
	drawnTexture gpucontext.Texture
	drawnX       float32
	drawnY       float32
	drawCount    int
}

func (m *mockDrawContext) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	m.drawnTexture = tex
	m.drawnX = x
	m.drawnY = y
	m.drawCount++
	return nil
}

func (m *mockDrawContext) TextureCreator() gpucontext.TextureCreator {
	if m.creator == nil {
		return nil
	}
	return m.creator
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

// newTestView returns a 4x4 orthogonal map of 8x8 tiles filled with red.
func newTestView(t *testing.T) render.View {
	t.Helper()
	m, err := tilemap.New(tilemap.Sz(4, 4), tilemap.Pt(8, 8),
		tilemap.WithAtlasSize(tilemap.Sz(24, 8)), tilemap.WithFill(1))
	if err != nil {
		t.Fatalf("tilemap.New: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })

	atlas, err := render.NewAtlasImage(m.Atlas(), render.AtlasStyle{Colors: []color.RGBA{{}, red, blue}})
	if err != nil {
		t.Fatalf("NewAtlasImage: %v", err)
	}
	return render.View{Map: m, Atlas: atlas}
}

func pixelAt(data []byte, width, x, y int) color.RGBA {
	o := (y*width + x) * 4
	return color.RGBA{R: data[o], G: data[o+1], B: data[o+2], A: data[o+3]}
}

func TestNew(t *testing.T) {
	view := newTestView(t)

	tests := []struct {
		name    string
		view    render.View
		width   int
		height  int
		wantErr error
	}{
		{"valid", view, 32, 32, nil},
		{"no map", render.View{Atlas: view.Atlas}, 32, 32, ErrNilMap},
		{"no atlas", render.View{Map: view.Map}, 32, 32, ErrNilMap},
		{"zero width", view, 0, 32, ErrInvalidDimensions},
		{"negative height", view, 32, -1, ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.view, tt.width, tt.height)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error = %v", err)
			}
			defer c.Close()

			if w, h := c.Size(); w != tt.width || h != tt.height {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
			if !c.IsDirty() {
				t.Error("IsDirty() = false, want true (newly created)")
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew did not panic on invalid view")
		}
	}()
	MustNew(render.View{}, 1, 1)
}

func TestRenderTo(t *testing.T) {
	view := newTestView(t)
	c := MustNew(view, 32, 32)
	defer c.Close()

	creator := &mockCreator{}
	dc := &mockDrawContext{creator: creator}

	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if len(creator.textures) != 1 {
		t.Fatalf("textures created = %d, want 1", len(creator.textures))
	}
	tex := creator.textures[0]
	if dc.drawnTexture != tex || dc.drawCount != 1 {
		t.Errorf("drew %v %d times, want the created texture once", dc.drawnTexture, dc.drawCount)
	}
	if got := pixelAt(tex.data, 32, 3, 3); got != red {
		t.Errorf("pixel (3,3) = %v, want red", got)
	}
	if c.IsDirty() {
		t.Error("canvas dirty after RenderTo")
	}

	// Nothing changed: no upload.
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("second RenderTo: %v", err)
	}
	if tex.updated != 0 {
		t.Errorf("updates = %d, want 0", tex.updated)
	}

	// A tile change is picked up through the map's encode revision.
	if err := view.Map.WithIndexer(func(ix *tilemap.Indexer) error {
		return ix.Set(0, 0, 2)
	}); err != nil {
		t.Fatalf("WithIndexer: %v", err)
	}
	if err := c.RenderToPosition(dc, 10, 20); err != nil {
		t.Fatalf("third RenderTo: %v", err)
	}
	if tex.updated != 1 {
		t.Errorf("updates = %d, want 1", tex.updated)
	}
	if got := pixelAt(tex.data, 32, 3, 3); got != blue {
		t.Errorf("pixel (3,3) after Set = %v, want blue", got)
	}
	if dc.drawnX != 10 || dc.drawnY != 20 {
		t.Errorf("drawn at (%v, %v), want (10, 20)", dc.drawnX, dc.drawnY)
	}
	if len(creator.textures) != 1 {
		t.Errorf("textures created = %d, want 1 (reuse)", len(creator.textures))
	}
}

func TestRenderToTransformChange(t *testing.T) {
	view := newTestView(t)
	xform := tilemap.IdentityTransform()
	view.Transform = tilemap.TransformFunc(func() tilemap.Transform { return xform })

	c := MustNew(view, 64, 64)
	defer c.Close()
	dc := &mockDrawContext{creator: &mockCreator{}}

	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	tex := dc.creator.textures[0]
	if got := pixelAt(tex.data, 64, 40, 40); got != (color.RGBA{}) {
		t.Errorf("pixel (40,40) = %v, want empty before move", got)
	}

	xform.Translation = tilemap.Pt(32, 32)
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo after move: %v", err)
	}
	if tex.updated != 1 {
		t.Fatalf("updates = %d, want 1", tex.updated)
	}
	if got := pixelAt(tex.data, 64, 40, 40); got != red {
		t.Errorf("pixel (40,40) = %v, want red after move", got)
	}
}

func TestCanvasPick(t *testing.T) {
	view := newTestView(t)
	c := MustNew(view, 32, 32)
	defer c.Close()

	c.SetCamera(render.Camera{Zoom: 2})
	if x, y, ok := c.Pick(20, 40); !ok || x != 1 || y != 2 {
		t.Errorf("Pick(20, 40) = (%d, %d, %v), want (1, 2, true)", x, y, ok)
	}
	if _, _, ok := c.Pick(-1, 0); ok {
		t.Error("Pick(-1, 0) inside map")
	}
}

func TestCanvasResize(t *testing.T) {
	view := newTestView(t)
	c := MustNew(view, 32, 32)
	defer c.Close()
	dc := &mockDrawContext{creator: &mockCreator{}}

	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if err := c.Resize(0, 10); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("Resize(0, 10) error = %v, want ErrInvalidDimensions", err)
	}
	if err := c.Resize(16, 16); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo after resize: %v", err)
	}

	textures := dc.creator.textures
	if len(textures) != 2 {
		t.Fatalf("textures created = %d, want 2", len(textures))
	}
	if !textures[0].destroyed {
		t.Error("old texture not destroyed after resize")
	}
	if textures[1].width != 16 || textures[1].height != 16 {
		t.Errorf("new texture = %dx%d, want 16x16", textures[1].width, textures[1].height)
	}
}

func TestRenderToErrors(t *testing.T) {
	view := newTestView(t)

	c := MustNew(view, 8, 8)
	if err := c.RenderTo(&mockDrawContext{}); !errors.Is(err, ErrInvalidRenderer) {
		t.Errorf("nil creator error = %v, want ErrInvalidRenderer", err)
	}

	dc := &mockDrawContext{creator: &mockCreator{failNext: true}}
	if err := c.RenderTo(dc); err == nil {
		t.Error("RenderTo succeeded with failing creator")
	}
	if err := c.RenderTo(dc); err != nil {
		t.Errorf("RenderTo retry: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !dc.creator.textures[0].destroyed {
		t.Error("texture not destroyed by Close")
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := c.RenderTo(dc); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("RenderTo after Close = %v, want ErrCanvasClosed", err)
	}
	if err := c.Resize(4, 4); !errors.Is(err, ErrCanvasClosed) {
		t.Errorf("Resize after Close = %v, want ErrCanvasClosed", err)
	}
}

func TestCanvasLeavesMapTextureToOwner(t *testing.T) {
	view := newTestView(t)
	c := MustNew(view, 32, 32)
	defer c.Close()

	dc := &mockDrawContext{creator: &mockCreator{}}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	if tex := view.Map.Texture(); tex != nil {
		t.Fatalf("map texture = %T after canvas render, want none", tex)
	}
	if !view.Map.IsDirty() {
		t.Error("canvas render cleared the map's dirty flag")
	}

	// The owner's host receives the first upload.
	host := render.NewMemoryHost()
	if err := view.Map.Flush(host); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(host.Textures()) != 1 || view.Map.Texture() != host.Textures()[0] {
		t.Error("map texture not created on the owner's host")
	}
}

func TestCanvasFollowsFlushedTiles(t *testing.T) {
	view := newTestView(t)
	host := render.NewMemoryHost()
	if err := view.Map.Flush(host); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	view.Tiles = host.Textures()[0]

	c := MustNew(view, 32, 32)
	defer c.Close()
	dc := &mockDrawContext{creator: &mockCreator{}}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo: %v", err)
	}
	tex := dc.creator.textures[0]

	if err := view.Map.WithIndexer(func(ix *tilemap.Indexer) error {
		return ix.Set(0, 0, 2)
	}); err != nil {
		t.Fatalf("WithIndexer: %v", err)
	}
	if err := view.Map.Flush(host); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := c.RenderTo(dc); err != nil {
		t.Fatalf("RenderTo after flush: %v", err)
	}
	if got := pixelAt(tex.data, 32, 3, 3); got != blue {
		t.Errorf("pixel (3,3) = %v, want blue after flush", got)
	}
}
