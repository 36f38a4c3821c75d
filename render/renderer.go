// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/tilemap"
)

// Renderer draws a map view to a target.
//
// Renderers are stateless between Render calls, allowing the same renderer
// to be used with different targets and views.
//
// Thread Safety: Renderers are NOT thread-safe.
type Renderer interface {
	// Render draws the view to the target. Pixels not covered by the map
	// are left untouched.
	Render(target RenderTarget, view View) error
}

// View is everything needed to draw one map.
type View struct {
	// Map is the map to draw.
	Map *tilemap.Map

	// Transform is the map entity's world transform. Nil means identity.
	Transform tilemap.TransformSource

	// Atlas is the atlas image laid out as Map.Atlas describes.
	Atlas image.Image

	// Camera maps world space to target pixels.
	Camera Camera

	// Tiles, when set, is read instead of the map's staging buffer, so the
	// image shows what was last flushed to that texture.
	Tiles *MemoryTexture
}

func (v View) transform() tilemap.Transform {
	if v.Transform == nil {
		return tilemap.IdentityTransform()
	}
	return v.Transform.WorldTransform()
}

// Pick returns the map cell under a target pixel position, the same way a
// host would hit-test a cursor. ok is false outside the map.
func (v View) Pick(pixel tilemap.Point) (x, y uint32, ok bool) {
	if v.Map == nil {
		return 0, 0, false
	}
	world := v.Camera.ScreenToWorld(pixel)
	tile := tilemap.WorldToMap(world, v.transform(), v.Map.Projection())
	return v.Map.TileAt(tile)
}

// Camera maps world space to target pixels: a pixel p shows world point
// Origin + p/Zoom.
type Camera struct {
	// Origin is the world point at the target's top-left corner.
	Origin tilemap.Point

	// Zoom is the number of pixels per world unit. Zero means 1.
	Zoom float64
}

func (c Camera) zoom() float64 {
	if c.Zoom == 0 {
		return 1
	}
	return c.Zoom
}

// Matrix returns the world-to-pixel matrix.
func (c Camera) Matrix() tilemap.Matrix {
	z := c.zoom()
	return tilemap.Scale(z, z).Multiply(tilemap.Translate(-c.Origin.X, -c.Origin.Y))
}

// ScreenToWorld converts a target pixel position to world space.
func (c Camera) ScreenToWorld(p tilemap.Point) tilemap.Point {
	return p.Mul(1 / c.zoom()).Add(c.Origin)
}

// WorldToScreen converts a world point to a target pixel position.
func (c Camera) WorldToScreen(p tilemap.Point) tilemap.Point {
	return c.Matrix().TransformPoint(p)
}

// FitCamera returns a camera that shows the whole map, centred, inside a
// width x height target with margin pixels on each side.
func FitCamera(m *tilemap.Map, t tilemap.Transform, width, height int, margin float64) Camera {
	b := m.LocalBounds()
	corners := []tilemap.Point{
		b.Min, tilemap.Pt(b.Max.X, b.Min.Y), tilemap.Pt(b.Min.X, b.Max.Y), b.Max,
	}
	mat := t.Matrix()
	world := tilemap.Rect{Min: mat.TransformPoint(corners[0]), Max: mat.TransformPoint(corners[0])}
	for _, c := range corners[1:] {
		p := mat.TransformPoint(c)
		world.Min.X = min(world.Min.X, p.X)
		world.Min.Y = min(world.Min.Y, p.Y)
		world.Max.X = max(world.Max.X, p.X)
		world.Max.Y = max(world.Max.Y, p.Y)
	}

	availW := float64(width) - 2*margin
	availH := float64(height) - 2*margin
	if world.Width() <= 0 || world.Height() <= 0 || availW <= 0 || availH <= 0 {
		return Camera{Origin: world.Min, Zoom: 1}
	}
	zoom := min(availW/world.Width(), availH/world.Height())
	half := tilemap.Pt(float64(width), float64(height)).Mul(0.5 / zoom)
	return Camera{Origin: world.Center().Sub(half), Zoom: zoom}
}
