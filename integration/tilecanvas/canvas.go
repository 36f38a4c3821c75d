// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tilecanvas

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/render"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("tilecanvas: canvas is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("tilecanvas: invalid dimensions")

	// ErrNilMap is returned when the view has no map or atlas.
	ErrNilMap = errors.New("tilecanvas: view needs a map and an atlas")
)

// textureDestroyer is the interface for destroying textures.
type textureDestroyer interface {
	Destroy()
}

// Canvas draws one tilemap view into a host window.
//
// Each frame it re-renders the view on the CPU from the map's staging
// buffer when the tiles, transform, camera or size changed, and uploads the
// resulting RGBA image through the host's texture interfaces. The canvas
// never flushes the map, so the map's index texture stays with the host
// its owner flushes it to.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	view     render.View
	renderer *render.SoftwareRenderer
	target   *render.PixmapTarget
	clear    color.RGBA

	texture     gpucontext.Texture // Lazy-created host texture
	oldTexture  gpucontext.Texture // Previous texture awaiting deferred destruction
	dirty       bool               // Needs re-render and upload
	sizeChanged bool               // Resize pending, texture must be recreated
	lastRev     int
	lastTiles   int
	lastXform   tilemap.Transform
	lastCamera  render.Camera
	width       int
	height      int
	closed      bool
}

// New creates a canvas that draws view into a width x height image.
//
// The canvas reads view.Map but never flushes or closes it. When
// view.Tiles is set, the canvas draws that texture instead of the
// staging buffer.
func New(view render.View, width, height int) (*Canvas, error) {
	if view.Map == nil || view.Atlas == nil {
		return nil, ErrNilMap
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		view:     view,
		renderer: render.NewSoftwareRenderer(),
		target:   render.NewPixmapTarget(width, height),
		width:    width,
		height:   height,
		dirty:    true, // Mark dirty so the first frame renders
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(view render.View, width, height int) *Canvas {
	c, err := New(view, width, height)
	if err != nil {
		panic(err)
	}
	return c
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Size returns width and height as a convenience.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// View returns the drawn view.
func (c *Canvas) View() render.View {
	return c.view
}

// SetCamera replaces the view's camera.
func (c *Canvas) SetCamera(cam render.Camera) {
	c.view.Camera = cam
	c.dirty = true
}

// SetClearColor sets the color behind the map.
func (c *Canvas) SetClearColor(col color.Color) {
	c.clear = color.RGBAModel.Convert(col).(color.RGBA)
	c.dirty = true
}

// MarkDirty forces a re-render on the next Flush.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}

// IsDirty returns true if the canvas will re-render on the next Flush.
// Changes of the map's tiles or transform are detected during Flush.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Pick returns the map cell under a canvas pixel position, e.g. the cursor.
func (c *Canvas) Pick(x, y float64) (tx, ty uint32, ok bool) {
	return c.view.Pick(tilemap.Pt(x, y))
}

// Resize changes canvas dimensions.
//
// Returns error if dimensions are invalid or canvas is closed.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if c.width == width && c.height == height {
		return nil
	}

	c.target.Resize(width, height)
	c.width = width
	c.height = height
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Flush brings the CPU image up to date and returns its pixels.
// changed is false when nothing was re-rendered since the last Flush.
func (c *Canvas) Flush() (pixels []byte, changed bool, err error) {
	if c.closed {
		return nil, false, ErrCanvasClosed
	}

	m := c.view.Map
	if rev := m.Revision(); rev != c.lastRev {
		c.lastRev = rev
		c.dirty = true
	}
	if tiles := c.view.Tiles; tiles != nil && tiles.Updates() != c.lastTiles {
		c.lastTiles = tiles.Updates()
		c.dirty = true
	}
	xform := tilemap.IdentityTransform()
	if c.view.Transform != nil {
		xform = c.view.Transform.WorldTransform()
	}
	if xform != c.lastXform || c.view.Camera != c.lastCamera {
		c.lastXform = xform
		c.lastCamera = c.view.Camera
		c.dirty = true
	}

	if !c.dirty {
		return c.target.Pixels(), false, nil
	}

	c.target.Clear(c.clear)
	if err := c.renderer.Render(c.target, c.view); err != nil {
		return nil, false, fmt.Errorf("tilecanvas: render failed: %w", err)
	}
	c.dirty = false
	tilemap.Logger().Debug("tilecanvas: view rendered", "width", c.width, "height", c.height)
	return c.target.Pixels(), true, nil
}

// Texture returns the current host texture without flushing.
// Returns nil if the texture hasn't been created yet.
func (c *Canvas) Texture() gpucontext.Texture {
	return c.texture
}

// Close releases all textures owned by the canvas.
// Close is idempotent. The map is not closed.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	destroy(c.oldTexture)
	c.oldTexture = nil
	destroy(c.texture)
	c.texture = nil
	return nil
}

func destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
