// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tilecanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/tilemap"
)

// ErrInvalidRenderer is returned when the draw context has no texture creator.
var ErrInvalidRenderer = errors.New("tilecanvas: draw context has no gpucontext.TextureCreator")

// RenderOptions controls where the canvas is drawn.
type RenderOptions struct {
	// X, Y is the position to draw the texture (default: 0, 0)
	X, Y float32
}

// DefaultRenderOptions returns options drawing at the origin.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{}
}

// RenderTo flushes the canvas and draws it at (0, 0).
//
// Example:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToEx(dc, DefaultRenderOptions())
}

// RenderToPosition is a convenience method for rendering at a specific position.
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	return c.RenderToEx(dc, RenderOptions{X: x, Y: y})
}

// RenderToEx flushes the canvas, uploads the image if it changed and draws
// the texture.
//
// The host texture is created on the first call and after a resize. A
// texture replaced by a resize is destroyed only after its successor was
// created, since creation waits for the GPU to go idle.
func (c *Canvas) RenderToEx(dc gpucontext.TextureDrawer, opts RenderOptions) error {
	if c.closed {
		return ErrCanvasClosed
	}

	if c.sizeChanged {
		if c.texture != nil {
			destroy(c.oldTexture)
			c.oldTexture = c.texture
			c.texture = nil
		}
		c.sizeChanged = false
	}

	pixels, changed, err := c.Flush()
	if err != nil {
		return err
	}

	switch {
	case c.texture == nil:
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		tex, err := creator.NewTextureFromRGBA(c.width, c.height, pixels)
		if err != nil {
			return fmt.Errorf("tilecanvas: NewTextureFromRGBA failed: %w", err)
		}
		c.texture = tex
		tilemap.Logger().Info("tilecanvas: texture created", "width", c.width, "height", c.height)

		destroy(c.oldTexture)
		c.oldTexture = nil

	case changed:
		updater, ok := c.texture.(gpucontext.TextureUpdater)
		if !ok {
			// Without in-place updates the texture is recreated next frame.
			stale := c.texture
			destroy(stale)
			c.texture = nil
			c.dirty = true
			return fmt.Errorf("tilecanvas: texture %T cannot be updated", stale)
		}
		if err := updater.UpdateData(pixels); err != nil {
			c.dirty = true
			return fmt.Errorf("tilecanvas: texture update failed: %w", err)
		}
	}

	return dc.DrawTexture(c.texture, opts.X, opts.Y)
}
