// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/tilemap"
)

// Layer errors.
var (
	ErrLayerExists  = errors.New("render: layer already exists")
	ErrLayerMissing = errors.New("render: no such layer")
)

// layer is one map view drawn into its own image.
type layer struct {
	view    View
	img     *image.RGBA
	visible bool
}

// Stack draws several map views on top of each other, for example a
// terrain map with a unit overlay that uses tile 0 as transparent.
//
// Layers are rendered in ascending z-order (lower z values behind higher
// ones), each into its own image, and then composited onto the base image
// with source-over blending. Stack is itself a RenderTarget holding the
// composited result.
//
// Stack is NOT safe for concurrent use.
type Stack struct {
	base   *image.RGBA
	layers map[int]*layer
	zOrder []int // Cached sorted z-order list
	clear  color.RGBA
	width  int
	height int
}

// NewStack creates an empty stack of the given pixel size.
func NewStack(width, height int) *Stack {
	return &Stack{
		base:   image.NewRGBA(image.Rect(0, 0, width, height)),
		layers: make(map[int]*layer),
		width:  width,
		height: height,
	}
}

// Width returns the target width in pixels.
func (s *Stack) Width() int { return s.width }

// Height returns the target height in pixels.
func (s *Stack) Height() int { return s.height }

// Format returns the pixel format (RGBA8).
func (s *Stack) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns the composited pixel data.
func (s *Stack) Pixels() []byte { return s.base.Pix }

// Stride returns the number of bytes per row.
func (s *Stack) Stride() int { return s.base.Stride }

// Image returns the composited image.
func (s *Stack) Image() *image.RGBA { return s.base }

// SetClearColor sets the color behind the lowest layer.
func (s *Stack) SetClearColor(c color.Color) {
	s.clear = color.RGBAModel.Convert(c).(color.RGBA)
}

// AddLayer adds a view at z-order z.
func (s *Stack) AddLayer(z int, view View) error {
	if _, exists := s.layers[z]; exists {
		return fmt.Errorf("%w: z=%d", ErrLayerExists, z)
	}
	s.layers[z] = &layer{
		view:    view,
		img:     image.NewRGBA(image.Rect(0, 0, s.width, s.height)),
		visible: true,
	}
	s.zOrder = nil
	return nil
}

// SetView replaces the view drawn at z-order z, e.g. to move the camera.
func (s *Stack) SetView(z int, view View) error {
	l, exists := s.layers[z]
	if !exists {
		return fmt.Errorf("%w: z=%d", ErrLayerMissing, z)
	}
	l.view = view
	return nil
}

// RemoveLayer removes the layer at z-order z. The layer's map is not closed.
func (s *Stack) RemoveLayer(z int) error {
	if _, exists := s.layers[z]; !exists {
		return fmt.Errorf("%w: z=%d", ErrLayerMissing, z)
	}
	delete(s.layers, z)
	s.zOrder = nil
	return nil
}

// SetLayerVisible controls layer visibility without removing it.
func (s *Stack) SetLayerVisible(z int, visible bool) {
	if l, exists := s.layers[z]; exists {
		l.visible = visible
	}
}

// Layers returns all layer z-orders in render order (ascending).
func (s *Stack) Layers() []int {
	if s.zOrder == nil {
		s.zOrder = make([]int, 0, len(s.layers))
		for z := range s.layers {
			s.zOrder = append(s.zOrder, z)
		}
		slices.Sort(s.zOrder)
	}
	return slices.Clone(s.zOrder)
}

// Render draws every visible layer with r and composites the results.
// It stops at the first layer that fails to render.
func (s *Stack) Render(r Renderer) error {
	draw.Draw(s.base, s.base.Bounds(), image.NewUniform(s.clear), image.Point{}, draw.Src)

	for _, z := range s.Layers() {
		l := s.layers[z]
		if !l.visible {
			continue
		}
		draw.Draw(l.img, l.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		if err := r.Render(NewPixmapTargetFromImage(l.img), l.view); err != nil {
			return fmt.Errorf("render: layer z=%d: %w", z, err)
		}
		draw.Draw(s.base, s.base.Bounds(), l.img, image.Point{}, draw.Over)
	}
	return nil
}

// Pick returns the topmost visible layer whose map covers the pixel, and
// the cell under it.
func (s *Stack) Pick(pixel tilemap.Point) (z int, x, y uint32, ok bool) {
	order := s.Layers()
	for i := len(order) - 1; i >= 0; i-- {
		l := s.layers[order[i]]
		if !l.visible {
			continue
		}
		if x, y, ok := l.view.Pick(pixel); ok {
			return order[i], x, y, true
		}
	}
	return 0, 0, 0, false
}

// Ensure Stack implements RenderTarget.
var _ RenderTarget = (*Stack)(nil)
