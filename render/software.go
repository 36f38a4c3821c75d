// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilemap"
)

// Software renderer errors.
var (
	ErrNilMap            = errors.New("render: nil map")
	ErrNilAtlas          = errors.New("render: nil atlas image")
	ErrUnsupportedTarget = errors.New("render: target does not support CPU rendering")
)

// SoftwareRenderer resolves every target pixel on the CPU exactly as the
// tilemap fragment shader does: pixel to world, world to local, local to
// tile, owning cell, tile index (0 outside the map), atlas texel. Atlas
// sampling is nearest-neighbour and fully transparent texels are skipped.
//
// It serves as a reference for the GPU path and as a headless renderer
// for tools and tests.
//
// Example:
//
//	renderer := render.NewSoftwareRenderer()
//	target := render.NewPixmapTarget(800, 600)
//	err := renderer.Render(target, render.View{Map: m, Atlas: atlasImg})
type SoftwareRenderer struct{}

var _ Renderer = (*SoftwareRenderer)(nil)

// NewSoftwareRenderer creates a new CPU-based renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Render draws the view to the target.
//
// Returns an error if the target has no CPU pixels or is not RGBA8, or if
// the view lacks a map or an atlas. A singular transform or camera draws
// nothing.
func (r *SoftwareRenderer) Render(target RenderTarget, view View) error {
	if target == nil {
		return errors.New("render: nil target")
	}
	pixels := target.Pixels()
	if pixels == nil || target.Format() != gputypes.TextureFormatRGBA8Unorm {
		return ErrUnsupportedTarget
	}
	if view.Map == nil {
		return ErrNilMap
	}
	if view.Atlas == nil {
		return ErrNilAtlas
	}

	m := view.Map
	size := m.Size()
	tiles := m.EncodedTexture()
	if view.Tiles != nil {
		tiles = view.Tiles.Data()
	}
	if need := size.Area() * tilemap.BytesPerTexel; uint64(len(tiles)) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", tilemap.ErrEmptyStorage, len(tiles), need)
	}

	toPixel := view.Camera.Matrix().Multiply(view.transform().Matrix())
	toLocal, ok := toPixel.Invert()
	if !ok {
		return nil
	}

	proj := m.Projection()
	atlas := m.Atlas()
	bounds := m.LocalBounds()
	ratio := atlas.TileSize.DivPoint(proj.TileSize())
	src := newSampler(view.Atlas)
	mapW, mapH := float64(size.Width), float64(size.Height)

	width, height, stride := target.Width(), target.Height(), target.Stride()
	for py := 0; py < height; py++ {
		row := pixels[py*stride:]
		for px := 0; px < width; px++ {
			local := toLocal.TransformPoint(tilemap.Pt(float64(px)+0.5, float64(py)+0.5))
			if !bounds.Contains(local) {
				continue
			}
			cell := proj.Cell(proj.LocalToTile(local))

			var index uint16
			if cell.X >= 0 && cell.Y >= 0 && cell.X < mapW && cell.Y < mapH {
				i := (uint64(cell.Y)*uint64(size.Width) + uint64(cell.X)) * tilemap.BytesPerTexel
				index = binary.LittleEndian.Uint16(tiles[i:])
			}

			rect, ok := atlas.TileRect(index)
			if !ok {
				continue
			}
			center := proj.TileToLocal(cell.Add(tilemap.Pt(0.5, 0.5)))
			at := rect.Center().Add(local.Sub(center).MulPoint(ratio))

			c := src.nearest(at, rect)
			if c.A == 0 {
				continue
			}
			o := px * 4
			row[o], row[o+1], row[o+2], row[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return nil
}

// sampler reads atlas texels with nearest filtering.
type sampler struct {
	img    image.Image
	rgba   *image.RGBA
	origin image.Point
}

func newSampler(img image.Image) sampler {
	s := sampler{img: img, origin: img.Bounds().Min}
	s.rgba, _ = img.(*image.RGBA)
	return s
}

// nearest returns the texel at atlas pixel position p, clamped to the
// tile rectangle so that neighbouring tiles never bleed in.
func (s sampler) nearest(p tilemap.Point, rect tilemap.Rect) color.RGBA {
	x := clampTexel(p.X, rect.Min.X, rect.Max.X)
	y := clampTexel(p.Y, rect.Min.Y, rect.Max.Y)
	x += s.origin.X
	y += s.origin.Y
	if !(image.Point{X: x, Y: y}).In(s.img.Bounds()) {
		return color.RGBA{}
	}
	if s.rgba != nil {
		return s.rgba.RGBAAt(x, y)
	}
	return color.RGBAModel.Convert(s.img.At(x, y)).(color.RGBA)
}

func clampTexel(v, lo, hi float64) int {
	first := int(math.Floor(lo))
	last := int(math.Ceil(hi)) - 1
	if math.IsNaN(v) {
		return first
	}
	i := int(math.Floor(v))
	return max(first, min(i, last))
}
