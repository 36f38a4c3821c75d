// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/bits"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/tilemap"
)

// TileShape is the silhouette painted for each generated atlas tile.
type TileShape uint8

const (
	// ShapeRect fills the whole tile rectangle.
	ShapeRect TileShape = iota
	// ShapeDiamond fills the diamond inscribed in the tile rectangle, the
	// footprint of an axonometric cell.
	ShapeDiamond
)

// AtlasStyle controls NewAtlasImage.
type AtlasStyle struct {
	// Colors are used round-robin: tile i gets Colors[i%len(Colors)].
	// A transparent entry leaves its tiles empty.
	Colors []color.RGBA

	// Shape is the painted silhouette.
	Shape TileShape

	// Labels draws each tile's index in its centre.
	Labels bool
}

// NewAtlasImage paints a procedural atlas image for layout a. The layout
// must know its image size; tiles are placed where a.TileRect says.
func NewAtlasImage(a tilemap.Atlas, style AtlasStyle) (*image.RGBA, error) {
	if a.ImageSize.IsZero() || a.Tiles.IsZero() {
		return nil, fmt.Errorf("%w: atlas image size unknown", tilemap.ErrAtlasMismatch)
	}
	if len(style.Colors) == 0 {
		return nil, fmt.Errorf("%w: no atlas colors", tilemap.ErrAtlasMismatch)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(a.ImageSize.Width), int(a.ImageSize.Height)))
	count := min(a.Count(), math.MaxUint16+1)
	for i := uint64(0); i < count; i++ {
		index := uint16(i) //nolint:gosec // bounded by MaxUint16+1
		rect, _ := a.TileRect(index)
		c := style.Colors[i%uint64(len(style.Colors))]
		if c.A == 0 {
			continue
		}
		r := pixelRect(rect)

		switch style.Shape {
		case ShapeDiamond:
			fillDiamond(img, r, c)
		default:
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}

		if style.Labels {
			drawLabel(img, r, strconv.Itoa(int(index)))
		}
	}
	return img, nil
}

func pixelRect(r tilemap.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

// fillDiamond fills the pixels whose centres fall inside the diamond
// touching the midpoints of r's edges.
func fillDiamond(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	hw := float64(r.Dx()) / 2
	hh := float64(r.Dy()) / 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := math.Abs(float64(x)+0.5-cx) / hw
			dy := math.Abs(float64(y)+0.5-cy) / hh
			if dx+dy <= 1 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawLabel(img *image.RGBA, r image.Rectangle, s string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	if width > r.Dx() || ascent > r.Dy() {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{A: 0xff}),
		Face: face,
		Dot: fixed.P(
			(r.Min.X+r.Max.X-width)/2,
			(r.Min.Y+r.Max.Y+ascent)/2,
		),
	}
	d.DrawString(s)
}

// PadAtlas copies img into the top-left corner of a transparent canvas
// whose sides are the next powers of two. Tile rectangles keep their
// pixel positions, so pass the original tile count with
// tilemap.WithAtlasTiles when building a map against the padded image.
func PadAtlas(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, nextPow2(b.Dx()), nextPow2(b.Dy())))
	draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
	return dst
}

// ScaleAtlas enlarges or shrinks img by an integer-friendly factor with
// nearest-neighbour sampling, which keeps tile edges crisp. The result is
// at least 1x1.
func ScaleAtlas(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
