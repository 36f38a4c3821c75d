package tilemap

import (
	"fmt"
	"math"
)

// Padding describes the empty pixels around tiles in an atlas image:
// Before the first column/row, Between neighbouring tiles and After the
// last column/row.
type Padding struct {
	Before, Between, After Point
}

// Atlas describes how tile indices map to rectangles of an atlas image.
// Tile index i lives at column i % Tiles.Width, row i / Tiles.Width.
type Atlas struct {
	// TileSize is the size of one tile in atlas pixels.
	TileSize Point

	// Padding is the inset around and between tiles.
	Padding Padding

	// ImageSize is the atlas image size in pixels. Zero if unknown.
	ImageSize Size

	// Tiles is the number of tile columns and rows in use. When zero it
	// is derived from ImageSize. Set it explicitly when the image was
	// padded (for example to a power of two) and no longer holds a whole
	// number of tiles.
	Tiles Size
}

// extent returns the pixels needed along one axis for n tiles.
func extent(n uint32, tile, before, between, after float64) float64 {
	if n == 0 {
		return 0
	}
	return before + float64(n)*tile + float64(n-1)*between + after
}

// fit returns how many tiles fit along one axis.
func fit(avail, tile, before, between, after float64) uint32 {
	n := (avail - before - after + between) / (tile + between)
	if n < 1 || math.IsNaN(n) {
		return 0
	}
	if n >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}

// resolve validates the atlas and fills in Tiles when it can be derived.
func (a Atlas) resolve() (Atlas, error) {
	if !a.TileSize.IsFinite() || a.TileSize.X <= 0 || a.TileSize.Y <= 0 {
		return a, fmt.Errorf("%w: atlas tile size %vx%v", ErrAtlasMismatch, a.TileSize.X, a.TileSize.Y)
	}
	p := a.Padding
	if !p.Before.IsFinite() || !p.Between.IsFinite() || !p.After.IsFinite() ||
		p.Before.X < 0 || p.Before.Y < 0 || p.Between.X < 0 || p.Between.Y < 0 ||
		p.After.X < 0 || p.After.Y < 0 {
		return a, fmt.Errorf("%w: negative or non-finite padding", ErrAtlasMismatch)
	}

	if a.ImageSize.IsZero() {
		return a, nil
	}
	img := a.ImageSize.Point()

	if a.Tiles.IsZero() {
		a.Tiles = Size{
			Width:  fit(img.X, a.TileSize.X, p.Before.X, p.Between.X, p.After.X),
			Height: fit(img.Y, a.TileSize.Y, p.Before.Y, p.Between.Y, p.After.Y),
		}
		if a.Tiles.IsZero() {
			return a, fmt.Errorf("%w: %dx%d image holds no %vx%v tile",
				ErrAtlasMismatch, a.ImageSize.Width, a.ImageSize.Height, a.TileSize.X, a.TileSize.Y)
		}
		return a, nil
	}

	needX := extent(a.Tiles.Width, a.TileSize.X, p.Before.X, p.Between.X, p.After.X)
	needY := extent(a.Tiles.Height, a.TileSize.Y, p.Before.Y, p.Between.Y, p.After.Y)
	if needX > img.X || needY > img.Y {
		return a, fmt.Errorf("%w: %dx%d tiles need %vx%v pixels, image is %dx%d",
			ErrAtlasMismatch, a.Tiles.Width, a.Tiles.Height, needX, needY,
			a.ImageSize.Width, a.ImageSize.Height)
	}
	return a, nil
}

// Count returns the number of addressable tiles, or 0 if unknown.
func (a Atlas) Count() uint64 {
	return a.Tiles.Area()
}

// TileRect returns the pixel rectangle of a tile index inside the atlas
// image. ok is false when the index is beyond the atlas or the atlas
// layout is unknown.
func (a Atlas) TileRect(index uint16) (r Rect, ok bool) {
	if a.Tiles.Width == 0 || uint64(index) >= a.Count() {
		return Rect{}, false
	}
	col := float64(uint32(index) % a.Tiles.Width)
	row := float64(uint32(index) / a.Tiles.Width)
	stride := a.TileSize.Add(a.Padding.Between)

	minPt := a.Padding.Before.Add(Pt(col*stride.X, row*stride.Y))
	return Rect{Min: minPt, Max: minPt.Add(a.TileSize)}, true
}
