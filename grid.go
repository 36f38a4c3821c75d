package tilemap

import "fmt"

// Background is the reserved tile index for cells that are outside the
// logical map but inside the rectangular storage, and the default fill.
const Background uint16 = 0

// Grid is dense row-major storage of tile indices.
// The tile at (x, y) is stored at index y*Width + x.
//
// Grid is NOT safe for concurrent use.
type Grid struct {
	size  Size
	tiles []uint16
}

// maxGridTiles caps the tile count of one grid at 4 GiB of storage.
const maxGridTiles = 1 << 31

// NewGrid allocates a grid of the given size with every tile set to fill.
func NewGrid(size Size, fill uint16) (*Grid, error) {
	if size.IsZero() {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidMapSize, size.Width, size.Height)
	}
	if size.Area() > maxGridTiles {
		return nil, fmt.Errorf("%w: %dx%d tiles", ErrTextureTooLarge, size.Width, size.Height)
	}

	g := &Grid{
		size:  size,
		tiles: make([]uint16, size.Area()),
	}
	if fill != 0 {
		g.Fill(fill)
	}
	return g, nil
}

// Size returns the grid dimensions in tiles.
func (g *Grid) Size() Size {
	return g.size
}

// Len returns the number of tiles, Width*Height.
func (g *Grid) Len() int {
	return len(g.tiles)
}

// Contains reports whether (x, y) is inside the grid.
func (g *Grid) Contains(x, y uint32) bool {
	return x < g.size.Width && y < g.size.Height
}

func (g *Grid) index(x, y uint32) (int, error) {
	if !g.Contains(x, y) {
		return 0, &OutOfBoundsError{X: x, Y: y, Size: g.size}
	}
	return int(y)*int(g.size.Width) + int(x), nil
}

// Get returns the tile index at (x, y).
func (g *Grid) Get(x, y uint32) (uint16, error) {
	i, err := g.index(x, y)
	if err != nil {
		return 0, err
	}
	return g.tiles[i], nil
}

// Set stores value at (x, y). Out-of-range coordinates leave the grid
// unchanged and return an error matching ErrOutOfBounds.
func (g *Grid) Set(x, y uint32, value uint16) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}
	g.tiles[i] = value
	return nil
}

// Fill sets every tile to value.
func (g *Grid) Fill(value uint16) {
	for i := range g.tiles {
		g.tiles[i] = value
	}
}

// Row returns a copy of row y.
func (g *Grid) Row(y uint32) ([]uint16, error) {
	if y >= g.size.Height {
		return nil, &OutOfBoundsError{X: 0, Y: y, Size: g.size}
	}
	w := int(g.size.Width)
	row := make([]uint16, w)
	copy(row, g.tiles[int(y)*w:int(y+1)*w])
	return row, nil
}

// Each calls fn for every tile in storage order.
func (g *Grid) Each(fn func(x, y uint32, value uint16)) {
	w := uint64(g.size.Width)
	for i, v := range g.tiles {
		//nolint:gosec // quotient and remainder are bounded by Height and Width
		fn(uint32(uint64(i)%w), uint32(uint64(i)/w), v)
	}
}
