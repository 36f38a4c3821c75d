package tilemap

import "fmt"

// Indexer grants read/write access to a map's tiles for the duration of
// one WithIndexer call. Changes reach the GPU texture when the scope ends.
type Indexer struct {
	grid      *Grid
	proj      Projection
	mutations int
	done      bool
}

// Size returns the map size in tiles.
func (ix *Indexer) Size() Size {
	return ix.grid.Size()
}

// Get returns the tile index at (x, y).
func (ix *Indexer) Get(x, y uint32) (uint16, error) {
	if ix.done {
		return 0, ErrIndexerClosed
	}
	return ix.grid.Get(x, y)
}

// Set stores value at (x, y).
func (ix *Indexer) Set(x, y uint32, value uint16) error {
	if ix.done {
		return ErrIndexerClosed
	}
	if err := ix.grid.Set(x, y, value); err != nil {
		return err
	}
	ix.mutations++
	return nil
}

// SetPoint stores value in the cell owning a fractional tile coordinate,
// such as the result of Map.WorldToMap. Hexagonal maps pick the hexagon
// under the point. A cell outside the map returns an error matching
// ErrOutOfBounds.
func (ix *Indexer) SetPoint(tile Point, value uint16) error {
	if ix.done {
		return ErrIndexerClosed
	}
	size := ix.grid.Size()
	x, y, ok := cellAt(ix.proj, size, tile)
	if !ok {
		return fmt.Errorf("%w: point (%v, %v) outside %dx%d map",
			ErrOutOfBounds, tile.X, tile.Y, size.Width, size.Height)
	}
	return ix.Set(x, y, value)
}

// Fill sets every tile to value.
func (ix *Indexer) Fill(value uint16) error {
	if ix.done {
		return ErrIndexerClosed
	}
	ix.grid.Fill(value)
	ix.mutations++
	return nil
}

// Mutations returns the number of successful writes in this scope.
func (ix *Indexer) Mutations() int {
	return ix.mutations
}
