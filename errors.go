package tilemap

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly
// one of ErrConfiguration, ErrOutOfBounds or ErrEncoding via errors.Is,
// except for the lifecycle errors further down.
var (
	// ErrConfiguration is returned by New and NewProjection when the map
	// cannot be built. The map must not be used.
	ErrConfiguration = errors.New("tilemap: invalid configuration")

	// ErrOutOfBounds is returned by grid access outside the map size.
	// It is recoverable; storage is left unchanged.
	ErrOutOfBounds = errors.New("tilemap: tile coordinate out of bounds")

	// ErrEncoding is returned when the grid cannot be turned into a texture.
	ErrEncoding = errors.New("tilemap: texture encoding failed")
)

// Configuration errors.
var (
	ErrInvalidTileSize   = fmt.Errorf("%w: tile size must be positive and finite", ErrConfiguration)
	ErrInvalidMapSize    = fmt.Errorf("%w: map size must be non-zero", ErrConfiguration)
	ErrInvalidProjection = fmt.Errorf("%w: projection is not invertible", ErrConfiguration)
	ErrAtlasMismatch     = fmt.Errorf("%w: atlas does not hold the requested tiles", ErrConfiguration)
)

// Encoding errors.
var (
	ErrEmptyStorage    = fmt.Errorf("%w: storage is empty", ErrEncoding)
	ErrTextureTooLarge = fmt.Errorf("%w: map exceeds maximum texture dimension", ErrEncoding)
)

// Lifecycle errors.
var (
	// ErrIndexerBusy is returned when an indexer scope is opened while
	// another one on the same map is still running.
	ErrIndexerBusy = errors.New("tilemap: indexer scope already open")

	// ErrIndexerClosed is returned when an indexer is used after its
	// scope has ended.
	ErrIndexerClosed = errors.New("tilemap: indexer used outside its scope")

	// ErrMapClosed is returned when operating on a closed map.
	ErrMapClosed = errors.New("tilemap: map is closed")

	// ErrNilHost is returned by Flush when no texture host is given.
	ErrNilHost = errors.New("tilemap: nil texture host")
)

// OutOfBoundsError reports a grid access outside the map size.
type OutOfBoundsError struct {
	X, Y uint32
	Size Size
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tilemap: tile (%d, %d) outside %dx%d map",
		e.X, e.Y, e.Size.Width, e.Size.Height)
}

// Is makes errors.Is(err, ErrOutOfBounds) succeed.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
