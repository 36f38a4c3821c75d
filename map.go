package tilemap

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// Map is a fixed-size grid of tile indices together with its projection,
// atlas layout and the staging buffer of its GPU index texture.
//
// Writes go through WithIndexer. Coordinate conversions are read-only and
// may run concurrently with each other, but not with an open indexer scope.
type Map struct {
	size  Size
	proj  Projection
	atlas Atlas
	label string

	grid *Grid
	sync *Synchronizer

	open   atomic.Bool
	closed bool
}

// New builds a map of size tiles, each tileSize world units large.
//
// New fails with an error matching ErrConfiguration when the size, tile
// size, projection or atlas layout is invalid, and returns any error from
// the initializer. No map is returned on failure.
//
// A map wider or taller than the configured texture limits fails with
// an error matching ErrTextureTooLarge before any storage is allocated.
func New(size Size, tileSize Point, opts ...Option) (*Map, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if size.IsZero() {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidMapSize, size.Width, size.Height)
	}

	var (
		proj Projection
		err  error
	)
	if cfg.customBasis != nil {
		proj, err = NewCustomProjection(*cfg.customBasis, tileSize)
	} else {
		proj, err = NewProjection(cfg.projection, tileSize)
	}
	if err != nil {
		return nil, err
	}

	if cfg.atlas.TileSize == (Point{}) {
		cfg.atlas.TileSize = tileSize
	}
	atlas, err := cfg.atlas.resolve()
	if err != nil {
		return nil, err
	}

	if err := checkLimits(size, cfg.limits); err != nil {
		return nil, err
	}

	grid, err := NewGrid(size, cfg.fill)
	if err != nil {
		return nil, err
	}

	m := &Map{
		size:  size,
		proj:  proj,
		atlas: atlas,
		label: cfg.label,
		grid:  grid,
		sync:  NewSynchronizer(size, cfg.limits, cfg.label),
	}

	// Limits were checked above, so encoding cannot fail here.
	if cfg.initializer != nil {
		var initErr error
		_ = m.WithIndexer(func(ix *Indexer) error {
			initErr = cfg.initializer(ix)
			return initErr
		})
		if initErr != nil {
			return nil, fmt.Errorf("tilemap: initializer failed: %w", initErr)
		}
	} else {
		_ = m.sync.Reencode(grid)
	}

	return m, nil
}

// Size returns the map size in tiles.
func (m *Map) Size() Size { return m.size }

// TileSize returns the tile size in world units.
func (m *Map) TileSize() Point { return m.proj.TileSize() }

// Projection returns the map's projection.
func (m *Map) Projection() Projection { return m.proj }

// Atlas returns the resolved atlas layout.
func (m *Map) Atlas() Atlas { return m.atlas }

// Label returns the debug label.
func (m *Map) Label() string { return m.label }

// Tile returns the tile index at (x, y).
func (m *Map) Tile(x, y uint32) (uint16, error) {
	return m.grid.Get(x, y)
}

// WithIndexer runs fn with exclusive write access to the map's tiles.
//
// When fn returns nil the grid is re-encoded and the texture marked dirty
// exactly once, however many tiles were set. When fn fails or panics after
// writing at least one tile, the same happens before the error is returned
// or the panic continues, so the texture never silently goes stale.
// Encoding errors are joined with fn's error.
//
// Scopes on one map must not overlap; a nested or concurrent call returns
// ErrIndexerBusy without running fn.
func (m *Map) WithIndexer(fn func(*Indexer) error) (err error) {
	if m.closed {
		return ErrMapClosed
	}
	if !m.open.CompareAndSwap(false, true) {
		return ErrIndexerBusy
	}

	ix := &Indexer{grid: m.grid, proj: m.proj}
	completed := false
	defer func() {
		defer m.open.Store(false)
		ix.done = true
		if !completed && ix.mutations == 0 {
			return
		}
		encErr := m.sync.Reencode(m.grid)
		m.sync.MarkDirty()
		if encErr != nil {
			err = errors.Join(err, encErr)
		}
	}()

	err = fn(ix)
	completed = err == nil
	return err
}

// IsDirty returns true if the GPU texture is stale relative to the tiles.
func (m *Map) IsDirty() bool {
	return m.sync.IsDirty()
}

// EncodedTexture returns the staging buffer the next Flush uploads.
// The slice must not be modified and is overwritten by later scopes.
func (m *Map) EncodedTexture() []byte {
	return m.sync.Buffer()
}

// TextureDescriptor describes the GPU index texture of the map.
func (m *Map) TextureDescriptor() gputypes.TextureDescriptor {
	return NewTextureDescriptor(m.size, m.label)
}

// Texture returns the host texture, or nil before the first Flush.
func (m *Map) Texture() TextureHandle {
	return m.sync.Texture()
}

// Revision returns a counter that changes whenever the staging buffer is
// re-encoded. Readers of EncodedTexture use it to detect tile changes
// without flushing.
func (m *Map) Revision() int {
	return m.sync.Revision()
}

// Uploads returns how many times the texture was uploaded.
func (m *Map) Uploads() int {
	return m.sync.Uploads()
}

// Flush uploads the encoded tiles to host if they changed since the last
// upload. Call it once per frame from the render loop.
func (m *Map) Flush(host TextureHost) error {
	if m.closed {
		return ErrMapClosed
	}
	return m.sync.Flush(host)
}

// Close releases the texture. After Close the map should not be used.
// Close is idempotent.
func (m *Map) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.sync.Close()
	return nil
}

// WorldToMap converts a world point to a fractional tile coordinate using
// the transform src reports at the time of the call.
func (m *Map) WorldToMap(world Point, src TransformSource) Point {
	return WorldToMap(world, src.WorldTransform(), m.proj)
}

// MapToWorld converts a fractional tile coordinate to a world point using
// the transform src reports at the time of the call.
func (m *Map) MapToWorld(tile Point, src TransformSource) Point {
	return MapToWorld(tile, src.WorldTransform(), m.proj)
}

// LocalBounds returns the local-space rectangle covering every tile.
func (m *Map) LocalBounds() Rect {
	return m.proj.LocalBounds(m.size)
}

// TileAt returns the cell owning a fractional tile coordinate.
// ok is false when the cell lies outside the map.
func (m *Map) TileAt(tile Point) (x, y uint32, ok bool) {
	return cellAt(m.proj, m.size, tile)
}

func cellAt(p Projection, size Size, tile Point) (x, y uint32, ok bool) {
	c := p.Cell(tile)
	if !c.IsFinite() || c.X < 0 || c.Y < 0 ||
		c.X >= float64(size.Width) || c.Y >= float64(size.Height) {
		return 0, 0, false
	}
	return uint32(c.X), uint32(c.Y), true
}

// Clamp truncates a fractional tile coordinate toward zero and clamps it
// into [0, Width-1] x [0, Height-1]. NaN components clamp to 0.
func (m *Map) Clamp(tile Point) (x, y uint32) {
	return clampAxis(tile.X, m.size.Width), clampAxis(tile.Y, m.size.Height)
}

func clampAxis(v float64, n uint32) uint32 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= float64(n-1) {
		return n - 1
	}
	return uint32(v)
}
