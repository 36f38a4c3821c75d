package tilemap

// Option configures a Map during creation.
// Use functional options to customize Map behavior.
//
// Example:
//
//	// 23x57 diamond map with 40x20 tiles, initialised to a chessboard
//	m, err := tilemap.New(tilemap.Sz(23, 57), tilemap.Pt(40, 20),
//	    tilemap.WithProjection(tilemap.Axonometric),
//	    tilemap.WithInitializer(func(ix *tilemap.Indexer) error {
//	        size := ix.Size()
//	        for y := uint32(0); y < size.Height; y++ {
//	            for x := uint32(0); x < size.Width; x++ {
//	                _ = ix.Set(x, y, uint16((x+y)%2+1))
//	            }
//	        }
//	        return nil
//	    }))
type Option func(*config)

// config is the parameter object holding every recognized construction option.
type config struct {
	projection  ProjectionKind
	customBasis *Matrix
	atlas       Atlas
	fill        uint16
	initializer func(*Indexer) error
	limits      Limits
	label       string
}

// defaultConfig returns the default map options.
func defaultConfig() config {
	return config{
		projection: Orthogonal,
		limits:     DefaultLimits(),
		label:      "tilemap",
	}
}

// WithProjection selects the projection kind. The default is Orthogonal.
func WithProjection(kind ProjectionKind) Option {
	return func(c *config) {
		c.projection = kind
		c.customBasis = nil
	}
}

// WithCustomProjection uses an arbitrary basis in tile-size units,
// see NewCustomProjection.
func WithCustomProjection(basis Matrix) Option {
	return func(c *config) {
		c.projection = Custom
		c.customBasis = &basis
	}
}

// WithPadding sets the atlas padding in pixels before the first tile,
// between tiles and after the last tile.
//
// Example:
//
//	// atlas with a 1px border around every tile
//	tilemap.WithPadding(tilemap.Pt(1, 1), tilemap.Pt(1, 1), tilemap.Pt(1, 1))
func WithPadding(before, between, after Point) Option {
	return func(c *config) {
		c.atlas.Padding = Padding{Before: before, Between: between, After: after}
	}
}

// WithAtlasTiles sets how many tile columns and rows of the atlas are used.
// Needed when the atlas image was padded and no longer holds a whole
// number of tiles.
func WithAtlasTiles(n Size) Option {
	return func(c *config) {
		c.atlas.Tiles = n
	}
}

// WithAtlasSize sets the atlas image size in pixels so the atlas layout
// can be validated at construction.
func WithAtlasSize(size Size) Option {
	return func(c *config) {
		c.atlas.ImageSize = size
	}
}

// WithAtlasTileSize sets the pixel size of one atlas tile when it differs
// from the map tile size.
func WithAtlasTileSize(size Point) Option {
	return func(c *config) {
		c.atlas.TileSize = size
	}
}

// WithFill sets the initial value of every tile. The default is Background.
func WithFill(value uint16) Option {
	return func(c *config) {
		c.fill = value
	}
}

// WithInitializer registers a callback that is run once, inside an
// indexer scope, before New returns.
func WithInitializer(fn func(*Indexer) error) Option {
	return func(c *config) {
		c.initializer = fn
	}
}

// WithLimits overrides the texture limits checked by the encoder,
// typically with LimitsFrom(device limits).
func WithLimits(l Limits) Option {
	return func(c *config) {
		c.limits = l
	}
}

// WithLabel sets the debug label used for the texture and log records.
func WithLabel(label string) Option {
	return func(c *config) {
		c.label = label
	}
}
