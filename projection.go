package tilemap

import (
	"fmt"
	"math"
)

// ProjectionKind selects the geometric rule mapping tile coordinates to
// local coordinates. It is fixed for the lifetime of a map.
type ProjectionKind uint8

const (
	// Orthogonal lays tiles out on an axis-aligned rectangular grid.
	Orthogonal ProjectionKind = iota

	// Axonometric lays tiles out as diamonds whose corners sit at half the
	// tile width and height. With a 2:1 tile size this is the common
	// "isometric" look.
	Axonometric

	// HexPointy lays out pointy-top hexagons in axial coordinates.
	// The tile size is the bounding box of one hexagon.
	HexPointy

	// HexFlat lays out flat-top hexagons in axial coordinates.
	// The tile size is the bounding box of one hexagon.
	HexFlat

	// Custom uses a caller-supplied basis, see NewCustomProjection.
	Custom
)

// Isometric is an alias for Axonometric.
const Isometric = Axonometric

// String returns a human-readable name for the projection kind.
func (k ProjectionKind) String() string {
	switch k {
	case Orthogonal:
		return "Orthogonal"
	case Axonometric:
		return "Axonometric"
	case HexPointy:
		return "HexPointy"
	case HexFlat:
		return "HexFlat"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// IsHex reports whether the kind is one of the hexagonal layouts.
func (k ProjectionKind) IsHex() bool {
	return k == HexPointy || k == HexFlat
}

// basis returns the projection basis in tile-size units.
func (k ProjectionKind) basis() (Matrix, bool) {
	switch k {
	case Orthogonal:
		return Identity(), true
	case Axonometric:
		return FromBasis(Pt(0.5, -0.5), Pt(0.5, 0.5)), true
	case HexPointy:
		return FromBasis(Pt(1, 0), Pt(0.5, 0.75)), true
	case HexFlat:
		return FromBasis(Pt(0.75, 0.5), Pt(0, 1)), true
	default:
		return Matrix{}, false
	}
}

// Projection converts between tile coordinates and local coordinates.
//
// Local space is y-down: +x points right and +y points down, the same
// convention as image and screen space. The origin corner of tile (0, 0)
// is at local (0, 0). For Axonometric this means tile (1, 0) lies up and
// to the right of (0, 0) and tile (0, 1) lies down and to the right.
//
// A Projection is an immutable value and safe for concurrent use.
type Projection struct {
	kind     ProjectionKind
	tileSize Point
	toLocal  Matrix
	toTile   Matrix
}

// NewProjection creates a projection of the given kind.
// It returns an error matching ErrConfiguration if the tile size is
// degenerate or kind is Custom or unknown.
func NewProjection(kind ProjectionKind, tileSize Point) (Projection, error) {
	basis, ok := kind.basis()
	if !ok {
		return Projection{}, fmt.Errorf("%w: kind %v needs an explicit basis", ErrInvalidProjection, kind)
	}
	return newProjection(kind, basis, tileSize)
}

// NewCustomProjection creates a projection from an arbitrary linear basis
// expressed in tile-size units: a tile coordinate t maps to
// tileSize * (basis * t), elementwise in the last step. The translation
// part of basis is ignored.
func NewCustomProjection(basis Matrix, tileSize Point) (Projection, error) {
	basis.C, basis.F = 0, 0
	return newProjection(Custom, basis, tileSize)
}

func newProjection(kind ProjectionKind, basis Matrix, tileSize Point) (Projection, error) {
	if !tileSize.IsFinite() || tileSize.X <= 0 || tileSize.Y <= 0 {
		return Projection{}, fmt.Errorf("%w: got %vx%v", ErrInvalidTileSize, tileSize.X, tileSize.Y)
	}

	toLocal := Scale(tileSize.X, tileSize.Y).Multiply(basis)
	toTile, ok := toLocal.Invert()
	if !ok {
		return Projection{}, fmt.Errorf("%w: determinant %v", ErrInvalidProjection, toLocal.Determinant())
	}

	return Projection{
		kind:     kind,
		tileSize: tileSize,
		toLocal:  toLocal,
		toTile:   toTile,
	}, nil
}

// Kind returns the projection kind.
func (p Projection) Kind() ProjectionKind { return p.kind }

// TileSize returns the tile size the projection was built with.
func (p Projection) TileSize() Point { return p.tileSize }

// Matrix returns the tile-to-local matrix.
func (p Projection) Matrix() Matrix { return p.toLocal }

// InverseMatrix returns the local-to-tile matrix.
func (p Projection) InverseMatrix() Matrix { return p.toTile }

// Basis returns the local-space displacement of one step along the tile
// x axis (right) and the tile y axis (down).
func (p Projection) Basis() (right, down Point) {
	return p.toLocal.Basis()
}

// TileToLocal converts a (possibly fractional) tile coordinate to local space.
func (p Projection) TileToLocal(tile Point) Point {
	return p.toLocal.TransformPoint(tile)
}

// LocalToTile converts a local point to a fractional tile coordinate.
// The result is not rounded or clamped.
func (p Projection) LocalToTile(local Point) Point {
	return p.toTile.TransformPoint(local)
}

// TileCenter returns the local-space centre of the integer cell (x, y).
func (p Projection) TileCenter(x, y uint32) Point {
	return p.TileToLocal(Pt(float64(x)+0.5, float64(y)+0.5))
}

// Cell returns the integer cell that owns a fractional tile coordinate.
// Rectangular and diamond layouts floor each component. Hexagonal layouts
// round in cube space around cell centres so that the owning cell is the
// hexagon under the point rather than the enclosing parallelogram.
func (p Projection) Cell(tile Point) Point {
	if !p.kind.IsHex() {
		return tile.Floor()
	}
	return hexRound(tile.Sub(Pt(0.5, 0.5)))
}

// hexRound rounds an axial coordinate to the nearest hexagon.
func hexRound(a Point) Point {
	q, r := a.X, a.Y
	s := -q - r

	rq, rr, rs := math.Round(q), math.Round(r), math.Round(s)
	dq, dr, ds := math.Abs(rq-q), math.Abs(rr-r), math.Abs(rs-s)

	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return Pt(rq, rr)
}

// LocalBounds returns the local-space bounding box of a grid of the given
// size. A host mesh covering this rectangle covers every tile.
func (p Projection) LocalBounds(size Size) Rect {
	if size.IsZero() {
		return Rect{}
	}
	w, h := float64(size.Width), float64(size.Height)

	if p.kind.IsHex() {
		half := p.tileSize.Mul(0.5)
		r := boundsOf(
			p.TileToLocal(Pt(0.5, 0.5)),
			p.TileToLocal(Pt(w-0.5, 0.5)),
			p.TileToLocal(Pt(0.5, h-0.5)),
			p.TileToLocal(Pt(w-0.5, h-0.5)),
		)
		return Rect{Min: r.Min.Sub(half), Max: r.Max.Add(half)}
	}

	return boundsOf(
		p.TileToLocal(Pt(0, 0)),
		p.TileToLocal(Pt(w, 0)),
		p.TileToLocal(Pt(0, h)),
		p.TileToLocal(Pt(w, h)),
	)
}
