package tilemap

// Transform is a map entity's world transform as owned by the host scene:
// scale first, then rotation (radians), then translation.
type Transform struct {
	Translation Point
	Rotation    float64
	Scale       Point
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Scale: Pt(1, 1)}
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() Matrix {
	return Translate(t.Translation.X, t.Translation.Y).
		Multiply(Rotate(t.Rotation)).
		Multiply(Scale(t.Scale.X, t.Scale.Y))
}

// WorldTransform implements TransformSource so a fixed Transform can be
// passed where a source is expected.
func (t Transform) WorldTransform() Transform { return t }

// TransformSource gives read access to the current world transform of a
// map entity. It is queried on every conversion; implementations must
// return the value as of the call.
type TransformSource interface {
	WorldTransform() Transform
}

// TransformFunc adapts a function to TransformSource.
type TransformFunc func() Transform

// WorldTransform calls f.
func (f TransformFunc) WorldTransform() Transform { return f() }

// WorldToMap converts a world-space point to a fractional tile coordinate
// by inverting the world transform and then the projection. The result is
// not clamped; it may be negative or beyond the map size. A singular
// transform (zero scale) yields NaN components.
func WorldToMap(world Point, t Transform, p Projection) Point {
	inv, _ := t.Matrix().Invert()
	return p.LocalToTile(inv.TransformPoint(world))
}

// MapToWorld converts a fractional tile coordinate to world space.
func MapToWorld(tile Point, t Transform, p Projection) Point {
	return t.Matrix().TransformPoint(p.TileToLocal(tile))
}
