package tilemap

import (
	"encoding/binary"
	"math"
)

// ParamsSize is the size in bytes of the uniform block read by the tilemap
// shader, padded to 16 bytes as required for uniform buffers.
const ParamsSize = 96

// Params holds the per-map values the fragment shader needs to mirror the
// projection on the GPU. Field order and layout match the Params struct
// in shader/tilemap.wgsl.
type Params struct {
	ToLocal    Matrix
	ToTile     Matrix
	TileSize   Point
	MapSize    Size
	AtlasTiles Size
	AtlasSize  Point
	AtlasTile  Point
	PadBefore  Point
	PadBetween Point
	Projection ProjectionKind
}

// Params returns the uniform values for this map.
func (m *Map) Params() Params {
	return Params{
		ToLocal:    m.proj.Matrix(),
		ToTile:     m.proj.InverseMatrix(),
		TileSize:   m.proj.TileSize(),
		MapSize:    m.size,
		AtlasTiles: m.atlas.Tiles,
		AtlasSize:  m.atlas.ImageSize.Point(),
		AtlasTile:  m.atlas.TileSize,
		PadBefore:  m.atlas.Padding.Before,
		PadBetween: m.atlas.Padding.Between,
		Projection: m.proj.Kind(),
	}
}

// Bytes encodes the parameters in the WGSL uniform layout (little-endian,
// f32 and u32 components, mat2x2 stored column-major).
func (p Params) Bytes() []byte {
	buf := make([]byte, ParamsSize)
	le := binary.LittleEndian
	f32 := func(off int, v float64) {
		le.PutUint32(buf[off:], math.Float32bits(float32(v)))
	}
	vec2 := func(off int, v Point) {
		f32(off, v.X)
		f32(off+4, v.Y)
	}
	mat2 := func(off int, m Matrix) {
		x, y := m.Basis()
		vec2(off, x)
		vec2(off+8, y)
	}
	uvec2 := func(off int, s Size) {
		le.PutUint32(buf[off:], s.Width)
		le.PutUint32(buf[off+4:], s.Height)
	}

	mat2(0, p.ToLocal)
	mat2(16, p.ToTile)
	vec2(32, p.TileSize)
	uvec2(40, p.MapSize)
	uvec2(48, p.AtlasTiles)
	vec2(56, p.AtlasSize)
	vec2(64, p.AtlasTile)
	vec2(72, p.PadBefore)
	vec2(80, p.PadBetween)
	le.PutUint32(buf[88:], uint32(p.Projection))
	return buf
}
