// Package tilemap renders large, regular tile grids from a single GPU
// texture of tile indices.
//
// # Overview
//
// Instead of building geometry per tile, a map keeps one uint16 per tile in
// a dense grid, encodes the grid into an R16Uint texture and lets a fragment
// shader resolve which tile, and which atlas pixel, covers each fragment.
// This package is the CPU side of that scheme: the projection math, the
// tile storage, and the synchronizer that keeps the texture in step with it.
//
// # Quick Start
//
//	m, err := tilemap.New(tilemap.Sz(64, 64), tilemap.Pt(32, 32))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Batch writes; the texture is re-encoded once when fn returns.
//	err = m.WithIndexer(func(ix *tilemap.Indexer) error {
//	    return ix.Set(2, 3, 7)
//	})
//
//	// Once per frame, in the render loop.
//	err = m.Flush(host)
//
//	// Hit-testing a cursor position.
//	c := m.WorldToMap(cursor, entityTransform)
//	if x, y, ok := m.TileAt(c); ok {
//	    ...
//	}
//
// # Coordinate System
//
// Three spaces are involved:
//   - Tile space: grid coordinates, fractional between cell corners.
//     Integer cell (x, y) spans [x, x+1) x [y, y+1).
//   - Local space: the map's own plane before its world transform.
//   - World space: local space after the entity's translation, rotation
//     and scale.
//
// Local and world space are y-down: origin top-left, X increases right,
// Y increases down, angles in radians. Tile (0, 0) has its origin corner at
// local (0, 0).
//
// # Projections
//
//   - Orthogonal: local = tile * tileSize.
//   - Axonometric: right = (w/2, -h/2), down = (w/2, h/2).
//   - HexPointy / HexFlat: axial coordinates; cells are hexagons.
//   - Custom: any invertible basis.
//
// # Tile Indices
//
// Index 0 (Background) marks cells outside the logical map but inside the
// rectangular storage. All other values index the atlas.
//
// # Concurrency
//
// A map has a single mutation path. WithIndexer scopes must not overlap;
// an overlapping call fails with ErrIndexerBusy. Coordinate conversions
// are pure and may be called concurrently with each other.
package tilemap
