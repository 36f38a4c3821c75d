// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws tilemaps without a GPU.
//
// # Key Principle
//
// The GPU path is a single quad plus the tilemap fragment shader. This
// package runs the same per-pixel resolution on the CPU, so images can be
// produced headless and the shader's behaviour can be checked in tests.
//
// # Components
//
//   - SoftwareRenderer: per-pixel reference renderer for a View
//   - PixmapTarget: *image.RGBA render target
//   - MemoryHost / MemoryTexture: tilemap.TextureHost kept in CPU memory
//   - Camera: world-to-pixel mapping with hit-testing via View.Pick
//   - NewAtlasImage, PadAtlas, ScaleAtlas: atlas image helpers
//
// # Usage
//
//	host := render.NewMemoryHost()
//	if err := m.Flush(host); err != nil {
//	    return err
//	}
//	tex := m.Texture().(*render.MemoryTexture)
//
//	target := render.NewPixmapTarget(800, 600)
//	view := render.View{
//	    Map:    m,
//	    Atlas:  atlasImg,
//	    Camera: render.FitCamera(m, tilemap.IdentityTransform(), 800, 600, 16),
//	    Tiles:  tex,
//	}
//	err := render.NewSoftwareRenderer().Render(target, view)
//
// Reading Tiles rather than the map's staging buffer means the image shows
// exactly what was last flushed.
package render
