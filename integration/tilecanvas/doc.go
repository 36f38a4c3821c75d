// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tilecanvas shows a tilemap in a gogpu window without a custom
// render pipeline.
//
// The data flow is:
//
//	tilemap.Map (tiles) -> render.SoftwareRenderer -> RGBA image -> host texture -> window
//
// # Usage
//
//	canvas, err := tilecanvas.New(render.View{Map: m, Atlas: atlasImg}, 800, 600)
//	if err != nil {
//	    return err
//	}
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    if x, y, ok := canvas.Pick(cursorX, cursorY); ok {
//	        _ = m.WithIndexer(func(ix *tilemap.Indexer) error {
//	            return ix.Set(x, y, hoverTile)
//	        })
//	    }
//	    canvas.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Performance Notes
//
//   - The texture is created lazily on the first RenderTo
//   - The view is re-rendered only when tiles, transform, camera or size change
//   - Rendering is per pixel on the CPU; keep the canvas small or use the
//     shader package for full-screen maps
//
// # Integration Without Circular Imports
//
// The package talks to the host only through gpucontext.TextureDrawer,
// gpucontext.TextureCreator and gpucontext.TextureUpdater.
package tilecanvas
