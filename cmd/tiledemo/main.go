// Command tiledemo renders an axonometric chessboard tilemap to a PNG and
// highlights the tile under a given cursor position.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/render"
)

// Atlas tiles. Index 0 is drawn for cells outside the logical map.
const (
	tileOutside = iota
	tileLight
	tileDark
	tileHover
	atlasTiles
)

func main() {
	var (
		width      = flag.Int("width", 1820, "image width")
		height     = flag.Int("height", 920, "image height")
		output     = flag.String("output", "tiledemo.png", "output file")
		projection = flag.String("projection", "axonometric", "orthogonal, axonometric, hex-pointy or hex-flat")
		cols       = flag.Uint("cols", 23, "map width in tiles")
		rows       = flag.Uint("rows", 57, "map height in tiles")
		tileW      = flag.Float64("tile-width", 40, "tile width in world units")
		tileH      = flag.Float64("tile-height", 20, "tile height in world units")
		atlasScale = flag.Float64("atlas-scale", 1, "atlas pixels per world unit")
		pad        = flag.Bool("pad", false, "pad the atlas to power-of-two dimensions")
		labels     = flag.Bool("labels", false, "draw tile indices into the atlas")
		cursorX    = flag.Float64("cursor-x", -1, "hovered pixel x (negative: no hover)")
		cursorY    = flag.Float64("cursor-y", -1, "hovered pixel y (negative: no hover)")
		verbose    = flag.Bool("v", false, "log tilemap internals")
	)
	flag.Parse()

	if *verbose {
		tilemap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	kind, err := parseProjection(*projection)
	if err != nil {
		log.Fatal(err)
	}
	tileSize := tilemap.Pt(*tileW, *tileH)

	atlasImg, atlasOpts, err := buildAtlas(kind, tileSize, *atlasScale, *pad, *labels)
	if err != nil {
		log.Fatalf("Failed to build atlas: %v", err)
	}

	opts := append([]tilemap.Option{
		tilemap.WithProjection(kind),
		tilemap.WithLabel("tiledemo"),
		tilemap.WithInitializer(chessboard),
	}, atlasOpts...)
	m, err := tilemap.New(tilemap.Sz(uint32(*cols), uint32(*rows)), tileSize, opts...)
	if err != nil {
		log.Fatalf("Failed to create map: %v", err)
	}
	defer m.Close()

	xform := tilemap.IdentityTransform()
	cam := render.FitCamera(m, xform, *width, *height, 16)

	if *cursorX >= 0 && *cursorY >= 0 {
		if err := highlightHovered(m, xform, cam, tilemap.Pt(*cursorX, *cursorY)); err != nil {
			log.Fatalf("Failed to highlight: %v", err)
		}
	}

	host := render.NewMemoryHost()
	if err := m.Flush(host); err != nil {
		log.Fatalf("Failed to flush map: %v", err)
	}
	tex, _ := m.Texture().(*render.MemoryTexture)

	target := render.NewPixmapTarget(*width, *height)
	target.Clear(color.RGBA{R: 0x20, G: 0x24, B: 0x30, A: 0xff})
	view := render.View{Map: m, Transform: xform, Atlas: atlasImg, Camera: cam, Tiles: tex}
	if err := render.NewSoftwareRenderer().Render(target, view); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := savePNG(*output, target.Image()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Map saved to %s (%dx%d, %dx%d tiles, %s)\n",
		*output, *width, *height, *cols, *rows, kind)
}

func parseProjection(s string) (tilemap.ProjectionKind, error) {
	switch s {
	case "orthogonal", "ortho":
		return tilemap.Orthogonal, nil
	case "axonometric", "isometric", "iso":
		return tilemap.Axonometric, nil
	case "hex-pointy":
		return tilemap.HexPointy, nil
	case "hex-flat":
		return tilemap.HexFlat, nil
	default:
		return 0, fmt.Errorf("unknown projection %q", s)
	}
}

// chessboard fills the map with alternating light and dark tiles.
func chessboard(ix *tilemap.Indexer) error {
	size := ix.Size()
	for y := uint32(0); y < size.Height; y++ {
		for x := uint32(0); x < size.Width; x++ {
			if err := ix.Set(x, y, uint16((x+y)%2)+tileLight); err != nil {
				return err
			}
		}
	}
	return nil
}

// highlightHovered converts a cursor pixel to a map coordinate, clamps it
// into the map and marks that tile. The whole board is reset in the same
// scope so the texture is re-encoded once.
func highlightHovered(m *tilemap.Map, xform tilemap.Transform, cam render.Camera, cursor tilemap.Point) error {
	coord := m.WorldToMap(cam.ScreenToWorld(cursor), xform)
	log.Printf("Map coordinate: %.3f, %.3f\n", coord.X, coord.Y)

	x, y := m.Clamp(coord)
	return m.WithIndexer(func(ix *tilemap.Indexer) error {
		if err := chessboard(ix); err != nil {
			return err
		}
		return ix.Set(x, y, tileHover)
	})
}

// buildAtlas paints one row of atlasTiles tiles and returns the map
// options describing it.
func buildAtlas(kind tilemap.ProjectionKind, tileSize tilemap.Point, scale float64, pad, labels bool) (image.Image, []tilemap.Option, error) {
	layout := tilemap.Atlas{
		TileSize:  tileSize,
		ImageSize: tilemap.Sz(uint32(tileSize.X)*atlasTiles, uint32(tileSize.Y)),
		Tiles:     tilemap.Sz(atlasTiles, 1),
	}
	shape := render.ShapeRect
	if kind == tilemap.Axonometric {
		shape = render.ShapeDiamond
	}
	img, err := render.NewAtlasImage(layout, render.AtlasStyle{
		Colors: []color.RGBA{
			tileOutside: {R: 0x40, G: 0x40, B: 0x48, A: 0x80},
			tileLight:   {R: 0xd8, G: 0xd0, B: 0xb8, A: 0xff},
			tileDark:    {R: 0x58, G: 0x78, B: 0x50, A: 0xff},
			tileHover:   {R: 0xe0, G: 0x30, B: 0x30, A: 0xff},
		},
		Shape:  shape,
		Labels: labels,
	})
	if err != nil {
		return nil, nil, err
	}

	var atlas image.Image = img
	atlasTile := tileSize
	if scale != 1 {
		atlas = render.ScaleAtlas(img, scale)
		atlasTile = tileSize.Mul(scale)
	}
	if pad {
		atlas = render.PadAtlas(atlas)
	}

	b := atlas.Bounds()
	return atlas, []tilemap.Option{
		tilemap.WithAtlasTileSize(atlasTile),
		tilemap.WithAtlasTiles(tilemap.Sz(atlasTiles, 1)),
		tilemap.WithAtlasSize(tilemap.Sz(uint32(b.Dx()), uint32(b.Dy()))),
	}, nil
}

func savePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
