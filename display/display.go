// Package display renders an evaluated density-function slice: either a
// live ebiten window that shows one Y-layer of a pre-evaluated Grid and
// steps through its layers with the arrow keys, or a single PNG export for
// batch/headless use.
package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
)

// Grid is a pre-evaluated slab of density values: width*depth samples per Y
// layer, for maxY layers. cmd/densityview fans the evaluation across a
// worker pool and hands the finished Grid here; display itself never calls
// into vm/noise directly.
type Grid struct {
	Width, Depth, MaxY int
	// Values is indexed [y][x*Depth+z], a row-major image buffer per layer.
	Values [][]float64
}

// At returns the density value at (x, y, z).
func (g *Grid) At(x, y, z int) float64 {
	return g.Values[y][x*g.Depth+z]
}

// game implements ebiten.Game, redrawing the current Y layer as a grayscale
// image colored from the density range of that layer.
type game struct {
	grid   *Grid
	y      int
	img    *ebiten.Image
	pixels []byte
	dirty  bool
	log    zerolog.Logger
}

// Run opens an interactive viewer over grid, starting at Y layer startY.
// Up/Down arrows step through Y layers; Escape closes the window.
func Run(grid *Grid, startY int, log zerolog.Logger) error {
	g := &game{
		grid:   grid,
		y:      startY,
		img:    ebiten.NewImage(grid.Width, grid.Depth),
		pixels: make([]byte, grid.Width*grid.Depth*4),
		dirty:  true,
		log:    log,
	}
	ebiten.SetWindowSize(grid.Width, grid.Depth)
	ebiten.SetWindowTitle("densityview")
	return ebiten.RunGame(g)
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && g.y < g.grid.MaxY-1:
		g.y++
		g.dirty = true
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && g.y > 0:
		g.y--
		g.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.dirty {
		g.log.Debug().Int("y", g.y).Msg("redrawing density slice")
		paintSlice(g.pixels, g.grid, g.y)
		g.img.WritePixels(g.pixels)
		g.dirty = false
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.grid.Width, g.grid.Depth
}

// paintSlice converts one Y layer of density values into an RGBA pixel
// buffer, mapping the layer's own min/max density to black/white.
func paintSlice(pixels []byte, grid *Grid, y int) {
	row := grid.Values[y]
	lo, hi := row[0], row[0]
	for _, v := range row {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, v := range row {
		shade := uint8(255 * (v - lo) / span)
		pixels[i*4+0] = shade
		pixels[i*4+1] = shade
		pixels[i*4+2] = shade
		pixels[i*4+3] = 255
	}
}

// ExportPNG writes one Y layer of grid to path as a grayscale PNG.
func ExportPNG(grid *Grid, y int, path string) error {
	img := image.NewGray(image.Rect(0, 0, grid.Width, grid.Depth))
	row := grid.Values[y]
	lo, hi := row[0], row[0]
	for _, v := range row {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for x := 0; x < grid.Width; x++ {
		for z := 0; z < grid.Depth; z++ {
			shade := uint8(255 * (grid.At(x, y, z) - lo) / span)
			img.Set(x, z, color.Gray{Y: shade})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("display: creating %q: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("display: encoding %q: %w", path, err)
	}
	return nil
}
