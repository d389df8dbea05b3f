// Package render turns worlds and heat maps into RGBA pixels. Pixel buffers
// are laid out in image order: row y holds the tiles with that depth
// coordinate, column x the tiles with that width coordinate.
package render

import (
	"image"
	"image/color"
	"math"

	"firespread/internal/predict"
	"firespread/internal/world"
)

// Tile classes used to index TilePalette.
const (
	ClassWater uint8 = iota
	ClassGrass
	ClassSparse
	ClassForest
	ClassSwamp
	ClassBurning
	ClassBurned
)

// TilePalette maps tile classes to colours.
var TilePalette = []color.RGBA{
	ClassWater:   {R: 38, G: 92, B: 178, A: 255},
	ClassGrass:   {R: 124, G: 178, B: 66, A: 255},
	ClassSparse:  {R: 186, G: 176, B: 98, A: 255},
	ClassForest:  {R: 34, G: 110, B: 42, A: 255},
	ClassSwamp:   {R: 84, G: 104, B: 70, A: 255},
	ClassBurning: {R: 240, G: 96, B: 24, A: 255},
	ClassBurned:  {R: 44, G: 40, B: 38, A: 255},
}

// Classify reports the display class of a tile. Fire state wins over
// terrain.
func Classify(t *world.Tile) uint8 {
	switch {
	case t.IsBurning():
		return ClassBurning
	case t.IsBurned():
		return ClassBurned
	case t.IsWater():
		return ClassWater
	}
	switch t.Vegetation() {
	case world.Sparse:
		return ClassSparse
	case world.Forest:
		return ClassForest
	case world.Swamp:
		return ClassSwamp
	}
	return ClassGrass
}

// Frame holds reusable scratch space for one grid size.
type Frame struct {
	W, H    int
	Pix     []byte
	classes []uint8
	shade   []float64
}

// NewFrame allocates buffers for a w×h grid.
func NewFrame(w, h int) *Frame {
	n := w * h
	return &Frame{W: w, H: h, Pix: make([]byte, 4*n), classes: make([]uint8, n), shade: make([]float64, n)}
}

// FillWorld paints w into the frame. Unburnt land is shaded by its height
// relative to the other land tiles. Worlds of another size are ignored.
func (f *Frame) FillWorld(w *world.World) bool {
	if w.Width() != f.W || w.Depth() != f.H {
		return false
	}
	lo, hi := heightRange(w)
	span := hi - lo
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			t := w.At(x, y)
			i := y*f.W + x
			c := Classify(t)
			f.classes[i] = c
			f.shade[i] = 0
			if c >= ClassGrass && c <= ClassSwamp && span > 0 {
				f.shade[i] = 0.75 + 0.45*(t.Height()-lo)/span
			}
		}
	}
	fillPaletteRGBA(f.Pix, f.classes, TilePalette)
	shadeRGBA(f.Pix, f.shade)
	return true
}

// FillHeat paints a heat map into the frame.
func (f *Frame) FillHeat(h *predict.HeatMap) bool {
	if h.Width() != f.W || h.Depth() != f.H {
		return false
	}
	for x := 0; x < f.W; x++ {
		for y := 0; y < f.H; y++ {
			c := HeatColor(h.At(x, y))
			base := 4 * (y*f.W + x)
			f.Pix[base+0] = c.R
			f.Pix[base+1] = c.G
			f.Pix[base+2] = c.B
			f.Pix[base+3] = c.A
		}
	}
	return true
}

// Image wraps the frame pixels without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: 4 * f.W, Rect: image.Rect(0, 0, f.W, f.H)}
}

// HeatColor maps a probability onto a black-red-yellow-white ramp.
func HeatColor(v float64) color.RGBA {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	ramp := func(lo, hi float64) uint8 {
		t := (v - lo) / (hi - lo)
		t = math.Max(0, math.Min(1, t))
		return uint8(math.Round(255 * t))
	}
	return color.RGBA{R: ramp(0, 0.4), G: ramp(0.35, 0.8), B: ramp(0.75, 1), A: 255}
}

// WorldImage renders w into a new image.
func WorldImage(w *world.World) *image.RGBA {
	f := NewFrame(w.Width(), w.Depth())
	f.FillWorld(w)
	return f.Image()
}

// HeatImage renders h into a new image.
func HeatImage(h *predict.HeatMap) *image.RGBA {
	f := NewFrame(h.Width(), h.Depth())
	f.FillHeat(h)
	return f.Image()
}

func heightRange(w *world.World) (float64, float64) {
	tiles := w.Tiles()
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range tiles {
		if tiles[i].IsWater() {
			continue
		}
		h := tiles[i].Height()
		lo = math.Min(lo, h)
		hi = math.Max(hi, h)
	}
	return lo, hi
}
