package render

import (
	"image/color"
	"testing"

	"firespread/internal/core"
	"firespread/internal/predict"
	"firespread/internal/world"
)

func TestFillPaletteClampsAndClears(t *testing.T) {
	buf := make([]byte, 8)
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	fillPaletteRGBA(buf, []uint8{0, 9}, palette)
	if buf[0] != 1 || buf[4] != 5 || buf[7] != 8 {
		t.Fatalf("buf = %v", buf)
	}
	fillPaletteRGBA(buf, []uint8{0, 1}, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d after clearing", i, b)
		}
	}
}

func TestFillWorldUsesImageOrder(t *testing.T) {
	h := core.NewGrid[float64](3, 2)
	m := core.NewGrid[int](3, 2)
	v := core.NewGrid[world.Vegetation](3, 2)
	m.Set(2, 0, world.WaterMoisture)
	v.Set(0, 1, world.Forest)
	w, err := world.FromFields(h, m, v, world.DefaultWaterHeight)
	if err != nil {
		t.Fatal(err)
	}
	w.At(1, 1).Ignite()

	f := NewFrame(3, 2)
	if !f.FillWorld(w) {
		t.Fatal("FillWorld rejected a matching world")
	}
	img := f.Image()
	cases := []struct {
		x, y int
		want color.RGBA
	}{
		{2, 0, TilePalette[ClassWater]},
		{0, 1, TilePalette[ClassForest]},
		{1, 1, TilePalette[ClassBurning]},
		{0, 0, TilePalette[ClassGrass]},
	}
	for _, c := range cases {
		if got := img.RGBAAt(c.x, c.y); got != c.want {
			t.Fatalf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
	if f.FillWorld(mustWorld(t, 2, 2)) {
		t.Fatal("FillWorld accepted a world of another size")
	}
}

func TestHeightShading(t *testing.T) {
	h := core.NewGrid[float64](2, 1)
	h.Set(1, 0, 1)
	w, err := world.FromFields(h, core.NewGrid[int](2, 1), core.NewGrid[world.Vegetation](2, 1), world.DefaultWaterHeight)
	if err != nil {
		t.Fatal(err)
	}
	img := WorldImage(w)
	low, high := img.RGBAAt(0, 0), img.RGBAAt(1, 0)
	if low.G >= high.G {
		t.Fatalf("higher land should be brighter: low=%v high=%v", low, high)
	}
}

func TestHeatColorRamp(t *testing.T) {
	if c := HeatColor(0); c != (color.RGBA{A: 255}) {
		t.Fatalf("HeatColor(0) = %v", c)
	}
	if c := HeatColor(1); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("HeatColor(1) = %v", c)
	}
	prev := HeatColor(0)
	for v := 0.05; v <= 1; v += 0.05 {
		c := HeatColor(v)
		if c.R < prev.R || c.G < prev.G || c.B < prev.B {
			t.Fatalf("ramp not monotone at %v: %v after %v", v, c, prev)
		}
		prev = c
	}
	if HeatColor(-1) != HeatColor(0) || HeatColor(2) != HeatColor(1) {
		t.Fatal("out of range values should clamp")
	}

	heat := predict.NewHeatMap(2, 3)
	heat.Set(1, 2, 1)
	img := HeatImage(heat)
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 3 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if img.RGBAAt(1, 2) != HeatColor(1) || img.RGBAAt(0, 0) != HeatColor(0) {
		t.Fatal("heat pixels misplaced")
	}
}

func mustWorld(t *testing.T, w, d int) *world.World {
	t.Helper()
	out, err := world.New(w, d)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
