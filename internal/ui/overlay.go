//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"firespread/internal/core"
	"firespread/internal/world"
)

// Overlay draws the wind field and the hovered tile on top of the map.
type Overlay struct {
	scale    int
	showWind bool
	pixel    *ebiten.Image

	hover    world.Position
	hasHover bool

	windSamples    []windSample
	windCacheSize  core.Size
	windCacheScale int
	windPixelSpan  float64
}

type windSample struct {
	sx float64
	sy float64
}

// NewOverlay constructs an overlay for a map drawn at scale.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: scale, showWind: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the wind field with W.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		o.showWind = !o.showWind
	}
}

// SetHover marks the tile under the cursor; ok=false clears it.
func (o *Overlay) SetHover(p world.Position, ok bool) {
	o.hover, o.hasHover = p, ok
}

// Draw renders the overlay for w onto screen.
func (o *Overlay) Draw(screen *ebiten.Image, w *world.World) {
	size := w.Size()
	if size.W <= 0 || size.D <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.hasHover && w.InBounds(o.hover) {
		s := float64(scale)
		cx := (float64(o.hover.X) + 0.5) * s
		cy := (float64(o.hover.Y) + 0.5) * s
		o.drawPoint(screen, cx, cy, s, color.RGBA{R: 255, G: 255, B: 255, A: 90})
	}
	if o.showWind {
		o.drawWindField(screen, w.Wind(), size, scale)
	}
}

func (o *Overlay) drawWindField(screen *ebiten.Image, wind *world.Wind, size core.Size, scale int) {
	if !o.ensureWindSamples(size, scale) {
		return
	}

	const (
		headAngle    = math.Pi / 6
		minThickness = 0.65
		maxThickness = 1.05
	)

	normalized := clamp01(wind.Speed() / world.MaxWindSpeed)
	span := o.windPixelSpan
	if normalized < 0.02 {
		for _, sample := range o.windSamples {
			o.drawPoint(screen, sample.sx, sample.sy, span*0.18, color.RGBA{R: 90, G: 130, B: 170, A: 120})
		}
		return
	}

	rad := float64(wind.Direction()) * math.Pi / 180
	nx, ny := math.Cos(rad), math.Sin(rad)
	length := span * (0.35 + 0.35*math.Sqrt(normalized))
	headLength := math.Min(length*0.3, float64(scale)*4.5)
	tailLength := length * 0.4
	thickness := math.Max(1, float64(scale)*(minThickness+(maxThickness-minThickness)*normalized))
	col := interpolateColor(normalized)

	for _, sample := range o.windSamples {
		tipX := sample.sx + nx*(length-tailLength)
		tipY := sample.sy + ny*(length-tailLength)
		tailX := sample.sx - nx*tailLength
		tailY := sample.sy - ny*tailLength
		o.drawLine(screen, tailX, tailY, tipX-nx*headLength, tipY-ny*headLength, thickness, col)

		angle := math.Atan2(ny, nx)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*headLength, tipY-math.Sin(angle+headAngle)*headLength, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*headLength, tipY-math.Sin(angle-headAngle)*headLength, thickness*0.85, col)
	}
}

func (o *Overlay) ensureWindSamples(size core.Size, scale int) bool {
	if o.windCacheSize == size && o.windCacheScale == scale && len(o.windSamples) > 0 {
		return true
	}

	const (
		targetSamples = 36.0
		minSpacing    = 4
		maxSpacing    = 16
	)
	spacing := int(math.Sqrt(float64(size.W*size.D) / targetSamples))
	spacing = max(minSpacing, min(maxSpacing, spacing))

	countX := (size.W + spacing - 1) / spacing
	countY := (size.D + spacing - 1) / spacing
	startX := max(0, (size.W-1-(countX-1)*spacing)/2)
	startY := max(0, (size.D-1-(countY-1)*spacing)/2)

	o.windSamples = o.windSamples[:0]
	for yi := 0; yi < countY; yi++ {
		cy := float64(min(size.D-1, startY+yi*spacing)) + 0.5
		for xi := 0; xi < countX; xi++ {
			cx := float64(min(size.W-1, startX+xi*spacing)) + 0.5
			o.windSamples = append(o.windSamples, windSample{sx: cx * float64(scale), sy: cy * float64(scale)})
		}
	}
	o.windCacheSize = size
	o.windCacheScale = scale
	o.windPixelSpan = float64(spacing) * float64(scale)
	return len(o.windSamples) > 0
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	calm := color.RGBA{R: 120, G: 190, B: 240, A: 200}
	gale := color.RGBA{R: 250, G: 230, B: 120, A: 230}
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return color.RGBA{R: lerp(calm.R, gale.R), G: lerp(calm.G, gale.G), B: lerp(calm.B, gale.B), A: lerp(calm.A, gale.A)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
