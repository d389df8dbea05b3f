//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"firespread/internal/predict"
	"firespread/internal/world"
)

// GridPainter keeps one ebiten image per grid and re-uploads it each frame.
type GridPainter struct {
	frame *Frame
	img   *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{frame: NewFrame(w, h), img: ebiten.NewImage(w, h)}
}

// BlitWorld uploads the world and draws it scaled onto dst.
func (gp *GridPainter) BlitWorld(dst *ebiten.Image, w *world.World, scale int) {
	if !gp.frame.FillWorld(w) {
		return
	}
	gp.blit(dst, scale)
}

// BlitHeat uploads a heat map and draws it scaled onto dst.
func (gp *GridPainter) BlitHeat(dst *ebiten.Image, h *predict.HeatMap, scale int) {
	if !gp.frame.FillHeat(h) {
		return
	}
	gp.blit(dst, scale)
}

func (gp *GridPainter) blit(dst *ebiten.Image, scale int) {
	gp.img.WritePixels(gp.frame.Pix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.frame.W, gp.frame.H }
