//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"firespread/internal/core"
	"firespread/internal/events"
)

// Panel renders the status column to the right of the map.
type Panel struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image
}

// NewPanel constructs a panel of the given pixel width.
func NewPanel(width int) *Panel {
	if width < 0 {
		width = 0
	}
	p := &Panel{width: width}
	p.pixel = ebiten.NewImage(1, 1)
	p.pixel.Fill(color.White)
	return p
}

// Width returns the panel width in pixels.
func (p *Panel) Width() int {
	if p == nil {
		return 0
	}
	return p.width
}

// Draw paints the panel at offsetX with the given height.
func (p *Panel) Draw(screen *ebiten.Image, offsetX, height int, st Status, params core.ParameterSnapshot, history []events.Sample) {
	if p == nil || p.width <= 0 || height <= 0 {
		return
	}
	if p.panel == nil || p.lastHeight != height {
		p.panel = ebiten.NewImage(p.width, height)
		p.lastHeight = height
	}
	p.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(p.panel, "Fire spread", face, panelPadding, y, headerColor)
	y += infoSpacing / 2
	for _, line := range st.Lines() {
		y += lineHeight
		text.Draw(p.panel, line, face, panelPadding, y, valueColor)
	}

	for _, group := range params.Groups {
		y += lineHeight + sectionGap
		text.Draw(p.panel, group.Name, face, panelPadding, y, headerColor)
		for _, param := range group.Params {
			y += lineHeight
			text.Draw(p.panel, param.Label+": "+param.Value, face, panelPadding, y, dimColor)
		}
	}

	graphTop := y + sectionGap
	graphHeight := height - graphTop - helpHeight()
	if graphHeight > 24 {
		text.Draw(p.panel, "Burning tiles", face, panelPadding, graphTop+headerBaseline, headerColor)
		p.drawHistory(history, graphTop+headerBaseline+6, graphHeight-headerBaseline-12)
	}

	y = height - helpHeight()
	for _, line := range KeyHelp {
		y += lineHeight
		text.Draw(p.panel, line, face, panelPadding, y, dimColor)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(p.panel, op)
}

func (p *Panel) drawHistory(history []events.Sample, top, height int) {
	inner := p.width - 2*panelPadding
	if len(history) == 0 || inner <= 0 || height <= 0 {
		return
	}
	if len(history) > inner {
		history = history[len(history)-inner:]
	}
	peak := 1
	for _, s := range history {
		peak = max(peak, s.Burning)
	}
	barWidth := max(1, inner/len(history))
	for i, s := range history {
		h := s.Burning * height / peak
		if h == 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(barWidth), float64(h))
		op.GeoM.Translate(float64(panelPadding+i*barWidth), float64(top+height-h))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 240, G: 110, B: 40, A: 255})
		p.panel.DrawImage(p.pixel, op)
	}
}

func helpHeight() int { return len(KeyHelp)*lineHeight + panelPadding }

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	valueColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 16
	sectionGap     = 10
	headerBaseline = 18
	infoSpacing    = 12
)
