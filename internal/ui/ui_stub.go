//go:build !ebiten

package ui

import (
	"firespread/internal/core"
	"firespread/internal/events"
	"firespread/internal/world"
)

// Panel is a no-op placeholder for headless builds.
type Panel struct{}

// NewPanel returns nil in the headless build.
func NewPanel(int) *Panel { return nil }

// Width is zero in the headless build.
func (p *Panel) Width() int { return 0 }

// Draw is a no-op in the headless build.
func (p *Panel) Draw(any, int, int, Status, core.ParameterSnapshot, []events.Sample) {}

// Overlay is a no-op placeholder for headless builds.
type Overlay struct{}

// NewOverlay returns nil in the headless build.
func NewOverlay(int) *Overlay { return nil }

// Update is a no-op in the headless build.
func (o *Overlay) Update() {}

// SetHover is a no-op in the headless build.
func (o *Overlay) SetHover(world.Position, bool) {}

// Draw is a no-op in the headless build.
func (o *Overlay) Draw(any, *world.World) {}
