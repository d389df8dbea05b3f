//go:build !ebiten

package app

import (
	"errors"

	"github.com/charmbracelet/log"

	"firespread/internal/session"
)

// ErrNoGUI is returned by the headless Game.
var ErrNoGUI = errors.New("app: GUI support requires the ebiten build tag")

// Game stands in for the ebiten viewer in headless builds. Config and
// session wiring still compile; only drawing is missing.
type Game struct{}

// New panics: there is no window to open without the ebiten tag.
func New(*Config, *session.Session, *log.Logger) *Game {
	panic(ErrNoGUI)
}

// Update reports ErrNoGUI.
func (g *Game) Update() error { return ErrNoGUI }

// Draw does nothing.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
