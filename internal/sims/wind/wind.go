// Package wind drifts a world's wind at random, one tick at a time.
package wind

import (
	"firespread/internal/events"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

const (
	// MaxDirectionDelta bounds the per-tick direction change in degrees.
	MaxDirectionDelta = 15
	// MaxSpeedDelta bounds the per-tick speed change in km/h.
	MaxSpeedDelta = 3.0
)

// Model is a stochastic wind simulation. It never finishes on its own.
type Model struct {
	world *world.World
	src   rng.Source
	tick  int
	log   *events.Log
}

// New binds a wind model to a world and assigns it a random wind.
func New(w *world.World, src rng.Source) *Model {
	if src == nil {
		src = rng.NewRand(0)
	}
	m := &Model{world: w, src: src, log: events.NewLog()}
	m.Reset()
	return m
}

// Name implements core.Simulation.
func (m *Model) Name() string { return "wind" }

// Reset starts a new session with a fresh random wind.
func (m *Model) Reset() {
	m.world.SetWind(world.RandomWind(m.src))
	m.tick = 0
	m.log.Clear()
}

// Update nudges direction by an integer in [-15,15] degrees and speed by a
// value in [-3,3] km/h, then logs both changes.
func (m *Model) Update() {
	m.tick++
	w := m.world.Wind()

	dDir := rng.UniformInt(m.src, -MaxDirectionDelta, MaxDirectionDelta+1)
	dSpeed := rng.Uniform(m.src, -MaxSpeedDelta, MaxSpeedDelta)

	oldDir, oldSpeed := w.Direction(), w.Speed()
	w.SetDirection(oldDir + dDir)
	w.SetSpeed(oldSpeed + dSpeed)

	m.log.Append(events.WindDirectionChanged{Tick: m.tick, Old: oldDir, New: w.Direction()})
	m.log.Append(events.WindSpeedChanged{Tick: m.tick, Old: oldSpeed, New: w.Speed()})
}

// Finished is always false.
func (m *Model) Finished() bool { return false }

// Log exposes the wind event history of the session.
func (m *Model) Log() *events.Log { return m.log }

// LastEvents returns the events logged during the latest tick.
func (m *Model) LastEvents() []events.Event { return m.log.At(m.tick) }
