// Package sim drives per-tick simulations over a shared world.
package sim

import (
	"errors"
	"fmt"

	"firespread/internal/core"
	"firespread/internal/sims/fire"
	"firespread/internal/sims/wind"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

// ErrNoPrimary is returned when a batch run has no simulation to wait on.
var ErrNoPrimary = errors.New("sim: no primary simulation")

// DefaultMaxTicks bounds RunToCompletion so a misbehaving primary cannot
// spin forever.
const DefaultMaxTicks = 1 << 20

// ErrTickLimit is returned when the primary does not finish within MaxTicks.
var ErrTickLimit = errors.New("sim: tick limit reached")

// Coordinator updates its simulations in registration order. One of them is
// the primary whose completion ends a batch run.
type Coordinator struct {
	world   *world.World
	sims    []core.Simulation
	primary core.Simulation

	// MaxTicks caps RunToCompletion; zero means DefaultMaxTicks.
	MaxTicks int
}

// New returns an empty coordinator for w.
func New(w *world.World) *Coordinator {
	return &Coordinator{world: w}
}

// Add registers a simulation and returns the coordinator for chaining.
func (c *Coordinator) Add(s core.Simulation) *Coordinator {
	if s != nil {
		c.sims = append(c.sims, s)
	}
	return c
}

// AddPrimary registers s and makes it the simulation RunToCompletion waits on.
func (c *Coordinator) AddPrimary(s core.Simulation) *Coordinator {
	if s == nil {
		return c
	}
	c.primary = s
	return c.Add(s)
}

// Simulations returns the registered simulations in update order.
func (c *Coordinator) Simulations() []core.Simulation { return c.sims }

// World returns the world the simulations run on.
func (c *Coordinator) World() *world.World { return c.world }

// UpdateAll advances every simulation by one tick, in registration order.
func (c *Coordinator) UpdateAll() {
	for _, s := range c.sims {
		s.Update()
	}
}

// Finished reports whether the primary simulation has finished. Without a
// primary it reports true.
func (c *Coordinator) Finished() bool {
	return c.primary == nil || c.primary.Finished()
}

// Reset resets the world and then every simulation in order.
func (c *Coordinator) Reset() {
	c.world.Reset()
	for _, s := range c.sims {
		s.Reset()
	}
}

// RunToCompletion resets and then ticks until the primary finishes. It
// returns the number of ticks run.
func (c *Coordinator) RunToCompletion() (int, error) {
	if c.primary == nil {
		return 0, ErrNoPrimary
	}
	limit := c.MaxTicks
	if limit <= 0 {
		limit = DefaultMaxTicks
	}
	c.Reset()
	ticks := 0
	for !c.primary.Finished() {
		if ticks >= limit {
			return ticks, fmt.Errorf("%w: %s after %d ticks", ErrTickLimit, c.primary.Name(), ticks)
		}
		c.UpdateAll()
		ticks++
	}
	return ticks, nil
}

// FireSession bundles a coordinator with its fire engine and wind model.
type FireSession struct {
	*Coordinator
	Fire *fire.Engine
	Wind *wind.Model
}

// NewFireSession wires a fire engine (primary) and a wind model onto w. Each
// gets its own random stream derived from seed. With wind disabled
// (WindSpreadFactor <= 0) the wind model is still attached so the event log
// matches an enabled run.
func NewFireSession(w *world.World, params fire.Params, initial []world.Position, seed int64) (*FireSession, error) {
	engine, err := fire.New(w, params, initial, rng.NewRand(rng.DeriveSeed(seed, "fire")))
	if err != nil {
		return nil, err
	}
	model := wind.New(w, rng.NewRand(rng.DeriveSeed(seed, "wind")))
	c := New(w).AddPrimary(engine).Add(model)
	return &FireSession{Coordinator: c, Fire: engine, Wind: model}, nil
}
