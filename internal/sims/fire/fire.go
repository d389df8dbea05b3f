// Package fire implements the cellular fire-spread engine.
package fire

import (
	"fmt"

	"firespread/internal/events"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

const farRingScale = 0.1

// Engine advances fire over a world one tick at a time. Tiles go from
// unburnt to burning to burned; burned is terminal until Reset.
type Engine struct {
	world   *world.World
	params  Params
	src     rng.Source
	initial []int

	tick    int
	burning []int
	next    []int
	ring    []int
	log     *events.Log
}

// New binds an engine to a world. Initial positions are resolved eagerly so
// out-of-bounds ignitions fail here. The engine is ready to Update after New.
func New(w *world.World, params Params, initial []world.Position, src rng.Source) (*Engine, error) {
	idx, err := w.Resolve(initial)
	if err != nil {
		return nil, fmt.Errorf("fire: initial tiles: %w", err)
	}
	if src == nil {
		src = rng.NewRand(0)
	}
	e := &Engine{
		world:   w,
		params:  params,
		src:     src,
		initial: idx,
		log:     events.NewLog(),
	}
	e.Reset()
	return e, nil
}

// Name implements core.Simulation.
func (e *Engine) Name() string { return "fire" }

// Reset derives burn times, clears the session, and ignites the initial
// tiles at tick 0. Initial tiles that cannot ignite (water) are skipped.
func (e *Engine) Reset() {
	tiles := e.world.Tiles()
	for i := range tiles {
		t := &tiles[i]
		t.Reset()
		t.SetBurnTime(BurnTime(t.Vegetation(), t.Moisture()))
	}
	e.tick = 0
	e.burning = e.burning[:0]
	e.log.Clear()
	for _, idx := range e.initial {
		t := e.world.TileAt(idx)
		if !t.Ignite() {
			continue
		}
		e.burning = append(e.burning, idx)
		e.log.Append(events.TileStartedBurning{Tick: 0, Tile: t.Position()})
	}
}

// Update advances one tick: every burning tile tries to ignite its ring-1
// and ring-2 neighbours, then burns for one more tick and is extinguished
// once it reaches its burn time.
func (e *Engine) Update() {
	e.tick++
	e.next = append(e.next[:0], e.burning...)

	for _, idx := range e.burning {
		src := e.world.TileAt(idx)
		if !src.IsBurning() || src.IsBurned() {
			panic(fmt.Sprintf("fire: tile %v in burning set with burning=%v burned=%v", src.Position(), src.IsBurning(), src.IsBurned()))
		}
		for radius := 1; radius <= 2; radius++ {
			scale := 1.0
			if radius == 2 {
				scale = farRingScale
			}
			e.ring = e.world.RingNeighbors(idx, radius, e.ring[:0])
			for _, n := range e.ring {
				target := e.world.TileAt(n)
				if target.IsWater() || target.IsBurning() || target.IsBurned() {
					continue
				}
				p := SpreadProbability(e.world, src, target, e.params) * scale
				if e.src.Float64() < p && target.Ignite() {
					e.next = append(e.next, n)
					e.log.Append(events.TileStartedBurning{Tick: e.tick, Tile: target.Position()})
				}
			}
		}

		if src.Tick() >= src.BurnTime() {
			src.Extinguish()
			e.next = remove(e.next, idx)
			e.log.Append(events.TileStoppedBurning{Tick: e.tick, Tile: src.Position()})
		}
	}

	e.burning, e.next = e.next, e.burning
}

func remove(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// Finished reports whether no tile is burning.
func (e *Engine) Finished() bool { return len(e.burning) == 0 }

// Tick returns the number of completed updates in this session.
func (e *Engine) Tick() int { return e.tick }

// Burning returns the positions of the burning tiles.
func (e *Engine) Burning() []world.Position {
	out := make([]world.Position, 0, len(e.burning))
	for _, idx := range e.burning {
		out = append(out, e.world.TileAt(idx).Position())
	}
	return out
}

// BurningCount returns the size of the burning set.
func (e *Engine) BurningCount() int { return len(e.burning) }

// Log exposes the fire event history of the session.
func (e *Engine) Log() *events.Log { return e.log }

// LastEvents returns the events logged during the latest tick.
func (e *Engine) LastEvents() []events.Event { return e.log.At(e.tick) }

// History returns the burning-count series of the session.
func (e *Engine) History() []events.Sample { return events.BurningCountOverTime(e.log) }

// Params returns the engine parameters.
func (e *Engine) Params() Params { return e.params }
