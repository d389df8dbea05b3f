// Package session drives one fire simulation interactively: the user picks
// ignition points on a fresh world, then runs, pauses and steps the fire on
// an external clock.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"firespread/internal/core"
	"firespread/internal/events"
	"firespread/internal/predict"
	"firespread/internal/sim"
	"firespread/internal/sims/fire"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

// DefaultInterval is the wall-clock time between interactive ticks.
const DefaultInterval = 1200 * time.Millisecond

var (
	// ErrNotEditable rejects ignitions once a run has started.
	ErrNotEditable = errors.New("session: ignitions can only be placed on a new world")
	// ErrCannotIgnite rejects water and already burning tiles.
	ErrCannotIgnite = errors.New("session: tile cannot ignite")
	// ErrNoIgnition rejects starting a run without ignition points.
	ErrNoIgnition = errors.New("session: ignite some tiles first")
)

// State is the interactive phase.
type State int

const (
	NewWorld State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NewWorld:
		return "new world"
	case Running:
		return "running"
	case Stopped:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session owns a world, its ignition points and the fire session built from
// them. It is not safe for concurrent use; the GUI and TUI call it from their
// update loop.
type Session struct {
	world     *world.World
	params    fire.Params
	seed      int64
	runs      int
	ignitions []world.Position
	fire      *sim.FireSession
	state     State
	clock     *core.FixedStep
	logger    *log.Logger
	predictor *predict.Predictor
}

// New returns a session in the NewWorld state.
func New(w *world.World, params fire.Params, seed int64) *Session {
	return &Session{
		world:     w,
		params:    params,
		seed:      seed,
		clock:     core.NewFixedInterval(DefaultInterval),
		logger:    log.New(io.Discard),
		predictor: predict.New(params, seed),
	}
}

// SetLogger replaces the session and predictor logger.
func (s *Session) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.logger = l
	s.predictor.Logger = l
}

// SetInterval changes the time between ticks while running.
func (s *Session) SetInterval(d time.Duration) { s.clock.SetInterval(d) }

// Interval reports the time between ticks.
func (s *Session) Interval() time.Duration { return s.clock.Interval() }

// SetParams replaces the fire parameters. They apply from the next Start on
// a new world and to heat maps.
func (s *Session) SetParams(p fire.Params) {
	s.params = p
	s.predictor.Params = p
}

func (s *Session) Params() fire.Params         { return s.params }
func (s *Session) State() State                { return s.state }
func (s *Session) World() *world.World         { return s.world }
func (s *Session) Ignitions() []world.Position { return s.ignitions }

// Tick is the current fire tick, 0 before the first run.
func (s *Session) Tick() int {
	if s.fire == nil {
		return 0
	}
	return s.fire.Fire.Tick()
}

// Finished reports whether a run exists and its fire has burned out.
func (s *Session) Finished() bool {
	return s.fire != nil && s.fire.Fire.Finished()
}

// Ignite marks p as an ignition point. Only allowed on a new world.
func (s *Session) Ignite(p world.Position) error {
	if s.state != NewWorld {
		return ErrNotEditable
	}
	t, err := s.world.Tile(p)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if !t.Ignite() {
		return fmt.Errorf("%w: %v", ErrCannotIgnite, p)
	}
	s.ignitions = append(s.ignitions, p)
	return nil
}

// Start begins a run from a new world, or resumes a paused one.
func (s *Session) Start() error {
	switch s.state {
	case Running:
		return nil
	case Stopped:
		s.state = Running
		s.clock.Reset()
		return nil
	}
	if len(s.ignitions) == 0 {
		return ErrNoIgnition
	}
	fs, err := sim.NewFireSession(s.world, s.params, s.ignitions, rng.DeriveIndexSeed(s.seed, "session", s.runs))
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.runs++
	s.fire = fs
	s.state = Running
	s.clock.Reset()
	wind := s.world.Wind()
	s.logger.Info("simulation running", "ignitions", len(s.ignitions), "wind_dir", wind.Direction(), "wind_speed", wind.Speed())
	return nil
}

// Pause stops a running session. It is a no-op in other states.
func (s *Session) Pause() {
	if s.state == Running {
		s.state = Stopped
		s.logger.Info("simulation paused", "tick", s.Tick())
	}
}

// Toggle starts or pauses the session.
func (s *Session) Toggle() error {
	if s.state == Running {
		s.Pause()
		return nil
	}
	return s.Start()
}

// Step advances every simulation by one tick. It reports whether a tick
// ran; the session stops itself once the fire burns out.
func (s *Session) Step() bool {
	if s.state != Running || s.fire == nil {
		return false
	}
	if s.fire.Fire.Finished() {
		s.state = Stopped
		return false
	}
	s.fire.UpdateAll()
	if s.fire.Fire.Finished() {
		s.state = Stopped
		s.logger.Info("fire burned out", "tick", s.Tick(), "burned", s.world.BurnedCount())
	}
	return true
}

// StepOnce runs a single tick. A new or paused session is started for the
// tick and left paused afterwards; a running one keeps running.
func (s *Session) StepOnce() (bool, error) {
	if s.state == Running {
		return s.Step(), nil
	}
	if err := s.Start(); err != nil {
		return false, err
	}
	ran := s.Step()
	if s.state == Running {
		s.state = Stopped
	}
	return ran, nil
}

// Advance steps once if running and the clock says a tick is due at now.
func (s *Session) Advance(now time.Time) bool {
	if s.state != Running {
		return false
	}
	if !s.clock.ShouldStepAt(now) {
		return false
	}
	return s.Step()
}

// ResetWorld clears all burn state and ignition points and returns to the
// NewWorld state on the same terrain.
func (s *Session) ResetWorld() {
	s.world.Reset()
	s.prepare()
}

// ReplaceWorld swaps in a new world, typically freshly generated or loaded.
func (s *Session) ReplaceWorld(w *world.World) {
	s.world = w
	s.prepare()
}

func (s *Session) prepare() {
	s.state = NewWorld
	s.ignitions = nil
	s.fire = nil
	s.clock.Reset()
	s.logger.Debug("new world", "width", s.world.Width(), "depth", s.world.Depth())
}

// History is the burning-tile count per tick of the current run.
func (s *Session) History() []events.Sample {
	if s.fire == nil {
		return nil
	}
	return s.fire.Fire.History()
}

// LastFireEvents returns the fire events logged at the current tick.
func (s *Session) LastFireEvents() []events.Event {
	if s.fire == nil {
		return nil
	}
	return s.fire.Fire.LastEvents()
}

// LastWindEvents returns the wind events logged at the current tick.
func (s *Session) LastWindEvents() []events.Event {
	if s.fire == nil {
		return nil
	}
	return s.fire.Wind.LastEvents()
}

// FireLog and WindLog expose the full event logs of the current run.
func (s *Session) FireLog() *events.Log {
	if s.fire == nil {
		return events.NewLog()
	}
	return s.fire.Fire.Log()
}

func (s *Session) WindLog() *events.Log {
	if s.fire == nil {
		return events.NewLog()
	}
	return s.fire.Wind.Log()
}

// HeatMap predicts burn likelihood from the current ignition points. The
// session's world is not modified.
func (s *Session) HeatMap(ctx context.Context, iterations int) (*predict.HeatMap, error) {
	task, err := s.HeatMapTask(iterations)
	if err != nil {
		return nil, err
	}
	return task(ctx)
}

// HeatMapTask snapshots the world and ignition points and returns a
// prediction that may run on another goroutine while the session keeps
// ticking.
func (s *Session) HeatMapTask(iterations int) (func(context.Context) (*predict.HeatMap, error), error) {
	if len(s.ignitions) == 0 {
		return nil, ErrNoIgnition
	}
	if iterations <= 0 {
		return nil, predict.ErrNoIterations
	}
	w := s.world.Clone()
	initial := slices.Clone(s.ignitions)
	p := *s.predictor
	return func(ctx context.Context) (*predict.HeatMap, error) {
		return p.GenerateHeatMap(ctx, iterations, w, initial)
	}, nil
}
