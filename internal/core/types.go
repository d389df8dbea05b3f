package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	D int
}

// Simulation is the per-tick contract shared by the fire engine and the wind
// model. Update advances exactly one tick; Reset prepares a new session on the
// same world.
type Simulation interface {
	Name() string
	Reset()
	Update()
	Finished() bool
}

// EventSource is implemented by simulations that expose the events they
// logged during the most recent tick.
type EventSource[E any] interface {
	LastEvents() []E
}
