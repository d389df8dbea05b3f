package core

// Grid stores a width×depth field in a flat slice indexed x*Depth+y (x outer,
// y inner), matching the tile order used for serialization.
type Grid[T any] struct {
	W, D int
	data []T
}

// NewGrid allocates a zeroed grid. Non-positive dimensions are raised to 1.
func NewGrid[T any](w, d int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if d <= 0 {
		d = 1
	}
	return &Grid[T]{W: w, D: d, data: make([]T, w*d)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return x*g.D + y }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.D
}

// At returns the value at (x, y). It panics when out of range.
func (g *Grid[T]) At(x, y int) T { return g.data[g.Index(x, y)] }

// Set writes the value at (x, y). It panics when out of range.
func (g *Grid[T]) Set(x, y int, v T) { g.data[g.Index(x, y)] = v }

// Fill assigns v to every cell.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	out := &Grid[T]{W: g.W, D: g.D, data: make([]T, len(g.data))}
	copy(out.data, g.data)
	return out
}

// MinMax returns the smallest and largest value of a float grid.
func MinMax(g *Grid[float64]) (float64, float64) {
	if len(g.data) == 0 {
		return 0, 0
	}
	lo, hi := g.data[0], g.data[0]
	for _, v := range g.data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
