package terrain

import "firespread/internal/core"

// Normalize rescales m into [0,1] in place. A constant field becomes all
// zeros.
func Normalize(m *core.Grid[float64]) {
	lo, hi := core.MinMax(m)
	span := hi - lo
	cells := m.Cells()
	for i, v := range cells {
		if span == 0 {
			cells[i] = 0
			continue
		}
		cells[i] = (v - lo) / span
	}
}

// ReduceByBeachFactor lowers every cell within radius of a marked water cell
// by the given fraction, once per covering water cell, then renormalizes.
func ReduceByBeachFactor(m *core.Grid[float64], water *core.Grid[bool], factor float64, radius int) {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	keep := 1 - factor
	for x := 0; x < m.W; x++ {
		for y := 0; y < m.D; y++ {
			if !water.At(x, y) {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				for dy := -radius; dy <= radius; dy++ {
					nx, ny := x+dx, y+dy
					if !m.InBounds(nx, ny) {
						continue
					}
					v := m.At(nx, ny) * keep
					if v < 0 {
						v = 0
					}
					m.Set(nx, ny, v)
				}
			}
		}
	}
	Normalize(m)
}

// Smooth applies a 3×3 box filter to interior cells, in place.
func Smooth(m *core.Grid[float64], iterations int) {
	for iter := 0; iter < iterations; iter++ {
		for x := 1; x < m.W-1; x++ {
			for y := 1; y < m.D-1; y++ {
				sum := 0.0
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						sum += m.At(x+dx, y+dy)
					}
				}
				m.Set(x, y, sum/9)
			}
		}
	}
}

// GaussianBlur returns a blurred copy of m using a 3×3 kernel that averages
// only the in-bounds neighbours at the edges.
func GaussianBlur(m *core.Grid[float64]) *core.Grid[float64] {
	out := core.NewGrid[float64](m.W, m.D)
	for x := 0; x < m.W; x++ {
		for y := 0; y < m.D; y++ {
			sum := 0.0
			count := 0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if !m.InBounds(x+dx, y+dy) {
						continue
					}
					sum += m.At(x+dx, y+dy)
					count++
				}
			}
			out.Set(x, y, sum/float64(count))
		}
	}
	return out
}
