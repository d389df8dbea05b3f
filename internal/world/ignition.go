package world

import "firespread/pkg/core"

const (
	ignitionAttempts = 5
	ignitionSteps    = 4
)

// RandomIgnitionPoints picks a small cluster of land tiles to start a fire:
// five random land seeds, each followed for four steps of a walk that moves
// left or up. Duplicates are dropped. A world without land yields nil.
func (w *World) RandomIgnitionPoints(src core.Source) []Position {
	land := make([]int, 0, len(w.tiles))
	for i := range w.tiles {
		if !w.tiles[i].water {
			land = append(land, i)
		}
	}
	if len(land) == 0 {
		return nil
	}

	seen := make(map[int]struct{})
	var out []Position
	for attempt := 0; attempt < ignitionAttempts; attempt++ {
		idx := land[src.IntN(len(land))]
		x, y := idx/w.depth, idx%w.depth
		for step := 0; step < ignitionSteps; step++ {
			cur := x*w.depth + y
			if !w.tiles[cur].water {
				if _, dup := seen[cur]; !dup {
					seen[cur] = struct{}{}
					out = append(out, Position{X: x, Y: y})
				}
			}
			switch src.IntN(2) {
			case 0:
				if x > 0 {
					x--
				}
			case 1:
				if y > 0 {
					y--
				}
			}
		}
	}
	return out
}
