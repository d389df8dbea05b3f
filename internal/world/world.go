package world

import (
	"errors"
	"fmt"
	"math"

	"firespread/internal/core"
)

var (
	// ErrOutOfBounds reports a tile position outside the grid.
	ErrOutOfBounds = errors.New("world: position out of bounds")
	// ErrInvalidSize reports non-positive world dimensions.
	ErrInvalidSize = errors.New("world: invalid dimensions")
	// ErrFieldMismatch reports input fields whose size does not match the world.
	ErrFieldMismatch = errors.New("world: field dimensions mismatch")
)

// DefaultWaterHeight is the height assigned to water tiles on assembly.
const DefaultWaterHeight = 0.01

// World is a fully populated width×depth grid of tiles plus the wind above
// it. Tiles live in one flat slice indexed x*depth+y.
type World struct {
	width, depth int
	tiles        []Tile
	wind         Wind
}

// New creates a flat, dry grass world with a calm wind.
func New(width, depth int) (*World, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, depth)
	}
	w := &World{width: width, depth: depth, tiles: make([]Tile, width*depth)}
	for x := 0; x < width; x++ {
		for y := 0; y < depth; y++ {
			w.tiles[x*depth+y] = newTile(x, y, 0, 0, Grass)
		}
	}
	return w, nil
}

// FromFields assembles a world from per-cell height, moisture and vegetation
// fields. A tile is water iff its moisture is 100, and water tiles get
// waterHeight instead of the field height.
func FromFields(height *core.Grid[float64], moisture *core.Grid[int], vegetation *core.Grid[Vegetation], waterHeight float64) (*World, error) {
	if height == nil || moisture == nil || vegetation == nil {
		return nil, fmt.Errorf("%w: nil field", ErrFieldMismatch)
	}
	width, depth := height.W, height.D
	if moisture.W != width || moisture.D != depth || vegetation.W != width || vegetation.D != depth {
		return nil, fmt.Errorf("%w: height %dx%d moisture %dx%d vegetation %dx%d",
			ErrFieldMismatch, width, depth, moisture.W, moisture.D, vegetation.W, vegetation.D)
	}
	w, err := New(width, depth)
	if err != nil {
		return nil, err
	}
	for x := 0; x < width; x++ {
		for y := 0; y < depth; y++ {
			m := moisture.At(x, y)
			h := height.At(x, y)
			if m >= WaterMoisture {
				h = waterHeight
			}
			w.tiles[x*depth+y] = newTile(x, y, h, m, vegetation.At(x, y))
		}
	}
	return w, nil
}

func (w *World) Width() int  { return w.width }
func (w *World) Depth() int  { return w.depth }
func (w *World) Len() int    { return len(w.tiles) }
func (w *World) Wind() *Wind { return &w.wind }

// SetWind replaces the wind, including its initial values.
func (w *World) SetWind(wind Wind) { w.wind = wind }

// Size reports the dimensions as a core.Size.
func (w *World) Size() core.Size { return core.Size{W: w.width, D: w.depth} }

// InBounds reports whether p addresses a tile.
func (w *World) InBounds(p Position) bool {
	return p.X >= 0 && p.X < w.width && p.Y >= 0 && p.Y < w.depth
}

// Index maps a position to the flat tile index without bounds checks.
func (w *World) Index(p Position) int { return p.X*w.depth + p.Y }

// Tile returns the tile at p or ErrOutOfBounds.
func (w *World) Tile(p Position) (*Tile, error) {
	if !w.InBounds(p) {
		return nil, fmt.Errorf("%w: %v in %dx%d", ErrOutOfBounds, p, w.width, w.depth)
	}
	return &w.tiles[w.Index(p)], nil
}

// At returns the tile at (x, y). Out-of-range coordinates panic.
func (w *World) At(x, y int) *Tile {
	if x < 0 || x >= w.width || y < 0 || y >= w.depth {
		panic(fmt.Sprintf("world: tile (%d,%d) outside %dx%d", x, y, w.width, w.depth))
	}
	return &w.tiles[x*w.depth+y]
}

// TileAt returns the tile at a flat index.
func (w *World) TileAt(idx int) *Tile { return &w.tiles[idx] }

// Tiles exposes the backing tile slice in x-outer, y-inner order.
func (w *World) Tiles() []Tile { return w.tiles }

// Resolve maps positions to flat indices, failing on the first position that
// is outside the grid.
func (w *World) Resolve(positions []Position) ([]int, error) {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if !w.InBounds(p) {
			return nil, fmt.Errorf("%w: %v in %dx%d", ErrOutOfBounds, p, w.width, w.depth)
		}
		out = append(out, w.Index(p))
	}
	return out, nil
}

// RingNeighbors appends to dst the indices of tiles whose Euclidean distance
// from the tile at idx is within 0.5 of radius. The result approximates a
// circle perimeter, not a filled disk.
func (w *World) RingNeighbors(idx, radius int, dst []int) []int {
	cx, cy := idx/w.depth, idx%w.depth
	for dx := -radius; dx <= radius; dx++ {
		nx := cx + dx
		if nx < 0 || nx >= w.width {
			continue
		}
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny := cy + dy
			if ny < 0 || ny >= w.depth {
				continue
			}
			dist := math.Hypot(float64(dx), float64(dy))
			if math.Abs(dist-float64(radius)) <= 0.5 {
				dst = append(dst, nx*w.depth+ny)
			}
		}
	}
	return dst
}

// Clone returns a deep copy with fresh tiles and a wind reset to its initial
// values. Session fields of the copy are cleared.
func (w *World) Clone() *World {
	out := &World{width: w.width, depth: w.depth, tiles: make([]Tile, len(w.tiles))}
	copy(out.tiles, w.tiles)
	for i := range out.tiles {
		out.tiles[i].Reset()
	}
	out.wind = NewWind(w.wind.initialDirection, w.wind.initialSpeed)
	return out
}

// Reset clears every tile's session fields and restores the initial wind.
func (w *World) Reset() {
	for i := range w.tiles {
		w.tiles[i].Reset()
	}
	w.wind.Reset()
}

// BurnedCount returns the number of burned tiles.
func (w *World) BurnedCount() int {
	n := 0
	for i := range w.tiles {
		if w.tiles[i].burned {
			n++
		}
	}
	return n
}

// BurningCount returns the number of burning tiles.
func (w *World) BurningCount() int {
	n := 0
	for i := range w.tiles {
		if w.tiles[i].burning {
			n++
		}
	}
	return n
}

// LandCount returns the number of non-water tiles.
func (w *World) LandCount() int {
	n := 0
	for i := range w.tiles {
		if !w.tiles[i].water {
			n++
		}
	}
	return n
}
