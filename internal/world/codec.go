package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed reports a serialized world that cannot be turned into a grid.
var ErrMalformed = errors.New("world: malformed record")

// Record is the serialized form of a world. Field names match the JSON
// consumed by the external prediction scripts.
type Record struct {
	Width     int          `json:"Width"`
	Depth     int          `json:"Depth"`
	GridTiles []TileRecord `json:"GridTiles"`
}

// TileRecord is one serialized tile.
type TileRecord struct {
	X          int        `json:"widthPosition"`
	Y          int        `json:"depthPosition"`
	Moisture   int        `json:"moisture"`
	Vegetation Vegetation `json:"Vegetation"`
	Height     float64    `json:"Height"`
}

// ToRecord flattens the world x-outer, y-inner.
func (w *World) ToRecord() Record {
	rec := Record{Width: w.width, Depth: w.depth, GridTiles: make([]TileRecord, 0, len(w.tiles))}
	for i := range w.tiles {
		t := &w.tiles[i]
		rec.GridTiles = append(rec.GridTiles, TileRecord{
			X:          t.x,
			Y:          t.y,
			Moisture:   t.moisture,
			Vegetation: t.vegetation,
			Height:     t.height,
		})
	}
	return rec
}

// FromRecord rebuilds a world. Tiles are placed by their recorded positions;
// missing, duplicated or out-of-range tiles are rejected. The wind is calm
// until a simulation session assigns one.
func FromRecord(rec Record) (*World, error) {
	if rec.Width <= 0 || rec.Depth <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrMalformed, rec.Width, rec.Depth)
	}
	if len(rec.GridTiles) != rec.Width*rec.Depth {
		return nil, fmt.Errorf("%w: %d tiles for %dx%d grid", ErrMalformed, len(rec.GridTiles), rec.Width, rec.Depth)
	}
	w := &World{width: rec.Width, depth: rec.Depth, tiles: make([]Tile, rec.Width*rec.Depth)}
	filled := make([]bool, len(w.tiles))
	for _, tr := range rec.GridTiles {
		p := Position{X: tr.X, Y: tr.Y}
		if !w.InBounds(p) {
			return nil, fmt.Errorf("%w: tile %v outside grid", ErrMalformed, p)
		}
		if !tr.Vegetation.Valid() {
			return nil, fmt.Errorf("%w: tile %v has %v", ErrMalformed, p, tr.Vegetation)
		}
		idx := w.Index(p)
		if filled[idx] {
			return nil, fmt.Errorf("%w: duplicate tile %v", ErrMalformed, p)
		}
		filled[idx] = true
		w.tiles[idx] = newTile(tr.X, tr.Y, tr.Height, tr.Moisture, tr.Vegetation)
	}
	return w, nil
}

// Encode writes the world as a single JSON document.
func (w *World) Encode(out io.Writer) error {
	return json.NewEncoder(out).Encode(w.ToRecord())
}

// Decode reads one JSON world document.
func Decode(in io.Reader) (*World, error) {
	var rec Record
	if err := json.NewDecoder(in).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromRecord(rec)
}

// InitialBurnMask flattens positions into a boolean mask indexed x*depth+y.
func (w *World) InitialBurnMask(positions []Position) ([]bool, error) {
	idx, err := w.Resolve(positions)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(w.tiles))
	for _, i := range idx {
		mask[i] = true
	}
	return mask, nil
}
