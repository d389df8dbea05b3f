package predict

import (
	"fmt"

	"firespread/internal/core"
)

// HeatMap holds, per tile, the fraction of replicas in which the tile ended
// burned. Values lie in [0,1].
type HeatMap struct {
	*core.Grid[float64]
}

// NewHeatMap allocates a zeroed heat map.
func NewHeatMap(width, depth int) *HeatMap {
	return &HeatMap{Grid: core.NewGrid[float64](width, depth)}
}

// Width returns the number of columns.
func (h *HeatMap) Width() int { return h.W }

// Depth returns the number of rows per column.
func (h *HeatMap) Depth() int { return h.D }

// Rows returns one slice per x coordinate, each holding depth values.
func (h *HeatMap) Rows() [][]float64 {
	out := make([][]float64, h.W)
	cells := h.Cells()
	for x := range out {
		row := make([]float64, h.D)
		copy(row, cells[x*h.D:(x+1)*h.D])
		out[x] = row
	}
	return out
}

// HeatMapFromRows builds a heat map from width rows of depth values.
func HeatMapFromRows(rows [][]float64) (*HeatMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("predict: empty heat map")
	}
	depth := len(rows[0])
	h := NewHeatMap(len(rows), depth)
	for x, row := range rows {
		if len(row) != depth {
			return nil, fmt.Errorf("predict: row %d has %d values, want %d", x, len(row), depth)
		}
		for y, v := range row {
			h.Set(x, y, v)
		}
	}
	return h, nil
}

// Max returns the largest value.
func (h *HeatMap) Max() float64 {
	_, hi := core.MinMax(h.Grid)
	return hi
}

// Mean returns the average value, which equals the expected burned fraction
// of the world.
func (h *HeatMap) Mean() float64 {
	cells := h.Cells()
	if len(cells) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range cells {
		sum += v
	}
	return sum / float64(len(cells))
}

// Record is the serialized heat map.
type Record struct {
	Width  int         `json:"Width"`
	Depth  int         `json:"Depth"`
	Values [][]float64 `json:"Values"`
}

// ToRecord converts the heat map for serialization.
func (h *HeatMap) ToRecord() Record {
	return Record{Width: h.W, Depth: h.D, Values: h.Rows()}
}

// FromRecord validates and converts a serialized heat map.
func FromRecord(r Record) (*HeatMap, error) {
	if r.Width <= 0 || r.Depth <= 0 || len(r.Values) != r.Width {
		return nil, fmt.Errorf("predict: heat map record %dx%d with %d rows", r.Width, r.Depth, len(r.Values))
	}
	h, err := HeatMapFromRows(r.Values)
	if err != nil {
		return nil, err
	}
	if h.D != r.Depth {
		return nil, fmt.Errorf("predict: heat map depth %d, record says %d", h.D, r.Depth)
	}
	return h, nil
}
