package world

import (
	"bytes"
	"errors"
	"testing"

	"firespread/internal/core"
	rng "firespread/pkg/core"
)

func fieldWorld(t *testing.T, w, d int, moisture func(x, y int) int) *World {
	t.Helper()
	h := core.NewGrid[float64](w, d)
	m := core.NewGrid[int](w, d)
	v := core.NewGrid[Vegetation](w, d)
	for x := 0; x < w; x++ {
		for y := 0; y < d; y++ {
			h.Set(x, y, float64(x+y)/10)
			m.Set(x, y, moisture(x, y))
			v.Set(x, y, Vegetation((x+y)%4))
		}
	}
	world, err := FromFields(h, m, v, DefaultWaterHeight)
	if err != nil {
		t.Fatalf("FromFields: %v", err)
	}
	return world
}

func TestNewRejectsEmptyDimensions(t *testing.T) {
	if _, err := New(0, 4); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("New(0,4) err = %v, want ErrInvalidSize", err)
	}
}

func TestWaterInvariant(t *testing.T) {
	w := fieldWorld(t, 6, 5, func(x, y int) int {
		if x == 2 {
			return WaterMoisture
		}
		return 10 * y
	})
	for i := range w.Tiles() {
		tile := w.TileAt(i)
		if (tile.Moisture() == WaterMoisture) != tile.IsWater() {
			t.Fatalf("tile %v moisture=%d water=%v", tile.Position(), tile.Moisture(), tile.IsWater())
		}
		if tile.IsWater() {
			if tile.Height() != DefaultWaterHeight {
				t.Fatalf("water tile %v height = %v", tile.Position(), tile.Height())
			}
			if tile.Ignite() {
				t.Fatalf("water tile %v ignited", tile.Position())
			}
		}
	}
}

func TestTileLifecycle(t *testing.T) {
	w, _ := New(2, 2)
	tile := w.At(1, 1)
	if !tile.Ignite() {
		t.Fatal("dry grass should ignite")
	}
	if tile.Ignite() {
		t.Fatal("burning tile must not ignite twice")
	}
	tile.Extinguish()
	if tile.IsBurning() || !tile.IsBurned() {
		t.Fatal("Extinguish should leave the tile burned and not burning")
	}
	if tile.Ignite() {
		t.Fatal("burned tile must not re-ignite")
	}
	w.Reset()
	if tile.IsBurned() || tile.IsBurning() || tile.BurningFor() != 0 {
		t.Fatal("Reset should clear session fields")
	}
}

func TestTileOutOfBounds(t *testing.T) {
	w, _ := New(3, 2)
	if _, err := w.Tile(Position{X: 3, Y: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Tile(3,0) err = %v", err)
	}
	if _, err := w.Tile(Position{X: 0, Y: -1}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Tile(0,-1) err = %v", err)
	}
	if _, err := w.Resolve([]Position{{X: 1, Y: 1}, {X: 9, Y: 9}}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Resolve err = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("At outside the grid should panic")
		}
	}()
	w.At(5, 5)
}

func TestRingNeighborCounts(t *testing.T) {
	w, _ := New(9, 9)
	center := w.Index(Position{X: 4, Y: 4})
	if got := len(w.RingNeighbors(center, 1, nil)); got != 8 {
		t.Fatalf("ring 1 size = %d, want 8", got)
	}
	ring2 := w.RingNeighbors(center, 2, nil)
	if len(ring2) != 12 {
		t.Fatalf("ring 2 size = %d, want 12", len(ring2))
	}
	for _, idx := range ring2 {
		dx, dy := idx/9-4, idx%9-4
		if dx*dx+dy*dy == 2 || dx*dx+dy*dy == 8 {
			t.Fatalf("ring 2 should skip diagonal (%d,%d)", dx, dy)
		}
	}
	corner := w.Index(Position{X: 0, Y: 0})
	if got := len(w.RingNeighbors(corner, 1, nil)); got != 3 {
		t.Fatalf("corner ring 1 size = %d, want 3", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	w := fieldWorld(t, 4, 4, func(x, y int) int { return x * 10 })
	w.SetWind(NewWind(90, 20))
	w.Wind().SetDirection(180)
	w.At(1, 1).Ignite()

	c := w.Clone()
	if c.At(1, 1).IsBurning() {
		t.Fatal("clone should start with cleared session fields")
	}
	if c.Wind().Direction() != 90 || c.Wind().Speed() != 20 {
		t.Fatalf("clone wind = %d/%v, want initial 90/20", c.Wind().Direction(), c.Wind().Speed())
	}
	c.At(2, 2).Ignite()
	c.Wind().SetSpeed(5)
	if w.At(2, 2).IsBurning() || w.Wind().Speed() != 20 {
		t.Fatal("mutating the clone leaked into the original")
	}
	for i := range w.Tiles() {
		a, b := w.TileAt(i), c.TileAt(i)
		if a.Position() != b.Position() || a.Height() != b.Height() || a.Moisture() != b.Moisture() || a.Vegetation() != b.Vegetation() {
			t.Fatalf("clone differs at %v", a.Position())
		}
	}
}

func TestWindNormalization(t *testing.T) {
	wind := NewWind(-30, 75)
	if wind.Direction() != 330 || wind.Speed() != MaxWindSpeed {
		t.Fatalf("NewWind(-30,75) = %d/%v", wind.Direction(), wind.Speed())
	}
	wind.SetDirection(725)
	wind.SetSpeed(-4)
	if wind.Direction() != 5 || wind.Speed() != 0 {
		t.Fatalf("after set = %d/%v", wind.Direction(), wind.Speed())
	}
	wind.Reset()
	if wind.Direction() != 330 || wind.Speed() != MaxWindSpeed {
		t.Fatal("Reset should restore initial values")
	}
	r := rng.NewRNG(3)
	for i := 0; i < 200; i++ {
		rw := RandomWind(r)
		if rw.Direction() < 0 || rw.Direction() >= 360 || rw.Speed() < 0 || rw.Speed() >= MaxWindSpeed {
			t.Fatalf("RandomWind out of range: %d/%v", rw.Direction(), rw.Speed())
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	w := fieldWorld(t, 5, 3, func(x, y int) int {
		if x == 0 && y == 0 {
			return WaterMoisture
		}
		return x*7 + y
	})
	var buf bytes.Buffer
	if err := w.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Width() != 5 || got.Depth() != 3 {
		t.Fatalf("dims = %dx%d", got.Width(), got.Depth())
	}
	for i := range w.Tiles() {
		a, b := w.TileAt(i), got.TileAt(i)
		if a.Position() != b.Position() || a.Height() != b.Height() || a.Moisture() != b.Moisture() ||
			a.Vegetation() != b.Vegetation() || a.IsWater() != b.IsWater() {
			t.Fatalf("tile %d differs after round trip: %+v vs %+v", i, *a, *b)
		}
	}
	rec := w.ToRecord()
	if rec.GridTiles[1].X != 0 || rec.GridTiles[1].Y != 1 {
		t.Fatalf("records must be x-outer, y-inner; second tile = (%d,%d)", rec.GridTiles[1].X, rec.GridTiles[1].Y)
	}
}

func TestFromRecordRejectsMalformed(t *testing.T) {
	w, _ := New(2, 2)
	good := w.ToRecord()

	cases := map[string]func(r *Record){
		"zero width":  func(r *Record) { r.Width = 0 },
		"short tiles": func(r *Record) { r.GridTiles = r.GridTiles[:3] },
		"outside":     func(r *Record) { r.GridTiles[0].X = 7 },
		"duplicate":   func(r *Record) { r.GridTiles[1] = r.GridTiles[0] },
		"vegetation":  func(r *Record) { r.GridTiles[2].Vegetation = 9 },
	}
	for name, mutate := range cases {
		rec := good
		rec.GridTiles = append([]TileRecord(nil), good.GridTiles...)
		mutate(&rec)
		if _, err := FromRecord(rec); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
	if _, err := Decode(bytes.NewBufferString("{not json")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Decode garbage err = %v", err)
	}
}

func TestRandomIgnitionPoints(t *testing.T) {
	w := fieldWorld(t, 8, 8, func(x, y int) int {
		if y > 5 {
			return WaterMoisture
		}
		return 20
	})
	pts := w.RandomIgnitionPoints(rng.NewRNG(5))
	if len(pts) == 0 || len(pts) > ignitionAttempts*ignitionSteps {
		t.Fatalf("got %d ignition points", len(pts))
	}
	seen := map[Position]bool{}
	for _, p := range pts {
		tile, err := w.Tile(p)
		if err != nil {
			t.Fatalf("ignition point %v: %v", p, err)
		}
		if tile.IsWater() {
			t.Fatalf("ignition point %v is water", p)
		}
		if seen[p] {
			t.Fatalf("duplicate ignition point %v", p)
		}
		seen[p] = true
	}

	wet := fieldWorld(t, 3, 3, func(x, y int) int { return WaterMoisture })
	if pts := wet.RandomIgnitionPoints(rng.NewRNG(1)); pts != nil {
		t.Fatalf("all-water world returned %v", pts)
	}
}
