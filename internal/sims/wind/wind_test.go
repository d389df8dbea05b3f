package wind

import (
	"math"
	"testing"

	"firespread/internal/events"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

func TestUpdateDriftsWithinBounds(t *testing.T) {
	w, _ := world.New(4, 4)
	m := New(w, rng.NewRNG(12))
	for i := 1; i <= 500; i++ {
		m.Update()
		evs := m.LastEvents()
		if len(evs) != 2 {
			t.Fatalf("tick %d logged %d events, want 2", i, len(evs))
		}
		dir, ok := evs[0].(events.WindDirectionChanged)
		if !ok {
			t.Fatalf("first event %T, want WindDirectionChanged", evs[0])
		}
		speed, ok := evs[1].(events.WindSpeedChanged)
		if !ok {
			t.Fatalf("second event %T, want WindSpeedChanged", evs[1])
		}
		delta := ((dir.New-dir.Old)%360+540)%360 - 180
		if delta < -MaxDirectionDelta || delta > MaxDirectionDelta {
			t.Fatalf("direction jumped %d degrees", delta)
		}
		if math.Abs(speed.New-speed.Old) > MaxSpeedDelta+1e-9 {
			t.Fatalf("speed jumped %v", speed.New-speed.Old)
		}
		wd := w.Wind()
		if wd.Direction() < 0 || wd.Direction() >= 360 || wd.Speed() < 0 || wd.Speed() > world.MaxWindSpeed {
			t.Fatalf("wind out of range: %d/%v", wd.Direction(), wd.Speed())
		}
		if dir.Tick != i || speed.Tick != i {
			t.Fatalf("events stamped %d/%d at tick %d", dir.Tick, speed.Tick, i)
		}
	}
	if m.Finished() {
		t.Fatal("wind model never finishes")
	}
}

func TestResetAssignsNewWind(t *testing.T) {
	w, _ := world.New(2, 2)
	m := New(w, rng.NewRNG(99))
	m.Update()
	m.Reset()
	if m.Log().Len() != 0 {
		t.Fatal("Reset should clear the log")
	}
	wd := w.Wind()
	if wd.Direction() != wd.InitialDirection() || wd.Speed() != wd.InitialSpeed() {
		t.Fatal("a fresh session wind should sit at its initial values")
	}
}
