package ui

import (
	"strings"
	"testing"
	"time"

	"firespread/internal/events"
	"firespread/internal/session"
	"firespread/internal/sims/fire"
	"firespread/internal/world"
)

func TestCompass(t *testing.T) {
	cases := map[int]string{0: "E", 44: "NE", 90: "N", 180: "W", 269: "S", 315: "SE", 359: "E", -90: "S", 720: "E"}
	for deg, want := range cases {
		if got := Compass(deg); got != want {
			t.Fatalf("Compass(%d) = %s, want %s", deg, got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil, 10) != "" {
		t.Fatal("empty series should render empty")
	}
	samples := []events.Sample{{Tick: 0, Burning: 0}, {Tick: 1, Burning: 7}, {Tick: 2, Burning: 14}}
	if got := Sparkline(samples, 10); got != "▁▄█" {
		t.Fatalf("Sparkline = %q", got)
	}
	if got := Sparkline(samples, 2); got != "▄█" {
		t.Fatalf("truncated Sparkline = %q", got)
	}
}

func TestSnapshotLines(t *testing.T) {
	w, _ := world.New(4, 4)
	s := session.New(w, fire.DefaultParams(), 1)
	s.SetInterval(250 * time.Millisecond)
	if err := s.Ignite(world.Position{X: 1, Y: 1}); err != nil {
		t.Fatal(err)
	}
	st := Snapshot(s)
	if st.State != session.NewWorld || st.Burning != 1 || st.Land != 16 || st.Ignitions != 1 {
		t.Fatalf("snapshot = %+v", st)
	}
	st.Message = "hello"
	text := strings.Join(st.Lines(), "\n")
	for _, want := range []string{"State: new world", "Burning: 1", "Burned: 0/16", "Step: 250ms", "hello"} {
		if !strings.Contains(text, want) {
			t.Fatalf("lines missing %q:\n%s", want, text)
		}
	}
}
