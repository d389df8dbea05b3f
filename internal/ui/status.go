// Package ui holds the status read-out shared by the GUI and terminal
// viewers, plus the ebiten panel and overlay that draw it.
package ui

import (
	"fmt"
	"strings"
	"time"

	"firespread/internal/events"
	"firespread/internal/session"
)

// Status is one frame's worth of session facts.
type Status struct {
	State     session.State
	Tick      int
	WindDir   int
	WindSpeed float64
	Burning   int
	Burned    int
	Land      int
	Ignitions int
	Interval  time.Duration
	Message   string
}

// Snapshot reads the current status of s.
func Snapshot(s *session.Session) Status {
	w := s.World()
	wind := w.Wind()
	return Status{
		State:     s.State(),
		Tick:      s.Tick(),
		WindDir:   wind.Direction(),
		WindSpeed: wind.Speed(),
		Burning:   w.BurningCount(),
		Burned:    w.BurnedCount(),
		Land:      w.LandCount(),
		Ignitions: len(s.Ignitions()),
		Interval:  s.Interval(),
	}
}

// Lines formats the status for display, one fact per line.
func (st Status) Lines() []string {
	lines := []string{
		"State: " + st.State.String(),
		fmt.Sprintf("Tick: %d", st.Tick),
		fmt.Sprintf("Wind: %d° %s %.1f km/h", st.WindDir, Compass(st.WindDir), st.WindSpeed),
		fmt.Sprintf("Burning: %d", st.Burning),
		fmt.Sprintf("Burned: %d/%d", st.Burned, st.Land),
		fmt.Sprintf("Ignitions: %d", st.Ignitions),
		fmt.Sprintf("Step: %s", st.Interval),
	}
	if st.Message != "" {
		lines = append(lines, st.Message)
	}
	return lines
}

// KeyHelp lists the key bindings both viewers share.
var KeyHelp = []string{
	"space  run / pause",
	"n      step once",
	"r      reset world",
	"g      new world",
	"h      heat map",
	"s      save world",
	"+/-    faster / slower",
	"q      quit",
}

var compassPoints = []string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

// Compass names the direction a wind angle points to. Angles follow the
// math convention used by the fire model: 0° is +x, 90° is +y.
func Compass(deg int) string {
	deg = ((deg % 360) + 360) % 360
	return compassPoints[((deg+22)/45)%8]
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the last width samples of a burning-count series.
func Sparkline(samples []events.Sample, width int) string {
	if width <= 0 || len(samples) == 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	peak := 0
	for _, s := range samples {
		peak = max(peak, s.Burning)
	}
	var b strings.Builder
	for _, s := range samples {
		idx := 0
		if peak > 0 {
			idx = s.Burning * (len(sparkRunes) - 1) / peak
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
