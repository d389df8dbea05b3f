package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"firespread/internal/core"
	"firespread/internal/render"
	"firespread/internal/session"
	"firespread/internal/sims/fire"
	"firespread/internal/world"
)

func testViewer(t *testing.T, params fire.Params) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	h := core.NewGrid[float64](6, 4)
	m := core.NewGrid[int](6, 4)
	v := core.NewGrid[world.Vegetation](6, 4)
	m.Set(5, 3, world.WaterMoisture)
	w, err := world.FromFields(h, m, v, world.DefaultWaterHeight)
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(w, params, 1)
	opts := Options{
		Iterations: 6,
		SaveDir:    t.TempDir(),
		NewWorld:   func(int64) (*world.World, error) { return world.New(3, 3) },
	}
	return New(screen, sess, opts, nil), screen
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestCursorMovesWithinWorld(t *testing.T) {
	v, _ := testViewer(t, fire.DefaultParams())
	if v.Cursor() != (world.Position{X: 3, Y: 2}) {
		t.Fatalf("start cursor = %v", v.Cursor())
	}
	for i := 0; i < 10; i++ {
		v.HandleKey(key(tcell.KeyRight))
		v.HandleKey(key(tcell.KeyDown))
	}
	if v.Cursor() != (world.Position{X: 5, Y: 3}) {
		t.Fatalf("cursor = %v, want clamped to (5,3)", v.Cursor())
	}
	for i := 0; i < 10; i++ {
		v.HandleKey(key(tcell.KeyLeft))
		v.HandleKey(key(tcell.KeyUp))
	}
	if v.Cursor() != (world.Position{}) {
		t.Fatalf("cursor = %v, want (0,0)", v.Cursor())
	}
}

func TestKeysDriveSession(t *testing.T) {
	v, _ := testViewer(t, fire.Params{BaseSpreadProbability: 1})
	v.HandleKey(runeKey(' '))
	if !strings.Contains(v.Message(), "ignite") {
		t.Fatalf("message = %q", v.Message())
	}
	v.HandleKey(key(tcell.KeyEnter))
	if len(v.sess.Ignitions()) != 1 {
		t.Fatal("enter did not ignite")
	}
	v.HandleKey(runeKey('n'))
	if v.sess.Tick() != 1 || v.sess.State() != session.Stopped {
		t.Fatalf("after step: tick=%d state=%v", v.sess.Tick(), v.sess.State())
	}
	v.HandleKey(runeKey(' '))
	if v.sess.State() != session.Running {
		t.Fatalf("state = %v", v.sess.State())
	}
	before := v.sess.Interval()
	v.HandleKey(runeKey('+'))
	if v.sess.Interval() != before/2 {
		t.Fatalf("interval = %v", v.sess.Interval())
	}
	v.HandleKey(runeKey('r'))
	if v.sess.State() != session.NewWorld || v.sess.World().BurningCount() != 0 {
		t.Fatal("reset did not clear the run")
	}
	v.HandleKey(runeKey('g'))
	if v.sess.World().Width() != 3 || v.Cursor() != (world.Position{X: 1, Y: 1}) {
		t.Fatal("new world not installed")
	}
	v.HandleKey(runeKey('s'))
	if !strings.HasPrefix(v.Message(), "saved ") {
		t.Fatalf("save message = %q", v.Message())
	}
	if v.HandleKey(runeKey('q')) || v.HandleKey(key(tcell.KeyEscape)) {
		t.Fatal("quit keys should stop the viewer")
	}
}

func TestHeatMapToggle(t *testing.T) {
	v, screen := testViewer(t, fire.Params{BaseSpreadProbability: 1})
	v.HandleKey(runeKey('h'))
	if !strings.Contains(v.Message(), "ignite") {
		t.Fatalf("heat without ignition message = %q", v.Message())
	}
	v.HandleKey(key(tcell.KeyEnter))
	v.HandleKey(runeKey('h'))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if !v.WaitHeat(ctx) {
		t.Fatalf("heat map not ready: %q", v.Message())
	}
	v.Draw()
	_, _, style, _ := screen.GetContent(0, 0)
	_, bg, _ := style.Decompose()
	c := render.HeatColor(1)
	if bg != tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)) {
		t.Fatalf("heat cell background = %v", bg)
	}
	v.HandleKey(runeKey('h'))
	v.Draw()
	r, _, _, _ := screen.GetContent(5*cellWidth, 3)
	if r != '~' {
		t.Fatalf("water glyph = %q after hiding heat map", r)
	}
}

func TestDrawShowsTilesAndStatus(t *testing.T) {
	v, screen := testViewer(t, fire.DefaultParams())
	v.HandleKey(key(tcell.KeyEnter))
	v.Draw()
	if r, _, _, _ := screen.GetContent(3*cellWidth, 2); r != '^' {
		t.Fatalf("burning glyph = %q", r)
	}
	if r, _, _, _ := screen.GetContent(5*cellWidth+1, 3); r != '~' {
		t.Fatalf("water glyph = %q", r)
	}
	var line strings.Builder
	for x := 6*cellWidth + panelGap; x < 80; x++ {
		r, _, _, _ := screen.GetContent(x, 0)
		line.WriteRune(r)
	}
	if !strings.HasPrefix(line.String(), "State: new world") {
		t.Fatalf("status row = %q", line.String())
	}
}

func TestCellMapping(t *testing.T) {
	w, _ := world.New(1, 1)
	tile := w.At(0, 0)
	if r, _ := TileCell(tile); r != ' ' {
		t.Fatalf("grass glyph = %q", r)
	}
	tile.Ignite()
	if r, _ := TileCell(tile); r != '^' {
		t.Fatalf("burning glyph = %q", r)
	}
	tile.Extinguish()
	if r, _ := TileCell(tile); r != '.' {
		t.Fatalf("burned glyph = %q", r)
	}
	_, lo := HeatCell(0)
	_, hi := HeatCell(1)
	if lo == hi {
		t.Fatal("heat extremes share a style")
	}
}
