// Package tui renders an interactive fire session in a terminal with tcell.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"firespread/internal/predict"
	"firespread/internal/render"
	"firespread/internal/session"
	"firespread/internal/store"
	"firespread/internal/ui"
	"firespread/internal/world"
)

const (
	frameInterval = 50 * time.Millisecond
	cellWidth     = 2
	panelGap      = 2
	minInterval   = 50 * time.Millisecond
	maxInterval   = 5 * time.Second
)

// Options configure the viewer's world and prediction actions.
type Options struct {
	Iterations int
	SaveDir    string
	Seed       int64
	NewWorld   func(seed int64) (*world.World, error)
}

type heatResult struct {
	heat *predict.HeatMap
	err  error
}

// Viewer draws a session onto a tcell screen and maps keys onto it.
type Viewer struct {
	screen tcell.Screen
	sess   *session.Session
	opts   Options
	logger *log.Logger

	cursor   world.Position
	message  string
	seed     int64
	heat     *predict.HeatMap
	showHeat bool
	heatCh   chan heatResult
	cancel   context.CancelFunc
}

// New binds a viewer to an initialized screen.
func New(screen tcell.Screen, sess *session.Session, opts Options, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = 100
	}
	w := sess.World()
	return &Viewer{
		screen:  screen,
		sess:    sess,
		opts:    opts,
		logger:  logger,
		cursor:  world.Position{X: w.Width() / 2, Y: w.Depth() / 2},
		seed:    opts.Seed,
		message: "New world - set fire",
	}
}

// Cursor returns the selected tile.
func (v *Viewer) Cursor() world.Position { return v.cursor }

// Message returns the latest status message.
func (v *Viewer) Message() string { return v.message }

// Run polls terminal events and advances the session until the user quits
// or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	evCh := make(chan tcell.Event)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case evCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	defer v.cancelHeat()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-evCh:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventKey:
				if !v.HandleKey(ev) {
					return nil
				}
			}
			v.Draw()
		case now := <-ticker.C:
			v.pollHeat()
			v.sess.Advance(now)
			v.Draw()
		}
	}
}

// HandleKey applies one key press. It returns false when the user quits.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	w := v.sess.World()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.cursor.Y = max(0, v.cursor.Y-1)
	case tcell.KeyDown:
		v.cursor.Y = min(w.Depth()-1, v.cursor.Y+1)
	case tcell.KeyLeft:
		v.cursor.X = max(0, v.cursor.X-1)
	case tcell.KeyRight:
		v.cursor.X = min(w.Width()-1, v.cursor.X+1)
	case tcell.KeyEnter:
		v.ignite()
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'i':
		v.ignite()
	case ' ':
		if err := v.sess.Toggle(); err != nil {
			v.message = err.Error()
		} else {
			v.message = "Simulation " + v.sess.State().String()
		}
	case 'n':
		if _, err := v.sess.StepOnce(); err != nil {
			v.message = err.Error()
		}
	case 'r':
		v.sess.ResetWorld()
		v.clearHeat()
		v.message = "New world - set fire"
	case 'g':
		v.newWorld()
	case 'h':
		v.toggleHeat()
	case 's':
		v.save()
	case '+', '=':
		v.sess.SetInterval(max(minInterval, v.sess.Interval()/2))
	case '-':
		v.sess.SetInterval(min(maxInterval, v.sess.Interval()*2))
	}
	return true
}

func (v *Viewer) ignite() {
	if err := v.sess.Ignite(v.cursor); err != nil {
		v.message = err.Error()
		return
	}
	v.clearHeat()
	v.message = fmt.Sprintf("ignited %v", v.cursor)
}

func (v *Viewer) newWorld() {
	if v.opts.NewWorld == nil {
		v.message = "world generation unavailable"
		return
	}
	v.seed++
	w, err := v.opts.NewWorld(v.seed)
	if err != nil {
		v.message = err.Error()
		return
	}
	v.sess.ReplaceWorld(w)
	v.cursor = world.Position{X: w.Width() / 2, Y: w.Depth() / 2}
	v.clearHeat()
	v.screen.Clear()
	v.message = "New world - set fire"
}

func (v *Viewer) save() {
	dir := v.opts.SaveDir
	if dir == "" {
		dir = "."
	}
	path, err := store.SaveWorldAuto(dir, v.sess.World())
	if err != nil {
		v.message = "save failed: " + err.Error()
		return
	}
	v.message = "saved " + path
}

func (v *Viewer) toggleHeat() {
	switch {
	case v.showHeat:
		v.showHeat = false
		return
	case v.heat != nil:
		v.showHeat = true
		return
	case v.heatCh != nil:
		return
	}
	task, err := v.sess.HeatMapTask(v.opts.Iterations)
	if err != nil {
		v.message = err.Error()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan heatResult, 1)
	v.heatCh, v.cancel = ch, cancel
	v.message = "computing heat map..."
	go func() {
		heat, err := task(ctx)
		ch <- heatResult{heat: heat, err: err}
	}()
}

func (v *Viewer) pollHeat() {
	if v.heatCh == nil {
		return
	}
	select {
	case res := <-v.heatCh:
		v.applyHeat(res)
	default:
	}
}

func (v *Viewer) applyHeat(res heatResult) {
	v.heatCh = nil
	v.cancel()
	if res.err != nil {
		v.message = res.err.Error()
		return
	}
	v.heat, v.showHeat = res.heat, true
	v.message = "heat map ready"
}

// WaitHeat blocks until a pending heat map finishes or ctx ends.
func (v *Viewer) WaitHeat(ctx context.Context) bool {
	if v.heatCh == nil {
		return v.heat != nil
	}
	select {
	case res := <-v.heatCh:
		v.applyHeat(res)
		return v.heat != nil
	case <-ctx.Done():
		return false
	}
}

func (v *Viewer) cancelHeat() {
	if v.cancel != nil {
		v.cancel()
	}
	v.heatCh = nil
}

func (v *Viewer) clearHeat() {
	v.cancelHeat()
	v.heat = nil
	v.showHeat = false
}

// Draw paints the map and the status column and shows the frame.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w := v.sess.World()
	editing := v.sess.State() == session.NewWorld
	for x := 0; x < w.Width(); x++ {
		for y := 0; y < w.Depth(); y++ {
			var r rune
			var st tcell.Style
			if v.showHeat && v.heat != nil {
				r, st = HeatCell(v.heat.At(x, y))
			} else {
				r, st = TileCell(w.At(x, y))
			}
			if editing && x == v.cursor.X && y == v.cursor.Y {
				st = st.Reverse(true)
			}
			for dx := 0; dx < cellWidth; dx++ {
				v.screen.SetContent(x*cellWidth+dx, y, r, nil, st)
			}
		}
	}

	col := w.Width()*cellWidth + panelGap
	st := ui.Snapshot(v.sess)
	st.Message = v.message
	row := 0
	for _, line := range st.Lines() {
		v.drawText(col, row, line, tcell.StyleDefault)
		row++
	}
	width, height := v.screen.Size()
	if spark := ui.Sparkline(v.sess.History(), max(0, width-col)); spark != "" {
		row++
		v.drawText(col, row, spark, tcell.StyleDefault.Foreground(tcell.NewRGBColor(240, 110, 40)))
		row++
	}
	row = max(row+1, height-len(ui.KeyHelp)-1)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for _, line := range ui.KeyHelp {
		v.drawText(col, row, line, dim)
		row++
	}
	v.drawText(col, row, "arrows move  enter ignite", dim)
	v.screen.Show()
}

func (v *Viewer) drawText(x, y int, s string, st tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, st)
		x++
	}
}

// TileCell maps a tile to the glyph and style drawn for it.
func TileCell(t *world.Tile) (rune, tcell.Style) {
	class := render.Classify(t)
	c := render.TilePalette[class]
	bg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	st := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorWhite)
	switch class {
	case render.ClassWater:
		return '~', st.Foreground(tcell.NewRGBColor(150, 190, 240))
	case render.ClassBurning:
		return '^', st.Foreground(tcell.NewRGBColor(255, 230, 80)).Bold(true)
	case render.ClassBurned:
		return '.', st.Foreground(tcell.ColorGray)
	case render.ClassForest:
		return '"', st.Foreground(tcell.NewRGBColor(16, 70, 20))
	}
	return ' ', st
}

// HeatCell maps a burn probability to a shaded cell.
func HeatCell(p float64) (rune, tcell.Style) {
	c := render.HeatColor(p)
	return ' ', tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}
