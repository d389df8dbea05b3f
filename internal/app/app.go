//go:build ebiten

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"firespread/internal/predict"
	"firespread/internal/render"
	"firespread/internal/session"
	"firespread/internal/store"
	"firespread/internal/ui"
	"firespread/internal/world"
)

const (
	panelWidth     = 220
	minPanelHeight = 480
	minInterval    = 50 * time.Millisecond
	maxInterval    = 5 * time.Second
)

type heatResult struct {
	heat *predict.HeatMap
	err  error
}

// Game adapts an interactive fire session to the ebiten.Game interface.
type Game struct {
	cfg     *Config
	sess    *session.Session
	logger  *log.Logger
	painter *render.GridPainter
	panel   *ui.Panel
	overlay *ui.Overlay

	scale     int
	worldSeed int64
	message   string

	heat     *predict.HeatMap
	showHeat bool
	heatCh   chan heatResult
	cancel   context.CancelFunc
}

// New constructs a Game for the provided session.
func New(cfg *Config, sess *session.Session, logger *log.Logger) *Game {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	w := sess.World()
	return &Game{
		cfg:       cfg,
		sess:      sess,
		logger:    logger,
		painter:   render.NewGridPainter(w.Width(), w.Depth()),
		panel:     ui.NewPanel(panelWidth),
		overlay:   ui.NewOverlay(scale),
		scale:     scale,
		worldSeed: cfg.Terrain.Seed,
		message:   "New world - set fire",
	}
}

// Update handles per-frame input and advances the session on its clock.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.cancelHeat()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := g.sess.Toggle(); err != nil {
			g.message = err.Error()
		} else {
			g.message = "Simulation " + g.sess.State().String()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if _, err := g.sess.StepOnce(); err != nil {
			g.message = err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sess.ResetWorld()
		g.clearHeat()
		g.message = "New world - set fire"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.newWorld()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.toggleHeat()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.save()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.sess.SetInterval(max(minInterval, g.sess.Interval()/2))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.sess.SetInterval(min(maxInterval, g.sess.Interval()*2))
	}

	p, hovering := g.tileUnderCursor()
	g.overlay.SetHover(p, hovering && g.sess.State() == session.NewWorld)
	if hovering && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if err := g.sess.Ignite(p); err != nil {
			g.message = err.Error()
		} else {
			g.clearHeat()
		}
	}
	g.overlay.Update()
	g.pollHeat()

	g.sess.Advance(time.Now())
	return nil
}

func (g *Game) tileUnderCursor() (world.Position, bool) {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 {
		return world.Position{}, false
	}
	p := world.Position{X: mx / g.scale, Y: my / g.scale}
	return p, g.sess.World().InBounds(p)
}

func (g *Game) newWorld() {
	g.worldSeed++
	w, err := g.cfg.Generate(g.worldSeed, g.logger)
	if err != nil {
		g.message = err.Error()
		return
	}
	g.sess.ReplaceWorld(w)
	g.painter = render.NewGridPainter(w.Width(), w.Depth())
	g.clearHeat()
	g.message = "New world - set fire"
}

func (g *Game) save() {
	path, err := store.SaveWorldAuto(g.cfg.SaveDir, g.sess.World())
	if err != nil {
		g.message = "save failed: " + err.Error()
		return
	}
	g.message = "saved " + path
}

func (g *Game) toggleHeat() {
	if g.showHeat {
		g.showHeat = false
		return
	}
	if g.heat != nil {
		g.showHeat = true
		return
	}
	if g.heatCh != nil {
		return
	}
	task, err := g.sess.HeatMapTask(g.cfg.Iterations)
	if err != nil {
		g.message = err.Error()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan heatResult, 1)
	g.heatCh, g.cancel = ch, cancel
	g.message = "computing heat map..."
	go func() {
		heat, err := task(ctx)
		ch <- heatResult{heat: heat, err: err}
	}()
}

func (g *Game) pollHeat() {
	if g.heatCh == nil {
		return
	}
	select {
	case res := <-g.heatCh:
		g.heatCh = nil
		g.cancel()
		if res.err != nil {
			g.message = res.err.Error()
			return
		}
		g.heat, g.showHeat = res.heat, true
		g.message = "heat map ready"
	default:
	}
}

func (g *Game) cancelHeat() {
	if g.cancel != nil {
		g.cancel()
	}
	g.heatCh = nil
}

func (g *Game) clearHeat() {
	g.cancelHeat()
	g.heat = nil
	g.showHeat = false
}

// Draw renders the current session state.
func (g *Game) Draw(screen *ebiten.Image) {
	w := g.sess.World()
	if g.showHeat && g.heat != nil {
		g.painter.BlitHeat(screen, g.heat, g.scale)
	} else {
		g.painter.BlitWorld(screen, w, g.scale)
	}
	g.overlay.Draw(screen, w)

	st := ui.Snapshot(g.sess)
	st.Message = g.message
	_, height := g.Layout(0, 0)
	g.panel.Draw(screen, w.Width()*g.scale, height, st, g.sess.Params().Parameters(), g.sess.History())
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.sess.World()
	return w.Width()*g.scale + g.panel.Width(), max(w.Depth()*g.scale, minPanelHeight)
}
