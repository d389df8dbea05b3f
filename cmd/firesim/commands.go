package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"firespread/internal/app"
	"firespread/internal/core"
	"firespread/internal/events"
	"firespread/internal/predict"
	"firespread/internal/render"
	"firespread/internal/sim"
	"firespread/internal/store"
	"firespread/internal/tui"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

// positionList collects repeatable -ignite x,y flags.
type positionList []world.Position

func (l *positionList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (l *positionList) Set(value string) error {
	xs, ys, ok := strings.Cut(value, ",")
	if !ok {
		return fmt.Errorf("want x,y, got %q", value)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return err
	}
	*l = append(*l, world.Position{X: x, Y: y})
	return nil
}

func newFlagSet(e *env, name string) (*flag.FlagSet, *app.Config) {
	fs := flag.NewFlagSet("firesim "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	cfg := app.NewConfig()
	cfg.Bind(fs)
	return fs, cfg
}

// ignitions returns the explicit points, or a random cluster derived from
// seed when none were given.
func ignitions(w *world.World, explicit positionList, seed int64) ([]world.Position, error) {
	if len(explicit) > 0 {
		if _, err := w.Resolve(explicit); err != nil {
			return nil, err
		}
		return explicit, nil
	}
	pts := w.RandomIgnitionPoints(rng.NewRNG(rng.DeriveSeed(seed, "ignition")))
	if len(pts) == 0 {
		return nil, errors.New("world has no land to ignite")
	}
	return pts, nil
}

func runGenerate(_ context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "generate")
	out := fs.String("o", "", "output file (default: next World_<n>.json in -save-dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := cfg.Generate(cfg.Terrain.Seed, e.logger)
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path, err = store.SaveWorldAuto(cfg.SaveDir, w)
	} else {
		err = store.SaveWorld(path, w)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, path)
	return nil
}

func runFire(_ context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "run")
	var ignite positionList
	fs.Var(&ignite, "ignite", "ignition point x,y (repeatable; random cluster when omitted)")
	series := fs.Bool("series", false, "print the burning count per tick")
	showEvents := fs.Bool("events", false, "print every fire and wind event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := cfg.BuildWorld(e.logger)
	if err != nil {
		return err
	}
	initial, err := ignitions(w, ignite, cfg.Terrain.Seed)
	if err != nil {
		return err
	}
	fsess, err := sim.NewFireSession(w, cfg.Fire, initial, cfg.Terrain.Seed)
	if err != nil {
		return err
	}
	start := time.Now()
	ticks, err := fsess.RunToCompletion()
	if err != nil {
		return err
	}
	e.logger.Debug("run finished", "elapsed", time.Since(start).Round(time.Microsecond))

	wind := w.Wind()
	fmt.Fprintf(e.stdout, "ignitions: %d\n", len(initial))
	fmt.Fprintf(e.stdout, "wind: %d deg %.1f km/h\n", wind.Direction(), wind.Speed())
	fmt.Fprintf(e.stdout, "ticks: %d\n", ticks)
	fmt.Fprintf(e.stdout, "burned: %d/%d\n", w.BurnedCount(), w.LandCount())
	if *series {
		for _, s := range fsess.Fire.History() {
			fmt.Fprintf(e.stdout, "%d\t%d\n", s.Tick, s.Burning)
		}
	}
	if *showEvents {
		if err := events.WriteSummary(e.stdout, "fire", fsess.Fire.Log()); err != nil {
			return err
		}
		return events.WriteSummary(e.stdout, "wind", fsess.Wind.Log())
	}
	return nil
}

type heatOutput struct {
	out string
	png string
}

func (o *heatOutput) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.out, "o", "", "write the heat map rows to this file instead of stdout")
	fs.StringVar(&o.png, "png", "", "also render the heat map to a PNG file")
}

func (o *heatOutput) write(e *env, heat *predict.HeatMap) error {
	var dst io.Writer = e.stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}
	if err := writeHeatMap(dst, heat); err != nil {
		return err
	}
	if o.png != "" {
		if err := writePNG(o.png, heat); err != nil {
			return err
		}
		e.logger.Info("heat map image written", "path", o.png)
	}
	return nil
}

// writeHeatMap prints one line per x column with depth values each, the
// format the external model also answers with.
func writeHeatMap(w io.Writer, heat *predict.HeatMap) error {
	bw := bufio.NewWriter(w)
	for _, row := range heat.Rows() {
		for y, v := range row {
			if y > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.FormatFloat(v, 'f', 4, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writePNG(path string, heat *predict.HeatMap) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, render.HeatImage(heat)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runPredict(ctx context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "predict")
	var ignite positionList
	var out heatOutput
	fs.Var(&ignite, "ignite", "ignition point x,y (repeatable; random cluster when omitted)")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel replicas")
	out.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := cfg.BuildWorld(e.logger)
	if err != nil {
		return err
	}
	initial, err := ignitions(w, ignite, cfg.Terrain.Seed)
	if err != nil {
		return err
	}
	p := predict.New(cfg.Fire, cfg.Terrain.Seed)
	p.Workers = *workers
	p.Logger = e.logger
	heat, err := p.GenerateHeatMap(ctx, cfg.Iterations, w, initial)
	if err != nil {
		return err
	}
	return out.write(e, heat)
}

func runExternal(ctx context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "external")
	var ignite positionList
	var out heatOutput
	fs.Var(&ignite, "ignite", "ignition point x,y (repeatable; random cluster when omitted)")
	script := fs.String("script", "", "model script passed to the interpreter")
	command := fs.String("python", "python3", "interpreter that runs the script")
	timeout := fs.Duration("timeout", predict.DefaultExternalTimeout, "kill the model after this long")
	out.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *script == "" {
		return errors.New("-script is required")
	}
	w, err := cfg.BuildWorld(e.logger)
	if err != nil {
		return err
	}
	initial, err := ignitions(w, ignite, cfg.Terrain.Seed)
	if err != nil {
		return err
	}
	ext := predict.NewExternal(*script)
	ext.Command = *command
	ext.Timeout = *timeout
	ext.Logger = e.logger
	heat, err := ext.Predict(ctx, w, initial)
	if err != nil {
		return err
	}
	return out.write(e, heat)
}

func runDataset(ctx context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "dataset")
	count := fs.Int("n", 10, "number of worlds")
	out := fs.String("o", "dataset.jsonl", "dataset file (appended to)")
	workers := fs.Int("workers", runtime.NumCPU(), "worlds processed in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count <= 0 {
		return errors.New("-n must be positive")
	}
	ds := store.NewDataset(*out, e.logger)
	base := cfg.Terrain.Seed
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *workers))
	for i := 0; i < *count; i++ {
		seed := rng.DeriveIndexSeed(base, "dataset", i)
		g.Go(func() error {
			w, err := cfg.Generate(seed, e.logger)
			if err != nil {
				return err
			}
			initial, err := ignitions(w, nil, seed)
			if err != nil {
				return fmt.Errorf("world %d: %w", i, err)
			}
			p := predict.New(cfg.Fire, seed)
			p.Workers = 1
			heat, err := p.GenerateHeatMap(ctx, cfg.Iterations, w, initial)
			if err != nil {
				return fmt.Errorf("world %d: %w", i, err)
			}
			return ds.Append(w, heat)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	e.logger.Info("dataset written", "path", ds.Path(), "worlds", *count, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func runSweep(ctx context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "sweep")
	var ignite positionList
	fs.Var(&ignite, "ignite", "ignition point x,y (repeatable; random cluster when omitted)")
	lo := fs.Float64("from", 0.1, "lowest base spread probability")
	hi := fs.Float64("to", 0.9, "highest base spread probability")
	steps := fs.Int("steps", 9, "number of values between -from and -to")
	target := fs.Float64("target", -1, "report the value whose mean burned fraction is closest to this")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel replicas")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := cfg.BuildWorld(e.logger)
	if err != nil {
		return err
	}
	initial, err := ignitions(w, ignite, cfg.Terrain.Seed)
	if err != nil {
		return err
	}
	bases := predict.Steps(*lo, *hi, *steps)
	if len(bases) == 0 {
		return errors.New("empty sweep range")
	}
	p := predict.New(cfg.Fire, cfg.Terrain.Seed)
	p.Workers = *workers
	p.Logger = e.logger

	fmt.Fprintf(e.stdout, "Sweeping %d base probabilities (%d replicas each)\n", len(bases), cfg.Iterations)
	results, err := p.Sweep(ctx, w, initial, bases, cfg.Iterations)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintln(e.stdout, r)
	}
	if *target >= 0 {
		if best, ok := predict.Closest(results, *target); ok {
			fmt.Fprintf(e.stdout, "\nClosest to %.3f: %s\n", *target, best)
		}
	}
	return nil
}

func runParams(_ context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "params")
	if err := fs.Parse(args); err != nil {
		return err
	}
	snap := core.Merge(cfg.Terrain.Parameters(), cfg.Fire.Parameters())
	for _, g := range snap.Groups {
		fmt.Fprintf(e.stdout, "%s\n", g.Name)
		for _, p := range g.Params {
			fmt.Fprintf(e.stdout, "  %-22s %-6s %s\n", p.Key, p.Type, p.Value)
		}
	}
	return nil
}

func runTUI(ctx context.Context, e *env, args []string) error {
	fs, cfg := newFlagSet(e, "tui")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sess, err := cfg.NewSession(e.logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// The terminal owns stdout and stderr while the viewer runs.
	quiet := log.New(io.Discard)
	sess.SetLogger(quiet)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v := tui.New(screen, sess, tui.Options{
		Iterations: cfg.Iterations,
		SaveDir:    cfg.SaveDir,
		Seed:       cfg.Terrain.Seed,
		NewWorld: func(seed int64) (*world.World, error) {
			return cfg.Generate(seed, quiet)
		},
	}, quiet)
	if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
