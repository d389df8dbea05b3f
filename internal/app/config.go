package app

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"firespread/internal/core"
	"firespread/internal/session"
	"firespread/internal/sims/fire"
	"firespread/internal/store"
	"firespread/internal/terrain"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	Terrain    terrain.Config
	Fire       fire.Params
	WorldPath  string
	HeightMap  string
	SaveDir    string
	AutoSave   bool
	Scale      int
	Interval   time.Duration
	Iterations int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Terrain:    terrain.DefaultConfig(),
		Fire:       fire.DefaultParams(),
		SaveDir:    "worlds",
		Scale:      16,
		Interval:   session.DefaultInterval,
		Iterations: 100,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Terrain.Width, "w", c.Terrain.Width, "world width in tiles")
	fs.IntVar(&c.Terrain.Depth, "d", c.Terrain.Depth, "world depth in tiles")
	fs.IntVar(&c.Terrain.Rivers, "rivers", c.Terrain.Rivers, "number of rivers")
	fs.Float64Var(&c.Terrain.LakeThreshold, "lake", c.Terrain.LakeThreshold, "normalized height below which tiles become lakes")
	fs.Int64Var(&c.Terrain.Seed, "seed", c.Terrain.Seed, "seed for terrain and fire")
	fs.Float64Var(&c.Fire.BaseSpreadProbability, "base", c.Fire.BaseSpreadProbability, "base spread probability")
	fs.Var(fire.FactorVar(&c.Fire.VegetationSpreadFactor), "vegetation", "vegetation factor: true, false or a weight (0 disables)")
	fs.Var(fire.FactorVar(&c.Fire.MoistureSpreadFactor), "moisture", "moisture factor: true, false or a weight (0 disables)")
	fs.Var(fire.FactorVar(&c.Fire.WindSpreadFactor), "wind", "wind factor: true, false or a weight (0 disables)")
	fs.Var(fire.FactorVar(&c.Fire.SlopeSpreadFactor), "slope", "slope factor: true, false or a weight (0 disables)")
	fs.StringVar(&c.WorldPath, "world", c.WorldPath, "load a saved world instead of generating one")
	fs.StringVar(&c.HeightMap, "heightmap", c.HeightMap, "build the world from a grayscale height-map image")
	fs.StringVar(&c.SaveDir, "save-dir", c.SaveDir, "directory for saved worlds")
	fs.BoolVar(&c.AutoSave, "autosave", c.AutoSave, "save every generated world")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between simulation ticks")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "replicas per heat map")
	fs.Var(overrideValue{c}, "set", "terrain or fire parameter override in key=value form (repeatable)")
}

// overrideValue applies -set key=value pairs with terrain.Config.Apply and
// fire.Params.Apply. Keys must name a listed parameter.
type overrideValue struct{ c *Config }

func (o overrideValue) String() string { return "" }

func (o overrideValue) Set(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("want key=value, got %q", kv)
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	snap := core.Merge(o.c.Terrain.Parameters(), o.c.Fire.Parameters())
	param, known := snap.Lookup(key)
	if !known {
		var keys []string
		for _, g := range snap.Groups {
			for _, p := range g.Params {
				keys = append(keys, p.Key)
			}
		}
		if hint, ok := core.Suggest(key, keys); ok {
			return fmt.Errorf("unknown parameter %q (did you mean %q?)", key, hint)
		}
		return fmt.Errorf("unknown parameter %q", key)
	}
	cfg := map[string]string{key: value}
	o.c.Terrain.Apply(cfg)
	o.c.Fire.Apply(cfg)

	// Apply keeps the old value on bad input; report that instead of
	// silently running with it.
	after, _ := core.Merge(o.c.Terrain.Parameters(), o.c.Fire.Parameters()).Lookup(key)
	if want, ok := canonical(param.Type, value); !ok || after.Value != want {
		return fmt.Errorf("invalid value %q for parameter %q", value, key)
	}
	return nil
}

// canonical formats value the way a parameter snapshot of type t would.
func canonical(t core.ParamType, value string) (string, bool) {
	switch t {
	case core.ParamTypeInt:
		n, err := strconv.ParseInt(value, 10, 64)
		return strconv.FormatInt(n, 10), err == nil
	case core.ParamTypeFloat:
		f, err := fire.ParseFactor(value)
		return strconv.FormatFloat(f, 'f', -1, 64), err == nil
	default:
		b, err := strconv.ParseBool(value)
		return strconv.FormatBool(b), err == nil
	}
}

// BuildWorld loads, imports or generates the starting world.
func (c *Config) BuildWorld(logger *log.Logger) (*world.World, error) {
	switch {
	case c.WorldPath != "":
		w, err := store.LoadWorld(c.WorldPath)
		if err != nil {
			return nil, err
		}
		logger.Info("world loaded", "path", c.WorldPath, "width", w.Width(), "depth", w.Depth())
		return w, nil
	case c.HeightMap != "":
		heights, err := terrain.LoadHeightMap(c.HeightMap, c.Terrain.Width, c.Terrain.Depth)
		if err != nil {
			logger.Warn("height map unusable, using flat terrain", "path", c.HeightMap, "err", err)
		}
		return terrain.WorldFromHeights(heights, c.Terrain.Params.WaterHeight)
	}
	return c.Generate(c.Terrain.Seed, logger)
}

// Generate builds a fresh world from the terrain config with the given seed,
// saving it when AutoSave is set.
func (c *Config) Generate(seed int64, logger *log.Logger) (*world.World, error) {
	cfg := c.Terrain
	cfg.Seed = seed
	w, err := terrain.NewGenerator(cfg, rng.NewRand(rng.DeriveSeed(seed, "terrain"))).GenerateWithConfig()
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	logger.Info("world generated", "width", w.Width(), "depth", w.Depth(), "seed", seed)
	if c.AutoSave {
		path, err := store.SaveWorldAuto(c.SaveDir, w)
		if err != nil {
			logger.Warn("autosave failed", "err", err)
		} else {
			logger.Info("world saved", "path", path)
		}
	}
	return w, nil
}

// NewSession builds the starting world and wraps it in a session.
func (c *Config) NewSession(logger *log.Logger) (*session.Session, error) {
	w, err := c.BuildWorld(logger)
	if err != nil {
		return nil, err
	}
	s := session.New(w, c.Fire, c.Terrain.Seed)
	s.SetLogger(logger)
	s.SetInterval(c.Interval)
	return s, nil
}
