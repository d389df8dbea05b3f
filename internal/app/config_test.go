package app

import (
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"firespread/internal/session"
	"firespread/internal/store"
	"firespread/internal/world"
)

func quiet() *log.Logger { return log.New(io.Discard) }

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-w", "12", "-d", "8", "-rivers", "1", "-seed", "99", "-wind", "0", "-interval", "300ms", "-iterations", "7"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Terrain.Width != 12 || cfg.Terrain.Depth != 8 || cfg.Terrain.Rivers != 1 || cfg.Terrain.Seed != 99 {
		t.Fatalf("terrain = %+v", cfg.Terrain)
	}
	if cfg.Fire.WindSpreadFactor != 0 || cfg.Fire.SlopeSpreadFactor != 1 {
		t.Fatalf("fire = %+v", cfg.Fire)
	}
	if cfg.Interval != 300*time.Millisecond || cfg.Iterations != 7 {
		t.Fatalf("interval=%v iterations=%d", cfg.Interval, cfg.Iterations)
	}
}

func TestBindAcceptsBoolFactorsAndOverrides(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	err := fs.Parse([]string{"-wind=false", "-slope", "2.5", "-moisture", "true", "-set", "octaves=3", "-set", "vegetation=false"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fire.WindSpreadFactor != 0 || cfg.Fire.SlopeSpreadFactor != 2.5 || cfg.Fire.MoistureSpreadFactor != 1 || cfg.Fire.VegetationSpreadFactor != 0 {
		t.Fatalf("fire = %+v", cfg.Fire)
	}
	if cfg.Terrain.Params.Octaves != 3 {
		t.Fatalf("octaves = %d", cfg.Terrain.Params.Octaves)
	}

	for _, args := range [][]string{{"-wind", "maybe"}, {"-slope", "-1"}, {"-set", "octaves"}, {"-set", "octaves=x"}, {"-set", "base=2"}, {"-set", "persistence=true"}} {
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		NewConfig().Bind(fs)
		if err := fs.Parse(args); err == nil {
			t.Fatalf("Parse(%v) should fail", args)
		}
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	NewConfig().Bind(fs)
	err = fs.Parse([]string{"-set", "oktaves=2"})
	if err == nil || !strings.Contains(err.Error(), `"octaves"`) {
		t.Fatalf("misspelled key error = %v", err)
	}
}

func TestBuildWorldSources(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Terrain.Width, cfg.Terrain.Depth = 10, 6
	cfg.SaveDir = dir
	cfg.AutoSave = true

	generated, err := cfg.BuildWorld(quiet())
	if err != nil {
		t.Fatal(err)
	}
	if generated.Width() != 10 || generated.Depth() != 6 {
		t.Fatalf("generated %dx%d", generated.Width(), generated.Depth())
	}
	saved := filepath.Join(dir, "World_1.json")
	if _, err := store.LoadWorld(saved); err != nil {
		t.Fatalf("autosave missing: %v", err)
	}

	small, _ := world.New(3, 2)
	path := filepath.Join(dir, "small.json")
	if err := store.SaveWorld(path, small); err != nil {
		t.Fatal(err)
	}
	cfg.WorldPath = path
	loaded, err := cfg.BuildWorld(quiet())
	if err != nil || loaded.Width() != 3 {
		t.Fatalf("loaded world: %v", err)
	}

	cfg.WorldPath = ""
	cfg.HeightMap = filepath.Join(dir, "missing.png")
	flat, err := cfg.BuildWorld(quiet())
	if err != nil {
		t.Fatal(err)
	}
	if flat.Width() != 10 || flat.At(3, 3).Height() != 1 || flat.LandCount() != 60 {
		t.Fatal("missing height map should give a flat dry world")
	}
}

func TestNewSession(t *testing.T) {
	cfg := NewConfig()
	cfg.Terrain.Width, cfg.Terrain.Depth = 8, 8
	cfg.Interval = 400 * time.Millisecond
	s, err := cfg.NewSession(quiet())
	if err != nil {
		t.Fatal(err)
	}
	if s.State() != session.NewWorld || s.Interval() != 400*time.Millisecond {
		t.Fatalf("state=%v interval=%v", s.State(), s.Interval())
	}
}
