package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"firespread/internal/predict"
	"firespread/internal/terrain"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

func generated(t *testing.T, seed int64) *world.World {
	t.Helper()
	w, err := terrain.Generate(12, 9, 2, 0.1, rng.NewRand(seed))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return w
}

func TestSaveLoadWorld(t *testing.T) {
	w := generated(t, 7)
	path := filepath.Join(t.TempDir(), "nested", "world.json")
	if err := SaveWorld(path, w); err != nil {
		t.Fatalf("SaveWorld: %v", err)
	}
	back, err := LoadWorld(path)
	if err != nil {
		t.Fatalf("LoadWorld: %v", err)
	}
	if back.Width() != 12 || back.Depth() != 9 {
		t.Fatalf("loaded %dx%d", back.Width(), back.Depth())
	}
	for i := range w.Tiles() {
		a, b := w.TileAt(i), back.TileAt(i)
		if a.Position() != b.Position() || a.Moisture() != b.Moisture() ||
			a.Vegetation() != b.Vegetation() || a.Height() != b.Height() || a.IsWater() != b.IsWater() {
			t.Fatalf("tile %d differs after round trip", i)
		}
	}
}

func TestLoadWorldErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadWorld(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
	bad := map[string]string{
		"garbage.json": "{not json",
		"zero.json":    `{"Width":0,"Depth":0,"GridTiles":[]}`,
		"short.json":   `{"Width":2,"Depth":2,"GridTiles":[]}`,
	}
	for name, body := range bad {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadWorld(path); !errors.Is(err, world.ErrMalformed) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
}

func TestSaveWorldAutoNumbers(t *testing.T) {
	dir := t.TempDir()
	w, _ := world.New(2, 2)
	first, err := SaveWorldAuto(dir, w)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(first) != "World_1.json" {
		t.Fatalf("first = %s", first)
	}
	if err := os.WriteFile(filepath.Join(dir, "World_7.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "World_x.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	next, err := SaveWorldAuto(dir, w)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(next) != "World_8.json" {
		t.Fatalf("next = %s", next)
	}
	if p, _ := NextWorldPath(filepath.Join(dir, "absent")); filepath.Base(p) != "World_1.json" {
		t.Fatalf("missing dir path = %s", p)
	}
}

func TestSaveWorldAutoConcurrentNames(t *testing.T) {
	dir := t.TempDir()
	w, _ := world.New(2, 2)
	const n = 8
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := SaveWorldAuto(dir, w)
			if err != nil {
				t.Error(err)
				return
			}
			paths[i] = p
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" || seen[p] {
			t.Fatalf("paths = %v, want %d distinct files", paths, n)
		}
		seen[p] = true
		if _, err := LoadWorld(p); err != nil {
			t.Fatalf("%s: %v", p, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != n {
		t.Fatalf("dir holds %d files (%v), want %d", len(entries), err, n)
	}
}

func TestDatasetConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	ds := NewDataset(path, nil)
	w := generated(t, 11)
	heat := predict.NewHeatMap(w.Width(), w.Depth())
	heat.Set(3, 4, 0.75)

	const writers = 16
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ds.Append(w, heat)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != writers {
		t.Fatalf("entries = %d, want %d", len(entries), writers)
	}
	for _, e := range entries {
		if e.World.Width != 12 || len(e.World.GridTiles) != 12*9 {
			t.Fatalf("world record = %dx%d", e.World.Width, e.World.Depth)
		}
		back, err := predict.FromRecord(e.HeatMap)
		if err != nil {
			t.Fatal(err)
		}
		if back.At(3, 4) != 0.75 {
			t.Fatalf("heat value = %v", back.At(3, 4))
		}
	}
}

func TestDatasetRejectsMismatchedHeatMap(t *testing.T) {
	ds := NewDataset(filepath.Join(t.TempDir(), "d.jsonl"), nil)
	w, _ := world.New(3, 3)
	if err := ds.Append(w, predict.NewHeatMap(3, 4)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v", err)
	}
	if _, err := os.Stat(ds.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("rejected append must not create the file")
	}
}
