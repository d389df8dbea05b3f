// Package store persists worlds and prediction datasets as JSON files.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"firespread/internal/world"
)

const worldFilePrefix = "World_"

// SaveWorld writes w as JSON, replacing any existing file.
func SaveWorld(path string, w *world.World) error {
	var buf bytes.Buffer
	if err := w.Encode(&buf); err != nil {
		return fmt.Errorf("store: encode world: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// LoadWorld reads a world file. A missing file, invalid JSON or a record
// with bad dimensions is reported as an error.
func LoadWorld(path string) (*world.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()
	w, err := world.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	return w, nil
}

// NextWorldPath returns dir/World_<n>.json for the smallest n above every
// existing World_<n>.json in dir. A missing dir yields World_1.json.
func NextWorldPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("store: %w", err)
	}
	highest := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, worldFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, worldFilePrefix), ".json"))
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return filepath.Join(dir, fmt.Sprintf("%s%d.json", worldFilePrefix, highest+1)), nil
}

// SaveWorldAuto saves w under the next free World_<n>.json name in dir and
// returns the path used. The name is claimed with an exclusive create, so
// concurrent callers never share a number.
func SaveWorldAuto(dir string, w *world.World) (string, error) {
	var buf bytes.Buffer
	if err := w.Encode(&buf); err != nil {
		return "", fmt.Errorf("store: encode world: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	for {
		path, err := NextWorldPath(dir)
		if err != nil {
			return "", err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("store: %w", err)
		}
		_, err = f.Write(buf.Bytes())
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", fmt.Errorf("store: %w", err)
		}
		return path, nil
	}
}
