package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"firespread/internal/predict"
	"firespread/internal/world"
)

// ErrShapeMismatch rejects a heat map whose size differs from its world.
var ErrShapeMismatch = errors.New("store: heat map does not match world")

// Entry is one dataset line: a world and the heat map predicted for it.
type Entry struct {
	World   world.Record   `json:"World"`
	HeatMap predict.Record `json:"HeatMap"`
}

// Dataset appends entries to a JSON-lines file. Appends from one process are
// serialized by a mutex; on unix an advisory file lock also keeps concurrent
// processes from interleaving lines.
type Dataset struct {
	path   string
	mu     sync.Mutex
	logger *log.Logger
}

// NewDataset returns a dataset writing to path. The file is created on the
// first Append. A nil logger discards output.
func NewDataset(path string, logger *log.Logger) *Dataset {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dataset{path: path, logger: logger}
}

// Path returns the dataset file.
func (d *Dataset) Path() string { return d.path }

// Append writes one entry as a single line.
func (d *Dataset) Append(w *world.World, heat *predict.HeatMap) error {
	if heat.Width() != w.Width() || heat.Depth() != w.Depth() {
		return fmt.Errorf("%w: world %dx%d, heat map %dx%d", ErrShapeMismatch, w.Width(), w.Depth(), heat.Width(), heat.Depth())
	}
	line, err := json.Marshal(Entry{World: w.ToRecord(), HeatMap: heat.ToRecord()})
	if err != nil {
		return fmt.Errorf("store: encode entry: %w", err)
	}
	line = append(line, '\n')

	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer f.Close()
	if err := lockFile(f); err != nil {
		return fmt.Errorf("store: lock %s: %w", d.path, err)
	}
	defer unlockFile(f)

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("store: append %s: %w", d.path, err)
	}
	d.logger.Debug("dataset entry appended", "path", d.path, "bytes", len(line))
	return nil
}

// ReadAll decodes every entry in a dataset file.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 256<<20)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("store: %s line %d: %w", path, line, err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return out, nil
}
