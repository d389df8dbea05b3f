package predict

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"firespread/internal/world"
)

var (
	ErrExecutableNotFound = errors.New("predict: executable not found")
	ErrScriptNotFound     = errors.New("predict: script not found")
	ErrTimeout            = errors.New("predict: external predictor timed out")
	ErrProcessFailed      = errors.New("predict: external predictor failed")
	ErrMalformedOutput    = errors.New("predict: malformed predictor output")
)

// DefaultExternalTimeout bounds one external prediction.
const DefaultExternalTimeout = 60 * time.Second

const stderrTail = 512

// Request is the payload written to the external process on stdin.
type Request struct {
	World          world.Record `json:"World"`
	InitialBurning []bool       `json:"InitialBurning"`
}

// External runs a prediction model as a child process. The request is sent
// as one JSON line on stdin; stdout must hold the heat map as width rows of
// depth floats.
type External struct {
	Command string
	Script  string
	Args    []string
	Timeout time.Duration
	Logger  *log.Logger
}

// NewExternal returns an External that runs script with python3.
func NewExternal(script string) *External {
	return &External{Command: "python3", Script: script, Timeout: DefaultExternalTimeout}
}

// Predict sends w and the ignition mask to the process and parses its heat
// map. Every failure is returned as an error wrapping one of the sentinel
// errors; the world is never modified. The process is killed when the
// timeout expires.
func (e *External) Predict(ctx context.Context, w *world.World, initial []world.Position) (*HeatMap, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mask, err := w.InitialBurnMask(initial)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	payload, err := json.Marshal(Request{World: w.ToRecord(), InitialBurning: mask})
	if err != nil {
		return nil, fmt.Errorf("predict: encode request: %w", err)
	}
	payload = append(payload, '\n')

	bin, err := exec.LookPath(e.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrExecutableNotFound, e.Command, err)
	}
	args := append([]string(nil), e.Args...)
	if e.Script != "" {
		if _, err := os.Stat(e.Script); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrScriptNotFound, e.Script, err)
		}
		args = append([]string{e.Script}, args...)
	}

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, bin, args...)
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	logger.Debug("external predictor started", "cmd", bin, "args", args, "bytes", len(payload))
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		logger.Warn("external predictor timed out", "timeout", timeout)
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("predict: external predictor: %w", err)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("%w: exit code %d: %s", ErrProcessFailed, exitErr.ExitCode(), tail(stderr.String()))
		}
		return nil, fmt.Errorf("%w: %v", ErrProcessFailed, runErr)
	}

	heat, err := ParseHeatMap(stdout.Bytes(), w.Width(), w.Depth())
	if err != nil {
		return nil, err
	}
	logger.Info("external predictor done", "elapsed", elapsed.Round(time.Millisecond), "mean", heat.Mean())
	return heat, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	if s == "" {
		return "no stderr output"
	}
	return s
}

// ParseHeatMap reads width rows of depth floats. Input may be a JSON array
// of arrays or plain text with one row per line and values separated by
// whitespace or commas. Values must lie in [0,1].
func ParseHeatMap(data []byte, width, depth int) (*HeatMap, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}
	var rows [][]float64
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	} else {
		sc := bufio.NewScanner(bytes.NewReader(trimmed))
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for line := 1; sc.Scan(); line++ {
			text := strings.TrimSpace(sc.Text())
			if text == "" {
				continue
			}
			fields := strings.FieldsFunc(text, func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t' || r == ';'
			})
			row := make([]float64, 0, len(fields))
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedOutput, line, err)
				}
				row = append(row, v)
			}
			rows = append(rows, row)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
	}
	if len(rows) != width {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrMalformedOutput, len(rows), width)
	}
	for x, row := range rows {
		if len(row) != depth {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrMalformedOutput, x, len(row), depth)
		}
		for y, v := range row {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return nil, fmt.Errorf("%w: value %v at (%d,%d) outside [0,1]", ErrMalformedOutput, v, x, y)
			}
		}
	}
	heat, err := HeatMapFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return heat, nil
}
