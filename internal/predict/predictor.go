// Package predict estimates where a fire is likely to burn by running many
// independent simulations, in process or through an external model.
package predict

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"firespread/internal/sim"
	"firespread/internal/sims/fire"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

var (
	// ErrNoIterations rejects heat-map requests without replicas.
	ErrNoIterations = errors.New("predict: iterations must be positive")
	// ErrNoIgnition rejects heat-map requests without initial burning tiles.
	ErrNoIgnition = errors.New("predict: no initial burning tiles")
)

// Predictor runs Monte-Carlo replicas of a fire on copies of a world.
type Predictor struct {
	Params  fire.Params
	Workers int
	Seed    int64
	Logger  *log.Logger
}

// New returns a predictor using all CPUs and a discarding logger.
func New(params fire.Params, seed int64) *Predictor {
	return &Predictor{Params: params, Workers: runtime.NumCPU(), Seed: seed}
}

func (p *Predictor) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

func (p *Predictor) workers(iterations int) int {
	n := p.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > iterations {
		n = iterations
	}
	return n
}

// GenerateHeatMap runs iterations replicas. Every replica deep-copies w,
// ignites initial on the copy, and runs fire and wind to burnout with its own
// random stream. Each worker counts burned tiles privately; the counts are
// merged after all replicas finish. Replica i always uses the same seed, so
// the result does not depend on scheduling. Cancelling ctx abandons the batch.
func (p *Predictor) GenerateHeatMap(ctx context.Context, iterations int, w *world.World, initial []world.Position) (*HeatMap, error) {
	if iterations <= 0 {
		return nil, ErrNoIterations
	}
	if len(initial) == 0 {
		return nil, ErrNoIgnition
	}
	if _, err := w.Resolve(initial); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	workers := p.workers(iterations)
	logger := p.logger()
	start := time.Now()
	logger.Debug("heat map started", "iterations", iterations, "workers", workers, "width", w.Width(), "depth", w.Depth())

	counts := make([][]int, workers)
	var next atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		local := make([]int, w.Len())
		counts[i] = local
		g.Go(func() error {
			for {
				replica := int(next.Add(1) - 1)
				if replica >= iterations {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := p.runReplica(w, initial, replica, local); err != nil {
					return fmt.Errorf("replica %d: %w", replica, err)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	heat := NewHeatMap(w.Width(), w.Depth())
	cells := heat.Cells()
	for _, local := range counts {
		for i, n := range local {
			cells[i] += float64(n)
		}
	}
	for i := range cells {
		cells[i] /= float64(iterations)
	}
	logger.Info("heat map done", "iterations", iterations, "elapsed", time.Since(start).Round(time.Millisecond), "mean", heat.Mean())
	return heat, nil
}

func (p *Predictor) runReplica(w *world.World, initial []world.Position, replica int, counts []int) error {
	replicaWorld := w.Clone()
	session, err := sim.NewFireSession(replicaWorld, p.Params, initial, rng.DeriveIndexSeed(p.Seed, "replica", replica))
	if err != nil {
		return err
	}
	if _, err := session.RunToCompletion(); err != nil {
		return err
	}
	tiles := replicaWorld.Tiles()
	for i := range tiles {
		if tiles[i].IsBurned() {
			counts[i]++
		}
	}
	return nil
}
