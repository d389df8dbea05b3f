package predict

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"firespread/internal/world"
)

// SweepResult records the outcome of one base-probability setting.
type SweepResult struct {
	Base         float64
	MeanBurned   float64
	PeakHeat     float64
	CertainTiles int
	Elapsed      time.Duration
}

func (r SweepResult) String() string {
	return fmt.Sprintf("base=%.3f mean_burned=%.4f peak=%.3f certain=%d elapsed=%s",
		r.Base, r.MeanBurned, r.PeakHeat, r.CertainTiles, r.Elapsed.Round(time.Millisecond))
}

// Sweep evaluates each base spread probability with iterations replicas and
// returns the results sorted by base. The other factors come from p.Params.
func (p *Predictor) Sweep(ctx context.Context, w *world.World, initial []world.Position, bases []float64, iterations int) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(bases))
	for _, base := range bases {
		if base < 0 || base > 1 {
			return nil, fmt.Errorf("predict: base probability %v outside [0,1]", base)
		}
		run := *p
		run.Params.BaseSpreadProbability = base
		start := time.Now()
		heat, err := run.GenerateHeatMap(ctx, iterations, w, initial)
		if err != nil {
			return nil, fmt.Errorf("predict: sweep base %v: %w", base, err)
		}
		res := SweepResult{
			Base:       base,
			MeanBurned: heat.Mean(),
			PeakHeat:   heat.Max(),
			Elapsed:    time.Since(start),
		}
		for _, v := range heat.Cells() {
			if v == 1 {
				res.CertainTiles++
			}
		}
		p.logger().Info("sweep", "base", base, "mean_burned", res.MeanBurned, "certain", res.CertainTiles)
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Base < results[j].Base })
	return results, nil
}

// Closest returns the result whose mean burned fraction is nearest target.
func Closest(results []SweepResult, target float64) (SweepResult, bool) {
	if len(results) == 0 {
		return SweepResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if math.Abs(r.MeanBurned-target) < math.Abs(best.MeanBurned-target) {
			best = r
		}
	}
	return best, true
}

// Steps returns count evenly spaced values from lo to hi inclusive.
func Steps(lo, hi float64, count int) []float64 {
	if count <= 1 {
		return []float64{lo}
	}
	out := make([]float64, count)
	step := (hi - lo) / float64(count-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
