package fire

import (
	"math"

	"firespread/internal/world"
)

const (
	searchIterations = 100

	slopeLowDeg    = 10.0
	slopeLowMul    = 1.5
	slopeHighDeg   = 40.0
	slopeHighMul   = 3.0
	slopeCap       = 0.8
	windBoost      = 0.8
	windFactorMin  = 0.4
	windFactorMax  = 1.8
	moistureKnee   = 50.0
	moistureAtKnee = 0.8
)

// BurnTime is the number of ticks a tile burns: a vegetation base plus one
// tick at moisture >= 40 or two at moisture >= 60.
func BurnTime(veg world.Vegetation, moisture int) int {
	var t int
	switch veg {
	case world.Grass:
		t = 1
	case world.Sparse:
		t = 2
	case world.Swamp:
		t = 3
	case world.Forest:
		t = 4
	}
	switch {
	case moisture >= 60:
		t += 2
	case moisture >= 40:
		t++
	}
	return t
}

// VegetationFactor adjusts the base probability by the target's cover.
func VegetationFactor(veg world.Vegetation, base, weight float64) float64 {
	f := base
	switch veg {
	case world.Grass:
		f -= 0.12
	case world.Forest:
		f += 0.10
	case world.Sparse:
		f -= 0.05
	case world.Swamp:
		f -= 0.08
	}
	return f * weight
}

// SlopeFactor favours uphill spread: the slope angle over unit distance is
// mapped linearly through (10°, 1.5) and (40°, 3); downhill is 1. The result
// is scaled by base and capped at 0.8 before weighting.
func SlopeFactor(sourceHeight, targetHeight, base, weight float64) float64 {
	deg := math.Atan(targetHeight-sourceHeight) * 180 / math.Pi
	f := 1.0
	if deg >= 0 {
		f = slopeLowMul + (deg-slopeLowDeg)*(slopeHighMul-slopeLowMul)/(slopeHighDeg-slopeLowDeg)
	}
	f = math.Min(slopeCap, f*base)
	return f * weight
}

// MoistureFactor falls linearly from 1 at 0% to 0.8 at 50% and to 0 at 100%.
func MoistureFactor(moisture int, weight float64) float64 {
	m := float64(moisture)
	var f float64
	if m < moistureKnee {
		f = 1 + m*(moistureAtKnee-1)/moistureKnee
	} else {
		f = moistureAtKnee + (m-moistureKnee)*(0-moistureAtKnee)/(100-moistureKnee)
	}
	f = math.Max(0, math.Min(1, f))
	return f * weight
}

// WindFactor is 1 plus up to 0.8 scaled by wind speed (saturating at 60 km/h)
// and the alignment between the wind and the source→target bearing, clamped
// to [0.4, 1.8].
func WindFactor(direction int, speed float64, dx, dy int, weight float64) float64 {
	rad := float64(direction) * math.Pi / 180
	wx, wy := math.Cos(rad), math.Sin(rad)
	length := math.Hypot(float64(dx), float64(dy))
	dot := 0.0
	if length > 0 {
		dot = (wx*float64(dx) + wy*float64(dy)) / length
	}
	f := 1 + math.Min(speed/world.MaxWindSpeed, 1)*windBoost*dot
	f = math.Max(windFactorMin, math.Min(windFactorMax, f))
	return f * weight
}

// CumulativeProbability combines the enabled factors for spread from s to t
// into a probability over the whole burn window, clamped to [0,1].
func CumulativeProbability(w *world.World, s, t *world.Tile, p Params) float64 {
	base := p.BaseSpreadProbability

	veg := base
	if p.VegetationSpreadFactor > 0 {
		veg = VegetationFactor(t.Vegetation(), base, p.VegetationSpreadFactor)
	}
	slope := base
	if p.SlopeSpreadFactor > 0 {
		slope = SlopeFactor(s.Height(), t.Height(), base, p.SlopeSpreadFactor)
	}
	moisture := 1.0
	if p.MoistureSpreadFactor > 0 {
		moisture = MoistureFactor(t.Moisture(), p.MoistureSpreadFactor)
	}
	wind := 1.0
	if p.WindSpreadFactor > 0 {
		wd := w.Wind()
		wind = WindFactor(wd.Direction(), wd.Speed(), t.X()-s.X(), t.Y()-s.Y(), p.WindSpreadFactor)
	}

	combined := (veg + slope) / 2 * moisture * wind
	return math.Max(0, math.Min(1, combined))
}

// SpreadProbability is the per-tick chance that fire spreads from s to t.
// Certain and impossible spreads pass through; anything in between is
// converted from a cumulative probability over the source's burn time.
func SpreadProbability(w *world.World, s, t *world.Tile, p Params) float64 {
	total := CumulativeProbability(w, s, t, p)
	if total == 0 || total == 1 {
		return total
	}
	return StepProbability(total, s.BurnTime())
}

// StepProbability finds by bisection the per-tick probability p for which
// 1-(1-p)^burnTime equals total.
func StepProbability(total float64, burnTime int) float64 {
	lo, hi := 0.0, 1.0
	for i := 0; i < searchIterations; i++ {
		mid := (lo + hi) / 2
		if 1-math.Pow(1-mid, float64(burnTime)) > total {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}
