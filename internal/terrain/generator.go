// Package terrain builds worlds: layered-noise height fields, lakes and
// rivers, derived moisture and vegetation, and imported height maps.
package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"

	"firespread/internal/core"
	"firespread/internal/world"
	rng "firespread/pkg/core"
)

const (
	maxMoisture  = world.WaterMoisture
	maxLandValue = world.WaterMoisture - 1
	noiseOffset  = 10000.0
	perlinBeta   = 2.0
)

// Generator produces worlds from a random source. It is not safe for
// concurrent use; give each goroutine its own Generator.
type Generator struct {
	cfg Config
	src rng.Source
}

// NewGenerator binds a config to a random source. A nil source is replaced
// by one seeded from cfg.Seed.
func NewGenerator(cfg Config, src rng.Source) *Generator {
	if src == nil {
		src = rng.NewRand(cfg.Seed)
	}
	return &Generator{cfg: cfg, src: src}
}

// Config returns the generator configuration.
func (g *Generator) Config() Config { return g.cfg }

// Generate builds a width×depth world with the given number of rivers and
// lake threshold, overriding those fields of the config.
func (g *Generator) Generate(width, depth, rivers int, lakeThreshold float64) (*world.World, error) {
	cfg := g.cfg
	cfg.Width, cfg.Depth, cfg.Rivers, cfg.LakeThreshold = width, depth, rivers, lakeThreshold
	return g.build(cfg)
}

// GenerateWithConfig builds a world using the generator's own config.
func (g *Generator) GenerateWithConfig() (*world.World, error) {
	return g.build(g.cfg)
}

// Generate is a convenience wrapper using the default shaping parameters.
func Generate(width, depth, rivers int, lakeThreshold float64, src rng.Source) (*world.World, error) {
	return NewGenerator(DefaultConfig(), src).Generate(width, depth, rivers, lakeThreshold)
}

func (g *Generator) build(cfg Config) (*world.World, error) {
	if cfg.Width <= 0 || cfg.Depth <= 0 {
		return nil, world.ErrInvalidSize
	}
	p := cfg.Params

	height := g.heightField(cfg.Width, cfg.Depth, p)
	lakes := LakeMap(height, cfg.LakeThreshold)
	rivers := g.riverMap(lakes, cfg.Rivers)

	ReduceByBeachFactor(height, lakes, p.LakeBeachFactor, p.BeachRadius)
	ReduceByBeachFactor(height, rivers, p.RiverBeachFactor, p.BeachRadius)
	Smooth(height, 1)
	height = GaussianBlur(height)

	moisture := g.moistureMap(lakes, rivers, p)
	vegetation := g.vegetationMap(moisture, p.VegetationChance)

	return world.FromFields(height, moisture, vegetation, p.WaterHeight)
}

// heightField sums Octaves layers of Perlin noise, doubling frequency and
// scaling amplitude by Persistence per layer, then normalizes to [0,1].
func (g *Generator) heightField(w, d int, p Params) *core.Grid[float64] {
	persistence := p.Persistence
	if persistence <= 0 {
		persistence = 0.4
	}
	octaves := p.Octaves
	if octaves <= 0 {
		octaves = 1
	}
	scale := p.NoiseScale
	if scale <= 0 {
		scale = 20
	}
	noise := perlin.NewPerlin(1/persistence, perlinBeta, int32(octaves), g.src.Int64())
	offX := rng.Uniform(g.src, 0, noiseOffset)
	offY := rng.Uniform(g.src, 0, noiseOffset)

	out := core.NewGrid[float64](w, d)
	for x := 0; x < w; x++ {
		for y := 0; y < d; y++ {
			out.Set(x, y, noise.Noise2D((float64(x)+offX)/scale, (float64(y)+offY)/scale))
		}
	}
	Normalize(out)
	return out
}

// LakeMap marks every cell whose height is below threshold.
func LakeMap(height *core.Grid[float64], threshold float64) *core.Grid[bool] {
	out := core.NewGrid[bool](height.W, height.D)
	hc, oc := height.Cells(), out.Cells()
	for i, h := range hc {
		oc[i] = h < threshold
	}
	return out
}

// riverMap runs one biased random walk per river. Each walk starts on a
// random cell with one of four biases; every step moves along one of the two
// directions of that bias with equal odds. A walk ends when it leaves the
// grid or steps into a lake.
func (g *Generator) riverMap(lakes *core.Grid[bool], count int) *core.Grid[bool] {
	out := core.NewGrid[bool](lakes.W, lakes.D)
	for i := 0; i < count; i++ {
		x := g.src.IntN(lakes.W)
		y := g.src.IntN(lakes.D)
		bias := g.src.IntN(4)
		for {
			out.Set(x, y, true)
			first := g.src.Float64() < 0.5
			switch bias {
			case 0:
				if first {
					x++
				} else {
					y++
				}
			case 1:
				if first {
					y--
				} else {
					x++
				}
			case 2:
				if first {
					x--
				} else {
					y--
				}
			case 3:
				if first {
					y++
				} else {
					x--
				}
			}
			if !out.InBounds(x, y) || lakes.At(x, y) {
				break
			}
		}
	}
	return out
}

// moistureMap sets water cells to 100. Land takes the larger of a noise
// value in [0,99] and a linear falloff from the nearest water cell within
// MoistureRadius (Manhattan distance), capped at 99. The two are not summed:
// an additive blend capped at 100 would turn shoreline land into water.
func (g *Generator) moistureMap(lakes, rivers *core.Grid[bool], p Params) *core.Grid[int] {
	w, d := lakes.W, lakes.D
	scale := p.MoistureNoiseScale
	if scale <= 0 {
		scale = 10
	}
	noise := perlin.NewPerlin(2, perlinBeta, 1, g.src.Int64())
	offX := rng.Uniform(g.src, 0, noiseOffset)
	offY := rng.Uniform(g.src, 0, noiseOffset)

	isWater := func(x, y int) bool { return lakes.At(x, y) || rivers.At(x, y) }
	radius := p.MoistureRadius

	out := core.NewGrid[int](w, d)
	for x := 0; x < w; x++ {
		for y := 0; y < d; y++ {
			if isWater(x, y) {
				out.Set(x, y, maxMoisture)
				continue
			}
			n := (noise.Noise2D((float64(x)+offX)/scale, (float64(y)+offY)/scale) + 1) / 2
			value := int(math.Max(0, math.Min(1, n)) * maxMoisture)

			if dist, ok := nearestWater(x, y, radius, out, isWater); ok {
				influence := maxMoisture - dist*(maxMoisture/radius)
				if influence > value {
					value = influence
				}
			}
			if value > maxLandValue {
				value = maxLandValue
			}
			out.Set(x, y, value)
		}
	}
	return out
}

func nearestWater(x, y, radius int, g *core.Grid[int], isWater func(x, y int) bool) (int, bool) {
	if radius <= 0 {
		return 0, false
	}
	best := radius + 1
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			dist := abs(dx) + abs(dy)
			if dist == 0 || dist > radius || dist >= best {
				continue
			}
			if g.InBounds(x+dx, y+dy) && isWater(x+dx, y+dy) {
				best = dist
			}
		}
	}
	return best, best <= radius
}

// vegetationMap bands moisture into cover types for a chance fraction of the
// cells and leaves the rest as grass.
func (g *Generator) vegetationMap(moisture *core.Grid[int], chance float64) *core.Grid[world.Vegetation] {
	out := core.NewGrid[world.Vegetation](moisture.W, moisture.D)
	mc, oc := moisture.Cells(), out.Cells()
	for i, m := range mc {
		oc[i] = world.Grass
		if g.src.Float64() < chance {
			oc[i] = VegetationForMoisture(m)
		}
	}
	return out
}

// VegetationForMoisture maps a moisture value to its vegetation band.
func VegetationForMoisture(m int) world.Vegetation {
	switch {
	case m < 30:
		return world.Sparse
	case m < 50:
		return world.Grass
	case m < 70:
		return world.Forest
	default:
		return world.Swamp
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
