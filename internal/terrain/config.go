package terrain

import (
	"strconv"

	"firespread/internal/core"
)

// Params holds the shaping constants of the generator.
type Params struct {
	Octaves     int
	Persistence float64
	NoiseScale  float64

	MoistureNoiseScale float64
	MoistureRadius     int

	LakeBeachFactor  float64
	RiverBeachFactor float64
	BeachRadius      int

	VegetationChance float64
	WaterHeight      float64
}

// Config controls world dimensions, hydrology and seeding.
type Config struct {
	Width int
	Depth int

	Rivers        int
	LakeThreshold float64

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:         30,
		Depth:         30,
		Rivers:        3,
		LakeThreshold: 0.1,
		Seed:          1337,
		Params: Params{
			Octaves:            5,
			Persistence:        0.4,
			NoiseScale:         20,
			MoistureNoiseScale: 10,
			MoistureRadius:     2,
			LakeBeachFactor:    0.15,
			RiverBeachFactor:   0.25,
			BeachRadius:        3,
			VegetationChance:   0.85,
			WaterHeight:        0.01,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Apply(cfg)
	return c
}

// Apply overrides the fields named in cfg, keeping the current value for
// anything unparseable or out of range.
func (c *Config) Apply(cfg map[string]string) {
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["d"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Depth = parsed
		}
	}
	if v, ok := cfg["rivers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Rivers = parsed
		}
	}
	if v, ok := cfg["lake_threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.LakeThreshold = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["octaves"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Octaves = parsed
		}
	}
	if v, ok := cfg["persistence"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.Persistence = parsed
		}
	}
	if v, ok := cfg["noise_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.NoiseScale = parsed
		}
	}
	if v, ok := cfg["moisture_noise_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MoistureNoiseScale = parsed
		}
	}
	if v, ok := cfg["moisture_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.MoistureRadius = parsed
		}
	}
	if v, ok := cfg["lake_beach_factor"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.LakeBeachFactor = parsed
		}
	}
	if v, ok := cfg["river_beach_factor"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.RiverBeachFactor = parsed
		}
	}
	if v, ok := cfg["beach_radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.BeachRadius = parsed
		}
	}
	if v, ok := cfg["vegetation_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.VegetationChance = parsed
		}
	}
	if v, ok := cfg["water_height"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.WaterHeight = parsed
		}
	}
}

// Parameters describes the config for the CLI and the GUI panel.
func (c Config) Parameters() core.ParameterSnapshot {
	p := c.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", c.Width),
				core.IntParam("d", "Depth", c.Depth),
				core.Int64Param("seed", "Seed", c.Seed),
			},
		},
		{
			Name: "Hydrology",
			Params: []core.Parameter{
				core.IntParam("rivers", "Rivers", c.Rivers),
				core.FloatParam("lake_threshold", "Lake threshold", c.LakeThreshold),
				core.FloatParam("lake_beach_factor", "Lake beach factor", p.LakeBeachFactor),
				core.FloatParam("river_beach_factor", "River beach factor", p.RiverBeachFactor),
				core.IntParam("beach_radius", "Beach radius", p.BeachRadius),
				core.IntParam("moisture_radius", "Moisture radius", p.MoistureRadius),
			},
		},
		{
			Name: "Noise",
			Params: []core.Parameter{
				core.IntParam("octaves", "Octaves", p.Octaves),
				core.FloatParam("persistence", "Persistence", p.Persistence),
				core.FloatParam("noise_scale", "Height noise scale", p.NoiseScale),
				core.FloatParam("moisture_noise_scale", "Moisture noise scale", p.MoistureNoiseScale),
			},
		},
		{
			Name: "Cover",
			Params: []core.Parameter{
				core.FloatParam("vegetation_chance", "Vegetation banding chance", p.VegetationChance),
				core.FloatParam("water_height", "Water tile height", p.WaterHeight),
			},
		},
	}}
}
