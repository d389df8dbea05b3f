package fire

import (
	"flag"
	"fmt"
	"strconv"

	"firespread/internal/core"
)

// Params configures spread probabilities. Each factor weights its term of
// the probability model; a factor of zero or below disables the term.
type Params struct {
	BaseSpreadProbability  float64
	VegetationSpreadFactor float64
	MoistureSpreadFactor   float64
	WindSpreadFactor       float64
	SlopeSpreadFactor      float64
}

// DefaultParams enables every factor at weight 1 with base probability 0.3.
func DefaultParams() Params {
	return Params{
		BaseSpreadProbability:  0.3,
		VegetationSpreadFactor: 1,
		MoistureSpreadFactor:   1,
		WindSpreadFactor:       1,
		SlopeSpreadFactor:      1,
	}
}

// Factor maps an on/off switch to a factor weight.
func Factor(enabled bool) float64 {
	if enabled {
		return 1
	}
	return 0
}

// FromMap populates params from flag-style key/value pairs. Factors accept
// true/false or a float weight.
func FromMap(cfg map[string]string) Params {
	p := DefaultParams()
	p.Apply(cfg)
	return p
}

// Apply overrides the fields named in cfg. Unparseable or out-of-range
// values keep the current setting.
func (p *Params) Apply(cfg map[string]string) {
	if v, ok := cfg["base"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			p.BaseSpreadProbability = parsed
		}
	}
	applyFactor(cfg, "vegetation", &p.VegetationSpreadFactor)
	applyFactor(cfg, "moisture", &p.MoistureSpreadFactor)
	applyFactor(cfg, "wind", &p.WindSpreadFactor)
	applyFactor(cfg, "slope", &p.SlopeSpreadFactor)
}

func applyFactor(cfg map[string]string, key string, dst *float64) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	if f, err := ParseFactor(v); err == nil {
		*dst = f
	}
}

// ParseFactor reads a factor weight: true/false map to 1/0, anything else
// must be a non-negative float.
func ParseFactor(s string) (float64, error) {
	if b, err := strconv.ParseBool(s); err == nil {
		return Factor(b), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("factor %q: want true, false or a non-negative weight", s)
	}
	return f, nil
}

type factorValue struct{ dst *float64 }

// FactorVar returns a flag.Value that stores a factor weight parsed with
// ParseFactor into dst.
func FactorVar(dst *float64) flag.Value { return factorValue{dst: dst} }

func (v factorValue) String() string {
	if v.dst == nil {
		return ""
	}
	return strconv.FormatFloat(*v.dst, 'g', -1, 64)
}

func (v factorValue) Set(s string) error {
	f, err := ParseFactor(s)
	if err != nil {
		return err
	}
	*v.dst = f
	return nil
}

// Parameters describes the params for the CLI and the GUI panel.
func (p Params) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name:    "Fire",
		Summary: "factors <= 0 disable their term",
		Params: []core.Parameter{
			core.FloatParam("base", "Base spread probability", p.BaseSpreadProbability),
			core.FloatParam("vegetation", "Vegetation factor", p.VegetationSpreadFactor),
			core.FloatParam("moisture", "Moisture factor", p.MoistureSpreadFactor),
			core.FloatParam("wind", "Wind factor", p.WindSpreadFactor),
			core.FloatParam("slope", "Slope factor", p.SlopeSpreadFactor),
		},
	}}}
}
