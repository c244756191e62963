package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StressPreset describes a named adverse scenario as per-year offsets. Years
// past the end of the shock return to the baseline.
type StressPreset struct {
	Name        string
	Description string
	// ReturnPct are absolute returns for the shock years.
	ReturnPct []float64
	// InflationPct are absolute inflation rates for the shock years; nil keeps baseline inflation.
	InflationPct []float64
}

// StressPresets are the built-in adverse scenarios.
var StressPresets = []StressPreset{
	{
		Name:        "early-crash",
		Description: "Sequence risk: a 2008-style crash in the first two years",
		ReturnPct:   []float64{-30, -12, 4},
	},
	{
		Name:         "stagflation",
		Description:  "A decade of high inflation and weak real returns",
		ReturnPct:    []float64{2, -8, 5, 1, 3, 6, -4, 4, 2, 5},
		InflationPct: []float64{7, 9, 11, 9, 8, 7, 6, 6, 5, 5},
	},
	{
		Name:        "lost-decade",
		Description: "Ten years of roughly flat nominal returns",
		ReturnPct:   []float64{-9, -12, -22, 28, 10, 5, 15, 5, -37, 26},
	},
}

// LookupStressPreset returns the named preset.
func LookupStressPreset(name string) (StressPreset, error) {
	for _, p := range StressPresets {
		if p.Name == name {
			return p, nil
		}
	}
	names := make([]string, len(StressPresets))
	for i, p := range StressPresets {
		names[i] = p.Name
	}
	return StressPreset{}, fmt.Errorf("unknown stress scenario %q (available: %v)", name, names)
}

// Series expands the preset over a projection around a baseline.
func (p StressPreset) Series(b Baseline) *Series {
	s := &Series{
		Name:      p.Name,
		Returns:   flat(b.Years, b.ReturnPct),
		Inflation: flat(b.Years, b.InflationPct),
	}
	for i := 0; i < len(p.ReturnPct) && i < b.Years; i++ {
		s.Returns[i] = decimal.NewFromFloat(p.ReturnPct[i])
	}
	for i := 0; i < len(p.InflationPct) && i < b.Years; i++ {
		s.Inflation[i] = decimal.NewFromFloat(p.InflationPct[i])
	}
	return s
}

// Stress runs one path per selected preset.
type Stress struct {
	presets  []StressPreset
	baseline Baseline
}

// NewStress creates a stress provider. An empty name runs every preset.
func NewStress(name string, b Baseline) (*Stress, error) {
	if name == "" {
		return &Stress{presets: StressPresets, baseline: b}, nil
	}
	p, err := LookupStressPreset(name)
	if err != nil {
		return nil, err
	}
	return &Stress{presets: []StressPreset{p}, baseline: b}, nil
}

func (s *Stress) Name() string { return "stress" }
func (s *Stress) Runs() int    { return len(s.presets) }

func (s *Stress) Path(i int) (*Series, error) {
	if err := checkIndex(s, i); err != nil {
		return nil, err
	}
	return s.presets[i].Series(s.baseline), nil
}
