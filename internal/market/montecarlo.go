package market

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// MonteCarlo draws normally distributed returns and inflation around a
// baseline. Path i always uses its own generator seeded with Seed+i, so a
// batch is reproducible regardless of how runs are scheduled.
type MonteCarlo struct {
	runs        int
	seed        int64
	returnSD    float64
	inflationSD float64
	baseline    Baseline
}

// NewMonteCarlo creates a Monte Carlo provider. A zero seed is replaced by
// the current time.
func NewMonteCarlo(cfg domain.MonteCarloConfig, b Baseline) (*MonteCarlo, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("monte carlo runs must be positive, got %d", cfg.Runs)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rsd, _ := cfg.ReturnStdDevPct.Float64()
	isd, _ := cfg.InflationStdDevPct.Float64()
	return &MonteCarlo{runs: cfg.Runs, seed: seed, returnSD: rsd, inflationSD: isd, baseline: b}, nil
}

func (m *MonteCarlo) Name() string { return "monteCarlo" }
func (m *MonteCarlo) Runs() int    { return m.runs }

// Seed returns the seed in use.
func (m *MonteCarlo) Seed() int64 { return m.seed }

func (m *MonteCarlo) Path(i int) (*Series, error) {
	if err := checkIndex(m, i); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(m.seed + int64(i)))
	mean, _ := m.baseline.ReturnPct.Float64()
	infl, _ := m.baseline.InflationPct.Float64()

	s := &Series{
		Name:      fmt.Sprintf("monteCarlo #%d", i+1),
		Returns:   make([]decimal.Decimal, m.baseline.Years),
		Inflation: make([]decimal.Decimal, m.baseline.Years),
	}
	for y := 0; y < m.baseline.Years; y++ {
		r := mean + rng.NormFloat64()*m.returnSD
		if r < -100 {
			r = -100
		}
		s.Returns[y] = decimal.NewFromFloat(r).Round(4)
		s.Inflation[y] = decimal.NewFromFloat(infl + rng.NormFloat64()*m.inflationSD).Round(4)
	}
	return s, nil
}
