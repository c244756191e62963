package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Series is one path of per-year portfolio returns and inflation, both in
// percent. A year with no entry falls back to the plan's deterministic
// assumptions.
type Series struct {
	Name      string            `json:"name" yaml:"name"`
	Returns   []decimal.Decimal `json:"returns" yaml:"returns"`
	Inflation []decimal.Decimal `json:"inflation" yaml:"inflation"`
}

// ReturnAt returns the scenario return for a year index.
func (s *Series) ReturnAt(i int) (decimal.Decimal, bool) {
	if s == nil || i < 0 || i >= len(s.Returns) {
		return decimal.Zero, false
	}
	return s.Returns[i], true
}

// InflationAt returns the scenario inflation for a year index.
func (s *Series) InflationAt(i int) (decimal.Decimal, bool) {
	if s == nil || i < 0 || i >= len(s.Inflation) {
		return decimal.Zero, false
	}
	return s.Inflation[i], true
}

// Baseline carries the plan-level assumptions a provider builds paths around.
type Baseline struct {
	Years        int
	ReturnPct    decimal.Decimal // balance-weighted expected portfolio return
	InflationPct decimal.Decimal
}

// Provider supplies the market paths for a batch of runs. Path must be safe
// to call from multiple goroutines and must return the same series for the
// same index.
type Provider interface {
	Name() string
	Runs() int
	Path(i int) (*Series, error)
}

func checkIndex(p Provider, i int) error {
	if i < 0 || i >= p.Runs() {
		return fmt.Errorf("%s: path index %d out of range [0,%d)", p.Name(), i, p.Runs())
	}
	return nil
}

func flat(years int, v decimal.Decimal) []decimal.Decimal {
	out := make([]decimal.Decimal, years)
	for i := range out {
		out[i] = v
	}
	return out
}
