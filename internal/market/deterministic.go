package market

import (
	"github.com/shopspring/decimal"
)

// Deterministic is a single path. With no explicit series every year uses
// each account's expected return and the plan inflation rate.
type Deterministic struct {
	series *Series
}

// NewDeterministic returns a deterministic provider. returns and inflation
// may be nil or shorter than the projection.
func NewDeterministic(returns, inflation []decimal.Decimal) *Deterministic {
	if len(returns) == 0 && len(inflation) == 0 {
		return &Deterministic{}
	}
	return &Deterministic{series: &Series{Name: "explicit", Returns: returns, Inflation: inflation}}
}

func (d *Deterministic) Name() string { return "deterministic" }
func (d *Deterministic) Runs() int    { return 1 }

func (d *Deterministic) Path(i int) (*Series, error) {
	if err := checkIndex(d, i); err != nil {
		return nil, err
	}
	return d.series, nil
}
