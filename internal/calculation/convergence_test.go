package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConvergeContractive(t *testing.T) {
	calls := 0
	f := func(est decimal.Decimal) (string, decimal.Decimal) {
		calls++
		return "ok", dec(1000).Add(est.Mul(decimal.NewFromFloat(0.1)))
	}
	res := Converge(f, decimal.Zero, ConvergenceOptions{})

	assert.True(t, res.Converged)
	assert.LessOrEqual(t, res.Iterations, MaxConvergenceIterations)
	assert.Equal(t, calls, res.Iterations)
	assert.Equal(t, "ok", res.Result)
	assert.Equal(t, "1110.00", res.Tax.StringFixed(2))
}

func TestConvergeExactGuess(t *testing.T) {
	res := Converge(func(est decimal.Decimal) (int, decimal.Decimal) { return 1, dec(5000) }, dec(5000), ConvergenceOptions{})
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
}

func TestConvergeOscillatingHitsLimit(t *testing.T) {
	calls := 0
	f := func(est decimal.Decimal) (int, decimal.Decimal) {
		calls++
		return calls, dec(1000).Sub(est)
	}
	res := Converge(f, decimal.Zero, ConvergenceOptions{})

	assert.False(t, res.Converged)
	assert.Equal(t, 5, res.Iterations)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 5, res.Result, "last iteration's result is returned")
}

func TestConvergeOptions(t *testing.T) {
	f := func(est decimal.Decimal) (int, decimal.Decimal) { return 0, dec(1000).Sub(est) }
	res := Converge(f, decimal.Zero, ConvergenceOptions{MaxIterations: 8})
	assert.Equal(t, 8, res.Iterations)

	// A looser threshold accepts the first step of a slow contraction.
	g := func(est decimal.Decimal) (int, decimal.Decimal) { return 0, est.Add(dec(500)) }
	res = Converge(g, decimal.Zero, ConvergenceOptions{Threshold: dec(1000)})
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
}
