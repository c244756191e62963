package calculation

import (
	"github.com/shopspring/decimal"
)

const (
	// MaxConvergenceIterations bounds the tax/withdrawal fixed-point loop.
	MaxConvergenceIterations = 5
)

// ConvergenceThreshold is the absolute tax difference, in dollars, below
// which the solver stops.
var ConvergenceThreshold = decimal.NewFromInt(100)

// ConvergenceOptions tunes Converge. Zero values select the defaults.
type ConvergenceOptions struct {
	MaxIterations int
	Threshold     decimal.Decimal
}

// ConvergenceResult is the outcome of Converge.
type ConvergenceResult[T any] struct {
	Result     T
	Tax        decimal.Decimal
	Converged  bool
	Iterations int
}

// Converge iterates f, feeding the tax it reports back in as the next
// estimate, until the estimate and the reported tax differ by less than the
// threshold or the iteration limit is hit. The last result is always
// returned; Converged is false when the limit was reached first.
func Converge[T any](f func(estimatedTax decimal.Decimal) (T, decimal.Decimal), initial decimal.Decimal, opts ConvergenceOptions) ConvergenceResult[T] {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = MaxConvergenceIterations
	}
	threshold := opts.Threshold
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = ConvergenceThreshold
	}

	var out ConvergenceResult[T]
	estimate := initial
	for i := 1; i <= maxIter; i++ {
		result, actual := f(estimate)
		out.Result, out.Tax, out.Iterations = result, actual, i
		if actual.Sub(estimate).Abs().LessThan(threshold) {
			out.Converged = true
			return out
		}
		estimate = actual
	}
	return out
}
