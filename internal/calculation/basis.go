package calculation

import (
	"github.com/shopspring/decimal"
)

// ComputeGainFraction returns the unrealized-gain share of a taxable
// account, clamped to [0, 1]. Empty accounts have no gain.
func ComputeGainFraction(balance, costBasis decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	gf := balance.Sub(costBasis).Div(balance)
	if gf.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if gf.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return gf
}

// ReduceBasis removes the basis share of a withdrawal. Never negative.
func ReduceBasis(costBasis, withdrawal, gainFraction decimal.Decimal) decimal.Decimal {
	recovered := withdrawal.Mul(decimal.NewFromInt(1).Sub(gainFraction))
	return decimal.Max(costBasis.Sub(recovered), decimal.Zero)
}

// RealizedGain is the taxable gain of selling amount from an account with
// the given gain fraction.
func RealizedGain(amount, gainFraction decimal.Decimal) decimal.Decimal {
	return amount.Mul(gainFraction)
}
