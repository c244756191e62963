package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

var minRebalanceDelta = decimal.NewFromFloat(0.01)

// Rebalance moves accounts that carry a target allocation back to their
// targets, once per year; quarterly rebalancing is modeled as a single
// annual pass. Inflows to taxable accounts add to cost basis. Outflows
// realize gains at the account's gain fraction; those gains are reported so
// the caller can tax them next year.
func Rebalance(accounts []*domain.AccountState, freq domain.RebalanceFrequency) domain.RebalanceResult {
	res := domain.RebalanceResult{}
	if freq != domain.RebalanceAnnual && freq != domain.RebalanceQuarterly {
		return res
	}

	var members []*domain.AccountState
	total := decimal.Zero
	for _, a := range accounts {
		if a.TargetAllocationPct == nil {
			continue
		}
		members = append(members, a)
		total = total.Add(a.Balance)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return res
	}

	for _, a := range members {
		target := total.Mul(pct(*a.TargetAllocationPct))
		delta := target.Sub(a.Balance)
		if delta.Abs().LessThan(minRebalanceDelta) {
			continue
		}
		trade := domain.RebalanceTrade{AccountID: a.ID, Delta: delta}
		if a.Type == domain.AccountTaxable {
			if delta.GreaterThan(decimal.Zero) {
				a.CostBasis = a.CostBasis.Add(delta)
			} else {
				out := delta.Neg()
				gf := ComputeGainFraction(a.Balance, a.CostBasis)
				trade.RealizedGains = RealizedGain(out, gf)
				a.CostBasis = ReduceBasis(a.CostBasis, out, gf)
				res.RealizedGains = res.RealizedGains.Add(trade.RealizedGains)
			}
		}
		a.Balance = decimal.Max(target, decimal.Zero)
		res.Trades = append(res.Trades, trade)
	}
	return res
}
