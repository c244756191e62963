package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// inflateSpending scales a start-year amount to a year's dollars.
func inflateSpending(base, cumulativeInflation decimal.Decimal) decimal.Decimal {
	return base.Mul(cumulativeInflation)
}

// ApplyGuardrails clamps spend against the total portfolio. The ceiling
// rule runs first: when the portfolio exceeds CeilingMultiple times the
// ceiling, spend is capped at the ceiling. The floor rule then limits an
// implied withdrawal rate above MaxWithdrawalRatePct to that rate of the
// portfolio, but never below the floor. ceiling and floor are already
// inflation adjusted; zero disables the respective bound.
func ApplyGuardrails(g domain.Guardrails, spend, portfolio, ceiling, floor decimal.Decimal) (decimal.Decimal, bool, bool) {
	var ceilingApplied, floorApplied bool
	if !g.Enabled {
		return spend, false, false
	}
	if ceiling.GreaterThan(decimal.Zero) && portfolio.GreaterThan(g.CeilingMultiple.Mul(ceiling)) && spend.GreaterThan(ceiling) {
		spend = ceiling
		ceilingApplied = true
	}
	if portfolio.GreaterThan(decimal.Zero) && g.MaxWithdrawalRatePct.GreaterThan(decimal.Zero) {
		maxSpend := portfolio.Mul(pct(g.MaxWithdrawalRatePct))
		if spend.GreaterThan(maxSpend) {
			spend = decimal.Max(floor, maxSpend)
			floorApplied = true
		}
	}
	return spend, ceilingApplied, floorApplied
}

// ComputeSpendingTarget returns the year's spending: the inflated base
// target, scaled in survivor phase, clamped by guardrails, plus one-time
// expenses (which guardrails never reduce).
func ComputeSpendingTarget(state *SimulationState, yc domain.YearContext, oneTimeExpenses decimal.Decimal) domain.SpendingResult {
	sp := state.Plan.Spending
	mult := state.CumulativeInflation(yc.YearIndex)

	spend := inflateSpending(sp.BaseTargetAnnualSpend, mult)
	if yc.SurvivorPhase {
		spend = spend.Mul(pct(sp.SurvivorAdjustment()))
	}
	portfolio := domain.TotalBalance(state.Accounts)

	res := domain.SpendingResult{
		BaseTarget:          sp.BaseTargetAnnualSpend,
		InflationMultiplier: mult,
		TargetSpend:         spend.Add(oneTimeExpenses),
		PortfolioValue:      portfolio,
	}
	spend, res.CeilingApplied, res.FloorApplied = ApplyGuardrails(sp.Guardrails, spend, portfolio,
		inflateSpending(sp.Guardrails.CeilingAnnualSpend, mult),
		inflateSpending(sp.Guardrails.FloorAnnualSpend, mult))
	res.ActualSpend = spend.Add(oneTimeExpenses)
	return res
}
