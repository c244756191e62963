package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountReturnPct is an account's net return for a year, in percent. With
// a scenario return the account moves by its expected return plus the
// scenario's deviation from the portfolio baseline.
func AccountReturnPct(a *domain.AccountState, scenario decimal.Decimal, hasScenario bool, baseline decimal.Decimal) decimal.Decimal {
	r := a.ExpectedReturnPct
	if hasScenario {
		r = r.Add(scenario.Sub(baseline))
	}
	return r.Sub(a.FeePct)
}

// ApplyReturns grows every account for the year. Balances never go below
// zero and cost basis is unchanged by growth.
func ApplyReturns(state *SimulationState, yearIndex int) {
	scenario, ok := state.Series.ReturnAt(yearIndex)
	one := decimal.NewFromInt(1)
	for _, a := range state.Accounts {
		r := AccountReturnPct(a, scenario, ok, state.BaselineReturnPct)
		a.Balance = decimal.Max(a.Balance.Mul(one.Add(pct(r))), decimal.Zero)
	}
}
