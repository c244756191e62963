package calculation

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
)

// SimulationError reports a driver-level failure.
type SimulationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SimulationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *SimulationError) Unwrap() error { return e.Cause }

// SimulationState is the working state of one run. It is owned by a single
// driver and never shared between runs.
type SimulationState struct {
	Plan                  domain.PlanInput
	Accounts              []*domain.AccountState
	YearIndex             int
	PriorEffectiveTaxRate decimal.Decimal
	Series                *market.Series
	BaselineReturnPct     decimal.Decimal

	// Survivor transition
	SurvivorID     string
	DeceasedID     string
	DeathYearIndex int // -1 until the first death in a couple

	// PendingCapitalGains were realized by rebalancing and are taxed next year.
	PendingCapitalGains decimal.Decimal

	cumulativeInflationByYear []decimal.Decimal
}

// NewSimulationState deep-copies the plan's accounts into fresh run state.
func NewSimulationState(plan domain.PlanInput, series *market.Series) *SimulationState {
	accounts := make([]*domain.AccountState, len(plan.Accounts))
	for i, a := range plan.Accounts {
		accounts[i] = domain.NewAccountState(a)
	}
	return &SimulationState{
		Plan:                      plan,
		Accounts:                  accounts,
		PriorEffectiveTaxRate:     pct(plan.Tax.InitialEffectiveRatePct),
		Series:                    series,
		BaselineReturnPct:         ComputeBaselineReturn(accounts),
		DeathYearIndex:            -1,
		cumulativeInflationByYear: []decimal.Decimal{decimal.NewFromInt(1)},
	}
}

// Account returns the account with the given id.
func (s *SimulationState) Account(id string) *domain.AccountState {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ComputeBaselineReturn is the balance-weighted expected return of the
// portfolio, in percent. With no balance it is the simple average; with no
// accounts it is zero.
func ComputeBaselineReturn(accounts []*domain.AccountState) decimal.Decimal {
	if len(accounts) == 0 {
		return decimal.Zero
	}
	total := domain.TotalBalance(accounts)
	if total.LessThanOrEqual(decimal.Zero) {
		sum := decimal.Zero
		for _, a := range accounts {
			sum = sum.Add(a.ExpectedReturnPct)
		}
		return sum.Div(decimal.NewFromInt(int64(len(accounts))))
	}
	weighted := decimal.Zero
	for _, a := range accounts {
		weighted = weighted.Add(a.Balance.Mul(a.ExpectedReturnPct))
	}
	return weighted.Div(total)
}

// InflationPct returns the inflation rate applied during a year, in percent.
func (s *SimulationState) InflationPct(yearIndex int) decimal.Decimal {
	if v, ok := s.Series.InflationAt(yearIndex); ok {
		return v
	}
	return s.Plan.Market.InflationPct
}

// CumulativeInflation returns the price level of a year relative to the
// start year (1.0 in year 0). Entries are computed once and cached, so
// repeated lookups within a run are O(1).
func (s *SimulationState) CumulativeInflation(yearIndex int) decimal.Decimal {
	if yearIndex < 0 {
		return decimal.NewFromInt(1)
	}
	for len(s.cumulativeInflationByYear) <= yearIndex {
		i := len(s.cumulativeInflationByYear)
		prev := s.cumulativeInflationByYear[i-1]
		next := prev.Mul(decimal.NewFromInt(1).Add(pct(s.InflationPct(i - 1))))
		s.cumulativeInflationByYear = append(s.cumulativeInflationByYear, next)
	}
	return s.cumulativeInflationByYear[yearIndex]
}
