package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType determines how withdrawals from an account are taxed.
type AccountType string

const (
	AccountTaxable      AccountType = "taxable"
	AccountTaxDeferred  AccountType = "taxDeferred"
	AccountDeferredComp AccountType = "deferredComp"
	AccountRoth         AccountType = "roth"
)

// Account is the configured starting state of an investment account.
type Account struct {
	ID                  string                `yaml:"id" json:"id"`
	Name                string                `yaml:"name" json:"name"`
	Type                AccountType           `yaml:"type" json:"type"`
	Owner               string                `yaml:"owner" json:"owner"`
	Balance             decimal.Decimal       `yaml:"balance" json:"balance"`
	CostBasis           decimal.Decimal       `yaml:"cost_basis" json:"costBasis"`
	ExpectedReturnPct   decimal.Decimal       `yaml:"expected_return_pct" json:"expectedReturnPct"`
	FeePct              decimal.Decimal       `yaml:"fee_pct" json:"feePct"`
	TargetAllocationPct *decimal.Decimal      `yaml:"target_allocation_pct,omitempty" json:"targetAllocationPct,omitempty"`
	DeferredComp        *DeferredCompSchedule `yaml:"deferred_comp,omitempty" json:"deferredComp,omitempty"`
}

// DeferredCompSchedule pays an NQDC balance out in equal-share installments
// over Years calendar years starting in StartYear.
type DeferredCompSchedule struct {
	StartYear int `yaml:"start_year" json:"startYear"`
	Years     int `yaml:"years" json:"years"`
}

// AccountState is the mutable per-run state of one account. Balance and
// CostBasis are the only fields that change once a run starts (Owner changes
// only when an account passes to a surviving spouse).
type AccountState struct {
	ID                  string
	Name                string
	Type                AccountType
	Owner               string
	Balance             decimal.Decimal
	CostBasis           decimal.Decimal
	ExpectedReturnPct   decimal.Decimal
	FeePct              decimal.Decimal
	TargetAllocationPct *decimal.Decimal
	DeferredComp        *DeferredCompSchedule
}

// NewAccountState initializes run state from a configured account. Negative
// balances and basis are clamped to zero; basis is only kept for taxable accounts.
func NewAccountState(a Account) *AccountState {
	s := &AccountState{
		ID:                a.ID,
		Name:              a.Name,
		Type:              a.Type,
		Owner:             a.Owner,
		Balance:           decimal.Max(a.Balance, decimal.Zero),
		ExpectedReturnPct: a.ExpectedReturnPct,
		FeePct:            a.FeePct,
		DeferredComp:      a.DeferredComp,
	}
	if a.TargetAllocationPct != nil {
		pct := *a.TargetAllocationPct
		s.TargetAllocationPct = &pct
	}
	if a.Type == AccountTaxable {
		s.CostBasis = decimal.Max(a.CostBasis, decimal.Zero)
	}
	return s
}

// Clone returns a deep copy.
func (s *AccountState) Clone() *AccountState {
	c := *s
	if s.TargetAllocationPct != nil {
		pct := *s.TargetAllocationPct
		c.TargetAllocationPct = &pct
	}
	return &c
}

// CloneAccounts deep-copies an account slice.
func CloneAccounts(accounts []*AccountState) []*AccountState {
	out := make([]*AccountState, len(accounts))
	for i, a := range accounts {
		out[i] = a.Clone()
	}
	return out
}

// TotalBalance sums balances across all accounts.
func TotalBalance(accounts []*AccountState) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}
