package sequencing

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxTreatment represents tax characteristics of a withdrawal source
// OrdinaryIncome: fully taxable (tax-deferred accounts)
// TaxFree: no current year tax impact (Roth)
// CapitalGains: only the gain share is taxed, via basis tracking
type TaxTreatment int

const (
	TaxFree TaxTreatment = iota
	OrdinaryIncome
	CapitalGains
)

func (tt TaxTreatment) String() string {
	switch tt {
	case TaxFree:
		return "tax_free"
	case OrdinaryIncome:
		return "ordinary"
	case CapitalGains:
		return "capital_gains"
	default:
		return "unknown"
	}
}

// TreatmentFor maps an account type to its withdrawal tax treatment.
func TreatmentFor(t domain.AccountType) TaxTreatment {
	switch t {
	case domain.AccountTaxable:
		return CapitalGains
	case domain.AccountRoth:
		return TaxFree
	default:
		return OrdinaryIncome
	}
}

// WithdrawalSource is one account available to strategies. Strategies work
// on their own copy of the sources and draw balances down as they allocate,
// so repeated draws from the same account see its updated gain fraction.
type WithdrawalSource struct {
	AccountID    string
	Type         domain.AccountType
	Balance      decimal.Decimal
	Basis        decimal.Decimal
	TaxTreatment TaxTreatment
}

// WithdrawalAllocation captures an actual withdrawal from one account and its tax decomposition
// Gross: total dollars withdrawn
// OrdinaryPortion: taxed as ordinary income
// CapitalGainsPortion: realized gain on a taxable withdrawal
// TaxFreePortion: Roth dollars and recovered basis
// BasisRecovered: cost basis consumed (taxable accounts only)
type WithdrawalAllocation struct {
	AccountID           string
	Gross               decimal.Decimal
	OrdinaryPortion     decimal.Decimal
	CapitalGainsPortion decimal.Decimal
	TaxFreePortion      decimal.Decimal
	BasisRecovered      decimal.Decimal
}

// WithdrawalPlan aggregates the full plan for meeting a target amount.
// An account may appear in more than one allocation.
type WithdrawalPlan struct {
	Requested               decimal.Decimal
	Allocations             []WithdrawalAllocation
	TotalSourced            decimal.Decimal
	RemainingNeed           decimal.Decimal
	EstimatedOrdinaryIncome decimal.Decimal
	EstimatedCapitalGains   decimal.Decimal
	RothUsed                decimal.Decimal
	BasisRecovered          decimal.Decimal
	Notes                   []string
	StrategyUsed            string
	BracketFilled           bool
}

// ByAccount sums allocations per account.
func (p WithdrawalPlan) ByAccount() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.Allocations))
	for _, a := range p.Allocations {
		out[a.AccountID] = out[a.AccountID].Add(a.Gross)
	}
	return out
}

// StrategyContext provides inputs required by sequencing strategies
// NeedAmount: gross amount to source from accounts
// OrdinaryHeadroom: ordinary income that still fits below the target bracket
// ceiling once existing income is counted (taxOptimized only)
type StrategyContext struct {
	NeedAmount       decimal.Decimal
	OrdinaryHeadroom decimal.Decimal
}

// SequencingStrategy defines interface for all withdrawal sequencing algorithms
type SequencingStrategy interface {
	Name() string
	Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan
}

// draw withdraws up to amount from src, records the allocation on plan and
// returns the amount actually withdrawn.
func draw(plan *WithdrawalPlan, src *WithdrawalSource, amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) || src.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	withdraw := decimal.Min(amount, src.Balance)

	alloc := WithdrawalAllocation{AccountID: src.AccountID, Gross: withdraw}
	switch src.TaxTreatment {
	case OrdinaryIncome:
		alloc.OrdinaryPortion = withdraw
	case TaxFree:
		alloc.TaxFreePortion = withdraw
		plan.RothUsed = plan.RothUsed.Add(withdraw)
	case CapitalGains:
		gf := gainFraction(src.Balance, src.Basis)
		gain := withdraw.Mul(gf)
		newBasis := decimal.Max(src.Basis.Sub(withdraw.Sub(gain)), decimal.Zero)
		alloc.CapitalGainsPortion = gain
		alloc.TaxFreePortion = withdraw.Sub(gain)
		alloc.BasisRecovered = src.Basis.Sub(newBasis)
		src.Basis = newBasis
	}
	src.Balance = src.Balance.Sub(withdraw)

	plan.Allocations = append(plan.Allocations, alloc)
	plan.TotalSourced = plan.TotalSourced.Add(withdraw)
	plan.EstimatedOrdinaryIncome = plan.EstimatedOrdinaryIncome.Add(alloc.OrdinaryPortion)
	plan.EstimatedCapitalGains = plan.EstimatedCapitalGains.Add(alloc.CapitalGainsPortion)
	plan.BasisRecovered = plan.BasisRecovered.Add(alloc.BasisRecovered)
	return withdraw
}

// gainFraction is (balance-basis)/balance clamped to [0,1].
func gainFraction(balance, basis decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	gf := balance.Sub(basis).Div(balance)
	if gf.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if gf.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return gf
}

func finish(plan *WithdrawalPlan, remaining decimal.Decimal) WithdrawalPlan {
	plan.RemainingNeed = decimal.Max(remaining, decimal.Zero)
	if plan.RemainingNeed.GreaterThan(decimal.Zero) {
		plan.Notes = append(plan.Notes, "insufficient balances to meet request")
	}
	return *plan
}

func copySources(sources []WithdrawalSource) []WithdrawalSource {
	out := make([]WithdrawalSource, len(sources))
	copy(out, sources)
	return out
}
