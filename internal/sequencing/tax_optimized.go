package sequencing

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxOptimizedStrategy fills the target ordinary bracket from tax-deferred
// accounts, covers the rest from taxable accounts (gains only are taxed),
// then the remaining tax-deferred balance, and Roth last.
type TaxOptimizedStrategy struct{}

func NewTaxOptimizedStrategy() *TaxOptimizedStrategy { return &TaxOptimizedStrategy{} }

func (s *TaxOptimizedStrategy) Name() string { return string(domain.OrderTaxOptimized) }

func (s *TaxOptimizedStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NeedAmount, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NeedAmount
	srcs := copySources(sources)

	drain := func(t domain.AccountType, limit decimal.Decimal) decimal.Decimal {
		used := decimal.Zero
		for i := range srcs {
			if srcs[i].Type != t {
				continue
			}
			want := decimal.Min(remaining, limit.Sub(used))
			if want.LessThanOrEqual(decimal.Zero) {
				break
			}
			got := draw(&plan, &srcs[i], want)
			used = used.Add(got)
			remaining = remaining.Sub(got)
		}
		return used
	}

	// 1. Fill the bracket with ordinary income
	headroom := decimal.Max(ctx.OrdinaryHeadroom, decimal.Zero)
	if headroom.GreaterThan(decimal.Zero) {
		filled := drain(domain.AccountTaxDeferred, headroom)
		plan.BracketFilled = filled.GreaterThanOrEqual(headroom)
	}

	// 2. Taxable, 3. rest of tax-deferred, 4. Roth
	for _, t := range []domain.AccountType{domain.AccountTaxable, domain.AccountTaxDeferred, domain.AccountRoth} {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		drain(t, remaining)
	}
	return finish(&plan, remaining)
}
