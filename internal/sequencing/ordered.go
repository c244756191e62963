package sequencing

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderedStrategy drains account types in a fixed order. Accounts of the
// same type are used in configuration order.
type OrderedStrategy struct {
	name  string
	order []domain.AccountType
}

// NewTaxableFirstStrategy: taxable -> tax-deferred -> roth
// Spends taxable assets first to keep tax-deferred growth going, preserving Roth for last.
func NewTaxableFirstStrategy() *OrderedStrategy {
	return &OrderedStrategy{
		name:  string(domain.OrderTaxableFirst),
		order: []domain.AccountType{domain.AccountTaxable, domain.AccountTaxDeferred, domain.AccountRoth},
	}
}

// NewTaxDeferredFirstStrategy: tax-deferred -> taxable -> roth
// Draws down tax-deferred balances early to shrink future RMDs.
func NewTaxDeferredFirstStrategy() *OrderedStrategy {
	return &OrderedStrategy{
		name:  string(domain.OrderTaxDeferredFirst),
		order: []domain.AccountType{domain.AccountTaxDeferred, domain.AccountTaxable, domain.AccountRoth},
	}
}

func (s *OrderedStrategy) Name() string { return s.name }

func (s *OrderedStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NeedAmount, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NeedAmount
	srcs := copySources(sources)

	for _, t := range s.order {
		for i := range srcs {
			if remaining.LessThanOrEqual(decimal.Zero) {
				return finish(&plan, remaining)
			}
			if srcs[i].Type != t {
				continue
			}
			remaining = remaining.Sub(draw(&plan, &srcs[i], remaining))
		}
	}
	return finish(&plan, remaining)
}
