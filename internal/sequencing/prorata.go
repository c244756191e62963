package sequencing

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ProRataStrategy withdraws from every account in proportion to its balance,
// keeping the tax mix of the portfolio unchanged.
type ProRataStrategy struct{}

func NewProRataStrategy() *ProRataStrategy { return &ProRataStrategy{} }

func (s *ProRataStrategy) Name() string { return string(domain.OrderProRata) }

func (s *ProRataStrategy) Plan(sources []WithdrawalSource, ctx StrategyContext) WithdrawalPlan {
	plan := WithdrawalPlan{Requested: ctx.NeedAmount, StrategyUsed: s.Name(), Allocations: []WithdrawalAllocation{}}
	remaining := ctx.NeedAmount
	srcs := copySources(sources)

	total := decimal.Zero
	for _, src := range srcs {
		total = total.Add(decimal.Max(src.Balance, decimal.Zero))
	}
	if total.IsZero() || remaining.LessThanOrEqual(decimal.Zero) {
		return finish(&plan, remaining)
	}

	share := decimal.Min(remaining.Div(total), decimal.NewFromInt(1))
	last := -1
	for i := range srcs {
		if srcs[i].Balance.GreaterThan(decimal.Zero) {
			last = i
		}
	}
	for i := range srcs {
		if srcs[i].Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		amount := srcs[i].Balance.Mul(share).Round(2)
		if i == last {
			// Absorb rounding so the request is met exactly when balances allow.
			amount = remaining
		}
		remaining = remaining.Sub(draw(&plan, &srcs[i], decimal.Min(amount, remaining)))
	}
	// Rounding can leave cents unmet on earlier accounts; sweep them in order.
	for i := range srcs {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		remaining = remaining.Sub(draw(&plan, &srcs[i], remaining))
	}
	return finish(&plan, remaining)
}
