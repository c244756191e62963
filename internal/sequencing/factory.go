package sequencing

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateStrategy creates a sequencing strategy for a withdrawal order
func CreateStrategy(order domain.WithdrawalOrder) SequencingStrategy {
	switch order {
	case domain.OrderTaxableFirst:
		return NewTaxableFirstStrategy()
	case domain.OrderTaxDeferredFirst:
		return NewTaxDeferredFirstStrategy()
	case domain.OrderProRata:
		return NewProRataStrategy()
	case domain.OrderTaxOptimized:
		return NewTaxOptimizedStrategy()
	default:
		// Fallback to taxable-first if unknown strategy
		return NewTaxableFirstStrategy()
	}
}

// CreateWithdrawalSources builds sources from account state. Deferred-comp
// accounts pay out on their own schedule and are never offered to a
// strategy; empty accounts are skipped.
func CreateWithdrawalSources(accounts []*domain.AccountState) []WithdrawalSource {
	sources := make([]WithdrawalSource, 0, len(accounts))
	for _, a := range accounts {
		if a.Type == domain.AccountDeferredComp || a.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		src := WithdrawalSource{
			AccountID:    a.ID,
			Type:         a.Type,
			Balance:      a.Balance,
			TaxTreatment: TreatmentFor(a.Type),
		}
		if a.Type == domain.AccountTaxable {
			src.Basis = a.CostBasis
		}
		sources = append(sources, src)
	}
	return sources
}
