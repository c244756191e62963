package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// SetWithdrawalOrder switches the account sequencing strategy.
type SetWithdrawalOrder struct {
	Order domain.WithdrawalOrder
}

func (s *SetWithdrawalOrder) Name() string { return "set_withdrawal_order" }

func (s *SetWithdrawalOrder) Description() string {
	return fmt.Sprintf("Withdraw using the %s order", s.Order)
}

func (s *SetWithdrawalOrder) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	for _, o := range domain.WithdrawalOrders {
		if o == s.Order {
			return nil
		}
	}
	return NewTransformError(s.Name(), "validate", fmt.Sprintf("unknown withdrawal order %q", s.Order), nil)
}

func (s *SetWithdrawalOrder) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Strategy.WithdrawalOrder = s.Order
	return modified, nil
}

// SetTargetBracket changes the ordinary bracket the tax-optimized order fills.
type SetTargetBracket struct {
	RatePct int
}

func (s *SetTargetBracket) Name() string { return "set_target_bracket" }

func (s *SetTargetBracket) Description() string {
	return fmt.Sprintf("Fill ordinary income up to the %d%% bracket", s.RatePct)
}

func (s *SetTargetBracket) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	switch s.RatePct {
	case 10, 12, 22, 24, 32, 35:
		return nil
	}
	return NewTransformError(s.Name(), "validate", fmt.Sprintf("%d%% is not a federal bracket with a ceiling", s.RatePct), nil)
}

func (s *SetTargetBracket) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Strategy.TargetBracketPct = s.RatePct
	return modified, nil
}

// SetRebalancing changes the rebalancing frequency.
type SetRebalancing struct {
	Frequency domain.RebalanceFrequency
}

func (s *SetRebalancing) Name() string { return "set_rebalancing" }

func (s *SetRebalancing) Description() string {
	return fmt.Sprintf("Rebalance: %s", s.Frequency)
}

func (s *SetRebalancing) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	switch s.Frequency {
	case domain.RebalanceNone, domain.RebalanceAnnual, domain.RebalanceQuarterly:
		return nil
	}
	return NewTransformError(s.Name(), "validate", fmt.Sprintf("unknown rebalancing frequency %q", s.Frequency), nil)
}

func (s *SetRebalancing) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Strategy.Rebalancing = s.Frequency
	return modified, nil
}
