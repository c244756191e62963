package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleSpending multiplies the base spending target, and the guardrail
// floor and ceiling with it, by Pct percent.
type ScaleSpending struct {
	Pct decimal.Decimal // 90 means spend 10% less
}

func (s *ScaleSpending) Name() string { return "scale_spending" }

func (s *ScaleSpending) Description() string {
	return fmt.Sprintf("Scale annual spending to %s%% of the base target", s.Pct.StringFixed(0))
}

func (s *ScaleSpending) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	if s.Pct.LessThanOrEqual(decimal.Zero) || s.Pct.GreaterThan(decimal.NewFromInt(300)) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("spending scale must be in (0, 300], got %s", s.Pct), nil)
	}
	return nil
}

func (s *ScaleSpending) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	f := s.Pct.Div(decimal.NewFromInt(100))
	sp := &modified.Spending
	sp.BaseTargetAnnualSpend = sp.BaseTargetAnnualSpend.Mul(f)
	sp.Guardrails.FloorAnnualSpend = sp.Guardrails.FloorAnnualSpend.Mul(f)
	sp.Guardrails.CeilingAnnualSpend = sp.Guardrails.CeilingAnnualSpend.Mul(f)
	return modified, nil
}

// SetGuardrails turns spending guardrails on or off.
type SetGuardrails struct {
	Enabled bool
}

func (s *SetGuardrails) Name() string { return "set_guardrails" }

func (s *SetGuardrails) Description() string {
	if s.Enabled {
		return "Enable spending guardrails"
	}
	return "Disable spending guardrails"
}

func (s *SetGuardrails) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	g := base.Spending.Guardrails
	if s.Enabled && (g.FloorAnnualSpend.IsZero() || g.CeilingAnnualSpend.IsZero()) {
		return NewTransformError(s.Name(), "validate", "guardrail floor and ceiling must be configured to enable guardrails", nil)
	}
	return nil
}

func (s *SetGuardrails) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Spending.Guardrails.Enabled = s.Enabled
	return modified, nil
}

// SetSurvivorSpending sets the share of the spending target kept after a spouse dies.
type SetSurvivorSpending struct {
	Pct decimal.Decimal
}

func (s *SetSurvivorSpending) Name() string { return "set_survivor_spending" }

func (s *SetSurvivorSpending) Description() string {
	return fmt.Sprintf("Survivor spends %s%% of the couple's target", s.Pct.StringFixed(0))
}

func (s *SetSurvivorSpending) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	if s.Pct.LessThanOrEqual(decimal.Zero) || s.Pct.GreaterThan(decimal.NewFromInt(100)) {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("survivor spending must be in (0, 100], got %s", s.Pct), nil)
	}
	return nil
}

func (s *SetSurvivorSpending) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	pct := s.Pct
	modified.Spending.SurvivorSpendingAdjustmentPct = &pct
	return modified, nil
}
