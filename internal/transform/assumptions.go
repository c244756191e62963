package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
)

// ModifyInflation changes the expected annual inflation rate.
type ModifyInflation struct {
	NewPct decimal.Decimal // e.g. 3.5 for 3.5%
}

func (mi *ModifyInflation) Name() string { return "modify_inflation" }

func (mi *ModifyInflation) Description() string {
	return fmt.Sprintf("Change inflation rate to %s%%", mi.NewPct.StringFixed(1))
}

func (mi *ModifyInflation) Validate(base *domain.PlanInput) error {
	if mi.NewPct.LessThan(decimal.Zero) || mi.NewPct.GreaterThan(decimal.NewFromInt(15)) {
		return NewTransformError(mi.Name(), "validate", fmt.Sprintf("inflation must be between 0 and 15 percent, got %s", mi.NewPct), nil)
	}
	return requirePlan(mi.Name(), base)
}

func (mi *ModifyInflation) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Market.InflationPct = mi.NewPct
	return modified, nil
}

// SetStressScenario runs the plan against a named stress preset.
type SetStressScenario struct {
	Preset string
}

func (s *SetStressScenario) Name() string { return "set_stress_scenario" }

func (s *SetStressScenario) Description() string {
	return fmt.Sprintf("Run against the %s stress scenario", s.Preset)
}

func (s *SetStressScenario) Validate(base *domain.PlanInput) error {
	if _, err := market.LookupStressPreset(s.Preset); err != nil {
		return NewTransformError(s.Name(), "validate", "unknown stress preset", err)
	}
	return requirePlan(s.Name(), base)
}

func (s *SetStressScenario) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Market.Mode = domain.MarketStress
	modified.Market.Scenario = s.Preset
	return modified, nil
}

// SetBracketIndexing toggles inflation indexing of tax brackets and deductions.
type SetBracketIndexing struct {
	Enabled bool
}

func (s *SetBracketIndexing) Name() string { return "set_bracket_indexing" }

func (s *SetBracketIndexing) Description() string {
	if s.Enabled {
		return "Index tax brackets to inflation"
	}
	return "Hold tax brackets at 2025 levels"
}

func (s *SetBracketIndexing) Validate(base *domain.PlanInput) error {
	return requirePlan(s.Name(), base)
}

func (s *SetBracketIndexing) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	modified.Tax.IndexBracketsToInflation = s.Enabled
	return modified, nil
}
