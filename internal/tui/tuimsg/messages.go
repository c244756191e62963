// Package tuimsg holds the Bubble Tea messages that scenes send to the root
// model. It exists so scenes do not import the tui package.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rpsim/internal/breakeven"
	"github.com/rgehrsitz/rpsim/internal/compare"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/transform"
)

// PlanLoadedMsg signals the plan file was parsed and validated
type PlanLoadedMsg struct {
	Plan *domain.PlanInput
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// SimulationCompleteMsg carries the result of running the loaded plan
type SimulationCompleteMsg struct {
	Result *domain.PlanResult
	Err    error
}

// CompareRequestedMsg asks the root model to compare the plan against the
// named templates
type CompareRequestedMsg struct {
	Templates []string
}

// ComparisonCompleteMsg carries a finished comparison
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// OptimizeRequestedMsg asks the root model to run the break-even solver on
// the loaded plan. MinSuccessRate is a fraction and only set for spending.
type OptimizeRequestedMsg struct {
	Target         breakeven.OptimizationTarget
	Goal           breakeven.OptimizationGoal
	Person         string
	MinSuccessRate *decimal.Decimal
}

// OptimizationCompleteMsg carries a finished optimization
type OptimizationCompleteMsg struct {
	Result *breakeven.OptimizationResult
	Err    error
}

// ParametersAppliedMsg asks the root model to rerun the plan with the
// transforms built from the parameter sliders
type ParametersAppliedMsg struct {
	Transforms []transform.PlanTransform
}

// SavePlanRequestedMsg asks the root model to write the adjusted plan next
// to the plan file
type SavePlanRequestedMsg struct {
	Transforms []transform.PlanTransform
}

// PlanSavedMsg reports where the adjusted plan was written
type PlanSavedMsg struct {
	Path string
	Err  error
}
