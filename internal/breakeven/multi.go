package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
)

// OptimizeMultiDimensional runs optimization across multiple targets and compares results
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	plan *domain.PlanInput,
	constraints Constraints,
	goals []OptimizationGoal,
) (*MultiDimensionalResult, error) {

	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	type run struct {
		target OptimizationTarget
		goal   OptimizationGoal
	}
	runs := []run{{OptimizeSpending, GoalSustainSpending}}
	for _, goal := range goals {
		if goal == GoalSustainSpending {
			continue
		}
		runs = append(runs, run{OptimizeWithdrawalOrder, goal})
		if constraints.Person != "" {
			runs = append(runs, run{OptimizeSSAge, goal})
		}
	}

	var results []OptimizationResult
	for _, r := range runs {
		result, err := s.Optimize(ctx, OptimizationRequest{
			Plan:          plan,
			Target:        r.target,
			Goal:          r.goal,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// One failed target does not sink the others
			continue
		}
		if result != nil && result.Success {
			results = append(results, *result)
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
		}
	}

	mdResult := &MultiDimensionalResult{
		Results: results,
	}
	for i := range results {
		if results[i].Request.Target == OptimizeSpending {
			continue
		}
		if mdResult.BestByTerminal == nil ||
			results[i].TerminalValue.GreaterThan(mdResult.BestByTerminal.TerminalValue) {
			mdResult.BestByTerminal = &results[i]
		}
		if mdResult.BestByTaxes == nil ||
			results[i].LifetimeTaxes.LessThan(mdResult.BestByTaxes.LifetimeTaxes) {
			mdResult.BestByTaxes = &results[i]
		}
	}
	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

// generateMultiDimensionalRecommendations creates recommendations from multi-dimensional results
func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	for _, r := range result.Results {
		if r.Request.Target == OptimizeSpending && r.OptimalSpend != nil {
			recommendations = append(recommendations,
				fmt.Sprintf("Highest sustainable spending: %s per year", output.FormatCurrency(*r.OptimalSpend)))
		}
	}

	if result.BestByTerminal != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("To maximize the ending portfolio: %s (%s)",
				describeParameter(result.BestByTerminal), output.FormatCurrency(result.BestByTerminal.TerminalValue)))
	}
	if result.BestByTaxes != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("To minimize taxes: %s (%s lifetime)",
				describeParameter(result.BestByTaxes), output.FormatCurrency(result.BestByTaxes.LifetimeTaxes)))
	}

	if result.BestByTerminal != nil && result.BestByTaxes != nil &&
		describeParameter(result.BestByTerminal) == describeParameter(result.BestByTaxes) {
		recommendations = append(recommendations,
			fmt.Sprintf("%s gives both the largest portfolio and the lowest taxes", describeParameter(result.BestByTerminal)))
	}

	return recommendations
}

// describeParameter names the optimal parameter a result found
func describeParameter(r *OptimizationResult) string {
	switch {
	case r.OptimalOrder != nil:
		return fmt.Sprintf("withdraw %s", *r.OptimalOrder)
	case r.OptimalSSAge != nil:
		return fmt.Sprintf("claim %s's Social Security at %d", r.Request.Constraints.Person, *r.OptimalSSAge)
	case r.OptimalSpend != nil:
		return fmt.Sprintf("spend %s", output.FormatCurrency(*r.OptimalSpend))
	}
	return string(r.Request.Target)
}

// OptimizeAllTargets is a convenience method to optimize all targets with a single goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	plan *domain.PlanInput,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, plan, constraints, []OptimizationGoal{goal})
}
