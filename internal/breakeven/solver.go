package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// ScaleSpending accepts (0, 300] percent of the base target.
	minSpendPct = decimal.NewFromInt(10)
	maxSpendPct = decimal.NewFromInt(300)
)

// Solver searches plan parameters for the best outcome
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Plan == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "plan is required"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Goal == "" {
		req.Goal = GoalMaximizeTerminal
		if req.Target == OptimizeSpending {
			req.Goal = GoalSustainSpending
		}
	}

	var (
		result *OptimizationResult
		err    error
	)
	switch req.Target {
	case OptimizeSpending:
		result, err = s.optimizeSpending(ctx, req)
	case OptimizeSSAge:
		result, err = s.optimizeSSAge(ctx, req)
	case OptimizeWithdrawalOrder:
		result, err = s.optimizeWithdrawalOrder(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
	if err != nil {
		return nil, err
	}

	base, err := s.run(ctx, req.Plan)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to run base plan", Cause: err}
	}
	result.BaseTerminalValue = terminalOf(base)
	result.TerminalDiffFromBase = result.TerminalValue.Sub(result.BaseTerminalValue)
	result.TaxDiffFromBase = result.LifetimeTaxes.Sub(base.TotalTaxes())
	return result, nil
}

// optimizeSpending binary searches for the highest base spending target the
// plan sustains: no shortfall year for single-path plans, or at least the
// required success probability for batch plans.
func (s *Solver) optimizeSpending(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	base := req.Plan.Spending.BaseTargetAnnualSpend
	if !base.IsPositive() {
		return nil, &BreakEvenError{
			Operation: "optimize_spending",
			Message:   "plan has no base spending target to scale",
		}
	}

	lo, hi := minSpendPct, maxSpendPct
	if req.Constraints.MinSpend != nil {
		lo = req.Constraints.MinSpend.Mul(hundred).Div(base)
	}
	if req.Constraints.MaxSpend != nil {
		hi = decimal.Min(maxSpendPct, req.Constraints.MaxSpend.Mul(hundred).Div(base))
	}
	if lo.GreaterThan(hi) {
		return nil, &BreakEvenError{
			Operation: "optimize_spending",
			Message:   fmt.Sprintf("search range is empty (at most %s%% of the base target)", maxSpendPct),
		}
	}

	spendAt := func(pct decimal.Decimal) decimal.Decimal { return base.Mul(pct).Div(hundred).Round(2) }
	evalAt := func(pct decimal.Decimal) (*domain.PlanResult, error) {
		modified, err := transform.ApplyTransforms(req.Plan, []transform.PlanTransform{&transform.ScaleSpending{Pct: pct}})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_spending", Message: "failed to apply spending transform", Cause: err}
		}
		r, err := s.run(ctx, modified)
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_spending", Message: "failed to run plan", Cause: err}
		}
		return r, nil
	}
	finish := func(r *domain.PlanResult, pct decimal.Decimal, iterations int, success bool, info string) *OptimizationResult {
		result := s.evaluateResult(req, r, iterations)
		spend := spendAt(pct)
		result.OptimalSpend = &spend
		result.Success = success
		result.ConvergenceInfo = info
		return result
	}

	iterations := 1
	best, err := evalAt(lo)
	if err != nil {
		return nil, err
	}
	if !s.feasible(req, best) {
		return finish(best, lo, iterations, false,
			fmt.Sprintf("Plan falls short even at %s", output.FormatCurrency(spendAt(lo)))), nil
	}

	iterations++
	top, err := evalAt(hi)
	if err != nil {
		return nil, err
	}
	if s.feasible(req, top) {
		return finish(top, hi, iterations, true, "Sustainable at the top of the search range"), nil
	}

	for iterations < req.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if spendAt(hi).Sub(spendAt(lo)).LessThan(req.Tolerance) {
			return finish(best, lo, iterations, true,
				fmt.Sprintf("Converged within %s", output.FormatCurrency(req.Tolerance))), nil
		}

		iterations++
		mid := lo.Add(hi).Div(decimal.NewFromInt(2))
		r, err := evalAt(mid)
		if err != nil {
			return nil, err
		}
		if s.feasible(req, r) {
			lo, best = mid, r
		} else {
			hi = mid
		}
	}
	return finish(best, lo, iterations, false,
		fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)), nil
}

// optimizeSSAge finds the best Social Security claiming age for one person
func (s *Solver) optimizeSSAge(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Constraints.Person == "" {
		return nil, &BreakEvenError{
			Operation: "optimize_ss_age",
			Message:   "person is required",
		}
	}

	minAge := 62
	maxAge := 70
	if req.Constraints.MinSSAge != nil {
		minAge = *req.Constraints.MinSSAge
	}
	if req.Constraints.MaxSSAge != nil {
		maxAge = *req.Constraints.MaxSSAge
	}

	var bestResult *OptimizationResult
	iterations := 0

	// Ages earlier than the plan's current claim age are rejected by the
	// transform and skipped.
	for age := minAge; age <= maxAge; age++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		modified, err := transform.ApplyTransforms(req.Plan, []transform.PlanTransform{
			&transform.DelaySocialSecurity{Person: req.Constraints.Person, NewAge: age},
		})
		if err != nil {
			continue
		}
		r, err := s.run(ctx, modified)
		if err != nil {
			continue
		}
		iterations++

		result := s.evaluateResult(req, r, iterations)
		claimAge := age
		result.OptimalSSAge = &claimAge
		if bestResult == nil || s.isBetter(result, bestResult, req.Goal) {
			bestResult = result
		}
	}

	if bestResult == nil {
		return nil, &BreakEvenError{
			Operation: "optimize_ss_age",
			Message:   fmt.Sprintf("no valid Social Security ages found for %s", req.Constraints.Person),
		}
	}
	bestResult.Iterations = iterations
	bestResult.Success = true
	bestResult.ConvergenceInfo = fmt.Sprintf("Evaluated %d Social Security ages", iterations)
	return bestResult, nil
}

// optimizeWithdrawalOrder evaluates every withdrawal order
func (s *Solver) optimizeWithdrawalOrder(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	var bestResult *OptimizationResult
	for i, order := range domain.WithdrawalOrders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		modified, err := transform.ApplyTransforms(req.Plan, []transform.PlanTransform{&transform.SetWithdrawalOrder{Order: order}})
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_withdrawal_order", Message: "failed to apply order transform", Cause: err}
		}
		r, err := s.run(ctx, modified)
		if err != nil {
			return nil, &BreakEvenError{Operation: "optimize_withdrawal_order", Message: fmt.Sprintf("failed to run %s", order), Cause: err}
		}

		result := s.evaluateResult(req, r, i+1)
		o := order
		result.OptimalOrder = &o
		if bestResult == nil || s.isBetter(result, bestResult, req.Goal) {
			bestResult = result
		}
	}

	bestResult.Iterations = len(domain.WithdrawalOrders)
	bestResult.Success = true
	bestResult.ConvergenceInfo = fmt.Sprintf("Evaluated %d withdrawal orders", len(domain.WithdrawalOrders))
	return bestResult, nil
}

func (s *Solver) run(ctx context.Context, plan *domain.PlanInput) (*domain.PlanResult, error) {
	return s.Engine.Run(ctx, *plan)
}

// feasible reports whether a run meets the spending goal.
func (s *Solver) feasible(req OptimizationRequest, r *domain.PlanResult) bool {
	if r.Summary != nil {
		minRate := decimal.RequireFromString("0.90")
		if req.Constraints.MinSuccessRate != nil {
			minRate = *req.Constraints.MinSuccessRate
		}
		return r.Summary.SuccessProbability.GreaterThanOrEqual(minRate)
	}
	return r.ShortfallYears() == 0
}

// evaluateResult creates an optimization result from a plan result
func (s *Solver) evaluateResult(req OptimizationRequest, r *domain.PlanResult, iterations int) *OptimizationResult {
	result := &OptimizationResult{
		Request:        req,
		Iterations:     iterations,
		Result:         r,
		LifetimeTaxes:  r.TotalTaxes(),
		TotalShortfall: r.TotalShortfall(),
		ShortfallYears: r.ShortfallYears(),
	}
	if len(r.Yearly) > 0 {
		result.FirstYearSpend = r.Yearly[0].ActualSpend
	}
	if r.Summary != nil {
		p := r.Summary.SuccessProbability
		result.SuccessProbability = &p
	}
	result.TerminalValue = terminalOf(r)
	return result
}

// terminalOf is the median terminal value for batch runs, else the final portfolio.
func terminalOf(r *domain.PlanResult) decimal.Decimal {
	if r.Summary != nil {
		return r.Summary.MedianTerminalValue
	}
	return r.TerminalValue()
}

// isBetter compares two results based on optimization goal. Ties fall back
// to the larger terminal value.
func (s *Solver) isBetter(a, b *OptimizationResult, goal OptimizationGoal) bool {
	switch goal {
	case GoalMinimizeTaxes:
		if !a.LifetimeTaxes.Equal(b.LifetimeTaxes) {
			return a.LifetimeTaxes.LessThan(b.LifetimeTaxes)
		}
	case GoalMinimizeShortfall:
		if !a.TotalShortfall.Equal(b.TotalShortfall) {
			return a.TotalShortfall.LessThan(b.TotalShortfall)
		}
	}
	return a.TerminalValue.GreaterThan(b.TerminalValue)
}
