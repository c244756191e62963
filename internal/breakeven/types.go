package breakeven

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeSpending        OptimizationTarget = "spending"
	OptimizeSSAge           OptimizationTarget = "ss_age"
	OptimizeWithdrawalOrder OptimizationTarget = "withdrawal_order"
	OptimizeAll             OptimizationTarget = "all"
)

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalSustainSpending   OptimizationGoal = "sustain_spending"   // Highest spending without a shortfall
	GoalMaximizeTerminal  OptimizationGoal = "maximize_terminal"  // Largest ending portfolio
	GoalMinimizeTaxes     OptimizationGoal = "minimize_taxes"     // Lowest lifetime taxes
	GoalMinimizeShortfall OptimizationGoal = "minimize_shortfall" // Smallest cumulative shortfall
)

// Constraints define bounds for optimization parameters
type Constraints struct {
	// Annual spending search range in today's dollars
	MinSpend *decimal.Decimal `json:"minSpend,omitempty"`
	MaxSpend *decimal.Decimal `json:"maxSpend,omitempty"`

	// Social Security claiming age range
	MinSSAge *int `json:"minSSAge,omitempty"`
	MaxSSAge *int `json:"maxSSAge,omitempty"`

	// Required success probability (fraction) for batch plans
	MinSuccessRate *decimal.Decimal `json:"minSuccessRate,omitempty"`

	// Household member whose Social Security is optimized
	Person string `json:"person,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints(person string) Constraints {
	minSSAge := 62
	maxSSAge := 70
	success := decimal.RequireFromString("0.90")

	return Constraints{
		MinSSAge:       &minSSAge,
		MaxSSAge:       &maxSSAge,
		MinSuccessRate: &success,
		Person:         person,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Plan          *domain.PlanInput  `json:"-"`
	Target        OptimizationTarget `json:"target"`
	Goal          OptimizationGoal   `json:"goal"`
	Constraints   Constraints        `json:"constraints"`
	MaxIterations int                `json:"maxIterations"` // Maximum solver iterations
	Tolerance     decimal.Decimal    `json:"tolerance"`     // Dollar tolerance for the spending search
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergenceInfo"`

	OptimalSpend *decimal.Decimal        `json:"optimalSpend,omitempty"`
	OptimalSSAge *int                    `json:"optimalSSAge,omitempty"`
	OptimalOrder *domain.WithdrawalOrder `json:"optimalOrder,omitempty"`

	// Results at optimal parameters
	Result             *domain.PlanResult `json:"-"`
	FirstYearSpend     decimal.Decimal    `json:"firstYearSpend"`
	TerminalValue      decimal.Decimal    `json:"terminalValue"`
	LifetimeTaxes      decimal.Decimal    `json:"lifetimeTaxes"`
	TotalShortfall     decimal.Decimal    `json:"totalShortfall"`
	ShortfallYears     int                `json:"shortfallYears"`
	SuccessProbability *decimal.Decimal   `json:"successProbability,omitempty"`

	// Comparison to the unmodified plan
	BaseTerminalValue    decimal.Decimal `json:"baseTerminalValue"`
	TerminalDiffFromBase decimal.Decimal `json:"terminalDiffFromBase"`
	TaxDiffFromBase      decimal.Decimal `json:"taxDiffFromBase"`
}

// MultiDimensionalResult contains results when optimizing multiple parameters
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	BestByTerminal  *OptimizationResult  `json:"bestByTerminal,omitempty"`
	BestByTaxes     *OptimizationResult  `json:"bestByTaxes,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Spending search stops when the bracket is narrower than this
	MaxIterations int
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(100),
		MaxIterations: 40,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinSpend != nil && c.MinSpend.LessThanOrEqual(decimal.Zero) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "minSpend must be positive",
		}
	}
	if c.MinSpend != nil && c.MaxSpend != nil && c.MinSpend.GreaterThan(*c.MaxSpend) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "minSpend cannot be greater than maxSpend",
		}
	}

	if c.MinSSAge != nil && c.MaxSSAge != nil {
		if *c.MinSSAge > *c.MaxSSAge {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "minSSAge cannot be greater than maxSSAge",
			}
		}
		if *c.MinSSAge < 62 || *c.MaxSSAge > 70 {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "ss age must be between 62 and 70",
			}
		}
	}

	if c.MinSuccessRate != nil &&
		(c.MinSuccessRate.LessThan(decimal.Zero) || c.MinSuccessRate.GreaterThan(decimal.NewFromInt(1))) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "minSuccessRate must be between 0 and 1",
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
