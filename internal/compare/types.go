package compare

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the outcome metrics of one plan variant
type ComparisonResult struct {
	ScenarioName    string                 `json:"scenarioName"`
	Description     string                 `json:"description"`
	WithdrawalOrder domain.WithdrawalOrder `json:"withdrawalOrder"`
	Result          *domain.PlanResult     `json:"-"`

	// Key Metrics
	TerminalValue       decimal.Decimal  `json:"terminalValue"`
	LifetimeTaxes       decimal.Decimal  `json:"lifetimeTaxes"`
	LifetimeWithdrawals decimal.Decimal  `json:"lifetimeWithdrawals"`
	TotalShortfall      decimal.Decimal  `json:"totalShortfall"`
	ShortfallYears      int              `json:"shortfallYears"`
	FirstShortfallYear  int              `json:"firstShortfallYear,omitempty"`
	SuccessProbability  *decimal.Decimal `json:"successProbability,omitempty"`

	// Comparison to Base
	TerminalDiffFromBase decimal.Decimal `json:"terminalDiffFromBase"`
	TerminalPctFromBase  decimal.Decimal `json:"terminalPctFromBase"`
	TaxDiffFromBase      decimal.Decimal `json:"taxDiffFromBase"`
	ShortfallYearsDiff   int             `json:"shortfallYearsDiff"`
}

// ComparisonSet represents a base plan and its compared variants
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from plan results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one run
func (mc *MetricsCalculator) CalculateMetrics(name string, order domain.WithdrawalOrder, result *domain.PlanResult) ComparisonResult {
	cr := ComparisonResult{
		ScenarioName:    name,
		WithdrawalOrder: order,
		Result:          result,
		TerminalValue:   result.TerminalValue(),
		LifetimeTaxes:   result.TotalTaxes(),
		TotalShortfall:  result.TotalShortfall(),
		ShortfallYears:  result.ShortfallYears(),
	}
	for _, y := range result.Yearly {
		cr.LifetimeWithdrawals = cr.LifetimeWithdrawals.Add(y.TotalWithdrawals)
		if cr.FirstShortfallYear == 0 && y.Shortfall.IsPositive() {
			cr.FirstShortfallYear = y.Year
		}
	}
	if result.Summary != nil {
		p := result.Summary.SuccessProbability
		cr.SuccessProbability = &p
	}
	return cr
}

// CalculateComparison computes comparison metrics between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TerminalDiffFromBase = scenario.TerminalValue.Sub(base.TerminalValue)
	if !base.TerminalValue.IsZero() {
		scenario.TerminalPctFromBase = scenario.TerminalDiffFromBase.
			Div(base.TerminalValue).
			Mul(decimal.NewFromInt(100))
	}
	scenario.TaxDiffFromBase = scenario.LifetimeTaxes.Sub(base.LifetimeTaxes)
	scenario.ShortfallYearsDiff = scenario.ShortfallYears - base.ShortfallYears
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}
	base := compSet.BaseResult

	bestTerminal := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TerminalValue.GreaterThan(bestTerminal.TerminalValue) {
			bestTerminal = alt
		}
	}
	if bestTerminal != base {
		diff := bestTerminal.TerminalValue.Sub(base.TerminalValue)
		recommendations = append(recommendations,
			"Largest Estate: "+bestTerminal.ScenarioName+" ends with $"+diff.StringFixed(0)+
				" more than the base plan")
	}

	lowestTax := base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.LifetimeTaxes.LessThan(lowestTax.LifetimeTaxes) {
			lowestTax = alt
		}
	}
	if lowestTax != base {
		savings := base.LifetimeTaxes.Sub(lowestTax.LifetimeTaxes)
		recommendations = append(recommendations,
			"Lowest Taxes: "+lowestTax.ScenarioName+" saves $"+savings.StringFixed(0)+
				" in lifetime taxes")
	}

	if base.ShortfallYears > 0 {
		fewest := base
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.ShortfallYears < fewest.ShortfallYears {
				fewest = alt
			}
		}
		if fewest != base {
			recommendations = append(recommendations,
				"Fewest Shortfalls: "+fewest.ScenarioName+" avoids "+
					fmt.Sprintf("%d shortfall years", base.ShortfallYears-fewest.ShortfallYears))
		}
	}

	return recommendations
}
