package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Request.Goal))
	if result.Request.Constraints.Person != "" {
		sb.WriteString(fmt.Sprintf("Person:              %s\n", result.Request.Constraints.Person))
	}
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("OPTIMAL PARAMETERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalSpend != nil {
		sb.WriteString(fmt.Sprintf("Annual Spending:     %s\n", output.FormatCurrency(*result.OptimalSpend)))
	}
	if result.OptimalSSAge != nil {
		sb.WriteString(fmt.Sprintf("SS Claiming Age:     %d\n", *result.OptimalSSAge))
	}
	if result.OptimalOrder != nil {
		sb.WriteString(fmt.Sprintf("Withdrawal Order:    %s\n", *result.OptimalOrder))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("First Year Spending:   %s\n", output.FormatCurrency(result.FirstYearSpend)))
	sb.WriteString(fmt.Sprintf("Terminal Portfolio:    %s\n", output.FormatCurrency(result.TerminalValue)))
	sb.WriteString(fmt.Sprintf("Lifetime Taxes:        %s\n", output.FormatCurrency(result.LifetimeTaxes)))
	sb.WriteString(fmt.Sprintf("Shortfall Years:       %d\n", result.ShortfallYears))
	if result.SuccessProbability != nil {
		sb.WriteString(fmt.Sprintf("Success Probability:   %s\n", output.FormatRate(*result.SuccessProbability)))
	}
	sb.WriteString("\n")

	sb.WriteString("COMPARISON TO BASE PLAN\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Portfolio Change:      %s%s\n",
		tf.deltaSymbol(result.TerminalDiffFromBase), output.FormatCurrency(result.TerminalDiffFromBase.Abs())))
	sb.WriteString(fmt.Sprintf("Tax Change:            %s%s\n",
		tf.deltaSymbol(result.TaxDiffFromBase), output.FormatCurrency(result.TaxDiffFromBase.Abs())))
	sb.WriteString("\n")

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-DIMENSIONAL OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString("SUMMARY OF ALL OPTIMIZATIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-18s %-20s %-14s %12s %12s\n",
		"Target", "Goal", "Optimal", "Terminal", "Taxes"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-18s %-20s %-14s %12s %12s\n",
			tf.truncate(string(res.Request.Target), 18),
			tf.truncate(string(res.Request.Goal), 20),
			tf.truncate(tf.optimalValue(&res), 14),
			"$"+tf.formatShort(res.TerminalValue),
			"$"+tf.formatShort(res.LifetimeTaxes)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) optimalValue(r *OptimizationResult) string {
	switch {
	case r.OptimalSpend != nil:
		return "$" + tf.formatShort(*r.OptimalSpend)
	case r.OptimalSSAge != nil:
		return fmt.Sprintf("age %d", *r.OptimalSSAge)
	case r.OptimalOrder != nil:
		return string(*r.OptimalOrder)
	}
	return "-"
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
