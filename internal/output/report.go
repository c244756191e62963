package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// GenerateReport renders a result with the named formatter and writes it to w.
func GenerateReport(w io.Writer, result *domain.PlanResult, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to render %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SavePlan writes a plan back out as YAML.
func SavePlan(plan *domain.PlanInput, filename string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// ReportSummary holds the headline numbers every report shows.
type ReportSummary struct {
	PlanName       string
	Mode           domain.MarketMode
	FirstYear      int
	LastYear       int
	Years          int
	TerminalValue  decimal.Decimal
	TotalTaxes     decimal.Decimal
	TotalWithdrawn decimal.Decimal
	TotalShortfall decimal.Decimal
	ShortfallYears int
	UnconvergedYrs int
	SurvivorFrom   int
	AverageTaxRate decimal.Decimal
	Batch          *domain.PlanSummary
	IRMAA          *domain.IRMAAAnalysis
	Assumptions    []string
	Warnings       []string
}

// Summarize reduces a result to its report headline.
func Summarize(r *domain.PlanResult) ReportSummary {
	s := ReportSummary{
		PlanName:       r.PlanName,
		Mode:           r.Mode,
		Years:          len(r.Yearly),
		TerminalValue:  r.TerminalValue(),
		TotalTaxes:     r.TotalTaxes(),
		TotalShortfall: r.TotalShortfall(),
		ShortfallYears: r.ShortfallYears(),
		Batch:          r.Summary,
		IRMAA:          calculation.AnalyzeIRMAA(r),
		Assumptions:    r.Assumptions,
		Warnings:       r.Warnings,
	}
	if len(s.Assumptions) == 0 {
		s.Assumptions = DefaultAssumptions
	}
	gross := decimal.Zero
	for _, y := range r.Yearly {
		s.TotalWithdrawn = s.TotalWithdrawn.Add(y.TotalWithdrawals)
		gross = gross.Add(y.GrossIncome)
		if !y.Converged {
			s.UnconvergedYrs++
		}
		if y.SurvivorPhase && s.SurvivorFrom == 0 {
			s.SurvivorFrom = y.Year
		}
	}
	if n := len(r.Yearly); n > 0 {
		s.FirstYear = r.Yearly[0].Year
		s.LastYear = r.Yearly[n-1].Year
	}
	if gross.GreaterThan(decimal.Zero) {
		s.AverageTaxRate = s.TotalTaxes.Div(gross)
	}
	return s
}

// FormatCurrency formats a dollar amount as US currency, e.g. "$1,234.56".
func FormatCurrency(amount decimal.Decimal) string {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercentage formats a percent value, e.g. 7 -> "7.00%".
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats a fractional rate as a percentage, e.g. 0.07 -> "7.00%".
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

// formatAges renders ages as "id:age" pairs sorted by id.
func formatAges(ages map[string]int) string {
	ids := make([]string, 0, len(ages))
	for id := range ages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s:%d", id, ages[id])
	}
	return strings.Join(parts, " ")
}

// accountIDs returns the sorted account ids that appear in a result's ending balances.
func accountIDs(r *domain.PlanResult) []string {
	seen := map[string]bool{}
	for _, y := range r.Yearly {
		for id := range y.EndingBalances {
			seen[id] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
