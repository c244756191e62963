package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpsim/internal/domain"
)

var (
	consoleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E86AB"))
	consoleSection = lipgloss.NewStyle().Bold(true)
	consoleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C73E1D"))
)

// ConsoleFormatter renders a plain-text report with a yearly table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.PlanResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	var buf bytes.Buffer
	s := Summarize(result)

	rule := strings.Repeat("=", 96)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf, consoleTitle.Render("RETIREMENT PLAN PROJECTION: "+s.PlanName))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, consoleSection.Render("KEY ASSUMPTIONS:"))
	for _, a := range s.Assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, consoleSection.Render("SUMMARY"))
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	fmt.Fprintf(&buf, "Market Mode:          %s\n", s.Mode)
	fmt.Fprintf(&buf, "Projection:           %d years (%d-%d)\n", s.Years, s.FirstYear, s.LastYear)
	fmt.Fprintf(&buf, "Terminal Portfolio:   %s\n", FormatCurrency(s.TerminalValue))
	fmt.Fprintf(&buf, "Total Withdrawals:    %s\n", FormatCurrency(s.TotalWithdrawn))
	fmt.Fprintf(&buf, "Total Taxes:          %s\n", FormatCurrency(s.TotalTaxes))
	fmt.Fprintf(&buf, "Average Tax Rate:     %s\n", FormatRate(s.AverageTaxRate))
	fmt.Fprintf(&buf, "Shortfall Years:      %d\n", s.ShortfallYears)
	fmt.Fprintf(&buf, "Total Shortfall:      %s\n", FormatCurrency(s.TotalShortfall))
	if s.SurvivorFrom > 0 {
		fmt.Fprintf(&buf, "Survivor Phase From:  %d\n", s.SurvivorFrom)
	}
	if s.Batch != nil {
		writeBatchSummary(&buf, s.Batch)
	}
	if s.IRMAA.HasExposure() {
		writeIRMAA(&buf, s.IRMAA)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, consoleSection.Render("YEAR-BY-YEAR PROJECTION"))
	fmt.Fprintf(&buf, "%-6s %-8s %14s %14s %14s %14s %12s %12s %16s\n",
		"Year", "Filing", "Spend", "Mandatory", "RMD", "Withdrawals", "Taxes", "Shortfall", "Portfolio")
	fmt.Fprintln(&buf, strings.Repeat("-", 118))
	for _, y := range result.Yearly {
		mandatory := y.SocialSecurity.Add(y.PensionAndOther).Add(y.NQDC).Add(y.Adjustments)
		fmt.Fprintf(&buf, "%-6d %-8s %14s %14s %14s %14s %12s %12s %16s\n",
			y.Year, y.FilingStatus,
			FormatCurrency(y.ActualSpend),
			FormatCurrency(mandatory),
			FormatCurrency(y.RMD),
			FormatCurrency(y.TotalWithdrawals),
			FormatCurrency(y.TotalTax),
			FormatCurrency(y.Shortfall),
			FormatCurrency(y.TotalPortfolio))
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, consoleWarn.Render("WARNINGS:"))
		for _, w := range s.Warnings {
			fmt.Fprintf(&buf, "• %s\n", w)
		}
	}
	return buf.Bytes(), nil
}

func writeBatchSummary(buf *bytes.Buffer, b *domain.PlanSummary) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, consoleSection.Render("BATCH SUMMARY"))
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "Runs:                 %d\n", b.Runs)
	fmt.Fprintf(buf, "Success Probability:  %s\n", FormatRate(b.SuccessProbability))
	fmt.Fprintf(buf, "Median Terminal:      %s\n", FormatCurrency(b.MedianTerminalValue))
	fmt.Fprintf(buf, "Worst Shortfall:      %s\n", FormatCurrency(b.WorstCaseShortfall))
	for _, p := range []string{"p10", "p50", "p90"} {
		if v, ok := b.TerminalPercentiles[p]; ok {
			fmt.Fprintf(buf, "Terminal %s:         %s\n", p, FormatCurrency(v))
		}
	}
}

func writeIRMAA(buf *bytes.Buffer, a *domain.IRMAAAnalysis) {
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, consoleSection.Render("MEDICARE IRMAA EXPOSURE"))
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	for _, y := range a.Years {
		if y.Risk == domain.IRMAARiskBreach {
			fmt.Fprintf(buf, "%d income -> %d premiums: MAGI %s, tier %d, %s/yr\n",
				y.Year, y.PremiumYear, FormatCurrency(y.MAGI), y.Tier, FormatCurrency(y.AnnualCost))
			continue
		}
		fmt.Fprintf(buf, "%d income: MAGI %s is %s below the first threshold\n",
			y.Year, FormatCurrency(y.MAGI), FormatCurrency(y.DistanceToThreshold))
	}
	fmt.Fprintf(buf, "Total Surcharges:     %s\n", FormatCurrency(a.TotalCost))
}
