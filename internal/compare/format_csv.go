package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter writes one row per scenario, base first.
type CSVFormatter struct{}

var csvColumns = []struct {
	header string
	value  func(r *ComparisonResult) string
}{
	{"Scenario", func(r *ComparisonResult) string { return r.ScenarioName }},
	{"Type", nil},
	{"Withdrawal Order", func(r *ComparisonResult) string { return string(r.WithdrawalOrder) }},
	{"Terminal Value", func(r *ComparisonResult) string { return r.TerminalValue.StringFixed(2) }},
	{"Lifetime Taxes", func(r *ComparisonResult) string { return r.LifetimeTaxes.StringFixed(2) }},
	{"Lifetime Withdrawals", func(r *ComparisonResult) string { return r.LifetimeWithdrawals.StringFixed(2) }},
	{"Total Shortfall", func(r *ComparisonResult) string { return r.TotalShortfall.StringFixed(2) }},
	{"Shortfall Years", func(r *ComparisonResult) string { return strconv.Itoa(r.ShortfallYears) }},
	{"Terminal Diff from Base", func(r *ComparisonResult) string { return r.TerminalDiffFromBase.StringFixed(2) }},
	{"Terminal % Change", func(r *ComparisonResult) string { return r.TerminalPctFromBase.StringFixed(2) }},
	{"Tax Diff from Base", func(r *ComparisonResult) string { return r.TaxDiffFromBase.StringFixed(2) }},
	{"Shortfall Years Diff", func(r *ComparisonResult) string { return strconv.Itoa(r.ShortfallYearsDiff) }},
	{"First Shortfall Year", func(r *ComparisonResult) string {
		if r.FirstShortfallYear == 0 {
			return ""
		}
		return strconv.Itoa(r.FirstShortfallYear)
	}},
	{"Success Probability", func(r *ComparisonResult) string {
		if r.SuccessProbability == nil {
			return ""
		}
		return r.SuccessProbability.StringFixed(4)
	}},
}

func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, len(csvColumns))
	for i, c := range csvColumns {
		header[i] = c.header
	}
	rows := [][]string{header}
	if compSet.BaseResult != nil {
		rows = append(rows, cf.formatRow(compSet.BaseResult, "base"))
	}
	for i := range compSet.AlternativeResults {
		rows = append(rows, cf.formatRow(&compSet.AlternativeResults[i], "alternative"))
	}

	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	row := make([]string, len(csvColumns))
	for i, c := range csvColumns {
		if c.value == nil {
			row[i] = scenarioType
			continue
		}
		row[i] = c.value(result)
	}
	return row
}
