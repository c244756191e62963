package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// CSVDetailedExporter writes one row per simulated year, with a balance
// column per account.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "csv" }

func (c CSVDetailedExporter) Format(result *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	ids := accountIDs(result)

	header := []string{
		"Year", "Ages", "FilingStatus", "SurvivorPhase",
		"TargetSpend", "ActualSpend", "CeilingApplied", "FloorApplied",
		"SocialSecurity", "TaxableSS", "PensionAndOther", "NQDC", "Adjustments", "OneTimeExpenses", "RMD",
		"TotalWithdrawals", "RothWithdrawals", "RealizedGains", "RebalanceGains",
		"GrossIncome", "TaxableIncome", "Deduction", "FederalTax", "StateTax", "TotalTax", "EffectiveRate",
		"NetSpendable", "Shortfall", "Surplus", "Converged", "Iterations", "TotalPortfolio",
	}
	for _, id := range ids {
		header = append(header, "Balance:"+id)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, y := range result.Yearly {
		row := []string{
			strconv.Itoa(y.Year),
			formatAges(y.Ages),
			string(y.FilingStatus),
			strconv.FormatBool(y.SurvivorPhase),
			y.TargetSpend.StringFixed(2),
			y.ActualSpend.StringFixed(2),
			strconv.FormatBool(y.CeilingApplied),
			strconv.FormatBool(y.FloorApplied),
			y.SocialSecurity.StringFixed(2),
			y.TaxableSS.StringFixed(2),
			y.PensionAndOther.StringFixed(2),
			y.NQDC.StringFixed(2),
			y.Adjustments.StringFixed(2),
			y.OneTimeExpenses.StringFixed(2),
			y.RMD.StringFixed(2),
			y.TotalWithdrawals.StringFixed(2),
			y.RothWithdrawals.StringFixed(2),
			y.RealizedGains.StringFixed(2),
			y.RebalanceGains.StringFixed(2),
			y.GrossIncome.StringFixed(2),
			y.TaxableIncome.StringFixed(2),
			y.Deduction.StringFixed(2),
			y.FederalTax.StringFixed(2),
			y.StateTax.StringFixed(2),
			y.TotalTax.StringFixed(2),
			y.EffectiveRate.StringFixed(4),
			y.NetSpendable.StringFixed(2),
			y.Shortfall.StringFixed(2),
			y.Surplus.StringFixed(2),
			strconv.FormatBool(y.Converged),
			strconv.Itoa(y.Iterations),
			y.TotalPortfolio.StringFixed(2),
		}
		for _, id := range ids {
			row = append(row, y.EndingBalances[id].StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVSummarizer writes the headline metrics as metric,value rows.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv-summary" }

func (c CSVSummarizer) Format(result *domain.PlanResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	s := Summarize(result)

	rows := [][]string{
		{"Metric", "Value"},
		{"PlanName", s.PlanName},
		{"Mode", string(s.Mode)},
		{"Years", strconv.Itoa(s.Years)},
		{"FirstYear", strconv.Itoa(s.FirstYear)},
		{"LastYear", strconv.Itoa(s.LastYear)},
		{"TerminalValue", s.TerminalValue.StringFixed(2)},
		{"TotalWithdrawals", s.TotalWithdrawn.StringFixed(2)},
		{"TotalTaxes", s.TotalTaxes.StringFixed(2)},
		{"TotalShortfall", s.TotalShortfall.StringFixed(2)},
		{"ShortfallYears", strconv.Itoa(s.ShortfallYears)},
		{"UnconvergedYears", strconv.Itoa(s.UnconvergedYrs)},
	}
	if s.Batch != nil {
		rows = append(rows,
			[]string{"Runs", strconv.Itoa(s.Batch.Runs)},
			[]string{"SuccessProbability", s.Batch.SuccessProbability.StringFixed(4)},
			[]string{"MedianTerminalValue", s.Batch.MedianTerminalValue.StringFixed(2)},
			[]string{"WorstCaseShortfall", s.Batch.WorstCaseShortfall.StringFixed(2)},
		)
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
