package compare

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

func testComparisonSet() *ComparisonSet {
	return &ComparisonSet{
		BaseScenarioName: "Base Plan",
		ConfigPath:       "/path/to/plan.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:    "Base Plan",
			WithdrawalOrder: domain.OrderTaxableFirst,
			TerminalValue:   decimal.NewFromInt(1500000),
			LifetimeTaxes:   decimal.NewFromInt(250000),
			TotalShortfall:  decimal.Zero,
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:         "tax_optimized",
				Description:          "Fill the target ordinary bracket",
				WithdrawalOrder:      domain.OrderTaxOptimized,
				TerminalValue:        decimal.NewFromInt(1650000),
				LifetimeTaxes:        decimal.NewFromInt(210000),
				TerminalDiffFromBase: decimal.NewFromInt(150000),
				TerminalPctFromBase:  decimal.NewFromInt(10),
				TaxDiffFromBase:      decimal.NewFromInt(-40000),
			},
			{
				ScenarioName:         "pro_rata",
				WithdrawalOrder:      domain.OrderProRata,
				TerminalValue:        decimal.NewFromInt(1400000),
				LifetimeTaxes:        decimal.NewFromInt(260000),
				TotalShortfall:       decimal.NewFromInt(12000),
				ShortfallYears:       1,
				TerminalDiffFromBase: decimal.NewFromInt(-100000),
				TerminalPctFromBase:  decimal.RequireFromString("-6.67"),
				TaxDiffFromBase:      decimal.NewFromInt(10000),
				ShortfallYearsDiff:   1,
			},
		},
		Recommendations: []string{
			"Largest Estate: tax_optimized ends with $150000 more than the base plan",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(testComparisonSet())

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}
	for _, want := range []string{
		"RETIREMENT PLAN COMPARISON",
		"Base Plan: Base Plan",
		"Configuration: /path/to/plan.yaml",
		"Base Plan (base)",
		"taxOptimized",
		"$1.65M",
		"Terminal Value:   +$150.0K (10.0%)",
		"Terminal Value:   -$100.0K (-6.7%)",
		"Tax Impact:       +$40.0K",
		"Shortfall Years:  +1",
		"RECOMMENDATIONS",
		"Largest Estate",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := testComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil
	compSet.ConfigPath = ""

	result := (&TableFormatter{}).Format(compSet)
	if strings.Contains(result, "COMPARISON TO BASE") {
		t.Error("Did not expect comparison section without alternatives")
	}
	if strings.Contains(result, "Configuration:") {
		t.Error("Did not expect configuration line without a path")
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	got := (&TableFormatter{}).FormatCompact(testComparisonSet())
	want := "Base: Base Plan | tax_optimized: +$150.0K | pro_rata: -$100.0K"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTableFormatter_Helpers(t *testing.T) {
	tf := &TableFormatter{}
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(999), "999"},
		{decimal.NewFromInt(1500), "1.5K"},
		{decimal.NewFromInt(2500000), "2.50M"},
	}
	for _, tt := range tests {
		if got := tf.formatDecimal(tt.in); got != tt.want {
			t.Errorf("formatDecimal(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
	if tf.truncate("a very long scenario name indeed", 10) != "a very ..." {
		t.Error("Unexpected truncation")
	}
	if tf.deltaSymbol(decimal.Zero) != " " {
		t.Error("Expected blank symbol for zero delta")
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(testComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(records))
	}
	if records[0][0] != "Scenario" || records[0][2] != "Withdrawal Order" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][1] != "base" || records[2][1] != "alternative" {
		t.Error("Expected base row followed by alternatives")
	}
	if records[2][3] != "1650000.00" {
		t.Errorf("Expected terminal 1650000.00, got %s", records[2][3])
	}
	if records[3][7] != "1" || records[3][11] != "1" {
		t.Errorf("Expected shortfall columns on pro_rata row, got %v", records[3])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(testComparisonSet())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		var decoded ComparisonSet
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("Output is not valid JSON: %v", err)
		}
		if decoded.BaseScenarioName != "Base Plan" {
			t.Errorf("Expected base name, got %s", decoded.BaseScenarioName)
		}
		if len(decoded.AlternativeResults) != 2 {
			t.Errorf("Expected 2 alternatives, got %d", len(decoded.AlternativeResults))
		}
		if pretty != strings.Contains(out, "\n  ") {
			t.Errorf("pretty=%v but indentation mismatch", pretty)
		}
	}
}

func TestJSONFormatter_Rankings(t *testing.T) {
	out, err := (&JSONFormatter{}).Format(testComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded struct {
		LargestEstate    string `json:"largestEstate"`
		LowestTaxes      string `json:"lowestTaxes"`
		FewestShortfalls string `json:"fewestShortfalls"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.LargestEstate != "tax_optimized" || decoded.LowestTaxes != "tax_optimized" {
		t.Errorf("Expected tax_optimized to rank first, got %+v", decoded)
	}
	if decoded.FewestShortfalls != "Base Plan" {
		t.Errorf("Ties keep the base plan, got %s", decoded.FewestShortfalls)
	}
}
