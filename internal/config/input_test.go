package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	plan, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, plan, "Should return nil plan")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	require.NoError(t, err)

	plan, err := NewInputParser().LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, plan, "Should return nil plan")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_Fixture(t *testing.T) {
	plan, err := NewInputParser().LoadFromFile(filepath.Join("testdata", "couple.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2025, plan.StartYear)
	assert.Equal(t, 30, plan.Years)
	assert.True(t, plan.Household.IsCouple())
	require.Len(t, plan.Accounts, 4)

	brokerage := plan.Accounts[0]
	assert.Equal(t, domain.AccountTaxable, brokerage.Type)
	assert.True(t, brokerage.Balance.Equal(decimal.NewFromInt(450000)))
	assert.True(t, brokerage.CostBasis.Equal(decimal.NewFromInt(310000)))
	assert.True(t, brokerage.FeePct.Equal(decimal.NewFromFloat(0.1)))
	require.NotNil(t, brokerage.TargetAllocationPct)
	assert.True(t, brokerage.TargetAllocationPct.Equal(decimal.NewFromInt(40)))

	nqdc := plan.Accounts[3]
	require.NotNil(t, nqdc.DeferredComp)
	assert.Equal(t, 2026, nqdc.DeferredComp.StartYear)
	assert.Equal(t, 5, nqdc.DeferredComp.Years)

	require.Len(t, plan.IncomeStreams, 3)
	pension := plan.IncomeStreams[2]
	require.NotNil(t, pension.TaxablePct)
	assert.True(t, pension.TaxablePct.Equal(decimal.NewFromInt(90)))
	assert.True(t, pension.SurvivorPct.Equal(decimal.NewFromInt(50)))

	assert.True(t, plan.Adjustments[0].Amount.Equal(decimal.NewFromInt(-35000)))
	assert.True(t, plan.Spending.Guardrails.Enabled)
	assert.True(t, plan.Tax.StateExemptsSocialSecurity)
	assert.Equal(t, int64(20250101), plan.Market.MonteCarlo.Seed)
	assert.Equal(t, domain.OrderTaxOptimized, plan.Strategy.WithdrawalOrder)
	assert.Equal(t, domain.RebalanceAnnual, plan.Strategy.Rebalancing)
	assert.True(t, plan.Strategy.ReinvestSurplus)
}

func TestInputParser_Parse_ValidationError(t *testing.T) {
	doc := []byte(`
start_year: 2025
years: 10
household:
  people:
    - id: solo
      birth_year: 1960
accounts:
  - id: ira
    type: taxDeferred
    owner: nobody
    balance: 1000
`)
	plan, err := NewInputParser().Parse(doc)
	assert.Nil(t, plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan validation failed")
	assert.Contains(t, err.Error(), `owner "nobody" is not in the household`)
}

func TestInputParser_Parse_SurvivorSettings(t *testing.T) {
	const base = `
start_year: 2025
years: 10
household:
  people:
    - id: solo
      birth_year: 1960
accounts:
  - id: ira
    type: taxDeferred
    owner: solo
    balance: 1000
spending:
  base_target_annual_spend: 40000
`
	plan, err := NewInputParser().Parse([]byte(base))
	require.NoError(t, err)
	assert.Nil(t, plan.Tax.SurvivorFilingYears, "unset stays unset until defaults are applied")
	assert.Nil(t, plan.Spending.SurvivorSpendingAdjustmentPct)
	assert.Equal(t, 2, plan.Tax.SurvivorYears())

	plan, err = NewInputParser().Parse([]byte(base + "  survivor_spending_adjustment_pct: 0\ntax:\n  survivor_filing_years: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, plan.Tax.SurvivorFilingYears)
	assert.Equal(t, 0, *plan.Tax.SurvivorFilingYears)
	withDefaults := plan.WithDefaults()
	assert.Equal(t, 0, withDefaults.Tax.SurvivorYears(), "an explicit zero is not replaced by the default")
	assert.True(t, withDefaults.Spending.SurvivorAdjustment().IsZero())

	_, err = NewInputParser().Parse([]byte(base + "tax:\n  survivor_filing_years: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "survivor filing years cannot be negative")

	_, err = NewInputParser().Parse([]byte(base + "  survivor_spending_adjustment_pct: 120\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "survivor spending adjustment must be between 0 and 100")
}
