package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testGuardrails() domain.Guardrails {
	return domain.Guardrails{
		Enabled:              true,
		FloorAnnualSpend:     dec(40000),
		CeilingAnnualSpend:   dec(90000),
		CeilingMultiple:      dec(20),
		MaxWithdrawalRatePct: dec(6),
	}
}

func TestApplyGuardrails(t *testing.T) {
	g := testGuardrails()
	tests := []struct {
		name      string
		spend     int64
		portfolio int64
		ceiling   int64
		expected  int64
		ceilingOn bool
		floorOn   bool
	}{
		{"large portfolio caps at ceiling", 120000, 2000000, 90000, 90000, true, false},
		{"spend under ceiling unchanged", 80000, 2000000, 90000, 80000, false, false},
		{"portfolio not above multiple", 120000, 2000000, 100000, 120000, false, false},
		{"withdrawal rate limited", 80000, 1000000, 90000, 60000, false, true},
		{"floor holds", 80000, 500000, 90000, 40000, false, true},
		{"empty portfolio leaves spend", 80000, 0, 90000, 80000, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, c, f := ApplyGuardrails(g, dec(tt.spend), dec(tt.portfolio), dec(tt.ceiling), g.FloorAnnualSpend)
			assert.True(t, got.Equal(dec(tt.expected)), "got %s", got)
			assert.Equal(t, tt.ceilingOn, c)
			assert.Equal(t, tt.floorOn, f)
		})
	}

	g.Enabled = false
	got, c, f := ApplyGuardrails(g, dec(120000), dec(2000000), dec(90000), dec(40000))
	assert.True(t, got.Equal(dec(120000)))
	assert.False(t, c)
	assert.False(t, f)
}

func spendingState(balance int64) *SimulationState {
	plan := domain.PlanInput{
		StartYear: 2025,
		Years:     10,
		Household: domain.Household{People: []domain.Person{{ID: "a", BirthYear: 1960}}},
		Accounts:  []domain.Account{{ID: "ira", Type: domain.AccountTaxDeferred, Owner: "a", Balance: dec(balance)}},
		Spending:  domain.SpendingPlan{BaseTargetAnnualSpend: dec(120000), Guardrails: testGuardrails()},
		Market:    domain.MarketConfig{InflationPct: dec(2)},
	}.WithDefaults()
	return NewSimulationState(plan, nil)
}

func TestComputeSpendingTarget(t *testing.T) {
	state := spendingState(2000000)
	yc := BuildYearContext(state.Plan, 0)

	res := ComputeSpendingTarget(state, yc, decimal.Zero)
	assert.True(t, res.ActualSpend.Equal(dec(90000)), "actual %s", res.ActualSpend)
	assert.True(t, res.TargetSpend.Equal(dec(120000)))
	assert.True(t, res.CeilingApplied)

	// One-time expenses are added after the guardrails.
	res = ComputeSpendingTarget(state, yc, dec(25000))
	assert.True(t, res.ActualSpend.Equal(dec(115000)), "actual %s", res.ActualSpend)
	assert.True(t, res.TargetSpend.Equal(dec(145000)))
}

func TestComputeSpendingTargetInflatesAndScalesForSurvivor(t *testing.T) {
	state := spendingState(1000000)
	state.Plan.Spending.Guardrails.Enabled = false
	state.Plan.Spending.SurvivorSpendingAdjustmentPct = decimalPtr(dec(75))

	yc := BuildYearContext(state.Plan, 2)
	res := ComputeSpendingTarget(state, yc, decimal.Zero)
	assert.Equal(t, "124848.00", res.ActualSpend.StringFixed(2))

	yc.SurvivorPhase = true
	res = ComputeSpendingTarget(state, yc, decimal.Zero)
	assert.Equal(t, "93636.00", res.ActualSpend.StringFixed(2))
}

func TestCumulativeInflation(t *testing.T) {
	state := spendingState(0)
	assert.True(t, state.CumulativeInflation(0).Equal(dec(1)))
	assert.Equal(t, "1.0404", state.CumulativeInflation(2).String())
	assert.Equal(t, "1.02", state.CumulativeInflation(1).String())

	withSeries := NewSimulationState(state.Plan, &market.Series{
		Inflation: []decimal.Decimal{dec(3), dec(5)},
	})
	assert.Equal(t, "1.0815", withSeries.CumulativeInflation(2).String())
	// Past the series the plan rate applies.
	assert.Equal(t, "1.10313", withSeries.CumulativeInflation(3).String())
}
