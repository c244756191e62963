package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incomePlan() domain.PlanInput {
	plan := couplePlan()
	eighty := dec(80)
	plan.IncomeStreams = append(plan.IncomeStreams,
		domain.IncomeStream{Name: "pension", Kind: domain.IncomePension, Owner: "a", AnnualAmount: dec(40000), SurvivorPct: dec(50), TaxablePct: &eighty},
		domain.IncomeStream{Name: "consulting", Kind: domain.IncomeWages, Owner: "a", AnnualAmount: dec(15000)},
		domain.IncomeStream{Name: "part-time", Kind: domain.IncomeWages, Owner: "b", AnnualAmount: dec(10000)},
		domain.IncomeStream{Name: "duplex", Kind: domain.IncomeRental, AnnualAmount: dec(12000)},
		domain.IncomeStream{Name: "fund", Kind: domain.IncomeDividends, AnnualAmount: dec(10000), QualifiedPct: dec(60)},
		domain.IncomeStream{Name: "bonus", Kind: domain.IncomeOther, AnnualAmount: dec(3000), StartYear: 2026, EndYear: 2027},
	)
	plan.Adjustments = []domain.Adjustment{
		{Year: 2025, Amount: dec(5000), Taxable: true, Description: "inheritance"},
		{Year: 2025, Amount: dec(-8000), Description: "roof"},
	}
	return plan.WithDefaults()
}

func TestComputeMandatoryIncome(t *testing.T) {
	plan := incomePlan()
	state := NewSimulationState(plan, nil)
	m := ComputeMandatoryIncome(state, BuildYearContext(plan, 0))

	assert.True(t, m.SocialSecurity.Equal(dec(50000)))
	assert.True(t, m.Pension.Equal(dec(40000)))
	assert.True(t, m.PensionTaxable.Equal(dec(32000)))
	assert.True(t, m.Wages.Equal(dec(25000)))
	assert.True(t, m.Rental.Equal(dec(12000)))
	assert.True(t, m.Dividends.Equal(dec(10000)))
	assert.True(t, m.QualifiedDividends.Equal(dec(6000)))
	assert.True(t, m.Other.IsZero(), "bonus starts in 2026")
	assert.True(t, m.Adjustments.Equal(dec(5000)))
	assert.True(t, m.AdjustmentsTaxable.Equal(dec(5000)))
	assert.True(t, m.OneTimeExpenses.Equal(dec(8000)))

	m = ComputeMandatoryIncome(state, BuildYearContext(plan, 2))
	assert.True(t, m.Other.Equal(dec(3000)))
	assert.True(t, m.OtherTaxable.Equal(dec(3000)))
	m = ComputeMandatoryIncome(state, BuildYearContext(plan, 3))
	assert.True(t, m.Other.IsZero(), "bonus ends after 2027")
}

func TestComputeMandatoryIncomeSurvivorPhase(t *testing.T) {
	plan := incomePlan()
	state := NewSimulationState(plan, nil)
	yc := BuildYearContext(plan, 16)
	require.True(t, yc.SurvivorPhase)
	require.Equal(t, "b", yc.SurvivorID)

	m := ComputeMandatoryIncome(state, yc)
	// SS amounts are inflation adjusted; the survivor keeps the larger one.
	assert.True(t, m.SocialSecurity.Equal(dec(30000).Mul(state.CumulativeInflation(16))))
	assert.True(t, m.Pension.Equal(dec(20000)), "pension %s", m.Pension)
	assert.True(t, m.PensionTaxable.Equal(dec(16000)))
	assert.True(t, m.Wages.Equal(dec(10000)), "the deceased spouse's wages stop")
	assert.True(t, m.Rental.Equal(dec(12000)))
}

func TestComputeRMDs(t *testing.T) {
	plan := couplePlan().WithDefaults()
	state := NewSimulationState(plan, nil)

	res := ComputeRMDs(state, BuildYearContext(plan, 0))
	assert.True(t, res.RmdTotal.IsZero())

	res = ComputeRMDs(state, BuildYearContext(plan, 3)) // age 73
	expected := CalculateRMD(dec(800000), 73, 1955)
	assert.True(t, res.RmdTotal.Equal(expected))
	assert.True(t, state.Account("ira").Balance.Equal(dec(800000).Sub(expected)), "RMDs leave the account immediately")
}

func TestNQDCPayout(t *testing.T) {
	a := &domain.AccountState{
		Type:         domain.AccountDeferredComp,
		Balance:      dec(90000),
		DeferredComp: &domain.DeferredCompSchedule{StartYear: 2026, Years: 3},
	}
	assert.True(t, nqdcPayout(a, 2025).IsZero())
	assert.True(t, nqdcPayout(a, 2026).Equal(dec(30000)))
	assert.True(t, nqdcPayout(a, 2027).Equal(dec(45000)))
	assert.True(t, nqdcPayout(a, 2028).Equal(dec(90000)))
	assert.True(t, nqdcPayout(a, 2035).Equal(dec(90000)), "anything left after the schedule is paid out")

	a.DeferredComp = nil
	assert.True(t, nqdcPayout(a, 2026).IsZero())
}

func TestBuildYearContext(t *testing.T) {
	plan := couplePlan().WithDefaults()

	yc := BuildYearContext(plan, 0)
	assert.Equal(t, 2, yc.AliveCount())
	assert.Equal(t, 2, yc.Seniors())
	assert.False(t, yc.SurvivorPhase)

	yc = BuildYearContext(plan, 15)
	assert.True(t, yc.Alive["a"], "alive through the life-expectancy year")

	yc = BuildYearContext(plan, 16)
	assert.False(t, yc.Alive["a"])
	assert.Equal(t, 1, yc.SurvivorYearCount)
	assert.Equal(t, "b", yc.SurvivorID)
	assert.Equal(t, "a", deceasedSpouse(plan, yc))

	single := plan
	single.Household = domain.Household{People: []domain.Person{{ID: "solo", BirthYear: 1970, LifeExpectancy: 50}}}
	yc = BuildYearContext(single, 0)
	assert.Equal(t, domain.FilingSingle, yc.FilingStatus)
	assert.Equal(t, 0, yc.AliveCount(), "past life expectancy")
	assert.False(t, yc.SurvivorPhase)
}
