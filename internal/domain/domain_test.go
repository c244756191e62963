package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestNewAccountState(t *testing.T) {
	target := d(60)
	s := NewAccountState(Account{ID: "b", Type: AccountTaxable, Balance: d(-5), CostBasis: d(-1), TargetAllocationPct: &target})
	assert.True(t, s.Balance.IsZero(), "negative balance clamps to zero")
	assert.True(t, s.CostBasis.IsZero(), "negative basis clamps to zero")

	target = d(10)
	assert.True(t, s.TargetAllocationPct.Equal(d(60)), "target is copied")

	ira := NewAccountState(Account{ID: "ira", Type: AccountTaxDeferred, Balance: d(100), CostBasis: d(50)})
	assert.True(t, ira.CostBasis.IsZero(), "basis only kept for taxable accounts")
}

func TestCloneAccounts(t *testing.T) {
	target := d(50)
	accounts := []*AccountState{
		NewAccountState(Account{ID: "a", Type: AccountTaxable, Balance: d(100), CostBasis: d(80), TargetAllocationPct: &target}),
		NewAccountState(Account{ID: "b", Type: AccountRoth, Balance: d(200)}),
	}
	clones := CloneAccounts(accounts)
	clones[0].Balance = d(1)
	*clones[0].TargetAllocationPct = d(1)

	assert.True(t, accounts[0].Balance.Equal(d(100)))
	assert.True(t, accounts[0].TargetAllocationPct.Equal(d(50)))
	assert.True(t, TotalBalance(accounts).Equal(d(300)))
	assert.True(t, TotalBalance(clones).Equal(d(201)))
}

func TestHousehold(t *testing.T) {
	h := Household{Married: true, People: []Person{{ID: "a"}, {ID: "b"}}}
	assert.True(t, h.IsCouple())
	p, ok := h.Person("b")
	require.True(t, ok)
	assert.Equal(t, "b", p.ID)
	_, ok = h.Person("z")
	assert.False(t, ok)

	assert.False(t, Household{People: []Person{{ID: "a"}, {ID: "b"}}}.IsCouple(), "unmarried pair files separately")
}

func TestPlanInput_WithDefaults(t *testing.T) {
	p := PlanInput{}.WithDefaults()
	require.NotNil(t, p.Spending.SurvivorSpendingAdjustmentPct)
	assert.True(t, p.Spending.SurvivorSpendingAdjustmentPct.Equal(d(100)))
	assert.True(t, p.Spending.Guardrails.CeilingMultiple.Equal(d(20)))
	assert.Equal(t, TaxModelBrackets, p.Tax.Model)
	require.NotNil(t, p.Tax.SurvivorFilingYears)
	assert.Equal(t, 2, *p.Tax.SurvivorFilingYears)
	assert.Equal(t, MarketDeterministic, p.Market.Mode)
	assert.Equal(t, 1000, p.Market.MonteCarlo.Runs)
	assert.Equal(t, OrderTaxableFirst, p.Strategy.WithdrawalOrder)
	assert.Equal(t, 22, p.Strategy.TargetBracketPct)

	four := 4
	custom := PlanInput{Tax: TaxConfig{SurvivorFilingYears: &four}}.WithDefaults()
	assert.Equal(t, 4, custom.Tax.SurvivorYears(), "explicit values are kept")
}

func TestPlanInput_WithDefaultsKeepsExplicitZero(t *testing.T) {
	zeroYears := 0
	zeroPct := d(0)
	p := PlanInput{
		Spending: SpendingPlan{SurvivorSpendingAdjustmentPct: &zeroPct},
		Tax:      TaxConfig{SurvivorFilingYears: &zeroYears},
	}.WithDefaults()
	assert.Equal(t, 0, p.Tax.SurvivorYears())
	assert.True(t, p.Spending.SurvivorAdjustment().IsZero())

	unset := PlanInput{}
	assert.Equal(t, 2, unset.Tax.SurvivorYears())
	assert.True(t, unset.Spending.SurvivorAdjustment().Equal(d(100)))
}

func TestPlanInput_DeepCopy(t *testing.T) {
	target := d(40)
	taxable := d(50)
	p := PlanInput{
		Household:     Household{People: []Person{{ID: "a", BirthYear: 1960}}},
		Accounts:      []Account{{ID: "x", TargetAllocationPct: &target, DeferredComp: &DeferredCompSchedule{StartYear: 2030, Years: 5}}},
		IncomeStreams: []IncomeStream{{Name: "pension", TaxablePct: &taxable}},
		Tax:           TaxConfig{Itemized: &ItemizedDeductions{Charitable: d(1000)}},
		Market:        MarketConfig{Returns: []decimal.Decimal{d(5)}},
	}
	cp := p.DeepCopy()
	cp.Household.People[0].BirthYear = 1900
	*cp.Accounts[0].TargetAllocationPct = d(1)
	cp.Accounts[0].DeferredComp.Years = 1
	*cp.IncomeStreams[0].TaxablePct = d(1)
	cp.Tax.Itemized.Charitable = d(1)
	cp.Market.Returns[0] = d(1)

	assert.Equal(t, 1960, p.Household.People[0].BirthYear)
	assert.True(t, p.Accounts[0].TargetAllocationPct.Equal(d(40)))
	assert.Equal(t, 5, p.Accounts[0].DeferredComp.Years)
	assert.True(t, p.IncomeStreams[0].TaxablePct.Equal(d(50)))
	assert.True(t, p.Tax.Itemized.Charitable.Equal(d(1000)))
	assert.True(t, p.Market.Returns[0].Equal(d(5)))
}

func TestYearContext(t *testing.T) {
	yc := YearContext{
		Ages:  map[string]int{"a": 66, "b": 63, "c": 90},
		Alive: map[string]bool{"a": true, "b": true, "c": false},
	}
	assert.Equal(t, 2, yc.AliveCount())
	assert.Equal(t, 1, yc.Seniors(), "deceased members are not counted")
}

func TestMandatoryIncome_Cash(t *testing.T) {
	m := MandatoryIncome{
		SocialSecurity: d(30000), Pension: d(20000), Wages: d(1000), Interest: d(500),
		Dividends: d(700), QualifiedDividends: d(600), NQDC: d(5000), Adjustments: d(2000),
		PensionTaxable: d(20000), OneTimeExpenses: d(9999),
	}
	assert.True(t, m.Cash().Equal(d(59200)), "got %s", m.Cash())
}

func TestPlanResult_Aggregates(t *testing.T) {
	r := &PlanResult{Yearly: []YearResult{
		{TotalTax: d(100), Shortfall: d(0), TotalPortfolio: d(900)},
		{TotalTax: d(200), Shortfall: d(50), TotalPortfolio: d(500)},
		{TotalTax: d(300), Shortfall: d(25), TotalPortfolio: d(0)},
	}}
	assert.True(t, r.TerminalValue().IsZero())
	assert.True(t, r.TotalTaxes().Equal(d(600)))
	assert.True(t, r.TotalShortfall().Equal(d(75)))
	assert.Equal(t, 2, r.ShortfallYears())

	var empty *PlanResult
	assert.True(t, empty.TerminalValue().IsZero())
	assert.True(t, empty.TotalTaxes().IsZero())
	assert.Equal(t, 0, empty.ShortfallYears())
}

func TestIRMAAAnalysis_HasExposure(t *testing.T) {
	var nilAnalysis *IRMAAAnalysis
	assert.False(t, nilAnalysis.HasExposure())
	assert.False(t, (&IRMAAAnalysis{}).HasExposure())
	assert.True(t, (&IRMAAAnalysis{WarningYears: []int{2030}}).HasExposure())
}
