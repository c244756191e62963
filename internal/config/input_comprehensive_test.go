package config

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pctPtr(v int64) *decimal.Decimal {
	p := decimal.NewFromInt(v)
	return &p
}

func validPlan() *domain.PlanInput {
	return &domain.PlanInput{
		StartYear: 2025,
		Years:     30,
		Household: domain.Household{
			Married: true,
			People: []domain.Person{
				{ID: "a", BirthYear: 1958, LifeExpectancy: 90},
				{ID: "b", BirthYear: 1960},
			},
		},
		Accounts: []domain.Account{
			{ID: "brokerage", Type: domain.AccountTaxable, Owner: "a", Balance: d(300000), CostBasis: d(200000), TargetAllocationPct: pctPtr(40)},
			{ID: "ira", Type: domain.AccountTaxDeferred, Owner: "a", Balance: d(700000), TargetAllocationPct: pctPtr(60)},
			{ID: "nqdc", Type: domain.AccountDeferredComp, Owner: "b", Balance: d(50000), DeferredComp: &domain.DeferredCompSchedule{StartYear: 2026, Years: 3}},
		},
		IncomeStreams: []domain.IncomeStream{
			{Name: "ss", Kind: domain.IncomeSocialSecurity, Owner: "a", AnnualAmount: d(30000), StartAge: 67},
		},
		Adjustments: []domain.Adjustment{{Year: 2030, Amount: d(-20000)}},
		Spending: domain.SpendingPlan{
			BaseTargetAnnualSpend: d(100000),
			Guardrails: domain.Guardrails{
				Enabled:            true,
				FloorAnnualSpend:   d(70000),
				CeilingAnnualSpend: d(130000),
			},
		},
	}
}

func TestValidatePlan_Valid(t *testing.T) {
	assert.NoError(t, NewInputParser().ValidatePlan(validPlan()))
}

func TestValidatePlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.PlanInput)
		errMsg string
	}{
		{"missing start year", func(p *domain.PlanInput) { p.StartYear = 0 }, "start year is required"},
		{"zero years", func(p *domain.PlanInput) { p.Years = 0 }, "projection years must be between 1 and 100"},
		{"no people", func(p *domain.PlanInput) { p.Household.People = nil }, "at least one person is required"},
		{"married single person", func(p *domain.PlanInput) { p.Household.People = p.Household.People[:1] }, "married household needs exactly two people"},
		{"duplicate person", func(p *domain.PlanInput) { p.Household.People[1].ID = "a" }, `duplicate person id "a"`},
		{"already dead", func(p *domain.PlanInput) { p.Household.People[0].LifeExpectancy = 60 }, "ends before the start year"},
		{"unknown account type", func(p *domain.PlanInput) { p.Accounts[0].Type = "hsa" }, `unknown type "hsa"`},
		{"duplicate account", func(p *domain.PlanInput) { p.Accounts[1].ID = "brokerage" }, `duplicate account id "brokerage"`},
		{"unknown owner", func(p *domain.PlanInput) { p.Accounts[1].Owner = "c" }, `owner "c" is not in the household`},
		{"ira without owner", func(p *domain.PlanInput) { p.Accounts[1].Owner = "" }, "taxDeferred accounts need an owner"},
		{"negative balance", func(p *domain.PlanInput) { p.Accounts[1].Balance = d(-1) }, "balance cannot be negative"},
		{"basis above balance", func(p *domain.PlanInput) { p.Accounts[0].CostBasis = d(400000) }, "cost basis 400000 exceeds balance 300000"},
		{"allocation sum", func(p *domain.PlanInput) { p.Accounts[1].TargetAllocationPct = pctPtr(50) }, "target allocations must sum to 100, got 90"},
		{"nqdc without schedule", func(p *domain.PlanInput) { p.Accounts[2].DeferredComp = nil }, "needs a distribution schedule"},
		{"schedule on ira", func(p *domain.PlanInput) { p.Accounts[1].DeferredComp = &domain.DeferredCompSchedule{Years: 2} }, "only deferredComp accounts"},
		{"unknown income kind", func(p *domain.PlanInput) { p.IncomeStreams[0].Kind = "lottery" }, `unknown kind "lottery"`},
		{"ss without owner", func(p *domain.PlanInput) { p.IncomeStreams[0].Owner = "" }, "an owner is required"},
		{"survivor pct", func(p *domain.PlanInput) { p.IncomeStreams[0].SurvivorPct = d(150) }, "survivor percent must be between 0 and 100"},
		{"adjustment outside projection", func(p *domain.PlanInput) { p.Adjustments[0].Year = 2070 }, "outside the projection 2025-2054"},
		{"floor above target", func(p *domain.PlanInput) { p.Spending.Guardrails.FloorAnnualSpend = d(100000) }, "guardrail floor 100000 must be below the target 100000"},
		{"ceiling below target", func(p *domain.PlanInput) { p.Spending.Guardrails.CeilingAnnualSpend = d(90000) }, "guardrail ceiling 90000 must be above the target 100000"},
		{"unknown tax model", func(p *domain.PlanInput) { p.Tax.Model = "flat" }, "tax model must be 'brackets' or 'effective'"},
		{"state rate", func(p *domain.PlanInput) { p.Tax.StateRatePct = d(-1) }, "state rate must be between 0 and 100"},
		{"unknown market mode", func(p *domain.PlanInput) { p.Market.Mode = "random" }, "market mode must be"},
		{"unknown stress scenario", func(p *domain.PlanInput) {
			p.Market.Mode = domain.MarketStress
			p.Market.Scenario = "meteor"
		}, `unknown stress scenario "meteor"`},
		{"negative std dev", func(p *domain.PlanInput) {
			p.Market.Mode = domain.MarketMonteCarlo
			p.Market.MonteCarlo.ReturnStdDevPct = d(-5)
		}, "standard deviations cannot be negative"},
		{"unknown order", func(p *domain.PlanInput) { p.Strategy.WithdrawalOrder = "rothFirst" }, "withdrawal order must be one of"},
		{"bad bracket", func(p *domain.PlanInput) { p.Strategy.TargetBracketPct = 15 }, "target bracket 15% is not a federal bracket rate"},
		{"bad rebalancing", func(p *domain.PlanInput) { p.Strategy.Rebalancing = "monthly" }, "rebalancing must be"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := validPlan()
			tt.mutate(plan)
			err := parser.ValidatePlan(plan)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestValidatePlan_GuardrailsDisabledSkipsBounds(t *testing.T) {
	plan := validPlan()
	plan.Spending.Guardrails = domain.Guardrails{Enabled: false, FloorAnnualSpend: d(500000)}
	assert.NoError(t, NewInputParser().ValidatePlan(plan))
}
