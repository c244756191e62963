package compare

import (
	"context"
	"testing"

	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testPlan() *domain.PlanInput {
	return &domain.PlanInput{
		Name:      "Couple",
		StartYear: 2025,
		Years:     25,
		Household: domain.Household{
			Married: true,
			People: []domain.Person{
				{ID: "alex", BirthYear: 1957},
				{ID: "blair", BirthYear: 1959},
			},
		},
		Accounts: []domain.Account{
			{ID: "brokerage", Type: domain.AccountTaxable, Owner: "alex", Balance: d(500000), CostBasis: d(350000), ExpectedReturnPct: d(6)},
			{ID: "ira", Type: domain.AccountTaxDeferred, Owner: "alex", Balance: d(900000), ExpectedReturnPct: d(6)},
			{ID: "roth", Type: domain.AccountRoth, Owner: "blair", Balance: d(150000), ExpectedReturnPct: d(7)},
		},
		IncomeStreams: []domain.IncomeStream{
			{Name: "Alex SS", Kind: domain.IncomeSocialSecurity, Owner: "alex", AnnualAmount: d(32000), StartAge: 67, InflationAdjusted: true},
			{Name: "Blair SS", Kind: domain.IncomeSocialSecurity, Owner: "blair", AnnualAmount: d(22000), StartAge: 67, InflationAdjusted: true},
		},
		Spending: domain.SpendingPlan{BaseTargetAnnualSpend: d(95000)},
		Market:   domain.MarketConfig{InflationPct: decimal.NewFromFloat(2.5)},
	}
}

func TestCompareEngine_CompareWithdrawalOrders(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())

	compSet, err := ce.CompareWithdrawalOrders(context.Background(), testPlan())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if compSet.BaseScenarioName != "Couple" {
		t.Errorf("Expected base name Couple, got %s", compSet.BaseScenarioName)
	}
	if compSet.BaseResult.WithdrawalOrder != domain.OrderTaxableFirst {
		t.Errorf("Expected default taxableFirst base, got %s", compSet.BaseResult.WithdrawalOrder)
	}
	if len(compSet.AlternativeResults) != len(domain.WithdrawalOrders) {
		t.Fatalf("Expected %d alternatives, got %d", len(domain.WithdrawalOrders), len(compSet.AlternativeResults))
	}
	for i, order := range domain.WithdrawalOrders {
		alt := compSet.AlternativeResults[i]
		if alt.WithdrawalOrder != order {
			t.Errorf("alternative %d: expected %s, got %s", i, order, alt.WithdrawalOrder)
		}
		if alt.Description == "" {
			t.Errorf("alternative %s has no description", alt.ScenarioName)
		}
		if alt.Result == nil || len(alt.Result.Yearly) != 25 {
			t.Errorf("alternative %s: expected 25 simulated years", alt.ScenarioName)
		}
	}

	// The taxable_first variant is the base plan itself
	same := compSet.AlternativeResults[0]
	if !same.TerminalDiffFromBase.IsZero() || !same.TaxDiffFromBase.IsZero() {
		t.Errorf("Expected identical results for the base order, got diff %s / tax %s",
			same.TerminalDiffFromBase, same.TaxDiffFromBase)
	}
}

func TestCompareEngine_Templates(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())
	plan := testPlan()

	compSet, err := ce.Compare(context.Background(), plan, CompareOptions{
		Templates:  []string{"spend_more_10"},
		ConfigPath: "plan.yaml",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(compSet.AlternativeResults) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(compSet.AlternativeResults))
	}
	alt := compSet.AlternativeResults[0]
	if !alt.TerminalValue.LessThan(compSet.BaseResult.TerminalValue) {
		t.Errorf("Expected spending more to shrink the terminal value: %s vs %s",
			alt.TerminalValue, compSet.BaseResult.TerminalValue)
	}
	if !alt.LifetimeWithdrawals.GreaterThan(compSet.BaseResult.LifetimeWithdrawals) {
		t.Error("Expected spending more to raise lifetime withdrawals")
	}
	if compSet.ConfigPath != "plan.yaml" {
		t.Errorf("Expected config path to be kept, got %s", compSet.ConfigPath)
	}
	if !plan.Spending.BaseTargetAnnualSpend.Equal(d(95000)) {
		t.Error("Base plan was modified")
	}
}

func TestCompareEngine_Transforms(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())

	compSet, err := ce.Compare(context.Background(), testPlan(), CompareOptions{
		Transforms: []string{"withdrawal_order:order=proRata"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(compSet.AlternativeResults) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(compSet.AlternativeResults))
	}
	alt := compSet.AlternativeResults[0]
	if alt.WithdrawalOrder != domain.OrderProRata {
		t.Errorf("Expected proRata, got %s", alt.WithdrawalOrder)
	}
	if alt.ScenarioName != "withdrawal_order:order=proRata" {
		t.Errorf("Unexpected name %s", alt.ScenarioName)
	}
}

func TestCompareEngine_Errors(t *testing.T) {
	ce := NewCompareEngine(calculation.NewEngine())
	ctx := context.Background()

	if _, err := ce.Compare(ctx, nil, CompareOptions{}); err == nil {
		t.Error("Expected error for nil plan")
	}
	if _, err := ce.Compare(ctx, testPlan(), CompareOptions{Templates: []string{"nope"}}); err == nil {
		t.Error("Expected error for unknown template")
	}
	if _, err := ce.Compare(ctx, testPlan(), CompareOptions{Transforms: []string{"bogus"}}); err == nil {
		t.Error("Expected error for malformed transform spec")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := ce.Compare(cancelled, testPlan(), CompareOptions{}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
