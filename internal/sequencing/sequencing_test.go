package sequencing

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testSources() []WithdrawalSource {
	return []WithdrawalSource{
		{AccountID: "brokerage", Type: domain.AccountTaxable, Balance: d(50000), Basis: d(40000), TaxTreatment: CapitalGains},
		{AccountID: "ira", Type: domain.AccountTaxDeferred, Balance: d(100000), TaxTreatment: OrdinaryIncome},
		{AccountID: "roth", Type: domain.AccountRoth, Balance: d(30000), TaxTreatment: TaxFree},
	}
}

func TestCreateStrategy(t *testing.T) {
	tests := []struct {
		order    domain.WithdrawalOrder
		expected string
	}{
		{domain.OrderTaxableFirst, "taxableFirst"},
		{domain.OrderTaxDeferredFirst, "taxDeferredFirst"},
		{domain.OrderProRata, "proRata"},
		{domain.OrderTaxOptimized, "taxOptimized"},
		{"bogus", "taxableFirst"},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			strategy := CreateStrategy(tt.order)
			require.NotNil(t, strategy)
			assert.Equal(t, tt.expected, strategy.Name())

			plan := strategy.Plan(testSources(), StrategyContext{NeedAmount: d(10000)})
			assert.NotEmpty(t, plan.Allocations)
			assert.True(t, plan.TotalSourced.Equal(d(10000)), "sourced %s", plan.TotalSourced)
		})
	}
}

func TestCreateWithdrawalSources(t *testing.T) {
	accounts := []*domain.AccountState{
		{ID: "brokerage", Type: domain.AccountTaxable, Balance: d(75000), CostBasis: d(60000)},
		{ID: "ira", Type: domain.AccountTaxDeferred, Balance: d(100000)},
		{ID: "nqdc", Type: domain.AccountDeferredComp, Balance: d(40000)},
		{ID: "roth", Type: domain.AccountRoth, Balance: d(50000)},
		{ID: "empty", Type: domain.AccountRoth, Balance: decimal.Zero},
	}

	sources := CreateWithdrawalSources(accounts)
	require.Len(t, sources, 3)

	assert.Equal(t, "brokerage", sources[0].AccountID)
	assert.Equal(t, CapitalGains, sources[0].TaxTreatment)
	assert.True(t, sources[0].Basis.Equal(d(60000)))
	assert.Equal(t, OrdinaryIncome, sources[1].TaxTreatment)
	assert.Equal(t, TaxFree, sources[2].TaxTreatment)
}

func TestTaxableFirstStrategy(t *testing.T) {
	plan := NewTaxableFirstStrategy().Plan(testSources(), StrategyContext{NeedAmount: d(20000)})

	require.Len(t, plan.Allocations, 1)
	alloc := plan.Allocations[0]
	assert.Equal(t, "brokerage", alloc.AccountID)
	// 20% gain fraction
	assert.True(t, alloc.CapitalGainsPortion.Equal(d(4000)), "gain %s", alloc.CapitalGainsPortion)
	assert.True(t, alloc.TaxFreePortion.Equal(d(16000)))
	assert.True(t, alloc.BasisRecovered.Equal(d(16000)))
	assert.True(t, plan.RemainingNeed.IsZero())
}

func TestTaxableFirstSpillsIntoTaxDeferred(t *testing.T) {
	plan := NewTaxableFirstStrategy().Plan(testSources(), StrategyContext{NeedAmount: d(70000)})

	byAcct := plan.ByAccount()
	assert.True(t, byAcct["brokerage"].Equal(d(50000)))
	assert.True(t, byAcct["ira"].Equal(d(20000)))
	assert.True(t, plan.EstimatedOrdinaryIncome.Equal(d(20000)))
	assert.True(t, plan.EstimatedCapitalGains.Equal(d(10000)))
}

func TestTaxDeferredFirstStrategy(t *testing.T) {
	plan := NewTaxDeferredFirstStrategy().Plan(testSources(), StrategyContext{NeedAmount: d(20000)})

	require.Len(t, plan.Allocations, 1)
	assert.Equal(t, "ira", plan.Allocations[0].AccountID)
	assert.True(t, plan.EstimatedOrdinaryIncome.Equal(d(20000)))
}

func TestProRataStrategy(t *testing.T) {
	plan := NewProRataStrategy().Plan(testSources(), StrategyContext{NeedAmount: d(18000)})

	byAcct := plan.ByAccount()
	assert.True(t, byAcct["brokerage"].Equal(d(5000)), "brokerage %s", byAcct["brokerage"])
	assert.True(t, byAcct["ira"].Equal(d(10000)), "ira %s", byAcct["ira"])
	assert.True(t, byAcct["roth"].Equal(d(3000)), "roth %s", byAcct["roth"])
	assert.True(t, plan.TotalSourced.Equal(d(18000)))
	assert.True(t, plan.RothUsed.Equal(d(3000)))
}

func TestTaxOptimizedFillsBracketFirst(t *testing.T) {
	ctx := StrategyContext{NeedAmount: d(40000), OrdinaryHeadroom: d(15000)}
	plan := NewTaxOptimizedStrategy().Plan(testSources(), ctx)

	byAcct := plan.ByAccount()
	assert.True(t, byAcct["ira"].Equal(d(15000)), "ira %s", byAcct["ira"])
	assert.True(t, byAcct["brokerage"].Equal(d(25000)), "brokerage %s", byAcct["brokerage"])
	assert.True(t, plan.BracketFilled)
	assert.True(t, plan.RothUsed.IsZero())
}

func TestInsufficientBalances(t *testing.T) {
	for _, order := range domain.WithdrawalOrders {
		t.Run(string(order), func(t *testing.T) {
			plan := CreateStrategy(order).Plan(testSources(), StrategyContext{NeedAmount: d(250000)})
			assert.True(t, plan.TotalSourced.Equal(d(180000)), "sourced %s", plan.TotalSourced)
			assert.True(t, plan.RemainingNeed.Equal(d(70000)))
			assert.Contains(t, plan.Notes, "insufficient balances to meet request")
		})
	}
}

func TestPlanNeverOverdrawsAndLeavesSourcesUntouched(t *testing.T) {
	sources := testSources()
	for _, order := range domain.WithdrawalOrders {
		plan := CreateStrategy(order).Plan(sources, StrategyContext{NeedAmount: d(120000), OrdinaryHeadroom: d(50000)})
		byAcct := plan.ByAccount()
		for _, src := range sources {
			assert.True(t, byAcct[src.AccountID].LessThanOrEqual(src.Balance), "%s overdrew %s", order, src.AccountID)
		}
	}
	assert.True(t, sources[0].Balance.Equal(d(50000)))
	assert.True(t, sources[0].Basis.Equal(d(40000)))
}

func TestZeroNeed(t *testing.T) {
	plan := NewTaxableFirstStrategy().Plan(testSources(), StrategyContext{NeedAmount: decimal.Zero})
	assert.Empty(t, plan.Allocations)
	assert.True(t, plan.RemainingNeed.IsZero())
	assert.Empty(t, plan.Notes)
}
