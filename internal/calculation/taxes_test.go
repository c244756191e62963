package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/sequencing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func bracketsConfig() domain.TaxConfig {
	return domain.TaxConfig{Model: domain.TaxModelBrackets}
}

func mfj() TaxInputs {
	return TaxInputs{FilingStatus: domain.FilingMFJ, InflationMultiplier: dec(1)}
}

func TestFederalTaxCalculator2025(t *testing.T) {
	ftc := NewFederalTaxCalculator2025()
	one := dec(1)

	tests := []struct {
		name     string
		taxable  int64
		status   domain.FilingStatus
		expected string
	}{
		{"zero", 0, domain.FilingMFJ, "0.00"},
		{"first bracket", 20000, domain.FilingMFJ, "2000.00"},
		{"second bracket", 70000, domain.FilingMFJ, "7923.00"},
		{"survivor uses joint", 70000, domain.FilingSurvivor, "7923.00"},
		{"single second bracket", 40000, domain.FilingSingle, "4561.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ftc.CalculateOrdinaryTax(dec(tt.taxable), tt.status, one)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}

	assert.True(t, ftc.MarginalRate(dec(70000), domain.FilingMFJ, one).Equal(decimal.NewFromFloat(0.12)))
	assert.True(t, ftc.MarginalRate(dec(900000), domain.FilingMFJ, one).Equal(decimal.NewFromFloat(0.37)))
	assert.True(t, ftc.BracketCeiling(22, domain.FilingMFJ, one).Equal(dec(206700)))
	assert.True(t, ftc.BracketCeiling(12, domain.FilingSingle, one).Equal(dec(48475)))
	assert.True(t, ftc.BracketCeiling(15, domain.FilingMFJ, one).IsZero())
}

func TestCapitalGainsStackOnOrdinaryIncome(t *testing.T) {
	ftc := NewFederalTaxCalculator2025()
	one := dec(1)

	// 50k of gains on top of 50k ordinary: 46,700 at 0%, 3,300 at 15%
	got := ftc.CalculateCapitalGainsTax(dec(50000), dec(50000), domain.FilingMFJ, one)
	assert.Equal(t, "495.00", got.StringFixed(2))

	assert.True(t, ftc.CalculateCapitalGainsTax(dec(0), dec(90000), domain.FilingMFJ, one).IsZero())
	assert.True(t, ftc.CalculateCapitalGainsTax(dec(50000), decimal.Zero, domain.FilingMFJ, one).IsZero())
	assert.Equal(t, "20000.00", ftc.CalculateCapitalGainsTax(dec(700000), dec(100000), domain.FilingMFJ, one).StringFixed(2))
}

func TestComputeTaxes(t *testing.T) {
	tc := NewTaxCalculator(bracketsConfig())

	t.Run("ordinary income only", func(t *testing.T) {
		res := tc.ComputeTaxes(TaxableIncome{RetirementDistributions: dec(100000)}, mfj())
		assert.Equal(t, "30000.00", res.Deduction.StringFixed(2))
		assert.False(t, res.Itemized)
		assert.Equal(t, "70000.00", res.TaxableIncome.StringFixed(2))
		assert.Equal(t, "7923.00", res.FederalTax.StringFixed(2))
		assert.True(t, res.StateTax.IsZero())
		assert.Equal(t, "0.07923", res.EffectiveRate.StringFixed(5))
	})

	t.Run("gains stacked on ordinary income", func(t *testing.T) {
		res := tc.ComputeTaxes(TaxableIncome{RetirementDistributions: dec(80000), CapitalGains: dec(50000)}, mfj())
		assert.Equal(t, "5523.00", res.FederalOrdinaryTax.StringFixed(2))
		assert.Equal(t, "495.00", res.CapitalGainsTax.StringFixed(2))
		assert.Equal(t, "6018.00", res.FederalTax.StringFixed(2))
		assert.Equal(t, "100000.00", res.TaxableIncome.StringFixed(2))
	})

	t.Run("deduction spills onto preferential income", func(t *testing.T) {
		res := tc.ComputeTaxes(TaxableIncome{CapitalGains: dec(40000)}, mfj())
		assert.Equal(t, "10000.00", res.TaxableIncome.StringFixed(2))
		assert.True(t, res.FederalTax.IsZero())
	})

	t.Run("capital loss limited", func(t *testing.T) {
		res := tc.ComputeTaxes(TaxableIncome{RetirementDistributions: dec(50000), CapitalLosses: dec(10000)}, mfj())
		assert.Equal(t, "40000.00", res.GrossIncome.StringFixed(2))
		assert.Equal(t, "47000.00", res.OrdinaryIncome.StringFixed(2))
		assert.Equal(t, "1700.00", res.FederalTax.StringFixed(2))
	})

	t.Run("social security partially taxable", func(t *testing.T) {
		res := tc.ComputeTaxes(TaxableIncome{SocialSecurity: dec(40000), RetirementDistributions: dec(60000)}, mfj())
		assert.Equal(t, "34000.00", res.TaxableSS.StringFixed(2))
		assert.Equal(t, "94000.00", res.OrdinaryIncome.StringFixed(2))
		assert.Equal(t, "7203.00", res.FederalTax.StringFixed(2))
	})

	t.Run("senior deduction", func(t *testing.T) {
		ti := mfj()
		ti.Seniors = 2
		res := tc.ComputeTaxes(TaxableIncome{RetirementDistributions: dec(100000)}, ti)
		assert.Equal(t, "33200.00", res.Deduction.StringFixed(2))
	})
}

func TestComputeTaxesInflationIndexing(t *testing.T) {
	in := TaxableIncome{RetirementDistributions: dec(100000)}
	ti := mfj()
	ti.InflationMultiplier = decimal.NewFromFloat(1.1)

	fixed := NewTaxCalculator(bracketsConfig()).ComputeTaxes(in, ti)
	assert.Equal(t, "7923.00", fixed.FederalTax.StringFixed(2))

	cfg := bracketsConfig()
	cfg.IndexBracketsToInflation = true
	indexed := NewTaxCalculator(cfg).ComputeTaxes(in, ti)
	assert.Equal(t, "33000.00", indexed.Deduction.StringFixed(2))
	assert.Equal(t, "7515.30", indexed.FederalTax.StringFixed(2))
}

func TestComputeTaxesEffectiveModel(t *testing.T) {
	cfg := domain.TaxConfig{Model: domain.TaxModelEffective, EffectiveFederalRatePct: dec(10)}
	res := NewTaxCalculator(cfg).ComputeTaxes(TaxableIncome{RetirementDistributions: dec(100000)}, mfj())
	assert.Equal(t, "7000.00", res.FederalTax.StringFixed(2))
	assert.True(t, res.MarginalRate.Equal(decimal.NewFromFloat(0.1)))
}

func TestStateTax(t *testing.T) {
	in := TaxableIncome{SocialSecurity: dec(40000), RetirementDistributions: dec(60000), Interest: dec(10000)}

	cfg := bracketsConfig()
	cfg.StateRatePct = dec(5)
	assert.Equal(t, "5500.00", NewTaxCalculator(cfg).ComputeTaxes(in, mfj()).StateTax.StringFixed(2))

	cfg.StateExemptsSocialSecurity = true
	assert.Equal(t, "3500.00", NewTaxCalculator(cfg).ComputeTaxes(in, mfj()).StateTax.StringFixed(2))

	cfg.StateExemptsRetirement = true
	assert.Equal(t, "500.00", NewTaxCalculator(cfg).ComputeTaxes(in, mfj()).StateTax.StringFixed(2))
}

func TestDeductions(t *testing.T) {
	one := dec(1)
	assert.True(t, StandardDeduction(domain.FilingMFJ, 0, one).Equal(dec(30000)))
	assert.True(t, StandardDeduction(domain.FilingMFJ, 2, one).Equal(dec(33200)))
	assert.True(t, StandardDeduction(domain.FilingSurvivor, 1, one).Equal(dec(31600)))
	assert.True(t, StandardDeduction(domain.FilingSingle, 2, one).Equal(dec(17000)))

	items := &domain.ItemizedDeductions{
		StateAndLocalTaxes: dec(15000),
		MedicalExpenses:    dec(10000),
		MortgageInterest:   dec(8000),
		Charitable:         dec(2000),
	}
	ded, itemized := ComputeDeduction(items, dec(100000), domain.FilingMFJ, 0, one)
	assert.True(t, itemized)
	// SALT capped at 10k, medical above 7.5% of gross
	assert.Equal(t, "22500.00", ded.StringFixed(2))

	ded, itemized = ComputeDeduction(nil, dec(100000), domain.FilingSingle, 0, one)
	assert.False(t, itemized)
	assert.True(t, ded.Equal(dec(15000)))
}

func TestComputeOrdinaryIncomeSplitsDividends(t *testing.T) {
	br := ComputeOrdinaryIncome(TaxableIncome{
		RetirementDistributions: dec(50000),
		Dividends:               dec(10000),
		QualifiedDividends:      dec(6000),
	}, domain.FilingMFJ)
	assert.True(t, br.Ordinary.Equal(dec(54000)), "ordinary %s", br.Ordinary)
	assert.True(t, br.Preferential.Equal(dec(6000)))
	assert.True(t, br.TaxableSS.IsZero())
}

func TestOrdinaryHeadroom(t *testing.T) {
	tc := NewTaxCalculator(bracketsConfig())
	base := TaxableIncome{RetirementDistributions: dec(50000)}
	assert.True(t, tc.OrdinaryHeadroom(base, mfj(), 22).Equal(dec(186700)))
	assert.True(t, tc.OrdinaryHeadroom(base, mfj(), 15).IsZero())
	assert.True(t, tc.OrdinaryHeadroom(TaxableIncome{RetirementDistributions: dec(300000)}, mfj(), 12).IsZero())
}

func TestOrdinaryHeadroom_CountsSocialSecurity(t *testing.T) {
	tc := NewTaxCalculator(bracketsConfig())
	base := TaxableIncome{SocialSecurity: dec(40000)}

	h := tc.OrdinaryHeadroom(base, mfj(), 12)
	// With 85% of the benefit taxable, 96,950 + 30,000 - 34,000 can be drawn.
	assert.True(t, h.LessThanOrEqual(dec(92950)), "headroom %s", h)
	assert.True(t, h.GreaterThanOrEqual(decimal.RequireFromString("92949.99")), "headroom %s", h)

	in := base
	in.RetirementDistributions = h
	res := tc.ComputeTaxes(in, mfj())
	assert.True(t, res.TaxableSS.Equal(dec(34000)), "taxable ss %s", res.TaxableSS)
	assert.True(t, res.TaxableIncome.LessThanOrEqual(dec(96950)), "taxable %s", res.TaxableIncome)
	assert.True(t, res.TaxableIncome.GreaterThan(dec(96949)), "taxable %s", res.TaxableIncome)
}

func TestBuildTaxableIncome_LeavesCapitalLossesToDirectCallers(t *testing.T) {
	m := domain.MandatoryIncome{SocialSecurity: dec(30000)}
	wp := sequencing.WithdrawalPlan{EstimatedOrdinaryIncome: dec(40000), EstimatedCapitalGains: dec(5000)}
	in := BuildTaxableIncome(m, decimal.Zero, wp, dec(2000))
	assert.True(t, in.CapitalLosses.IsZero())
	assert.True(t, in.CapitalGains.Equal(dec(7000)))
	assert.True(t, in.RetirementDistributions.Equal(dec(40000)))

	// A caller that supplies losses gets them netted into provisional income.
	noGains := TaxableIncome{RetirementDistributions: dec(40000), SocialSecurity: dec(30000)}
	withLoss := noGains
	withLoss.CapitalLosses = dec(3000)
	before := ComputeOrdinaryIncome(noGains, domain.FilingMFJ)
	after := ComputeOrdinaryIncome(withLoss, domain.FilingMFJ)
	assert.True(t, ProvisionalIncomeNetsCapitalLosses)
	assert.True(t, after.TaxableSS.LessThan(before.TaxableSS), "taxable ss %s vs %s", after.TaxableSS, before.TaxableSS)
}
