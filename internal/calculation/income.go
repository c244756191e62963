package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// ProvisionalIncomeNetsCapitalLosses selects the provisional-income base used
// for Social Security taxation. When true, realized capital losses reduce the
// base (net of gains, limited to CapitalLossLimit), matching how the tax
// computation treats them. Changing it moves SS taxability at the margin.
// The engine never realizes losses (BuildTaxableIncome leaves CapitalLosses
// at zero), so only direct callers of ComputeOrdinaryIncome and ComputeTaxes
// that supply losses see the difference.
const ProvisionalIncomeNetsCapitalLosses = true

var (
	// CapitalLossLimit is the most net capital loss deductible against other income.
	CapitalLossLimit = decimal.NewFromInt(3000)

	// SALTCap limits the itemized state-and-local-tax deduction.
	SALTCap = decimal.NewFromInt(10000)

	// MedicalFloorRate is the share of gross income medical expenses must exceed.
	MedicalFloorRate = decimal.NewFromFloat(0.075)
)

// TaxableIncome collects one year's income by tax character.
type TaxableIncome struct {
	Wages                   decimal.Decimal
	SelfEmployment          decimal.Decimal
	Interest                decimal.Decimal
	Dividends               decimal.Decimal // total, qualified included
	QualifiedDividends      decimal.Decimal
	CapitalGains            decimal.Decimal
	CapitalLosses           decimal.Decimal
	Rental                  decimal.Decimal
	NQDC                    decimal.Decimal
	RetirementDistributions decimal.Decimal // RMDs, tax-deferred withdrawals, pensions
	SocialSecurity          decimal.Decimal
	Other                   decimal.Decimal
}

// OrdinaryIncomeBreakdown is the intermediate result of ComputeOrdinaryIncome.
type OrdinaryIncomeBreakdown struct {
	OrdinaryExcludingSS decimal.Decimal
	NetCapital          decimal.Decimal // gains less losses, loss limited
	ProvisionalBase     decimal.Decimal
	TaxableSS           decimal.Decimal
	Ordinary            decimal.Decimal
	Preferential        decimal.Decimal
}

// ComputeTotalGrossIncome sums every income component (full dividends and
// full Social Security) less capital losses.
func ComputeTotalGrossIncome(in TaxableIncome) decimal.Decimal {
	return in.Wages.Add(in.SelfEmployment).Add(in.Interest).Add(in.Dividends).
		Add(in.CapitalGains).Add(in.Rental).Add(in.NQDC).
		Add(in.RetirementDistributions).Add(in.SocialSecurity).Add(in.Other).
		Sub(in.CapitalLosses)
}

// netCapital returns realized gains less losses with a net loss limited to
// CapitalLossLimit.
func netCapital(in TaxableIncome) decimal.Decimal {
	net := in.CapitalGains.Sub(in.CapitalLosses)
	if net.LessThan(CapitalLossLimit.Neg()) {
		return CapitalLossLimit.Neg()
	}
	return net
}

// ComputeOrdinaryIncome splits income into ordinary and preferential parts.
// Ordinary income is the gross total without capital gains, losses,
// qualified dividends and Social Security, plus the taxable part of Social
// Security and any deductible net capital loss.
func ComputeOrdinaryIncome(in TaxableIncome, status domain.FilingStatus) OrdinaryIncomeBreakdown {
	nonQualified := decimal.Max(in.Dividends.Sub(in.QualifiedDividends), decimal.Zero)
	ordinaryExSS := in.Wages.Add(in.SelfEmployment).Add(in.Interest).Add(nonQualified).
		Add(in.Rental).Add(in.NQDC).Add(in.RetirementDistributions).Add(in.Other)

	net := netCapital(in)
	base := ordinaryExSS.Add(in.QualifiedDividends)
	if ProvisionalIncomeNetsCapitalLosses {
		base = base.Add(net)
	} else {
		base = base.Add(decimal.Max(in.CapitalGains, decimal.Zero))
	}
	base = decimal.Max(base, decimal.Zero)

	taxableSS := ComputeTaxableSS(in.SocialSecurity, base, status)

	ordinary := ordinaryExSS.Add(taxableSS)
	if net.LessThan(decimal.Zero) {
		ordinary = ordinary.Add(net)
	}
	return OrdinaryIncomeBreakdown{
		OrdinaryExcludingSS: ordinaryExSS,
		NetCapital:          net,
		ProvisionalBase:     base,
		TaxableSS:           taxableSS,
		Ordinary:            decimal.Max(ordinary, decimal.Zero),
		Preferential:        in.QualifiedDividends.Add(decimal.Max(net, decimal.Zero)),
	}
}

// Standard deduction amounts (2025).
var (
	StandardDeductionJoint  = decimal.NewFromInt(30000)
	StandardDeductionSingle = decimal.NewFromInt(15000)
	AdditionalSeniorJoint   = decimal.NewFromInt(1600)
	AdditionalSeniorSingle  = decimal.NewFromInt(2000)
)

// StandardDeduction returns the standard deduction for a filing status and
// number of filers aged 65+, scaled by an inflation multiplier.
func StandardDeduction(status domain.FilingStatus, seniors int, multiplier decimal.Decimal) decimal.Decimal {
	base, extra := StandardDeductionSingle, AdditionalSeniorSingle
	if status == domain.FilingMFJ || status == domain.FilingSurvivor {
		base, extra = StandardDeductionJoint, AdditionalSeniorJoint
	} else if seniors > 1 {
		seniors = 1
	}
	ded := base.Add(extra.Mul(decimal.NewFromInt(int64(seniors))))
	return ded.Mul(multiplier)
}

// ItemizedDeduction applies the SALT cap and the medical-expense floor.
func ItemizedDeduction(items domain.ItemizedDeductions, grossIncome decimal.Decimal) decimal.Decimal {
	salt := decimal.Min(items.StateAndLocalTaxes, SALTCap)
	medical := decimal.Max(items.MedicalExpenses.Sub(grossIncome.Mul(MedicalFloorRate)), decimal.Zero)
	return salt.Add(medical).Add(items.MortgageInterest).Add(items.Charitable)
}

// ComputeDeduction returns the itemized deduction when itemized amounts are
// configured and the standard deduction otherwise. The bool reports which.
func ComputeDeduction(items *domain.ItemizedDeductions, grossIncome decimal.Decimal, status domain.FilingStatus, seniors int, multiplier decimal.Decimal) (decimal.Decimal, bool) {
	if items != nil {
		return ItemizedDeduction(*items, grossIncome), true
	}
	return StandardDeduction(status, seniors, multiplier), false
}
