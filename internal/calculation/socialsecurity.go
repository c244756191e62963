package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// SSTaxThresholds are the provisional-income thresholds for taxing benefits.
type SSTaxThresholds struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

var (
	ssThresholdsJoint  = SSTaxThresholds{Lower: decimal.NewFromInt(32000), Upper: decimal.NewFromInt(44000)}
	ssThresholdsSingle = SSTaxThresholds{Lower: decimal.NewFromInt(25000), Upper: decimal.NewFromInt(34000)}

	half         = decimal.NewFromFloat(0.5)
	eightyFivePc = decimal.NewFromFloat(0.85)
)

// ThresholdsFor returns the Social Security taxation thresholds for a filing
// status. A surviving spouse keeps the joint thresholds; anything unrecognized
// gets the single thresholds, which tax the most.
func ThresholdsFor(status domain.FilingStatus) SSTaxThresholds {
	switch status {
	case domain.FilingMFJ, domain.FilingSurvivor:
		return ssThresholdsJoint
	default:
		return ssThresholdsSingle
	}
}

// ProvisionalIncome is other taxable income plus half of Social Security.
func ProvisionalIncome(ssIncome, otherTaxableIncome decimal.Decimal) decimal.Decimal {
	return otherTaxableIncome.Add(ssIncome.Mul(half))
}

// ComputeTaxableSS returns the taxable part of Social Security benefits using
// the IRS Pub. 915 worksheet.
func ComputeTaxableSS(ssIncome, otherTaxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if ssIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	t := ThresholdsFor(status)
	provisional := ProvisionalIncome(ssIncome, otherTaxableIncome)

	if provisional.LessThanOrEqual(t.Lower) {
		return decimal.Zero
	}
	if provisional.LessThanOrEqual(t.Upper) {
		return decimal.Min(ssIncome.Mul(half), provisional.Sub(t.Lower).Mul(half))
	}
	tier := provisional.Sub(t.Upper).Mul(eightyFivePc).Add(t.Upper.Sub(t.Lower).Mul(half))
	return decimal.Min(ssIncome.Mul(eightyFivePc), tier)
}

// SurvivorBenefit returns the benefit a surviving spouse keeps: the larger of
// their own benefit and the deceased spouse's.
func SurvivorBenefit(own, deceased decimal.Decimal) decimal.Decimal {
	return decimal.Max(own, deceased)
}
