package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// IRMAAWarningDistance flags years within $10K of the first threshold.
	IRMAAWarningDistance = 10000
	// IRMAALookbackYears is the gap between the income year and the billed premium year.
	IRMAALookbackYears = 2
	// MedicareAge is the age at which a household member is billed for Part B/D.
	MedicareAge = 65
)

// IRMAATier is one income bracket of the Medicare surcharge schedule.
type IRMAATier struct {
	ThresholdSingle  decimal.Decimal // individual, head of household, surviving spouse
	ThresholdJoint   decimal.Decimal // married filing jointly
	MonthlySurcharge decimal.Decimal // Part B plus Part D, per beneficiary
}

// IRMAATiers2025 is the 2025 surcharge schedule. A tier applies when MAGI
// exceeds its threshold.
var IRMAATiers2025 = []IRMAATier{
	{decimal.NewFromInt(106000), decimal.NewFromInt(212000), decimal.RequireFromString("87.70")},
	{decimal.NewFromInt(133000), decimal.NewFromInt(266000), decimal.RequireFromString("220.30")},
	{decimal.NewFromInt(167000), decimal.NewFromInt(334000), decimal.RequireFromString("352.90")},
	{decimal.NewFromInt(200000), decimal.NewFromInt(400000), decimal.RequireFromString("485.50")},
	{decimal.NewFromInt(500000), decimal.NewFromInt(750000), decimal.RequireFromString("529.70")},
}

// CalculateMAGI approximates modified adjusted gross income for a simulated
// year: ordinary income (taxable Social Security included) plus realized
// capital gains from withdrawals and the prior year's rebalancing.
func CalculateMAGI(y domain.YearResult) decimal.Decimal {
	return y.OrdinaryIncome.Add(y.RealizedGains).Add(y.PriorRebalanceGains)
}

// IRMAARiskStatus classifies magi against the surcharge tiers. It returns the
// risk, the 1-based tier reached (0 when below every threshold), the monthly
// per-person surcharge, and the distance to the next threshold above magi
// (zero above the top tier).
func IRMAARiskStatus(magi decimal.Decimal, joint bool, tiers []IRMAATier) (domain.IRMAARisk, int, decimal.Decimal, decimal.Decimal) {
	threshold := func(t IRMAATier) decimal.Decimal {
		if joint {
			return t.ThresholdJoint
		}
		return t.ThresholdSingle
	}
	if len(tiers) == 0 {
		return domain.IRMAARiskSafe, 0, decimal.Zero, decimal.Zero
	}

	tier := 0
	for i, t := range tiers {
		if !magi.GreaterThan(threshold(t)) {
			break
		}
		tier = i + 1
	}

	distance := decimal.Zero
	if tier < len(tiers) {
		distance = threshold(tiers[tier]).Sub(magi)
	}
	if tier == 0 {
		if distance.LessThanOrEqual(decimal.NewFromInt(IRMAAWarningDistance)) {
			return domain.IRMAARiskWarning, 0, decimal.Zero, distance
		}
		return domain.IRMAARiskSafe, 0, decimal.Zero, distance
	}
	return domain.IRMAARiskBreach, tier, tiers[tier-1].MonthlySurcharge, distance
}

// medicareBeneficiaries counts household members billed in the premium year
// created by y. A survivor-phase or single-filer household has at most one.
func medicareBeneficiaries(y domain.YearResult) int {
	n := 0
	for _, age := range y.Ages {
		if age+IRMAALookbackYears >= MedicareAge {
			n++
		}
	}
	if n > 1 && y.FilingStatus != domain.FilingMFJ {
		n = 1
	}
	return n
}

// AnalyzeIRMAA reports the Medicare surcharge exposure each simulated year's
// income creates. Years whose premium year falls before any member reaches
// Medicare age are skipped.
func AnalyzeIRMAA(result *domain.PlanResult) *domain.IRMAAAnalysis {
	analysis := &domain.IRMAAAnalysis{
		BreachYears:  []int{},
		WarningYears: []int{},
		Years:        []domain.IRMAAYear{},
	}
	if result == nil {
		return analysis
	}

	for _, y := range result.Yearly {
		people := medicareBeneficiaries(y)
		if people == 0 {
			continue
		}
		joint := y.FilingStatus == domain.FilingMFJ
		magi := CalculateMAGI(y)
		risk, tier, monthly, distance := IRMAARiskStatus(magi, joint, IRMAATiers2025)
		if risk == domain.IRMAARiskSafe {
			continue
		}

		first := IRMAATiers2025[0].ThresholdSingle
		if joint {
			first = IRMAATiers2025[0].ThresholdJoint
		}
		entry := domain.IRMAAYear{
			Year:                y.Year,
			PremiumYear:         y.Year + IRMAALookbackYears,
			MAGI:                magi,
			Threshold:           first,
			DistanceToThreshold: distance,
			Risk:                risk,
			Tier:                tier,
			Beneficiaries:       people,
			MonthlySurcharge:    monthly,
		}
		if risk == domain.IRMAARiskBreach {
			entry.AnnualCost = monthly.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromInt(int64(people)))
			analysis.TotalCost = analysis.TotalCost.Add(entry.AnnualCost)
			analysis.BreachYears = append(analysis.BreachYears, y.Year)
			if analysis.FirstBreachYear == 0 {
				analysis.FirstBreachYear = y.Year
			}
		} else {
			analysis.WarningYears = append(analysis.WarningYears, y.Year)
		}
		analysis.Years = append(analysis.Years, entry)
	}
	return analysis
}
