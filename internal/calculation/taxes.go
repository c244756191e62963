package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets are the 2025 tables. They stay fixed for every
//    projection year unless TaxConfig.IndexBracketsToInflation is set, in
//    which case bracket edges and the standard deduction scale with
//    cumulative inflation.
// 2. Long-term capital gains and qualified dividends stack on top of
//    ordinary taxable income and are taxed at 0/15/20%.
// 3. State tax is a flat rate on gross income minus exempt items.
// 4. Social Security thresholds are statutory and never indexed.

// TaxBracket represents one federal tax bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

var unbounded = decimal.NewFromInt(999999999)

func brackets(edges []int64, rates []float64) []TaxBracket {
	out := make([]TaxBracket, len(rates))
	lo := decimal.Zero
	for i, r := range rates {
		hi := unbounded
		if i < len(edges) {
			hi = decimal.NewFromInt(edges[i])
		}
		out[i] = TaxBracket{Min: lo, Max: hi, Rate: decimal.NewFromFloat(r)}
		lo = hi
	}
	return out
}

var ordinaryRates = []float64{0.10, 0.12, 0.22, 0.24, 0.32, 0.35, 0.37}

// FederalTaxCalculator holds the federal ordinary and capital-gains tables.
type FederalTaxCalculator struct {
	Year               int
	BracketsJoint      []TaxBracket
	BracketsSingle     []TaxBracket
	CapitalGainsJoint  []TaxBracket
	CapitalGainsSingle []TaxBracket
}

// NewFederalTaxCalculator2025 returns the 2025 federal tables.
func NewFederalTaxCalculator2025() *FederalTaxCalculator {
	return &FederalTaxCalculator{
		Year:               2025,
		BracketsJoint:      brackets([]int64{23850, 96950, 206700, 394600, 501050, 751600}, ordinaryRates),
		BracketsSingle:     brackets([]int64{11925, 48475, 103350, 197300, 250525, 626350}, ordinaryRates),
		CapitalGainsJoint:  brackets([]int64{96700, 600050}, []float64{0, 0.15, 0.20}),
		CapitalGainsSingle: brackets([]int64{48350, 533400}, []float64{0, 0.15, 0.20}),
	}
}

func (ftc *FederalTaxCalculator) tables(status domain.FilingStatus) (ordinary, gains []TaxBracket) {
	if status == domain.FilingMFJ || status == domain.FilingSurvivor {
		return ftc.BracketsJoint, ftc.CapitalGainsJoint
	}
	return ftc.BracketsSingle, ftc.CapitalGainsSingle
}

// scale returns brackets with edges multiplied by m. The top edge stays unbounded.
func scale(bs []TaxBracket, m decimal.Decimal) []TaxBracket {
	if m.Equal(decimal.NewFromInt(1)) {
		return bs
	}
	out := make([]TaxBracket, len(bs))
	for i, b := range bs {
		out[i] = TaxBracket{Min: b.Min.Mul(m), Max: b.Max.Mul(m), Rate: b.Rate}
		if b.Max.Equal(unbounded) {
			out[i].Max = unbounded
		}
	}
	return out
}

// taxOnRange taxes the slice of income between from and to against bs.
func taxOnRange(bs []TaxBracket, from, to decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	for _, b := range bs {
		lo := decimal.Max(from, b.Min)
		hi := decimal.Min(to, b.Max)
		if hi.GreaterThan(lo) {
			tax = tax.Add(hi.Sub(lo).Mul(b.Rate))
		}
	}
	return tax
}

// marginalRate returns the rate of the bracket the next dollar of income falls into.
func marginalRate(bs []TaxBracket, income decimal.Decimal) decimal.Decimal {
	for _, b := range bs {
		if income.LessThan(b.Max) {
			return b.Rate
		}
	}
	return bs[len(bs)-1].Rate
}

// CalculateOrdinaryTax taxes ordinary taxable income.
func (ftc *FederalTaxCalculator) CalculateOrdinaryTax(taxable decimal.Decimal, status domain.FilingStatus, multiplier decimal.Decimal) decimal.Decimal {
	ord, _ := ftc.tables(status)
	return taxOnRange(scale(ord, multiplier), decimal.Zero, taxable)
}

// CalculateCapitalGainsTax taxes preferential income stacked on top of ordinary taxable income.
func (ftc *FederalTaxCalculator) CalculateCapitalGainsTax(ordinaryTaxable, preferential decimal.Decimal, status domain.FilingStatus, multiplier decimal.Decimal) decimal.Decimal {
	if preferential.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	_, gains := ftc.tables(status)
	return taxOnRange(scale(gains, multiplier), ordinaryTaxable, ordinaryTaxable.Add(preferential))
}

// MarginalRate returns the ordinary marginal rate at a taxable income level.
func (ftc *FederalTaxCalculator) MarginalRate(taxable decimal.Decimal, status domain.FilingStatus, multiplier decimal.Decimal) decimal.Decimal {
	ord, _ := ftc.tables(status)
	return marginalRate(scale(ord, multiplier), taxable)
}

// BracketCeiling returns the top of the ordinary bracket taxed at ratePct
// percent, or zero when no bracket has that rate.
func (ftc *FederalTaxCalculator) BracketCeiling(ratePct int, status domain.FilingStatus, multiplier decimal.Decimal) decimal.Decimal {
	ord, _ := ftc.tables(status)
	want := decimal.NewFromInt(int64(ratePct)).Div(decimal.NewFromInt(100))
	for _, b := range scale(ord, multiplier) {
		if b.Rate.Equal(want) {
			return b.Max
		}
	}
	return decimal.Zero
}

// TaxCalculator computes a year's federal and state taxes under a TaxConfig.
type TaxCalculator struct {
	Config  domain.TaxConfig
	Federal *FederalTaxCalculator
}

// NewTaxCalculator creates a tax calculator using the 2025 federal tables.
func NewTaxCalculator(cfg domain.TaxConfig) *TaxCalculator {
	return &TaxCalculator{Config: cfg, Federal: NewFederalTaxCalculator2025()}
}

// TaxInputs is everything ComputeTaxes needs besides income.
type TaxInputs struct {
	FilingStatus        domain.FilingStatus
	Seniors             int
	InflationMultiplier decimal.Decimal
}

// ComputeTaxes returns the full tax computation for one year's income.
func (tc *TaxCalculator) ComputeTaxes(in TaxableIncome, ti TaxInputs) domain.TaxResult {
	mult := decimal.NewFromInt(1)
	if tc.Config.IndexBracketsToInflation && ti.InflationMultiplier.GreaterThan(decimal.Zero) {
		mult = ti.InflationMultiplier
	}

	gross := ComputeTotalGrossIncome(in)
	br := ComputeOrdinaryIncome(in, ti.FilingStatus)
	deduction, itemized := ComputeDeduction(tc.Config.Itemized, gross, ti.FilingStatus, ti.Seniors, mult)

	// The deduction offsets ordinary income first, then preferential income.
	ordinaryTaxable := decimal.Max(br.Ordinary.Sub(deduction), decimal.Zero)
	leftover := decimal.Max(deduction.Sub(br.Ordinary), decimal.Zero)
	prefTaxable := decimal.Max(br.Preferential.Sub(leftover), decimal.Zero)
	taxable := ordinaryTaxable.Add(prefTaxable)

	res := domain.TaxResult{
		FilingStatus:       ti.FilingStatus,
		GrossIncome:        gross,
		OrdinaryIncome:     br.Ordinary,
		PreferentialIncome: br.Preferential,
		TaxableSS:          br.TaxableSS,
		Deduction:          deduction,
		Itemized:           itemized,
		TaxableIncome:      taxable,
	}

	switch tc.Config.Model {
	case domain.TaxModelEffective:
		rate := pct(tc.Config.EffectiveFederalRatePct)
		res.FederalOrdinaryTax = ordinaryTaxable.Mul(rate)
		res.CapitalGainsTax = prefTaxable.Mul(rate)
		res.MarginalRate = rate
	default:
		res.FederalOrdinaryTax = tc.Federal.CalculateOrdinaryTax(ordinaryTaxable, ti.FilingStatus, mult)
		res.CapitalGainsTax = tc.Federal.CalculateCapitalGainsTax(ordinaryTaxable, prefTaxable, ti.FilingStatus, mult)
		res.MarginalRate = tc.Federal.MarginalRate(ordinaryTaxable, ti.FilingStatus, mult)
	}
	res.FederalTax = res.FederalOrdinaryTax.Add(res.CapitalGainsTax)
	res.StateTax = tc.stateTax(in, gross)
	res.TotalTax = res.FederalTax.Add(res.StateTax)
	if gross.GreaterThan(decimal.Zero) {
		res.EffectiveRate = res.TotalTax.Div(gross)
	}
	return res
}

// stateTax applies the flat state rate to gross income less exempt items.
func (tc *TaxCalculator) stateTax(in TaxableIncome, gross decimal.Decimal) decimal.Decimal {
	if tc.Config.StateRatePct.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	base := gross
	if tc.Config.StateExemptsSocialSecurity {
		base = base.Sub(in.SocialSecurity)
	}
	if tc.Config.StateExemptsRetirement {
		base = base.Sub(in.RetirementDistributions).Sub(in.NQDC)
	}
	return decimal.Max(base, decimal.Zero).Mul(pct(tc.Config.StateRatePct))
}

var hundred = decimal.NewFromInt(100)

// pct converts a percent value to a rate.
func pct(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}
