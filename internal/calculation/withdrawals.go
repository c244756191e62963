package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/sequencing"
	"github.com/shopspring/decimal"
)

// ComputeWithdrawalTarget is the amount that must come out of the accounts:
// spending plus estimated taxes less mandatory cash already received
// (RMDs included). Never negative.
func ComputeWithdrawalTarget(actualSpend, estimatedTax decimal.Decimal, m domain.MandatoryIncome, rmdTotal decimal.Decimal) decimal.Decimal {
	need := actualSpend.Add(estimatedTax).Sub(m.Cash()).Sub(rmdTotal)
	return decimal.Max(need, decimal.Zero)
}

// BuildTaxableIncome assembles a year's income by tax character from the
// mandatory income, RMDs, a withdrawal plan and gains carried in from last
// year's rebalancing. CapitalLosses stays zero: withdrawals and rebalancing
// realize gains at the account's gain fraction, which is never negative.
func BuildTaxableIncome(m domain.MandatoryIncome, rmdTotal decimal.Decimal, wp sequencing.WithdrawalPlan, carriedGains decimal.Decimal) TaxableIncome {
	return TaxableIncome{
		Wages:                   m.Wages,
		SelfEmployment:          m.SelfEmployment,
		Interest:                m.Interest,
		Dividends:               m.Dividends,
		QualifiedDividends:      m.QualifiedDividends,
		CapitalGains:            wp.EstimatedCapitalGains.Add(carriedGains),
		Rental:                  m.Rental,
		NQDC:                    m.NQDC,
		RetirementDistributions: rmdTotal.Add(wp.EstimatedOrdinaryIncome).Add(m.PensionTaxable),
		SocialSecurity:          m.SocialSecurity,
		Other:                   m.OtherTaxable.Add(m.AdjustmentsTaxable),
	}
}

// OrdinaryHeadroom is the largest tax-deferred withdrawal that keeps
// ordinary taxable income within the top of the ratePct bracket, given
// income before any strategy withdrawals. Each withdrawn dollar can also
// make up to 85 cents of Social Security taxable, so the amount is found by
// bisection on the full ordinary-income computation.
func (tc *TaxCalculator) OrdinaryHeadroom(base TaxableIncome, ti TaxInputs, ratePct int) decimal.Decimal {
	mult := decimal.NewFromInt(1)
	if tc.Config.IndexBracketsToInflation && ti.InflationMultiplier.GreaterThan(decimal.Zero) {
		mult = ti.InflationMultiplier
	}
	ceiling := tc.Federal.BracketCeiling(ratePct, ti.FilingStatus, mult)
	if ceiling.IsZero() {
		return decimal.Zero
	}

	ordinaryTaxable := func(w decimal.Decimal) decimal.Decimal {
		in := base
		in.RetirementDistributions = in.RetirementDistributions.Add(w)
		br := ComputeOrdinaryIncome(in, ti.FilingStatus)
		deduction, _ := ComputeDeduction(tc.Config.Itemized, ComputeTotalGrossIncome(in), ti.FilingStatus, ti.Seniors, mult)
		return br.Ordinary.Sub(deduction)
	}

	// Upper bound: the room left if no Social Security became taxable.
	hi := decimal.Max(ceiling.Sub(ordinaryTaxable(decimal.Zero)), decimal.Zero)
	if hi.IsZero() || ordinaryTaxable(hi).LessThanOrEqual(ceiling) {
		return hi
	}
	lo := decimal.Zero
	two := decimal.NewFromInt(2)
	for i := 0; i < headroomSearchIterations && hi.Sub(lo).GreaterThan(headroomPrecision); i++ {
		mid := lo.Add(hi).Div(two)
		if ordinaryTaxable(mid).LessThanOrEqual(ceiling) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo.Truncate(2)
}

const headroomSearchIterations = 64

var headroomPrecision = decimal.RequireFromString("0.01")

// yearAllocation is one solver iteration's withdrawal plan and its taxes.
type yearAllocation struct {
	plan   sequencing.WithdrawalPlan
	income TaxableIncome
	tax    domain.TaxResult
}

// ApplyWithdrawals executes a withdrawal plan against the real accounts.
// Taxable withdrawals realize gains at the account's gain fraction and
// reduce cost basis by the rest.
func ApplyWithdrawals(state *SimulationState, wp sequencing.WithdrawalPlan) domain.WithdrawalResult {
	res := domain.WithdrawalResult{
		Target:    wp.Requested,
		ByAccount: map[string]decimal.Decimal{},
		Unmet:     wp.RemainingNeed,
		Notes:     wp.Notes,
	}
	for _, alloc := range wp.Allocations {
		a := state.Account(alloc.AccountID)
		if a == nil {
			continue
		}
		amount := decimal.Min(alloc.Gross, a.Balance)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch a.Type {
		case domain.AccountTaxable:
			gf := ComputeGainFraction(a.Balance, a.CostBasis)
			newBasis := ReduceBasis(a.CostBasis, amount, gf)
			res.RealizedGains = res.RealizedGains.Add(RealizedGain(amount, gf))
			res.BasisRecovered = res.BasisRecovered.Add(a.CostBasis.Sub(newBasis))
			a.CostBasis = newBasis
		case domain.AccountRoth:
			res.RothWithdrawals = res.RothWithdrawals.Add(amount)
		default:
			res.OrdinaryIncome = res.OrdinaryIncome.Add(amount)
		}
		a.Balance = a.Balance.Sub(amount)
		res.ByAccount[a.ID] = res.ByAccount[a.ID].Add(amount)
		res.Total = res.Total.Add(amount)
	}
	return res
}

// ComputeNetSpendable reconciles cash received against spending. A
// shortfall is recorded only when the accounts could not supply the
// withdrawal target; differences within the solver's tolerance adjust net
// spendable instead. Surplus is reinvested in the first taxable account
// when enabled.
func ComputeNetSpendable(state *SimulationState, spend domain.SpendingResult, m domain.MandatoryIncome, rmdTotal decimal.Decimal, wr domain.WithdrawalResult, tax domain.TaxResult) domain.NetSpendableResult {
	net := m.Cash().Add(rmdTotal).Add(wr.Total).Sub(tax.TotalTax)
	res := domain.NetSpendableResult{NetSpendable: net}

	diff := net.Sub(spend.ActualSpend)
	switch {
	case diff.LessThan(decimal.Zero) && wr.Unmet.GreaterThan(decimal.Zero):
		res.Shortfall = diff.Neg()
	case diff.GreaterThan(decimal.Zero):
		res.Surplus = diff
	}

	if res.Surplus.GreaterThan(decimal.Zero) && state.Plan.Strategy.ReinvestSurplus {
		for _, a := range state.Accounts {
			if a.Type == domain.AccountTaxable {
				a.Balance = a.Balance.Add(res.Surplus)
				a.CostBasis = a.CostBasis.Add(res.Surplus)
				res.Reinvested = res.Surplus
				break
			}
		}
	}
	return res
}
