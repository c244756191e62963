package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// streamActive reports whether an income stream pays in the year.
func streamActive(s domain.IncomeStream, plan domain.PlanInput, yc domain.YearContext) bool {
	if s.StartAge > 0 {
		owner, ok := plan.Household.Person(s.Owner)
		if ok && yc.Year-owner.BirthYear < s.StartAge {
			return false
		}
	}
	if s.StartYear > 0 && yc.Year < s.StartYear {
		return false
	}
	if s.EndYear > 0 && yc.Year > s.EndYear {
		return false
	}
	return true
}

// taxableShare applies an optional taxable percentage; nil means fully taxable.
func taxableShare(amount decimal.Decimal, taxablePct *decimal.Decimal) decimal.Decimal {
	if taxablePct == nil {
		return amount
	}
	return amount.Mul(pct(*taxablePct))
}

// ComputeMandatoryIncome aggregates income received regardless of the
// withdrawal strategy: Social Security, pensions and other streams,
// scheduled NQDC payouts and one-time adjustments. NQDC payouts are taken
// out of their accounts immediately.
func ComputeMandatoryIncome(state *SimulationState, yc domain.YearContext) domain.MandatoryIncome {
	plan := state.Plan
	m := domain.MandatoryIncome{NQDCByAccount: map[string]decimal.Decimal{}}
	deceased := deceasedSpouse(plan, yc)
	ssByOwner := map[string]decimal.Decimal{}

	for _, s := range plan.IncomeStreams {
		if !streamActive(s, plan, yc) {
			continue
		}
		amount := s.AnnualAmount
		if s.InflationAdjusted {
			amount = amount.Mul(state.CumulativeInflation(yc.YearIndex))
		}
		ownerAlive := s.Owner == "" || yc.Alive[s.Owner]

		switch s.Kind {
		case domain.IncomeSocialSecurity:
			ssByOwner[s.Owner] = ssByOwner[s.Owner].Add(amount)
		case domain.IncomePension, domain.IncomeAnnuity:
			if !ownerAlive {
				if s.Owner != deceased {
					continue
				}
				amount = amount.Mul(pct(s.SurvivorPct))
			}
			m.Pension = m.Pension.Add(amount)
			m.PensionTaxable = m.PensionTaxable.Add(taxableShare(amount, s.TaxablePct))
		case domain.IncomeWages:
			if ownerAlive {
				m.Wages = m.Wages.Add(amount)
			}
		case domain.IncomeSelfEmployment:
			if ownerAlive {
				m.SelfEmployment = m.SelfEmployment.Add(amount)
			}
		case domain.IncomeRental:
			m.Rental = m.Rental.Add(amount)
		case domain.IncomeInterest:
			m.Interest = m.Interest.Add(amount)
		case domain.IncomeDividends:
			m.Dividends = m.Dividends.Add(amount)
			m.QualifiedDividends = m.QualifiedDividends.Add(amount.Mul(pct(s.QualifiedPct)))
		default:
			m.Other = m.Other.Add(amount)
			m.OtherTaxable = m.OtherTaxable.Add(taxableShare(amount, s.TaxablePct))
		}
	}

	if yc.SurvivorPhase {
		m.SocialSecurity = SurvivorBenefit(ssByOwner[yc.SurvivorID], ssByOwner[deceased]).Add(ssByOwner[""])
	} else {
		for owner, amount := range ssByOwner {
			if owner == "" || yc.Alive[owner] {
				m.SocialSecurity = m.SocialSecurity.Add(amount)
			}
		}
	}

	for _, a := range state.Accounts {
		if payout := nqdcPayout(a, yc.Year); payout.GreaterThan(decimal.Zero) {
			a.Balance = a.Balance.Sub(payout)
			m.NQDC = m.NQDC.Add(payout)
			m.NQDCByAccount[a.ID] = payout
		}
	}

	for _, adj := range plan.Adjustments {
		if adj.Year != yc.Year {
			continue
		}
		if adj.Amount.GreaterThanOrEqual(decimal.Zero) {
			m.Adjustments = m.Adjustments.Add(adj.Amount)
			if adj.Taxable {
				m.AdjustmentsTaxable = m.AdjustmentsTaxable.Add(adj.Amount)
			}
		} else {
			m.OneTimeExpenses = m.OneTimeExpenses.Add(adj.Amount.Neg())
		}
	}
	return m
}

// nqdcPayout is one scheduled installment: the balance divided by the
// installments left. Once the schedule has ended the remainder is paid out.
func nqdcPayout(a *domain.AccountState, year int) decimal.Decimal {
	if a.Type != domain.AccountDeferredComp || a.DeferredComp == nil || a.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	sch := a.DeferredComp
	if year < sch.StartYear {
		return decimal.Zero
	}
	years := sch.Years
	if years < 1 {
		years = 1
	}
	remaining := sch.StartYear + years - year
	if remaining <= 1 {
		return a.Balance
	}
	return a.Balance.Div(decimal.NewFromInt(int64(remaining)))
}

// ComputeRMDs takes the required distribution from every tax-deferred
// account, reducing balances immediately.
func ComputeRMDs(state *SimulationState, yc domain.YearContext) domain.RmdResult {
	res := domain.RmdResult{ByAccount: map[string]decimal.Decimal{}}
	for _, a := range state.Accounts {
		if a.Type != domain.AccountTaxDeferred {
			continue
		}
		owner, ok := state.Plan.Household.Person(a.Owner)
		if !ok || !yc.Alive[owner.ID] {
			continue
		}
		rmd := CalculateRMD(a.Balance, yc.Ages[owner.ID], owner.BirthYear)
		if rmd.IsZero() {
			continue
		}
		a.Balance = a.Balance.Sub(rmd)
		res.ByAccount[a.ID] = rmd
		res.RmdTotal = res.RmdTotal.Add(rmd)
	}
	return res
}
