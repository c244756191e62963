package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus is the federal filing status used for a year.
type FilingStatus string

const (
	FilingMFJ      FilingStatus = "mfj"
	FilingSurvivor FilingStatus = "survivor"
	FilingSingle   FilingStatus = "single"
)

// YearContext holds derived, read-only facts about one simulated year.
type YearContext struct {
	Year              int
	YearIndex         int
	Ages              map[string]int
	Alive             map[string]bool
	SurvivorPhase     bool
	SurvivorID        string
	SurvivorYearCount int
	FilingStatus      FilingStatus
}

// AliveCount returns the number of living household members.
func (yc YearContext) AliveCount() int {
	n := 0
	for _, alive := range yc.Alive {
		if alive {
			n++
		}
	}
	return n
}

// Seniors returns the number of living household members aged 65 or over.
func (yc YearContext) Seniors() int {
	n := 0
	for id, alive := range yc.Alive {
		if alive && yc.Ages[id] >= 65 {
			n++
		}
	}
	return n
}

// RmdResult is the outcome of the RMD step.
type RmdResult struct {
	RmdTotal  decimal.Decimal            `json:"rmdTotal"`
	ByAccount map[string]decimal.Decimal `json:"byAccount"`
}

// MandatoryIncome is income received regardless of the withdrawal strategy.
type MandatoryIncome struct {
	SocialSecurity     decimal.Decimal            `json:"socialSecurity"`
	Pension            decimal.Decimal            `json:"pension"`
	PensionTaxable     decimal.Decimal            `json:"pensionTaxable"`
	Wages              decimal.Decimal            `json:"wages"`
	SelfEmployment     decimal.Decimal            `json:"selfEmployment"`
	Rental             decimal.Decimal            `json:"rental"`
	Interest           decimal.Decimal            `json:"interest"`
	Dividends          decimal.Decimal            `json:"dividends"`
	QualifiedDividends decimal.Decimal            `json:"qualifiedDividends"`
	Other              decimal.Decimal            `json:"other"`
	OtherTaxable       decimal.Decimal            `json:"otherTaxable"`
	NQDC               decimal.Decimal            `json:"nqdc"`
	NQDCByAccount      map[string]decimal.Decimal `json:"nqdcByAccount"`
	Adjustments        decimal.Decimal            `json:"adjustments"`
	AdjustmentsTaxable decimal.Decimal            `json:"adjustmentsTaxable"`
	OneTimeExpenses    decimal.Decimal            `json:"oneTimeExpenses"`
}

// Cash returns the total cash received from mandatory sources (RMDs excluded).
func (m MandatoryIncome) Cash() decimal.Decimal {
	return m.SocialSecurity.Add(m.Pension).Add(m.Wages).Add(m.SelfEmployment).
		Add(m.Rental).Add(m.Interest).Add(m.Dividends).Add(m.Other).
		Add(m.NQDC).Add(m.Adjustments)
}

// SpendingResult is the outcome of the spending/guardrails step.
type SpendingResult struct {
	BaseTarget          decimal.Decimal `json:"baseTarget"`
	InflationMultiplier decimal.Decimal `json:"inflationMultiplier"`
	TargetSpend         decimal.Decimal `json:"targetSpend"`
	ActualSpend         decimal.Decimal `json:"actualSpend"`
	CeilingApplied      bool            `json:"ceilingApplied"`
	FloorApplied        bool            `json:"floorApplied"`
	PortfolioValue      decimal.Decimal `json:"portfolioValue"`
}

// WithdrawalResult is the allocation of a withdrawal target across accounts.
type WithdrawalResult struct {
	Target          decimal.Decimal            `json:"target"`
	Total           decimal.Decimal            `json:"total"`
	ByAccount       map[string]decimal.Decimal `json:"byAccount"`
	OrdinaryIncome  decimal.Decimal            `json:"ordinaryIncome"`
	RealizedGains   decimal.Decimal            `json:"realizedGains"`
	RothWithdrawals decimal.Decimal            `json:"rothWithdrawals"`
	BasisRecovered  decimal.Decimal            `json:"basisRecovered"`
	Unmet           decimal.Decimal            `json:"unmet"`
	Notes           []string                   `json:"notes,omitempty"`
}

// TaxResult is the full tax computation for a year.
type TaxResult struct {
	FilingStatus       FilingStatus    `json:"filingStatus"`
	GrossIncome        decimal.Decimal `json:"grossIncome"`
	OrdinaryIncome     decimal.Decimal `json:"ordinaryIncome"`
	PreferentialIncome decimal.Decimal `json:"preferentialIncome"`
	TaxableSS          decimal.Decimal `json:"taxableSS"`
	Deduction          decimal.Decimal `json:"deduction"`
	Itemized           bool            `json:"itemized"`
	TaxableIncome      decimal.Decimal `json:"taxableIncome"`
	FederalOrdinaryTax decimal.Decimal `json:"federalOrdinaryTax"`
	CapitalGainsTax    decimal.Decimal `json:"capitalGainsTax"`
	FederalTax         decimal.Decimal `json:"federalTax"`
	StateTax           decimal.Decimal `json:"stateTax"`
	TotalTax           decimal.Decimal `json:"totalTax"`
	EffectiveRate      decimal.Decimal `json:"effectiveRate"`
	MarginalRate       decimal.Decimal `json:"marginalRate"`
}

// NetSpendableResult reconciles cash received against the spending target.
type NetSpendableResult struct {
	NetSpendable decimal.Decimal `json:"netSpendable"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	Surplus      decimal.Decimal `json:"surplus"`
	Reinvested   decimal.Decimal `json:"reinvested"`
}

// RebalanceTrade is a single account adjustment made while rebalancing.
type RebalanceTrade struct {
	AccountID     string          `json:"accountId"`
	Delta         decimal.Decimal `json:"delta"`
	RealizedGains decimal.Decimal `json:"realizedGains"`
}

// RebalanceResult reports the trades made and the gains they realized.
// Gains are taxed in the following year.
type RebalanceResult struct {
	Trades        []RebalanceTrade `json:"trades"`
	RealizedGains decimal.Decimal  `json:"realizedGains"`
}

// YearResult is the immutable output record for one simulated year.
type YearResult struct {
	Year              int            `json:"year"`
	YearIndex         int            `json:"yearIndex"`
	Ages              map[string]int `json:"ages"`
	FilingStatus      FilingStatus   `json:"filingStatus"`
	SurvivorPhase     bool           `json:"survivorPhase"`
	SurvivorYearCount int            `json:"survivorYearCount"`

	TargetSpend    decimal.Decimal `json:"targetSpend"`
	ActualSpend    decimal.Decimal `json:"actualSpend"`
	CeilingApplied bool            `json:"ceilingApplied"`
	FloorApplied   bool            `json:"floorApplied"`

	SocialSecurity  decimal.Decimal            `json:"socialSecurity"`
	TaxableSS       decimal.Decimal            `json:"taxableSS"`
	PensionAndOther decimal.Decimal            `json:"pensionAndOther"`
	NQDC            decimal.Decimal            `json:"nqdc"`
	Adjustments     decimal.Decimal            `json:"adjustments"`
	OneTimeExpenses decimal.Decimal            `json:"oneTimeExpenses"`
	RMD             decimal.Decimal            `json:"rmd"`
	RMDByAccount    map[string]decimal.Decimal `json:"rmdByAccount"`

	Withdrawals         map[string]decimal.Decimal `json:"withdrawals"`
	TotalWithdrawals    decimal.Decimal            `json:"totalWithdrawals"`
	RothWithdrawals     decimal.Decimal            `json:"rothWithdrawals"`
	RealizedGains       decimal.Decimal            `json:"realizedGains"`
	PriorRebalanceGains decimal.Decimal            `json:"priorRebalanceGains"`
	RebalanceGains      decimal.Decimal            `json:"rebalanceGains"`

	GrossIncome    decimal.Decimal `json:"grossIncome"`
	OrdinaryIncome decimal.Decimal `json:"ordinaryIncome"`
	TaxableIncome  decimal.Decimal `json:"taxableIncome"`
	Deduction      decimal.Decimal `json:"deduction"`
	FederalTax     decimal.Decimal `json:"federalTax"`
	StateTax       decimal.Decimal `json:"stateTax"`
	TotalTax       decimal.Decimal `json:"totalTax"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"`

	NetSpendable decimal.Decimal `json:"netSpendable"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	Surplus      decimal.Decimal `json:"surplus"`

	Converged  bool `json:"converged"`
	Iterations int  `json:"iterations"`

	EndingBalances  map[string]decimal.Decimal `json:"endingBalances"`
	EndingCostBasis map[string]decimal.Decimal `json:"endingCostBasis"`
	TotalPortfolio  decimal.Decimal            `json:"totalPortfolio"`
}

// PlanSummary holds cross-run statistics. It is populated only by batch
// (Monte Carlo, historical, stress) runs.
type PlanSummary struct {
	Runs                int                        `json:"runs"`
	SuccessProbability  decimal.Decimal            `json:"successProbability"`
	MedianTerminalValue decimal.Decimal            `json:"medianTerminalValue"`
	WorstCaseShortfall  decimal.Decimal            `json:"worstCaseShortfall"`
	TerminalPercentiles map[string]decimal.Decimal `json:"terminalPercentiles"`
}

// PlanResult is the final output of a run.
type PlanResult struct {
	PlanName    string       `json:"planName"`
	Mode        MarketMode   `json:"mode"`
	Summary     *PlanSummary `json:"summary,omitempty"`
	Yearly      []YearResult `json:"yearly"`
	Assumptions []string     `json:"assumptions"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// TerminalValue returns the final year's total portfolio, or zero for an empty result.
func (r *PlanResult) TerminalValue() decimal.Decimal {
	if r == nil || len(r.Yearly) == 0 {
		return decimal.Zero
	}
	return r.Yearly[len(r.Yearly)-1].TotalPortfolio
}

// TotalShortfall sums shortfall across all years.
func (r *PlanResult) TotalShortfall() decimal.Decimal {
	total := decimal.Zero
	if r == nil {
		return total
	}
	for _, y := range r.Yearly {
		total = total.Add(y.Shortfall)
	}
	return total
}

// ShortfallYears counts years with any shortfall.
func (r *PlanResult) ShortfallYears() int {
	n := 0
	if r == nil {
		return n
	}
	for _, y := range r.Yearly {
		if y.Shortfall.GreaterThan(decimal.Zero) {
			n++
		}
	}
	return n
}

// TotalTaxes sums taxes across all years.
func (r *PlanResult) TotalTaxes() decimal.Decimal {
	total := decimal.Zero
	if r == nil {
		return total
	}
	for _, y := range r.Yearly {
		total = total.Add(y.TotalTax)
	}
	return total
}
