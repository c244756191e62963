package domain

import (
	"github.com/shopspring/decimal"
)

// PlanInput is the immutable configuration for one simulation run.
// The engine never mutates it; per-run mutable state lives in AccountState.
type PlanInput struct {
	Name          string         `yaml:"name" json:"name"`
	StartYear     int            `yaml:"start_year" json:"startYear"`
	Years         int            `yaml:"years" json:"years"`
	Household     Household      `yaml:"household" json:"household"`
	Accounts      []Account      `yaml:"accounts" json:"accounts"`
	IncomeStreams []IncomeStream `yaml:"income_streams" json:"incomeStreams"`
	Adjustments   []Adjustment   `yaml:"adjustments" json:"adjustments"`
	Spending      SpendingPlan   `yaml:"spending" json:"spending"`
	Tax           TaxConfig      `yaml:"tax" json:"tax"`
	Market        MarketConfig   `yaml:"market" json:"market"`
	Strategy      StrategyConfig `yaml:"strategy" json:"strategy"`
}

// Household describes the people whose finances are simulated.
type Household struct {
	People  []Person `yaml:"people" json:"people"`
	Married bool     `yaml:"married" json:"married"`
}

// Person is a household member. LifeExpectancy is the last age the person is
// alive; zero means the person outlives the projection.
type Person struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	BirthYear      int    `yaml:"birth_year" json:"birthYear"`
	LifeExpectancy int    `yaml:"life_expectancy" json:"lifeExpectancy"`
}

// Person returns the household member with the given id.
func (h Household) Person(id string) (Person, bool) {
	for _, p := range h.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// IsCouple reports whether the household files jointly while both spouses are alive.
func (h Household) IsCouple() bool {
	return h.Married && len(h.People) == 2
}

// IncomeKind classifies an income stream for tax purposes.
type IncomeKind string

const (
	IncomeSocialSecurity IncomeKind = "socialSecurity"
	IncomePension        IncomeKind = "pension"
	IncomeAnnuity        IncomeKind = "annuity"
	IncomeWages          IncomeKind = "wages"
	IncomeSelfEmployment IncomeKind = "selfEmployment"
	IncomeRental         IncomeKind = "rental"
	IncomeInterest       IncomeKind = "interest"
	IncomeDividends      IncomeKind = "dividends"
	IncomeOther          IncomeKind = "other"
)

// IncomeStream is a recurring income source outside the investment accounts.
// A stream is active from StartAge (owner age) or StartYear, whichever is set,
// through EndYear inclusive (zero means open ended).
type IncomeStream struct {
	Name              string          `yaml:"name" json:"name"`
	Kind              IncomeKind      `yaml:"kind" json:"kind"`
	Owner             string          `yaml:"owner" json:"owner"`
	AnnualAmount      decimal.Decimal `yaml:"annual_amount" json:"annualAmount"`
	StartAge          int             `yaml:"start_age" json:"startAge"`
	StartYear         int             `yaml:"start_year" json:"startYear"`
	EndYear           int             `yaml:"end_year" json:"endYear"`
	InflationAdjusted bool            `yaml:"inflation_adjusted" json:"inflationAdjusted"`
	// TaxablePct applies to pensions, annuities and other income; nil means fully taxable.
	TaxablePct *decimal.Decimal `yaml:"taxable_pct,omitempty" json:"taxablePct,omitempty"`
	// SurvivorPct is the share paid to the surviving spouse after the owner dies.
	SurvivorPct decimal.Decimal `yaml:"survivor_pct" json:"survivorPct"`
	// QualifiedPct is the qualified share of a dividends stream.
	QualifiedPct decimal.Decimal `yaml:"qualified_pct" json:"qualifiedPct"`
}

// Adjustment is a one-time cash event. Positive amounts are inflows counted
// as mandatory income; negative amounts are one-time expenses.
type Adjustment struct {
	Year        int             `yaml:"year" json:"year"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount"`
	Taxable     bool            `yaml:"taxable" json:"taxable"`
	Description string          `yaml:"description" json:"description"`
}

// SpendingPlan holds the household spending target in start-year dollars.
type SpendingPlan struct {
	BaseTargetAnnualSpend         decimal.Decimal  `yaml:"base_target_annual_spend" json:"baseTargetAnnualSpend"`
	SurvivorSpendingAdjustmentPct *decimal.Decimal `yaml:"survivor_spending_adjustment_pct,omitempty" json:"survivorSpendingAdjustmentPct,omitempty"`
	Guardrails                    Guardrails       `yaml:"guardrails" json:"guardrails"`
}

// SurvivorAdjustment is the percentage of the target spent once one spouse
// has died. Unset means 100; an explicit 0 is kept.
func (s SpendingPlan) SurvivorAdjustment() decimal.Decimal {
	if s.SurvivorSpendingAdjustmentPct == nil {
		return decimal.NewFromInt(100)
	}
	return *s.SurvivorSpendingAdjustmentPct
}

// Guardrails clamp spending against total portfolio size.
type Guardrails struct {
	Enabled              bool            `yaml:"enabled" json:"enabled"`
	FloorAnnualSpend     decimal.Decimal `yaml:"floor_annual_spend" json:"floorAnnualSpend"`
	CeilingAnnualSpend   decimal.Decimal `yaml:"ceiling_annual_spend" json:"ceilingAnnualSpend"`
	CeilingMultiple      decimal.Decimal `yaml:"ceiling_multiple" json:"ceilingMultiple"`
	MaxWithdrawalRatePct decimal.Decimal `yaml:"max_withdrawal_rate_pct" json:"maxWithdrawalRatePct"`
}

// TaxModel selects how federal income tax is computed.
type TaxModel string

const (
	TaxModelBrackets  TaxModel = "brackets"
	TaxModelEffective TaxModel = "effective"
)

// TaxConfig configures federal and state taxation.
type TaxConfig struct {
	Model                      TaxModel            `yaml:"model" json:"model"`
	EffectiveFederalRatePct    decimal.Decimal     `yaml:"effective_federal_rate_pct" json:"effectiveFederalRatePct"`
	StateRatePct               decimal.Decimal     `yaml:"state_rate_pct" json:"stateRatePct"`
	StateExemptsSocialSecurity bool                `yaml:"state_exempts_social_security" json:"stateExemptsSocialSecurity"`
	StateExemptsRetirement     bool                `yaml:"state_exempts_retirement" json:"stateExemptsRetirement"`
	IndexBracketsToInflation   bool                `yaml:"index_brackets_to_inflation" json:"indexBracketsToInflation"`
	Itemized                   *ItemizedDeductions `yaml:"itemized,omitempty" json:"itemized,omitempty"`
	SurvivorFilingYears        *int                `yaml:"survivor_filing_years,omitempty" json:"survivorFilingYears,omitempty"`
	InitialEffectiveRatePct    decimal.Decimal     `yaml:"initial_effective_rate_pct" json:"initialEffectiveRatePct"`
}

// SurvivorYears is the number of years the survivor keeps joint-rate
// filing status, 2 when unset. Zero files single from the first survivor year.
func (t TaxConfig) SurvivorYears() int {
	if t.SurvivorFilingYears == nil {
		return 2
	}
	return *t.SurvivorFilingYears
}

// ItemizedDeductions are annual amounts in start-year dollars.
type ItemizedDeductions struct {
	StateAndLocalTaxes decimal.Decimal `yaml:"state_and_local_taxes" json:"stateAndLocalTaxes"`
	MedicalExpenses    decimal.Decimal `yaml:"medical_expenses" json:"medicalExpenses"`
	MortgageInterest   decimal.Decimal `yaml:"mortgage_interest" json:"mortgageInterest"`
	Charitable         decimal.Decimal `yaml:"charitable" json:"charitable"`
}

// MarketMode selects the source of per-year returns and inflation.
type MarketMode string

const (
	MarketDeterministic MarketMode = "deterministic"
	MarketHistorical    MarketMode = "historical"
	MarketStress        MarketMode = "stress"
	MarketMonteCarlo    MarketMode = "monteCarlo"
)

// MarketConfig configures investment returns and inflation.
type MarketConfig struct {
	Mode         MarketMode        `yaml:"mode" json:"mode"`
	InflationPct decimal.Decimal   `yaml:"inflation_pct" json:"inflationPct"`
	Scenario     string            `yaml:"scenario" json:"scenario"`
	DataFile     string            `yaml:"data_file" json:"dataFile"`
	Returns      []decimal.Decimal `yaml:"returns" json:"returns"`
	Inflation    []decimal.Decimal `yaml:"inflation" json:"inflation"`
	MonteCarlo   MonteCarloConfig  `yaml:"monte_carlo" json:"monteCarlo"`
}

// MonteCarloConfig configures randomized batch runs.
type MonteCarloConfig struct {
	Runs               int             `yaml:"runs" json:"runs"`
	Seed               int64           `yaml:"seed" json:"seed"`
	ReturnStdDevPct    decimal.Decimal `yaml:"return_std_dev_pct" json:"returnStdDevPct"`
	InflationStdDevPct decimal.Decimal `yaml:"inflation_std_dev_pct" json:"inflationStdDevPct"`
	Workers            int             `yaml:"workers" json:"workers"`
}

// WithdrawalOrder names an account sequencing strategy.
type WithdrawalOrder string

const (
	OrderTaxableFirst     WithdrawalOrder = "taxableFirst"
	OrderTaxDeferredFirst WithdrawalOrder = "taxDeferredFirst"
	OrderProRata          WithdrawalOrder = "proRata"
	OrderTaxOptimized     WithdrawalOrder = "taxOptimized"
)

// WithdrawalOrders lists every supported order.
var WithdrawalOrders = []WithdrawalOrder{OrderTaxableFirst, OrderTaxDeferredFirst, OrderProRata, OrderTaxOptimized}

// RebalanceFrequency controls portfolio rebalancing.
type RebalanceFrequency string

const (
	RebalanceNone      RebalanceFrequency = "none"
	RebalanceAnnual    RebalanceFrequency = "annual"
	RebalanceQuarterly RebalanceFrequency = "quarterly"
)

// StrategyConfig configures withdrawals and rebalancing.
type StrategyConfig struct {
	WithdrawalOrder  WithdrawalOrder    `yaml:"withdrawal_order" json:"withdrawalOrder"`
	TargetBracketPct int                `yaml:"target_bracket_pct" json:"targetBracketPct"`
	Rebalancing      RebalanceFrequency `yaml:"rebalancing" json:"rebalancing"`
	ReinvestSurplus  bool               `yaml:"reinvest_surplus" json:"reinvestSurplus"`
}

// WithDefaults returns a copy of the plan with unset policy values filled in.
func (p PlanInput) WithDefaults() PlanInput {
	out := p
	if out.Spending.SurvivorSpendingAdjustmentPct == nil {
		v := out.Spending.SurvivorAdjustment()
		out.Spending.SurvivorSpendingAdjustmentPct = &v
	}
	if out.Spending.Guardrails.CeilingMultiple.IsZero() {
		out.Spending.Guardrails.CeilingMultiple = decimal.NewFromInt(20)
	}
	if out.Spending.Guardrails.MaxWithdrawalRatePct.IsZero() {
		out.Spending.Guardrails.MaxWithdrawalRatePct = decimal.NewFromInt(6)
	}
	if out.Tax.Model == "" {
		out.Tax.Model = TaxModelBrackets
	}
	if out.Tax.SurvivorFilingYears == nil {
		n := out.Tax.SurvivorYears()
		out.Tax.SurvivorFilingYears = &n
	}
	if out.Tax.InitialEffectiveRatePct.IsZero() {
		out.Tax.InitialEffectiveRatePct = decimal.NewFromInt(12)
	}
	if out.Market.Mode == "" {
		out.Market.Mode = MarketDeterministic
	}
	if out.Market.MonteCarlo.Runs == 0 {
		out.Market.MonteCarlo.Runs = 1000
	}
	if out.Market.MonteCarlo.ReturnStdDevPct.IsZero() {
		out.Market.MonteCarlo.ReturnStdDevPct = decimal.NewFromInt(12)
	}
	if out.Market.MonteCarlo.InflationStdDevPct.IsZero() {
		out.Market.MonteCarlo.InflationStdDevPct = decimal.NewFromInt(1)
	}
	if out.Strategy.WithdrawalOrder == "" {
		out.Strategy.WithdrawalOrder = OrderTaxableFirst
	}
	if out.Strategy.Rebalancing == "" {
		out.Strategy.Rebalancing = RebalanceNone
	}
	if out.Strategy.TargetBracketPct == 0 {
		out.Strategy.TargetBracketPct = 22
	}
	return out
}

// DeepCopy returns a copy of the plan that shares no slices or pointers
// with the original.
func (p PlanInput) DeepCopy() PlanInput {
	out := p
	out.Household.People = append([]Person(nil), p.Household.People...)
	out.Accounts = make([]Account, len(p.Accounts))
	for i, a := range p.Accounts {
		if a.TargetAllocationPct != nil {
			v := *a.TargetAllocationPct
			a.TargetAllocationPct = &v
		}
		if a.DeferredComp != nil {
			s := *a.DeferredComp
			a.DeferredComp = &s
		}
		out.Accounts[i] = a
	}
	out.IncomeStreams = make([]IncomeStream, len(p.IncomeStreams))
	for i, s := range p.IncomeStreams {
		if s.TaxablePct != nil {
			v := *s.TaxablePct
			s.TaxablePct = &v
		}
		out.IncomeStreams[i] = s
	}
	out.Adjustments = append([]Adjustment(nil), p.Adjustments...)
	if p.Tax.Itemized != nil {
		it := *p.Tax.Itemized
		out.Tax.Itemized = &it
	}
	if p.Tax.SurvivorFilingYears != nil {
		n := *p.Tax.SurvivorFilingYears
		out.Tax.SurvivorFilingYears = &n
	}
	if p.Spending.SurvivorSpendingAdjustmentPct != nil {
		v := *p.Spending.SurvivorSpendingAdjustmentPct
		out.Spending.SurvivorSpendingAdjustmentPct = &v
	}
	out.Market.Returns = append([]decimal.Decimal(nil), p.Market.Returns...)
	out.Market.Inflation = append([]decimal.Decimal(nil), p.Market.Inflation...)
	return out
}
