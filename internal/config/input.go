package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	hundred          = decimal.NewFromInt(100)
	federalRatesPct  = map[int]bool{10: true, 12: true, 22: true, 24: true, 32: true, 35: true, 37: true}
	maxProjectionLen = 100
)

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON) file and validates it
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a plan document
func (ip *InputParser) Parse(data []byte) (*domain.PlanInput, error) {
	var plan domain.PlanInput
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan rejects plans the engine would compute nonsense for. The
// engine itself only guards numerical edge cases.
func (ip *InputParser) ValidatePlan(plan *domain.PlanInput) error {
	if plan.StartYear <= 0 {
		return fmt.Errorf("start year is required")
	}
	if plan.Years <= 0 || plan.Years > maxProjectionLen {
		return fmt.Errorf("projection years must be between 1 and %d", maxProjectionLen)
	}
	if err := ip.validateHousehold(plan); err != nil {
		return fmt.Errorf("household validation failed: %w", err)
	}
	if err := ip.validateAccounts(plan); err != nil {
		return fmt.Errorf("account validation failed: %w", err)
	}
	for i, s := range plan.IncomeStreams {
		if err := ip.validateIncomeStream(plan, &s); err != nil {
			return fmt.Errorf("income stream %d (%s) validation failed: %w", i, s.Name, err)
		}
	}
	last := plan.StartYear + plan.Years - 1
	for i, adj := range plan.Adjustments {
		if adj.Year < plan.StartYear || adj.Year > last {
			return fmt.Errorf("adjustment %d (%s): year %d is outside the projection %d-%d", i, adj.Description, adj.Year, plan.StartYear, last)
		}
	}
	if err := ip.validateSpending(&plan.Spending); err != nil {
		return fmt.Errorf("spending validation failed: %w", err)
	}
	if err := ip.validateTax(&plan.Tax); err != nil {
		return fmt.Errorf("tax validation failed: %w", err)
	}
	if err := ip.validateMarket(&plan.Market); err != nil {
		return fmt.Errorf("market validation failed: %w", err)
	}
	if err := ip.validateStrategy(&plan.Strategy); err != nil {
		return fmt.Errorf("strategy validation failed: %w", err)
	}
	return nil
}

// validateHousehold validates the people in the plan
func (ip *InputParser) validateHousehold(plan *domain.PlanInput) error {
	h := plan.Household
	if len(h.People) == 0 {
		return fmt.Errorf("at least one person is required")
	}
	if len(h.People) > 2 {
		return fmt.Errorf("at most two people are supported, got %d", len(h.People))
	}
	if h.Married && len(h.People) != 2 {
		return fmt.Errorf("a married household needs exactly two people")
	}

	seen := map[string]bool{}
	for i, p := range h.People {
		if p.ID == "" {
			return fmt.Errorf("person %d: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate person id %q", p.ID)
		}
		seen[p.ID] = true
		if p.BirthYear <= 0 || p.BirthYear > plan.StartYear {
			return fmt.Errorf("person %s: birth year %d must be before the start year", p.ID, p.BirthYear)
		}
		if p.LifeExpectancy < 0 {
			return fmt.Errorf("person %s: life expectancy cannot be negative", p.ID)
		}
		if p.LifeExpectancy > 0 && p.BirthYear+p.LifeExpectancy < plan.StartYear {
			return fmt.Errorf("person %s: life expectancy %d ends before the start year", p.ID, p.LifeExpectancy)
		}
	}
	return nil
}

func isAccountType(t domain.AccountType) bool {
	switch t {
	case domain.AccountTaxable, domain.AccountTaxDeferred, domain.AccountDeferredComp, domain.AccountRoth:
		return true
	}
	return false
}

// validateAccounts validates balances, ownership and allocation targets
func (ip *InputParser) validateAccounts(plan *domain.PlanInput) error {
	seen := map[string]bool{}
	targetSum := decimal.Zero
	targets := 0

	for _, a := range plan.Accounts {
		if a.ID == "" {
			return fmt.Errorf("account id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		seen[a.ID] = true

		if !isAccountType(a.Type) {
			return fmt.Errorf("account %s: unknown type %q", a.ID, a.Type)
		}
		if a.Owner != "" {
			if _, ok := plan.Household.Person(a.Owner); !ok {
				return fmt.Errorf("account %s: owner %q is not in the household", a.ID, a.Owner)
			}
		} else if a.Type == domain.AccountTaxDeferred || a.Type == domain.AccountDeferredComp {
			return fmt.Errorf("account %s: %s accounts need an owner", a.ID, a.Type)
		}
		if a.Balance.LessThan(decimal.Zero) {
			return fmt.Errorf("account %s: balance cannot be negative", a.ID)
		}
		if a.CostBasis.LessThan(decimal.Zero) {
			return fmt.Errorf("account %s: cost basis cannot be negative", a.ID)
		}
		if a.Type == domain.AccountTaxable && a.CostBasis.GreaterThan(a.Balance) {
			return fmt.Errorf("account %s: cost basis %s exceeds balance %s", a.ID, a.CostBasis, a.Balance)
		}
		if a.FeePct.LessThan(decimal.Zero) {
			return fmt.Errorf("account %s: fee cannot be negative", a.ID)
		}
		if a.ExpectedReturnPct.LessThanOrEqual(hundred.Neg()) {
			return fmt.Errorf("account %s: expected return must be above -100%%", a.ID)
		}

		if a.Type == domain.AccountDeferredComp {
			if a.DeferredComp == nil {
				return fmt.Errorf("account %s: deferred compensation needs a distribution schedule", a.ID)
			}
			if a.DeferredComp.Years < 1 {
				return fmt.Errorf("account %s: distribution schedule needs at least one year", a.ID)
			}
		} else if a.DeferredComp != nil {
			return fmt.Errorf("account %s: only deferredComp accounts take a distribution schedule", a.ID)
		}

		if a.TargetAllocationPct != nil {
			if a.TargetAllocationPct.LessThan(decimal.Zero) || a.TargetAllocationPct.GreaterThan(hundred) {
				return fmt.Errorf("account %s: target allocation must be between 0 and 100", a.ID)
			}
			targetSum = targetSum.Add(*a.TargetAllocationPct)
			targets++
		}
	}

	if targets > 0 && !targetSum.Equal(hundred) {
		return fmt.Errorf("target allocations must sum to 100, got %s", targetSum)
	}
	return nil
}

func isIncomeKind(k domain.IncomeKind) bool {
	switch k {
	case domain.IncomeSocialSecurity, domain.IncomePension, domain.IncomeAnnuity, domain.IncomeWages,
		domain.IncomeSelfEmployment, domain.IncomeRental, domain.IncomeInterest, domain.IncomeDividends, domain.IncomeOther:
		return true
	}
	return false
}

// validateIncomeStream validates a single income stream
func (ip *InputParser) validateIncomeStream(plan *domain.PlanInput, s *domain.IncomeStream) error {
	if !isIncomeKind(s.Kind) {
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	if s.AnnualAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if s.Owner != "" {
		if _, ok := plan.Household.Person(s.Owner); !ok {
			return fmt.Errorf("owner %q is not in the household", s.Owner)
		}
	} else if s.Kind == domain.IncomeSocialSecurity || s.StartAge > 0 {
		return fmt.Errorf("an owner is required")
	}
	if s.StartAge < 0 {
		return fmt.Errorf("start age cannot be negative")
	}
	if s.StartYear > 0 && s.EndYear > 0 && s.EndYear < s.StartYear {
		return fmt.Errorf("end year %d is before start year %d", s.EndYear, s.StartYear)
	}
	if err := percent("survivor percent", s.SurvivorPct); err != nil {
		return err
	}
	if err := percent("qualified percent", s.QualifiedPct); err != nil {
		return err
	}
	if s.TaxablePct != nil {
		if err := percent("taxable percent", *s.TaxablePct); err != nil {
			return err
		}
	}
	return nil
}

// validateSpending validates the spending target and guardrails
func (ip *InputParser) validateSpending(sp *domain.SpendingPlan) error {
	if sp.BaseTargetAnnualSpend.LessThan(decimal.Zero) {
		return fmt.Errorf("base target annual spend cannot be negative")
	}
	if sp.SurvivorSpendingAdjustmentPct != nil {
		if err := percent("survivor spending adjustment", *sp.SurvivorSpendingAdjustmentPct); err != nil {
			return err
		}
	}

	g := sp.Guardrails
	if !g.Enabled {
		return nil
	}
	if g.FloorAnnualSpend.LessThan(decimal.Zero) {
		return fmt.Errorf("guardrail floor cannot be negative")
	}
	if !g.FloorAnnualSpend.LessThan(sp.BaseTargetAnnualSpend) {
		return fmt.Errorf("guardrail floor %s must be below the target %s", g.FloorAnnualSpend, sp.BaseTargetAnnualSpend)
	}
	if !g.CeilingAnnualSpend.GreaterThan(sp.BaseTargetAnnualSpend) {
		return fmt.Errorf("guardrail ceiling %s must be above the target %s", g.CeilingAnnualSpend, sp.BaseTargetAnnualSpend)
	}
	if g.CeilingMultiple.LessThan(decimal.Zero) {
		return fmt.Errorf("ceiling multiple cannot be negative")
	}
	return percent("max withdrawal rate", g.MaxWithdrawalRatePct)
}

// validateTax validates the tax model and rates
func (ip *InputParser) validateTax(tax *domain.TaxConfig) error {
	switch tax.Model {
	case "", domain.TaxModelBrackets, domain.TaxModelEffective:
	default:
		return fmt.Errorf("tax model must be 'brackets' or 'effective', got %q", tax.Model)
	}
	if err := percent("effective federal rate", tax.EffectiveFederalRatePct); err != nil {
		return err
	}
	if err := percent("state rate", tax.StateRatePct); err != nil {
		return err
	}
	if err := percent("initial effective rate", tax.InitialEffectiveRatePct); err != nil {
		return err
	}
	if tax.SurvivorFilingYears != nil && *tax.SurvivorFilingYears < 0 {
		return fmt.Errorf("survivor filing years cannot be negative")
	}
	if it := tax.Itemized; it != nil {
		if it.StateAndLocalTaxes.IsNegative() || it.MedicalExpenses.IsNegative() || it.MortgageInterest.IsNegative() || it.Charitable.IsNegative() {
			return fmt.Errorf("itemized deductions cannot be negative")
		}
	}
	return nil
}

// validateMarket validates the market mode and its parameters
func (ip *InputParser) validateMarket(m *domain.MarketConfig) error {
	if m.InflationPct.LessThan(decimal.NewFromInt(-10)) {
		return fmt.Errorf("inflation cannot be less than -10%% (extreme deflation)")
	}
	switch m.Mode {
	case "", domain.MarketDeterministic, domain.MarketHistorical:
	case domain.MarketStress:
		if m.Scenario != "" {
			if _, err := market.LookupStressPreset(m.Scenario); err != nil {
				return err
			}
		}
	case domain.MarketMonteCarlo:
		mc := m.MonteCarlo
		if mc.Runs < 0 {
			return fmt.Errorf("monte carlo runs cannot be negative")
		}
		if mc.ReturnStdDevPct.IsNegative() || mc.InflationStdDevPct.IsNegative() {
			return fmt.Errorf("monte carlo standard deviations cannot be negative")
		}
		if mc.Workers < 0 {
			return fmt.Errorf("monte carlo workers cannot be negative")
		}
	default:
		return fmt.Errorf("market mode must be 'deterministic', 'historical', 'stress' or 'monteCarlo', got %q", m.Mode)
	}
	return nil
}

// validateStrategy validates withdrawal order and rebalancing settings
func (ip *InputParser) validateStrategy(s *domain.StrategyConfig) error {
	if s.WithdrawalOrder != "" {
		valid := false
		for _, o := range domain.WithdrawalOrders {
			if o == s.WithdrawalOrder {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("withdrawal order must be one of %v, got %q", domain.WithdrawalOrders, s.WithdrawalOrder)
		}
	}
	if s.TargetBracketPct != 0 && !federalRatesPct[s.TargetBracketPct] {
		return fmt.Errorf("target bracket %d%% is not a federal bracket rate", s.TargetBracketPct)
	}
	switch s.Rebalancing {
	case "", domain.RebalanceNone, domain.RebalanceAnnual, domain.RebalanceQuarterly:
	default:
		return fmt.Errorf("rebalancing must be 'none', 'annual' or 'quarterly', got %q", s.Rebalancing)
	}
	return nil
}

func percent(name string, v decimal.Decimal) error {
	if v.LessThan(decimal.Zero) || v.GreaterThan(hundred) {
		return fmt.Errorf("%s must be between 0 and 100, got %s", name, v)
	}
	return nil
}
