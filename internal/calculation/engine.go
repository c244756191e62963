package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/rgehrsitz/rpsim/internal/sequencing"
	"github.com/shopspring/decimal"
)

// Engine runs retirement simulations. An Engine holds no per-run state and
// may be shared by concurrent runs.
type Engine struct {
	logger Logger
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.logger = NopLogger{}
		return
	}
	e.logger = l
}

// Run simulates a plan. Deterministic plans run a single path; historical,
// stress and Monte Carlo plans run a batch and return its summary together
// with the yearly detail of the median run.
func (e *Engine) Run(ctx context.Context, plan domain.PlanInput) (*domain.PlanResult, error) {
	plan = plan.WithDefaults()
	provider, err := NewProviderForPlan(plan)
	if err != nil {
		return nil, &SimulationError{Operation: "run", Message: "failed to build market provider", Cause: err}
	}
	if plan.Market.Mode == domain.MarketDeterministic {
		series, err := provider.Path(0)
		if err != nil {
			return nil, &SimulationError{Operation: "run", Message: "failed to build market series", Cause: err}
		}
		return e.RunWithSeries(ctx, plan, series)
	}
	return NewBatchRunner(e, plan.Market.MonteCarlo.Workers).Run(ctx, plan, provider)
}

// NewProviderForPlan builds the market provider for a plan, using the
// plan's balance-weighted expected return as the baseline.
func NewProviderForPlan(plan domain.PlanInput) (market.Provider, error) {
	accounts := make([]*domain.AccountState, len(plan.Accounts))
	for i, a := range plan.Accounts {
		accounts[i] = domain.NewAccountState(a)
	}
	return market.NewProvider(plan.Market, market.Baseline{
		Years:        plan.Years,
		ReturnPct:    ComputeBaselineReturn(accounts),
		InflationPct: plan.Market.InflationPct,
	})
}

// RunWithSeries simulates one path. A nil series uses each account's
// expected return and the plan inflation rate every year. The plan is not
// modified and identical inputs produce identical results.
func (e *Engine) RunWithSeries(ctx context.Context, plan domain.PlanInput, series *market.Series) (*domain.PlanResult, error) {
	plan = plan.WithDefaults()
	if plan.Years <= 0 {
		return nil, &SimulationError{Operation: "run", Message: fmt.Sprintf("projection length must be positive, got %d", plan.Years)}
	}
	if len(plan.Household.People) == 0 {
		return nil, &SimulationError{Operation: "run", Message: "household has no members"}
	}

	state := NewSimulationState(plan, series)
	taxCalc := NewTaxCalculator(plan.Tax)
	strategy := sequencing.CreateStrategy(plan.Strategy.WithdrawalOrder)

	result := &domain.PlanResult{
		PlanName:    plan.Name,
		Mode:        plan.Market.Mode,
		Yearly:      make([]domain.YearResult, 0, plan.Years),
		Assumptions: assumptions(plan, series),
	}

	advanceSurvivorState(state, BuildYearContext(plan, 0))
	for i := 0; i < plan.Years; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		state.YearIndex = i
		yc := BuildYearContext(plan, i)
		if yc.AliveCount() == 0 {
			e.logger.Infof("year %d: no household member alive, projection ends", yc.Year)
			break
		}

		yr := e.simulateYear(state, yc, taxCalc, strategy)
		if !yr.Converged {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%d: tax/withdrawal solver did not converge after %d iterations; last estimate used", yc.Year, yr.Iterations))
		}
		if yr.Shortfall.GreaterThan(decimal.Zero) {
			e.logger.Debugf("year %d: shortfall %s", yc.Year, yr.Shortfall.StringFixed(2))
		}
		result.Yearly = append(result.Yearly, yr)

		advanceSurvivorState(state, BuildYearContext(plan, i+1))
		ApplyReturns(state, i)
	}
	return result, nil
}

// simulateYear runs the per-year pipeline and returns the year's record.
func (e *Engine) simulateYear(state *SimulationState, yc domain.YearContext, tc *TaxCalculator, strategy sequencing.SequencingStrategy) domain.YearResult {
	plan := state.Plan

	mandatory := ComputeMandatoryIncome(state, yc)
	rmd := ComputeRMDs(state, yc)
	spend := ComputeSpendingTarget(state, yc, mandatory.OneTimeExpenses)

	carried := state.PendingCapitalGains
	ti := TaxInputs{
		FilingStatus:        yc.FilingStatus,
		Seniors:             yc.Seniors(),
		InflationMultiplier: state.CumulativeInflation(yc.YearIndex),
	}
	headroom := decimal.Zero
	if plan.Strategy.WithdrawalOrder == domain.OrderTaxOptimized {
		base := BuildTaxableIncome(mandatory, rmd.RmdTotal, sequencing.WithdrawalPlan{}, carried)
		headroom = tc.OrdinaryHeadroom(base, ti, plan.Strategy.TargetBracketPct)
	}

	step := func(estimatedTax decimal.Decimal) (yearAllocation, decimal.Decimal) {
		need := ComputeWithdrawalTarget(spend.ActualSpend, estimatedTax, mandatory, rmd.RmdTotal)
		sources := sequencing.CreateWithdrawalSources(state.Accounts)
		wp := strategy.Plan(sources, sequencing.StrategyContext{NeedAmount: need, OrdinaryHeadroom: headroom})
		income := BuildTaxableIncome(mandatory, rmd.RmdTotal, wp, carried)
		tax := tc.ComputeTaxes(income, ti)
		return yearAllocation{plan: wp, income: income, tax: tax}, tax.TotalTax
	}
	initial := state.PriorEffectiveTaxRate.Mul(spend.ActualSpend)
	solved := Converge(step, initial, ConvergenceOptions{})
	if !solved.Converged {
		e.logger.Warnf("year %d: solver did not converge after %d iterations", yc.Year, solved.Iterations)
	}

	tax := solved.Result.tax
	withdrawals := ApplyWithdrawals(state, solved.Result.plan)
	net := ComputeNetSpendable(state, spend, mandatory, rmd.RmdTotal, withdrawals, tax)
	rebalance := Rebalance(state.Accounts, plan.Strategy.Rebalancing)

	state.PendingCapitalGains = rebalance.RealizedGains
	if spend.ActualSpend.GreaterThan(decimal.Zero) {
		state.PriorEffectiveTaxRate = tax.TotalTax.Div(spend.ActualSpend)
	}

	yr := domain.YearResult{
		Year:              yc.Year,
		YearIndex:         yc.YearIndex,
		Ages:              yc.Ages,
		FilingStatus:      yc.FilingStatus,
		SurvivorPhase:     yc.SurvivorPhase,
		SurvivorYearCount: yc.SurvivorYearCount,

		TargetSpend:    spend.TargetSpend,
		ActualSpend:    spend.ActualSpend,
		CeilingApplied: spend.CeilingApplied,
		FloorApplied:   spend.FloorApplied,

		SocialSecurity:  mandatory.SocialSecurity,
		TaxableSS:       tax.TaxableSS,
		PensionAndOther: mandatory.Cash().Sub(mandatory.SocialSecurity).Sub(mandatory.NQDC).Sub(mandatory.Adjustments),
		NQDC:            mandatory.NQDC,
		Adjustments:     mandatory.Adjustments,
		OneTimeExpenses: mandatory.OneTimeExpenses,
		RMD:             rmd.RmdTotal,
		RMDByAccount:    rmd.ByAccount,

		Withdrawals:         withdrawals.ByAccount,
		TotalWithdrawals:    withdrawals.Total,
		RothWithdrawals:     withdrawals.RothWithdrawals,
		RealizedGains:       withdrawals.RealizedGains,
		PriorRebalanceGains: carried,
		RebalanceGains:      rebalance.RealizedGains,

		GrossIncome:    tax.GrossIncome,
		OrdinaryIncome: tax.OrdinaryIncome,
		TaxableIncome:  tax.TaxableIncome,
		Deduction:      tax.Deduction,
		FederalTax:     tax.FederalTax,
		StateTax:       tax.StateTax,
		TotalTax:       tax.TotalTax,
		EffectiveRate:  tax.EffectiveRate,

		NetSpendable: net.NetSpendable,
		Shortfall:    net.Shortfall,
		Surplus:      net.Surplus,

		Converged:  solved.Converged,
		Iterations: solved.Iterations,

		EndingBalances:  make(map[string]decimal.Decimal, len(state.Accounts)),
		EndingCostBasis: make(map[string]decimal.Decimal, len(state.Accounts)),
	}
	for _, a := range state.Accounts {
		yr.EndingBalances[a.ID] = a.Balance
		yr.EndingCostBasis[a.ID] = a.CostBasis
		yr.TotalPortfolio = yr.TotalPortfolio.Add(a.Balance)
	}
	return yr
}

// advanceSurvivorState records the first death in a couple and rolls the
// deceased spouse's accounts over to the survivor.
func advanceSurvivorState(state *SimulationState, next domain.YearContext) {
	if !next.SurvivorPhase || state.DeathYearIndex >= 0 {
		return
	}
	state.DeathYearIndex = next.YearIndex
	state.SurvivorID = next.SurvivorID
	state.DeceasedID = deceasedSpouse(state.Plan, next)
	for _, a := range state.Accounts {
		if a.Owner == state.DeceasedID {
			a.Owner = state.SurvivorID
		}
	}
}

func assumptions(plan domain.PlanInput, series *market.Series) []string {
	out := []string{
		fmt.Sprintf("Projection: %d years starting %d", plan.Years, plan.StartYear),
		fmt.Sprintf("Withdrawal order: %s", plan.Strategy.WithdrawalOrder),
		fmt.Sprintf("Tax model: %s (2025 federal tables", plan.Tax.Model) + indexedNote(plan.Tax.IndexBracketsToInflation) + ")",
		fmt.Sprintf("Survivor filing status for %d years after a spouse's death, then single", plan.Tax.SurvivorYears()),
		"Ending balances are reported before the year's investment returns",
		"Rebalancing gains are taxed in the following year",
	}
	if series != nil && series.Name != "" {
		out = append(out, fmt.Sprintf("Market series: %s", series.Name))
	} else {
		out = append(out, fmt.Sprintf("Market: expected account returns, %s%% inflation", plan.Market.InflationPct.StringFixed(2)))
	}
	if plan.Strategy.Rebalancing == domain.RebalanceQuarterly {
		out = append(out, "Quarterly rebalancing is modeled as one annual pass")
	}
	return out
}

func indexedNote(indexed bool) string {
	if indexed {
		return ", indexed to inflation"
	}
	return ", not indexed"
}
