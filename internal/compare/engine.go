package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/transform"
)

// CompareEngine orchestrates plan comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// Templates to apply to the base plan. Empty means one variant per withdrawal order.
	Templates []string
	// Transforms are ad-hoc transform specs ("name:key=value,...") each run as its own variant.
	Transforms []string
	ConfigPath string
}

// Compare runs the base plan and each requested variant.
func (ce *CompareEngine) Compare(ctx context.Context, plan *domain.PlanInput, options CompareOptions) (*ComparisonSet, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}
	ce.TemplateRegistry = transform.CreateBuiltInTemplates(plan)

	baseName := plan.Name
	if baseName == "" {
		baseName = "base"
	}
	baseResult, err := ce.run(ctx, baseName, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}

	templates := options.Templates
	if len(templates) == 0 && len(options.Transforms) == 0 {
		templates = transform.WithdrawalOrderTemplates()
	}

	alternatives := []ComparisonResult{}
	for _, name := range templates {
		tmpl, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found", name)
		}
		variant, err := transform.ApplyTemplate(plan, tmpl)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}
		alt, err := ce.run(ctx, tmpl.Name, variant)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s: %w", name, err)
		}
		alt.Description = tmpl.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	registry := transform.NewTransformRegistry()
	for _, spec := range options.Transforms {
		tr, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		variant, err := transform.ApplyTransforms(plan, []transform.PlanTransform{tr})
		if err != nil {
			return nil, err
		}
		alt, err := ce.run(ctx, spec, variant)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate %s: %w", spec, err)
		}
		alt.Description = tr.Description()
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(alt, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

// CompareWithdrawalOrders runs the plan once per withdrawal order.
func (ce *CompareEngine) CompareWithdrawalOrders(ctx context.Context, plan *domain.PlanInput) (*ComparisonSet, error) {
	return ce.Compare(ctx, plan, CompareOptions{Templates: transform.WithdrawalOrderTemplates()})
}

func (ce *CompareEngine) run(ctx context.Context, name string, plan *domain.PlanInput) (ComparisonResult, error) {
	result, err := ce.CalcEngine.Run(ctx, *plan)
	if err != nil {
		return ComparisonResult{}, err
	}
	order := plan.WithDefaults().Strategy.WithdrawalOrder
	return ce.MetricsCalculator.CalculateMetrics(name, order, result), nil
}
