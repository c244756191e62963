package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in plan templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []PlanTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// orderTemplates maps each withdrawal order to its template name.
var orderTemplates = []struct {
	name  string
	order domain.WithdrawalOrder
	desc  string
}{
	{"taxable_first", domain.OrderTaxableFirst, "Draw taxable accounts first, then tax-deferred, then Roth"},
	{"tax_deferred_first", domain.OrderTaxDeferredFirst, "Draw tax-deferred accounts first, then taxable, then Roth"},
	{"pro_rata", domain.OrderProRata, "Draw from every account in proportion to its balance"},
	{"tax_optimized", domain.OrderTaxOptimized, "Fill the target ordinary bracket from tax-deferred, then taxable, then Roth"},
}

// WithdrawalOrderTemplates returns the template names that switch the
// withdrawal order, in the canonical order.
func WithdrawalOrderTemplates() []string {
	names := make([]string, len(orderTemplates))
	for i, t := range orderTemplates {
		names[i] = t.name
	}
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if
// variations of a plan. Person-specific templates are added for each
// household member they apply to.
func CreateBuiltInTemplates(plan *domain.PlanInput) *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, t := range orderTemplates {
		registry.Register(Template{
			Name:        t.name,
			Description: t.desc,
			Transforms:  []PlanTransform{&SetWithdrawalOrder{Order: t.order}},
		})
	}
	registry.Register(Template{
		Name:        "tax_optimized_12",
		Description: "Tax-optimized order filling only the 12% bracket",
		Transforms: []PlanTransform{
			&SetWithdrawalOrder{Order: domain.OrderTaxOptimized},
			&SetTargetBracket{RatePct: 12},
		},
	})

	registry.Register(Template{
		Name:        "spend_less_10",
		Description: "Spend 10% less than the base target",
		Transforms:  []PlanTransform{&ScaleSpending{Pct: decimal.NewFromInt(90)}},
	})
	registry.Register(Template{
		Name:        "spend_more_10",
		Description: "Spend 10% more than the base target",
		Transforms:  []PlanTransform{&ScaleSpending{Pct: decimal.NewFromInt(110)}},
	})
	registry.Register(Template{
		Name:        "no_guardrails",
		Description: "Spend the inflation-adjusted target regardless of portfolio size",
		Transforms:  []PlanTransform{&SetGuardrails{Enabled: false}},
	})

	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Assume 4% annual inflation",
		Transforms:  []PlanTransform{&ModifyInflation{NewPct: decimal.NewFromInt(4)}},
	})
	registry.Register(Template{
		Name:        "index_brackets",
		Description: "Index tax brackets and deductions to inflation",
		Transforms:  []PlanTransform{&SetBracketIndexing{Enabled: true}},
	})
	for _, p := range market.StressPresets {
		registry.Register(Template{
			Name:        "stress_" + strings.ReplaceAll(p.Name, "-", "_"),
			Description: p.Description,
			Transforms:  []PlanTransform{&SetStressScenario{Preset: p.Name}},
		})
	}

	if plan == nil {
		return registry
	}
	for _, person := range plan.Household.People {
		if s := ssStream(plan, person.ID); s != nil && s.StartAge < 70 {
			registry.Register(Template{
				Name:        "delay_ss_70_" + person.ID,
				Description: fmt.Sprintf("Delay %s's Social Security to age 70", person.ID),
				Transforms:  []PlanTransform{&DelaySocialSecurity{Person: person.ID, NewAge: 70}},
			})
		}
		if plan.Household.IsCouple() {
			age := plan.StartYear - person.BirthYear + 5
			registry.Register(Template{
				Name:        "early_death_" + person.ID,
				Description: fmt.Sprintf("%s dies at age %d, five years into the plan", person.ID, age),
				Transforms:  []PlanTransform{&SetLifeExpectancy{Person: person.ID, Age: age}},
			})
		}
	}
	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base *domain.PlanInput, template Template) (*domain.PlanInput, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Withdrawal Order", "Spending", "Market & Tax", "Household"}
	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		var cat string
		switch {
		case strings.HasPrefix(name, "tax_") || name == "taxable_first" || name == "pro_rata":
			cat = "Withdrawal Order"
		case strings.HasPrefix(name, "spend_") || name == "no_guardrails":
			cat = "Spending"
		case strings.HasPrefix(name, "delay_ss_") || strings.HasPrefix(name, "early_death_"):
			cat = "Household"
		default:
			cat = "Market & Tax"
		}
		categories[cat] = append(categories[cat], t)
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  rpsim compare plan.yaml --with tax_optimized,spend_less_10\n")
	sb.WriteString("  rpsim compare plan.yaml            # every withdrawal order\n")

	return sb.String()
}
