package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/tui/components"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// HomeModel is the dashboard: who is in the plan, what they own, and the
// headline numbers of the last run.
type HomeModel struct {
	plan   *domain.PlanInput
	result *domain.PlanResult
	width  int
	height int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetPlan updates the plan
func (m *HomeModel) SetPlan(plan *domain.PlanInput) {
	m.plan = plan
}

// SetResult updates the simulation result
func (m *HomeModel) SetResult(result *domain.PlanResult) {
	m.result = result
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	if m.plan == nil {
		return tuistyles.BorderStyle.Render("Loading plan...")
	}

	sections := []string{
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(planTitle(m.plan)),
		m.renderHousehold(),
		m.renderAccounts(),
	}
	if m.result != nil {
		sections = append(sections, m.renderMetrics())
		chartHeight := 8
		if m.height > 40 {
			chartHeight = 12
		}
		sections = append(sections, components.NewPortfolioChart("Year-end portfolio", m.result.Yearly).WithHeight(chartHeight).Render())
	} else {
		sections = append(sections, tuistyles.InfoStyle.Render("Running simulation..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(sections, "\n\n"))
}

func planTitle(plan *domain.PlanInput) string {
	name := plan.Name
	if name == "" {
		name = "Unnamed plan"
	}
	return fmt.Sprintf("%s  (%d-%d)", name, plan.StartYear, plan.StartYear+plan.Years-1)
}

func (m *HomeModel) renderHousehold() string {
	var sb strings.Builder
	sb.WriteString(tuistyles.MetricLabelStyle.Render("Household"))
	for _, p := range m.plan.Household.People {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		line := fmt.Sprintf("\n  %s  born %d, age %d at start", name, p.BirthYear, m.plan.StartYear-p.BirthYear)
		if p.LifeExpectancy > 0 {
			line += fmt.Sprintf(", planned to age %d", p.LifeExpectancy)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func (m *HomeModel) renderAccounts() string {
	var sb strings.Builder
	sb.WriteString(tuistyles.MetricLabelStyle.Render("Accounts"))
	for _, a := range m.plan.Accounts {
		sb.WriteString(fmt.Sprintf("\n  %-14s %-13s %-8s %14s", a.ID, a.Type, a.Owner, output.FormatCurrency(a.Balance)))
	}
	return sb.String()
}

func (m *HomeModel) renderMetrics() string {
	s := output.Summarize(m.result)
	cards := []*components.MetricCard{
		components.NewMetricCard("Terminal Portfolio", tuistyles.FormatCompact(s.TerminalValue)),
		components.NewMetricCard("Lifetime Taxes", tuistyles.FormatCompact(s.TotalTaxes)),
		components.NewMetricCard("Average Tax Rate", output.FormatRate(s.AverageTaxRate)),
		components.NewMetricCard("Shortfall Years", fmt.Sprintf("%d", s.ShortfallYears)).
			WithDescription(tuistyles.FormatCompact(s.TotalShortfall) + " unmet"),
	}
	if s.Batch != nil {
		cards = append(cards, components.NewMetricCard("Success Probability", output.FormatRate(s.Batch.SuccessProbability)).
			WithDescription(fmt.Sprintf("%d runs", s.Batch.Runs)))
	}
	columns := 4
	if m.width > 0 && m.width < 110 {
		columns = 2
	}
	grid := components.MetricGrid(cards, columns)
	if s.Batch == nil || s.Batch.Runs == 0 {
		return grid
	}
	succeeded := int(s.Batch.SuccessProbability.Mul(decimal.NewFromInt(int64(s.Batch.Runs))).Round(0).IntPart())
	bar := components.NewProgressBar(succeeded, s.Batch.Runs).WithLabel("Runs without a shortfall").WithUnit("runs")
	return grid + "\n\n" + bar.Render()
}
