package scenes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

var resultColumns = []table.Column{
	{Title: "Year", Width: 6},
	{Title: "Filing", Width: 18},
	{Title: "Spend", Width: 10},
	{Title: "SS", Width: 10},
	{Title: "Withdrawn", Width: 10},
	{Title: "Tax", Width: 9},
	{Title: "Eff.Rate", Width: 8},
	{Title: "Shortfall", Width: 10},
	{Title: "Portfolio", Width: 10},
}

// ResultsModel shows the year-by-year projection as a scrollable table,
// with the selected year's detail below it.
type ResultsModel struct {
	result *domain.PlanResult
	table  table.Model
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	t := table.New(table.WithColumns(resultColumns), table.WithFocused(true), table.WithHeight(12))
	styles := table.DefaultStyles()
	styles.Header = tuistyles.TableHeaderStyle
	styles.Selected = tuistyles.TableSelectedStyle
	t.SetStyles(styles)
	return &ResultsModel{table: t}
}

// SetResult loads a simulation result into the table
func (m *ResultsModel) SetResult(result *domain.PlanResult) {
	m.result = result
	rows := make([]table.Row, 0, len(result.Yearly))
	for _, y := range result.Yearly {
		rows = append(rows, yearRow(y))
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func yearRow(y domain.YearResult) table.Row {
	filing := string(y.FilingStatus)
	if y.SurvivorPhase {
		filing += "*"
	}
	return table.Row{
		strconv.Itoa(y.Year),
		filing,
		tuistyles.FormatCompact(y.ActualSpend),
		tuistyles.FormatCompact(y.SocialSecurity),
		tuistyles.FormatCompact(y.TotalWithdrawals),
		tuistyles.FormatCompact(y.TotalTax),
		output.FormatRate(y.EffectiveRate),
		tuistyles.FormatCompact(y.Shortfall),
		tuistyles.FormatCompact(y.TotalPortfolio),
	}
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(5, height-16))
}

// Selected returns the highlighted year, if any
func (m *ResultsModel) Selected() (domain.YearResult, bool) {
	if m.result == nil || len(m.result.Yearly) == 0 {
		return domain.YearResult{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(m.result.Yearly) {
		return domain.YearResult{}, false
	}
	return m.result.Yearly[i], true
}

// Update forwards navigation keys to the table
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return "No results to display.\n\nThe plan is still being simulated."
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Year-by-Year Projection") +
		"  " + tuistyles.SubtitleStyle.Render("* survivor phase")
	parts := []string{header, m.table.View()}
	if y, ok := m.Selected(); ok {
		parts = append(parts, renderYearDetail(y))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderYearDetail(y domain.YearResult) string {
	label := tuistyles.MetricLabelStyle.Render
	lines := []string{
		fmt.Sprintf("%s %s   %s %s", label("Ages:"), agesText(y.Ages), label("Target spend:"), output.FormatCurrency(y.TargetSpend)),
		fmt.Sprintf("%s %s   %s %s   %s %s", label("RMD:"), output.FormatCurrency(y.RMD),
			label("Realized gains:"), output.FormatCurrency(y.RealizedGains), label("Taxable income:"), output.FormatCurrency(y.TaxableIncome)),
		fmt.Sprintf("%s %s   %s %s", label("Federal:"), output.FormatCurrency(y.FederalTax), label("State:"), output.FormatCurrency(y.StateTax)),
	}
	if y.CeilingApplied {
		lines = append(lines, tuistyles.InfoStyle.Render("Spending capped at the guardrail ceiling"))
	}
	if y.FloorApplied {
		lines = append(lines, tuistyles.InfoStyle.Render("Spending cut to the guardrail floor"))
	}
	if !y.Converged {
		lines = append(lines, tuistyles.ErrorStyle.Render(fmt.Sprintf("Solver did not converge (%d iterations)", y.Iterations)))
	}
	return tuistyles.BorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func agesText(ages map[string]int) string {
	ids := make([]string, 0, len(ages))
	for id := range ages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s %d", id, ages[id])
	}
	return strings.Join(parts, ", ")
}
