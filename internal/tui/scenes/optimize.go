package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rpsim/internal/breakeven"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/tui/components"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// OptimizeMode is the step the optimize scene is on
type OptimizeMode int

const (
	ModeSelectTarget OptimizeMode = iota
	ModeSetInput
	ModeShowResults
)

type optimizeTarget struct {
	target      breakeven.OptimizationTarget
	title       string
	description string
	goals       []breakeven.OptimizationGoal
	prompt      string
}

var outcomeGoals = []breakeven.OptimizationGoal{
	breakeven.GoalMaximizeTerminal,
	breakeven.GoalMinimizeTaxes,
	breakeven.GoalMinimizeShortfall,
}

var optimizeTargets = []optimizeTarget{
	{
		target:      breakeven.OptimizeSpending,
		title:       "Sustainable spending",
		description: "highest base spending with no shortfall year",
		goals:       []breakeven.OptimizationGoal{breakeven.GoalSustainSpending},
		prompt:      "Minimum success probability for batch plans (%):",
	},
	{
		target:      breakeven.OptimizeSSAge,
		title:       "Social Security claim age",
		description: "best claiming age between the current one and 70",
		goals:       outcomeGoals,
		prompt:      "Household member whose claim age is searched:",
	},
	{
		target:      breakeven.OptimizeWithdrawalOrder,
		title:       "Withdrawal order",
		description: "best account sequencing",
		goals:       outcomeGoals,
	},
}

var (
	keyGoal = key.NewBinding(key.WithKeys("g"))
	keyNew  = key.NewBinding(key.WithKeys("n"))
)

var hundredPct = decimal.NewFromInt(100)

// OptimizeModel picks a break-even search, collects its one input and shows
// the solver's answer.
type OptimizeModel struct {
	selected   int
	goal       int
	mode       OptimizeMode
	input      textinput.Model
	inputErr   string
	people     []string
	optimizing bool
	result     *breakeven.OptimizationResult
	width      int
	height     int
}

// NewOptimizeModel creates a new optimize scene model
func NewOptimizeModel() *OptimizeModel {
	ti := textinput.New()
	ti.CharLimit = 24
	ti.Width = 24
	return &OptimizeModel{input: ti}
}

// SetPlan records the household members that can be searched and starts over
func (m *OptimizeModel) SetPlan(plan *domain.PlanInput) {
	m.people = m.people[:0]
	if plan != nil {
		for _, p := range plan.Household.People {
			m.people = append(m.people, p.ID)
		}
	}
	m.reset()
}

// SetSize updates the model dimensions
func (m *OptimizeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Mode returns the current step
func (m *OptimizeModel) Mode() OptimizeMode {
	return m.mode
}

// Capturing reports whether the scene is reading typed text, in which case
// the root model must forward every key to it
func (m *OptimizeModel) Capturing() bool {
	return m.mode == ModeSetInput && !m.optimizing
}

// SetResult stores a finished optimization. A nil result, from a failed
// run, returns to target selection.
func (m *OptimizeModel) SetResult(result *breakeven.OptimizationResult) {
	m.optimizing = false
	if result == nil {
		m.reset()
		return
	}
	m.result = result
	m.mode = ModeShowResults
}

func (m *OptimizeModel) reset() {
	m.mode = ModeSelectTarget
	m.result = nil
	m.optimizing = false
	m.inputErr = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *OptimizeModel) current() optimizeTarget {
	return optimizeTargets[m.selected]
}

func (m *OptimizeModel) currentGoal() breakeven.OptimizationGoal {
	goals := m.current().goals
	return goals[m.goal%len(goals)]
}

// Update handles messages for the optimize scene
func (m *OptimizeModel) Update(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	if m.optimizing {
		return m, nil
	}
	switch m.mode {
	case ModeSelectTarget:
		return m.updateTargetSelection(msg)
	case ModeSetInput:
		return m.updateInput(msg)
	case ModeShowResults:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keyNew) {
			m.reset()
		}
	}
	return m, nil
}

func (m *OptimizeModel) updateTargetSelection(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selected > 0 {
			m.selected--
			m.goal = 0
		}
	case key.Matches(keyMsg, keyDown):
		if m.selected < len(optimizeTargets)-1 {
			m.selected++
			m.goal = 0
		}
	case key.Matches(keyMsg, keyGoal):
		m.goal = (m.goal + 1) % len(m.current().goals)
	case key.Matches(keyMsg, keyRun):
		if m.current().prompt == "" {
			return m.start()
		}
		m.mode = ModeSetInput
		m.inputErr = ""
		switch m.current().target {
		case breakeven.OptimizeSpending:
			m.input.SetValue("90")
		case breakeven.OptimizeSSAge:
			if len(m.people) > 0 {
				m.input.SetValue(m.people[0])
			}
		}
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *OptimizeModel) updateInput(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			return m.start()
		case tea.KeyEsc:
			m.reset()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Request builds the solver request from the selection and typed input
func (m *OptimizeModel) Request() (tuimsg.OptimizeRequestedMsg, error) {
	t := m.current()
	req := tuimsg.OptimizeRequestedMsg{Target: t.target, Goal: m.currentGoal()}
	value := strings.TrimSpace(m.input.Value())
	switch t.target {
	case breakeven.OptimizeSpending:
		if value == "" {
			return req, nil
		}
		pct, err := decimal.NewFromString(value)
		if err != nil || pct.IsNegative() || pct.GreaterThan(hundredPct) {
			return req, fmt.Errorf("success probability must be a percentage between 0 and 100, got %q", value)
		}
		rate := pct.Div(hundredPct)
		req.MinSuccessRate = &rate
	case breakeven.OptimizeSSAge:
		if value == "" {
			return req, fmt.Errorf("enter a household member id")
		}
		req.Person = value
	}
	return req, nil
}

func (m *OptimizeModel) start() (*OptimizeModel, tea.Cmd) {
	req, err := m.Request()
	if err != nil {
		m.inputErr = err.Error()
		return m, nil
	}
	m.inputErr = ""
	m.optimizing = true
	m.input.Blur()
	return m, func() tea.Msg { return req }
}

// View renders the optimize scene
func (m *OptimizeModel) View() string {
	if m.optimizing {
		return tuistyles.BorderStyle.Render(
			sceneTitle("Optimizing " + strings.ToLower(m.current().title) + "...") + "\n\n" +
				tuistyles.SubtitleStyle.Render("Each candidate is a full simulation; batch plans take longer."))
	}
	switch m.mode {
	case ModeSetInput:
		return m.renderInput()
	case ModeShowResults:
		return m.renderResults()
	}
	return m.renderTargetSelection()
}

func sceneTitle(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s)
}

func (m *OptimizeModel) renderTargetSelection() string {
	var content strings.Builder
	content.WriteString(sceneTitle("Break-Even Optimizer"))
	content.WriteString("\n\n")
	for i, t := range optimizeTargets {
		line := fmt.Sprintf("%-26s %s", t.title, t.description)
		if i == m.selected {
			content.WriteString(tuistyles.SelectedItemStyle.Render("❯ " + line))
		} else {
			content.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(tuistyles.MetricLabelStyle.Render("Goal: "))
	content.WriteString(string(m.currentGoal()))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("↑/↓ choose • g change goal • enter optimize"))
	return tuistyles.BorderStyle.Render(content.String())
}

func (m *OptimizeModel) renderInput() string {
	var content strings.Builder
	content.WriteString(sceneTitle(m.current().title))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.MetricLabelStyle.Render(m.current().prompt))
	content.WriteString("\n\n")

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorPrimary).
		Padding(0, 1)
	content.WriteString(inputStyle.Render(m.input.View()))
	content.WriteString("\n")
	if m.current().target == breakeven.OptimizeSSAge && len(m.people) > 0 {
		content.WriteString(tuistyles.SubtitleStyle.Render("Members: " + strings.Join(m.people, ", ")))
		content.WriteString("\n")
	}
	if m.inputErr != "" {
		content.WriteString(tuistyles.ErrorStyle.Render(m.inputErr))
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("enter optimize • esc back"))
	return tuistyles.BorderStyle.Render(content.String())
}

func (m *OptimizeModel) renderResults() string {
	r := m.result
	var content strings.Builder
	content.WriteString(sceneTitle("Optimization Results"))
	content.WriteString("\n\n")

	label := tuistyles.MetricLabelStyle
	best := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Bold(true)
	if !r.Success {
		best = tuistyles.ErrorStyle
	}

	content.WriteString(label.Render("Target: "))
	content.WriteString(fmt.Sprintf("%s (%s)\n", r.Request.Target, r.Request.Goal))
	content.WriteString(label.Render("Best: "))
	content.WriteString(best.Render(optimalValue(r)))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(r.ConvergenceInfo))
	content.WriteString("\n\n")

	cards := []*components.MetricCard{
		components.NewMetricCard("Terminal Portfolio", tuistyles.FormatCompact(r.TerminalValue)).
			WithDelta(r.TerminalDiffFromBase, true),
		components.NewMetricCard("Lifetime Taxes", tuistyles.FormatCompact(r.LifetimeTaxes)).
			WithDelta(r.TaxDiffFromBase, false),
		components.NewMetricCard("Shortfall Years", fmt.Sprintf("%d", r.ShortfallYears)).
			WithDescription(tuistyles.FormatCompact(r.TotalShortfall) + " unmet"),
	}
	content.WriteString(components.MetricGrid(cards, 3))

	if r.SuccessProbability != nil && r.Result != nil && r.Result.Summary != nil && r.Result.Summary.Runs > 0 {
		runs := r.Result.Summary.Runs
		succeeded := int(r.SuccessProbability.Mul(decimal.NewFromInt(int64(runs))).Round(0).IntPart())
		content.WriteString("\n\n")
		content.WriteString(components.NewProgressBar(succeeded, runs).WithLabel("Runs without a shortfall").WithUnit("runs").Render())
	}

	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("n new optimization • esc back"))
	return tuistyles.BorderStyle.Render(content.String())
}

func optimalValue(r *breakeven.OptimizationResult) string {
	switch {
	case r.OptimalSpend != nil:
		return output.FormatCurrency(*r.OptimalSpend) + " a year"
	case r.OptimalSSAge != nil:
		return fmt.Sprintf("claim at %d", *r.OptimalSSAge)
	case r.OptimalOrder != nil:
		return string(*r.OptimalOrder)
	}
	return "no feasible value"
}
