package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/rgehrsitz/rpsim/internal/tui/components"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

var (
	keyLeft       = key.NewBinding(key.WithKeys("left"))
	keyRight      = key.NewBinding(key.WithKeys("right"))
	keyNextPerson = key.NewBinding(key.WithKeys("tab"))
	keyPrevPerson = key.NewBinding(key.WithKeys("shift+tab"))
	keySave       = key.NewBinding(key.WithKeys("ctrl+s"))
)

// ParametersModel adjusts a few plan parameters with sliders and turns the
// adjustments into transforms, so the loaded plan file is never edited in
// place.
type ParametersModel struct {
	plan      *domain.PlanInput
	spending  *components.ParameterSlider
	inflation *components.ParameterSlider
	order     *components.ParameterSlider
	claimAges map[string]*components.ParameterSlider
	people    []string // members with an age-based Social Security stream
	person    int
	focused   int
	status    string
	width     int
	height    int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{claimAges: map[string]*components.ParameterSlider{}}
}

// SetPlan builds the sliders from the plan's current values
func (m *ParametersModel) SetPlan(plan *domain.PlanInput) {
	m.plan = plan
	m.person = 0
	m.focused = 0
	m.status = ""
	m.people = nil
	m.claimAges = map[string]*components.ParameterSlider{}
	if plan == nil {
		return
	}

	m.spending = components.NewParameterSlider("Spending", 100, 50, 150, 5).
		WithUnit("% of target").
		WithWidth(40).
		WithDescription("Base spending target, guardrail floor and ceiling scale together")
	m.inflation = components.NewParameterSlider("Inflation", plan.Market.InflationPct.InexactFloat64(), 0, 10, 0.5).
		WithUnit("%").
		WithFormat("%.1f").
		WithWidth(40).
		WithDescription("Expected annual inflation")

	orders := make([]string, len(domain.WithdrawalOrders))
	current := 0
	for i, o := range domain.WithdrawalOrders {
		orders[i] = string(o)
		if o == plan.Strategy.WithdrawalOrder {
			current = i
		}
	}
	m.order = components.NewChoiceSlider("Withdrawal order", orders, current).
		WithWidth(40).
		WithDescription("Which accounts are drawn first")

	for _, s := range plan.IncomeStreams {
		if s.Kind != domain.IncomeSocialSecurity || s.StartAge <= 0 || s.StartAge >= 70 {
			continue
		}
		if _, seen := m.claimAges[s.Owner]; seen {
			continue
		}
		m.people = append(m.people, s.Owner)
		m.claimAges[s.Owner] = components.NewParameterSlider("Social Security claim age", float64(s.StartAge), float64(max(s.StartAge, 62)), 70, 1).
			WithUnit(" years").
			WithWidth(40).
			WithDescription("Each year of delay adds the 8% delayed retirement credit")
	}
	m.setFocus(0)
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStatus shows a one-line note under the sliders
func (m *ParametersModel) SetStatus(status string) {
	m.status = status
}

// sliders lists the sliders in focus order. The claim age slider belongs to
// the selected person.
func (m *ParametersModel) sliders() []*components.ParameterSlider {
	if m.plan == nil {
		return nil
	}
	out := []*components.ParameterSlider{m.spending, m.inflation, m.order}
	if len(m.people) > 0 {
		out = append(out, m.claimAges[m.people[m.person]])
	}
	return out
}

func (m *ParametersModel) setFocus(i int) {
	sliders := m.sliders()
	if len(sliders) == 0 {
		return
	}
	m.focused = max(0, min(i, len(sliders)-1))
	for j, s := range sliders {
		s.SetFocused(j == m.focused)
	}
}

// Modified reports whether any slider has moved
func (m *ParametersModel) Modified() bool {
	if m.plan == nil {
		return false
	}
	for _, s := range []*components.ParameterSlider{m.spending, m.inflation, m.order} {
		if s.Changed() {
			return true
		}
	}
	for _, s := range m.claimAges {
		if s.Changed() {
			return true
		}
	}
	return false
}

// Transforms converts the moved sliders into plan transforms, in a fixed
// order
func (m *ParametersModel) Transforms() []transform.PlanTransform {
	if m.plan == nil {
		return nil
	}
	var ts []transform.PlanTransform
	if m.spending.Changed() {
		ts = append(ts, &transform.ScaleSpending{Pct: decimal.NewFromInt(int64(m.spending.Int()))})
	}
	if m.inflation.Changed() {
		ts = append(ts, &transform.ModifyInflation{NewPct: decimal.NewFromFloat(m.inflation.Value)})
	}
	if m.order.Changed() {
		ts = append(ts, &transform.SetWithdrawalOrder{Order: domain.WithdrawalOrder(m.order.Choice())})
	}
	for _, id := range m.people {
		if s := m.claimAges[id]; s.Changed() {
			ts = append(ts, &transform.DelaySocialSecurity{Person: id, NewAge: s.Int()})
		}
	}
	return ts
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	sliders := m.sliders()
	if !ok || len(sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		m.setFocus(m.focused - 1)
	case key.Matches(keyMsg, keyDown):
		m.setFocus(m.focused + 1)
	case key.Matches(keyMsg, keyLeft):
		sliders[m.focused].Decrement()
	case key.Matches(keyMsg, keyRight):
		sliders[m.focused].Increment()
	case key.Matches(keyMsg, keyNextPerson):
		if len(m.people) > 0 {
			m.person = (m.person + 1) % len(m.people)
			m.setFocus(m.focused)
		}
	case key.Matches(keyMsg, keyPrevPerson):
		if len(m.people) > 0 {
			m.person = (m.person + len(m.people) - 1) % len(m.people)
			m.setFocus(m.focused)
		}
	case key.Matches(keyMsg, keyClear):
		for _, s := range []*components.ParameterSlider{m.spending, m.inflation, m.order} {
			s.Reset()
		}
		for _, s := range m.claimAges {
			s.Reset()
		}
		m.status = ""
	case key.Matches(keyMsg, keyRun):
		ts := m.Transforms()
		return m, func() tea.Msg { return tuimsg.ParametersAppliedMsg{Transforms: ts} }
	case key.Matches(keyMsg, keySave):
		if !m.Modified() {
			return m, nil
		}
		ts := m.Transforms()
		return m, func() tea.Msg { return tuimsg.SavePlanRequestedMsg{Transforms: ts} }
	}
	return m, nil
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if m.plan == nil {
		return tuistyles.BorderStyle.Render("Loading plan...")
	}

	parts := []string{sceneTitle("Adjust Parameters")}
	if len(m.people) > 1 {
		parts = append(parts, m.renderPersonTabs())
	}

	rendered := make([]string, 0, 4)
	for _, s := range m.sliders() {
		rendered = append(rendered, s.Render())
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 3).
		Render(strings.Join(rendered, "\n\n"))
	parts = append(parts, box)

	if m.Modified() {
		parts = append(parts, tuistyles.InfoStyle.Bold(true).Render("Modified: enter to rerun, ctrl+s to save, backspace to reset"))
	}
	if m.status != "" {
		parts = append(parts, tuistyles.SubtitleStyle.Render(m.status))
	}
	parts = append(parts, tuistyles.SubtitleStyle.Render("↑/↓ choose • ←/→ adjust • tab switch person • enter rerun • ctrl+s save • backspace reset"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *ParametersModel) renderPersonTabs() string {
	normal := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Padding(0, 1)
	selected := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Bold(true).Padding(0, 1).Background(tuistyles.ColorBorder)

	tabs := make([]string, len(m.people))
	for i, id := range m.people {
		if i == m.person {
			tabs[i] = selected.Render(id)
		} else {
			tabs[i] = normal.Render(id)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
