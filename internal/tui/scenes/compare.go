package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpsim/internal/compare"
	"github.com/rgehrsitz/rpsim/internal/tui/tuimsg"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyToggle = key.NewBinding(key.WithKeys(" ", "x"))
	keyRun    = key.NewBinding(key.WithKeys("enter"))
	keyClear  = key.NewBinding(key.WithKeys("backspace", "delete"))
)

var compareColumns = []table.Column{
	{Title: "Variant", Width: 22},
	{Title: "Order", Width: 16},
	{Title: "Terminal", Width: 10},
	{Title: "vs Base", Width: 10},
	{Title: "Taxes", Width: 10},
	{Title: "Short.Yrs", Width: 9},
}

// TemplateOption is one selectable what-if template
type TemplateOption struct {
	Name        string
	Description string
}

// CompareModel lets the user pick templates and shows the comparison of
// each against the base plan.
type CompareModel struct {
	options   []TemplateOption
	selected  map[int]bool
	cursor    int
	comparing bool
	set       *compare.ComparisonSet
	table     table.Model
	width     int
	height    int
}

// NewCompareModel creates a new compare scene model
func NewCompareModel() *CompareModel {
	t := table.New(table.WithColumns(compareColumns), table.WithHeight(8))
	styles := table.DefaultStyles()
	styles.Header = tuistyles.TableHeaderStyle
	styles.Selected = tuistyles.TableSelectedStyle
	t.SetStyles(styles)
	return &CompareModel{selected: make(map[int]bool), table: t}
}

// SetTemplates replaces the selectable templates and clears any selection
func (m *CompareModel) SetTemplates(options []TemplateOption) {
	m.options = options
	m.selected = make(map[int]bool)
	m.cursor = 0
}

// SetComparison stores a finished comparison
func (m *CompareModel) SetComparison(set *compare.ComparisonSet) {
	m.comparing = false
	m.set = set
	if set == nil {
		m.table.SetRows(nil)
		return
	}
	rows := []table.Row{compareRow(*set.BaseResult, true)}
	for _, alt := range set.AlternativeResults {
		rows = append(rows, compareRow(alt, false))
	}
	m.table.SetRows(rows)
}

func compareRow(r compare.ComparisonResult, base bool) table.Row {
	delta := "base"
	if !base {
		delta = tuistyles.FormatCompact(r.TerminalDiffFromBase)
		if r.TerminalDiffFromBase.IsPositive() {
			delta = "+" + delta
		}
	}
	return table.Row{
		r.ScenarioName,
		string(r.WithdrawalOrder),
		tuistyles.FormatCompact(r.TerminalValue),
		delta,
		tuistyles.FormatCompact(r.LifetimeTaxes),
		fmt.Sprintf("%d", r.ShortfallYears),
	}
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the chosen template names in list order
func (m *CompareModel) Selected() []string {
	var names []string
	for i, opt := range m.options {
		if m.selected[i] {
			names = append(names, opt.Name)
		}
	}
	return names
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.comparing {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keyDown):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keyToggle):
		if len(m.options) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case key.Matches(keyMsg, keyClear):
		m.selected = make(map[int]bool)
		m.SetComparison(nil)
	case key.Matches(keyMsg, keyRun):
		// An empty selection compares the withdrawal orders
		m.comparing = true
		templates := m.Selected()
		return m, func() tea.Msg {
			return tuimsg.CompareRequestedMsg{Templates: templates}
		}
	}
	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	parts := []string{title.Render("What-if Templates"), m.renderSelection()}

	switch {
	case m.comparing:
		parts = append(parts, tuistyles.InfoStyle.Render("Comparing..."))
	case m.set != nil:
		parts = append(parts, title.Render("Comparison"), m.table.View())
		if len(m.set.Recommendations) > 0 {
			var sb strings.Builder
			for _, rec := range m.set.Recommendations {
				sb.WriteString("• " + rec + "\n")
			}
			parts = append(parts, strings.TrimRight(sb.String(), "\n"))
		}
	}

	parts = append(parts, tuistyles.SubtitleStyle.Render("↑/↓ move • space select • enter compare (none = withdrawal orders) • backspace clear"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *CompareModel) renderSelection() string {
	if len(m.options) == 0 {
		return tuistyles.InfoStyle.Render("No templates available")
	}
	var sb strings.Builder
	for i, opt := range m.options {
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %-24s %s", check, opt.Name, opt.Description)
		if i == m.cursor {
			sb.WriteString(tuistyles.SelectedItemStyle.Render("> " + line))
		} else {
			sb.WriteString(tuistyles.UnselectedItemStyle.Render("  " + line))
		}
		if i < len(m.options)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
