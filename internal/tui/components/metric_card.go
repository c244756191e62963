package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single plan metric with an optional change versus
// a reference value.
type MetricCard struct {
	Label       string
	Value       string
	Delta       *Delta
	Description string
	Width       int
}

// Delta is a signed change. Good reports whether the change is favorable,
// which for taxes and shortfalls is the opposite of its sign.
type Delta struct {
	Good   bool
	Up     bool
	Change string
}

// NewMetricCard creates a card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// WithDelta attaches a dollar change. higherIsBetter decides its color.
func (m *MetricCard) WithDelta(change decimal.Decimal, higherIsBetter bool) *MetricCard {
	if change.IsZero() {
		return m
	}
	up := change.IsPositive()
	m.Delta = &Delta{
		Good:   up == higherIsBetter,
		Up:     up,
		Change: tuistyles.FormatCompact(change.Abs()),
	}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the bordered card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" +
		tuistyles.MetricValueStyle.Render(m.Value)

	if m.Delta != nil {
		content += "\n" + m.renderDelta()
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns an inline "label: value" form without a border
func (m *MetricCard) RenderCompact() string {
	out := tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Delta != nil {
		out += " " + m.renderDelta()
	}
	return out
}

func (m *MetricCard) renderDelta() string {
	return tuistyles.MetricTrendStyle(m.Delta.Good).
		Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Delta.Up), m.Delta.Change))
}

// MetricGrid lays cards out in rows of the given width.
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 || columns <= 0 {
		return ""
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
