package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// ParameterSlider displays an adjustable plan parameter as a bar. A slider
// with Labels picks one of a fixed set of choices; Value is then the index.
type ParameterSlider struct {
	Label       string
	Value       float64
	Initial     float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // e.g. "%", " years"
	Format      string // e.g. "%.0f"
	Labels      []string
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider over [min, max] moving by step
func NewParameterSlider(label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.0f",
		Width:  30,
	}
	p.SetValue(value)
	p.Initial = p.Value
	return p
}

// NewChoiceSlider creates a slider over a list of named choices
func NewChoiceSlider(label string, choices []string, selected int) *ParameterSlider {
	p := NewParameterSlider(label, float64(selected), 0, float64(max(len(choices)-1, 0)), 1)
	p.Labels = choices
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// WithDescription adds a help line under the bar
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment increases the value by one step, stopping at Max
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement decreases the value by one step, stopping at Min
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value, clamped to [Min, Max]. Values are rounded to the
// step so repeated steps do not drift.
func (p *ParameterSlider) SetValue(value float64) {
	if p.Step > 0 {
		value = p.Min + math.Round((value-p.Min)/p.Step)*p.Step
	}
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Changed reports whether the value has moved from where it started
func (p *ParameterSlider) Changed() bool {
	return p.Value != p.Initial
}

// Reset moves the value back to where it started
func (p *ParameterSlider) Reset() {
	p.Value = p.Initial
}

// Int returns the value rounded to an integer
func (p *ParameterSlider) Int() int {
	return int(math.Round(p.Value))
}

// Choice returns the selected label of a choice slider
func (p *ParameterSlider) Choice() string {
	i := p.Int()
	if i < 0 || i >= len(p.Labels) {
		return ""
	}
	return p.Labels[i]
}

// Percentage returns the value's position in the range, 0 to 1
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) format(v float64) string {
	if len(p.Labels) > 0 {
		i := int(math.Round(v))
		if i >= 0 && i < len(p.Labels) {
			return p.Labels[i]
		}
		return ""
	}
	return fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the styled slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.format(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(fmt.Sprintf("%s  ─  %s", p.format(p.Min), p.format(p.Max))))

	if p.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Description))
	}
	return content.String()
}

func (p *ParameterSlider) renderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	filled = max(0, min(filled, p.Width))
	empty := max(p.Width-filled, 0)

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")
	return bar.String()
}

// RenderCompact returns a single-line label, value and mini bar
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	const width = 10
	filled := int(math.Round(float64(width) * p.Percentage()))
	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == filled:
			bar.WriteString(tuistyles.SliderThumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(tuistyles.SliderThumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")

	return fmt.Sprintf("%s %s %s", labelStyle.Render(p.Label+":"), valueStyle.Render(p.format(p.Value)), bar.String())
}
