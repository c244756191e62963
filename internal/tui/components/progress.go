package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
)

// ProgressBar shows a count out of a total as a filled bar, e.g. the batch
// runs that ended without a shortfall.
type ProgressBar struct {
	Current     int
	Total       int
	Width       int
	Label       string
	Unit        string
	ShowPercent bool
	ShowCount   bool
}

// NewProgressBar creates a new progress bar
func NewProgressBar(current, total int) *ProgressBar {
	return &ProgressBar{
		Current:     current,
		Total:       total,
		Width:       40,
		ShowPercent: true,
		ShowCount:   true,
	}
}

// WithLabel sets the label shown above the bar
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithUnit names what is counted, e.g. "runs"
func (p *ProgressBar) WithUnit(unit string) *ProgressBar {
	p.Unit = unit
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Percentage returns Current as a percentage of Total
func (p *ProgressBar) Percentage() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// IsComplete reports whether Current has reached Total
func (p *ProgressBar) IsComplete() bool {
	return p.Total > 0 && p.Current >= p.Total
}

// Render returns the styled progress bar
func (p *ProgressBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(p.Label))
		content.WriteString("\n")
	}

	percentage := p.Percentage()
	filled := min(int(float64(p.Width)*percentage/100), p.Width)
	empty := p.Width - filled

	barColor := tuistyles.ColorSuccess
	if percentage < 75 {
		barColor = tuistyles.ColorDanger
	}
	content.WriteString("[")
	if filled > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", empty)))
	}
	content.WriteString("]")

	var stats []string
	if p.ShowPercent {
		stats = append(stats, lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(fmt.Sprintf("%.1f%%", percentage)))
	}
	if p.ShowCount {
		count := fmt.Sprintf("%d/%d", p.Current, p.Total)
		if p.Unit != "" {
			count += " " + p.Unit
		}
		stats = append(stats, lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(count))
	}
	if len(stats) > 0 {
		content.WriteString(" ")
		content.WriteString(strings.Join(stats, " • "))
	}
	return content.String()
}
