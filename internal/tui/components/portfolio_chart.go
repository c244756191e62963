package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// PortfolioChart draws one column per projection year, scaled to the
// largest year-end portfolio. Shortfall years are drawn in the danger color.
type PortfolioChart struct {
	Title  string
	Height int
	years  []int
	values []decimal.Decimal
	short  []bool
}

// NewPortfolioChart builds a chart from a result's yearly records.
func NewPortfolioChart(title string, yearly []domain.YearResult) *PortfolioChart {
	c := &PortfolioChart{Title: title, Height: 10}
	for _, y := range yearly {
		c.years = append(c.years, y.Year)
		c.values = append(c.values, y.TotalPortfolio)
		c.short = append(c.short, y.Shortfall.IsPositive())
	}
	return c
}

// WithHeight sets the number of rows in the plot area
func (c *PortfolioChart) WithHeight(h int) *PortfolioChart {
	c.Height = h
	return c
}

// Levels returns the filled height of each column, 0..Height.
func (c *PortfolioChart) Levels() []int {
	peak := decimal.Zero
	for _, v := range c.values {
		if v.GreaterThan(peak) {
			peak = v
		}
	}
	levels := make([]int, len(c.values))
	if !peak.IsPositive() || c.Height <= 0 {
		return levels
	}
	h := decimal.NewFromInt(int64(c.Height))
	for i, v := range c.values {
		if !v.IsPositive() {
			continue
		}
		l := int(v.Mul(h).Div(peak).Ceil().IntPart())
		levels[i] = min(l, c.Height)
	}
	return levels
}

// Render returns the styled chart
func (c *PortfolioChart) Render() string {
	if len(c.values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	levels := c.Levels()
	okStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSecondary)
	shortStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorDanger)
	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		sb.WriteString("\n")
	}

	peak := decimal.Zero
	for _, v := range c.values {
		peak = decimal.Max(peak, v)
	}
	label := tuistyles.FormatCompact(peak)
	pad := strings.Repeat(" ", len(label))

	for row := c.Height; row >= 1; row-- {
		if row == c.Height {
			sb.WriteString(axisStyle.Render(label))
		} else {
			sb.WriteString(pad)
		}
		sb.WriteString(axisStyle.Render(" │"))
		for i, l := range levels {
			cell := " "
			if l >= row {
				cell = "█"
				if c.short[i] {
					cell = shortStyle.Render(cell)
				} else {
					cell = okStyle.Render(cell)
				}
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(pad + axisStyle.Render(" └"+strings.Repeat("─", len(levels))) + "\n")
	first, last := itoa(c.years[0]), itoa(c.years[len(c.years)-1])
	gap := max(1, len(levels)-len(first)-len(last)+2)
	sb.WriteString(pad + "  " + axisStyle.Render(first+strings.Repeat(" ", gap)+last))
	return sb.String()
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}
