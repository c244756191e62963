package components

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMetricCard_Delta(t *testing.T) {
	card := NewMetricCard("Lifetime Taxes", "$200.0K").WithDelta(decimal.NewFromInt(-5000), false)
	if assert.NotNil(t, card.Delta) {
		assert.True(t, card.Delta.Good, "lower taxes are favorable")
		assert.False(t, card.Delta.Up)
		assert.Equal(t, "$5.0K", card.Delta.Change)
	}

	out := card.RenderCompact()
	assert.Contains(t, out, "Lifetime Taxes:")
	assert.Contains(t, out, "$5.0K")

	assert.Nil(t, NewMetricCard("x", "y").WithDelta(decimal.Zero, true).Delta)
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 2))
	cards := []*MetricCard{NewMetricCard("A", "1"), NewMetricCard("B", "2"), NewMetricCard("C", "3")}
	out := MetricGrid(cards, 2)
	for _, want := range []string{"A", "B", "C"} {
		assert.Contains(t, out, want)
	}
}

func TestPortfolioChart_Levels(t *testing.T) {
	yearly := []domain.YearResult{
		{Year: 2025, TotalPortfolio: decimal.NewFromInt(1000)},
		{Year: 2026, TotalPortfolio: decimal.NewFromInt(500)},
		{Year: 2027, TotalPortfolio: decimal.Zero, Shortfall: decimal.NewFromInt(10)},
	}
	c := NewPortfolioChart("Portfolio", yearly).WithHeight(4)
	assert.Equal(t, []int{4, 2, 0}, c.Levels())

	out := c.Render()
	assert.Contains(t, out, "Portfolio")
	assert.Contains(t, out, "2025")
	assert.Contains(t, out, "2027")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

func TestPortfolioChart_Empty(t *testing.T) {
	assert.Contains(t, NewPortfolioChart("", nil).Render(), "No data")
}

func TestParameterSlider_StepsAndBounds(t *testing.T) {
	s := NewParameterSlider("Inflation", 2.5, 0, 10, 0.5).WithUnit("%").WithFormat("%.1f")
	assert.False(t, s.Changed())

	s.SetValue(3.3)
	assert.Equal(t, 3.5, s.Value)
	s.SetValue(12)
	assert.Equal(t, 10.0, s.Value)
	s.Increment()
	assert.Equal(t, 10.0, s.Value)
	s.SetValue(-3)
	assert.Equal(t, 0.0, s.Value)
	s.Decrement()
	assert.Equal(t, 0.0, s.Value)
	assert.True(t, s.Changed())

	s.Reset()
	assert.Equal(t, 2.5, s.Value)
	assert.InDelta(t, 0.25, s.Percentage(), 1e-9)

	out := s.SetFocused(true).Render()
	assert.Contains(t, out, "Inflation")
	assert.Contains(t, out, "2.5%")
	assert.Contains(t, out, "0.0%  ─  10.0%")
	assert.Contains(t, s.RenderCompact(), "Inflation:")
}

func TestParameterSlider_Choices(t *testing.T) {
	s := NewChoiceSlider("Order", []string{"taxableFirst", "proRata", "taxOptimized"}, 1)
	assert.Equal(t, "proRata", s.Choice())

	s.Increment()
	s.Increment()
	assert.Equal(t, "taxOptimized", s.Choice())
	assert.Equal(t, 1.0, s.Percentage())
	assert.Contains(t, s.Render(), "taxOptimized")

	empty := NewChoiceSlider("None", nil, 0)
	assert.Equal(t, "", empty.Choice())
	assert.Equal(t, 0.0, empty.Percentage())
}

func TestProgressBar(t *testing.T) {
	bar := NewProgressBar(900, 1000).WithLabel("Runs without a shortfall").WithUnit("runs").WithWidth(20)
	assert.InDelta(t, 90.0, bar.Percentage(), 1e-9)
	assert.False(t, bar.IsComplete())

	out := bar.Render()
	assert.Contains(t, out, "Runs without a shortfall")
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "900/1000 runs")
	assert.Equal(t, 18, strings.Count(out, "█"))

	assert.True(t, NewProgressBar(5, 5).IsComplete())
	zero := NewProgressBar(0, 0)
	assert.False(t, zero.IsComplete())
	assert.Equal(t, 0.0, zero.Percentage())
}
