package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGetRmdStartAge(t *testing.T) {
	tests := []struct {
		birthYear int
		expected  int
	}{
		{1945, 72},
		{1950, 72},
		{1951, 73},
		{1959, 73},
		{1960, 75},
		{1975, 75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetRmdStartAge(tt.birthYear), "birth year %d", tt.birthYear)
	}
}

func TestLookupDistributionPeriod(t *testing.T) {
	for age := 0; age < 72; age++ {
		assert.True(t, LookupDistributionPeriod(age).IsZero(), "age %d", age)
	}
	for _, age := range []int{121, 125, 150} {
		assert.True(t, LookupDistributionPeriod(age).Equal(decimal.NewFromFloat(2.0)), "age %d", age)
	}

	tabulated := map[int]float64{72: 27.4, 73: 26.5, 75: 24.6, 80: 20.2, 85: 16.0, 90: 12.2, 95: 8.9, 100: 6.4, 110: 3.5, 120: 2.0}
	for age, want := range tabulated {
		assert.True(t, LookupDistributionPeriod(age).Equal(decimal.NewFromFloat(want)), "age %d: got %s", age, LookupDistributionPeriod(age))
	}
}

func TestLookupDistributionPeriodIsDecreasing(t *testing.T) {
	for age := 73; age <= 120; age++ {
		assert.True(t, LookupDistributionPeriod(age).LessThan(LookupDistributionPeriod(age-1)), "age %d", age)
	}
}

func TestCalculateRMD(t *testing.T) {
	rmd := CalculateRMD(decimal.NewFromInt(500000), 75, 1950)
	assert.Equal(t, "20325.20", rmd.StringFixed(2))

	// Not yet at the start age for someone born in 1955
	assert.True(t, CalculateRMD(decimal.NewFromInt(500000), 72, 1955).IsZero())
	assert.False(t, CalculateRMD(decimal.NewFromInt(500000), 73, 1955).IsZero())

	assert.True(t, CalculateRMD(decimal.Zero, 80, 1940).IsZero())
	assert.True(t, CalculateRMD(decimal.NewFromInt(-10), 80, 1940).IsZero())
}
