package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTaxableSS(t *testing.T) {
	tests := []struct {
		name     string
		ss       int64
		other    int64
		status   domain.FilingStatus
		expected string
	}{
		{"below lower threshold", 20000, 10000, domain.FilingMFJ, "0.00"},
		{"between thresholds", 20000, 30000, domain.FilingMFJ, "4000.00"},
		{"above upper threshold", 40000, 60000, domain.FilingMFJ, "34000.00"},
		{"survivor uses joint thresholds", 40000, 60000, domain.FilingSurvivor, "34000.00"},
		{"single between thresholds", 20000, 20000, domain.FilingSingle, "2500.00"},
		{"single above upper threshold", 20000, 30000, domain.FilingSingle, "9600.00"},
		{"unknown status taxed as single", 20000, 20000, domain.FilingStatus("hoh"), "2500.00"},
		{"no benefits", 0, 100000, domain.FilingMFJ, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTaxableSS(decimal.NewFromInt(tt.ss), decimal.NewFromInt(tt.other), tt.status)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestComputeTaxableSSProperties(t *testing.T) {
	limit := decimal.NewFromFloat(0.85)
	for _, status := range []domain.FilingStatus{domain.FilingMFJ, domain.FilingSingle} {
		for ss := int64(0); ss <= 80000; ss += 5000 {
			prev := decimal.Zero
			for other := int64(0); other <= 200000; other += 2500 {
				ssd := decimal.NewFromInt(ss)
				got := ComputeTaxableSS(ssd, decimal.NewFromInt(other), status)
				assert.True(t, got.LessThanOrEqual(ssd.Mul(limit)), "ss=%d other=%d exceeds 85%%", ss, other)
				assert.True(t, got.GreaterThanOrEqual(prev), "not monotonic in other income at ss=%d other=%d", ss, other)
				prev = got
			}
		}
		for other := int64(0); other <= 100000; other += 10000 {
			prev := decimal.Zero
			for ss := int64(0); ss <= 80000; ss += 2000 {
				got := ComputeTaxableSS(decimal.NewFromInt(ss), decimal.NewFromInt(other), status)
				assert.True(t, got.GreaterThanOrEqual(prev), "not monotonic in benefits at ss=%d other=%d", ss, other)
				prev = got
			}
		}
	}
}

func TestSurvivorBenefit(t *testing.T) {
	assert.True(t, SurvivorBenefit(decimal.NewFromInt(18000), decimal.NewFromInt(30000)).Equal(decimal.NewFromInt(30000)))
	assert.True(t, SurvivorBenefit(decimal.NewFromInt(30000), decimal.NewFromInt(18000)).Equal(decimal.NewFromInt(30000)))
}
