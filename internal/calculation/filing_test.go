package calculation

import (
	"testing"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDeriveSurvivorFilingStatus(t *testing.T) {
	tests := []struct {
		count    int
		years    int
		expected domain.FilingStatus
	}{
		{1, -1, domain.FilingSurvivor},
		{2, -1, domain.FilingSurvivor},
		{3, -1, domain.FilingSingle},
		{4, -1, domain.FilingSingle},
		{0, -1, domain.FilingSingle},
		{1, 0, domain.FilingSingle},
		{3, 3, domain.FilingSurvivor},
		{4, 3, domain.FilingSingle},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveSurvivorFilingStatus(tt.count, tt.years), "count %d years %d", tt.count, tt.years)
	}
	assert.Equal(t, 2, DefaultSurvivorFilingYears)
}

func TestDeriveFilingStatus(t *testing.T) {
	couple := domain.Household{Married: true, People: []domain.Person{{ID: "a"}, {ID: "b"}}}
	single := domain.Household{People: []domain.Person{{ID: "a"}}}

	assert.Equal(t, domain.FilingMFJ, DeriveFilingStatus(couple, false, 0, 2))
	assert.Equal(t, domain.FilingSurvivor, DeriveFilingStatus(couple, true, 1, 2))
	assert.Equal(t, domain.FilingSingle, DeriveFilingStatus(couple, true, 3, 2))
	assert.Equal(t, domain.FilingSingle, DeriveFilingStatus(single, false, 0, 2))
}
