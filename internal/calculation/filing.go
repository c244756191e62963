package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
)

// DefaultSurvivorFilingYears is the number of years after a spouse's death
// that the survivor keeps joint-rate ("survivor") filing status. Year three
// and later file single.
const DefaultSurvivorFilingYears = 2

// DeriveSurvivorFilingStatus maps a 1-indexed survivor year count to a filing
// status. A negative survivorYears falls back to DefaultSurvivorFilingYears;
// zero files single from the first survivor year.
func DeriveSurvivorFilingStatus(survivorYearCount, survivorYears int) domain.FilingStatus {
	if survivorYears < 0 {
		survivorYears = DefaultSurvivorFilingYears
	}
	if survivorYearCount >= 1 && survivorYearCount <= survivorYears {
		return domain.FilingSurvivor
	}
	return domain.FilingSingle
}

// DeriveFilingStatus returns the filing status for a year context.
func DeriveFilingStatus(household domain.Household, survivorPhase bool, survivorYearCount, survivorYears int) domain.FilingStatus {
	if !household.IsCouple() {
		return domain.FilingSingle
	}
	if survivorPhase {
		return DeriveSurvivorFilingStatus(survivorYearCount, survivorYears)
	}
	return domain.FilingMFJ
}
