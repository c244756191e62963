package calculation

import (
	"github.com/rgehrsitz/rpsim/internal/domain"
)

// IsAlive reports whether a person is alive in a calendar year. A person is
// alive through the year they reach LifeExpectancy; zero means always alive.
func IsAlive(p domain.Person, year int) bool {
	return p.LifeExpectancy == 0 || year-p.BirthYear <= p.LifeExpectancy
}

// firstYearDeceased is the first calendar year a person is no longer alive.
func firstYearDeceased(p domain.Person) int {
	return p.BirthYear + p.LifeExpectancy + 1
}

// BuildYearContext derives the facts of one simulated year from the plan.
func BuildYearContext(plan domain.PlanInput, yearIndex int) domain.YearContext {
	year := plan.StartYear + yearIndex
	yc := domain.YearContext{
		Year:      year,
		YearIndex: yearIndex,
		Ages:      make(map[string]int, len(plan.Household.People)),
		Alive:     make(map[string]bool, len(plan.Household.People)),
	}
	for _, p := range plan.Household.People {
		yc.Ages[p.ID] = year - p.BirthYear
		yc.Alive[p.ID] = IsAlive(p, year)
	}

	if plan.Household.IsCouple() && yc.AliveCount() == 1 {
		yc.SurvivorPhase = true
		for _, p := range plan.Household.People {
			if yc.Alive[p.ID] {
				yc.SurvivorID = p.ID
			} else {
				yc.SurvivorYearCount = year - firstYearDeceased(p) + 1
			}
		}
	}
	yc.FilingStatus = DeriveFilingStatus(plan.Household, yc.SurvivorPhase, yc.SurvivorYearCount, plan.Tax.SurvivorYears())
	return yc
}

// deceasedSpouse returns the id of the spouse who died, in survivor phase.
func deceasedSpouse(plan domain.PlanInput, yc domain.YearContext) string {
	if !yc.SurvivorPhase {
		return ""
	}
	for _, p := range plan.Household.People {
		if p.ID != yc.SurvivorID {
			return p.ID
		}
	}
	return ""
}
