package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// SetLifeExpectancy sets the last age a household member is alive.
// This is used for survivor analysis.
type SetLifeExpectancy struct {
	Person string // household member id
	Age    int
}

func (s *SetLifeExpectancy) Name() string { return "set_life_expectancy" }

func (s *SetLifeExpectancy) Description() string {
	return fmt.Sprintf("Set %s's life expectancy to age %d", s.Person, s.Age)
}

func (s *SetLifeExpectancy) Validate(base *domain.PlanInput) error {
	if err := requirePlan(s.Name(), base); err != nil {
		return err
	}
	if s.Person == "" {
		return NewTransformError(s.Name(), "validate", "person id cannot be empty", nil)
	}
	p, ok := base.Household.Person(s.Person)
	if !ok {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("person %s not found in household", s.Person), nil)
	}
	if age := base.StartYear - p.BirthYear; s.Age < age {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("life expectancy %d is below %s's age %d at the start of the plan", s.Age, s.Person, age), nil)
	}
	if s.Age > 120 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("life expectancy must not exceed 120, got %d", s.Age), nil)
	}
	return nil
}

func (s *SetLifeExpectancy) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	for i := range modified.Household.People {
		if modified.Household.People[i].ID == s.Person {
			modified.Household.People[i].LifeExpectancy = s.Age
		}
	}
	return modified, nil
}
