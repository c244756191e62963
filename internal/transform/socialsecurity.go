package transform

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// delayedCreditPct is the Social Security delayed retirement credit per year.
var delayedCreditPct = decimal.NewFromInt(8)

// DelaySocialSecurity moves a person's Social Security start age later.
// Each year of delay raises the benefit by the 8% delayed retirement credit,
// up to age 70.
type DelaySocialSecurity struct {
	Person string
	NewAge int
}

func (d *DelaySocialSecurity) Name() string { return "delay_social_security" }

func (d *DelaySocialSecurity) Description() string {
	return fmt.Sprintf("Delay %s's Social Security to age %d", d.Person, d.NewAge)
}

func (d *DelaySocialSecurity) Validate(base *domain.PlanInput) error {
	if err := requirePlan(d.Name(), base); err != nil {
		return err
	}
	if d.Person == "" {
		return NewTransformError(d.Name(), "validate", "person id cannot be empty", nil)
	}
	if d.NewAge < 62 || d.NewAge > 70 {
		return NewTransformError(d.Name(), "validate", fmt.Sprintf("SS start age must be between 62 and 70, got %d", d.NewAge), nil)
	}
	s := ssStream(base, d.Person)
	if s == nil {
		return NewTransformError(d.Name(), "validate", fmt.Sprintf("%s has no age-based Social Security stream", d.Person), nil)
	}
	if d.NewAge < s.StartAge {
		return NewTransformError(d.Name(), "validate", fmt.Sprintf("new age %d is earlier than the current start age %d", d.NewAge, s.StartAge), nil)
	}
	return nil
}

func (d *DelaySocialSecurity) Apply(base *domain.PlanInput) (*domain.PlanInput, error) {
	modified := copyPlan(base)
	s := ssStream(modified, d.Person)
	if s == nil {
		return nil, NewTransformError(d.Name(), "apply", fmt.Sprintf("%s has no age-based Social Security stream", d.Person), nil)
	}
	years := decimal.NewFromInt(int64(d.NewAge - s.StartAge))
	credit := decimal.NewFromInt(1).Add(years.Mul(delayedCreditPct).Div(decimal.NewFromInt(100)))
	s.AnnualAmount = s.AnnualAmount.Mul(credit)
	s.StartAge = d.NewAge
	return modified, nil
}

func ssStream(plan *domain.PlanInput, person string) *domain.IncomeStream {
	for i := range plan.IncomeStreams {
		s := &plan.IncomeStreams[i]
		if s.Kind == domain.IncomeSocialSecurity && s.Owner == person && s.StartAge > 0 {
			return s
		}
	}
	return nil
}
