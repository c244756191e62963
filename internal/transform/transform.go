package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// PlanTransform derives a variant of a plan, for what-if comparison and
// parameter search.
type PlanTransform interface {
	// Apply returns a modified copy. The base plan is left unchanged.
	Apply(base *domain.PlanInput) (*domain.PlanInput, error)

	// Name is the transform identifier, e.g. "set_withdrawal_order".
	Name() string

	Description() string

	// Validate checks the parameters against a plan without applying them.
	Validate(base *domain.PlanInput) error
}

// ApplyTransforms runs transforms in order, each against the previous
// result. Validation and apply failures come back as *TransformError
// naming the step. With no transforms it returns a copy of base.
func ApplyTransforms(base *domain.PlanInput, transforms []PlanTransform) (*domain.PlanInput, error) {
	if base == nil {
		return nil, NewTransformError("chain", "validate", "base plan cannot be nil", nil)
	}

	current := copyPlan(base)
	for i, t := range transforms {
		if t == nil {
			return nil, NewTransformError("chain", "validate", fmt.Sprintf("transform at index %d is nil", i), nil)
		}
		if err := t.Validate(current); err != nil {
			return nil, NewTransformError(t.Name(), "validate", fmt.Sprintf("step %d of %d", i+1, len(transforms)), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return nil, NewTransformError(t.Name(), "apply", fmt.Sprintf("step %d of %d", i+1, len(transforms)), err)
		}
		current = next
	}
	return current, nil
}

// Describe joins the descriptions of a transform chain, in order.
func Describe(transforms []PlanTransform) string {
	parts := make([]string, 0, len(transforms))
	for _, t := range transforms {
		if t != nil {
			parts = append(parts, t.Description())
		}
	}
	return strings.Join(parts, "; ")
}

// TransformError reports a transform that could not be validated or applied.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func copyPlan(base *domain.PlanInput) *domain.PlanInput {
	cp := base.DeepCopy()
	return &cp
}

func requirePlan(name string, base *domain.PlanInput) error {
	if base == nil {
		return NewTransformError(name, "validate", "base plan cannot be nil", nil)
	}
	return nil
}
