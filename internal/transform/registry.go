package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PlanTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("withdrawal_order", createSetWithdrawalOrder)
	registry.Register("target_bracket", createSetTargetBracket)
	registry.Register("rebalancing", createSetRebalancing)
	registry.Register("scale_spending", createScaleSpending)
	registry.Register("guardrails", createSetGuardrails)
	registry.Register("survivor_spending", createSetSurvivorSpending)
	registry.Register("inflation", createModifyInflation)
	registry.Register("stress", createSetStressScenario)
	registry.Register("index_brackets", createSetBracketIndexing)
	registry.Register("life_expectancy", createSetLifeExpectancy)
	registry.Register("delay_ss", createDelaySocialSecurity)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PlanTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "life_expectancy:person=alex,age=78"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PlanTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func required(params map[string]string, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}
	return v, nil
}

func intParam(params map[string]string, key string) (int, error) {
	v, err := required(params, key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func decimalParam(params map[string]string, key string) (decimal.Decimal, error) {
	v, err := required(params, key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolParam(params map[string]string, key string) (bool, error) {
	v, err := required(params, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// Factory functions for each transform

func createSetWithdrawalOrder(params map[string]string) (PlanTransform, error) {
	order, err := required(params, "order")
	if err != nil {
		return nil, err
	}
	return &SetWithdrawalOrder{Order: domain.WithdrawalOrder(order)}, nil
}

func createSetTargetBracket(params map[string]string) (PlanTransform, error) {
	rate, err := intParam(params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetTargetBracket{RatePct: rate}, nil
}

func createSetRebalancing(params map[string]string) (PlanTransform, error) {
	freq, err := required(params, "frequency")
	if err != nil {
		return nil, err
	}
	return &SetRebalancing{Frequency: domain.RebalanceFrequency(freq)}, nil
}

func createScaleSpending(params map[string]string) (PlanTransform, error) {
	pct, err := decimalParam(params, "pct")
	if err != nil {
		return nil, err
	}
	return &ScaleSpending{Pct: pct}, nil
}

func createSetGuardrails(params map[string]string) (PlanTransform, error) {
	enabled, err := boolParam(params, "enabled")
	if err != nil {
		return nil, err
	}
	return &SetGuardrails{Enabled: enabled}, nil
}

func createSetSurvivorSpending(params map[string]string) (PlanTransform, error) {
	pct, err := decimalParam(params, "pct")
	if err != nil {
		return nil, err
	}
	return &SetSurvivorSpending{Pct: pct}, nil
}

func createModifyInflation(params map[string]string) (PlanTransform, error) {
	pct, err := decimalParam(params, "pct")
	if err != nil {
		return nil, err
	}
	return &ModifyInflation{NewPct: pct}, nil
}

func createSetStressScenario(params map[string]string) (PlanTransform, error) {
	preset, err := required(params, "preset")
	if err != nil {
		return nil, err
	}
	return &SetStressScenario{Preset: preset}, nil
}

func createSetBracketIndexing(params map[string]string) (PlanTransform, error) {
	enabled, err := boolParam(params, "enabled")
	if err != nil {
		return nil, err
	}
	return &SetBracketIndexing{Enabled: enabled}, nil
}

func createSetLifeExpectancy(params map[string]string) (PlanTransform, error) {
	person, err := required(params, "person")
	if err != nil {
		return nil, err
	}
	age, err := intParam(params, "age")
	if err != nil {
		return nil, err
	}
	return &SetLifeExpectancy{Person: person, Age: age}, nil
}

func createDelaySocialSecurity(params map[string]string) (PlanTransform, error) {
	person, err := required(params, "person")
	if err != nil {
		return nil, err
	}
	age, err := intParam(params, "age")
	if err != nil {
		return nil, err
	}
	return &DelaySocialSecurity{Person: person, NewAge: age}, nil
}
