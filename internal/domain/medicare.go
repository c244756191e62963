package domain

import (
	"github.com/shopspring/decimal"
)

// IRMAARisk classifies a year's income against the Medicare surcharge thresholds.
type IRMAARisk string

const (
	IRMAARiskSafe    IRMAARisk = "safe"
	IRMAARiskWarning IRMAARisk = "warning"
	IRMAARiskBreach  IRMAARisk = "breach"
)

// IRMAAYear is the surcharge exposure created by one simulated year's income.
// PremiumYear is the year the surcharge is billed (two years later).
type IRMAAYear struct {
	Year                int             `json:"year"`
	PremiumYear         int             `json:"premiumYear"`
	MAGI                decimal.Decimal `json:"magi"`
	Threshold           decimal.Decimal `json:"threshold"`
	DistanceToThreshold decimal.Decimal `json:"distanceToThreshold"`
	Risk                IRMAARisk       `json:"risk"`
	Tier                int             `json:"tier"`
	Beneficiaries       int             `json:"beneficiaries"`
	MonthlySurcharge    decimal.Decimal `json:"monthlySurcharge"`
	AnnualCost          decimal.Decimal `json:"annualCost"`
}

// IRMAAAnalysis summarizes surcharge exposure across a projection.
type IRMAAAnalysis struct {
	BreachYears     []int           `json:"breachYears"`
	WarningYears    []int           `json:"warningYears"`
	FirstBreachYear int             `json:"firstBreachYear"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	Years           []IRMAAYear     `json:"years"`
}

// HasExposure reports whether any year breached or came close to a threshold.
func (a *IRMAAAnalysis) HasExposure() bool {
	return a != nil && (len(a.BreachYears) > 0 || len(a.WarningYears) > 0)
}
