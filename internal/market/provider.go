package market

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/domain"
)

// NewProvider builds the provider for a market configuration.
func NewProvider(cfg domain.MarketConfig, b Baseline) (Provider, error) {
	switch cfg.Mode {
	case domain.MarketDeterministic, "":
		return NewDeterministic(cfg.Returns, cfg.Inflation), nil
	case domain.MarketHistorical:
		ds, err := historicalData(cfg)
		if err != nil {
			return nil, err
		}
		return NewHistorical(ds, b.Years)
	case domain.MarketStress:
		return NewStress(cfg.Scenario, b)
	case domain.MarketMonteCarlo:
		return NewMonteCarlo(cfg.MonteCarlo, b)
	default:
		return nil, fmt.Errorf("unknown market mode: %s", cfg.Mode)
	}
}

func historicalData(cfg domain.MarketConfig) (*DataSet, error) {
	if cfg.DataFile != "" {
		ds, err := LoadDataSet(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load historical data: %w", err)
		}
		return ds, nil
	}
	return BuiltinDataSet(cfg.Scenario)
}
