package main

import (
	"fmt"

	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [plan-file]",
		Short: "Run a plan across many market paths",
		Long: `Run a plan under a historical, stress or Monte Carlo market and report
the success probability and terminal-value percentiles. The yearly detail
shown is the median run.

Examples:
  rpsim batch plan.yaml --mode monteCarlo --runs 2000 --seed 42
  rpsim batch plan.yaml --mode historical --data-file returns.csv
  rpsim batch plan.yaml --mode stress --scenario early-crash --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if err := applyMarketFlags(cmd, plan); err != nil {
				return err
			}
			if err := applyTransformFlags(cmd, plan); err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			result, err := newEngine(cmd).Run(ctx, *plan)
			if err != nil {
				return err
			}
			return writeResult(cmd, result)
		},
	}
	addReportFlags(cmd)
	cmd.Flags().String("mode", string(domain.MarketMonteCarlo), "Market mode (historical, stress, monteCarlo)")
	cmd.Flags().Int("runs", 0, "Monte Carlo runs (default from the plan, else 1000)")
	cmd.Flags().Int64("seed", 0, "Monte Carlo seed (default from the plan)")
	cmd.Flags().Int("workers", 0, "Concurrent workers (default one per CPU)")
	cmd.Flags().String("scenario", "", "Stress preset; empty runs every preset")
	cmd.Flags().String("data-file", "", "Historical data file (.csv or .yaml); empty uses the built-in series")
	cmd.Flags().StringSlice("transform", nil, "Apply a transform before running (repeatable)")
	return cmd
}

// applyMarketFlags overrides the plan's market settings with batch flags.
func applyMarketFlags(cmd *cobra.Command, plan *domain.PlanInput) error {
	mode, _ := cmd.Flags().GetString("mode")
	switch domain.MarketMode(mode) {
	case domain.MarketHistorical, domain.MarketStress, domain.MarketMonteCarlo:
		plan.Market.Mode = domain.MarketMode(mode)
	case domain.MarketDeterministic:
		return fmt.Errorf("batch needs a multi-path mode; use 'rpsim run' for deterministic plans")
	default:
		return fmt.Errorf("unknown market mode %q (valid: historical, stress, monteCarlo)", mode)
	}

	mc := &plan.Market.MonteCarlo
	if cmd.Flags().Changed("runs") {
		runs, _ := cmd.Flags().GetInt("runs")
		if runs <= 0 {
			return fmt.Errorf("--runs must be positive, got %d", runs)
		}
		mc.Runs = runs
	}
	if cmd.Flags().Changed("seed") {
		mc.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	if cmd.Flags().Changed("workers") {
		mc.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if s, _ := cmd.Flags().GetString("scenario"); s != "" {
		plan.Market.Scenario = s
	}
	if f, _ := cmd.Flags().GetString("data-file"); f != "" {
		plan.Market.DataFile = f
	}
	return config.NewInputParser().ValidatePlan(plan)
}
