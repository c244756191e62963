package main

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newMarketCmd() *cobra.Command {
	marketCmd := &cobra.Command{
		Use:   "market",
		Short: "Inspect market data sets and stress presets",
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in stress scenarios",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "STRESS SCENARIOS")
			fmt.Fprintln(out, "================")
			for _, p := range market.StressPresets {
				fmt.Fprintf(out, "  %-14s %s (%d shock years)\n", p.Name, p.Description, len(p.ReturnPct))
			}
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats [data-file]",
		Short: "Summarize a historical data set",
		Long:  "Summarize a historical data file (.csv or .yaml), or a built-in data set when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				ds  *market.DataSet
				err error
			)
			if len(args) == 1 {
				ds, err = market.LoadDataSet(args[0])
			} else {
				name, _ := cmd.Flags().GetString("builtin")
				ds, err = market.BuiltinDataSet(name)
			}
			if err != nil {
				return err
			}

			returns := make([]decimal.Decimal, len(ds.Points))
			inflation := make([]decimal.Decimal, len(ds.Points))
			for i, p := range ds.Points {
				returns[i] = p.ReturnPct
				inflation[i] = p.InflationPct
			}
			first, last := ds.YearRange()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data set: %s\n", ds.Name)
			if ds.Description != "" {
				fmt.Fprintf(out, "  %s\n", ds.Description)
			}
			fmt.Fprintf(out, "  Year Range: %d - %d (%d years)\n\n", first, last, len(ds.Points))
			writeStats(cmd, "Annual Return", returns)
			writeStats(cmd, "Inflation", inflation)
			return nil
		},
	}
	statsCmd.Flags().String("builtin", market.DefaultDataSet, "Built-in data set when no file is given")

	marketCmd.AddCommand(presetsCmd, statsCmd)
	return marketCmd
}

func writeStats(cmd *cobra.Command, label string, values []decimal.Decimal) {
	if len(values) == 0 {
		return
	}
	lo, hi, sum := values[0], values[0], decimal.Zero
	for _, v := range values {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
		sum = sum.Add(v)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(values))))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", label)
	fmt.Fprintf(out, "  Mean: %s%%\n", mean.StringFixed(2))
	fmt.Fprintf(out, "  Min:  %s%%\n", lo.StringFixed(2))
	fmt.Fprintf(out, "  Max:  %s%%\n", hi.StringFixed(2))
	fmt.Fprintf(out, "  Years: %s\n\n", strconv.Itoa(len(values)))
}
