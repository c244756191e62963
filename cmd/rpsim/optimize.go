package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rpsim/internal/breakeven"
	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [plan-file]",
		Short: "Search for the best spending, claim age or withdrawal order",
		Long: `Search plan parameters for the best outcome.

Targets:
  spending          highest base spending without a shortfall year
                    (batch plans: at least --min-success success probability)
  ss_age            best Social Security claiming age for --person
  withdrawal_order  best withdrawal order
  all               every target, compared side by side

Examples:
  rpsim optimize plan.yaml --target spending
  rpsim optimize plan.yaml --target ss_age --person alex --goal minimize_taxes
  rpsim optimize plan.yaml --target all --person alex --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if err := applyTransformFlags(cmd, plan); err != nil {
				return err
			}

			target, _ := cmd.Flags().GetString("target")
			goal, _ := cmd.Flags().GetString("goal")
			format, _ := cmd.Flags().GetString("format")
			constraints, err := constraintsFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			solver := breakeven.NewDefaultSolver(newEngine(cmd))
			table := &breakeven.TableFormatter{}
			js := &breakeven.JSONFormatter{Pretty: true}
			out := cmd.OutOrStdout()

			if breakeven.OptimizationTarget(target) == breakeven.OptimizeAll {
				goals := []breakeven.OptimizationGoal{breakeven.GoalMaximizeTerminal, breakeven.GoalMinimizeTaxes}
				if goal != "" {
					goals = []breakeven.OptimizationGoal{breakeven.OptimizationGoal(goal)}
				}
				result, err := solver.OptimizeMultiDimensional(ctx, plan, constraints, goals)
				if err != nil {
					return fmt.Errorf("optimization failed: %w", err)
				}
				if strings.EqualFold(format, "json") {
					s, err := js.FormatMultiDimensional(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, s)
					return nil
				}
				fmt.Fprint(out, table.FormatMultiDimensional(result))
				return nil
			}

			result, err := solver.Optimize(ctx, breakeven.OptimizationRequest{
				Plan:        plan,
				Target:      breakeven.OptimizationTarget(target),
				Goal:        breakeven.OptimizationGoal(goal),
				Constraints: constraints,
			})
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			if strings.EqualFold(format, "json") {
				s, err := js.Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprint(out, table.Format(result))
			return nil
		},
	}
	cmd.Flags().String("target", string(breakeven.OptimizeSpending), "What to optimize (spending, ss_age, withdrawal_order, all)")
	cmd.Flags().String("goal", "", "Outcome to optimize for (maximize_terminal, minimize_taxes, minimize_shortfall)")
	cmd.Flags().String("person", "", "Household member whose Social Security claim age is optimized")
	cmd.Flags().Float64("min-spend", 0, "Lower bound of the spending search")
	cmd.Flags().Float64("max-spend", 0, "Upper bound of the spending search")
	cmd.Flags().Float64("min-success", 0.9, "Required success probability for batch plans")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringSlice("transform", nil, "Apply a transform before optimizing (repeatable)")
	cmd.Flags().Bool("debug", false, "Enable debug logging of the simulation")
	return cmd
}

func constraintsFromFlags(cmd *cobra.Command) (breakeven.Constraints, error) {
	person, _ := cmd.Flags().GetString("person")
	c := breakeven.DefaultConstraints(person)
	if cmd.Flags().Changed("min-spend") {
		v, _ := cmd.Flags().GetFloat64("min-spend")
		d := decimal.NewFromFloat(v)
		c.MinSpend = &d
	}
	if cmd.Flags().Changed("max-spend") {
		v, _ := cmd.Flags().GetFloat64("max-spend")
		d := decimal.NewFromFloat(v)
		c.MaxSpend = &d
	}
	if cmd.Flags().Changed("min-success") {
		v, _ := cmd.Flags().GetFloat64("min-success")
		d := decimal.NewFromFloat(v)
		c.MinSuccessRate = &d
	}
	return c, c.Validate()
}
