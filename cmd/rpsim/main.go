package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/rpsim/internal/calculation"
	"github.com/rgehrsitz/rpsim/internal/compare"
	"github.com/rgehrsitz/rpsim/internal/config"
	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/output"
	"github.com/rgehrsitz/rpsim/internal/server"
	"github.com/rgehrsitz/rpsim/internal/transform"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rpsim",
		Short:         "Household retirement simulator",
		Long:          "Year-by-year retirement projection for a single person or couple: taxes, RMDs, survivor transitions and market scenarios.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRunCmd(),
		newBatchCmd(),
		newValidateCmd(),
		newCompareCmd(),
		newOptimizeCmd(),
		newServeCmd(),
		newMarketCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rpsim %s (commit %s, built %s)\n", version, commit, date)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				if info := buildInfo(); info != "" {
					fmt.Fprintln(cmd.OutOrStdout(), info)
				}
			}
		},
	}
	cmd.Flags().BoolP("verbose", "v", false, "Include module build information")
	return cmd
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// newEngine returns an engine that logs through the CLI logger under --debug.
func newEngine(cmd *cobra.Command) *calculation.Engine {
	engine := calculation.NewEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

// commandContext is cancelled on interrupt so long batches stop cleanly.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// writeResult renders a result with the named formatter to --output, to a
// timestamped file under --save, or to stdout.
func writeResult(cmd *cobra.Command, result *domain.PlanResult) error {
	format, _ := cmd.Flags().GetString("format")
	f := output.GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		filename, err := output.WriteFormatted(f, result, output.FileExtension(f.Name()))
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file in the current directory")
	cmd.Flags().Bool("debug", false, "Enable debug logging of the simulation")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [plan-file]",
		Short: "Simulate a retirement plan",
		Long: `Simulate a plan year by year and print the projection.

Examples:
  rpsim run plan.yaml
  rpsim run plan.yaml --format html --output report.html
  rpsim run plan.yaml --order taxOptimized --format csv
  rpsim run plan.yaml --transform scale_spending:pct=90 --save-plan lean.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if err := applyTransformFlags(cmd, plan); err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("save-plan"); path != "" {
				if err := output.SavePlan(plan, path); err != nil {
					return fmt.Errorf("failed to save plan: %w", err)
				}
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
	cmd.Flags().String("order", "", "Override the withdrawal order ("+orderNames()+")")
	cmd.Flags().StringSlice("transform", nil, "Apply a transform before running, e.g. scale_spending:pct=90 (repeatable)")
	cmd.Flags().String("save-plan", "", "Write the plan, after --order and --transform, to this YAML file")
	return cmd
}

func orderNames() string {
	names := make([]string, len(domain.WithdrawalOrders))
	for i, o := range domain.WithdrawalOrders {
		names[i] = string(o)
	}
	return strings.Join(names, ", ")
}

// applyTransformFlags applies --order and --transform to the plan in place.
func applyTransformFlags(cmd *cobra.Command, plan *domain.PlanInput) error {
	var transforms []transform.PlanTransform
	if order, _ := cmd.Flags().GetString("order"); order != "" {
		transforms = append(transforms, &transform.SetWithdrawalOrder{Order: domain.WithdrawalOrder(order)})
	}
	specs, _ := cmd.Flags().GetStringSlice("transform")
	registry := transform.NewTransformRegistry()
	for _, spec := range specs {
		t, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		transforms = append(transforms, t)
	}
	if len(transforms) == 0 {
		return nil
	}
	modified, err := transform.ApplyTransforms(plan, transforms)
	if err != nil {
		return err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.Printf("INFO: applied transforms: %s", transform.Describe(transforms))
	}
	*plan = *modified
	return nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [plan-file]",
		Short: "Validate a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid\n", args[0])
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [plan-file]",
		Short: "Compare a plan against what-if variants",
		Long: `Compare a base plan against alternative strategies.

With neither --with nor --transform the plan is compared under every
withdrawal order.

Examples:
  rpsim compare plan.yaml
  rpsim compare plan.yaml --with spend_less_10,stress_early_crash
  rpsim compare plan.yaml --transform inflation:pct=4 --format csv
  rpsim compare plan.yaml --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var plan *domain.PlanInput
			if len(args) > 0 {
				p, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				plan = p
			}

			if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates(plan)))
				return nil
			}
			if plan == nil {
				return fmt.Errorf("plan file required for comparison (use --list-templates to see available templates)")
			}

			templatesStr, _ := cmd.Flags().GetString("with")
			transforms, _ := cmd.Flags().GetStringSlice("transform")
			outputFormat, _ := cmd.Flags().GetString("format")

			ctx, cancel := commandContext(cmd)
			defer cancel()
			comparisonSet, err := compare.NewCompareEngine(newEngine(cmd)).Compare(ctx, plan, compare.CompareOptions{
				Templates:  transform.ParseTemplateList(templatesStr),
				Transforms: transforms,
				ConfigPath: args[0],
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(outputFormat) {
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format CSV: %w", err)
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprint(out, s)
			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))
			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
			}
			return nil
		},
	}
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringSlice("transform", nil, "Transform spec to compare, e.g. guardrails:enabled=false (repeatable)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available templates")
	cmd.Flags().Bool("debug", false, "Enable debug logging of the simulation")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long: `Start an HTTP server exposing the simulator.

Endpoints:
  GET  /health
  POST /validate            plan JSON in the body
  POST /simulate?format=    plan JSON in the body; any report format
  POST /compare?with=       plan JSON in the body; optional template list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			srv := server.New(newEngine(cmd), simpleCLILogger{})
			if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
				srv.Timeout = timeout
			}
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Duration("timeout", 0, "Per-request simulation timeout (default 60s)")
	cmd.Flags().Bool("debug", false, "Enable debug logging of the simulation")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
