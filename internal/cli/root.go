// Package cli implements the adstock command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/config"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/encoding"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	impact     float64
	format     string
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "adstock",
		Short:         "Compute adstock decay curves",
		Long:          "adstock prints geometric, delayed geometric and Weibull adstock curves as tables, CSV or JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file (presets, initial impact, period limit)")
	flags.Float64Var(&opts.impact, "impact", scenario.DefaultImpact, "starting impact; defaults to curves.initial_impact from config")
	flags.StringVarP(&opts.format, "format", "f", string(encoding.FormatTable), "output format: table, csv or json")

	rootCmd.AddCommand(newGeometricCmd(opts))
	rootCmd.AddCommand(newDelayedCmd(opts))
	rootCmd.AddCommand(newWeibullCmd(opts))
	rootCmd.AddCommand(newPresetCmd(opts))
	rootCmd.AddCommand(newPresetsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the CLI against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// env resolves config, output format and impact for one invocation
type env struct {
	cfg    config.Config
	format encoding.Format
	impact *float64
}

func (o *rootOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	format, err := encoding.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, format: format}
	if cmd.Flags().Changed("impact") {
		impact := o.impact
		e.impact = &impact
	}
	return e, nil
}

// run computes sc with the resolved impact and writes it to the command output
func (e *env) run(cmd *cobra.Command, sc scenario.Scenario) error {
	if e.impact != nil {
		sc = sc.WithImpact(*e.impact)
	}
	sc = sc.WithDefaultImpact(e.cfg.Curves.InitialImpact)

	if periods := sc.MaxPeriods(); periods > e.cfg.Curves.MaxPeriods {
		return fmt.Errorf("%d periods exceeds the limit of %d (curves.max_periods)", periods, e.cfg.Curves.MaxPeriods)
	}

	result, err := scenario.Run(sc)
	if err != nil {
		return describe(err)
	}
	return e.write(cmd, result)
}

func (e *env) write(cmd *cobra.Command, result scenario.Result) error {
	return encoding.NewEncoder(e.format, true).Encode(cmd.OutOrStdout(), result)
}
