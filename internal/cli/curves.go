package cli

import (
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/types"
)

func newGeometricCmd(opts *rootOptions) *cobra.Command {
	var req types.GeometricRequest

	cmd := &cobra.Command{
		Use:   "geometric",
		Short: "Impact decayed by a constant factor each period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return e.run(cmd, req.Scenario())
		},
	}

	cmd.Flags().Float64VarP(&req.DecayFactor, "decay", "d", 0.5, "decay factor in [0, 1]")
	cmd.Flags().IntVarP(&req.Periods, "periods", "p", 20, "number of periods")
	cmd.Flags().StringVar(&req.Label, "label", "", "line label")
	return cmd
}

func newDelayedCmd(opts *rootOptions) *cobra.Command {
	var req types.DelayedGeometricRequest

	cmd := &cobra.Command{
		Use:     "delayed",
		Aliases: []string{"delayed-geometric"},
		Short:   "Geometric decay on both sides of a delayed peak",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return e.run(cmd, req.Scenario())
		},
	}

	cmd.Flags().Float64VarP(&req.DecayFactor, "decay", "d", 0.5, "decay factor in [0, 1]")
	cmd.Flags().IntVar(&req.PeakPeriod, "peak", 3, "0-based period of the peak")
	cmd.Flags().IntVar(&req.MaxLag, "max-lag", 20, "number of periods")
	cmd.Flags().StringVar(&req.Label, "label", "", "line label")
	return cmd
}

func newWeibullCmd(opts *rootOptions) *cobra.Command {
	var (
		req        types.WeibullRequest
		normalized bool
	)

	cmd := &cobra.Command{
		Use:   "weibull",
		Short: "Weibull survival (cdf) or density (pdf) shaped decay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			req.Normalized = &normalized
			return e.run(cmd, req.Scenario())
		},
	}

	cmd.Flags().Float64Var(&req.Shape, "shape", 2, "shape parameter, >= 0")
	cmd.Flags().Float64Var(&req.Scale, "scale", 0.3, "scale as a fraction of the periods, in [0, 1]")
	cmd.Flags().IntVarP(&req.Periods, "periods", "p", 20, "number of periods")
	cmd.Flags().StringVarP(&req.Mode, "mode", "m", "cdf", "cdf or pdf")
	cmd.Flags().BoolVar(&normalized, "normalized", true, "rescale the curve to [0, impact]")
	cmd.Flags().StringVar(&req.Label, "label", "", "line label")
	return cmd
}
