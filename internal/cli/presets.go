package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/adstock-o-meter/internal/encoding"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/scenario"
	"github.com/ZanzyTHEbar/adstock-o-meter/internal/types"
)

func newPresetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preset [name]",
		Short: "Run a named preset, or every preset when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			registry, err := e.cfg.Registry()
			if err != nil {
				return err
			}

			names := registry.Names()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				preset, ok := registry.Lookup(name)
				if !ok {
					return fmt.Errorf("%w: %s (try `adstock presets`)", scenario.ErrUnknownScenario, name)
				}
				if err := e.run(cmd, preset); err != nil {
					return fmt.Errorf("preset %s: %w", name, err)
				}
			}
			return nil
		},
	}
}

func newPresetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			registry, err := e.cfg.Registry()
			if err != nil {
				return err
			}

			presets := registry.List()
			summaries := make([]types.PresetSummary, len(presets))
			for i, p := range presets {
				summaries[i] = types.NewPresetSummary(p)
			}

			if e.format == encoding.FormatTable {
				_, err := io.WriteString(cmd.OutOrStdout(), renderPresets(summaries)+"\n")
				return err
			}
			data, err := encoding.MarshalJSON(types.PresetListResponse{Presets: summaries, Count: len(summaries)})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func renderPresets(presets []types.PresetSummary) string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		rows[i] = []string{p.Name, p.Title, strconv.Itoa(len(p.Lines))}
	}

	bold := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Title", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return bold
			}
			return cell
		}).
		String()
}
