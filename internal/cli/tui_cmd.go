package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/config"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// tuiOptions selects what a dashboard instance may do.
type tuiOptions struct {
	caps board.Capabilities
	sort board.SortMode
}

func newTUICmd(app *App) *cobra.Command {
	var readOnly, noCharts bool
	sort := sortValue{mode: board.SortRisk}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tuiOptions{caps: board.FullCapabilities, sort: sort.mode}
			opts.caps.Edit = !readOnly
			opts.caps.Chart = !noCharts
			return runTUI(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Disable add, edit, delete and progress changes")
	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "Disable the chart panel")
	cmd.Flags().Var(&sort, "sort", "Initial sort order: risk or id")

	return cmd
}

func runTUI(ctx context.Context, app *App, opts tuiOptions) error {
	p := tea.NewProgram(newAppModel(app, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "env",
		Short:       "List the supported environment variables",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := config.Describe()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			return nil
		},
	}
}
