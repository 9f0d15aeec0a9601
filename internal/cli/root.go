package cli

import (
	"context"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/service"
	"github.com/spf13/cobra"
)

// offlineAnnotation marks commands that never touch the store.
const offlineAnnotation = "riskboard/offline"

// App holds the services used by CLI commands and the TUI.
type App struct {
	Tasks service.TaskService

	// Connect builds Tasks before the first command that needs the store.
	// It is skipped when Tasks is already set.
	Connect func(ctx context.Context) (service.TaskService, error)

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) connect(ctx context.Context) error {
	if a.Tasks != nil || a.Connect == nil {
		return nil
	}
	tasks, err := a.Connect(ctx)
	if err != nil {
		return err
	}
	a.Tasks = tasks
	return nil
}

// NewRootCmd creates the top-level "riskboard" command. Without a
// subcommand it opens the dashboard on a terminal and prints the task list
// otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "riskboard",
		Short:         "Task risk dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[offlineAnnotation] == "true" {
				return nil
			}
			return app.connect(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app, tuiOptions{caps: board.FullCapabilities, sort: board.SortRisk})
			}
			return runList(cmd, app, defaultListOptions())
		},
	}

	root.AddCommand(
		newListCmd(app),
		newStatsCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newDeleteCmd(app),
		newProgressCmd(app),
		newTUICmd(app),
		newEnvCmd(),
	)

	return root
}
