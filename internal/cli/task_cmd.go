package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/riskboard/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			task, err := app.Tasks.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(task.TaskName),
				formatter.Dim("("+task.ID+")"))
			return nil
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the fields given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			patch, err := flags.patch(cmd.Flags())
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.New("nothing to change: pass at least one field flag")
			}
			id, err := app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Update(ctx, id, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated %s\n", formatter.StyleGreen.Render("✔"), formatter.Dim(id))
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return errors.New("refusing to delete without --yes in a non-interactive session")
				}
				ok, err := confirmPrompt(ctx, fmt.Sprintf("Delete %q?", task.TaskName))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Tasks.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(task.TaskName))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(ctx context.Context, title string) (bool, error) {
	var ok bool
	if err := wizardConfirm(title, &ok).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Set a task's progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pct, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid progress %q: %w", args[1], err)
			}
			id, err := app.Tasks.ResolveID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Update(ctx, id, progressPatch(pct)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Progress set to %d%%\n", formatter.StyleGreen.Render("✔"), pct)
			return nil
		},
	}
}
