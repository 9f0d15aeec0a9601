package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/cli/formatter"
	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listOptions struct {
	filters filterFlags
	sort    sortValue
	output  outputValue
}

func defaultListOptions() *listOptions {
	o := &listOptions{sort: sortValue{mode: board.SortRisk}, output: outputValue{f: outputTable}}
	o.filters.priority.s = board.FilterAll
	o.filters.assignee = board.FilterAll
	return o
}

func (o *listOptions) request() contract.BoardRequest {
	req := contract.NewBoardRequest()
	req.Filter = o.filters.filter()
	req.Sort = o.sort.mode
	return req
}

func newListCmd(app *App) *cobra.Command {
	opts := defaultListOptions()

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with their risk scores",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, opts)
		},
	}

	opts.filters.register(cmd.Flags())
	cmd.Flags().Var(&opts.sort, "sort", "Sort order: risk (highest first) or id")
	cmd.Flags().VarP(&opts.output, "output", "o", "Output format: table, json or yaml")

	return cmd
}

// loadBoard fetches the board, showing a spinner on interactive terminals.
func loadBoard(ctx context.Context, app *App, req contract.BoardRequest) (*contract.BoardResponse, error) {
	if app.interactive() {
		stop := formatter.StartSpinner(os.Stderr, "Loading tasks...")
		defer stop()
	}
	return app.Tasks.Load(ctx, req)
}

func runList(cmd *cobra.Command, app *App, opts *listOptions) error {
	resp, err := loadBoard(cmd.Context(), app, opts.request())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.output.f {
	case outputJSON:
		return writeJSON(out, contract.TaskViews(resp.Tasks))
	case outputYAML:
		return writeYAML(out, contract.TaskViews(resp.Tasks))
	}

	if resp.Empty {
		fmt.Fprintln(out, formatter.NoTasksMessage)
		return nil
	}
	if len(resp.Tasks) == 0 {
		fmt.Fprintln(out, formatter.NoMatchesMessage)
		return nil
	}
	fmt.Fprint(out, formatter.FormatTaskTable(resp.Tasks))
	fmt.Fprintf(out, "\n%s\n", formatter.Dim(fmt.Sprintf("%d of %d tasks  filters: %s",
		len(resp.Tasks), resp.Snapshot.Len(), resp.Filter.Describe())))
	return nil
}

// statsView is the serializable form of the stats command output.
type statsView struct {
	Total       int                `json:"total" yaml:"total"`
	High        int                `json:"high" yaml:"high"`
	Medium      int                `json:"medium" yaml:"medium"`
	Low         int                `json:"low" yaml:"low"`
	AvgProgress int                `json:"avg_progress" yaml:"avg_progress"`
	Priorities  map[string]int     `json:"priorities" yaml:"priorities"`
	Progress    []progressBandView `json:"progress" yaml:"progress"`
}

type progressBandView struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

func newStatsView(resp *contract.BoardResponse) statsView {
	v := statsView{
		Total:       resp.Summary.Total,
		High:        resp.Summary.High,
		Medium:      resp.Summary.Medium,
		Low:         resp.Summary.Low,
		AvgProgress: resp.Summary.AvgProgress,
		Priorities: map[string]int{
			"high":   resp.Priorities.High,
			"medium": resp.Priorities.Medium,
			"low":    resp.Priorities.Low,
			"other":  resp.Priorities.Other,
		},
	}
	for _, b := range resp.Progress {
		v.Progress = append(v.Progress, progressBandView{Label: b.Label, Count: b.Count})
	}
	return v
}

func newStatsCmd(app *App) *cobra.Command {
	opts := defaultListOptions()
	var charts bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show risk counts, average progress and chart data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadBoard(cmd.Context(), app, opts.request())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch opts.output.f {
			case outputJSON:
				return writeJSON(out, newStatsView(resp))
			case outputYAML:
				return writeYAML(out, newStatsView(resp))
			}

			if resp.Empty {
				fmt.Fprintln(out, formatter.NoTasksMessage)
			}
			fmt.Fprint(out, formatter.FormatStats(resp.Summary))
			if charts {
				fmt.Fprintf(out, "\n%s\n", formatter.FormatPriorityChart(resp.Priorities, 50))
				fmt.Fprint(out, formatter.FormatProgressChart(resp.Progress, 50))
			}
			return nil
		},
	}

	opts.filters.register(cmd.Flags())
	cmd.Flags().BoolVar(&charts, "charts", false, "Also draw the priority and progress charts")
	cmd.Flags().VarP(&opts.output, "output", "o", "Output format: table, json or yaml")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
