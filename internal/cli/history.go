package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/witnesslab/witness/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Run string // show one run's results instead of the run list
}

// RunSummary is one run header in history output.
type RunSummary struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	CreatedAt string `json:"created_at"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
}

// RunDetail is one result row in --run output.
type RunDetail struct {
	Seq        int64  `json:"seq"`
	TestName   string `json:"test_name"`
	Pass       bool   `json:"pass"`
	CodeKind   string `json:"code_kind"`
	CodeValue  int    `json:"code_value"`
	StdoutB3   string `json:"stdout_b3"`
	StderrB3   string `json:"stderr_b3"`
	DurationMS int64  `json:"duration_ms"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <database>",
		Short: "Inspect recorded runs",
		Long: `List recorded runs, or show one run's results with --run.

Examples:
  witness history history.db
  witness history history.db --run 0190a6b2-...
  witness history history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Run, "run", "", "show results for one run ID")

	return cmd
}

func runHistory(opts *HistoryOptions, dbPath string, cmd *cobra.Command) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("history database not found: %s", dbPath))
	}

	store, err := history.Open(dbPath, nil)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("failed to open history database: %v", err))
	}
	defer store.Close()

	if opts.Run != "" {
		return showRun(opts, store, cmd)
	}
	return listRuns(opts, store, cmd)
}

func listRuns(opts *HistoryOptions, store *history.Store, cmd *cobra.Command) error {
	runs, err := store.ListRuns()
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("failed to list runs: %v", err))
	}

	if opts.Format == "json" {
		summaries := make([]RunSummary, 0, len(runs))
		for _, r := range runs {
			summaries = append(summaries, RunSummary{
				ID: r.ID, Label: r.Label, CreatedAt: r.CreatedAt,
				Total: r.Total, Failed: r.Failed,
			})
		}
		return writeJSON(cmd.OutOrStdout(), Response{Status: "ok", Data: summaries})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tLABEL\tCREATED\tPASSED\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Label, r.CreatedAt, r.Total-r.Failed, r.Failed)
	}
	return tw.Flush()
}

func showRun(opts *HistoryOptions, store *history.Store, cmd *cobra.Command) error {
	results, err := store.RunResults(opts.Run)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("failed to read run %s: %v", opts.Run, err))
	}
	if len(results) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no results for run %s", opts.Run))
	}

	if opts.Format == "json" {
		details := make([]RunDetail, 0, len(results))
		for _, r := range results {
			details = append(details, RunDetail{
				Seq: r.Seq, TestName: r.TestName, Pass: r.Pass,
				CodeKind: r.CodeKind, CodeValue: r.CodeValue,
				StdoutB3: r.StdoutB3, StderrB3: r.StderrB3,
				DurationMS: r.DurationMS,
			})
		}
		return writeJSON(cmd.OutOrStdout(), Response{Status: "ok", Data: details})
	}

	w := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(w, 2, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTEST\tRESULT\tCODE\tMS")
	for _, r := range results {
		status := "pass"
		if !r.Pass {
			status = "fail"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s=%d\t%d\n",
			r.Seq, r.TestName, status, r.CodeKind, r.CodeValue, r.DurationMS)
	}
	return tw.Flush()
}
