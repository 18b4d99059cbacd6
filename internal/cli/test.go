package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/witnesslab/witness/internal/harness"
	"github.com/witnesslab/witness/internal/history"
	"github.com/witnesslab/witness/internal/scenario"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (doublestar glob)
	Record string // history database path, empty disables recording
	Label  string // run label stored alongside the run
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name      string `json:"name"`
	Pass      bool   `json:"pass"`
	CodeKind  string `json:"code_kind,omitempty"`
	CodeValue int    `json:"code_value,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	RunID     string           `json:"run_id,omitempty"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files against their commands",
		Long: `Run every scenario file in a directory.

Each scenario's command runs in an isolated child process; its captured
streams, termination code, and declared files are compared against the
scenario's expectations.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, broken scenario files)

Examples:
  witness test ./scenarios
  witness test ./scenarios --filter "cart-**"
  witness test ./scenarios --record history.db --label nightly
  witness test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Record, "record", "", "append results to a history database")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label for the recorded run")

	return cmd
}

// collectingRecorder keeps per-test rows for structured output and
// forwards them to the history store when one is attached. It hands out
// its own sequence numbers so rows stay ordered without a store.
type collectingRecorder struct {
	store   *history.Store
	results []ScenarioResult
	seq     int64
}

func (c *collectingRecorder) WriteResult(runID string, res history.Result) error {
	c.seq++
	res.Seq = c.seq
	c.results = append(c.results, ScenarioResult{
		Name:      res.TestName,
		Pass:      res.Pass,
		CodeKind:  res.CodeKind,
		CodeValue: res.CodeValue,
	})
	if c.store != nil {
		return c.store.WriteResult(runID, res)
	}
	return nil
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := scenario.Find(scenariosDir, opts.Filter)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("failed to find scenarios: %v", err))
	}

	if len(files) == 0 {
		if opts.Format == "json" {
			return writeJSON(cmd.OutOrStdout(), Response{
				Status: "ok",
				Data:   TestResult{Scenarios: []ScenarioResult{}},
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	rec := &collectingRecorder{}
	runID := history.NewRunID()

	if opts.Record != "" {
		store, err := history.Open(opts.Record, nil)
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("failed to open history database: %v", err))
		}
		defer store.Close()
		rec.store = store
	}

	hopts := []harness.Option{harness.WithRecorder(rec, runID)}
	if opts.Verbose {
		hopts = append(hopts, harness.WithLogger(
			slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))))
	}
	h := harness.New(hopts...)

	for _, file := range files {
		s, err := scenario.Load(file)
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("failed to load %s: %v", file, err))
		}
		desc, err := s.Bind()
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("failed to bind %s: %v", file, err))
		}
		h.Register(desc)
	}

	// Child attempts re-enter this command with identical arguments and
	// rebuild the same registrations; Main dispatches them to the one
	// named wrapper and never returns. The run header is written after
	// the dispatch point so children leave no trace in the history.
	h.Main()

	if rec.store != nil {
		if err := rec.store.BeginRun(runID, opts.Label); err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("failed to begin run: %v", err))
		}
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		w = io.Discard
	}
	failed := h.Run(w)

	result := TestResult{
		Scenarios: rec.results,
		Passed:    len(rec.results) - failed,
		Failed:    failed,
		Total:     len(rec.results),
	}
	if rec.store != nil {
		result.RunID = runID
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	status := "ok"
	resp := Response{Status: status, Data: result}
	if result.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the trailing status line. The harness already
// printed per-scenario failures and the summary.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	if result.RunID != "" {
		fmt.Fprintf(w, "run recorded: %s\n", result.RunID)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
