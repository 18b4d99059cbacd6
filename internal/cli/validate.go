package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/witnesslab/witness/internal/scenario"
)

// FileValidation holds the validation outcome for one scenario file.
type FileValidation struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results for a whole directory.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files without running their commands.

Each YAML file is decoded strictly and checked against the scenario
schema. Faster than a full test run for authoring feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := scenario.Find(scenariosDir, "")
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("failed to find scenarios: %v", err))
	}
	if len(files) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no scenario files in %s", scenariosDir))
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		fv := FileValidation{File: file, Valid: true}
		if _, err := scenario.Load(file); err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		return outputValidateJSON(cmd, result)
	}
	return outputValidateText(cmd, result)
}

func outputValidateJSON(cmd *cobra.Command, result ValidationResult) error {
	resp := Response{Status: "ok", Data: result}
	invalid := countInvalid(result)
	if invalid > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_INVALID_SCENARIO",
			Message: fmt.Sprintf("%d scenario file(s) invalid", invalid),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}

	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario file(s) invalid", invalid))
	}
	return nil
}

func outputValidateText(cmd *cobra.Command, result ValidationResult) error {
	w := cmd.OutOrStdout()

	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "✓ %s\n", fv.File)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fv.File)
		fmt.Fprintf(w, "  %s\n", fv.Error)
	}

	invalid := countInvalid(result)
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario file(s) invalid", invalid))
	}

	fmt.Fprintln(w, "✓ All scenario files valid")
	return nil
}

func countInvalid(result ValidationResult) int {
	n := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			n++
		}
	}
	return n
}
