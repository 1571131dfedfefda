package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"codemag/internal/domain"
)

var (
	bodyFunction string
	bodyClass    string
	bodyJSON     bool
)

// ErrNoMatch is returned when the requested declaration could not be
// extracted, so scripts can rely on the exit status.
var ErrNoMatch = errors.New("no match found")

var bodyCmd = &cobra.Command{
	Use:   "body <file>",
	Short: "Print the source of a function or class",
	Long: `Print the first declaration with the given name, from its header through
the brace that closes its block. Braces inside strings or comments are
counted like any other brace.

Examples:
  codemag body src/User.php --function save
  codemag body src/User.php --class User --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBody,
}

func init() {
	rootCmd.AddCommand(bodyCmd)
	bodyCmd.Flags().StringVarP(&bodyFunction, "function", "f", "", "function name")
	bodyCmd.Flags().StringVarP(&bodyClass, "class", "c", "", "class name")
	bodyCmd.Flags().BoolVar(&bodyJSON, "json", false, "output as JSON")
	bodyCmd.MarkFlagsMutuallyExclusive("function", "class")
	bodyCmd.MarkFlagsOneRequired("function", "class")
}

func runBody(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	target := domain.Target{Kind: domain.KindFunction, Name: bodyFunction}
	if bodyClass != "" {
		target = domain.Target{Kind: domain.KindClass, Name: bodyClass}
	}

	extraction, err := newReflectUseCase(nil).FetchBody(path, target)
	if err != nil {
		return err
	}

	if jsonOutput(bodyJSON) {
		if err := writeJSON(cmd.OutOrStdout(), extraction); err != nil {
			return err
		}
	} else if extraction.Found() {
		fmt.Fprintln(cmd.OutOrStdout(), extraction.Text)
	}

	if !extraction.Found() {
		return fmt.Errorf("%w: %s %q in %s (%s)", ErrNoMatch, target.Kind, target.Name, path, extraction.Status)
	}
	return nil
}
