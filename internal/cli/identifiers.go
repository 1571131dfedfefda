package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"codemag/internal/usecase"
)

var (
	functionsPrefix string
	functionsMatch  string
	functionsJSON   bool

	classesMatch string
	classesJSON  bool
)

var functionsCmd = &cobra.Command{
	Use:   "functions <file>",
	Short: "List function names declared in a file",
	Long: `List function and method names in document order. Duplicates are kept.
Matches inside comments and strings are reported too.

Examples:
  codemag functions src/User.php
  codemag functions src/User.php --prefix get
  codemag functions src/User.php --match '*Action'`,
	Args: cobra.ExactArgs(1),
	RunE: runFunctions,
}

var classesCmd = &cobra.Command{
	Use:   "classes <file>",
	Short: "List class names declared in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runClasses,
}

func init() {
	rootCmd.AddCommand(functionsCmd)
	functionsCmd.Flags().StringVarP(&functionsPrefix, "prefix", "p", "", "only names starting with this prefix")
	functionsCmd.Flags().StringVarP(&functionsMatch, "match", "m", "", "only names matching this glob")
	functionsCmd.Flags().BoolVar(&functionsJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(classesCmd)
	classesCmd.Flags().StringVarP(&classesMatch, "match", "m", "", "only names matching this glob")
	classesCmd.Flags().BoolVar(&classesJSON, "json", false, "output as JSON")
}

func runFunctions(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	filter, err := usecase.NewNameFilter(functionsMatch)
	if err != nil {
		return err
	}

	names, err := newReflectUseCase(nil).ListFunctions(path, functionsPrefix, filter)
	if err != nil {
		return err
	}
	return printNames(cmd, names, jsonOutput(functionsJSON))
}

func runClasses(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	filter, err := usecase.NewNameFilter(classesMatch)
	if err != nil {
		return err
	}

	names, err := newReflectUseCase(nil).ListClasses(path, filter)
	if err != nil {
		return err
	}
	return printNames(cmd, names, jsonOutput(classesJSON))
}

func printNames(cmd *cobra.Command, names []string, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		if names == nil {
			names = []string{}
		}
		return writeJSON(out, names)
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "No match found.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}
