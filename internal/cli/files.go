package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	filesExt  []string
	filesJSON bool
)

var filesCmd = &cobra.Command{
	Use:   "files [path]",
	Short: "List source files under a directory",
	Long: `List every file under the directory (recursively) whose name ends with
one of the configured extensions. Unreadable directories are skipped.

Examples:
  codemag files .                    # Uses scan.extensions from config
  codemag files src --ext .php,.inc  # Override the extension set`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().StringSliceVarP(&filesExt, "ext", "e", nil, "file extensions including the dot (default from config)")
	filesCmd.Flags().BoolVar(&filesJSON, "json", false, "output as JSON")
}

func runFiles(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}

	files, err := newReflectUseCase(filesExt).ScanFiles(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput(filesJSON) {
		return writeJSON(out, files)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files found.")
		return nil
	}
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}
