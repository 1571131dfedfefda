package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"codemag/internal/domain"
	"codemag/internal/usecase"
)

var (
	outlineJSON       bool
	outlineWorkers    int
	outlineNoProgress bool
)

var outlineCmd = &cobra.Command{
	Use:   "outline [path]",
	Short: "List every function and class in a source tree",
	Long: `Scan the directory and list the declarations of every matching file with
their line numbers. Files are processed in parallel but printed in scan order.

Examples:
  codemag outline .
  codemag outline src --json --workers 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().BoolVar(&outlineJSON, "json", false, "output as JSON")
	outlineCmd.Flags().IntVarP(&outlineWorkers, "workers", "w", 0, "parallel workers (default from config)")
	outlineCmd.Flags().BoolVar(&outlineNoProgress, "no-progress", false, "disable the progress bar")
}

func runOutline(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}

	workers := cfg.Outline.Workers
	if outlineWorkers > 0 {
		workers = outlineWorkers
	}
	outlineUC := usecase.NewOutlineUseCase(newReflectUseCase(nil), workers)

	var progress usecase.ProgressFunc
	if !outlineNoProgress {
		progress = newProgress(cmd)
	}

	result, err := outlineUC.Outline(cmd.Context(), dir, progress)
	if err != nil {
		return fmt.Errorf("outline failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput(outlineJSON) {
		return writeJSON(out, result)
	}

	for _, file := range result.Files {
		fmt.Fprintf(out, "%s (%s)\n", file.Path, file.Lang)
		for _, id := range file.Identifiers {
			fmt.Fprintf(out, "  %s %-8s %s\n", formatLine(id), id.Kind, id.Name)
		}
	}
	fmt.Fprintf(out, "\nFiles: %d  Declarations: %d\n", len(result.Files), result.Identifiers)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Skipped (no reflector): %d\n", len(result.Skipped))
	}
	return nil
}

func formatLine(id domain.Identifier) string {
	return fmt.Sprintf("L%-5d", id.Line)
}

// newProgress creates a progress callback that lazily builds the bar once the
// total is known.
func newProgress(cmd *cobra.Command) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Reflecting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Reflecting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
