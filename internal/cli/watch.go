package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codemag/internal/adapter/watcher"
	"codemag/internal/usecase"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Print the declarations of files as they change",
	Long: `Watch the directory tree and, whenever matching files are written,
print their functions and classes. Stop with Ctrl-C.

Examples:
  codemag watch .
  codemag watch src --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := targetDir(args)
	if err != nil {
		return err
	}

	reflectUC := newReflectUseCase(nil)
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond

	fw, err := watcher.NewFileWatcher([]string{dir}, reflectUC.Extensions(), cfg.Scan.Excludes, debounce, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer fw.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)...\n", dir)
	fw.Start(ctx, func(files []string) {
		for _, path := range files {
			printChanged(cmd, reflectUC, path)
		}
	})

	<-ctx.Done()
	// Stop waits for a running callback, so nothing else writes to out.
	if err := fw.Stop(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Stopped.")
	return nil
}

func printChanged(cmd *cobra.Command, reflectUC *usecase.ReflectUseCase, path string) {
	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(out, "- %s (removed)\n", path)
		return
	}

	outline, err := reflectUC.Identifiers(path)
	if err != nil {
		slog.Debug("skipping changed file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	fmt.Fprintf(out, "* %s: %d declarations\n", path, len(outline.Identifiers))
	for _, id := range outline.Identifiers {
		fmt.Fprintf(out, "  %s %-8s %s\n", formatLine(id), id.Kind, id.Name)
	}
}
