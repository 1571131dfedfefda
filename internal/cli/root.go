package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codemag/config"
	"codemag/internal/adapter/fs"
	"codemag/internal/usecase"
)

// Version is set at build time.
var Version = "dev"

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "codemag",
	Short: "Browse functions and classes in a source tree",
	Long: `codemag scans a directory for source files and extracts function names,
class names and the exact source of a named function or class. Extraction is
lexical: declarations are found by pattern and blocks by brace matching, so
code inside comments or strings is not special.

Example usage:
  codemag files .                          # List PHP files
  codemag functions src/User.php -p get    # Functions starting with "get"
  codemag body src/User.php -f save        # Print the source of save()
  codemag outline . --json                 # Every declaration in the tree`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		level, _ := cfg.Logging.SlogLevel()
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./codemag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

func newReflectUseCase(extensions []string) *usecase.ReflectUseCase {
	if len(extensions) == 0 {
		extensions = cfg.Scan.Extensions
	}
	return usecase.NewReflectUseCase(
		fs.NewWalker(cfg.Scan.Excludes),
		fs.NewContentReader(slog.Default()),
		extensions,
	)
}

// targetDir returns the directory argument as an absolute path, or the root
// directory when none was given.
func targetDir(args []string) (string, error) {
	if len(args) == 0 {
		return GetRootDir(), nil
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	return path, nil
}

func jsonOutput(flag bool) bool {
	return flag || cfg.Output.Format == "json"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
