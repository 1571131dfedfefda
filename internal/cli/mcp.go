package cli

import (
	"github.com/spf13/cobra"

	"codemag/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the reflection tools over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing
list_files, list_functions, list_classes, list_identifiers and get_body.
Relative paths in tool calls are resolved against --dir.

Example client configuration:
  {"command": "codemag", "args": ["mcp", "--dir", "/path/to/project"]}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return mcp.NewServer(newReflectUseCase(nil), GetRootDir(), Version).Serve()
}
