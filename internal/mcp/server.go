// Package mcp exposes the reflection operations as MCP tools so an LLM
// client can browse a source tree and pull function bodies on demand.
package mcp

import (
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"codemag/internal/usecase"
)

// Server serves codemag tools over stdio.
type Server struct {
	mcp     *server.MCPServer
	reflect *usecase.ReflectUseCase
	root    string
}

// NewServer registers every tool. Relative paths in tool arguments are
// resolved against root.
func NewServer(reflect *usecase.ReflectUseCase, root, version string) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"codemag",
			version,
			server.WithToolCapabilities(true),
		),
		reflect: reflect,
		root:    root,
	}
	s.addTools()
	return s
}

// Serve blocks until stdin is closed.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) resolve(path string) string {
	if path == "" {
		return s.root
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}
