package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"codemag/internal/domain"
	"codemag/internal/usecase"
)

func (s *Server) addTools() {
	s.mcp.AddTool(mcp.NewTool(
		"list_files",
		mcp.WithDescription("List source files under a directory that the reflection engine can read."),
		mcp.WithString("dir",
			mcp.Description("Directory to scan, relative to the project root (default: the root)")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListFiles)

	s.mcp.AddTool(mcp.NewTool(
		"list_functions",
		mcp.WithDescription("List function and method names declared in a source file, in document order."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path")),
		mcp.WithString("prefix",
			mcp.Description("Only return names starting with this exact prefix")),
		mcp.WithString("match",
			mcp.Description("Only return names matching this glob (e.g. 'get*')")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListFunctions)

	s.mcp.AddTool(mcp.NewTool(
		"list_classes",
		mcp.WithDescription("List class names declared in a source file, in document order."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path")),
		mcp.WithString("match",
			mcp.Description("Only return names matching this glob")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListClasses)

	s.mcp.AddTool(mcp.NewTool(
		"list_identifiers",
		mcp.WithDescription("List every function and class in a source file with its line number."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListIdentifiers)

	s.mcp.AddTool(mcp.NewTool(
		"get_body",
		mcp.WithDescription("Return the full source of the first function or class with the given name, from its declaration through the closing brace."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Source file path")),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Enum(string(domain.KindFunction), string(domain.KindClass)),
			mcp.Description("Declaration kind")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact declaration name")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleGetBody)
}

func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}
	files, err := s.reflect.ScanFiles(s.resolve(stringArg(args, "dir")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(files)
}

func (s *Server) handleListFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}
	path := stringArg(args, "path")
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	filter, err := usecase.NewNameFilter(stringArg(args, "match"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names, err := s.reflect.ListFunctions(s.resolve(path), stringArg(args, "prefix"), filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(nonNil(names))
}

func (s *Server) handleListClasses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}
	path := stringArg(args, "path")
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	filter, err := usecase.NewNameFilter(stringArg(args, "match"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	names, err := s.reflect.ListClasses(s.resolve(path), filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(nonNil(names))
}

func (s *Server) handleListIdentifiers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}
	path := stringArg(args, "path")
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	outline, err := s.reflect.Identifiers(s.resolve(path))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(outline)
}

func (s *Server) handleGetBody(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, errResult := arguments(request)
	if errResult != nil {
		return errResult, nil
	}
	path := stringArg(args, "path")
	name := stringArg(args, "name")
	if path == "" || name == "" {
		return mcp.NewToolResultError("path and name parameters are required"), nil
	}
	kind, ok := domain.ParseKind(stringArg(args, "kind"))
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("kind must be %q or %q", domain.KindFunction, domain.KindClass)), nil
	}

	extraction, err := s.reflect.FetchBody(s.resolve(path), domain.Target{Kind: kind, Name: name})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !extraction.Found() {
		return mcp.NewToolResultText(fmt.Sprintf("no match found for %s %q (%s)", kind, name, extraction.Status)), nil
	}
	return mcp.NewToolResultText(extraction.Text), nil
}

func arguments(request mcp.CallToolRequest) (map[string]interface{}, *mcp.CallToolResult) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, mcp.NewToolResultError("invalid arguments format")
	}
	return args, nil
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
