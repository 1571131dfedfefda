package fs

import (
	"log/slog"
	"os"
)

// ContentReader loads file text for the reflection engine. Failures are
// logged and turned into an empty string, which the engine treats as a file
// with no declarations.
type ContentReader struct {
	logger *slog.Logger
}

func NewContentReader(logger *slog.Logger) *ContentReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentReader{logger: logger}
}

func (r *ContentReader) Read(path string) string {
	content, err := ReadFile(path)
	if err != nil {
		r.logger.Warn("failed to read file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return ""
	}
	return content
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
