package port

// Scanner enumerates source files under a root directory. Scan treats an
// unreadable root as empty; ScanDetailed reports it as an error.
type Scanner interface {
	Scan(root string, extensions []string) []string
	ScanDetailed(root string, extensions []string) ([]string, error)
}

// ContentReader returns the text of a file, or an empty string when the file
// cannot be read.
type ContentReader interface {
	Read(path string) string
}
