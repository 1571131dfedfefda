package port

import "codemag/internal/domain"

// Reflector extracts declarations from the source text of one language.
// Implementations hold no per-call state; every method takes content
// explicitly and may be called concurrently.
type Reflector interface {
	// Language returns the language name, e.g. "php".
	Language() string

	// Extensions returns the file extensions this reflector handles.
	Extensions() []string

	// ListFunctions returns function names in document order. A non-empty
	// prefix keeps only names starting with it.
	ListFunctions(content, prefix string) []string

	// ListClasses returns class names in document order.
	ListClasses(content string) []string

	// GetBody returns the first declaration of kind/name including its
	// balanced block, or "" when it is missing or never closes.
	GetBody(content string, kind domain.Kind, name string) string

	// Identifiers returns functions and classes merged in document order.
	Identifiers(content string) []domain.Identifier

	// Extract is GetBody with a status that separates not found from malformed.
	Extract(content string, target domain.Target) domain.Extraction
}
