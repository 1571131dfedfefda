package domain

// Kind is the kind of declaration the reflection engine recognises.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
)

// ParseKind maps a user supplied kind ("function", "class") to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindFunction:
		return KindFunction, true
	case KindClass:
		return KindClass, true
	default:
		return "", false
	}
}

// SourceFile is a scanned file. Lang is empty when no reflector handles it.
type SourceFile struct {
	Path string `json:"path"`
	Lang string `json:"lang"`
}

// Identifier is a declaration found by a lexical scan. Offset is the byte
// offset of the matched keyword, Line is 1-based.
type Identifier struct {
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
}

// Target is the query key for body extraction.
type Target struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// Span is a half-open byte range [Start, End) within source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ExtractionStatus tells a missing declaration apart from one whose block
// never closes.
type ExtractionStatus int

const (
	StatusNotFound ExtractionStatus = iota
	StatusFound
	StatusMalformed
)

func (s ExtractionStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusMalformed:
		return "malformed"
	default:
		return "not_found"
	}
}

func (s ExtractionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Extraction struct {
	Target Target           `json:"target"`
	Status ExtractionStatus `json:"status"`
	Span   Span             `json:"span"`
	Text   string           `json:"text,omitempty"`
}

// Found reports whether a balanced block was extracted.
func (e Extraction) Found() bool {
	return e.Status == StatusFound
}

type FileOutline struct {
	SourceFile
	Identifiers []Identifier `json:"identifiers"`
}
