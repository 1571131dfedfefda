package reflection

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"codemag/internal/domain"
)

// Rules describe the lexical shape of declarations for one language.
// IdentStart and IdentPart are regexp character-class bodies (without the
// surrounding brackets).
type Rules struct {
	Language   string
	Extensions []string
	IdentStart string
	IdentPart  string
}

// Engine finds declarations with regular expressions and block ends with
// brace-depth matching. It does not know about strings or comments: a
// "function foo(" inside a comment is reported, and a brace inside a string
// literal shifts the depth count.
//
// The compiled patterns are read-only after construction, so one Engine can
// serve concurrent calls.
type Engine struct {
	rules      Rules
	functionRe *regexp.Regexp
	classRe    *regexp.Regexp
	partRe     *regexp.Regexp
}

// NewEngine compiles the declaration patterns for rules.
func NewEngine(rules Rules) *Engine {
	ident := "[" + rules.IdentStart + "][" + rules.IdentPart + "]*"
	return &Engine{
		rules:      rules,
		functionRe: regexp.MustCompile(`function\s+(` + ident + `)\s*\(`),
		classRe:    regexp.MustCompile(`class\s+(` + ident + `)`),
		partRe:     regexp.MustCompile(`^[` + rules.IdentPart + `]`),
	}
}

func (e *Engine) Language() string {
	return e.rules.Language
}

func (e *Engine) Extensions() []string {
	out := make([]string, len(e.rules.Extensions))
	copy(out, e.rules.Extensions)
	return out
}

// ListFunctions returns every function name in document order, duplicates
// included. A non-empty prefix keeps only names that start with it.
func (e *Engine) ListFunctions(content, prefix string) []string {
	var result []string
	for _, m := range e.functionRe.FindAllStringSubmatch(content, -1) {
		if prefix == "" || strings.HasPrefix(m[1], prefix) {
			result = append(result, m[1])
		}
	}
	return result
}

// ListClasses returns every class name in document order, duplicates included.
func (e *Engine) ListClasses(content string) []string {
	var result []string
	for _, m := range e.classRe.FindAllStringSubmatch(content, -1) {
		result = append(result, m[1])
	}
	return result
}

// Identifiers returns functions and classes with their offsets, ordered by
// the position of the declaration keyword. The result is never nil.
func (e *Engine) Identifiers(content string) []domain.Identifier {
	ids := []domain.Identifier{}
	ids = e.collect(ids, content, e.functionRe, domain.KindFunction)
	ids = e.collect(ids, content, e.classRe, domain.KindClass)

	sort.SliceStable(ids, func(i, j int) bool {
		return ids[i].Offset < ids[j].Offset
	})

	// Lines are resolved in a single forward pass over the sorted offsets.
	line, pos := 1, 0
	for i := range ids {
		line += strings.Count(content[pos:ids[i].Offset], "\n")
		pos = ids[i].Offset
		ids[i].Line = line
	}
	return ids
}

func (e *Engine) collect(ids []domain.Identifier, content string, re *regexp.Regexp, kind domain.Kind) []domain.Identifier {
	for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
		ids = append(ids, domain.Identifier{
			Name:   content[loc[2]:loc[3]],
			Kind:   kind,
			Offset: loc[0],
		})
	}
	return ids
}

// GetBody returns the text of the first kind/name declaration through the
// brace that closes its block, or "" if there is none.
func (e *Engine) GetBody(content string, kind domain.Kind, name string) string {
	return e.Extract(content, domain.Target{Kind: kind, Name: name}).Text
}

// Extract locates the first declaration header for target and walks its
// block with a depth counter. Missing headers are StatusNotFound; a header
// with no opening brace or a block that never closes is StatusMalformed.
func (e *Engine) Extract(content string, target domain.Target) domain.Extraction {
	result := domain.Extraction{Target: target, Status: domain.StatusNotFound}

	keyword, ok := keywords[target.Kind]
	if !ok || target.Name == "" || content == "" {
		return result
	}

	loc := e.findHeader(content, keyword, target.Name)
	if loc == nil {
		return result
	}

	start := loc[0]
	result.Status = domain.StatusMalformed
	result.Span = domain.Span{Start: start, End: len(content)}

	open := strings.IndexByte(content[loc[1]:], '{')
	if open < 0 {
		return result
	}

	end, ok := closeBlock(content, loc[1]+open)
	if !ok {
		return result
	}

	result.Status = domain.StatusFound
	result.Span.End = end
	result.Text = content[start:end]
	return result
}

// findHeader returns the first "keyword name" match whose name is not the
// prefix of a longer identifier. The name is quoted, never a pattern.
func (e *Engine) findHeader(content, keyword, name string) []int {
	header, err := regexp.Compile(keyword + `\s+` + regexp.QuoteMeta(name))
	if err != nil {
		return nil
	}
	for _, loc := range header.FindAllStringIndex(content, -1) {
		next := content[loc[1]:min(loc[1]+utf8.UTFMax, len(content))]
		if !e.partRe.MatchString(next) {
			return loc
		}
	}
	return nil
}

var keywords = map[domain.Kind]string{
	domain.KindFunction: "function",
	domain.KindClass:    "class",
}

// closeBlock returns the offset just past the brace that balances the one at
// open. Braces are ASCII, so scanning bytes is safe for UTF-8 input.
func closeBlock(content string, open int) (int, bool) {
	depth := 1
	for i := open + 1; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
