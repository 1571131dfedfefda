package usecase

import (
	"fmt"

	"github.com/gobwas/glob"
)

// NameFilter matches identifier names against a glob such as "get*" or
// "{init,boot}*". A nil filter matches everything.
type NameFilter struct {
	pattern string
	glob    glob.Glob
}

func NewNameFilter(pattern string) (*NameFilter, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
	}
	return &NameFilter{pattern: pattern, glob: g}, nil
}

func (f *NameFilter) Match(name string) bool {
	if f == nil {
		return true
	}
	return f.glob.Match(name)
}

func (f *NameFilter) apply(names []string) []string {
	if f == nil {
		return names
	}
	var out []string
	for _, n := range names {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
