package usecase

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"codemag/internal/adapter/reflection"
	"codemag/internal/domain"
	"codemag/internal/port"
)

// ErrUnsupportedLanguage is returned when no reflector handles a file's
// extension.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ReflectUseCase wires the scanner, the content provider and the
// per-language reflectors together. It keeps no file content between calls.
type ReflectUseCase struct {
	scanner    port.Scanner
	reader     port.ContentReader
	extensions []string
}

// NewReflectUseCase creates a new reflect use case.
func NewReflectUseCase(scanner port.Scanner, reader port.ContentReader, extensions []string) *ReflectUseCase {
	return &ReflectUseCase{
		scanner:    scanner,
		reader:     reader,
		extensions: extensions,
	}
}

// Extensions returns the extensions passed to the scanner.
func (u *ReflectUseCase) Extensions() []string {
	return u.extensions
}

// ScanFiles returns source files under root, or an error when root itself
// cannot be listed.
func (u *ReflectUseCase) ScanFiles(root string) ([]string, error) {
	return u.scanner.ScanDetailed(root, u.extensions)
}

// ListFunctions returns function names declared in path.
func (u *ReflectUseCase) ListFunctions(path, prefix string, filter *NameFilter) ([]string, error) {
	r, content, err := u.open(path)
	if err != nil {
		return nil, err
	}
	return filter.apply(r.ListFunctions(content, prefix)), nil
}

// ListClasses returns class names declared in path.
func (u *ReflectUseCase) ListClasses(path string, filter *NameFilter) ([]string, error) {
	r, content, err := u.open(path)
	if err != nil {
		return nil, err
	}
	return filter.apply(r.ListClasses(content)), nil
}

// Identifiers returns every declaration in path with kind and position.
func (u *ReflectUseCase) Identifiers(path string) (domain.FileOutline, error) {
	r, content, err := u.open(path)
	if err != nil {
		return domain.FileOutline{}, err
	}
	return domain.FileOutline{
		SourceFile:  domain.SourceFile{Path: path, Lang: r.Language()},
		Identifiers: r.Identifiers(content),
	}, nil
}

// FetchBody extracts the block of the first declaration matching target.
func (u *ReflectUseCase) FetchBody(path string, target domain.Target) (domain.Extraction, error) {
	r, content, err := u.open(path)
	if err != nil {
		return domain.Extraction{Target: target}, err
	}
	return r.Extract(content, target), nil
}

func (u *ReflectUseCase) open(path string) (port.Reflector, string, error) {
	r := reflection.ForPath(path)
	if r == nil {
		return nil, "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedLanguage,
			filepath.Ext(path), strings.Join(reflection.Extensions(), ", "))
	}
	return r, u.reader.Read(path), nil
}
