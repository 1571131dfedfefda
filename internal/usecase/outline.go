package usecase

import (
	"context"
	"errors"
	"sync"

	"codemag/internal/domain"
)

// ProgressFunc is called after each file with the number of files done so far.
type ProgressFunc func(processed, total int, currentFile string)

// OutlineUseCase lists the declarations of every source file under a root.
type OutlineUseCase struct {
	reflect *ReflectUseCase
	workers int
}

// NewOutlineUseCase creates a new outline use case.
func NewOutlineUseCase(reflect *ReflectUseCase, workers int) *OutlineUseCase {
	if workers <= 0 {
		workers = 1
	}
	return &OutlineUseCase{reflect: reflect, workers: workers}
}

// OutlineResult contains the results of an outline run.
type OutlineResult struct {
	Files       []domain.FileOutline `json:"files"`
	Identifiers int                  `json:"identifiers"`
	Skipped     []domain.SourceFile  `json:"skipped,omitempty"`
}

// Outline scans root and reflects every file with a pool of workers. Files
// keep the scanner's order. Files without a reflector are reported in
// Skipped. A root that cannot be listed is an error. When ctx is cancelled,
// no new files are started and ctx.Err() is returned.
func (u *OutlineUseCase) Outline(ctx context.Context, root string, progress ProgressFunc) (*OutlineResult, error) {
	paths, err := u.reflect.ScanFiles(root)
	if err != nil {
		return nil, err
	}
	outlines := make([]domain.FileOutline, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	processed := 0

	for w := 0; w < u.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outlines[i], errs[i] = u.reflect.Identifiers(paths[i])

				if progress != nil {
					mu.Lock()
					processed++
					progress(processed, len(paths), paths[i])
					mu.Unlock()
				}
			}
		}()
	}

	var cancelled error
feed:
	for i := range paths {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}

	result := &OutlineResult{Files: make([]domain.FileOutline, 0, len(paths))}
	for i, o := range outlines {
		if errs[i] != nil {
			if errors.Is(errs[i], ErrUnsupportedLanguage) {
				result.Skipped = append(result.Skipped, domain.SourceFile{Path: paths[i]})
				continue
			}
			return nil, errs[i]
		}
		result.Files = append(result.Files, o)
		result.Identifiers += len(o.Identifiers)
	}
	return result, nil
}
