package converter

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sql-remap/internal/model"
)

// FileResult is the outcome of converting one input file.
type FileResult struct {
	Path   string
	Result *model.ConversionResult
	Err    error
}

// FindSQLFiles walks root and returns every .sql file, skipping hidden
// directories and paths matching the exclude patterns.
func FindSQLFiles(root string, excludes []string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && d.Name() != "." {
				return filepath.SkipDir
			}
			for _, exclude := range excludes {
				if strings.Contains(path, exclude) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, exclude := range excludes {
			matched, _ := filepath.Match(exclude, d.Name())
			if matched || strings.Contains(path, exclude) {
				return nil
			}
		}

		if strings.EqualFold(filepath.Ext(path), ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ConvertFiles converts many files concurrently, one engine invocation per
// file. The mapping table is shared read-only across workers. The returned
// channel is closed once every file has been processed or ctx is done.
func (e *Engine) ConvertFiles(ctx context.Context, paths []string, concurrency int) <-chan FileResult {
	if concurrency < 1 {
		concurrency = 1
	}

	work := make(chan string)
	results := make(chan FileResult)

	go func() {
		defer close(work)
		for _, p := range paths {
			select {
			case work <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				res := e.convertFile(path)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (e *Engine) convertFile(path string) FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	result, err := e.Convert(string(data))
	return FileResult{Path: path, Result: result, Err: err}
}
