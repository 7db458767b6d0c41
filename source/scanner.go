// Package source implements the external Source/Monitor adapters spec.md
// §6 leaves abstract: a glob-rooted filesystem scanner and an fsnotify
// change Monitor.
package source

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tangerg/pagestream/asyncstream"
	"github.com/tangerg/pagestream/content"
	"github.com/tangerg/pagestream/mediatype"
	"github.com/tangerg/pagestream/pipeline"
	"github.com/tangerg/pagestream/resource"
)

// Options configures Scan.
type Options struct {
	// Concurrency bounds how many files are stat'd concurrently while
	// building the initial Resource set. Defaults to 8.
	Concurrency int
}

// fileURL builds the file:// URL identity for an absolute filesystem path
// (spec.md §6: "path = file:// URL of the absolute file path").
func fileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}

// Scan returns a pipeline.SourceFunc that, on each invocation, walks root
// for files matching pattern (a doublestar glob rooted at root) and emits
// one Resource per match: a single Content with media type inferred from
// the extension, no language, lastModified from the file's mtime, and a
// lazy thunk reading the file's bytes.
func Scan(root, pattern string, opts ...Options) pipeline.SourceFunc {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	concurrency := opt.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	return func(ctx context.Context) (asyncstream.Reader[*resource.Resource], error) {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return nil, err
		}

		resources := make([]*resource.Resource, len(matches))
		pool, err := newPool(concurrency)
		if err != nil {
			return nil, err
		}
		defer pool.Release()

		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error
		recordErr := func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
		}

		for i, rel := range matches {
			i, rel := i, rel
			select {
			case <-ctx.Done():
				recordErr(ctx.Err())
			default:
			}

			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				r, err := buildResource(root, rel)
				if err != nil {
					recordErr(err)
					return
				}
				resources[i] = r
			})
			if submitErr != nil {
				wg.Done()
				recordErr(submitErr)
			}
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
		return asyncstream.OfSlice(resources), nil
	}
}

func buildResource(root, rel string) (*resource.Resource, error) {
	absPath := filepath.Join(root, rel)
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	mt := mediatype.TypeByFilename(absPath)
	c, err := content.NewLazy(mt, nil, info.ModTime(), func(ctx context.Context) ([]byte, error) {
		return os.ReadFile(absPath)
	})
	if err != nil {
		return nil, err
	}

	return resource.New(fileURL(absPath), c)
}
