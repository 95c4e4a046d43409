package reader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

// ctxCheckInterval is how many records pass between context checks.
const ctxCheckInterval = 4096

// FileHandler returns the handler for one file of a multi-file parse. It is
// called once per file, possibly from several goroutines at a time.
type FileHandler func(path string) Handler

// ParseFiles streams several files concurrently, at most concurrency at a
// time, and returns their statistics in input order. The first failure
// cancels the files still running; they stop with HandlerAborted wrapping
// the context error.
func ParseFiles(ctx context.Context, paths []string, opts source.Options, concurrency int, fh FileHandler, ropts ...Option) ([]*ParseStats, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*ParseStats, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			h := fh(path)
			if h == nil {
				return dbn.NewError(dbn.InvalidArgument, -1, "no handler for %s", path)
			}
			var n int
			stats, err := ParseWithCallback(source.PathWithOptions(path, opts), func(v dbn.MBOView) error {
				n++
				if n%ctxCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				return h(v)
			}, ropts...)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			results[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
