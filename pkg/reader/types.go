package reader

import (
	"io"
	"log/slog"

	"github.com/ssargent/dbnread/pkg/dbn"
)

// Method names the delivery discipline of a parse call.
type Method string

const (
	MethodDirect Method = "direct"
	MethodBatch  Method = "batch"
	MethodStream Method = "stream"
)

// DefaultBatchSize matches the batch size of the command line tools.
const DefaultBatchSize = 10000

// Handler receives each record of a streaming parse. The view borrows the
// source buffer and is only valid until the handler returns. A non-nil
// error stops the parse.
type Handler func(v dbn.MBOView) error

// Observer is told about parse activity. Implementations must be safe for
// concurrent use when parses run concurrently.
type Observer interface {
	ObserveRecords(method Method, n int)
	ObserveSession(method Method, stats ParseStats)
	ObserveError(method Method, kind dbn.ErrorKind)
}

// Option configures a parse call.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	observer    Observer
	bufferReuse bool
	statsSink   *ParseStats
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver reports parse activity to o.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithBufferReuse makes a BatchIterator refill one backing slice for every
// batch. Callers must copy a batch they want to keep before calling Next.
func WithBufferReuse(reuse bool) Option {
	return func(c *config) {
		c.bufferReuse = reuse
	}
}

// CaptureStats copies the statistics of a successful parse into dst. It is
// the only way to get statistics out of ParseAll.
func CaptureStats(dst *ParseStats) Option {
	return func(c *config) {
		c.statsSink = dst
	}
}

func newConfig(opts []Option) config {
	c := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) records(m Method, n int) {
	if c.observer != nil && n > 0 {
		c.observer.ObserveRecords(m, n)
	}
}

func (c config) session(m Method, s ParseStats) {
	if c.statsSink != nil {
		*c.statsSink = s
	}
	if c.observer != nil {
		c.observer.ObserveSession(m, s)
	}
}

func (c config) failed(m Method, err error) {
	c.logger.Debug("parse failed", "method", string(m), "error", err)
	if c.observer != nil {
		c.observer.ObserveError(m, dbn.KindOf(err))
	}
}
