package reader

import (
	"io"
	"time"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

// ParseWithCallback calls h once per MBO record of in, in file order, and
// returns the statistics of the scan. The view passed to h borrows the
// source and must not be retained.
//
// When h returns an error the parse stops at once and fails with
// HandlerAborted; errors.Is matches both dbn.ErrHandlerAborted and the
// handler's own error. No statistics are returned on failure.
func ParseWithCallback(in source.Opener, h Handler, opts ...Option) (*ParseStats, error) {
	cfg := newConfig(opts)
	if h == nil {
		err := dbn.NewError(dbn.InvalidArgument, -1, "handler must not be nil")
		cfg.failed(MethodStream, err)
		return nil, err
	}

	start := time.Now()
	src, err := in.Open()
	if err != nil {
		cfg.failed(MethodStream, err)
		return nil, err
	}
	defer src.Close()

	stats, err := stream(src.Bytes(), h)
	if err != nil {
		cfg.failed(MethodStream, err)
		return nil, err
	}
	stats.Elapsed = time.Since(start)

	cfg.records(MethodStream, int(stats.TotalRecords))
	cfg.session(MethodStream, stats)
	cfg.logger.Debug("parsed records", "method", string(MethodStream), "source", src.Name(),
		"records", stats.TotalRecords, "bytes", stats.BytesProcessed, "elapsed", stats.Elapsed)
	return &stats, nil
}

func stream(buf []byte, h Handler) (ParseStats, error) {
	cur, err := dbn.NewCursor(buf)
	if err != nil {
		return ParseStats{}, err
	}

	var dec dbn.MBODecoder
	for {
		w, err := cur.NextFor(dbn.RTypeMbo)
		if err == io.EOF {
			break
		}
		if err != nil {
			return ParseStats{}, err
		}
		v, err := dec.ViewMBO(w)
		if err != nil {
			return ParseStats{}, err
		}
		if err := h(v); err != nil {
			return ParseStats{}, dbn.WrapError(dbn.HandlerAborted, w.Offset, err)
		}
	}

	return ParseStats{TotalRecords: cur.Records(), BytesProcessed: cur.Consumed()}, nil
}
