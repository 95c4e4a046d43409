// Package reader drains a record source with one of three disciplines:
// ParseAll materializes every record, ParseInBatches yields bounded batches,
// and ParseWithCallback pushes borrowed views to a handler.
//
// Every call opens its own source and releases it before returning (or, for
// batches, once the iterator is exhausted or closed). Records returned by
// ParseAll and ParseInBatches are copies and outlive the source.
package reader

import (
	"io"
	"time"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

// ParseAll decodes every MBO record of in, in file order. It stops at the
// first error and then returns no records.
func ParseAll(in source.Opener, opts ...Option) ([]dbn.MBOMsg, error) {
	cfg := newConfig(opts)
	start := time.Now()

	src, err := in.Open()
	if err != nil {
		cfg.failed(MethodDirect, err)
		return nil, err
	}
	defer src.Close()

	records, consumed, err := decodeAll(src.Bytes())
	if err != nil {
		cfg.failed(MethodDirect, err)
		return nil, err
	}

	stats := ParseStats{TotalRecords: uint64(len(records)), Elapsed: time.Since(start), BytesProcessed: consumed}
	cfg.records(MethodDirect, len(records))
	cfg.session(MethodDirect, stats)
	cfg.logger.Debug("parsed records", "method", string(MethodDirect), "source", src.Name(),
		"records", stats.TotalRecords, "bytes", stats.BytesProcessed, "elapsed", stats.Elapsed)
	return records, nil
}

func decodeAll(buf []byte) ([]dbn.MBOMsg, int64, error) {
	cur, err := dbn.NewCursor(buf)
	if err != nil {
		return nil, 0, err
	}

	var dec dbn.MBODecoder
	records := make([]dbn.MBOMsg, 0, estimateRecords(cur.Remaining()))
	for {
		w, err := cur.NextFor(dbn.RTypeMbo)
		if err == io.EOF {
			return records, cur.Consumed(), nil
		}
		if err != nil {
			return nil, 0, err
		}
		msg, err := dec.DecodeMBO(w)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, msg)
	}
}

// estimateRecords sizes a record slice from the bytes left to decode.
func estimateRecords(remaining int64) int {
	return int(remaining / dbn.MBOSize)
}
