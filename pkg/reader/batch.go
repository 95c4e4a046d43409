package reader

import (
	"io"
	"time"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

// BatchIterator yields the records of a source in bounded batches.
// It is not restartable; parse the source again for a second pass.
type BatchIterator struct {
	src   *source.Source
	cur   *dbn.Cursor
	dec   dbn.MBODecoder
	cfg   config
	size  int
	start time.Time

	batch     []dbn.MBOMsg
	records   uint64
	err       error
	exhausted bool
	closed    bool
	stats     *ParseStats
}

// ParseInBatches opens in and returns an iterator over batches of at most
// batchSize records. A non-positive batchSize fails with InvalidArgument
// before the source is opened.
func ParseInBatches(in source.Opener, batchSize int, opts ...Option) (*BatchIterator, error) {
	cfg := newConfig(opts)
	if batchSize <= 0 {
		err := dbn.NewError(dbn.InvalidArgument, -1, "batch size must be positive, got %d", batchSize)
		cfg.failed(MethodBatch, err)
		return nil, err
	}

	start := time.Now()
	src, err := in.Open()
	if err != nil {
		cfg.failed(MethodBatch, err)
		return nil, err
	}

	cur, err := dbn.NewCursor(src.Bytes())
	if err != nil {
		src.Close()
		cfg.failed(MethodBatch, err)
		return nil, err
	}

	return &BatchIterator{
		src:   src,
		cur:   cur,
		cfg:   cfg,
		size:  batchSize,
		start: start,
	}, nil
}

// Next decodes the next batch. It returns false when the source is
// exhausted or a decode error occurred; check Err to tell them apart.
func (it *BatchIterator) Next() bool {
	if it.closed || it.err != nil {
		return false
	}
	if it.exhausted {
		it.finish()
		return false
	}

	batch := it.nextBuffer()
	for len(batch) < it.size {
		w, err := it.cur.NextFor(dbn.RTypeMbo)
		if err == io.EOF {
			it.exhausted = true
			break
		}
		if err != nil {
			it.fail(err)
			return false
		}
		msg, err := it.dec.DecodeMBO(w)
		if err != nil {
			it.fail(err)
			return false
		}
		batch = append(batch, msg)
	}

	if len(batch) == 0 {
		it.finish()
		return false
	}

	it.batch = batch
	it.records += uint64(len(batch))
	it.cfg.records(MethodBatch, len(batch))
	return true
}

// nextBuffer returns an empty slice for the next batch, reusing the
// previous backing array when buffer reuse is on.
func (it *BatchIterator) nextBuffer() []dbn.MBOMsg {
	if it.cfg.bufferReuse && it.batch != nil {
		return it.batch[:0]
	}
	n := estimateRecords(it.cur.Remaining())
	if n > it.size {
		n = it.size
	}
	return make([]dbn.MBOMsg, 0, n)
}

// Batch returns the batch decoded by the last successful Next.
func (it *BatchIterator) Batch() []dbn.MBOMsg {
	return it.batch
}

// Err returns the decode error that stopped the iterator, if any.
// Batches yielded before the error remain valid.
func (it *BatchIterator) Err() error {
	return it.err
}

// Records returns the number of records yielded so far.
func (it *BatchIterator) Records() uint64 {
	return it.records
}

// Stats returns the parse statistics once the iterator has been drained
// without error, or nil.
func (it *BatchIterator) Stats() *ParseStats {
	return it.stats
}

// Close releases the source. It is safe to call at any point and more
// than once.
func (it *BatchIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if !it.cfg.bufferReuse {
		it.batch = nil
	}
	return it.src.Close()
}

func (it *BatchIterator) finish() {
	if it.closed {
		return
	}
	stats := ParseStats{TotalRecords: it.records, Elapsed: time.Since(it.start), BytesProcessed: it.cur.Consumed()}
	it.stats = &stats
	it.cfg.session(MethodBatch, stats)
	it.cfg.logger.Debug("parsed records", "method", string(MethodBatch), "source", it.src.Name(),
		"records", stats.TotalRecords, "batch_size", it.size, "elapsed", stats.Elapsed)
	it.Close()
}

func (it *BatchIterator) fail(err error) {
	it.err = err
	it.batch = nil
	it.cfg.failed(MethodBatch, err)
	it.Close()
}

// CollectBatches drains it and returns every batch. Batches are copied when
// the iterator reuses its buffer.
func CollectBatches(it *BatchIterator) ([][]dbn.MBOMsg, error) {
	defer it.Close()

	var batches [][]dbn.MBOMsg
	for it.Next() {
		b := it.Batch()
		if it.cfg.bufferReuse {
			b = append([]dbn.MBOMsg(nil), b...)
		}
		batches = append(batches, b)
	}
	return batches, it.Err()
}
