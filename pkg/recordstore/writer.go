package recordstore

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/dbnread/pkg/dbn"
)

// Writer buffers puts for one session in a Pebble batch and commits every
// flushEvery records. A Writer is not safe for concurrent use.
type Writer struct {
	store      *Store
	session    ksuid.KSUID
	batch      *pebble.Batch
	pending    int
	flushEvery int
	written    uint64
	ordinal    uint64
	buf        []byte
}

// NewWriter starts a batched writer for session. A non-positive flushEvery
// uses DefaultFlushEvery.
func (s *Store) NewWriter(session ksuid.KSUID, flushEvery int) *Writer {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	return &Writer{
		store:      s,
		session:    session,
		flushEvery: flushEvery,
		buf:        make([]byte, 0, dbn.MBOSize),
	}
}

// Session returns the session the writer stores into.
func (w *Writer) Session() ksuid.KSUID {
	return w.session
}

// Put adds m to the current batch, committing it when full. Records are
// keyed by the order of Put calls, so none of them replaces another.
func (w *Writer) Put(m dbn.MBOMsg) error {
	if w.batch == nil {
		w.store.mu.RLock()
		closed := w.store.closed
		if !closed {
			w.batch = w.store.db.NewBatch()
		}
		w.store.mu.RUnlock()
		if closed {
			return ErrClosed
		}
	}

	// Batch.Set copies key and value, so the scratch buffer can be reused.
	w.buf = dbn.AppendMBO(w.buf[:0], m)
	if err := w.batch.Set(Key(w.session, w.ordinal, m), w.buf, nil); err != nil {
		return fmt.Errorf("batch set: %w", err)
	}
	w.ordinal++
	w.pending++
	if w.pending >= w.flushEvery {
		return w.Flush()
	}
	return nil
}

// PutView stores a borrowed record view.
func (w *Writer) PutView(v dbn.MBOView) error {
	return w.Put(v.Copy())
}

// Flush commits the pending batch.
func (w *Writer) Flush() error {
	if w.batch == nil {
		return nil
	}

	w.store.mu.RLock()
	defer w.store.mu.RUnlock()
	if w.store.closed {
		return ErrClosed
	}

	if err := w.batch.Commit(pebble.NoSync); err != nil {
		return fmt.Errorf("batch commit: %w", err)
	}
	w.written += uint64(w.pending)
	w.pending = 0
	if err := w.batch.Close(); err != nil {
		return err
	}
	w.batch = nil
	return nil
}

// Written returns the number of records committed so far.
func (w *Writer) Written() uint64 {
	return w.written
}

// Close commits anything pending.
func (w *Writer) Close() error {
	return w.Flush()
}
