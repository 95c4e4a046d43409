// Package recordstore persists decoded MBO records in a Pebble database.
//
// Each export run is a session identified by a KSUID. Keys sort by session,
// then instrument, then event time, then sequence, then the order in which
// the record was put:
//
//	ksuid (20) | instrument_id u32 BE | ts_event u64 BE | sequence u32 BE | ordinal u64 BE
//
// Several records of one venue message share instrument, event time and
// sequence; the ordinal keeps each of them and preserves file order.
//
// Values are the records re-encoded in wire form, so a stored value can be
// read back with the same decoder used for files.
package recordstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/hashicorp/go-multierror"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/dbnread/pkg/dbn"
)

const (
	// sessionLen is the encoded length of a KSUID.
	sessionLen = 20

	// KeySize is the length of every record key.
	KeySize = sessionLen + 4 + 8 + 4 + 8

	// DefaultFlushEvery is the number of puts a Writer buffers per batch.
	DefaultFlushEvery = 4096
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("recordstore: store is closed")

// Store is a Pebble-backed record store. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *pebble.DB
	closed bool
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open record store %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// NewSession returns a fresh session ID. IDs sort by creation time.
func (s *Store) NewSession() ksuid.KSUID {
	return ksuid.New()
}

// Key builds the key of m within session. ordinal is the record's position
// in the session and must be unique within it.
func Key(session ksuid.KSUID, ordinal uint64, m dbn.MBOMsg) []byte {
	key := make([]byte, KeySize)
	copy(key, session.Bytes())
	off := sessionLen
	binary.BigEndian.PutUint32(key[off:], m.Header.InstrumentID)
	binary.BigEndian.PutUint64(key[off+4:], m.Header.TsEvent)
	binary.BigEndian.PutUint32(key[off+12:], m.Sequence)
	binary.BigEndian.PutUint64(key[off+16:], ordinal)
	return key
}

// Put stores one record at ordinal. Putting a second record at the same
// ordinal with the same instrument, event time and sequence replaces it.
func (s *Store) Put(session ksuid.KSUID, ordinal uint64, m dbn.MBOMsg) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return s.db.Set(Key(session, ordinal, m), dbn.AppendMBO(nil, m), pebble.NoSync)
}

// Get reads the record stored under key.
func (s *Store) Get(key []byte) (dbn.MBOMsg, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return dbn.MBOMsg{}, ErrClosed
	}

	data, closer, err := s.db.Get(key)
	if err != nil {
		return dbn.MBOMsg{}, err
	}
	defer closer.Close()

	var dec dbn.MBODecoder
	return dec.DecodeMBO(dbn.Window{Offset: -1, Bytes: data})
}

// Scan calls fn for every record of one instrument in session, in key
// order. Returning an error from fn stops the scan and returns that error.
func (s *Store) Scan(session ksuid.KSUID, instrumentID uint32, fn func(dbn.MBOMsg) error) error {
	lower := make([]byte, sessionLen+4)
	copy(lower, session.Bytes())
	binary.BigEndian.PutUint32(lower[sessionLen:], instrumentID)
	return s.scan(lower, fn)
}

// ScanAll is Scan over every instrument of session.
func (s *Store) ScanAll(session ksuid.KSUID, fn func(dbn.MBOMsg) error) error {
	return s.scan(append([]byte{}, session.Bytes()...), fn)
}

func (s *Store) scan(prefix []byte, fn func(dbn.MBOMsg) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	lower, upper := prefix, prefixEnd(prefix)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return err
	}

	var dec dbn.MBODecoder
	var scanErr error
	for iter.First(); iter.Valid(); iter.Next() {
		m, err := dec.DecodeMBO(dbn.Window{Offset: -1, Bytes: iter.Value()})
		if err != nil {
			scanErr = fmt.Errorf("decode %x: %w", iter.Key(), err)
			break
		}
		if err := fn(m); err != nil {
			scanErr = err
			break
		}
	}

	var result *multierror.Error
	if scanErr != nil {
		result = multierror.Append(result, scanErr)
	}
	if err := iter.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Count returns the number of records stored for session.
func (s *Store) Count(session ksuid.KSUID) (int, error) {
	n := 0
	err := s.ScanAll(session, func(dbn.MBOMsg) error {
		n++
		return nil
	})
	return n, err
}

// Close flushes and closes the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var result *multierror.Error
	if err := s.db.Flush(); err != nil {
		result = multierror.Append(result, fmt.Errorf("flush: %w", err))
	}
	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close: %w", err))
	}
	return result.ErrorOrNil()
}

// prefixEnd returns the smallest key greater than every key with prefix p,
// or nil when p is all 0xFF.
func prefixEnd(p []byte) []byte {
	end := append([]byte{}, p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
