// Package source provides the read-only byte spans decoded by dbnread.
//
// A Source is either a memory-mapped file, a file read fully into memory, or
// a caller-owned buffer. Its length never changes and nothing writes to it.
// Views and windows cut from Bytes are valid until Close.
package source

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/ssargent/dbnread/pkg/dbn"
)

// Mode selects how a file is brought into memory.
type Mode int

const (
	ModeMmap Mode = iota
	ModeBuffered
)

func (m Mode) String() string {
	switch m {
	case ModeMmap:
		return "mmap"
	case ModeBuffered:
		return "buffered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mmap":
		return ModeMmap, nil
	case "buffered", "buffer", "memory":
		return ModeBuffered, nil
	default:
		return 0, dbn.NewError(dbn.InvalidArgument, -1, "unknown source mode %q", s)
	}
}

// Source is an immutable span of bytes.
type Source struct {
	name  string
	mode  Mode
	data  []byte
	file  *os.File
	unmap func([]byte) error

	closeOnce sync.Once
	closeErr  error
}

// Bytes returns the span. It must not be modified.
func (s *Source) Bytes() []byte {
	return s.data
}

// Len returns the span length in bytes.
func (s *Source) Len() int {
	return len(s.data)
}

// Name returns the file path, or "<memory>" for borrowed buffers.
func (s *Source) Name() string {
	return s.name
}

// Mode returns how the span is backed.
func (s *Source) Mode() Mode {
	return s.mode
}

// Close releases the mapping or buffer. It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		var errs *multierror.Error
		if s.unmap != nil && s.data != nil {
			if err := s.unmap(s.data); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("unmap %s: %w", s.name, err))
			}
		}
		if s.file != nil {
			if err := s.file.Close(); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("close %s: %w", s.name, err))
			}
		}
		s.data = nil
		s.closeErr = errs.ErrorOrNil()
	})
	return s.closeErr
}

// FromBytes wraps a caller-owned buffer without copying. Close does not
// free it.
func FromBytes(b []byte) *Source {
	return &Source{name: "<memory>", mode: ModeBuffered, data: b}
}

// Options control how a file is opened.
type Options struct {
	Mode Mode
	// Parallelism is the number of concurrent chunk reads in buffered mode.
	Parallelism int
}

// DefaultOptions returns mmap with no parallel loading.
func DefaultOptions() Options {
	return Options{Mode: ModeMmap, Parallelism: 1}
}

// Open brings the file at path into memory. Any failure is reported as
// SourceUnavailable.
func Open(path string, opts Options) (*Source, error) {
	switch opts.Mode {
	case ModeMmap:
		return openMmap(path)
	case ModeBuffered:
		return Load(path, opts.Parallelism)
	default:
		return nil, dbn.NewError(dbn.InvalidArgument, -1, "unknown source mode %d", int(opts.Mode))
	}
}

func unavailable(path string, err error) error {
	return &dbn.DecodeError{Kind: dbn.SourceUnavailable, Offset: -1, Detail: path, Err: err}
}

// Opener creates a fresh Source for one parse call.
type Opener interface {
	Open() (*Source, error)
}

type pathOpener struct {
	path string
	opts Options
}

func (p pathOpener) Open() (*Source, error) {
	return Open(p.path, p.opts)
}

func (p pathOpener) String() string {
	return p.path
}

// Path opens the file at path with the default options.
func Path(path string) Opener {
	return pathOpener{path: path, opts: DefaultOptions()}
}

// PathWithOptions opens the file at path with opts.
func PathWithOptions(path string, opts Options) Opener {
	return pathOpener{path: path, opts: opts}
}

type bytesOpener []byte

func (b bytesOpener) Open() (*Source, error) {
	return FromBytes(b), nil
}

// Bytes borrows an in-memory buffer.
func Bytes(b []byte) Opener {
	return bytesOpener(b)
}
