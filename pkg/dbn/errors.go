package dbn

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	SourceUnavailable
	TruncatedHeader
	TruncatedRecord
	InvalidHeader
	InvalidArgument
	HandlerAborted
)

func (k ErrorKind) String() string {
	switch k {
	case SourceUnavailable:
		return "source unavailable"
	case TruncatedHeader:
		return "truncated header"
	case TruncatedRecord:
		return "truncated record"
	case InvalidHeader:
		return "invalid header"
	case InvalidArgument:
		return "invalid argument"
	case HandlerAborted:
		return "handler aborted"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. A *DecodeError matches the sentinel of its kind.
var (
	ErrSourceUnavailable = &DecodeError{Kind: SourceUnavailable, Offset: -1}
	ErrTruncatedHeader   = &DecodeError{Kind: TruncatedHeader, Offset: -1}
	ErrTruncatedRecord   = &DecodeError{Kind: TruncatedRecord, Offset: -1}
	ErrInvalidHeader     = &DecodeError{Kind: InvalidHeader, Offset: -1}
	ErrInvalidArgument   = &DecodeError{Kind: InvalidArgument, Offset: -1}
	ErrHandlerAborted    = &DecodeError{Kind: HandlerAborted, Offset: -1}
)

// DecodeError reports a failure together with the byte offset at which it
// was detected. Offset is -1 when the failure is not tied to a position.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64
	Detail string
	Err    error
}

// NewError builds a DecodeError for the given kind and offset.
func NewError(kind ErrorKind, offset int64, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// WrapError builds a DecodeError that carries an underlying cause.
func WrapError(kind ErrorKind, offset int64, err error) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Err: err}
}

func (e *DecodeError) Error() string {
	msg := e.Kind.String()
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first DecodeError in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) ErrorKind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// OffsetOf returns the byte offset recorded in err's chain, or -1.
func OffsetOf(err error) int64 {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Offset
	}
	return -1
}
