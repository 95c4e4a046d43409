package dbn

import "io"

// Window is one record's span of the source buffer. Bytes is a sub-slice of
// the buffer, not a copy.
type Window struct {
	Offset int64
	Header RecordHeader
	Bytes  []byte
}

// Cursor walks a buffer as a sequence of length-prefixed records. It only
// moves forward and only by the length each header declares.
type Cursor struct {
	buf      []byte
	offset   int64
	records  uint64
	metadata Metadata
}

// NewCursor positions a cursor on the first record of buf, skipping the
// metadata block when one is present. An empty buffer is valid and is
// immediately exhausted; a non-empty buffer shorter than one header fails
// with TruncatedHeader.
func NewCursor(buf []byte) (*Cursor, error) {
	md, err := ReadMetadata(buf)
	if err != nil {
		return nil, err
	}

	c := &Cursor{buf: buf, metadata: md, offset: md.RecordsOffset()}
	if rem := c.Remaining(); rem > 0 && rem < HeaderSize {
		return nil, NewError(TruncatedHeader, c.offset,
			"need %d bytes for a record header, have %d", HeaderSize, rem)
	}
	return c, nil
}

// Next returns the window of the record at the current offset and advances
// past it. It returns io.EOF once the offset equals the buffer length.
func (c *Cursor) Next() (Window, error) {
	rem := c.Remaining()
	if rem == 0 {
		return Window{}, io.EOF
	}
	if rem < HeaderSize {
		return Window{}, NewError(TruncatedHeader, c.offset,
			"need %d bytes for a record header, have %d", HeaderSize, rem)
	}

	start := c.offset
	hd := decodeHeader(c.buf[start:])
	size := int64(hd.Size())
	if size < HeaderSize {
		return Window{}, NewError(InvalidHeader, start,
			"record length %d words is shorter than the header", hd.Length)
	}
	if size > rem {
		return Window{}, NewError(TruncatedRecord, start,
			"record declares %d bytes, %d remain", size, rem)
	}

	end := start + size
	c.offset = end
	c.records++
	return Window{Offset: start, Header: hd, Bytes: c.buf[start:end:end]}, nil
}

// NextFor is Next for a single schema: a record whose rtype differs from
// rtype fails with InvalidHeader and the cursor does not advance.
func (c *Cursor) NextFor(rtype RType) (Window, error) {
	if rem := c.Remaining(); rem >= HeaderSize {
		if got := RType(c.buf[c.offset+1]); got != rtype {
			return Window{}, NewError(InvalidHeader, c.offset,
				"rtype %s where %s was expected", got, rtype)
		}
	}
	return c.Next()
}

// Offset returns the byte offset of the next record.
func (c *Cursor) Offset() int64 {
	return c.offset
}

// Remaining returns the number of bytes not yet consumed.
func (c *Cursor) Remaining() int64 {
	return int64(len(c.buf)) - c.offset
}

// Records returns the number of windows returned so far.
func (c *Cursor) Records() uint64 {
	return c.records
}

// Consumed returns the bytes of record data walked so far, excluding the
// metadata block.
func (c *Cursor) Consumed() int64 {
	return c.offset - c.metadata.RecordsOffset()
}

// Metadata returns the container metadata, if the buffer carried any.
func (c *Cursor) Metadata() Metadata {
	return c.metadata
}
