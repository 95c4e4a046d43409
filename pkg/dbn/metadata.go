package dbn

import (
	"bytes"
	"encoding/binary"
)

const (
	// MetadataPrefixSize covers the magic, version byte and length field.
	MetadataPrefixSize = 8

	datasetLen = 16
)

var metadataMagic = []byte("DBN")

// Metadata is the optional block at the start of a container. Only the
// fixed fields are decoded; anything after them is skipped.
type Metadata struct {
	Present     bool
	Version     uint8
	Length      uint32 // bytes of metadata following the 8-byte prefix
	Dataset     string
	Schema      uint16
	Start       uint64
	End         uint64
	Limit       uint64
	RecordCount uint64 // version 1 only
	STypeIn     uint8
	STypeOut    uint8
	TsOut       uint8
}

// RecordsOffset is the buffer offset of the first record.
func (m Metadata) RecordsOffset() int64 {
	if !m.Present {
		return 0
	}
	return MetadataPrefixSize + int64(m.Length)
}

func (m Metadata) fixedSize() int {
	n := datasetLen + 2 + 8 + 8 + 8 + 3
	if m.Version == 1 {
		n += 8
	}
	return n
}

// HasMetadataPrefix reports whether buf starts with the container magic.
func HasMetadataPrefix(buf []byte) bool {
	return len(buf) >= len(metadataMagic) && bytes.Equal(buf[:len(metadataMagic)], metadataMagic)
}

// ReadMetadata decodes the metadata block at the start of buf. A buffer
// without the magic returns a zero Metadata with Present unset.
func ReadMetadata(buf []byte) (Metadata, error) {
	if !HasMetadataPrefix(buf) {
		return Metadata{}, nil
	}
	if len(buf) < MetadataPrefixSize {
		return Metadata{}, NewError(TruncatedHeader, 0,
			"metadata prefix needs %d bytes, buffer has %d", MetadataPrefixSize, len(buf))
	}

	m := Metadata{
		Present: true,
		Version: buf[3],
		Length:  binary.LittleEndian.Uint32(buf[4:8]),
	}
	if m.Version == 0 {
		return Metadata{}, NewError(InvalidHeader, 3, "metadata version 0")
	}
	end := int64(MetadataPrefixSize) + int64(m.Length)
	if end > int64(len(buf)) {
		return Metadata{}, NewError(TruncatedHeader, 0,
			"metadata declares %d bytes, buffer has %d", m.Length, len(buf)-MetadataPrefixSize)
	}

	body := buf[MetadataPrefixSize:end]
	if len(body) < m.fixedSize() {
		// Older writers may emit a short block; keep what the prefix says.
		return m, nil
	}

	m.Dataset = string(bytes.TrimRight(body[:datasetLen], "\x00"))
	p := datasetLen
	m.Schema = binary.LittleEndian.Uint16(body[p:])
	p += 2
	m.Start = binary.LittleEndian.Uint64(body[p:])
	p += 8
	m.End = binary.LittleEndian.Uint64(body[p:])
	p += 8
	m.Limit = binary.LittleEndian.Uint64(body[p:])
	p += 8
	if m.Version == 1 {
		m.RecordCount = binary.LittleEndian.Uint64(body[p:])
		p += 8
	}
	m.STypeIn = body[p]
	m.STypeOut = body[p+1]
	m.TsOut = body[p+2]
	return m, nil
}

// AppendMetadata appends an encoded metadata block to dst. Version 0 is
// written as version 2.
func AppendMetadata(dst []byte, m Metadata) []byte {
	if m.Version == 0 {
		m.Version = 2
	}
	body := make([]byte, m.fixedSize())
	copy(body[:datasetLen], m.Dataset)
	p := datasetLen
	binary.LittleEndian.PutUint16(body[p:], m.Schema)
	p += 2
	binary.LittleEndian.PutUint64(body[p:], m.Start)
	p += 8
	binary.LittleEndian.PutUint64(body[p:], m.End)
	p += 8
	binary.LittleEndian.PutUint64(body[p:], m.Limit)
	p += 8
	if m.Version == 1 {
		binary.LittleEndian.PutUint64(body[p:], m.RecordCount)
		p += 8
	}
	body[p] = m.STypeIn
	body[p+1] = m.STypeOut
	body[p+2] = m.TsOut

	var prefix [MetadataPrefixSize]byte
	copy(prefix[:], metadataMagic)
	prefix[3] = m.Version
	binary.LittleEndian.PutUint32(prefix[4:], uint32(len(body)))

	dst = append(dst, prefix[:]...)
	return append(dst, body...)
}
