package dbn

import (
	"encoding/binary"
	"time"
)

// MBOSize is the encoded size of an MBO record, header included.
const MBOSize = 60

// MBO payload offsets, measured from the start of the record.
const (
	mboOrderID   = 16
	mboPrice     = 24
	mboSize      = 32
	mboFlags     = 36
	mboChannelID = 37
	mboAction    = 38
	mboSide      = 39
	mboTsRecv    = 40
	mboTsInDelta = 48
	mboSequence  = 52
	mboSymbolID  = 56
)

// MBOMsg is a market-by-order record copied out of the source buffer.
// It stays valid after the source is released.
type MBOMsg struct {
	Header    RecordHeader
	OrderID   uint64
	Price     int64 // fixed point, see PriceScale
	Size      uint32
	Flags     Flags
	ChannelID uint8
	Action    Action
	Side      Side
	TsRecv    uint64 // capture-server receive time, ns since epoch
	TsInDelta int32  // ns between sending and receipt at the venue
	Sequence  uint32
	SymbolID  uint32
}

// RecordHeader implements Record.
func (m MBOMsg) RecordHeader() RecordHeader { return m.Header }

// PriceFloat returns the decimal price.
func (m MBOMsg) PriceFloat() float64 { return PriceToFloat(m.Price) }

// RecvTime returns TsRecv as a time.Time.
func (m MBOMsg) RecvTime() time.Time { return time.Unix(0, int64(m.TsRecv)).UTC() }

// MBOView reads MBO fields directly from a record window without copying.
// A view borrows the source buffer: it must not be retained once the
// callback it was handed to returns. Use Copy to keep the record.
type MBOView struct {
	b []byte
}

func (v MBOView) Header() RecordHeader { return decodeHeader(v.b) }
func (v MBOView) RType() RType         { return RType(v.b[1]) }
func (v MBOView) PublisherID() uint16  { return binary.LittleEndian.Uint16(v.b[2:4]) }
func (v MBOView) InstrumentID() uint32 { return binary.LittleEndian.Uint32(v.b[4:8]) }
func (v MBOView) TsEvent() uint64      { return binary.LittleEndian.Uint64(v.b[8:16]) }
func (v MBOView) OrderID() uint64      { return binary.LittleEndian.Uint64(v.b[mboOrderID:]) }
func (v MBOView) Price() int64         { return int64(binary.LittleEndian.Uint64(v.b[mboPrice:])) }
func (v MBOView) PriceFloat() float64  { return PriceToFloat(v.Price()) }
func (v MBOView) Size() uint32         { return binary.LittleEndian.Uint32(v.b[mboSize:]) }
func (v MBOView) Flags() Flags         { return Flags(v.b[mboFlags]) }
func (v MBOView) ChannelID() uint8     { return v.b[mboChannelID] }
func (v MBOView) Action() Action       { return ParseAction(v.b[mboAction]) }
func (v MBOView) RawAction() byte      { return v.b[mboAction] }
func (v MBOView) Side() Side           { return ParseSide(v.b[mboSide]) }
func (v MBOView) RawSide() byte        { return v.b[mboSide] }
func (v MBOView) TsRecv() uint64       { return binary.LittleEndian.Uint64(v.b[mboTsRecv:]) }
func (v MBOView) TsInDelta() int32     { return int32(binary.LittleEndian.Uint32(v.b[mboTsInDelta:])) }
func (v MBOView) Sequence() uint32     { return binary.LittleEndian.Uint32(v.b[mboSequence:]) }
func (v MBOView) SymbolID() uint32     { return binary.LittleEndian.Uint32(v.b[mboSymbolID:]) }

// Bytes returns the borrowed record bytes.
func (v MBOView) Bytes() []byte { return v.b }

// Copy materializes the view into an owned MBOMsg.
func (v MBOView) Copy() MBOMsg {
	return decodeMBO(v.b)
}

// MBODecoder decodes MBO records.
type MBODecoder struct{}

// NewMBODecoder creates a new MBO decoder.
func NewMBODecoder() *MBODecoder {
	return &MBODecoder{}
}

func (MBODecoder) RType() RType { return RTypeMbo }
func (MBODecoder) MinSize() int { return MBOSize }

// Decode implements Decoder.
func (d MBODecoder) Decode(w Window) (Record, error) {
	return d.DecodeMBO(w)
}

// DecodeMBO copies the record in w into an MBOMsg. It fails with
// TruncatedRecord when the window is shorter than MBOSize.
func (MBODecoder) DecodeMBO(w Window) (MBOMsg, error) {
	if len(w.Bytes) < MBOSize {
		return MBOMsg{}, NewError(TruncatedRecord, w.Offset,
			"mbo record needs %d bytes, window has %d", MBOSize, len(w.Bytes))
	}
	return decodeMBO(w.Bytes), nil
}

// ViewMBO returns a borrowed view over the record in w.
func (MBODecoder) ViewMBO(w Window) (MBOView, error) {
	if len(w.Bytes) < MBOSize {
		return MBOView{}, NewError(TruncatedRecord, w.Offset,
			"mbo record needs %d bytes, window has %d", MBOSize, len(w.Bytes))
	}
	return MBOView{b: w.Bytes[:MBOSize:MBOSize]}, nil
}

func decodeMBO(b []byte) MBOMsg {
	_ = b[MBOSize-1]
	return MBOMsg{
		Header:    decodeHeader(b),
		OrderID:   binary.LittleEndian.Uint64(b[mboOrderID:]),
		Price:     int64(binary.LittleEndian.Uint64(b[mboPrice:])),
		Size:      binary.LittleEndian.Uint32(b[mboSize:]),
		Flags:     Flags(b[mboFlags]),
		ChannelID: b[mboChannelID],
		Action:    ParseAction(b[mboAction]),
		Side:      ParseSide(b[mboSide]),
		TsRecv:    binary.LittleEndian.Uint64(b[mboTsRecv:]),
		TsInDelta: int32(binary.LittleEndian.Uint32(b[mboTsInDelta:])),
		Sequence:  binary.LittleEndian.Uint32(b[mboSequence:]),
		SymbolID:  binary.LittleEndian.Uint32(b[mboSymbolID:]),
	}
}

// AppendMBO appends the encoded form of m to dst. A zero header length or
// rtype is filled in for the MBO schema.
func AppendMBO(dst []byte, m MBOMsg) []byte {
	if m.Header.Length == 0 {
		m.Header.Length = MBOSize / LengthMultiplier
	}
	if m.Header.RType == 0 {
		m.Header.RType = RTypeMbo
	}

	n := len(dst)
	dst = append(dst, make([]byte, MBOSize)...)
	b := dst[n:]

	putHeader(b, m.Header)
	binary.LittleEndian.PutUint64(b[mboOrderID:], m.OrderID)
	binary.LittleEndian.PutUint64(b[mboPrice:], uint64(m.Price))
	binary.LittleEndian.PutUint32(b[mboSize:], m.Size)
	b[mboFlags] = byte(m.Flags)
	b[mboChannelID] = m.ChannelID
	b[mboAction] = byte(m.Action)
	b[mboSide] = byte(m.Side)
	binary.LittleEndian.PutUint64(b[mboTsRecv:], m.TsRecv)
	binary.LittleEndian.PutUint32(b[mboTsInDelta:], uint32(m.TsInDelta))
	binary.LittleEndian.PutUint32(b[mboSequence:], m.Sequence)
	binary.LittleEndian.PutUint32(b[mboSymbolID:], m.SymbolID)
	return dst
}
