package dbn

import (
	"encoding/binary"
	"math"
	"time"
)

const (
	// HeaderSize is the encoded size of RecordHeader.
	HeaderSize = 16

	// LengthMultiplier converts the header length field to bytes.
	LengthMultiplier = 4

	// PriceScale is the fixed-point divisor of every price field.
	PriceScale = 1e9

	// UndefPrice marks a price field that carries no value.
	UndefPrice int64 = math.MaxInt64
)

// RecordHeader is the fixed-width prefix of every record.
// Layout: [Length(1)][RType(1)][PublisherID(2)][InstrumentID(4)][TsEvent(8)]
type RecordHeader struct {
	Length       uint8  // record size in 4-byte words
	RType        RType  // record-type tag
	PublisherID  uint16 // publisher (venue + dataset) identifier
	InstrumentID uint32 // numeric instrument (product) identifier
	TsEvent      uint64 // matching-engine event time, ns since epoch
}

// Size returns the byte span declared by the header.
func (h RecordHeader) Size() int {
	return int(h.Length) * LengthMultiplier
}

// EventTime returns TsEvent as a time.Time.
func (h RecordHeader) EventTime() time.Time {
	return time.Unix(0, int64(h.TsEvent)).UTC()
}

// decodeHeader reads a header from b, which must hold at least HeaderSize bytes.
func decodeHeader(b []byte) RecordHeader {
	_ = b[HeaderSize-1]
	return RecordHeader{
		Length:       b[0],
		RType:        RType(b[1]),
		PublisherID:  binary.LittleEndian.Uint16(b[2:4]),
		InstrumentID: binary.LittleEndian.Uint32(b[4:8]),
		TsEvent:      binary.LittleEndian.Uint64(b[8:16]),
	}
}

func putHeader(b []byte, h RecordHeader) {
	b[0] = h.Length
	b[1] = byte(h.RType)
	binary.LittleEndian.PutUint16(b[2:4], h.PublisherID)
	binary.LittleEndian.PutUint32(b[4:8], h.InstrumentID)
	binary.LittleEndian.PutUint64(b[8:16], h.TsEvent)
}

// PriceToFloat converts a fixed-point price to its decimal value.
// UndefPrice converts to NaN.
func PriceToFloat(p int64) float64 {
	if p == UndefPrice {
		return math.NaN()
	}
	return float64(p) / PriceScale
}

// PriceFromFloat converts a decimal price to fixed point, rounding to the
// nearest representable tick.
func PriceFromFloat(f float64) int64 {
	if math.IsNaN(f) {
		return UndefPrice
	}
	return int64(math.Round(f * PriceScale))
}
