package dbn

import "encoding/binary"

// TradeSize is the encoded size of a trade (mbp-0) record.
const TradeSize = 48

const (
	tradePrice     = 16
	tradeSize      = 24
	tradeAction    = 28
	tradeSide      = 29
	tradeFlags     = 30
	tradeDepth     = 31
	tradeTsRecv    = 32
	tradeTsInDelta = 40
	tradeSequence  = 44
)

// TradeMsg is a trade record copied out of the source buffer.
type TradeMsg struct {
	Header    RecordHeader
	Price     int64
	Size      uint32
	Action    Action
	Side      Side
	Flags     Flags
	Depth     uint8
	TsRecv    uint64
	TsInDelta int32
	Sequence  uint32
}

// RecordHeader implements Record.
func (t TradeMsg) RecordHeader() RecordHeader { return t.Header }

// PriceFloat returns the decimal trade price.
func (t TradeMsg) PriceFloat() float64 { return PriceToFloat(t.Price) }

// TradeDecoder decodes trade records.
type TradeDecoder struct{}

func (TradeDecoder) RType() RType { return RTypeMbp0 }
func (TradeDecoder) MinSize() int { return TradeSize }

// Decode implements Decoder.
func (TradeDecoder) Decode(w Window) (Record, error) {
	if len(w.Bytes) < TradeSize {
		return nil, NewError(TruncatedRecord, w.Offset,
			"trade record needs %d bytes, window has %d", TradeSize, len(w.Bytes))
	}
	b := w.Bytes
	return TradeMsg{
		Header:    decodeHeader(b),
		Price:     int64(binary.LittleEndian.Uint64(b[tradePrice:])),
		Size:      binary.LittleEndian.Uint32(b[tradeSize:]),
		Action:    ParseAction(b[tradeAction]),
		Side:      ParseSide(b[tradeSide]),
		Flags:     Flags(b[tradeFlags]),
		Depth:     b[tradeDepth],
		TsRecv:    binary.LittleEndian.Uint64(b[tradeTsRecv:]),
		TsInDelta: int32(binary.LittleEndian.Uint32(b[tradeTsInDelta:])),
		Sequence:  binary.LittleEndian.Uint32(b[tradeSequence:]),
	}, nil
}

// AppendTrade appends the encoded form of t to dst.
func AppendTrade(dst []byte, t TradeMsg) []byte {
	if t.Header.Length == 0 {
		t.Header.Length = TradeSize / LengthMultiplier
	}
	t.Header.RType = RTypeMbp0

	n := len(dst)
	dst = append(dst, make([]byte, TradeSize)...)
	b := dst[n:]

	putHeader(b, t.Header)
	binary.LittleEndian.PutUint64(b[tradePrice:], uint64(t.Price))
	binary.LittleEndian.PutUint32(b[tradeSize:], t.Size)
	b[tradeAction] = byte(t.Action)
	b[tradeSide] = byte(t.Side)
	b[tradeFlags] = byte(t.Flags)
	b[tradeDepth] = t.Depth
	binary.LittleEndian.PutUint64(b[tradeTsRecv:], t.TsRecv)
	binary.LittleEndian.PutUint32(b[tradeTsInDelta:], uint32(t.TsInDelta))
	binary.LittleEndian.PutUint32(b[tradeSequence:], t.Sequence)
	return dst
}
