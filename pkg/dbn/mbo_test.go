package dbn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMBO(i int) MBOMsg {
	return MBOMsg{
		Header: RecordHeader{
			PublisherID:  1,
			InstrumentID: 5482,
			TsEvent:      1_700_000_000_000_000_000 + uint64(i),
		},
		OrderID:   1000 + uint64(i),
		Price:     4_500_250_000_000 + int64(i)*250_000_000,
		Size:      uint32(i + 1),
		Flags:     FlagLast,
		ChannelID: 3,
		Action:    ActionAdd,
		Side:      SideBid,
		TsRecv:    1_700_000_000_000_000_500 + uint64(i),
		TsInDelta: -42,
		Sequence:  uint32(100 + i),
		SymbolID:  77,
	}
}

func TestMBODecoder_EncodeDecodeRoundTrip(t *testing.T) {
	dec := NewMBODecoder()

	testCases := []struct {
		name string
		msg  MBOMsg
	}{
		{name: "typical add", msg: sampleMBO(0)},
		{
			name: "negative price",
			msg: func() MBOMsg {
				m := sampleMBO(1)
				m.Price = -1_250_000_000
				return m
			}(),
		},
		{
			name: "undefined price",
			msg: func() MBOMsg {
				m := sampleMBO(2)
				m.Price = UndefPrice
				m.Action = ActionClear
				m.Side = SideNone
				return m
			}(),
		},
		{
			name: "max fields",
			msg: MBOMsg{
				Header:    RecordHeader{PublisherID: math.MaxUint16, InstrumentID: math.MaxUint32, TsEvent: math.MaxUint64},
				OrderID:   math.MaxUint64,
				Price:     math.MinInt64,
				Size:      math.MaxUint32,
				Flags:     0xFF,
				ChannelID: math.MaxUint8,
				Action:    ActionTrade,
				Side:      SideAsk,
				TsRecv:    math.MaxUint64,
				TsInDelta: math.MinInt32,
				Sequence:  math.MaxUint32,
				SymbolID:  math.MaxUint32,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := AppendMBO(nil, tc.msg)
			require.Len(t, buf, MBOSize)

			got, err := dec.DecodeMBO(Window{Header: decodeHeader(buf), Bytes: buf})
			require.NoError(t, err)

			want := tc.msg
			want.Header.Length = MBOSize / LengthMultiplier
			want.Header.RType = RTypeMbo
			assert.Equal(t, want, got)

			// Re-encoding the decoded value gives the same bytes.
			assert.Equal(t, buf, AppendMBO(nil, got))
		})
	}
}

func TestMBODecoder_PriceConversion(t *testing.T) {
	m := sampleMBO(0)
	m.Price = 1_234_560_000

	buf := AppendMBO(nil, m)
	got, err := NewMBODecoder().DecodeMBO(Window{Bytes: buf})
	require.NoError(t, err)

	assert.Equal(t, int64(1_234_560_000), got.Price)
	assert.Equal(t, 1.23456, got.PriceFloat())
	assert.Equal(t, int64(1_234_560_000), PriceFromFloat(got.PriceFloat()))
}

func TestPriceToFloat_Undefined(t *testing.T) {
	assert.True(t, math.IsNaN(PriceToFloat(UndefPrice)))
	assert.Equal(t, UndefPrice, PriceFromFloat(math.NaN()))
}

func TestMBODecoder_UnknownActionAndSide(t *testing.T) {
	buf := AppendMBO(nil, sampleMBO(0))
	buf[mboAction] = 'Z'
	buf[mboSide] = 'Q'

	dec := NewMBODecoder()
	msg, err := dec.DecodeMBO(Window{Bytes: buf})
	require.NoError(t, err)
	assert.Equal(t, ActionUnknown, msg.Action)
	assert.Equal(t, SideUnknown, msg.Side)

	view, err := dec.ViewMBO(Window{Bytes: buf})
	require.NoError(t, err)
	assert.Equal(t, ActionUnknown, view.Action())
	assert.Equal(t, byte('Z'), view.RawAction())
	assert.Equal(t, byte('Q'), view.RawSide())
}

func TestMBODecoder_TruncatedWindow(t *testing.T) {
	buf := AppendMBO(nil, sampleMBO(0))
	dec := NewMBODecoder()

	_, err := dec.DecodeMBO(Window{Offset: 120, Bytes: buf[:MBOSize-1]})
	require.ErrorIs(t, err, ErrTruncatedRecord)
	assert.Equal(t, int64(120), OffsetOf(err))

	_, err = dec.ViewMBO(Window{Offset: 8, Bytes: buf[:HeaderSize]})
	require.ErrorIs(t, err, ErrTruncatedRecord)

	_, err = dec.Decode(Window{Bytes: nil})
	require.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestMBOView_MatchesCopy(t *testing.T) {
	m := sampleMBO(9)
	buf := AppendMBO(nil, m)

	view, err := NewMBODecoder().ViewMBO(Window{Bytes: buf})
	require.NoError(t, err)

	msg := view.Copy()
	assert.Equal(t, msg.Header, view.Header())
	assert.Equal(t, RTypeMbo, view.RType())
	assert.Equal(t, m.Header.PublisherID, view.PublisherID())
	assert.Equal(t, m.Header.InstrumentID, view.InstrumentID())
	assert.Equal(t, m.Header.TsEvent, view.TsEvent())
	assert.Equal(t, m.OrderID, view.OrderID())
	assert.Equal(t, m.Price, view.Price())
	assert.Equal(t, m.PriceFloat(), view.PriceFloat())
	assert.Equal(t, m.Size, view.Size())
	assert.Equal(t, m.Flags, view.Flags())
	assert.Equal(t, m.ChannelID, view.ChannelID())
	assert.Equal(t, m.Action, view.Action())
	assert.Equal(t, m.Side, view.Side())
	assert.Equal(t, m.TsRecv, view.TsRecv())
	assert.Equal(t, m.TsInDelta, view.TsInDelta())
	assert.Equal(t, m.Sequence, view.Sequence())
	assert.Equal(t, m.SymbolID, view.SymbolID())
	assert.Len(t, view.Bytes(), MBOSize)
}

func TestMBOMsg_Times(t *testing.T) {
	m := sampleMBO(0)
	assert.Equal(t, int64(m.Header.TsEvent), m.Header.EventTime().UnixNano())
	assert.Equal(t, int64(m.TsRecv), m.RecvTime().UnixNano())
}

func TestTradeDecoder_RoundTrip(t *testing.T) {
	tr := TradeMsg{
		Header:    RecordHeader{PublisherID: 2, InstrumentID: 11, TsEvent: 99},
		Price:     2_000_000_000,
		Size:      7,
		Action:    ActionTrade,
		Side:      SideAsk,
		Flags:     FlagLast,
		Depth:     0,
		TsRecv:    100,
		TsInDelta: 13,
		Sequence:  8,
	}
	buf := AppendTrade(nil, tr)
	require.Len(t, buf, TradeSize)

	rec, err := TradeDecoder{}.Decode(Window{Header: decodeHeader(buf), Bytes: buf})
	require.NoError(t, err)

	got, ok := rec.(TradeMsg)
	require.True(t, ok)
	tr.Header.Length = TradeSize / LengthMultiplier
	tr.Header.RType = RTypeMbp0
	assert.Equal(t, tr, got)
	assert.Equal(t, 2.0, got.PriceFloat())

	_, err = TradeDecoder{}.Decode(Window{Bytes: buf[:TradeSize-1]})
	assert.ErrorIs(t, err, ErrTruncatedRecord)
}

func TestDecodeAny(t *testing.T) {
	buf := AppendMBO(nil, sampleMBO(0))
	buf = AppendTrade(buf, TradeMsg{Price: 1})

	cur, err := NewCursor(buf)
	require.NoError(t, err)

	w, err := cur.Next()
	require.NoError(t, err)
	rec, err := DecodeAny(w)
	require.NoError(t, err)
	assert.IsType(t, MBOMsg{}, rec)

	w, err = cur.Next()
	require.NoError(t, err)
	rec, err = DecodeAny(w)
	require.NoError(t, err)
	assert.IsType(t, TradeMsg{}, rec)
	assert.Equal(t, RTypeMbp0, rec.RecordHeader().RType)

	_, err = DecodeAny(Window{Offset: 4, Header: RecordHeader{RType: RTypeStatus}})
	assert.ErrorIs(t, err, ErrInvalidHeader)
	assert.Equal(t, int64(4), OffsetOf(err))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Add", ParseAction('A').String())
	assert.Equal(t, "Clear", ParseAction('R').String())
	assert.Equal(t, "Unknown", ParseAction('?').String())
	assert.Equal(t, "Bid", ParseSide('B').String())
	assert.Equal(t, "Unknown", ParseSide(0).String())
	assert.Equal(t, "mbo", RTypeMbo.String())
	assert.Equal(t, "RType(0x7f)", RType(0x7f).String())
	assert.True(t, RTypeStatistics.Known())
	assert.False(t, RType(0x7f).Known())
	assert.True(t, (FlagLast | FlagTOB).Has(FlagLast))
	assert.False(t, FlagTOB.Has(FlagLast))
}
