package dbn

import (
	"encoding/binary"
	"testing"
)

// TestMBOLayout pins every field of the MBO record to its byte offset.
func TestMBOLayout(t *testing.T) {
	m := MBOMsg{
		Header: RecordHeader{
			PublisherID:  0x0102,
			InstrumentID: 0x03040506,
			TsEvent:      0x0708090A0B0C0D0E,
		},
		OrderID:   0x1112131415161718,
		Price:     0x2122232425262728,
		Size:      0x31323334,
		Flags:     0x41,
		ChannelID: 0x42,
		Action:    ActionModify,
		Side:      SideAsk,
		TsRecv:    0x5152535455565758,
		TsInDelta: 0x61626364,
		Sequence:  0x71727374,
		SymbolID:  0x01020304,
	}
	b := AppendMBO(nil, m)

	if len(b) != MBOSize {
		t.Fatalf("Expected %d bytes, got %d", MBOSize, len(b))
	}
	if b[0] != 15 {
		t.Errorf("Expected length 15 words, got %d", b[0])
	}
	if RType(b[1]) != RTypeMbo {
		t.Errorf("Expected rtype 0xA0, got 0x%02x", b[1])
	}

	checks := []struct {
		name string
		got  uint64
		want uint64
	}{
		{"publisher_id", uint64(binary.LittleEndian.Uint16(b[2:])), 0x0102},
		{"instrument_id", uint64(binary.LittleEndian.Uint32(b[4:])), 0x03040506},
		{"ts_event", binary.LittleEndian.Uint64(b[8:]), 0x0708090A0B0C0D0E},
		{"order_id", binary.LittleEndian.Uint64(b[16:]), 0x1112131415161718},
		{"price", binary.LittleEndian.Uint64(b[24:]), 0x2122232425262728},
		{"size", uint64(binary.LittleEndian.Uint32(b[32:])), 0x31323334},
		{"flags", uint64(b[36]), 0x41},
		{"channel_id", uint64(b[37]), 0x42},
		{"action", uint64(b[38]), 'M'},
		{"side", uint64(b[39]), 'A'},
		{"ts_recv", binary.LittleEndian.Uint64(b[40:]), 0x5152535455565758},
		{"ts_in_delta", uint64(binary.LittleEndian.Uint32(b[48:])), 0x61626364},
		{"sequence", uint64(binary.LittleEndian.Uint32(b[52:])), 0x71727374},
		{"symbol_id", uint64(binary.LittleEndian.Uint32(b[56:])), 0x01020304},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got 0x%x, want 0x%x", c.name, c.got, c.want)
		}
	}
}

// TestTradeLayout pins the trade record offsets.
func TestTradeLayout(t *testing.T) {
	b := AppendTrade(nil, TradeMsg{
		Price:     0x0102030405060708,
		Size:      0x11121314,
		Action:    ActionTrade,
		Side:      SideBid,
		Flags:     0x21,
		Depth:     0x22,
		TsRecv:    0x3132333435363738,
		TsInDelta: 0x41424344,
		Sequence:  0x51525354,
	})

	if len(b) != TradeSize || b[0] != 12 || RType(b[1]) != RTypeMbp0 {
		t.Fatalf("Unexpected trade header: len=%d length=%d rtype=0x%02x", len(b), b[0], b[1])
	}
	if binary.LittleEndian.Uint64(b[16:]) != 0x0102030405060708 {
		t.Error("price offset mismatch")
	}
	if binary.LittleEndian.Uint32(b[24:]) != 0x11121314 {
		t.Error("size offset mismatch")
	}
	if b[28] != 'T' || b[29] != 'B' || b[30] != 0x21 || b[31] != 0x22 {
		t.Errorf("action/side/flags/depth mismatch: % x", b[28:32])
	}
	if binary.LittleEndian.Uint64(b[32:]) != 0x3132333435363738 {
		t.Error("ts_recv offset mismatch")
	}
	if binary.LittleEndian.Uint32(b[40:]) != 0x41424344 {
		t.Error("ts_in_delta offset mismatch")
	}
	if binary.LittleEndian.Uint32(b[44:]) != 0x51525354 {
		t.Error("sequence offset mismatch")
	}
}

func TestHeaderSize(t *testing.T) {
	h := RecordHeader{Length: 15}
	if h.Size() != MBOSize {
		t.Errorf("Expected size %d, got %d", MBOSize, h.Size())
	}
	if MBOSize%LengthMultiplier != 0 || TradeSize%LengthMultiplier != 0 {
		t.Error("record sizes must be whole words")
	}
}
