package dbn

import "fmt"

// RType is the record-type tag carried in every record header.
type RType uint8

const (
	RTypeMbp0            RType = 0x00 // trades
	RTypeMbp1            RType = 0x01
	RTypeMbp10           RType = 0x0A
	RTypeOhlcvDeprecated RType = 0x11
	RTypeStatus          RType = 0x12
	RTypeInstrumentDef   RType = 0x13
	RTypeImbalance       RType = 0x14
	RTypeError           RType = 0x15
	RTypeSymbolMapping   RType = 0x16
	RTypeSystem          RType = 0x17
	RTypeStatistics      RType = 0x18
	RTypeOhlcv1S         RType = 0x20
	RTypeOhlcv1M         RType = 0x21
	RTypeOhlcv1H         RType = 0x22
	RTypeOhlcv1D         RType = 0x23
	RTypeMbo             RType = 0xA0
)

var rtypeNames = map[RType]string{
	RTypeMbp0:            "mbp-0",
	RTypeMbp1:            "mbp-1",
	RTypeMbp10:           "mbp-10",
	RTypeOhlcvDeprecated: "ohlcv-deprecated",
	RTypeStatus:          "status",
	RTypeInstrumentDef:   "instrument-def",
	RTypeImbalance:       "imbalance",
	RTypeError:           "error",
	RTypeSymbolMapping:   "symbol-mapping",
	RTypeSystem:          "system",
	RTypeStatistics:      "statistics",
	RTypeOhlcv1S:         "ohlcv-1s",
	RTypeOhlcv1M:         "ohlcv-1m",
	RTypeOhlcv1H:         "ohlcv-1h",
	RTypeOhlcv1D:         "ohlcv-1d",
	RTypeMbo:             "mbo",
}

// Known reports whether r is part of the record-type table.
func (r RType) Known() bool {
	_, ok := rtypeNames[r]
	return ok
}

func (r RType) String() string {
	if name, ok := rtypeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RType(0x%02x)", uint8(r))
}

// Action is the order-book event an MBO or trade record describes.
type Action uint8

const (
	ActionUnknown Action = 0
	ActionAdd     Action = 'A'
	ActionCancel  Action = 'C'
	ActionModify  Action = 'M'
	ActionClear   Action = 'R'
	ActionTrade   Action = 'T'
	ActionFill    Action = 'F'
	ActionNone    Action = 'N'
)

// ParseAction maps a wire byte to an Action. Bytes outside the table map to
// ActionUnknown so newer feeds still decode.
func ParseAction(b byte) Action {
	switch a := Action(b); a {
	case ActionAdd, ActionCancel, ActionModify, ActionClear, ActionTrade, ActionFill, ActionNone:
		return a
	default:
		return ActionUnknown
	}
}

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "Add"
	case ActionCancel:
		return "Cancel"
	case ActionModify:
		return "Modify"
	case ActionClear:
		return "Clear"
	case ActionTrade:
		return "Trade"
	case ActionFill:
		return "Fill"
	case ActionNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Side is the book side of an order.
type Side uint8

const (
	SideUnknown Side = 0
	SideAsk     Side = 'A'
	SideBid     Side = 'B'
	SideNone    Side = 'N'
)

// ParseSide maps a wire byte to a Side; unrecognised bytes give SideUnknown.
func ParseSide(b byte) Side {
	switch s := Side(b); s {
	case SideAsk, SideBid, SideNone:
		return s
	default:
		return SideUnknown
	}
}

func (s Side) String() string {
	switch s {
	case SideAsk:
		return "Ask"
	case SideBid:
		return "Bid"
	case SideNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Flags is the bit field attached to MBO and trade records.
type Flags uint8

const (
	FlagLast         Flags = 0x80 // last record in the event for this instrument
	FlagTOB          Flags = 0x40
	FlagSnapshot     Flags = 0x20
	FlagMBP          Flags = 0x10
	FlagBadTSRecv    Flags = 0x08
	FlagMaybeBadBook Flags = 0x04
)

// Has reports whether every bit of f2 is set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}
