// Package dbn decodes the binary market-data container format read by dbnread.
//
// A container is an optional metadata block followed by a stream of
// self-describing, length-prefixed records. There is no record count: the
// stream ends when the last record ends exactly at the end of the buffer.
//
// # Metadata Block
//
// When a buffer starts with the ASCII magic "DBN" it carries a metadata block:
//
//	[Magic(3)][Version(1)][Length(4)][Metadata(Length)]
//
// The fixed metadata fields (dataset, schema, start, end, limit, symbology
// types) are decoded into Metadata; the rest of the block is skipped. A buffer
// without the magic is a bare record stream starting at offset 0.
//
// # Record Format
//
// Every record starts with a 16-byte header:
//
//	[Length(1)][RType(1)][PublisherID(2)][InstrumentID(4)][TsEvent(8)]
//
// Fields:
//   - Length: record size in 4-byte words, header included
//   - RType: record-type tag selecting the payload schema
//   - PublisherID: venue and dataset identifier (little-endian)
//   - InstrumentID: numeric instrument identifier (little-endian)
//   - TsEvent: matching-engine timestamp in nanoseconds (little-endian)
//
// The market-by-order (MBO) payload follows at fixed offsets:
//
//	[OrderID(8)][Price(8)][Size(4)][Flags(1)][ChannelID(1)][Action(1)][Side(1)]
//	[TsRecv(8)][TsInDelta(4)][Sequence(4)][SymbolID(4)]
//
// for a total of 60 bytes (Length = 15). Prices are signed fixed-point
// integers scaled by 1e9; PriceToFloat gives the decimal value while the raw
// integer is kept for exact round trips. Action and side bytes outside the
// known tables decode to ActionUnknown and SideUnknown instead of failing.
//
// # Usage
//
// Walk a buffer with a Cursor and decode each window:
//
//	cur, err := dbn.NewCursor(buf)
//	if err != nil {
//	    return err
//	}
//	dec := dbn.NewMBODecoder()
//	for {
//	    w, err := cur.NextFor(dbn.RTypeMbo)
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    msg, err := dec.DecodeMBO(w)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(msg.OrderID, msg.PriceFloat())
//	}
//
// # Error Handling
//
// Every failure is a *DecodeError carrying an ErrorKind and the byte offset
// at which it was detected. Callers match kinds with errors.Is against the
// package sentinels (ErrTruncatedRecord, ErrInvalidHeader, ...) or extract
// them with KindOf and OffsetOf. Nothing resynchronises after a bad record.
//
// # Ownership
//
// Windows and MBOView values borrow the buffer they were cut from and are
// only valid while that buffer is. MBOMsg and TradeMsg are copies and may
// outlive it.
//
// # Thread Safety
//
// A Cursor holds private offset state and must not be shared between
// goroutines. Decoders are stateless. Any number of cursors may read the same
// immutable buffer concurrently.
package dbn
