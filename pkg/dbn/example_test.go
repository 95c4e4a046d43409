package dbn_test

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/ssargent/dbnread/pkg/dbn"
)

// ExampleCursor demonstrates walking a buffer and decoding MBO records
func ExampleCursor() {
	var buf []byte
	buf = dbn.AppendMBO(buf, dbn.MBOMsg{OrderID: 1, Price: 1_234_560_000, Size: 10, Action: dbn.ActionAdd, Side: dbn.SideBid})
	buf = dbn.AppendMBO(buf, dbn.MBOMsg{OrderID: 1, Price: 1_234_560_000, Size: 10, Action: dbn.ActionCancel, Side: dbn.SideBid})

	cur, err := dbn.NewCursor(buf)
	if err != nil {
		log.Fatal(err)
	}

	dec := dbn.NewMBODecoder()
	for {
		w, err := cur.NextFor(dbn.RTypeMbo)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		msg, err := dec.DecodeMBO(w)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("offset=%d action=%s side=%s price=%.5f\n", w.Offset, msg.Action, msg.Side, msg.PriceFloat())
	}

	// Output:
	// offset=0 action=Add side=Bid price=1.23456
	// offset=60 action=Cancel side=Bid price=1.23456
}

// ExampleDecodeError demonstrates locating a truncated record
func ExampleDecodeError() {
	buf := dbn.AppendMBO(nil, dbn.MBOMsg{OrderID: 7})
	buf = dbn.AppendMBO(buf, dbn.MBOMsg{OrderID: 8})

	cur, err := dbn.NewCursor(buf[:len(buf)-1])
	if err != nil {
		log.Fatal(err)
	}
	for {
		if _, err = cur.Next(); err != nil {
			break
		}
	}

	fmt.Println(errors.Is(err, dbn.ErrTruncatedRecord))
	fmt.Println(dbn.OffsetOf(err))

	// Output:
	// true
	// 60
}
