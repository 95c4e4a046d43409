package reader

import (
	"io"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/source"
)

// Inspection describes the start of a source.
type Inspection struct {
	Size     int
	Metadata dbn.Metadata
	Records  []InspectedRecord
	// Skipped counts records of other types passed over while looking for
	// MBO records.
	Skipped int
}

// InspectedRecord is an MBO record with the offset it was read from.
type InspectedRecord struct {
	Offset int64
	Record dbn.MBOMsg
}

// Inspect reads the metadata and up to limit MBO records from in. Unlike
// the parse calls it tolerates records of other types and skips them.
func Inspect(in source.Opener, limit int) (*Inspection, error) {
	if limit < 0 {
		return nil, dbn.NewError(dbn.InvalidArgument, -1, "limit must not be negative, got %d", limit)
	}

	src, err := in.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	cur, err := dbn.NewCursor(src.Bytes())
	if err != nil {
		return nil, err
	}

	ins := &Inspection{
		Size:     src.Len(),
		Metadata: cur.Metadata(),
		Records:  make([]InspectedRecord, 0, min(int64(limit), cur.Remaining()/dbn.MBOSize)),
	}

	var dec dbn.MBODecoder
	for len(ins.Records) < limit {
		w, err := cur.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if w.Header.RType != dbn.RTypeMbo {
			ins.Skipped++
			continue
		}
		msg, err := dec.DecodeMBO(w)
		if err != nil {
			return nil, err
		}
		ins.Records = append(ins.Records, InspectedRecord{Offset: w.Offset, Record: msg})
	}
	return ins, nil
}
