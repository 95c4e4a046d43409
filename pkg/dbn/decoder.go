package dbn

// Record is a decoded record of any schema.
type Record interface {
	RecordHeader() RecordHeader
}

// Decoder turns a record window into a typed record for one schema.
// The cursor is schema agnostic; new schemas only need a Decoder.
type Decoder interface {
	// RType is the record-type tag this decoder accepts.
	RType() RType
	// MinSize is the smallest window the decoder can read.
	MinSize() int
	// Decode copies the window into an owned record.
	Decode(w Window) (Record, error)
}

var decoders = map[RType]Decoder{
	RTypeMbo:  MBODecoder{},
	RTypeMbp0: TradeDecoder{},
}

// DecoderFor returns the decoder registered for rtype.
func DecoderFor(rtype RType) (Decoder, bool) {
	d, ok := decoders[rtype]
	return d, ok
}

// DecodeAny decodes w with the decoder registered for its rtype. It fails
// with InvalidHeader when no decoder is registered.
func DecodeAny(w Window) (Record, error) {
	d, ok := decoders[w.Header.RType]
	if !ok {
		return nil, NewError(InvalidHeader, w.Offset, "no decoder for rtype %s", w.Header.RType)
	}
	return d.Decode(w)
}
