package ber

// Reader assembles complete top-level TLVs out of a byte stream that may
// arrive fragmented at arbitrary boundaries: a partial header, several
// TLVs back to back, or a split in the middle of a length octet or
// value. Feed appends whatever bytes arrived; Next drains as many
// complete TLVs as are currently buffered, leaving any trailing partial
// TLV for a later Feed to complete. This is the component a higher-level
// connection decoder (the grammar/message-envelope layer) drives once
// per inbound read.
type Reader struct {
	buf []byte
	pos int

	// maxPduBytes bounds a single TLV's total (header+content) size.
	// Zero means unbounded.
	maxPduBytes int
}

// NewReader creates a Reader. maxPduBytes, when positive, rejects any
// single top-level TLV whose declared total size would exceed it before
// the bytes are even fully buffered.
func NewReader(maxPduBytes int) *Reader {
	return &Reader{maxPduBytes: maxPduBytes}
}

// Feed appends newly received bytes to the reader's internal buffer.
func (r *Reader) Feed(data []byte) {
	r.buf = append(r.buf, data...)
}

// Buffered reports how many unconsumed bytes are currently held.
func (r *Reader) Buffered() int {
	return len(r.buf) - r.pos
}

// header is a TLV's decoded identifier and length, independent of its content.
type header struct {
	class       int
	constructed bool
	number      int
	length      int
}

// peekHeader attempts to parse a TLV header from the front of data. A
// zero headerLen with a nil error means data does not yet contain a
// complete header; more bytes are needed. A non-nil error means the
// header itself is malformed (not merely incomplete).
func peekHeader(data []byte, maxLengthOctets int) (hdr header, headerLen int, err error) {
	if len(data) < 1 {
		return header{}, 0, nil
	}

	b0 := data[0]
	class := int(b0 & 0xC0)
	constructed := b0&0x20 != 0
	number := int(b0 & 0x1F)
	idx := 1

	if number == 0x1F {
		num := 0
		for {
			if idx >= len(data) {
				return header{}, 0, nil
			}
			b := data[idx]
			idx++
			num = (num << 7) | int(b&0x7F)
			if num > 1<<24 {
				return header{}, 0, ErrInvalidLength
			}
			if b&0x80 == 0 {
				break
			}
		}
		number = num
	}

	if idx >= len(data) {
		return header{}, 0, nil
	}
	lb := data[idx]
	idx++

	var length int
	if lb&LengthLongFormBit == 0 {
		length = int(lb)
	} else {
		n := int(lb & 0x7F)
		if n == 0 {
			return header{}, 0, ErrIndefiniteLength
		}
		if n > maxLengthOctets {
			return header{}, 0, ErrInvalidLength
		}
		if idx+n > len(data) {
			return header{}, 0, nil
		}
		for i := 0; i < n; i++ {
			length = (length << 8) | int(data[idx])
			idx++
		}
	}

	return header{class: class, constructed: constructed, number: number, length: length}, idx, nil
}

// Next attempts to extract one complete top-level TLV (header and
// content together) from the buffered bytes. ok is false when the
// buffer holds only a partial TLV so far; the caller should Feed more
// data and retry. A non-nil error means the buffered bytes are
// malformed or declare a length beyond the configured maximum; the
// stream must be abandoned at that point since the frame boundary of
// any subsequent TLV can no longer be trusted.
func (r *Reader) Next() (tlv []byte, ok bool, err error) {
	data := r.buf[r.pos:]

	hdr, headerLen, err := peekHeader(data, MaxLongFormLengthOctets)
	if err != nil {
		return nil, false, NewDecodeError(r.pos, "malformed tlv header", err)
	}
	if headerLen == 0 {
		return nil, false, nil
	}

	total := headerLen + hdr.length
	if r.maxPduBytes > 0 && total > r.maxPduBytes {
		return nil, false, ErrPduTooLarge
	}
	if len(data) < total {
		return nil, false, nil
	}

	out := make([]byte, total)
	copy(out, data[:total])
	r.pos += total
	r.compact()
	return out, true, nil
}

// compact reclaims consumed prefix space once it grows large enough to
// matter, so a long-lived connection reader doesn't retain every byte
// it has ever seen.
func (r *Reader) compact() {
	const compactThreshold = 4096
	if r.pos == len(r.buf) {
		r.buf = r.buf[:0]
		r.pos = 0
		return
	}
	if r.pos >= compactThreshold {
		r.buf = append(r.buf[:0], r.buf[r.pos:]...)
		r.pos = 0
	}
}
