// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

import (
	"strconv"
	"strings"
)

// pendingConstruct records the tag of a construct opened by Begin* or
// WriteApplicationTag/WriteContextTag, awaiting its matching End call.
type pendingConstruct struct {
	class       int
	constructed int
	number      int
}

// BEREncoder encodes ASN.1 values using BER (Basic Encoding Rules).
//
// Primitive Write* methods append directly to the active buffer. Nested
// constructs (SEQUENCE, SET, and the APPLICATION/context-specific
// wrappers LDAP layers every operation in) are written with the reverse
// strategy documented by this package: Begin*/Write*Tag opens a fresh,
// growable buffer and pushes the parent buffer onto a stack; the
// matching End* call measures the finished child content, now knows its
// exact length without a separate pre-pass, and writes tag+length+content
// into the resumed parent buffer. This lets the encoder avoid
// backpatching a placeholder length field while still emitting everything
// in a single forward pass over the output.
type BEREncoder struct {
	buf   []byte
	stack [][]byte
	tags  []pendingConstruct

	maxBytes int // 0 means unbounded
}

// NewBEREncoder creates a new BER encoder with an optional initial capacity.
func NewBEREncoder(capacity int) *BEREncoder {
	if capacity <= 0 {
		capacity = 64
	}
	return &BEREncoder{
		buf: make([]byte, 0, capacity),
	}
}

// SetMaxBytes bounds the total size the encoder will produce. Encode
// calls that would exceed it return ErrBufferOverflow. Zero means
// unbounded.
func (e *BEREncoder) SetMaxBytes(n int) {
	e.maxBytes = n
}

// Bytes returns the encoded bytes. It must only be called once every
// opened construct has a matching End call; otherwise the returned bytes
// are only the outermost (or currently active) buffer's content.
func (e *BEREncoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer for reuse.
func (e *BEREncoder) Reset() {
	e.buf = e.buf[:0]
	e.stack = e.stack[:0]
	e.tags = e.tags[:0]
}

// Len returns the current length of encoded data in the active buffer.
func (e *BEREncoder) Len() int {
	return len(e.buf)
}

// Depth reports how many constructs are currently open.
func (e *BEREncoder) Depth() int {
	return len(e.stack)
}

func (e *BEREncoder) checkOverflow(add int) error {
	if e.maxBytes <= 0 {
		return nil
	}
	total := len(e.buf) + add
	for _, b := range e.stack {
		total += len(b)
	}
	if total > e.maxBytes {
		return ErrBufferOverflow
	}
	return nil
}

// WriteTag writes a BER tag byte(s) to the active buffer.
// class: ClassUniversal, ClassApplication, ClassContextSpecific, or ClassPrivate
// constructed: TypePrimitive or TypeConstructed
// number: tag number (0-30 for short form, >30 for long form)
func (e *BEREncoder) WriteTag(class, constructed, number int) error {
	if class != ClassUniversal && class != ClassApplication &&
		class != ClassContextSpecific && class != ClassPrivate {
		return ErrInvalidTagClass
	}
	if number < 0 {
		return ErrInvalidTagNumber
	}

	// Short form: tag number fits in 5 bits (0-30)
	if number <= 30 {
		if err := e.checkOverflow(1); err != nil {
			return err
		}
		tag := byte(class) | byte(constructed) | byte(number)
		e.buf = append(e.buf, tag)
		return nil
	}

	// Long form: tag number > 30
	firstByte := byte(class) | byte(constructed) | 0x1F
	e.buf = append(e.buf, firstByte)
	e.writeBase128(number)
	return nil
}

// writeBase128 encodes an integer in base-128 format (high bit indicates continuation)
func (e *BEREncoder) writeBase128(value int) {
	if value == 0 {
		e.buf = append(e.buf, 0)
		return
	}

	var bytes []byte
	for value > 0 {
		bytes = append(bytes, byte(value&0x7F))
		value >>= 7
	}

	for i := len(bytes) - 1; i >= 0; i-- {
		b := bytes[i]
		if i > 0 {
			b |= 0x80
		}
		e.buf = append(e.buf, b)
	}
}

// WriteLength writes a BER length value to the active buffer.
// Uses short form for lengths 0-127, long form for larger values.
func (e *BEREncoder) WriteLength(length int) error {
	if length < 0 {
		return ErrNegativeLength
	}

	if length <= MaxShortFormLength {
		e.buf = append(e.buf, byte(length))
		return nil
	}

	numBytes := 0
	for temp := length; temp > 0; temp >>= 8 {
		numBytes++
	}
	if numBytes > 127 {
		return ErrLengthOverflow
	}

	e.buf = append(e.buf, byte(LengthLongFormBit|numBytes))
	for i := numBytes - 1; i >= 0; i-- {
		e.buf = append(e.buf, byte(length>>(i*8)))
	}
	return nil
}

// WriteBoolean writes a BER-encoded boolean value.
// Per X.690, FALSE is encoded as 0x00, TRUE as any non-zero value (we use 0xFF).
func (e *BEREncoder) WriteBoolean(v bool) error {
	if err := e.checkOverflow(3); err != nil {
		return err
	}
	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagBoolean); err != nil {
		return err
	}
	if err := e.WriteLength(1); err != nil {
		return err
	}
	if v {
		e.buf = append(e.buf, 0xFF)
	} else {
		e.buf = append(e.buf, 0x00)
	}
	return nil
}

// WriteInteger writes a BER-encoded integer value.
// Uses the minimum number of octets with two's complement representation.
func (e *BEREncoder) WriteInteger(v int64) error {
	encoded := encodeInteger(v)
	if err := e.checkOverflow(2 + len(encoded)); err != nil {
		return err
	}
	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagInteger); err != nil {
		return err
	}
	if err := e.WriteLength(len(encoded)); err != nil {
		return err
	}
	e.buf = append(e.buf, encoded...)
	return nil
}

// encodeInteger encodes an int64 as a minimal two's complement byte slice.
func encodeInteger(v int64) []byte {
	if v == 0 {
		return []byte{0x00}
	}

	var bytes []byte
	uv := uint64(v)

	if v < 0 {
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(bytes) > 0 || b != 0xFF || (i > 0 && (uv>>((i-1)*8))&0x80 == 0) {
				bytes = append(bytes, b)
			}
		}
		if len(bytes) == 0 {
			bytes = []byte{0xFF}
		}
		if bytes[0]&0x80 == 0 {
			bytes = append([]byte{0xFF}, bytes...)
		}
	} else {
		for i := 7; i >= 0; i-- {
			b := byte(uv >> (i * 8))
			if len(bytes) > 0 || b != 0 {
				bytes = append(bytes, b)
			}
		}
		if len(bytes) > 0 && bytes[0]&0x80 != 0 {
			bytes = append([]byte{0x00}, bytes...)
		}
	}

	return bytes
}

// WriteOctetString writes a BER-encoded octet string.
func (e *BEREncoder) WriteOctetString(v []byte) error {
	if err := e.checkOverflow(2 + len(v)); err != nil {
		return err
	}
	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagOctetString); err != nil {
		return err
	}
	if err := e.WriteLength(len(v)); err != nil {
		return err
	}
	e.buf = append(e.buf, v...)
	return nil
}

// WriteEnumerated writes a BER-encoded enumerated value.
// Enumerated values are encoded identically to integers.
func (e *BEREncoder) WriteEnumerated(v int64) error {
	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagEnumerated); err != nil {
		return err
	}
	encoded := encodeInteger(v)
	if err := e.WriteLength(len(encoded)); err != nil {
		return err
	}
	e.buf = append(e.buf, encoded...)
	return nil
}

// WriteNull writes a BER-encoded null value.
func (e *BEREncoder) WriteNull() error {
	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagNull); err != nil {
		return err
	}
	return e.WriteLength(0)
}

// WriteOID writes a dotted-decimal OID ("1.2.840.113556.1.4.319") in its
// BER form: the first two arcs are combined as (arc1*40)+arc2, every
// later arc is emitted base-128 with a continuation bit.
func (e *BEREncoder) WriteOID(oid string) error {
	arcs := strings.Split(oid, ".")
	if len(arcs) < 2 {
		return NewDecodeError(0, "oid must have at least two arcs", ErrInvalidLength)
	}
	first, err := strconv.Atoi(arcs[0])
	if err != nil || first < 0 || first > 2 {
		return NewDecodeError(0, "oid first arc must be 0, 1, or 2", ErrInvalidLength)
	}
	second, err := strconv.Atoi(arcs[1])
	if err != nil || second < 0 {
		return NewDecodeError(0, "oid second arc must be non-negative", ErrInvalidLength)
	}

	var content []byte
	content = appendBase128(content, first*40+second)
	for _, arc := range arcs[2:] {
		v, err := strconv.Atoi(arc)
		if err != nil || v < 0 {
			return NewDecodeError(0, "oid arc must be non-negative", ErrInvalidLength)
		}
		content = appendBase128(content, v)
	}

	if err := e.WriteTag(ClassUniversal, TypePrimitive, TagOID); err != nil {
		return err
	}
	if err := e.WriteLength(len(content)); err != nil {
		return err
	}
	e.buf = append(e.buf, content...)
	return nil
}

func appendBase128(dst []byte, value int) []byte {
	if value == 0 {
		return append(dst, 0)
	}
	var tmp []byte
	for value > 0 {
		tmp = append(tmp, byte(value&0x7F))
		value >>= 7
	}
	for i := len(tmp) - 1; i >= 0; i-- {
		b := tmp[i]
		if i > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// WriteRaw writes raw bytes directly to the active buffer.
// Useful for pre-encoded data or custom encoding.
func (e *BEREncoder) WriteRaw(data []byte) {
	e.buf = append(e.buf, data...)
}

// WriteTaggedValue writes a context-specific tagged value in a single
// call, for the common case where the tagged content is already fully
// formed (e.g. re-encoding a raw control value untouched).
func (e *BEREncoder) WriteTaggedValue(tagNumber int, constructed bool, value []byte) error {
	constructedFlag := TypePrimitive
	if constructed {
		constructedFlag = TypeConstructed
	}

	if err := e.WriteTag(ClassContextSpecific, constructedFlag, tagNumber); err != nil {
		return err
	}
	if err := e.WriteLength(len(value)); err != nil {
		return err
	}
	e.buf = append(e.buf, value...)
	return nil
}

// --- reverse-strategy constructs ---
//
// beginConstruct suspends the active buffer, opens a fresh one for the
// construct's children, and remembers the tag that will eventually wrap
// them. The returned position must be passed unchanged to the matching
// end call; positions must be closed in LIFO order.
func (e *BEREncoder) beginConstruct(class, constructed, number int) int {
	e.stack = append(e.stack, e.buf)
	e.tags = append(e.tags, pendingConstruct{class: class, constructed: constructed, number: number})
	e.buf = make([]byte, 0, 64)
	return len(e.stack) - 1
}

func (e *BEREncoder) endConstruct(pos int) error {
	if pos != len(e.stack)-1 || pos < 0 {
		return ErrUnbalancedConstruct
	}
	content := e.buf
	info := e.tags[pos]

	e.buf = e.stack[pos]
	e.stack = e.stack[:pos]
	e.tags = e.tags[:pos]

	if err := e.checkOverflow(2 + len(content)); err != nil {
		return err
	}
	if err := e.WriteTag(info.class, info.constructed, info.number); err != nil {
		return err
	}
	if err := e.WriteLength(len(content)); err != nil {
		return err
	}
	e.buf = append(e.buf, content...)
	return nil
}

// BeginSequence opens a universal SEQUENCE construct. Children written
// until the matching EndSequence become the sequence's content.
func (e *BEREncoder) BeginSequence() int {
	return e.beginConstruct(ClassUniversal, TypeConstructed, TagSequence)
}

// EndSequence closes the construct opened at pos.
func (e *BEREncoder) EndSequence(pos int) error {
	return e.endConstruct(pos)
}

// BeginSet opens a universal SET construct.
func (e *BEREncoder) BeginSet() int {
	return e.beginConstruct(ClassUniversal, TypeConstructed, TagSet)
}

// EndSet closes the construct opened at pos.
func (e *BEREncoder) EndSet(pos int) error {
	return e.endConstruct(pos)
}

// WriteApplicationTag opens an [APPLICATION number] construct, used for
// every top-level LDAP protocol operation.
func (e *BEREncoder) WriteApplicationTag(number int, constructed bool) int {
	c := TypePrimitive
	if constructed {
		c = TypeConstructed
	}
	return e.beginConstruct(ClassApplication, c, number)
}

// EndApplicationTag closes the construct opened at pos.
func (e *BEREncoder) EndApplicationTag(pos int) error {
	return e.endConstruct(pos)
}

// WriteContextTag opens a [number] context-specific construct.
func (e *BEREncoder) WriteContextTag(number int, constructed bool) int {
	c := TypePrimitive
	if constructed {
		c = TypeConstructed
	}
	return e.beginConstruct(ClassContextSpecific, c, number)
}

// EndContextTag closes the construct opened at pos.
func (e *BEREncoder) EndContextTag(pos int) error {
	return e.endConstruct(pos)
}
