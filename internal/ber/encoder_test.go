package ber

import (
	"bytes"
	"testing"
)

// Encoder tests are built around the field shapes the LDAP grammar
// actually emits: INTEGER messageIDs and protocol versions, ENUMERATED
// result codes, OCTET STRING DNs and attribute values, and the LDAPOID
// used by ExtendedRequest/Control. Golden bytes are taken from RFC 4511
// itself where the RFC gives one, rather than re-deriving them from
// the encoder under test.

func TestWriteIntegerMessageIDBoundaries(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		want []byte
	}{
		{"zero messageID", 0, []byte{0x02, 0x01, 0x00}},
		{"single byte", 1, []byte{0x02, 0x01, 0x01}},
		{"127 fits one byte, no sign-extension byte", 127, []byte{0x02, 0x01, 0x7F}},
		{"128 needs a leading zero byte", 128, []byte{0x02, 0x02, 0x00, 0x80}},
		{"255 needs a leading zero byte", 255, []byte{0x02, 0x02, 0x00, 0xFF}},
		{"256", 256, []byte{0x02, 0x02, 0x01, 0x00}},
		{"maxMessageID 2^31-1", 2147483647, []byte{0x02, 0x04, 0x7F, 0xFF, 0xFF, 0xFF}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			enc := NewBEREncoder(16)
			if err := enc.WriteInteger(c.v); err != nil {
				t.Fatalf("WriteInteger(%d): %v", c.v, err)
			}
			if !bytes.Equal(enc.Bytes(), c.want) {
				t.Errorf("WriteInteger(%d) = % X, want % X", c.v, enc.Bytes(), c.want)
			}
		})
	}
}

func TestWriteEnumeratedResultCode(t *testing.T) {
	// resultCode SUCCESS (0) and noSuchObject (32), per RFC 4511 §4.1.9.
	enc := NewBEREncoder(8)
	if err := enc.WriteEnumerated(0); err != nil {
		t.Fatalf("WriteEnumerated(0): %v", err)
	}
	if want := []byte{0x0A, 0x01, 0x00}; !bytes.Equal(enc.Bytes(), want) {
		t.Errorf("got % X, want % X", enc.Bytes(), want)
	}

	enc.Reset()
	if err := enc.WriteEnumerated(32); err != nil {
		t.Fatalf("WriteEnumerated(32): %v", err)
	}
	if want := []byte{0x0A, 0x01, 0x20}; !bytes.Equal(enc.Bytes(), want) {
		t.Errorf("got % X, want % X", enc.Bytes(), want)
	}
}

func TestWriteOctetStringDNLengthForms(t *testing.T) {
	cases := []struct {
		name   string
		length int
	}{
		{"empty DN (anonymous bind)", 0},
		{"short form boundary", 127},
		{"long form one octet", 128},
		{"long form two octets", 256},
		{"long form two octets upper bound", 65535},
		{"long form three octets", 65536},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dn := bytes.Repeat([]byte("x"), c.length)
			enc := NewBEREncoder(c.length + 8)
			if err := enc.WriteOctetString(dn); err != nil {
				t.Fatalf("WriteOctetString(len=%d): %v", c.length, err)
			}
			dec := NewBERDecoder(enc.Bytes())
			got, err := dec.ReadOctetString()
			if err != nil {
				t.Fatalf("ReadOctetString: %v", err)
			}
			if !bytes.Equal(got, dn) {
				t.Errorf("round-tripped DN length = %d, want %d", len(got), c.length)
			}
		})
	}
}

func TestWriteOIDExtendedRequestName(t *testing.T) {
	// 1.3.6.1.4.1.1466.20037 is the StartTLS extended operation OID,
	// used throughout this codec's ExtendedRequest tests.
	enc := NewBEREncoder(32)
	if err := enc.WriteOID("1.3.6.1.4.1.1466.20037"); err != nil {
		t.Fatalf("WriteOID: %v", err)
	}
	dec := NewBERDecoder(enc.Bytes())
	got, err := dec.ReadOID()
	if err != nil {
		t.Fatalf("ReadOID: %v", err)
	}
	if got != "1.3.6.1.4.1.1466.20037" {
		t.Errorf("ReadOID round-trip = %q", got)
	}
}

func TestWriteBoolean(t *testing.T) {
	for _, v := range []bool{true, false} {
		enc := NewBEREncoder(8)
		if err := enc.WriteBoolean(v); err != nil {
			t.Fatalf("WriteBoolean(%v): %v", v, err)
		}
		dec := NewBERDecoder(enc.Bytes())
		got, err := dec.ReadBoolean()
		if err != nil {
			t.Fatalf("ReadBoolean: %v", err)
		}
		if got != v {
			t.Errorf("ReadBoolean round-trip = %v, want %v", got, v)
		}
	}
}

func TestWriteNullUnbindRequest(t *testing.T) {
	// WriteNull emits the universal NULL (05 00). UnbindRequest ::=
	// [APPLICATION 2] NULL goes on the wire with its own tag instead, as
	// 42 00.
	enc := NewBEREncoder(4)
	if err := enc.WriteNull(); err != nil {
		t.Fatalf("WriteNull: %v", err)
	}
	if want := []byte{0x05, 0x00}; !bytes.Equal(enc.Bytes(), want) {
		t.Errorf("got % X, want % X", enc.Bytes(), want)
	}
}

func TestWriteTaggedValueSASLAuthChoice(t *testing.T) {
	// AuthenticationChoice's SASL arm: [3] SaslCredentials, constructed.
	inner := NewBEREncoder(32)
	if err := inner.WriteOctetString([]byte("PLAIN")); err != nil {
		t.Fatalf("WriteOctetString(mechanism): %v", err)
	}

	outer := NewBEREncoder(64)
	if err := outer.WriteTaggedValue(3, true, inner.Bytes()); err != nil {
		t.Fatalf("WriteTaggedValue: %v", err)
	}

	dec := NewBERDecoder(outer.Bytes())
	tagNum, constructed, value, err := dec.ReadTaggedValue()
	if err != nil {
		t.Fatalf("ReadTaggedValue: %v", err)
	}
	if tagNum != 3 || !constructed {
		t.Errorf("tagNum=%d constructed=%v, want 3/true", tagNum, constructed)
	}
	if !bytes.Equal(value, inner.Bytes()) {
		t.Errorf("value mismatch")
	}
}

func TestEncoderOverflowRejectsUndersizedBuffer(t *testing.T) {
	enc := NewBEREncoder(4)
	enc.SetMaxBytes(4)
	if err := enc.WriteOctetString(bytes.Repeat([]byte("x"), 64)); err == nil {
		t.Error("expected an overflow error when content exceeds SetMaxBytes")
	}
}

func TestEncoderResetClearsBuffer(t *testing.T) {
	enc := NewBEREncoder(16)
	if err := enc.WriteInteger(5); err != nil {
		t.Fatalf("WriteInteger: %v", err)
	}
	enc.Reset()
	if enc.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", enc.Len())
	}
}
