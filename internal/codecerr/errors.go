// Package codecerr defines the error taxonomy shared across ber,
// grammar, ldapmsg, searchfilter and control, and the wrapping types
// the root codec package surfaces to callers.
package codecerr

import (
	"errors"
	"fmt"
)

// Kind classifies a codec-level failure into the categories a caller
// needs to distinguish: which ones are programmer error, which are
// wire corruption, and which are field-level syntax failures.
type Kind int

const (
	// EncodeBufferOverflow: the output buffer/length pre-pass was too
	// small for the message actually written. Programmer error,
	// non-recoverable.
	EncodeBufferOverflow Kind = iota

	// InvalidMessage: pre-encode validation failed (null DN in a
	// context requiring a DN, negative size limit, unknown operation
	// code). Surfaced synchronously from Encode.
	InvalidMessage

	// DecodeMalformed: the byte sequence violates BER (bad length
	// byte, truncated value).
	DecodeMalformed

	// DecodeUnexpectedTag: a tag did not match any transition from the
	// current grammar state.
	DecodeUnexpectedTag

	// DecodeLengthInconsistent: a child length exceeds its parent's
	// budget, or a frame underflows.
	DecodeLengthInconsistent

	// DecodePduTooLarge: a PDU exceeded the configured maxPduBytes cap.
	DecodePduTooLarge

	// DecodeInvalidOid: a field requiring a dotted-decimal OID failed
	// syntactic validation.
	DecodeInvalidOid

	// DecodeInvalidDn: a field requiring an LDAPDN failed syntactic
	// validation.
	DecodeInvalidDn

	// DecodeInvalidUrl: a referral or extended-request URL failed
	// syntactic validation.
	DecodeInvalidUrl

	// ResponseCarrying: a recoverable decode error discovered inside a
	// request where LDAP semantics require the server to reply with a
	// specific LDAPResult. Carries a pre-built response skeleton via
	// Error.Response.
	ResponseCarrying
)

// String returns the taxonomy name used in log output and Error().
func (k Kind) String() string {
	switch k {
	case EncodeBufferOverflow:
		return "EncodeBufferOverflow"
	case InvalidMessage:
		return "InvalidMessage"
	case DecodeMalformed:
		return "DecodeMalformed"
	case DecodeUnexpectedTag:
		return "DecodeUnexpectedTag"
	case DecodeLengthInconsistent:
		return "DecodeLengthInconsistent"
	case DecodePduTooLarge:
		return "DecodePduTooLarge"
	case DecodeInvalidOid:
		return "DecodeInvalidOid"
	case DecodeInvalidDn:
		return "DecodeInvalidDn"
	case DecodeInvalidUrl:
		return "DecodeInvalidUrl"
	case ResponseCarrying:
		return "ResponseCarrying"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Error is the classified error codec callers receive from Encode and
// Decoder.Feed. Response is populated only for Kind == ResponseCarrying.
type Error struct {
	Kind     Kind
	Err      error
	Response any // *ldapmsg.LDAPMessage; typed as any to avoid an import cycle
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("codec: %s", e.Kind)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified Error wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// NewResponseCarrying builds a ResponseCarrying error, pairing the
// underlying cause with a pre-built response the caller may send back.
func NewResponseCarrying(err error, response any) *Error {
	return &Error{Kind: ResponseCarrying, Err: err, Response: response}
}

// Is reports whether target is the same Kind's sentinel, so
// errors.Is(err, codecerr.ErrDecodeMalformed) style checks work.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Sentinels usable with errors.Is for a bare Kind check without
// constructing a full Error.
var (
	ErrEncodeBufferOverflow     = &Error{Kind: EncodeBufferOverflow}
	ErrInvalidMessage           = &Error{Kind: InvalidMessage}
	ErrDecodeMalformed          = &Error{Kind: DecodeMalformed}
	ErrDecodeUnexpectedTag      = &Error{Kind: DecodeUnexpectedTag}
	ErrDecodeLengthInconsistent = &Error{Kind: DecodeLengthInconsistent}
	ErrDecodePduTooLarge        = &Error{Kind: DecodePduTooLarge}
	ErrDecodeInvalidOid         = &Error{Kind: DecodeInvalidOid}
	ErrDecodeInvalidDn          = &Error{Kind: DecodeInvalidDn}
	ErrDecodeInvalidUrl         = &Error{Kind: DecodeInvalidUrl}
)

// Classify maps an underlying ber/ldapmsg error to its Kind, so code
// that already returns plain errors can be wrapped at the grammar
// boundary without rewriting every call site to return *Error
// directly.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return DecodeMalformed
	case containsAny(err.Error(), "pdu size", "maximum pdu", "too large"):
		return DecodePduTooLarge
	case containsAny(err.Error(), "tag mismatch", "unexpected tag"):
		return DecodeUnexpectedTag
	case containsAny(err.Error(), "length"):
		return DecodeLengthInconsistent
	default:
		return DecodeMalformed
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if len(sub) <= len(s) && indexFold(s, sub) {
			return true
		}
	}
	return false
}

// indexFold does a simple ASCII case-insensitive substring search,
// avoiding a strings.ToLower allocation per call on the decode hot path.
func indexFold(s, sub string) bool {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return m == 0
	}
	for i := 0; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			a, b := s[i+j], sub[j]
			if 'A' <= a && a <= 'Z' {
				a += 'a' - 'A'
			}
			if 'A' <= b && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
