// Package searchfilter implements the SearchRequest filter tree: its
// wire encoding/decoding (RFC 4511 section 4.5.1.7) and, as a
// convenience layered on top, an RFC 4515 string representation.
//
// # Overview
//
// A Filter is a recursive tree built from nine node shapes, each
// carrying its RFC 4511 context tag number as its FilterType:
//
//   - And (&), Or (|): connectors over zero or more children
//   - Not (!): negation of a single child
//   - Equality (=), GreaterOrEqual (>=), LessOrEqual (<=), ApproxMatch (~=):
//     attribute/value comparison leaves
//   - Present (=*): attribute existence check, the one primitively
//     encoded leaf
//   - Substring (*): initial/any/final wildcard matching
//   - Extensible (:=): matching-rule assertion
//
// # Construction
//
//	// (&(objectClass=person)(uid=alice))
//	f := searchfilter.And(
//	    searchfilter.Equality("objectClass", []byte("person")),
//	    searchfilter.Equality("uid", []byte("alice")),
//	)
//
//	// (cn=John*Smith)
//	f := searchfilter.Substring("cn", &searchfilter.Substrings{
//	    Initial: []byte("John"),
//	    Final:   []byte("Smith"),
//	})
//
// # Wire codec
//
// Encode writes a Filter using the reverse-strategy BER encoder;
// LengthOf computes the filter's content length (without its own tag
// and length octets) without encoding, for callers that need a
// SearchRequest's total length before writing its first byte.
// Decode parses a Filter from a positioned BERDecoder, recursing one
// stack frame per tree node — Go's call stack serves as the frame
// stack a hand-rolled iterative decoder would otherwise need.
//
//	if err := searchfilter.Encode(enc, f); err != nil { ... }
//	f, err := searchfilter.Decode(dec)
//
// # String form
//
// Parse and (*Filter).String round-trip RFC 4515 filter strings.
// Parse does not recognise extensible-match (:=) assertions, so the
// String form of an Extensible filter does not parse back:
//
//	f, err := searchfilter.Parse("(&(uid=alice)(mail=*))")
//	s := f.String() // "(&(uid=alice)(mail=*))"
package searchfilter
