package ldapmsg

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// ErrEmptySearchResultReference is returned when a
// SearchResultReference carries no URIs, which RFC 4511 §4.5.2
// requires at least one of.
var ErrEmptySearchResultReference = NewParseError(0, "SearchResultReference must carry at least one URI", nil)

// SearchResultReference represents a continuation reference a server
// returns in place of part of a search it cannot itself satisfy.
// Per RFC 4511 Section 4.5.2:
// SearchResultReference ::= [APPLICATION 19] SEQUENCE SIZE (1..MAX) OF uri URI
type SearchResultReference struct {
	// URIs lists the alternate locations a client may continue the
	// search against.
	URIs []string
}

// Encode encodes the SearchResultReference to BER format, including
// its own APPLICATION 19 tag.
func (r *SearchResultReference) Encode() ([]byte, error) {
	if len(r.URIs) == 0 {
		return nil, ErrEmptySearchResultReference
	}

	encoder := ber.NewBEREncoder(128)

	appPos := encoder.WriteApplicationTag(ApplicationSearchResultReference, true)
	for _, uri := range r.URIs {
		if err := encoder.WriteOctetString([]byte(uri)); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseSearchResultReference parses the contents of an APPLICATION 19
// tag (without the tag and length): a flat SEQUENCE of URI octet
// strings, with no LDAPResult component.
func ParseSearchResultReference(data []byte) (*SearchResultReference, error) {
	if len(data) == 0 {
		return nil, ErrEmptySearchResultReference
	}

	decoder := ber.NewBERDecoder(data)
	ref := &SearchResultReference{}

	for decoder.Remaining() > 0 {
		uriBytes, err := decoder.ReadOctetString()
		if err != nil {
			return nil, NewParseError(decoder.Offset(), "failed to read continuation reference URI", err)
		}
		ref.URIs = append(ref.URIs, string(uriBytes))
	}

	if len(ref.URIs) == 0 {
		return nil, ErrEmptySearchResultReference
	}

	return ref, nil
}
