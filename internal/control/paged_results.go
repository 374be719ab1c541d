package control

import "github.com/oba-ldap/ldapwire/internal/ber"

// OIDPagedResults is the OID for the Simple Paged Results Control (RFC 2696).
const OIDPagedResults = "1.2.840.113556.1.4.319"

// PagedResults is the Simple Paged Results Control (RFC 2696). Clients
// attach it to a SearchRequest to request one page of results at a
// time; servers echo it back on the matching SearchResultDone with the
// cookie needed to fetch the next page.
//
//	realSearchControlValue ::= SEQUENCE {
//		size    INTEGER (0..maxInt),
//		        -- requested page size from client
//		        -- result set size estimate from server
//		cookie  OCTET STRING
//	}
type PagedResults struct {
	// Size is the requested page size (client) or the estimated
	// total result count (server).
	Size int32
	// Cookie is an opaque cursor. An empty cookie on a client
	// request means "first page"; an empty cookie on a server
	// response means "no more pages".
	Cookie []byte
}

// OID implements Value.
func (p *PagedResults) OID() string { return OIDPagedResults }

// EncodeValue implements Value.
func (p *PagedResults) EncodeValue(enc *ber.BEREncoder) error {
	pos := enc.BeginSequence()
	if err := enc.WriteInteger(int64(p.Size)); err != nil {
		return err
	}
	if err := enc.WriteOctetString(p.Cookie); err != nil {
		return err
	}
	return enc.EndSequence(pos)
}

// DecodeValue implements Value. An empty data slice is treated as the
// zero value (size 0, empty cookie), matching clients that omit the
// value entirely on a bare "give me paging" request.
func (p *PagedResults) DecodeValue(data []byte) error {
	if len(data) == 0 {
		p.Size = 0
		p.Cookie = nil
		return nil
	}

	dec := ber.NewBERDecoder(data)
	if _, err := dec.ExpectSequence(); err != nil {
		return err
	}
	size, err := dec.ReadInteger()
	if err != nil {
		return err
	}
	cookie, err := dec.ReadOctetString()
	if err != nil {
		return err
	}
	p.Size = int32(size)
	p.Cookie = cookie
	return nil
}
