package control

import "github.com/oba-ldap/ldapwire/internal/ber"

// OIDSubentries is the OID for the Subentries Control (RFC 3672).
const OIDSubentries = "1.3.6.1.4.1.4203.1.10.1"

// Subentries is the request control that selects whether a
// SearchRequest should return ordinary entries or LDAP subentries.
//
//	SubentriesControlValue ::= BOOLEAN
//
// A value of true returns only subentries; false (or an absent
// control) returns only ordinary entries, matching the default search
// behavior RFC 3672 section 3 describes.
type Subentries struct {
	Visibility bool
}

// OID implements Value.
func (s *Subentries) OID() string { return OIDSubentries }

// EncodeValue implements Value.
func (s *Subentries) EncodeValue(enc *ber.BEREncoder) error {
	return enc.WriteBoolean(s.Visibility)
}

// DecodeValue implements Value.
func (s *Subentries) DecodeValue(data []byte) error {
	dec := ber.NewBERDecoder(data)
	v, err := dec.ReadBoolean()
	if err != nil {
		return err
	}
	s.Visibility = v
	return nil
}
