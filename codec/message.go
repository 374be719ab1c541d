package codec

import (
	"github.com/oba-ldap/ldapwire/internal/control"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// Message is an LDAPMessage envelope ready to encode, or decoded off
// the wire. Operation holds one of ldapmsg's concrete per-operation
// types (e.g. *ldapmsg.BindRequest, *ldapmsg.SearchResultDone); see
// the operation-tag switch in encode.go for the full set Encode
// accepts.
type Message struct {
	MessageID int
	Operation any
	Controls  []ldapmsg.Control

	// TypedControls holds the subset of Controls this codec's
	// registry could decode into a typed control.Value, in the
	// same relative order they appear in Controls. Populated only
	// by Decoder.Feed; Encode ignores it — set Controls directly
	// (using control.EncodeControl to build entries) to send typed
	// controls.
	TypedControls []control.Value
}
