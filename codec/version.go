package codec

import (
	"strconv"

	"github.com/blang/semver"
)

// codecVersion is this module's own semantic version, independent of
// the LDAP protocol version it implements.
var codecVersion = semver.MustParse("1.0.0")

// ldapProtocolVersion is the LDAP protocol version this codec's wire
// format targets; RFC 4511 fixes BindRequest.version to this value.
const ldapProtocolVersion = 3

// Version reports the codec's own semantic version and the LDAP
// protocol version (always 3) it implements.
type Version struct {
	Codec    semver.Version
	Protocol int
}

// String renders "ldapwire v<semver> (LDAPv<protocol>)".
func (v Version) String() string {
	return "ldapwire v" + v.Codec.String() + " (LDAPv" + strconv.Itoa(v.Protocol) + ")"
}
