package codec

import "github.com/oba-ldap/ldapwire/internal/control"

// RegisterRequestControl registers a factory for a request control OID
// against the process-wide registry. Registration is open: registering
// an OID already present overwrites it and returns the previous
// factory, or nil if there was none.
func RegisterRequestControl(oid string, f control.Factory) control.Factory {
	return control.Default().RegisterRequestControl(oid, f)
}

// RegisterResponseControl is RegisterRequestControl for response controls.
func RegisterResponseControl(oid string, f control.Factory) control.Factory {
	return control.Default().RegisterResponseControl(oid, f)
}

// RegisterExtendedRequest registers a factory for an ExtendedRequest
// requestName OID.
func RegisterExtendedRequest(oid string, f control.Factory) control.Factory {
	return control.Default().RegisterExtendedRequest(oid, f)
}

// RegisterExtendedResponse registers a factory for an ExtendedResponse
// responseName OID.
func RegisterExtendedResponse(oid string, f control.Factory) control.Factory {
	return control.Default().RegisterExtendedResponse(oid, f)
}

// RegisterIntermediateResponse registers a factory for an
// IntermediateResponse responseName OID.
func RegisterIntermediateResponse(oid string, f control.Factory) control.Factory {
	return control.Default().RegisterIntermediateResponse(oid, f)
}
