// Package codecconfig provides configuration for the ldapwire codec and
// its demo CLI.
//
// The codec itself never reads environment variables, files, or any
// other persisted state; only cmd/ldapdump uses Parse to build a
// DecoderOptions value from its flags/environment for manual testing.
package codecconfig

// DecoderOptions controls the behavior of a grammar-driven decoder.
type DecoderOptions struct {
	// MaxPDUBytes caps the length of a single LDAPMessage envelope the
	// decoder will accept. A PDU whose declared length exceeds this
	// value is rejected rather than buffered.
	MaxPDUBytes int

	// StrictBooleans requires BOOLEAN values to be encoded as exactly
	// 0x00 (FALSE) or 0xFF (TRUE) per the DER convention. When false,
	// any non-zero octet is accepted as TRUE, matching most LDAP
	// implementations found in the wild.
	StrictBooleans bool

	// AllowNullReferralInNonReferralResult permits an LDAPResult to
	// carry a referral value even when its result code is not one of
	// the referral-carrying codes. Some servers send this; rejecting
	// it outright breaks interoperability with them.
	AllowNullReferralInNonReferralResult bool
}

// DisplayOptions holds cmd/ldapdump's own output settings, unrelated to
// decoder semantics.
type DisplayOptions struct {
	// Color enables ANSI-colorized output.
	Color bool

	// Clipboard copies the decoded text summary to the system clipboard.
	Clipboard bool
}

// Config bundles the decoder and display options cmd/ldapdump builds
// from flags and environment variables.
type Config struct {
	Decoder DecoderOptions
	Display DisplayOptions
}
