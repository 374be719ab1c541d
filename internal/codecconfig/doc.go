// Package codecconfig provides the configuration knobs for a grammar
// decoder and for cmd/ldapdump's own display.
//
// # Overview
//
// The codec itself never reads environment variables or files — every
// Decoder is handed a DecoderOptions value directly by its caller. This
// package exists so cmd/ldapdump, and nothing else, can build one from
// the environment for manual inspection:
//
//   - Default values for every decoder knob
//   - Environment variable overrides
//   - Validation of the resulting values
//
// # Configuration Structure
//
//	type Config struct {
//	    Decoder DecoderOptions // maxPduBytes, strictBooleans, allowNullReferralInNonReferralResult
//	    Display DisplayOptions // color, clipboard — cmd/ldapdump output only
//	}
//
// # Loading Configuration
//
// Build a Config from the environment:
//
//	cfg, err := codecconfig.Parse()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or use defaults:
//
//	cfg := codecconfig.Default()
//
// # Environment Variables
//
//	LDAPWIRE_MAX_PDU_BYTES=4194304
//	LDAPWIRE_STRICT_BOOLEANS=true
//	LDAPWIRE_ALLOW_NULL_REFERRAL=false
//	LDAPWIRE_COLOR=false
//	LDAPWIRE_CLIPBOARD=true
package codecconfig
