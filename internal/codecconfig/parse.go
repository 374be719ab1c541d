package codecconfig

import (
	"os"
	"strconv"
)

// Parse builds a Config starting from Default and overriding fields
// from LDAPWIRE_* environment variables. Used by cmd/ldapdump to
// build a DecoderOptions value for manual testing; the codec itself
// never calls this.
func Parse() (*Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv("LDAPWIRE_MAX_PDU_BYTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		cfg.Decoder.MaxPDUBytes = n
	}

	if v, ok := os.LookupEnv("LDAPWIRE_STRICT_BOOLEANS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.Decoder.StrictBooleans = b
	}

	if v, ok := os.LookupEnv("LDAPWIRE_ALLOW_NULL_REFERRAL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.Decoder.AllowNullReferralInNonReferralResult = b
	}

	if v, ok := os.LookupEnv("LDAPWIRE_COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.Display.Color = b
	}

	if v, ok := os.LookupEnv("LDAPWIRE_CLIPBOARD"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		cfg.Display.Clipboard = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
