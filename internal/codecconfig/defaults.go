package codecconfig

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// defaultMaxPDUBytes bounds a decoded LDAPMessage to 2MiB, well above
// any realistic SearchRequest/SearchResultEntry while still rejecting
// a PDU whose declared length was corrupted or forged.
const defaultMaxPDUBytes = 2 * 1024 * 1024

// hardMaxPDUBytes is the absolute ceiling an operator can push
// LDAPWIRE_MAX_PDU_BYTES to: 256MiB.
const hardMaxPDUBytes = 256 * 1024 * 1024

// rangeConstraint builds a bounds check over any ordered type, the same
// shape as the range constraints used elsewhere in this corpus for
// validating a value falls within [minimum, maximum].
func rangeConstraint[T constraints.Ordered](minimum, maximum T) func(T) error {
	return func(v T) error {
		if v < minimum || v > maximum {
			return fmt.Errorf("value %v out of range [%v, %v]", v, minimum, maximum)
		}
		return nil
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Decoder: DecoderOptions{
			MaxPDUBytes:                          defaultMaxPDUBytes,
			StrictBooleans:                       false,
			AllowNullReferralInNonReferralResult: true,
		},
		Display: DisplayOptions{
			Color:     true,
			Clipboard: false,
		},
	}
}

// ErrInvalidMaxPDUBytes is returned by Validate when MaxPDUBytes is
// not a positive number of bytes.
var ErrInvalidMaxPDUBytes = errors.New("codecconfig: maxPduBytes must be positive")

// Validate checks cfg for internally inconsistent values.
func (cfg *Config) Validate() error {
	if err := rangeConstraint(1, hardMaxPDUBytes)(cfg.Decoder.MaxPDUBytes); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMaxPDUBytes, err)
	}
	return nil
}
