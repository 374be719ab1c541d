package codec

import (
	"github.com/oba-ldap/ldapwire/internal/codecconfig"
	"github.com/oba-ldap/ldapwire/internal/codeclog"
	"github.com/oba-ldap/ldapwire/internal/control"
	"github.com/oba-ldap/ldapwire/internal/grammar"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// Decoder drives per-connection decode state. Not safe for concurrent
// use; one Decoder per connection, matching spec.md §5's concurrency
// model.
type Decoder struct {
	inner    *grammar.Decoder
	registry *control.Registry
}

// NewDecoder creates a fresh per-connection Decoder using the
// process-wide control registry (control.Default()). Use
// CodecService.NewDecoder for a Decoder bound to an independently
// configured registry and logger.
func NewDecoder(options codecconfig.DecoderOptions) *Decoder {
	return &Decoder{
		inner:    grammar.NewDecoder(options, perConnectionLogger(codeclog.NewNop())),
		registry: control.Default(),
	}
}

// perConnectionLogger stamps l with a fresh request ID so every
// Decoder's log lines (e.g. the grammar package's discarded-referral
// warning) can be correlated to the connection that produced them,
// matching spec.md §5's one-Decoder-per-connection model.
func perConnectionLogger(l codeclog.Logger) codeclog.Logger {
	return l.WithRequestID(codeclog.GenerateRequestID())
}

// Feed appends newly arrived bytes and returns every Message that
// became complete as a result. Errors are *codecerr.Error values from
// the taxonomy spec.md §7 describes.
func (d *Decoder) Feed(data []byte) ([]Message, error) {
	raw, err := d.inner.Feed(data)
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(raw))
	for _, m := range raw {
		msg := Message{
			MessageID: m.Envelope.MessageID,
			Operation: m.Operation,
			Controls:  m.Envelope.Controls,
		}
		decodeControl := d.registry.DecodeRequestControl
		if ldapmsg.IsResponseTag(m.Envelope.Operation.Tag) {
			decodeControl = d.registry.DecodeResponseControl
		}
		for _, c := range m.Envelope.Controls {
			if v, found, decErr := decodeControl(c); decErr == nil && found {
				msg.TypedControls = append(msg.TypedControls, v)
			}
		}
		out = append(out, msg)
	}
	return out, nil
}
