// Package grammar drives the top-level LDAP message grammar: it
// assembles complete envelope TLVs off the wire with ber.Reader, then
// dispatches each one to the operation decoder registered for its
// APPLICATION tag. Per-operation internals (filter trees, substring
// lists, modification lists) are themselves recursive-descent grammars
// owned by ldapmsg and searchfilter; this package owns only the
// outermost state: "have we assembled a full LDAPMessage envelope yet,
// and which operation does its tag select."
package grammar

import (
	"errors"

	"github.com/oba-ldap/ldapwire/internal/ber"
	"github.com/oba-ldap/ldapwire/internal/codecconfig"
	"github.com/oba-ldap/ldapwire/internal/codecerr"
	"github.com/oba-ldap/ldapwire/internal/codeclog"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// State names the phase of the top-level envelope grammar. Unlike a
// per-byte transition table, this codec's outer grammar has exactly
// these states: START (no complete envelope in hand), PDU_DECODED (a
// complete envelope TLV assembled, being parsed) and GRAMMAR_END
// (envelope parsed, ready for dispatch). The finer
// per-operation/per-filter states spec.md's §4.3 enumerates are driven
// by ldapmsg and searchfilter's own recursive descent once an entire
// operation body is in hand — see DESIGN.md for why the table is not
// duplicated at this layer.
//go:generate stringer -type=State
type State int

const (
	StateStart State = iota
	StatePDUDecoded
	StateGrammarEnd
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StatePDUDecoded:
		return "PDU_DECODED"
	case StateGrammarEnd:
		return "GRAMMAR_END"
	default:
		return "UNKNOWN"
	}
}

// OperationDecodeFunc parses the contents of an APPLICATION-tagged
// protocolOp (without its tag and length) into a typed operation
// value.
type OperationDecodeFunc func(data []byte) (any, error)

// dispatch is the dense [operation tag] -> decode function table. It
// is "dense" in the sense spec.md's grammar calls for: every tag this
// codec understands has a direct entry; anything absent is an
// unconditional DecodeUnexpectedTag.
var dispatch = map[int]OperationDecodeFunc{
	ldapmsg.ApplicationBindRequest:     func(d []byte) (any, error) { return ldapmsg.ParseBindRequest(d) },
	ldapmsg.ApplicationUnbindRequest:   func(d []byte) (any, error) { return ldapmsg.ParseUnbindRequest(d) },
	ldapmsg.ApplicationSearchRequest:   func(d []byte) (any, error) { return ldapmsg.ParseSearchRequest(d) },
	ldapmsg.ApplicationModifyRequest:   func(d []byte) (any, error) { return ldapmsg.ParseModifyRequest(d) },
	ldapmsg.ApplicationAddRequest:      func(d []byte) (any, error) { return ldapmsg.ParseAddRequest(d) },
	ldapmsg.ApplicationDelRequest:      func(d []byte) (any, error) { return ldapmsg.ParseDeleteRequest(d) },
	ldapmsg.ApplicationModifyDNRequest: func(d []byte) (any, error) { return ldapmsg.ParseModifyDNRequest(d) },
	ldapmsg.ApplicationCompareRequest:  func(d []byte) (any, error) { return ldapmsg.ParseCompareRequest(d) },
	ldapmsg.ApplicationAbandonRequest:  func(d []byte) (any, error) { return ldapmsg.ParseAbandonRequest(d) },
	ldapmsg.ApplicationExtendedRequest: func(d []byte) (any, error) { return ldapmsg.ParseExtendedRequest(d) },

	ldapmsg.ApplicationBindResponse:          func(d []byte) (any, error) { return ldapmsg.ParseBindResponse(d) },
	ldapmsg.ApplicationSearchResultEntry:     func(d []byte) (any, error) { return ldapmsg.ParseSearchResultEntry(d) },
	ldapmsg.ApplicationSearchResultDone:      func(d []byte) (any, error) { return ldapmsg.ParseSearchResultDone(d) },
	ldapmsg.ApplicationSearchResultReference: func(d []byte) (any, error) { return ldapmsg.ParseSearchResultReference(d) },
	ldapmsg.ApplicationModifyResponse:        func(d []byte) (any, error) { return ldapmsg.ParseModifyResponse(d) },
	ldapmsg.ApplicationAddResponse:           func(d []byte) (any, error) { return ldapmsg.ParseAddResponse(d) },
	ldapmsg.ApplicationDelResponse:           func(d []byte) (any, error) { return ldapmsg.ParseDeleteResponse(d) },
	ldapmsg.ApplicationModifyDNResponse:      func(d []byte) (any, error) { return ldapmsg.ParseModifyDNResponse(d) },
	ldapmsg.ApplicationCompareResponse:       func(d []byte) (any, error) { return ldapmsg.ParseCompareResponse(d) },
	ldapmsg.ApplicationExtendedResponse:      func(d []byte) (any, error) { return ldapmsg.ParseExtendedResponse(d) },
	ldapmsg.ApplicationIntermediateResponse:  func(d []byte) (any, error) { return ldapmsg.ParseIntermediateResponse(d) },
}

// Message pairs a decoded envelope with its operation-specific parse.
// dispatch covers every request and response APPLICATION tag this
// codec understands; an envelope whose tag isn't in dispatch never
// reaches a Message at all — Feed classifies it as DecodeUnexpectedTag
// and poisons the stream instead.
type Message struct {
	Envelope  *ldapmsg.LDAPMessage
	Operation any
}

// Decoder drives the envelope grammar over a single connection's byte
// stream. It is not safe for concurrent use; spec.md's concurrency
// model assigns one Decoder per connection.
type Decoder struct {
	reader   *ber.Reader
	options  codecconfig.DecoderOptions
	state    State
	poisoned bool
	logger   codeclog.Logger
}

// Options returns the DecoderOptions this Decoder was built with.
func (d *Decoder) Options() codecconfig.DecoderOptions {
	return d.options
}

// NewDecoder creates a fresh per-connection Decoder. An optional logger
// receives the warnings spec.md calls for (e.g. a discarded referral on
// a non-REFERRAL result); callers that don't pass one get codeclog.NewNop,
// matching the rest of this codec's "logging is opt-in, never required
// for correctness" posture.
func NewDecoder(options codecconfig.DecoderOptions, logger ...codeclog.Logger) *Decoder {
	l := codeclog.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Decoder{
		reader:  ber.NewReader(options.MaxPDUBytes),
		options: options,
		state:   StateStart,
		logger:  l,
	}
}

// Feed appends newly arrived bytes and returns every LDAPMessage
// envelope that became complete as a result, dispatching each to its
// operation's decoder. On any classified error other than a
// response-carrying one the Decoder is left poisoned: subsequent Feed
// calls fail immediately with a DecodeMalformed error wrapping
// errDecoderPoisoned, matching spec.md's "no resynchronisation within
// the same stream" policy.
func (d *Decoder) Feed(data []byte) ([]*Message, error) {
	if d.poisoned {
		return nil, codecerr.New(codecerr.DecodeMalformed, errDecoderPoisoned)
	}

	d.reader.Feed(data)

	var out []*Message
	for {
		tlv, ok, err := d.reader.Next()
		if err != nil {
			d.poisoned = true
			return out, classifyReaderError(err)
		}
		if !ok {
			return out, nil
		}

		d.state = StatePDUDecoded
		env, err := ldapmsg.ParseLDAPMessage(tlv)
		if err != nil {
			d.poisoned = true
			return out, codecerr.New(codecerr.DecodeMalformed, err)
		}
		d.state = StateGrammarEnd

		decode, ok := dispatch[env.Operation.Tag]
		if !ok {
			d.poisoned = true
			return out, codecerr.New(codecerr.DecodeUnexpectedTag, unknownOperationTagError(env.Operation.Tag))
		}

		msg := &Message{Envelope: env}
		op, err := decode(env.Operation.Data)
		if err != nil {
			if carrying, ok := responseCarryingError(env, err); ok {
				return out, carrying
			}
			d.poisoned = true
			return out, codecerr.New(codecerr.DecodeMalformed, err)
		}
		if carrier, ok := op.(ldapmsg.ReferralCarrier); ok {
			if carrier.ApplyReferralPolicy(d.options.AllowNullReferralInNonReferralResult) {
				d.logger.Warn("discarding referral on non-REFERRAL result", "messageId", env.MessageID)
			}
		}
		msg.Operation = op

		out = append(out, msg)
		d.state = StateStart
	}
}

// responseCarryingError recognizes the one decode failure spec.md
// calls out by name as recoverable: an ExtendedRequest whose
// requestName fails OID validation. LDAP semantics require the server
// reply with protocolError rather than drop the connection, so this
// builds that reply instead of poisoning the stream. The envelope
// itself was well-formed BER; only the requestName content was bad.
func responseCarryingError(env *ldapmsg.LDAPMessage, err error) (*codecerr.Error, bool) {
	if env.Operation.Tag != ldapmsg.ApplicationExtendedRequest || !errors.Is(err, ldapmsg.ErrInvalidOID) {
		return nil, false
	}

	resp := &ldapmsg.ExtendedResponse{
		LDAPResult: ldapmsg.NewErrorResult(ldapmsg.ResultProtocolError, "malformed requestName OID"),
	}
	reply := &ldapmsg.LDAPMessage{MessageID: env.MessageID}
	data, encErr := resp.Encode()
	if encErr == nil {
		reply.Operation = &ldapmsg.RawOperation{Tag: ldapmsg.ApplicationExtendedResponse, Data: data}
	}
	return codecerr.NewResponseCarrying(err, reply), true
}

// classifyReaderError maps ber.Reader's sentinel errors onto the
// codec's public taxonomy.
func classifyReaderError(err error) error {
	if err == ber.ErrPduTooLarge {
		return codecerr.New(codecerr.DecodePduTooLarge, err)
	}
	return codecerr.New(codecerr.DecodeMalformed, err)
}
