package grammar

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/oba-ldap/ldapwire/internal/ber"
	"github.com/oba-ldap/ldapwire/internal/codecconfig"
	"github.com/oba-ldap/ldapwire/internal/codecerr"
	"github.com/oba-ldap/ldapwire/internal/codeclog"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// capturingLogger records every Warn call for assertions, without
// standing up a real codeclog.Logger backend.
type capturingLogger struct {
	codeclog.Logger
	warnCalls int
}

func (c *capturingLogger) Warn(msg string, keysAndValues ...interface{}) {
	c.warnCalls++
}

func deleteResponseEnvelope(t *testing.T, messageID int, result ldapmsg.LDAPResult) []byte {
	t.Helper()
	bodyEncoder := ber.NewBEREncoder(64)
	if err := result.Encode(bodyEncoder); err != nil {
		t.Fatalf("LDAPResult.Encode: %v", err)
	}
	env := &ldapmsg.LDAPMessage{
		MessageID: messageID,
		Operation: &ldapmsg.RawOperation{Tag: ldapmsg.ApplicationDelResponse, Data: bodyEncoder.Bytes()},
	}
	data, err := env.Encode()
	if err != nil {
		t.Fatalf("LDAPMessage.Encode: %v", err)
	}
	return data
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

func defaultDecoder() *Decoder {
	return NewDecoder(codecconfig.Default().Decoder)
}

func TestFeedUnbindRequest(t *testing.T) {
	d := defaultDecoder()
	msgs, err := d.Feed(mustHex(t, "30 05 02 01 01 42 00"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	env := msgs[0].Envelope
	if env.MessageID != 1 {
		t.Errorf("MessageID = %d, want 1", env.MessageID)
	}
	if env.Operation.Tag != ldapmsg.ApplicationUnbindRequest {
		t.Errorf("Tag = %d, want UnbindRequest", env.Operation.Tag)
	}
	if _, ok := msgs[0].Operation.(*ldapmsg.UnbindRequest); !ok {
		t.Errorf("Operation type = %T, want *ldapmsg.UnbindRequest", msgs[0].Operation)
	}
}

func TestFeedAbandonRequest(t *testing.T) {
	d := defaultDecoder()
	msgs, err := d.Feed(mustHex(t, "30 06 02 01 07 50 01 03"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	op, ok := msgs[0].Operation.(*ldapmsg.AbandonRequest)
	if !ok {
		t.Fatalf("Operation type = %T, want *ldapmsg.AbandonRequest", msgs[0].Operation)
	}
	if op.MessageID != 3 {
		t.Errorf("MessageID = %d, want 3", op.MessageID)
	}
}

func TestFeedFragmented(t *testing.T) {
	full := mustHex(t, "30 05 02 01 01 42 00")
	for split := 1; split < len(full); split++ {
		d := defaultDecoder()
		msgs, err := d.Feed(full[:split])
		if err != nil {
			t.Fatalf("split=%d first Feed: %v", split, err)
		}
		if len(msgs) != 0 {
			t.Fatalf("split=%d expected 0 messages before full PDU arrives, got %d", split, len(msgs))
		}
		msgs, err = d.Feed(full[split:])
		if err != nil {
			t.Fatalf("split=%d second Feed: %v", split, err)
		}
		if len(msgs) != 1 {
			t.Fatalf("split=%d expected 1 message after full PDU arrives, got %d", split, len(msgs))
		}
	}
}

func TestFeedTwoPDUsInOneCall(t *testing.T) {
	d := defaultDecoder()
	var buf bytes.Buffer
	buf.Write(mustHex(t, "30 05 02 01 01 42 00"))
	buf.Write(mustHex(t, "30 06 02 01 07 50 01 03"))

	msgs, err := d.Feed(buf.Bytes())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Envelope.Operation.Tag != ldapmsg.ApplicationUnbindRequest {
		t.Errorf("first message tag = %d, want UnbindRequest", msgs[0].Envelope.Operation.Tag)
	}
	if msgs[1].Envelope.Operation.Tag != ldapmsg.ApplicationAbandonRequest {
		t.Errorf("second message tag = %d, want AbandonRequest", msgs[1].Envelope.Operation.Tag)
	}
}

func TestFeedPoisonedDecoderRejectsFurtherInput(t *testing.T) {
	d := defaultDecoder()
	d.poisoned = true

	if _, err := d.Feed([]byte{0x00}); err == nil {
		t.Error("expected poisoned decoder to return an error")
	}
}

func TestMaxPDUBytesRejectsOversizedPDU(t *testing.T) {
	opts := codecconfig.Default().Decoder
	opts.MaxPDUBytes = 4
	d := NewDecoder(opts)

	oversized := mustHex(t, "30 05 02 01 01 42 00")
	if _, err := d.Feed(oversized); err == nil {
		t.Error("expected an oversized PDU to be rejected")
	}
}

func TestFeedExtendedRequestWithInvalidOIDIsResponseCarrying(t *testing.T) {
	d := defaultDecoder()
	// messageID=1, ExtendedRequest{requestName: "x"} ("x" is not a
	// well-formed dotted-decimal OID).
	_, err := d.Feed(mustHex(t, "30 08 02 01 01 77 03 80 01 78"))
	if err == nil {
		t.Fatal("expected an error")
	}

	var classified *codecerr.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %v, want a *codecerr.Error", err)
	}
	if classified.Kind != codecerr.ResponseCarrying {
		t.Errorf("Kind = %v, want ResponseCarrying", classified.Kind)
	}
	if !errors.Is(err, ldapmsg.ErrInvalidOID) {
		t.Error("expected the underlying cause to be ldapmsg.ErrInvalidOID")
	}

	reply, ok := classified.Response.(*ldapmsg.LDAPMessage)
	if !ok {
		t.Fatalf("Response = %T, want *ldapmsg.LDAPMessage", classified.Response)
	}
	if reply.MessageID != 1 {
		t.Errorf("reply MessageID = %d, want 1", reply.MessageID)
	}
	if reply.Operation == nil || reply.Operation.Tag != ldapmsg.ApplicationExtendedResponse {
		t.Error("expected the reply to carry an ExtendedResponse operation")
	}

	// The stream is not poisoned by a recoverable response-carrying error.
	if d.poisoned {
		t.Error("expected the decoder to remain usable after a response-carrying error")
	}
}

func TestFeedUnknownOperationTagIsUnexpectedTagAndPoisons(t *testing.T) {
	d := defaultDecoder()
	// messageID=1, protocolOp [APPLICATION 30] (not a tag this codec
	// registers), zero-length content.
	_, err := d.Feed(mustHex(t, "30 05 02 01 01 7E 00"))
	if err == nil {
		t.Fatal("expected an error")
	}

	var classified *codecerr.Error
	if !errors.As(err, &classified) {
		t.Fatalf("error = %v, want a *codecerr.Error", err)
	}
	if classified.Kind != codecerr.DecodeUnexpectedTag {
		t.Errorf("Kind = %v, want DecodeUnexpectedTag", classified.Kind)
	}

	if !d.poisoned {
		t.Error("expected the decoder to be poisoned after an unrecognized operation tag")
	}
	if _, err := d.Feed(mustHex(t, "30 05 02 01 01 42 00")); err == nil {
		t.Error("expected a poisoned decoder to keep rejecting further input")
	}
}

func TestFeedDecodesSearchResultReference(t *testing.T) {
	ref := &ldapmsg.SearchResultReference{URIs: []string{"ldap://alt1.example.com/", "ldap://alt2.example.com/"}}
	data, err := ref.Encode()
	if err != nil {
		t.Fatalf("SearchResultReference.Encode: %v", err)
	}
	env := &ldapmsg.LDAPMessage{
		MessageID: 4,
		Operation: &ldapmsg.RawOperation{Tag: ldapmsg.ApplicationSearchResultReference, Data: stripApplicationTagForTest(t, data)},
	}
	envelope, err := env.Encode()
	if err != nil {
		t.Fatalf("LDAPMessage.Encode: %v", err)
	}

	d := defaultDecoder()
	msgs, err := d.Feed(envelope)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	got, ok := msgs[0].Operation.(*ldapmsg.SearchResultReference)
	if !ok {
		t.Fatalf("Operation type = %T, want *ldapmsg.SearchResultReference", msgs[0].Operation)
	}
	if len(got.URIs) != 2 || got.URIs[0] != ref.URIs[0] || got.URIs[1] != ref.URIs[1] {
		t.Errorf("URIs = %v, want %v", got.URIs, ref.URIs)
	}
}

func TestFeedDecodesBindResponse(t *testing.T) {
	resp := &ldapmsg.BindResponse{
		LDAPResult:      ldapmsg.NewSuccessResult(),
		ServerSASLCreds: []byte("creds"),
	}
	data, err := resp.Encode()
	if err != nil {
		t.Fatalf("BindResponse.Encode: %v", err)
	}
	env := &ldapmsg.LDAPMessage{
		MessageID: 9,
		Operation: &ldapmsg.RawOperation{Tag: ldapmsg.ApplicationBindResponse, Data: stripApplicationTagForTest(t, data)},
	}
	envelope, err := env.Encode()
	if err != nil {
		t.Fatalf("LDAPMessage.Encode: %v", err)
	}

	d := defaultDecoder()
	msgs, err := d.Feed(envelope)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	got, ok := msgs[0].Operation.(*ldapmsg.BindResponse)
	if !ok {
		t.Fatalf("Operation type = %T, want *ldapmsg.BindResponse", msgs[0].Operation)
	}
	if got.ResultCode != ldapmsg.ResultSuccess {
		t.Errorf("ResultCode = %v, want ResultSuccess", got.ResultCode)
	}
	if string(got.ServerSASLCreds) != "creds" {
		t.Errorf("ServerSASLCreds = %q, want %q", got.ServerSASLCreds, "creds")
	}
}

// stripApplicationTagForTest removes the APPLICATION tag+length a
// response type's own Encode wrote, mirroring codec.unwrapApplicationTag
// for tests that build an envelope by hand instead of going through
// codec.Encode.
func stripApplicationTagForTest(t *testing.T, encoded []byte) []byte {
	t.Helper()
	dec := ber.NewBERDecoder(encoded)
	if _, _, _, err := dec.ReadTag(); err != nil {
		t.Fatalf("ReadTag: %v", err)
	}
	length, err := dec.ReadLength()
	if err != nil {
		t.Fatalf("ReadLength: %v", err)
	}
	return encoded[dec.Offset() : dec.Offset()+length]
}

func TestFeedDiscardsReferralOnNonReferralResultAndWarns(t *testing.T) {
	data := deleteResponseEnvelope(t, 1, ldapmsg.LDAPResult{
		ResultCode: ldapmsg.ResultSuccess,
		Referral:   []string{"ldap://example.com/"},
	})

	opts := codecconfig.Default().Decoder
	opts.AllowNullReferralInNonReferralResult = false
	logger := &capturingLogger{}
	d := NewDecoder(opts, logger)

	msgs, err := d.Feed(data)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	resp, ok := msgs[0].Operation.(*ldapmsg.DeleteResponse)
	if !ok {
		t.Fatalf("Operation type = %T, want *ldapmsg.DeleteResponse", msgs[0].Operation)
	}
	if len(resp.Referral) != 0 {
		t.Errorf("Referral = %v, want discarded (empty)", resp.Referral)
	}
	if logger.warnCalls != 1 {
		t.Errorf("warnCalls = %d, want 1", logger.warnCalls)
	}
}

func TestFeedKeepsReferralWhenPolicyAllowsIt(t *testing.T) {
	data := deleteResponseEnvelope(t, 1, ldapmsg.LDAPResult{
		ResultCode: ldapmsg.ResultSuccess,
		Referral:   []string{"ldap://example.com/"},
	})

	opts := codecconfig.Default().Decoder
	opts.AllowNullReferralInNonReferralResult = true
	logger := &capturingLogger{}
	d := NewDecoder(opts, logger)

	msgs, err := d.Feed(data)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	resp, ok := msgs[0].Operation.(*ldapmsg.DeleteResponse)
	if !ok {
		t.Fatalf("Operation type = %T, want *ldapmsg.DeleteResponse", msgs[0].Operation)
	}
	if len(resp.Referral) != 1 {
		t.Errorf("Referral = %v, want preserved", resp.Referral)
	}
	if logger.warnCalls != 0 {
		t.Errorf("warnCalls = %d, want 0", logger.warnCalls)
	}
}
