package codec

import (
	"testing"

	"github.com/oba-ldap/ldapwire/internal/codecconfig"
	"github.com/oba-ldap/ldapwire/internal/control"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

func decoderOptionsForTest() codecconfig.DecoderOptions {
	return codecconfig.Default().Decoder
}

func TestDecoderFeedAttachesTypedControl(t *testing.T) {
	ctrl, err := control.EncodeControl(&control.PagedResults{Size: 10, Cookie: []byte("c1")}, false)
	if err != nil {
		t.Fatalf("EncodeControl: %v", err)
	}

	encoded, err := Encode(Message{
		MessageID: 5,
		Operation: &ldapmsg.UnbindRequest{},
		Controls:  []ldapmsg.Control{ctrl},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := NewDecoder(decoderOptionsForTest())
	msgs, err := d.Feed(encoded)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if len(msgs[0].TypedControls) != 1 {
		t.Fatalf("expected 1 typed control, got %d", len(msgs[0].TypedControls))
	}
	pr, ok := msgs[0].TypedControls[0].(*control.PagedResults)
	if !ok {
		t.Fatalf("typed control type = %T, want *control.PagedResults", msgs[0].TypedControls[0])
	}
	if pr.Size != 10 || string(pr.Cookie) != "c1" {
		t.Errorf("got %+v", pr)
	}
}

func TestDecoderFeedUnknownControlStaysRaw(t *testing.T) {
	encoded, err := Encode(Message{
		MessageID: 6,
		Operation: &ldapmsg.UnbindRequest{},
		Controls:  []ldapmsg.Control{{OID: "9.9.9.9", Value: []byte{0x01}}},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := NewDecoder(decoderOptionsForTest())
	msgs, err := d.Feed(encoded)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs[0].TypedControls) != 0 {
		t.Errorf("expected no typed controls, got %d", len(msgs[0].TypedControls))
	}
	if len(msgs[0].Controls) != 1 || msgs[0].Controls[0].OID != "9.9.9.9" {
		t.Errorf("expected the raw control to survive, got %+v", msgs[0].Controls)
	}
}

func TestDecoderFeedAttachesResponseOnlyTypedControl(t *testing.T) {
	ctrl, err := control.EncodeControl(&control.EntryChangeNotification{ChangeType: control.ChangeTypeAdd}, false)
	if err != nil {
		t.Fatalf("EncodeControl: %v", err)
	}

	encoded, err := Encode(Message{
		MessageID: 7,
		Operation: &ldapmsg.DeleteResponse{},
		Controls:  []ldapmsg.Control{ctrl},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	d := NewDecoder(decoderOptionsForTest())
	msgs, err := d.Feed(encoded)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(msgs[0].TypedControls) != 1 {
		t.Fatalf("expected 1 typed control decoded via the response-control table, got %d", len(msgs[0].TypedControls))
	}
	if _, ok := msgs[0].TypedControls[0].(*control.EntryChangeNotification); !ok {
		t.Fatalf("typed control type = %T, want *control.EntryChangeNotification", msgs[0].TypedControls[0])
	}
}
