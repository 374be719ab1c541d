package ldapmsg

import (
	"testing"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

func TestParseCompareRequest_Basic(t *testing.T) {
	encoder := ber.NewBEREncoder(128)
	encoder.WriteOctetString([]byte("uid=alice,ou=users,dc=example,dc=com"))
	avaPos := encoder.BeginSequence()
	encoder.WriteOctetString([]byte("mail"))
	encoder.WriteOctetString([]byte("alice@example.com"))
	encoder.EndSequence(avaPos)

	req, err := ParseCompareRequest(encoder.Bytes())
	if err != nil {
		t.Fatalf("ParseCompareRequest failed: %v", err)
	}

	if req.DN != "uid=alice,ou=users,dc=example,dc=com" {
		t.Errorf("DN = %q, want %q", req.DN, "uid=alice,ou=users,dc=example,dc=com")
	}
	if req.Attribute != "mail" {
		t.Errorf("Attribute = %q, want %q", req.Attribute, "mail")
	}
	if !req.Matches([]byte("alice@example.com")) {
		t.Error("Matches(alice@example.com) = false, want true")
	}
	if req.Matches([]byte("ALICE@EXAMPLE.COM")) {
		t.Error("Matches is case-insensitive; want byte-exact comparison")
	}
}

func TestCompareRequest_Encode(t *testing.T) {
	req := &CompareRequest{
		DN:        "uid=bob,ou=users,dc=example,dc=com",
		Attribute: "uid",
		Value:     []byte("bob"),
	}

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	parsed, err := ParseCompareRequest(data)
	if err != nil {
		t.Fatalf("ParseCompareRequest failed: %v", err)
	}

	if parsed.DN != req.DN || parsed.Attribute != req.Attribute || !parsed.Matches(req.Value) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, req)
	}
}

func TestCompareRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *CompareRequest
		wantErr error
	}{
		{"valid", &CompareRequest{DN: "cn=x", Attribute: "cn", Value: []byte("x")}, nil},
		{"empty DN", &CompareRequest{DN: "", Attribute: "cn"}, ErrEmptyCompareDN},
		{"empty attribute", &CompareRequest{DN: "cn=x", Attribute: ""}, ErrEmptyCompareAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
