package control

import (
	"testing"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

func TestPersistentSearchEncodeDecode(t *testing.T) {
	in := PersistentSearch{
		ChangeTypes: ChangeTypeAdd | ChangeTypeModify,
		ChangesOnly: true,
		ReturnECs:   true,
	}

	enc := ber.NewBEREncoder(64)
	if err := in.EncodeValue(enc); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out PersistentSearch
	if err := out.DecodeValue(enc.Bytes()); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestEntryChangeNotificationModDNCarriesPreviousDN(t *testing.T) {
	in := EntryChangeNotification{
		ChangeType:   ChangeTypeModDN,
		PreviousDN:   "cn=old,dc=example,dc=com",
		ChangeNumber: 42,
	}

	enc := ber.NewBEREncoder(64)
	if err := in.EncodeValue(enc); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out EntryChangeNotification
	if err := out.DecodeValue(enc.Bytes()); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestEntryChangeNotificationNonModDNOmitsPreviousDN(t *testing.T) {
	in := EntryChangeNotification{ChangeType: ChangeTypeAdd}

	enc := ber.NewBEREncoder(64)
	if err := in.EncodeValue(enc); err != nil {
		t.Fatalf("EncodeValue: %v", err)
	}

	var out EntryChangeNotification
	if err := out.DecodeValue(enc.Bytes()); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if out.PreviousDN != "" {
		t.Errorf("PreviousDN = %q, want empty", out.PreviousDN)
	}
	if out.ChangeType != ChangeTypeAdd {
		t.Errorf("ChangeType = %v, want %v", out.ChangeType, ChangeTypeAdd)
	}
}
