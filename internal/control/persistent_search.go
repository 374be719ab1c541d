package control

import "github.com/oba-ldap/ldapwire/internal/ber"

// OIDPersistentSearch is the OID for the Persistent Search Control
// (draft-ietf-ldapext-psearch).
const OIDPersistentSearch = "2.16.840.1.113730.3.4.3"

// OIDEntryChangeNotification is the OID for the response control a
// persistent search server attaches to each unsolicited
// SearchResultEntry it sends as entries change.
const OIDEntryChangeNotification = "2.16.840.1.113730.3.4.7"

// ChangeType flags select which kinds of directory changes a
// PersistentSearch should notify on; they combine with bitwise OR.
type ChangeType int32

const (
	ChangeTypeAdd    ChangeType = 1
	ChangeTypeDelete ChangeType = 2
	ChangeTypeModify ChangeType = 4
	ChangeTypeModDN  ChangeType = 8
)

// PersistentSearch is the request control that keeps a SearchRequest
// open: the server continues streaming SearchResultEntry messages,
// each carrying an EntryChangeNotification, as matching entries
// change, instead of closing the search after the initial sweep.
//
//	PersistentSearch ::= SEQUENCE {
//		changeTypes  INTEGER,
//		changesOnly  BOOLEAN,
//		returnECs    BOOLEAN
//	}
type PersistentSearch struct {
	// ChangeTypes is a bitwise OR of the ChangeType constants.
	ChangeTypes ChangeType
	// ChangesOnly, when true, skips the initial sweep of existing
	// entries and reports only subsequent changes.
	ChangesOnly bool
	// ReturnECs requests that each changed entry carry an
	// EntryChangeNotification control.
	ReturnECs bool
}

// OID implements Value.
func (p *PersistentSearch) OID() string { return OIDPersistentSearch }

// EncodeValue implements Value.
func (p *PersistentSearch) EncodeValue(enc *ber.BEREncoder) error {
	pos := enc.BeginSequence()
	if err := enc.WriteInteger(int64(p.ChangeTypes)); err != nil {
		return err
	}
	if err := enc.WriteBoolean(p.ChangesOnly); err != nil {
		return err
	}
	if err := enc.WriteBoolean(p.ReturnECs); err != nil {
		return err
	}
	return enc.EndSequence(pos)
}

// DecodeValue implements Value.
func (p *PersistentSearch) DecodeValue(data []byte) error {
	dec := ber.NewBERDecoder(data)
	if _, err := dec.ExpectSequence(); err != nil {
		return err
	}
	changeTypes, err := dec.ReadInteger()
	if err != nil {
		return err
	}
	changesOnly, err := dec.ReadBoolean()
	if err != nil {
		return err
	}
	returnECs, err := dec.ReadBoolean()
	if err != nil {
		return err
	}
	p.ChangeTypes = ChangeType(changeTypes)
	p.ChangesOnly = changesOnly
	p.ReturnECs = returnECs
	return nil
}

// EntryChangeNotification is the response control a persistent search
// server attaches to a SearchResultEntry to describe the change that
// produced it.
//
//	EntryChangeNotification ::= SEQUENCE {
//		changeType     ENUMERATED {
//			add(1), delete(2), modify(4), modDN(8)
//		},
//		previousDN     LDAPDN OPTIONAL, -- only for modDN
//		changeNumber   INTEGER OPTIONAL -- only if the server supports one
//	}
type EntryChangeNotification struct {
	ChangeType ChangeType
	// PreviousDN is set only when ChangeType is ChangeTypeModDN.
	PreviousDN string
	// ChangeNumber is the server's change-log sequence number for
	// this event, or 0 if the server does not maintain one.
	ChangeNumber int64
}

// OID implements Value.
func (e *EntryChangeNotification) OID() string { return OIDEntryChangeNotification }

// EncodeValue implements Value.
func (e *EntryChangeNotification) EncodeValue(enc *ber.BEREncoder) error {
	pos := enc.BeginSequence()
	if err := enc.WriteEnumerated(int64(e.ChangeType)); err != nil {
		return err
	}
	if e.ChangeType == ChangeTypeModDN {
		if err := enc.WriteOctetString([]byte(e.PreviousDN)); err != nil {
			return err
		}
	}
	if e.ChangeNumber != 0 {
		if err := enc.WriteInteger(e.ChangeNumber); err != nil {
			return err
		}
	}
	return enc.EndSequence(pos)
}

// DecodeValue implements Value.
func (e *EntryChangeNotification) DecodeValue(data []byte) error {
	dec := ber.NewBERDecoder(data)
	length, err := dec.ExpectSequence()
	if err != nil {
		return err
	}
	end := dec.Offset() + length

	changeType, err := dec.ReadEnumerated()
	if err != nil {
		return err
	}
	e.ChangeType = ChangeType(changeType)
	e.PreviousDN = ""
	e.ChangeNumber = 0

	if e.ChangeType == ChangeTypeModDN && dec.Offset() < end {
		dn, err := dec.ReadOctetString()
		if err != nil {
			return err
		}
		e.PreviousDN = string(dn)
	}
	if dec.Offset() < end {
		changeNumber, err := dec.ReadInteger()
		if err != nil {
			return err
		}
		e.ChangeNumber = changeNumber
	}
	return nil
}
