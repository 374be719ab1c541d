package control

import "github.com/oba-ldap/ldapwire/internal/ber"

// OIDServerSortRequest is the OID for the Server Side Sort Request
// Control (RFC 2891).
const OIDServerSortRequest = "1.2.840.113556.1.4.473"

// OIDServerSortResponse is the OID for the matching Sort Result
// Control (RFC 2891).
const OIDServerSortResponse = "1.2.840.113556.1.4.474"

// SortKey names one attribute a ServerSortRequest orders results by,
// in descending priority.
//
//	SortKeyList ::= SEQUENCE OF SEQUENCE {
//		attributeType   AttributeDescription,
//		orderingRule    [0] MatchingRuleId OPTIONAL,
//		reverseOrder    [1] BOOLEAN DEFAULT FALSE
//	}
type SortKey struct {
	AttributeType string
	OrderingRule  string // empty if not present
	ReverseOrder  bool
}

// ServerSortRequest is the request control requesting the server sort
// SearchResultEntry messages by one or more attributes before
// returning them.
type ServerSortRequest struct {
	Keys []SortKey
}

// OID implements Value.
func (s *ServerSortRequest) OID() string { return OIDServerSortRequest }

// EncodeValue implements Value.
func (s *ServerSortRequest) EncodeValue(enc *ber.BEREncoder) error {
	seqPos := enc.BeginSequence()
	for _, key := range s.Keys {
		keyPos := enc.BeginSequence()
		if err := enc.WriteOctetString([]byte(key.AttributeType)); err != nil {
			return err
		}
		if key.OrderingRule != "" {
			if err := enc.WriteTaggedValue(0, false, []byte(key.OrderingRule)); err != nil {
				return err
			}
		}
		if key.ReverseOrder {
			if err := enc.WriteTaggedValue(1, false, []byte{0xFF}); err != nil {
				return err
			}
		}
		if err := enc.EndSequence(keyPos); err != nil {
			return err
		}
	}
	return enc.EndSequence(seqPos)
}

// DecodeValue implements Value.
func (s *ServerSortRequest) DecodeValue(data []byte) error {
	dec := ber.NewBERDecoder(data)
	length, err := dec.ExpectSequence()
	if err != nil {
		return err
	}
	end := dec.Offset() + length

	var keys []SortKey
	for dec.Offset() < end {
		keyLen, err := dec.ExpectSequence()
		if err != nil {
			return err
		}
		keyEnd := dec.Offset() + keyLen

		attrType, err := dec.ReadOctetString()
		if err != nil {
			return err
		}
		key := SortKey{AttributeType: string(attrType)}

		for dec.Offset() < keyEnd {
			if dec.IsContextTag(0) {
				_, _, value, err := dec.ReadTaggedValue()
				if err != nil {
					return err
				}
				key.OrderingRule = string(value)
				continue
			}
			if dec.IsContextTag(1) {
				_, _, value, err := dec.ReadTaggedValue()
				if err != nil {
					return err
				}
				key.ReverseOrder = len(value) == 1 && value[0] != 0x00
				continue
			}
			if err := dec.Skip(); err != nil {
				return err
			}
		}
		keys = append(keys, key)
	}
	s.Keys = keys
	return nil
}

// SortResultCode reports why a server-side sort did or did not
// succeed.
type SortResultCode int64

const (
	SortResultSuccess               SortResultCode = 0
	SortResultOperationsError       SortResultCode = 1
	SortResultTimeLimitExceeded     SortResultCode = 3
	SortResultStrongAuthRequired    SortResultCode = 8
	SortResultAdminLimitExceeded    SortResultCode = 11
	SortResultNoSuchAttribute       SortResultCode = 16
	SortResultInappropriateMatching SortResultCode = 18
	SortResultInsufficientAccess    SortResultCode = 50
	SortResultBusy                  SortResultCode = 51
	SortResultUnwillingToPerform    SortResultCode = 53
	SortResultOther                SortResultCode = 80
)

// ServerSortResponse is the response control carrying the outcome of a
// requested server-side sort, attached to the SearchResultDone.
//
//	SortResult ::= SEQUENCE {
//		sortResult      ENUMERATED { ... },
//		attributeType   [0] AttributeDescription OPTIONAL
//	}
type ServerSortResponse struct {
	Result SortResultCode
	// AttributeType names the attribute that caused a failure, if
	// the server supplies one; empty otherwise.
	AttributeType string
}

// OID implements Value.
func (s *ServerSortResponse) OID() string { return OIDServerSortResponse }

// EncodeValue implements Value.
func (s *ServerSortResponse) EncodeValue(enc *ber.BEREncoder) error {
	pos := enc.BeginSequence()
	if err := enc.WriteEnumerated(int64(s.Result)); err != nil {
		return err
	}
	if s.AttributeType != "" {
		if err := enc.WriteTaggedValue(0, false, []byte(s.AttributeType)); err != nil {
			return err
		}
	}
	return enc.EndSequence(pos)
}

// DecodeValue implements Value.
func (s *ServerSortResponse) DecodeValue(data []byte) error {
	dec := ber.NewBERDecoder(data)
	length, err := dec.ExpectSequence()
	if err != nil {
		return err
	}
	end := dec.Offset() + length

	result, err := dec.ReadEnumerated()
	if err != nil {
		return err
	}
	s.Result = SortResultCode(result)
	s.AttributeType = ""

	if dec.Offset() < end {
		_, _, value, err := dec.ReadTaggedValue()
		if err != nil {
			return err
		}
		s.AttributeType = string(value)
	}
	return nil
}
