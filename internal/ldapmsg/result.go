package ldapmsg

import (
	"github.com/oba-ldap/ldapwire/internal/ber"
)

// Context-specific tags for response fields
const (
	// ContextTagReferral is the tag for referral URIs in LDAPResult [3]
	ContextTagReferral = 3
	// ContextTagServerSASLCreds is the tag for server SASL credentials in BindResponse [7]
	ContextTagServerSASLCreds = 7
)

// LDAPResult represents the common result structure used in most LDAP responses.
// Per RFC 4511 Section 4.1.9:
// LDAPResult ::= SEQUENCE {
//
//	resultCode         ENUMERATED { ... },
//	matchedDN          LDAPDN,
//	diagnosticMessage  LDAPString,
//	referral           [3] Referral OPTIONAL
//
// }
type LDAPResult struct {
	// ResultCode indicates the outcome of the operation
	ResultCode ResultCode
	// MatchedDN contains the DN of the last entry matched during processing
	MatchedDN string
	// DiagnosticMessage contains additional diagnostic information
	DiagnosticMessage string
	// Referral contains URIs to other servers (optional)
	Referral []string
}

// successFastPath is the literal 7-byte encoding of an LDAPResult with
// resultCode SUCCESS, an empty matchedDN, an empty diagnosticMessage,
// and no referral: ENUMERATED(0) OCTET-STRING("") OCTET-STRING("").
var successFastPath = []byte{0x0A, 0x01, 0x00, 0x04, 0x00, 0x04, 0x00}

// Encode encodes the LDAPResult to BER format (without outer tag).
// This is used as part of response encoding.
func (r *LDAPResult) Encode(encoder *ber.BEREncoder) error {
	if r.ResultCode == ResultSuccess && r.MatchedDN == "" && r.DiagnosticMessage == "" && len(r.Referral) == 0 {
		encoder.WriteRaw(successFastPath)
		return nil
	}

	// Write resultCode (ENUMERATED)
	if err := encoder.WriteEnumerated(int64(r.ResultCode)); err != nil {
		return err
	}

	// Write matchedDN (LDAPDN - OCTET STRING)
	if err := encoder.WriteOctetString([]byte(r.MatchedDN)); err != nil {
		return err
	}

	// Write diagnosticMessage (LDAPString - OCTET STRING)
	if err := encoder.WriteOctetString([]byte(r.DiagnosticMessage)); err != nil {
		return err
	}

	// Write referral [3] if present
	if len(r.Referral) > 0 {
		refPos := encoder.WriteContextTag(ContextTagReferral, true)
		for _, uri := range r.Referral {
			if err := encoder.WriteOctetString([]byte(uri)); err != nil {
				return err
			}
		}
		if err := encoder.EndContextTag(refPos); err != nil {
			return err
		}
	}

	return nil
}

// BindResponse represents an LDAP Bind response.
// Per RFC 4511 Section 4.2.2:
// BindResponse ::= [APPLICATION 1] SEQUENCE {
//
//	COMPONENTS OF LDAPResult,
//	serverSaslCreds    [7] OCTET STRING OPTIONAL
//
// }
type BindResponse struct {
	// LDAPResult contains the common result fields
	LDAPResult
	// ServerSASLCreds contains server SASL credentials (optional)
	ServerSASLCreds []byte
}

// Encode encodes the BindResponse to BER format.
func (r *BindResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(128)

	// Write APPLICATION 1 tag
	appPos := encoder.WriteApplicationTag(ApplicationBindResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	// Write serverSaslCreds [7] if present
	if len(r.ServerSASLCreds) > 0 {
		if err := encoder.WriteTaggedValue(ContextTagServerSASLCreds, false, r.ServerSASLCreds); err != nil {
			return nil, err
		}
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseBindResponse parses the contents of an APPLICATION 1 tag.
func ParseBindResponse(data []byte) (*BindResponse, error) {
	dec := ber.NewBERDecoder(data)
	end := len(data)

	result, err := decodeLDAPResult(dec, end)
	if err != nil {
		return nil, err
	}
	resp := &BindResponse{LDAPResult: result}

	if dec.Offset() < end && dec.IsContextTag(ContextTagServerSASLCreds) {
		_, _, creds, err := dec.ReadTaggedValue()
		if err != nil {
			return nil, err
		}
		resp.ServerSASLCreds = creds
	}

	return resp, nil
}

// PartialAttribute represents an attribute with its values.
// Per RFC 4511 Section 4.1.7:
// PartialAttribute ::= SEQUENCE {
//
//	type       AttributeDescription,
//	vals       SET OF value AttributeValue
//
// }
type PartialAttribute struct {
	// Type is the attribute description (name or OID)
	Type string
	// Values contains the attribute values
	Values [][]byte
}

// SearchResultEntry represents a search result entry.
// Per RFC 4511 Section 4.5.2:
// SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//
//	objectName      LDAPDN,
//	attributes      PartialAttributeList
//
// }
// PartialAttributeList ::= SEQUENCE OF partialAttribute PartialAttribute
type SearchResultEntry struct {
	// ObjectName is the DN of the entry
	ObjectName string
	// Attributes contains the entry's attributes
	Attributes []PartialAttribute
}

// Encode encodes the SearchResultEntry to BER format.
func (r *SearchResultEntry) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(256)

	// Write APPLICATION 4 tag
	appPos := encoder.WriteApplicationTag(ApplicationSearchResultEntry, true)

	// Write objectName (LDAPDN - OCTET STRING)
	if err := encoder.WriteOctetString([]byte(r.ObjectName)); err != nil {
		return nil, err
	}

	// Write attributes (SEQUENCE OF PartialAttribute)
	attrSeqPos := encoder.BeginSequence()
	for _, attr := range r.Attributes {
		if err := encodePartialAttribute(encoder, attr); err != nil {
			return nil, err
		}
	}
	if err := encoder.EndSequence(attrSeqPos); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseSearchResultEntry parses the contents of an APPLICATION 4 tag.
func ParseSearchResultEntry(data []byte) (*SearchResultEntry, error) {
	if len(data) == 0 {
		return nil, NewParseError(0, "empty search result entry data", nil)
	}

	decoder := ber.NewBERDecoder(data)
	entry := &SearchResultEntry{}

	objectNameBytes, err := decoder.ReadOctetString()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read objectName", err)
	}
	entry.ObjectName = string(objectNameBytes)

	attrListLen, err := decoder.ExpectSequence()
	if err != nil {
		return nil, NewParseError(decoder.Offset(), "failed to read attributes sequence", err)
	}
	attrListEnd := decoder.Offset() + attrListLen

	var attributes []PartialAttribute
	for decoder.Offset() < attrListEnd && decoder.Remaining() > 0 {
		attr, err := parsePartialAttributeEntry(decoder)
		if err != nil {
			return nil, err
		}
		attributes = append(attributes, attr)
	}
	entry.Attributes = attributes

	return entry, nil
}

// encodePartialAttribute encodes a single PartialAttribute SEQUENCE.
// Shared by SearchResultEntry and AddRequest, whose AttributeList is
// defined as PartialAttribute(WITH VALUES) — the same wire shape.
func encodePartialAttribute(encoder *ber.BEREncoder, attr PartialAttribute) error {
	partialAttrPos := encoder.BeginSequence()

	if err := encoder.WriteOctetString([]byte(attr.Type)); err != nil {
		return err
	}

	valsPos := encoder.BeginSet()
	for _, val := range attr.Values {
		if err := encoder.WriteOctetString(val); err != nil {
			return err
		}
	}
	if err := encoder.EndSet(valsPos); err != nil {
		return err
	}

	return encoder.EndSequence(partialAttrPos)
}

// parsePartialAttributeEntry parses a single PartialAttribute as found
// in a SearchResultEntry's attribute list.
func parsePartialAttributeEntry(decoder *ber.BERDecoder) (PartialAttribute, error) {
	attr := PartialAttribute{}

	attrDecoder, err := decoder.ReadSequenceContents()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read partial attribute sequence", err)
	}

	typeBytes, err := attrDecoder.ReadOctetString()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute type", err)
	}
	attr.Type = string(typeBytes)

	valSetLen, err := attrDecoder.ExpectSet()
	if err != nil {
		return attr, NewParseError(decoder.Offset(), "failed to read attribute values set", err)
	}
	valSetEnd := attrDecoder.Offset() + valSetLen

	var values [][]byte
	for attrDecoder.Offset() < valSetEnd && attrDecoder.Remaining() > 0 {
		valueBytes, err := attrDecoder.ReadOctetString()
		if err != nil {
			return attr, NewParseError(decoder.Offset(), "failed to read attribute value", err)
		}
		values = append(values, valueBytes)
	}
	attr.Values = values

	return attr, nil
}

// SearchResultDone represents the final response to a search operation.
// Per RFC 4511 Section 4.5.2:
// SearchResultDone ::= [APPLICATION 5] LDAPResult
type SearchResultDone struct {
	LDAPResult
}

// Encode encodes the SearchResultDone to BER format.
func (r *SearchResultDone) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 5 tag
	appPos := encoder.WriteApplicationTag(ApplicationSearchResultDone, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseSearchResultDone parses the contents of an APPLICATION 5 tag.
func ParseSearchResultDone(data []byte) (*SearchResultDone, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &SearchResultDone{LDAPResult: result}, nil
}

// parseBareLDAPResult parses an operation whose entire body is
// LDAPResult with no trailing fields (SearchResultDone, ModifyResponse,
// AddResponse, DeleteResponse, ModifyDNResponse, CompareResponse).
func parseBareLDAPResult(data []byte) (LDAPResult, error) {
	dec := ber.NewBERDecoder(data)
	return decodeLDAPResult(dec, len(data))
}

// ModifyResponse represents the response to a modify operation.
// Per RFC 4511 Section 4.6:
// ModifyResponse ::= [APPLICATION 7] LDAPResult
type ModifyResponse struct {
	LDAPResult
}

// Encode encodes the ModifyResponse to BER format.
func (r *ModifyResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 7 tag
	appPos := encoder.WriteApplicationTag(ApplicationModifyResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseModifyResponse parses the contents of an APPLICATION 7 tag.
func ParseModifyResponse(data []byte) (*ModifyResponse, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &ModifyResponse{LDAPResult: result}, nil
}

// AddResponse represents the response to an add operation.
// Per RFC 4511 Section 4.7:
// AddResponse ::= [APPLICATION 9] LDAPResult
type AddResponse struct {
	LDAPResult
}

// Encode encodes the AddResponse to BER format.
func (r *AddResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 9 tag
	appPos := encoder.WriteApplicationTag(ApplicationAddResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseAddResponse parses the contents of an APPLICATION 9 tag.
func ParseAddResponse(data []byte) (*AddResponse, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &AddResponse{LDAPResult: result}, nil
}

// DeleteResponse represents the response to a delete operation.
// Per RFC 4511 Section 4.8:
// DelResponse ::= [APPLICATION 11] LDAPResult
type DeleteResponse struct {
	LDAPResult
}

// Encode encodes the DeleteResponse to BER format.
func (r *DeleteResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 11 tag
	appPos := encoder.WriteApplicationTag(ApplicationDelResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseDeleteResponse parses the contents of an APPLICATION 11 tag.
func ParseDeleteResponse(data []byte) (*DeleteResponse, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &DeleteResponse{LDAPResult: result}, nil
}

// ModifyDNResponse represents the response to a modify DN operation.
// Per RFC 4511 Section 4.9:
// ModifyDNResponse ::= [APPLICATION 13] LDAPResult
type ModifyDNResponse struct {
	LDAPResult
}

// Encode encodes the ModifyDNResponse to BER format.
func (r *ModifyDNResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 13 tag
	appPos := encoder.WriteApplicationTag(ApplicationModifyDNResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseModifyDNResponse parses the contents of an APPLICATION 13 tag.
func ParseModifyDNResponse(data []byte) (*ModifyDNResponse, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &ModifyDNResponse{LDAPResult: result}, nil
}

// CompareResponse represents the response to a compare operation.
// Per RFC 4511 Section 4.10:
// CompareResponse ::= [APPLICATION 15] LDAPResult
type CompareResponse struct {
	LDAPResult
}

// Encode encodes the CompareResponse to BER format.
func (r *CompareResponse) Encode() ([]byte, error) {
	encoder := ber.NewBEREncoder(64)

	// Write APPLICATION 15 tag
	appPos := encoder.WriteApplicationTag(ApplicationCompareResponse, true)

	// Write LDAPResult components
	if err := r.LDAPResult.Encode(encoder); err != nil {
		return nil, err
	}

	if err := encoder.EndApplicationTag(appPos); err != nil {
		return nil, err
	}

	return encoder.Bytes(), nil
}

// ParseCompareResponse parses the contents of an APPLICATION 15 tag.
func ParseCompareResponse(data []byte) (*CompareResponse, error) {
	result, err := parseBareLDAPResult(data)
	if err != nil {
		return nil, err
	}
	return &CompareResponse{LDAPResult: result}, nil
}

// NewSuccessResult creates a new LDAPResult with success status.
func NewSuccessResult() LDAPResult {
	return LDAPResult{
		ResultCode:        ResultSuccess,
		MatchedDN:         "",
		DiagnosticMessage: "",
	}
}

// NewErrorResult creates a new LDAPResult with the specified error.
func NewErrorResult(code ResultCode, message string) LDAPResult {
	return LDAPResult{
		ResultCode:        code,
		MatchedDN:         "",
		DiagnosticMessage: message,
	}
}

// NewErrorResultWithDN creates a new LDAPResult with error and matched DN.
func NewErrorResultWithDN(code ResultCode, matchedDN, message string) LDAPResult {
	return LDAPResult{
		ResultCode:        code,
		MatchedDN:         matchedDN,
		DiagnosticMessage: message,
	}
}

// ApplyReferralPolicy enforces the invariant that a referral is only
// meaningful when ResultCode is REFERRAL: when allowNullReferral is
// false, a referral decoded alongside any other result code is
// discarded. It reports whether it discarded anything, so a caller
// can log a warning.
func (r *LDAPResult) ApplyReferralPolicy(allowNullReferral bool) bool {
	if allowNullReferral || r.ResultCode == ResultReferral || len(r.Referral) == 0 {
		return false
	}
	r.Referral = nil
	return true
}

// GetReferral returns the referral URIs surviving on this result, if
// any. Promoted the same way as ApplyReferralPolicy, so a caller can
// read a response's referral without a type switch over every
// response type embedding LDAPResult.
func (r *LDAPResult) GetReferral() []string {
	return r.Referral
}

// ReferralCarrier is implemented by every response type embedding
// LDAPResult (via promotion of ApplyReferralPolicy's pointer
// receiver), letting a caller enforce the referral invariant without
// a type switch over every response type.
type ReferralCarrier interface {
	ApplyReferralPolicy(allowNullReferral bool) bool
}

// decodeLDAPResult reads the common resultCode/matchedDN/diagnosticMessage/
// referral fields directly from dec, leaving it positioned after the
// optional [3] referral (or after diagnosticMessage if absent), ready
// for a caller's trailing response-specific fields.
func decodeLDAPResult(dec *ber.BERDecoder, end int) (LDAPResult, error) {
	var result LDAPResult

	code, err := dec.ReadEnumerated()
	if err != nil {
		return result, err
	}
	result.ResultCode = ResultCode(code)

	matchedDN, err := dec.ReadOctetString()
	if err != nil {
		return result, err
	}
	result.MatchedDN = string(matchedDN)

	diagnostic, err := dec.ReadOctetString()
	if err != nil {
		return result, err
	}
	result.DiagnosticMessage = string(diagnostic)

	if dec.Offset() < end && dec.IsContextTag(ContextTagReferral) {
		_, _, refData, err := dec.ReadTaggedValue()
		if err != nil {
			return result, err
		}
		refDec := ber.NewBERDecoder(refData)
		for refDec.Remaining() > 0 {
			uri, err := refDec.ReadOctetString()
			if err != nil {
				return result, err
			}
			result.Referral = append(result.Referral, string(uri))
		}
	}

	return result, nil
}
