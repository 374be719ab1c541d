package codec

import (
	"errors"

	"github.com/oba-ldap/ldapwire/internal/ber"
	"github.com/oba-ldap/ldapwire/internal/codecerr"
	"github.com/oba-ldap/ldapwire/internal/ldapmsg"
)

// ErrUnsupportedOperation is returned by Encode when Message.Operation
// is not one of the concrete types this codec knows how to encode.
var ErrUnsupportedOperation = errors.New("codec: unsupported operation type")

// Encode produces a complete PDU for msg. Errors are always
// *codecerr.Error: Kind InvalidMessage for a malformed Message (e.g. a
// missing ExtendedRequest requestName), Kind EncodeBufferOverflow if
// the operation's own encoder ran past its buffer.
func Encode(msg Message) ([]byte, error) {
	tag, data, err := encodeOperation(msg.Operation)
	if err != nil {
		return nil, classifyEncodeError(err)
	}

	env := &ldapmsg.LDAPMessage{
		MessageID: msg.MessageID,
		Operation: &ldapmsg.RawOperation{Tag: tag, Data: data},
		Controls:  msg.Controls,
	}

	out, err := env.Encode()
	if err != nil {
		return nil, classifyEncodeError(err)
	}
	return out, nil
}

func classifyEncodeError(err error) error {
	if errors.Is(err, ber.ErrBufferOverflow) || errors.Is(err, ber.ErrLengthOverflow) {
		return codecerr.New(codecerr.EncodeBufferOverflow, err)
	}
	return codecerr.New(codecerr.InvalidMessage, err)
}

// encodeOperation renders op's APPLICATION tag number and its inner
// bytes (without the tag/length), dispatching to whichever Encode
// method op's concrete type implements.
func encodeOperation(op any) (tag int, data []byte, err error) {
	switch v := op.(type) {
	case *ldapmsg.BindRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationBindRequest, data, err
	case *ldapmsg.BindResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.UnbindRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationUnbindRequest, data, err
	case *ldapmsg.SearchRequest:
		enc := ber.NewBEREncoder(256)
		if err := v.Encode(enc); err != nil {
			return 0, nil, err
		}
		return ldapmsg.ApplicationSearchRequest, enc.Bytes(), nil
	case *ldapmsg.SearchResultEntry:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.SearchResultDone:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.SearchResultReference:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.ModifyRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationModifyRequest, data, err
	case *ldapmsg.ModifyResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.AddRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationAddRequest, data, err
	case *ldapmsg.AddResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.DeleteRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationDelRequest, data, err
	case *ldapmsg.DeleteResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.ModifyDNRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationModifyDNRequest, data, err
	case *ldapmsg.ModifyDNResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.CompareRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationCompareRequest, data, err
	case *ldapmsg.CompareResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.AbandonRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationAbandonRequest, data, err
	case *ldapmsg.ExtendedRequest:
		data, err = v.Encode()
		return ldapmsg.ApplicationExtendedRequest, data, err
	case *ldapmsg.ExtendedResponse:
		return unwrapApplicationTag(v.Encode())
	case *ldapmsg.IntermediateResponse:
		data, err = v.Encode()
		return ldapmsg.ApplicationIntermediateResponse, data, err
	default:
		return 0, nil, ErrUnsupportedOperation
	}
}

// unwrapApplicationTag strips the APPLICATION tag+length a response
// type's own Encode method already wrote, since LDAPMessage.Encode
// adds its own wrapper around RawOperation.Data. Response types were
// grounded on the teacher's self-contained encoder shape (each
// Encode() returns a fully tagged PDU fragment); re-decoding that tag
// here keeps Message's type switch uniform without having to change
// every response type's signature.
func unwrapApplicationTag(data []byte, encErr error) (int, []byte, error) {
	if encErr != nil {
		return 0, nil, encErr
	}
	dec := ber.NewBERDecoder(data)
	class, _, tagNum, err := dec.ReadTag()
	if err != nil {
		return 0, nil, err
	}
	if class != ber.ClassApplication {
		return 0, nil, ErrUnsupportedOperation
	}
	length, err := dec.ReadLength()
	if err != nil {
		return 0, nil, err
	}
	body, err := sliceExact(data, dec.Offset(), length)
	if err != nil {
		return 0, nil, err
	}
	return tagNum, body, nil
}

var errTruncatedOperation = errors.New("codec: operation encoding shorter than its declared length")

func sliceExact(data []byte, offset, length int) ([]byte, error) {
	if offset+length > len(data) {
		return nil, errTruncatedOperation
	}
	return data[offset : offset+length], nil
}
