package searchfilter

import (
	"errors"

	"github.com/oba-ldap/ldapwire/internal/ber"
)

// Errors returned while encoding or decoding a filter tree.
var (
	ErrUnknownFilterType  = errors.New("searchfilter: unknown filter type")
	ErrEmptySubstring     = errors.New("searchfilter: substring filter has no initial, any, or final component")
	ErrMalformedFilter    = errors.New("searchfilter: malformed filter")
	ErrUnsupportedShape   = errors.New("searchfilter: filter node is missing required payload for its type")
)

// Substring component tags, exported so callers building raw test
// fixtures can reference the same numbers Encode/Decode use.
const (
	SubstringTagInitial = 0
	SubstringTagAny     = 1
	SubstringTagFinal   = 2
)

// Extensible match component tags.
const (
	extensibleTagMatchingRule = 1
	extensibleTagType         = 2
	extensibleTagMatchValue   = 3
	extensibleTagDNAttributes = 4
)

// Encode writes f's wire form using the reverse-strategy encoder: each
// connector or leaf opens its context tag, writes its children or
// value, then closes it, so its length is known without a separate
// pass.
func Encode(enc *ber.BEREncoder, f *Filter) error {
	switch f.Type {
	case FilterAnd, FilterOr:
		pos := enc.WriteContextTag(int(f.Type), true)
		for _, child := range f.Children {
			if err := Encode(enc, child); err != nil {
				return err
			}
		}
		return enc.EndContextTag(pos)

	case FilterNot:
		if f.Child == nil {
			return ErrUnsupportedShape
		}
		pos := enc.WriteContextTag(int(f.Type), true)
		if err := Encode(enc, f.Child); err != nil {
			return err
		}
		return enc.EndContextTag(pos)

	case FilterEquality, FilterGreaterOrEqual, FilterLessOrEqual, FilterApproxMatch:
		pos := enc.WriteContextTag(int(f.Type), true)
		if err := enc.WriteOctetString([]byte(f.Attribute)); err != nil {
			return err
		}
		if err := enc.WriteOctetString(f.Value); err != nil {
			return err
		}
		return enc.EndContextTag(pos)

	case FilterPresent:
		return enc.WriteTaggedValue(int(f.Type), false, []byte(f.Attribute))

	case FilterSubstring:
		if f.Substring == nil || (len(f.Substring.Initial) == 0 && len(f.Substring.Any) == 0 && len(f.Substring.Final) == 0) {
			return ErrEmptySubstring
		}
		pos := enc.WriteContextTag(int(f.Type), true)
		if err := enc.WriteOctetString([]byte(f.Attribute)); err != nil {
			return err
		}
		seqPos := enc.BeginSequence()
		if len(f.Substring.Initial) > 0 {
			if err := enc.WriteTaggedValue(SubstringTagInitial, false, f.Substring.Initial); err != nil {
				return err
			}
		}
		for _, any := range f.Substring.Any {
			if err := enc.WriteTaggedValue(SubstringTagAny, false, any); err != nil {
				return err
			}
		}
		if len(f.Substring.Final) > 0 {
			if err := enc.WriteTaggedValue(SubstringTagFinal, false, f.Substring.Final); err != nil {
				return err
			}
		}
		if err := enc.EndSequence(seqPos); err != nil {
			return err
		}
		return enc.EndContextTag(pos)

	case FilterExtensibleMatch:
		if f.Extensible == nil {
			return ErrUnsupportedShape
		}
		em := f.Extensible
		pos := enc.WriteContextTag(int(f.Type), true)
		if em.MatchingRule != "" {
			if err := enc.WriteTaggedValue(extensibleTagMatchingRule, false, []byte(em.MatchingRule)); err != nil {
				return err
			}
		}
		if em.Type != "" {
			if err := enc.WriteTaggedValue(extensibleTagType, false, []byte(em.Type)); err != nil {
				return err
			}
		}
		if err := enc.WriteTaggedValue(extensibleTagMatchValue, false, em.MatchValue); err != nil {
			return err
		}
		if em.DNAttributes {
			if err := enc.WriteTaggedValue(extensibleTagDNAttributes, false, []byte{0xFF}); err != nil {
				return err
			}
		}
		return enc.EndContextTag(pos)

	default:
		return ErrUnknownFilterType
	}
}

// LengthOf computes the length of f's encoded contents (excluding f's
// own tag and length octets) without encoding it, recursively summing
// each child's header-plus-content contribution. Encode must
// agree with this function byte-for-byte; both ultimately route through
// ber.NBytes for the header sizing.
func LengthOf(f *Filter) (int, error) {
	switch f.Type {
	case FilterAnd, FilterOr:
		total := 0
		for _, child := range f.Children {
			cl, err := LengthOf(child)
			if err != nil {
				return 0, err
			}
			total += 1 + ber.NBytes(cl) + cl
		}
		return total, nil

	case FilterNot:
		if f.Child == nil {
			return 0, ErrUnsupportedShape
		}
		cl, err := LengthOf(f.Child)
		if err != nil {
			return 0, err
		}
		return 1 + ber.NBytes(cl) + cl, nil

	case FilterEquality, FilterGreaterOrEqual, FilterLessOrEqual, FilterApproxMatch:
		attrLen := 1 + ber.NBytes(len(f.Attribute)) + len(f.Attribute)
		valLen := 1 + ber.NBytes(len(f.Value)) + len(f.Value)
		return attrLen + valLen, nil

	case FilterPresent:
		return len(f.Attribute), nil

	case FilterSubstring:
		if f.Substring == nil || (len(f.Substring.Initial) == 0 && len(f.Substring.Any) == 0 && len(f.Substring.Final) == 0) {
			return 0, ErrEmptySubstring
		}
		attrLen := 1 + ber.NBytes(len(f.Attribute)) + len(f.Attribute)
		sub := 0
		if len(f.Substring.Initial) > 0 {
			sub += 1 + ber.NBytes(len(f.Substring.Initial)) + len(f.Substring.Initial)
		}
		for _, any := range f.Substring.Any {
			sub += 1 + ber.NBytes(len(any)) + len(any)
		}
		if len(f.Substring.Final) > 0 {
			sub += 1 + ber.NBytes(len(f.Substring.Final)) + len(f.Substring.Final)
		}
		return attrLen + (1 + ber.NBytes(sub) + sub), nil

	case FilterExtensibleMatch:
		if f.Extensible == nil {
			return 0, ErrUnsupportedShape
		}
		em := f.Extensible
		total := 0
		if em.MatchingRule != "" {
			total += 1 + ber.NBytes(len(em.MatchingRule)) + len(em.MatchingRule)
		}
		if em.Type != "" {
			total += 1 + ber.NBytes(len(em.Type)) + len(em.Type)
		}
		total += 1 + ber.NBytes(len(em.MatchValue)) + len(em.MatchValue)
		if em.DNAttributes {
			total += 1 + ber.NBytes(1) + 1
		}
		return total, nil

	default:
		return 0, ErrUnknownFilterType
	}
}

// Decode parses one filter tree from dec, which must be positioned at
// the filter's context tag. Connectors recurse directly on a
// sub-decoder scoped to their declared length; Go's call stack plays
// the role of the node-vector-with-parent-indices the filter-stack
// design note describes, since each stack frame IS one filter node
// awaiting its children, without a separate heap-allocated vector.
func Decode(dec *ber.BERDecoder) (*Filter, error) {
	tagNum, constructed, data, err := dec.ReadTaggedValue()
	if err != nil {
		return nil, err
	}

	f := &Filter{Type: FilterType(tagNum)}

	switch FilterType(tagNum) {
	case FilterAnd, FilterOr:
		if !constructed {
			return nil, ErrMalformedFilter
		}
		sub := ber.NewBERDecoder(data)
		var children []*Filter
		for sub.Remaining() > 0 {
			child, err := Decode(sub)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		f.Children = children

	case FilterNot:
		if !constructed {
			return nil, ErrMalformedFilter
		}
		sub := ber.NewBERDecoder(data)
		child, err := Decode(sub)
		if err != nil {
			return nil, err
		}
		f.Child = child

	case FilterEquality, FilterGreaterOrEqual, FilterLessOrEqual, FilterApproxMatch:
		if !constructed {
			return nil, ErrMalformedFilter
		}
		sub := ber.NewBERDecoder(data)
		attr, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		val, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		f.Attribute = string(attr)
		f.Value = val

	case FilterPresent:
		if constructed {
			return nil, ErrMalformedFilter
		}
		f.Attribute = string(data)

	case FilterSubstring:
		if !constructed {
			return nil, ErrMalformedFilter
		}
		sub := ber.NewBERDecoder(data)
		attr, err := sub.ReadOctetString()
		if err != nil {
			return nil, err
		}
		f.Attribute = string(attr)

		seqLen, err := sub.ExpectSequence()
		if err != nil {
			return nil, err
		}
		seqEnd := sub.Offset() + seqLen
		s := &Substrings{}
		for sub.Offset() < seqEnd {
			compTag, _, compVal, err := sub.ReadTaggedValue()
			if err != nil {
				return nil, err
			}
			switch compTag {
			case SubstringTagInitial:
				s.Initial = compVal
			case SubstringTagAny:
				s.Any = append(s.Any, compVal)
			case SubstringTagFinal:
				s.Final = compVal
			default:
				return nil, ErrMalformedFilter
			}
		}
		if len(s.Initial) == 0 && len(s.Any) == 0 && len(s.Final) == 0 {
			return nil, ErrEmptySubstring
		}
		f.Substring = s

	case FilterExtensibleMatch:
		if !constructed {
			return nil, ErrMalformedFilter
		}
		sub := ber.NewBERDecoder(data)
		em := &ExtensibleMatch{}
		for sub.Remaining() > 0 {
			compTag, _, compVal, err := sub.ReadTaggedValue()
			if err != nil {
				return nil, err
			}
			switch compTag {
			case extensibleTagMatchingRule:
				em.MatchingRule = string(compVal)
			case extensibleTagType:
				em.Type = string(compVal)
			case extensibleTagMatchValue:
				em.MatchValue = compVal
			case extensibleTagDNAttributes:
				em.DNAttributes = len(compVal) > 0 && compVal[0] != 0x00
			default:
				return nil, ErrMalformedFilter
			}
		}
		f.Extensible = em

	default:
		return nil, ErrUnknownFilterType
	}

	return f, nil
}
