// Package searchfilter implements the recursive SearchRequest filter
// tree: its wire encoding, its length pre-pass, and (as a convenience
// beyond the wire codec) an RFC 4515 string round-trip.
package searchfilter

// FilterType identifies a filter node's shape. Its value is also the
// filter's context-specific wire tag, per RFC 4511 section 4.5.1.7 —
// keeping them numerically identical means encode/decode never need a
// separate lookup table to go from one to the other.
//
//go:generate stringer -type=FilterType
type FilterType int

const (
	FilterAnd             FilterType = 0 // [0] SET OF filter
	FilterOr              FilterType = 1 // [1] SET OF filter
	FilterNot             FilterType = 2 // [2] Filter
	FilterEquality        FilterType = 3 // [3] AttributeValueAssertion
	FilterSubstring       FilterType = 4 // [4] SubstringFilter
	FilterGreaterOrEqual  FilterType = 5 // [5] AttributeValueAssertion
	FilterLessOrEqual     FilterType = 6 // [6] AttributeValueAssertion
	FilterPresent         FilterType = 7 // [7] AttributeDescription (primitive)
	FilterApproxMatch     FilterType = 8 // [8] AttributeValueAssertion
	FilterExtensibleMatch FilterType = 9 // [9] MatchingRuleAssertion
)

// String returns an upper-case name for ft (e.g. "AND", "EQUALITY")
// used for diagnostics.
func (ft FilterType) String() string {
	switch ft {
	case FilterAnd:
		return "AND"
	case FilterOr:
		return "OR"
	case FilterNot:
		return "NOT"
	case FilterEquality:
		return "EQUALITY"
	case FilterSubstring:
		return "SUBSTRING"
	case FilterGreaterOrEqual:
		return "GREATER_OR_EQUAL"
	case FilterLessOrEqual:
		return "LESS_OR_EQUAL"
	case FilterPresent:
		return "PRESENT"
	case FilterApproxMatch:
		return "APPROX_MATCH"
	case FilterExtensibleMatch:
		return "EXTENSIBLE_MATCH"
	default:
		return "UNKNOWN"
	}
}

// Substrings holds the decomposed components of a substring filter.
// RFC 4511 forbids a substring filter with none of the three present;
// Decode rejects that shape.
type Substrings struct {
	Initial []byte
	Any     [][]byte
	Final   []byte
}

// ExtensibleMatch holds the decomposed components of an extensible
// match filter (RFC 4511 section 4.5.1.7.6).
type ExtensibleMatch struct {
	MatchingRule string // [1] OPTIONAL
	Type         string // [2] OPTIONAL
	MatchValue   []byte // [3]
	DNAttributes bool   // [4] DEFAULT FALSE
}

// Filter is a node in a SearchRequest's recursive filter tree.
// Exactly one of the payload fields below is populated, chosen by Type:
// Children for And/Or, Child for Not, Attribute+Value for the four
// comparison leaves, Attribute (alone) for Present, Substring for
// Substring, and Extensible for ExtensibleMatch.
type Filter struct {
	Type FilterType

	Attribute string
	Value     []byte

	Children []*Filter // And, Or
	Child    *Filter   // Not

	Substring  *Substrings
	Extensible *ExtensibleMatch
}

// And builds an And connector over the given children.
func And(children ...*Filter) *Filter { return &Filter{Type: FilterAnd, Children: children} }

// Or builds an Or connector over the given children.
func Or(children ...*Filter) *Filter { return &Filter{Type: FilterOr, Children: children} }

// Not builds a Not connector over child.
func Not(child *Filter) *Filter { return &Filter{Type: FilterNot, Child: child} }

// Equality builds an equality leaf.
func Equality(attribute string, value []byte) *Filter {
	return &Filter{Type: FilterEquality, Attribute: attribute, Value: value}
}

// GreaterOrEqual builds a greaterOrEqual leaf.
func GreaterOrEqual(attribute string, value []byte) *Filter {
	return &Filter{Type: FilterGreaterOrEqual, Attribute: attribute, Value: value}
}

// LessOrEqual builds a lessOrEqual leaf.
func LessOrEqual(attribute string, value []byte) *Filter {
	return &Filter{Type: FilterLessOrEqual, Attribute: attribute, Value: value}
}

// ApproxMatch builds an approxMatch leaf.
func ApproxMatch(attribute string, value []byte) *Filter {
	return &Filter{Type: FilterApproxMatch, Attribute: attribute, Value: value}
}

// Present builds a present leaf.
func Present(attribute string) *Filter {
	return &Filter{Type: FilterPresent, Attribute: attribute}
}

// Substring builds a substring leaf.
func Substring(attribute string, s *Substrings) *Filter {
	return &Filter{Type: FilterSubstring, Attribute: attribute, Substring: s}
}

// Extensible builds an extensibleMatch leaf.
func Extensible(m *ExtensibleMatch) *Filter {
	return &Filter{Type: FilterExtensibleMatch, Extensible: m}
}
