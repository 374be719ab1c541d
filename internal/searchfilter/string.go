package searchfilter

import "strings"

// String renders f back into RFC 4515 filter-string form, escaping
// attribute values per section 3 (backslash, the three filter
// metacharacters, and any NUL byte become \xx hex pairs).
func (f *Filter) String() string {
	var b strings.Builder
	f.writeTo(&b)
	return b.String()
}

func (f *Filter) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	switch f.Type {
	case FilterAnd:
		b.WriteByte('&')
		for _, c := range f.Children {
			c.writeTo(b)
		}
	case FilterOr:
		b.WriteByte('|')
		for _, c := range f.Children {
			c.writeTo(b)
		}
	case FilterNot:
		b.WriteByte('!')
		if f.Child != nil {
			f.Child.writeTo(b)
		}
	case FilterEquality:
		b.WriteString(f.Attribute)
		b.WriteByte('=')
		b.WriteString(escapeFilterValue(f.Value))
	case FilterGreaterOrEqual:
		b.WriteString(f.Attribute)
		b.WriteString(">=")
		b.WriteString(escapeFilterValue(f.Value))
	case FilterLessOrEqual:
		b.WriteString(f.Attribute)
		b.WriteString("<=")
		b.WriteString(escapeFilterValue(f.Value))
	case FilterApproxMatch:
		b.WriteString(f.Attribute)
		b.WriteString("~=")
		b.WriteString(escapeFilterValue(f.Value))
	case FilterPresent:
		b.WriteString(f.Attribute)
		b.WriteString("=*")
	case FilterSubstring:
		b.WriteString(f.Attribute)
		b.WriteByte('=')
		if f.Substring != nil {
			if len(f.Substring.Initial) > 0 {
				b.WriteString(escapeFilterValue(f.Substring.Initial))
			}
			b.WriteByte('*')
			for _, any := range f.Substring.Any {
				b.WriteString(escapeFilterValue(any))
				b.WriteByte('*')
			}
			if len(f.Substring.Final) > 0 {
				b.WriteString(escapeFilterValue(f.Substring.Final))
			}
		}
	case FilterExtensibleMatch:
		em := f.Extensible
		if em != nil {
			if f.Attribute != "" {
				b.WriteString(f.Attribute)
			} else if em.Type != "" {
				b.WriteString(em.Type)
			}
			if em.DNAttributes {
				b.WriteString(":dn")
			}
			if em.MatchingRule != "" {
				b.WriteByte(':')
				b.WriteString(em.MatchingRule)
			}
			b.WriteString(":=")
			b.WriteString(escapeFilterValue(em.MatchValue))
		}
	}
	b.WriteByte(')')
}

// escapeFilterValue escapes the bytes RFC 4515 section 3 requires
// (the three filter metacharacters, backslash, and NUL) as \xx hex
// pairs, leaving every other byte untouched.
func escapeFilterValue(v []byte) string {
	var b strings.Builder
	const hex = "0123456789abcdef"
	for _, c := range v {
		switch c {
		case '*', '(', ')', '\\', 0x00:
			b.WriteByte('\\')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
