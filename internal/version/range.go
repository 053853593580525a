package version

import (
	"fmt"
	"strings"
)

// Range is an interval over versions. A nil bound is unbounded on that side.
// An exact version is represented as the point range [v,v].
type Range struct {
	min          *Version
	max          *Version
	minInclusive bool
	maxInclusive bool
}

// Exact returns the point range containing only v.
func Exact(v Version) Range {
	return Range{min: &v, max: &v, minInclusive: true, maxInclusive: true}
}

// NewRange builds an interval and rejects empty ones.
func NewRange(lower, upper *Version, minInclusive, maxInclusive bool) (Range, error) {
	if lower == nil && upper == nil {
		return Range{}, fmt.Errorf("%w: range has no bounds", ErrInvalid)
	}
	if lower == nil {
		minInclusive = false
	}
	if upper == nil {
		maxInclusive = false
	}
	if lower != nil && upper != nil {
		c := lower.Compare(*upper)
		if c > 0 || (c == 0 && !(minInclusive && maxInclusive)) {
			return Range{}, fmt.Errorf("%w: empty range", ErrInvalid)
		}
	}
	return Range{min: lower, max: upper, minInclusive: minInclusive, maxInclusive: maxInclusive}, nil
}

// ParseRange parses an exact version ("5") or a bracketed interval
// ("[1.0,2.0]", "(1.0,)", "[1.5]").
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("%w: empty range", ErrInvalid)
	}

	lead, trail := s[0], s[len(s)-1]
	if lead != '[' && lead != '(' {
		v, err := Parse(s)
		if err != nil {
			return Range{}, err
		}
		return Exact(v), nil
	}
	if len(s) < 2 || (trail != ']' && trail != ')') {
		return Range{}, fmt.Errorf("%w: unterminated range %q", ErrInvalid, s)
	}

	inner := s[1 : len(s)-1]
	parts := strings.Split(inner, ",")
	switch len(parts) {
	case 1:
		if lead != '[' || trail != ']' {
			return Range{}, fmt.Errorf("%w: exact range %q must use square brackets", ErrInvalid, s)
		}
		v, err := Parse(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Exact(v), nil
	case 2:
	default:
		return Range{}, fmt.Errorf("%w: too many bounds in %q", ErrInvalid, s)
	}

	lower, err := parseBound(parts[0])
	if err != nil {
		return Range{}, err
	}
	upper, err := parseBound(parts[1])
	if err != nil {
		return Range{}, err
	}

	return NewRange(lower, upper, lead == '[', trail == ']')
}

// MustParseRange is like ParseRange but panics on error.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseBound(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Min returns the lower bound, or nil when unbounded.
func (r Range) Min() *Version { return r.min }

// Max returns the upper bound, or nil when unbounded.
func (r Range) Max() *Version { return r.max }

// IsExact reports whether the range contains exactly one version.
func (r Range) IsExact() bool {
	return r.min != nil && r.max != nil && r.minInclusive && r.maxInclusive && r.min.Equal(*r.max)
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v Version) bool {
	if r.min != nil {
		c := v.Compare(*r.min)
		if c < 0 || (c == 0 && !r.minInclusive) {
			return false
		}
	}
	if r.max != nil {
		c := v.Compare(*r.max)
		if c > 0 || (c == 0 && !r.maxInclusive) {
			return false
		}
	}
	return true
}

// Overlaps reports whether some version is contained in both r and o.
func (r Range) Overlaps(o Range) bool {
	return !below(r, o) && !below(o, r)
}

// below reports whether every version of a sorts before every version of b.
func below(a, b Range) bool {
	if a.max == nil || b.min == nil {
		return false
	}
	c := a.max.Compare(*b.min)
	return c < 0 || (c == 0 && !(a.maxInclusive && b.minInclusive))
}

// Equal reports whether r and o have identical bounds.
func (r Range) Equal(o Range) bool {
	return boundEqual(r.min, o.min) && boundEqual(r.max, o.max) &&
		r.minInclusive == o.minInclusive && r.maxInclusive == o.maxInclusive
}

func boundEqual(a, b *Version) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Compare orders ranges by lower bound, then by upper bound. An unbounded
// lower side sorts first and an unbounded upper side sorts last.
func (r Range) Compare(o Range) int {
	if c := compareLower(r, o); c != 0 {
		return c
	}
	return compareUpper(r, o)
}

func compareLower(a, b Range) int {
	switch {
	case a.min == nil && b.min == nil:
		return 0
	case a.min == nil:
		return -1
	case b.min == nil:
		return 1
	}
	if c := a.min.Compare(*b.min); c != 0 {
		return c
	}
	switch {
	case a.minInclusive == b.minInclusive:
		return 0
	case a.minInclusive:
		return -1
	default:
		return 1
	}
}

func compareUpper(a, b Range) int {
	switch {
	case a.max == nil && b.max == nil:
		return 0
	case a.max == nil:
		return 1
	case b.max == nil:
		return -1
	}
	if c := a.max.Compare(*b.max); c != 0 {
		return c
	}
	switch {
	case a.maxInclusive == b.maxInclusive:
		return 0
	case a.maxInclusive:
		return 1
	default:
		return -1
	}
}

// String renders exact ranges as the bare version and intervals in bracket
// notation.
func (r Range) String() string {
	if r.IsExact() {
		return r.min.String()
	}

	var b strings.Builder
	if r.minInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	if r.min != nil {
		b.WriteString(r.min.String())
	}
	b.WriteByte(',')
	if r.max != nil {
		b.WriteString(r.max.String())
	}
	if r.maxInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// EqualPtr compares optional ranges; two nil ranges are equal.
func EqualPtr(a, b *Range) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// FormatPtr renders an optional range, using "none" for nil.
func FormatPtr(r *Range) string {
	if r == nil {
		return "none"
	}
	return r.String()
}
