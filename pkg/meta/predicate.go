package meta

// Predicate is a tagged filter condition on a metadata column, used by
// meta-aware filtering. The variants make the original implicit conventions
// explicit: Equals and OneOf test values, IsSet matches any non-missing
// cell, IsUnset matches only missing cells.
type Predicate struct {
	kind    predicateKind
	value   Scalar
	options []Scalar
}

type predicateKind int

const (
	predicateEquals predicateKind = iota
	predicateOneOf
	predicateIsSet
	predicateIsUnset
)

// Equals matches cells equal to v.
func Equals(v any) Predicate {
	s, err := FromAny(v)
	if err != nil {
		// An uncoercible value can never match a scalar cell.
		return Predicate{kind: predicateOneOf}
	}
	return Predicate{kind: predicateEquals, value: s}
}

// OneOf matches cells equal to any of the given values.
func OneOf(vs ...any) Predicate {
	options := make([]Scalar, 0, len(vs))
	for _, v := range vs {
		if s, err := FromAny(v); err == nil {
			options = append(options, s)
		}
	}
	return Predicate{kind: predicateOneOf, options: options}
}

// IsSet matches any non-missing cell.
func IsSet() Predicate { return Predicate{kind: predicateIsSet} }

// IsUnset matches only missing cells.
func IsUnset() Predicate { return Predicate{kind: predicateIsUnset} }

// Match reports whether the predicate holds for the given cell.
func (p Predicate) Match(s Scalar) bool {
	switch p.kind {
	case predicateEquals:
		return s.Equal(p.value)
	case predicateOneOf:
		for _, o := range p.options {
			if s.Equal(o) {
				return true
			}
		}
		return false
	case predicateIsSet:
		return !s.IsMissing()
	case predicateIsUnset:
		return s.IsMissing()
	default:
		return false
	}
}
