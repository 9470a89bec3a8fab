package meta

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

// Kind enumerates the scalar types a metadata cell can hold.
type Kind int

const (
	KindMissing Kind = iota
	KindBool
	KindNumber
	KindString
)

// Scalar is one metadata cell: a bool, a number, a string, or missing.
// Columns are homogeneous in kind across rows except for the missing
// sentinel.
type Scalar struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

// Missing returns the absent-value sentinel.
func Missing() Scalar { return Scalar{} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

// Number returns a numeric scalar.
func Number(n float64) Scalar { return Scalar{kind: KindNumber, n: n} }

// String returns a string scalar.
func String(s string) Scalar { return Scalar{kind: KindString, s: s} }

// FromAny coerces a raw value into a Scalar. Integers and floats collapse to
// KindNumber; nil maps to the missing sentinel.
func FromAny(v any) (Scalar, error) {
	switch t := v.(type) {
	case nil:
		return Missing(), nil
	case Scalar:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		n, err := cast.ToFloat64E(t)
		if err != nil {
			return Missing(), fmt.Errorf("%w: cannot coerce %v to a number", apperrors.ErrInvalidArgument, v)
		}
		return Number(n), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return Missing(), fmt.Errorf("%w: unsupported metadata value of type %T", apperrors.ErrInvalidArgument, v)
		}
		return String(s), nil
	}
}

// Kind returns the scalar's kind.
func (s Scalar) Kind() Kind { return s.kind }

// IsMissing reports whether the cell holds no value.
func (s Scalar) IsMissing() bool { return s.kind == KindMissing }

// AsBool returns the boolean payload; false unless KindBool.
func (s Scalar) AsBool() bool { return s.kind == KindBool && s.b }

// AsNumber returns the numeric payload; zero unless KindNumber.
func (s Scalar) AsNumber() float64 {
	if s.kind != KindNumber {
		return 0
	}
	return s.n
}

// AsString returns the string payload; empty unless KindString.
func (s Scalar) AsString() string {
	if s.kind != KindString {
		return ""
	}
	return s.s
}

// Interface returns the payload as an untyped value, nil when missing.
func (s Scalar) Interface() any {
	switch s.kind {
	case KindBool:
		return s.b
	case KindNumber:
		return s.n
	case KindString:
		return s.s
	default:
		return nil
	}
}

// Equal reports whether two scalars hold the same kind and payload.
// Two missing cells compare equal.
func (s Scalar) Equal(other Scalar) bool {
	if s.kind != other.kind {
		return false
	}
	switch s.kind {
	case KindBool:
		return s.b == other.b
	case KindNumber:
		return s.n == other.n
	case KindString:
		return s.s == other.s
	default:
		return true
	}
}

func (s Scalar) String() string {
	switch s.kind {
	case KindBool:
		return strconv.FormatBool(s.b)
	case KindNumber:
		return strconv.FormatFloat(s.n, 'g', -1, 64)
	case KindString:
		return s.s
	default:
		return "<missing>"
	}
}
