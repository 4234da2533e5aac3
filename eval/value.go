package eval

import (
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a runtime value.
type Kind int

const (
	NilKind Kind = iota
	BoolKind
	NumberKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case NilKind:
		return "nil"
	case BoolKind:
		return "bool"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Value interface {
	fmt.Stringer
	Kind() Kind
}

type Nil struct{}

func (Nil) String() string {
	return "nil"
}

func (Nil) Kind() Kind {
	return NilKind
}

var _ Value = Nil{}

type Bool bool

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (Bool) Kind() Kind {
	return BoolKind
}

var _ Value = Bool(false)

type Number float64

// String prints n in shortest form, switching to exponent notation for very
// large or very small magnitudes.
func (n Number) String() string {
	f := float64(n)
	if a := math.Abs(f); a != 0 && (a >= 1e21 || a < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (Number) Kind() Kind {
	return NumberKind
}

var _ Value = Number(0)

type String string

func (s String) String() string {
	return fmt.Sprintf("%q", string(s))
}

func (String) Kind() Kind {
	return StringKind
}

var _ Value = String("")

// Truthy reports whether v counts as true: only nil and false are falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal compares kind and payload. Numbers use IEEE-754 equality, so NaN is
// not equal to itself.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Number:
		b, ok := b.(Number)
		return ok && float64(a) == float64(b)
	case String:
		b, ok := b.(String)
		return ok && a == b
	default:
		return false
	}
}
