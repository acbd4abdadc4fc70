package value

import (
	"errors"
	"math"
	"strconv"
)

// The mox value interface, every value stored in any variable
// must be of this type (implement this interface).
type Value interface {
	String() string
	MoxValueMarkerFunc()
}

// Returned by the operators below on an operand type mismatch.
// The interpreter attaches the operator token to build the runtime error.
var (
	ErrOperandNumber    = errors.New("Operand must be a number.")
	ErrOperandsNumbers  = errors.New("Operands must be numbers.")
	ErrOperandsAddition = errors.New("Operands must be two numbers or two strings.")
)

// Primitive value types, that are: Nil, Boolean, Number and String are
// defined in terms of go primitive types and are stored by value.
// For objects see mox/object, they are stored as pointers.

type Nil struct{}
type Boolean bool
type Number float64
type String string

// Implement the value.Value interface for primitive types.
// --------------------------------------------------------
func (Nil) MoxValueMarkerFunc()     {}
func (Boolean) MoxValueMarkerFunc() {}
func (Number) MoxValueMarkerFunc()  {}
func (String) MoxValueMarkerFunc()  {}

func (n Nil) String() string {
	return "nil"
}

func (b Boolean) String() string {
	if b {
		return "true"
	} else {
		return "false"
	}
}

func (n Number) String() string {
	f := float64(n)

	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}

	// Shortest representation, integral values print without a '.0'.
	// Very large and very small magnitudes switch to an exponent.
	if abs := math.Abs(f); abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s String) String() string {
	return string(s)
}

// --------------------------------------------------------

// Logical operations for value.
// --------------------------------------------------------
func Truthiness(s Value) Boolean {
	switch v := s.(type) {
	case nil, Nil:
		return false
	case Boolean:
		return v

	default:
		return true
	}
}

func EqualTo(s, t Value) Boolean {
	// Two *Values* are equal only if their types and stored values are equal.
	// Primitive types are stored by value so this compares contents, object
	// types are stored as pointers so they are equal only if they are the
	// same object. Number comparison follows IEEE rules (NaN != NaN).
	return s == t
}

func LessThan(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return Boolean(u < v), nil
}

func LessEqual(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return Boolean(u <= v), nil
}

func GreaterThan(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return Boolean(u > v), nil
}

func GreaterEqual(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return Boolean(u >= v), nil
}

// Mathematical operations for value.
// --------------------------------------------------------
func Neg(s Value) (Value, error) {
	switch u := s.(type) {
	case Number:
		return -u, nil
	}

	return nil, ErrOperandNumber
}

func Add(s, t Value) (Value, error) {
	switch u := s.(type) {
	case Number:
		switch v := t.(type) {
		case Number:
			return u + v, nil
		}

	case String:
		switch v := t.(type) {
		case String:
			return u + v, nil
		}
	}

	return nil, ErrOperandsAddition
}

func Sub(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return u - v, nil
}

func Mul(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return u * v, nil
}

func Div(s, t Value) (Value, error) {
	u, v, err := numbers(s, t)
	if err != nil {
		return nil, err
	}
	return u / v, nil
}

func numbers(s, t Value) (Number, Number, error) {
	u, e := s.(Number)
	v, f := t.(Number)

	if e && f {
		return u, v, nil
	}

	return 0, 0, ErrOperandsNumbers
}
