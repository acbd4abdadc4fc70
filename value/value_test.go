package value

import (
	"errors"
	"math"
	"testing"
)

func TestNumberString(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{3, "3"},
		{2.5, "2.5"},
		{-0.125, "-0.125"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-1.5e300, "-1.5e+300"},
		{0.000001, "0.000001"},
		{1e-7, "1e-07"},
		{0, "0"},
		{Number(math.Inf(1)), "Infinity"},
		{Number(math.Inf(-1)), "-Infinity"},
		{Number(math.NaN()), "NaN"},
	}

	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("Number(%v).String() = %q, want %q", float64(tt.n), got, tt.want)
		}
	}
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		v    Value
		want Boolean
	}{
		{Nil{}, false},
		{nil, false},
		{Boolean(false), false},
		{Boolean(true), true},
		{Number(0), true},
		{String(""), true},
	}

	for _, tt := range tests {
		if got := Truthiness(tt.v); got != tt.want {
			t.Errorf("Truthiness(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestEqualTo(t *testing.T) {
	tests := []struct {
		s, t Value
		want Boolean
	}{
		{Nil{}, Nil{}, true},
		{Number(1), Number(1), true},
		{Number(1), String("1"), false},
		{String("a"), String("a"), true},
		{Boolean(false), Nil{}, false},
		{Number(math.NaN()), Number(math.NaN()), false},
	}

	for _, tt := range tests {
		if got := EqualTo(tt.s, tt.t); got != tt.want {
			t.Errorf("EqualTo(%#v, %#v) = %v, want %v", tt.s, tt.t, got, tt.want)
		}
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(s, t Value) (Value, error)
		s, t Value
		want Value
		err  error
	}{
		{"add numbers", Add, Number(1), Number(2), Number(3), nil},
		{"add strings", Add, String("foo"), String("bar"), String("foobar"), nil},
		{"add mixed", Add, String("foo"), Number(1), nil, ErrOperandsAddition},
		{"sub", Sub, Number(5), Number(7), Number(-2), nil},
		{"mul", Mul, Number(3), Number(4), Number(12), nil},
		{"div", Div, Number(10), Number(4), Number(2.5), nil},
		{"div strings", Div, String("a"), String("b"), nil, ErrOperandsNumbers},
		{"less", LessThan, Number(1), Number(2), Boolean(true), nil},
		{"less equal", LessEqual, Number(2), Number(2), Boolean(true), nil},
		{"greater", GreaterThan, Number(1), Number(2), Boolean(false), nil},
		{"greater equal", GreaterEqual, Number(3), Number(2), Boolean(true), nil},
		{"compare strings", LessThan, String("a"), String("b"), nil, ErrOperandsNumbers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.s, tt.t)
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	got, err := Div(Number(1), Number(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "Infinity" {
		t.Fatalf("1 / 0 = %v, want Infinity", got)
	}
}

func TestNeg(t *testing.T) {
	if got, err := Neg(Number(2)); err != nil || got != Number(-2) {
		t.Fatalf("Neg(2) = %v, %v", got, err)
	}
	if _, err := Neg(String("x")); !errors.Is(err, ErrOperandNumber) {
		t.Fatalf("Neg(\"x\") error = %v, want %v", err, ErrOperandNumber)
	}
}
