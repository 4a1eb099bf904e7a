package token

import (
	"math"
	"strconv"
)

// Number is the runtime representation of a NUMBER value. It starts life as
// an integer, built up digit-by-digit the way the lexer assembles an
// integer literal, and widens to a float the moment it passes through an
// operation that cannot stay exact in integer arithmetic — division, or
// combination with another float. See SPEC_FULL.md's NUMBER representation
// note for why Go needs this tag where the source language's host did not.
type Number struct {
	IsFloat bool
	I       int64
	F       float64
}

// Int builds an integer Number.
func Int(i int64) Number { return Number{I: i} }

// Float builds a float Number.
func Float(f float64) Number { return Number{IsFloat: true, F: f} }

// AsFloat returns n widened to float64, regardless of its tag.
func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.F
	}
	return float64(n.I)
}

// String formats n the way the rest of the language renders a NUMBER:
// integers with no decimal point, floats with the shortest round-tripping
// decimal representation.
func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.F, 'g', -1, 64)
	}
	return strconv.FormatInt(n.I, 10)
}

// IsZero reports whether n is exactly zero, integer or float.
func (n Number) IsZero() bool {
	if n.IsFloat {
		return n.F == 0
	}
	return n.I == 0
}

// numberBinary applies intOp when both operands are integers, and floatOp
// (on the widened operands) otherwise.
func numberBinary(a, b Number, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) Number {
	if !a.IsFloat && !b.IsFloat {
		return Int(intOp(a.I, b.I))
	}
	return Float(floatOp(a.AsFloat(), b.AsFloat()))
}

// AddNumbers adds two numbers, preserving integer arithmetic when possible.
func AddNumbers(a, b Number) Number {
	return numberBinary(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

// SubNumbers subtracts two numbers, preserving integer arithmetic when possible.
func SubNumbers(a, b Number) Number {
	return numberBinary(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })
}

// MulNumbers multiplies two numbers, preserving integer arithmetic when possible.
func MulNumbers(a, b Number) Number {
	return numberBinary(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })
}

// DivNumbers divides two numbers. Division always widens to float, matching
// the source language's "integer arithmetic until first division" rule.
func DivNumbers(a, b Number) Number {
	return Float(a.AsFloat() / b.AsFloat())
}

// ModNumbers computes the remainder, preserving integer arithmetic when possible.
func ModNumbers(a, b Number) Number {
	if !a.IsFloat && !b.IsFloat {
		return Int(a.I % b.I)
	}
	return Float(math.Mod(a.AsFloat(), b.AsFloat()))
}

// CompareNumbers returns -1, 0 or 1 as a is less than, equal to, or greater
// than b, widening to float only when needed.
func CompareNumbers(a, b Number) int {
	if !a.IsFloat && !b.IsFloat {
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	}
	af, bf := a.AsFloat(), b.AsFloat()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

// EqualNumbers reports whether a and b hold the same numeric value.
func EqualNumbers(a, b Number) bool {
	return CompareNumbers(a, b) == 0
}
