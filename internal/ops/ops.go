// Package ops implements the language's operator kernels: the pure
// value-in, value-out semantics of each binary and unary operator, stripped
// of the tree-walking concerns the evaluator handles. Grounded on
// src/operations.py's add/subtract/multiply/.../array_index functions, one
// Go function per Python function, same type-dispatch shape.
package ops

import (
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/token"
)

func typeError(kind token.Kind, loc token.SourceLocation, kinds ...token.Kind) *diag.Error {
	return diag.New(diag.TypeError, loc, "operator %s does not support operand type(s) %v (supports %v)",
		kind, kinds, token.SupportedOperandTypes(kind))
}

// Add implements `+`: NUMBER+NUMBER, STRING+STRING and ARRAY+ARRAY.
func Add(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	switch {
	case t1 == token.NUMBER && t2 == token.NUMBER:
		return token.AddNumbers(v1.(token.Number), v2.(token.Number)), token.NUMBER, nil
	case t1 == token.STRING && t2 == token.STRING:
		return v1.(string) + v2.(string), token.STRING, nil
	case t1 == token.ARRAY && t2 == token.ARRAY:
		out := append(append([]*token.Token{}, v1.([]*token.Token)...), v2.([]*token.Token)...)
		return out, token.ARRAY, nil
	}
	return nil, 0, typeError(token.PLUS, loc, t1, t2)
}

// Subtract implements `-`: NUMBER only.
func Subtract(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		return token.SubNumbers(v1.(token.Number), v2.(token.Number)), token.NUMBER, nil
	}
	return nil, 0, typeError(token.MINUS, loc, t1, t2)
}

// Multiply implements `*`: NUMBER only.
func Multiply(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		return token.MulNumbers(v1.(token.Number), v2.(token.Number)), token.NUMBER, nil
	}
	return nil, 0, typeError(token.MULTIPLY, loc, t1, t2)
}

// Divide implements `/`: NUMBER only, diagnoses division by zero.
func Divide(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		n2 := v2.(token.Number)
		if n2.IsZero() {
			return nil, 0, diag.New(diag.DivisionByZero, loc, "division by zero")
		}
		return token.DivNumbers(v1.(token.Number), n2), token.NUMBER, nil
	}
	return nil, 0, typeError(token.DIVIDE, loc, t1, t2)
}

// Modulo implements `%`: NUMBER only, diagnoses division by zero.
func Modulo(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		n2 := v2.(token.Number)
		if n2.IsZero() {
			return nil, 0, diag.New(diag.DivisionByZero, loc, "division by zero")
		}
		return token.ModNumbers(v1.(token.Number), n2), token.NUMBER, nil
	}
	return nil, 0, typeError(token.MODULO, loc, t1, t2)
}

// Increment implements `++`: NUMBER only, returns value+1.
func Increment(v any, t token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t == token.NUMBER {
		return token.AddNumbers(v.(token.Number), token.Int(1)), token.NUMBER, nil
	}
	return nil, 0, typeError(token.INCREMENT, loc, t)
}

// Decrement implements `--`: NUMBER only, returns value-1.
func Decrement(v any, t token.Kind, loc token.SourceLocation) (any, token.Kind, error) {
	if t == token.NUMBER {
		return token.SubNumbers(v.(token.Number), token.Int(1)), token.NUMBER, nil
	}
	return nil, 0, typeError(token.DECREMENT, loc, t)
}

// Equal implements `==`: structural equality, recursing into ARRAY
// elements. Mismatched kinds (other than the cases below) are simply
// unequal rather than a type error, matching src/operations.py's fallthrough
// `return False`.
func Equal(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	switch {
	case t1 == token.NUMBER && t2 == token.NUMBER:
		return token.EqualNumbers(v1.(token.Number), v2.(token.Number)), nil
	case t1 == token.STRING && t2 == token.STRING:
		return v1.(string) == v2.(string), nil
	case t1 == token.BOOLEAN && t2 == token.BOOLEAN:
		return v1.(bool) == v2.(bool), nil
	case t1 == token.NULL && t2 == token.NULL:
		return true, nil
	case t1 == token.ARRAY && t2 == token.ARRAY:
		a1, a2 := v1.([]*token.Token), v2.([]*token.Token)
		if len(a1) != len(a2) {
			return false, nil
		}
		for i := range a1 {
			eq, err := Equal(a1[i].Value, a1[i].Kind, a2[i].Value, a2[i].Kind, loc)
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	}
	return false, nil
}

// NotEqual implements `!=` as the negation of Equal.
func NotEqual(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	eq, err := Equal(v1, t1, v2, t2, loc)
	return !eq, err
}

// GreaterThan implements `>`: NUMBER only.
func GreaterThan(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		return token.CompareNumbers(v1.(token.Number), v2.(token.Number)) > 0, nil
	}
	return false, typeError(token.GREATER_THAN, loc, t1, t2)
}

// GreaterThanOrEqual implements `>=`: NUMBER only.
func GreaterThanOrEqual(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	if t1 == token.NUMBER && t2 == token.NUMBER {
		return token.CompareNumbers(v1.(token.Number), v2.(token.Number)) >= 0, nil
	}
	return false, typeError(token.GREATER_THAN_OR_EQUAL, loc, t1, t2)
}

// LessThan is defined as `not(>=)`, per the source language's asymmetric
// definition — preserved even though it reports GREATER_THAN_OR_EQUAL in a
// type error raised while evaluating `<`.
func LessThan(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	ge, err := GreaterThanOrEqual(v1, t1, v2, t2, loc)
	return !ge, err
}

// LessThanOrEqual is defined as `not(>)`, per the source language's
// asymmetric definition.
func LessThanOrEqual(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	gt, err := GreaterThan(v1, t1, v2, t2, loc)
	return !gt, err
}

// And implements `&&`: BOOLEAN only.
func And(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	if t1 == token.BOOLEAN && t2 == token.BOOLEAN {
		return v1.(bool) && v2.(bool), nil
	}
	return false, typeError(token.AND, loc, t1, t2)
}

// Or implements `||`: BOOLEAN only.
func Or(v1 any, t1 token.Kind, v2 any, t2 token.Kind, loc token.SourceLocation) (bool, error) {
	if t1 == token.BOOLEAN && t2 == token.BOOLEAN {
		return v1.(bool) || v2.(bool), nil
	}
	return false, typeError(token.OR, loc, t1, t2)
}

// Not implements unary `!`: BOOLEAN only.
func Not(v any, t token.Kind, loc token.SourceLocation) (bool, error) {
	if t == token.BOOLEAN {
		return !v.(bool), nil
	}
	return false, typeError(token.NOT, loc, t)
}

// ArrayIndex implements the two-based array indexing rule: the user-visible
// index 2 denotes element 0.
func ArrayIndex(arr any, arrKind token.Kind, idx any, idxKind token.Kind, loc token.SourceLocation) (*token.Token, error) {
	if arrKind != token.ARRAY || idxKind != token.NUMBER {
		return nil, typeError(token.ARRAY_INDEXING, loc, arrKind, idxKind)
	}
	elems := arr.([]*token.Token)
	n := idx.(token.Number)
	i := int(n.AsFloat()) - 2
	if i < 0 || i >= len(elems) {
		return nil, diag.New(diag.ArrayIndexOutOfBounds, loc, "array index %d out of bounds for array of length %d", i+2, len(elems))
	}
	return elems[i], nil
}
