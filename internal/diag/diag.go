// Package diag implements the interpreter's diagnostics: a fixed set of
// fatal error classes (spec.md §7), each carrying a source location, and
// the banner-plus-exit-status-1 presentation the external interface
// requires.
//
// Every stage of the pipeline returns a *Error through a normal Go error
// return rather than printing and exiting itself — spec.md §7 explicitly
// allows surfacing diagnostics "as typed results internally" as long as
// they are "presented identically to the user", so only cmd/corvid, at the
// single point where a *Error reaches the top, calls Report and exits.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/corvidlang/corvid/internal/token"
)

// Class names one of the fixed diagnostic classes from spec.md §7.
type Class string

const (
	UnexpectedCharacter    Class = "unexpected_character"
	UnbalancedParentheses  Class = "unbalanced_parentheses"
	UnbalancedSquareBrackets Class = "unbalanced_square_brackets"
	UnbalancedCurlyBrackets  Class = "unbalanced_curly_brackets"
	TypeError              Class = "type_error"
	ElseWithoutIf          Class = "else_without_if"
	ExpectedOperand        Class = "expected_operand"
	UnsupportedToken       Class = "unsupported_token"
	UndefinedIdentifier    Class = "undefined_identifier"
	DivisionByZero         Class = "division_by_zero"
	WrongArgumentCount     Class = "wrong_argument_count"
	InvalidArgument        Class = "invalid_argument"
	MissingReturnStatement Class = "missing_return_statement"
	ArrayIndexOutOfBounds  Class = "array_index_out_of_bounds"
)

// Error is a diagnostic: a class, a rendered message, and the source
// location it occurred at.
type Error struct {
	Class   Class
	Message string
	Loc     token.SourceLocation
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d: %s", e.Class, e.Loc.Line, e.Message)
}

// New builds a *Error with a printf-formatted message.
func New(class Class, loc token.SourceLocation, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...), Loc: loc}
}

// Report prints the class-appropriate banner plus up to two lines of
// source context on each side of the offending line, matching
// src/errors.py's "print message, print offending line, exit(1)" shape,
// extended with the surrounding context spec.md §7 calls for. It does not
// itself call os.Exit — the caller (cmd/corvid) does that, so Report stays
// testable against a buffer.
func Report(w io.Writer, source string, err error) {
	de, ok := err.(*Error)
	if !ok {
		fmt.Fprintf(w, "error: %s\n", err)
		return
	}

	fmt.Fprintf(w, "%s\n", de.Error())

	lines := strings.Split(source, "\n")
	lineIdx := de.Loc.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		return
	}

	const context = 2
	start := lineIdx - context
	if start < 0 {
		start = 0
	}
	end := lineIdx + context
	if end >= len(lines) {
		end = len(lines) - 1
	}

	for i := start; i <= end; i++ {
		marker := "  "
		if i == lineIdx {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%4d | %s\n", marker, i+1, lines[i])
	}
}
