// Package scope implements the interpreter's variable bindings: a stack of
// frames where only the top frame is ever consulted. Grounded on
// src/symbols.py's Symbol/Scope/ScopeStack/SymbolTable classes — note this
// is deliberately NOT the teacher's Environment (object/environment.go),
// which chains outward through enclosing scopes. A function body here sees
// its own frame and nothing below it except the parameters bound into that
// frame at call time; there is no lexical walk down the stack.
package scope

import (
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/token"
)

// Symbol is a named binding: a token kind and its current value. A FUNCTION
// symbol's Value is a *token.Function.
type Symbol struct {
	Kind  token.Kind
	Value any
}

// Frame is one level of the scope stack — a flat bag of bindings.
type Frame struct {
	symbols map[string]*Symbol
}

func newFrame() *Frame {
	return &Frame{symbols: make(map[string]*Symbol)}
}

// Stack is the interpreter's scope stack. Lookup, bind and update all act
// on the top frame only — the frame pushed for a function call does not
// expose the caller's bindings, by design. if/while bodies push no frame.
type Stack struct {
	frames []*Frame
}

// New returns a Stack with a single, empty global frame.
func New() *Stack {
	return &Stack{frames: []*Frame{newFrame()}}
}

// Push adds a fresh frame on top of the stack.
func (s *Stack) Push() {
	s.frames = append(s.frames, newFrame())
}

// Pop removes the top frame.
func (s *Stack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Stack) top() *Frame {
	return s.frames[len(s.frames)-1]
}

// Lookup finds identifier in the top frame only. Mirrors
// ScopeStack.get_symbol's undefined_identifier diagnostic on miss.
func (s *Stack) Lookup(name string, loc token.SourceLocation) (*Symbol, error) {
	sym, ok := s.top().symbols[name]
	if !ok {
		return nil, diag.New(diag.UndefinedIdentifier, loc, "undefined identifier %q", name)
	}
	return sym, nil
}

// Bind creates or replaces name in the top frame with the given kind and
// value. Corresponds to Scope.set_symbol's non-identifier, non-function
// branch — the caller has already resolved an IDENTIFIER RHS or a
// CURLY_BRACKET body into a concrete kind/value pair.
func (s *Stack) Bind(name string, kind token.Kind, value any) {
	s.top().symbols[name] = &Symbol{Kind: kind, Value: value}
}

// BindFunction creates or replaces name in the top frame with a FUNCTION
// symbol wrapping fn.
func (s *Stack) BindFunction(name string, fn *token.Function) {
	s.top().symbols[name] = &Symbol{Kind: token.FUNCTION, Value: fn}
}

// Update overwrites the value of an already-bound symbol in the top frame,
// keeping its kind. Mirrors Scope.set_symbol_value, used for ++/-- and
// compound assignment where the symbol is known to already exist.
func (s *Stack) Update(name string, value any, loc token.SourceLocation) error {
	sym, ok := s.top().symbols[name]
	if !ok {
		return diag.New(diag.UndefinedIdentifier, loc, "undefined identifier %q", name)
	}
	sym.Value = value
	return nil
}
