package scope

import (
	"testing"

	"github.com/corvidlang/corvid/internal/token"
)

func TestBindAndLookup(t *testing.T) {
	s := New()
	s.Bind("x", token.NUMBER, token.Int(1))

	sym, err := s.Lookup("x", token.SourceLocation{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Kind != token.NUMBER || sym.Value.(token.Number).I != 1 {
		t.Fatalf("unexpected symbol: %+v", sym)
	}
}

func TestLookup_Undefined(t *testing.T) {
	s := New()
	if _, err := s.Lookup("missing", token.SourceLocation{}); err == nil {
		t.Fatalf("expected an undefined_identifier diagnostic")
	}
}

func TestUpdate_PreservesKind(t *testing.T) {
	s := New()
	s.Bind("x", token.NUMBER, token.Int(1))
	if err := s.Update("x", token.Int(2), token.SourceLocation{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sym, _ := s.Lookup("x", token.SourceLocation{})
	if sym.Kind != token.NUMBER || sym.Value.(token.Number).I != 2 {
		t.Fatalf("unexpected symbol after update: %+v", sym)
	}
}

func TestUpdate_Undefined(t *testing.T) {
	s := New()
	if err := s.Update("missing", token.Int(1), token.SourceLocation{}); err == nil {
		t.Fatalf("expected an undefined_identifier diagnostic")
	}
}

func TestPushPop_OnlyTopFrameVisible(t *testing.T) {
	s := New()
	s.Bind("x", token.NUMBER, token.Int(1))

	s.Push()
	if _, err := s.Lookup("x", token.SourceLocation{}); err == nil {
		t.Fatalf("expected the pushed frame to NOT see the outer frame's bindings (non-lexical scoping)")
	}
	s.Bind("x", token.STRING, "inner")
	sym, _ := s.Lookup("x", token.SourceLocation{})
	if sym.Kind != token.STRING {
		t.Fatalf("expected the inner frame's own binding, got %+v", sym)
	}

	s.Pop()
	sym, _ = s.Lookup("x", token.SourceLocation{})
	if sym.Kind != token.NUMBER {
		t.Fatalf("expected the outer frame's original binding restored after Pop, got %+v", sym)
	}
}

func TestBindFunction(t *testing.T) {
	s := New()
	fn := &token.Function{Params: []string{"a", "b"}}
	s.BindFunction("add", fn)

	sym, err := s.Lookup("add", token.SourceLocation{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Kind != token.FUNCTION {
		t.Fatalf("expected FUNCTION kind, got %v", sym.Kind)
	}
	if sym.Value.(*token.Function) != fn {
		t.Fatalf("expected the bound function value back")
	}
}
