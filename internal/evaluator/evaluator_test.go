package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/corvidlang/corvid/internal/builtins"
	"github.com/corvidlang/corvid/internal/lexer"
	"github.com/corvidlang/corvid/internal/parser"
	"github.com/corvidlang/corvid/internal/token"
)

func newInterp() (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	host := builtins.NewHost(&out, strings.NewReader(""))
	return New(host), &out
}

func run(t *testing.T, interp *Interpreter, src string) {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := parser.Build(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if err := interp.Run(stmts); err != nil {
		t.Fatalf("eval error: %v", err)
	}
}

func lookupNumber(t *testing.T, interp *Interpreter, name string) int64 {
	t.Helper()
	sym, err := interp.Scope.Lookup(name, token.SourceLocation{})
	if err != nil {
		t.Fatalf("unexpected error looking up %s: %v", name, err)
	}
	if sym.Kind != token.NUMBER {
		t.Fatalf("expected %s to be NUMBER, got %v", name, sym.Kind)
	}
	return sym.Value.(token.Number).I
}

func TestEval_ArithmeticPrecedence(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "1 + 2 * 3 = result;")
	if got := lookupNumber(t, interp, "result"); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestEval_CompoundAssignment(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "5 = x; 2 += x;")
	if got := lookupNumber(t, interp, "x"); got != 7 {
		t.Fatalf("expected x == 7, got %d", got)
	}
}

func TestEval_IfTrueBranch(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "10 = x; { 1 = y; } (x > 5) if { 2 = y; } else;")
	if got := lookupNumber(t, interp, "y"); got != 1 {
		t.Fatalf("expected the true branch (y == 1), got %d", got)
	}
}

func TestEval_IfFalseBranchElse(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "3 = x; { 1 = y; } (x > 5) if { 2 = y; } else;")
	if got := lookupNumber(t, interp, "y"); got != 2 {
		t.Fatalf("expected the else branch (y == 2), got %d", got)
	}
}

func TestEval_While(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "0 = x; 0 = sum; { x++; x += sum; } (x < 5) while;")
	if got := lookupNumber(t, interp, "x"); got != 5 {
		t.Fatalf("expected x == 5, got %d", got)
	}
	if got := lookupNumber(t, interp, "sum"); got != 15 {
		t.Fatalf("expected sum == 15 (1+2+3+4+5), got %d", got)
	}
}

func TestEval_WhileBreak(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "0 = x; { x++; { break; } (x == 3) if; } (true) while;")
	if got := lookupNumber(t, interp, "x"); got != 3 {
		t.Fatalf("expected the loop to stop at x == 3, got %d", got)
	}
}

func TestEval_FunctionCall_FirstStatementReturn(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "{ a + b; } (a, b) add; (3, 4) add = result;")
	if got := lookupNumber(t, interp, "result"); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

// Uses 0 rather than a negative literal for the false branch: this
// language has no unary minus (MINUS only dispatches as a binary
// operator), so "-5" is not an expressible numeric literal here.
func TestEval_FunctionCall_ExplicitReturnOverridesFallback(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "{ 0; { 1 return; } (x > 0) if; } (x) f;")
	run(t, interp, "(5) f = r1;")
	run(t, interp, "(0) f = r2;")
	if got := lookupNumber(t, interp, "r1"); got != 1 {
		t.Fatalf("expected the explicit return (r1 == 1) when x > 0, got %d", got)
	}
	if got := lookupNumber(t, interp, "r2"); got != 0 {
		t.Fatalf("expected the fallback first-statement return (r2 == 0) when x <= 0, got %d", got)
	}
}

func TestEval_ArrayIndexing_TwoBased(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "[10, 20, 30] = arr; arr 2[] = elem;")
	if got := lookupNumber(t, interp, "elem"); got != 10 {
		t.Fatalf("expected index 2 to mean the first element (10), got %d", got)
	}
}

func TestEval_BuiltinCall_Println(t *testing.T) {
	interp, out := newInterp()
	run(t, interp, "(\"hi\") println;")
	if out.String() != "hi\n" {
		t.Fatalf("expected %q, got %q", "hi\n", out.String())
	}
}

func TestEval_Not(t *testing.T) {
	interp, _ := newInterp()
	run(t, interp, "true! = flag;")
	sym, err := interp.Scope.Lookup("flag", token.SourceLocation{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sym.Kind != token.BOOLEAN || sym.Value.(bool) != false {
		t.Fatalf("expected !true == false, got %v", sym.Value)
	}
}
