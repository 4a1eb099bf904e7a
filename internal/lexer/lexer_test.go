package lexer

import (
	"testing"

	"github.com/corvidlang/corvid/internal/token"
)

func TestRun_Arithmetic(t *testing.T) {
	toks, err := Lex("1 + 23 * 4;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		kind token.Kind
	}{
		{token.NUMBER},
		{token.PLUS},
		{token.NUMBER},
		{token.MULTIPLY},
		{token.NUMBER},
		{token.SEMICOLON},
	}
	if len(toks) != len(tests) {
		t.Fatalf("expected %d tokens, got %d (%v)", len(tests), len(toks), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Fatalf("token[%d]: expected %v, got %v", i, tt.kind, toks[i].Kind)
		}
	}
	if toks[2].Value.(token.Number).I != 23 {
		t.Fatalf("expected 23, got %v", toks[2].Value)
	}
}

func TestRun_Keywords(t *testing.T) {
	toks, err := Lex("if (true) { x = 1; } else { x = 2; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.IF {
		t.Fatalf("expected IF, got %v", toks[0].Kind)
	}
	if toks[0].Priority == 0 {
		t.Fatalf("expected IF to have a non-zero priority after keyword rewrite")
	}
	var sawElse bool
	for _, tk := range toks {
		if tk.Kind == token.ELSE {
			sawElse = true
			if tk.Priority == 0 {
				t.Fatalf("expected ELSE to have a non-zero priority after keyword rewrite")
			}
		}
	}
	if !sawElse {
		t.Fatalf("expected an ELSE token")
	}
}

func TestRun_IdentifierAtEOF(t *testing.T) {
	toks, err := Lex("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d (%v)", len(toks), toks)
	}
	if toks[0].Kind != token.IDENTIFIER || toks[0].Value.(string) != "abc" {
		t.Fatalf("expected IDENTIFIER %q, got %v %v", "abc", toks[0].Kind, toks[0].Value)
	}
}

func TestRun_KeywordAtEOF(t *testing.T) {
	toks, err := Lex("null")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.NULL {
		t.Fatalf("expected a single NULL token, got %v", toks)
	}
}

func TestRun_CompoundOperators(t *testing.T) {
	toks, err := Lex("x += 1; y++; z >= 2; w <= 3; a == b; a != b;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []token.Kind{
		token.IDENTIFIER, token.ASSIGNMENT_ADD, token.NUMBER, token.SEMICOLON,
		token.IDENTIFIER, token.INCREMENT, token.SEMICOLON,
		token.IDENTIFIER, token.GREATER_THAN_OR_EQUAL, token.NUMBER, token.SEMICOLON,
		token.IDENTIFIER, token.LESS_THAN_OR_EQUAL, token.NUMBER, token.SEMICOLON,
		token.IDENTIFIER, token.EQUAL, token.IDENTIFIER, token.SEMICOLON,
		token.IDENTIFIER, token.NOT_EQUAL, token.IDENTIFIER, token.SEMICOLON,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token[%d]: expected %v, got %v", i, want[i], kinds[i])
		}
	}
}

func TestRun_String(t *testing.T) {
	toks, err := Lex(`"hello world";`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.STRING || toks[0].Value.(string) != "hello world" {
		t.Fatalf("expected STRING %q, got %v %v", "hello world", toks[0].Kind, toks[0].Value)
	}
}

func TestRun_BracketPriorityBias(t *testing.T) {
	toks, err := Lex("(1 + 2) * 3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var plus, star *token.Token
	for _, tk := range toks {
		switch tk.Kind {
		case token.PLUS:
			plus = tk
		case token.MULTIPLY:
			star = tk
		}
	}
	if plus == nil || star == nil {
		t.Fatalf("expected both + and * tokens")
	}
	if plus.Priority <= star.Priority {
		t.Fatalf("expected the bracket-nested + (priority %d) to dominate the outer * (priority %d)", plus.Priority, star.Priority)
	}
}

func TestRun_LineComment(t *testing.T) {
	toks, err := Lex("1 + 2; \\\\ this is a comment\n3;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.SEMICOLON, token.NUMBER, token.SEMICOLON}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(kinds), kinds)
	}
}

func TestRun_UnbalancedParentheses(t *testing.T) {
	_, err := Lex("(1 + 2;")
	if err == nil {
		t.Fatalf("expected an unbalanced parentheses diagnostic")
	}
}

func TestRun_UnexpectedCharacter(t *testing.T) {
	_, err := Lex("1 @ 2;")
	if err == nil {
		t.Fatalf("expected an unexpected character diagnostic")
	}
}
