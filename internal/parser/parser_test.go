package parser

import (
	"testing"

	"github.com/corvidlang/corvid/internal/lexer"
	"github.com/corvidlang/corvid/internal/token"
)

func build(t *testing.T, src string) []*token.Token {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, err := Build(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

// TestBuild_PrecedenceClimbing exercises the corrected left/right operand
// extraction for ordinary infix arithmetic: "1 + 2 * 3" must reduce with
// MULTIPLY's own two immediate neighbors (2 and 3), not the two tokens to
// ITS left, which would instead grab PLUS itself.
func TestBuild_PrecedenceClimbing(t *testing.T) {
	stmts := build(t, "1 + 2 * 3;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	root := stmts[0]
	if root.Kind != token.PLUS {
		t.Fatalf("expected root PLUS, got %v", root.Kind)
	}
	left, right := root.Children[0], root.Children[1]
	if left.Kind != token.NUMBER || left.Value.(token.Number).I != 1 {
		t.Fatalf("expected left operand NUMBER 1, got %v %v", left.Kind, left.Value)
	}
	if right.Kind != token.MULTIPLY {
		t.Fatalf("expected right operand MULTIPLY, got %v", right.Kind)
	}
	if right.Children[0].Value.(token.Number).I != 2 || right.Children[1].Value.(token.Number).I != 3 {
		t.Fatalf("expected MULTIPLY operands 2 and 3, got %v %v", right.Children[0].Value, right.Children[1].Value)
	}
}

func TestBuild_ParenthesesOverridePrecedence(t *testing.T) {
	stmts := build(t, "(1 + 2) * 3;")
	root := stmts[0]
	if root.Kind != token.MULTIPLY {
		t.Fatalf("expected root MULTIPLY, got %v", root.Kind)
	}
	left := root.Children[0]
	if left.Kind != token.PARENTHESIS {
		t.Fatalf("expected left operand PARENTHESIS, got %v", left.Kind)
	}
	if left.Children[0].Kind != token.PLUS {
		t.Fatalf("expected the parenthesis to wrap a PLUS, got %v", left.Children[0].Kind)
	}
}

func TestBuild_AssignmentOrder(t *testing.T) {
	stmts := build(t, "10 = x;")
	root := stmts[0]
	if root.Kind != token.ASSIGNMENT {
		t.Fatalf("expected ASSIGNMENT, got %v", root.Kind)
	}
	value, identifier := root.Children[0], root.Children[1]
	if value.Kind != token.NUMBER || value.Value.(token.Number).I != 10 {
		t.Fatalf("expected value operand NUMBER 10, got %v %v", value.Kind, value.Value)
	}
	if identifier.Kind != token.IDENTIFIER || identifier.Value.(string) != "x" {
		t.Fatalf("expected identifier operand x, got %v %v", identifier.Kind, identifier.Value)
	}
}

func TestBuild_IncrementRequiresIdentifier(t *testing.T) {
	stmts := build(t, "x++;")
	root := stmts[0]
	if root.Kind != token.INCREMENT {
		t.Fatalf("expected INCREMENT, got %v", root.Kind)
	}
	if root.Children[0].Kind != token.IDENTIFIER {
		t.Fatalf("expected identifier operand, got %v", root.Children[0].Kind)
	}

	_, err := Build(mustLex(t, "1++;"))
	if err == nil {
		t.Fatalf("expected a type_error diagnostic when ++ is applied to a literal")
	}
}

func mustLex(t *testing.T, src string) []*token.Token {
	t.Helper()
	toks, err := lexer.Lex(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	return toks
}

// TestBuild_IfElse exercises the trailing-keyword convention this
// language uses for control flow: "{body} (cond) if {elseBody} else".
func TestBuild_IfElse(t *testing.T) {
	stmts := build(t, "{ 1 = x; } (true) if { 2 = x; } else")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	root := stmts[0]
	if root.Kind != token.IF {
		t.Fatalf("expected IF, got %v", root.Kind)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected [body, condition, else], got %d children", len(root.Children))
	}
	if root.Children[0].Kind != token.CURLY_BRACKET {
		t.Fatalf("expected body CURLY_BRACKET, got %v", root.Children[0].Kind)
	}
	// The condition keeps its wrapping PARENTHESIS token; checkOperand
	// accepts it via PARENTHESIS's expression-result-type set rather than
	// unwrapping it structurally.
	cond := root.Children[1]
	if cond.Kind != token.PARENTHESIS {
		t.Fatalf("expected condition PARENTHESIS, got %v", cond.Kind)
	}
	if cond.Children[0].Kind != token.BOOLEAN {
		t.Fatalf("expected the parenthesis to wrap a BOOLEAN, got %v", cond.Children[0].Kind)
	}
	elseTok := root.Children[2]
	if elseTok.Kind != token.ELSE {
		t.Fatalf("expected ELSE, got %v", elseTok.Kind)
	}
	if elseTok.Children[0].Kind != token.CURLY_BRACKET {
		t.Fatalf("expected else body CURLY_BRACKET, got %v", elseTok.Children[0].Kind)
	}
}

func TestBuild_ElseWithoutIf(t *testing.T) {
	_, err := Build(mustLex(t, "{ 2 = x; } else"))
	if err == nil {
		t.Fatalf("expected an else_without_if diagnostic")
	}
}

func TestBuild_While(t *testing.T) {
	stmts := build(t, "{ x++; } (x) while")
	root := stmts[0]
	if root.Kind != token.WHILE {
		t.Fatalf("expected WHILE, got %v", root.Kind)
	}
	if root.Children[0].Kind != token.CURLY_BRACKET {
		t.Fatalf("expected body CURLY_BRACKET, got %v", root.Children[0].Kind)
	}
	cond := root.Children[1]
	if cond.Kind != token.PARENTHESIS {
		t.Fatalf("expected condition PARENTHESIS, got %v", cond.Kind)
	}
	if cond.Children[0].Kind != token.IDENTIFIER {
		t.Fatalf("expected the parenthesis to wrap an IDENTIFIER, got %v", cond.Children[0].Kind)
	}
}

func TestBuild_ArrayLiteral(t *testing.T) {
	stmts := build(t, "[1, 2, 3];")
	root := stmts[0]
	if root.Kind != token.ARRAY {
		t.Fatalf("expected ARRAY, got %v", root.Kind)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(root.Children))
	}
}

func TestBuild_ArrayIndexing(t *testing.T) {
	stmts := build(t, "arr 2[];")
	root := stmts[0]
	if root.Kind != token.ARRAY_INDEXING {
		t.Fatalf("expected ARRAY_INDEXING, got %v", root.Kind)
	}
	if root.Children[0].Value.(string) != "arr" {
		t.Fatalf("expected array operand 'arr', got %v", root.Children[0].Value)
	}
	if root.Children[1].Value.(token.Number).I != 2 {
		t.Fatalf("expected index operand 2, got %v", root.Children[1].Value)
	}
}

func TestBuild_FunctionDeclarationAndCall(t *testing.T) {
	stmts := build(t, "{ a; } (a, b) add;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	decl := stmts[0]
	if decl.Kind != token.FUNCTION_DECLARATION {
		t.Fatalf("expected FUNCTION_DECLARATION, got %v", decl.Kind)
	}
	fd := decl.Value.(*token.FuncDecl)
	if fd.Name.Value.(string) != "add" || len(fd.Params) != 2 {
		t.Fatalf("unexpected FuncDecl: %+v", fd)
	}

	stmts = build(t, "(1, 2) add;")
	call := stmts[0]
	if call.Kind != token.FUNCTION_CALL {
		t.Fatalf("expected FUNCTION_CALL, got %v", call.Kind)
	}
	fc := call.Value.(*token.FuncCall)
	if fc.Name.Value.(string) != "add" || len(fc.Args) != 2 {
		t.Fatalf("unexpected FuncCall: %+v", fc)
	}
}

func TestBuild_Not(t *testing.T) {
	stmts := build(t, "true!;")
	root := stmts[0]
	if root.Kind != token.NOT {
		t.Fatalf("expected NOT, got %v", root.Kind)
	}
	if root.Children[0].Kind != token.BOOLEAN {
		t.Fatalf("expected BOOLEAN operand, got %v", root.Children[0].Kind)
	}
}

func TestBuild_ReturnBreakContinue(t *testing.T) {
	stmts := build(t, "1 return; break; continue;")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if stmts[0].Kind != token.RETURN {
		t.Fatalf("expected RETURN, got %v", stmts[0].Kind)
	}
	if stmts[0].Children[0].Value.(token.Number).I != 1 {
		t.Fatalf("expected return operand 1, got %v", stmts[0].Children[0].Value)
	}
	if stmts[1].Kind != token.BREAK {
		t.Fatalf("expected BREAK, got %v", stmts[1].Kind)
	}
	if stmts[2].Kind != token.CONTINUE {
		t.Fatalf("expected CONTINUE, got %v", stmts[2].Kind)
	}
}

// TestBuild_UnbalancedParentheses exercises dispatchParenthesis's own
// unbalanced-closer guard directly. The lexer already rejects any source
// text with a net paren-depth mismatch, so a lone stray ')' can only reach
// the builder via a hand-built token list, not through Lex.
func TestBuild_UnbalancedParentheses(t *testing.T) {
	stray := token.New(token.PARENTHESIS, 0, token.SourceLocation{}, byte(')'))
	_, err := Build([]*token.Token{stray})
	if err == nil {
		t.Fatalf("expected an unbalanced_parentheses diagnostic")
	}
}
