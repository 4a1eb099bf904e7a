// Package parser builds the statement tree from a lexed token stream: the
// priority-biased reduction loop from spec.md §4.2, grounded on
// src/syntax_tree.py's SyntaxTree.parse_tokens and its
// extract_binary_operands/extract_unary_operand/check_operand_types
// helpers, restructured as a builder type the way the teacher structures
// its own parser (alexisbouchez-rubygo/parser/parser.go) around one
// receiver holding the token cursor.
//
// One deliberate correction from src/syntax_tree.py: that source's
// extract_binary_operands always pulls both operands from the two
// positions immediately preceding the operator. That is exactly right for
// IF/WHILE/ELSE, whose body and condition genuinely sit to the keyword's
// left once brackets have collapsed — but applied to ordinary infix
// arithmetic ("1 + 2 * 3") it grabs the wrong tokens and cannot even
// extract the operands of a bare "2 * 3". Arithmetic/comparison/logical
// binary operators here
// extract one operand from each side instead, which is the only reading
// consistent with spec.md §8's worked examples.
package parser

import (
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/token"
)

// Build reduces a flat, lexed token stream into a list of root statement
// tokens.
func Build(tokens []*token.Token) ([]*token.Token, error) {
	b := &builder{tokens: tokens}
	return b.run()
}

type builder struct {
	tokens     []*token.Token
	statements []*token.Token
}

func (b *builder) run() ([]*token.Token, error) {
	for len(b.tokens) > 0 {
		tok, index := highestPriority(b.tokens)

		if tok.Priority == 0 {
			if tok.Kind != token.SEMICOLON {
				b.statements = append(b.statements, tok)
			}
			b.tokens = b.tokens[index+1:]
			continue
		}

		tok.Priority = 0
		if err := b.dispatch(tok, index); err != nil {
			return nil, err
		}
	}
	return b.statements, nil
}

// highestPriority scans b.tokens up to (not including) the first SEMICOLON
// and returns the first token holding the maximum priority seen.
func highestPriority(tokens []*token.Token) (*token.Token, int) {
	highest := tokens[0]
	highestIdx := 0
	for i, t := range tokens {
		if t.Kind == token.SEMICOLON {
			break
		}
		if t.Priority > highest.Priority {
			highest = t
			highestIdx = i
		}
	}
	return highest, highestIdx
}

var binaryOperators = map[token.Kind]bool{
	token.PLUS: true, token.MINUS: true, token.MULTIPLY: true, token.DIVIDE: true, token.MODULO: true,
	token.EQUAL: true, token.NOT_EQUAL: true,
	token.GREATER_THAN: true, token.LESS_THAN: true, token.GREATER_THAN_OR_EQUAL: true, token.LESS_THAN_OR_EQUAL: true,
	token.AND: true, token.OR: true,
}

var assignmentOperators = map[token.Kind]bool{
	token.ASSIGNMENT: true, token.ASSIGNMENT_ADD: true, token.ASSIGNMENT_SUB: true,
	token.ASSIGNMENT_MUL: true, token.ASSIGNMENT_DIV: true, token.ASSIGNMENT_MOD: true,
}

func (b *builder) dispatch(tok *token.Token, index int) error {
	switch {
	case binaryOperators[tok.Kind]:
		return b.dispatchBinary(tok, index)
	case tok.Kind == token.INCREMENT || tok.Kind == token.DECREMENT:
		return b.dispatchIncrDecr(tok, index)
	case tok.Kind == token.NOT:
		return b.dispatchNot(tok, index)
	case assignmentOperators[tok.Kind]:
		return b.dispatchAssignment(tok, index)
	}

	switch tok.Kind {
	case token.PARENTHESIS:
		return b.dispatchParenthesis(tok, index)
	case token.SQUARE_BRACKET:
		return b.dispatchSquareBracket(tok, index)
	case token.CURLY_BRACKET:
		return b.dispatchCurlyBracket(tok, index)
	case token.IF:
		return b.dispatchIf(tok, index)
	case token.WHILE:
		return b.dispatchWhile(tok, index)
	case token.ELSE:
		return b.dispatchElse(tok, index)
	case token.RETURN:
		return b.dispatchReturn(tok, index)
	case token.BREAK, token.CONTINUE:
		// Bare statements: no operand, nothing further to do.
		return nil
	}

	return diag.New(diag.UnsupportedToken, tok.Loc, "unsupported token %s in this position", tok.Kind)
}

func (b *builder) dispatchBinary(tok *token.Token, index int) error {
	left, right, out := extractLeftRight(b.tokens, index)
	supported := token.SupportedOperandTypes(tok.Kind)
	if err := checkOperand(tok, left, supported); err != nil {
		return err
	}
	if err := checkOperand(tok, right, supported); err != nil {
		return err
	}
	tok.Children = []*token.Token{left, right}
	b.tokens = out
	return nil
}

func (b *builder) dispatchIncrDecr(tok *token.Token, index int) error {
	operand, out := extractUnaryLeft(b.tokens, index)
	if err := requireIdentifier(tok, operand); err != nil {
		return err
	}
	tok.Children = []*token.Token{operand}
	b.tokens = out
	return nil
}

// dispatchNot handles unary `!`. src/syntax_tree.py's parse_tokens never
// dispatches NOT at all (a genuine gap, not just an omission for brevity —
// operations.py and the priority/operand tables both carry full NOT
// entries). Following this language's pervasive trailing-operator
// convention (value = name, {body} (cond) if, (args) name), `!` takes its
// operand from the left, the same side INCREMENT/DECREMENT already use.
func (b *builder) dispatchNot(tok *token.Token, index int) error {
	operand, out := extractUnaryLeft(b.tokens, index)
	if err := checkOperand(tok, operand, token.SupportedOperandTypes(token.NOT)); err != nil {
		return err
	}
	tok.Children = []*token.Token{operand}
	b.tokens = out
	return nil
}

func (b *builder) dispatchAssignment(tok *token.Token, index int) error {
	identifier, t1 := extractUnaryRight(b.tokens, index)
	value, t2 := extractUnaryLeft(t1, index)

	if err := checkOperand(tok, value, token.SupportedOperandTypes(tok.Kind)); err != nil {
		return err
	}
	if err := requireIdentifier(tok, identifier); err != nil {
		return err
	}

	tok.Children = []*token.Token{value, identifier}
	b.tokens = t2
	return nil
}

func (b *builder) dispatchParenthesis(tok *token.Token, index int) error {
	if tok.Value.(byte) == ')' {
		return diag.New(diag.UnbalancedParentheses, tok.Loc, "unexpected ')'")
	}

	children, closeIdx, err := scanFlatGroup(b.tokens, index, token.PARENTHESIS, ')', diag.UnbalancedParentheses)
	if err != nil {
		return err
	}
	b.tokens = spliceGroup(b.tokens, index, closeIdx)
	tok.Children = children

	identifierIdx := index + 1
	if identifierIdx >= len(b.tokens) {
		return nil
	}
	identifierTok := b.tokens[identifierIdx]
	if identifierTok.Kind != token.IDENTIFIER {
		return nil
	}

	curlyIdx := index - 1
	if curlyIdx >= 0 && b.tokens[curlyIdx].Kind == token.CURLY_BRACKET {
		tok.Kind = token.FUNCTION_DECLARATION
		tok.Value = &token.FuncDecl{Body: b.tokens[curlyIdx], Params: children, Name: identifierTok}
		b.tokens = append(append(append([]*token.Token{}, b.tokens[:curlyIdx]...), tok), b.tokens[identifierIdx+1:]...)
		return nil
	}

	tok.Kind = token.FUNCTION_CALL
	tok.Value = &token.FuncCall{Args: children, Name: identifierTok}
	b.tokens = append(append([]*token.Token{}, b.tokens[:identifierIdx]...), b.tokens[identifierIdx+1:]...)
	return nil
}

func (b *builder) dispatchSquareBracket(tok *token.Token, index int) error {
	if tok.Value.(byte) == ']' {
		return diag.New(diag.UnbalancedSquareBrackets, tok.Loc, "unexpected ']'")
	}

	if index+1 < len(b.tokens) {
		next := b.tokens[index+1]
		if next.Kind == token.SQUARE_BRACKET && next.Value.(byte) == ']' && index >= 2 {
			prev := b.tokens[index-1]
			prevPrev := b.tokens[index-2]
			if token.KindIn(prev.Kind, []token.Kind{token.NUMBER, token.IDENTIFIER, token.PARENTHESIS}) &&
				token.KindIn(prevPrev.Kind, []token.Kind{token.IDENTIFIER, token.ARRAY, token.PARENTHESIS}) {
				tok.Kind = token.ARRAY_INDEXING
				tok.Children = []*token.Token{prevPrev, prev}
				b.tokens = append(append(append([]*token.Token{}, b.tokens[:index-2]...), tok), b.tokens[index+2:]...)
				return nil
			}
		}
	}

	children, closeIdx, err := scanFlatGroup(b.tokens, index, token.SQUARE_BRACKET, ']', diag.UnbalancedSquareBrackets)
	if err != nil {
		return err
	}
	b.tokens = spliceGroup(b.tokens, index, closeIdx)
	tok.Kind = token.ARRAY
	tok.Children = children
	tok.Value = children
	return nil
}

func (b *builder) dispatchCurlyBracket(tok *token.Token, index int) error {
	if tok.Value.(byte) == '}' {
		return diag.New(diag.UnbalancedCurlyBrackets, tok.Loc, "unexpected '}'")
	}

	children, closeIdx, err := scanNestedGroup(b.tokens, index, token.CURLY_BRACKET, '}', diag.UnbalancedCurlyBrackets)
	if err != nil {
		return err
	}
	b.tokens = spliceGroup(b.tokens, index, closeIdx)

	statements, err := Build(children)
	if err != nil {
		return err
	}
	tok.Children = statements
	return nil
}

func (b *builder) dispatchIf(tok *token.Token, index int) error {
	var elseTok *token.Token
	if index+1 < len(b.tokens) && b.tokens[index+1].Kind == token.ELSE {
		elseTok = b.tokens[index+1]
		b.tokens = append(append([]*token.Token{}, b.tokens[:index+1]...), b.tokens[index+2:]...)
	}

	body, condition, out := extractTwoLeft(b.tokens, index)
	if err := checkOperand(tok, body, []token.Kind{token.CURLY_BRACKET}); err != nil {
		return err
	}
	if err := checkOperand(tok, condition, []token.Kind{token.BOOLEAN}); err != nil {
		return err
	}

	tok.Children = []*token.Token{body, condition}
	if elseTok != nil {
		tok.Children = append(tok.Children, elseTok)
	}
	b.tokens = out
	return nil
}

func (b *builder) dispatchWhile(tok *token.Token, index int) error {
	body, condition, out := extractTwoLeft(b.tokens, index)
	if err := checkOperand(tok, body, []token.Kind{token.CURLY_BRACKET}); err != nil {
		return err
	}
	if err := checkOperand(tok, condition, []token.Kind{token.BOOLEAN}); err != nil {
		return err
	}
	tok.Children = []*token.Token{body, condition}
	b.tokens = out
	return nil
}

func (b *builder) dispatchElse(tok *token.Token, index int) error {
	ifIdx := index - 2
	if ifIdx < 0 || b.tokens[ifIdx].Kind != token.IF {
		return diag.New(diag.ElseWithoutIf, tok.Loc, "else without a matching if")
	}

	body, out := extractUnaryLeft(b.tokens, index)
	if err := checkOperand(tok, body, []token.Kind{token.CURLY_BRACKET}); err != nil {
		return err
	}
	tok.Children = []*token.Token{body}
	b.tokens = out
	return nil
}

func (b *builder) dispatchReturn(tok *token.Token, index int) error {
	operand, out := extractUnaryLeft(b.tokens, index)
	if err := checkOperand(tok, operand, token.SupportedOperandTypes(token.RETURN)); err != nil {
		return err
	}
	tok.Children = []*token.Token{operand}
	b.tokens = out
	return nil
}

// extractLeftRight splices out the tokens immediately preceding and
// following index, returning them as (left, right) and the token list with
// both removed and the operator left in place.
func extractLeftRight(tokens []*token.Token, index int) (left, right *token.Token, out []*token.Token) {
	var before, after []*token.Token
	if index-1 >= 0 {
		left = tokens[index-1]
		before = tokens[:index-1]
	} else {
		before = tokens[:index]
	}
	if index+1 < len(tokens) {
		right = tokens[index+1]
		after = tokens[index+2:]
	} else {
		after = tokens[index+1:]
	}
	out = append(append(append([]*token.Token{}, before...), tokens[index]), after...)
	return left, right, out
}

// extractTwoLeft splices out the two tokens immediately preceding index,
// returning them as (op1, op2) and the token list with both removed —
// mirrors src/syntax_tree.py's extract_binary_operands exactly, used by
// IF/WHILE whose body and condition genuinely precede the keyword once
// brackets have collapsed.
func extractTwoLeft(tokens []*token.Token, index int) (op1, op2 *token.Token, out []*token.Token) {
	op1Idx := index - 2
	if op1Idx < 0 {
		return nil, nil, tokens
	}
	op1 = tokens[op1Idx]
	op2 = tokens[index-1]
	out = append(append([]*token.Token{}, tokens[:op1Idx]...), tokens[index:]...)
	return op1, op2, out
}

func extractUnaryLeft(tokens []*token.Token, index int) (*token.Token, []*token.Token) {
	if index-1 < 0 {
		return nil, tokens
	}
	operand := tokens[index-1]
	out := append(append([]*token.Token{}, tokens[:index-1]...), tokens[index:]...)
	return operand, out
}

func extractUnaryRight(tokens []*token.Token, index int) (*token.Token, []*token.Token) {
	if index+1 >= len(tokens) {
		return nil, tokens
	}
	operand := tokens[index+1]
	out := append(append([]*token.Token{}, tokens[:index+1]...), tokens[index+2:]...)
	return operand, out
}

// checkOperand mirrors check_operand_types for a single operand: a missing
// operand is always a diagnostic; an identifier operand is never checked
// here (resolved at evaluation time); a literal operand must exactly match
// one of the supported kinds; any other (sub-expression) operand is
// accepted if at least one of its possible result kinds is supported.
func checkOperand(op *token.Token, operand *token.Token, supported []token.Kind) error {
	if operand == nil {
		return diag.New(diag.ExpectedOperand, op.Loc, "%s expects an operand, but none was found", op.Kind)
	}
	if operand.Kind == token.IDENTIFIER {
		return nil
	}
	if token.IsLiteral(operand.Kind) {
		if !token.KindIn(operand.Kind, supported) {
			return diag.New(diag.TypeError, op.Loc, "%s does not support operand kind %s (supports %v)", op.Kind, operand.Kind, supported)
		}
		return nil
	}
	results := token.ExpressionResultTypes(operand.Kind)
	for _, r := range results {
		if token.KindIn(r, supported) {
			return nil
		}
	}
	return diag.New(diag.TypeError, op.Loc, "%s does not support an expression of kind %s (possible results %v, supports %v)", op.Kind, operand.Kind, results, supported)
}

func requireIdentifier(op *token.Token, operand *token.Token) error {
	if operand == nil {
		return diag.New(diag.ExpectedOperand, op.Loc, "%s expects an identifier operand, but none was found", op.Kind)
	}
	if operand.Kind != token.IDENTIFIER {
		return diag.New(diag.TypeError, op.Loc, "%s expects an identifier, got %s", op.Kind, operand.Kind)
	}
	return nil
}

// scanFlatGroup scans forward from a PARENTHESIS/SQUARE_BRACKET opener to
// its matching closer, collecting non-comma interior tokens as children. It
// does not track nesting depth: by the time this opener is dispatched,
// every token strictly inside it already carries a higher bracket-biased
// priority and has therefore already reduced to a single, non-raw token —
// so the very next same-kind token whose value is the close character is
// guaranteed to be this opener's own match, never a still-open nested pair.
func scanFlatGroup(tokens []*token.Token, openIdx int, kind token.Kind, closeCh byte, errClass diag.Class) (children []*token.Token, closeIdx int, err error) {
	for i := openIdx + 1; ; i++ {
		if i >= len(tokens) {
			return nil, 0, diag.New(errClass, tokens[openIdx].Loc, "unbalanced bracket")
		}
		tok := tokens[i]
		if tok.Kind == kind && tok.Value.(byte) == closeCh {
			return children, i, nil
		}
		if tok.Kind == token.SEMICOLON {
			return nil, 0, diag.New(errClass, tok.Loc, "statement terminator inside brackets")
		}
		if tok.Kind != token.COMMA {
			children = append(children, tok)
		}
	}
}

// scanNestedGroup scans forward from a CURLY_BRACKET opener to its
// matching closer, tracking nesting depth: unlike parenthesis/square
// groups, a curly block's interior is not reduced by the flat priority
// loop until a separate recursive Build call runs over it, so a nested
// brace pair genuinely is still two raw, unreduced tokens at scan time.
func scanNestedGroup(tokens []*token.Token, openIdx int, kind token.Kind, closeCh byte, errClass diag.Class) (children []*token.Token, closeIdx int, err error) {
	depth := 1
	for i := openIdx + 1; ; i++ {
		if i >= len(tokens) {
			return nil, 0, diag.New(errClass, tokens[openIdx].Loc, "unbalanced bracket")
		}
		tok := tokens[i]
		if tok.Kind == kind {
			if tok.Value.(byte) == closeCh {
				depth--
				if depth == 0 {
					return children, i, nil
				}
			} else {
				depth++
			}
		}
		children = append(children, tok)
	}
}

// spliceGroup removes the interior tokens and the closer at closeIdx,
// leaving the opener (now carrying its Children) at openIdx.
func spliceGroup(tokens []*token.Token, openIdx, closeIdx int) []*token.Token {
	return append(append([]*token.Token{}, tokens[:openIdx+1]...), tokens[closeIdx+1:]...)
}
