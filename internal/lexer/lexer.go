// Package lexer turns Corvid source text into a flat token stream, biasing
// every non-zero-priority token's priority by the current bracket-nesting
// depth so the tree builder in internal/parser can later pick reduction
// order by priority alone. Grounded on src/tokenizer.py's single-pass,
// pending-token state machine, restructured into a Lexer type the way the
// teacher structures its own lexer (alexisbouchez-rubygo/lexer/lexer.go) —
// one receiver carrying cursor/position/nesting state, one Run producing
// the whole token slice that the rest of the pipeline consumes.
package lexer

import (
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/token"
)

// Lexer holds the running state of a single-pass tokenization.
type Lexer struct {
	source []rune
	pos    int

	basePriority int
	parenDepth   int
	bracketDepth int

	pending *token.Token
	loc     token.SourceLocation

	backslashPending bool
	inLineComment    bool
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		loc:    token.SourceLocation{Line: 1, LineStart: 0},
	}
}

// Lex tokenizes source in one call, for callers that don't need a Lexer
// value around.
func Lex(source string) ([]*token.Token, error) {
	return New(source).Run()
}

// Run consumes the whole source and returns its token stream, or the first
// diagnostic encountered.
func (l *Lexer) Run() ([]*token.Token, error) {
	var tokens []*token.Token

	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		if l.inLineComment {
			if ch == '\n' {
				l.inLineComment = false
				l.advanceLine()
			}
			l.pos++
			continue
		}

		if l.pending != nil {
			closed, err := l.extendPending(ch, &tokens)
			if err != nil {
				return nil, err
			}
			if closed {
				continue
			}
		}

		if isDigit(ch) {
			l.pending = token.New(token.NUMBER, l.basePriority, l.loc, token.Int(int64(ch-'0')))
			l.pos++
			continue
		}

		if isIdentifierStart(ch) {
			l.pending = token.New(token.IDENTIFIER, l.basePriority, l.loc, string(ch))
			l.pos++
			continue
		}

		switch ch {
		case '"':
			l.pending = token.New(token.STRING, l.basePriority, l.loc, "")
			l.pos++
			continue

		case '+':
			l.pending = token.New(token.PLUS, l.basePriority, l.loc, nil)
		case '-':
			l.pending = token.New(token.MINUS, l.basePriority, l.loc, nil)
		case '*':
			l.pending = token.New(token.MULTIPLY, l.basePriority, l.loc, nil)
		case '/':
			l.pending = token.New(token.DIVIDE, l.basePriority, l.loc, nil)
		case '%':
			l.pending = token.New(token.MODULO, l.basePriority, l.loc, nil)
		case '=':
			l.pending = token.New(token.ASSIGNMENT, l.basePriority, l.loc, nil)
		case '!':
			l.pending = token.New(token.NOT, l.basePriority, l.loc, nil)
		case '>':
			l.pending = token.New(token.GREATER_THAN, l.basePriority, l.loc, nil)
		case '<':
			l.pending = token.New(token.LESS_THAN, l.basePriority, l.loc, nil)
		case '&':
			l.pending = token.New(token.AND, l.basePriority, l.loc, nil)
		case '|':
			l.pending = token.New(token.OR, l.basePriority, l.loc, nil)

		case '\\':
			if l.backslashPending {
				l.backslashPending = false
				l.inLineComment = true
				l.pos++
				continue
			}
			l.backslashPending = true
			l.pos++
			continue

		case '(':
			l.parenDepth++
			tokens = append(tokens, token.New(token.PARENTHESIS, l.basePriority, l.loc, byte('(')))
			l.basePriority += token.MaxPriority
			l.pos++
			continue
		case ')':
			l.parenDepth--
			l.basePriority -= token.MaxPriority
			tokens = append(tokens, token.New(token.PARENTHESIS, l.basePriority, l.loc, byte(')')))
			l.pos++
			continue

		case '{':
			tokens = append(tokens, token.New(token.CURLY_BRACKET, l.basePriority, l.loc, byte('{')))
			l.pos++
			continue
		case '}':
			tokens = append(tokens, token.New(token.CURLY_BRACKET, l.basePriority, l.loc, byte('}')))
			l.pos++
			continue

		case '[':
			l.bracketDepth++
			tokens = append(tokens, token.New(token.SQUARE_BRACKET, l.basePriority, l.loc, byte('[')))
			l.basePriority += token.MaxPriority
			l.pos++
			continue
		case ']':
			l.bracketDepth--
			l.basePriority -= token.MaxPriority
			tokens = append(tokens, token.New(token.SQUARE_BRACKET, l.basePriority, l.loc, byte(']')))
			l.pos++
			continue

		case ',':
			tokens = append(tokens, token.New(token.COMMA, l.basePriority, l.loc, nil))
			l.pos++
			continue
		case ';':
			tokens = append(tokens, token.New(token.SEMICOLON, l.basePriority, l.loc, nil))
			l.pos++
			continue

		case ' ', '\t', '\r':
			l.pos++
			continue
		case '\n':
			l.advanceLine()
			l.pos++
			continue

		default:
			return nil, diag.New(diag.UnexpectedCharacter, l.loc, "unexpected character %q", ch)
		}

		l.pos++
	}

	if l.pending != nil {
		tokens = append(tokens, l.pending)
		l.pending = nil
	}

	if l.backslashPending {
		return nil, diag.New(diag.UnexpectedCharacter, l.loc, "unexpected character '\\'")
	}
	if l.parenDepth != 0 {
		return nil, diag.New(diag.UnbalancedParentheses, l.loc, "unbalanced parenthesis")
	}
	if l.bracketDepth != 0 {
		return nil, diag.New(diag.UnbalancedSquareBrackets, l.loc, "unbalanced square brackets")
	}

	return tokens, nil
}

func (l *Lexer) advanceLine() {
	l.loc.Line++
	l.loc.LineStart = l.pos + 1
}

// extendPending feeds ch to the currently pending token. It returns
// (true, nil) when ch was consumed as part of (or a promotion of, or a
// close of) the pending token and the caller should move to the next
// character without re-checking ch against the "start of a new token"
// rules; it returns (false, nil) when the pending token is done and ch
// still needs to be processed as the start of whatever comes next — the
// same two-phase shape as src/tokenizer.py's per-character dispatch, where
// falling out of the inner match re-enters the top-level character
// dispatch for the very same character.
func (l *Lexer) extendPending(ch rune, tokens *[]*token.Token) (bool, error) {
	p := l.pending

	switch p.Kind {
	case token.NUMBER:
		if isDigit(ch) {
			n := p.Value.(token.Number)
			n.I = n.I*10 + int64(ch-'0')
			p.Value = n
			l.pos++
			return true, nil
		}

	case token.STRING:
		if ch != '"' {
			p.Value = p.Value.(string) + string(ch)
			l.pos++
			return true, nil
		}
		*tokens = append(*tokens, p)
		l.pending = nil
		l.pos++
		return true, nil

	case token.PLUS:
		switch ch {
		case '+':
			*tokens = append(*tokens, token.New(token.INCREMENT, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		case '=':
			*tokens = append(*tokens, token.New(token.ASSIGNMENT_ADD, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.MINUS:
		switch ch {
		case '-':
			*tokens = append(*tokens, token.New(token.DECREMENT, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		case '=':
			*tokens = append(*tokens, token.New(token.ASSIGNMENT_SUB, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.MULTIPLY:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.ASSIGNMENT_MUL, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.DIVIDE:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.ASSIGNMENT_DIV, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.MODULO:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.ASSIGNMENT_MOD, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.ASSIGNMENT:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.EQUAL, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.NOT:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.NOT_EQUAL, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.AND:
		if ch == '&' {
			*tokens = append(*tokens, token.New(token.AND, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}
		return false, diag.New(diag.UnexpectedCharacter, l.loc, "lone '&' is not a valid operator")

	case token.OR:
		if ch == '|' {
			*tokens = append(*tokens, token.New(token.OR, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}
		return false, diag.New(diag.UnexpectedCharacter, l.loc, "lone '|' is not a valid operator")

	case token.GREATER_THAN:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.GREATER_THAN_OR_EQUAL, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.LESS_THAN:
		if ch == '=' {
			*tokens = append(*tokens, token.New(token.LESS_THAN_OR_EQUAL, l.basePriority, l.loc, nil))
			l.pending = nil
			l.pos++
			return true, nil
		}

	case token.IDENTIFIER:
		if isIdentifierPart(ch) {
			p.Value = p.Value.(string) + string(ch)
			if l.pos != len(l.source)-1 {
				// More characters may still extend the identifier.
				// closeIdentifier only matters once the spelling is
				// final, so it is applied only at the last character or
				// when a non-identifier character follows.
				l.pos++
				return true, nil
			}
			// Last character of the source: the identifier is complete,
			// close it for good and stop — there is nothing left to
			// reprocess ch against.
			l.closeIdentifier(p)
			*tokens = append(*tokens, p)
			l.pending = nil
			l.pos++
			return true, nil
		}
		l.closeIdentifier(p)
	}

	*tokens = append(*tokens, l.pending)
	l.pending = nil
	return false, nil
}

// closeIdentifier rewrites p in place to a keyword kind if its spelling is
// reserved, exactly as src/tokenizer.py does on identifier close.
func (l *Lexer) closeIdentifier(p *token.Token) {
	word := p.Value.(string)
	kind, ok := token.LookupKeyword(word)
	if !ok {
		return
	}
	if kind == token.BOOLEAN {
		p.Kind = token.BOOLEAN
		p.Value = word == "true"
	} else {
		p.Kind = kind
		p.Value = nil
	}

	p.Priority = 0
	if bp := token.BasePriority(kind); bp != 0 {
		p.Priority = l.basePriority + bp
	}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentifierPart(ch rune) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}
