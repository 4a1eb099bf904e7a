package token

// keywordTable is the fixed mapping from reserved spellings to token kinds,
// consulted by the lexer when an identifier closes. Grounded on
// src/keywords.py's keyword_table.
var keywordTable = map[string]Kind{
	"if":    IF,
	"else":  ELSE,
	"while": WHILE,
	"true":  BOOLEAN,
	"false": BOOLEAN,
	"null":  NULL,

	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
}

// LookupKeyword returns the kind a reserved word rewrites to, and whether
// word is in fact reserved.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywordTable[word]
	return k, ok
}
