package lexer

import "fmt"

// TokenType represents the type of token in Tabby.
//
// The set is closed: special tokens synthesized by the scanner (ERROR, EOF,
// INDENT, DEDENT), word-like tokens, literals, and punctuation. Every type
// has exactly one canonical symbol string, used for parser dispatch and for
// error messages.
type TokenType int

const (
	// Special tokens
	ERROR TokenType = iota // sticky scan failure; Value carries the message
	EOF
	INDENT // synthesized when a line is indented deeper than the previous
	DEDENT // synthesized when indentation returns to a shallower depth

	// Word-like tokens
	IDENTIFIER
	AND   // and - reserved, no grammar rule yet
	NOT   // not - reserved, no grammar rule yet
	OR    // or - reserved, no grammar rule yet
	IF    // if
	ELIF  // elif
	ELSE  // else
	WHILE // while

	// Literals
	BOOLEAN // True, False
	NUMBER  // 42, 3.14, 1e-9
	STRING  // "text", no escape processing

	// Operators and punctuation
	STAR      // *
	COLON     // :
	SEMICOLON // ;
	BANG      // !
	COMMA     // ,
	MINUS     // -
	LBRACKET  // [
	LPAREN    // (
	PLUS      // +
	RBRACKET  // ]
	RPAREN    // )
	SLASH     // /
	LT        // <
	ASSIGN    // =
	GT        // >
	EQ        // ==
	NEQ       // !=
	LTE       // <=
	GTE       // >=
)

// tokenSymbols is the canonical display string for every token type.
// Punctuation renders as its literal spelling, categorical types as fixed
// names. The table is total: the parser keys its dispatch on these strings
// and every error message renders through them.
var tokenSymbols = [...]string{
	ERROR:      "error",
	EOF:        "EOF",
	INDENT:     "indent",
	DEDENT:     "dedent",
	IDENTIFIER: "identifier",
	AND:        "and",
	NOT:        "not",
	OR:         "or",
	IF:         "if",
	ELIF:       "elif",
	ELSE:       "else",
	WHILE:      "while",
	BOOLEAN:    "bool",
	NUMBER:     "number",
	STRING:     "string",
	STAR:       "*",
	COLON:      ":",
	SEMICOLON:  ";",
	BANG:       "!",
	COMMA:      ",",
	MINUS:      "-",
	LBRACKET:   "[",
	LPAREN:     "(",
	PLUS:       "+",
	RBRACKET:   "]",
	RPAREN:     ")",
	SLASH:      "/",
	LT:         "<",
	ASSIGN:     "=",
	GT:         ">",
	EQ:         "==",
	NEQ:        "!=",
	LTE:        "<=",
	GTE:        ">=",
}

// Symbol returns the canonical display string for the token type.
func (t TokenType) Symbol() string {
	if int(t) < len(tokenSymbols) && int(t) >= 0 {
		return tokenSymbols[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

func (t TokenType) String() string { return t.Symbol() }

// Token is a single lexeme with its byte offset into the source. The offset
// is converted to a line/column pair only when an error is actually
// reported; see LineCol.
type Token struct {
	Type   TokenType
	Value  string // literal text; the message text for ERROR tokens
	Offset int
}

// LineCol converts a byte offset into 1-based line and column numbers by
// counting line breaks in src up to the offset.
func LineCol(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line, col = 1, 1
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
