package lexer

import (
	"fmt"
	"strings"
)

// Lexer tokenizes Tabby source with significant indentation.
//
// Scanning is pull-based: each NextToken call advances the input just far
// enough to produce one token. Indentation handling can synthesize several
// tokens at once (one DEDENT per closed block), so produced tokens are
// queued and handed out one per call.
//
// The failure protocol is sticky: once an ERROR token has been produced,
// every later NextToken call returns that same token again. Callers must
// treat ERROR as fatal.
type Lexer struct {
	input   string
	start   int     // beginning of the lexeme under construction
	pos     int     // read cursor
	pending []Token // produced but not yet delivered, front = next
	indents []int   // indentation depth stack, bottom sentinel 0
	errTok  Token   // the sticky error token, valid when failed
	failed  bool
}

// New creates a lexer for the given source. The source is expected to be
// free of trailing inline whitespace per line; see parser.CleanSource.
func New(input string) *Lexer {
	return &Lexer{
		input:   input,
		indents: []int{0},
	}
}

// NextToken returns the next token from the source. After the input is
// exhausted it returns EOF indefinitely; after a scan failure it returns
// the same ERROR token indefinitely.
func (l *Lexer) NextToken() Token {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok
		}
		if l.failed {
			return l.errTok
		}
		l.step()
	}
}

// TokenizeToSlice scans the whole input, stopping after EOF or ERROR.
func (l *Lexer) TokenizeToSlice() []Token {
	var result []Token
	for {
		tok := l.NextToken()
		result = append(result, tok)
		if tok.Type == EOF || tok.Type == ERROR {
			return result
		}
	}
}

// peek returns the character at the read cursor, or the eof sentinel once
// the input is exhausted, so stream exhaustion needs no special-casing in
// callers.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return eof
	}
	return l.input[l.pos]
}

// advance consumes and returns the character at the read cursor.
func (l *Lexer) advance() byte {
	ch := l.peek()
	if ch != eof {
		l.pos++
	}
	return ch
}

// accept consumes the next character if it is in valid.
func (l *Lexer) accept(valid string) bool {
	if ch := l.peek(); ch != eof && strings.IndexByte(valid, ch) >= 0 {
		l.pos++
		return true
	}
	return false
}

// acceptRun consumes characters while they are in valid.
func (l *Lexer) acceptRun(valid string) {
	for l.accept(valid) {
	}
}

// ignore discards the lexeme under construction.
func (l *Lexer) ignore() {
	l.start = l.pos
}

// emit queues a token for the current lexeme and starts the next one.
func (l *Lexer) emit(t TokenType) {
	l.pending = append(l.pending, Token{Type: t, Value: l.input[l.start:l.pos], Offset: l.start})
	l.start = l.pos
}

// errorf queues an ERROR token carrying the formatted message, positioned
// at the start of the current lexeme, and marks scanning permanently stuck.
func (l *Lexer) errorf(format string, args ...interface{}) {
	l.errTok = Token{Type: ERROR, Value: fmt.Sprintf(format, args...), Offset: l.start}
	l.failed = true
	l.pending = append(l.pending, l.errTok)
}

// step performs one dispatch on the character under the cursor, queuing
// zero or more tokens.
func (l *Lexer) step() {
	switch ch := l.peek(); {
	case ch == eof:
		// Force indentation back to depth 0 before the EOF itself.
		for len(l.indents) > 1 {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(DEDENT)
		}
		l.emit(EOF)
	case ch == lineBreak:
		l.scanIndentation()
	case isSpace[ch]:
		l.advance()
		l.ignore()
	case ch == commentStart:
		for l.peek() != lineBreak && l.peek() != eof {
			l.advance()
		}
		l.ignore()
	case isOperator[ch]:
		l.scanOperator()
	case ch == doubleQuote:
		l.scanString()
	case isDigit[ch]:
		l.scanNumber()
	case isIdentPart[ch]:
		l.scanIdentifier()
	default:
		l.advance()
		l.errorf("unexpected symbol: '%c'", ch)
	}
}

// scanIndentation handles a line break: blank lines collapse silently, and
// the leading-space depth of the next line is compared against the indent
// stack to synthesize INDENT and DEDENT tokens.
func (l *Lexer) scanIndentation() {
	l.acceptRun("\n")
	l.ignore()

	if l.peek() == eof {
		// The EOF dispatch unwinds the stack.
		return
	}

	depth := 0
	for l.peek() == ' ' {
		l.advance()
		depth++
	}

	if l.peek() == lineBreak {
		// A whitespace-only line with measured depth. Consecutive plain
		// line breaks were already collapsed above, so depth is nonzero.
		l.errorf("no trailing whitespace")
		return
	}
	l.ignore()

	top := l.indents[len(l.indents)-1]
	switch {
	case depth > top:
		l.indents = append(l.indents, depth)
		l.emit(INDENT)
	case depth < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > depth {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(DEDENT)
		}
		if l.indents[len(l.indents)-1] != depth {
			l.errorf("inconsistent indentation")
		}
	}
}

// scanOperator classifies an operator-start character into exactly one
// punctuation token, folding the two-character comparisons.
func (l *Lexer) scanOperator() {
	ch := l.advance()
	switch ch {
	case '*':
		l.emit(STAR)
	case ':':
		l.emit(COLON)
	case ';':
		l.emit(SEMICOLON)
	case ',':
		l.emit(COMMA)
	case '-':
		l.emit(MINUS)
	case '[':
		l.emit(LBRACKET)
	case '(':
		l.emit(LPAREN)
	case '+':
		l.emit(PLUS)
	case ']':
		l.emit(RBRACKET)
	case ')':
		l.emit(RPAREN)
	case '/':
		l.emit(SLASH)
	case '!':
		if l.accept("=") {
			l.emit(NEQ)
		} else {
			l.emit(BANG)
		}
	case '<':
		if l.accept("=") {
			l.emit(LTE)
		} else {
			l.emit(LT)
		}
	case '=':
		if l.accept("=") {
			l.emit(EQ)
		} else {
			l.emit(ASSIGN)
		}
	case '>':
		if l.accept("=") {
			l.emit(GTE)
		} else {
			l.emit(GT)
		}
	}
}

// scanString scans a double-quoted string literal. No escape sequences are
// processed; a line break or end of input before the closing quote is
// fatal.
func (l *Lexer) scanString() {
	l.advance() // opening quote
	for {
		switch l.peek() {
		case doubleQuote:
			l.advance()
			l.emit(STRING)
			return
		case lineBreak, eof:
			l.errorf("unterminated string")
			return
		default:
			l.advance()
		}
	}
}

// scanNumber scans digits with an optional fraction and exponent. An
// identifier character directly after an otherwise complete number makes
// the whole lexeme malformed.
func (l *Lexer) scanNumber() {
	const digits = "0123456789"
	l.acceptRun(digits)
	if l.accept(".") {
		l.acceptRun(digits)
	}
	if l.accept("eE") {
		l.accept("+-")
		l.acceptRun(digits)
	}
	if isIdentPart[l.peek()] {
		for isIdentPart[l.peek()] {
			l.advance()
		}
		l.errorf("bad number syntax: '%s'", l.input[l.start:l.pos])
		return
	}
	l.emit(NUMBER)
}

// scanIdentifier scans a maximal identifier run and classifies it as a
// keyword, a boolean literal, or a plain identifier.
func (l *Lexer) scanIdentifier() {
	for isIdentPart[l.peek()] {
		l.advance()
	}
	word := l.input[l.start:l.pos]
	switch {
	case IsKeyword(word):
		l.emit(keywords[word])
	case word == "True" || word == "False":
		l.emit(BOOLEAN)
	default:
		l.emit(IDENTIFIER)
	}
}
