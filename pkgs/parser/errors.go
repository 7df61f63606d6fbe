package parser

import (
	"fmt"

	"github.com/tabby-lang/tabby/pkgs/lexer"
)

// SyntaxError is the single failure value for the whole front end. Lexical
// failures reported by the scanner and grammar failures detected by the
// parser both surface as a SyntaxError, so callers observe one uniform
// error channel. It is immutable once constructed.
type SyntaxError struct {
	Source  string // the source text the offset refers to
	Message string
	Line    int // 1-based
	Column  int // 1-based
}

// Error formats the syntax error as "(<line>:<col>) <message>".
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("(%d:%d) %s", e.Line, e.Column, e.Message)
}

// NewSyntaxError creates a SyntaxError for the given byte offset, converting
// it to a line/column pair against src.
func NewSyntaxError(src string, offset int, format string, args ...interface{}) *SyntaxError {
	line, col := lexer.LineCol(src, offset)
	return &SyntaxError{
		Source:  src,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}
