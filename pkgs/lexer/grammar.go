package lexer

// Character classification lookup tables, built once at init and read-only
// afterwards.
var (
	isSpace     [256]bool // inline whitespace: <= ' ', not a line break
	isOperator  [256]bool // characters that start a punctuation token
	isLetter    [256]bool
	isDigit     [256]bool
	isIdentPart [256]bool // letter, digit, or underscore
)

const (
	eof          = byte(0) // sentinel returned by peek at end of input
	lineBreak    = byte('\n')
	commentStart = byte('#')
	doubleQuote  = byte('"')
)

func init() {
	for _, ch := range []byte("*:;!,-[(+])/<=>") {
		isOperator[ch] = true
	}
	for i := 0; i < 256; i++ {
		ch := byte(i)
		isSpace[i] = ch <= ' ' && ch != lineBreak && ch != eof
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentPart[i] = isLetter[i] || isDigit[i] || ch == '_'
	}
}

// keywords maps each reserved spelling to its token type. The boolean
// spellings True and False are not keywords; scanIdentifier classifies them
// separately.
var keywords = map[string]TokenType{
	"and":   AND,
	"not":   NOT,
	"or":    OR,
	"if":    IF,
	"elif":  ELIF,
	"else":  ELSE,
	"while": WHILE,
}

// IsKeyword reports whether word is one of the reserved spellings.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
