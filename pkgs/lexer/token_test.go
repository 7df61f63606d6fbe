package lexer

import "testing"

func TestTokenTypeSymbols(t *testing.T) {
	tests := []struct {
		tokenType TokenType
		symbol    string
	}{
		{ERROR, "error"},
		{EOF, "EOF"},
		{INDENT, "indent"},
		{DEDENT, "dedent"},
		{IDENTIFIER, "identifier"},
		{BOOLEAN, "bool"},
		{NUMBER, "number"},
		{STRING, "string"},
		{IF, "if"},
		{ELIF, "elif"},
		{ELSE, "else"},
		{WHILE, "while"},
		{AND, "and"},
		{OR, "or"},
		{NOT, "not"},
		{STAR, "*"},
		{COLON, ":"},
		{SEMICOLON, ";"},
		{BANG, "!"},
		{COMMA, ","},
		{MINUS, "-"},
		{LBRACKET, "["},
		{LPAREN, "("},
		{PLUS, "+"},
		{RBRACKET, "]"},
		{RPAREN, ")"},
		{SLASH, "/"},
		{LT, "<"},
		{ASSIGN, "="},
		{GT, ">"},
		{EQ, "=="},
		{NEQ, "!="},
		{LTE, "<="},
		{GTE, ">="},
	}

	for _, test := range tests {
		if got := test.tokenType.Symbol(); got != test.symbol {
			t.Errorf("Symbol(%d) = %q, want %q", test.tokenType, got, test.symbol)
		}
	}
}

func TestLineCol(t *testing.T) {
	src := "abc\nde\n\nf"

	tests := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 1, 4},  // the line break itself
		{4, 2, 1},  // 'd'
		{5, 2, 2},  // 'e'
		{7, 3, 1},  // the empty line
		{8, 4, 1},  // 'f'
		{9, 4, 2},  // end of input
		{99, 4, 2}, // clamped
	}

	for _, test := range tests {
		line, col := LineCol(src, test.offset)
		if line != test.line || col != test.col {
			t.Errorf("LineCol(%d) = (%d, %d), want (%d, %d)", test.offset, line, col, test.line, test.col)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, word := range []string{"if", "elif", "else", "while", "and", "or", "not"} {
		if !IsKeyword(word) {
			t.Errorf("IsKeyword(%q) = false, want true", word)
		}
	}
	for _, word := range []string{"True", "False", "ifx", "For", ""} {
		if IsKeyword(word) {
			t.Errorf("IsKeyword(%q) = true, want false", word)
		}
	}
}
