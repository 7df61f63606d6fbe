package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxErrorFormat(t *testing.T) {
	err := &SyntaxError{Message: "unexpected '*'", Line: 3, Column: 7}
	assert.Equal(t, "(3:7) unexpected '*'", err.Error())
}

func TestNewSyntaxErrorPositions(t *testing.T) {
	src := "a = 1;\nb = $;\n"

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{7, 2, 1},
		{11, 2, 5},
		{len(src), 3, 1},
	}

	for _, test := range tests {
		err := NewSyntaxError(src, test.offset, "boom")
		assert.Equal(t, test.line, err.Line, "offset %d", test.offset)
		assert.Equal(t, test.column, err.Column, "offset %d", test.offset)
	}
}

func TestNewSyntaxErrorFormatsMessage(t *testing.T) {
	err := NewSyntaxError("x", 0, "expected '%s', got '%s'", ";", "EOF")
	assert.Equal(t, "(1:1) expected ';', got 'EOF'", err.Error())
}
