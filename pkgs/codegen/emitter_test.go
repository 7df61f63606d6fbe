package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabby-lang/tabby/pkgs/parser"
)

func compile(t *testing.T, input string) *Bytecode {
	t.Helper()
	program, err := parser.Parse(input)
	require.NoError(t, err)
	bc, err := NewEmitter().Emit(program)
	require.NoError(t, err)
	return bc
}

func ins(op Opcode, arg uint32) uint32 {
	return uint32(op)<<24 | arg&0x00FFFFFF
}

func TestEmitAssignment(t *testing.T) {
	bc := compile(t, "x = 1;")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),
		ins(OpStore, 0),
		ins(OpHalt, 0),
	}, bc.Instructions)
	assert.Equal(t, []Constant{{Kind: ConstNumber, Number: 1}}, bc.Constants)
	assert.Equal(t, map[string]int{"x": 0}, bc.Slots)
}

func TestEmitArithmetic(t *testing.T) {
	bc := compile(t, "x = 1 + 2 * 3;")

	assert.Equal(t, []uint32{
		ins(OpConst, 0), // 1
		ins(OpConst, 1), // 2
		ins(OpConst, 2), // 3
		ins(OpMul, 0),
		ins(OpAdd, 0),
		ins(OpStore, 0),
		ins(OpHalt, 0),
	}, bc.Instructions)
}

func TestEmitExpressionStatementPops(t *testing.T) {
	bc := compile(t, "x = 1;\nx + 2;\n")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),
		ins(OpStore, 0),
		ins(OpLoad, 0),
		ins(OpConst, 1),
		ins(OpAdd, 0),
		ins(OpPop, 0),
		ins(OpHalt, 0),
	}, bc.Instructions)
}

func TestEmitUnaryAndComparison(t *testing.T) {
	bc := compile(t, "x = 1;\ny = -x;\nz = !(x < 2);\n")

	assert.Equal(t, []uint32{
		ins(OpConst, 0), // 1
		ins(OpStore, 0), // x
		ins(OpLoad, 0),
		ins(OpNeg, 0),
		ins(OpStore, 1), // y
		ins(OpLoad, 0),
		ins(OpConst, 1), // 2
		ins(OpLt, 0),
		ins(OpNot, 0),
		ins(OpStore, 2), // z
		ins(OpHalt, 0),
	}, bc.Instructions)
	assert.Equal(t, map[string]int{"x": 0, "y": 1, "z": 2}, bc.Slots)
}

func TestEmitArray(t *testing.T) {
	bc := compile(t, "x = [1, 2, 3];")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),
		ins(OpConst, 1),
		ins(OpConst, 2),
		ins(OpArray, 3),
		ins(OpStore, 0),
		ins(OpHalt, 0),
	}, bc.Instructions)
}

func TestEmitStringAndBool(t *testing.T) {
	bc := compile(t, "s = \"hi\";\nb = True;\n")

	assert.Equal(t, []Constant{
		{Kind: ConstString, Text: "hi"},
		{Kind: ConstBool, Bool: true},
	}, bc.Constants)
}

func TestEmitIf(t *testing.T) {
	bc := compile(t, "x = 1;\nif x < 2:\n  x = 3;\n")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),     // 0: 1
		ins(OpStore, 0),     // 1: x
		ins(OpLoad, 0),      // 2: x
		ins(OpConst, 1),     // 3: 2
		ins(OpLt, 0),        // 4
		ins(OpJumpFalse, 9), // 5: skip the body
		ins(OpConst, 2),     // 6: 3
		ins(OpStore, 0),     // 7
		ins(OpJump, 9),      // 8: to end
		ins(OpHalt, 0),      // 9
	}, bc.Instructions)
}

func TestEmitIfElse(t *testing.T) {
	bc := compile(t, "x = 1;\nif x:\n  y = 2;\nelse:\n  y = 3;\n")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),     // 0: 1
		ins(OpStore, 0),     // 1: x
		ins(OpLoad, 0),      // 2: x
		ins(OpJumpFalse, 7), // 3: to the else body
		ins(OpConst, 1),     // 4: 2
		ins(OpStore, 1),     // 5: y
		ins(OpJump, 9),      // 6: over the else body
		ins(OpConst, 2),     // 7: 3
		ins(OpStore, 1),     // 8: y
		ins(OpHalt, 0),      // 9
	}, bc.Instructions)
}

func TestEmitWhile(t *testing.T) {
	bc := compile(t, "i = 0;\nwhile i < 3:\n  i = i + 1;\n")

	assert.Equal(t, []uint32{
		ins(OpConst, 0),      // 0: 0
		ins(OpStore, 0),      // 1: i
		ins(OpLoad, 0),       // 2: loop head
		ins(OpConst, 1),      // 3: 3
		ins(OpLt, 0),         // 4
		ins(OpJumpFalse, 11), // 5: exit
		ins(OpLoad, 0),       // 6
		ins(OpConst, 2),      // 7: 1
		ins(OpAdd, 0),        // 8
		ins(OpStore, 0),      // 9
		ins(OpJump, 2),       // 10: back to the head
		ins(OpHalt, 0),       // 11
	}, bc.Instructions)
}

func TestEmitErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "undefined identifier",
			input: "x = y;",
			want:  "codegen: undefined identifier: y",
		},
		{
			name:  "assignment to non-identifier",
			input: "[1] = 2;",
			want:  "codegen: cannot assign to [ 1 ]",
		},
		{
			name:  "assignment used as a value",
			input: "x = 1;\ny = (x = 2);\n",
			want:  "codegen: assignment used as a value",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			program, err := parser.Parse(test.input)
			require.NoError(t, err)

			_, err = NewEmitter().Emit(program)
			require.Error(t, err)
			assert.Equal(t, test.want, err.Error())
		})
	}
}

func TestDisassemble(t *testing.T) {
	bc := compile(t, "x = 1;\nx + 2;\n")

	expected := "0000 CONST 0 ; 1\n" +
		"0001 STORE 0 ; x\n" +
		"0002 LOAD 0 ; x\n" +
		"0003 CONST 1 ; 2\n" +
		"0004 ADD\n" +
		"0005 POP\n" +
		"0006 HALT\n"
	assert.Equal(t, expected, Disassemble(bc))
}
