package codegen

import (
	"fmt"
	"strings"
)

// Disassemble renders the instruction stream one instruction per line,
// with constant pool operands resolved inline.
func Disassemble(bc *Bytecode) string {
	var b strings.Builder
	for i, ins := range bc.Instructions {
		op := Opcode(ins >> 24)
		arg := ins & 0x00FFFFFF

		fmt.Fprintf(&b, "%04d %s", i, op)
		switch op {
		case OpConst:
			fmt.Fprintf(&b, " %d", arg)
			if int(arg) < len(bc.Constants) {
				fmt.Fprintf(&b, " ; %s", formatConstant(bc.Constants[arg]))
			}
		case OpLoad, OpStore:
			fmt.Fprintf(&b, " %d", arg)
			if name := slotName(bc.Slots, int(arg)); name != "" {
				fmt.Fprintf(&b, " ; %s", name)
			}
		case OpArray, OpJump, OpJumpFalse:
			fmt.Fprintf(&b, " %d", arg)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatConstant(c Constant) string {
	switch c.Kind {
	case ConstNumber:
		return fmt.Sprintf("%g", c.Number)
	case ConstString:
		return fmt.Sprintf("%q", c.Text)
	case ConstBool:
		if c.Bool {
			return "True"
		}
		return "False"
	}
	return "?"
}

func slotName(slots map[string]int, idx int) string {
	for name, i := range slots {
		if i == idx {
			return name
		}
	}
	return ""
}
