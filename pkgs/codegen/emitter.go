package codegen

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/tabby-lang/tabby/pkgs/ast"
	"github.com/tabby-lang/tabby/pkgs/lexer"
)

// Opcode identifies one stack-machine instruction. Instructions are packed
// into a uint32 with the opcode in the high byte and the operand in the low
// 24 bits.
type Opcode uint8

const (
	OpConst     Opcode = iota // push constants[arg]
	OpLoad                    // push local slot arg
	OpStore                   // pop into local slot arg
	OpPop                     // discard the top of stack
	OpAdd                     // pop two, push sum
	OpSub                     // pop two, push difference
	OpMul                     // pop two, push product
	OpDiv                     // pop two, push quotient
	OpEq                      // pop two, push equality
	OpNeq                     // pop two, push inequality
	OpLt                      // pop two, push less-than
	OpGt                      // pop two, push greater-than
	OpLte                     // pop two, push less-or-equal
	OpGte                     // pop two, push greater-or-equal
	OpNeg                     // pop one, push arithmetic negation
	OpNot                     // pop one, push logical negation
	OpArray                   // pop arg elements, push an array
	OpJump                    // jump to instruction arg
	OpJumpFalse               // pop; jump to instruction arg when false
	OpHalt                    // stop
)

var opNames = [...]string{
	OpConst:     "CONST",
	OpLoad:      "LOAD",
	OpStore:     "STORE",
	OpPop:       "POP",
	OpAdd:       "ADD",
	OpSub:       "SUB",
	OpMul:       "MUL",
	OpDiv:       "DIV",
	OpEq:        "EQ",
	OpNeq:       "NEQ",
	OpLt:        "LT",
	OpGt:        "GT",
	OpLte:       "LTE",
	OpGte:       "GTE",
	OpNeg:       "NEG",
	OpNot:       "NOT",
	OpArray:     "ARRAY",
	OpJump:      "JUMP",
	OpJumpFalse: "JUMPF",
	OpHalt:      "HALT",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Opcode(" + strconv.Itoa(int(op)) + ")"
}

// ConstKind discriminates the constant pool entries.
type ConstKind int

const (
	ConstNumber ConstKind = iota
	ConstString
	ConstBool
)

// Constant is one constant pool entry.
type Constant struct {
	Kind   ConstKind
	Number float64
	Text   string
	Bool   bool
}

// Bytecode is the emitted instruction stream with its constant pool and the
// local slot assignment, ready for a downstream virtual machine.
type Bytecode struct {
	Instructions []uint32
	Constants    []Constant
	Slots        map[string]int
}

// Emitter lowers a parsed program to stack-machine instructions. Every AST
// node variant is handled; an unknown variant is reported as an error
// rather than skipped.
type Emitter struct {
	instructions []uint32
	constants    []Constant
	slots        map[string]int
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{slots: make(map[string]int)}
}

// Emit lowers the program and terminates the stream with HALT.
func (e *Emitter) Emit(prog *ast.Program) (*Bytecode, error) {
	for _, stmt := range prog.Statements {
		if err := e.emitStatement(stmt); err != nil {
			return nil, err
		}
	}
	e.emitOp(OpHalt, 0)

	return &Bytecode{
		Instructions: e.instructions,
		Constants:    e.constants,
		Slots:        e.slots,
	}, nil
}

func (e *Emitter) emitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		// An assignment leaves nothing on the stack; any other
		// expression statement discards its value.
		if bin, ok := s.X.(*ast.BinaryExpr); ok && bin.Op.Type == lexer.ASSIGN {
			return e.emitAssignment(bin)
		}
		if err := e.emitExpression(s.X); err != nil {
			return err
		}
		e.emitOp(OpPop, 0)
		return nil

	case *ast.IfStmt:
		return e.emitIf(s)

	case *ast.WhileStmt:
		return e.emitWhile(s)

	default:
		return errors.Errorf("codegen: unhandled statement %T", stmt)
	}
}

func (e *Emitter) emitBlock(block *ast.Block) error {
	for _, stmt := range block.Statements {
		if err := e.emitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// emitIf lowers the clause chain to a ladder of conditional jumps, each
// clause body ending in a jump to the common end, back-patched once the
// end address is known.
func (e *Emitter) emitIf(s *ast.IfStmt) error {
	var endJumps []int

	emitClause := func(cond ast.Expression, body *ast.Block) error {
		if err := e.emitExpression(cond); err != nil {
			return err
		}
		skip := e.emitOp(OpJumpFalse, 0)
		if err := e.emitBlock(body); err != nil {
			return err
		}
		endJumps = append(endJumps, e.emitOp(OpJump, 0))
		e.patch(skip, len(e.instructions))
		return nil
	}

	if err := emitClause(s.Cond, s.Then); err != nil {
		return err
	}
	for _, cl := range s.Elifs {
		if err := emitClause(cl.Cond, cl.Body); err != nil {
			return err
		}
	}
	if s.Else != nil {
		if err := e.emitBlock(s.Else); err != nil {
			return err
		}
	}

	end := len(e.instructions)
	for _, at := range endJumps {
		e.patch(at, end)
	}
	return nil
}

func (e *Emitter) emitWhile(s *ast.WhileStmt) error {
	start := len(e.instructions)
	if err := e.emitExpression(s.Cond); err != nil {
		return err
	}
	exit := e.emitOp(OpJumpFalse, 0)
	if err := e.emitBlock(s.Body); err != nil {
		return err
	}
	e.emitOp(OpJump, uint32(start))
	e.patch(exit, len(e.instructions))
	return nil
}

func (e *Emitter) emitAssignment(bin *ast.BinaryExpr) error {
	target, ok := bin.Left.(*ast.Ident)
	if !ok {
		return errors.Errorf("codegen: cannot assign to %s", bin.Left.String())
	}
	if err := e.emitExpression(bin.Right); err != nil {
		return err
	}
	e.emitOp(OpStore, uint32(e.slot(target.Tok.Value)))
	return nil
}

func (e *Emitter) emitExpression(expr ast.Expression) error {
	switch x := expr.(type) {
	case *ast.Ident:
		idx, ok := e.slots[x.Tok.Value]
		if !ok {
			return errors.Errorf("codegen: undefined identifier: %s", x.Tok.Value)
		}
		e.emitOp(OpLoad, uint32(idx))
		return nil

	case *ast.BoolLit:
		e.emitOp(OpConst, uint32(e.addConstant(Constant{Kind: ConstBool, Bool: x.Tok.Value == "True"})))
		return nil

	case *ast.NumLit:
		val, err := strconv.ParseFloat(x.Tok.Value, 64)
		if err != nil {
			return errors.Wrapf(err, "codegen: number literal %q", x.Tok.Value)
		}
		e.emitOp(OpConst, uint32(e.addConstant(Constant{Kind: ConstNumber, Number: val})))
		return nil

	case *ast.StrLit:
		// The lexeme keeps its quotes; the pool stores the body.
		text := x.Tok.Value
		if len(text) >= 2 {
			text = text[1 : len(text)-1]
		}
		e.emitOp(OpConst, uint32(e.addConstant(Constant{Kind: ConstString, Text: text})))
		return nil

	case *ast.ArrLit:
		for _, el := range x.Elems {
			if err := e.emitExpression(el); err != nil {
				return err
			}
		}
		e.emitOp(OpArray, uint32(len(x.Elems)))
		return nil

	case *ast.UnaryExpr:
		if err := e.emitExpression(x.X); err != nil {
			return err
		}
		switch x.Op.Type {
		case lexer.MINUS:
			e.emitOp(OpNeg, 0)
		case lexer.BANG:
			e.emitOp(OpNot, 0)
		default:
			return errors.Errorf("codegen: unhandled unary operator '%s'", x.Op.Type.Symbol())
		}
		return nil

	case *ast.BinaryExpr:
		if x.Op.Type == lexer.ASSIGN {
			// Assignment is statement-shaped in the instruction set.
			return errors.Errorf("codegen: assignment used as a value")
		}
		if err := e.emitExpression(x.Left); err != nil {
			return err
		}
		if err := e.emitExpression(x.Right); err != nil {
			return err
		}
		op, ok := binaryOps[x.Op.Type]
		if !ok {
			return errors.Errorf("codegen: unhandled binary operator '%s'", x.Op.Type.Symbol())
		}
		e.emitOp(op, 0)
		return nil

	default:
		return errors.Errorf("codegen: unhandled expression %T", expr)
	}
}

var binaryOps = map[lexer.TokenType]Opcode{
	lexer.PLUS:  OpAdd,
	lexer.MINUS: OpSub,
	lexer.STAR:  OpMul,
	lexer.SLASH: OpDiv,
	lexer.EQ:    OpEq,
	lexer.NEQ:   OpNeq,
	lexer.LT:    OpLt,
	lexer.GT:    OpGt,
	lexer.LTE:   OpLte,
	lexer.GTE:   OpGte,
}

// emitOp appends one packed instruction and returns its index for
// back-patching.
func (e *Emitter) emitOp(op Opcode, arg uint32) int {
	e.instructions = append(e.instructions, uint32(op)<<24|arg&0x00FFFFFF)
	return len(e.instructions) - 1
}

func (e *Emitter) patch(at, target int) {
	op := e.instructions[at] & 0xFF000000
	e.instructions[at] = op | uint32(target)&0x00FFFFFF
}

func (e *Emitter) addConstant(c Constant) int {
	e.constants = append(e.constants, c)
	return len(e.constants) - 1
}

func (e *Emitter) slot(name string) int {
	if idx, ok := e.slots[name]; ok {
		return idx
	}
	idx := len(e.slots)
	e.slots[name] = idx
	return idx
}
