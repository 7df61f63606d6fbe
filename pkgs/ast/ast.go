package ast

import (
	"fmt"
	"strings"

	"github.com/tabby-lang/tabby/pkgs/lexer"
)

// Node represents any node in the AST. String returns the canonical textual
// rendering used to verify structure in tests.
type Node interface {
	String() string
	Pos() int // byte offset of the node's first token
}

// Statement is any node usable in a statement position.
type Statement interface {
	Node
	IsStatement() bool
	render(b *strings.Builder, indent string)
}

// Expression is any node usable in an expression position. Expressions
// always render on a single line.
type Expression interface {
	Node
	IsExpression() bool
}

// Program is the root node: the ordered top-level statements of one source
// text.
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	return renderStatements(p.Statements)
}

func (p *Program) Pos() int {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return 0
}

// Block is the body of an if, elif, else, or while clause. It is never
// empty; the parser guarantees at least one statement between the INDENT
// and DEDENT delimiters.
type Block struct {
	Statements []Statement
}

func (b *Block) String() string {
	return renderStatements(b.Statements)
}

func (b *Block) Pos() int {
	if len(b.Statements) > 0 {
		return b.Statements[0].Pos()
	}
	return 0
}

func renderStatements(stmts []Statement) string {
	var b strings.Builder
	for i, s := range stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		s.render(&b, "")
	}
	return b.String()
}

// IfStmt is an if statement with zero or more elif clauses and an optional
// else block.
type IfStmt struct {
	Cond  Expression
	Then  *Block
	Elifs []ElifClause
	Else  *Block // nil when absent
}

// ElifClause is one elif arm of an IfStmt.
type ElifClause struct {
	Cond Expression
	Body *Block
}

func (s *IfStmt) String() string { return renderStatement(s) }

func (s *IfStmt) Pos() int { return s.Cond.Pos() }

func (s *IfStmt) IsStatement() bool { return true }

// render writes "(if (<cond>)" with the primary block, each elif clause,
// and the else block's statements each indented two spaces under their
// enclosing header.
func (s *IfStmt) render(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%s(if (%s)", indent, s.Cond.String())
	inner := indent + "  "
	for _, st := range s.Then.Statements {
		b.WriteByte('\n')
		st.render(b, inner)
	}
	for _, cl := range s.Elifs {
		b.WriteByte('\n')
		fmt.Fprintf(b, "%s(elif (%s)", inner, cl.Cond.String())
		for _, st := range cl.Body.Statements {
			b.WriteByte('\n')
			st.render(b, inner+"  ")
		}
		b.WriteByte(')')
	}
	if s.Else != nil {
		for _, st := range s.Else.Statements {
			b.WriteByte('\n')
			st.render(b, inner)
		}
	}
	b.WriteByte(')')
}

// WhileStmt is a while loop.
type WhileStmt struct {
	Cond Expression
	Body *Block
}

func (s *WhileStmt) String() string { return renderStatement(s) }

func (s *WhileStmt) Pos() int { return s.Cond.Pos() }

func (s *WhileStmt) IsStatement() bool { return true }

func (s *WhileStmt) render(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%s(while (%s)", indent, s.Cond.String())
	for _, st := range s.Body.Statements {
		b.WriteByte('\n')
		st.render(b, indent+"  ")
	}
	b.WriteByte(')')
}

// ExprStmt is a single expression used as a statement. Assignment is an
// ordinary binary expression with operator '=', not a distinct statement
// kind.
type ExprStmt struct {
	X Expression
}

func (s *ExprStmt) String() string { return s.X.String() }

func (s *ExprStmt) Pos() int { return s.X.Pos() }

func (s *ExprStmt) IsStatement() bool { return true }

func (s *ExprStmt) render(b *strings.Builder, indent string) {
	b.WriteString(indent)
	b.WriteString(s.X.String())
}

func renderStatement(s Statement) string {
	var b strings.Builder
	s.render(&b, "")
	return b.String()
}

// Ident is a plain identifier.
type Ident struct {
	Tok lexer.Token
}

func (e *Ident) String() string { return e.Tok.Value }

func (e *Ident) Pos() int { return e.Tok.Offset }

func (e *Ident) IsExpression() bool { return true }

// BoolLit is the literal True or False.
type BoolLit struct {
	Tok lexer.Token
}

func (e *BoolLit) String() string { return e.Tok.Value }

func (e *BoolLit) Pos() int { return e.Tok.Offset }

func (e *BoolLit) IsExpression() bool { return true }

// NumLit is a number literal; the raw lexeme is preserved untouched.
type NumLit struct {
	Tok lexer.Token
}

func (e *NumLit) String() string { return e.Tok.Value }

func (e *NumLit) Pos() int { return e.Tok.Offset }

func (e *NumLit) IsExpression() bool { return true }

// StrLit is a string literal including its surrounding quotes.
type StrLit struct {
	Tok lexer.Token
}

func (e *StrLit) String() string { return e.Tok.Value }

func (e *StrLit) Pos() int { return e.Tok.Offset }

func (e *StrLit) IsExpression() bool { return true }

// ArrLit is an array literal with its ordered element expressions.
type ArrLit struct {
	Lbrack lexer.Token
	Elems  []Expression
}

func (e *ArrLit) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, el := range e.Elems {
		b.WriteString(el.String())
		b.WriteByte(' ')
	}
	b.WriteByte(']')
	return b.String()
}

func (e *ArrLit) Pos() int { return e.Lbrack.Offset }

func (e *ArrLit) IsExpression() bool { return true }

// UnaryExpr is a prefix operator applied to one operand.
type UnaryExpr struct {
	Op lexer.Token
	X  Expression
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %s)", e.Op.Type.Symbol(), e.X.String())
}

func (e *UnaryExpr) Pos() int { return e.Op.Offset }

func (e *UnaryExpr) IsExpression() bool { return true }

// BinaryExpr is an infix operator with its left and right operands.
type BinaryExpr struct {
	Op    lexer.Token
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op.Type.Symbol(), e.Left.String(), e.Right.String())
}

func (e *BinaryExpr) Pos() int { return e.Left.Pos() }

func (e *BinaryExpr) IsExpression() bool { return true }

// Walk traverses the AST in depth-first order, calling fn for each node.
// Traversal below a node stops when fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Walk(s, fn)
		}
	case *Block:
		for _, s := range n.Statements {
			Walk(s, fn)
		}
	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		for _, cl := range n.Elifs {
			Walk(cl.Cond, fn)
			Walk(cl.Body, fn)
		}
		if n.Else != nil {
			Walk(n.Else, fn)
		}
	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *ExprStmt:
		Walk(n.X, fn)
	case *ArrLit:
		for _, el := range n.Elems {
			Walk(el, fn)
		}
	case *UnaryExpr:
		Walk(n.X, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}
