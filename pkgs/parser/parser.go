package parser

import (
	"github.com/tabby-lang/tabby/pkgs/ast"
	"github.com/tabby-lang/tabby/pkgs/lexer"
)

// Precedence is a binding level for the expression parser. Operators bind
// tighter at higher levels; token types without a tabled level sit at
// Lowest, which is what lets expression parsing stop cleanly at statement
// and expression terminators.
type Precedence int

const (
	Lowest     Precedence = iota
	Assignment            // =
	Equality              // == !=
	Relative              // < > <= >=
	Sum                   // + -
	Product               // * /
	Prefix                // unary - !
	Attribute             // call/index/member, reserved for future grammar
)

// precedences maps every operator token type to exactly one binding level.
// It is built once and read-only afterwards, safely shared across
// concurrent parses.
var precedences = [...]Precedence{
	lexer.ASSIGN: Assignment,
	lexer.EQ:     Equality,
	lexer.NEQ:    Equality,
	lexer.LT:     Relative,
	lexer.GT:     Relative,
	lexer.LTE:    Relative,
	lexer.GTE:    Relative,
	lexer.PLUS:   Sum,
	lexer.MINUS:  Sum,
	lexer.STAR:   Product,
	lexer.SLASH:  Product,
	lexer.BANG:   Prefix,
}

func precedenceOf(t lexer.TokenType) Precedence {
	if int(t) < len(precedences) {
		return precedences[t]
	}
	return Lowest
}

// hasInfixRule reports whether the token type can continue an expression as
// an infix operator.
func hasInfixRule(t lexer.TokenType) bool {
	switch t {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH,
		lexer.EQ, lexer.NEQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.ASSIGN:
		return true
	}
	return false
}

// isExpressionEnd reports whether the token type may legally follow a
// complete expression without continuing it.
func isExpressionEnd(t lexer.TokenType) bool {
	switch t {
	case lexer.SEMICOLON, lexer.EOF, lexer.RBRACKET, lexer.RPAREN, lexer.COMMA:
		return true
	}
	return false
}

// Parser builds the AST from a lazily pulled token stream with one token of
// lookahead. Parsing is fail-fast: the first error aborts and no recovery
// is attempted.
type Parser struct {
	lex *lexer.Lexer
	src string
	cur lexer.Token
}

// Parse cleans the input of trailing inline whitespace, scans and parses
// it, and returns the Program root or the first syntax error encountered.
func Parse(input string) (*ast.Program, error) {
	src := CleanSource(input)
	p := &Parser{lex: lexer.New(src), src: src}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

// advance pulls the next token. A sticky ERROR token from the scanner is
// converted here into the uniform SyntaxError channel.
func (p *Parser) advance() error {
	tok := p.lex.NextToken()
	if tok.Type == lexer.ERROR {
		return NewSyntaxError(p.src, tok.Offset, "%s", tok.Value)
	}
	p.cur = tok
	return nil
}

// expect consumes one token of the required type or fails with
// "expected '<symbol>', got '<symbol>'" at the offending token.
func (p *Parser) expect(t lexer.TokenType) error {
	if p.cur.Type != t {
		return NewSyntaxError(p.src, p.cur.Offset, "expected '%s', got '%s'", t.Symbol(), p.cur.Type.Symbol())
	}
	return p.advance()
}

// unexpected fails with "unexpected '<symbol>'" at the given token.
func (p *Parser) unexpected(tok lexer.Token) error {
	return NewSyntaxError(p.src, tok.Offset, "unexpected '%s'", tok.Type.Symbol())
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for p.cur.Type != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// parseStatement dispatches on the leading keyword; anything that is not an
// if or while statement is an expression statement.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseIfStatement parses: if <expr> : <block> (elif <expr> : <block>)*
// (else : <block>)?
func (p *Parser) parseIfStatement() (*ast.IfStmt, error) {
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}

	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Cond: cond, Then: then}

	for p.cur.Type == lexer.ELIF {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elifCond, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Cond: elifCond, Body: body})
	}

	if p.cur.Type == lexer.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		stmt.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

// parseWhileStatement parses: while <expr> : <block>
func (p *Parser) parseWhileStatement() (*ast.WhileStmt, error) {
	if err := p.advance(); err != nil { // consume 'while'
		return nil, err
	}

	cond, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.WhileStmt{Cond: cond, Body: body}, nil
}

// parseBlock parses: ':' INDENT statement+ DEDENT. The scanner's
// indentation invariant guarantees every INDENT is answered by a DEDENT, so
// a block is always properly delimited.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.INDENT); err != nil {
		return nil, err
	}

	block := &ast.Block{}
	for {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		if p.cur.Type == lexer.DEDENT {
			break
		}
	}

	if err := p.expect(lexer.DEDENT); err != nil {
		return nil, err
	}
	return block, nil
}

// parseExpressionStatement parses one expression and its statement
// terminator (';' or end of input).
func (p *Parser) parseExpressionStatement() (*ast.ExprStmt, error) {
	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	if !isExpressionEnd(p.cur.Type) {
		return nil, p.unexpected(p.cur)
	}
	if p.cur.Type != lexer.SEMICOLON && p.cur.Type != lexer.EOF {
		return nil, NewSyntaxError(p.src, p.cur.Offset, "expected '%s', got '%s'",
			lexer.SEMICOLON.Symbol(), p.cur.Type.Symbol())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return &ast.ExprStmt{X: expr}, nil
}

// parseExpression is the precedence-climbing core: a prefix rule produces
// the initial expression, then infix rules extend it while the next token
// binds strictly tighter than min.
func (p *Parser) parseExpression(min Precedence) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for precedenceOf(p.cur.Type) > min {
		if !hasInfixRule(p.cur.Type) {
			if !isExpressionEnd(p.cur.Type) {
				return nil, p.unexpected(p.cur)
			}
			return left, nil
		}
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix dispatches on the current token to a prefix construction
// rule.
func (p *Parser) parsePrefix() (ast.Expression, error) {
	tok := p.cur
	switch tok.Type {
	case lexer.IDENTIFIER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Ident{Tok: tok}, nil
	case lexer.BOOLEAN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BoolLit{Tok: tok}, nil
	case lexer.NUMBER:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.NumLit{Tok: tok}, nil
	case lexer.STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.StrLit{Tok: tok}, nil
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LPAREN:
		return p.parseGroupedExpression()
	case lexer.MINUS, lexer.BANG:
		return p.parseUnaryExpression()
	default:
		return nil, p.unexpected(tok)
	}
}

// parseInfix combines the already-parsed left expression with the operator
// under the cursor and a freshly parsed right side. The right side is
// parsed at the operator's own level, which makes every binary operator
// left-associative.
func (p *Parser) parseInfix(left ast.Expression) (ast.Expression, error) {
	op := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	right, err := p.parseExpression(precedenceOf(op.Type))
	if err != nil {
		return nil, err
	}

	return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseUnaryExpression() (*ast.UnaryExpr, error) {
	op := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	operand, err := p.parseExpression(Prefix)
	if err != nil {
		return nil, err
	}

	return &ast.UnaryExpr{Op: op, X: operand}, nil
}

// parseArrayLiteral parses: '[' (expr (',' expr)* ','?)? ']'. The empty
// array and a trailing comma are both permitted.
func (p *Parser) parseArrayLiteral() (*ast.ArrLit, error) {
	lbrack := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}

	arr := &ast.ArrLit{Lbrack: lbrack}
	for p.cur.Type != lexer.RBRACKET {
		elem, err := p.parseExpression(Lowest)
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, elem)

		if p.cur.Type != lexer.COMMA {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return arr, nil
}

// parseGroupedExpression parses: '(' expr ')'. Grouping contributes only
// the inner expression; no wrapper node is produced.
func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression(Lowest)
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}
