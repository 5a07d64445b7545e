package parser

import (
	"strconv"

	"github.com/roach88/qcore/internal/ast"
)

// Parse reads one SELECT statement:
//
//	SELECT (* | col [AS alias], ...) FROM table
//	[WHERE expr] [ORDER BY col [ASC|DESC], ...] [LIMIT n] [;]
//
// Errors are *Error.
func Parse(sql string) (*ast.SelectStatement, error) {
	tokens, err := Lex(sql)
	if err != nil {
		return nil, err
	}
	p := &parser{input: sql, tokens: tokens}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseExpression reads a standalone condition or value expression.
func ParseExpression(src string) (ast.Expression, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{input: src, tokens: tokens}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.unexpected(tok, "end of expression")
	}
	return e, nil
}

type parser struct {
	input  string
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isKeyword(word string) bool {
	tok := p.peek()
	return tok.Kind == TokenKeyword && tok.Text == word
}

func (p *parser) isSymbol(sym string) bool {
	tok := p.peek()
	return tok.Kind == TokenSymbol && tok.Text == sym
}

func (p *parser) acceptKeyword(word string) bool {
	if p.isKeyword(word) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) acceptSymbol(sym string) bool {
	if p.isSymbol(sym) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectKeyword(word string) error {
	if !p.acceptKeyword(word) {
		return p.unexpected(p.peek(), word)
	}
	return nil
}

func (p *parser) expectSymbol(sym string) error {
	if !p.acceptSymbol(sym) {
		return p.unexpected(p.peek(), "'"+sym+"'")
	}
	return nil
}

func (p *parser) expectIdent(what string) (string, error) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return "", p.unexpected(tok, what)
	}
	p.advance()
	return tok.Text, nil
}

func (p *parser) unexpected(tok Token, want string) *Error {
	return errorAt(p.input, tok.Pos, "expected %s, found %s", want, tok)
}

func (p *parser) parseSelect() (*ast.SelectStatement, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	stmt := &ast.SelectStatement{}
	if p.acceptSymbol("*") {
		stmt.SelectAll = true
	} else {
		for {
			el, err := p.parseSelectElement()
			if err != nil {
				return nil, err
			}
			stmt.SelectElements = append(stmt.SelectElements, el)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	table, err := p.expectIdent("table name")
	if err != nil {
		return nil, err
	}
	stmt.TableName = table

	if p.acceptKeyword("WHERE") {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = ast.Some(cond)
	}

	if p.acceptKeyword("ORDER") {
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			col, err := p.expectIdent("column name")
			if err != nil {
				return nil, err
			}
			el := ast.OrderByElement{Column: col}
			if p.acceptKeyword("DESC") {
				el.Descending = true
			} else {
				p.acceptKeyword("ASC")
			}
			stmt.OrderBy = append(stmt.OrderBy, el)
			if !p.acceptSymbol(",") {
				break
			}
		}
	}

	if p.acceptKeyword("LIMIT") {
		tok := p.peek()
		if tok.Kind != TokenInt {
			return nil, p.unexpected(tok, "row count")
		}
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, errorAt(p.input, tok.Pos, "limit %s out of range", tok.Text)
		}
		stmt.Limit = ast.Some(n)
	}

	p.acceptSymbol(";")
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.unexpected(tok, "end of statement")
	}
	return stmt, nil
}

func (p *parser) parseSelectElement() (ast.SelectElement, error) {
	col, err := p.expectIdent("column name or *")
	if err != nil {
		return ast.SelectElement{}, err
	}
	el := ast.SelectElement{Column: col}
	if p.acceptKeyword("AS") {
		alias, err := p.expectIdent("alias")
		if err != nil {
			return ast.SelectElement{}, err
		}
		el.Alias = alias
	}
	return el, nil
}

// Expression grammar, loosest first:
//
//	or             = and { OR and }
//	and            = not { AND not }
//	not            = NOT not | comparison
//	comparison     = additive { cmp additive }
//	additive       = multiplicative { (+|-) multiplicative }
//	multiplicative = unary { (*|/|%) unary }
//	unary          = - unary | primary
//	primary        = literal | column | ( or )
func (p *parser) parseExpr() (ast.Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Or(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("AND") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.And(left, right)
	}
	return left, nil
}

func (p *parser) parseNot() (ast.Expression, error) {
	if p.acceptKeyword("NOT") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.Not(operand), nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != TokenSymbol {
			return left, nil
		}
		op, ok := ast.ParseOperator(tok.Text)
		if !ok || !op.IsComparison() {
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.Binary(op, left, right)
	}
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, "+", "-")
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, "*", "/", "%")
}

// parseBinaryLevel parses a left-associative chain of the given symbols.
func (p *parser) parseBinaryLevel(operand func() (ast.Expression, error), symbols ...string) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		for _, sym := range symbols {
			if p.isSymbol(sym) {
				matched = sym
				break
			}
		}
		if matched == "" {
			return left, nil
		}
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		op, _ := ast.ParseOperator(matched)
		left = ast.Binary(op, left, right)
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if !p.isSymbol("-") {
		return p.parsePrimary()
	}
	minus := p.advance()

	// A minus sign directly on an integer is part of the literal.
	if tok := p.peek(); tok.Kind == TokenInt {
		p.advance()
		n, err := strconv.ParseInt("-"+tok.Text, 10, 64)
		if err != nil {
			return nil, errorAt(p.input, minus.Pos, "integer -%s out of range", tok.Text)
		}
		return ast.IntLiteral(n), nil
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.Negate(operand), nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenInt:
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, errorAt(p.input, tok.Pos, "integer %s out of range", tok.Text)
		}
		return ast.IntLiteral(n), nil
	case TokenString:
		p.advance()
		return ast.StringLiteral(tok.Text), nil
	case TokenIdent:
		p.advance()
		return ast.Column(tok.Text), nil
	case TokenKeyword:
		switch tok.Text {
		case "TRUE":
			p.advance()
			return ast.BoolLiteral(true), nil
		case "FALSE":
			p.advance()
			return ast.BoolLiteral(false), nil
		case "NULL":
			p.advance()
			return ast.NullLiteral(), nil
		}
	case TokenSymbol:
		if tok.Text == "(" {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.unexpected(tok, "expression")
}
