package parser

import (
	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/token"
)

// parseExpr implements:
//
//	expr = term { ("+"|"-") term }
//
// Left-to-right associativity falls out of folding each new operator
// as the parent of the node built so far.
func (p *Parser) parseExpr() (ast.Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.current().Kind == token.PLUS || p.current().Kind == token.MINUS {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &ast.BinOp{Left: node, Op: op, Right: right}
	}

	return node, nil
}

// parseTerm implements:
//
//	term = factor { ("*"|"/") factor }
func (p *Parser) parseTerm() (ast.Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.current().Kind == token.STAR || p.current().Kind == token.SLASH {
		op := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &ast.BinOp{Left: node, Op: op, Right: right}
	}

	return node, nil
}

// parseFactor implements:
//
//	factor = ("+"|"-") factor
//	       | NUMBER | STRING
//	       | "(" expr ")"
//	       | IDENT ( "(" expr_list ")" )?
func (p *Parser) parseFactor() (ast.Node, error) {
	tok := p.current()

	switch tok.Kind {
	case token.PLUS, token.MINUS:
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: tok, Node: operand}, nil

	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Token: tok}, nil

	case token.LPAREN:
		p.advance()
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN); err != nil {
			return nil, err
		}
		return node, nil

	case token.IDENTIFIER:
		if p.peek(1).Kind == token.LPAREN {
			return p.parseFuncCall()
		}
		return p.parseVariable()

	default:
		return nil, p.errorf(tok, "Expected expression and found %s (%s)", tok.Kind, tok.Lexeme)
	}
}

// parseVariable implements: variable = IDENT
func (p *Parser) parseVariable() (*ast.Variable, error) {
	name, err := p.eat(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Name: name}, nil
}
