package parser

import (
	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/token"
)

// parseBlock implements: block = "{" statement_list "}"
func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.eat(token.LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseStatementList(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// parseStatementList implements: statement_list = { statement }
// stopKind is the token that ends the list (RBRACE for a nested
// block, EOF for the top-level program).
func (p *Parser) parseStatementList(stopKind token.Kind) (*ast.Block, error) {
	block := &ast.Block{}

	for p.current().Kind != stopKind && !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}

	return block, nil
}

// parseStatement implements the statement production. A bare ";" is a
// valid no-op statement (it returns nil, nil without ending the
// enclosing block).
func (p *Parser) parseStatement() (ast.Node, error) {
	tok := p.current()

	switch {
	case tok.Kind == token.LBRACE:
		return p.parseBlock()

	case tok.Kind == token.SEMICOLON:
		p.advance()
		return nil, nil

	case tok.Kind == token.IDENTIFIER:
		return p.parseIdentifierStatement()

	case tok.Kind == token.EQUALS && p.pendingDeclared != nil:
		return p.parsePendingAssignment()

	case tok.Kind == token.KEYWORD:
		return p.parseKeywordStatement()

	default:
		return nil, p.errorf(tok, "Unknown statement (%s) in block", tok.Lexeme)
	}
}

// parseIdentifierStatement resolves the declaration/assignment/call
// ambiguity that starting on an IDENTIFIER creates, using a single
// token of lookahead:
//
//	declaration  "="  expr ";"   // declare + assign, handled over two
//	                              // parseStatement calls via the
//	                              // pendingDeclared side channel
//	declaration  ";"
//	func_call    ";"
//	assignment   ";"
func (p *Parser) parseIdentifierStatement() (ast.Node, error) {
	decl, err := p.tryParseDeclaration()
	if err != nil {
		return nil, err
	}
	if decl != nil {
		if p.current().Kind == token.EQUALS {
			// Hand the just-declared variable to the next
			// parseStatement call, which will see the EQUALS and
			// synthesize the Assign. Consumed exactly once.
			p.pendingDeclared = decl.Variable
			return decl, nil
		}
		if _, err := p.eat(token.SEMICOLON); err != nil {
			return nil, err
		}
		return decl, nil
	}

	if p.peek(1).Kind == token.LPAREN {
		call, err := p.parseFuncCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.SEMICOLON); err != nil {
			return nil, err
		}
		return call, nil
	}

	assign, err := p.parseAssignment(nil)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMICOLON); err != nil {
		return nil, err
	}
	return assign, nil
}

// parsePendingAssignment consumes the "= expr ;" half of a
// declare-then-assign statement pair, using the variable stashed by
// parseIdentifierStatement.
func (p *Parser) parsePendingAssignment() (ast.Node, error) {
	v := p.pendingDeclared
	p.pendingDeclared = nil

	assign, err := p.parseAssignment(v)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.SEMICOLON); err != nil {
		return nil, err
	}
	return assign, nil
}

// tryParseDeclaration reports a declaration only when the lookahead
// matches IDENT TYPE; otherwise it returns (nil, nil) and consumes
// nothing, letting the caller fall through to call/assignment parsing.
func (p *Parser) tryParseDeclaration() (*ast.Declare, error) {
	if p.current().Kind != token.IDENTIFIER || p.peek(1).Kind != token.TYPE {
		return nil, nil
	}
	return p.parseDeclaration()
}

// parseDeclaration implements: declaration = IDENT TYPE
func (p *Parser) parseDeclaration() (*ast.Declare, error) {
	v, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	typ, err := p.eat(token.TYPE)
	if err != nil {
		return nil, err
	}
	return &ast.Declare{Type: typ, Variable: v}, nil
}

// parseAssignment implements: assignment = variable "=" expr
// override, when non-nil, supplies the left-hand variable without
// re-consuming an IDENT token (used by the declare-then-assign path).
func (p *Parser) parseAssignment(override *ast.Variable) (*ast.Assign, error) {
	left := override
	var err error
	if left == nil {
		left, err = p.parseVariable()
		if err != nil {
			return nil, err
		}
	}

	op, err := p.eat(token.EQUALS)
	if err != nil {
		return nil, err
	}

	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Left: left, Op: op, Right: right}, nil
}

// parseKeywordStatement handles the two keywords that actually produce
// a node: "fn" (a function declaration) and "return". The remaining
// reserved words (if, for, while, struct) are recognized by the lexer
// but have no statement-level implementation.
func (p *Parser) parseKeywordStatement() (ast.Node, error) {
	tok := p.current()

	if tok.IsFn() {
		return p.parseFuncDeclaration()
	}

	if tok.IsReturn() {
		ret, err := p.parseReturn()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.SEMICOLON); err != nil {
			return nil, err
		}
		return ret, nil
	}

	return nil, p.errorf(tok, "Unknown statement (%s) in block", tok.Lexeme)
}

// parseReturn implements: "return" expr ";" (the trailing ";" is
// eaten by the caller).
func (p *Parser) parseReturn() (*ast.Return, error) {
	if _, err := p.eat(token.KEYWORD); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}
