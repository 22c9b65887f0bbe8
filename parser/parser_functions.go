package parser

import (
	"strings"

	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/token"
)

// parseFuncCall implements:
//
//	func_call = IDENT "(" [ expr_list ] ")"
//
// A call whose callee is "include" and whose first argument is a
// string literal is a compile-time directive: the file is loaded,
// lexed, and parsed, and the resulting sub-program AST is returned in
// place of the call node.
func (p *Parser) parseFuncCall() (ast.Node, error) {
	callee, err := p.eat(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.LPAREN); err != nil {
		return nil, err
	}

	var args []ast.Node
	if p.current().Kind != token.RPAREN {
		args, err = p.parseExprList()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.RPAREN); err != nil {
		return nil, err
	}

	call := &ast.FuncCall{
		Callee:    &ast.Variable{Name: callee},
		Arguments: args,
	}

	if callee.Lexeme == "include" {
		return p.resolveInclude(callee, call)
	}

	return call, nil
}

// resolveInclude splices the included file's AST in place of the
// include() call. The literal's surrounding quotes are stripped before
// the path is resolved.
func (p *Parser) resolveInclude(callee token.Token, call *ast.FuncCall) (ast.Node, error) {
	if len(call.Arguments) < 1 {
		return nil, p.errorf(callee, "include() requires a path argument")
	}
	lit, ok := call.Arguments[0].(*ast.Literal)
	if !ok || lit.Token.Kind != token.STRING {
		return nil, p.errorf(callee, "include() requires a string literal path")
	}

	path := strings.Trim(lit.Token.Lexeme, `"'`)
	return p.loadAndParseInclude(callee, path)
}

// parseExprList implements: expr_list = expr { "," expr }
func (p *Parser) parseExprList() ([]ast.Node, error) {
	var list []ast.Node

	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)

		if p.current().Kind != token.COMMA {
			break
		}
		p.advance()
	}

	return list, nil
}

// parseDeclList implements: decl_list = declaration { "," declaration }
func (p *Parser) parseDeclList() ([]*ast.Declare, error) {
	var list []*ast.Declare

	for {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if decl == nil {
			return nil, p.errorf(p.current(), "Expected parameter declaration")
		}
		list = append(list, decl)

		if p.current().Kind != token.COMMA {
			break
		}
		p.advance()
	}

	return list, nil
}

// parseFuncDeclaration implements:
//
//	func_declare = "fn" IDENT "(" [ decl_list ] ")" TYPE block
func (p *Parser) parseFuncDeclaration() (*ast.FuncDeclare, error) {
	if _, err := p.eat(token.KEYWORD); err != nil {
		return nil, err
	}

	name, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	declare := &ast.Declare{Variable: name}

	if _, err := p.eat(token.LPAREN); err != nil {
		return nil, err
	}

	var params []*ast.Declare
	if p.current().Kind != token.RPAREN {
		params, err = p.parseDeclList()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.RPAREN); err != nil {
		return nil, err
	}

	retType, err := p.eat(token.TYPE)
	if err != nil {
		return nil, err
	}
	declare.Type = retType

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fdecl := &ast.FuncDeclare{Declaration: declare, Parameters: params, Body: body}

	if !fdecl.Body.HasReturn() {
		return nil, p.errorf(p.current(), "No return statement in function")
	}

	return fdecl, nil
}
