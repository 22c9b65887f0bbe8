package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/lexer"
)

func parse(t *testing.T, src string) *ast.Block {
	t.Helper()
	toks, err := lexer.Lex([]byte(src), lexer.UseStrings)
	require.NoError(t, err)
	block, err := Parse(toks, nil)
	require.NoError(t, err)
	return block
}

func TestPrecedenceLawMultiplyBindsTighterOnRight(t *testing.T) {
	block := parse(t, "fn main() int { return a + b * c; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	ret := fdecl.Body.Statements[0].(*ast.Return)

	bin := ret.Value.(*ast.BinOp)
	assert.Equal(t, "+", bin.Op.Lexeme)

	left := bin.Left.(*ast.Variable)
	assert.Equal(t, "a", left.Name.Lexeme)

	right := bin.Right.(*ast.BinOp)
	assert.Equal(t, "*", right.Op.Lexeme)
}

func TestPrecedenceLawMultiplyBindsTighterOnLeft(t *testing.T) {
	block := parse(t, "fn main() int { return a * b + c; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	ret := fdecl.Body.Statements[0].(*ast.Return)

	bin := ret.Value.(*ast.BinOp)
	assert.Equal(t, "+", bin.Op.Lexeme)

	left := bin.Left.(*ast.BinOp)
	assert.Equal(t, "*", left.Op.Lexeme)

	right := bin.Right.(*ast.Variable)
	assert.Equal(t, "c", right.Name.Lexeme)
}

func TestParenthesization(t *testing.T) {
	block := parse(t, "fn main() int { return (a + b) * c; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	ret := fdecl.Body.Statements[0].(*ast.Return)

	bin := ret.Value.(*ast.BinOp)
	assert.Equal(t, "*", bin.Op.Lexeme)

	left := bin.Left.(*ast.BinOp)
	assert.Equal(t, "+", left.Op.Lexeme)
}

func TestDeclareThenAssignProducesTwoStatements(t *testing.T) {
	block := parse(t, "fn main() int { x int = 5; return x; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)

	require.Len(t, fdecl.Body.Statements, 3)

	decl := fdecl.Body.Statements[0].(*ast.Declare)
	assert.Equal(t, "x", decl.Variable.Name.Lexeme)
	assert.Equal(t, "int", decl.Type.Lexeme)

	assign := fdecl.Body.Statements[1].(*ast.Assign)
	assert.Equal(t, "x", assign.Left.Name.Lexeme)
	lit := assign.Right.(*ast.Literal)
	assert.Equal(t, "5", lit.Token.Lexeme)
}

func TestPlainDeclarationWithoutAssignment(t *testing.T) {
	block := parse(t, "fn main() int { x int; return 0; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	require.Len(t, fdecl.Body.Statements, 2)
	_, ok := fdecl.Body.Statements[0].(*ast.Declare)
	assert.True(t, ok)
}

func TestFuncDeclarationWithParameters(t *testing.T) {
	block := parse(t, "fn add(a int, b int) int { return a + b; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)

	assert.Equal(t, "add", fdecl.Declaration.Variable.Name.Lexeme)
	assert.Equal(t, "int", fdecl.Declaration.Type.Lexeme)
	require.Len(t, fdecl.Parameters, 2)
	assert.Equal(t, "a", fdecl.Parameters[0].Variable.Name.Lexeme)
	assert.Equal(t, "b", fdecl.Parameters[1].Variable.Name.Lexeme)
}

func TestFuncCallArguments(t *testing.T) {
	block := parse(t, "fn main() int { add(2, 3); return 0; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	call := fdecl.Body.Statements[0].(*ast.FuncCall)

	assert.Equal(t, "add", call.Callee.Name.Lexeme)
	require.Len(t, call.Arguments, 2)
}

func TestMissingReturnStatementIsFatal(t *testing.T) {
	toks, err := lexer.Lex([]byte("fn main() int { x int = 0; }"), lexer.UseStrings)
	require.NoError(t, err)
	_, err = Parse(toks, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No return statement in function")
}

func TestUnknownStatementIsFatal(t *testing.T) {
	toks, err := lexer.Lex([]byte("fn main() int { $ return 0; }"), lexer.UseStrings)
	require.NoError(t, err)
	_, err = Parse(toks, nil)
	require.Error(t, err)
}

func TestUnaryOperatorParses(t *testing.T) {
	block := parse(t, "fn main() int { return -5; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	ret := fdecl.Body.Statements[0].(*ast.Return)

	unary, ok := ret.Value.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, "-", unary.Op.Lexeme)
}

func TestBareSemicolonIsANoOpNotAnEndOfBlock(t *testing.T) {
	block := parse(t, "fn main() int { ; ; return 0; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	require.Len(t, fdecl.Body.Statements, 1)
	_, ok := fdecl.Body.Statements[0].(*ast.Return)
	assert.True(t, ok)
}

func TestNestedBlockStatement(t *testing.T) {
	block := parse(t, "fn main() int { { x int = 1; } return 0; }")
	fdecl := block.Statements[0].(*ast.FuncDeclare)
	require.Len(t, fdecl.Body.Statements, 2)

	inner, ok := fdecl.Body.Statements[0].(*ast.Block)
	require.True(t, ok)
	assert.Len(t, inner.Statements, 2)
}

func TestInclude(t *testing.T) {
	reads := map[string][]byte{
		"lib.alps": []byte(`fn helper() int { return 1; }`),
	}
	reader := func(path string) ([]byte, error) {
		return reads[path], nil
	}

	toks, err := lexer.Lex([]byte(`include("lib.alps");`), lexer.UseStrings)
	require.NoError(t, err)

	block, err := Parse(toks, reader)
	require.NoError(t, err)
	require.Len(t, block.Statements, 1)

	spliced, ok := block.Statements[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, spliced.Statements, 1)
	fdecl, ok := spliced.Statements[0].(*ast.FuncDeclare)
	require.True(t, ok)
	assert.Equal(t, "helper", fdecl.Declaration.Variable.Name.Lexeme)
}

func TestIncludeFailureIsFatal(t *testing.T) {
	toks, err := lexer.Lex([]byte(`include("missing.alps");`), lexer.UseStrings)
	require.NoError(t, err)

	reader := func(path string) ([]byte, error) {
		return nil, assert.AnError
	}
	_, err = Parse(toks, reader)
	require.Error(t, err)
}
