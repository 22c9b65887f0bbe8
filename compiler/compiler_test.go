package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alps-lang/alpsc/token"
)

func mkToken(lexeme string) token.Token {
	return token.Token{Kind: token.IDENTIFIER, Lexeme: lexeme}
}

func compile(t *testing.T, src string) string {
	t.Helper()
	c := New(nil, Options{})
	out, err := c.Compile([]byte(src))
	require.NoError(t, err)
	return out
}

func TestMainFunctionGetsUnderscorePrefixedLabel(t *testing.T) {
	out := compile(t, "fn main() int { return 0; }")
	assert.Contains(t, out, ".globl _main")
	assert.Contains(t, out, "_main:\n")
}

func TestNonMainFunctionLabelIsUnprefixed(t *testing.T) {
	out := compile(t, "fn add(a int, b int) int { return a + b; }")
	assert.Contains(t, out, "add:\n")
	assert.NotContains(t, out, "_add:")
}

func TestReturnLiteralMovesConstantIntoX0(t *testing.T) {
	out := compile(t, "fn main() int { return 42; }")
	assert.Contains(t, out, "mov X8, #42")
	assert.Contains(t, out, "mov X0, X8")
	assert.Contains(t, out, "ret")
}

func TestConstantBinOpIsFoldedAtCompileTime(t *testing.T) {
	out := compile(t, "fn main() int { return 2 + 3; }")
	assert.Contains(t, out, "mov X8, #5")
	assert.NotContains(t, out, "add X8")
}

func TestFunctionCallPassesArgumentsInOrder(t *testing.T) {
	out := compile(t, "fn add(a int, b int) int { return a + b; } fn main() int { return add(2, 3); }")
	assert.Contains(t, out, "mov X0, #2")
	assert.Contains(t, out, "mov X1, #3")
	assert.Contains(t, out, "bl add")
}

func TestDeclareThenAssignStoresToStack(t *testing.T) {
	out := compile(t, "fn main() int { x int = 5; return x; }")
	assert.Contains(t, out, "str X8, [SP, #-8]")
	assert.Contains(t, out, "ldr X8, [SP, #-8]")
}

func TestUnaryOperatorIsFatalDuringCodeGen(t *testing.T) {
	_, err := New(nil, Options{}).Compile([]byte("fn main() int { return -5; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unary operators are not supported")
}

func TestUndeclaredVariableUseIsFatal(t *testing.T) {
	_, err := New(nil, Options{}).Compile([]byte("fn main() int { return x; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared variable")
}

func TestStringAssignmentInternsALabelInDataSection(t *testing.T) {
	out := compile(t, `fn main() int { s str = "hi"; return 0; }`)
	assert.Contains(t, out, ".data")
	assert.Contains(t, out, ".L.Str1: .asciz \"hi\"")
	assert.Contains(t, out, "adrp X8, .L.Str1@PAGE")
	assert.Contains(t, out, "str X8, [SP, #-8]")
}

func TestDelRemovesVariableFromSymbolTable(t *testing.T) {
	out := compile(t, "fn main() int { x int = 1; del(x); x int = 2; return x; }")
	assert.NotContains(t, out, "bl del")
	assert.Contains(t, out, "str X8, [SP, #-8]")
	// with the first x gone, the return reads the redeclared x's slot
	// rather than the deleted one's.
	assert.Contains(t, out, "ldr X8, [SP, #-16]")
}

func TestNestedBlockGetsItsOwnScope(t *testing.T) {
	out := compile(t, "fn main() int { { x int = 1; } return 0; }")
	assert.Contains(t, out, "str X8, [SP, #-8]")

	// x is purged when the inner block closes.
	_, err := New(nil, Options{}).Compile([]byte("fn main() int { { x int = 1; } return x; }"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared variable")
}

func TestBinOpEvaluationOrderSwapWhenRightIsCompound(t *testing.T) {
	out := compile(t, "fn add(a int, b int) int { return a + b; } fn main() int { x int = 1; return x + (x + x); }")
	require.NotEmpty(t, out)
	// the compound right side is evaluated first and parked in the
	// scratch register, so the final add takes the left operand from
	// the accumulator.
	assert.Contains(t, out, "add X8, X8, X9")
}

func TestFrameSizeIsSixteenByteAligned(t *testing.T) {
	assert.Equal(t, 16, frameSize(0))
	assert.Equal(t, 16, frameSize(1))
	assert.Equal(t, 16, frameSize(2))
	assert.Equal(t, 32, frameSize(3))
	assert.Equal(t, 32, frameSize(4))
}

func TestSymbolTableLookupIsExactLexemeMatch(t *testing.T) {
	var syms symbolTable
	foo := mkToken("foo")
	syms.declare(foo, 0)

	_, ok := syms.find(mkToken("foobar"))
	assert.False(t, ok, "exact-lexeme lookup must not let 'foobar' alias 'foo'")

	_, ok = syms.find(mkToken("foo"))
	assert.True(t, ok)
}
