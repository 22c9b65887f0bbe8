// Package ast defines the AST node algebra produced by the parser and
// consumed by the compiler's emitter.
//
// Node is a sealed interface: every node carries a Kind tag and is one
// of the ten concrete types below. Callers match exhaustively with a
// type switch on the concrete type rather than downcasting through a
// common base.
package ast

import "github.com/alps-lang/alpsc/token"

// Kind tags a Node's concrete type.
type Kind int

const (
	KindLiteral Kind = iota
	KindVariable
	KindUnaryOp
	KindBinOp
	KindAssign
	KindDeclare
	KindFuncCall
	KindFuncDeclare
	KindReturn
	KindBlock
)

// Node is implemented by every AST node type.
type Node interface {
	Kind() Kind
}

// Literal holds a single NUMBER or STRING token.
type Literal struct {
	Token token.Token
}

func (*Literal) Kind() Kind { return KindLiteral }

// Variable references a declared or to-be-declared identifier.
type Variable struct {
	Name token.Token
}

func (*Variable) Kind() Kind { return KindVariable }

// UnaryOp applies a prefix +/- to a single operand.
type UnaryOp struct {
	Op   token.Token
	Node Node
}

func (*UnaryOp) Kind() Kind { return KindUnaryOp }

// BinOp is a binary arithmetic expression. Op is one of + - * /.
type BinOp struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (*BinOp) Kind() Kind { return KindBinOp }

// Assign stores the value of an expression into a variable.
type Assign struct {
	Left  *Variable
	Op    token.Token
	Right Node
}

func (*Assign) Kind() Kind { return KindAssign }

// Declare introduces a new variable of the given type. Variable is
// always a *Variable.
type Declare struct {
	Type     token.Token
	Variable *Variable
}

func (*Declare) Kind() Kind { return KindDeclare }

// FuncCall invokes a named function with ordered argument expressions.
type FuncCall struct {
	Callee    *Variable
	Arguments []Node
}

func (*FuncCall) Kind() Kind { return KindFuncCall }

// FuncDeclare defines a function: its name+return type, its ordered
// parameters, and an optional body.
type FuncDeclare struct {
	Declaration *Declare
	Parameters  []*Declare
	Body        *Block
}

func (*FuncDeclare) Kind() Kind { return KindFuncDeclare }

// Return yields a value from the enclosing function.
type Return struct {
	Value Node
}

func (*Return) Kind() Kind { return KindReturn }

// Block is an ordered list of statements; it is also the AST root.
type Block struct {
	Statements []Node
}

func (*Block) Kind() Kind { return KindBlock }

// HasReturn reports whether b contains at least one Return among its
// direct statements (not recursing into nested blocks or functions).
func (b *Block) HasReturn() bool {
	for _, s := range b.Statements {
		if _, ok := s.(*Return); ok {
			return true
		}
	}
	return false
}

// DeclareCount counts the Declare statements directly in b, used to
// size a function's stack frame.
func (b *Block) DeclareCount() int {
	n := 0
	for _, s := range b.Statements {
		if _, ok := s.(*Declare); ok {
			n++
		}
	}
	return n
}
