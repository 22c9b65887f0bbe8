package compiler

import (
	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/compileerr"
	"github.com/alps-lang/alpsc/token"
)

// emitStatements emits every statement in block at the current scope,
// without changing it. Used for the program root and for a function
// body, which shares its one scope increment with its parameter
// declarations rather than opening a second scope of its own.
func (c *Compiler) emitStatements(block *ast.Block) error {
	for _, stmt := range block.Statements {
		if err := c.emitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// emitScopedBlock emits a nested, nameless { ... } block in its own
// scope: every declaration it makes is purged on exit. The reference
// emitter never dispatched a case for a bare block appearing as a
// statement, silently dropping it; a nested block here gets real scope
// semantics instead.
func (c *Compiler) emitScopedBlock(block *ast.Block) error {
	c.scope++
	err := c.emitStatements(block)
	c.symbols.purgeScope(c.scope)
	c.scope--
	return err
}

func (c *Compiler) emitStatement(node ast.Node) error {
	switch n := node.(type) {
	case *ast.FuncDeclare:
		return c.emitFuncDeclare(n)
	case *ast.Declare:
		return c.emitDeclare(n)
	case *ast.Assign:
		return c.emitAssignStatement(n)
	case *ast.Return:
		return c.emitReturn(n)
	case *ast.FuncCall:
		return c.emitFuncCallStatement(n)
	case *ast.Block:
		return c.emitScopedBlock(n)
	default:
		return compileerr.New("code generation does not support this statement")
	}
}

func (c *Compiler) emitFuncDeclare(n *ast.FuncDeclare) error {
	if c.frame != nil {
		return compileerr.At(pos(n.Declaration.Variable.Name), "nested function declarations are not supported")
	}

	label := funcLabel(n.Declaration.Variable.Name.Lexeme)
	c.writeLabel(label)

	c.frame = &frame{name: label, spSize: frameSize(len(n.Parameters) + n.Body.DeclareCount())}
	c.writef("stp FP, LR, [SP, -64]!")
	c.writef("sub SP, SP, #%d", c.frame.spSize)

	c.scope++
	for i, param := range n.Parameters {
		v := c.symbols.declare(param.Variable.Name, c.scope)
		c.frame.nextOffset -= 8
		v.stackSlot = c.frame.nextOffset
		c.writef("str %s, [SP, #%d]", ArgReg(i), v.stackSlot)
	}

	if err := c.emitStatements(n.Body); err != nil {
		return err
	}

	c.symbols.purgeScope(c.scope)
	c.scope--
	c.frame = nil
	return nil
}

// emitDeclare reserves a stack slot for a new local variable. The
// variable holds no value until it is next assigned.
func (c *Compiler) emitDeclare(n *ast.Declare) error {
	if c.frame == nil {
		return compileerr.At(pos(n.Variable.Name), "variable declared outside of a function")
	}
	v := c.symbols.declare(n.Variable.Name, c.scope)
	c.frame.nextOffset -= 8
	v.stackSlot = c.frame.nextOffset
	return nil
}

// emitAssignStatement stores the value of an expression into a
// previously declared variable. Assigning a string literal also binds
// the variable to the interned label, so a later read rematerializes
// the address directly instead of loading a stale stack slot.
func (c *Compiler) emitAssignStatement(n *ast.Assign) error {
	v, ok := c.symbols.find(n.Left.Name)
	if !ok {
		return compileerr.At(pos(n.Left.Name), "assignment to undeclared variable '%s'", n.Left.Name.Lexeme)
	}

	if lit, ok := n.Right.(*ast.Literal); ok && lit.Token.Kind == token.STRING {
		v.stringLit = c.strings.intern(lit.Token.Lexeme)
		c.emitLoadAddress(v.stringLit.label, Accumulator)
		c.writef("str %s, [SP, #%d]", Accumulator, v.stackSlot)
		return nil
	}

	v.stringLit = nil
	if err := c.emitExpr(n.Right, Accumulator); err != nil {
		return err
	}
	c.writef("str %s, [SP, #%d]", Accumulator, v.stackSlot)
	return nil
}

// emitReturn evaluates its value into the accumulator, moves it into
// the return-value register, tears down the current frame, and
// returns. Each Return statement emits its own epilogue inline rather
// than jumping to a shared one at the end of the function.
func (c *Compiler) emitReturn(n *ast.Return) error {
	if c.frame == nil {
		return compileerr.New("return statement outside of a function")
	}

	if err := c.emitExpr(n.Value, Accumulator); err != nil {
		return err
	}
	if Accumulator != RegX0 {
		c.writef("mov %s, %s", RegX0, Accumulator)
	}

	c.writef("add SP, SP, #%d", c.frame.spSize)
	c.writef("ldp FP, LR, [SP], 64")
	c.writef("ret")
	return nil
}

// emitFuncCallStatement handles a call appearing directly as a
// statement. del(...) is an emitter-time intrinsic rather than a real
// call: it removes the named variables from the symbol table, without
// emitting any instructions, so a later use of the name is an
// undeclared-variable error until it is declared again.
func (c *Compiler) emitFuncCallStatement(n *ast.FuncCall) error {
	if n.Callee.Name.Lexeme == "del" {
		for _, arg := range n.Arguments {
			v, ok := arg.(*ast.Variable)
			if !ok {
				return compileerr.At(pos(n.Callee.Name), "del() arguments must be variable names")
			}
			c.symbols.delete(v.Name.Lexeme)
		}
		return nil
	}

	return c.emitFuncCall(n, RegX0, false)
}
