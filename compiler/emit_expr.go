package compiler

import (
	"strconv"

	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/compileerr"
	"github.com/alps-lang/alpsc/token"
)

func pos(t token.Token) compileerr.Pos {
	return compileerr.Pos{Line: t.Line, Col: t.Col}
}

// emitExpr computes node's value into dest.
func (c *Compiler) emitExpr(node ast.Node, dest Reg) error {
	switch n := node.(type) {
	case *ast.Literal:
		return c.emitLiteral(n, dest)
	case *ast.Variable:
		return c.emitVariable(n, dest)
	case *ast.UnaryOp:
		return compileerr.At(pos(n.Op), "unary operators are not supported by code generation")
	case *ast.BinOp:
		return c.emitBinOp(n, dest)
	case *ast.FuncCall:
		return c.emitFuncCall(n, dest, true)
	default:
		return compileerr.New("code generation does not support this expression")
	}
}

func (c *Compiler) emitLiteral(n *ast.Literal, dest Reg) error {
	switch n.Token.Kind {
	case token.NUMBER:
		c.writef("mov %s, #%s", dest, n.Token.Lexeme)
		return nil
	case token.STRING:
		entry := c.strings.intern(n.Token.Lexeme)
		c.emitLoadAddress(entry.label, dest)
		return nil
	default:
		return compileerr.At(pos(n.Token), "unsupported literal")
	}
}

func (c *Compiler) emitVariable(n *ast.Variable, dest Reg) error {
	v, ok := c.symbols.find(n.Name)
	if !ok {
		return compileerr.At(pos(n.Name), "use of undeclared variable '%s'", n.Name.Lexeme)
	}
	if v.stringLit != nil {
		c.emitLoadAddress(v.stringLit.label, dest)
		return nil
	}
	c.writef("ldr %s, [SP, #%d]", dest, v.stackSlot)
	return nil
}

func (c *Compiler) emitLoadAddress(label string, dest Reg) {
	c.writef("adrp %s, %s@PAGE", dest, label)
	c.writef("add %s, %s, %s@PAGEOFF", dest, dest, label)
}

func numberLiteral(n ast.Node) (int64, bool) {
	lit, ok := n.(*ast.Literal)
	if !ok || lit.Token.Kind != token.NUMBER {
		return 0, false
	}
	v, err := strconv.ParseInt(lit.Token.Lexeme, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func foldConstant(op token.Token, l, r int64) (int64, error) {
	switch op.Lexeme {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, compileerr.At(pos(op), "division by zero in constant expression")
		}
		return l / r, nil
	default:
		return 0, compileerr.At(pos(op), "unsupported operator %q", op.Lexeme)
	}
}

// emitBinOp lowers a binary expression into dest. Two operands that
// are both number literals are folded at compile time. Otherwise the
// operands are evaluated into the accumulator one at a time, with the
// first one stashed in a scratch register so the second's evaluation
// doesn't clobber it. When the right operand is itself a BinOp, it is
// evaluated first instead of the left: a nested binary expression may
// need the accumulator for its own sub-evaluation, and evaluating the
// simpler (non-BinOp) side second avoids that clobber. The swap goes
// one level deep only; a BinOp nested two levels down on the right is
// not itself re-ordered.
func (c *Compiler) emitBinOp(n *ast.BinOp, dest Reg) error {
	if lv, ok := numberLiteral(n.Left); ok {
		if rv, ok := numberLiteral(n.Right); ok {
			result, err := foldConstant(n.Op, lv, rv)
			if err != nil {
				return err
			}
			c.writef("mov %s, #%d", dest, result)
			return nil
		}
	}

	second := Scratch
	if n.Op.Lexeme == "*" || n.Op.Lexeme == "/" {
		second = ImmScratch
	}

	if _, rightIsBinOp := n.Right.(*ast.BinOp); rightIsBinOp {
		if err := c.emitExpr(n.Right, Accumulator); err != nil {
			return err
		}
		c.writef("mov %s, %s", second, Accumulator)
		if err := c.emitExpr(n.Left, Accumulator); err != nil {
			return err
		}
		return c.emitOp(n.Op, dest, Accumulator, second)
	}

	if err := c.emitExpr(n.Left, Accumulator); err != nil {
		return err
	}
	c.writef("mov %s, %s", second, Accumulator)
	if err := c.emitExpr(n.Right, Accumulator); err != nil {
		return err
	}
	return c.emitOp(n.Op, dest, second, Accumulator)
}

func (c *Compiler) emitOp(op token.Token, dest, l, r Reg) error {
	switch op.Lexeme {
	case "+":
		c.writef("add %s, %s, %s", dest, l, r)
	case "-":
		c.writef("sub %s, %s, %s", dest, l, r)
	case "*":
		c.writef("mul %s, %s, %s", dest, l, r)
	case "/":
		c.writef("udiv %s, %s, %s", dest, l, r)
	default:
		return compileerr.At(pos(op), "unsupported operator %q", op.Lexeme)
	}
	return nil
}

// emitFuncCall evaluates each argument directly into its ABI argument
// register, calls the function, and, when dest isn't already X0,
// copies the return value into dest. When spill is set (the call is
// evaluated as an expression rather than as a bare statement), both
// scratch registers that emitBinOp may hold the expression's other
// operand in (Scratch, and ImmScratch for * and /) are saved across the
// call and restored afterward, since the callee is free to clobber them.
func (c *Compiler) emitFuncCall(call *ast.FuncCall, dest Reg, spill bool) error {
	if len(call.Arguments) > 8 {
		return compileerr.At(pos(call.Callee.Name), "too many arguments to '%s' (max 8)", call.Callee.Name.Lexeme)
	}

	if spill {
		c.writef("stp %s, %s, [SP, -16]!", Scratch, ImmScratch)
	}

	for i, arg := range call.Arguments {
		if err := c.emitExpr(arg, ArgReg(i)); err != nil {
			return err
		}
	}

	c.writef("bl %s", funcLabel(call.Callee.Name.Lexeme))
	if dest != RegX0 {
		c.writef("mov %s, %s", dest, RegX0)
	}

	if spill {
		c.writef("ldp %s, %s, [SP], 16", Scratch, ImmScratch)
	}
	return nil
}
