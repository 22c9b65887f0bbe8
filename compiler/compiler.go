// Package compiler lexes, parses, and emits AArch64 (Apple/Darwin)
// assembly text for a single translation unit in one pass: there is no
// intermediate representation between the AST and the instructions
// written to the output buffer.
package compiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/lexer"
	"github.com/alps-lang/alpsc/parser"
)

// Options configures a Compiler.
type Options struct {
	// Debug, when set, writes a one-line trace of each compilation
	// stage to stderr.
	Debug bool
}

// frame tracks the stack bookkeeping for the function currently being
// emitted: its fixed size (computed up front from its parameter and
// declaration count) and the next slot offset, which is decremented by
// 8 before each new declaration is assigned to it, so slots run
// -8, -16, -24, ...
type frame struct {
	name       string
	spSize     int
	nextOffset int
}

// Compiler turns source text into AArch64 assembly. A Compiler is not
// safe for concurrent use, but a fresh one is cheap; callers compiling
// more than one file concurrently should use one Compiler per file.
type Compiler struct {
	readFile parser.FileReader
	opts     Options

	out     strings.Builder
	symbols symbolTable
	strings stringTable

	scope int
	frame *frame
}

// New creates a Compiler. readFile resolves include() paths; pass nil
// to disable includes.
func New(readFile parser.FileReader, opts Options) *Compiler {
	return &Compiler{readFile: readFile, opts: opts}
}

// SetDebug toggles stage tracing after construction.
func (c *Compiler) SetDebug(debug bool) {
	c.opts.Debug = debug
}

// Compile lexes, parses, and emits source, returning the generated
// assembly text. The Compiler may be reused across calls; each call
// starts from a clean output buffer but an empty symbol/string table,
// matching the one-shot nature of the original tool (there is no
// cross-translation-unit state).
func (c *Compiler) Compile(source []byte) (string, error) {
	c.out.Reset()
	c.symbols = symbolTable{}
	c.strings = stringTable{}
	c.scope = 0
	c.frame = nil

	c.debugf("lexing %d byte(s)", len(source))
	tokens, err := lexer.Lex(source, lexer.UseStrings)
	if err != nil {
		return "", err
	}

	c.debugf("parsing %d token(s)", len(tokens))
	root, err := parser.Parse(tokens, c.readFile)
	if err != nil {
		return "", err
	}

	c.debugf("emitting %d top-level statement(s)", len(root.Statements))
	if err := c.emitProgram(root); err != nil {
		return "", err
	}

	return c.out.String(), nil
}

func (c *Compiler) debugf(format string, args ...any) {
	if c.opts.Debug {
		fmt.Fprintf(os.Stderr, "alpsc: "+format+"\n", args...)
	}
}

// emitProgram writes the text-section header, the body, and a trailing
// data section for any interned string literals.
func (c *Compiler) emitProgram(root *ast.Block) error {
	c.out.WriteString(".text\n")
	c.out.WriteString(".globl _main\n")
	c.out.WriteString(".align 2\n\n")

	if err := c.emitStatements(root); err != nil {
		return err
	}

	c.emitDataSection()
	return nil
}

func (c *Compiler) emitDataSection() {
	if c.strings.empty() {
		return
	}
	c.out.WriteString("\n.data\n")
	for _, s := range c.strings.entries {
		fmt.Fprintf(&c.out, "%s: .asciz \"%s\"\n", s.label, s.value)
	}
}

// write appends line to the output, indented one tab per scope depth
// plus one, mirroring the original emitter's per-statement tabbing.
func (c *Compiler) write(line string) {
	c.out.WriteString(strings.Repeat("\t", c.scope+1))
	c.out.WriteString(line)
	c.out.WriteByte('\n')
}

func (c *Compiler) writef(format string, args ...any) {
	c.write(fmt.Sprintf(format, args...))
}

// writeLabel writes an unindented "label:" line.
func (c *Compiler) writeLabel(label string) {
	c.out.WriteString(label)
	c.out.WriteString(":\n")
}

// funcLabel maps a source-level function name to its assembly label.
// "main" is special-cased to "_main" to satisfy the Darwin C runtime,
// which looks for that symbol rather than bare "main"; every other
// function is labeled with its own name verbatim.
func funcLabel(name string) string {
	if name == "main" {
		return "_main"
	}
	return name
}

// frameSize computes the 16-byte-aligned stack allocation for a
// function with the given number of stack-resident slots (its
// parameters plus its direct local declarations), with a 16-byte floor.
func frameSize(slots int) int {
	size := slots * 8
	if size < 16 {
		size = 16
	}
	return (size + 15) &^ 15
}
