// Command alpsc is the driver for the compiler: it resolves an input
// file, invokes the compiler package, and writes the resulting AArch64
// assembly to stdout or a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/subcommands"

	"github.com/alps-lang/alpsc/compiler"
)

type buildCmd struct {
	output string
	debug  bool
}

func (*buildCmd) Name() string     { return "build" }
func (*buildCmd) Synopsis() string { return "compile a source file to AArch64 assembly" }
func (*buildCmd) Usage() string {
	return `build [-o out.s] [-debug] <file>:
  Compile <file> and print the generated assembly, or write it to -o.
`
}

func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "write assembly to this path instead of stdout")
	f.BoolVar(&c.debug, "debug", false, "trace compiler stages to stderr")
}

func (c *buildCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fail("expected exactly one input file")
		return subcommands.ExitUsageError
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fail(err.Error())
		return subcommands.ExitFailure
	}

	dir := filepath.Dir(path)
	readFile := func(include string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, include))
	}

	comp := compiler.New(readFile, compiler.Options{Debug: c.debug})
	asm, err := comp.Compile(data)
	if err != nil {
		fail(err.Error())
		return subcommands.ExitFailure
	}

	if c.output == "" {
		fmt.Print(asm)
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(c.output, []byte(asm), 0o644); err != nil {
		fail(err.Error())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func fail(message string) {
	fmt.Fprintln(os.Stderr, color.RedString("alpsc: %s", message))
}

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&buildCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
