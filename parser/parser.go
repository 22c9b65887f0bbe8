// Package parser implements a recursive-descent parser that turns a
// token sequence into a single ast.Block rooted AST.
package parser

import (
	"github.com/alps-lang/alpsc/ast"
	"github.com/alps-lang/alpsc/compileerr"
	"github.com/alps-lang/alpsc/lexer"
	"github.com/alps-lang/alpsc/token"
)

// FileReader loads the contents of an include()'d path. The CLI wires
// this to os.ReadFile; tests can substitute an in-memory reader.
type FileReader func(path string) ([]byte, error)

// Parser consumes a token sequence and yields an AST.
type Parser struct {
	tokens []token.Token
	pos    int

	readFile FileReader

	// pendingDeclared is the single-slot side channel used to stitch
	// a "declare, then assign" pair of statements together: see
	// parseIdentifierStatement. It is consumed exactly once.
	pendingDeclared *ast.Variable
}

// New creates a Parser over tokens. readFile resolves include() paths;
// pass nil to disable includes (any include() call then fails).
func New(tokens []token.Token, readFile FileReader) *Parser {
	return &Parser{tokens: tokens, readFile: readFile}
}

// Parse parses a full program (or, for an include()'d file, a full
// sub-program) and returns its root Block.
func Parse(tokens []token.Token, readFile FileReader) (*ast.Block, error) {
	p := New(tokens, readFile)
	return p.Parse()
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (*ast.Block, error) {
	return p.parseStatementList(token.EOF)
}

func (p *Parser) current() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) peek(ahead int) token.Token {
	i := p.pos + ahead
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// eat advances past the current token, requiring it be of kind want.
func (p *Parser) eat(want token.Kind) (token.Token, error) {
	tok := p.current()
	if tok.Kind != want {
		return token.Token{}, p.errorf(tok, "Expected %s and found %s (%s)", want, tok.Kind, tok.Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return compileerr.At(compileerr.Pos{Line: tok.Line, Col: tok.Col}, format, args...)
}

func (p *Parser) atEnd() bool {
	return p.current().Kind == token.EOF
}

// loadAndParseInclude reads path, lexes and parses it from scratch,
// and returns the resulting sub-program. Circular includes are not
// detected, matching the original's behavior (see SPEC_FULL.md §4.2).
func (p *Parser) loadAndParseInclude(call token.Token, path string) (*ast.Block, error) {
	if p.readFile == nil {
		return nil, p.errorf(call, "include() is not supported in this context")
	}

	data, err := p.readFile(path)
	if err != nil {
		return nil, p.errorf(call, "Could not load '%s': %s", path, err)
	}

	toks, err := lexer.Lex(data, lexer.UseStrings)
	if err != nil {
		return nil, err
	}

	return Parse(toks, p.readFile)
}
