// Package lexer turns a source buffer into an ordered sequence of
// tokens, in a single left-to-right pass.
package lexer

import (
	"github.com/alps-lang/alpsc/compileerr"
	"github.com/alps-lang/alpsc/token"
)

// Flags is a bitset controlling optional lexer behavior.
type Flags uint8

const (
	// UseStrings enables "…" and '…' string literals.
	UseStrings Flags = 1 << iota
)

// Lexer holds scanning state over one source buffer.
type Lexer struct {
	src   []byte
	flags Flags

	pos       int // current byte offset
	line      int // current 1-based line
	lineStart int // offset of the current line's first byte

	inString bool
}

// New creates a Lexer over the given source buffer. The set of
// single-character tokens is not configurable: token.IsSpecial is its
// single source of truth.
func New(src []byte, flags Flags) *Lexer {
	return &Lexer{src: src, flags: flags, line: 1}
}

// Lex scans the whole buffer and returns the ordered token sequence.
// A trailing empty token, if the scan produces one, is discarded.
func Lex(src []byte, flags Flags) ([]token.Token, error) {
	l := New(src, flags)
	return l.lexAll()
}

func (l *Lexer) lexAll() ([]token.Token, error) {
	var out []token.Token

	for {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}

		if l.peekIs('/') && l.peekAheadIs(1, '/') {
			l.skipLineComment()
			continue
		}

		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Lexeme != "" {
			out = append(out, tok)
		}
	}

	return out, nil
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) cur() byte {
	return l.src[l.pos]
}

func (l *Lexer) peekIs(ch byte) bool {
	return !l.atEnd() && l.cur() == ch
}

func (l *Lexer) peekAheadIs(n int, ch byte) bool {
	i := l.pos + n
	return i < len(l.src) && l.src[i] == ch
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.lineStart = l.pos
	}
	return ch
}

func (l *Lexer) col() int {
	return l.pos - l.lineStart + 1
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.cur()) && !l.inString {
		l.advance()
	}
}

func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.cur() != '\n' {
		l.advance()
	}
}

// scanToken reads one token starting at the current position: either a
// quoted string, a single special character, or a run of characters
// terminated by whitespace or a special.
func (l *Lexer) scanToken() (token.Token, error) {
	startPos := token.Pos{Line: l.line, Col: l.col()}
	start := l.pos

	if l.useStrings() && isQuote(l.cur()) {
		return l.scanString(startPos, start)
	}

	if token.IsSpecial(l.cur()) {
		ch := l.advance()
		kind, _ := token.SpecialKind(ch)
		return token.Token{
			Kind:   kind,
			Lexeme: string(ch),
			Start:  start,
			End:    l.pos,
			Line:   startPos.Line,
			Col:    startPos.Col,
		}, nil
	}

	// A run that starts with a digit keeps '.' in the lexeme, so a
	// decimal point stays part of its number instead of splitting it.
	numeric := isDigit(l.cur())
	for !l.atEnd() && !isWhitespace(l.cur()) && (!token.IsSpecial(l.cur()) || (numeric && l.cur() == '.')) {
		l.advance()
	}

	lexeme := string(l.src[start:l.pos])
	return l.classify(lexeme, startPos, start, l.pos)
}

func (l *Lexer) useStrings() bool {
	return l.flags&UseStrings != 0
}

// scanString consumes a quoted literal, including its delimiters, and
// toggles the lexer's in_string bookkeeping around embedded
// whitespace so the surrounding skip-whitespace logic never splits a
// string in two.
func (l *Lexer) scanString(pos token.Pos, start int) (token.Token, error) {
	quote := l.advance()
	l.inString = true

	for !l.atEnd() && l.cur() != quote {
		l.advance()
	}
	if !l.atEnd() {
		l.advance() // closing quote
	}
	l.inString = false

	return token.Token{
		Kind:   token.STRING,
		Lexeme: string(l.src[start:l.pos]),
		Start:  start,
		End:    l.pos,
		Line:   pos.Line,
		Col:    pos.Col,
	}, nil
}

// classify applies the lexer's classification rules, in order: a
// number (all digits with at most one '.'), a single-char special
// (only reachable here for a length-1 lexeme that scanToken didn't
// already split off, kept for parity with the original rule order), a
// reserved keyword, a type word, an identifier, or NONE.
func (l *Lexer) classify(lexeme string, pos token.Pos, start, end int) (token.Token, error) {
	if isNumberLexeme(lexeme) {
		if err := checkSingleDecimalPoint(lexeme, pos); err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: token.NUMBER, Lexeme: lexeme, Start: start, End: end, Line: pos.Line, Col: pos.Col}, nil
	}

	if len(lexeme) == 1 {
		if kind, ok := token.SpecialKind(lexeme[0]); ok {
			return token.Token{Kind: kind, Lexeme: lexeme, Start: start, End: end, Line: pos.Line, Col: pos.Col}, nil
		}
	}

	kind := token.LookupWord(lexeme)
	if kind == token.IDENTIFIER && len(lexeme) > 0 && !isAlpha(lexeme[0]) {
		kind = token.NONE
	}

	return token.Token{Kind: kind, Lexeme: lexeme, Start: start, End: end, Line: pos.Line, Col: pos.Col}, nil
}

func isNumberLexeme(s string) bool {
	if s == "" {
		return false
	}
	sawDigit := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isDigit(ch) {
			sawDigit = true
			continue
		}
		if ch == '.' {
			continue
		}
		return false
	}
	return sawDigit
}

func checkSingleDecimalPoint(s string, pos token.Pos) error {
	dots := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			dots++
		}
	}
	if dots > 1 {
		return compileerr.At(compileerr.Pos{Line: pos.Line, Col: pos.Col}, "invalid number format")
	}
	return nil
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}
