package compiler

import "github.com/alps-lang/alpsc/token"

// variable is one symbol-table record: a declared name, the stack
// offset it lives at relative to SP, the scope depth it was declared
// at, and an optional binding to an interned string literal (set when
// the variable was last assigned a string, so reads of it materialize
// the label instead of loading from the stack).
type variable struct {
	name      token.Token
	stackSlot int
	scope     int
	stringLit *stringLiteral
}

// symbolTable is an ordered, append-only (until scope purge or del)
// list of variable records, owned by the Compiler rather than held in
// a package-level global.
type symbolTable struct {
	vars []*variable
}

func (t *symbolTable) declare(name token.Token, scope int) *variable {
	v := &variable{name: name, scope: scope}
	t.vars = append(t.vars, v)
	return v
}

// find looks up a variable by exact lexeme equality. The original
// implementation compared only up to the shorter of the two token
// lengths, which let "foobar" alias "foo"; this compares full lexemes.
func (t *symbolTable) find(name token.Token) (*variable, bool) {
	for _, v := range t.vars {
		if v.name.Lexeme == name.Lexeme {
			return v, true
		}
	}
	return nil, false
}

// purgeScope removes every record whose scope is >= scope, preserving
// the relative order of the survivors.
func (t *symbolTable) purgeScope(scope int) {
	kept := t.vars[:0]
	for _, v := range t.vars {
		if v.scope < scope {
			kept = append(kept, v)
		}
	}
	t.vars = kept
}

// delete removes the named variable, reporting whether it was found.
func (t *symbolTable) delete(name string) bool {
	for i, v := range t.vars {
		if v.name.Lexeme == name {
			t.vars = append(t.vars[:i], t.vars[i+1:]...)
			return true
		}
	}
	return false
}
