package compiler

import (
	"fmt"
	"strings"
)

// stringLiteral is one interned string: its generated data-section
// label and its unquoted value.
type stringLiteral struct {
	label string
	value string
}

// stringTable interns string literals in first-encountered order and
// hands out dense, 1-based ".L.StrN" labels.
type stringTable struct {
	entries []*stringLiteral
}

// intern records raw (the token's lexeme, including its surrounding
// quotes) and returns its table entry. The quotes are stripped once
// here so that ".asciz" emission re-quotes cleanly instead of risking
// doubled or embedded quote characters in the data section.
func (t *stringTable) intern(raw string) *stringLiteral {
	entry := &stringLiteral{
		label: fmt.Sprintf(".L.Str%d", len(t.entries)+1),
		value: strings.Trim(raw, `"'`),
	}
	t.entries = append(t.entries, entry)
	return entry
}

func (t *stringTable) empty() bool {
	return len(t.entries) == 0
}
