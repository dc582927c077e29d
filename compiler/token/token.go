package token

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	// Token is the smallest lexical unit.
	// Pos is the byte offset of the first char, it's only used for diagnostics.
	Token struct {
		Kind Kind
		Text string
		Pos  int
	}
)

const (
	Operator Kind = iota
	Punctuation
	Arrow
	Number
	Identifier
	Keyword
	Assignment
)

var kindNames = [...]string{
	Operator:    "operator",
	Punctuation: "punctuation",
	Arrow:       "arrow",
	Number:      "number",
	Identifier:  "identifier",
	Keyword:     "keyword",
	Assignment:  "assignment",
}

var keywords = map[string]struct{}{
	"if":     {},
	"else":   {},
	"let":    {},
	"fn":     {},
	"return": {},
}

func New(k Kind, text string, pos int) Token {
	return Token{Kind: k, Text: text, Pos: pos}
}

func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && t.Text == text
}

// Punct reports whether t is the single char punctuation c.
func (t Token) Punct(c byte) bool {
	return t.Kind == Punctuation && len(t.Text) == 1 && t.Text[0] == c
}

func (t Token) Keyword(kw string) bool {
	return t.Is(Keyword, kw)
}

// Priority returns the binding class of a binary operator.
// Higher binds tighter. -1 means t is not a binary operator.
func (t Token) Priority() int {
	switch t.Kind {
	case Assignment:
		return 0
	case Operator:
	default:
		return -1
	}

	switch t.Text {
	case ">", "<", ">=", "<=", "==":
		return 1
	case "+", "-":
		return 2
	case "*", "/":
		return 3
	}

	return -1
}

// RightAssoc reports whether chains of t group to the right.
func (t Token) RightAssoc() bool {
	return t.Kind == Assignment
}

func (t Token) String() string {
	return t.Text
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 3)
	b = e.AppendKeyString(b, "kind", t.Kind.String())
	b = e.AppendKeyString(b, "text", t.Text)
	b = e.AppendKeyInt(b, "pos", t.Pos)

	return b
}
