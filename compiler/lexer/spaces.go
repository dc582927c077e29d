package lexer

type (
	// Spaces is a set of skippable control and space chars.
	Spaces uint64
)

// Inline is what the lexer skips silently. Newlines are skipped too but counted.
var Inline = NewSpaces(' ', '\t', '\r')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Has(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && s.Has(b[i]) {
		i++
	}

	return
}
