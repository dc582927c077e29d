package lexer

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tiger/compiler/config"
	"github.com/slowlang/tiger/compiler/token"
)

type (
	// Lexer produces tokens lazily from a source buffer.
	// It's not restartable: every Next call consumes input.
	Lexer struct {
		b []byte
		i int

		line      int
		lineStart int

		spaces  Spaces
		lenient bool
	}

	Option func(l *Lexer)

	CharError struct {
		Char rune
		Pos  int
	}
)

// Lenient makes the lexer drop unrecognized chars instead of failing.
func Lenient() Option {
	return func(l *Lexer) {
		l.lenient = true
	}
}

// Options translates cfg into lexer options.
func Options(cfg config.Config) (opts []Option) {
	if !cfg.Strict {
		opts = append(opts, Lenient())
	}

	return opts
}

func New(text []byte, opts ...Option) *Lexer {
	l := &Lexer{
		b:      text,
		line:   1,
		spaces: Inline,
	}

	for _, o := range opts {
		o(l)
	}

	return l
}

// Tokens drains a new Lexer over text.
func Tokens(text []byte, opts ...Option) (ts []token.Token, err error) {
	l := New(text, opts...)

	for {
		tk, err := l.Next()
		if errors.Is(err, io.EOF) {
			return ts, nil
		}
		if err != nil {
			return ts, err
		}

		ts = append(ts, tk)
	}
}

// Next returns the next token or io.EOF at the end of input.
func (l *Lexer) Next() (tk token.Token, err error) {
	b := l.b

	for {
		l.i = l.spaces.Skip(b, l.i)

		if l.i == len(b) {
			return tk, io.EOF
		}

		st := l.i
		c := b[st]

		switch {
		case c == '\n':
			l.i++
			l.line++
			l.lineStart = l.i

			continue
		case c == '/' && st+1 < len(b) && b[st+1] == '/':
			l.i = skipLine(b, st)

			continue
		case c == '-' && l.peek(1) == '>':
			return l.tok(token.Arrow, 2), nil
		case c == '>' || c == '<':
			if l.peek(1) == '=' {
				return l.tok(token.Operator, 2), nil
			}

			return l.tok(token.Operator, 1), nil
		case c == '=':
			if l.peek(1) == '=' {
				return l.tok(token.Operator, 2), nil
			}

			return l.tok(token.Assignment, 1), nil
		case c == ':':
			if l.peek(1) == '=' {
				return l.tok(token.Operator, 2), nil
			}

			return l.tok(token.Punctuation, 1), nil
		case c == '+' || c == '-' || c == '*' || c == '/':
			return l.tok(token.Operator, 1), nil
		case c == ';' || c == '{' || c == '}' || c == '(' || c == ')' || c == ',':
			return l.tok(token.Punctuation, 1), nil
		case isDigit(c) || c == '.':
			e := skipNum(b, st)

			return l.tok(token.Number, e-st), nil
		case isLetter(c):
			e := skipIdent(b, st)
			tk = l.tok(token.Identifier, e-st)

			if token.IsKeyword(tk.Text) {
				tk.Kind = token.Keyword
			}

			return tk, nil
		}

		r, w := utf8.DecodeRune(b[st:])

		if !l.lenient {
			return tk, CharError{Char: r, Pos: st}
		}

		tlog.V("lexer").Printw("drop unexpected char", "char", string(r), "pos", st, "line", l.line)

		l.i += w
	}
}

// Line is the 1-based number of the line being scanned.
func (l *Lexer) Line() int {
	return l.line
}

// LineText is the raw text of the line being scanned.
func (l *Lexer) LineText() string {
	return lineAt(l.b, l.lineStart)
}

// Position returns the line number and the line text containing pos.
func (l *Lexer) Position(pos int) (line int, text string) {
	if pos < 0 || pos > len(l.b) {
		return l.Line(), l.LineText()
	}

	line = 1 + bytes.Count(l.b[:pos], []byte{'\n'})
	st := bytes.LastIndexByte(l.b[:pos], '\n') + 1

	return line, lineAt(l.b, st)
}

func (l *Lexer) tok(k token.Kind, n int) token.Token {
	st := l.i
	l.i += n

	return token.New(k, string(l.b[st:l.i]), st)
}

func (l *Lexer) peek(off int) byte {
	if l.i+off >= len(l.b) {
		return 0
	}

	return l.b[l.i+off]
}

func (e CharError) Error() string {
	return fmt.Sprintf("unexpected character: %q", e.Char)
}

func lineAt(b []byte, st int) string {
	e := skipLine(b, st)

	return string(bytes.TrimSuffix(b[st:e], []byte{'\r'}))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func skipNum(b []byte, i int) int {
	for i < len(b) && (isDigit(b[i]) || b[i] == '.') {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (isLetter(b[i]) || isDigit(b[i]) || b[i] == '_') {
		i++
	}

	return i
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}
