package parse

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/tiger/compiler/lexer"
	"github.com/slowlang/tiger/compiler/token"
)

type (
	// Error is the first parse failure with the source line it happened at.
	Error struct {
		Msg  string
		Line int
		Text string

		Err error
	}
)

func (e *Error) Error() string {
	return fmt.Sprintf("Parse error: %s\n%d: %s", e.Msg, e.Line, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// errorf creates a line tagged error. pos < 0 means the current lexer position.
func (p *Parser) errorf(pos int, format string, args ...any) error {
	line, text := p.position(pos)

	return &Error{
		Msg:  fmt.Sprintf(format, args...),
		Line: line,
		Text: text,
	}
}

func (p *Parser) unexpected(tk token.Token) error {
	return p.errorf(tk.Pos, "unexpected token: %s", tk.Text)
}

// tag adds line context to err unless it already has it.
func (p *Parser) tag(err error) error {
	if err == nil {
		return nil
	}

	var pe *Error
	if errors.As(err, &pe) {
		return err
	}

	pos := -1

	var ce lexer.CharError
	if errors.As(err, &ce) {
		pos = ce.Pos
	}

	line, text := p.position(pos)

	return &Error{
		Msg:  err.Error(),
		Line: line,
		Text: text,
		Err:  err,
	}
}

func (p *Parser) position(pos int) (line int, text string) {
	if pos < 0 {
		return p.lx.Line(), p.lx.LineText()
	}

	return p.lx.Position(pos)
}
