package parse

import (
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/tiger/compiler/ast"
	"github.com/slowlang/tiger/compiler/config"
	"github.com/slowlang/tiger/compiler/lexer"
	"github.com/slowlang/tiger/compiler/scope"
	"github.com/slowlang/tiger/compiler/token"
)

type (
	// Parser builds one syntax tree from one token stream.
	Parser struct {
		lx *lexer.Lexer
		a  *ast.Arena

		scope      *scope.Scope
		checkScope bool

		frames []frame

		peeked bool
		tk     token.Token
		tkerr  error

		last token.Token
	}

	// frame is a list being parsed: statements of a block or a parameter list.
	// sep ends one item, term ends the list. Zero means none.
	// open is the position of the token that opened the list.
	frame struct {
		sep  byte
		term byte
		open int
	}
)

// Parse parses text into a new Arena.
// root is ast.Nil if text has no statements.
func Parse(ctx context.Context, text []byte, cfg config.Config) (a *ast.Arena, root ast.Handle, err error) {
	a = ast.NewArena()
	p := New(lexer.New(text, lexer.Options(cfg)...), a, cfg)

	root, err = p.Parse(ctx)
	if err != nil {
		return nil, ast.Nil, err
	}

	return a, root, nil
}

func New(lx *lexer.Lexer, a *ast.Arena, cfg config.Config) *Parser {
	p := &Parser{
		lx:         lx,
		a:          a,
		scope:      scope.New(),
		checkScope: cfg.CheckScope,
	}

	p.Declare(cfg.Predeclared...)

	return p
}

// Declare makes names visible at the top level.
func (p *Parser) Declare(names ...string) {
	for _, n := range names {
		p.scope.Declare(n)
	}
}

// Parse consumes all the tokens and returns the root Body node.
func (p *Parser) Parse(ctx context.Context) (root ast.Handle, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse")
	defer tr.Finish("err", &err)

	list, err := p.parseList(ctx, frame{sep: ';'}, p.parseStatement)
	if err != nil {
		return ast.Nil, err
	}

	if len(list) == 0 {
		return ast.Nil, nil
	}

	root = p.alloc(ctx, ast.Body{List: list})

	tr.Printw("parsed", "statements", len(list), "nodes", p.a.Len(), "lines", p.lx.Line())

	return root, nil
}

// parseList parses items until the frame terminator or the end of input.
func (p *Parser) parseList(ctx context.Context, f frame, item func(context.Context) (ast.Handle, error)) (list []ast.Handle, err error) {
	p.frames = append(p.frames, f)
	defer func() {
		p.frames = p.frames[:len(p.frames)-1]
	}()

	for {
		tk, err := p.peek(ctx)
		if errors.Is(err, io.EOF) {
			if f.term != 0 {
				return nil, p.errorf(f.open, "unexpected end of input, %q expected", string(f.term))
			}

			return list, nil
		}
		if err != nil {
			return nil, p.tag(err)
		}

		switch {
		case f.ends(tk):
			p.skip()
			continue
		case f.terminates(tk):
			p.skip()
			return list, nil
		}

		x, err := item(ctx)
		if err != nil {
			return nil, err
		}

		if x != ast.Nil {
			list = append(list, x)
		}

		if p.last.Punct('}') {
			continue
		}

		tk, err = p.peek(ctx)
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return nil, p.tag(err)
		}

		if f.ends(tk) || f.terminates(tk) {
			continue
		}

		if tk.Keyword("else") {
			return nil, p.errorf(tk.Pos, "else must follow an if")
		}

		return nil, p.unexpected(tk)
	}
}

func (p *Parser) push(f frame) {
	p.frames = append(p.frames, f)
}

func (p *Parser) pop() {
	p.frames = p.frames[:len(p.frames)-1]
}

func (p *Parser) top() frame {
	if len(p.frames) == 0 {
		return frame{}
	}

	return p.frames[len(p.frames)-1]
}

func (p *Parser) enterScope() {
	p.scope = p.scope.Nested()
}

func (p *Parser) exitScope() {
	p.scope = p.scope.Prev()
}

func (p *Parser) alloc(ctx context.Context, x ast.Node) ast.Handle {
	id := p.a.Alloc(x)

	if tr := tlog.SpanFromContext(ctx); tr.If("parse_node") {
		tr.Printw("node", "id", id, "typ", tlog.NextAsType, x, "val", x)
	}

	return id
}

func (p *Parser) peek(ctx context.Context) (token.Token, error) {
	if !p.peeked {
		p.tk, p.tkerr = p.lx.Next()
		p.peeked = true
	}

	return p.tk, p.tkerr
}

// next consumes a token. The end of input is sticky.
func (p *Parser) next(ctx context.Context) (tk token.Token, err error) {
	if tr := tlog.SpanFromContext(ctx); tr.If("parse_token") {
		defer func() {
			tr.Printw("next token", "tk", tk, "err", err, "line", p.lx.Line(), "from", loc.Callers(1, 3))
		}()
	}

	tk, err = p.peek(ctx)
	if err != nil {
		return tk, err
	}

	p.skip()

	return tk, nil
}

func (p *Parser) skip() {
	p.peeked = false
	p.last = p.tk
}

func (f frame) ends(tk token.Token) bool {
	return f.sep != 0 && tk.Punct(f.sep)
}

func (f frame) terminates(tk token.Token) bool {
	return f.term != 0 && tk.Punct(f.term)
}
