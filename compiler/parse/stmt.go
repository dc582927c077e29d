package parse

import (
	"context"
	"io"

	"tlog.app/go/errors"

	"github.com/slowlang/tiger/compiler/ast"
	"github.com/slowlang/tiger/compiler/token"
	"github.com/slowlang/tiger/compiler/tp"
)

func (p *Parser) parseStatement(ctx context.Context) (x ast.Handle, err error) {
	tk, err := p.next(ctx)
	if err != nil {
		return ast.Nil, p.tag(err)
	}

	switch {
	case tk.Keyword("let"):
		return p.parseLet(ctx, tk)
	case tk.Keyword("fn"):
		return p.parseFunc(ctx, tk)
	case tk.Keyword("return"):
		return p.parseReturn(ctx, tk)
	case tk.Keyword("if"):
		return p.parseIf(ctx, tk)
	case tk.Keyword("else"):
		return ast.Nil, p.errorf(tk.Pos, "else must follow an if")
	case tk.Punct('{'):
		return p.parseBlock(ctx, tk)
	case tk.Kind == token.Identifier:
		nx, err := p.peek(ctx)
		if err == nil && isDecl(nx) {
			return p.parseDecl(ctx, tk)
		}
	}

	l, err := p.operand(ctx, tk)
	if err != nil {
		return ast.Nil, err
	}

	return p.parseBinary(ctx, l, 0)
}

func (p *Parser) parseLet(ctx context.Context, kw token.Token) (x ast.Handle, err error) {
	name, err := p.expect(ctx, token.Identifier, "let: name")
	if err != nil {
		return ast.Nil, err
	}

	tk, err := p.peek(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return ast.Nil, p.tag(err)
	}

	if err != nil || !isDecl(tk) {
		return ast.Nil, p.errorf(name.Pos, "let: \":\" or \":=\" expected after %s", name.Text)
	}

	return p.parseDecl(ctx, name)
}

// parseDecl parses `name : type [= value]`, `name : type := value` or `name := value` after name.
func (p *Parser) parseDecl(ctx context.Context, name token.Token) (x ast.Handle, err error) {
	tk, err := p.next(ctx)
	if err != nil {
		return ast.Nil, p.tag(err)
	}

	var typ tp.Type = tp.Auto{}
	val := ast.Nil

	if tk.Punct(':') {
		tname, err := p.expect(ctx, token.Identifier, "type name")
		if err != nil {
			return ast.Nil, err
		}

		typ = tp.Parse(tname.Text)

		nx, err := p.peek(ctx)
		if err != nil && !errors.Is(err, io.EOF) {
			return ast.Nil, p.tag(err)
		}

		if err == nil && (nx.Kind == token.Assignment || nx.Is(token.Operator, ":=")) {
			p.skip()

			val, err = p.parseValue(ctx, nx)
			if err != nil {
				return ast.Nil, err
			}
		}
	} else {
		val, err = p.parseValue(ctx, tk)
		if err != nil {
			return ast.Nil, err
		}
	}

	p.scope.Declare(name.Text)

	target := p.alloc(ctx, ast.Ident{Token: name})

	return p.alloc(ctx, ast.Declaration{
		Target: target,
		Type:   typ,
		Value:  val,
	}), nil
}

// parseValue parses a required expression following the after token.
func (p *Parser) parseValue(ctx context.Context, after token.Token) (x ast.Handle, err error) {
	x, err = p.parseExpr(ctx, 0)
	if err != nil {
		return ast.Nil, err
	}

	if x == ast.Nil {
		return ast.Nil, p.errorf(after.Pos, "expression expected after %q", after.Text)
	}

	return x, nil
}

func (p *Parser) parseFunc(ctx context.Context, kw token.Token) (x ast.Handle, err error) {
	name, err := p.expect(ctx, token.Identifier, "fn: name")
	if err != nil {
		return ast.Nil, err
	}

	p.scope.Declare(name.Text)

	lp, err := p.expectPunct(ctx, '(', "fn: \"(\" after name")
	if err != nil {
		return ast.Nil, err
	}

	p.enterScope()
	defer p.exitScope()

	params, err := p.parseList(ctx, frame{sep: ',', term: ')', open: lp.Pos}, p.parseParam)
	if err != nil {
		return ast.Nil, err
	}

	id := p.alloc(ctx, ast.Ident{Token: name})
	hdr := p.alloc(ctx, ast.FunctionHeader{Name: id, Params: params})

	tk, err := p.next(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return ast.Nil, p.tag(err)
	}

	if err != nil || tk.Kind != token.Arrow {
		return ast.Nil, p.errorf(p.last.Pos, "fn: \"->\" expected after parameter list")
	}

	ret, err := p.expect(ctx, token.Identifier, "fn: return type")
	if err != nil {
		return ast.Nil, err
	}

	open, err := p.expectPunct(ctx, '{', "fn: body")
	if err != nil {
		return ast.Nil, err
	}

	body, err := p.parseBlock(ctx, open)
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.Declaration{
		Target: hdr,
		Type:   tp.Parse(ret.Text),
		Value:  body,
	}), nil
}

// parseParam parses `name [: type]`.
func (p *Parser) parseParam(ctx context.Context) (x ast.Handle, err error) {
	name, err := p.expect(ctx, token.Identifier, "fn: parameter name")
	if err != nil {
		return ast.Nil, err
	}

	p.scope.Declare(name.Text)

	id := p.alloc(ctx, ast.Ident{Token: name})

	tk, err := p.peek(ctx)
	if err != nil || !tk.Punct(':') {
		return id, nil
	}

	p.skip()

	tname, err := p.expect(ctx, token.Identifier, "type name")
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.Declaration{
		Target: id,
		Type:   tp.Parse(tname.Text),
		Value:  ast.Nil,
	}), nil
}

func (p *Parser) parseReturn(ctx context.Context, kw token.Token) (x ast.Handle, err error) {
	v, err := p.parseExpr(ctx, 0)
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.Return{Value: v}), nil
}

func (p *Parser) parseIf(ctx context.Context, kw token.Token) (x ast.Handle, err error) {
	p.push(frame{term: '{', open: kw.Pos})
	cond, err := p.parseExpr(ctx, 0)
	p.pop()

	if err != nil {
		return ast.Nil, err
	}

	if cond == ast.Nil {
		return ast.Nil, p.errorf(kw.Pos, "if: empty condition")
	}

	open, err := p.expectPunct(ctx, '{', "if: \"{\" after condition")
	if err != nil {
		return ast.Nil, err
	}

	then, err := p.parseBlock(ctx, open)
	if err != nil {
		return ast.Nil, err
	}

	tk, err := p.peek(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return ast.Nil, p.tag(err)
	}

	if err != nil || !tk.Keyword("else") {
		return p.alloc(ctx, ast.IfThen{Cond: cond, Body: then}), nil
	}

	p.skip()

	els, err := p.parseElse(ctx, tk)
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.IfElseThen{
		Cond: cond,
		Else: els,
		Then: then,
	}), nil
}

func (p *Parser) parseElse(ctx context.Context, kw token.Token) (x ast.Handle, err error) {
	tk, err := p.next(ctx)
	if errors.Is(err, io.EOF) {
		return ast.Nil, p.errorf(kw.Pos, "\"{\" expected after else")
	}
	if err != nil {
		return ast.Nil, p.tag(err)
	}

	switch {
	case tk.Keyword("if"):
		return p.parseIf(ctx, tk)
	case tk.Punct('{'):
		return p.parseBlock(ctx, tk)
	}

	return ast.Nil, p.errorf(tk.Pos, "\"{\" expected after else, got %s", tk.Text)
}

// parseBlock parses statements up to the closing brace. The opening one is consumed already.
func (p *Parser) parseBlock(ctx context.Context, open token.Token) (x ast.Handle, err error) {
	p.enterScope()
	defer p.exitScope()

	list, err := p.parseList(ctx, frame{sep: ';', term: '}', open: open.Pos}, p.parseStatement)
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.Body{List: list}), nil
}

func (p *Parser) expect(ctx context.Context, k token.Kind, what string) (tk token.Token, err error) {
	tk, err = p.next(ctx)
	if errors.Is(err, io.EOF) {
		return tk, p.errorf(-1, "%s expected, got end of input", what)
	}
	if err != nil {
		return tk, p.tag(err)
	}

	if tk.Kind != k {
		return tk, p.errorf(tk.Pos, "%s expected, got %s", what, tk.Text)
	}

	return tk, nil
}

func (p *Parser) expectPunct(ctx context.Context, c byte, what string) (tk token.Token, err error) {
	tk, err = p.next(ctx)
	if errors.Is(err, io.EOF) {
		return tk, p.errorf(-1, "%s expected, got end of input", what)
	}
	if err != nil {
		return tk, p.tag(err)
	}

	if !tk.Punct(c) {
		return tk, p.errorf(tk.Pos, "%s expected, got %s", what, tk.Text)
	}

	return tk, nil
}

func isDecl(tk token.Token) bool {
	return tk.Punct(':') || tk.Is(token.Operator, ":=")
}
