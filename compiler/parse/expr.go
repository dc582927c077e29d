package parse

import (
	"context"
	"io"

	"tlog.app/go/errors"

	"github.com/slowlang/tiger/compiler/ast"
	"github.com/slowlang/tiger/compiler/token"
)

// parseExpr returns ast.Nil if the expression is absent:
// the current list ends right here.
func (p *Parser) parseExpr(ctx context.Context, min int) (x ast.Handle, err error) {
	l, err := p.parseOperand(ctx)
	if err != nil || l == ast.Nil {
		return l, err
	}

	return p.parseBinary(ctx, l, min)
}

// parseBinary extends l with binary operators binding at least as tight as min.
func (p *Parser) parseBinary(ctx context.Context, l ast.Handle, min int) (x ast.Handle, err error) {
	for {
		op, err := p.peek(ctx)
		if errors.Is(err, io.EOF) {
			return l, nil
		}
		if err != nil {
			return ast.Nil, p.tag(err)
		}

		prio := op.Priority()
		if prio < 0 || prio < min {
			return l, nil
		}

		p.skip()

		if op.Kind == token.Assignment {
			switch p.a.Get(l).(type) {
			case ast.Ident, ast.Literal, ast.Operation:
			default:
				return ast.Nil, p.errorf(op.Pos, "invalid assignment target: %s", nodeName(p.a.Get(l)))
			}
		}

		r, err := p.parseOperand(ctx)
		if err != nil {
			return ast.Nil, err
		}

		if r == ast.Nil {
			return ast.Nil, p.errorf(op.Pos, "expression expected after %q", op.Text)
		}

		next := prio + 1
		if op.RightAssoc() {
			next = prio
		}

		r, err = p.parseBinary(ctx, r, next)
		if err != nil {
			return ast.Nil, err
		}

		l = p.alloc(ctx, ast.Operation{
			Left:  l,
			Op:    op,
			Right: r,
		})
	}
}

// parseOperand returns ast.Nil without consuming anything
// if the active list ends at the next token.
func (p *Parser) parseOperand(ctx context.Context) (x ast.Handle, err error) {
	tk, err := p.peek(ctx)
	if errors.Is(err, io.EOF) {
		return ast.Nil, nil
	}
	if err != nil {
		return ast.Nil, p.tag(err)
	}

	if f := p.top(); f.ends(tk) || f.terminates(tk) {
		return ast.Nil, nil
	}

	p.skip()

	return p.operand(ctx, tk)
}

// operand builds a leaf or a parenthesized expression starting with consumed tk.
func (p *Parser) operand(ctx context.Context, tk token.Token) (x ast.Handle, err error) {
	switch {
	case tk.Kind == token.Number:
		return p.alloc(ctx, ast.Literal{Token: tk}), nil
	case tk.Kind == token.Identifier:
		if p.checkScope && !p.scope.Declared(tk.Text) {
			return ast.Nil, p.errorf(tk.Pos, "%q is not declared", tk.Text)
		}

		x = p.alloc(ctx, ast.Ident{Token: tk})

		nx, err := p.peek(ctx)
		if err != nil || !nx.Punct('(') {
			return x, nil
		}

		p.skip()

		return p.parseCall(ctx, x, nx)
	case tk.Punct('('):
		return p.parseGroup(ctx, tk)
	}

	return ast.Nil, p.unexpected(tk)
}

func (p *Parser) parseCall(ctx context.Context, fn ast.Handle, open token.Token) (x ast.Handle, err error) {
	args, err := p.parseList(ctx, frame{sep: ',', term: ')', open: open.Pos}, p.parseArg)
	if err != nil {
		return ast.Nil, err
	}

	return p.alloc(ctx, ast.Call{Func: fn, Args: args}), nil
}

func (p *Parser) parseGroup(ctx context.Context, open token.Token) (x ast.Handle, err error) {
	list, err := p.parseList(ctx, frame{sep: ',', term: ')', open: open.Pos}, p.parseArg)
	if err != nil {
		return ast.Nil, err
	}

	switch len(list) {
	case 0:
		return ast.Nil, p.errorf(open.Pos, "expression expected inside parentheses")
	case 1:
		return list[0], nil
	}

	return ast.Nil, p.errorf(open.Pos, "unexpected \",\" inside parentheses")
}

func (p *Parser) parseArg(ctx context.Context) (x ast.Handle, err error) {
	return p.parseExpr(ctx, 0)
}

func nodeName(x ast.Node) string {
	switch x.(type) {
	case ast.Empty:
		return "nothing"
	case ast.Call:
		return "call"
	case ast.Body:
		return "block"
	case ast.IfThen, ast.IfElseThen:
		return "if"
	case ast.Declaration:
		return "declaration"
	case ast.FunctionHeader:
		return "function header"
	case ast.Return:
		return "return"
	}

	return "expression"
}
