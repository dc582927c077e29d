package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/tiger/compiler/ast"
)

// Format appends the indented tree under h to b.
func Format(ctx context.Context, b []byte, a *ast.Arena, h ast.Handle) ([]byte, error) {
	return format(ctx, b, a, h, 0, "")
}

func format(ctx context.Context, b []byte, a *ast.Arena, h ast.Handle, d int, label string) (_ []byte, err error) {
	b = app(b, d, "%s", label)

	switch x := a.Get(h).(type) {
	case ast.Empty:
		b = append(b, "empty\n"...)
	case ast.Literal:
		b = hfmt.Appendf(b, "literal: %s\n", x.Value())
	case ast.Ident:
		b = hfmt.Appendf(b, "ident: %s\n", x.Name())
	case ast.Operation:
		b = hfmt.Appendf(b, "%s:\n", x.Op.Text)

		b, err = format(ctx, b, a, x.Left, d+1, "left: ")
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b, err = format(ctx, b, a, x.Right, d+1, "right: ")
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	case ast.Body:
		b = append(b, "body:\n"...)

		for i, s := range x.List {
			b, err = format(ctx, b, a, s, d+1, "- ")
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i)
			}
		}
	case ast.IfThen:
		b = append(b, "if:\n"...)

		b, err = format(ctx, b, a, x.Cond, d+1, "cond: ")
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b, err = format(ctx, b, a, x.Body, d+1, "then: ")
		if err != nil {
			return nil, errors.Wrap(err, "then")
		}
	case ast.IfElseThen:
		b = append(b, "if:\n"...)

		b, err = format(ctx, b, a, x.Cond, d+1, "cond: ")
		if err != nil {
			return nil, errors.Wrap(err, "cond")
		}

		b, err = format(ctx, b, a, x.Else, d+1, "else: ")
		if err != nil {
			return nil, errors.Wrap(err, "else")
		}

		b, err = format(ctx, b, a, x.Then, d+1, "then: ")
		if err != nil {
			return nil, errors.Wrap(err, "then")
		}
	case ast.Declaration:
		b = hfmt.Appendf(b, "decl: %v\n", x.Type)

		b, err = format(ctx, b, a, x.Target, d+1, "target: ")
		if err != nil {
			return nil, errors.Wrap(err, "target")
		}

		if x.Value != ast.Nil {
			b, err = format(ctx, b, a, x.Value, d+1, "value: ")
			if err != nil {
				return nil, errors.Wrap(err, "value")
			}
		}
	case ast.FunctionHeader:
		b = append(b, "func:\n"...)

		b, err = format(ctx, b, a, x.Name, d+1, "name: ")
		if err != nil {
			return nil, errors.Wrap(err, "name")
		}

		for i, p := range x.Params {
			b, err = format(ctx, b, a, p, d+1, "param: ")
			if err != nil {
				return nil, errors.Wrap(err, "param %d", i)
			}
		}
	case ast.Call:
		b = append(b, "call:\n"...)

		b, err = format(ctx, b, a, x.Func, d+1, "func: ")
		if err != nil {
			return nil, errors.Wrap(err, "func")
		}

		for i, arg := range x.Args {
			b, err = format(ctx, b, a, arg, d+1, "arg: ")
			if err != nil {
				return nil, errors.Wrap(err, "arg %d", i)
			}
		}
	case ast.Return:
		b = append(b, "return:\n"...)

		if x.Value != ast.Nil {
			b, err = format(ctx, b, a, x.Value, d+1, "value: ")
			if err != nil {
				return nil, errors.Wrap(err, "value")
			}
		}
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	for ; d > len(tabs); d -= len(tabs) {
		b = append(b, tabs...)
	}

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
