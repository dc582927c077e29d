package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tiger/compiler/ast"
	"github.com/slowlang/tiger/compiler/config"
	"github.com/slowlang/tiger/compiler/lexer"
	"github.com/slowlang/tiger/compiler/parse"
	"github.com/slowlang/tiger/compiler/token"
)

type (
	// Tree is a parsed file. Root and every node under it live in Arena.
	Tree struct {
		Name  string
		Arena *ast.Arena
		Root  ast.Handle
	}
)

func ParseFile(ctx context.Context, name string, cfg config.Config) (*Tree, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Parse(ctx, name, text, cfg)
}

func Parse(ctx context.Context, name string, text []byte, cfg config.Config) (*Tree, error) {
	a, root, err := parse.Parse(ctx, text, cfg)
	if err != nil {
		return nil, err
	}

	tlog.SpanFromContext(ctx).Printw("parsed", "name", name, "nodes", a.Len())

	return &Tree{
		Name:  name,
		Arena: a,
		Root:  root,
	}, nil
}

// TokenizeFile returns all the tokens of the file.
func TokenizeFile(ctx context.Context, name string, cfg config.Config) ([]token.Token, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return lexer.Tokens(text, lexer.Options(cfg)...)
}
