package ast

import (
	"github.com/slowlang/tiger/compiler/token"
	"github.com/slowlang/tiger/compiler/tp"
)

type (
	Node interface{}

	// Empty is what Arena.Get returns for Nil.
	Empty struct{}

	Literal struct {
		Token token.Token `tlog:",embed"`
	}

	Ident struct {
		Token token.Token `tlog:",embed"`
	}

	Operation struct {
		Left  Handle
		Op    token.Token
		Right Handle
	}

	IfThen struct {
		Cond Handle
		Body Handle
	}

	// IfElseThen keeps the else branch before the then branch.
	IfElseThen struct {
		Cond Handle
		Else Handle
		Then Handle
	}

	Body struct {
		List []Handle
	}

	// Declaration is a variable (Target is Ident) or function (Target is FunctionHeader) declaration.
	// Value is Nil if only the type is given.
	Declaration struct {
		Target Handle
		Type   tp.Type
		Value  Handle
	}

	FunctionHeader struct {
		Name   Handle
		Params []Handle
	}

	Call struct {
		Func Handle
		Args []Handle
	}

	Return struct {
		Value Handle
	}
)

func (x Ident) Name() string { return x.Token.Text }

func (x Literal) Value() string { return x.Token.Text }
