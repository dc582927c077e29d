package parse

import (
	"context"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/tiger/compiler/ast"
	"github.com/slowlang/tiger/compiler/config"
	"github.com/slowlang/tiger/compiler/lexer"
	"github.com/slowlang/tiger/compiler/tp"
)

func TestScenarios(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		decl []string
		exp  string
	}{
		{
			name: "precedence",
			src:  "3 + 5 * 2;",
			exp:  "Body[(3 + (5 * 2))]",
		},
		{
			name: "let_assign",
			src:  "let x := 3; x = x + 1;",
			exp:  "Body[Decl(x auto 3), (x = (x + 1))]",
		},
		{
			name: "if_else",
			src:  "if x > 0 { x = 1; } else { x = 0; }",
			decl: []string{"x"},
			exp:  "Body[IfElse((x > 0) else Body[(x = 0)] then Body[(x = 1)])]",
		},
		{
			name: "func",
			src:  "fn add(a, b) -> u32 { return a + b; }",
			exp:  "Body[Decl(Fn(add; a, b) u32 Body[Return((a + b))])]",
		},
	} {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			a, root := parse(t, tc.src, tc.decl...)

			assert.Equal(t, tc.exp, sexpr(a, root))
		})
	}
}

func TestStatements(t *testing.T) {
	for _, tc := range []struct {
		src  string
		decl []string
		exp  string
	}{
		{"x : u32 = 5; y: s8; z := x;", nil, "Body[Decl(x u32 5), Decl(y s8 -), Decl(z auto x)]"},
		{"let p: Point;", nil, "Body[Decl(p Point -)]"},
		{"x : u32 := 5;", nil, "Body[Decl(x u32 5)]"},
		{"let x: u32 := 5;", nil, "Body[Decl(x u32 5)]"},
		{"let x: u64 = 1 + 2;", nil, "Body[Decl(x u64 (1 + 2))]"},
		{"(1 + 2) * 3;", nil, "Body[((1 + 2) * 3)]"},
		{"1 - 2 - 3;", nil, "Body[((1 - 2) - 3)]"},
		{"x = y = 3;", []string{"x", "y"}, "Body[(x = (y = 3))]"},
		{"x = a > b + 1;", []string{"x", "a", "b"}, "Body[(x = (a > (b + 1)))]"},
		{"a <= b == c >= d;", []string{"a", "b", "c", "d"}, "Body[(((a <= b) == c) >= d)]"},
		{"f(1, x + 2, g());", []string{"f", "g", "x"}, "Body[Call(f; 1, (x + 2), Call(g; ))]"},
		{"fn f(a: u32, b) -> s64 { }", nil, "Body[Decl(Fn(f; Decl(a u32 -), b) s64 Body[])]"},
		{"fn f(n) -> u32 { return f(n - 1); }", nil, "Body[Decl(Fn(f; n) u32 Body[Return(Call(f; (n - 1)))])]"},
		{"fn f() -> u32 { return; }", nil, "Body[Decl(Fn(f; ) u32 Body[Return(-)])]"},
		{"if x > 1 { x = 1; } else if x > 0 { x = 2; } else { x = 3; }", []string{"x"},
			"Body[IfElse((x > 1) else IfElse((x > 0) else Body[(x = 3)] then Body[(x = 2)]) then Body[(x = 1)])]"},
		{"if x { } x = 1;", []string{"x"}, "Body[If(x Body[]), (x = 1)]"},
		{"{ let x := 1; x = 2 } { }", nil, "Body[Body[Decl(x auto 1), (x = 2)], Body[]]"},
		{";;3;;", nil, "Body[3]"},
		{"let x := 1;\n// comment\nx = 2.5;", nil, "Body[Decl(x auto 1), (x = 2.5)]"},
	} {
		a, root := parse(t, tc.src, tc.decl...)

		assert.Equal(t, tc.exp, sexpr(a, root), "src %q", tc.src)
	}
}

func TestDeclarationType(t *testing.T) {
	a, root := parse(t, "let x: u32 = 1; let y := 2; fn f() -> sym { }")

	list := a.Get(root).(ast.Body).List
	require.Len(t, list, 3)

	assert.Equal(t, tp.Int{Bits: 32}, a.Get(list[0]).(ast.Declaration).Type)
	assert.Equal(t, tp.Auto{}, a.Get(list[1]).(ast.Declaration).Type)
	assert.Equal(t, tp.Named("sym"), a.Get(list[2]).(ast.Declaration).Type)
}

func TestEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n\t\r\n", ";;;", "// nothing here\n"} {
		a, root, err := Parse(context.Background(), []byte(src), config.Default())
		require.NoError(t, err, "src %q", src)

		assert.Equal(t, ast.Nil, root, "src %q", src)
		assert.Equal(t, ast.Empty{}, a.Get(root))
		assert.Equal(t, 0, a.Len())
	}
}

func TestErrors(t *testing.T) {
	for _, tc := range []struct {
		src  string
		decl []string
		msg  string
	}{
		{"y = 1;", nil, `"y" is not declared`},
		{"x = ;", []string{"x"}, `expression expected after "="`},
		{"x = 1 +", []string{"x"}, `expression expected after "+"`},
		{"else { }", nil, "else must follow an if"},
		{"x = 1 else { }", []string{"x"}, "else must follow an if"},
		{"let 5 := 3;", nil, "let: name expected, got 5"},
		{"let x 3;", nil, `let: ":" or ":=" expected after x`},
		{"let x :=;", nil, `expression expected after ":="`},
		{"let x: = 3;", nil, "type name expected, got ="},
		{"{ let x := 1;", nil, `unexpected end of input, "}" expected`},
		{"fn f(a) { }", nil, `fn: "->" expected after parameter list`},
		{"fn f(a) -> u32;", nil, "fn: body expected, got ;"},
		{"fn (a) -> u32 { }", nil, "fn: name expected, got ("},
		{"fn f(1) -> u32 { }", nil, "fn: parameter name expected, got 1"},
		{"if { }", nil, "if: empty condition"},
		{"if x > 0 { } else 5", []string{"x"}, `"{" expected after else, got 5`},
		{"if x > 0 { } else", []string{"x"}, `"{" expected after else`},
		{"3 4;", nil, "unexpected token: 4"},
		{")", nil, "unexpected token: )"},
		{"x = let;", []string{"x"}, "unexpected token: let"},
		{"f(1) = 2;", []string{"f"}, "invalid assignment target: call"},
		{"(1, 2);", nil, `unexpected "," inside parentheses`},
		{"();", nil, "expression expected inside parentheses"},
		{"f(1, 2;", []string{"f"}, "unexpected token: ;"},
		{"x = 1 $ 2;", []string{"x"}, `unexpected character: '$'`},
		{"{ let x := 1; } x = 2;", nil, `"x" is not declared`},
		{"fn f(a) -> u32 { } a = 1;", nil, `"a" is not declared`},
	} {
		_, _, err := parseErr(tc.src, tc.decl...)

		var pe *Error
		if assert.ErrorAs(t, err, &pe, "src %q", tc.src) {
			assert.Equal(t, tc.msg, pe.Msg, "src %q", tc.src)
			assert.Equal(t, 1, pe.Line, "src %q", tc.src)
			assert.Equal(t, tc.src, pe.Text, "src %q", tc.src)
		}
	}
}

func TestErrorLine(t *testing.T) {
	src := "let x := 1;\nlet y := 2;\n  z = 3;\nx = 4;\n"

	_, _, err := parseErr(src)

	var pe *Error
	require.ErrorAs(t, err, &pe)

	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "  z = 3;", pe.Text)
	assert.EqualError(t, err, "Parse error: \"z\" is not declared\n3:   z = 3;")
}

func TestUnclosedErrorLine(t *testing.T) {
	for _, tc := range []struct {
		src  string
		msg  string
		line int
		text string
	}{
		{"{ let x := 1;\n", `unexpected end of input, "}" expected`, 1, "{ let x := 1;"},
		{"let x := 1;\nif x > 0 {\n\tx = 2;\n\n", `unexpected end of input, "}" expected`, 2, "if x > 0 {"},
		{"fn f(a,\n  b\n", `unexpected end of input, ")" expected`, 1, "fn f(a,"},
		{"print(1,\n2\n", `unexpected end of input, ")" expected`, 1, "print(1,"},
		{"x = (1 +\n2\n", `unexpected end of input, ")" expected`, 1, "x = (1 +"},
	} {
		_, _, err := parseErr(tc.src, "print", "x")

		var pe *Error
		if assert.ErrorAs(t, err, &pe, "src %q", tc.src) {
			assert.Equal(t, tc.msg, pe.Msg, "src %q", tc.src)
			assert.Equal(t, tc.line, pe.Line, "src %q", tc.src)
			assert.Equal(t, tc.text, pe.Text, "src %q", tc.src)
		}
	}
}

func TestDeclareWithoutLet(t *testing.T) {
	a, root := parse(t, "y := 1; z : u32; y = z + y;")
	assert.Equal(t, "Body[Decl(y auto 1), Decl(z u32 -), (y = (z + y))]", sexpr(a, root))

	_, _, err := parseErr("y = 1;")
	assert.ErrorContains(t, err, `"y" is not declared`)
}

func TestErrorTaggedOnce(t *testing.T) {
	src := "fn f(a) -> u32 {\n\tif a > 0 {\n\t\treturn b;\n\t}\n}\n"

	_, _, err := parseErr(src)
	require.Error(t, err)

	assert.Equal(t, 1, strings.Count(err.Error(), "Parse error:"))
	assert.Equal(t, "Parse error: \"b\" is not declared\n3: \t\treturn b;", err.Error())
}

func TestLexerErrorWrapped(t *testing.T) {
	_, _, err := parseErr("let x := 1;\nx = 1 # 2;")

	var ce lexer.CharError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, '#', ce.Char)

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "x = 1 # 2;", pe.Text)
}

func TestLenient(t *testing.T) {
	cfg := config.Default()
	cfg.Strict = false

	a, root, err := Parse(context.Background(), []byte("let x := 1 $;\nx = @2;"), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Body[Decl(x auto 1), (x = 2)]", sexpr(a, root))
}

func TestNoScopeCheck(t *testing.T) {
	cfg := config.Default()
	cfg.CheckScope = false

	a, root, err := Parse(context.Background(), []byte("y = z + 1;"), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Body[(y = (z + 1))]", sexpr(a, root))
}

func TestIdempotent(t *testing.T) {
	src := "let x := 3;\nfn f(a, b) -> u32 { if a > b { return a - b * 2; } else { return f(b, a); } }\nx = f(x, 1) / 2;"

	a1, r1 := parse(t, src)
	a2, r2 := parse(t, src)

	assert.Equal(t, sexpr(a1, r1), sexpr(a2, r2))
	assert.Equal(t, a1.Len(), a2.Len())
}

func TestArenaBottomUp(t *testing.T) {
	src := "let x := 3;\nfn f(a, b: u8) -> u32 { if a > b { return a - b * 2; } else if a < b { return f(b, a); } }\nx = (f(x, 1) + 2) / 2;"

	a, root := parse(t, src)

	require.NoError(t, a.Check(root))

	var n int
	a.Walk(root, func(h ast.Handle, x ast.Node, d int) bool {
		n++
		return true
	})

	assert.Equal(t, a.Len(), n, "every allocated node is reachable")
}

func TestPrecedenceChains(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ops := []string{"+", "-", "*", "/"}

	for i := 0; i < 200; i++ {
		n := 1 + rnd.Intn(8)

		nums := make([]int64, n+1)
		opl := make([]string, n)

		var b strings.Builder

		for j := range nums {
			nums[j] = 1 + rnd.Int63n(9)

			if j != 0 {
				opl[j-1] = ops[rnd.Intn(len(ops))]
				b.WriteString(" " + opl[j-1] + " ")
			}

			b.WriteString(big.NewInt(nums[j]).String())
		}

		src := b.String() + ";"

		a, root := parse(t, src)
		list := a.Get(root).(ast.Body).List
		require.Len(t, list, 1)

		exp := reference(nums, opl)
		got := eval(t, a, list[0])

		assert.Equal(t, exp.RatString(), got.RatString(), "src %q tree %s", src, sexpr(a, list[0]))
	}
}

func parse(t testing.TB, src string, decl ...string) (*ast.Arena, ast.Handle) {
	t.Helper()

	a, root, err := parseErr(src, decl...)
	require.NoError(t, err, "src %q", src)

	return a, root
}

func parseErr(src string, decl ...string) (*ast.Arena, ast.Handle, error) {
	cfg := config.Default()
	cfg.Predeclared = decl

	return Parse(context.Background(), []byte(src), cfg)
}

// reference evaluates a flat chain with * and / binding tighter than + and -.
func reference(nums []int64, ops []string) *big.Rat {
	var terms []*big.Rat
	var signs []string

	cur := big.NewRat(nums[0], 1)

	for i, op := range ops {
		x := big.NewRat(nums[i+1], 1)

		switch op {
		case "*":
			cur = new(big.Rat).Mul(cur, x)
		case "/":
			cur = new(big.Rat).Quo(cur, x)
		default:
			terms = append(terms, cur)
			signs = append(signs, op)
			cur = x
		}
	}

	terms = append(terms, cur)

	res := terms[0]

	for i, s := range signs {
		if s == "+" {
			res = new(big.Rat).Add(res, terms[i+1])
		} else {
			res = new(big.Rat).Sub(res, terms[i+1])
		}
	}

	return res
}

func eval(t testing.TB, a *ast.Arena, h ast.Handle) *big.Rat {
	t.Helper()

	switch x := a.Get(h).(type) {
	case ast.Literal:
		r, ok := new(big.Rat).SetString(x.Value())
		require.True(t, ok, "literal %q", x.Value())

		return r
	case ast.Operation:
		l := eval(t, a, x.Left)
		r := eval(t, a, x.Right)

		switch x.Op.Text {
		case "+":
			return new(big.Rat).Add(l, r)
		case "-":
			return new(big.Rat).Sub(l, r)
		case "*":
			return new(big.Rat).Mul(l, r)
		case "/":
			return new(big.Rat).Quo(l, r)
		}

		t.Fatalf("unsupported operator: %q", x.Op.Text)
	}

	t.Fatalf("unsupported node: %T", a.Get(h))

	return nil
}

func sexpr(a *ast.Arena, h ast.Handle) string {
	if h == ast.Nil {
		return "-"
	}

	list := func(l []ast.Handle) string {
		s := make([]string, len(l))
		for i, x := range l {
			s[i] = sexpr(a, x)
		}

		return strings.Join(s, ", ")
	}

	switch x := a.Get(h).(type) {
	case ast.Literal:
		return x.Value()
	case ast.Ident:
		return x.Name()
	case ast.Operation:
		return "(" + sexpr(a, x.Left) + " " + x.Op.Text + " " + sexpr(a, x.Right) + ")"
	case ast.Body:
		return "Body[" + list(x.List) + "]"
	case ast.IfThen:
		return "If(" + sexpr(a, x.Cond) + " " + sexpr(a, x.Body) + ")"
	case ast.IfElseThen:
		return "IfElse(" + sexpr(a, x.Cond) + " else " + sexpr(a, x.Else) + " then " + sexpr(a, x.Then) + ")"
	case ast.Declaration:
		return "Decl(" + sexpr(a, x.Target) + " " + x.Type.String() + " " + sexpr(a, x.Value) + ")"
	case ast.FunctionHeader:
		return "Fn(" + sexpr(a, x.Name) + "; " + list(x.Params) + ")"
	case ast.Call:
		return "Call(" + sexpr(a, x.Func) + "; " + list(x.Args) + ")"
	case ast.Return:
		return "Return(" + sexpr(a, x.Value) + ")"
	}

	return "?"
}
