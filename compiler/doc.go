/*

Process of compilation

Program Text ->
	lexer ->
Token Stream ->
	parse ->
Abstract Syntax Tree (ast, owned by an ast.Arena) ->
	type inference (not implemented, consumes Tree.Root) ->
Binary Executable

Only the front part up to the syntax tree lives here.

*/
package compiler
