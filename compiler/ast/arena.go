package ast

import (
	"tlog.app/go/errors"
)

type (
	// Handle references a node in the Arena it was allocated in.
	// It's valid as long as the Arena is.
	Handle int

	// Arena owns all the nodes of one parse.
	// Nodes are never freed individually, the whole Arena is dropped at once.
	Arena struct {
		nodes []Node
	}
)

// Nil marks an absent child.
const Nil Handle = -1

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) Alloc(x Node) Handle {
	id := Handle(len(a.nodes))
	a.nodes = append(a.nodes, x)

	return id
}

func (a *Arena) Get(h Handle) Node {
	if h == Nil {
		return Empty{}
	}

	return a.nodes[h]
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// Children returns direct children of h in source order, Nil slots included.
func (a *Arena) Children(h Handle) []Handle {
	switch x := a.Get(h).(type) {
	case Operation:
		return []Handle{x.Left, x.Right}
	case IfThen:
		return []Handle{x.Cond, x.Body}
	case IfElseThen:
		return []Handle{x.Cond, x.Else, x.Then}
	case Body:
		return x.List
	case Declaration:
		return []Handle{x.Target, x.Value}
	case FunctionHeader:
		return append([]Handle{x.Name}, x.Params...)
	case Call:
		return append([]Handle{x.Func}, x.Args...)
	case Return:
		return []Handle{x.Value}
	}

	return nil
}

// Walk visits h and its descendants depth first.
// Returning false from f skips the children of the node.
func (a *Arena) Walk(h Handle, f func(h Handle, x Node, depth int) bool) {
	a.walk(h, f, 0)
}

func (a *Arena) walk(h Handle, f func(Handle, Node, int) bool, d int) {
	if !f(h, a.Get(h), d) {
		return
	}

	for _, c := range a.Children(h) {
		if c == Nil {
			continue
		}

		a.walk(c, f, d+1)
	}
}

// Check verifies the tree under root was built bottom up
// and every required child is present.
func (a *Arena) Check(root Handle) (err error) {
	if root == Nil {
		return nil
	}

	if root < 0 || int(root) >= len(a.nodes) {
		return errors.New("handle out of range: %d", root)
	}

	for i, c := range a.Children(root) {
		if c == Nil {
			if isOptional(a.Get(root), i) {
				continue
			}

			return errors.New("node %d (%T): missing child %d", root, a.Get(root), i)
		}

		if c >= root {
			return errors.New("node %d (%T): child %d allocated after parent", root, a.Get(root), c)
		}

		err = a.Check(c)
		if err != nil {
			return errors.Wrap(err, "node %d", root)
		}
	}

	return nil
}

func isOptional(x Node, child int) bool {
	switch x.(type) {
	case Declaration:
		return child == 1
	case Return:
		return child == 0
	}

	return false
}
