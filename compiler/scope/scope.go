package scope

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

type (
	// Scope is a set of declared names with a link to the enclosing Scope.
	Scope struct {
		defs map[string]struct{}

		prev  *Scope
		depth int
	}
)

func New() *Scope {
	return &Scope{
		defs: make(map[string]struct{}),
	}
}

// Nested returns a new Scope enclosed by s.
func (s *Scope) Nested() *Scope {
	n := New()
	n.prev = s
	n.depth = s.depth + 1

	tlog.V("scope").Printw("new scope", "d", n.depth, "from", loc.Callers(1, 3))

	return n
}

// Prev returns the enclosing Scope. Names declared in s are gone after that.
func (s *Scope) Prev() *Scope {
	tlog.V("scope").Printw("drop scope", "d", s.depth, "defs", len(s.defs))

	return s.prev
}

func (s *Scope) Depth() int {
	return s.depth
}

func (s *Scope) Declare(name string) {
	tlog.V("scope,define").Printw("define var", "d", s.depth, "name", name, "from", loc.Callers(1, 3))

	s.defs[name] = struct{}{}
}

// Declared reports whether name is visible from s.
func (s *Scope) Declared(name string) bool {
	for c := s; c != nil; c = c.prev {
		if _, ok := c.defs[name]; ok {
			return true
		}
	}

	return false
}
