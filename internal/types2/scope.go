package types2

import (
	"fmt"
	"sort"
	"strings"

	"github.com/you-not-fish/psi/internal/syntax"
)

// Scope is a lexical scope: the constants, variables and routines declared
// in one block, plus a link to the enclosing scope. Names are compared
// case-insensitively.
//
// A scope only lives as long as the checker call that created it; parents
// do not keep track of their children.
type Scope struct {
	parent   *Scope
	consts   map[string]*syntax.ConstDecl
	vars     map[string]*syntax.VarDecl
	routines map[string]*syntax.RoutineDecl
	comment  string // e.g. "program P", "function F"
}

// NewScope returns an empty scope nested in parent (nil for the outermost
// scope).
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:   parent,
		consts:   make(map[string]*syntax.ConstDecl),
		vars:     make(map[string]*syntax.VarDecl),
		routines: make(map[string]*syntax.RoutineDecl),
		comment:  comment,
	}
}

// Parent returns the enclosing scope, or nil.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Comment returns the scope's description.
func (s *Scope) Comment() string {
	return s.comment
}

// LookupConst returns the constant name declared in s itself.
func (s *Scope) LookupConst(name string) *syntax.ConstDecl {
	return s.consts[syntax.Fold(name)]
}

// LookupVar returns the variable name declared in s itself.
func (s *Scope) LookupVar(name string) *syntax.VarDecl {
	return s.vars[syntax.Fold(name)]
}

// LookupRoutine returns the routine name declared in s itself.
func (s *Scope) LookupRoutine(name string) *syntax.RoutineDecl {
	return s.routines[syntax.Fold(name)]
}

// Lookup returns the declaration of any kind named name in s itself, or nil.
func (s *Scope) Lookup(name string) syntax.Decl {
	key := syntax.Fold(name)
	if v := s.vars[key]; v != nil {
		return v
	}
	if c := s.consts[key]; c != nil {
		return c
	}
	if r := s.routines[key]; r != nil {
		return r
	}
	return nil
}

// LookupParent searches s and then its enclosing scopes for name and
// returns the nearest declaration together with the scope holding it.
// It returns (nil, nil) if name is not declared.
func (s *Scope) LookupParent(name string) (syntax.Decl, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if d := scope.Lookup(name); d != nil {
			return d, scope
		}
	}
	return nil, nil
}

// LookupRoutineParent is like LookupParent but only considers routines.
// Inside a function body the function name denotes the return slot, a
// variable; calls still have to reach the function itself.
func (s *Scope) LookupRoutineParent(name string) *syntax.RoutineDecl {
	for scope := s; scope != nil; scope = scope.parent {
		if r := scope.LookupRoutine(name); r != nil {
			return r
		}
	}
	return nil
}

// Insert adds d to s. It returns the declaration of the same kind that
// already uses the name, in which case s is unchanged.
func (s *Scope) Insert(d syntax.Decl) syntax.Decl {
	switch d := d.(type) {
	case *syntax.ConstDecl:
		key := syntax.Fold(d.Name.Text)
		if old := s.consts[key]; old != nil {
			return old
		}
		s.consts[key] = d
	case *syntax.VarDecl:
		key := syntax.Fold(d.Name.Text)
		if old := s.vars[key]; old != nil {
			return old
		}
		s.vars[key] = d
	case *syntax.RoutineDecl:
		key := syntax.Fold(d.Name.Text)
		if old := s.routines[key]; old != nil {
			return old
		}
		s.routines[key] = d
	}
	return nil
}

// Names returns the names declared in s, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.consts)+len(s.vars)+len(s.routines))
	for _, c := range s.consts {
		names = append(names, c.Name.Text)
	}
	for _, v := range s.vars {
		names = append(names, v.Name.Text)
	}
	for _, r := range s.routines {
		names = append(names, r.Name.Text)
	}
	sort.Strings(names)
	return names
}

// String returns a description of s and its enclosing scopes for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	depth := 0
	for scope := s; scope != nil; scope = scope.parent {
		prefix := strings.Repeat("  ", depth)
		fmt.Fprintf(&buf, "%sscope %s {\n", prefix, scope.comment)
		for _, name := range scope.Names() {
			fmt.Fprintf(&buf, "%s  %s: %s\n", prefix, name, describeDecl(scope.Lookup(name)))
		}
		fmt.Fprintf(&buf, "%s}\n", prefix)
		depth++
	}
	return buf.String()
}
