package types2

import (
	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// declType returns the type that decides whether d collides with an outer
// declaration of the same kind.
func declType(d syntax.Decl) types.Type {
	switch d := d.(type) {
	case *syntax.ConstDecl:
		return d.Value.Type()
	case *syntax.VarDecl:
		return d.Type
	case *syntax.RoutineDecl:
		return d.Result
	}
	return types.Unset
}

// sameKind reports whether a and b live in the same scope map.
func sameKind(a, b syntax.Decl) bool {
	switch a.(type) {
	case *syntax.ConstDecl:
		_, ok := b.(*syntax.ConstDecl)
		return ok
	case *syntax.VarDecl:
		_, ok := b.(*syntax.VarDecl)
		return ok
	case *syntax.RoutineDecl:
		_, ok := b.(*syntax.RoutineDecl)
		return ok
	}
	return false
}

// declare inserts d, named by name, into s.
//
// A name may be reused in an inner scope only for a declaration of the same
// kind with a different type. Any other reuse of a visible name is an error:
// in the same scope, with another kind, or with the same kind and type.
func (c *checker) declare(s *Scope, name syntax.Token, d syntax.Decl) error {
	if old, where := s.LookupParent(name.Text); old != nil {
		switch {
		case !sameKind(old, d):
			return c.errorf(name.Pos, "'%s' already declared as %s", name.Text, kindName(old))
		case where == s:
			return c.errorf(name.Pos, "%s '%s' already declared", kindName(old), name.Text)
		case declType(old) == declType(d):
			return c.errorf(name.Pos, "%s '%s' already declared with type %s in %s",
				kindName(old), name.Text, declType(d), where.Comment())
		}
	}
	s.Insert(d)
	return nil
}

// constDecl evaluates the constant's value and declares it.
func (c *checker) constDecl(d *syntax.ConstDecl, s *Scope) error {
	t, err := c.expr(d.Value, s)
	if err != nil {
		return err
	}
	if !types.IsValue(t) {
		return c.errorf(d.Value.Pos(), "constant '%s' has no value", d.Name.Text)
	}
	return c.declare(s, d.Name, d)
}

func (c *checker) varDecl(d *syntax.VarDecl, s *Scope) error {
	return c.declare(s, d.Name, d)
}

// routineDecl declares r in s and checks it in two new scopes: one holding
// the parameters and one for the body, so body locals may shadow parameters.
//
// The routine is visible before its body is checked, so it may call itself.
// A function's parameter scope additionally holds its return slot: a
// variable named after the function, declared ahead of the parameters, that
// the body must assign.
func (c *checker) routineDecl(r *syntax.RoutineDecl, s *Scope) error {
	if err := c.declare(s, r.Name, r); err != nil {
		return err
	}

	comment := kindName(r) + " " + r.Name.Text
	params := NewScope(s, comment)
	var slot *syntax.VarDecl
	if r.IsFunction() {
		slot = &syntax.VarDecl{Name: r.Name, Type: r.Result}
		params.Insert(slot)
	}
	for _, p := range r.Params {
		if err := c.declare(params, p.Name, p); err != nil {
			return err
		}
		p.Assigned = true
	}

	if err := c.block(r.Body, NewScope(params, comment)); err != nil {
		return err
	}

	if slot != nil {
		r.ReturnAssigned = slot.Assigned
		if !r.ReturnAssigned {
			return c.errorf(r.Name.Pos, "function return value is not set for '%s'", r.Name.Text)
		}
	}
	return nil
}
