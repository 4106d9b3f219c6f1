package types2

import (
	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// fnCall checks a call used as a value. Only functions have one.
func (c *checker) fnCall(x *syntax.FnCall, s *Scope) (types.Type, error) {
	r, err := c.routine(x.Name, "function", s)
	if err != nil {
		return types.Error, err
	}
	if !r.IsFunction() {
		return types.Error, c.errorf(x.Name.Pos, "procedure '%s' used as a value", x.Name.Text)
	}
	if err := c.call(r, x.Name, x.Args, s); err != nil {
		return types.Error, err
	}
	return r.Result, nil
}

// callStmt checks a call statement. Calling a function discards its result.
func (c *checker) callStmt(st *syntax.CallStmt, s *Scope) error {
	r, err := c.routine(st.Name, "procedure", s)
	if err != nil {
		return err
	}
	return c.call(r, st.Name, st.Args, s)
}

// routine resolves the routine called by name.
func (c *checker) routine(name syntax.Token, want string, s *Scope) (*syntax.RoutineDecl, error) {
	if r := s.LookupRoutineParent(name.Text); r != nil {
		return r, nil
	}
	if d, _ := s.LookupParent(name.Text); d != nil {
		return nil, c.errorf(name.Pos, "'%s' is a %s, not a %s", name.Text, kindName(d), want)
	}
	return nil, c.errorf(name.Pos, "unknown %s '%s'", want, name.Text)
}

// call checks the arguments of a call of r against its parameters and
// converts them to the parameter types.
func (c *checker) call(r *syntax.RoutineDecl, name syntax.Token, args *syntax.ArgList, s *Scope) error {
	var list []syntax.Expr
	if args != nil {
		list = args.Exprs
	}
	if len(list) != len(r.Params) {
		noun := "parameters"
		if len(r.Params) == 1 {
			noun = "parameter"
		}
		return c.errorf(name.Pos, "parameter count mismatch: '%s' requires %d %s", r.Name.Text, len(r.Params), noun)
	}
	if args == nil {
		return nil
	}
	if _, err := c.expr(args, s); err != nil {
		return err
	}
	for i, p := range r.Params {
		x, ok := coerce(list[i], p.Type)
		if !ok {
			return c.errorf(list[i].Pos(), "parameter type mismatch: parameter %d of '%s' should be %s, got %s",
				i+1, r.Name.Text, p.Type, list[i].Type())
		}
		list[i] = x
	}
	return nil
}

// args checks every argument of a list.
func (c *checker) args(a *syntax.ArgList, s *Scope) error {
	for _, x := range a.Exprs {
		if _, err := c.expr(x, s); err != nil {
			return err
		}
	}
	return nil
}
