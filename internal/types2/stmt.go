package types2

import (
	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// stmts checks a list of statements.
func (c *checker) stmts(list []syntax.Stmt, s *Scope) error {
	for _, st := range list {
		if err := c.stmt(st, s); err != nil {
			return err
		}
	}
	return nil
}

// stmt checks a single statement.
func (c *checker) stmt(st syntax.Stmt, s *Scope) error {
	switch st := st.(type) {
	case *syntax.CompoundStmt:
		return c.compoundStmt(st, s)
	case *syntax.WriteStmt:
		return c.writeStmt(st, s)
	case *syntax.ReadStmt:
		return c.readStmt(st, s)
	case *syntax.AssignStmt:
		return c.assignStmt(st, s)
	case *syntax.CallStmt:
		return c.callStmt(st, s)
	case *syntax.IfStmt:
		return c.ifStmt(st, s)
	case *syntax.WhileStmt:
		return c.whileStmt(st, s)
	case *syntax.RepeatStmt:
		return c.repeatStmt(st, s)
	case *syntax.ForStmt:
		return c.forStmt(st, s)
	}
	return c.errorf(st.Pos(), "unexpected statement %T", st)
}

func (c *checker) compoundStmt(b *syntax.CompoundStmt, s *Scope) error {
	return c.stmts(b.Stmts, s)
}

// writeStmt checks that every argument is a printable value.
func (c *checker) writeStmt(w *syntax.WriteStmt, s *Scope) error {
	if w.Args == nil {
		return nil
	}
	if _, err := c.expr(w.Args, s); err != nil {
		return err
	}
	for _, x := range w.Args.Exprs {
		if !types.IsValue(x.Type()) {
			return c.errorf(x.Pos(), "cannot write a %s value", x.Type())
		}
	}
	return nil
}

// readStmt marks every target as assigned.
func (c *checker) readStmt(r *syntax.ReadStmt, s *Scope) error {
	for _, name := range r.Names {
		v, err := c.target(name, s)
		if err != nil {
			return err
		}
		v.Assigned = true
	}
	return nil
}

// assignStmt checks the value against the target's type and marks the
// target assigned.
func (c *checker) assignStmt(a *syntax.AssignStmt, s *Scope) error {
	v, err := c.target(a.Name, s)
	if err != nil {
		return err
	}
	if _, err := c.expr(a.X, s); err != nil {
		return err
	}
	x, ok := coerce(a.X, v.Type)
	if !ok {
		return c.errorf(a.X.Pos(), "cannot assign %s value to '%s' of type %s", a.X.Type(), a.Name.Text, v.Type)
	}
	a.X = x
	v.Assigned = true
	return nil
}

// target resolves the variable written by an assignment or a read.
func (c *checker) target(name syntax.Token, s *Scope) (*syntax.VarDecl, error) {
	d, _ := s.LookupParent(name.Text)
	switch d := d.(type) {
	case *syntax.VarDecl:
		return d, nil
	case *syntax.ConstDecl:
		return nil, c.errorf(name.Pos, "cannot assign to constant '%s'", name.Text)
	case *syntax.RoutineDecl:
		return nil, c.errorf(name.Pos, "cannot assign to %s '%s'", kindName(d), name.Text)
	}
	return nil, c.errorf(name.Pos, "unknown variable '%s'", name.Text)
}

// cond checks a loop or branch condition.
func (c *checker) cond(x syntax.Expr, s *Scope) error {
	t, err := c.expr(x, s)
	if err != nil {
		return err
	}
	if t != types.Bool {
		return c.errorf(x.Pos(), "condition must be boolean, got %s", t)
	}
	return nil
}

func (c *checker) ifStmt(st *syntax.IfStmt, s *Scope) error {
	if err := c.cond(st.Cond, s); err != nil {
		return err
	}
	if err := c.stmt(st.Then, s); err != nil {
		return err
	}
	if st.Else != nil {
		return c.stmt(st.Else, s)
	}
	return nil
}

func (c *checker) whileStmt(st *syntax.WhileStmt, s *Scope) error {
	if err := c.cond(st.Cond, s); err != nil {
		return err
	}
	return c.stmt(st.Body, s)
}

func (c *checker) repeatStmt(st *syntax.RepeatStmt, s *Scope) error {
	if err := c.stmts(st.Stmts, s); err != nil {
		return err
	}
	return c.cond(st.Cond, s)
}

// forStmt checks a counting loop. The control variable must be an integer
// variable; it counts as assigned by the loop.
func (c *checker) forStmt(st *syntax.ForStmt, s *Scope) error {
	v, err := c.target(st.Var, s)
	if err != nil {
		return err
	}
	if v.Type != types.Int {
		return c.errorf(st.Var.Pos, "for loop variable '%s' must be integer, got %s", st.Var.Text, v.Type)
	}
	if st.Start, err = c.bound(st.Start, s); err != nil {
		return err
	}
	if st.End, err = c.bound(st.End, s); err != nil {
		return err
	}
	v.Assigned = true
	return c.stmt(st.Body, s)
}

// bound checks a for loop bound and converts it to integer.
func (c *checker) bound(x syntax.Expr, s *Scope) (syntax.Expr, error) {
	if _, err := c.expr(x, s); err != nil {
		return x, err
	}
	y, ok := coerce(x, types.Int)
	if !ok {
		return x, c.errorf(x.Pos(), "for loop bound must be integer, got %s", x.Type())
	}
	return y, nil
}
