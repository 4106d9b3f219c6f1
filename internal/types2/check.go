package types2

import (
	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// checker holds the state of one Check call. The current scope is not part
// of it: every method that resolves names receives its scope explicitly, so
// leaving a block is simply returning from the call that entered it.
type checker struct {
	lines []string
}

// program checks a whole program in a fresh root scope.
func (c *checker) program(prog *syntax.Program) error {
	root := NewScope(nil, "program "+prog.Name.Text)
	return c.block(prog.Block, root)
}

// block checks the declarations and then the body of b in scope s.
func (c *checker) block(b *syntax.Block, s *Scope) error {
	if b.Decls != nil {
		if err := c.declarations(b.Decls, s); err != nil {
			return err
		}
	}
	return c.compoundStmt(b.Body, s)
}

// declarations checks constants, variables and routines in source order.
func (c *checker) declarations(d *syntax.Declarations, s *Scope) error {
	for _, cd := range d.Consts {
		if err := c.constDecl(cd, s); err != nil {
			return err
		}
	}
	for _, vd := range d.Vars {
		if err := c.varDecl(vd, s); err != nil {
			return err
		}
	}
	for _, rd := range d.Routines {
		if err := c.routineDecl(rd, s); err != nil {
			return err
		}
	}
	return nil
}

// coerce returns x converted to type to, wrapping it in a cast when the
// conversion is implicit. ok is false if x cannot be used as a to value.
func coerce(x syntax.Expr, to types.Type) (syntax.Expr, bool) {
	from := x.Type()
	switch {
	case from == to:
		return x, true
	case types.NeedsCast(from, to):
		return syntax.NewCast(x, to), true
	}
	return x, false
}
