package types2

import (
	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// expr checks x, records its type and returns it.
func (c *checker) expr(x syntax.Expr, s *Scope) (types.Type, error) {
	var t types.Type
	var err error
	switch x := x.(type) {
	case *syntax.Literal:
		t = literalType(x.Value.Kind)
	case *syntax.Ident:
		t, err = c.ident(x, s)
	case *syntax.Unary:
		t, err = c.unary(x, s)
	case *syntax.Binary:
		t, err = c.binary(x, s)
	case *syntax.FnCall:
		t, err = c.fnCall(x, s)
	case *syntax.ArgList:
		t, err = types.Void, c.args(x, s)
	case *syntax.Cast:
		// Already converted by an earlier pass; only the operand needs
		// its annotations.
		if _, err = c.expr(x.X, s); err != nil {
			return types.Error, err
		}
		return x.Type(), nil
	default:
		return types.Error, c.errorf(x.Pos(), "unexpected expression %T", x)
	}
	if err != nil {
		return types.Error, err
	}
	x.SetType(t)
	return t, nil
}

func literalType(k syntax.Kind) types.Type {
	switch k {
	case syntax.IntLit:
		return types.Int
	case syntax.RealLit:
		return types.Real
	case syntax.BoolLit:
		return types.Bool
	case syntax.CharLit:
		return types.Char
	case syntax.StringLit:
		return types.String
	}
	return types.Error
}

// ident resolves a name used as a value.
func (c *checker) ident(x *syntax.Ident, s *Scope) (types.Type, error) {
	d, _ := s.LookupParent(x.Name.Text)
	switch d := d.(type) {
	case *syntax.VarDecl:
		return d.Type, nil
	case *syntax.ConstDecl:
		return d.Value.Type(), nil
	case *syntax.RoutineDecl:
		return types.Error, c.errorf(x.Name.Pos, "'%s' is a %s, not a variable", x.Name.Text, kindName(d))
	}
	return types.Error, c.errorf(x.Name.Pos, "unknown variable '%s'", x.Name.Text)
}

func (c *checker) unary(x *syntax.Unary, s *Scope) (types.Type, error) {
	t, err := c.expr(x.X, s)
	if err != nil {
		return types.Error, err
	}
	switch x.Op.Kind {
	case syntax.Add, syntax.Sub:
		if types.IsNumeric(t) {
			return t, nil
		}
	case syntax.Not:
		if t == types.Bool || t == types.Int {
			return t, nil
		}
	}
	return types.Error, c.errorf(x.Op.Pos, "invalid operand for '%s': %s", x.Op.Kind, t)
}

// binary checks x against the operator table and converts the operands
// to the types the operator consumes.
func (c *checker) binary(x *syntax.Binary, s *Scope) (types.Type, error) {
	a, err := c.expr(x.X, s)
	if err != nil {
		return types.Error, err
	}
	b, err := c.expr(x.Y, s)
	if err != nil {
		return types.Error, err
	}

	t := binaryType(x.Op.Kind, a, b)
	if t == types.Error {
		return types.Error, c.errorf(x.Op.Pos, "invalid operands for '%s': %s and %s", x.Op.Kind, a, b)
	}

	switch {
	case a == types.Int && b == types.Real:
		x.X = syntax.NewCast(x.X, types.Real)
	case a == types.Real && b == types.Int:
		x.Y = syntax.NewCast(x.Y, types.Real)
	case a == types.String && b != types.String:
		x.Y = syntax.NewCast(x.Y, types.String)
	case a != types.String && b == types.String:
		x.X = syntax.NewCast(x.X, types.String)
	}
	return t, nil
}

// binaryType returns the result of applying op to operands of types a and
// b, or types.Error. The first matching rule wins.
func binaryType(op syntax.Kind, a, b types.Type) types.Type {
	both := func(pred func(types.Type) bool) bool { return pred(a) && pred(b) }

	switch op {
	case syntax.Add, syntax.Sub, syntax.Mul, syntax.Div:
		if both(types.IsNumeric) {
			if a == b {
				return a
			}
			return types.Real
		}
		// Concatenation: the other operand is converted to string.
		if op == syntax.Add && (a == types.String || b == types.String) && types.IsValue(a) && types.IsValue(b) {
			return types.String
		}
	case syntax.Mod:
		if a == types.Int && b == types.Int {
			return types.Int
		}
	case syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		if both(types.IsNumeric) {
			return types.Bool
		}
		if a == b && types.IsOrdered(a) {
			return types.Bool
		}
	case syntax.Eql, syntax.Neq:
		if a == b && types.IsValue(a) {
			return types.Bool
		}
		if both(types.IsNumeric) {
			return types.Bool
		}
	case syntax.And, syntax.Or:
		if a == b && (a == types.Int || a == types.Bool) {
			return a
		}
	}
	return types.Error
}
