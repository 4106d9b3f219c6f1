package types2

import (
	"fmt"

	"github.com/you-not-fish/psi/internal/syntax"
)

// errorf returns a diagnostic at pos.
func (c *checker) errorf(pos syntax.Pos, format string, args ...any) error {
	return syntax.Errorf(pos, c.lines, format, args...)
}

// kindName names the kind of a declaration in diagnostics.
func kindName(d syntax.Decl) string {
	switch d := d.(type) {
	case *syntax.ConstDecl:
		return "constant"
	case *syntax.VarDecl:
		return "variable"
	case *syntax.RoutineDecl:
		if d.IsFunction() {
			return "function"
		}
		return "procedure"
	}
	return fmt.Sprintf("%T", d)
}

// describeDecl formats a declaration for Scope.String.
func describeDecl(d syntax.Decl) string {
	switch d := d.(type) {
	case *syntax.ConstDecl:
		return "constant " + d.Value.Type().String()
	case *syntax.VarDecl:
		return "variable " + d.Type.String()
	case *syntax.RoutineDecl:
		if d.IsFunction() {
			return "function " + d.Result.String()
		}
		return "procedure"
	}
	return "?"
}
