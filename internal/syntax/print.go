package syntax

import (
	"io"
	"strings"

	"github.com/you-not-fish/psi/internal/types"
)

// Fprint writes node to w as PSI source text.
//
// Binary expressions are fully parenthesized and casts are printed as their
// operand, so the output of a checked tree parses back into the tree it was
// checked from.
func Fprint(w io.Writer, node Node) error {
	p := &printer{w: w}
	if err := Accept[error](node, p); err != nil {
		return err
	}
	if _, ok := node.(*Program); ok {
		p.write("\n")
	}
	return p.err
}

// printer implements Visitor[error]. Write errors are sticky: after the
// first failure nothing more is written and every method returns it.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (p *printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// nl starts a new line at the current indentation.
func (p *printer) nl() {
	p.write("\n" + strings.Repeat("  ", p.indent))
}

func (p *printer) visit(n Node) error {
	if p.err != nil {
		return p.err
	}
	return Accept[error](n, p)
}

func (p *printer) VisitProgram(n *Program) error {
	p.write("program " + n.Name.Text + ";")
	p.visit(n.Block)
	p.write(".")
	return p.err
}

func (p *printer) VisitBlock(n *Block) error {
	p.visit(n.Decls)
	p.nl()
	return p.visit(n.Body)
}

func (p *printer) VisitDeclarations(n *Declarations) error {
	if len(n.Consts) > 0 {
		p.nl()
		p.write("const")
		p.indent++
		for _, c := range n.Consts {
			p.nl()
			p.visit(c)
		}
		p.indent--
	}
	if len(n.Vars) > 0 {
		p.nl()
		p.write("var")
		p.indent++
		for _, v := range n.Vars {
			p.nl()
			p.visit(v)
			p.write(";")
		}
		p.indent--
	}
	for _, r := range n.Routines {
		p.nl()
		p.nl()
		p.visit(r)
	}
	return p.err
}

func (p *printer) VisitConstDecl(n *ConstDecl) error {
	p.write(n.Name.Text + " = ")
	p.visit(n.Value)
	p.write(";")
	return p.err
}

func (p *printer) VisitVarDecl(n *VarDecl) error {
	p.write(n.Name.Text + ": " + n.Type.String())
	return p.err
}

func (p *printer) VisitRoutineDecl(n *RoutineDecl) error {
	if n.IsFunction() {
		p.write("function ")
	} else {
		p.write("procedure ")
	}
	p.write(n.Name.Text)
	if len(n.Params) > 0 {
		p.write("(")
		for i, param := range n.Params {
			if i > 0 {
				p.write("; ")
			}
			p.visit(param)
		}
		p.write(")")
	}
	if n.IsFunction() {
		p.write(": " + n.Result.String())
	}
	p.write(";")
	p.visit(n.Body)
	p.write(";")
	return p.err
}

func (p *printer) VisitCompoundStmt(n *CompoundStmt) error {
	p.write("begin")
	p.indent++
	for _, s := range n.Stmts {
		p.nl()
		p.visit(s)
		p.write(";")
	}
	p.indent--
	p.nl()
	p.write("end")
	return p.err
}

func (p *printer) VisitWriteStmt(n *WriteStmt) error {
	if n.NewLine {
		p.write("writeln")
	} else {
		p.write("write")
	}
	if n.Args != nil {
		p.visit(n.Args)
	}
	return p.err
}

func (p *printer) VisitReadStmt(n *ReadStmt) error {
	names := make([]string, len(n.Names))
	for i, name := range n.Names {
		names[i] = name.Text
	}
	p.write("read(" + strings.Join(names, ", ") + ")")
	return p.err
}

func (p *printer) VisitAssignStmt(n *AssignStmt) error {
	p.write(n.Name.Text + " := ")
	return p.visit(n.X)
}

func (p *printer) VisitCallStmt(n *CallStmt) error {
	p.write(n.Name.Text)
	if n.Args != nil {
		p.visit(n.Args)
	}
	return p.err
}

func (p *printer) VisitIfStmt(n *IfStmt) error {
	p.write("if ")
	p.visit(n.Cond)
	p.write(" then")
	p.body(n.Then)
	if n.Else != nil {
		p.nl()
		p.write("else")
		p.body(n.Else)
	}
	return p.err
}

func (p *printer) VisitWhileStmt(n *WhileStmt) error {
	p.write("while ")
	p.visit(n.Cond)
	p.write(" do")
	p.body(n.Body)
	return p.err
}

func (p *printer) VisitRepeatStmt(n *RepeatStmt) error {
	p.write("repeat")
	p.indent++
	for i, s := range n.Stmts {
		p.nl()
		p.visit(s)
		if i < len(n.Stmts)-1 {
			p.write(";")
		}
	}
	p.indent--
	p.nl()
	p.write("until ")
	return p.visit(n.Cond)
}

func (p *printer) VisitForStmt(n *ForStmt) error {
	p.write("for " + n.Var.Text + " := ")
	p.visit(n.Start)
	if n.Ascending {
		p.write(" to ")
	} else {
		p.write(" downto ")
	}
	p.visit(n.End)
	p.write(" do")
	p.body(n.Body)
	return p.err
}

// body prints the statement controlled by if, while or for on its own
// indented line.
func (p *printer) body(s Stmt) {
	p.indent++
	p.nl()
	p.visit(s)
	p.indent--
}

func (p *printer) VisitLiteral(n *Literal) error {
	switch n.Value.Kind {
	case _StringLit:
		p.write(quoteString(n.Value.Text))
	case _CharLit:
		p.write(quoteChar(n.Value.Text))
	default:
		p.write(n.Value.Text)
	}
	return p.err
}

func (p *printer) VisitIdent(n *Ident) error {
	p.write(n.Name.Text)
	return p.err
}

func (p *printer) VisitUnary(n *Unary) error {
	p.write(n.Op.Text)
	if n.Op.Kind == _Not {
		p.write(" ")
	}
	return p.visit(n.X)
}

func (p *printer) VisitBinary(n *Binary) error {
	p.write("(")
	p.visit(n.X)
	p.write(" " + n.Op.Text + " ")
	p.visit(n.Y)
	p.write(")")
	return p.err
}

func (p *printer) VisitFnCall(n *FnCall) error {
	p.write(n.Name.Text)
	return p.visit(n.Args)
}

func (p *printer) VisitArgList(n *ArgList) error {
	p.write("(")
	for i, x := range n.Exprs {
		if i > 0 {
			p.write(", ")
		}
		p.visit(x)
	}
	p.write(")")
	return p.err
}

func (p *printer) VisitCast(n *Cast) error {
	return p.visit(n.X)
}

// quoteString returns s as a double-quoted PSI string literal.
func quoteString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteChar returns s as a single-quoted PSI char literal.
func quoteChar(s string) string {
	if s == "'" {
		return "''''"
	}
	return "'" + s + "'"
}

// typeName formats an expression type for the tree dumps.
func typeName(t types.Type) string {
	if t == types.Unset {
		return "?"
	}
	return t.String()
}
