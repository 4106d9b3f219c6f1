package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented debug view of the tree to w, one node per line,
// including resolved types, cast nodes and assignment flags.
func Dump(w io.Writer, node Node) {
	d := &dumper{w: w}
	d.dump(node)
}

type dumper struct {
	w      io.Writer
	indent int
}

func (d *dumper) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.w, "%s%s", strings.Repeat("  ", d.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child one level deeper.
func (d *dumper) field(label string, n Node) {
	d.printf("%s:\n", label)
	d.indent++
	d.dump(n)
	d.indent--
}

func (d *dumper) dump(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		d.printf("Program %s %s\n", n.Name.Text, n.pos)
		d.indent++
		d.dump(n.Block)
		d.indent--

	case *Block:
		d.printf("Block %s\n", n.pos)
		d.indent++
		d.dump(n.Decls)
		d.dump(n.Body)
		d.indent--

	case *Declarations:
		d.printf("Declarations\n")
		d.indent++
		for _, c := range n.Consts {
			d.dump(c)
		}
		for _, v := range n.Vars {
			d.dump(v)
		}
		for _, r := range n.Routines {
			d.dump(r)
		}
		d.indent--

	case *ConstDecl:
		d.printf("ConstDecl %s %s\n", n.Name.Text, n.pos)
		d.indent++
		d.dump(n.Value)
		d.indent--

	case *VarDecl:
		d.printf("VarDecl %s: %s assigned=%t %s\n", n.Name.Text, n.Type, n.Assigned, n.pos)

	case *RoutineDecl:
		if n.IsFunction() {
			d.printf("FunctionDecl %s: %s returnAssigned=%t %s\n", n.Name.Text, n.Result, n.ReturnAssigned, n.pos)
		} else {
			d.printf("ProcedureDecl %s %s\n", n.Name.Text, n.pos)
		}
		d.indent++
		if len(n.Params) > 0 {
			d.printf("Params:\n")
			d.indent++
			for _, p := range n.Params {
				d.dump(p)
			}
			d.indent--
		}
		d.dump(n.Body)
		d.indent--

	case *CompoundStmt:
		d.printf("CompoundStmt %s\n", n.pos)
		d.indent++
		for _, s := range n.Stmts {
			d.dump(s)
		}
		d.indent--

	case *WriteStmt:
		d.printf("WriteStmt newline=%t %s\n", n.NewLine, n.pos)
		if n.Args != nil {
			d.indent++
			d.dump(n.Args)
			d.indent--
		}

	case *ReadStmt:
		names := make([]string, len(n.Names))
		for i, name := range n.Names {
			names[i] = name.Text
		}
		d.printf("ReadStmt %s %s\n", strings.Join(names, ", "), n.pos)

	case *AssignStmt:
		d.printf("AssignStmt %s %s\n", n.Name.Text, n.pos)
		d.indent++
		d.dump(n.X)
		d.indent--

	case *CallStmt:
		d.printf("CallStmt %s %s\n", n.Name.Text, n.pos)
		if n.Args != nil {
			d.indent++
			d.dump(n.Args)
			d.indent--
		}

	case *IfStmt:
		d.printf("IfStmt %s\n", n.pos)
		d.indent++
		d.field("Cond", n.Cond)
		d.field("Then", n.Then)
		if n.Else != nil {
			d.field("Else", n.Else)
		}
		d.indent--

	case *WhileStmt:
		d.printf("WhileStmt %s\n", n.pos)
		d.indent++
		d.field("Cond", n.Cond)
		d.field("Body", n.Body)
		d.indent--

	case *RepeatStmt:
		d.printf("RepeatStmt %s\n", n.pos)
		d.indent++
		for _, s := range n.Stmts {
			d.dump(s)
		}
		d.field("Until", n.Cond)
		d.indent--

	case *ForStmt:
		dir := "downto"
		if n.Ascending {
			dir = "to"
		}
		d.printf("ForStmt %s %s %s\n", n.Var.Text, dir, n.pos)
		d.indent++
		d.field("Start", n.Start)
		d.field("End", n.End)
		d.field("Body", n.Body)
		d.indent--

	case *Literal:
		d.printf("Literal %s %s (%s)\n", n.Value.Kind, literalText(n.Value), typeName(n.typ))

	case *Ident:
		d.printf("Ident %s (%s)\n", n.Name.Text, typeName(n.typ))

	case *Unary:
		d.printf("Unary %s (%s)\n", n.Op.Text, typeName(n.typ))
		d.indent++
		d.dump(n.X)
		d.indent--

	case *Binary:
		d.printf("Binary %s (%s)\n", n.Op.Text, typeName(n.typ))
		d.indent++
		d.dump(n.X)
		d.dump(n.Y)
		d.indent--

	case *FnCall:
		d.printf("FnCall %s (%s)\n", n.Name.Text, typeName(n.typ))
		d.indent++
		d.dump(n.Args)
		d.indent--

	case *ArgList:
		d.printf("ArgList\n")
		d.indent++
		for _, x := range n.Exprs {
			d.dump(x)
		}
		d.indent--

	case *Cast:
		d.printf("Cast (%s)\n", typeName(n.typ))
		d.indent++
		d.dump(n.X)
		d.indent--

	default:
		d.printf("%T\n", n)
	}
}

// literalText returns the source form of a literal token.
func literalText(tok Token) string {
	switch tok.Kind {
	case _StringLit:
		return quoteString(tok.Text)
	case _CharLit:
		return quoteChar(tok.Text)
	}
	return tok.Text
}
