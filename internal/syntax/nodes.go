package syntax

import (
	"fmt"

	"github.com/you-not-fish/psi/internal/types"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// Nodes fall into declarations, statements and expressions. Program, Block,
// Declarations and ArgList are structural. The set of node types is closed:
// the marker methods keep implementations inside this package.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first token of the node
	aNode()
}

// Expr is the interface for expression nodes. Every expression carries a
// type, types.Unset until the tree has been checked.
type Expr interface {
	Node
	Type() types.Type
	SetType(types.Type)
	aExpr()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct {
	node
	typ types.Type
}

func (x *expr) Type() types.Type     { return x.typ }
func (x *expr) SetType(t types.Type) { x.typ = t }
func (*expr) aExpr()                 {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Program structure

// Program is a complete compilation unit: program Name; Block.
type Program struct {
	node
	Name  Token
	Block *Block
}

// Block is a declaration section followed by a compound statement.
type Block struct {
	node
	Decls *Declarations
	Body  *CompoundStmt
}

// Declarations holds the declarations of a block in source order per kind.
type Declarations struct {
	node
	Consts   []*ConstDecl
	Vars     []*VarDecl
	Routines []*RoutineDecl
}

// ----------------------------------------------------------------------------
// Declarations

// ConstDecl is a constant definition: Name = Value.
type ConstDecl struct {
	decl
	Name  Token
	Value Expr
}

// VarDecl declares a variable or a routine parameter.
// Assigned is set by the checker once the variable is written anywhere.
type VarDecl struct {
	decl
	Name     Token
	Type     types.Type
	Assigned bool
}

// RoutineDecl declares a procedure or a function.
// Result is types.Void for procedures. For functions, ReturnAssigned is set
// by the checker when the body assigns to the function name.
type RoutineDecl struct {
	decl
	Keyword        Token // procedure or function
	Name           Token
	Params         []*VarDecl
	Result         types.Type
	Body           *Block
	ReturnAssigned bool
}

// IsFunction reports whether the routine returns a value.
func (r *RoutineDecl) IsFunction() bool {
	return r.Keyword.Kind == _Function
}

// ----------------------------------------------------------------------------
// Statements

// CompoundStmt is begin Stmts end.
type CompoundStmt struct {
	stmt
	Stmts []Stmt
}

// WriteStmt is write(Args) or writeln(Args). Args is nil when the
// statement has no argument list.
type WriteStmt struct {
	stmt
	NewLine bool
	Args    *ArgList
}

// ReadStmt is read(Names).
type ReadStmt struct {
	stmt
	Names []Token
}

// AssignStmt is Name := X.
type AssignStmt struct {
	stmt
	Name Token
	X    Expr
}

// CallStmt is a procedure call. Args is nil when the call has no argument
// list.
type CallStmt struct {
	stmt
	Name Token
	Args *ArgList
}

// IfStmt is if Cond then Then [else Else]. Else may be nil.
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt is while Cond do Body.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// RepeatStmt is repeat Stmts until Cond.
type RepeatStmt struct {
	stmt
	Stmts []Stmt
	Cond  Expr
}

// ForStmt is for Var := Start to|downto End do Body.
type ForStmt struct {
	stmt
	Var       Token
	Start     Expr
	Ascending bool // to (true) or downto (false)
	End       Expr
	Body      Stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Literal is an integer, real, boolean, char or string literal.
type Literal struct {
	expr
	Value Token
}

// Ident is a reference to a constant or variable.
type Ident struct {
	expr
	Name Token
}

// Unary is Op X with Op one of + - not.
type Unary struct {
	expr
	Op Token
	X  Expr
}

// Binary is X Op Y.
type Binary struct {
	expr
	X  Expr
	Op Token
	Y  Expr
}

// FnCall is a function call used as a value.
type FnCall struct {
	expr
	Name Token
	Args *ArgList
}

// ArgList is a parenthesized list of arguments. Its own type is void.
type ArgList struct {
	expr
	Exprs []Expr
}

// Cast converts X to the cast's type. Casts are never produced by the
// parser; the checker inserts them where a value is implicitly converted.
type Cast struct {
	expr
	X Expr
}

// NewCast returns a cast of x to typ, positioned at x.
func NewCast(x Expr, typ types.Type) *Cast {
	c := &Cast{X: x}
	c.pos = x.Pos()
	c.typ = typ
	return c
}

// ----------------------------------------------------------------------------
// Visitor protocol

// Visitor has one method per node type. Accept dispatches a node to the
// matching method, so a new consumer of the tree only has to implement this
// interface.
type Visitor[T any] interface {
	VisitProgram(*Program) T
	VisitBlock(*Block) T
	VisitDeclarations(*Declarations) T

	VisitConstDecl(*ConstDecl) T
	VisitVarDecl(*VarDecl) T
	VisitRoutineDecl(*RoutineDecl) T

	VisitCompoundStmt(*CompoundStmt) T
	VisitWriteStmt(*WriteStmt) T
	VisitReadStmt(*ReadStmt) T
	VisitAssignStmt(*AssignStmt) T
	VisitCallStmt(*CallStmt) T
	VisitIfStmt(*IfStmt) T
	VisitWhileStmt(*WhileStmt) T
	VisitRepeatStmt(*RepeatStmt) T
	VisitForStmt(*ForStmt) T

	VisitLiteral(*Literal) T
	VisitIdent(*Ident) T
	VisitUnary(*Unary) T
	VisitBinary(*Binary) T
	VisitFnCall(*FnCall) T
	VisitArgList(*ArgList) T
	VisitCast(*Cast) T
}

// Accept calls the method of v that matches the dynamic type of n.
func Accept[T any](n Node, v Visitor[T]) T {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *Block:
		return v.VisitBlock(n)
	case *Declarations:
		return v.VisitDeclarations(n)
	case *ConstDecl:
		return v.VisitConstDecl(n)
	case *VarDecl:
		return v.VisitVarDecl(n)
	case *RoutineDecl:
		return v.VisitRoutineDecl(n)
	case *CompoundStmt:
		return v.VisitCompoundStmt(n)
	case *WriteStmt:
		return v.VisitWriteStmt(n)
	case *ReadStmt:
		return v.VisitReadStmt(n)
	case *AssignStmt:
		return v.VisitAssignStmt(n)
	case *CallStmt:
		return v.VisitCallStmt(n)
	case *IfStmt:
		return v.VisitIfStmt(n)
	case *WhileStmt:
		return v.VisitWhileStmt(n)
	case *RepeatStmt:
		return v.VisitRepeatStmt(n)
	case *ForStmt:
		return v.VisitForStmt(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Ident:
		return v.VisitIdent(n)
	case *Unary:
		return v.VisitUnary(n)
	case *Binary:
		return v.VisitBinary(n)
	case *FnCall:
		return v.VisitFnCall(n)
	case *ArgList:
		return v.VisitArgList(n)
	case *Cast:
		return v.VisitCast(n)
	}
	panic(fmt.Sprintf("syntax: unexpected node %T", n))
}
