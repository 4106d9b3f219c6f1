package syntax

// WalkFunc is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type WalkFunc func(node Node) bool

// Walk traverses a tree in depth-first source order.
func Walk(node Node, f WalkFunc) {
	if node == nil || !f(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		Walk(n.Block, f)

	case *Block:
		Walk(n.Decls, f)
		Walk(n.Body, f)

	case *Declarations:
		for _, c := range n.Consts {
			Walk(c, f)
		}
		for _, v := range n.Vars {
			Walk(v, f)
		}
		for _, r := range n.Routines {
			Walk(r, f)
		}

	case *ConstDecl:
		Walk(n.Value, f)

	case *RoutineDecl:
		for _, p := range n.Params {
			Walk(p, f)
		}
		Walk(n.Body, f)

	case *CompoundStmt:
		walkStmts(n.Stmts, f)

	case *WriteStmt:
		if n.Args != nil {
			Walk(n.Args, f)
		}

	case *AssignStmt:
		Walk(n.X, f)

	case *CallStmt:
		if n.Args != nil {
			Walk(n.Args, f)
		}

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *RepeatStmt:
		walkStmts(n.Stmts, f)
		Walk(n.Cond, f)

	case *ForStmt:
		Walk(n.Start, f)
		Walk(n.End, f)
		Walk(n.Body, f)

	case *Unary:
		Walk(n.X, f)

	case *Binary:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *FnCall:
		Walk(n.Args, f)

	case *ArgList:
		for _, x := range n.Exprs {
			Walk(x, f)
		}

	case *Cast:
		Walk(n.X, f)

	// Leaf nodes: VarDecl, ReadStmt, Literal, Ident
	}
}

func walkStmts(list []Stmt, f WalkFunc) {
	for _, s := range list {
		Walk(s, f)
	}
}

// Inspect traverses a tree and calls f for each node.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, WalkFunc(f))
}
