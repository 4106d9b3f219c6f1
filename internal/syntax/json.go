package syntax

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/psi/internal/types"
)

// FprintJSON writes a JSON representation of the tree to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toTree(node))
}

// FprintYAML writes the same representation as FprintJSON in YAML.
func FprintYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toTree(node)); err != nil {
		return err
	}
	return enc.Close()
}

// toTree converts a node into maps and slices that both encoders accept.
func toTree(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"node":  "Program",
			"pos":   n.pos.String(),
			"name":  n.Name.Text,
			"block": toTree(n.Block),
		}

	case *Block:
		return map[string]interface{}{
			"node":  "Block",
			"pos":   n.pos.String(),
			"decls": toTree(n.Decls),
			"body":  toTree(n.Body),
		}

	case *Declarations:
		return map[string]interface{}{
			"node":     "Declarations",
			"consts":   mapSlice(n.Consts),
			"vars":     mapSlice(n.Vars),
			"routines": mapSlice(n.Routines),
		}

	case *ConstDecl:
		return map[string]interface{}{
			"node":  "ConstDecl",
			"pos":   n.pos.String(),
			"name":  n.Name.Text,
			"value": toTree(n.Value),
		}

	case *VarDecl:
		return map[string]interface{}{
			"node":     "VarDecl",
			"pos":      n.pos.String(),
			"name":     n.Name.Text,
			"type":     n.Type.String(),
			"assigned": n.Assigned,
		}

	case *RoutineDecl:
		m := map[string]interface{}{
			"node":   "RoutineDecl",
			"pos":    n.pos.String(),
			"kind":   n.Keyword.Kind.String(),
			"name":   n.Name.Text,
			"params": mapSlice(n.Params),
			"body":   toTree(n.Body),
		}
		if n.IsFunction() {
			m["result"] = n.Result.String()
			m["returnAssigned"] = n.ReturnAssigned
		}
		return m

	case *CompoundStmt:
		return map[string]interface{}{
			"node":  "CompoundStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts),
		}

	case *WriteStmt:
		m := map[string]interface{}{
			"node":    "WriteStmt",
			"pos":     n.pos.String(),
			"newline": n.NewLine,
		}
		if n.Args != nil {
			m["args"] = toTree(n.Args)
		}
		return m

	case *ReadStmt:
		names := make([]string, len(n.Names))
		for i, name := range n.Names {
			names[i] = name.Text
		}
		return map[string]interface{}{
			"node":  "ReadStmt",
			"pos":   n.pos.String(),
			"names": names,
		}

	case *AssignStmt:
		return map[string]interface{}{
			"node":  "AssignStmt",
			"pos":   n.pos.String(),
			"name":  n.Name.Text,
			"value": toTree(n.X),
		}

	case *CallStmt:
		m := map[string]interface{}{
			"node": "CallStmt",
			"pos":  n.pos.String(),
			"name": n.Name.Text,
		}
		if n.Args != nil {
			m["args"] = toTree(n.Args)
		}
		return m

	case *IfStmt:
		m := map[string]interface{}{
			"node": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toTree(n.Cond),
			"then": toTree(n.Then),
		}
		if n.Else != nil {
			m["else"] = toTree(n.Else)
		}
		return m

	case *WhileStmt:
		return map[string]interface{}{
			"node": "WhileStmt",
			"pos":  n.pos.String(),
			"cond": toTree(n.Cond),
			"body": toTree(n.Body),
		}

	case *RepeatStmt:
		return map[string]interface{}{
			"node":  "RepeatStmt",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts),
			"cond":  toTree(n.Cond),
		}

	case *ForStmt:
		return map[string]interface{}{
			"node":      "ForStmt",
			"pos":       n.pos.String(),
			"var":       n.Var.Text,
			"start":     toTree(n.Start),
			"ascending": n.Ascending,
			"end":       toTree(n.End),
			"body":      toTree(n.Body),
		}

	case *Literal:
		return exprTree(n, map[string]interface{}{
			"node":  "Literal",
			"kind":  n.Value.Kind.String(),
			"value": n.Value.Text,
		})

	case *Ident:
		return exprTree(n, map[string]interface{}{
			"node": "Ident",
			"name": n.Name.Text,
		})

	case *Unary:
		return exprTree(n, map[string]interface{}{
			"node": "Unary",
			"op":   n.Op.Text,
			"x":    toTree(n.X),
		})

	case *Binary:
		return exprTree(n, map[string]interface{}{
			"node": "Binary",
			"op":   n.Op.Text,
			"x":    toTree(n.X),
			"y":    toTree(n.Y),
		})

	case *FnCall:
		return exprTree(n, map[string]interface{}{
			"node": "FnCall",
			"name": n.Name.Text,
			"args": toTree(n.Args),
		})

	case *ArgList:
		return exprTree(n, map[string]interface{}{
			"node":  "ArgList",
			"exprs": mapSlice(n.Exprs),
		})

	case *Cast:
		return exprTree(n, map[string]interface{}{
			"node": "Cast",
			"x":    toTree(n.X),
		})
	}

	return map[string]interface{}{"node": "unknown"}
}

// exprTree adds the position and the resolved type of x to m.
func exprTree(x Expr, m map[string]interface{}) map[string]interface{} {
	m["pos"] = x.Pos().String()
	if x.Type() != types.Unset {
		m["type"] = x.Type().String()
	}
	return m
}

func mapSlice[T Node](nodes []T) []interface{} {
	result := make([]interface{}, len(nodes))
	for i, n := range nodes {
		result[i] = toTree(n)
	}
	return result
}
