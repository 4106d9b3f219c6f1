// Package types implements the type system for the PSI Pascal front end.
// This package provides type representations without AST dependencies.
package types

import "fmt"

// Type identifies the type of an expression or declaration.
// The set of types is closed; there are no user-defined types.
type Type uint8

const (
	Unset Type = iota // not yet analyzed

	Void   // no value (procedures, statements)
	Error  // ill-typed; a diagnostic has already been reported
	Int    // integer
	Real   // real
	Bool   // boolean
	String // string
	Char   // char

	typeCount
)

// typeNames maps types to their Pascal spelling.
var typeNames = [...]string{
	Unset:  "unset",
	Void:   "void",
	Error:  "error",
	Int:    "integer",
	Real:   "real",
	Bool:   "boolean",
	String: "string",
	Char:   "char",
}

// String returns the Pascal spelling of the type.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// All returns every analyzable type, in declaration order.
// Unset is not included.
func All() []Type {
	return []Type{Void, Error, Int, Real, Bool, String, Char}
}

// Lookup returns the type spelled name (integer, real, boolean, string, char).
// The second result is false if name does not denote a declarable type.
func Lookup(name string) (Type, bool) {
	switch name {
	case "integer":
		return Int, true
	case "real":
		return Real, true
	case "boolean":
		return Bool, true
	case "string":
		return String, true
	case "char":
		return Char, true
	}
	return Unset, false
}
