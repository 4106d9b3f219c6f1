// Package syntax implements the scanner, parser, syntax tree and printers for
// the PSI Pascal dialect.
package syntax

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Kind is the lexical category of a token.
type Kind uint

const (
	// Special tokens
	_EOF   Kind = iota // end of input
	_Error             // lexical error; Text holds the message

	_Name // identifier

	// Literals
	_IntLit    // 42
	_RealLit   // 3.14, 2e10
	_BoolLit   // true, false
	_CharLit   // 'a'
	_StringLit // "hello"

	// Operators
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Eql    // =
	_Neq    // <>
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_Assign // :=

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Comma  // ,
	_Semi   // ;
	_Colon  // :
	_Dot    // .

	// Keywords
	_And
	_Begin
	_Boolean
	_Char
	_Const
	_Do
	_Downto
	_Else
	_End
	_For
	_Function
	_If
	_Integer
	_Mod
	_Not
	_Or
	_Procedure
	_Program
	_Read
	_Real
	_Repeat
	_String
	_Then
	_To
	_Until
	_Var
	_While
	_Write
	_Writeln

	kindCount
)

var kindNames = [...]string{
	_EOF:   "EOF",
	_Error: "ERROR",

	_Name: "IDENT",

	_IntLit:    "INTEGER",
	_RealLit:   "REAL",
	_BoolLit:   "BOOLEAN",
	_CharLit:   "CHAR",
	_StringLit: "STRING",

	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Eql:    "=",
	_Neq:    "<>",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Assign: ":=",

	_Lparen: "(",
	_Rparen: ")",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",
	_Dot:    ".",

	_And:       "and",
	_Begin:     "begin",
	_Boolean:   "boolean",
	_Char:      "char",
	_Const:     "const",
	_Do:        "do",
	_Downto:    "downto",
	_Else:      "else",
	_End:       "end",
	_For:       "for",
	_Function:  "function",
	_If:        "if",
	_Integer:   "integer",
	_Mod:       "mod",
	_Not:       "not",
	_Or:        "or",
	_Procedure: "procedure",
	_Program:   "program",
	_Read:      "read",
	_Real:      "real",
	_Repeat:    "repeat",
	_String:    "string",
	_Then:      "then",
	_To:        "to",
	_Until:     "until",
	_Var:       "var",
	_While:     "while",
	_Write:     "write",
	_Writeln:   "writeln",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= _And && k <= _Writeln
}

// IsLiteral reports whether k is one of the literal categories.
func (k Kind) IsLiteral() bool {
	return k >= _IntLit && k <= _StringLit
}

// IsOperator reports whether k is an operator, including the word operators
// and, or, not and mod.
func (k Kind) IsOperator() bool {
	switch k {
	case _And, _Or, _Not, _Mod:
		return true
	}
	return k >= _Add && k <= _Assign
}

// Exported kinds for the type checker and the driver.
const (
	EOF   Kind = _EOF
	ERROR Kind = _Error

	IntLit    Kind = _IntLit
	RealLit   Kind = _RealLit
	BoolLit   Kind = _BoolLit
	CharLit   Kind = _CharLit
	StringLit Kind = _StringLit

	Add Kind = _Add // +
	Sub Kind = _Sub // -
	Mul Kind = _Mul // *
	Div Kind = _Div // /
	Mod Kind = _Mod // mod
	Eql Kind = _Eql // =
	Neq Kind = _Neq // <>
	Lss Kind = _Lss // <
	Leq Kind = _Leq // <=
	Gtr Kind = _Gtr // >
	Geq Kind = _Geq // >=
	And Kind = _And // and
	Or  Kind = _Or  // or
	Not Kind = _Not // not

	Function  Kind = _Function
	Procedure Kind = _Procedure
)

// Token is a lexical token produced by a TokenSource.
// Text is the source spelling for names and keywords, the decoded value for
// string and char literals, and the message for ERROR tokens.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

// String describes the token for diagnostics.
func (t Token) String() string {
	switch {
	case t.Kind == _EOF:
		return "end of file"
	case t.Kind == _Name:
		return fmt.Sprintf("identifier '%s'", t.Text)
	case t.Kind == _StringLit:
		return fmt.Sprintf("string %s", quoteString(t.Text))
	case t.Kind == _CharLit:
		return fmt.Sprintf("char %s", quoteChar(t.Text))
	case t.Kind.IsLiteral():
		return fmt.Sprintf("%s '%s'", t.Kind, t.Text)
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// keywords maps case-folded keyword spellings to their kinds.
// true and false are literals, not keywords.
var keywords = map[string]Kind{}

func init() {
	for k := _And; k <= _Writeln; k++ {
		keywords[kindNames[k]] = k
	}
}

// LookupKeyword returns the kind of ident, ignoring case.
// Non-keywords are identifiers (or boolean literals for true and false).
func LookupKeyword(ident string) Kind {
	folded := Fold(ident)
	if k, ok := keywords[folded]; ok {
		return k
	}
	if folded == "true" || folded == "false" {
		return _BoolLit
	}
	return _Name
}

// Fold returns the case-insensitive key of a name. Keywords and identifiers
// are compared by their folded spelling.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// TokenSource produces tokens on demand. After the end of input Next keeps
// returning an EOF token.
type TokenSource interface {
	Next() Token
	Filename() string
	Lines() []string
}
