package syntax

import (
	"strings"

	"github.com/you-not-fish/psi/internal/types"
)

// Parser is a recursive descent parser for PSI programs.
//
// Besides the current token it keeps the two most recently consumed tokens.
// An assignment and a call both start with an identifier; the parser
// consumes the identifier and looks at what follows, recovering the target
// from the window.
type Parser struct {
	src   TokenSource
	lines []string

	tok      Token // current, not yet consumed
	prev     Token // last consumed
	prevPrev Token // consumed before prev
}

// NewParser returns a parser reading tokens from src.
func NewParser(src TokenSource) *Parser {
	p := &Parser{src: src, lines: src.Lines()}
	p.tok = src.Next()
	p.prev, p.prevPrev = p.tok, p.tok
	return p
}

// Parse parses a complete program. The first syntax error aborts parsing
// and is returned as an *Error; no partial tree is returned.
func (p *Parser) Parse() (*Program, error) {
	prog, err := p.program()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != _EOF {
		return nil, p.unexpected()
	}
	return prog, nil
}

// ----------------------------------------------------------------------------
// Token navigation

// match consumes the current token if its kind is one of kinds.
func (p *Parser) match(kinds ...Kind) bool {
	if !p.peek(kinds...) {
		return false
	}
	p.prevPrev, p.prev = p.prev, p.tok
	p.tok = p.src.Next()
	return true
}

// peek reports whether the current token's kind is one of kinds without
// consuming it.
func (p *Parser) peek(kinds ...Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

// expect is match that fails with a syntax error. It returns the consumed
// token.
func (p *Parser) expect(kinds ...Kind) (Token, error) {
	if !p.match(kinds...) {
		if p.tok.Kind == _Error {
			return Token{}, p.errorAt(p.tok.Pos, p.tok.Text)
		}
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = describe(k)
		}
		return Token{}, p.errorAt(p.tok.Pos, "expected %s, found %s", strings.Join(names, " or "), p.tok)
	}
	return p.prev, nil
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) errorAt(pos Pos, format string, args ...any) *Error {
	return Errorf(pos, p.lines, format, args...)
}

// unexpected reports the current token. Lexical errors are reported with
// the scanner's message.
func (p *Parser) unexpected() *Error {
	if p.tok.Kind == _Error {
		return p.errorAt(p.tok.Pos, p.tok.Text)
	}
	return p.errorAt(p.tok.Pos, "unexpected %s", p.tok)
}

// describe names a token kind in "expected ..." messages.
func describe(k Kind) string {
	switch {
	case k == _Name:
		return "identifier"
	case k == _EOF:
		return "end of file"
	case k.IsLiteral():
		return strings.ToLower(k.String()) + " literal"
	}
	return "'" + k.String() + "'"
}

// ----------------------------------------------------------------------------
// Declarations

// program = "program" IDENT ";" block "." .
func (p *Parser) program() (*Program, error) {
	kw, err := p.expect(_Program)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(_Name)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Semi); err != nil {
		return nil, err
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Dot); err != nil {
		return nil, err
	}
	prog := &Program{Name: name, Block: block}
	prog.pos = kw.Pos
	return prog, nil
}

// block = declarations compound-stmt .
func (p *Parser) block() (*Block, error) {
	b := &Block{}
	b.pos = p.tok.Pos
	var err error
	if b.Decls, err = p.declarations(); err != nil {
		return nil, err
	}
	if b.Body, err = p.compoundStmt(); err != nil {
		return nil, err
	}
	return b, nil
}

// declarations = [ "const" const-def { const-def } ]
//
//	[ "var" var-decl ";" { var-decl ";" } ]
//	{ proc-decl | func-decl } .
func (p *Parser) declarations() (*Declarations, error) {
	d := &Declarations{}
	d.pos = p.tok.Pos

	if p.match(_Const) {
		for {
			c, err := p.constDef()
			if err != nil {
				return nil, err
			}
			d.Consts = append(d.Consts, c)
			if !p.peek(_Name) {
				break
			}
		}
	}

	if p.match(_Var) {
		for {
			vars, err := p.varDecl()
			if err != nil {
				return nil, err
			}
			d.Vars = append(d.Vars, vars...)
			if _, err := p.expect(_Semi); err != nil {
				return nil, err
			}
			if !p.peek(_Name) {
				break
			}
		}
	}

	for p.peek(_Procedure, _Function) {
		r, err := p.routineDecl()
		if err != nil {
			return nil, err
		}
		d.Routines = append(d.Routines, r)
	}
	return d, nil
}

// const-def = IDENT "=" expression ";" .
func (p *Parser) constDef() (*ConstDecl, error) {
	name, err := p.expect(_Name)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Eql); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Semi); err != nil {
		return nil, err
	}
	c := &ConstDecl{Name: name, Value: value}
	c.pos = name.Pos
	return c, nil
}

// var-decl = ident-list ":" type .
func (p *Parser) varDecl() ([]*VarDecl, error) {
	names, err := p.identList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Colon); err != nil {
		return nil, err
	}
	typ, err := p.typ()
	if err != nil {
		return nil, err
	}
	vars := make([]*VarDecl, len(names))
	for i, name := range names {
		v := &VarDecl{Name: name, Type: typ}
		v.pos = name.Pos
		vars[i] = v
	}
	return vars, nil
}

// ident-list = IDENT { "," IDENT } .
func (p *Parser) identList() ([]Token, error) {
	var names []Token
	for {
		name, err := p.expect(_Name)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.match(_Comma) {
			return names, nil
		}
	}
}

// type = "integer" | "real" | "boolean" | "string" | "char" .
func (p *Parser) typ() (types.Type, error) {
	tok, err := p.expect(_Integer, _Real, _Boolean, _String, _Char)
	if err != nil {
		return types.Unset, err
	}
	switch tok.Kind {
	case _Integer:
		return types.Int, nil
	case _Real:
		return types.Real, nil
	case _Boolean:
		return types.Bool, nil
	case _String:
		return types.String, nil
	}
	return types.Char, nil
}

// proc-decl = "procedure" IDENT [ paramlist ] ";" block ";" .
// func-decl = "function" IDENT [ paramlist ] ":" type ";" block ";" .
func (p *Parser) routineDecl() (*RoutineDecl, error) {
	kw, err := p.expect(_Procedure, _Function)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(_Name)
	if err != nil {
		return nil, err
	}
	r := &RoutineDecl{Keyword: kw, Name: name, Result: types.Void}
	r.pos = kw.Pos

	if p.peek(_Lparen) {
		if r.Params, err = p.paramList(); err != nil {
			return nil, err
		}
	}
	if r.IsFunction() {
		if _, err := p.expect(_Colon); err != nil {
			return nil, err
		}
		if r.Result, err = p.typ(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(_Semi); err != nil {
		return nil, err
	}
	if r.Body, err = p.block(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Semi); err != nil {
		return nil, err
	}
	return r, nil
}

// paramlist = "(" [ var-decl { ( ";" | "," ) var-decl } ] ")" .
func (p *Parser) paramList() ([]*VarDecl, error) {
	if _, err := p.expect(_Lparen); err != nil {
		return nil, err
	}
	var params []*VarDecl
	if !p.peek(_Rparen) {
		for {
			vars, err := p.varDecl()
			if err != nil {
				return nil, err
			}
			params = append(params, vars...)
			if !p.match(_Semi, _Comma) {
				break
			}
		}
	}
	if _, err := p.expect(_Rparen); err != nil {
		return nil, err
	}
	return params, nil
}

// ----------------------------------------------------------------------------
// Statements

// statement = write-stmt | read-stmt | assign-stmt | call-stmt | if-stmt
//
//	| while-stmt | repeat-stmt | for-stmt | compound-stmt .
func (p *Parser) stmt() (Stmt, error) {
	switch {
	case p.match(_Write, _Writeln):
		return p.writeStmt()
	case p.match(_Read):
		return p.readStmt()
	case p.match(_Name):
		if p.match(_Assign) {
			return p.assignStmt()
		}
		return p.callStmt()
	case p.peek(_If):
		return p.ifStmt()
	case p.peek(_While):
		return p.whileStmt()
	case p.peek(_Repeat):
		return p.repeatStmt()
	case p.peek(_For):
		return p.forStmt()
	case p.peek(_Begin):
		return p.compoundStmt()
	}
	return nil, p.unexpected()
}

// compound-stmt = "begin" { statement [ ";" ] } "end" .
func (p *Parser) compoundStmt() (*CompoundStmt, error) {
	kw, err := p.expect(_Begin)
	if err != nil {
		return nil, err
	}
	s := &CompoundStmt{}
	s.pos = kw.Pos
	for !p.match(_End) {
		st, err := p.stmt()
		if err != nil {
			return nil, err
		}
		s.Stmts = append(s.Stmts, st)
		p.match(_Semi)
	}
	return s, nil
}

// write-stmt = ( "write" | "writeln" ) [ arglist ] .
// The keyword has already been consumed.
func (p *Parser) writeStmt() (*WriteStmt, error) {
	kw := p.prev
	s := &WriteStmt{NewLine: kw.Kind == _Writeln}
	s.pos = kw.Pos
	if p.peek(_Lparen) {
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		s.Args = args
	}
	return s, nil
}

// read-stmt = "read" "(" ident-list ")" .
func (p *Parser) readStmt() (*ReadStmt, error) {
	s := &ReadStmt{}
	s.pos = p.prev.Pos
	if _, err := p.expect(_Lparen); err != nil {
		return nil, err
	}
	names, err := p.identList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(_Rparen); err != nil {
		return nil, err
	}
	s.Names = names
	return s, nil
}

// assign-stmt = IDENT ":=" expression .
// Both IDENT and ":=" have been consumed; the target is prevPrev.
func (p *Parser) assignStmt() (*AssignStmt, error) {
	name := p.prevPrev
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	s := &AssignStmt{Name: name, X: x}
	s.pos = name.Pos
	return s, nil
}

// call-stmt = IDENT [ arglist ] .
// IDENT has been consumed.
func (p *Parser) callStmt() (*CallStmt, error) {
	name := p.prev
	s := &CallStmt{Name: name}
	s.pos = name.Pos
	if p.peek(_Lparen) {
		args, err := p.argList()
		if err != nil {
			return nil, err
		}
		s.Args = args
	}
	return s, nil
}

// if-stmt = "if" expression "then" statement [ "else" statement ] .
func (p *Parser) ifStmt() (*IfStmt, error) {
	kw, err := p.expect(_If)
	if err != nil {
		return nil, err
	}
	s := &IfStmt{}
	s.pos = kw.Pos
	if s.Cond, err = p.expression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Then); err != nil {
		return nil, err
	}
	if s.Then, err = p.stmt(); err != nil {
		return nil, err
	}
	if p.match(_Else) {
		if s.Else, err = p.stmt(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// while-stmt = "while" expression "do" statement .
func (p *Parser) whileStmt() (*WhileStmt, error) {
	kw, err := p.expect(_While)
	if err != nil {
		return nil, err
	}
	s := &WhileStmt{}
	s.pos = kw.Pos
	if s.Cond, err = p.expression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Do); err != nil {
		return nil, err
	}
	if s.Body, err = p.stmt(); err != nil {
		return nil, err
	}
	return s, nil
}

// repeat-stmt = "repeat" statement { ";" statement } "until" expression .
// A semicolon directly before "until" is allowed.
func (p *Parser) repeatStmt() (*RepeatStmt, error) {
	kw, err := p.expect(_Repeat)
	if err != nil {
		return nil, err
	}
	s := &RepeatStmt{}
	s.pos = kw.Pos
	for {
		st, err := p.stmt()
		if err != nil {
			return nil, err
		}
		s.Stmts = append(s.Stmts, st)
		if !p.match(_Semi) || p.peek(_Until) {
			break
		}
	}
	if _, err := p.expect(_Until); err != nil {
		return nil, err
	}
	if s.Cond, err = p.expression(); err != nil {
		return nil, err
	}
	return s, nil
}

// for-stmt = "for" IDENT ":=" expression ( "to" | "downto" ) expression "do" statement .
func (p *Parser) forStmt() (*ForStmt, error) {
	kw, err := p.expect(_For)
	if err != nil {
		return nil, err
	}
	s := &ForStmt{}
	s.pos = kw.Pos
	if s.Var, err = p.expect(_Name); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Assign); err != nil {
		return nil, err
	}
	if s.Start, err = p.expression(); err != nil {
		return nil, err
	}
	dir, err := p.expect(_To, _Downto)
	if err != nil {
		return nil, err
	}
	s.Ascending = dir.Kind == _To
	if s.End, err = p.expression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(_Do); err != nil {
		return nil, err
	}
	if s.Body, err = p.stmt(); err != nil {
		return nil, err
	}
	return s, nil
}

// ----------------------------------------------------------------------------
// Expressions
//
// Precedence, lowest first:
//
//	equality        = <>
//	comparison      < <= > >=
//	additive        + - or
//	multiplicative  * / and mod
//	unary           + - not

// expression = equality .
func (p *Parser) expression() (Expr, error) {
	return p.equality()
}

// equality = comparison [ ( "=" | "<>" ) comparison ] .
func (p *Parser) equality() (Expr, error) {
	x, err := p.comparison()
	if err != nil {
		return nil, err
	}
	if p.match(_Eql, _Neq) {
		op := p.prev
		y, err := p.comparison()
		if err != nil {
			return nil, err
		}
		x = newBinary(x, op, y)
	}
	return x, nil
}

// comparison = term [ ( "<" | "<=" | ">" | ">=" ) term ] .
func (p *Parser) comparison() (Expr, error) {
	x, err := p.term()
	if err != nil {
		return nil, err
	}
	if p.match(_Lss, _Leq, _Gtr, _Geq) {
		op := p.prev
		y, err := p.term()
		if err != nil {
			return nil, err
		}
		x = newBinary(x, op, y)
	}
	return x, nil
}

// term = factor { ( "+" | "-" | "or" ) factor } .
func (p *Parser) term() (Expr, error) {
	x, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(_Add, _Sub, _Or) {
		op := p.prev
		y, err := p.factor()
		if err != nil {
			return nil, err
		}
		x = newBinary(x, op, y)
	}
	return x, nil
}

// factor = unary { ( "*" | "/" | "and" | "mod" ) unary } .
func (p *Parser) factor() (Expr, error) {
	x, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(_Mul, _Div, _And, _Mod) {
		op := p.prev
		y, err := p.unary()
		if err != nil {
			return nil, err
		}
		x = newBinary(x, op, y)
	}
	return x, nil
}

// unary = ( "+" | "-" | "not" ) unary | primary .
func (p *Parser) unary() (Expr, error) {
	if p.match(_Add, _Sub, _Not) {
		op := p.prev
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		u := &Unary{Op: op, X: x}
		u.pos = op.Pos
		return u, nil
	}
	return p.primary()
}

// primary = IDENT [ arglist ] | literal | "(" expression ")" .
func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(_Name):
		name := p.prev
		if p.peek(_Lparen) {
			args, err := p.argList()
			if err != nil {
				return nil, err
			}
			call := &FnCall{Name: name, Args: args}
			call.pos = name.Pos
			return call, nil
		}
		id := &Ident{Name: name}
		id.pos = name.Pos
		return id, nil

	case p.match(_IntLit, _RealLit, _BoolLit, _CharLit, _StringLit):
		lit := &Literal{Value: p.prev}
		lit.pos = p.prev.Pos
		return lit, nil

	case p.match(_Lparen):
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(_Rparen); err != nil {
			return nil, err
		}
		return x, nil
	}

	if p.tok.Kind == _Error {
		return nil, p.unexpected()
	}
	return nil, p.errorAt(p.tok.Pos, "expected identifier or literal, found %s", p.tok)
}

// arglist = "(" [ expression { "," expression } ] ")" .
func (p *Parser) argList() (*ArgList, error) {
	open, err := p.expect(_Lparen)
	if err != nil {
		return nil, err
	}
	list := &ArgList{}
	list.pos = open.Pos
	if !p.peek(_Rparen) {
		for {
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			list.Exprs = append(list.Exprs, x)
			if !p.match(_Comma) {
				break
			}
		}
	}
	if _, err := p.expect(_Rparen); err != nil {
		return nil, err
	}
	return list, nil
}

func newBinary(x Expr, op Token, y Expr) *Binary {
	b := &Binary{X: x, Op: op, Y: y}
	b.pos = x.Pos()
	return b
}

// ParseString parses a program held in memory.
func ParseString(filename, src string) (*Program, error) {
	s, err := NewScanner(filename, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return NewParser(s).Parse()
}
