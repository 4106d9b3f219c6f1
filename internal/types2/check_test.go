package types2

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-not-fish/psi/internal/syntax"
	"github.com/you-not-fish/psi/internal/types"
)

// parseAndCheck parses src and runs the checker on the result.
// Syntax errors fail the test.
func parseAndCheck(t *testing.T, src string) (*syntax.Program, error) {
	t.Helper()
	s, err := syntax.NewScanner("test.pas", strings.NewReader(src))
	require.NoError(t, err)
	prog, err := syntax.NewParser(s).Parse()
	require.NoError(t, err, "parse")
	return prog, Check(prog, &Config{Lines: s.Lines()})
}

// expectNoErrors checks that src type-checks and returns the checked tree.
func expectNoErrors(t *testing.T, src string) *syntax.Program {
	t.Helper()
	prog, err := parseAndCheck(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return prog
}

// expectError checks that type-checking fails with a message containing msg.
func expectError(t *testing.T, src, msg string) *syntax.Error {
	t.Helper()
	_, err := parseAndCheck(t, src)
	if err == nil {
		t.Fatalf("expected error containing %q, got none", msg)
	}
	var serr *syntax.Error
	require.True(t, errors.As(err, &serr), "error %v is not a *syntax.Error", err)
	if !strings.Contains(serr.Msg, msg) {
		t.Errorf("expected error containing %q, got %q", msg, serr.Msg)
	}
	return serr
}

// body returns the i-th statement of the program body.
func body(prog *syntax.Program, i int) syntax.Stmt {
	return prog.Block.Body.Stmts[i]
}

func countCasts(n syntax.Node) int {
	casts := 0
	syntax.Inspect(n, func(n syntax.Node) bool {
		if _, ok := n.(*syntax.Cast); ok {
			casts++
		}
		return true
	})
	return casts
}

func TestScenarioIntegerAssignment(t *testing.T) {
	prog := expectNoErrors(t, `program P; var x: integer; begin x := 1 + 2 end.`)

	x := prog.Block.Decls.Vars[0]
	assert.Equal(t, types.Int, x.Type)
	assert.True(t, x.Assigned)
	assert.Zero(t, countCasts(prog))

	assign := body(prog, 0).(*syntax.AssignStmt)
	assert.Equal(t, types.Int, assign.X.Type())
}

func TestScenarioWideningAssignment(t *testing.T) {
	prog := expectNoErrors(t, `program P; var x: real; begin x := 1 end.`)

	assign := body(prog, 0).(*syntax.AssignStmt)
	cast, ok := assign.X.(*syntax.Cast)
	require.True(t, ok, "value is %T, want *syntax.Cast", assign.X)
	assert.Equal(t, types.Real, cast.Type())
	assert.Equal(t, types.Int, cast.X.Type())
	assert.IsType(t, &syntax.Literal{}, cast.X)
}

func TestScenarioArity(t *testing.T) {
	expectError(t, `program P;
procedure Q(a, b, c: integer);
begin end;
begin Q(1, 2) end.`, "parameter count mismatch: 'Q' requires 3 parameters")
}

func TestScenarioUnknownVariable(t *testing.T) {
	err := expectError(t, `program P; var x: integer; begin x := y end.`, "unknown variable 'y'")
	assert.Equal(t, "test.pas:1:39: unknown variable 'y'", err.Error())

	line, ok := err.SourceLine()
	assert.True(t, ok)
	assert.Equal(t, `program P; var x: integer; begin x := y end.`, line)
}

func TestScenarioReturnNotSet(t *testing.T) {
	err := expectError(t, `program P;
function f: integer;
begin end;
begin end.`, "function return value is not set for 'f'")
	assert.Equal(t, uint32(2), err.Pos.Line())
	assert.Equal(t, uint32(10), err.Pos.Col())
}

func TestNilConfig(t *testing.T) {
	prog, err := syntax.ParseString("test.pas", `program P; begin x := 1 end.`)
	require.NoError(t, err)
	err = Check(prog, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variable 'x'")
}

func TestRedeclaration(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"var twice", `program P; var x: integer; x: real; begin end.`, "variable 'x' already declared"},
		{"const twice", `program P; const k = 1; k = 2; begin end.`, "constant 'k' already declared"},
		{"case insensitive", `program P; var Count: integer; count: real; begin end.`, "variable 'count' already declared"},
		{"var after const", `program P; const x = 1; var x: integer; begin end.`, "'x' already declared as constant"},
		{"function after var", `program P; var f: integer; function f: integer; begin f := 1 end; begin end.`, "'f' already declared as variable"},
		{"routine twice", `program P; procedure Q; begin end; procedure Q; begin end; begin end.`, "procedure 'Q' already declared"},
		{"param twice", `program P; procedure Q(a: integer; a: real); begin end; begin end.`, "variable 'a' already declared"},
		{"local const named like outer var", `program P; var x: integer; procedure Q; const x = 1; begin end; begin end.`, "'x' already declared as variable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.src, tt.msg)
		})
	}
}

func TestShadowing(t *testing.T) {
	t.Run("different type", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
var x: integer;
procedure Q;
var x: real;
begin x := 1.5 end;
begin x := 1; Q end.`)
		q := prog.Block.Decls.Routines[0]
		inner := q.Body.Decls.Vars[0]
		assert.Equal(t, types.Real, inner.Type)
		assert.True(t, inner.Assigned)

		// The inner assignment resolved to the inner variable: no cast.
		assert.Zero(t, countCasts(q))
	})

	t.Run("same type", func(t *testing.T) {
		expectError(t, `program P;
var x: integer;
procedure Q;
var x: integer;
begin end;
begin end.`, "variable 'x' already declared with type integer in program P")
	})

	t.Run("constant same type", func(t *testing.T) {
		expectError(t, `program P;
const k = 1;
procedure Q;
const k = 2;
begin end;
begin end.`, "constant 'k' already declared with type integer in program P")
	})

	t.Run("constant different type", func(t *testing.T) {
		expectNoErrors(t, `program P;
const k = 1;
procedure Q;
const k = "one";
begin writeln(k) end;
begin end.`)
	})

	t.Run("parameter same type", func(t *testing.T) {
		expectError(t, `program P;
var a: integer;
procedure Q(a: integer);
begin end;
begin end.`, "variable 'a' already declared with type integer in program P")
	})

	t.Run("parameter different type", func(t *testing.T) {
		expectNoErrors(t, `program P;
var a: integer;
procedure Q(a: string);
begin writeln(a) end;
begin end.`)
	})

	t.Run("local shadows parameter, different type", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
procedure Q(a: integer);
var a: real;
begin a := 1.5 end;
begin Q(1) end.`)
		q := prog.Block.Decls.Routines[0]
		local := q.Body.Decls.Vars[0]
		assert.Equal(t, types.Real, local.Type)
		assert.True(t, local.Assigned)
		assert.Zero(t, countCasts(q))
	})

	t.Run("local shadows parameter, same type", func(t *testing.T) {
		expectError(t, `program P;
procedure Q(a: integer);
var a: integer;
begin end;
begin Q(1) end.`, "variable 'a' already declared with type integer in procedure Q")
	})

	t.Run("local shadows return slot", func(t *testing.T) {
		expectError(t, `program P;
function F: integer;
var F: integer;
begin F := 1 end;
begin end.`, "variable 'F' already declared with type integer in function F")
	})

	t.Run("local hides return slot", func(t *testing.T) {
		// The body assigns the real local, never the integer slot.
		expectError(t, `program P;
function F: integer;
var F: real;
begin F := 1.5 end;
begin end.`, "function return value is not set for 'F'")
	})

	t.Run("nested routine same result", func(t *testing.T) {
		expectError(t, `program P;
function F: integer;
  function G: integer;
  begin G := 1 end;
  function H: integer;
    function G: integer;
    begin G := 2 end;
  begin H := 3 end;
begin F := 4 end;
begin end.`, "function 'G' already declared with type integer in function F")
	})

	t.Run("scopes end with their block", func(t *testing.T) {
		expectError(t, `program P;
procedure Q;
var local: integer;
begin local := 1 end;
begin local := 2 end.`, "unknown variable 'local'")
	})
}

func TestRecursion(t *testing.T) {
	prog := expectNoErrors(t, `program P;
var r: integer;
function Fact(n: integer): integer;
begin
  if n <= 1 then Fact := 1 else Fact := n * Fact(n - 1)
end;
begin r := Fact(5) end.`)

	fact := prog.Block.Decls.Routines[0]
	assert.True(t, fact.ReturnAssigned)
	assert.True(t, fact.Params[0].Assigned)
	assert.Equal(t, types.Int, body(prog, 0).(*syntax.AssignStmt).X.Type())
}

func TestDefiniteAssignment(t *testing.T) {
	t.Run("read and assign mark variables", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
var a, b, c: integer;
begin read(a); b := a end.`)
		vars := prog.Block.Decls.Vars
		assert.True(t, vars[0].Assigned, "a")
		assert.True(t, vars[1].Assigned, "b")
		assert.False(t, vars[2].Assigned, "c")
	})

	t.Run("assigned on one path", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
function F(b: boolean): integer;
begin if b then F := 1 end;
begin end.`)
		assert.True(t, prog.Block.Decls.Routines[0].ReturnAssigned)
	})

	t.Run("procedure has no return slot", func(t *testing.T) {
		prog := expectNoErrors(t, `program P; procedure Q; begin end; begin Q end.`)
		assert.False(t, prog.Block.Decls.Routines[0].ReturnAssigned)
	})

	t.Run("return slot read only", func(t *testing.T) {
		expectError(t, `program P;
function F: integer;
begin writeln(F) end;
begin end.`, "function return value is not set for 'F'")
	})

	t.Run("for variable", func(t *testing.T) {
		prog := expectNoErrors(t, `program P; var i: integer; begin for i := 1 to 3 do writeln(i) end.`)
		assert.True(t, prog.Block.Decls.Vars[0].Assigned)
	})

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"assign constant", `program P; const k = 1; begin k := 2 end.`, "cannot assign to constant 'k'"},
		{"read constant", `program P; const k = 1; begin read(k) end.`, "cannot assign to constant 'k'"},
		{"assign procedure", `program P; procedure Q; begin end; begin Q := 1 end.`, "cannot assign to procedure 'Q'"},
		{"read unknown", `program P; begin read(z) end.`, "unknown variable 'z'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.src, tt.msg)
		})
	}
}

// exprProgram declares one variable of every type and writes expr.
func exprProgram(expr string) string {
	return fmt.Sprintf(`program P;
var i: integer; r: real; b: boolean; s: string; c: char;
begin writeln(%s) end.`, expr)
}

func TestBinaryTable(t *testing.T) {
	tests := []struct {
		expr string
		want types.Type // types.Error: rejected
	}{
		{"i + i", types.Int},
		{"i + r", types.Real},
		{"r * i", types.Real},
		{"i / i", types.Int},
		{"r - r", types.Real},
		{"i mod i", types.Int},
		{"r mod r", types.Error},
		{"i mod r", types.Error},
		{"s + s", types.String},
		{"s + c", types.String},
		{"c + s", types.String},
		{"s + i", types.String},
		{"i + s", types.String},
		{"s + r", types.String},
		{"s + b", types.String},
		{"b + s", types.String},
		{"s - s", types.Error},
		{"s - i", types.Error},
		{"s * i", types.Error},
		{"c + c", types.Error},
		{"b + b", types.Error},
		{"i < r", types.Bool},
		{"r >= r", types.Bool},
		{"s < s", types.Bool},
		{"c <= c", types.Bool},
		{"b < b", types.Error},
		{"s < c", types.Error},
		{"b = b", types.Bool},
		{"i = r", types.Bool},
		{"s <> s", types.Bool},
		{"s = c", types.Error},
		{"i = b", types.Error},
		{"i and i", types.Int},
		{"b or b", types.Bool},
		{"i and b", types.Error},
		{"r or r", types.Error},
		{"-r", types.Real},
		{"+i", types.Int},
		{"-b", types.Error},
		{"not b", types.Bool},
		{"not i", types.Int},
		{"not s", types.Error},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog, err := parseAndCheck(t, exprProgram(tt.expr))
			if tt.want == types.Error {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid operand")
				return
			}
			require.NoError(t, err)
			x := body(prog, 0).(*syntax.WriteStmt).Args.Exprs[0]
			assert.Equal(t, tt.want, x.Type())
		})
	}
}

func TestInvalidOperandsMessage(t *testing.T) {
	err := expectError(t, exprProgram("s - i"), "invalid operands for '-': string and integer")
	// Reported at the operator.
	assert.Equal(t, uint32(3), err.Pos.Line())
	assert.Equal(t, uint32(17), err.Pos.Col())
}

func TestBinaryCasts(t *testing.T) {
	tests := []struct {
		expr        string
		left, right types.Type // types.Unset: no cast on that side
	}{
		{"i + r", types.Real, types.Unset},
		{"r + i", types.Unset, types.Real},
		{"i < r", types.Real, types.Unset},
		{"s + c", types.Unset, types.String},
		{"c + s", types.String, types.Unset},
		{"s + i", types.Unset, types.String},
		{"i + s", types.String, types.Unset},
		{"s + r", types.Unset, types.String},
		{"s + b", types.Unset, types.String},
		{"i + i", types.Unset, types.Unset},
		{"s + s", types.Unset, types.Unset},
	}
	castType := func(x syntax.Expr) types.Type {
		if c, ok := x.(*syntax.Cast); ok {
			return c.Type()
		}
		return types.Unset
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog := expectNoErrors(t, exprProgram(tt.expr))
			bin := body(prog, 0).(*syntax.WriteStmt).Args.Exprs[0].(*syntax.Binary)
			assert.Equal(t, tt.left, castType(bin.X), "left")
			assert.Equal(t, tt.right, castType(bin.Y), "right")
		})
	}
}

func TestStringConcatenation(t *testing.T) {
	prog := expectNoErrors(t, `program P; var s: string; begin s := "n=" + 1 end.`)
	assign := body(prog, 0).(*syntax.AssignStmt)
	bin, ok := assign.X.(*syntax.Binary)
	require.True(t, ok, "assigned value is %T, want *syntax.Binary", assign.X)
	assert.Equal(t, types.String, bin.Type())

	cast, ok := bin.Y.(*syntax.Cast)
	require.True(t, ok, "right operand is %T, want *syntax.Cast", bin.Y)
	assert.Equal(t, types.String, cast.Type())
	assert.Equal(t, types.Int, cast.X.Type())

	// Concatenation widens to string outside the assignment lattice.
	assert.False(t, types.Coercible(types.Int, types.String))
	expectError(t, `program P; var s: string; begin s := 1 end.`,
		"cannot assign integer value to 's' of type string")
}

func TestCastsFollowLattice(t *testing.T) {
	prog := expectNoErrors(t, `program P;
var i: integer; r: real; s: string; c: char;
procedure Q(x: real; y: string; z: integer);
begin end;
begin
  r := i * 2 + r / 3;
  s := s + c;
  i := c;
  Q(i, c, c);
  if r > i then s := "x" + c
end.`)
	syntax.Inspect(prog, func(n syntax.Node) bool {
		if c, ok := n.(*syntax.Cast); ok {
			assert.True(t, types.NeedsCast(c.X.Type(), c.Type()),
				"cast from %s to %s at %s", c.X.Type(), c.Type(), c.Pos())
		}
		return true
	})
	assert.Equal(t, 9, countCasts(prog))
}

func TestCoercionLattice(t *testing.T) {
	values := []types.Type{types.Int, types.Real, types.Bool, types.String, types.Char}
	for _, from := range values {
		for _, to := range values {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				src := fmt.Sprintf(`program P;
var src: %s; dst: %s;
procedure Q(p: %s);
begin end;
begin dst := src; Q(src) end.`, from, to, to)
				prog, err := parseAndCheck(t, src)
				if !types.Coercible(from, to) {
					require.Error(t, err)
					assert.Contains(t, err.Error(), "cannot assign")
					return
				}
				require.NoError(t, err)
				assign := body(prog, 0).(*syntax.AssignStmt)
				call := body(prog, 1).(*syntax.CallStmt)
				_, castAssign := assign.X.(*syntax.Cast)
				_, castArg := call.Args.Exprs[0].(*syntax.Cast)
				assert.Equal(t, types.NeedsCast(from, to), castAssign)
				assert.Equal(t, types.NeedsCast(from, to), castArg)
				assert.Equal(t, to, assign.X.Type())
			})
		}
	}
}

func TestCalls(t *testing.T) {
	t.Run("function as statement", func(t *testing.T) {
		expectNoErrors(t, `program P;
function F(n: integer): integer;
begin F := n end;
begin F(1) end.`)
	})

	t.Run("argument cast", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
procedure Q(x: real);
begin writeln(x) end;
begin Q(1) end.`)
		arg := body(prog, 0).(*syntax.CallStmt).Args.Exprs[0]
		assert.IsType(t, &syntax.Cast{}, arg)
		assert.Equal(t, types.Real, arg.Type())
	})

	t.Run("call result type", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
var s: string;
function Name: string;
begin Name := "psi" end;
begin s := Name() + "!" end.`)
		bin := body(prog, 0).(*syntax.AssignStmt).X.(*syntax.Binary)
		assert.Equal(t, types.String, bin.X.Type())
		assert.Equal(t, types.Void, bin.X.(*syntax.FnCall).Args.Type())
	})

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"singular", `program P; procedure Q(a: integer); begin end; begin Q end.`,
			"parameter count mismatch: 'Q' requires 1 parameter"},
		{"too many", `program P; procedure Q; begin end; begin Q(1) end.`,
			"parameter count mismatch: 'Q' requires 0 parameters"},
		{"argument type", `program P; procedure Q(a, b: integer); begin end; begin Q(1, "s") end.`,
			"parameter type mismatch: parameter 2 of 'Q' should be integer, got string"},
		{"unknown procedure", `program P; begin Nope end.`, "unknown procedure 'Nope'"},
		{"unknown function", `program P; var x: integer; begin x := g(1) end.`, "unknown function 'g'"},
		{"variable called", `program P; var x: integer; begin x end.`, "'x' is a variable, not a procedure"},
		{"procedure as value", `program P; var x: integer; procedure Q; begin end; begin x := Q() end.`,
			"procedure 'Q' used as a value"},
		{"routine as variable", `program P; var x: integer; procedure Q; begin end; begin x := Q end.`,
			"'Q' is a procedure, not a variable"},
		{"write procedure", `program P; procedure Q; begin end; begin writeln(Q()) end.`,
			"procedure 'Q' used as a value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.src, tt.msg)
		})
	}
}

func TestStatements(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		prog := expectNoErrors(t, `program P;
var i: integer; ok: boolean; c: char;
begin
  ok := true;
  while ok do ok := false;
  repeat i := i + 1 until i > 3;
  for i := 10 downto c do writeln(i)
end.`)
		loop := body(prog, 3).(*syntax.ForStmt)
		assert.IsType(t, &syntax.Cast{}, loop.End)
		assert.Equal(t, types.Int, loop.End.Type())
	})

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"if", `program P; begin if 1 then writeln end.`, "condition must be boolean, got integer"},
		{"while", `program P; begin while "x" do writeln end.`, "condition must be boolean, got string"},
		{"repeat", `program P; var r: real; begin repeat r := 1 until r end.`, "condition must be boolean, got real"},
		{"for real variable", `program P; var r: real; begin for r := 1 to 2 do writeln end.`,
			"for loop variable 'r' must be integer, got real"},
		{"for real bound", `program P; var i: integer; begin for i := 1 to 2.5 do writeln end.`,
			"for loop bound must be integer, got real"},
		{"for unknown variable", `program P; begin for i := 1 to 2 do writeln end.`, "unknown variable 'i'"},
		{"error in else", `program P; begin if true then writeln else q := 1 end.`, "unknown variable 'q'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.src, tt.msg)
		})
	}
}

func TestConstants(t *testing.T) {
	prog := expectNoErrors(t, `program P;
const a = 2; b = a * 3; greeting = "hi";
var x: integer; r: real;
begin x := b; r := b; writeln(greeting) end.`)
	consts := prog.Block.Decls.Consts
	assert.Equal(t, types.Int, consts[1].Value.Type())
	assert.Equal(t, types.String, consts[2].Value.Type())
	assert.IsType(t, &syntax.Cast{}, body(prog, 1).(*syntax.AssignStmt).X)

	expectError(t, `program P; const s = "a"; var x: integer; begin x := s end.`,
		"cannot assign string value to 'x' of type integer")
	expectError(t, `program P; const k = missing; begin end.`, "unknown variable 'missing'")
}

func TestCheckIdempotent(t *testing.T) {
	src := `program P;
const limit = 3;
var i: integer; r: real; s: string; c: char;
function Avg(a, b: real): real;
begin Avg := (a + b) / 2 end;
begin
  c := 'x';
  s := "v" + c;
  for i := 1 to limit do r := Avg(i, r) + i;
  writeln(s, r)
end.`
	prog := expectNoErrors(t, src)

	var first bytes.Buffer
	syntax.Dump(&first, prog)
	casts := countCasts(prog)

	require.NoError(t, Check(prog, nil))
	var second bytes.Buffer
	syntax.Dump(&second, prog)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, casts, countCasts(prog))
}

func TestEveryExpressionTyped(t *testing.T) {
	prog := expectNoErrors(t, `program P;
var i: integer; r: real; ok: boolean;
function Sq(x: real): real;
begin Sq := x * x end;
begin
  read(i);
  r := Sq(i) - -1;
  ok := not (r > 2) and (i mod 2 = 0);
  if ok or false then writeln(r, i, ok)
end.`)
	syntax.Inspect(prog, func(n syntax.Node) bool {
		if x, ok := n.(syntax.Expr); ok {
			assert.NotEqual(t, types.Unset, x.Type(), "%T at %s", x, x.Pos())
		}
		return true
	})
}

func TestErrorCarriesListing(t *testing.T) {
	err := expectError(t, "program P;\nbegin\n  x := 1\nend.", "unknown variable 'x'")
	require.Len(t, err.Lines, 4)
	line, ok := err.SourceLine()
	assert.True(t, ok)
	assert.Equal(t, "  x := 1", line)
	assert.Equal(t, "test.pas:3:3: unknown variable 'x'", err.Error())
}
