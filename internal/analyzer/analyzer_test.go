package analyzer

import (
	"io"
	"strings"
	"testing"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/lexer"
	"github.com/matrixlang/matrixlang/internal/parser"
	"github.com/matrixlang/matrixlang/internal/pipeline"
	"github.com/matrixlang/matrixlang/internal/stdlib"
	"github.com/matrixlang/matrixlang/internal/typesystem"
)

func analyze(t *testing.T, input string) (*ast.Program, map[ast.Node]typesystem.Type, []*diagnostics.Error) {
	t.Helper()
	ctx := pipeline.NewContext(input, "test.matrix")
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&AnalyzerProcessor{Registry: stdlib.NewRegistry(io.Discard)},
	)
	ctx = p.Run(ctx)

	program, _ := ctx.AstRoot.(*ast.Program)
	typeMap, _ := ctx.TypeMap.(map[ast.Node]typesystem.Type)
	return program, typeMap, ctx.Errors
}

// lastType returns the inferred type of the final expression statement.
func lastType(t *testing.T, input string) typesystem.Type {
	t.Helper()
	program, typeMap, errs := analyze(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors for %q: %v", input, errs[0])
	}
	last, ok := program.Statements[len(program.Statements)-1].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("last statement of %q is not an expression", input)
	}
	typ, ok := typeMap[last.Expression]
	if !ok {
		t.Fatalf("no recorded type for final expression of %q", input)
	}
	return typ
}

func expectError(t *testing.T, input, wantKind, wantFragment string) {
	t.Helper()
	_, _, errs := analyze(t, input)
	if len(errs) == 0 {
		t.Fatalf("expected an error for %q", input)
	}
	err := errs[0]
	if err.Kind() != wantKind {
		t.Errorf("%q: kind = %q, want %q", input, err.Kind(), wantKind)
	}
	if wantFragment != "" && !strings.Contains(err.Message, wantFragment) {
		t.Errorf("%q: message %q does not contain %q", input, err.Message, wantFragment)
	}
}

func TestInferredTypes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "Int"},
		{"3.14", "Float"},
		{"true", "Bool"},
		{`"hi"`, "String"},
		{"()", "Unit"},
		{"1 + 2 * 3", "Int"},
		{"2.0 ^ 10.0", "Float"},
		{"1 < 2", "Bool"},
		{`"a" + "b"`, "String"},
		{"!false && true", "Bool"},
		{"1..10", "Range"},
		{"[1, 2, 3]", "[Int]"},
		{"[[1, 2], [3, 4]]", "Matrix<Int>"},
		{"[[1.0], [2.0]]", "Matrix<Float>"},
		{"[[true], [false]]", "[[Bool]]"},
		{"[x * x | x in 1..5]", "[Int]"},
		{"[x | x in [1.0, 2.0] if x > 1.0]", "[Float]"},
		{"if 1 < 2 { 10 } else { 20 }", "Int"},
		{"(x: Int) => x + 1", "(Int) -> Int"},
		{"let f = (x: Int, y: Int) => x + y; f(1, 2)", "Int"},
		{"sqrt(16.0)", "Float"},
		{"len([1, 2, 3])", "Int"},
		{"str(42)", "String"},
		{"pi", "Float"},
		{"abs(-3)", "Int"},
		{"abs(-3.0)", "Float"},
		{"min(1, 2)", "Int"},
	}

	for _, tt := range tests {
		got := lastType(t, tt.input)
		if got.String() != tt.want {
			t.Errorf("%q: type = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// A let-bound lambda is generalized; each use site instantiates fresh
// variables, so one call site's concrete type cannot leak into another.
func TestLetPolymorphism(t *testing.T) {
	got := lastType(t, `
let id = (x) => x
let n = id(1)
let s = id("hello")
s
`)
	if got.String() != "String" {
		t.Fatalf("type = %s, want String", got)
	}
}

// A self-recursive lambda must still generalize: the pre-binding that lets
// the body see its own name may not leak into the environment's free
// variables at generalization time.
func TestRecursiveFunctionIsPolymorphic(t *testing.T) {
	got := lastType(t, `
let pick = (b, x) => if b { x } else { pick(b, x) }
let n = pick(true, 1)
let s = pick(false, "a")
s
`)
	if got.String() != "String" {
		t.Fatalf("type = %s, want String", got)
	}
}

func TestBuiltinPolymorphism(t *testing.T) {
	// println must accept any argument type within one program.
	_, _, errs := analyze(t, `
println(42)
println("text")
println([1, 2])
`)
	if len(errs) > 0 {
		t.Fatalf("unexpected error: %v", errs[0])
	}
}

// Mutable bindings stay monomorphic: the first use pins the type.
func TestMutableBindingIsMonomorphic(t *testing.T) {
	expectError(t, `
let mut f = (x) => x
let a = f(1)
let b = f("s")
`, "TypeError::Mismatch", "")
}

func TestRecursiveFunction(t *testing.T) {
	got := lastType(t, `
let fact = (n: Int) => if n <= 1 { 1 } else { n * fact(n - 1) }
fact(5)
`)
	if got.String() != "Int" {
		t.Fatalf("type = %s, want Int", got)
	}
}

// Arithmetic on an otherwise unconstrained variable defaults it to Int.
func TestNumericDefaulting(t *testing.T) {
	got := lastType(t, "let double = (x) => x * 2; double")
	if got.String() != "(Int) -> Int" {
		t.Fatalf("type = %s, want (Int) -> Int", got)
	}
}

func TestHigherOrderFunction(t *testing.T) {
	got := lastType(t, `
let apply = (f: (Int) -> Int, x: Int) => f(x)
apply((n: Int) => n * n, 7)
`)
	if got.String() != "Int" {
		t.Fatalf("type = %s, want Int", got)
	}
}

func TestStructTyping(t *testing.T) {
	got := lastType(t, `
struct Point { x: Float, y: Float }
let p = Point { x: 1.0, y: 2.0 }
p.x
`)
	if got.String() != "Float" {
		t.Fatalf("type = %s, want Float", got)
	}
}

func TestMatchTyping(t *testing.T) {
	got := lastType(t, `
let classify = (n: Int) => match n {
    0 => "zero",
    x if x > 0 => "positive",
    _ => "negative"
}
classify(-3)
`)
	if got.String() != "String" {
		t.Fatalf("type = %s, want String", got)
	}
}

func TestMatchArmsMustAgree(t *testing.T) {
	expectError(t, `
match 1 {
    0 => "zero",
    _ => 42
}
`, "TypeError::Mismatch", "")
}

func TestIndexTyping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[1, 2, 3][0]", "Int"},
		{"[[1, 2], [3, 4]][1]", "[Int]"},
		{`["a", "b"][1]`, "String"},
	}
	for _, tt := range tests {
		got := lastType(t, tt.input)
		if got.String() != tt.want {
			t.Errorf("%q: type = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestSpawnWaitTyping(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"spawn 1 + 2", "Handle<Int>"},
		{"let h = spawn 40 + 2; wait h", "Int"},
		{"let a = spawn 1; let b = spawn 2; wait [a, b]", "[Int]"},
		{"parallel { let h = spawn 2 * 2; wait h }", "Int"},
	}
	for _, tt := range tests {
		got := lastType(t, tt.input)
		if got.String() != tt.want {
			t.Errorf("%q: type = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestTypeclassInstance(t *testing.T) {
	got := lastType(t, `
typeclass Show a {
    show: (a) -> String
}
instance Show Int {
    show = (n: Int) => str(n)
}
show(42)
`)
	if got.String() != "String" {
		t.Fatalf("type = %s, want String", got)
	}
}

func TestAnnotationMismatch(t *testing.T) {
	expectError(t, `let x: Int = "nope"`, "TypeError::Mismatch", "")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input    string
		kind     string
		fragment string
	}{
		{`1 + "a"`, "TypeError::Mismatch", ""},
		{"1.5 % 2.0", "TypeError::Mismatch", ""},
		{"let x = 1; x = 2", "TypeError::Mismatch", "immutable"},
		{"nosuch + 1", "TypeError::UnknownIdentifier", "nosuch"},
		{"let f = (x: Int) => x; f(1, 2)", "TypeError::ArityMismatch", ""},
		{"let f = (x) => x(x); f", "TypeError::InfiniteType", ""},
		{"import nosuchmodule", "TypeError::UnknownIdentifier", "nosuchmodule"},
		{"if 1 { 2 } else { 3 }", "TypeError::Mismatch", ""},
		{"[1, 2][true]", "TypeError::Mismatch", ""},
		{`Point { x: 1.0 }`, "TypeError::UnknownIdentifier", "Point"},
		{"struct P { a: Int }\nlet p = P { a: 1 }\np.b", "TypeError::Mismatch", ""},
		{`1.0 .. 2.0`, "TypeError::Mismatch", ""},
	}

	for _, tt := range tests {
		expectError(t, tt.input, tt.kind, tt.fragment)
	}
}

func TestMutableAssignOK(t *testing.T) {
	_, _, errs := analyze(t, "let mut x = 1; x = 2; x")
	if len(errs) > 0 {
		t.Fatalf("unexpected error: %v", errs[0])
	}
}

func TestImportBuiltinModules(t *testing.T) {
	_, _, errs := analyze(t, "import physics\nimport quantum\nimport math\n1")
	if len(errs) > 0 {
		t.Fatalf("unexpected error: %v", errs[0])
	}
}

func TestErrorPositionIsReported(t *testing.T) {
	_, _, errs := analyze(t, "let a = 1\nlet b = a + \"x\"")
	if len(errs) == 0 {
		t.Fatal("expected an error")
	}
	if errs[0].Line != 2 {
		t.Errorf("line = %d, want 2", errs[0].Line)
	}
}
