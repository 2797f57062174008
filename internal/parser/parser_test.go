package parser

import (
	"strings"
	"testing"

	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/lexer"
	"github.com/matrixlang/matrixlang/internal/pipeline"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewContext(input, "test.matrix")
	l := lexer.New(input)
	stream := l.Tokenize()
	if err := l.Err(); err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	program := New(stream, ctx).ParseProgram()
	if len(ctx.Errors) > 0 {
		t.Fatalf("parser error: %v", ctx.Errors[0])
	}
	return program
}

func parseErrors(t *testing.T, input string) []string {
	t.Helper()
	ctx := pipeline.NewContext(input, "test.matrix")
	l := lexer.New(input)
	stream := l.Tokenize()
	if err := l.Err(); err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	New(stream, ctx).ParseProgram()
	msgs := make([]string, len(ctx.Errors))
	for i, e := range ctx.Errors {
		msgs[i] = e.Error()
	}
	return msgs
}

func firstExpression(t *testing.T, program *ast.Program) ast.Expression {
	t.Helper()
	if len(program.Statements) == 0 {
		t.Fatal("program has no statements")
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", program.Statements[0])
	}
	return stmt.Expression
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input     string
		name      string
		mutable   bool
		annotated bool
	}{
		{"let x = 5", "x", false, false},
		{"let mut counter = 0", "counter", true, false},
		{"let y: Float = 2.5", "y", false, true},
		{"let mut z: Int = 1;", "z", true, true},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: got %d statements, want 1", tt.input, len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: statement is %T, want *ast.LetStatement", tt.input, program.Statements[0])
		}
		if stmt.Name.Value != tt.name {
			t.Errorf("%q: name = %q, want %q", tt.input, stmt.Name.Value, tt.name)
		}
		if stmt.Mutable != tt.mutable {
			t.Errorf("%q: mutable = %v, want %v", tt.input, stmt.Mutable, tt.mutable)
		}
		if (stmt.TypeAnnotation != nil) != tt.annotated {
			t.Errorf("%q: annotation presence = %v, want %v", tt.input, stmt.TypeAnnotation != nil, tt.annotated)
		}
	}
}

func TestAssignStatement(t *testing.T) {
	program := parseProgram(t, "counter = counter + 1")
	stmt, ok := program.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.AssignStatement", program.Statements[0])
	}
	if stmt.Name.Value != "counter" {
		t.Errorf("name = %q, want %q", stmt.Name.Value, "counter")
	}
	if _, ok := stmt.Value.(*ast.BinaryExpression); !ok {
		t.Errorf("value is %T, want *ast.BinaryExpression", stmt.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// Each case names the operator expected at the root of the tree.
	tests := []struct {
		input  string
		rootOp string
	}{
		{"1 + 2 * 3", "+"},
		{"1 * 2 + 3", "+"},
		{"1 + 2 == 3", "=="},
		{"a && b || c", "||"},
		{"1 < 2 && 3 < 4", "&&"},
		{"2 * 3 ^ 2", "*"},
	}

	for _, tt := range tests {
		expr := firstExpression(t, parseProgram(t, tt.input))
		bin, ok := expr.(*ast.BinaryExpression)
		if !ok {
			t.Fatalf("%q: expression is %T, want *ast.BinaryExpression", tt.input, expr)
		}
		if bin.Operator != tt.rootOp {
			t.Errorf("%q: root operator = %q, want %q", tt.input, bin.Operator, tt.rootOp)
		}
	}
}

// Range binds looser than additive operators, so the whole sum becomes the
// range start and the root node is a RangeExpression, not a binary one.
func TestRangeBindsLooserThanSum(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "1 + 2 .. 10"))
	rng, ok := expr.(*ast.RangeExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.RangeExpression", expr)
	}
	if rng.Inclusive {
		t.Error("'..' parsed as inclusive")
	}
	start, ok := rng.Start.(*ast.BinaryExpression)
	if !ok || start.Operator != "+" {
		t.Fatalf("start is %T, want the + subtree", rng.Start)
	}
	if _, ok := rng.End.(*ast.IntegerLiteral); !ok {
		t.Errorf("end is %T, want *ast.IntegerLiteral", rng.End)
	}
}

func TestPowerIsRightAssociative(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "2 ^ 3 ^ 2"))
	root, ok := expr.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("root is %T, want *ast.BinaryExpression", expr)
	}
	if root.Operator != "^" {
		t.Fatalf("root operator = %q, want ^", root.Operator)
	}
	if _, ok := root.Left.(*ast.IntegerLiteral); !ok {
		t.Errorf("left is %T, want *ast.IntegerLiteral", root.Left)
	}
	right, ok := root.Right.(*ast.BinaryExpression)
	if !ok || right.Operator != "^" {
		t.Fatalf("right is %T, want nested ^ binary", root.Right)
	}
}

func TestUnaryBindsLooserThanPower(t *testing.T) {
	// -x^2 parses as -(x^2)
	expr := firstExpression(t, parseProgram(t, "-x ^ 2"))
	unary, ok := expr.(*ast.UnaryExpression)
	if !ok {
		t.Fatalf("root is %T, want *ast.UnaryExpression", expr)
	}
	if _, ok := unary.Operand.(*ast.BinaryExpression); !ok {
		t.Errorf("operand is %T, want *ast.BinaryExpression", unary.Operand)
	}
}

func TestRangeExpressions(t *testing.T) {
	tests := []struct {
		input     string
		inclusive bool
	}{
		{"1..10", false},
		{"1..=10", true},
	}
	for _, tt := range tests {
		expr := firstExpression(t, parseProgram(t, tt.input))
		r, ok := expr.(*ast.RangeExpression)
		if !ok {
			t.Fatalf("%q: expression is %T, want *ast.RangeExpression", tt.input, expr)
		}
		if r.Inclusive != tt.inclusive {
			t.Errorf("%q: inclusive = %v, want %v", tt.input, r.Inclusive, tt.inclusive)
		}
	}
}

func TestLambdaExpression(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "(a, b: Int) => a + b"))
	lambda, ok := expr.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.LambdaExpression", expr)
	}
	if len(lambda.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(lambda.Params))
	}
	if lambda.Params[0].Name.Value != "a" || lambda.Params[0].Type != nil {
		t.Errorf("first param = %q annotated=%v, want a unannotated", lambda.Params[0].Name.Value, lambda.Params[0].Type != nil)
	}
	if lambda.Params[1].Name.Value != "b" || lambda.Params[1].Type == nil {
		t.Errorf("second param = %q annotated=%v, want b annotated", lambda.Params[1].Name.Value, lambda.Params[1].Type != nil)
	}
	if lambda.Gpu {
		t.Error("lambda marked gpu without directive")
	}
}

func TestZeroParamLambdaVersusUnit(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "() => 42"))
	if _, ok := expr.(*ast.LambdaExpression); !ok {
		t.Errorf("() => 42 is %T, want *ast.LambdaExpression", expr)
	}

	expr = firstExpression(t, parseProgram(t, "()"))
	if _, ok := expr.(*ast.UnitLiteral); !ok {
		t.Errorf("() is %T, want *ast.UnitLiteral", expr)
	}
}

func TestGroupedExpressionIsNotLambda(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "(1 + 2) * 3"))
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok || bin.Operator != "*" {
		t.Fatalf("root is %T, want * binary", expr)
	}
	if _, ok := bin.Left.(*ast.BinaryExpression); !ok {
		t.Errorf("left is %T, want grouped +", bin.Left)
	}
}

func TestHigherOrderLambdaParameter(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "(f: (Int) -> Int, x: Int) => f(x)"))
	lambda, ok := expr.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.LambdaExpression", expr)
	}
	if _, ok := lambda.Params[0].Type.(*ast.FunctionType); !ok {
		t.Errorf("first param type is %T, want *ast.FunctionType", lambda.Params[0].Type)
	}
}

func TestGpuDirective(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "@gpu (x: Float) => x * 2.0"))
	lambda, ok := expr.(*ast.LambdaExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.LambdaExpression", expr)
	}
	if !lambda.Gpu {
		t.Error("lambda not marked gpu")
	}
}

func TestIfElseChain(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "if x < 0 { -1 } else if x == 0 { 0 } else { 1 }"))
	ifExpr, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IfExpression", expr)
	}
	nested, ok := ifExpr.Alternative.(*ast.IfExpression)
	if !ok {
		t.Fatalf("alternative is %T, want nested *ast.IfExpression", ifExpr.Alternative)
	}
	if nested.Alternative == nil {
		t.Error("nested if has no else branch")
	}
}

func TestIfWithoutElse(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "if ready { go_time() }"))
	ifExpr, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IfExpression", expr)
	}
	if ifExpr.Alternative != nil {
		t.Error("expected nil alternative")
	}
}

func TestArrayMatrixAndComprehension(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "[1, 2, 3]"))
	if arr, ok := expr.(*ast.ArrayLiteral); !ok || len(arr.Elements) != 3 {
		t.Errorf("[1, 2, 3] parsed as %T, want 3-element array literal", expr)
	}

	expr = firstExpression(t, parseProgram(t, "[[1, 2], [3, 4]]"))
	m, ok := expr.(*ast.MatrixLiteral)
	if !ok {
		t.Fatalf("[[1,2],[3,4]] parsed as %T, want *ast.MatrixLiteral", expr)
	}
	if len(m.Rows) != 2 || len(m.Rows[0]) != 2 {
		t.Errorf("matrix shape = %dx%d, want 2x2", len(m.Rows), len(m.Rows[0]))
	}

	// Ragged rows stay an array of arrays.
	expr = firstExpression(t, parseProgram(t, "[[1, 2], [3]]"))
	if _, ok := expr.(*ast.ArrayLiteral); !ok {
		t.Errorf("ragged nesting parsed as %T, want *ast.ArrayLiteral", expr)
	}

	expr = firstExpression(t, parseProgram(t, "[x * x | x in 1..10 if x % 2 == 0]"))
	comp, ok := expr.(*ast.ComprehensionExpression)
	if !ok {
		t.Fatalf("comprehension parsed as %T", expr)
	}
	if len(comp.Generators) != 1 {
		t.Fatalf("got %d generators, want 1", len(comp.Generators))
	}
	gen := comp.Generators[0]
	if gen.Variable.Value != "x" || gen.Filter == nil {
		t.Errorf("generator = %q filter=%v, want x with filter", gen.Variable.Value, gen.Filter != nil)
	}
}

func TestMultiGeneratorComprehension(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "[i * j | i in 1..3 | j in 1..3]"))
	comp, ok := expr.(*ast.ComprehensionExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.ComprehensionExpression", expr)
	}
	if len(comp.Generators) != 2 {
		t.Fatalf("got %d generators, want 2", len(comp.Generators))
	}
	if comp.Generators[1].Variable.Value != "j" {
		t.Errorf("second generator variable = %q, want j", comp.Generators[1].Variable.Value)
	}
}

func TestStructDefinitionAndLiteral(t *testing.T) {
	program := parseProgram(t, `
struct Vec2 { x: Float, y: Float }
let origin = Vec2 { x: 0.0, y: 0.0 }
`)
	if len(program.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(program.Statements))
	}

	def, ok := program.Statements[0].(*ast.StructDefinition)
	if !ok {
		t.Fatalf("first statement is %T, want *ast.StructDefinition", program.Statements[0])
	}
	if def.Name.Value != "Vec2" || len(def.Fields) != 2 {
		t.Errorf("struct = %q with %d fields, want Vec2 with 2", def.Name.Value, len(def.Fields))
	}

	let := program.Statements[1].(*ast.LetStatement)
	lit, ok := let.Value.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("let value is %T, want *ast.StructLiteral", let.Value)
	}
	if lit.Name.Value != "Vec2" || len(lit.Fields) != 2 {
		t.Errorf("literal = %q with %d fields, want Vec2 with 2", lit.Name.Value, len(lit.Fields))
	}
}

func TestFieldAccessAndIndexing(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "point.x + m[0][1]"))
	bin := expr.(*ast.BinaryExpression)

	if _, ok := bin.Left.(*ast.FieldAccessExpression); !ok {
		t.Errorf("left is %T, want *ast.FieldAccessExpression", bin.Left)
	}
	outer, ok := bin.Right.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("right is %T, want *ast.IndexExpression", bin.Right)
	}
	if _, ok := outer.Left.(*ast.IndexExpression); !ok {
		t.Errorf("m[0][1] does not chain: inner is %T", outer.Left)
	}
}

func TestMatchExpression(t *testing.T) {
	input := `match value {
  0 => "zero",
  n if n < 0 => "negative",
  [a, _] => "pair",
  Vec2 { x: a, y: _ } => "vector",
  _ => "other"
}`
	expr := firstExpression(t, parseProgram(t, input))
	m, ok := expr.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.MatchExpression", expr)
	}
	if len(m.Arms) != 5 {
		t.Fatalf("got %d arms, want 5", len(m.Arms))
	}

	if _, ok := m.Arms[0].Pattern.(*ast.LiteralPattern); !ok {
		t.Errorf("arm 0 pattern is %T, want *ast.LiteralPattern", m.Arms[0].Pattern)
	}
	if _, ok := m.Arms[1].Pattern.(*ast.IdentifierPattern); !ok || m.Arms[1].Guard == nil {
		t.Errorf("arm 1 = %T guard=%v, want identifier pattern with guard", m.Arms[1].Pattern, m.Arms[1].Guard != nil)
	}
	if ap, ok := m.Arms[2].Pattern.(*ast.ArrayPattern); !ok || len(ap.Elements) != 2 {
		t.Errorf("arm 2 pattern is %T, want 2-element array pattern", m.Arms[2].Pattern)
	}
	if sp, ok := m.Arms[3].Pattern.(*ast.StructPattern); !ok || sp.Name.Value != "Vec2" {
		t.Errorf("arm 3 pattern is %T, want Vec2 struct pattern", m.Arms[3].Pattern)
	}
	if _, ok := m.Arms[4].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("arm 4 pattern is %T, want *ast.WildcardPattern", m.Arms[4].Pattern)
	}
}

func TestParallelSpawnWait(t *testing.T) {
	program := parseProgram(t, `
parallel {
  let a = spawn heavy(1)
  let b = spawn heavy(2)
  wait [a, b]
}`)
	expr := firstExpression(t, program)
	par, ok := expr.(*ast.ParallelExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.ParallelExpression", expr)
	}
	if len(par.Body.Statements) != 3 {
		t.Fatalf("got %d body statements, want 3", len(par.Body.Statements))
	}

	let := par.Body.Statements[0].(*ast.LetStatement)
	if _, ok := let.Value.(*ast.SpawnExpression); !ok {
		t.Errorf("let value is %T, want *ast.SpawnExpression", let.Value)
	}

	waitStmt := par.Body.Statements[2].(*ast.ExpressionStatement)
	wait, ok := waitStmt.Expression.(*ast.WaitExpression)
	if !ok {
		t.Fatalf("third statement is %T, want *ast.WaitExpression", waitStmt.Expression)
	}
	if len(wait.Handles) != 2 {
		t.Errorf("got %d handles, want 2", len(wait.Handles))
	}
}

func TestModuleAndImports(t *testing.T) {
	program := parseProgram(t, `
module Simulation
import physics
import quantum

let g = 9.81
`)
	if program.Module == nil || program.Module.Name.Value != "Simulation" {
		t.Fatalf("module declaration missing or wrong: %+v", program.Module)
	}
	if len(program.Imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(program.Imports))
	}
	if program.Imports[0].Path.Value != "physics" || program.Imports[1].Path.Value != "quantum" {
		t.Errorf("imports = %q, %q", program.Imports[0].Path.Value, program.Imports[1].Path.Value)
	}
}

func TestTypeclassAndInstance(t *testing.T) {
	program := parseProgram(t, `
typeclass Show a {
  show: (a) -> String
}
instance Show Vec2 {
  show = (v) => str(v.x)
}`)
	tc, ok := program.Statements[0].(*ast.TypeclassDeclaration)
	if !ok {
		t.Fatalf("first statement is %T, want *ast.TypeclassDeclaration", program.Statements[0])
	}
	if tc.Name.Value != "Show" || tc.TypeParam.Value != "a" || len(tc.Methods) != 1 {
		t.Errorf("typeclass = %q %q with %d methods", tc.Name.Value, tc.TypeParam.Value, len(tc.Methods))
	}

	inst, ok := program.Statements[1].(*ast.InstanceDeclaration)
	if !ok {
		t.Fatalf("second statement is %T, want *ast.InstanceDeclaration", program.Statements[1])
	}
	if inst.ClassName.Value != "Show" || inst.TypeName.Value != "Vec2" {
		t.Errorf("instance = %q %q", inst.ClassName.Value, inst.TypeName.Value)
	}
	if _, ok := inst.Methods[0].Value.(*ast.LambdaExpression); !ok {
		t.Errorf("method value is %T, want *ast.LambdaExpression", inst.Methods[0].Value)
	}
}

func TestBlockExpression(t *testing.T) {
	expr := firstExpression(t, parseProgram(t, "{ let a = 1; a + 1 }"))
	block, ok := expr.(*ast.BlockExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.BlockExpression", expr)
	}
	if len(block.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(block.Statements))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let = 5", "ParseError::UnexpectedToken"},
		{"let x 5", "ParseError::UnexpectedToken"},
		{"1 +", "ParseError::UnexpectedToken"},
		{"{ let a = 1", "ParseError::UnterminatedConstruct"},
		{"struct Vec2 { x: Float", "ParseError::UnterminatedConstruct"},
		{"@cpu (x) => x", "ParseError::UnexpectedToken"},
	}

	for _, tt := range tests {
		msgs := parseErrors(t, tt.input)
		if len(msgs) == 0 {
			t.Errorf("%q: expected a parse error", tt.input)
			continue
		}
		if !strings.Contains(msgs[0], tt.want) {
			t.Errorf("%q: error = %q, want prefix %q", tt.input, msgs[0], tt.want)
		}
	}
}

func TestErrorPositions(t *testing.T) {
	msgs := parseErrors(t, "let x =\n  * 3")
	if len(msgs) == 0 {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(msgs[0], "at line 2") {
		t.Errorf("error = %q, want position on line 2", msgs[0])
	}
}
