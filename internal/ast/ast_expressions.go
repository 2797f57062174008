package ast

import (
	"github.com/matrixlang/matrixlang/internal/token"
)

// Identifier is a reference to a bound name.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()       {}
func (il *IntegerLiteral) TokenLiteral() string  { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token { return il.Token }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()       {}
func (fl *FloatLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token { return fl.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }

// UnitLiteral is the empty value, written ().
type UnitLiteral struct {
	Token token.Token
}

func (ul *UnitLiteral) expressionNode()       {}
func (ul *UnitLiteral) TokenLiteral() string  { return ul.Token.Lexeme }
func (ul *UnitLiteral) GetToken() token.Token { return ul.Token }

// BinaryExpression covers arithmetic, comparison and logical operators.
type BinaryExpression struct {
	Token    token.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

type UnaryExpression struct {
	Token    token.Token // the operator token
	Operator string
	Operand  Expression
}

func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

// RangeExpression is a half-open (..) or inclusive (..=) integer range.
type RangeExpression struct {
	Token     token.Token // the '..' or '..=' token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (re *RangeExpression) expressionNode()       {}
func (re *RangeExpression) TokenLiteral() string  { return re.Token.Lexeme }
func (re *RangeExpression) GetToken() token.Token { return re.Token }

// CallExpression applies a function (closure or builtin) to arguments.
type CallExpression struct {
	Token     token.Token // the '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// LambdaExpression is an anonymous function: (a, b: Int) => a + b
type LambdaExpression struct {
	Token  token.Token // the '(' token
	Params []*Parameter
	Body   Expression
	// Gpu marks a lambda annotated with @gpu. Accepted syntactically;
	// evaluation happens on the host exactly like an unannotated lambda.
	Gpu bool
}

func (le *LambdaExpression) expressionNode()       {}
func (le *LambdaExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token { return le.Token }

type Parameter struct {
	Token token.Token
	Name  *Identifier
	Type  Type // optional annotation
}

// IfExpression with mandatory then branch; else is optional and defaults to
// Unit.
type IfExpression struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence Expression
	Alternative Expression // may be nil
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }

// BlockExpression evaluates statements in order in a child frame and yields
// the trailing expression, or Unit when the block ends with a statement.
type BlockExpression struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (be *BlockExpression) expressionNode()       {}
func (be *BlockExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BlockExpression) GetToken() token.Token { return be.Token }

// MatchExpression with arms carrying optional guards.
type MatchExpression struct {
	Token      token.Token // the 'match' token
	Expression Expression
	Arms       []*MatchArm
}

func (me *MatchExpression) expressionNode()       {}
func (me *MatchExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MatchExpression) GetToken() token.Token { return me.Token }

type MatchArm struct {
	Token   token.Token
	Pattern Pattern
	Guard   Expression // may be nil
	Body    Expression
}

// ArrayLiteral: [1, 2, 3]
type ArrayLiteral struct {
	Token    token.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()       {}
func (al *ArrayLiteral) TokenLiteral() string  { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token { return al.Token }

// MatrixLiteral: [[1, 2], [3, 4]] with equal row lengths. Whether it denotes
// Matrix<T> or Array<Array<T>> is settled by the checker: numeric element
// types make a matrix, anything else an array of arrays.
type MatrixLiteral struct {
	Token token.Token // the '[' token
	Rows  [][]Expression
}

func (ml *MatrixLiteral) expressionNode()       {}
func (ml *MatrixLiteral) TokenLiteral() string  { return ml.Token.Lexeme }
func (ml *MatrixLiteral) GetToken() token.Token { return ml.Token }

// ComprehensionExpression: [expr | x in iter if cond | y in iter2]
type ComprehensionExpression struct {
	Token      token.Token // the '[' token
	Element    Expression
	Generators []*Generator
}

func (ce *ComprehensionExpression) expressionNode()       {}
func (ce *ComprehensionExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *ComprehensionExpression) GetToken() token.Token { return ce.Token }

type Generator struct {
	Token    token.Token
	Variable *Identifier
	Iterable Expression
	Filter   Expression // may be nil
}

// StructLiteral: Vec2 { x: 1.0, y: 2.0 }
type StructLiteral struct {
	Token  token.Token // the struct name token
	Name   *Identifier
	Fields []*StructLiteralField
}

func (sl *StructLiteral) expressionNode()       {}
func (sl *StructLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token { return sl.Token }

type StructLiteralField struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

// FieldAccessExpression: point.x
type FieldAccessExpression struct {
	Token  token.Token // the '.' token
	Object Expression
	Field  *Identifier
}

func (fa *FieldAccessExpression) expressionNode()       {}
func (fa *FieldAccessExpression) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FieldAccessExpression) GetToken() token.Token { return fa.Token }

// IndexExpression: xs[0] or m[1][2]
type IndexExpression struct {
	Token token.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

// ParallelExpression evaluates its block strictly in program order in the
// current frame; the surface syntax exists for forward compatibility, the
// semantics are sequential by design.
type ParallelExpression struct {
	Token token.Token // the 'parallel' token
	Body  *BlockExpression
}

func (pe *ParallelExpression) expressionNode()       {}
func (pe *ParallelExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *ParallelExpression) GetToken() token.Token { return pe.Token }

// SpawnExpression evaluates its body immediately and wraps the result in a
// Handle. No task is ever created.
type SpawnExpression struct {
	Token token.Token // the 'spawn' token
	Body  Expression
}

func (se *SpawnExpression) expressionNode()       {}
func (se *SpawnExpression) TokenLiteral() string  { return se.Token.Lexeme }
func (se *SpawnExpression) GetToken() token.Token { return se.Token }

// WaitExpression unwraps already-computed Handle results: wait [h1, h2]
// yields an array of results, wait h a single result.
type WaitExpression struct {
	Token     token.Token // the 'wait' token
	Handles   []Expression
	Bracketed bool
}

func (we *WaitExpression) expressionNode()       {}
func (we *WaitExpression) TokenLiteral() string  { return we.Token.Lexeme }
func (we *WaitExpression) GetToken() token.Token { return we.Token }
