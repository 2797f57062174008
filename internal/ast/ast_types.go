package ast

import (
	"github.com/matrixlang/matrixlang/internal/token"
)

// Type is a syntactic type annotation. The analyzer converts these into
// typesystem types.
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// NamedType is a primitive or struct name: Int, Float, Vec2, or a lowercase
// type variable in typeclass signatures.
type NamedType struct {
	Token token.Token
	Name  *Identifier
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }

// ArrayType: [Int]
type ArrayType struct {
	Token   token.Token // the '[' token
	Element Type
}

func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }

// MatrixType: [[Float]]
type MatrixType struct {
	Token   token.Token // the outer '[' token
	Element Type
}

func (mt *MatrixType) typeNode()             {}
func (mt *MatrixType) TokenLiteral() string  { return mt.Token.Lexeme }
func (mt *MatrixType) GetToken() token.Token { return mt.Token }

// FunctionType: (Int, Int) -> Int
type FunctionType struct {
	Token      token.Token // the '(' token
	Parameters []Type
	ReturnType Type
}

func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }
