package ast

import (
	"github.com/matrixlang/matrixlang/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes. Nodes are data only; all
// behavior lives in the analyzer and evaluator.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string // Source file path
	Module     *ModuleDeclaration
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// ModuleDeclaration names the file's module.
// module Simulation
type ModuleDeclaration struct {
	Token token.Token // the 'module' token
	Name  *Identifier
}

func (md *ModuleDeclaration) statementNode()       {}
func (md *ModuleDeclaration) TokenLiteral() string { return md.Token.Lexeme }
func (md *ModuleDeclaration) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// ImportStatement brings a builtin module's names into scope.
// import physics
type ImportStatement struct {
	Token token.Token // the 'import' token
	Path  *Identifier
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// LetStatement binds a name, optionally mutable and optionally annotated.
// let x = 5
// let mut y: Int = 0
type LetStatement struct {
	Token          token.Token // the 'let' token
	Mutable        bool
	Name           *Identifier
	TypeAnnotation Type // optional
	Value          Expression
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

// AssignStatement reassigns a `let mut` binding.
// y = y + 1
type AssignStatement struct {
	Token token.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}

// ExpressionStatement wraps an expression in statement position.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// StructDefinition declares a named record type with ordered fields.
// struct Vec2 { x: Float, y: Float }
type StructDefinition struct {
	Token  token.Token // the 'struct' token
	Name   *Identifier
	Fields []*StructFieldDef
}

func (sd *StructDefinition) statementNode()       {}
func (sd *StructDefinition) TokenLiteral() string { return sd.Token.Lexeme }
func (sd *StructDefinition) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}

type StructFieldDef struct {
	Token token.Token
	Name  *Identifier
	Type  Type
}

// TypeclassDeclaration declares a single-parameter class of method
// signatures.
// typeclass Show a { show: (a) -> String }
type TypeclassDeclaration struct {
	Token     token.Token // the 'typeclass' token
	Name      *Identifier
	TypeParam *Identifier
	Methods   []*TypeclassMethod
}

func (td *TypeclassDeclaration) statementNode()       {}
func (td *TypeclassDeclaration) TokenLiteral() string { return td.Token.Lexeme }
func (td *TypeclassDeclaration) GetToken() token.Token {
	if td == nil {
		return token.Token{}
	}
	return td.Token
}

type TypeclassMethod struct {
	Token     token.Token
	Name      *Identifier
	Signature *FunctionType
}

// InstanceDeclaration implements a typeclass at a concrete type.
// instance Show Vec2 { show = (v) => ... }
type InstanceDeclaration struct {
	Token     token.Token // the 'instance' token
	ClassName *Identifier
	TypeName  *Identifier
	Methods   []*InstanceMethod
}

func (id *InstanceDeclaration) statementNode()       {}
func (id *InstanceDeclaration) TokenLiteral() string { return id.Token.Lexeme }
func (id *InstanceDeclaration) GetToken() token.Token {
	if id == nil {
		return token.Token{}
	}
	return id.Token
}

type InstanceMethod struct {
	Token token.Token
	Name  *Identifier
	Value Expression // a lambda
}
