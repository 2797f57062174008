package ast

import (
	"github.com/matrixlang/matrixlang/internal/token"
)

// Pattern is matched against a scrutinee value in a match arm.
// Exhaustiveness is not checked.
type Pattern interface {
	Node
	patternNode()
	GetToken() token.Token
}

// WildcardPattern matches anything and binds nothing: _
type WildcardPattern struct {
	Token token.Token
}

func (wp *WildcardPattern) patternNode()          {}
func (wp *WildcardPattern) TokenLiteral() string  { return wp.Token.Lexeme }
func (wp *WildcardPattern) GetToken() token.Token { return wp.Token }

// IdentifierPattern matches anything and binds the value to the name.
type IdentifierPattern struct {
	Token token.Token
	Name  *Identifier
}

func (ip *IdentifierPattern) patternNode()          {}
func (ip *IdentifierPattern) TokenLiteral() string  { return ip.Token.Lexeme }
func (ip *IdentifierPattern) GetToken() token.Token { return ip.Token }

// LiteralPattern matches an Int, Float, Bool or String literal exactly.
type LiteralPattern struct {
	Token token.Token
	Value Expression // one of the literal expression nodes
}

func (lp *LiteralPattern) patternNode()          {}
func (lp *LiteralPattern) TokenLiteral() string  { return lp.Token.Lexeme }
func (lp *LiteralPattern) GetToken() token.Token { return lp.Token }

// ArrayPattern destructures arrays element-wise: [a, b, _]
type ArrayPattern struct {
	Token    token.Token
	Elements []Pattern
}

func (ap *ArrayPattern) patternNode()          {}
func (ap *ArrayPattern) TokenLiteral() string  { return ap.Token.Lexeme }
func (ap *ArrayPattern) GetToken() token.Token { return ap.Token }

// StructPattern destructures a struct by field name: Vec2 { x: a, y: _ }
type StructPattern struct {
	Token  token.Token
	Name   *Identifier
	Fields []*StructPatternField
}

func (sp *StructPattern) patternNode()          {}
func (sp *StructPattern) TokenLiteral() string  { return sp.Token.Lexeme }
func (sp *StructPattern) GetToken() token.Token { return sp.Token }

type StructPatternField struct {
	Token   token.Token
	Name    *Identifier
	Pattern Pattern
}
