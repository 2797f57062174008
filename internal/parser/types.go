package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/token"
)

// parseType parses a type annotation with curToken on its first token:
// Int, Vec2, [Int], [[Float]], (Int, Int) -> Int
func (p *Parser) parseType() ast.Type {
	switch p.curToken.Type {
	case token.IDENT:
		return &ast.NamedType{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
	case token.LBRACKET:
		return p.parseBracketType()
	case token.LPAREN:
		return p.parseFunctionType()
	default:
		p.unexpectedToken("type", p.curToken)
		return nil
	}
}

// parseBracketType parses [T] as an array type and [[T]] as a matrix type.
func (p *Parser) parseBracketType() ast.Type {
	outer := p.curToken

	if p.peekTokenIs(token.LBRACKET) {
		p.nextToken() // inner '['
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.MatrixType{Token: outer, Element: elem}
	}

	p.nextToken()
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ArrayType{Token: outer, Element: elem}
}

func (p *Parser) parseFunctionType() ast.Type {
	fn := &ast.FunctionType{Token: p.curToken}

	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("function type", fn.Token)
			return nil
		}
		p.nextToken()
		param := p.parseType()
		if param == nil {
			return nil
		}
		fn.Parameters = append(fn.Parameters, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ')'

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	fn.ReturnType = p.parseType()
	if fn.ReturnType == nil {
		return nil
	}
	return fn
}
