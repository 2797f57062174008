package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/token"
)

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(int64)
	if !ok {
		p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"could not parse %q as Int", p.curToken.Lexeme))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(float64)
	if !ok {
		p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"could not parse %q as Float", p.curToken.Lexeme))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parseArrayOrMatrixLiteral parses '[' into one of three shapes: an array
// literal, a matrix literal (every element a bracket row of equal length),
// or a comprehension when the first element is followed by '|'.
func (p *Parser) parseArrayOrMatrixLiteral() ast.Expression {
	lbracket := p.curToken

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ArrayLiteral{Token: lbracket}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	if p.peekTokenIs(token.PIPE) {
		return p.parseComprehension(lbracket, first)
	}

	elements := []ast.Expression{first}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			break
		}
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		elements = append(elements, el)
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}

	if rows, ok := matrixRows(elements); ok {
		return &ast.MatrixLiteral{Token: lbracket, Rows: rows}
	}
	return &ast.ArrayLiteral{Token: lbracket, Elements: elements}
}

// matrixRows recognizes the matrix shape: every element a non-empty array
// literal, all of the same length.
func matrixRows(elements []ast.Expression) ([][]ast.Expression, bool) {
	if len(elements) == 0 {
		return nil, false
	}
	rows := make([][]ast.Expression, len(elements))
	width := -1
	for i, el := range elements {
		row, ok := el.(*ast.ArrayLiteral)
		if !ok || len(row.Elements) == 0 {
			return nil, false
		}
		if width == -1 {
			width = len(row.Elements)
		} else if len(row.Elements) != width {
			return nil, false
		}
		rows[i] = row.Elements
	}
	return rows, true
}

// parseComprehension continues after "[ element" with curToken on the last
// token of the element and '|' in peek position.
func (p *Parser) parseComprehension(lbracket token.Token, element ast.Expression) ast.Expression {
	comp := &ast.ComprehensionExpression{Token: lbracket, Element: element}

	for p.peekTokenIs(token.PIPE) {
		p.nextToken() // consume '|'
		gen := &ast.Generator{Token: p.curToken}

		if !p.expectPeek(token.IDENT) {
			return nil
		}
		gen.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

		if !p.expectPeek(token.IN) {
			return nil
		}
		p.nextToken()
		gen.Iterable = p.parseExpression(LOWEST)
		if gen.Iterable == nil {
			return nil
		}

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			gen.Filter = p.parseExpression(LOWEST)
			if gen.Filter == nil {
				return nil
			}
		}
		comp.Generators = append(comp.Generators, gen)
	}

	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return comp
}

// parseStructLiteral continues after an uppercase identifier with '{' in
// peek position: Vec2 { x: 1.0, y: 2.0 }
func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	lit := &ast.StructLiteral{Token: name.Token, Name: name}
	p.nextToken() // consume '{'

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("struct literal", lit.Token)
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.StructLiteralField{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if field.Value == nil {
			return nil
		}
		lit.Fields = append(lit.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return lit
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}

	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("call expression", call.Token)
			return nil
		}
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ')'
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseFieldAccess(object ast.Expression) ast.Expression {
	expr := &ast.FieldAccessExpression{Token: p.curToken, Object: object}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return expr
}
