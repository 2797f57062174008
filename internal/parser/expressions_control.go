package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/token"
)

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if expr.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlockExpression()
	if expr.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			expr.Alternative = p.parseIfExpression()
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			expr.Alternative = p.parseBlockExpression()
		}
		if expr.Alternative == nil {
			return nil
		}
	}
	return expr
}

// parseBlockExpression parses { stmt; ...; expr } with curToken on '{'.
// It leaves curToken on the closing '}'.
func (p *Parser) parseBlockExpression() ast.Expression {
	block := &ast.BlockExpression{Token: p.curToken}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.unterminated("block", block.Token)
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	return block
}

func (p *Parser) parseMatchExpression() ast.Expression {
	expr := &ast.MatchExpression{Token: p.curToken}

	p.nextToken()
	expr.Expression = p.parseExpression(LOWEST)
	if expr.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("match expression", expr.Token)
			return nil
		}
		p.nextToken()
		arm := &ast.MatchArm{Token: p.curToken}

		arm.Pattern = p.parsePattern()
		if arm.Pattern == nil {
			return nil
		}

		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			arm.Guard = p.parseExpression(LOWEST)
			if arm.Guard == nil {
				return nil
			}
		}

		if !p.expectPeek(token.FAT_ARROW) {
			return nil
		}
		p.nextToken()
		arm.Body = p.parseExpression(LOWEST)
		if arm.Body == nil {
			return nil
		}
		expr.Arms = append(expr.Arms, arm)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return expr
}

// parsePattern parses one match pattern with curToken on its first token.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case token.UNDERSCORE:
		return &ast.WildcardPattern{Token: p.curToken}
	case token.INT:
		value, _ := p.curToken.Literal.(int64)
		return &ast.LiteralPattern{
			Token: p.curToken,
			Value: &ast.IntegerLiteral{Token: p.curToken, Value: value},
		}
	case token.FLOAT:
		value, _ := p.curToken.Literal.(float64)
		return &ast.LiteralPattern{
			Token: p.curToken,
			Value: &ast.FloatLiteral{Token: p.curToken, Value: value},
		}
	case token.STRING:
		value, _ := p.curToken.Literal.(string)
		return &ast.LiteralPattern{
			Token: p.curToken,
			Value: &ast.StringLiteral{Token: p.curToken, Value: value},
		}
	case token.TRUE, token.FALSE:
		return &ast.LiteralPattern{
			Token: p.curToken,
			Value: &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)},
		}
	case token.MINUS:
		return p.parseNegatedLiteralPattern()
	case token.IDENT:
		ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if p.peekTokenIs(token.LBRACE) && isUpperIdent(ident.Value) {
			return p.parseStructPattern(ident)
		}
		return &ast.IdentifierPattern{Token: p.curToken, Name: ident}
	case token.LBRACKET:
		return p.parseArrayPattern()
	default:
		p.unexpectedToken("pattern", p.curToken)
		return nil
	}
}

func (p *Parser) parseNegatedLiteralPattern() ast.Pattern {
	minus := p.curToken
	switch p.peekToken.Type {
	case token.INT:
		p.nextToken()
		value, _ := p.curToken.Literal.(int64)
		return &ast.LiteralPattern{
			Token: minus,
			Value: &ast.IntegerLiteral{Token: p.curToken, Value: -value},
		}
	case token.FLOAT:
		p.nextToken()
		value, _ := p.curToken.Literal.(float64)
		return &ast.LiteralPattern{
			Token: minus,
			Value: &ast.FloatLiteral{Token: p.curToken, Value: -value},
		}
	default:
		p.unexpectedToken("numeric literal", p.peekToken)
		return nil
	}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	pattern := &ast.ArrayPattern{Token: p.curToken}

	for !p.peekTokenIs(token.RBRACKET) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("array pattern", pattern.Token)
			return nil
		}
		p.nextToken()
		el := p.parsePattern()
		if el == nil {
			return nil
		}
		pattern.Elements = append(pattern.Elements, el)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ']'
	return pattern
}

func (p *Parser) parseStructPattern(name *ast.Identifier) ast.Pattern {
	pattern := &ast.StructPattern{Token: name.Token, Name: name}
	p.nextToken() // consume '{'

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("struct pattern", pattern.Token)
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.StructPatternField{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Pattern = p.parsePattern()
		if field.Pattern == nil {
			return nil
		}
		pattern.Fields = append(pattern.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return pattern
}

func (p *Parser) parseParallelExpression() ast.Expression {
	expr := &ast.ParallelExpression{Token: p.curToken}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockExpression()
	if body == nil {
		return nil
	}
	expr.Body = body.(*ast.BlockExpression)
	return expr
}

func (p *Parser) parseSpawnExpression() ast.Expression {
	expr := &ast.SpawnExpression{Token: p.curToken}
	p.nextToken()
	expr.Body = p.parseExpression(LOWEST)
	if expr.Body == nil {
		return nil
	}
	return expr
}

// parseWaitExpression accepts a bracketed handle list or a single handle:
// wait [h1, h2] or wait h
func (p *Parser) parseWaitExpression() ast.Expression {
	expr := &ast.WaitExpression{Token: p.curToken}
	p.nextToken()

	if !p.curTokenIs(token.LBRACKET) {
		handle := p.parseExpression(LOWEST)
		if handle == nil {
			return nil
		}
		expr.Handles = append(expr.Handles, handle)
		return expr
	}

	expr.Bracketed = true
	for !p.peekTokenIs(token.RBRACKET) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("wait expression", expr.Token)
			return nil
		}
		p.nextToken()
		handle := p.parseExpression(LOWEST)
		if handle == nil {
			return nil
		}
		expr.Handles = append(expr.Handles, handle)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ']'
	return expr
}
