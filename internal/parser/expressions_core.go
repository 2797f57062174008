package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/token"
)

// parseExpression is the precedence-climbing core. Every parse function
// leaves curToken on the last token of what it parsed.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"expression nesting exceeds %d levels", MaxRecursionDepth))
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpectedToken("expression", p.curToken)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Lexeme,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parsePowerExpression parses ^ right-associatively: 2^3^2 is 2^(3^2).
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expr.Right = p.parseExpression(POWER - 1)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	if expr.Operand == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	expr := &ast.RangeExpression{
		Token:     p.curToken,
		Start:     left,
		Inclusive: p.curToken.Type == token.DOT_DOT_EQ,
	}
	p.nextToken()
	expr.End = p.parseExpression(RANGE)
	if expr.End == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseIdentifierExpression() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	// An uppercase name followed by '{' opens a struct literal. Lowercase
	// names never do, so `if x { ... }` parses as expected.
	if p.peekTokenIs(token.LBRACE) && isUpperIdent(ident.Value) {
		return p.parseStructLiteral(ident)
	}
	return ident
}

func isUpperIdent(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// parseGroupedOrLambda disambiguates '(' between a grouped expression, the
// unit literal and a lambda parameter list by scanning ahead for the
// matching ')' and checking for '=>'.
func (p *Parser) parseGroupedOrLambda() ast.Expression {
	if p.lambdaAhead() {
		return p.parseLambdaExpression()
	}

	lparen := p.curToken
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return &ast.UnitLiteral{Token: lparen}
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// lambdaAhead reports whether curToken's '(' opens a lambda parameter list,
// i.e. the matching ')' is directly followed by '=>'. Nested parentheses in
// parameter type annotations are balanced during the scan.
func (p *Parser) lambdaAhead() bool {
	depth := 1
	for offset := 1; ; offset++ {
		tok := p.tokenAt(offset)
		switch tok.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.tokenAt(offset+1).Type == token.FAT_ARROW
			}
		case token.EOF:
			return false
		}
	}
}

// parseLambdaExpression parses (a, b: Int) => body with curToken on '('.
func (p *Parser) parseLambdaExpression() ast.Expression {
	lambda := &ast.LambdaExpression{Token: p.curToken}

	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := &ast.Parameter{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseType()
			if param.Type == nil {
				return nil
			}
		}
		lambda.Params = append(lambda.Params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume ')'

	if !p.expectPeek(token.FAT_ARROW) {
		return nil
	}
	p.nextToken()

	lambda.Body = p.parseExpression(LOWEST)
	if lambda.Body == nil {
		return nil
	}
	return lambda
}

// parseGpuDirective parses @gpu applied to a lambda. The annotation is
// accepted and recorded; evaluation stays on the host.
func (p *Parser) parseGpuDirective() ast.Expression {
	at := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	if p.curToken.Lexeme != "gpu" {
		p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"unknown directive @%s", p.curToken.Lexeme))
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	expr := p.parseGroupedOrLambda()
	if expr == nil {
		return nil
	}
	lambda, ok := expr.(*ast.LambdaExpression)
	if !ok {
		p.unexpectedToken("lambda after @gpu", at)
		return nil
	}
	lambda.Gpu = true
	return lambda
}
