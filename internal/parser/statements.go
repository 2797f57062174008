package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/token"
)

// parseStatement leaves curToken on the last token of the statement; an
// optional trailing semicolon is consumed here.
func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch p.curToken.Type {
	case token.LET:
		stmt = p.parseLetStatement()
	case token.STRUCT:
		stmt = p.parseStructDefinition()
	case token.TYPECLASS:
		stmt = p.parseTypeclassDeclaration()
	case token.INSTANCE:
		stmt = p.parseInstanceDeclaration()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			stmt = p.parseAssignStatement()
		} else {
			stmt = p.parseExpressionStatement()
		}
	default:
		stmt = p.parseExpressionStatement()
	}

	if stmt != nil && p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseModuleDeclaration() *ast.ModuleDeclaration {
	decl := &ast.ModuleDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return decl
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Path = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return stmt
}

// let x = expr / let mut x = expr / let x: Int = expr
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}

	if p.peekTokenIs(token.MUT) {
		stmt.Mutable = true
		p.nextToken()
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // consume ':'
		p.nextToken() // move onto the type
		stmt.TypeAnnotation = p.parseType()
		if stmt.TypeAnnotation == nil {
			return nil
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseAssignStatement() *ast.AssignStatement {
	stmt := &ast.AssignStatement{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}
	p.nextToken() // consume '='
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

// struct Vec2 { x: Float, y: Float }
func (p *Parser) parseStructDefinition() *ast.StructDefinition {
	def := &ast.StructDefinition{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	def.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("struct definition", def.Token)
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.StructFieldDef{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Type = p.parseType()
		if field.Type == nil {
			return nil
		}
		def.Fields = append(def.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return def
}

// typeclass Show a { show: (a) -> String }
func (p *Parser) parseTypeclassDeclaration() *ast.TypeclassDeclaration {
	decl := &ast.TypeclassDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.TypeParam = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("typeclass declaration", decl.Token)
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		method := &ast.TypeclassMethod{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		sig := p.parseType()
		if sig == nil {
			return nil
		}
		fnSig, ok := sig.(*ast.FunctionType)
		if !ok {
			p.unexpectedToken("function signature", method.Token)
			return nil
		}
		method.Signature = fnSig
		decl.Methods = append(decl.Methods, method)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return decl
}

// instance Show Vec2 { show = (v) => ... }
func (p *Parser) parseInstanceDeclaration() *ast.InstanceDeclaration {
	decl := &ast.InstanceDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.ClassName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.TypeName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.unterminated("instance declaration", decl.Token)
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		method := &ast.InstanceMethod{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		method.Value = p.parseExpression(LOWEST)
		if method.Value == nil {
			return nil
		}
		decl.Methods = append(decl.Methods, method)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
	}
	p.nextToken() // consume '}'
	return decl
}
