package parser

import (
	"github.com/matrixlang/matrixlang/internal/ast"
	"github.com/matrixlang/matrixlang/internal/diagnostics"
	"github.com/matrixlang/matrixlang/internal/pipeline"
	"github.com/matrixlang/matrixlang/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 1000

// Operator precedence, low to high.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	RANGE       // .. ..=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	POWER       // ^ (right-associative, binds tighter than unary)
	CALL        // f(x) xs[i] point.x
)

var precedences = map[token.TokenType]int{
	token.OR:         OR,
	token.AND:        AND,
	token.EQ:         EQUALS,
	token.NOT_EQ:     EQUALS,
	token.LT:         LESSGREATER,
	token.LTE:        LESSGREATER,
	token.GT:         LESSGREATER,
	token.GTE:        LESSGREATER,
	token.DOT_DOT:    RANGE,
	token.DOT_DOT_EQ: RANGE,
	token.PLUS:       SUM,
	token.MINUS:      SUM,
	token.ASTERISK:   PRODUCT,
	token.SLASH:      PRODUCT,
	token.PERCENT:    PRODUCT,
	token.CARET:      POWER,
	token.LPAREN:     CALL,
	token.LBRACKET:   CALL,
	token.DOT:        CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	ctx   *pipeline.Context
	depth int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(stream *token.Stream, ctx *pipeline.Context) *Parser {
	stream.Reset()
	p := &Parser{
		tokens: stream.Peek(stream.Len()),
		ctx:    ctx,
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifierExpression,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.MINUS:    p.parseUnaryExpression,
		token.BANG:     p.parseUnaryExpression,
		token.LPAREN:   p.parseGroupedOrLambda,
		token.LBRACKET: p.parseArrayOrMatrixLiteral,
		token.LBRACE:   p.parseBlockExpression,
		token.IF:       p.parseIfExpression,
		token.MATCH:    p.parseMatchExpression,
		token.PARALLEL: p.parseParallelExpression,
		token.SPAWN:    p.parseSpawnExpression,
		token.WAIT:     p.parseWaitExpression,
		token.AT:       p.parseGpuDirective,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.OR:         p.parseBinaryExpression,
		token.AND:        p.parseBinaryExpression,
		token.EQ:         p.parseBinaryExpression,
		token.NOT_EQ:     p.parseBinaryExpression,
		token.LT:         p.parseBinaryExpression,
		token.LTE:        p.parseBinaryExpression,
		token.GT:         p.parseBinaryExpression,
		token.GTE:        p.parseBinaryExpression,
		token.PLUS:       p.parseBinaryExpression,
		token.MINUS:      p.parseBinaryExpression,
		token.ASTERISK:   p.parseBinaryExpression,
		token.SLASH:      p.parseBinaryExpression,
		token.PERCENT:    p.parseBinaryExpression,
		token.CARET:      p.parsePowerExpression,
		token.DOT_DOT:    p.parseRangeExpression,
		token.DOT_DOT_EQ: p.parseRangeExpression,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACKET:   p.parseIndexExpression,
		token.DOT:        p.parseFieldAccess,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
	}
}

// tokenAt peeks an arbitrary distance ahead of curToken (0 = curToken).
func (p *Parser) tokenAt(offset int) token.Token {
	switch offset {
	case 0:
		return p.curToken
	case 1:
		return p.peekToken
	}
	idx := p.pos + offset - 2
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpectedToken(string(t), p.peekToken)
	return false
}

func (p *Parser) unexpectedToken(expected string, found token.Token) {
	lexeme := found.Lexeme
	if found.Type == token.EOF {
		lexeme = "end of input"
	}
	p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, found,
		"expected %s, found %q", expected, lexeme))
}

func (p *Parser) unterminated(what string, tok token.Token) {
	p.ctx.AddError(diagnostics.NewError(diagnostics.ErrP002, tok,
		"unterminated %s", what))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the whole token stream. The first error stops the
// parse: the pipeline never evaluates a partially parsed program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	if p.curTokenIs(token.MODULE) {
		program.Module = p.parseModuleDeclaration()
		if program.Module == nil {
			return program
		}
		p.nextToken()
	}

	for p.curTokenIs(token.IMPORT) {
		imp := p.parseImportStatement()
		if imp == nil {
			return program
		}
		program.Imports = append(program.Imports, imp)
		p.nextToken()
	}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil || len(p.ctx.Errors) > 0 {
			return program
		}
		program.Statements = append(program.Statements, stmt)
		p.nextToken()
	}
	return program
}
