package parser

import (
	"fmt"

	"github.com/skuldlang/skuld/internal/ast"
	"github.com/skuldlang/skuld/internal/lexer"
	"github.com/skuldlang/skuld/internal/token"
)

// MaxRecursionDepth caps expression nesting so pathological input cannot
// blow the stack.
const MaxRecursionDepth = 512

// Operator precedence levels, lowest first.
const (
	LOWEST      = iota + 1
	PIPELINE    // |
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // > < >= <=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // f(x) xs[0]
)

var precedences = map[token.TokenType]int{
	token.PIPE:     PIPELINE,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

// Error is a parse error with its source position.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	source string

	curToken  token.Token
	peekToken token.Token

	errors []*Error
	depth  int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(source string) *Parser {
	p := &Parser{
		l:      lexer.New(source),
		source: source,
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.NIL:      p.parseNilLiteral,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseListLiteral,
		token.FUN:      p.parseFunctionLiteral,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LT_EQ:    p.parseInfixExpression,
		token.GT_EQ:    p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.PIPE:     p.parseInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
	}

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the parse errors collected so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

func (p *Parser) addError(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken, "expected %s, got %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// skipNewlines advances past statement separators.
func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// peekAfterNewlines consumes newline separators when the next meaningful
// token is t, so clause keywords (else, catch, finally) may start on their
// own line.
func (p *Parser) peekAfterNewlines(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		return true
	}
	if !p.peekTokenIs(token.NEWLINE) {
		return false
	}
	// Consuming separators here is safe: if t does not follow, they were
	// ordinary statement separators and the statement loop skips them too.
	for p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	return p.peekTokenIs(t)
}

// ParseProgram parses a whole source file.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	p.skipNewlines()
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
		p.skipNewlines()
	}

	return program
}

// ParseFunctionSource re-parses a single retrieved function definition.
// It is the parsing half of bind-and-materialize: the input is the exact
// Source slice recorded when the function was first defined.
func ParseFunctionSource(source string) (*ast.FunctionStatement, error) {
	p := New(source)
	p.skipNewlines()
	if !p.curTokenIs(token.FUN) {
		return nil, &Error{Line: p.curToken.Line, Column: p.curToken.Column,
			Message: "function source must begin with 'fun'"}
	}
	fn := p.parseFunctionStatement()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if fn == nil {
		return nil, &Error{Line: 1, Column: 1, Message: "malformed function source"}
	}
	return fn, nil
}

// skipToStatementBoundary recovers from a parse error by discarding tokens
// until the next plausible statement start.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}
