package ast

import (
	"github.com/skuldlang/skuld/internal/token"
)

// IfStatement is a conditional with an optional alternative.
// The Alternative is nil, a *BlockStatement (plain else), or a nested
// *IfStatement (else-if chain).
type IfStatement struct {
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// CatchClause handles errors of the named kinds; an empty kind list
// catches everything. Binding, if present, receives the error value.
// catch DivisionByZero as e { ... }
type CatchClause struct {
	Token   token.Token // the 'catch' token
	Kinds   []*Identifier
	Binding *Identifier
	Body    *BlockStatement
}

func (cc *CatchClause) GetToken() token.Token {
	if cc == nil {
		return token.Token{}
	}
	return cc.Token
}

// TryStatement is an exception block: body, ordered handlers, optional
// else body (runs when nothing was raised), optional finally body
// (always runs, never supplies a value).
type TryStatement struct {
	Token    token.Token // the 'try' token
	Body     *BlockStatement
	Handlers []*CatchClause
	Else     *BlockStatement
	Finally  *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *TryStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}

// MatchArm is one arm of a match block. Guard, if present, must evaluate
// to true for the arm to be taken.
type MatchArm struct {
	Token   token.Token // first token of the pattern
	Pattern Pattern
	Guard   Expression // optional: pattern if cond -> ...
	Body    *BlockStatement
}

func (ma *MatchArm) GetToken() token.Token {
	if ma == nil {
		return token.Token{}
	}
	return ma.Token
}

// MatchStatement selects the first arm whose pattern matches the subject.
// match x { 0 -> { ... } _ -> { ... } }
type MatchStatement struct {
	Token   token.Token // the 'match' token
	Subject Expression
	Arms    []*MatchArm
}

func (ms *MatchStatement) statementNode()       {}
func (ms *MatchStatement) TokenLiteral() string { return ms.Token.Lexeme }
func (ms *MatchStatement) GetToken() token.Token {
	if ms == nil {
		return token.Token{}
	}
	return ms.Token
}

// WhileStatement loops while the condition holds.
type WhileStatement struct {
	Token     token.Token // the 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token {
	if ws == nil {
		return token.Token{}
	}
	return ws.Token
}

// ForStatement iterates over the elements of an iterable.
// for x in xs { ... }
type ForStatement struct {
	Token    token.Token // the 'for' token
	ItemName *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// WildcardPattern matches any value: _
type WildcardPattern struct {
	Token token.Token
}

func (p *WildcardPattern) patternNode()         {}
func (p *WildcardPattern) TokenLiteral() string { return p.Token.Lexeme }
func (p *WildcardPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// LiteralPattern matches a literal value: 1, "a", true, nil
type LiteralPattern struct {
	Token token.Token
	Value Expression
}

func (p *LiteralPattern) patternNode()         {}
func (p *LiteralPattern) TokenLiteral() string { return p.Token.Lexeme }
func (p *LiteralPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// IdentifierPattern matches anything and binds it: x
type IdentifierPattern struct {
	Token token.Token
	Value string
}

func (p *IdentifierPattern) patternNode()         {}
func (p *IdentifierPattern) TokenLiteral() string { return p.Token.Lexeme }
func (p *IdentifierPattern) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}
