package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/skuldlang/skuld/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number

	// pendingDoc accumulates consecutive `//` comment lines so the lexer
	// can attach documentation to the function definition that follows.
	// Only comments that start their own line count as documentation.
	pendingDoc    []string
	lastTokenLine int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	if tok.Type != token.EOF {
		l.lastTokenLine = tok.Line
	}
	return tok
}

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespaceAndComments()

	start := l.position
	if start > len(l.input) {
		start = len(l.input)
	}

	var tok token.Token

	switch l.ch {
	case '\n':
		tok = l.newToken(token.NEWLINE, "\\n")
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.EQ, "==")
		} else {
			tok = l.newToken(token.ASSIGN, "=")
		}
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok = l.newToken(token.ARROW, "->")
		} else {
			tok = l.newToken(token.MINUS, "-")
		}
	case '*':
		tok = l.newToken(token.ASTERISK, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '%':
		tok = l.newToken(token.PERCENT, "%")
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.NOT_EQ, "!=")
		} else {
			tok = l.newToken(token.BANG, "!")
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.LT_EQ, "<=")
		} else {
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.newToken(token.GT_EQ, ">=")
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.newToken(token.AND, "&&")
		} else {
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.newToken(token.OR, "||")
		} else {
			tok = l.newToken(token.PIPE, "|")
		}
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '"':
		tok = token.Token{Type: token.STRING, Line: l.line, Column: l.column, Offset: start}
		tok.Lexeme = l.readString()
		l.pendingDoc = nil
		return tok
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column, Offset: start}
	default:
		if isLetter(l.ch) {
			line, column := l.line, l.column
			ident := l.readIdentifier()
			typ := token.LookupIdent(ident)
			tok = token.Token{Type: typ, Lexeme: ident, Line: line, Column: column, Offset: start}
			if typ == token.FUN {
				tok.Doc = l.takeDoc()
			}
			l.pendingDoc = nil
			return tok
		}
		if unicode.IsDigit(l.ch) {
			l.pendingDoc = nil
			return l.readNumber(start)
		}
		tok = l.newToken(token.ILLEGAL, string(l.ch))
	}

	// Any token other than the newline terminating a comment line
	// invalidates a pending doc block.
	if tok.Type != token.NEWLINE {
		l.pendingDoc = nil
	}

	tok.Offset = start
	l.readChar()
	return tok
}

func (l *Lexer) newToken(typ token.TokenType, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: l.line, Column: l.column}
}

func (l *Lexer) takeDoc() string {
	if len(l.pendingDoc) == 0 {
		return ""
	}
	doc := strings.Join(l.pendingDoc, "\n")
	l.pendingDoc = nil
	return doc
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			standalone := l.line > l.lastTokenLine
			l.readChar()
			l.readChar()
			start := l.position
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			end := l.position
			if end > len(l.input) {
				end = len(l.input)
			}
			if standalone {
				text := strings.TrimPrefix(l.input[start:end], " ")
				l.pendingDoc = append(l.pendingDoc, text)
				if l.ch == '\n' {
					l.readChar() // the comment's own terminator is not a statement boundary
				}
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(start int) token.Token {
	line, column := l.line, l.column
	typ := token.TokenType(token.INT)
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		typ = token.FLOAT
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: typ, Lexeme: l.input[start:l.position], Line: line, Column: column, Offset: start}
}

func (l *Lexer) readString() string {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\':
				sb.WriteRune('\\')
			case '"':
				sb.WriteRune('"')
			default:
				sb.WriteRune(l.ch)
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume closing quote
	return sb.String()
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
