package token

// TokenType identifies the lexical class of a token.
type TokenType string

// Token is a single lexical unit with its source position.
// Doc carries the text of any `//` comment block that immediately
// precedes the token; the lexer only attaches it to FUN tokens so
// function documentation survives re-materialization.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
	Offset int // byte offset of the token start in the source
	Doc    string
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LT_EQ  = "<="
	GT_EQ  = ">="
	AND    = "&&"
	OR     = "||"
	PIPE   = "|"
	ARROW  = "->"

	// Delimiters
	COMMA    = ","
	COLON    = ":"
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	FUN      = "FUN"
	RETURN   = "RETURN"
	IF       = "IF"
	ELSE     = "ELSE"
	TRY      = "TRY"
	CATCH    = "CATCH"
	FINALLY  = "FINALLY"
	MATCH    = "MATCH"
	WHILE    = "WHILE"
	FOR      = "FOR"
	IN       = "IN"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	AS       = "AS"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NIL      = "NIL"

	UNDERSCORE = "UNDERSCORE"
)

var keywords = map[string]TokenType{
	"fun":      FUN,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"try":      TRY,
	"catch":    CATCH,
	"finally":  FINALLY,
	"match":    MATCH,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"as":       AS,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"_":        UNDERSCORE,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
