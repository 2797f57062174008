package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

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
	CARET    = "^"
	BANG     = "!"

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	LTE    = "<="
	GT     = ">"
	GTE    = ">="

	AND = "&&"
	OR  = "||"

	// Punctuation
	LPAREN     = "("
	RPAREN     = ")"
	LBRACE     = "{"
	RBRACE     = "}"
	LBRACKET   = "["
	RBRACKET   = "]"
	COMMA      = ","
	SEMICOLON  = ";"
	COLON      = ":"
	DOT        = "."
	DOT_DOT    = ".."
	DOT_DOT_EQ = "..="
	PIPE       = "|"
	UNDERSCORE = "_"
	AT         = "@"

	FAT_ARROW = "=>"
	ARROW     = "->"

	// Keywords
	LET       = "LET"
	MUT       = "MUT"
	STRUCT    = "STRUCT"
	IF        = "IF"
	ELSE      = "ELSE"
	MATCH     = "MATCH"
	TYPECLASS = "TYPECLASS"
	INSTANCE  = "INSTANCE"
	MODULE    = "MODULE"
	IMPORT    = "IMPORT"
	PARALLEL  = "PARALLEL"
	SPAWN     = "SPAWN"
	WAIT      = "WAIT"
	IN        = "IN"
	TRUE      = "TRUE"
	FALSE     = "FALSE"
)

// Token carries the lexeme and its source position. Literal holds the parsed
// value for INT (int64), FLOAT (float64) and STRING (unescaped string)
// tokens; for everything else it equals the lexeme.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

var keywords = map[string]TokenType{
	"let":       LET,
	"mut":       MUT,
	"struct":    STRUCT,
	"if":        IF,
	"else":      ELSE,
	"match":     MATCH,
	"typeclass": TYPECLASS,
	"instance":  INSTANCE,
	"module":    MODULE,
	"import":    IMPORT,
	"parallel":  PARALLEL,
	"spawn":     SPAWN,
	"wait":      WAIT,
	"in":        IN,
	"true":      TRUE,
	"false":     FALSE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
