package token

// Type is the type of a token.
type Type string

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

const (
	// Special tokens
	ILLEGAL Type = "ILLEGAL" // An unknown or invalid token
	EOF     Type = "EOF"     // End of input

	// Literals
	IDENT  Type = "IDENT"  // Hamiltonian, 1.25e-3, 3:-3
	STRING Type = "STRING" // "quoted text", quotes included in the literal
	ATTRIB Type = "ATTRIB" // [Kelvin], literal holds the bracket payload

	// Delimiters
	EQUAL     Type = "="
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	SEMICOLON Type = ";"

	// Comments and whitespace
	COMMENT Type = "COMMENT" // # a comment
	NEWLINE Type = "NEWLINE" // \n
)
