package lexer_test

import (
	"strings"
	"testing"

	"github.com/hsd-format/go-hsd/lexer"
	"github.com/hsd-format/go-hsd/token"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	input := `
# Top-level comment
Hamiltonian = DFTB {
  Scc = Yes  # inline comment
  Temperature [Kelvin] = 100
  SelectSomeAtoms = 1 2 "3:-3"
  KPoints {
    0.5 0.5 0.5
  }
}
`
	expectedTokens := []struct {
		expectedType    token.Type
		expectedLiteral string
		expectedLine    int
		expectedColumn  int
	}{
		{token.NEWLINE, "\n", 1, 1},
		{token.COMMENT, "Top-level comment", 2, 1},
		{token.NEWLINE, "\n", 2, 20},
		{token.IDENT, "Hamiltonian", 3, 1},
		{token.EQUAL, "=", 3, 13},
		{token.IDENT, "DFTB", 3, 15},
		{token.LBRACE, "{", 3, 20},
		{token.NEWLINE, "\n", 3, 21},
		{token.IDENT, "Scc", 4, 3},
		{token.EQUAL, "=", 4, 7},
		{token.IDENT, "Yes", 4, 9},
		{token.COMMENT, "inline comment", 4, 14},
		{token.NEWLINE, "\n", 4, 30},
		{token.IDENT, "Temperature", 5, 3},
		{token.ATTRIB, "Kelvin", 5, 15},
		{token.EQUAL, "=", 5, 24},
		{token.IDENT, "100", 5, 26},
		{token.NEWLINE, "\n", 5, 29},
		{token.IDENT, "SelectSomeAtoms", 6, 3},
		{token.EQUAL, "=", 6, 19},
		{token.IDENT, "1", 6, 21},
		{token.IDENT, "2", 6, 23},
		{token.STRING, `"3:-3"`, 6, 25},
		{token.NEWLINE, "\n", 6, 31},
		{token.IDENT, "KPoints", 7, 3},
		{token.LBRACE, "{", 7, 11},
		{token.NEWLINE, "\n", 7, 12},
		{token.IDENT, "0.5", 8, 5},
		{token.IDENT, "0.5", 8, 9},
		{token.IDENT, "0.5", 8, 13},
		{token.NEWLINE, "\n", 8, 16},
		{token.RBRACE, "}", 9, 3},
		{token.NEWLINE, "\n", 9, 4},
		{token.RBRACE, "}", 10, 1},
		{token.NEWLINE, "\n", 10, 2},
		{token.EOF, "", 11, 1},
	}

	l := lexer.New(strings.NewReader(input))

	for i, tt := range expectedTokens {
		tok := l.NextToken()
		require.Equal(t, tt.expectedType, tok.Type, "test[%d] - wrong token type. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		require.Equal(t, tt.expectedLiteral, tok.Literal, "test[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		require.Equal(t, tt.expectedLine, tok.Line, "test[%d] - wrong line. expected=%d, got=%d", i, tt.expectedLine, tok.Line)
		require.Equal(t, tt.expectedColumn, tok.Column, "test[%d] - wrong column. expected=%d, got=%d", i, tt.expectedColumn, tok.Column)
	}
}

func TestQuotedStrings(t *testing.T) {
	tests := []struct {
		input     string
		expected  string
		isIllegal bool
	}{
		{`""`, `""`, false},
		{`"a b c"`, `"a b c"`, false},
		{`" 3 : -3 "`, `" 3 : -3 "`, false},
		{`'single " double'`, `'single " double'`, false},
		{`"it's fine"`, `"it's fine"`, false},
		{`"no closing quote`, "unterminated quoted string", true},
		{"\"broken\nline\"", "unterminated quoted string", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := lexer.New(strings.NewReader(tt.input))
			tok := l.NextToken()
			if tt.isIllegal {
				require.Equal(t, token.ILLEGAL, tok.Type)
			} else {
				require.Equal(t, token.STRING, tok.Type)
			}
			require.Equal(t, tt.expected, tok.Literal)
		})
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		input     string
		expected  string
		isIllegal bool
	}{
		{`[Kelvin]`, "Kelvin", false},
		{`[ AA^3,AA, ]`, "AA^3,AA,", false},
		{`["bracket ] inside"]`, `"bracket ] inside"`, false},
		{`[unit`, "unterminated attribute", true},
		{"[unit\n]", "unterminated attribute", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := lexer.New(strings.NewReader(tt.input))
			tok := l.NextToken()
			if tt.isIllegal {
				require.Equal(t, token.ILLEGAL, tok.Type)
			} else {
				require.Equal(t, token.ATTRIB, tok.Type)
			}
			require.Equal(t, tt.expected, tok.Literal)
		})
	}
}

func TestWordsAreNotTyped(t *testing.T) {
	// The lexer leaves scalar typing to the consumer: numbers, booleans and
	// words all come out as IDENT.
	l := lexer.New(strings.NewReader("12 -4.5e-3 Yes no true text 3:-3"))
	want := []string{"12", "-4.5e-3", "Yes", "no", "true", "text", "3:-3"}
	for _, lit := range want {
		tok := l.NextToken()
		require.Equal(t, token.IDENT, tok.Type)
		require.Equal(t, lit, tok.Literal)
	}
	require.Equal(t, token.EOF, l.NextToken().Type)
}
