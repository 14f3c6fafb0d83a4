package dict

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseScalar converts one raw text field into a typed scalar. Trial order is
// integer, float, boolean, string; quoted fields keep their quotes and stay
// strings.
func parseScalar(text string) any {
	if isInt(text) {
		if v, err := strconv.ParseInt(text, 10, 64); err == nil {
			return v
		}
		// Out of int64 range, fall through to float.
	}
	if isFloat(text) {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return v
		}
	}
	switch strings.ToLower(text) {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}
	return text
}

// isInt reports whether s is an optionally signed run of digits.
func isInt(s string) bool {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isFloat reports whether s matches [+-]?digits*[.]?digits+([eE][+-]?digits+)?.
func isFloat(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		mantissa := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		// Digits after the dot are mandatory: "5." is not a float.
		if i == mantissa {
			return false
		}
	} else if i == start {
		return false
	}
	if i == len(s) {
		return i > start
	}
	if s[i] != 'e' && s[i] != 'E' {
		return false
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	exp := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i > exp && i == len(s)
}

// rowsToValue collapses parsed data rows into the stored value shape: a bare
// scalar for a single one-field row, []any for a single row, [][]any for
// several rows. With flatten set, all fields join into one flat []any.
func rowsToValue(rows [][]string, flatten bool) any {
	if flatten {
		var flat []any
		for _, row := range rows {
			for _, field := range row {
				flat = append(flat, parseScalar(field))
			}
		}
		if len(flat) == 1 {
			return flat[0]
		}
		return flat
	}
	if len(rows) == 1 {
		row := rows[0]
		if len(row) == 1 {
			return parseScalar(row[0])
		}
		out := make([]any, len(row))
		for i, field := range row {
			out[i] = parseScalar(field)
		}
		return out
	}
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, field := range row {
			cells[j] = parseScalar(field)
		}
		out[i] = cells
	}
	return out
}

// renderValue turns a stored value back into data rows of text fields.
func renderValue(value any) ([][]string, error) {
	switch v := value.(type) {
	case [][]any:
		rows := make([][]string, len(v))
		for i, row := range v {
			r, err := renderRow(row)
			if err != nil {
				return nil, err
			}
			rows[i] = r
		}
		return rows, nil
	case []any:
		row, err := renderRow(v)
		if err != nil {
			return nil, err
		}
		return [][]string{row}, nil
	default:
		field, err := renderScalar(value)
		if err != nil {
			return nil, err
		}
		return [][]string{{field}}, nil
	}
}

func renderRow(row []any) ([]string, error) {
	out := make([]string, len(row))
	for i, cell := range row {
		field, err := renderScalar(cell)
		if err != nil {
			return nil, err
		}
		out[i] = field
	}
	return out, nil
}

// renderScalar converts one scalar to its text form. Booleans become Yes/No,
// floats always carry a fraction or exponent so they re-parse as floats, and
// strings that would re-parse as something else get quoted.
func renderScalar(value any) (string, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes", nil
		}
		return "No", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", fmt.Errorf("hsd: cannot render non-finite float %v", v)
		}
		s := strconv.FormatFloat(v, 'g', -1, 64)
		// Keep the value a float on re-parse.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, nil
	case string:
		return quoteString(v)
	default:
		return "", fmt.Errorf("hsd: cannot render value of type %T", value)
	}
}

// quoteString quotes a string field where needed: when it contains special
// characters or whitespace, or when its bare form would re-parse as a number
// or boolean. Strings already wrapped in matching quotes pass through.
// Quoted strings cannot span lines, so line breaks cannot be rendered at all.
func quoteString(s string) (string, error) {
	if strings.ContainsAny(s, "\n\r") {
		return "", fmt.Errorf("hsd: cannot render string containing a line break: %q", s)
	}
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s, nil
		}
	}
	hasDouble := strings.Contains(s, `"`)
	hasSingle := strings.Contains(s, "'")
	if hasDouble && hasSingle {
		return "", fmt.Errorf("hsd: cannot quote string containing both quote types: %q", s)
	}
	if hasDouble {
		return "'" + s + "'", nil
	}
	if hasSingle {
		return `"` + s + `"`, nil
	}
	if strings.ContainsAny(s, "{}[]=; \t#") || needsQuoteToStayString(s) {
		return `"` + s + `"`, nil
	}
	return s, nil
}

// needsQuoteToStayString reports whether the bare form of s would be parsed
// back as a number or boolean instead of a string.
func needsQuoteToStayString(s string) bool {
	if isInt(s) || isFloat(s) {
		return true
	}
	switch strings.ToLower(s) {
	case "yes", "no", "true", "false":
		return true
	}
	return false
}
