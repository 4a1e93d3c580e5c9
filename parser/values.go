package parser

import (
	"strconv"
	"strings"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/value"
)

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// ParseLiteral converts the text of a single value: a quoted string (either quote, no
// escapes), true or false in any case, a base 10 integer, or otherwise unquoted text.
func ParseLiteral(s string) value.Value {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && isQuote(rune(s[0])) && s[len(s)-1] == s[0] {
		return value.StringValue(s[1 : len(s)-1])
	}
	if strings.EqualFold(s, value.TrueString) {
		return value.BoolValue(true)
	} else if strings.EqualFold(s, value.FalseString) {
		return value.BoolValue(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int64Value(i)
	}
	return value.StringValue(s)
}

// ParseClause parses column = value into a clause with one entry. Only the first = splits
// the clause; the value may contain more.
func ParseClause(s string) (engine.Clause, error) {
	idx := strings.IndexRune(s, '=')
	if idx < 0 {
		return nil, dberr.ErrUnparseableClause(strings.TrimSpace(s))
	}
	col := strings.TrimSpace(s[:idx])
	if col == "" {
		return nil, dberr.ErrUnparseableClause(strings.TrimSpace(s))
	}
	return engine.Clause{col: ParseLiteral(s[idx+1:])}, nil
}

// ParseClauses parses a comma separated list of clauses into one clause; when a column
// is repeated, the last value wins.
func ParseClauses(s string) (engine.Clause, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, dberr.ErrUnparseableClause(strings.TrimSpace(s))
	}

	c := engine.Clause{}
	for _, part := range parts {
		pc, err := ParseClause(part)
		if err != nil {
			return nil, err
		}
		for col, v := range pc {
			c[col] = v
		}
	}
	return c, nil
}

// ParseValues parses a parenthesized, comma separated list of literals. Commas inside of
// quotes do not separate values.
func ParseValues(s string) []value.Value {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}

	vals := []value.Value{}
	for _, part := range splitList(s) {
		vals = append(vals, ParseLiteral(part))
	}
	return vals
}

func splitList(s string) []string {
	var parts []string
	var cur strings.Builder
	var quote rune

	for _, r := range s {
		if quote == 0 && isQuote(r) {
			quote = r
		} else if quote != 0 && r == quote {
			quote = 0
		} else if quote == 0 && r == ',' {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}

	if last := strings.TrimSpace(cur.String()); last != "" {
		parts = append(parts, last)
	}
	return parts
}
