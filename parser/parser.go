// Package parser turns a line of input into a statement. Keywords are matched without
// regard to case; table names, column names, and values keep their case.
package parser

import (
	"strings"
	"unicode"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/stmt"
)

const (
	createTableUsage = "create_table <name> <column:type> ..."
	dropTableUsage   = "drop_table <name>"
	listTablesUsage  = "list_tables"
	insertUsage      = "insert into <name> values (<value>, ...)"
	selectUsage      = "select from <name> [where <column> = <value>]"
	updateUsage      = "update <name> set <column> = <value>[, ...] where <column> = <value>"
	deleteUsage      = "delete from <name> where <column> = <value>"
	infoUsage        = "info <name>"
)

// word is a run of characters outside of quotes without white space, or any characters
// inside of quotes; start and end are offsets into the line.
type word struct {
	text  string
	start int
	end   int
}

func (w word) is(kw string) bool {
	return strings.EqualFold(w.text, kw)
}

func splitWords(line string) []word {
	var words []word
	var quote rune
	start := -1

	for idx, r := range line {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, word{text: line[start:idx], start: start, end: idx})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = idx
		}
		if isQuote(r) {
			quote = r
		}
	}

	if start >= 0 {
		words = append(words, word{text: line[start:], start: start, end: len(line)})
	}
	return words
}

type parser struct {
	line  string
	words []word
}

// Parse returns the statement for line, or nil if line is empty.
func Parse(line string) (stmt.Stmt, error) {
	p := parser{
		line:  line,
		words: splitWords(line),
	}
	if len(p.words) == 0 {
		return nil, nil
	}

	switch cmd := strings.ToLower(p.words[0].text); cmd {
	case "create_table":
		return p.parseCreateTable()
	case "drop_table":
		if len(p.words) != 2 {
			return nil, dberr.ErrUsage(dropTableUsage)
		}
		return &stmt.DropTable{Table: p.words[1].text}, nil
	case "list_tables":
		if len(p.words) != 1 {
			return nil, dberr.ErrUsage(listTablesUsage)
		}
		return &stmt.ListTables{}, nil
	case "insert":
		return p.parseInsert()
	case "select":
		return p.parseSelect()
	case "update":
		return p.parseUpdate()
	case "delete":
		return p.parseDelete()
	case "info":
		if len(p.words) != 2 {
			return nil, dberr.ErrUsage(infoUsage)
		}
		return &stmt.Info{Table: p.words[1].text}, nil
	case "help":
		return &stmt.Help{}, nil
	case "exit":
		return &stmt.Exit{}, nil
	default:
		return nil, dberr.New(dberr.InvalidCommand, "Unknown command \"%s\". Try again.",
			p.words[0].text)
	}
}

// rest returns the line following the word at wdx.
func (p *parser) rest(wdx int) string {
	return p.line[p.words[wdx].end:]
}

// find returns the index of the first word at or after wdx which is the keyword kw.
func (p *parser) find(wdx int, kw string) int {
	for ; wdx < len(p.words); wdx += 1 {
		if p.words[wdx].is(kw) {
			return wdx
		}
	}
	return -1
}

func (p *parser) parseCreateTable() (stmt.Stmt, error) {
	// create_table <name> <column:type> ...
	if len(p.words) < 3 {
		return nil, dberr.ErrUsage(createTableUsage)
	}
	var cols []string
	for _, w := range p.words[2:] {
		cols = append(cols, w.text)
	}
	return &stmt.CreateTable{Table: p.words[1].text, Columns: cols}, nil
}

func (p *parser) parseInsert() (stmt.Stmt, error) {
	// insert into <name> values (<value>, ...)
	if len(p.words) < 4 || !p.words[1].is("into") {
		return nil, dberr.ErrUsage(insertUsage)
	}

	w := p.words[3]
	var vals string
	if w.is("values") {
		vals = p.rest(3)
	} else if len(w.text) > 6 && strings.EqualFold(w.text[:6], "values") && w.text[6] == '(' {
		vals = p.line[w.start+6:]
	} else {
		return nil, dberr.ErrUsage(insertUsage)
	}

	return &stmt.InsertValues{Table: p.words[2].text, Values: ParseValues(vals)}, nil
}

func (p *parser) parseWhere(wdx int, usage string) (engine.Clause, error) {
	if wdx+1 >= len(p.words) {
		return nil, dberr.ErrUsage(usage)
	}
	return ParseClause(p.rest(wdx))
}

func (p *parser) parseSelect() (stmt.Stmt, error) {
	// select from <name> [where <column> = <value>]
	if len(p.words) < 3 || !p.words[1].is("from") {
		return nil, dberr.ErrUsage(selectUsage)
	}

	s := stmt.Select{Table: p.words[2].text}
	if len(p.words) > 3 {
		if !p.words[3].is("where") {
			return nil, dberr.ErrUsage(selectUsage)
		}
		where, err := p.parseWhere(3, selectUsage)
		if err != nil {
			return nil, err
		}
		s.Where = where
	}
	return &s, nil
}

func (p *parser) parseUpdate() (stmt.Stmt, error) {
	// update <name> set <column> = <value>[, ...] where <column> = <value>
	if len(p.words) < 3 || !p.words[2].is("set") {
		return nil, dberr.ErrUsage(updateUsage)
	}
	wdx := p.find(3, "where")
	if wdx < 0 || wdx == 3 {
		return nil, dberr.ErrUsage(updateUsage)
	}

	set, err := ParseClauses(p.line[p.words[2].end:p.words[wdx].start])
	if err != nil {
		return nil, err
	}
	where, err := p.parseWhere(wdx, updateUsage)
	if err != nil {
		return nil, err
	}
	return &stmt.Update{Table: p.words[1].text, Set: set, Where: where}, nil
}

func (p *parser) parseDelete() (stmt.Stmt, error) {
	// delete from <name> where <column> = <value>
	if len(p.words) < 4 || !p.words[1].is("from") || !p.words[3].is("where") {
		return nil, dberr.ErrUsage(deleteUsage)
	}
	where, err := p.parseWhere(3, deleteUsage)
	if err != nil {
		return nil, err
	}
	return &stmt.Delete{Table: p.words[2].text, Where: where}, nil
}
