// Package schema is the store of table definitions: each table has a name and an ordered
// list of typed columns, the first of which is always the implicit ID column.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/value"
)

type Column struct {
	Name string         `json:"name"`
	Type value.DataType `json:"type"`
}

func (col Column) String() string {
	return fmt.Sprintf("%s:%s", col.Name, col.Type)
}

type Table struct {
	Name    string
	Columns []Column
}

func (tbl *Table) ColumnNames() []string {
	names := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		names = append(names, col.Name)
	}
	return names
}

// ColumnsString returns the columns as name:type separated by commas.
func (tbl *Table) ColumnsString() string {
	cols := make([]string, 0, len(tbl.Columns))
	for _, col := range tbl.Columns {
		cols = append(cols, col.String())
	}
	return strings.Join(cols, ", ")
}

// Check returns an error unless r has exactly the columns of tbl, in order, each with a
// value of the column's type.
func (tbl *Table) Check(r record.Record) error {
	if len(r) != len(tbl.Columns) {
		return fmt.Errorf("schema: table %s: record %s: got %d fields want %d", tbl.Name, r,
			len(r), len(tbl.Columns))
	}
	for cdx, col := range tbl.Columns {
		f := r[cdx]
		if f.Name != col.Name {
			return fmt.Errorf("schema: table %s: record %s: got field %s want %s", tbl.Name, r,
				f.Name, col.Name)
		}
		if f.Value == nil || f.Value.Type() != col.Type {
			return fmt.Errorf("schema: table %s: record %s: field %s: want %s", tbl.Name, r,
				f.Name, col.Type)
		}
	}
	return nil
}

// Store holds the tables in the order they were created.
type Store struct {
	names  []string
	tables map[string]*Table
}

type RecordCounter interface {
	Count(tbl string) (int, error)
}

type Description struct {
	Table *Table
	Count int
}

func NewStore() *Store {
	return &Store{
		tables: map[string]*Table{},
	}
}

func (st *Store) Len() int {
	return len(st.names)
}

func (st *Store) Lookup(name string) (*Table, error) {
	tbl, ok := st.tables[name]
	if !ok {
		return nil, dberr.ErrTableNotFound(name)
	}
	return tbl, nil
}

func parseColumn(spec string) (Column, error) {
	idx := strings.IndexRune(spec, ':')
	if idx <= 0 {
		return Column{}, dberr.ErrInvalidColumnSpec(spec)
	}
	name := spec[:idx]
	if name == record.IDColumn {
		return Column{}, dberr.ErrInvalidColumnSpec(spec)
	}
	dt, ok := value.ParseDataType(spec[idx+1:])
	if !ok {
		return Column{}, dberr.ErrInvalidColumnSpec(spec)
	}
	return Column{Name: name, Type: dt}, nil
}

// CreateTable adds a table with an ID column followed by one column per spec; each spec
// is name:type. Nothing is added unless every spec is valid.
func (st *Store) CreateTable(name string, specs []string) (*Table, error) {
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return nil, dberr.New(dberr.InvalidCommand, "invalid table name \"%s\"", name)
	}
	if _, ok := st.tables[name]; ok {
		return nil, dberr.ErrTableExists(name)
	}

	cols := []Column{{Name: record.IDColumn, Type: value.IntegerType}}
	seen := map[string]struct{}{}
	for _, spec := range specs {
		col, err := parseColumn(spec)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[col.Name]; ok {
			return nil, dberr.ErrInvalidColumnSpec(spec)
		}
		seen[col.Name] = struct{}{}
		cols = append(cols, col)
	}

	tbl := &Table{Name: name, Columns: cols}
	st.add(tbl)
	return tbl, nil
}

func (st *Store) add(tbl *Table) {
	st.names = append(st.names, tbl.Name)
	st.tables[tbl.Name] = tbl
}

func (st *Store) DropTable(name string) error {
	if _, ok := st.tables[name]; !ok {
		return dberr.ErrTableNotFound(name)
	}

	delete(st.tables, name)
	for ndx, n := range st.names {
		if n == name {
			st.names = append(st.names[:ndx], st.names[ndx+1:]...)
			break
		}
	}
	return nil
}

// ListTables calls fn with each table name in creation order until fn returns false.
func (st *Store) ListTables(fn func(name string) bool) {
	for _, name := range st.names {
		if !fn(name) {
			return
		}
	}
}

func (st *Store) Describe(name string, rc RecordCounter) (Description, error) {
	tbl, err := st.Lookup(name)
	if err != nil {
		return Description{}, err
	}
	cnt, err := rc.Count(name)
	if err != nil {
		return Description{}, err
	}
	return Description{Table: tbl, Count: cnt}, nil
}

type tableJSON struct {
	Columns []Column `json:"columns"`
}

// MarshalJSON writes the store as an object keyed by table name, in creation order.
func (st *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteRune('{')
	for ndx, name := range st.names {
		if ndx > 0 {
			buf.WriteRune(',')
		}
		b, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteRune(':')
		b, err = json.Marshal(tableJSON{Columns: st.tables[name].Columns})
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteRune('}')
	return buf.Bytes(), nil
}

func (st *Store) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("schema: expected an object; got %v", tok)
	}

	nst := NewStore()
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("schema: expected a table name; got %v", tok)
		}
		if _, ok := nst.tables[name]; ok {
			return fmt.Errorf("schema: table %s: defined more than once", name)
		}

		var tj tableJSON
		err = dec.Decode(&tj)
		if err != nil {
			return fmt.Errorf("schema: table %s: %s", name, err)
		}
		if len(tj.Columns) == 0 || tj.Columns[0].Name != record.IDColumn ||
			tj.Columns[0].Type != value.IntegerType {

			return fmt.Errorf("schema: table %s: first column must be ID:int", name)
		}
		nst.add(&Table{Name: name, Columns: tj.Columns})
	}

	tok, err = dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return fmt.Errorf("schema: expected end of object; got %v", tok)
	}

	*st = *nst
	return nil
}
