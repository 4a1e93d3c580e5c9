// Package record holds the rows of a table. A record is an ordered list of fields, in
// schema order, and always starts with the ID field.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/leftmike/primdb/value"
)

const (
	IDColumn = "ID"
)

type Field struct {
	Name  string
	Value value.Value
}

type Record []Field

func (r Record) Get(name string) (value.Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// ID returns the record's ID, or 0 if the record does not have an integer ID.
func (r Record) ID() int64 {
	v, ok := r.Get(IDColumn)
	if !ok {
		return 0
	}
	id, ok := v.(value.Int64Value)
	if !ok {
		return 0
	}
	return int64(id)
}

// Set overwrites the value of an existing field in place; it reports false if the record
// does not have the field.
func (r Record) Set(name string, v value.Value) bool {
	for fdx := range r {
		if r[fdx].Name == name {
			r[fdx].Value = v
			return true
		}
	}
	return false
}

func (r Record) Copy() Record {
	if r == nil {
		return nil
	}
	return append(make(Record, 0, len(r)), r...)
}

func (r Record) String() string {
	var buf bytes.Buffer
	buf.WriteRune('{')
	for fdx, f := range r {
		if fdx > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %s", f.Name, f.Value)
	}
	buf.WriteRune('}')
	return buf.String()
}

func Equal(r1, r2 Record) bool {
	if len(r1) != len(r2) {
		return false
	}
	for fdx := range r1 {
		if r1[fdx].Name != r2[fdx].Name || !value.Equal(r1[fdx].Value, r2[fdx].Value) {
			return false
		}
	}
	return true
}

func EqualAll(recs1, recs2 []Record) bool {
	if len(recs1) != len(recs2) {
		return false
	}
	for rdx := range recs1 {
		if !Equal(recs1[rdx], recs2[rdx]) {
			return false
		}
	}
	return true
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteRune('{')
	for fdx, f := range r {
		if fdx > 0 {
			buf.WriteRune(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteRune(':')

		switch v := f.Value.(type) {
		case value.Int64Value:
			buf.WriteString(strconv.FormatInt(int64(v), 10))
		case value.StringValue:
			s, err := json.Marshal(string(v))
			if err != nil {
				return nil, err
			}
			buf.Write(s)
		case value.BoolValue:
			buf.WriteString(v.String())
		default:
			return nil, fmt.Errorf("record: field %s: unexpected value: %v", f.Name, f.Value)
		}
	}
	buf.WriteRune('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected an object; got %v", tok)
	}

	rec := Record{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected a field name; got %v", tok)
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		var v value.Value
		switch tok := tok.(type) {
		case json.Number:
			i, err := strconv.ParseInt(string(tok), 10, 64)
			if err != nil {
				return fmt.Errorf("record: field %s: expected an integer; got %s", name, tok)
			}
			v = value.Int64Value(i)
		case string:
			v = value.StringValue(tok)
		case bool:
			v = value.BoolValue(tok)
		default:
			return fmt.Errorf("record: field %s: unexpected value: %v", name, tok)
		}
		rec = append(rec, Field{Name: name, Value: v})
	}

	tok, err = dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return fmt.Errorf("record: expected end of object; got %v", tok)
	}

	*r = rec
	return nil
}
