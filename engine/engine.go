// Package engine applies inserts, selects, updates, and deletes to the records of a
// single table. It works on slices of records and never touches storage.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/value"
)

// Clause maps column names to values: a where clause filters records and a set clause
// assigns to them.
type Clause map[string]value.Value

// String returns the clause with its keys sorted; equal clauses have equal strings.
func (c Clause) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for kdx, k := range keys {
		if kdx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = %s", k, c[k])
	}
	return b.String()
}

// Matches reports whether every column of the clause is in the record with an equal
// value. An empty clause matches every record.
func (c Clause) Matches(r record.Record) bool {
	for col, want := range c {
		v, ok := r.Get(col)
		if !ok || !value.Equal(v, want) {
			return false
		}
	}
	return true
}

func NextID(recs []record.Record) int64 {
	var max int64
	for _, r := range recs {
		if id := r.ID(); id > max {
			max = id
		}
	}
	return max + 1
}

func Count(recs []record.Record) int {
	return len(recs)
}

// Insert converts vals to the types of the table's columns, after ID, and appends a new
// record. Nothing is appended if any value can not be converted.
func Insert(tbl *schema.Table, recs []record.Record, vals []value.Value) ([]record.Record,
	int64, error) {

	if len(vals) != len(tbl.Columns)-1 {
		return recs, 0, dberr.ErrArityMismatch(len(tbl.Columns)-1, len(vals))
	}

	id := NextID(recs)
	r := make(record.Record, 0, len(tbl.Columns))
	r = append(r, record.Field{Name: record.IDColumn, Value: value.Int64Value(id)})
	for vdx, v := range vals {
		col := tbl.Columns[vdx+1]
		cv, err := value.Convert(col.Type, v)
		if err != nil {
			return recs, 0, dberr.ErrInvalidValue(value.Format(v), col.Name, col.Type.String())
		}
		r = append(r, record.Field{Name: col.Name, Value: cv})
	}

	return append(recs, r), id, nil
}

// Select returns copies of the records matching where; a nil where selects every record.
func Select(recs []record.Record, where Clause) []record.Record {
	sel := []record.Record{}
	for _, r := range recs {
		if where.Matches(r) {
			sel = append(sel, r.Copy())
		}
	}
	return sel
}

// Update assigns the values of set to every record matching where, in place. ID is never
// assigned, and neither is a column the record does not have. The IDs of the records
// which had at least one assignment are returned.
func Update(recs []record.Record, set, where Clause) []int64 {
	var ids []int64
	for _, r := range recs {
		if !where.Matches(r) {
			continue
		}

		var touched bool
		for col, v := range set {
			if col == record.IDColumn {
				continue
			}
			if r.Set(col, v) {
				touched = true
			}
		}
		if touched {
			ids = append(ids, r.ID())
		}
	}
	return ids
}

// Delete splits recs into the records which are kept and the IDs of the records which
// match where and are removed. Order is preserved in both.
func Delete(recs []record.Record, where Clause) ([]record.Record, []int64) {
	kept := make([]record.Record, 0, len(recs))
	var ids []int64
	for _, r := range recs {
		if where.Matches(r) {
			ids = append(ids, r.ID())
		} else {
			kept = append(kept, r)
		}
	}
	return kept, ids
}
