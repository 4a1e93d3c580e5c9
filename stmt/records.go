package stmt

import (
	"context"
	"fmt"
	"strings"

	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/value"
)

type InsertValues struct {
	Table  string
	Values []value.Value
}

func (stmt *InsertValues) String() string {
	vals := make([]string, 0, len(stmt.Values))
	for _, v := range stmt.Values {
		vals = append(vals, v.String())
	}
	return fmt.Sprintf("insert into %s values (%s)", stmt.Table, strings.Join(vals, ", "))
}

func (_ *InsertValues) Command() string {
	return "insert"
}

func (stmt *InsertValues) Execute(ctx context.Context, env *Env) (*Result, error) {
	tbl, recs, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	recs, id, err := engine.Insert(tbl, recs, stmt.Values)
	if err != nil {
		return nil, err
	}
	err = env.saveRecords(stmt.Table, recs)
	if err != nil {
		return nil, err
	}

	var res Result
	res.message("Record with ID=%d added successfully to table \"%s\".", id, stmt.Table)
	return &res, nil
}

type Select struct {
	Table string
	Where engine.Clause
}

func (stmt *Select) String() string {
	s := "select from " + stmt.Table
	if len(stmt.Where) > 0 {
		s += " where " + stmt.Where.String()
	}
	return s
}

func (_ *Select) Command() string {
	return "select"
}

func (stmt *Select) Execute(ctx context.Context, env *Env) (*Result, error) {
	tbl, recs, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	var sel []record.Record
	if env.Cache != nil {
		sel = env.Cache.Select(stmt.Table, recs, stmt.Where)
	} else {
		sel = engine.Select(recs, stmt.Where)
	}

	res := Result{
		Columns: tbl.ColumnNames(),
		Records: sel,
	}
	if len(sel) == 0 {
		if len(recs) == 0 {
			res.message("No data to display.")
		} else {
			res.message("No records found.")
		}
	}
	return &res, nil
}

type Update struct {
	Table string
	Set   engine.Clause
	Where engine.Clause
}

func (stmt *Update) String() string {
	return fmt.Sprintf("update %s set %s where %s", stmt.Table, stmt.Set, stmt.Where)
}

func (_ *Update) Command() string {
	return "update"
}

func (stmt *Update) Execute(ctx context.Context, env *Env) (*Result, error) {
	_, recs, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	// Update assigns in place; the loaded records stay as they were if the save fails.
	upd := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		upd = append(upd, r.Copy())
	}

	var res Result
	ids := engine.Update(upd, stmt.Set, stmt.Where)
	if len(ids) == 0 {
		res.message("No records found to update.")
		return &res, nil
	}
	err = env.saveRecords(stmt.Table, upd)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		res.message("Record with ID=%d in table \"%s\" updated successfully.", id, stmt.Table)
	}
	return &res, nil
}

type Delete struct {
	Table string
	Where engine.Clause
}

func (stmt *Delete) String() string {
	return fmt.Sprintf("delete from %s where %s", stmt.Table, stmt.Where)
}

func (_ *Delete) Command() string {
	return "delete"
}

func (_ *Delete) Action() string {
	return "delete record"
}

func (stmt *Delete) Execute(ctx context.Context, env *Env) (*Result, error) {
	_, recs, err := env.lookupTable(stmt.Table)
	if err != nil {
		return nil, err
	}

	var res Result
	kept, ids := engine.Delete(recs, stmt.Where)
	if len(ids) == 0 {
		res.message("No records found to delete.")
		return &res, nil
	}
	err = env.saveRecords(stmt.Table, kept)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		res.message("Record with ID=%d deleted successfully from table \"%s\".", id,
			stmt.Table)
	}
	return &res, nil
}
