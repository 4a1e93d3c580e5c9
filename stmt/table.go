package stmt

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

type CreateTable struct {
	Table   string
	Columns []string
}

func (stmt *CreateTable) String() string {
	s := "create_table " + stmt.Table
	if len(stmt.Columns) > 0 {
		s += " " + strings.Join(stmt.Columns, " ")
	}
	return s
}

func (_ *CreateTable) Command() string {
	return "create_table"
}

func (stmt *CreateTable) Execute(ctx context.Context, env *Env) (*Result, error) {
	st, err := env.loadSchema()
	if err != nil {
		return nil, err
	}
	tbl, err := st.CreateTable(stmt.Table, stmt.Columns)
	if err != nil {
		return nil, err
	}

	// Records left behind by a table of the same name must not show up in this one.
	err = env.Gateway.DropRecords(stmt.Table)
	if err != nil {
		return nil, storageErr("table "+stmt.Table, err)
	}
	env.invalidate(stmt.Table)

	err = env.saveSchema(st)
	if err != nil {
		return nil, err
	}

	var res Result
	res.message("Table \"%s\" created successfully with columns: %s", tbl.Name,
		tbl.ColumnsString())
	return &res, nil
}

type DropTable struct {
	Table string
}

func (stmt *DropTable) String() string {
	return "drop_table " + stmt.Table
}

func (_ *DropTable) Command() string {
	return "drop_table"
}

func (_ *DropTable) Action() string {
	return "delete table"
}

func (stmt *DropTable) Execute(ctx context.Context, env *Env) (*Result, error) {
	st, err := env.loadSchema()
	if err != nil {
		return nil, err
	}
	err = st.DropTable(stmt.Table)
	if err != nil {
		return nil, err
	}
	err = env.saveSchema(st)
	if err != nil {
		return nil, err
	}

	// The table is gone once the schema is saved; records left behind are dropped again
	// by create_table.
	env.invalidate(stmt.Table)
	err = env.Gateway.DropRecords(stmt.Table)
	if err != nil {
		log.WithFields(log.Fields{
			"table": stmt.Table,
			"error": err.Error(),
		}).Warn("drop_table: records not dropped")
	}

	var res Result
	res.message("Table \"%s\" deleted successfully.", stmt.Table)
	return &res, nil
}

type ListTables struct{}

func (_ *ListTables) String() string {
	return "list_tables"
}

func (_ *ListTables) Command() string {
	return "list_tables"
}

func (_ *ListTables) Execute(ctx context.Context, env *Env) (*Result, error) {
	st, err := env.loadSchema()
	if err != nil {
		return nil, err
	}

	var res Result
	if st.Len() == 0 {
		res.message("No tables.")
		return &res, nil
	}
	st.ListTables(
		func(name string) bool {
			res.message("- %s", name)
			return true
		})
	return &res, nil
}

type Info struct {
	Table string
}

func (stmt *Info) String() string {
	return "info " + stmt.Table
}

func (_ *Info) Command() string {
	return "info"
}

func (stmt *Info) Execute(ctx context.Context, env *Env) (*Result, error) {
	st, err := env.loadSchema()
	if err != nil {
		return nil, err
	}
	desc, err := st.Describe(stmt.Table, env)
	if err != nil {
		return nil, err
	}

	return &Result{
		Messages: []string{
			fmt.Sprintf("Table: %s", desc.Table.Name),
			fmt.Sprintf("Columns: %s", desc.Table.ColumnsString()),
			fmt.Sprintf("Record count: %d", desc.Count),
		},
	}, nil
}
