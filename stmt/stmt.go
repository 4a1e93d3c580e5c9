// Package stmt has one statement type per command. Each statement loads what it needs
// through the gateway, makes its change, and saves only if the change succeeded.
package stmt

import (
	"context"
	"fmt"

	"github.com/leftmike/primdb/cache"
	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/storage"
)

// Env is what statements execute against. Cache may be nil.
type Env struct {
	Gateway storage.Gateway
	Cache   *cache.SelectCache
}

// Result is what a statement reports back: messages to print, and for select, a grid of
// records with their column names.
type Result struct {
	Messages []string
	Columns  []string
	Records  []record.Record
	Exit     bool
}

func (r *Result) message(format string, args ...interface{}) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

type Stmt interface {
	fmt.Stringer
	Command() string
	Execute(ctx context.Context, env *Env) (*Result, error)
}

// Destructive statements need to be confirmed before they are executed; Action describes
// what is about to happen.
type Destructive interface {
	Stmt
	Action() string
}

func (env *Env) invalidate(tbl string) {
	if env.Cache != nil {
		env.Cache.Invalidate(tbl)
	}
}

func storageErr(what string, err error) error {
	if _, ok := err.(*dberr.Error); ok {
		return err
	}
	return dberr.ErrStorage(what, err)
}

func (env *Env) loadSchema() (*schema.Store, error) {
	st, err := env.Gateway.LoadSchema()
	if err != nil {
		return nil, storageErr("schema", err)
	}
	return st, nil
}

func (env *Env) saveSchema(st *schema.Store) error {
	err := env.Gateway.SaveSchema(st)
	if err != nil {
		return storageErr("schema", err)
	}
	return nil
}

// lookupTable loads the schema and the records of the table named tbl.
func (env *Env) lookupTable(tbl string) (*schema.Table, []record.Record, error) {
	st, err := env.loadSchema()
	if err != nil {
		return nil, nil, err
	}
	t, err := st.Lookup(tbl)
	if err != nil {
		return nil, nil, err
	}
	recs, err := env.Gateway.LoadRecords(tbl)
	if err != nil {
		return nil, nil, storageErr("table "+tbl, err)
	}
	for _, r := range recs {
		err = t.Check(r)
		if err != nil {
			return nil, nil, dberr.ErrStorage("table "+tbl, err)
		}
	}
	return t, recs, nil
}

func (env *Env) saveRecords(tbl string, recs []record.Record) error {
	env.invalidate(tbl)
	err := env.Gateway.SaveRecords(tbl, recs)
	if err != nil {
		return storageErr("table "+tbl, err)
	}
	return nil
}

// Count returns the number of records in tbl.
func (env *Env) Count(tbl string) (int, error) {
	recs, err := env.Gateway.LoadRecords(tbl)
	if err != nil {
		return 0, storageErr("table "+tbl, err)
	}
	return len(recs), nil
}
