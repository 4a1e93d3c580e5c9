package stmt_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/leftmike/primdb/cache"
	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/stmt"
	"github.com/leftmike/primdb/storage"
	"github.com/leftmike/primdb/storage/keyval"
	"github.com/leftmike/primdb/testutil"
	"github.com/leftmike/primdb/value"
)

func fln() testutil.FileLineNumber {
	return testutil.MakeFileLineNumber()
}

type stmtCase struct {
	fln  testutil.FileLineNumber
	stmt stmt.Stmt
	msgs []string
	cols []string
	recs []record.Record
	kind dberr.Kind
}

func testStmts(t *testing.T, env *stmt.Env, cases []stmtCase) {
	t.Helper()

	for _, c := range cases {
		res, err := c.stmt.Execute(context.Background(), env)
		if c.kind != 0 {
			if err == nil {
				t.Errorf("%s%s: did not fail", c.fln, c.stmt)
			} else if !dberr.Is(err, c.kind) {
				t.Errorf("%s%s: got %s want %s", c.fln, c.stmt, err, c.kind)
			}
			continue
		} else if err != nil {
			t.Errorf("%s%s: failed with %s", c.fln, c.stmt, err)
			continue
		}

		if !reflect.DeepEqual(res.Messages, c.msgs) {
			t.Errorf("%s%s: got %q want %q", c.fln, c.stmt, res.Messages, c.msgs)
		}
		if !reflect.DeepEqual(res.Columns, c.cols) {
			t.Errorf("%s%s: columns got %v want %v", c.fln, c.stmt, res.Columns, c.cols)
		}
		if !record.EqualAll(res.Records, c.recs) {
			t.Errorf("%s%s: records got %v want %v", c.fln, c.stmt, res.Records, c.recs)
		}
	}
}

func user(id int64, name string, age int64) record.Record {
	return record.Record{
		{Name: record.IDColumn, Value: value.Int64Value(id)},
		{Name: "name", Value: value.StringValue(name)},
		{Name: "age", Value: value.Int64Value(age)},
	}
}

func where(col string, v value.Value) engine.Clause {
	return engine.Clause{col: v}
}

func newEnv(withCache bool) *stmt.Env {
	env := &stmt.Env{
		Gateway: keyval.NewGateway(keyval.MakeBTreeKV()),
	}
	if withCache {
		env.Cache = cache.New()
	}
	return env
}

var (
	userCols   = []string{"ID", "name", "age"}
	createUser = &stmt.CreateTable{Table: "users", Columns: []string{"name:str", "age:int"}}
)

func TestTables(t *testing.T) {
	testStmts(t, newEnv(false),
		[]stmtCase{
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"No tables."}},
			{fln: fln(), stmt: createUser,
				msgs: []string{
					`Table "users" created successfully with columns: ID:int, name:str, age:int`,
				}},
			{fln: fln(), stmt: createUser, kind: dberr.TableExists},
			{fln: fln(), stmt: &stmt.CreateTable{Table: "bad", Columns: []string{"x:float"}},
				kind: dberr.InvalidColumnSpec},
			{fln: fln(), stmt: &stmt.CreateTable{Table: "orders",
				Columns: []string{"amount:int", "paid:bool"}},
				msgs: []string{
					`Table "orders" created successfully with columns: ID:int, amount:int, ` +
						`paid:bool`,
				}},
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"- users", "- orders"}},
			{fln: fln(), stmt: &stmt.Info{Table: "orders"},
				msgs: []string{
					"Table: orders",
					"Columns: ID:int, amount:int, paid:bool",
					"Record count: 0",
				}},
			{fln: fln(), stmt: &stmt.Info{Table: "ghost"}, kind: dberr.TableNotFound},
			{fln: fln(), stmt: &stmt.DropTable{Table: "ghost"}, kind: dberr.TableNotFound},
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"- users", "- orders"}},
			{fln: fln(), stmt: &stmt.DropTable{Table: "users"},
				msgs: []string{`Table "users" deleted successfully.`}},
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"- orders"}},
		})
}

func TestRecords(t *testing.T) {
	for _, withCache := range []bool{false, true} {
		testStmts(t, newEnv(withCache),
			[]stmtCase{
				{fln: fln(), stmt: createUser,
					msgs: []string{
						`Table "users" created successfully with columns: ID:int, name:str, ` +
							`age:int`,
					}},
				{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: userCols,
					msgs: []string{"No data to display."}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Sergei"), value.Int64Value(28)}},
					msgs: []string{`Record with ID=1 added successfully to table "users".`}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Ivan"), value.StringValue("40")}},
					msgs: []string{`Record with ID=2 added successfully to table "users".`}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Olga"), value.Int64Value(28)}},
					msgs: []string{`Record with ID=3 added successfully to table "users".`}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Oleg")}},
					kind: dberr.ArityMismatch},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Oleg"), value.BoolValue(true)}},
					kind: dberr.InvalidValue},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "ghost",
					Values: []value.Value{}},
					kind: dberr.TableNotFound},
				{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: userCols,
					recs: []record.Record{user(1, "Sergei", 28), user(2, "Ivan", 40),
						user(3, "Olga", 28)}},
				{fln: fln(), stmt: &stmt.Select{Table: "users",
					Where: where("age", value.Int64Value(28))}, cols: userCols,
					recs: []record.Record{user(1, "Sergei", 28), user(3, "Olga", 28)}},
				{fln: fln(), stmt: &stmt.Select{Table: "users",
					Where: where("age", value.StringValue("28"))}, cols: userCols,
					msgs: []string{"No records found."}},
				{fln: fln(), stmt: &stmt.Update{Table: "users",
					Set:   engine.Clause{"age": value.Int64Value(29), "ID": value.Int64Value(9)},
					Where: where("age", value.Int64Value(28))},
					msgs: []string{
						`Record with ID=1 in table "users" updated successfully.`,
						`Record with ID=3 in table "users" updated successfully.`,
					}},
				{fln: fln(), stmt: &stmt.Update{Table: "users",
					Set:   where("age", value.Int64Value(30)),
					Where: where("name", value.StringValue("nobody"))},
					msgs: []string{"No records found to update."}},
				{fln: fln(), stmt: &stmt.Select{Table: "users",
					Where: where("age", value.Int64Value(29))}, cols: userCols,
					recs: []record.Record{user(1, "Sergei", 29), user(3, "Olga", 29)}},
				{fln: fln(), stmt: &stmt.Delete{Table: "users",
					Where: where("ID", value.Int64Value(1))},
					msgs: []string{`Record with ID=1 deleted successfully from table "users".`}},
				{fln: fln(), stmt: &stmt.Delete{Table: "users",
					Where: where("ID", value.Int64Value(1))},
					msgs: []string{"No records found to delete."}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Pavel"), value.Int64Value(33)}},
					msgs: []string{`Record with ID=4 added successfully to table "users".`}},
				{fln: fln(), stmt: &stmt.Select{Table: "users",
					Where: where("age", value.Int64Value(29))}, cols: userCols,
					recs: []record.Record{user(3, "Olga", 29)}},
				{fln: fln(), stmt: &stmt.Info{Table: "users"},
					msgs: []string{
						"Table: users",
						"Columns: ID:int, name:str, age:int",
						"Record count: 3",
					}},
				{fln: fln(), stmt: &stmt.DropTable{Table: "users"},
					msgs: []string{`Table "users" deleted successfully.`}},
				{fln: fln(), stmt: &stmt.Select{Table: "users"}, kind: dberr.TableNotFound},
				{fln: fln(), stmt: &stmt.CreateTable{Table: "users", Columns: []string{"x:bool"}},
					msgs: []string{
						`Table "users" created successfully with columns: ID:int, x:bool`,
					}},
				{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: []string{"ID", "x"},
					msgs: []string{"No data to display."}},
				{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("TRUE")}},
					msgs: []string{`Record with ID=1 added successfully to table "users".`}},
			})
	}
}

func TestHelpExit(t *testing.T) {
	env := newEnv(false)
	res, err := (&stmt.Help{}).Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("help failed with %s", err)
	}
	if len(res.Messages) == 0 || res.Exit {
		t.Errorf("help got %+v", res)
	}

	res, err = (&stmt.Exit{}).Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("exit failed with %s", err)
	}
	if !res.Exit {
		t.Errorf("exit got %+v", res)
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		stmt stmt.Stmt
		s    string
		cmd  string
	}{
		{createUser, "create_table users name:str age:int", "create_table"},
		{&stmt.DropTable{Table: "users"}, "drop_table users", "drop_table"},
		{&stmt.ListTables{}, "list_tables", "list_tables"},
		{&stmt.InsertValues{Table: "users",
			Values: []value.Value{value.StringValue("A, B"), value.Int64Value(1),
				value.BoolValue(true)}},
			"insert into users values ('A, B', 1, true)", "insert"},
		{&stmt.Select{Table: "users"}, "select from users", "select"},
		{&stmt.Select{Table: "users", Where: where("age", value.Int64Value(28))},
			"select from users where age = 28", "select"},
		{&stmt.Update{Table: "users", Set: where("name", value.StringValue("Ivan")),
			Where: where("ID", value.Int64Value(2))},
			"update users set name = 'Ivan' where ID = 2", "update"},
		{&stmt.Delete{Table: "users", Where: where("ID", value.Int64Value(2))},
			"delete from users where ID = 2", "delete"},
		{&stmt.Info{Table: "users"}, "info users", "info"},
		{&stmt.Help{}, "help", "help"},
		{&stmt.Exit{}, "exit", "exit"},
	}

	for _, c := range cases {
		if s := c.stmt.String(); s != c.s {
			t.Errorf("String() got %q want %q", s, c.s)
		}
		if cmd := c.stmt.Command(); cmd != c.cmd {
			t.Errorf("Command(%s) got %q want %q", c.s, cmd, c.cmd)
		}
	}

	for _, s := range []stmt.Stmt{&stmt.DropTable{}, &stmt.Delete{}} {
		if _, ok := s.(stmt.Destructive); !ok {
			t.Errorf("%T is not destructive", s)
		}
	}
	for _, s := range []stmt.Stmt{&stmt.InsertValues{}, &stmt.Update{}, &stmt.Select{}} {
		if _, ok := s.(stmt.Destructive); ok {
			t.Errorf("%T is destructive", s)
		}
	}
}

type failingGateway struct {
	storage.Gateway
	saves int
}

func (fg *failingGateway) SaveRecords(tbl string, recs []record.Record) error {
	fg.saves += 1
	return errors.New("disk full")
}

func (fg *failingGateway) SaveSchema(st *schema.Store) error {
	fg.saves += 1
	return errors.New("disk full")
}

func TestStorageFailure(t *testing.T) {
	gw := keyval.NewGateway(keyval.MakeBTreeKV())
	env := &stmt.Env{Gateway: gw}
	_, err := createUser.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("%s failed with %s", createUser, err)
	}

	fg := &failingGateway{Gateway: gw}
	env = &stmt.Env{Gateway: fg}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.InsertValues{Table: "users",
				Values: []value.Value{value.StringValue("Sergei"), value.Int64Value(28)}},
				kind: dberr.StorageUnavailable},
			{fln: fln(), stmt: &stmt.CreateTable{Table: "orders", Columns: []string{"x:int"}},
				kind: dberr.StorageUnavailable},
			{fln: fln(), stmt: &stmt.Update{Table: "users",
				Set: where("age", value.Int64Value(1)), Where: where("age", value.Int64Value(28))},
				msgs: []string{"No records found to update."}},
		})
	if fg.saves != 2 {
		t.Errorf("saves got %d want 2", fg.saves)
	}

	env = &stmt.Env{Gateway: gw}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"- users"}},
			{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: userCols,
				msgs: []string{"No data to display."}},
		})
}

type dropFailingGateway struct {
	storage.Gateway
}

func (_ dropFailingGateway) DropRecords(tbl string) error {
	return errors.New("disk gone")
}

func TestDropRecordsFailure(t *testing.T) {
	env := &stmt.Env{Gateway: dropFailingGateway{keyval.NewGateway(keyval.MakeBTreeKV())}}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.CreateTable{Table: "t", Columns: []string{"a:int"}},
				kind: dberr.StorageUnavailable},
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"No tables."}},
		})

	gw := keyval.NewGateway(keyval.MakeBTreeKV())
	env = &stmt.Env{Gateway: gw}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: createUser,
				msgs: []string{
					`Table "users" created successfully with columns: ID:int, name:str, age:int`,
				}},
		})

	env = &stmt.Env{Gateway: dropFailingGateway{gw}}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.DropTable{Table: "users"},
				msgs: []string{`Table "users" deleted successfully.`}},
			{fln: fln(), stmt: &stmt.ListTables{}, msgs: []string{"No tables."}},
		})
}

// heldGateway hands out the same records on every load and fails every save.
type heldGateway struct {
	storage.Gateway
	recs []record.Record
}

func (hg *heldGateway) LoadRecords(tbl string) ([]record.Record, error) {
	return hg.recs, nil
}

func (hg *heldGateway) SaveRecords(tbl string, recs []record.Record) error {
	return errors.New("disk full")
}

func TestFailedUpdate(t *testing.T) {
	gw := keyval.NewGateway(keyval.MakeBTreeKV())
	env := &stmt.Env{Gateway: gw}
	_, err := createUser.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("%s failed with %s", createUser, err)
	}

	hg := &heldGateway{Gateway: gw, recs: []record.Record{user(1, "Sergei", 28)}}
	env = &stmt.Env{Gateway: hg}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.Update{Table: "users",
				Set: where("age", value.Int64Value(29)), Where: where("ID", value.Int64Value(1))},
				kind: dberr.StorageUnavailable},
			{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: userCols,
				recs: []record.Record{user(1, "Sergei", 28)}},
		})
}

func TestMismatchedRecords(t *testing.T) {
	gw := keyval.NewGateway(keyval.MakeBTreeKV())
	env := &stmt.Env{Gateway: gw}
	_, err := createUser.Execute(context.Background(), env)
	if err != nil {
		t.Fatalf("%s failed with %s", createUser, err)
	}

	cases := []struct {
		fln  testutil.FileLineNumber
		recs []record.Record
	}{
		{fln: fln(), recs: []record.Record{append(user(1, "Sergei", 28),
			record.Field{Name: "extra", Value: value.BoolValue(true)})}},
		{fln: fln(), recs: []record.Record{user(1, "Sergei", 28)[:2]}},
		{fln: fln(), recs: []record.Record{
			{
				{Name: record.IDColumn, Value: value.Int64Value(1)},
				{Name: "age", Value: value.Int64Value(28)},
				{Name: "name", Value: value.StringValue("Sergei")},
			},
		}},
		{fln: fln(), recs: []record.Record{
			{
				{Name: record.IDColumn, Value: value.Int64Value(1)},
				{Name: "name", Value: value.StringValue("Sergei")},
				{Name: "age", Value: value.StringValue("28")},
			},
		}},
	}

	for _, c := range cases {
		err = gw.SaveRecords("users", c.recs)
		if err != nil {
			t.Fatalf("%sSaveRecords(users) failed with %s", c.fln, err)
		}
		testStmts(t, env,
			[]stmtCase{
				{fln: c.fln, stmt: &stmt.Select{Table: "users"},
					kind: dberr.StorageUnavailable},
				{fln: c.fln, stmt: &stmt.InsertValues{Table: "users",
					Values: []value.Value{value.StringValue("Ivan"), value.Int64Value(40)}},
					kind: dberr.StorageUnavailable},
			})
	}

	err = gw.SaveRecords("users", []record.Record{user(1, "Sergei", 28)})
	if err != nil {
		t.Fatalf("SaveRecords(users) failed with %s", err)
	}
	testStmts(t, env,
		[]stmtCase{
			{fln: fln(), stmt: &stmt.Select{Table: "users"}, cols: userCols,
				recs: []record.Record{user(1, "Sergei", 28)}},
		})
}
