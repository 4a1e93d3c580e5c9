// Package test checks that a storage.Gateway keeps documents the way every gateway must.
package test

import (
	"reflect"
	"testing"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/storage"
	"github.com/leftmike/primdb/testutil"
	"github.com/leftmike/primdb/value"
)

const (
	cmdCreateTable = iota
	cmdDropTable
	cmdSaveSchema
	cmdLoadSchema
	cmdSaveRecords
	cmdLoadRecords
	cmdDropRecords
)

func fln() testutil.FileLineNumber {
	return testutil.MakeFileLineNumber()
}

type gatewayCmd struct {
	fln   testutil.FileLineNumber
	cmd   int
	name  string          // Name of the table
	specs []string        // Column specs (cmdCreateTable)
	list  []string        // Expected table names (cmdLoadSchema)
	cols  string          // Expected columns of name (cmdLoadSchema)
	recs  []record.Record // Records to save or expected records
	fail  bool
}

func rec(id int64, name string, age int64, active bool) record.Record {
	return record.Record{
		{Name: record.IDColumn, Value: value.Int64Value(id)},
		{Name: "name", Value: value.StringValue(name)},
		{Name: "age", Value: value.Int64Value(age)},
		{Name: "active", Value: value.BoolValue(active)},
	}
}

func tableNames(st *schema.Store) []string {
	names := []string{}
	st.ListTables(
		func(name string) bool {
			names = append(names, name)
			return true
		})
	return names
}

func testGatewayCmds(t *testing.T, gw storage.Gateway, cmds []gatewayCmd) {
	t.Helper()

	st := schema.NewStore()
	for _, cmd := range cmds {
		switch cmd.cmd {
		case cmdCreateTable:
			_, err := st.CreateTable(cmd.name, cmd.specs)
			if err != nil {
				t.Fatalf("%sCreateTable(%s) failed with %s", cmd.fln, cmd.name, err)
			}
		case cmdDropTable:
			err := st.DropTable(cmd.name)
			if err != nil {
				t.Fatalf("%sDropTable(%s) failed with %s", cmd.fln, cmd.name, err)
			}
		case cmdSaveSchema:
			err := gw.SaveSchema(st)
			if err != nil {
				t.Errorf("%sSaveSchema() failed with %s", cmd.fln, err)
			}
		case cmdLoadSchema:
			lst, err := gw.LoadSchema()
			if err != nil {
				t.Errorf("%sLoadSchema() failed with %s", cmd.fln, err)
				continue
			}
			if names := tableNames(lst); !reflect.DeepEqual(names, cmd.list) {
				t.Errorf("%sLoadSchema() got %v want %v", cmd.fln, names, cmd.list)
			}
			if cmd.name != "" {
				tbl, err := lst.Lookup(cmd.name)
				if err != nil {
					t.Errorf("%sLookup(%s) failed with %s", cmd.fln, cmd.name, err)
				} else if tbl.ColumnsString() != cmd.cols {
					t.Errorf("%sLookup(%s) got %s want %s", cmd.fln, cmd.name,
						tbl.ColumnsString(), cmd.cols)
				}
			}
		case cmdSaveRecords:
			err := gw.SaveRecords(cmd.name, cmd.recs)
			if err != nil {
				t.Errorf("%sSaveRecords(%s) failed with %s", cmd.fln, cmd.name, err)
			}
		case cmdLoadRecords:
			recs, err := gw.LoadRecords(cmd.name)
			if cmd.fail {
				if err == nil {
					t.Errorf("%sLoadRecords(%s) did not fail", cmd.fln, cmd.name)
				}
				continue
			} else if err != nil {
				t.Errorf("%sLoadRecords(%s) failed with %s", cmd.fln, cmd.name, err)
				continue
			}
			if recs == nil {
				t.Errorf("%sLoadRecords(%s) got nil", cmd.fln, cmd.name)
			}
			if !record.EqualAll(recs, cmd.recs) {
				t.Errorf("%sLoadRecords(%s) got %v want %v", cmd.fln, cmd.name, recs,
					cmd.recs)
			}
		case cmdDropRecords:
			err := gw.DropRecords(cmd.name)
			if err != nil {
				t.Errorf("%sDropRecords(%s) failed with %s", cmd.fln, cmd.name, err)
			}
		default:
			panic("unexpected command")
		}
	}
}

// RunGatewayTest runs the checks every gateway must pass. gw must start out empty.
func RunGatewayTest(t *testing.T, gw storage.Gateway) {
	t.Helper()

	testGatewayCmds(t, gw,
		[]gatewayCmd{
			{fln: fln(), cmd: cmdLoadSchema, list: []string{}},
			{fln: fln(), cmd: cmdLoadRecords, name: "users", recs: []record.Record{}},
			{fln: fln(), cmd: cmdDropRecords, name: "users"},

			{fln: fln(), cmd: cmdCreateTable, name: "users",
				specs: []string{"name:str", "age:int", "active:bool"}},
			{fln: fln(), cmd: cmdCreateTable, name: "orders", specs: []string{"amount:int"}},
			{fln: fln(), cmd: cmdSaveSchema},
			{fln: fln(), cmd: cmdLoadSchema, list: []string{"users", "orders"}, name: "users",
				cols: "ID:int, name:str, age:int, active:bool"},

			{fln: fln(), cmd: cmdSaveRecords, name: "users",
				recs: []record.Record{
					rec(1, "Sergei", 28, true),
					rec(2, "A, \"B\"", -7, false),
					rec(5, "", 0, true),
				}},
			{fln: fln(), cmd: cmdLoadRecords, name: "users",
				recs: []record.Record{
					rec(1, "Sergei", 28, true),
					rec(2, "A, \"B\"", -7, false),
					rec(5, "", 0, true),
				}},
			{fln: fln(), cmd: cmdLoadRecords, name: "orders", recs: []record.Record{}},

			{fln: fln(), cmd: cmdSaveRecords, name: "users",
				recs: []record.Record{rec(5, "Ivan", 40, false)}},
			{fln: fln(), cmd: cmdLoadRecords, name: "users",
				recs: []record.Record{rec(5, "Ivan", 40, false)}},
			{fln: fln(), cmd: cmdSaveRecords, name: "users", recs: nil},
			{fln: fln(), cmd: cmdLoadRecords, name: "users", recs: []record.Record{}},

			{fln: fln(), cmd: cmdSaveRecords, name: "users",
				recs: []record.Record{rec(1, "Sergei", 28, true)}},
			{fln: fln(), cmd: cmdDropTable, name: "users"},
			{fln: fln(), cmd: cmdSaveSchema},
			{fln: fln(), cmd: cmdDropRecords, name: "users"},
			{fln: fln(), cmd: cmdLoadSchema, list: []string{"orders"}},
			{fln: fln(), cmd: cmdLoadRecords, name: "users", recs: []record.Record{}},

			{fln: fln(), cmd: cmdCreateTable, name: "users", specs: []string{"title:str"}},
			{fln: fln(), cmd: cmdSaveSchema},
			{fln: fln(), cmd: cmdLoadSchema, list: []string{"orders", "users"}, name: "users",
				cols: "ID:int, title:str"},
		})
}

// RunCorruptTest saves records for a table, calls corrupt to damage the stored document,
// and checks that loading the table reports StorageUnavailable instead of empty records.
func RunCorruptTest(t *testing.T, gw storage.Gateway, corrupt func(tbl string) error) {
	t.Helper()

	testGatewayCmds(t, gw,
		[]gatewayCmd{
			{fln: fln(), cmd: cmdSaveRecords, name: "broken",
				recs: []record.Record{rec(1, "Sergei", 28, true)}},
		})

	err := corrupt("broken")
	if err != nil {
		t.Fatalf("corrupt(broken) failed with %s", err)
	}

	_, err = gw.LoadRecords("broken")
	if err == nil {
		t.Errorf("LoadRecords(broken) did not fail")
	} else if !dberr.Is(err, dberr.StorageUnavailable) {
		t.Errorf("LoadRecords(broken) got %s want StorageUnavailable", err)
	}
}
