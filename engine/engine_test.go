package engine_test

import (
	"reflect"
	"testing"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/engine"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/value"
)

func ordersTable(t *testing.T) *schema.Table {
	t.Helper()

	tbl, err := schema.NewStore().CreateTable("orders",
		[]string{"name:str", "age:int", "vip:bool"})
	if err != nil {
		t.Fatalf("CreateTable(orders) failed with %s", err)
	}
	return tbl
}

func insert(t *testing.T, tbl *schema.Table, recs []record.Record, name string,
	age int64) ([]record.Record, int64) {

	t.Helper()

	recs, id, err := engine.Insert(tbl, recs,
		[]value.Value{value.StringValue(name), value.Int64Value(age), value.BoolValue(false)})
	if err != nil {
		t.Fatalf("Insert(%s, %d) failed with %s", name, age, err)
	}
	return recs, id
}

func ids(recs []record.Record) []int64 {
	var ids []int64
	for _, r := range recs {
		ids = append(ids, r.ID())
	}
	return ids
}

func TestInsert(t *testing.T) {
	tbl := ordersTable(t)

	recs, id, err := engine.Insert(tbl, nil,
		[]value.Value{value.StringValue("Sergei"), value.Int64Value(28), value.StringValue("1")})
	if err != nil {
		t.Fatalf("Insert() failed with %s", err)
	}
	if id != 1 {
		t.Errorf("Insert() got ID %d want 1", id)
	}
	want := record.Record{
		{Name: "ID", Value: value.Int64Value(1)},
		{Name: "name", Value: value.StringValue("Sergei")},
		{Name: "age", Value: value.Int64Value(28)},
		{Name: "vip", Value: value.BoolValue(true)},
	}
	if len(recs) != 1 || !record.Equal(recs[0], want) {
		t.Errorf("Insert() got %v want %s", recs, want)
	}

	cases := []struct {
		vals []value.Value
		kind dberr.Kind
	}{
		{[]value.Value{value.StringValue("Ivan"), value.Int64Value(30)}, dberr.ArityMismatch},
		{[]value.Value{}, dberr.ArityMismatch},
		{[]value.Value{value.StringValue("Ivan"), value.StringValue("old"), value.BoolValue(true)},
			dberr.InvalidValue},
		{[]value.Value{value.StringValue("Ivan"), value.Int64Value(30), value.StringValue("maybe")},
			dberr.InvalidValue},
		{[]value.Value{value.StringValue("Ivan"), value.BoolValue(true), value.BoolValue(true)},
			dberr.InvalidValue},
	}

	for _, c := range cases {
		nrecs, _, err := engine.Insert(tbl, recs, c.vals)
		if !dberr.Is(err, c.kind) {
			t.Errorf("Insert(%v) got %v want %s", c.vals, err, c.kind)
		}
		if len(nrecs) != 1 {
			t.Errorf("Insert(%v) failed but changed the records: %v", c.vals, nrecs)
		}
	}
}

func TestInsertIDs(t *testing.T) {
	tbl := ordersTable(t)

	var recs []record.Record
	for i, name := range []string{"a", "b", "c", "d"} {
		var id int64
		recs, id = insert(t, tbl, recs, name, 20)
		if id != int64(i+1) {
			t.Errorf("Insert(%s) got ID %d want %d", name, id, i+1)
		}
	}

	recs, _ = engine.Delete(recs, engine.Clause{"ID": value.Int64Value(2)})
	recs, id := insert(t, tbl, recs, "e", 20)
	if id != 5 {
		t.Errorf("Insert() after deleting ID 2 got ID %d want 5", id)
	}

	recs, _ = engine.Delete(recs, engine.Clause{"ID": value.Int64Value(5)})
	recs, id = insert(t, tbl, recs, "f", 20)
	if id != 5 {
		t.Errorf("Insert() after deleting max ID got ID %d want 5", id)
	}

	recs, _ = engine.Delete(recs, engine.Clause{"age": value.Int64Value(20)})
	if len(recs) != 0 {
		t.Fatalf("Delete(all) left %v", recs)
	}
	_, id = insert(t, tbl, recs, "g", 20)
	if id != 1 {
		t.Errorf("Insert() into emptied table got ID %d want 1", id)
	}
}

func TestSelect(t *testing.T) {
	tbl := ordersTable(t)
	var recs []record.Record
	recs, _ = insert(t, tbl, recs, "Sergei", 28)
	recs, _ = insert(t, tbl, recs, "Ivan", 30)
	recs, _ = insert(t, tbl, recs, "Olga", 28)

	cases := []struct {
		where engine.Clause
		ids   []int64
	}{
		{nil, []int64{1, 2, 3}},
		{engine.Clause{}, []int64{1, 2, 3}},
		{engine.Clause{"age": value.Int64Value(28)}, []int64{1, 3}},
		{engine.Clause{"age": value.StringValue("28")}, nil},
		{engine.Clause{"name": value.StringValue("Ivan")}, []int64{2}},
		{engine.Clause{"name": value.StringValue("ivan")}, nil},
		{engine.Clause{"name": value.StringValue("Iva")}, nil},
		{engine.Clause{"height": value.Int64Value(28)}, nil},
		{engine.Clause{"age": value.Int64Value(28), "name": value.StringValue("Olga")},
			[]int64{3}},
	}

	for _, c := range cases {
		sel := engine.Select(recs, c.where)
		if got := ids(sel); !reflect.DeepEqual(got, c.ids) {
			t.Errorf("Select(%s) got %v want %v", c.where, got, c.ids)
		}
	}

	sel := engine.Select(recs, nil)
	sel[0].Set("name", value.StringValue("changed"))
	if v, _ := recs[0].Get("name"); !value.Equal(v, value.StringValue("Sergei")) {
		t.Errorf("changing a selected record changed the table: %s", recs[0])
	}
}

func TestUpdate(t *testing.T) {
	tbl := ordersTable(t)
	var recs []record.Record
	recs, _ = insert(t, tbl, recs, "Sergei", 28)
	recs, _ = insert(t, tbl, recs, "Ivan", 30)
	recs, _ = insert(t, tbl, recs, "Olga", 28)

	got := engine.Update(recs, engine.Clause{"age": value.Int64Value(29)},
		engine.Clause{"age": value.Int64Value(28)})
	if !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("Update(age = 29) got %v want [1 3]", got)
	}
	if sel := engine.Select(recs, engine.Clause{"age": value.Int64Value(29)}); len(sel) != 2 {
		t.Errorf("Select(age = 29) after Update() got %v", sel)
	}

	got = engine.Update(recs,
		engine.Clause{"ID": value.Int64Value(10), "name": value.StringValue("Ivan I")},
		engine.Clause{"ID": value.Int64Value(2)})
	if !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("Update(ID = 10, name) got %v want [2]", got)
	}
	if recs[1].ID() != 2 {
		t.Errorf("Update() changed ID: %s", recs[1])
	}

	got = engine.Update(recs, engine.Clause{"ID": value.Int64Value(10)},
		engine.Clause{"ID": value.Int64Value(2)})
	if len(got) != 0 {
		t.Errorf("Update(ID = 10) got %v want none", got)
	}

	got = engine.Update(recs, engine.Clause{"missing": value.Int64Value(1)}, nil)
	if len(got) != 0 {
		t.Errorf("Update(missing = 1) got %v want none", got)
	}

	got = engine.Update(recs, engine.Clause{"age": value.Int64Value(1)},
		engine.Clause{"name": value.StringValue("Nobody")})
	if len(got) != 0 {
		t.Errorf("Update(where name = Nobody) got %v want none", got)
	}
}

func TestDelete(t *testing.T) {
	tbl := ordersTable(t)
	var recs []record.Record
	recs, _ = insert(t, tbl, recs, "Sergei", 28)
	recs, _ = insert(t, tbl, recs, "Ivan", 30)
	recs, _ = insert(t, tbl, recs, "Olga", 28)

	kept, removed := engine.Delete(recs, engine.Clause{"age": value.StringValue("28")})
	if len(removed) != 0 || len(kept) != 3 {
		t.Errorf("Delete(age = '28') got %v, %v", ids(kept), removed)
	}

	kept, removed = engine.Delete(recs, engine.Clause{"age": value.Int64Value(28)})
	if !reflect.DeepEqual(removed, []int64{1, 3}) || !reflect.DeepEqual(ids(kept), []int64{2}) {
		t.Errorf("Delete(age = 28) got %v, %v", ids(kept), removed)
	}
}

func TestClauseString(t *testing.T) {
	c := engine.Clause{"name": value.StringValue("Ivan"), "age": value.Int64Value(3)}
	if s := c.String(); s != "age = 3, name = 'Ivan'" {
		t.Errorf("Clause.String() got %q", s)
	}
}
