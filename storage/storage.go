// Package storage defines the gateway between the statements and the place the schema
// and the records of each table are kept. Every gateway stores the same JSON documents:
// one for the schema and one per table.
package storage

import (
	"encoding/json"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
)

// Gateway loads and saves whole documents. A document which does not exist loads as an
// empty schema or an empty list of records. A document which exists but can not be read
// or decoded is a StorageUnavailable error.
type Gateway interface {
	LoadSchema() (*schema.Store, error)
	SaveSchema(st *schema.Store) error
	LoadRecords(tbl string) ([]record.Record, error)
	SaveRecords(tbl string, recs []record.Record) error
	DropRecords(tbl string) error
	Close() error
}

func EncodeSchema(st *schema.Store) ([]byte, error) {
	return json.MarshalIndent(st, "", "  ")
}

func DecodeSchema(b []byte) (*schema.Store, error) {
	st := schema.NewStore()
	err := json.Unmarshal(b, st)
	if err != nil {
		return nil, dberr.ErrStorage("schema", err)
	}
	return st, nil
}

func EncodeRecords(recs []record.Record) ([]byte, error) {
	if recs == nil {
		recs = []record.Record{}
	}
	return json.MarshalIndent(recs, "", "  ")
}

func DecodeRecords(tbl string, b []byte) ([]record.Record, error) {
	var recs []record.Record
	err := json.Unmarshal(b, &recs)
	if err != nil {
		return nil, dberr.ErrStorage("table "+tbl, err)
	}
	if recs == nil {
		recs = []record.Record{}
	}
	return recs, nil
}
