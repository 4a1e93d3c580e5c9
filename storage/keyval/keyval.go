// Package keyval stores the schema and table documents in a key/value store: bbolt,
// badger, pebble, or an in-memory btree.
package keyval

import (
	"io"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/storage"
)

var (
	schemaKey      = []byte("schema")
	recordsKeyBase = "records/"
)

// KV is the small part of a key/value store the gateway needs. Get returns io.EOF if the
// key is not present.
type KV interface {
	Get(key []byte, fn func(val []byte) error) error
	Set(key, val []byte) error
	Delete(key []byte) error
	Close() error
}

type gateway struct {
	kv KV
}

func NewGateway(kv KV) storage.Gateway {
	return &gateway{
		kv: kv,
	}
}

func recordsKey(tbl string) []byte {
	return []byte(recordsKeyBase + tbl)
}

// get returns a copy of the value of key, or nil if the key is not present.
func (gw *gateway) get(key []byte) ([]byte, error) {
	var buf []byte
	err := gw.kv.Get(key,
		func(val []byte) error {
			buf = append(make([]byte, 0, len(val)), val...)
			return nil
		})
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, dberr.ErrStorage(string(key), err)
	}
	return buf, nil
}

func (gw *gateway) LoadSchema() (*schema.Store, error) {
	b, err := gw.get(schemaKey)
	if err != nil {
		return nil, err
	} else if b == nil {
		return schema.NewStore(), nil
	}
	return storage.DecodeSchema(b)
}

func (gw *gateway) SaveSchema(st *schema.Store) error {
	b, err := storage.EncodeSchema(st)
	if err != nil {
		return err
	}
	return gw.kv.Set(schemaKey, b)
}

func (gw *gateway) LoadRecords(tbl string) ([]record.Record, error) {
	b, err := gw.get(recordsKey(tbl))
	if err != nil {
		return nil, err
	} else if b == nil {
		return []record.Record{}, nil
	}
	return storage.DecodeRecords(tbl, b)
}

func (gw *gateway) SaveRecords(tbl string, recs []record.Record) error {
	b, err := storage.EncodeRecords(recs)
	if err != nil {
		return err
	}
	return gw.kv.Set(recordsKey(tbl), b)
}

func (gw *gateway) DropRecords(tbl string) error {
	return gw.kv.Delete(recordsKey(tbl))
}

func (gw *gateway) Close() error {
	return gw.kv.Close()
}
