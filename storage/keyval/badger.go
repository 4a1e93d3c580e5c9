package keyval

import (
	"io"
	"os"

	"github.com/dgraph-io/badger"
	log "github.com/sirupsen/logrus"
)

type badgerKV struct {
	db *badger.DB
}

func MakeBadgerKV(dataDir string, logger *log.Logger) (KV, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dataDir)
	opts = opts.WithLogger(logger)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerKV{
		db: db,
	}, nil
}

func (bkv *badgerKV) Get(key []byte, fn func(val []byte) error) error {
	return bkv.db.View(
		func(tx *badger.Txn) error {
			item, err := tx.Get(key)
			if err == badger.ErrKeyNotFound {
				return io.EOF
			} else if err != nil {
				return err
			}
			return item.Value(fn)
		})
}

func (bkv *badgerKV) Set(key, val []byte) error {
	return bkv.db.Update(
		func(tx *badger.Txn) error {
			return tx.Set(key, val)
		})
}

func (bkv *badgerKV) Delete(key []byte) error {
	return bkv.db.Update(
		func(tx *badger.Txn) error {
			return tx.Delete(key)
		})
}

func (bkv *badgerKV) Close() error {
	return bkv.db.Close()
}
