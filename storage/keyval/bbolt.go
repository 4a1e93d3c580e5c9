package keyval

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	primdbBucket = []byte{'p', 'r', 'i', 'm', 'd', 'b'}
)

type bboltKV struct {
	db *bbolt.DB
}

func MakeBBoltKV(dataDir string) (KV, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}

	db, err := bbolt.Open(filepath.Join(dataDir, "primdb.bbolt"), 0644, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(
		func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(primdbBucket)
			return err
		})
	if err != nil {
		db.Close()
		return nil, err
	}

	return bboltKV{
		db: db,
	}, nil
}

func bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bkt := tx.Bucket(primdbBucket)
	if bkt == nil {
		return nil, errors.New("bbolt: missing primdb bucket")
	}
	return bkt, nil
}

func (bkv bboltKV) Get(key []byte, fn func(val []byte) error) error {
	return bkv.db.View(
		func(tx *bbolt.Tx) error {
			bkt, err := bucket(tx)
			if err != nil {
				return err
			}
			val := bkt.Get(key)
			if val == nil {
				return io.EOF
			}
			return fn(val)
		})
}

func (bkv bboltKV) Set(key, val []byte) error {
	return bkv.db.Update(
		func(tx *bbolt.Tx) error {
			bkt, err := bucket(tx)
			if err != nil {
				return err
			}
			return bkt.Put(key, val)
		})
}

func (bkv bboltKV) Delete(key []byte) error {
	return bkv.db.Update(
		func(tx *bbolt.Tx) error {
			bkt, err := bucket(tx)
			if err != nil {
				return err
			}
			return bkt.Delete(key)
		})
}

func (bkv bboltKV) Close() error {
	return bkv.db.Close()
}
