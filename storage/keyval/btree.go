package keyval

import (
	"bytes"
	"io"

	"github.com/google/btree"
)

type btreeKV struct {
	tree *btree.BTree
}

type btreeItem struct {
	key []byte
	val []byte
}

func (bi btreeItem) Less(item btree.Item) bool {
	return bytes.Compare(bi.key, item.(btreeItem).key) < 0
}

// MakeBTreeKV returns a KV which lives only in memory.
func MakeBTreeKV() KV {
	return &btreeKV{
		tree: btree.New(16),
	}
}

func (bkv *btreeKV) Get(key []byte, fn func(val []byte) error) error {
	item := bkv.tree.Get(btreeItem{key: key})
	if item == nil {
		return io.EOF
	}
	return fn(item.(btreeItem).val)
}

func (bkv *btreeKV) Set(key, val []byte) error {
	bkv.tree.ReplaceOrInsert(btreeItem{
		key: append(make([]byte, 0, len(key)), key...),
		val: append(make([]byte, 0, len(val)), val...),
	})
	return nil
}

func (bkv *btreeKV) Delete(key []byte) error {
	bkv.tree.Delete(btreeItem{key: key})
	return nil
}

func (_ *btreeKV) Close() error {
	return nil
}
