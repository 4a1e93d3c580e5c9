// Package jsonfile keeps the schema in a single JSON file and the records of each table
// in <data directory>/<table>.json.
package jsonfile

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/leftmike/primdb/dberr"
	"github.com/leftmike/primdb/record"
	"github.com/leftmike/primdb/schema"
	"github.com/leftmike/primdb/storage"
)

const (
	MetadataFile = "db_meta.json"
	DataDir      = "data"
)

type gateway struct {
	metadataFile string
	dataDir      string
}

func NewGateway(metadataFile, dataDir string) storage.Gateway {
	return &gateway{
		metadataFile: metadataFile,
		dataDir:      dataDir,
	}
}

func (gw *gateway) tablePath(tbl string) string {
	return filepath.Join(gw.dataDir, tbl+".json")
}

func readFile(path string) ([]byte, bool, error) {
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, dberr.ErrStorage(path, err)
	}
	return b, true, nil
}

// writeFile replaces path with a new file containing b, so that a failed write never
// leaves a partial document behind.
func writeFile(path string, b []byte) error {
	dir := filepath.Dir(path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("jsonfile: %s", err)
	}

	f, err := ioutil.TempFile(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("jsonfile: %s", err)
	}
	_, err = f.Write(append(b, '\n'))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("jsonfile: %s: %s", path, err)
	}

	err = os.Rename(f.Name(), path)
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("jsonfile: %s", err)
	}
	return nil
}

func (gw *gateway) LoadSchema() (*schema.Store, error) {
	b, ok, err := readFile(gw.metadataFile)
	if err != nil {
		return nil, err
	} else if !ok {
		log.WithField("file", gw.metadataFile).Debug("jsonfile: no schema file")
		return schema.NewStore(), nil
	}
	return storage.DecodeSchema(b)
}

func (gw *gateway) SaveSchema(st *schema.Store) error {
	b, err := storage.EncodeSchema(st)
	if err != nil {
		return err
	}
	return writeFile(gw.metadataFile, b)
}

func (gw *gateway) LoadRecords(tbl string) ([]record.Record, error) {
	b, ok, err := readFile(gw.tablePath(tbl))
	if err != nil {
		return nil, err
	} else if !ok {
		return []record.Record{}, nil
	}
	return storage.DecodeRecords(tbl, b)
}

func (gw *gateway) SaveRecords(tbl string, recs []record.Record) error {
	b, err := storage.EncodeRecords(recs)
	if err != nil {
		return err
	}
	return writeFile(gw.tablePath(tbl), b)
}

func (gw *gateway) DropRecords(tbl string) error {
	err := os.Remove(gw.tablePath(tbl))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("jsonfile: %s", err)
	}
	return nil
}

func (_ *gateway) Close() error {
	return nil
}
