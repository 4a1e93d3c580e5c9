package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
)

// CleanDir empties dirname, creating it if necessary, but leaves the entries named in
// keeps alone.
func CleanDir(dirname string, keeps ...string) error {
	err := os.MkdirAll(dirname, 0755)
	if err != nil {
		return err
	}

	fis, err := ioutil.ReadDir(dirname)
	if err != nil {
		return err
	}

	skip := map[string]bool{}
	for _, k := range keeps {
		skip[k] = true
	}
	for _, fi := range fis {
		if skip[fi.Name()] {
			continue
		}
		err = os.RemoveAll(filepath.Join(dirname, fi.Name()))
		if err != nil {
			return err
		}
	}
	return nil
}
