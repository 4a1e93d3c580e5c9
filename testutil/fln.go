package testutil

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// FileLineNumber marks an entry in a table of test cases so that a failure points back
// at the entry rather than at the loop which ran it.
type FileLineNumber struct {
	File string
	Line int
}

func (fln FileLineNumber) String() string {
	if fln.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d: ", filepath.Base(fln.File), fln.Line)
}

// MakeFileLineNumber returns the location of the caller of its caller; test packages
// wrap it in a small fln function.
func MakeFileLineNumber() FileLineNumber {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return FileLineNumber{}
	}
	return FileLineNumber{File: file, Line: line}
}
