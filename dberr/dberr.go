// Package dberr defines the user visible failures of primdb. Every failure carries a Kind
// so that callers can decide how to report it; all of them are recovered by the executor.
package dberr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	TableExists Kind = iota + 1
	TableNotFound
	InvalidColumnSpec
	ArityMismatch
	InvalidValue
	UnparseableClause
	StorageUnavailable
	InvalidCommand
)

func (k Kind) String() string {
	switch k {
	case TableExists:
		return "TableExists"
	case TableNotFound:
		return "TableNotFound"
	case InvalidColumnSpec:
		return "InvalidColumnSpec"
	case ArityMismatch:
		return "ArityMismatch"
	case InvalidValue:
		return "InvalidValue"
	case UnparseableClause:
		return "UnparseableClause"
	case StorageUnavailable:
		return "StorageUnavailable"
	case InvalidCommand:
		return "InvalidCommand"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Error struct {
	Kind Kind
	msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.Err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func ErrTableExists(tbl string) error {
	return New(TableExists, "table \"%s\" already exists", tbl)
}

func ErrTableNotFound(tbl string) error {
	return New(TableNotFound, "table \"%s\" does not exist", tbl)
}

func ErrInvalidColumnSpec(spec string) error {
	return New(InvalidColumnSpec, "invalid column specification \"%s\"; want name:int, name:str, or name:bool",
		spec)
}

func ErrArityMismatch(want, got int) error {
	return New(ArityMismatch, "expected %d values, got %d", want, got)
}

func ErrInvalidValue(val, col, typ string) error {
	return New(InvalidValue, "invalid value '%s' for column '%s' of type '%s'", val, col, typ)
}

func ErrUnparseableClause(s string) error {
	return New(UnparseableClause, "unparseable clause \"%s\"; want column = value", s)
}

func ErrStorage(what string, err error) error {
	return &Error{Kind: StorageUnavailable, msg: fmt.Sprintf("storage unavailable: %s", what), Err: err}
}

func ErrUsage(usage string) error {
	return New(InvalidCommand, "usage: %s", usage)
}
