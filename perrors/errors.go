// Package perrors defines the typed error taxonomy surfaced across the
// storage core. Every failure that crosses a public API boundary is a
// StorageError carrying one of the ErrorCode values below, so callers can
// switch on the kind of failure instead of parsing messages.
package perrors

import (
	"fmt"

	gerrors "github.com/pkg/errors"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	OutOfBounds
	UnknownColumn
	UnknownTable
	UnknownType
	DuplicateColumn
	DuplicateTable
	DuplicateSegment
	SchemaFrozen
	NullInNonNullable
	TypeMismatch
	FrozenSegment
	UnsupportedSegment
	RecursiveReference
	AttributeWidthOverflow
)

var codeNames = map[ErrorCode]string{
	InternalError:          "InternalError",
	OutOfBounds:            "OutOfBounds",
	UnknownColumn:          "UnknownColumn",
	UnknownTable:           "UnknownTable",
	UnknownType:            "UnknownType",
	DuplicateColumn:        "DuplicateColumn",
	DuplicateTable:         "DuplicateTable",
	DuplicateSegment:       "DuplicateSegment",
	SchemaFrozen:           "SchemaFrozen",
	NullInNonNullable:      "NullInNonNullable",
	TypeMismatch:           "TypeMismatch",
	FrozenSegment:          "FrozenSegment",
	UnsupportedSegment:     "UnsupportedSegment",
	RecursiveReference:     "RecursiveReference",
	AttributeWidthOverflow: "AttributeWidthOverflow",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// StorageError is any error produced by the storage core that callers
// outside it need to recognize - it carries a stable Code alongside a
// human-readable message.
type StorageError struct {
	Code ErrorCode
	Msg  string
}

func (e StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func NewErrorf(code ErrorCode, format string, args ...interface{}) StorageError {
	return StorageError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func NewError(code ErrorCode, msg string) StorageError {
	return StorageError{Code: code, Msg: msg}
}

// Is reports whether err is a StorageError carrying the given code.
func Is(err error, code ErrorCode) bool {
	var se StorageError
	if gerrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// MaybeAddStack attaches a stack trace to errors that did not originate as
// a StorageError, so unexpected internal failures keep their provenance.
func MaybeAddStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(StorageError); ok {
		return err
	}
	return gerrors.WithStack(err)
}
