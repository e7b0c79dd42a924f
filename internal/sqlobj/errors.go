package sqlobj

import (
	"errors"
	"fmt"
)

var (
	// ErrNilModel is returned when a nil table is supplied where one is required.
	ErrNilModel = errors.New("model may not be nil")
	// ErrInvalidColumn means the column cannot be added as given (nil, unnamed).
	ErrInvalidColumn = errors.New("invalid column")
	// ErrDuplicateColumn means the table already has a column with that name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrIncompatibleKey means the source table's primary key cannot be merged.
	ErrIncompatibleKey = errors.New("incompatible primary key")
	// ErrSelfInherit means a table was asked to inherit from itself.
	ErrSelfInherit = errors.New("table cannot inherit from itself")
	// ErrIndexOutOfRange is returned for column positions outside the table.
	ErrIndexOutOfRange = errors.New("column index out of range")
)

// ModelError reports a rejected model operation.
type ModelError struct {
	Op     string // "addColumn", "inherit", ...
	Object string // name of the object involved
	Err    error
}

func (e *ModelError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Object, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func modelErr(op, object string, err error) error {
	return &ModelError{Op: op, Object: object, Err: err}
}
