package dbz

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by every operation on a DB whose
	// connection could not be opened
	ErrNotConnected = errors.New("not connected to database")

	// ErrNoColumns is returned by Insert and Update when none of the
	// provided fields is a column of the table
	ErrNoColumns = errors.New("no fields match the table's columns")

	// ErrEmptyWhere is returned by Update and Delete when the WHERE clause
	// is empty
	ErrEmptyWhere = errors.New("where clause is empty")

	// ErrInvalidDSN is returned by Open when the DSN has no driver prefix
	ErrInvalidDSN = errors.New("invalid DSN")

	// ErrUnsupportedDriver is returned by Open for unknown DSN prefixes
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

// StatementError is the error of a statement the database failed to
// execute
type StatementError struct {
	SQL string
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("failed executing %q: %s", e.SQL, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}
