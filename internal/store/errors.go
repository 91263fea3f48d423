package store

import "errors"

// ErrNotFound is returned by operations that address a single row which
// does not exist. Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

// DataAccessError wraps a driver or constraint failure with the operation
// that produced it.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func dataErr(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}
