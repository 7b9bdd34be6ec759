package roi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn indicates a record lacks a required column.
	ErrMissingColumn = errors.New("required column is missing")

	// ErrUnknownClass indicates a record's outcome class has no cost multiplier.
	ErrUnknownClass = errors.New("no cost multiplier for outcome class")

	// ErrInvalidAmount indicates the amount column is not numeric.
	ErrInvalidAmount = errors.New("amount is not numeric")
)

// DataError reports a record that cannot be aggregated. Index is the
// zero-based position of the record in the batch.
type DataError struct {
	Index int
	Field string
	Err   error
}

func (e *DataError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("data: record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("data: record %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
