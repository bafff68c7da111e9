package dataset

import "errors"

var (
	// ErrInvalidHeader is returned when the dimension line is missing or is
	// not a positive multiple of 8.
	ErrInvalidHeader = errors.New("dataset: invalid signature header")

	// ErrTruncatedRecord is returned when the file ends inside a record.
	ErrTruncatedRecord = errors.New("dataset: truncated signature record")

	// ErrIdentifierCount is returned when the identifier file does not match
	// the number of records.
	ErrIdentifierCount = errors.New("dataset: identifier count does not match records")

	// ErrDimensionMismatch is returned when writing signatures of mixed dimension.
	ErrDimensionMismatch = errors.New("dataset: signature dimension mismatch")

	// ErrLengthMismatch is returned when output columns differ in length.
	ErrLengthMismatch = errors.New("dataset: column length mismatch")
)
