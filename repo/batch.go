package repo

import "fmt"

// BatchError reports the item of a BatchInsert that failed. Index is the
// zero-based position in the params slice. Items before Index were written
// on the same Querier; whether they persist depends on the caller's
// transaction.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch item %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
