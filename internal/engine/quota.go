package engine

import (
	"errors"
	"fmt"
)

// RowQuota counts the rows a query has returned and stops it once the
// limit is passed. Each query gets its own RowQuota.
//
// A limit of zero or less disables the check.
type RowQuota struct {
	maxRows int
	current int
}

// NewRowQuota creates a quota allowing maxRows result rows.
func NewRowQuota(maxRows int) *RowQuota {
	return &RowQuota{maxRows: maxRows}
}

// Check counts one more row and fails when the quota is exceeded.
func (q *RowQuota) Check(queryID string) error {
	q.current++
	if q.maxRows > 0 && q.current > q.maxRows {
		return &RowsExceededError{
			QueryID: queryID,
			Rows:    q.current,
			Limit:   q.maxRows,
		}
	}
	return nil
}

// Current returns the number of rows counted so far.
func (q *RowQuota) Current() int {
	return q.current
}

// MaxRows returns the configured limit.
func (q *RowQuota) MaxRows() int {
	return q.maxRows
}

// RowsExceededError is returned when a query produces more rows than its
// quota allows. The query stops and its operator tree is closed.
type RowsExceededError struct {
	QueryID string
	Rows    int
	Limit   int
}

// Error implements the error interface.
func (e *RowsExceededError) Error() string {
	return fmt.Sprintf("query %s exceeded max result rows: %d rows > %d limit",
		e.QueryID, e.Rows, e.Limit)
}

// IsRowsExceededError reports whether err is or wraps a RowsExceededError.
func IsRowsExceededError(err error) bool {
	var re *RowsExceededError
	return errors.As(err, &re)
}
