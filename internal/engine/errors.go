package engine

import (
	"errors"
	"fmt"
)

// QueryError reports the stage a query failed in.
//
// Err keeps the underlying error (a *parser.Error, a planner sentinel, an
// *operator.Failure or a *RowsExceededError), so errors.As still reaches it.
type QueryError struct {
	// Code identifies the stage.
	Code QueryErrorCode

	// QueryID identifies the failed query.
	QueryID string

	// Err is the cause.
	Err error
}

// QueryErrorCode categorizes query errors.
type QueryErrorCode string

const (
	// ErrCodeParse indicates the SQL text could not be parsed.
	ErrCodeParse QueryErrorCode = "PARSE_ERROR"

	// ErrCodePlan indicates no operator tree could be built.
	ErrCodePlan QueryErrorCode = "PLAN_ERROR"

	// ErrCodeExecution indicates an operator failed while running.
	ErrCodeExecution QueryErrorCode = "EXECUTION_ERROR"

	// ErrCodeQuotaExceeded indicates the result row quota was hit.
	ErrCodeQuotaExceeded QueryErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.QueryID != "" {
		return fmt.Sprintf("%s: %v (query=%s)", e.Code, e.Err, e.QueryID)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the cause.
func (e *QueryError) Unwrap() error {
	return e.Err
}

func newQueryError(code QueryErrorCode, queryID string, err error) *QueryError {
	return &QueryError{Code: code, QueryID: queryID, Err: err}
}

func hasCode(err error, code QueryErrorCode) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// IsParseError reports whether err is a parse-stage QueryError.
func IsParseError(err error) bool {
	return hasCode(err, ErrCodeParse)
}

// IsPlanError reports whether err is a plan-stage QueryError.
func IsPlanError(err error) bool {
	return hasCode(err, ErrCodePlan)
}

// IsExecutionError reports whether err is an execution-stage QueryError.
func IsExecutionError(err error) bool {
	return hasCode(err, ErrCodeExecution)
}

// IsQuotaError reports whether err is a quota QueryError or a bare
// RowsExceededError.
func IsQuotaError(err error) bool {
	return hasCode(err, ErrCodeQuotaExceeded) || IsRowsExceededError(err)
}
