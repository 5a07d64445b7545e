package harness

import "github.com/roach88/qcore/internal/engine"

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Errors holds one message per failed check.
	Errors []string `json:"errors,omitempty"`

	// Query is the engine result; nil when the query failed.
	Query *engine.Result `json:"-"`

	// ErrorCode is the QueryError code when the query failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Err is the query failure, if any.
	Err error `json:"-"`

	// Scans counts table scans the query performed.
	Scans int `json:"scans"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
