package types

import "fmt"

// RestoreResult collects what went wrong during a restore. Errors mean a
// window could not be relaunched at all; warnings mean it was relaunched but
// not fully positioned.
type RestoreResult struct {
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// NewRestoreResult returns a result with empty, non-nil lists.
func NewRestoreResult() *RestoreResult {
	return &RestoreResult{Warnings: []string{}, Errors: []string{}}
}

// Warn appends a formatted warning.
func (r *RestoreResult) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Fail appends a formatted error.
func (r *RestoreResult) Fail(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// OK reports whether nothing was recorded.
func (r *RestoreResult) OK() bool {
	return len(r.Warnings) == 0 && len(r.Errors) == 0
}
