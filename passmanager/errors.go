package passmanager

import "errors"

// Error types for the passmanager package.
var (
	// ErrMissingProperty is returned when a pass declares a required property
	// that no earlier pass has written.
	ErrMissingProperty = errors.New("missing required property")

	// ErrPassExecution wraps any failure raised from inside a pass. The
	// failing pass's identity travels in the error text and in
	// Result.FailedPass.
	ErrPassExecution = errors.New("pass execution failed")

	// ErrRunInProgress is returned when Run is called while another run on
	// the same manager has not finished. The framework owns the DAG and
	// property set exclusively for the duration of one run.
	ErrRunInProgress = errors.New("run already in progress")
)
