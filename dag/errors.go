package dag

import "errors"

// Error types for the dag package. Argument and wire validation failures
// reuse the sentinels defined in the circuit package.
var (
	// ErrNodeNotFound is returned when a node ID does not name a live node,
	// including IDs invalidated by removal or substitution.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvariantViolation is returned when the graph breaks a structural
	// contract, such as containing a cycle. It signals a programming error,
	// never a recoverable condition.
	ErrInvariantViolation = errors.New("invariant violation")
)
