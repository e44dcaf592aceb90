package circuit

import "errors"

// Error types for the circuit package.
var (
	// ErrDuplicateRegister is returned when a register name is declared twice
	// for the same wire kind.
	ErrDuplicateRegister = errors.New("duplicate register")

	// ErrUnknownWire is returned when a wire reference does not resolve to a
	// declared register and index.
	ErrUnknownWire = errors.New("unknown wire")

	// ErrArityMismatch is returned when an operation is applied with the
	// wrong number of qubit or clbit arguments.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrDuplicateWireArgument is returned when the same wire appears more
	// than once among one application's qubit arguments.
	ErrDuplicateWireArgument = errors.New("duplicate wire argument")
)
