package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// Operation describes one gate or instruction: a name, an ordered parameter
// list, and how many qubit and clbit arguments it takes. Operations are
// descriptors only; the system never evaluates them.
//
// Two operations are interchangeable when name, parameters, and arity match.
// Use Equal for that comparison rather than comparing pointers or struct
// values (the definition is excluded from equality).
type Operation struct {
	// Name tags the operation, e.g. "h", "cx", "measure".
	Name string

	// Params holds the operation's numeric parameters, e.g. rotation angles.
	Params []float64

	// NumQubits and NumClbits give the required argument counts.
	NumQubits int
	NumClbits int

	// Definition optionally decomposes the operation into simpler ones over
	// local wires. A nil definition means the operation is primitive or its
	// decomposition must come from an external lookup.
	Definition []Instruction
}

// Instruction binds an operation to concrete wire arguments: qubit arguments
// first, then clbit arguments, matching the operation's arity.
type Instruction struct {
	Op    Operation
	Qargs []Wire
	Cargs []Wire
}

// Equal reports whether two operations are interchangeable: same name, same
// parameters, same arity. Definitions are deliberately ignored; a gate with
// and without an attached decomposition is still the same gate.
func (op Operation) Equal(other Operation) bool {
	if op.Name != other.Name ||
		op.NumQubits != other.NumQubits ||
		op.NumClbits != other.NumClbits ||
		len(op.Params) != len(other.Params) {
		return false
	}
	for i, p := range op.Params {
		if p != other.Params[i] {
			return false
		}
	}
	return true
}

// WithDefinition returns a copy of the operation carrying the given
// decomposition. The receiver is not modified.
func (op Operation) WithDefinition(def []Instruction) Operation {
	cp := op
	cp.Definition = append([]Instruction(nil), def...)
	return cp
}

// String renders the operation as name(params), e.g. "rz(0.5)" or "cx".
func (op Operation) String() string {
	if len(op.Params) == 0 {
		return op.Name
	}
	parts := make([]string, len(op.Params))
	for i, p := range op.Params {
		parts[i] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	return op.Name + "(" + strings.Join(parts, ",") + ")"
}

// Validate checks internal consistency: non-empty name, non-negative arity,
// and a definition (if present) whose instructions use only local wires
// within the operation's own arity.
func (op Operation) Validate() error {
	if op.Name == "" {
		return fmt.Errorf("operation has no name")
	}
	if op.NumQubits < 0 || op.NumClbits < 0 {
		return fmt.Errorf("operation %q: negative arity", op.Name)
	}
	for _, inst := range op.Definition {
		if len(inst.Qargs) != inst.Op.NumQubits || len(inst.Cargs) != inst.Op.NumClbits {
			return fmt.Errorf("operation %q: definition entry %q: %w",
				op.Name, inst.Op.Name, ErrArityMismatch)
		}
	}
	return nil
}
