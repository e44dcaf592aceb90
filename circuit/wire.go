// Package circuit implements the core data structures of a quantum circuit
// intermediate representation: wires, registers, and operation descriptors.
//
// Key concepts:
//   - Wire: a single qubit or classical bit's timeline through a circuit
//   - Register: a named, fixed-size group of wires of one kind
//   - Registry: the declaration table mapping (register, index) to a Wire
//   - Operation: an opaque named operation with parameters and arity
//
// The package deliberately knows nothing about gate semantics. An operation
// is a descriptor the rest of the system schedules and rewires, never
// executes.
package circuit

import "strconv"

// Kind distinguishes quantum from classical wires.
type Kind string

const (
	// Qubit wires carry quantum state.
	Qubit Kind = "qubit"
	// Clbit wires carry classical measurement results.
	Clbit Kind = "clbit"
)

// Wire identifies one qubit or one classical bit. Wires are immutable
// values; two wires are the same wire exactly when register, index, and
// kind all match, so Wire is usable as a map key.
type Wire struct {
	Register string
	Index    int
	Kind     Kind
}

// String returns the conventional textual form, e.g. "q[0]".
func (w Wire) String() string {
	return w.Register + "[" + strconv.Itoa(w.Index) + "]"
}

// Register is a named, fixed-size group of wires of a single kind.
type Register struct {
	Name string
	Size int
	Kind Kind
}

// Wire returns the wire at the given index within the register.
// The index is not range-checked; resolution with checking goes through
// Registry.Resolve.
func (r *Register) Wire(index int) Wire {
	return Wire{Register: r.Name, Index: index, Kind: r.Kind}
}

// Wires returns all wires of the register in index order.
func (r *Register) Wires() []Wire {
	wires := make([]Wire, r.Size)
	for i := range wires {
		wires[i] = r.Wire(i)
	}
	return wires
}
