package circuit

import "fmt"

// Registry tracks declared registers and resolves (register, index) pairs
// to wires. Qubit and clbit register namespaces are independent: a qubit
// register and a clbit register may share a name.
type Registry struct {
	registers map[Kind]map[string]*Register

	// Declaration order, for deterministic wire enumeration.
	order []*Register
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		registers: map[Kind]map[string]*Register{
			Qubit: make(map[string]*Register),
			Clbit: make(map[string]*Register),
		},
	}
}

// DeclareRegister declares a register of the given kind, creating size fresh
// wires. It fails with ErrDuplicateRegister if a register of that kind
// already uses the name.
func (r *Registry) DeclareRegister(name string, size int, kind Kind) (*Register, error) {
	if size <= 0 {
		return nil, fmt.Errorf("register %q: size must be positive, got %d", name, size)
	}
	byName := r.registers[kind]
	if byName == nil {
		return nil, fmt.Errorf("register %q: unknown wire kind %q", name, kind)
	}
	if _, exists := byName[name]; exists {
		return nil, fmt.Errorf("%s register %q: %w", kind, name, ErrDuplicateRegister)
	}

	reg := &Register{Name: name, Size: size, Kind: kind}
	byName[name] = reg
	r.order = append(r.order, reg)
	return reg, nil
}

// Resolve returns the wire at (register, index) for the given kind, failing
// with ErrUnknownWire if the register was never declared or the index is out
// of range.
func (r *Registry) Resolve(kind Kind, register string, index int) (Wire, error) {
	byName := r.registers[kind]
	if byName == nil {
		return Wire{}, fmt.Errorf("%s[%d]: unknown wire kind %q: %w", register, index, kind, ErrUnknownWire)
	}
	reg, exists := byName[register]
	if !exists {
		return Wire{}, fmt.Errorf("%s %s[%d]: %w", kind, register, index, ErrUnknownWire)
	}
	if index < 0 || index >= reg.Size {
		return Wire{}, fmt.Errorf("%s %s[%d]: index out of range (size %d): %w",
			kind, register, index, reg.Size, ErrUnknownWire)
	}
	return reg.Wire(index), nil
}

// Qubit resolves a qubit wire.
func (r *Registry) Qubit(register string, index int) (Wire, error) {
	return r.Resolve(Qubit, register, index)
}

// Clbit resolves a classical-bit wire.
func (r *Registry) Clbit(register string, index int) (Wire, error) {
	return r.Resolve(Clbit, register, index)
}

// Registers returns all declared registers in declaration order.
func (r *Registry) Registers() []*Register {
	out := make([]*Register, len(r.order))
	copy(out, r.order)
	return out
}

// Wires returns every declared wire: all qubit wires first, then all clbit
// wires, each group in register-declaration order.
func (r *Registry) Wires() []Wire {
	var qubits, clbits []Wire
	for _, reg := range r.order {
		switch reg.Kind {
		case Qubit:
			qubits = append(qubits, reg.Wires()...)
		case Clbit:
			clbits = append(clbits, reg.Wires()...)
		}
	}
	return append(qubits, clbits...)
}

// Contains reports whether the wire belongs to a declared register.
func (r *Registry) Contains(w Wire) bool {
	byName := r.registers[w.Kind]
	if byName == nil {
		return false
	}
	reg, exists := byName[w.Register]
	return exists && w.Index >= 0 && w.Index < reg.Size
}
