package gatelib

import (
	"fmt"

	"github.com/qdag-xyz/go-qdag/circuit"
	"github.com/qdag-xyz/go-qdag/dag"
)

// Builder provides a fluent API for constructing circuit DAGs. Register
// declarations and gate applications are recorded in order and materialized
// by Done; the first error wins and surfaces there.
//
// Example:
//
//	d, err := gatelib.NewCircuit().
//	    Qreg("q", 2).
//	    Creg("c", 2).
//	    H("q", 0).
//	    CX("q", 0, "q", 1).
//	    Measure("q", 0, "c", 0).
//	    Measure("q", 1, "c", 1).
//	    Done()
type Builder struct {
	reg   *circuit.Registry
	steps []step
	err   error
}

// Ref addresses one wire of a register by name and index.
type Ref struct {
	Register string
	Index    int
}

// At builds a wire reference, for use with Builder.Op.
func At(register string, index int) Ref {
	return Ref{Register: register, Index: index}
}

type step struct {
	op    circuit.Operation
	qargs []Ref
	cargs []Ref
}

// NewCircuit creates an empty circuit builder.
func NewCircuit() *Builder {
	return &Builder{reg: circuit.NewRegistry()}
}

// Qreg declares a qubit register.
func (b *Builder) Qreg(name string, size int) *Builder {
	if b.err == nil {
		_, b.err = b.reg.DeclareRegister(name, size, circuit.Qubit)
	}
	return b
}

// Creg declares a classical register.
func (b *Builder) Creg(name string, size int) *Builder {
	if b.err == nil {
		_, b.err = b.reg.DeclareRegister(name, size, circuit.Clbit)
	}
	return b
}

// Op records a generic operation application.
func (b *Builder) Op(op circuit.Operation, qargs []Ref, cargs []Ref) *Builder {
	b.steps = append(b.steps, step{op: op, qargs: qargs, cargs: cargs})
	return b
}

// Gate records a catalog gate by name on the given qubits.
func (b *Builder) Gate(name string, qargs ...Ref) *Builder {
	op, ok := Get(name)
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("unknown gate %q", name)
		}
		return b
	}
	return b.Op(op, qargs, nil)
}

// H records a Hadamard gate.
func (b *Builder) H(reg string, i int) *Builder { return b.Gate("h", At(reg, i)) }

// X records a Pauli X gate.
func (b *Builder) X(reg string, i int) *Builder { return b.Gate("x", At(reg, i)) }

// Y records a Pauli Y gate.
func (b *Builder) Y(reg string, i int) *Builder { return b.Gate("y", At(reg, i)) }

// Z records a Pauli Z gate.
func (b *Builder) Z(reg string, i int) *Builder { return b.Gate("z", At(reg, i)) }

// S records a phase gate.
func (b *Builder) S(reg string, i int) *Builder { return b.Gate("s", At(reg, i)) }

// T records a T gate.
func (b *Builder) T(reg string, i int) *Builder { return b.Gate("t", At(reg, i)) }

// CX records a controlled-X gate.
func (b *Builder) CX(cr string, ci int, tr string, ti int) *Builder {
	return b.Gate("cx", At(cr, ci), At(tr, ti))
}

// CY records a controlled-Y gate.
func (b *Builder) CY(cr string, ci int, tr string, ti int) *Builder {
	return b.Gate("cy", At(cr, ci), At(tr, ti))
}

// CZ records a controlled-Z gate.
func (b *Builder) CZ(cr string, ci int, tr string, ti int) *Builder {
	return b.Gate("cz", At(cr, ci), At(tr, ti))
}

// Swap records a swap gate.
func (b *Builder) Swap(ar string, ai int, br string, bi int) *Builder {
	return b.Gate("swap", At(ar, ai), At(br, bi))
}

// ISwap records an iswap gate.
func (b *Builder) ISwap(ar string, ai int, br string, bi int) *Builder {
	return b.Gate("iswap", At(ar, ai), At(br, bi))
}

// RZ records a Z rotation.
func (b *Builder) RZ(angle float64, reg string, i int) *Builder {
	return b.Op(Rotation("rz", angle), []Ref{At(reg, i)}, nil)
}

// Measure records a measurement from a qubit into a classical bit.
func (b *Builder) Measure(qr string, qi int, cr string, ci int) *Builder {
	op := catalog["measure"]
	return b.Op(op, []Ref{At(qr, qi)}, []Ref{At(cr, ci)})
}

// Registry returns the builder's register declarations.
func (b *Builder) Registry() *circuit.Registry { return b.reg }

// Done materializes the recorded circuit as a DAG, or returns the first
// error hit while recording or applying.
func (b *Builder) Done() (*dag.DAG, error) {
	if b.err != nil {
		return nil, b.err
	}
	d, err := dag.New(b.reg)
	if err != nil {
		return nil, err
	}
	for _, s := range b.steps {
		qargs, err := b.resolve(s.qargs, circuit.Qubit)
		if err != nil {
			return nil, err
		}
		cargs, err := b.resolve(s.cargs, circuit.Clbit)
		if err != nil {
			return nil, err
		}
		if _, err := d.ApplyOperation(s.op, qargs, cargs); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (b *Builder) resolve(refs []Ref, kind circuit.Kind) ([]circuit.Wire, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	wires := make([]circuit.Wire, len(refs))
	for i, r := range refs {
		w, err := b.reg.Resolve(kind, r.Register, r.Index)
		if err != nil {
			return nil, err
		}
		wires[i] = w
	}
	return wires, nil
}
