// Package gatelib is the gate-semantics collaborator sitting outside the
// transpiler core: a lookup table from operation names to descriptors and
// decompositions, plus a convenience circuit builder. The core never reads
// this package; passes receive its Source function as an opaque lookup.
//
// Definitions are purely structural (which simpler operations replace a
// gate, on which local wires); no matrices live here.
package gatelib

import (
	"sort"

	"github.com/qdag-xyz/go-qdag/circuit"
)

// q returns the canonical local qubit wire definitions are written over.
func q(i int) circuit.Wire {
	return circuit.Wire{Register: "q", Index: i, Kind: circuit.Qubit}
}

func gate1(name string) circuit.Operation {
	return circuit.Operation{Name: name, NumQubits: 1}
}

func gate2(name string) circuit.Operation {
	return circuit.Operation{Name: name, NumQubits: 2}
}

// catalog maps gate names to their descriptors. Single-qubit Paulis,
// phase gates, and cx are primitive; everything else decomposes.
var catalog = map[string]circuit.Operation{
	"id":      gate1("id"),
	"x":       gate1("x"),
	"y":       gate1("y"),
	"z":       gate1("z"),
	"h":       gate1("h"),
	"s":       gate1("s"),
	"sdg":     gate1("sdg"),
	"t":       gate1("t"),
	"tdg":     gate1("tdg"),
	"cx":      gate2("cx"),
	"cy":      gate2("cy"),
	"cz":      gate2("cz"),
	"swap":    gate2("swap"),
	"iswap":   gate2("iswap"),
	"measure": {Name: "measure", NumQubits: 1, NumClbits: 1},
}

// definitions holds each non-primitive gate's decomposition over the
// canonical local wires.
var definitions = map[string][]circuit.Instruction{
	// cy a,b  =  sdg b; cx a,b; s b
	"cy": {
		inst("sdg", q(1)),
		inst("cx", q(0), q(1)),
		inst("s", q(1)),
	},
	// cz a,b  =  h b; cx a,b; h b
	"cz": {
		inst("h", q(1)),
		inst("cx", q(0), q(1)),
		inst("h", q(1)),
	},
	// swap a,b  =  cx a,b; cx b,a; cx a,b
	"swap": {
		inst("cx", q(0), q(1)),
		inst("cx", q(1), q(0)),
		inst("cx", q(0), q(1)),
	},
	// iswap a,b  =  s a; s b; h a; cx a,b; cx b,a; h b
	"iswap": {
		inst("s", q(0)),
		inst("s", q(1)),
		inst("h", q(0)),
		inst("cx", q(0), q(1)),
		inst("cx", q(1), q(0)),
		inst("h", q(1)),
	},
}

func inst(name string, qargs ...circuit.Wire) circuit.Instruction {
	return circuit.Instruction{Op: catalog[name], Qargs: qargs}
}

// Get returns the descriptor for a named gate.
func Get(name string) (circuit.Operation, bool) {
	op, ok := catalog[name]
	return op, ok
}

// Rotation returns a single-qubit rotation descriptor with the given angle,
// e.g. Rotation("rz", 0.5).
func Rotation(name string, angle float64) circuit.Operation {
	return circuit.Operation{Name: name, Params: []float64{angle}, NumQubits: 1}
}

// Barrier returns a barrier descriptor spanning the given number of qubits.
func Barrier(numQubits int) circuit.Operation {
	return circuit.Operation{Name: "barrier", NumQubits: numQubits}
}

// Source looks up the decomposition for an operation. It matches the
// DefinitionSource shape the transformation passes accept.
func Source(op circuit.Operation) ([]circuit.Instruction, bool) {
	def, ok := definitions[op.Name]
	if !ok {
		return nil, false
	}
	return append([]circuit.Instruction(nil), def...), true
}

// Names returns every gate name in the catalog, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
