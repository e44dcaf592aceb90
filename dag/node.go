package dag

import (
	"github.com/qdag-xyz/go-qdag/circuit"
)

// NodeID is a stable opaque handle to one node of a DAG. IDs are unique for
// the lifetime of the DAG instance and are never reused after a node is
// removed, so a stale ID fails lookup instead of aliasing a newer node.
type NodeID int

// NodeKind classifies DAG nodes.
type NodeKind int

const (
	// InputNode marks the start of one wire's timeline.
	InputNode NodeKind = iota
	// OutputNode marks the end of one wire's timeline.
	OutputNode
	// OpNode applies one operation to its bound wires.
	OpNode
)

// String returns a short kind name for diagnostics.
func (k NodeKind) String() string {
	switch k {
	case InputNode:
		return "input"
	case OutputNode:
		return "output"
	case OpNode:
		return "op"
	default:
		return "unknown"
	}
}

// Node is one vertex of the DAG: an input or output boundary of a single
// wire, or an operation bound to its argument wires. Nodes are created and
// owned by a DAG; callers hold them read-only.
type Node struct {
	id   NodeID
	kind NodeKind

	// Operation nodes.
	op    circuit.Operation
	qargs []circuit.Wire
	cargs []circuit.Wire

	// Input/output nodes.
	wire circuit.Wire
}

// ID returns the node's stable identifier.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node's classification.
func (n *Node) Kind() NodeKind { return n.kind }

// Op returns the operation descriptor of an operation node. For input and
// output nodes it returns the zero Operation.
func (n *Node) Op() circuit.Operation { return n.op }

// Qargs returns the node's bound qubit arguments in application order.
func (n *Node) Qargs() []circuit.Wire {
	return append([]circuit.Wire(nil), n.qargs...)
}

// Cargs returns the node's bound clbit arguments in application order.
func (n *Node) Cargs() []circuit.Wire {
	return append([]circuit.Wire(nil), n.cargs...)
}

// Wires returns every wire the node touches: for operation nodes the qubit
// arguments followed by the clbit arguments, for boundary nodes the single
// wire they delimit.
func (n *Node) Wires() []circuit.Wire {
	if n.kind != OpNode {
		return []circuit.Wire{n.wire}
	}
	wires := make([]circuit.Wire, 0, len(n.qargs)+len(n.cargs))
	wires = append(wires, n.qargs...)
	return append(wires, n.cargs...)
}

// Wire returns the wire delimited by an input or output node. For operation
// nodes it returns the zero Wire.
func (n *Node) Wire() circuit.Wire { return n.wire }

// String renders the node for diagnostics, e.g. "cx q[0],q[1]".
func (n *Node) String() string {
	switch n.kind {
	case InputNode:
		return "in " + n.wire.String()
	case OutputNode:
		return "out " + n.wire.String()
	}
	s := n.op.String()
	sep := " "
	for _, w := range n.qargs {
		s += sep + w.String()
		sep = ","
	}
	for _, w := range n.cargs {
		s += sep + w.String()
		sep = ","
	}
	return s
}
