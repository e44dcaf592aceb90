// Package dag implements the wire-ordered operation graph at the heart of
// the transpiler: a directed acyclic graph whose nodes are gate applications
// and whose edges record, per wire, which operation directly follows which.
//
// Key concepts:
//   - every wire runs from one input node to one output node
//   - an edge (u, v, wire) means v's use of wire immediately follows u's
//   - applying an operation splices it in before each touched wire's output
//   - per-wire edge order is program order for that wire; this is the
//     correctness-critical invariant every mutation must preserve
//
// Nodes live in an arena addressed by stable NodeIDs, so passes can hold
// node handles across traversals; IDs of removed nodes are never reused.
package dag

import (
	"fmt"
	"sort"

	"github.com/qdag-xyz/go-qdag/circuit"
)

// DAG is the operation graph over a fixed set of wires. It is created empty,
// with one input and one output node per wire, and grown by ApplyOperation.
// A DAG is not safe for concurrent use.
type DAG struct {
	wires   []circuit.Wire
	wireSet map[circuit.Wire]bool

	nodes  map[NodeID]*Node
	nextID NodeID
	opCnt  int

	in  map[circuit.Wire]NodeID
	out map[circuit.Wire]NodeID

	// Per-node, per-wire adjacency. pred[n][w] is the node whose use of w
	// directly precedes n's.
	pred map[NodeID]map[circuit.Wire]NodeID
	succ map[NodeID]map[circuit.Wire]NodeID
}

// New creates an empty DAG over every wire declared in the registry.
// Registers declared after the DAG is created are not part of it.
func New(reg *circuit.Registry) (*DAG, error) {
	return FromWires(reg.Wires())
}

// FromWires creates an empty DAG over an explicit wire list. The list must
// not contain duplicates.
func FromWires(wires []circuit.Wire) (*DAG, error) {
	d := &DAG{
		wireSet: make(map[circuit.Wire]bool, len(wires)),
		nodes:   make(map[NodeID]*Node),
		in:      make(map[circuit.Wire]NodeID, len(wires)),
		out:     make(map[circuit.Wire]NodeID, len(wires)),
		pred:    make(map[NodeID]map[circuit.Wire]NodeID),
		succ:    make(map[NodeID]map[circuit.Wire]NodeID),
	}
	for _, w := range wires {
		if d.wireSet[w] {
			return nil, fmt.Errorf("wire %s declared twice: %w", w, ErrInvariantViolation)
		}
		d.wireSet[w] = true
		d.wires = append(d.wires, w)

		inNode := d.newNode(&Node{kind: InputNode, wire: w})
		outNode := d.newNode(&Node{kind: OutputNode, wire: w})
		d.in[w] = inNode.id
		d.out[w] = outNode.id
		d.succ[inNode.id][w] = outNode.id
		d.pred[outNode.id][w] = inNode.id
	}
	return d, nil
}

// newNode places a node in the arena under a fresh ID.
func (d *DAG) newNode(n *Node) *Node {
	n.id = d.nextID
	d.nextID++
	d.nodes[n.id] = n
	d.pred[n.id] = make(map[circuit.Wire]NodeID)
	d.succ[n.id] = make(map[circuit.Wire]NodeID)
	if n.kind == OpNode {
		d.opCnt++
	}
	return n
}

// Wires returns the DAG's wires: qubits first, then clbits, in declaration
// order.
func (d *DAG) Wires() []circuit.Wire {
	return append([]circuit.Wire(nil), d.wires...)
}

// HasWire reports whether the wire belongs to this DAG.
func (d *DAG) HasWire(w circuit.Wire) bool { return d.wireSet[w] }

// Node returns the live node with the given ID, or ErrNodeNotFound if the
// ID was never issued or the node has been removed.
func (d *DAG) Node(id NodeID) (*Node, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// checkArgs validates one operation application against the DAG's wires.
func (d *DAG) checkArgs(op circuit.Operation, qargs, cargs []circuit.Wire) error {
	if len(qargs) != op.NumQubits || len(cargs) != op.NumClbits {
		return fmt.Errorf("%s expects %d qubits and %d clbits, got %d and %d: %w",
			op.Name, op.NumQubits, op.NumClbits, len(qargs), len(cargs), circuit.ErrArityMismatch)
	}
	seen := make(map[circuit.Wire]bool, len(qargs))
	for _, w := range qargs {
		if w.Kind != circuit.Qubit {
			return fmt.Errorf("%s: %s is not a qubit wire: %w", op.Name, w, circuit.ErrUnknownWire)
		}
		if !d.wireSet[w] {
			return fmt.Errorf("%s: qubit %s: %w", op.Name, w, circuit.ErrUnknownWire)
		}
		if seen[w] {
			return fmt.Errorf("%s: qubit %s used twice: %w", op.Name, w, circuit.ErrDuplicateWireArgument)
		}
		seen[w] = true
	}
	for _, w := range cargs {
		if w.Kind != circuit.Clbit {
			return fmt.Errorf("%s: %s is not a clbit wire: %w", op.Name, w, circuit.ErrUnknownWire)
		}
		if !d.wireSet[w] {
			return fmt.Errorf("%s: clbit %s: %w", op.Name, w, circuit.ErrUnknownWire)
		}
		if seen[w] {
			return fmt.Errorf("%s: clbit %s used twice: %w", op.Name, w, circuit.ErrDuplicateWireArgument)
		}
		seen[w] = true
	}
	return nil
}

// ApplyOperation appends one operation to the end of every wire it touches:
// the new node is spliced in immediately before each wire's output node.
// It returns the new operation node.
func (d *DAG) ApplyOperation(op circuit.Operation, qargs, cargs []circuit.Wire) (*Node, error) {
	if err := d.checkArgs(op, qargs, cargs); err != nil {
		return nil, err
	}

	n := d.newNode(&Node{
		kind:  OpNode,
		op:    op,
		qargs: append([]circuit.Wire(nil), qargs...),
		cargs: append([]circuit.Wire(nil), cargs...),
	})

	for _, w := range n.Wires() {
		outID := d.out[w]
		prevID := d.pred[outID][w]
		d.succ[prevID][w] = n.id
		d.pred[n.id][w] = prevID
		d.succ[n.id][w] = outID
		d.pred[outID][w] = n.id
	}
	return n, nil
}

// Apply appends a bound instruction. It is shorthand for ApplyOperation.
func (d *DAG) Apply(inst circuit.Instruction) (*Node, error) {
	return d.ApplyOperation(inst.Op, inst.Qargs, inst.Cargs)
}

// RemoveNode deletes an operation node and reconnects, on every wire the
// node touched, its predecessor directly to its successor. The node's ID
// becomes invalid; later lookups fail with ErrNodeNotFound.
func (d *DAG) RemoveNode(id NodeID) error {
	n, err := d.Node(id)
	if err != nil {
		return err
	}
	if n.kind != OpNode {
		return fmt.Errorf("node %d is a wire boundary, not an operation: %w", id, ErrNodeNotFound)
	}
	d.unlink(n)
	return nil
}

// unlink contracts the node out of every wire chain and drops it from the
// arena.
func (d *DAG) unlink(n *Node) {
	for _, w := range n.Wires() {
		p := d.pred[n.id][w]
		s := d.succ[n.id][w]
		d.succ[p][w] = s
		d.pred[s][w] = p
	}
	delete(d.pred, n.id)
	delete(d.succ, n.id)
	delete(d.nodes, n.id)
	d.opCnt--
}

// Predecessors returns the distinct nodes directly preceding n on any wire,
// ordered by node ID.
func (d *DAG) Predecessors(id NodeID) ([]*Node, error) {
	return d.neighbors(id, d.pred)
}

// Successors returns the distinct nodes directly following n on any wire,
// ordered by node ID.
func (d *DAG) Successors(id NodeID) ([]*Node, error) {
	return d.neighbors(id, d.succ)
}

func (d *DAG) neighbors(id NodeID, adj map[NodeID]map[circuit.Wire]NodeID) ([]*Node, error) {
	if _, err := d.Node(id); err != nil {
		return nil, err
	}
	seen := make(map[NodeID]bool)
	var out []*Node
	for _, nb := range adj[id] {
		if !seen[nb] {
			seen[nb] = true
			out = append(out, d.nodes[nb])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out, nil
}

// WireNodes returns the operation nodes touching the wire, in program order
// for that wire.
func (d *DAG) WireNodes(w circuit.Wire) ([]*Node, error) {
	if !d.wireSet[w] {
		return nil, fmt.Errorf("wire %s: %w", w, circuit.ErrUnknownWire)
	}
	var ops []*Node
	cur := d.succ[d.in[w]][w]
	for cur != d.out[w] {
		n := d.nodes[cur]
		ops = append(ops, n)
		cur = d.succ[cur][w]
	}
	return ops, nil
}

// Size returns the number of operation nodes.
func (d *DAG) Size() int { return d.opCnt }

// Width returns the number of wires.
func (d *DAG) Width() int { return len(d.wires) }

// CountOps returns a histogram of operation names.
func (d *DAG) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, n := range d.nodes {
		if n.kind == OpNode {
			counts[n.op.Name]++
		}
	}
	return counts
}

// OpNodes returns all operation nodes ordered by node ID (creation order).
func (d *DAG) OpNodes() []*Node {
	out := make([]*Node, 0, d.opCnt)
	for _, n := range d.nodes {
		if n.kind == OpNode {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// NumTensorFactors returns the number of connected components of the wire
// set, where two wires are connected when some operation touches both. An
// idle wire counts as its own factor.
func (d *DAG) NumTensorFactors() int {
	parent := make(map[circuit.Wire]circuit.Wire, len(d.wires))
	for _, w := range d.wires {
		parent[w] = w
	}
	var find func(circuit.Wire) circuit.Wire
	find = func(w circuit.Wire) circuit.Wire {
		if parent[w] != w {
			parent[w] = find(parent[w])
		}
		return parent[w]
	}
	for _, n := range d.nodes {
		if n.kind != OpNode {
			continue
		}
		wires := n.Wires()
		for _, w := range wires[1:] {
			parent[find(w)] = find(wires[0])
		}
	}
	roots := make(map[circuit.Wire]bool)
	for _, w := range d.wires {
		roots[find(w)] = true
	}
	return len(roots)
}
