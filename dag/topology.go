package dag

import (
	"fmt"
	"sort"

	"github.com/qdag-xyz/go-qdag/circuit"
)

// topoAll returns every node (boundary and operation) in topological order.
// Ties are broken by lowest node ID, which is creation order, so the result
// is deterministic for a given mutation history. A cycle fails with
// ErrInvariantViolation.
func (d *DAG) topoAll() ([]*Node, error) {
	indeg := make(map[NodeID]int, len(d.nodes))
	for id := range d.nodes {
		indeg[id] = len(d.pred[id])
	}

	// Ready list kept sorted ascending by ID.
	var ready []NodeID
	push := func(id NodeID) {
		i := sort.Search(len(ready), func(i int) bool { return ready[i] >= id })
		ready = append(ready, 0)
		copy(ready[i+1:], ready[i:])
		ready[i] = id
	}
	for id, deg := range indeg {
		if deg == 0 {
			push(id)
		}
	}

	order := make([]*Node, 0, len(d.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, d.nodes[id])

		seen := make(map[NodeID]bool)
		for _, nb := range d.succ[id] {
			if seen[nb] {
				continue
			}
			seen[nb] = true
			indeg[nb] -= d.edgeCount(id, nb)
			if indeg[nb] == 0 {
				push(nb)
			}
		}
	}

	if len(order) != len(d.nodes) {
		return nil, fmt.Errorf("graph contains a cycle: %w", ErrInvariantViolation)
	}
	return order, nil
}

// edgeCount returns how many wires carry an edge u -> v.
func (d *DAG) edgeCount(u, v NodeID) int {
	count := 0
	for _, nb := range d.succ[u] {
		if nb == v {
			count++
		}
	}
	return count
}

// TopologicalNodes returns the operation nodes in a valid topological order:
// every node appears after all of its predecessors. Among order-equivalent
// nodes, creation order wins, so repeated calls on an unchanged DAG return
// the same sequence. Each call performs a fresh traversal; mutating the DAG
// between calls is fine, mutating it while consuming a previous result is
// not accounted for.
func (d *DAG) TopologicalNodes() ([]*Node, error) {
	all, err := d.topoAll()
	if err != nil {
		return nil, err
	}
	ops := make([]*Node, 0, d.opCnt)
	for _, n := range all {
		if n.kind == OpNode {
			ops = append(ops, n)
		}
	}
	return ops, nil
}

// LongestPath returns the operation nodes along a maximum-length directed
// path from some input node to some output node. Only the length is a
// guaranteed property; when several paths share the maximum length the
// choice among them is deterministic (earliest-produced predecessor in the
// topological order) but otherwise unspecified.
func (d *DAG) LongestPath() ([]*Node, error) {
	order, err := d.topoAll()
	if err != nil {
		return nil, err
	}

	pos := make(map[NodeID]int, len(order))
	for i, n := range order {
		pos[n.id] = i
	}

	// depth counts operation nodes only; input nodes sit at depth 0 and
	// output nodes inherit their deepest predecessor.
	depth := make(map[NodeID]int, len(order))
	choice := make(map[NodeID]NodeID, len(order))

	best := NodeID(-1)
	for _, n := range order {
		if n.kind == InputNode {
			depth[n.id] = 0
			continue
		}

		maxDepth, from := -1, NodeID(-1)
		for _, p := range d.pred[n.id] {
			pd := depth[p]
			if pd > maxDepth || (pd == maxDepth && pos[p] < pos[from]) {
				maxDepth, from = pd, p
			}
		}
		if n.kind == OpNode {
			maxDepth++
		}
		depth[n.id] = maxDepth
		choice[n.id] = from

		if n.kind == OutputNode && (best < 0 || depth[n.id] > depth[best]) {
			best = n.id
		}
	}

	if best < 0 || depth[best] == 0 {
		return nil, nil
	}

	var path []*Node
	for cur := best; ; {
		n := d.nodes[cur]
		if n.kind == InputNode {
			break
		}
		if n.kind == OpNode {
			path = append(path, n)
		}
		cur = choice[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// Depth returns the length of the longest path, counting operation nodes.
// An empty DAG has depth 0.
func (d *DAG) Depth() (int, error) {
	path, err := d.LongestPath()
	if err != nil {
		return 0, err
	}
	return len(path), nil
}

// Replay builds a fresh DAG over the same wires by reapplying the receiver's
// operations in topological order. The result has the same per-wire order as
// the original; this is the round-trip contract serialization front ends
// rely on.
func (d *DAG) Replay() (*DAG, error) {
	ops, err := d.TopologicalNodes()
	if err != nil {
		return nil, err
	}
	fresh, err := FromWires(d.wires)
	if err != nil {
		return nil, err
	}
	for _, n := range ops {
		if _, err := fresh.ApplyOperation(n.op, n.qargs, n.cargs); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}

// SameWireOrder reports whether two DAGs are equivalent up to node identity:
// same wire set, and on every wire the same sequence of operations with
// interchangeable descriptors and identical argument binding.
func SameWireOrder(a, b *DAG) bool {
	if len(a.wires) != len(b.wires) {
		return false
	}
	for _, w := range a.wires {
		if !b.wireSet[w] {
			return false
		}
		an, errA := a.WireNodes(w)
		bn, errB := b.WireNodes(w)
		if errA != nil || errB != nil || len(an) != len(bn) {
			return false
		}
		for i := range an {
			if !sameApplication(an[i], bn[i]) {
				return false
			}
		}
	}
	return true
}

func sameApplication(a, b *Node) bool {
	if !a.op.Equal(b.op) || len(a.qargs) != len(b.qargs) || len(a.cargs) != len(b.cargs) {
		return false
	}
	for i := range a.qargs {
		if a.qargs[i] != b.qargs[i] {
			return false
		}
	}
	for i := range a.cargs {
		if a.cargs[i] != b.cargs[i] {
			return false
		}
	}
	return true
}

// wireChain returns the operation node IDs on a wire in order, used when
// splicing substitutions.
func (d *DAG) wireChain(w circuit.Wire) []NodeID {
	var chain []NodeID
	for cur := d.succ[d.in[w]][w]; cur != d.out[w]; cur = d.succ[cur][w] {
		chain = append(chain, cur)
	}
	return chain
}
