package dag

import (
	"fmt"

	"github.com/qdag-xyz/go-qdag/circuit"
)

// SubstituteNodeWithDAG replaces one operation node with the internal
// structure of a replacement DAG, splicing the replacement's per-wire chains
// between the removed node's predecessors and successors. wireMap translates
// the replacement's local wires to the host's wires; after mapping, the
// replacement's wire set must exactly cover the removed node's wire set,
// otherwise the call fails with ErrArityMismatch and the host is unchanged.
//
// The replaced node's ID becomes invalid. The inserted copies of the
// replacement's operation nodes are returned in topological order; the
// replacement DAG itself is never mutated.
func (d *DAG) SubstituteNodeWithDAG(id NodeID, repl *DAG, wireMap map[circuit.Wire]circuit.Wire) ([]*Node, error) {
	target, err := d.Node(id)
	if err != nil {
		return nil, err
	}
	if target.kind != OpNode {
		return nil, fmt.Errorf("node %d is a wire boundary, not an operation: %w", id, ErrNodeNotFound)
	}

	hostWires, err := d.mappedWires(target, repl, wireMap)
	if err != nil {
		return nil, err
	}

	replOps, err := repl.TopologicalNodes()
	if err != nil {
		return nil, fmt.Errorf("replacement: %w", err)
	}

	// Past this point every check has passed; mutate the host.
	inserted := make([]*Node, 0, len(replOps))
	idMap := make(map[NodeID]NodeID, len(replOps))
	for _, rn := range replOps {
		n := d.newNode(&Node{
			kind:  OpNode,
			op:    rn.op,
			qargs: translateWires(rn.qargs, wireMap),
			cargs: translateWires(rn.cargs, wireMap),
		})
		idMap[rn.id] = n.id
		inserted = append(inserted, n)
	}

	for rw, hw := range hostWires {
		p := d.pred[target.id][hw]
		s := d.succ[target.id][hw]

		prev := p
		for _, rid := range repl.wireChain(rw) {
			cur := idMap[rid]
			d.succ[prev][hw] = cur
			d.pred[cur][hw] = prev
			prev = cur
		}
		d.succ[prev][hw] = s
		d.pred[s][hw] = prev
	}

	delete(d.pred, target.id)
	delete(d.succ, target.id)
	delete(d.nodes, target.id)
	d.opCnt--

	return inserted, nil
}

// mappedWires resolves and validates the replacement-to-host wire mapping,
// returning it restricted to the replacement's wires.
func (d *DAG) mappedWires(target *Node, repl *DAG, wireMap map[circuit.Wire]circuit.Wire) (map[circuit.Wire]circuit.Wire, error) {
	targetWires := make(map[circuit.Wire]bool)
	for _, w := range target.Wires() {
		targetWires[w] = true
	}

	mapped := make(map[circuit.Wire]circuit.Wire, len(repl.wires))
	used := make(map[circuit.Wire]bool, len(repl.wires))
	for _, rw := range repl.wires {
		hw, ok := wireMap[rw]
		if !ok {
			return nil, fmt.Errorf("replacement wire %s has no mapping: %w", rw, circuit.ErrArityMismatch)
		}
		if rw.Kind != hw.Kind {
			return nil, fmt.Errorf("replacement wire %s maps across kinds to %s: %w", rw, hw, circuit.ErrArityMismatch)
		}
		if !targetWires[hw] {
			return nil, fmt.Errorf("replacement wire %s maps to %s, which node %d does not touch: %w",
				rw, hw, target.id, circuit.ErrArityMismatch)
		}
		if used[hw] {
			return nil, fmt.Errorf("host wire %s mapped twice: %w", hw, circuit.ErrArityMismatch)
		}
		used[hw] = true
		mapped[rw] = hw
	}
	if len(mapped) != len(targetWires) {
		return nil, fmt.Errorf("replacement covers %d of node %d's %d wires: %w",
			len(mapped), target.id, len(targetWires), circuit.ErrArityMismatch)
	}
	return mapped, nil
}

func translateWires(wires []circuit.Wire, wireMap map[circuit.Wire]circuit.Wire) []circuit.Wire {
	out := make([]circuit.Wire, len(wires))
	for i, w := range wires {
		out[i] = wireMap[w]
	}
	return out
}
