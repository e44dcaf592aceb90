package dag

import (
	"errors"
	"testing"

	"github.com/qdag-xyz/go-qdag/circuit"
)

// iswapReplacement builds the standard iswap decomposition over a local
// 2-qubit register: s a; s b; h a; cx a,b; cx b,a; h b.
func iswapReplacement(t *testing.T) (*DAG, []circuit.Wire) {
	t.Helper()
	reg := circuit.NewRegistry()
	qr, err := reg.DeclareRegister("q", 2, circuit.Qubit)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	q := qr.Wires()
	d, err := New(reg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	steps := []struct {
		name  string
		qargs []circuit.Wire
	}{
		{"s", []circuit.Wire{q[0]}},
		{"s", []circuit.Wire{q[1]}},
		{"h", []circuit.Wire{q[0]}},
		{"cx", []circuit.Wire{q[0], q[1]}},
		{"cx", []circuit.Wire{q[1], q[0]}},
		{"h", []circuit.Wire{q[1]}},
	}
	for _, s := range steps {
		if _, err := d.ApplyOperation(gate(s.name, len(s.qargs)), s.qargs, nil); err != nil {
			t.Fatalf("apply %s: %v", s.name, err)
		}
	}
	return d, q
}

func TestSubstituteNodeWithDAG(t *testing.T) {
	reg, q, _ := testWires(t, 3, 0)
	host, _ := New(reg)
	host.ApplyOperation(gate("h", 1), []circuit.Wire{q[0]}, nil)
	iswap, _ := host.ApplyOperation(gate("iswap", 2), []circuit.Wire{q[0], q[1]}, nil)
	host.ApplyOperation(gate("z", 1), []circuit.Wire{q[1]}, nil)

	repl, local := iswapReplacement(t)
	wireMap := map[circuit.Wire]circuit.Wire{local[0]: q[0], local[1]: q[1]}

	inserted, err := host.SubstituteNodeWithDAG(iswap.ID(), repl, wireMap)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if len(inserted) != 6 {
		t.Fatalf("expected 6 inserted nodes, got %d", len(inserted))
	}
	if host.Size() != 8 {
		t.Errorf("expected 8 operations, got %d", host.Size())
	}

	// The substituted node's ID is dead.
	if _, err := host.Node(iswap.ID()); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound for replaced node, got %v", err)
	}

	// Wire q[0]: h, then the translated chain s,h,cx,cx.
	names := func(w circuit.Wire) []string {
		nodes, err := host.WireNodes(w)
		if err != nil {
			t.Fatalf("wire nodes %s: %v", w, err)
		}
		out := make([]string, len(nodes))
		for i, n := range nodes {
			out[i] = n.Op().Name
		}
		return out
	}

	wantQ0 := []string{"h", "s", "h", "cx", "cx"}
	wantQ1 := []string{"s", "cx", "cx", "h", "z"}
	for i, w := range wantQ0 {
		if got := names(q[0]); got[i] != w {
			t.Fatalf("q[0] chain %v, want %v", got, wantQ0)
		}
	}
	for i, w := range wantQ1 {
		if got := names(q[1]); got[i] != w {
			t.Fatalf("q[1] chain %v, want %v", got, wantQ1)
		}
	}

	// Untouched wire stays untouched.
	if got := names(q[2]); len(got) != 0 {
		t.Errorf("q[2] should be idle, got %v", got)
	}

	// The rewritten graph is still a valid DAG.
	if _, err := host.TopologicalNodes(); err != nil {
		t.Errorf("topological order after substitution: %v", err)
	}
}

func TestSubstituteRoundTrip(t *testing.T) {
	// Substituting a node with a single-operation DAG holding the same
	// descriptor reproduces an equivalent circuit.
	reg, q, _ := testWires(t, 2, 0)
	host, _ := New(reg)
	host.ApplyOperation(gate("h", 1), []circuit.Wire{q[0]}, nil)
	cx, _ := host.ApplyOperation(gate("cx", 2), []circuit.Wire{q[0], q[1]}, nil)
	host.ApplyOperation(gate("z", 1), []circuit.Wire{q[1]}, nil)

	want, err := host.Replay()
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	lreg := circuit.NewRegistry()
	lq, _ := lreg.DeclareRegister("x", 2, circuit.Qubit)
	repl, _ := New(lreg)
	repl.ApplyOperation(gate("cx", 2), []circuit.Wire{lq.Wire(0), lq.Wire(1)}, nil)

	_, err = host.SubstituteNodeWithDAG(cx.ID(), repl, map[circuit.Wire]circuit.Wire{
		lq.Wire(0): q[0],
		lq.Wire(1): q[1],
	})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}

	if !SameWireOrder(host, want) {
		t.Error("identity substitution changed per-wire order")
	}
}

func TestSubstituteWireMismatch(t *testing.T) {
	reg, q, _ := testWires(t, 3, 0)
	host, _ := New(reg)
	cx, _ := host.ApplyOperation(gate("cx", 2), []circuit.Wire{q[0], q[1]}, nil)

	repl, local := iswapReplacement(t)

	tests := []struct {
		name    string
		wireMap map[circuit.Wire]circuit.Wire
	}{
		{"missing mapping", map[circuit.Wire]circuit.Wire{local[0]: q[0]}},
		{"wire outside node", map[circuit.Wire]circuit.Wire{local[0]: q[0], local[1]: q[2]}},
		{"two wires collide", map[circuit.Wire]circuit.Wire{local[0]: q[0], local[1]: q[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := host.SubstituteNodeWithDAG(cx.ID(), repl, tt.wireMap)
			if !errors.Is(err, circuit.ErrArityMismatch) {
				t.Errorf("expected ErrArityMismatch, got %v", err)
			}
		})
	}

	// Host untouched by the failed attempts.
	if host.Size() != 1 {
		t.Errorf("failed substitution mutated the host, size %d", host.Size())
	}
}

func TestSubstituteIdleReplacementWire(t *testing.T) {
	// A replacement wire with no operations on it still splices: the host
	// predecessor connects straight to the host successor.
	reg, q, _ := testWires(t, 2, 0)
	host, _ := New(reg)
	host.ApplyOperation(gate("h", 1), []circuit.Wire{q[1]}, nil)
	cx, _ := host.ApplyOperation(gate("cx", 2), []circuit.Wire{q[0], q[1]}, nil)
	host.ApplyOperation(gate("h", 1), []circuit.Wire{q[1]}, nil)

	lreg := circuit.NewRegistry()
	lq, _ := lreg.DeclareRegister("x", 2, circuit.Qubit)
	repl, _ := New(lreg)
	// Only acts on the first local qubit; the second is pass-through.
	repl.ApplyOperation(gate("x", 1), []circuit.Wire{lq.Wire(0)}, nil)

	_, err := host.SubstituteNodeWithDAG(cx.ID(), repl, map[circuit.Wire]circuit.Wire{
		lq.Wire(0): q[0],
		lq.Wire(1): q[1],
	})
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}

	nodes, err := host.WireNodes(q[1])
	if err != nil {
		t.Fatalf("wire nodes: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Op().Name != "h" || nodes[1].Op().Name != "h" {
		t.Errorf("expected q[1] chain [h h], got %v", nodes)
	}
}
