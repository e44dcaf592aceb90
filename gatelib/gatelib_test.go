package gatelib

import (
	"errors"
	"testing"

	"github.com/qdag-xyz/go-qdag/circuit"
)

func TestCatalog(t *testing.T) {
	tests := []struct {
		name    string
		qubits  int
		clbits  int
		defined bool
	}{
		{"h", 1, 0, false},
		{"x", 1, 0, false},
		{"cx", 2, 0, false},
		{"cy", 2, 0, true},
		{"cz", 2, 0, true},
		{"swap", 2, 0, true},
		{"iswap", 2, 0, true},
		{"measure", 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := Get(tt.name)
			if !ok {
				t.Fatalf("gate %q missing from catalog", tt.name)
			}
			if op.NumQubits != tt.qubits || op.NumClbits != tt.clbits {
				t.Errorf("arity (%d,%d), want (%d,%d)", op.NumQubits, op.NumClbits, tt.qubits, tt.clbits)
			}
			if _, ok := Source(op); ok != tt.defined {
				t.Errorf("Source defined = %v, want %v", ok, tt.defined)
			}
		})
	}

	if _, ok := Get("nonsense"); ok {
		t.Error("unknown gate resolved")
	}
}

func TestDefinitionsAreWellFormed(t *testing.T) {
	for name := range definitions {
		t.Run(name, func(t *testing.T) {
			op, _ := Get(name)
			def, _ := Source(op)
			for _, inst := range def {
				if len(inst.Qargs) != inst.Op.NumQubits || len(inst.Cargs) != inst.Op.NumClbits {
					t.Errorf("entry %q: arity mismatch", inst.Op.Name)
				}
				for _, w := range inst.Qargs {
					if w.Register != "q" || w.Index < 0 || w.Index >= op.NumQubits {
						t.Errorf("entry %q: wire %s outside local register", inst.Op.Name, w)
					}
				}
			}
		})
	}
}

func TestISwapDefinition(t *testing.T) {
	op, _ := Get("iswap")
	def, ok := Source(op)
	if !ok {
		t.Fatal("iswap has no definition")
	}

	want := []string{"s", "s", "h", "cx", "cx", "h"}
	if len(def) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(def))
	}
	for i, name := range want {
		if def[i].Op.Name != name {
			t.Errorf("entry %d: expected %s, got %s", i, name, def[i].Op.Name)
		}
	}
}

func TestBuilderBellPair(t *testing.T) {
	d, err := NewCircuit().
		Qreg("q", 2).
		Creg("c", 2).
		H("q", 0).
		CX("q", 0, "q", 1).
		Measure("q", 0, "c", 0).
		Measure("q", 1, "c", 1).
		Done()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if d.Size() != 4 {
		t.Errorf("expected 4 operations, got %d", d.Size())
	}
	if d.Width() != 4 {
		t.Errorf("expected 4 wires, got %d", d.Width())
	}
	depth, err := d.Depth()
	if err != nil || depth != 3 {
		t.Errorf("expected depth 3, got %d (%v)", depth, err)
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
		want  error
	}{
		{
			"duplicate register",
			func() error {
				_, err := NewCircuit().Qreg("q", 1).Qreg("q", 2).Done()
				return err
			},
			circuit.ErrDuplicateRegister,
		},
		{
			"unresolved wire",
			func() error {
				_, err := NewCircuit().Qreg("q", 1).H("anc", 0).Done()
				return err
			},
			circuit.ErrUnknownWire,
		},
		{
			"duplicate wire argument",
			func() error {
				_, err := NewCircuit().Qreg("q", 2).CX("q", 0, "q", 0).Done()
				return err
			},
			circuit.ErrDuplicateWireArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := NewCircuit().Qreg("q", 1).Gate("warp", At("q", 0)).Done(); err == nil {
		t.Error("unknown gate name must fail at Done")
	}
}
