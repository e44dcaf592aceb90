package circuit

import (
	"errors"
	"testing"
)

func TestDeclareRegister(t *testing.T) {
	reg := NewRegistry()

	q, err := reg.DeclareRegister("q", 3, Qubit)
	if err != nil {
		t.Fatalf("declare q: %v", err)
	}
	if q.Size != 3 || q.Kind != Qubit {
		t.Errorf("unexpected register %+v", q)
	}

	wires := q.Wires()
	if len(wires) != 3 {
		t.Fatalf("expected 3 wires, got %d", len(wires))
	}
	for i, w := range wires {
		if w.Index != i || w.Register != "q" || w.Kind != Qubit {
			t.Errorf("wire %d: unexpected %+v", i, w)
		}
	}
}

func TestDeclareRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.DeclareRegister("q", 2, Qubit); err != nil {
		t.Fatalf("declare: %v", err)
	}
	_, err := reg.DeclareRegister("q", 4, Qubit)
	if !errors.Is(err, ErrDuplicateRegister) {
		t.Errorf("expected ErrDuplicateRegister, got %v", err)
	}
}

func TestRegisterNamespacesIndependent(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.DeclareRegister("r", 2, Qubit); err != nil {
		t.Fatalf("declare qubit r: %v", err)
	}
	// Same name, different kind: allowed.
	if _, err := reg.DeclareRegister("r", 2, Clbit); err != nil {
		t.Errorf("declare clbit r: %v", err)
	}

	qw, err := reg.Qubit("r", 1)
	if err != nil {
		t.Fatalf("resolve qubit: %v", err)
	}
	cw, err := reg.Clbit("r", 1)
	if err != nil {
		t.Fatalf("resolve clbit: %v", err)
	}
	if qw == cw {
		t.Error("qubit and clbit wires with the same name/index must differ")
	}
}

func TestResolveUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.DeclareRegister("q", 2, Qubit)

	tests := []struct {
		name     string
		kind     Kind
		register string
		index    int
	}{
		{"undeclared register", Qubit, "anc", 0},
		{"index out of range", Qubit, "q", 2},
		{"negative index", Qubit, "q", -1},
		{"wrong kind", Clbit, "q", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Resolve(tt.kind, tt.register, tt.index)
			if !errors.Is(err, ErrUnknownWire) {
				t.Errorf("expected ErrUnknownWire, got %v", err)
			}
		})
	}
}

func TestRegistryWiresOrder(t *testing.T) {
	reg := NewRegistry()
	reg.DeclareRegister("c", 1, Clbit)
	reg.DeclareRegister("q", 2, Qubit)
	reg.DeclareRegister("a", 1, Qubit)

	wires := reg.Wires()
	want := []Wire{
		{Register: "q", Index: 0, Kind: Qubit},
		{Register: "q", Index: 1, Kind: Qubit},
		{Register: "a", Index: 0, Kind: Qubit},
		{Register: "c", Index: 0, Kind: Clbit},
	}
	if len(wires) != len(want) {
		t.Fatalf("expected %d wires, got %d", len(want), len(wires))
	}
	for i, w := range want {
		if wires[i] != w {
			t.Errorf("wire %d: expected %v, got %v", i, w, wires[i])
		}
	}
}

func TestOperationEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Operation
		equal bool
	}{
		{
			"same gate",
			Operation{Name: "h", NumQubits: 1},
			Operation{Name: "h", NumQubits: 1},
			true,
		},
		{
			"definition ignored",
			Operation{Name: "h", NumQubits: 1},
			Operation{Name: "h", NumQubits: 1, Definition: []Instruction{{}}},
			true,
		},
		{
			"different name",
			Operation{Name: "h", NumQubits: 1},
			Operation{Name: "x", NumQubits: 1},
			false,
		},
		{
			"different params",
			Operation{Name: "rz", Params: []float64{0.5}, NumQubits: 1},
			Operation{Name: "rz", Params: []float64{0.25}, NumQubits: 1},
			false,
		},
		{
			"different arity",
			Operation{Name: "u", NumQubits: 1},
			Operation{Name: "u", NumQubits: 2},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestOperationString(t *testing.T) {
	op := Operation{Name: "rz", Params: []float64{0.5}, NumQubits: 1}
	if s := op.String(); s != "rz(0.5)" {
		t.Errorf("expected rz(0.5), got %s", s)
	}
	if s := (Operation{Name: "cx", NumQubits: 2}).String(); s != "cx" {
		t.Errorf("expected cx, got %s", s)
	}
}

func TestOperationValidate(t *testing.T) {
	bad := Operation{
		Name:      "broken",
		NumQubits: 1,
		Definition: []Instruction{
			{Op: Operation{Name: "h", NumQubits: 1}}, // missing qarg
		},
	}
	if err := bad.Validate(); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("expected ErrArityMismatch, got %v", err)
	}

	ok := Operation{Name: "h", NumQubits: 1}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
