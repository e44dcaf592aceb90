package passes

import (
	"fmt"

	"github.com/qdag-xyz/go-qdag/circuit"
	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/property"
)

// Decompose expands every operation with the given name into its
// definition, substituting the definition's sub-DAG in place. The
// definition comes from the operation descriptor itself or, failing that,
// from the Source lookup; an operation with neither is left alone.
type Decompose struct {
	base

	// Target is the operation name to expand.
	Target string

	// Source supplies definitions for descriptors that carry none.
	// Optional.
	Source DefinitionSource
}

// NewDecompose creates a transformation expanding the named operation.
func NewDecompose(target string, source DefinitionSource) *Decompose {
	return &Decompose{
		base:   transformation("decompose"),
		Target: target,
		Source: source,
	}
}

// Run expands matching nodes. It returns the rewritten DAG when at least
// one node was expanded, nil otherwise.
func (p *Decompose) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	ops, err := d.TopologicalNodes()
	if err != nil {
		return nil, err
	}

	changed := false
	for _, n := range ops {
		if n.Op().Name != p.Target {
			continue
		}
		def, ok := p.definition(n.Op())
		if !ok {
			continue
		}
		if err := expandNode(d, n, def); err != nil {
			return nil, err
		}
		changed = true
	}

	if !changed {
		return nil, nil
	}
	return d, nil
}

func (p *Decompose) definition(op circuit.Operation) ([]circuit.Instruction, bool) {
	if len(op.Definition) > 0 {
		return op.Definition, true
	}
	if p.Source != nil {
		return p.Source(op)
	}
	return nil, false
}

// Unroll rewrites the circuit down to a basis gate set, recursively
// expanding every operation whose name is outside the basis. An operation
// outside the basis with no available definition fails the pass.
type Unroll struct {
	base

	// Basis is the set of operation names left untouched.
	Basis map[string]bool

	// Source supplies definitions for descriptors that carry none.
	Source DefinitionSource

	// MaxDepth bounds definition nesting, guarding against self-referential
	// definitions. Zero means DefaultUnrollDepth.
	MaxDepth int
}

// DefaultUnrollDepth bounds definition nesting during Unroll.
const DefaultUnrollDepth = 100

// NewUnroll creates a transformation unrolling to the given basis names.
func NewUnroll(basis []string, source DefinitionSource) *Unroll {
	set := make(map[string]bool, len(basis))
	for _, name := range basis {
		set[name] = true
	}
	return &Unroll{
		base:   transformation("unroll"),
		Basis:  set,
		Source: source,
	}
}

// Run expands until every operation name is in the basis. It returns the
// rewritten DAG when anything was expanded, nil otherwise.
func (p *Unroll) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultUnrollDepth
	}

	changed := false
	for level := 0; ; level++ {
		ops, err := d.TopologicalNodes()
		if err != nil {
			return nil, err
		}

		expanded := false
		for _, n := range ops {
			if p.Basis[n.Op().Name] {
				continue
			}
			def, ok := p.definition(n.Op())
			if !ok {
				return nil, fmt.Errorf("cannot unroll %q: not in basis and no definition", n.Op().Name)
			}
			if err := expandNode(d, n, def); err != nil {
				return nil, err
			}
			expanded = true
		}

		if !expanded {
			break
		}
		changed = true
		if level+1 >= maxDepth {
			return nil, fmt.Errorf("unroll exceeded %d levels, definition likely self-referential", maxDepth)
		}
	}

	if !changed {
		return nil, nil
	}
	return d, nil
}

func (p *Unroll) definition(op circuit.Operation) ([]circuit.Instruction, bool) {
	if len(op.Definition) > 0 {
		return op.Definition, true
	}
	if p.Source != nil {
		return p.Source(op)
	}
	return nil, false
}

// expandNode substitutes one node with the sub-DAG described by a
// definition over the canonical local registers "q" and "c".
func expandNode(d *dag.DAG, n *dag.Node, def []circuit.Instruction) error {
	op := n.Op()

	reg := circuit.NewRegistry()
	var localQ, localC []circuit.Wire
	if op.NumQubits > 0 {
		qr, err := reg.DeclareRegister("q", op.NumQubits, circuit.Qubit)
		if err != nil {
			return err
		}
		localQ = qr.Wires()
	}
	if op.NumClbits > 0 {
		cr, err := reg.DeclareRegister("c", op.NumClbits, circuit.Clbit)
		if err != nil {
			return err
		}
		localC = cr.Wires()
	}

	repl, err := dag.New(reg)
	if err != nil {
		return err
	}
	for _, inst := range def {
		if _, err := repl.Apply(inst); err != nil {
			return fmt.Errorf("definition of %q: %w", op.Name, err)
		}
	}

	wireMap := make(map[circuit.Wire]circuit.Wire, len(localQ)+len(localC))
	for i, w := range localQ {
		wireMap[w] = n.Qargs()[i]
	}
	for i, w := range localC {
		wireMap[w] = n.Cargs()[i]
	}

	_, err = d.SubstituteNodeWithDAG(n.ID(), repl, wireMap)
	return err
}
