package passes

import (
	"reflect"

	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/passmanager"
	"github.com/qdag-xyz/go-qdag/property"
)

// FixedPoint tracks a property across repeated executions and writes
// "<property>_fixed_point" true once the value stops changing between two
// consecutive executions. Scheduled inside a repeatable group after the
// analysis that produces the property, it lets later passes observe
// convergence of that analysis.
type FixedPoint struct {
	base

	// Property is the tracked key.
	Property string
}

// NewFixedPoint creates a fixed-point tracker for the named property.
func NewFixedPoint(prop string) *FixedPoint {
	return &FixedPoint{
		base: base{
			name: "fixed_point",
			kind: passmanager.Analysis,
			decl: passmanager.Declarations{Requires: []string{prop}},
		},
		Property: prop,
	}
}

// Run compares the tracked property against its value at the previous
// execution. The previous value is stashed in the property set under a
// private key, so the tracker itself stays stateless across runs.
func (p *FixedPoint) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	cur, _ := props.Get(p.Property)
	prevKey := "_fixed_point_prev_" + p.Property

	prev, seen := props.Get(prevKey)
	props.Set(prevKey, cur)
	props.Set(p.Property+"_fixed_point", seen && reflect.DeepEqual(prev, cur))
	return nil, nil
}
