package passes

import (
	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/property"
)

// DeepestPath writes the ordered operation nodes of a maximum-length path
// to the "deepest_path" property. It is read-only and requires nothing; on
// a malformed (cyclic) DAG it fails with the graph's invariant violation,
// which a well-formed DAG never produces.
type DeepestPath struct{ base }

// NewDeepestPath creates the deepest-path analysis.
func NewDeepestPath() *DeepestPath {
	return &DeepestPath{analysis("deepest_path")}
}

// Run computes the longest path and publishes it.
func (p *DeepestPath) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	path, err := d.LongestPath()
	if err != nil {
		return nil, err
	}
	props.Set("deepest_path", path)
	return nil, nil
}

// Depth writes the circuit depth (longest-path length in operation nodes)
// to the "depth" property.
type Depth struct{ base }

// NewDepth creates the depth analysis.
func NewDepth() *Depth {
	return &Depth{analysis("depth")}
}

// Run computes and publishes the depth.
func (p *Depth) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	depth, err := d.Depth()
	if err != nil {
		return nil, err
	}
	props.Set("depth", depth)
	return nil, nil
}

// Size writes the operation-node count to the "size" property.
type Size struct{ base }

// NewSize creates the size analysis.
func NewSize() *Size {
	return &Size{analysis("size")}
}

// Run publishes the operation count.
func (p *Size) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	props.Set("size", d.Size())
	return nil, nil
}

// Width writes the wire count to the "width" property.
type Width struct{ base }

// NewWidth creates the width analysis.
func NewWidth() *Width {
	return &Width{analysis("width")}
}

// Run publishes the wire count.
func (p *Width) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	props.Set("width", d.Width())
	return nil, nil
}

// CountOps writes the operation-name histogram to the "count_ops" property.
type CountOps struct{ base }

// NewCountOps creates the operation-count analysis.
func NewCountOps() *CountOps {
	return &CountOps{analysis("count_ops")}
}

// Run publishes the histogram.
func (p *CountOps) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	props.Set("count_ops", d.CountOps())
	return nil, nil
}

// NumTensorFactors writes the number of independent wire components to the
// "num_tensor_factors" property.
type NumTensorFactors struct{ base }

// NewNumTensorFactors creates the tensor-factor analysis.
func NewNumTensorFactors() *NumTensorFactors {
	return &NumTensorFactors{analysis("num_tensor_factors")}
}

// Run publishes the component count.
func (p *NumTensorFactors) Run(d *dag.DAG, props *property.Set) (*dag.DAG, error) {
	props.Set("num_tensor_factors", d.NumTensorFactors())
	return nil, nil
}
