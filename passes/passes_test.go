package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdag-xyz/go-qdag/dag"
	"github.com/qdag-xyz/go-qdag/gatelib"
	"github.com/qdag-xyz/go-qdag/passmanager"
	"github.com/qdag-xyz/go-qdag/property"
)

func bell(t *testing.T) *dag.DAG {
	t.Helper()
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		H("q", 0).
		CX("q", 0, "q", 1).
		Done()
	require.NoError(t, err)
	return d
}

func TestDeepestPath(t *testing.T) {
	d := bell(t)
	props := property.NewSet()

	out, err := NewDeepestPath().Run(d, props)
	require.NoError(t, err)
	assert.Nil(t, out)

	path, ok := property.As[[]*dag.Node](props, "deepest_path")
	require.True(t, ok)
	require.Len(t, path, 2)
	assert.Equal(t, "h", path[0].Op().Name)
	assert.Equal(t, "cx", path[1].Op().Name)
}

func TestScalarAnalyses(t *testing.T) {
	d := bell(t)
	props := property.NewSet()

	for _, p := range []passmanager.Pass{
		NewDepth(), NewSize(), NewWidth(), NewCountOps(), NewNumTensorFactors(),
	} {
		_, err := p.Run(d, props)
		require.NoError(t, err, p.Name())
	}

	depth, _ := props.Int("depth")
	size, _ := props.Int("size")
	width, _ := props.Int("width")
	factors, _ := props.Int("num_tensor_factors")
	counts, _ := props.Counts("count_ops")

	assert.Equal(t, 2, depth)
	assert.Equal(t, 2, size)
	assert.Equal(t, 2, width)
	assert.Equal(t, 1, factors)
	assert.Equal(t, map[string]int{"h": 1, "cx": 1}, counts)
}

func TestDecomposeISwap(t *testing.T) {
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		ISwap("q", 0, "q", 1).
		Done()
	require.NoError(t, err)

	out, err := NewDecompose("iswap", gatelib.Source).Run(d, property.NewSet())
	require.NoError(t, err)
	require.NotNil(t, out, "expansion must report a change")

	counts := out.CountOps()
	assert.Equal(t, 0, counts["iswap"])
	assert.Equal(t, map[string]int{"s": 2, "h": 2, "cx": 2}, counts)

	// Expansion preserves acyclicity.
	_, err = out.TopologicalNodes()
	assert.NoError(t, err)
}

func TestDecomposeNoMatchUnchanged(t *testing.T) {
	d := bell(t)
	out, err := NewDecompose("iswap", gatelib.Source).Run(d, property.NewSet())
	require.NoError(t, err)
	assert.Nil(t, out, "nothing to expand means no change")
}

func TestUnrollToBasis(t *testing.T) {
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		Swap("q", 0, "q", 1).
		CZ("q", 0, "q", 1).
		Done()
	require.NoError(t, err)

	out, err := NewUnroll([]string{"h", "s", "sdg", "cx"}, gatelib.Source).
		Run(d, property.NewSet())
	require.NoError(t, err)
	require.NotNil(t, out)

	for name, n := range out.CountOps() {
		switch name {
		case "h", "s", "sdg", "cx":
		default:
			t.Errorf("gate %q (x%d) survived unrolling", name, n)
		}
	}
	// swap -> 3 cx; cz -> h cx h.
	assert.Equal(t, 4, out.CountOps()["cx"])
	assert.Equal(t, 2, out.CountOps()["h"])
}

func TestUnrollUnknownGateFails(t *testing.T) {
	d, err := gatelib.NewCircuit().
		Qreg("q", 1).
		Op(gatelib.Rotation("mystery", 0.1), []gatelib.Ref{gatelib.At("q", 0)}, nil).
		Done()
	require.NoError(t, err)

	_, err = NewUnroll([]string{"cx"}, gatelib.Source).Run(d, property.NewSet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestFixedPointTracksProperty(t *testing.T) {
	d := bell(t)
	props := property.NewSet()
	depth := NewDepth()
	fp := NewFixedPoint("depth")

	// First sighting: no previous value to agree with.
	_, err := depth.Run(d, props)
	require.NoError(t, err)
	_, err = fp.Run(d, props)
	require.NoError(t, err)
	stable, ok := props.Bool("depth_fixed_point")
	require.True(t, ok)
	assert.False(t, stable)

	// Unchanged value: fixed point.
	_, err = depth.Run(d, props)
	require.NoError(t, err)
	_, err = fp.Run(d, props)
	require.NoError(t, err)
	stable, _ = props.Bool("depth_fixed_point")
	assert.True(t, stable)

	// Value moves again: no longer at a fixed point.
	props.Set("depth", 99)
	_, err = fp.Run(d, props)
	require.NoError(t, err)
	stable, _ = props.Bool("depth_fixed_point")
	assert.False(t, stable)
}

func TestDecomposeInsidePipeline(t *testing.T) {
	d, err := gatelib.NewCircuit().
		Qreg("q", 2).
		H("q", 0).
		ISwap("q", 0, "q", 1).
		Done()
	require.NoError(t, err)

	pm := passmanager.New().
		Append(NewDecompose("iswap", gatelib.Source)).
		Append(NewDepth()).
		Append(NewCountOps())

	res, err := pm.Run(d)
	require.NoError(t, err)
	assert.Equal(t, passmanager.Completed, res.State)

	counts, _ := res.Properties.Counts("count_ops")
	assert.Equal(t, 0, counts["iswap"])
	assert.Equal(t, 2, d.Size(), "pipeline input stays untouched")
	assert.Equal(t, 7, res.DAG.Size())
}
