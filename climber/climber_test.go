package climber_test

import (
	"testing"

	"github.com/pierotofy/entwine/climber"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/structure"
	"github.com/stretchr/testify/require"
)

func rootBBox() geom.BBox {
	return geom.NewBBox(geom.Point{X: -1, Y: -1, Z: -1}, geom.Point{X: 1, Y: 1, Z: 1})
}

func TestMagnifyOutOfBounds(t *testing.T) {
	st, err := structure.New(3, 6, 8, 0, 4096)
	require.NoError(t, err)
	c := climber.New(st, rootBBox())
	err = c.Magnify(geom.Point{X: 5, Y: 0, Z: 0})
	require.ErrorIs(t, err, climber.ErrOutOfBounds)
}

func TestIndexComposition(t *testing.T) {
	st, err := structure.New(3, 6, 8, 0, 4096)
	require.NoError(t, err)
	c := climber.New(st, rootBBox())

	// Always descend into the "neu" octant (all bits set): dir=7.
	p := geom.Point{X: 0.999, Y: 0.999, Z: 0.999}
	for d := 0; d < 5; d++ {
		require.NoError(t, c.Magnify(p))
	}
	require.Equal(t, uint32(5), c.Depth())

	// index = sum_{k=0}^{d-1} dir_k * factor^k + (factor^d - 1)/(factor-1)
	factor := uint64(8)
	dir := uint64(7)
	var sum uint64
	pow := uint64(1)
	for k := 0; k < 5; k++ {
		sum += dir * pow
		pow *= factor
	}
	offset := (pow - 1) / (factor - 1)
	want := sum + offset

	got, err := c.Index().Simple()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestChunkPointsGrowAtSparseThreshold(t *testing.T) {
	// nominalChunkDepth sits one level below sparseDepthBegin, so the
	// climb from depth 9 to depth 10 is the first (and only) sparse-regime
	// step: chunkPoints grows by exactly one factor multiplication,
	// matching spec.md §8 boundary scenario 4's
	// baseChunkPoints * factor^(sparseDepthBegin - nominalChunkDepth) with
	// an exponent of 1.
	nominal := uint32(9)
	cold := uint32(9)
	sparse := uint32(10)
	base := uint64(64)
	st, err := structure.New(3, nominal, cold, sparse, base)
	require.NoError(t, err)
	c := climber.New(st, rootBBox())

	p := geom.Point{X: 0.1, Y: 0.1, Z: 0.1}
	for d := uint32(0); d < sparse; d++ {
		require.NoError(t, c.Magnify(p))
	}
	require.Equal(t, sparse, c.Depth())
	want := base * pow64(st.Factor, uint64(sparse-nominal))
	require.Equal(t, want, c.ChunkPoints())
}

func pow64(base, exp uint64) uint64 {
	r := uint64(1)
	for i := uint64(0); i < exp; i++ {
		r *= base
	}
	return r
}
