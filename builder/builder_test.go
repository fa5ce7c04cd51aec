package builder_test

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/pierotofy/entwine/builder"
	"github.com/pierotofy/entwine/compression"
	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/manifest"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
	"github.com/stretchr/testify/require"
)

func encodePoint(sch schema.Schema, p geom.Point) []byte {
	buf := make([]byte, sch.PointSize())
	xd, _ := sch.Dimension("X")
	yd, _ := sch.Dimension("Y")
	zd, _ := sch.Dimension("Z")
	binary.LittleEndian.PutUint64(buf[xd.Offset:], math.Float64bits(p.X))
	binary.LittleEndian.PutUint64(buf[yd.Offset:], math.Float64bits(p.Y))
	binary.LittleEndian.PutUint64(buf[zd.Offset:], math.Float64bits(p.Z))
	return buf
}

func rootBBox() geom.BBox {
	return geom.NewBBox(geom.Point{X: -1, Y: -1, Z: -1}, geom.Point{X: 1, Y: 1, Z: 1})
}

func TestInsertAndFlushBaseChunk(t *testing.T) {
	st, err := structure.New(2, 2, 2, 0, 64)
	require.NoError(t, err)
	native := schema.XYZFloat64()

	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)
	b := builder.New(builder.Config{
		Structure: st,
		RootBBox:  rootBBox(),
		Native:    native,
		Codec:     compression.NewZstd(0),
	}, ep, nil)

	points := []geom.Point{
		{X: -0.5, Y: -0.5, Z: 0},
		{X: 0.5, Y: -0.5, Z: 0},
		{X: -0.5, Y: 0.5, Z: 0},
		{X: 0.5, Y: 0.5, Z: 0},
	}
	for _, p := range points {
		require.NoError(t, b.Insert(p, encodePoint(native, p), 2))
	}
	require.Equal(t, uint64(4), b.NumPoints())

	require.NoError(t, b.Flush(context.Background()))

	m, err := manifest.Load(context.Background(), ep)
	require.NoError(t, err)
	require.Equal(t, uint64(4), m.NumPoints)
	require.Equal(t, st, m.Structure)

	_, err = mem.GetOnce(context.Background(), "0")
	require.NoError(t, err)
}

func TestInsertPastNominalOpensNonBaseChunk(t *testing.T) {
	st, err := structure.New(2, 0, 0, 0, 64)
	require.NoError(t, err)
	native := schema.XYZFloat64()

	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)
	b := builder.New(builder.Config{
		Structure: st,
		RootBBox:  rootBBox(),
		Native:    native,
		Codec:     compression.NewZstd(0),
	}, ep, nil)

	// nominalChunkDepth=0: depth 1 is already past the base chunk, so the
	// very first Magnify call opens a real (non-sentinel-depth) contiguous
	// chunk.
	p1 := geom.Point{X: -0.75, Y: -0.75, Z: 0}
	p2 := geom.Point{X: 0.75, Y: 0.75, Z: 0}
	require.NoError(t, b.Insert(p1, encodePoint(native, p1), 1))
	require.NoError(t, b.Insert(p2, encodePoint(native, p2), 1))

	require.NoError(t, b.Flush(context.Background()))
	require.Equal(t, uint64(2), b.NumPoints())
}
