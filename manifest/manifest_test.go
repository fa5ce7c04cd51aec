package manifest_test

import (
	"context"
	"testing"

	"github.com/pierotofy/entwine/endpoint"
	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/manifest"
	"github.com/pierotofy/entwine/schema"
	"github.com/pierotofy/entwine/structure"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st, err := structure.New(3, 6, 8, 10, 4096)
	require.NoError(t, err)
	root := geom.NewBBox(geom.Point{X: -100, Y: -100, Z: -50}, geom.Point{X: 100, Y: 100, Z: 50})
	native := schema.XYZFloat64(schema.Dimension{Name: "Intensity", Size: 2})

	m := manifest.New(st, root, native, 42)

	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)
	require.NoError(t, m.Save(context.Background(), ep))

	loaded, err := manifest.Load(context.Background(), ep)
	require.NoError(t, err)

	require.Equal(t, st, loaded.Structure)
	require.Equal(t, uint64(42), loaded.NumPoints)

	gotBBox := loaded.RootBBox()
	require.Equal(t, root.Min, gotBBox.Min)
	require.Equal(t, root.Max, gotBBox.Max)
	require.Equal(t, root.Mid(), gotBBox.Mid())

	gotSchema := loaded.NativeSchema()
	require.Equal(t, native.PointSize(), gotSchema.PointSize())
	xd, ok := gotSchema.Dimension("Intensity")
	require.True(t, ok)
	require.Equal(t, 2, xd.Size)
}

func TestLoadMissingManifest(t *testing.T) {
	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)
	_, err := manifest.Load(context.Background(), ep)
	require.Error(t, err)
}
