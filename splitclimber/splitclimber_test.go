package splitclimber_test

import (
	"testing"

	"github.com/pierotofy/entwine/geom"
	"github.com/pierotofy/entwine/id"
	"github.com/pierotofy/entwine/splitclimber"
	"github.com/pierotofy/entwine/structure"
	"github.com/stretchr/testify/require"
)

func fullBBox() geom.BBox {
	return geom.NewBBox(geom.Point{X: -1, Y: -1, Z: -1}, geom.Point{X: 1, Y: 1, Z: 1})
}

type visit struct {
	index id.Id
	depth uint32
}

func walk(t *testing.T, c *splitclimber.SplitClimber) []visit {
	t.Helper()
	var visited []visit
	terminate := false
	for {
		ok, err := c.Next(terminate)
		require.NoError(t, err)
		if !ok {
			break
		}
		visited = append(visited, visit{index: c.Index(), depth: c.Depth()})
		terminate = false
	}
	return visited
}

// TestFullOverlapVisitsEveryNodeExactlyOnce reproduces spec.md's boundary
// scenario: a 3D tree (factor 8) with depthBegin=1, depthEnd=3 and a query
// covering the whole root bbox visits factor + factor^2 = 8 + 64 = 72
// nodes, each exactly once.
func TestFullOverlapVisitsEveryNodeExactlyOnce(t *testing.T) {
	st, err := structure.New(3, 6, 8, 0, 4096)
	require.NoError(t, err)

	c := splitclimber.New(st, fullBBox(), fullBBox(), 1, 3)
	visited := walk(t, c)

	require.Len(t, visited, 8+64)

	seen := make(map[string]bool, len(visited))
	for _, v := range visited {
		key := v.index.String()
		require.False(t, seen[key], "index %s visited more than once", key)
		seen[key] = true
	}
}

// TestNonOverlappingQueryPrunesEntireSubtree confirms a subtree is skipped
// entirely (never descended into) once its ancestor's bbox fails to
// overlap the query region.
func TestNonOverlappingQueryPrunesEntireSubtree(t *testing.T) {
	st, err := structure.New(2, 6, 8, 0, 4096)
	require.NoError(t, err)

	// A query confined to the south-west quadrant of the root: only one of
	// the four depth-1 children (and its four depth-2 children) overlaps.
	query := geom.NewBBox(geom.Point{X: -1, Y: -1, Z: -1}, geom.Point{X: -0.5, Y: -0.5, Z: 1})

	c := splitclimber.New(st, fullBBox(), query, 1, 3)
	visited := walk(t, c)

	require.Len(t, visited, 1+4)
}

// TestDepthWindowExcludesRoot confirms depths below depthBegin are
// traversed but never reported as visits.
func TestDepthWindowExcludesRoot(t *testing.T) {
	st, err := structure.New(2, 6, 8, 0, 4096)
	require.NoError(t, err)

	c := splitclimber.New(st, fullBBox(), fullBBox(), 1, 2)
	visited := walk(t, c)

	require.Len(t, visited, 4)
	for _, v := range visited {
		require.Equal(t, uint32(1), v.depth)
	}
}
