package id_test

import (
	"testing"

	"github.com/pierotofy/entwine/id"
	"github.com/stretchr/testify/require"
)

func TestLshAddSimple(t *testing.T) {
	base := id.FromUint64(1)
	shifted := base.Lsh(3).AddUint64(5) // 1<<3 + 5 = 13
	v, err := shifted.Simple()
	require.NoError(t, err)
	require.Equal(t, uint64(13), v)
}

func TestSubGuardsNegative(t *testing.T) {
	a := id.FromUint64(3)
	b := id.FromUint64(5)
	_, ok := a.Sub(b)
	require.False(t, ok)

	res, ok := b.Sub(a)
	require.True(t, ok)
	v, err := res.Simple()
	require.NoError(t, err)
	require.Equal(t, uint64(2), v)
}

func TestSimpleOverflow(t *testing.T) {
	huge := id.FromUint64(1).Lsh(200)
	_, err := huge.Simple()
	require.ErrorIs(t, err, id.ErrOverflow)
}

func TestCmp(t *testing.T) {
	a := id.FromUint64(10)
	b := id.FromUint64(20)
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, b.GreaterOrEqual(a))
	require.Equal(t, 0, a.Cmp(id.FromUint64(10)))
}

func TestString(t *testing.T) {
	require.Equal(t, "255", id.FromUint64(255).String())
}

func TestRshInvertsLsh(t *testing.T) {
	base := id.FromUint64(13)
	v, err := base.Lsh(3).Rsh(3).Simple()
	require.NoError(t, err)
	require.Equal(t, uint64(13), v)
}
