package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTailRoundTrip(t *testing.T) {
	for _, ty := range []Type{Sparse, Contiguous} {
		payload := []byte{1, 2, 3, 4, 5}
		blob := pushTail(payload, 42, ty)
		gotPayload, gotN, gotTy, err := popTail(blob)
		require.NoError(t, err)
		require.Equal(t, payload, gotPayload)
		require.Equal(t, uint64(42), gotN)
		require.Equal(t, ty, gotTy)
	}
}

func TestPopTailRejectsShortBlob(t *testing.T) {
	_, _, _, err := popTail([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedBlob)
}

func TestPopTailRejectsUnknownType(t *testing.T) {
	blob := pushTail(nil, 0, Sparse)
	blob[len(blob)-1] = 7
	_, _, _, err := popTail(blob)
	require.ErrorIs(t, err, ErrMalformedBlob)
}

func TestEmptyChunkTailBytes(t *testing.T) {
	blob := pushTail(nil, 0, Contiguous)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 1}, blob)
}
