package endpoint_test

import (
	"context"
	"testing"
	"time"

	"github.com/pierotofy/entwine/endpoint"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)

	require.NoError(t, ep.Put(context.Background(), "42", []byte("hello")))
	data, err := ep.Get(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestGetNotFoundIsNotRetried(t *testing.T) {
	mem := endpoint.NewMemory()
	ep := endpoint.New(mem, nil)

	_, err := ep.Get(context.Background(), "missing")
	require.ErrorIs(t, err, endpoint.ErrNotFound)
}

func TestPutRetriesThenSucceeds(t *testing.T) {
	mem := endpoint.NewMemory()
	mem.FailNext = 19
	ep := endpoint.New(mem, nil)

	require.NoError(t, ep.Put(context.Background(), "1", []byte("data")))
}

func TestPutExhaustsRetries(t *testing.T) {
	mem := endpoint.NewMemory()
	mem.FailNext = 1 << 30 // always fails
	ep := endpoint.New(mem, nil)

	err := ep.Put(context.Background(), "1", []byte("data"))
	var fatal *endpoint.ErrFatalEndpoint
	require.ErrorAs(t, err, &fatal)
	require.Equal(t, "put", fatal.Op)
}

func TestBackoffIsLinearPerAttempt(t *testing.T) {
	mem := endpoint.NewMemory()
	mem.FailNext = 1 << 30
	ep := endpoint.New(mem, nil)

	var slept []time.Duration
	endpoint.SetSleepForTest(ep, func(d time.Duration) { slept = append(slept, d) })

	_ = ep.Put(context.Background(), "1", []byte("x"))
	require.Len(t, slept, endpoint.MaxAttempts-1)
	require.Equal(t, time.Second, slept[0])
	require.Equal(t, 2*time.Second, slept[1])
}
