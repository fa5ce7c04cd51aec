package elog_test

import (
	"testing"

	"github.com/pierotofy/entwine/internal/elog"
	"github.com/stretchr/testify/require"
)

func TestNewAcceptsKnownLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := elog.New(lvl)
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

func TestNewFallsBackOnUnknownLevel(t *testing.T) {
	log, err := elog.New("not-a-level")
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNoop(t *testing.T) {
	require.NotNil(t, elog.Noop())
}
