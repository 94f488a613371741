package server

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStarter struct {
	err error
}

func (s stubStarter) Start() error { return s.err }

func TestStartWorkersReleasesOnFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	poolClosed := false

	err := startWorkers(stubStarter{err: errors.New("broker unreachable")},
		func() { poolClosed = true },
		func() { _ = client.Close() },
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start job server")
	assert.True(t, poolClosed)
	assert.ErrorIs(t, client.Ping(context.Background()).Err(), redis.ErrClosed)
}

func TestStartWorkersKeepsResourcesOnSuccess(t *testing.T) {
	released := 0
	err := startWorkers(stubStarter{}, func() { released++ })

	require.NoError(t, err)
	assert.Zero(t, released)
}
