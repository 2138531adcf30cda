package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	evicted int
	err     error
	calls   atomic.Int32
}

func (r *stubRegistry) EvictIdle(context.Context) (int, error) {
	r.calls.Add(1)
	return r.evicted, r.err
}

type stubPruner struct {
	pruned int
	err    error
}

func (p *stubPruner) Prune(context.Context) (int, error) {
	return p.pruned, p.err
}

func TestNewRequiresRegistry(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	t.Run("reports evicted sessions", func(t *testing.T) {
		svc, err := New(&stubRegistry{evicted: 3})
		require.NoError(t, err)

		res, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, res.EvictedSessions)
	})

	t.Run("wraps registry errors", func(t *testing.T) {
		boom := errors.New("boom")
		svc, err := New(&stubRegistry{err: boom})
		require.NoError(t, err)

		_, err = svc.RunOnce(context.Background())
		require.ErrorIs(t, err, boom)
	})
}

func TestRunOncePrunesBuckets(t *testing.T) {
	t.Run("reports pruned buckets", func(t *testing.T) {
		svc, err := New(&stubRegistry{evicted: 1}, WithBucketPruner(&stubPruner{pruned: 4}))
		require.NoError(t, err)

		res, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, CleanupResult{EvictedSessions: 1, PrunedBuckets: 4}, res)
	})

	t.Run("keeps the eviction count when pruning fails", func(t *testing.T) {
		boom := errors.New("boom")
		svc, err := New(&stubRegistry{evicted: 2}, WithBucketPruner(&stubPruner{err: boom}))
		require.NoError(t, err)

		res, err := svc.RunOnce(context.Background())
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 2, res.EvictedSessions)
	})
}

func TestStartTicksUntilCancelled(t *testing.T) {
	reg := &stubRegistry{}
	svc, err := New(reg, WithCleanupInterval(5*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	require.Eventually(t, func() bool { return reg.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
