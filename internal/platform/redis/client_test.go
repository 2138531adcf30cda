package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ficha/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	client, err := New(config.RedisConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(config.RedisConfig{URL: "not a url"}, nil)
	require.Error(t, err)
}

func TestNewConnectsAndReportsHealth(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(config.RedisConfig{URL: "redis://" + mr.Addr(), PoolSize: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestRecordPoolStats(t *testing.T) {
	mr := miniredis.RunT(t)
	metrics := NewPoolMetrics(prometheus.NewRegistry())
	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}), metrics)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	client.RecordPoolStats()
	first := promtest.ToFloat64(metrics.Hits) + promtest.ToFloat64(metrics.Misses)
	assert.Positive(t, first)
	assert.Positive(t, promtest.ToFloat64(metrics.TotalConns))

	require.NoError(t, client.Get(ctx, "k").Err())
	client.RecordPoolStats()
	second := promtest.ToFloat64(metrics.Hits) + promtest.ToFloat64(metrics.Misses)
	assert.Greater(t, second, first)
}

func TestRecordPoolStatsWithoutMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}), nil)
	t.Cleanup(func() { _ = client.Close() })

	assert.NotPanics(t, client.RecordPoolStats)
}
