package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	t.Run("falls back to wall clock", func(t *testing.T) {
		before := time.Now()
		got := Now(context.Background())
		assert.False(t, got.Before(before))
	})

	t.Run("returns injected time", func(t *testing.T) {
		pinned := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		ctx := WithTime(context.Background(), pinned)
		assert.Equal(t, pinned, Now(ctx))
	})
}

func TestRequestValues(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithClientIP(ctx, "10.0.0.7")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "10.0.0.7", ClientIP(ctx))
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, ClientIP(context.Background()))
}
