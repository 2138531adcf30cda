package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := New("postal", WithFailureThreshold(2), WithSuccessThreshold(2))

	fallback, change := b.RecordFailure()
	assert.False(t, fallback)
	assert.False(t, change.Opened)

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}

func TestBreakerClosesAfterConsecutiveSuccesses(t *testing.T) {
	b := New("postal", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()

	primary, _ := b.RecordSuccess()
	assert.False(t, primary)

	b.RecordFailure()
	primary, _ = b.RecordSuccess()
	assert.False(t, primary, "failure resets the success streak")

	primary, change := b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreakerSuccessResetsFailuresWhileClosed(t *testing.T) {
	b := New("postal", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	fallback, _ := b.RecordFailure()
	assert.False(t, fallback)

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
