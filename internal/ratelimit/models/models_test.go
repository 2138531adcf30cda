package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitKey(t *testing.T) {
	t.Run("formats prefix identifier and class", func(t *testing.T) {
		key := NewRateLimitKey(KeyPrefixIP, "203.0.113.7", ClassSessionOpen)
		assert.Equal(t, "ip:203.0.113.7:session_open", key.String())
	})

	t.Run("escapes IPv6 colons", func(t *testing.T) {
		key := NewRateLimitKey(KeyPrefixIP, "2001:db8::1", ClassBranding)
		assert.Equal(t, "ip:2001_cdb8_c_c1:branding", key.String())
	})

	t.Run("distinct identifiers never collide", func(t *testing.T) {
		a := NewRateLimitKey(KeyPrefixIP, "a_:b", ClassBranding)
		b := NewRateLimitKey(KeyPrefixIP, "a:_b", ClassBranding)
		assert.NotEqual(t, a.String(), b.String())
	})
}

func TestEndpointClassIsValid(t *testing.T) {
	assert.True(t, ClassSessionOpen.IsValid())
	assert.True(t, ClassBranding.IsValid())
	assert.False(t, EndpointClass("admin").IsValid())
}
