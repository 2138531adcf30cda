package models

import (
	"fmt"
	"strings"
	"time"
)

type EndpointClass string

const (
	// ClassSessionOpen covers the public routes that start a form session.
	ClassSessionOpen EndpointClass = "session_open"
	// ClassBranding covers the public tenant branding lookup, which may
	// provision a tenant record.
	ClassBranding EndpointClass = "branding"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassSessionOpen, ClassBranding:
		return true
	}
	return false
}

// KeyPrefix represents the type of rate limit key.
type KeyPrefix string

const KeyPrefixIP KeyPrefix = "ip"

// RateLimitKey builds bucket keys from caller-controlled identifiers.
type RateLimitKey struct {
	prefix     KeyPrefix
	identifier string
	class      EndpointClass
}

func NewRateLimitKey(prefix KeyPrefix, identifier string, class EndpointClass) RateLimitKey {
	return RateLimitKey{
		prefix:     prefix,
		identifier: sanitizeKeySegment(identifier),
		class:      class,
	}
}

func (k RateLimitKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.prefix, k.identifier, k.class)
}

// sanitizeKeySegment escapes '_' first and then ':' so two distinct
// identifiers never share a bucket. IPv6 addresses carry colons.
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}

// RateLimitResult is the outcome of one bucket check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}

type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
