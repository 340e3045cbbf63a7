package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseLimiter_AllowsFirstOccurrence(t *testing.T) {
	nl, err := NewNoiseLimiter(4, time.Minute)
	require.NoError(t, err)

	assert.True(t, nl.Allow("message one"))
	assert.True(t, nl.Allow("message two"))
}

func TestNoiseLimiter_BlocksRepeatWithinWindow(t *testing.T) {
	nl, err := NewNoiseLimiter(4, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	nl.getNow = func() time.Time { return now }

	assert.True(t, nl.Allow("repeated"))
	assert.False(t, nl.Allow("repeated"))

	now = now.Add(30 * time.Second)
	assert.False(t, nl.Allow("repeated"))

	now = now.Add(31 * time.Second)
	assert.True(t, nl.Allow("repeated"))
}

func TestNoiseLimiter_NilAllowsEverything(t *testing.T) {
	var nl *NoiseLimiter

	assert.True(t, nl.Allow("anything"))
	assert.True(t, nl.Allow("anything"))
}

func TestNoiseLimiter_EvictionLetsMessagesThrough(t *testing.T) {
	// Cache of size 1: a second distinct message evicts the first.
	nl, err := NewNoiseLimiter(1, time.Hour)
	require.NoError(t, err)

	assert.True(t, nl.Allow("a"))
	assert.True(t, nl.Allow("b"))
	assert.True(t, nl.Allow("a"))
}
