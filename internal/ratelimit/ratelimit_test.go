package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := range 3 {
		assert.True(t, krl.Allow("1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, krl.Allow("1.2.3.4"), "burst exhausted")
}

func TestKeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("1.2.3.4"))
	assert.False(t, krl.Allow("1.2.3.4"))
	assert.True(t, krl.Allow("5.6.7.8"), "a different key has its own bucket")
}

func TestWaitRespectsContext(t *testing.T) {
	krl := New(0.001, 1)
	defer krl.Stop()

	// Drain the bucket.
	require.True(t, krl.Allow("1.2.3.4"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := krl.Wait(ctx, "1.2.3.4")
	assert.Error(t, err, "wait should give up when the context expires")
}

func TestRefillOverTime(t *testing.T) {
	krl := New(100, 1)
	defer krl.Stop()

	require.True(t, krl.Allow("1.2.3.4"))
	require.False(t, krl.Allow("1.2.3.4"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, krl.Allow("1.2.3.4"), "bucket refills at the configured rate")
}

func TestStopIsIdempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	krl.Stop()
}
