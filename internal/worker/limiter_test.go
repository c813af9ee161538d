package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	assert.Equal(t, 5, limiter.defaultBurst)

	l2 := NewLimiter(10, -1)
	assert.Equal(t, 1, l2.defaultBurst, "non-positive burst falls back to 1")
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx, "https://maps.googleapis.com/maps/api/place/textsearch/json"))
	require.NoError(t, limiter.Wait(ctx, "http://127.0.0.1:8080/search"))

	assert.Len(t, limiter.limiters, 2, "one limiter per host")
}

func TestLimiter_PacesSameHost(t *testing.T) {
	limiter := NewLimiter(20, 1) // one request every 50ms
	ctx := context.Background()
	url := "http://example.com/search"

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx, url))
	require.NoError(t, limiter.Wait(ctx, url))

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.WaitWithDelay(ctx, "http://example.com", 50*time.Millisecond))

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_WaitWithDelay_Cancelled(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.WaitWithDelay(ctx, "http://example.com", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://maps.googleapis.com/maps/api/place/textsearch/json?query=x")
	require.NoError(t, err)
	assert.Equal(t, "maps.googleapis.com", host)

	_, err = extractHost("::invalid")
	assert.Error(t, err)
}
