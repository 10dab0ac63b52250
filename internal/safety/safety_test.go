package safety

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowN_DrainsBucket(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter("test", 3, 1)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	assert.True(t, rl.Allow())
	assert.True(t, rl.AllowN(2))
	assert.False(t, rl.Allow(), "bucket should be empty")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, rl.Allow(), "one token refilled after 1.5s")
	assert.False(t, rl.Allow())

	stats := rl.GetStats()
	assert.Equal(t, "test", stats.Name)
	assert.Equal(t, 3, stats.Capacity)
	assert.Equal(t, 1, stats.RefillRate)
}

func TestRateLimiter_RefillCappedAtCapacity(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter("cap", 2, 10)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	require.True(t, rl.AllowN(2))
	now = now.Add(time.Hour)
	assert.Equal(t, 2, rl.GetStats().Tokens)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter("off", 1, 0)
	assert.True(t, rl.Disabled())
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow())
	}

	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow())
}

func TestRateLimiter_Wait_RespectsContext(t *testing.T) {
	rl := NewRateLimiter("ctx", 1, 1)
	require.True(t, rl.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}

func TestRateLimiter_Wait_Succeeds(t *testing.T) {
	rl := NewRateLimiter("fast", 1, 100)
	require.True(t, rl.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, rl.Wait(ctx))
}

func TestValidator_ValidateSymbol(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.ValidateSymbol("ETHUSDT").Valid)
	assert.Equal(t, "SYMBOL_EMPTY", v.ValidateSymbol(" ").Code)
	assert.Equal(t, "SYMBOL_LENGTH", v.ValidateSymbol("AB").Code)
	assert.Equal(t, "SYMBOL_INVALID_CHARS", v.ValidateSymbol("ETH/USDT").Code)
	assert.Error(t, v.ValidateSymbol("").Err())
	assert.NoError(t, v.ValidateSymbol("BTCUSDT").Err())
}

func TestValidator_ValidatePrice(t *testing.T) {
	v := NewValidator()
	assert.True(t, v.ValidatePrice(1.5, "X").Valid)
	assert.Equal(t, "INVALID_PRICE_NEGATIVE", v.ValidatePrice(0, "X").Code)
	assert.Equal(t, "INVALID_PRICE_NAN", v.ValidatePrice(math.NaN(), "X").Code)
	assert.Equal(t, "INVALID_PRICE_INF", v.ValidatePrice(math.Inf(1), "X").Code)
}

func TestValidator_SafeRatio(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, 0.5, v.SafeRatio(1, 2))
	assert.Equal(t, 0.0, v.SafeRatio(1, 0))
	assert.Equal(t, 0.0, v.SafeRatio(math.NaN(), 1))
	assert.Equal(t, 0.0, v.SafeRatio(math.Inf(1), 1))
}
