package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("k", "v", time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCache_GetExpiredEntry(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("k", "v", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	// The expired entry was deleted by the read.
	assert.Equal(t, 0, c.GetStats().Size)
}

func TestCache_GetBeforeExpiry(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("k", "v", time.Second)
	time.Sleep(100 * time.Millisecond)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestCache_SetOverwrites(t *testing.T) {
	c := New[int](0)
	defer c.Stop()

	c.Set("k", 1, time.Second)
	c.Set("k", 2, time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, c.GetStats().Size)
}

func TestCache_Delete(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("k", "v", time.Second)

	assert.True(t, c.Delete("k"))
	assert.False(t, c.Delete("k"), "deleting a missing key reports false")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("a", "1", time.Second)
	c.Set("b", "2", time.Second)
	c.Clear()

	assert.Equal(t, 0, c.GetStats().Size)
	assert.Empty(t, c.GetStats().Keys)
}

func TestCache_StatsCountsUnsweptEntries(t *testing.T) {
	c := New[string](0)
	defer c.Stop()

	c.Set("live", "1", time.Second)
	c.Set("stale", "2", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	// No read or sweep has touched "stale" yet, so it still counts.
	assert.Equal(t, 2, c.GetStats().Size)

	c.Cleanup()
	stats := c.GetStats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, []string{"live"}, stats.Keys)
}

func TestCache_BackgroundSweep(t *testing.T) {
	c := New[string](20 * time.Millisecond)
	defer c.Stop()

	c.Set("stale", "v", 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.GetStats().Size == 0
	}, time.Second, 10*time.Millisecond, "sweep should remove the expired entry without a read")
}

func TestCache_StopIsIdempotent(t *testing.T) {
	c := New[string](time.Minute)
	c.Stop()
	c.Stop()
}
