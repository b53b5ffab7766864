package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetSetDelete(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", got)

	c.Delete("k")
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(Config{TTL: 10 * time.Millisecond})
	defer c.Close()

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	require.False(t, ok)
}

func TestFullCacheDropsNewWrites(t *testing.T) {
	c := New(Config{MaxItems: 2, TTL: time.Hour})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	_, ok := c.Get("c")
	require.False(t, ok, "a full cache with no expired entries drops new writes")
	_, ok = c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestOverwriteDoesNotCountAgainstCap(t *testing.T) {
	c := New(Config{MaxItems: 1, TTL: time.Hour})
	defer c.Close()

	c.Set("a", 1)
	c.Set("a", 2)
	got, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 2, got)
}

func TestConcurrentAccess(t *testing.T) {
	c := New(Config{MaxItems: 100})
	defer c.Close()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%10)
				c.Set(key, n)
				c.Get(key)
				if j%7 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
