package secrets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clock is a settable time source for cache tests.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(ttl time.Duration, size int) (*InMemoryCache, *clock) {
	clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewInMemoryCache(ttl, size)
	c.now = clk.now
	return c, clk
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)

	c.Set("a", "1", 0)
	c.Set("b", "2", time.Hour)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	clk.t = clk.t.Add(2 * time.Minute)

	_, ok = c.Get("a")
	assert.False(t, ok)
	v, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Size())
}

func TestInMemoryCache_Eviction(t *testing.T) {
	c, clk := newTestCache(time.Minute, 2)

	c.Set("first", "1", 0)
	clk.t = clk.t.Add(time.Second)
	c.Set("second", "2", 0)
	clk.t = clk.t.Add(time.Second)
	c.Set("third", "3", 0)

	assert.Equal(t, 2, c.Size())
	_, ok := c.Get("first")
	assert.False(t, ok)

	t.Run("overwrite does not evict", func(t *testing.T) {
		c.Set("third", "3b", 0)
		assert.Equal(t, 2, c.Size())
		v, _ := c.Get("third")
		assert.Equal(t, "3b", v)
	})
}

func TestInMemoryCache_Delete(t *testing.T) {
	c, _ := newTestCache(time.Minute, 0)
	c.Set("a", "1", 0)
	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
}
