package gibber

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusCache(t *testing.T) {
	t.Run("stores and retrieves by key", func(t *testing.T) {
		c := newCorpusCache(4)
		key := corpusKey{Channel: "#x", User: "bob"}
		c.put(key, []string{"a", "b"})

		lines, ok := c.get(key)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, lines)

		_, ok = c.get(corpusKey{Channel: "#x", User: "bob", Quotes: true})
		assert.False(t, ok)
	})

	t.Run("evicts the least recently used entry", func(t *testing.T) {
		c := newCorpusCache(2)
		first := corpusKey{Channel: "#x", User: "a"}
		second := corpusKey{Channel: "#x", User: "b"}
		third := corpusKey{Channel: "#x", User: "c"}

		c.put(first, []string{"1"})
		c.put(second, []string{"2"})

		// Touch first so second becomes the eviction candidate.
		_, ok := c.get(first)
		require.True(t, ok)

		c.put(third, []string{"3"})
		assert.Equal(t, 2, c.len())

		_, ok = c.get(second)
		assert.False(t, ok)
		_, ok = c.get(first)
		assert.True(t, ok)
		_, ok = c.get(third)
		assert.True(t, ok)
	})

	t.Run("put on an existing key replaces in place", func(t *testing.T) {
		c := newCorpusCache(2)
		key := corpusKey{Channel: "#x"}
		c.put(key, []string{"old"})
		c.put(key, []string{"new"})

		assert.Equal(t, 1, c.len())
		lines, ok := c.get(key)
		require.True(t, ok)
		assert.Equal(t, []string{"new"}, lines)
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		c := newCorpusCache(8)
		for i := 0; i < 50; i++ {
			c.put(corpusKey{Channel: fmt.Sprintf("#%d", i)}, nil)
		}
		assert.Equal(t, 8, c.len())
	})
}
