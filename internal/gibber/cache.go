package gibber

import "container/list"

// corpusCache is a fixed-capacity cache of sampled corpora keyed by
// (channel, user, source), evicting the least recently used entry on
// overflow. One cache is owned per Service, never process-wide.
type corpusCache struct {
	capacity int
	order    *list.List
	entries  map[corpusKey]*list.Element
}

type corpusKey struct {
	Channel string
	User    string
	Quotes  bool
}

type corpusEntry struct {
	key   corpusKey
	lines []string
}

func newCorpusCache(capacity int) *corpusCache {
	return &corpusCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[corpusKey]*list.Element, capacity),
	}
}

func (c *corpusCache) get(key corpusKey) ([]string, bool) {
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*corpusEntry).lines, true
}

func (c *corpusCache) put(key corpusKey, lines []string) {
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*corpusEntry).lines = lines
		return
	}

	c.entries[key] = c.order.PushFront(&corpusEntry{key: key, lines: lines})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*corpusEntry).key)
	}
}

func (c *corpusCache) len() int {
	return c.order.Len()
}
