// Package stats holds the small numeric toolkit shared by the analyzers.
package stats

import "sort"

// Entry is one key with its count.
type Entry[K comparable] struct {
	Key   K
	Count int
}

// Counter counts keys and remembers the order in which they were first seen.
// The zero value is ready to use.
type Counter[K comparable] struct {
	index   map[K]int
	entries []Entry[K]
}

// Inc adds one to key.
func (c *Counter[K]) Inc(key K) {
	c.Add(key, 1)
}

// Add adds n to key.
func (c *Counter[K]) Add(key K, n int) {
	if c.index == nil {
		c.index = make(map[K]int)
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].Count += n
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry[K]{Key: key, Count: n})
}

// Get returns the count of key.
func (c *Counter[K]) Get(key K) int {
	if i, ok := c.index[key]; ok {
		return c.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	return len(c.entries)
}

// Total returns the sum of all counts.
func (c *Counter[K]) Total() int {
	total := 0
	for _, e := range c.entries {
		total += e.Count
	}
	return total
}

// Entries returns the entries in first-seen order.
func (c *Counter[K]) Entries() []Entry[K] {
	return append([]Entry[K](nil), c.entries...)
}

// MostCommon returns up to n entries by descending count; ties keep first-seen order.
// n <= 0 returns every entry.
func (c *Counter[K]) MostCommon(n int) []Entry[K] {
	out := c.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Groups collects values under keys, keeping first-seen key order.
type Groups[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  [][]V
}

// Append adds v to the group of key.
func (g *Groups[K, V]) Append(key K, v V) {
	if g.index == nil {
		g.index = make(map[K]int)
	}
	i, ok := g.index[key]
	if !ok {
		i = len(g.keys)
		g.index[key] = i
		g.keys = append(g.keys, key)
		g.vals = append(g.vals, nil)
	}
	g.vals[i] = append(g.vals[i], v)
}

// Each visits groups in first-seen order.
func (g *Groups[K, V]) Each(fn func(key K, values []V)) {
	for i, k := range g.keys {
		fn(k, g.vals[i])
	}
}

// Len returns the number of groups.
func (g *Groups[K, V]) Len() int {
	return len(g.keys)
}
