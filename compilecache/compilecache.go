// Package compilecache memoizes compiled filter expressions. Compiling
// the same clause twice against the same schema does identical,
// side-effect-free work, which makes caching that work a pure
// optimization: siphash keys the cache and a btree orders entries by
// access sequence for approximate-LRU eviction.
package compilecache

import (
	"sync"

	"github.com/dchest/siphash"
	"github.com/google/btree"

	"github.com/fuhongbo/dynfilter/texpr"
)

// the siphash key pair is fixed: this cache never needs to resist a
// hash-flooding adversary, only to spread clause text across buckets.
const k0, k1 = 0x646f7466, 0x696c7465

// Cache memoizes Compile results keyed by (scope, clause text), where
// scope is typically the record type name. The wanted result kind is not
// part of the key. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	seq      int64
	items    map[uint64]*entry
	order    *btree.BTree
}

type entry struct {
	key   uint64
	value texpr.Expression
	seq   int64
}

// Less orders entries by access sequence, so the btree's minimum item is
// always the least-recently-used entry.
func (e *entry) Less(than btree.Item) bool {
	return e.seq < than.(*entry).seq
}

// New returns a cache holding at most capacity compiled expressions.
// capacity <= 0 means unbounded.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		items:    make(map[uint64]*entry),
		order:    btree.New(32),
	}
}

func key(scope, clause string) uint64 {
	b := make([]byte, 0, len(scope)+1+len(clause))
	b = append(b, scope...)
	b = append(b, 0)
	b = append(b, clause...)
	return siphash.Hash(k0, k1, b)
}

// Get returns the cached compiled expression for clause under scope
// (typically the record type's schema name), if present.
func (c *Cache) Get(scope, clause string) (texpr.Expression, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key(scope, clause)]
	if !ok {
		return nil, false
	}
	c.touch(e)
	return e.value, true
}

// Put stores a compiled expression, evicting the least-recently-used
// entry first if the cache is at capacity.
func (c *Cache) Put(scope, clause string, v texpr.Expression) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(scope, clause)
	if e, ok := c.items[k]; ok {
		e.value = v
		c.touch(e)
		return
	}
	if c.capacity > 0 && len(c.items) >= c.capacity {
		c.evictOldest()
	}
	c.seq++
	e := &entry{key: k, value: v, seq: c.seq}
	c.items[k] = e
	c.order.ReplaceOrInsert(e)
}

func (c *Cache) touch(e *entry) {
	c.order.Delete(e)
	c.seq++
	e.seq = c.seq
	c.order.ReplaceOrInsert(e)
}

func (c *Cache) evictOldest() {
	min := c.order.Min()
	if min == nil {
		return
	}
	oldest := min.(*entry)
	c.order.Delete(oldest)
	delete(c.items, oldest.key)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
