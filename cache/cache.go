package cache

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tictac/board"
)

// The cache maps packed positions to verdicts. Whenever a verdict is
// recorded it is written under all eight symmetric images of the key, so
// any rotated or mirrored copy of a solved position hits the cache too.
//
// Entries are never evicted. There are at most 3^9 square patterns (times
// two if the side to move is part of the key), so the table stays small.

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

type Stats struct {
	Entries int
	Lookups uint64
	Hits    uint64
	Created uint64
}

type SymmetryCache struct {
	TableLock
	table   map[board.Key]board.Verdict
	lookups atomic.Uint64
	hits    atomic.Uint64
	created atomic.Uint64
}

// New creates an empty cache in single-threaded mode.
func New() *SymmetryCache {
	c := &SymmetryCache{table: make(map[board.Key]board.Verdict)}
	c.SetSingleThreadedMode()
	return c
}

func (c *SymmetryCache) SetSingleThreadedMode() {
	c.TableLock = &FakeLock{}
}

// SetMultiThreadedMode guards the table with a RWMutex. Switch modes only
// while no search is using the cache.
func (c *SymmetryCache) SetMultiThreadedMode() {
	if _, ok := c.TableLock.(*sync.RWMutex); ok {
		return
	}
	c.TableLock = new(sync.RWMutex)
}

// Lookup returns the verdict stored for exactly this key.
func (c *SymmetryCache) Lookup(key board.Key) (board.Verdict, bool) {
	c.RLock()
	defer c.RUnlock()
	c.lookups.Add(1)
	v, ok := c.table[key]
	if ok {
		c.hits.Add(1)
	}
	return v, ok
}

// Record stores v under key and its seven symmetric images.
func (c *SymmetryCache) Record(key board.Key, v board.Verdict) {
	c.Lock()
	defer c.Unlock()
	c.record(key, v)
}

func (c *SymmetryCache) record(key board.Key, v board.Verdict) {
	for _, k := range key.Symmetries() {
		if _, ok := c.table[k]; ok {
			continue
		}
		c.table[k] = v
		c.created.Add(1)
	}
}

// LookupOrRecord returns the cached verdict for key, or computes, records
// and returns it. The miss and the write happen under one exclusive lock,
// so compute must not use the cache itself.
func (c *SymmetryCache) LookupOrRecord(key board.Key, compute func() board.Verdict) board.Verdict {
	if v, ok := c.Lookup(key); ok {
		return v
	}
	c.Lock()
	defer c.Unlock()
	// someone may have filled it in between the two locks.
	if v, ok := c.table[key]; ok {
		return v
	}
	v := compute()
	c.record(key, v)
	return v
}

func (c *SymmetryCache) Len() int {
	c.RLock()
	defer c.RUnlock()
	return len(c.table)
}

func (c *SymmetryCache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Lookups: c.lookups.Load(),
		Hits:    c.hits.Load(),
		Created: c.created.Load(),
	}
}

// Reset empties the table and zeroes the counters.
func (c *SymmetryCache) Reset() {
	c.Lock()
	defer c.Unlock()
	clear(c.table)
	c.lookups.Store(0)
	c.hits.Store(0)
	c.created.Store(0)
	log.Debug().Msg("symmetry-cache-reset")
}
