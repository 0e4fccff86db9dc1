package lru

import "sync"

// A key-value pair, as returned by [Locked.Snapshot]().
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// A [Cache] guarded by a mutex, so each method call is one atomic
// unit. Sequences like "Get, and Put on miss" are still two separate
// units; use [Locked.Do]() when they must not interleave.
type Locked[K comparable, V any] struct {
	mutex sync.Mutex
	cache *Cache[K, V]
}

// Creates a new concurrent-safe cache. See [New]().
func NewLocked[K comparable, V any](capacity int) (*Locked[K, V], error) {
	cache, err := New[K, V](capacity)
	if err != nil { return nil, err }
	return &Locked[K, V]{ cache: cache }, nil
}

// See [Cache.SetOnEvict](). The function is called with the lock
// held, so it must not call back into the locked cache.
func (self *Locked[K, V]) SetOnEvict(onEvict func(key K, value V, reason Reason)) {
	self.mutex.Lock()
	self.cache.SetOnEvict(onEvict)
	self.mutex.Unlock()
}

func (self *Locked[K, V]) Get(key K) (V, bool) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Get(key)
}

func (self *Locked[K, V]) Peek(key K) (V, bool) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Peek(key)
}

func (self *Locked[K, V]) Contains(key K) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Contains(key)
}

func (self *Locked[K, V]) Put(key K, value V) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Put(key, value)
}

func (self *Locked[K, V]) Remove(key K) bool {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Remove(key)
}

func (self *Locked[K, V]) Clear() {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	self.cache.Clear()
}

func (self *Locked[K, V]) Len() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Len()
}

func (self *Locked[K, V]) Capacity() int {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Capacity()
}

func (self *Locked[K, V]) SetCapacity(capacity int) error {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.SetCapacity(capacity)
}

func (self *Locked[K, V]) Stats() Stats {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	return self.cache.Stats()
}

// Runs the given function with exclusive access to the underlying
// cache. The cache must not be retained after the function returns.
func (self *Locked[K, V]) Do(fn func(*Cache[K, V])) {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	fn(self.cache)
}

// Returns a copy of the current entries, most recently used first.
func (self *Locked[K, V]) Snapshot() []Pair[K, V] {
	self.mutex.Lock()
	defer self.mutex.Unlock()
	pairs := make([]Pair[K, V], 0, self.cache.Len())
	for key, value := range self.cache.All() {
		pairs = append(pairs, Pair[K, V]{ Key: key, Value: value })
	}
	return pairs
}
