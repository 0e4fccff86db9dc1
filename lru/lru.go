package lru

import "errors"
import "iter"

// Returned by [New]() and [Cache.SetCapacity]() when the requested
// capacity is not strictly positive.
var ErrInvalidCapacity = errors.New("lru: capacity must be positive")

// Reasons for a value to leave the cache, passed to the function
// configured through [Cache.SetOnEvict]().
type Reason uint8
const (
	ReasonCapacity Reason = iota // evicted to respect the capacity
	ReasonRemoved                // explicitly removed with Remove()
	ReasonCleared                // dropped by Clear()
	ReasonReplaced               // overwritten by Put() on the same key
)

func (self Reason) String() string {
	switch self {
	case ReasonCapacity: return "Capacity"
	case ReasonRemoved : return "Removed"
	case ReasonCleared : return "Cleared"
	case ReasonReplaced: return "Replaced"
	default:
		return "UnknownReason"
	}
}

// Counters accumulated during the lifetime of a [Cache].
// Evictions only count [ReasonCapacity] drops.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Insertions uint64
	Evictions  uint64
}

// A bounded least-recently-used cache. Only [Cache.Get]() and
// [Cache.Put]() refresh the recency of an entry.
//
// The zero value is not usable; create caches with [New]().
// Caches can't be used concurrently.
type Cache[K comparable, V any] struct {
	index    map[K]int32
	slots    []slot[K, V]
	freeHead int32
	head     int32 // most recently used
	tail     int32 // least recently used
	capacity int
	version  uint64 // bumped on every structural change, for iterators
	onEvict  func(K, V, Reason)
	stats    Stats
}

// Creates a new cache that will hold at most capacity entries.
// Non-positive capacities return [ErrInvalidCapacity].
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity <= 0 { return nil, ErrInvalidCapacity }
	initSize := capacity
	if initSize > 1024 { initSize = 1024 }
	return &Cache[K, V]{
		index: make(map[K]int32, initSize),
		slots: make([]slot[K, V], 0, initSize),
		freeHead: noSlot,
		head: noSlot,
		tail: noSlot,
		capacity: capacity,
	}, nil
}

// Sets a function to be called each time a value leaves the cache.
// The function is called once the cache is already consistent again,
// but it must not modify the cache. Passing nil disables the callback.
func (self *Cache[K, V]) SetOnEvict(onEvict func(key K, value V, reason Reason)) {
	self.onEvict = onEvict
}

// Returns the value associated to the given key and marks the entry
// as the most recently used one. Misses have no side effects.
func (self *Cache[K, V]) Get(key K) (V, bool) {
	index, found := self.index[key]
	if !found {
		self.stats.Misses += 1
		var zero V
		return zero, false
	}
	self.stats.Hits += 1
	if self.head != index {
		self.moveToFront(index)
		self.version += 1
	}
	return self.slots[index].value, true
}

// Like [Cache.Get](), but without refreshing the entry's recency
// or counting hits and misses.
func (self *Cache[K, V]) Peek(key K) (V, bool) {
	index, found := self.index[key]
	if !found {
		var zero V
		return zero, false
	}
	return self.slots[index].value, true
}

// Returns whether the key is present. The entry's recency is not
// modified.
func (self *Cache[K, V]) Contains(key K) bool {
	_, found := self.index[key]
	return found
}

// Stores the value under the given key and makes it the most recently
// used entry. If the key was already present, its value is overwritten
// in place. Otherwise a new entry is created and, if that pushes the
// cache over capacity, the least recently used entry is evicted.
//
// Returns whether a new entry was created. Keys that are not equal to
// themselves (e.g. containing a NaN float) could never be found again,
// so they are ignored and false is returned.
func (self *Cache[K, V]) Put(key K, value V) bool {
	if key != key { return false }

	index, found := self.index[key]
	if found {
		entry := &self.slots[index]
		prevValue := entry.value
		entry.value = value
		self.moveToFront(index)
		self.version += 1
		self.notify(key, prevValue, ReasonReplaced)
		return false
	}

	index = self.allocSlot(key, value)
	self.pushFront(index)
	self.index[key] = index
	self.stats.Insertions += 1
	self.version += 1
	self.evictDownTo(self.capacity)
	return true
}

// Removes the entry with the given key, if any, and returns whether
// something was removed.
func (self *Cache[K, V]) Remove(key K) bool {
	index, found := self.index[key]
	if !found { return false }
	value := self.slots[index].value
	self.drop(index)
	self.notify(key, value, ReasonRemoved)
	return true
}

// Removes all the entries from the cache.
func (self *Cache[K, V]) Clear() {
	if len(self.index) == 0 { return }

	var dropped []slot[K, V]
	if self.onEvict != nil {
		dropped = make([]slot[K, V], 0, len(self.index))
		for i := self.tail; i != noSlot; i = self.slots[i].prev {
			dropped = append(dropped, self.slots[i])
		}
	}

	clear(self.index)
	clear(self.slots)
	self.slots = self.slots[:0]
	self.freeHead = noSlot
	self.head, self.tail = noSlot, noSlot
	self.version += 1

	for _, entry := range dropped {
		self.notify(entry.key, entry.value, ReasonCleared)
	}
}

// Returns the number of entries currently in the cache.
func (self *Cache[K, V]) Len() int { return len(self.index) }

// Returns the maximum number of entries the cache can hold.
func (self *Cache[K, V]) Capacity() int { return self.capacity }

// Changes the cache capacity. Non-positive values return
// [ErrInvalidCapacity] and leave the cache untouched. If the new
// capacity is below the current size, the least recently used
// entries are evicted right away until the cache fits.
func (self *Cache[K, V]) SetCapacity(capacity int) error {
	if capacity <= 0 { return ErrInvalidCapacity }
	self.capacity = capacity
	self.evictDownTo(capacity)
	return nil
}

// Returns the least recently used entry, which is the next one to
// be evicted, without refreshing it.
func (self *Cache[K, V]) Oldest() (K, V, bool) {
	if self.tail == noSlot {
		var zeroKey K
		var zeroValue V
		return zeroKey, zeroValue, false
	}
	entry := &self.slots[self.tail]
	return entry.key, entry.value, true
}

// Returns the cache counters.
func (self *Cache[K, V]) Stats() Stats { return self.stats }

// Returns an iterator over the current entries. The sequence happens
// to go from most to least recently used, but callers shouldn't
// depend on any order.
//
// Modifying the cache during iteration (and that includes [Cache.Get]()
// hits, which reorder entries) makes the iterator panic on its next
// step. [Cache.Peek]() and [Cache.Contains]() are safe.
func (self *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		version := self.version
		for i := self.head; i != noSlot; {
			entry := &self.slots[i]
			next := entry.next
			if !yield(entry.key, entry.value) { return }
			if self.version != version {
				panic("lru: cache modified during iteration")
			}
			i = next
		}
	}
}

// ---- internal helpers ----

func (self *Cache[K, V]) evictDownTo(capacity int) {
	for len(self.index) > capacity {
		index := self.tail
		key, value := self.slots[index].key, self.slots[index].value
		self.drop(index)
		self.stats.Evictions += 1
		self.notify(key, value, ReasonCapacity)
	}
}

// Unlinks the slot, deletes it from the index and frees it.
func (self *Cache[K, V]) drop(index int32) {
	self.unlink(index)
	delete(self.index, self.slots[index].key)
	self.freeSlot(index)
	self.version += 1
}

func (self *Cache[K, V]) notify(key K, value V, reason Reason) {
	if self.onEvict != nil {
		self.onEvict(key, value, reason)
	}
}
