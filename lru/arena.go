package lru

// Index used to indicate the absence of a slot (empty list ends,
// end of the free list, unlinked slots).
const noSlot int32 = -1

// A cache entry. Slots are linked by their arena indices, so the
// recency list never holds pointers into itself.
type slot[K comparable, V any] struct {
	key   K
	value V
	prev  int32 // towards head (more recent)
	next  int32 // towards tail (less recent), or next free slot
}

// Takes a slot from the free list or grows the arena. The slot
// is returned unlinked.
func (self *Cache[K, V]) allocSlot(key K, value V) int32 {
	var index int32
	if self.freeHead != noSlot {
		index = self.freeHead
		self.freeHead = self.slots[index].next
	} else {
		self.slots = append(self.slots, slot[K, V]{})
		index = int32(len(self.slots) - 1)
	}
	self.slots[index] = slot[K, V]{ key: key, value: value, prev: noSlot, next: noSlot }
	return index
}

// Returns an unlinked slot to the free list, dropping its key and
// value so they can be garbage collected.
func (self *Cache[K, V]) freeSlot(index int32) {
	self.slots[index] = slot[K, V]{ prev: noSlot, next: self.freeHead }
	self.freeHead = index
}

// Links the given unlinked slot at the head of the recency list.
func (self *Cache[K, V]) pushFront(index int32) {
	entry := &self.slots[index]
	entry.prev = noSlot
	entry.next = self.head
	if self.head != noSlot {
		self.slots[self.head].prev = index
	} else {
		self.tail = index
	}
	self.head = index
}

// Unlinks the given slot from the recency list. The slot's own
// links are reset.
func (self *Cache[K, V]) unlink(index int32) {
	entry := &self.slots[index]
	if entry.prev != noSlot {
		self.slots[entry.prev].next = entry.next
	} else {
		self.head = entry.next
	}
	if entry.next != noSlot {
		self.slots[entry.next].prev = entry.prev
	} else {
		self.tail = entry.prev
	}
	entry.prev, entry.next = noSlot, noSlot
}

func (self *Cache[K, V]) moveToFront(index int32) {
	if self.head == index { return }
	self.unlink(index)
	self.pushFront(index)
}
