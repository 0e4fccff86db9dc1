// The lru subpackage provides a bounded, generic least-recently-used
// cache with O(1) lookups, insertions, removals and evictions.
//
// The cache is used by txtmesh to keep generated text meshes around
// between frames, but it doesn't know anything about text: keys only
// need to be comparable and values can be anything.
//
// Entries live in an arena of slots linked by integer indices instead
// of pointers. The head of the recency list is the most recently used
// entry and the tail is the next eviction candidate:
//   cache, err := lru.New[string, int](2)
//   if err != nil { ... }
//   cache.Put("A", 1)
//   cache.Put("B", 2)
//   cache.Get("A")    // "A" becomes the most recently used
//   cache.Put("C", 3) // "B" is evicted
//
// A [Cache] can't be used concurrently. If you need to share one between
// goroutines, wrap it in a [Locked] cache instead.
package lru
