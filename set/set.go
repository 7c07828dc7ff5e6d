package set

import (
	"time"

	"go.uber.org/zap"
)

// Set is an unordered collection of unique keys stored in a separate-chaining
// hash table. The bucket array doubles whenever the load factor exceeds
// MaxLoadPercent and never shrinks.
//
// A Set is not safe for concurrent use.
type Set[K any] struct {
	buckets []bucket[K]
	size    int
	hash    Hasher[K]
	equal   EqualFunc[K]
	opts    options
	mem     zmalloc

	rehashes   int
	lastRehash time.Duration
}

// New creates an empty set of comparable keys using == as equality.
func New[K comparable](opts ...Option) *Set[K] {
	return NewFunc(defaultHasher[K](), defaultEqual[K](), opts...)
}

// NewFunc creates an empty set with a caller supplied hash and equality.
func NewFunc[K any](hash Hasher[K], equal EqualFunc[K], opts ...Option) *Set[K] {
	o := newOptions(opts)
	s := &Set[K]{
		buckets: make([]bucket[K], o.capacity),
		hash:    hash,
		equal:   equal,
		opts:    o,
		mem:     zmalloc{max: o.maxMemory},
	}
	s.mem.alloc(bucketsCost(o.capacity))
	return s
}

// Of creates a set holding keys, inserted in order.
func Of[K comparable](keys ...K) *Set[K] {
	s := New[K]()
	s.InsertSlice(keys)
	return s
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	return s.size
}

// Empty returns true if the set holds no keys.
func (s *Set[K]) Empty() bool {
	return s.size == 0
}

// Capacity returns the current bucket count.
func (s *Set[K]) Capacity() int {
	return len(s.buckets)
}

// Find returns an iterator positioned at key, or End if key is absent.
func (s *Set[K]) Find(key K) Iterator[K] {
	i, n := s.lookup(key)
	if n == nil {
		return s.End()
	}
	return Iterator[K]{buckets: s.buckets, index: i, node: n}
}

// Count returns 1 if key is present and 0 otherwise.
func (s *Set[K]) Count(key K) int {
	if s.Contains(key) {
		return 1
	}
	return 0
}

// Contains checks if key is in the set.
func (s *Set[K]) Contains(key K) bool {
	_, n := s.lookup(key)
	return n != nil
}

// Insert adds key. If an equal key is present it returns an iterator to that
// key and false; otherwise it returns an iterator to the new key and true.
//
// Insert panics with an error wrapping ErrOutOfMemory if the set has a memory
// budget that the insert would exceed. Use TryInsert to get the error instead.
func (s *Set[K]) Insert(key K) (Iterator[K], bool) {
	it, inserted, err := s.TryInsert(key)
	if err != nil {
		panic(err)
	}
	return it, inserted
}

// TryInsert is Insert that reports a memory budget violation as an error.
// The set is unchanged when an error is returned.
func (s *Set[K]) TryInsert(key K) (Iterator[K], bool, error) {
	i, n := s.lookup(key)
	if n != nil {
		return Iterator[K]{buckets: s.buckets, index: i, node: n}, false, nil
	}

	need := nodeCost(key)
	grow := overloaded(s.size+1, len(s.buckets))
	if grow {
		need += bucketsCost(2 * len(s.buckets))
	}
	if err := s.mem.reserve(need); err != nil {
		s.opts.logger.Warn("insert refused",
			zap.Int("size", s.size),
			zap.Int("capacity", len(s.buckets)),
			zap.Error(err))
		return s.End(), false, err
	}

	n = s.insertHash(i, key)
	if grow {
		s.rehash()
		i = s.index(key, len(s.buckets))
	}
	return Iterator[K]{buckets: s.buckets, index: i, node: n}, true, nil
}

// InsertSlice inserts every key of keys, skipping duplicates.
func (s *Set[K]) InsertSlice(keys []K) {
	for _, key := range keys {
		s.Insert(key)
	}
}

// InsertRange inserts the keys from first up to, but not including, last.
// The range must not belong to s itself.
func (s *Set[K]) InsertRange(first, last Iterator[K]) {
	for it := first; !it.Equal(last); it.Next() {
		s.Insert(it.Key())
	}
}

// InsertSet inserts every key of other.
func (s *Set[K]) InsertSet(other *Set[K]) {
	if other == s {
		return
	}
	s.InsertRange(other.Begin(), other.End())
}

// Erase removes key and returns the number of keys removed, 0 or 1.
// The bucket array is never shrunk.
func (s *Set[K]) Erase(key K) int {
	if s.unlink(key) {
		return 1
	}
	return 0
}

// Clear removes every key and resets the bucket array to the base capacity.
func (s *Set[K]) Clear() {
	release(s.buckets)
	s.buckets = make([]bucket[K], s.opts.capacity)
	s.size = 0
	s.mem.used = bucketsCost(len(s.buckets))
}

// Swap exchanges the contents of s and other.
func (s *Set[K]) Swap(other *Set[K]) {
	*s, *other = *other, *s
}

// Clone returns an independent copy of s with the same capacity, bucket
// layout and options.
func (s *Set[K]) Clone() *Set[K] {
	c := &Set[K]{
		buckets: make([]bucket[K], len(s.buckets)),
		size:    s.size,
		hash:    s.hash,
		equal:   s.equal,
		opts:    s.opts,
		mem:     s.mem,
	}
	for i := range s.buckets {
		tail := &c.buckets[i].head
		for curr := s.buckets[i].head; curr != nil; curr = curr.next {
			n := &node[K]{key: curr.key}
			*tail = n
			tail = &n.next
		}
	}
	return c
}

// Equal reports whether s and other hold the same keys. Membership is
// checked with other's hash and equality.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if s == other {
		return true
	}
	if other == nil || s.size != other.size {
		return false
	}
	for it := s.Begin(); !it.Done(); it.Next() {
		if !other.Contains(it.Key()) {
			return false
		}
	}
	return true
}

// Keys returns the keys in iteration order.
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.size)
	for it := s.Begin(); !it.Done(); it.Next() {
		keys = append(keys, it.Key())
	}
	return keys
}
