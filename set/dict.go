package set

import (
	"go.uber.org/zap"
)

// node is one chain entry. A bucket owns its chain through head, and each
// node owns its successor.
type node[K any] struct {
	key  K
	next *node[K]
}

type bucket[K any] struct {
	head *node[K]
}

func (s *Set[K]) index(key K, capacity int) int {
	return int(s.hash(key) % uint64(capacity))
}

// lookup returns the bucket index of key and the node holding it, or nil.
func (s *Set[K]) lookup(key K) (int, *node[K]) {
	i := s.index(key, len(s.buckets))
	for curr := s.buckets[i].head; curr != nil; curr = curr.next {
		if s.equal(curr.key, key) {
			return i, curr
		}
	}
	return i, nil
}

// insertHash pushes a new node for key to the front of its chain. The caller
// has already checked that key is absent.
func (s *Set[K]) insertHash(i int, key K) *node[K] {
	n := &node[K]{key: key, next: s.buckets[i].head}
	s.buckets[i].head = n
	s.size++
	s.mem.alloc(nodeCost(key))
	return n
}

// overloaded reports whether size keys exceed the load factor at capacity.
func overloaded(size, capacity int) bool {
	return size*100 > MaxLoadPercent*capacity
}

// rehash doubles the bucket array. Old buckets are walked in ascending order
// and each chain front to back; every node is pushed to the front of its new
// chain.
func (s *Set[K]) rehash() {
	start := s.opts.clock.Now()
	from := len(s.buckets)
	grown := make([]bucket[K], 2*from)
	s.mem.alloc(bucketsCost(len(grown)))

	for i := range s.buckets {
		curr := s.buckets[i].head
		s.buckets[i].head = nil
		for curr != nil {
			next := curr.next
			j := s.index(curr.key, len(grown))
			curr.next = grown[j].head
			grown[j].head = curr
			curr = next
		}
	}

	s.buckets = grown
	s.mem.free(bucketsCost(from))
	s.rehashes++
	s.lastRehash = s.opts.clock.Since(start)

	s.opts.logger.Debug("rehash",
		zap.Int("from", from),
		zap.Int("to", len(grown)),
		zap.Int("size", s.size),
		zap.Duration("took", s.lastRehash))
}

// unlink removes key from its chain and returns whether it was present.
func (s *Set[K]) unlink(key K) bool {
	i := s.index(key, len(s.buckets))
	var prev *node[K]
	for curr := s.buckets[i].head; curr != nil; prev, curr = curr, curr.next {
		if !s.equal(curr.key, key) {
			continue
		}
		if prev == nil {
			s.buckets[i].head = curr.next
		} else {
			prev.next = curr.next
		}
		curr.next = nil
		s.size--
		s.mem.free(nodeCost(curr.key))
		return true
	}
	return false
}

// release cuts every chain link iteratively, so a stale iterator only pins
// the node it points at.
func release[K any](buckets []bucket[K]) {
	for i := range buckets {
		curr := buckets[i].head
		buckets[i].head = nil
		for curr != nil {
			next := curr.next
			curr.next = nil
			curr = next
		}
	}
}
