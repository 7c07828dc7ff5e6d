package set

import "iter"

// Iterator is a forward cursor over the keys of a Set. Keys are visited in
// ascending bucket order and, within a bucket, most recently inserted first.
//
// An iterator is invalidated by any insert that grows the table, and by
// Erase, Clear and Swap. Using an invalidated iterator, or calling Key on the
// end iterator, is a programming error.
type Iterator[K any] struct {
	buckets []bucket[K]
	index   int
	node    *node[K]
}

// Begin returns an iterator at the first key, or End if the set is empty.
func (s *Set[K]) Begin() Iterator[K] {
	it := Iterator[K]{buckets: s.buckets}
	it.seek(0)
	return it
}

// End returns the sentinel iterator. It holds no reference to the table.
func (s *Set[K]) End() Iterator[K] {
	return Iterator[K]{}
}

// All returns an iterator over the keys, in the same order as Begin/Next.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for it := s.Begin(); !it.Done(); it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Key returns the key at the iterator's position.
func (it Iterator[K]) Key() K {
	return it.node.key
}

// Done reports whether the iterator is at the end sentinel.
func (it Iterator[K]) Done() bool {
	return it.node == nil
}

// Equal compares iterators by the node they point at only. Two end iterators
// are always equal, even if they come from different sets.
func (it Iterator[K]) Equal(other Iterator[K]) bool {
	return it.node == other.node
}

// Next advances to the next key, or to the end sentinel.
func (it *Iterator[K]) Next() {
	if it.node == nil {
		return
	}
	if it.node.next != nil {
		it.node = it.node.next
		return
	}
	it.seek(it.index + 1)
}

// seek positions it at the head of the first non-empty bucket at or after from.
func (it *Iterator[K]) seek(from int) {
	for i := from; i < len(it.buckets); i++ {
		if head := it.buckets[i].head; head != nil {
			it.index, it.node = i, head
			return
		}
	}
	*it = Iterator[K]{}
}
