package set

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"time"
)

// Stats is a snapshot of a set's table shape and accounting.
type Stats struct {
	Size         int
	Capacity     int
	BaseCapacity int
	UsedBuckets  int
	LongestChain int
	Rehashes     int
	LastRehash   time.Duration
	MemoryUsed   int64
	LoadFactor   float64
}

// Stats walks the table and returns its current shape.
func (s *Set[K]) Stats() Stats {
	st := Stats{
		Size:         s.size,
		Capacity:     len(s.buckets),
		BaseCapacity: s.opts.capacity,
		Rehashes:     s.rehashes,
		LastRehash:   s.lastRehash,
		MemoryUsed:   s.mem.used,
		LoadFactor:   float64(s.size) / float64(len(s.buckets)),
	}
	for i := range s.buckets {
		chain := 0
		for curr := s.buckets[i].head; curr != nil; curr = curr.next {
			chain++
		}
		if chain > 0 {
			st.UsedBuckets++
		}
		if chain > st.LongestChain {
			st.LongestChain = chain
		}
	}
	return st
}

// Buckets returns the chain contents of every bucket, front to back.
func (s *Set[K]) Buckets() [][]K {
	out := make([][]K, len(s.buckets))
	for i := range s.buckets {
		for curr := s.buckets[i].head; curr != nil; curr = curr.next {
			out[i] = append(out[i], curr.key)
		}
	}
	return out
}

// Dump writes a human readable picture of the table to w. The format is
// meant for debugging and may change.
func (s *Set[K]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Separate Chaining: %s,%d\n", typeTag[K](), s.opts.capacity)
	fmt.Fprintf(bw, "Size of the Hash Table: %d\n", s.size)
	for i := range s.buckets {
		fmt.Fprintf(bw, "Position[%d] -->", i)
		for curr := s.buckets[i].head; curr != nil; curr = curr.next {
			fmt.Fprintf(bw, "[%v] -->", curr.key)
		}
		bw.WriteString("NULL\n")
	}
	return bw.Flush()
}

func typeTag[K any]() string {
	return reflect.TypeOf((*K)(nil)).Elem().String()
}
