package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIteratorEmptySet(t *testing.T) {
	s := New[int]()
	assert.True(t, s.Begin().Done())
	assert.True(t, s.Begin().Equal(s.End()))
}

func TestIteratorOrder(t *testing.T) {
	s := newIdentitySet()
	s.InsertSlice([]int{1, 8, 3})

	var got []int
	for it := s.Begin(); !it.Equal(s.End()); it.Next() {
		got = append(got, it.Key())
	}
	// bucket 1 newest first, then bucket 3
	assert.Equal(t, []int{8, 1, 3}, got)
	assert.Equal(t, got, s.Keys())
}

func TestIteratorSkipsEmptyBuckets(t *testing.T) {
	s := newIdentitySet(WithCapacity(100))
	s.InsertSlice([]int{99, 0, 50})

	assert.Equal(t, []int{0, 50, 99}, s.Keys())
}

func TestIteratorVisitsEveryKeyOnce(t *testing.T) {
	s := New[int](WithCapacity(1))
	for i := 0; i < 300; i++ {
		s.Insert(i * 31)
	}

	seen := make(map[int]int)
	n := 0
	for it := s.Begin(); !it.Done(); it.Next() {
		seen[it.Key()]++
		n++
	}
	assert.Equal(t, s.Len(), n)
	assert.Len(t, seen, 300)
	for k, c := range seen {
		assert.Equal(t, 1, c, "key %d", k)
	}
}

func TestIteratorNextAtEnd(t *testing.T) {
	s := Of(1)
	it := s.Begin()
	it.Next()
	assert.True(t, it.Done())
	it.Next()
	assert.True(t, it.Done())
}

func TestIteratorEqualityIsByNode(t *testing.T) {
	a := Of(1, 2)
	b := Of(1, 2)

	assert.True(t, a.End().Equal(b.End()))
	assert.False(t, a.Find(1).Equal(b.Find(1)))
	assert.True(t, a.Find(1).Equal(a.Find(1)))
	assert.False(t, a.Find(1).Equal(a.Find(2)))
}

func TestAllStopsEarly(t *testing.T) {
	s := Of(1, 2, 3, 4, 5)
	n := 0
	for range s.All() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
