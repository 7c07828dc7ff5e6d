package set

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentitySet(opts ...Option) *Set[int] {
	return NewFunc[int](
		func(k int) uint64 { return uint64(k) },
		func(a, b int) bool { return a == b },
		opts...)
}

func TestSetInsertAndCount(t *testing.T) {
	s := New[string]()
	assert.True(t, s.Empty())

	it, inserted := s.Insert("one")
	assert.True(t, inserted)
	assert.Equal(t, "one", it.Key())

	s.Insert("two")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Count("one"))
	assert.Equal(t, 1, s.Count("two"))
	assert.Equal(t, 0, s.Count("three"))
	assert.False(t, s.Empty())
}

func TestSetInsertDuplicate(t *testing.T) {
	s := New[int]()
	first, _ := s.Insert(42)
	capacity := s.Capacity()
	mem := s.Stats().MemoryUsed

	it, inserted := s.Insert(42)
	assert.False(t, inserted)
	assert.True(t, it.Equal(first))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, capacity, s.Capacity())
	assert.Equal(t, mem, s.Stats().MemoryUsed)
}

func TestSetGrowth(t *testing.T) {
	s := Of(1, 2, 3, 4, 5, 6, 7, 8)

	assert.Equal(t, 8, s.Len())
	assert.Equal(t, 14, s.Capacity())
	assert.Equal(t, 1, s.Stats().Rehashes)
	assert.Equal(t, 1, s.Count(4))

	assert.Equal(t, 1, s.Erase(4))
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, 0, s.Count(4))
}

func TestSetLoadFactorBoundary(t *testing.T) {
	s := New[int](WithCapacity(10))
	for i := 0; i < 7; i++ {
		s.Insert(i)
	}
	// 7/10 is exactly the limit
	assert.Equal(t, 10, s.Capacity())

	s.Insert(7)
	assert.Equal(t, 20, s.Capacity())
}

func TestSetGrowthKeepsMembership(t *testing.T) {
	s := New[string](WithCapacity(1))
	for i := 0; i < 1000; i++ {
		s.Insert(fmt.Sprintf("key%d", i))
	}
	assert.Equal(t, 1000, s.Len())
	assert.Equal(t, 2048, s.Capacity())
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key%d", i)
		it := s.Find(key)
		require.False(t, it.Done(), "key %s should exist", key)
		assert.Equal(t, key, it.Key())
	}
}

func TestSetInsertIteratorSurvivesGrowth(t *testing.T) {
	s := New[int]()
	for i := 0; i < 4; i++ {
		s.Insert(i)
	}
	assert.Equal(t, 7, s.Capacity())

	it, inserted := s.Insert(4)
	assert.True(t, inserted)
	assert.Equal(t, 14, s.Capacity())
	assert.Equal(t, 4, it.Key())
	assert.True(t, it.Equal(s.Find(4)))
}

func TestSetErase(t *testing.T) {
	s := Of("a", "b", "c")

	assert.Equal(t, 0, s.Erase("z"))
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, 1, s.Erase("b"))
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Contains("b"))
	assert.True(t, s.Find("b").Done())

	assert.Equal(t, 0, s.Erase("b"))
	assert.Equal(t, 2, s.Len())
}

func TestSetEraseFromChain(t *testing.T) {
	s := newIdentitySet()
	s.InsertSlice([]int{1, 8, 15})
	assert.Equal(t, [][]int{nil, {15, 8, 1}, nil, nil, nil, nil, nil}, s.Buckets())

	assert.Equal(t, 1, s.Erase(8))
	assert.Equal(t, []int{15, 1}, s.Buckets()[1])
	assert.Equal(t, 1, s.Erase(1))
	assert.Equal(t, []int{15}, s.Buckets()[1])
	assert.Equal(t, 1, s.Erase(15))
	assert.Nil(t, s.Buckets()[1])
	assert.True(t, s.Empty())
}

func TestSetEraseNeverShrinks(t *testing.T) {
	s := New[int]()
	for i := 0; i < 100; i++ {
		s.Insert(i)
	}
	capacity := s.Capacity()
	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, s.Erase(i))
	}
	assert.True(t, s.Empty())
	assert.Equal(t, capacity, s.Capacity())
}

func TestSetClear(t *testing.T) {
	s := New[int](WithCapacity(3))
	for i := 0; i < 50; i++ {
		s.Insert(i)
	}
	require.Greater(t, s.Capacity(), 3)

	s.Clear()
	assert.True(t, s.Empty())
	assert.Equal(t, 3, s.Capacity())
	assert.True(t, s.Begin().Done())
	assert.Equal(t, bucketsCost(3), s.Stats().MemoryUsed)

	s.Insert(7)
	assert.Equal(t, 1, s.Count(7))
}

func TestSetEqual(t *testing.T) {
	assert.True(t, Of[int]().Equal(Of[int]()))
	assert.True(t, Of(1, 2).Equal(Of(2, 1)))
	assert.False(t, Of(1, 2).Equal(Of(1, 3)))
	assert.False(t, Of(1, 2).Equal(Of(1, 2, 3)))
	assert.False(t, Of(1, 2, 3).Equal(Of(1, 2)))
	assert.False(t, Of(1).Equal(nil))

	a := New[int](WithCapacity(1))
	b := New[int](WithCapacity(64))
	for i := 0; i < 20; i++ {
		a.Insert(i)
		b.Insert(19 - i)
	}
	assert.NotEqual(t, a.Capacity(), b.Capacity())
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, a.Equal(a))
}

func TestSetEqualDuplicatesCollapse(t *testing.T) {
	assert.True(t, Of(1, 1, 2, 2, 3).Equal(Of(3, 2, 1)))
}

func TestSetSwap(t *testing.T) {
	a := Of(1, 2, 3)
	b := New[int](WithCapacity(20))
	b.Insert(9)

	a.Swap(b)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 20, a.Capacity())
	assert.True(t, a.Contains(9))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 7, b.Capacity())
	assert.True(t, b.Equal(Of(1, 2, 3)))
}

func TestSetClone(t *testing.T) {
	s := newIdentitySet()
	s.InsertSlice([]int{1, 8, 3, 10})

	c := s.Clone()
	assert.True(t, c.Equal(s))
	assert.Equal(t, s.Buckets(), c.Buckets())
	assert.Equal(t, s.Capacity(), c.Capacity())
	assert.Equal(t, s.Stats().MemoryUsed, c.Stats().MemoryUsed)

	c.Erase(8)
	c.Insert(100)
	assert.True(t, s.Contains(8))
	assert.False(t, s.Contains(100))
	assert.False(t, c.Equal(s))
}

func TestSetInsertRange(t *testing.T) {
	src := Of("a", "b", "c", "d")
	dst := Of("a", "x")

	dst.InsertRange(src.Begin(), src.End())
	assert.Equal(t, 5, dst.Len())
	for _, k := range []string{"a", "b", "c", "d", "x"} {
		assert.True(t, dst.Contains(k), k)
	}

	partial := New[string]()
	partial.InsertRange(src.Find("c"), src.End())
	assert.True(t, partial.Contains("c"))
	assert.LessOrEqual(t, partial.Len(), 4)

	empty := New[string]()
	empty.InsertRange(src.End(), src.End())
	assert.True(t, empty.Empty())
}

func TestSetInsertSet(t *testing.T) {
	s := Of(1, 2)
	s.InsertSet(Of(2, 3, 4))
	assert.True(t, s.Equal(Of(1, 2, 3, 4)))

	s.InsertSet(s)
	assert.Equal(t, 4, s.Len())
}

func TestSetCustomEquality(t *testing.T) {
	s := NewFunc[string](
		func(k string) uint64 { return hashValue(strings.ToLower(k)) },
		strings.EqualFold)

	s.Insert("Hello")
	_, inserted := s.Insert("HELLO")
	assert.False(t, inserted)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "Hello", s.Find("hello").Key())
}

func TestSetSliceKeys(t *testing.T) {
	s := NewFunc[[]int](
		func(k []int) uint64 { return hashValue(fmt.Sprint(k)) },
		func(a, b []int) bool { return fmt.Sprint(a) == fmt.Sprint(b) })

	s.Insert([]int{1, 2})
	s.Insert([]int{1, 2})
	s.Insert([]int{2, 1})
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, s.Count([]int{2, 1}))
}

type point struct {
	X, Y int
}

func TestSetStructKeys(t *testing.T) {
	s := New[point]()
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			s.Insert(point{x, y})
		}
	}
	s.Insert(point{3, 4})
	assert.Equal(t, 100, s.Len())
	assert.True(t, s.Contains(point{9, 9}))
	assert.False(t, s.Contains(point{10, 0}))
}

func TestSetAgainstOracle(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s := New[int](WithCapacity(1))
	oracle := hashset.New()

	for i := 0; i < 5000; i++ {
		k := rnd.Intn(500)
		switch rnd.Intn(3) {
		case 0, 1:
			_, inserted := s.Insert(k)
			assert.Equal(t, !oracle.Contains(k), inserted)
			oracle.Add(k)
		case 2:
			want := 0
			if oracle.Contains(k) {
				want = 1
			}
			assert.Equal(t, want, s.Erase(k))
			oracle.Remove(k)
		}
		require.Equal(t, oracle.Size(), s.Len())
	}

	seen := hashset.New()
	for k := range s.All() {
		assert.False(t, seen.Contains(k), "key %d visited twice", k)
		assert.True(t, oracle.Contains(k))
		seen.Add(k)
	}
	assert.Equal(t, oracle.Size(), seen.Size())
}
