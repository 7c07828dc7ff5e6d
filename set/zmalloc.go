package set

import (
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// ErrOutOfMemory is returned when an insert would push the set past its
// memory budget.
var ErrOutOfMemory = errors.New("set: out of memory")

// bucketSize does not depend on the key type: a bucket is a single pointer.
var bucketSize = int64(unsafe.Sizeof(bucket[struct{}]{}))

// zmalloc tracks the estimated bytes held by one set.
type zmalloc struct {
	used int64
	max  int64 // 0 means unlimited
}

func (z *zmalloc) alloc(n int64) {
	z.used += n
}

func (z *zmalloc) free(n int64) {
	z.used -= n
}

// reserve checks that n more bytes fit the budget without recording them.
func (z *zmalloc) reserve(n int64) error {
	if z.max <= 0 || z.used+n <= z.max {
		return nil
	}
	return errors.Wrapf(ErrOutOfMemory, "need %s, %s of %s in use",
		humanize.Bytes(uint64(n)), humanize.Bytes(uint64(z.used)), humanize.Bytes(uint64(z.max)))
}

func bucketsCost(n int) int64 {
	return int64(n) * bucketSize
}

func nodeCost[K any](key K) int64 {
	return int64(unsafe.Sizeof(node[K]{})) + estimatePayload(key)
}

// estimatePayload returns the bytes a key owns outside its node.
func estimatePayload(v any) int64 {
	switch value := v.(type) {
	case string:
		return int64(len(value))
	case []byte:
		return int64(cap(value))
	case []int:
		return int64(cap(value)) * int64(unsafe.Sizeof(int(0)))
	case []string:
		n := int64(cap(value)) * int64(unsafe.Sizeof(""))
		for _, s := range value {
			n += int64(len(s))
		}
		return n
	default:
		return 0
	}
}
