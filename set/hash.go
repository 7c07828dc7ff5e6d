package set

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to its hash value. Keys that are equal under the set's
// EqualFunc must hash to the same value.
type Hasher[K any] func(key K) uint64

// EqualFunc is the equality relation between keys.
type EqualFunc[K any] func(a, b K) bool

func defaultHasher[K comparable]() Hasher[K] {
	return func(key K) uint64 {
		return hashValue(key)
	}
}

func defaultEqual[K comparable]() EqualFunc[K] {
	return func(a, b K) bool {
		return a == b
	}
}

// hashValue hashes v consistently with ==. Common key types take a fast
// path; anything else is walked by kind.
func hashValue(v any) uint64 {
	switch k := v.(type) {
	case string:
		return xxhash.Sum64String(k)
	case int:
		return hashUint64(uint64(k))
	case int8:
		return hashUint64(uint64(k))
	case int16:
		return hashUint64(uint64(k))
	case int32:
		return hashUint64(uint64(k))
	case int64:
		return hashUint64(uint64(k))
	case uint:
		return hashUint64(uint64(k))
	case uint8:
		return hashUint64(uint64(k))
	case uint16:
		return hashUint64(uint64(k))
	case uint32:
		return hashUint64(uint64(k))
	case uint64:
		return hashUint64(k)
	case uintptr:
		return hashUint64(uint64(k))
	case float32:
		return hashUint64(floatBits(float64(k)))
	case float64:
		return hashUint64(floatBits(k))
	case bool:
		if k {
			return hashUint64(1)
		}
		return hashUint64(0)
	}

	d := xxhash.New()
	writeValue(d, reflect.ValueOf(v))
	return d.Sum64()
}

func hashUint64(u uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	return xxhash.Sum64(buf[:])
}

// floatBits folds -0 into +0, the only pair of distinct bit patterns that
// compare equal.
func floatBits(f float64) uint64 {
	if f == 0 {
		f = 0
	}
	return math.Float64bits(f)
}

func writeUint64(d *xxhash.Digest, u uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	d.Write(buf[:])
}

// writeValue feeds v to d field by field. Only kinds that can appear inside
// a comparable value are handled; unexported fields are read through the
// kind accessors, which do not need Interface.
func writeValue(d *xxhash.Digest, v reflect.Value) {
	switch v.Kind() {
	case reflect.Invalid:
		writeUint64(d, 0)
	case reflect.String:
		s := v.String()
		writeUint64(d, uint64(len(s)))
		d.WriteString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeUint64(d, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeUint64(d, v.Uint())
	case reflect.Float32, reflect.Float64:
		writeUint64(d, floatBits(v.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		writeUint64(d, floatBits(real(c)))
		writeUint64(d, floatBits(imag(c)))
	case reflect.Bool:
		if v.Bool() {
			writeUint64(d, 1)
		} else {
			writeUint64(d, 0)
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			writeValue(d, v.Index(i))
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			// == skips blank fields
			if t.Field(i).Name == "_" {
				continue
			}
			writeValue(d, v.Field(i))
		}
	case reflect.Interface:
		if v.IsNil() {
			writeUint64(d, 0)
			return
		}
		e := v.Elem()
		d.WriteString(e.Type().String())
		writeValue(d, e)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		writeUint64(d, uint64(v.Pointer()))
	default:
		// func, map and slice values are not comparable; == panics on them
		d.WriteString(v.Kind().String())
	}
}
