package shared

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/kvtable/kvtable/xhash"
)

// Default returns a HashFn for the Go builtin kinds, dispatching on
// reflect.Kind the same way a kind-switch hasher factory normally does, but
// routed through xhash's fixed-width fast paths instead of a MurmurHash3
// finalizer: 1, 2 and 4-byte keys go through Sum32Word, 8-byte keys and
// strings through Sum32Doubleword/Sum32 respectively.
func Default[K comparable]() HashFn[K] {
	var zero K
	kind := reflect.TypeOf(&zero).Elem().Kind()

	switch kind {
	case reflect.Int8, reflect.Uint8:
		return func(k K) uint32 {
			v := *(*uint8)(unsafe.Pointer(&k))
			return xhash.Sum32Word(xhash.DefaultSeed, uint32(v))
		}

	case reflect.Int16, reflect.Uint16:
		return func(k K) uint32 {
			v := *(*uint16)(unsafe.Pointer(&k))
			return xhash.Sum32Word(xhash.DefaultSeed, uint32(v))
		}

	case reflect.Int32, reflect.Uint32:
		return func(k K) uint32 {
			v := *(*uint32)(unsafe.Pointer(&k))
			return xhash.Sum32Word(xhash.DefaultSeed, v)
		}

	case reflect.Int, reflect.Uint, reflect.Uintptr:
		switch unsafe.Sizeof(zero) {
		case 4:
			return func(k K) uint32 {
				v := *(*uint32)(unsafe.Pointer(&k))
				return xhash.Sum32Word(xhash.DefaultSeed, v)
			}
		case 8:
			return func(k K) uint32 {
				v := *(*uint64)(unsafe.Pointer(&k))
				return xhash.Sum32Doubleword(xhash.DefaultSeed, v)
			}
		default:
			panic("unsupported integer byte size")
		}

	case reflect.Int64, reflect.Uint64:
		return func(k K) uint32 {
			v := *(*uint64)(unsafe.Pointer(&k))
			return xhash.Sum32Doubleword(xhash.DefaultSeed, v)
		}

	case reflect.Float32:
		return func(k K) uint32 {
			v := *(*uint32)(unsafe.Pointer(&k))
			return xhash.Sum32Word(xhash.DefaultSeed, v)
		}

	case reflect.Float64:
		return func(k K) uint32 {
			v := *(*uint64)(unsafe.Pointer(&k))
			return xhash.Sum32Doubleword(xhash.DefaultSeed, v)
		}

	case reflect.String:
		return func(k K) uint32 {
			s := any(k).(string)
			return xhash.Sum32(xhash.DefaultSeed, []byte(s))
		}

	default:
		panic(fmt.Sprintf("unsupported key kind %v for default hasher", kind))
	}
}
