package typeset

import (
	"fmt"
	"reflect"
)

// erasedValue is an owning box around a single value whose concrete type
// is only known at runtime. ptr always holds a *T with rtype equal to
// the reflect type of T.
type erasedValue struct {
	rtype reflect.Type
	ptr   any
}

func erase[T any](value T) erasedValue {
	ptr := new(T)
	*ptr = value

	return erasedValue{rtype: reflect.TypeFor[T](), ptr: ptr}
}

// downcast recovers the typed pointer from an erased box. A box is always
// located through the key of its own type, so a mismatch means the set's
// bookkeeping is corrupt and we fail hard instead of returning an error
// the caller could swallow.
func downcast[T any](value erasedValue) *T {
	ptr, ok := value.ptr.(*T)
	if !ok {
		panic(fmt.Sprintf("type-set bookkeeping corrupt: slot for %s holds a %s",
			reflect.TypeFor[T](), value.rtype))
	}

	return ptr
}
