// Package typeset implements a type-indexed heterogeneous container: a
// collection that holds at most one value per concrete type, addressed by
// that type instead of by a caller-chosen key.
//
// A Set is not synchronized. It is safe to put behind a mutex or rw-lock,
// but the Set itself never locks.
package typeset

import (
	"reflect"
	"sort"
	"strings"
)

// Set maps type identities to values, holding at most one value per
// concrete type. The zero value is not usable, create one with New.
type Set struct {
	_ noCopy

	// slots is kept sorted by sort key, so iteration over the set is
	// deterministic. The order carries no meaning for callers.
	slots []slot

	// version counts structural changes. Entry views stamp it at
	// creation to detect use after the set was mutated behind them.
	version uint64

	observer Observer
}

type slot struct {
	key   string
	value erasedValue
}

// New creates an empty Set.
func New() *Set {
	return &Set{}
}

// With inserts value into s and returns s, for building a set in a single
// expression. A previous value of the same type is discarded.
func With[T any](s *Set, value T) *Set {
	Insert(s, value)
	return s
}

// Insert stores value under its type. If the set already held a value of
// type T, that value is returned with replaced set to true.
func Insert[T any](s *Set, value T) (previous T, replaced bool) {
	idx, ok := s.search(reflect.TypeFor[T]())
	if !ok {
		s.insertAt(idx, erase(value))
		var zero T
		return zero, false
	}

	return *downcast[T](s.replaceAt(idx, erase(value))), true
}

// Get returns a pointer to the value stored for type T. The pointer may
// be used to mutate the value in place.
func Get[T any](s *Set) (*T, bool) {
	idx, ok := s.search(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}

	return downcast[T](s.slots[idx].value), true
}

// Contains reports whether the set holds a value of type T.
func Contains[T any](s *Set) bool {
	_, ok := s.search(reflect.TypeFor[T]())
	return ok
}

// Remove takes the value stored for type T out of the set.
func Remove[T any](s *Set) (T, bool) {
	idx, ok := s.search(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}

	return *downcast[T](s.removeAt(idx)), true
}

// GetOrInsert returns a pointer to the value stored for type T, storing
// value first if the set held none.
//
// Prefer GetOrInsertWith when constructing a T is expensive.
func GetOrInsert[T any](s *Set, value T) *T {
	return EntryOf[T](s).OrInsert(value)
}

// GetOrInsertWith is like GetOrInsert, but makeValue is only called when
// the set holds no value of type T.
func GetOrInsertWith[T any](s *Set, makeValue func() T) *T {
	return EntryOf[T](s).OrInsertWith(makeValue)
}

// GetOrInsertDefault returns a pointer to the value stored for type T,
// storing the zero value first if the set held none.
func GetOrInsertDefault[T any](s *Set) *T {
	return EntryOf[T](s).OrDefault()
}

// Len returns the number of values in the set.
func (s *Set) Len() int {
	return len(s.slots)
}

// IsEmpty reports whether the set holds no values.
func (s *Set) IsEmpty() bool {
	return len(s.slots) == 0
}

// Merge moves every value of other into s. When both sets hold a value of
// the same type, the value from other wins and the previous value in s is
// discarded. other is empty afterwards.
func (s *Set) Merge(other *Set) {
	if other == nil || other == s {
		return
	}

	for _, sl := range other.slots {
		idx, ok := s.search(sl.value.rtype)
		if ok {
			s.replaceAt(idx, sl.value)
		} else {
			s.insertAt(idx, sl.value)
		}
	}

	other.slots = nil
	other.version += 1
	s.version += 1
}

// String lists the types currently stored in the set.
func (s *Set) String() string {
	var sb strings.Builder

	sb.WriteString("Set{")

	for idx, sl := range s.slots {
		if idx > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(sl.key)
	}

	sb.WriteString("}")

	return sb.String()
}

// search locates the slot for ty. If no such slot exists, the returned
// index is the position a new slot for ty must be inserted at to keep
// slots sorted.
//
// Distinct types may share a sort key (two packages with the same base
// name can both declare a type of the same name), so the run of slots
// with an equal key is scanned for the exact reflect.Type.
func (s *Set) search(ty reflect.Type) (int, bool) {
	key := ty.String()

	idx := sort.Search(len(s.slots), func(idx int) bool {
		return s.slots[idx].key >= key
	})

	for ; idx < len(s.slots) && s.slots[idx].key == key; idx++ {
		if s.slots[idx].value.rtype == ty {
			return idx, true
		}
	}

	return idx, false
}

func (s *Set) insertAt(idx int, value erasedValue) {
	s.slots = append(s.slots, slot{})
	copy(s.slots[idx+1:], s.slots[idx:])
	s.slots[idx] = slot{key: value.rtype.String(), value: value}

	s.version += 1
	s.notify(value.rtype, false)
}

func (s *Set) replaceAt(idx int, value erasedValue) erasedValue {
	previous := s.slots[idx].value
	s.slots[idx].value = value

	s.notify(value.rtype, true)

	return previous
}

func (s *Set) removeAt(idx int) erasedValue {
	previous := s.slots[idx].value
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)

	s.version += 1

	return previous
}
