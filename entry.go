package typeset

import (
	"fmt"
	"reflect"
)

// Entry is a view into the slot a single type occupies in a Set, either
// vacant or occupied. It allows a read-modify-write sequence against the
// slot without looking it up again for every step.
//
// An entry borrows the whole set: the set must not be used through any
// other handle while an entry derived from it is alive. Operations that
// change the structure of the set consume the entry; using it afterwards
// panics.
type Entry[T any] struct {
	set      *Set
	version  uint64
	idx      int
	occupied bool
}

// EntryOf returns a view into the slot for type T, vacant or occupied
// depending on the current state of the set.
func EntryOf[T any](s *Set) Entry[T] {
	idx, ok := s.search(reflect.TypeFor[T]())
	return Entry[T]{set: s, version: s.version, idx: idx, occupied: ok}
}

// OrInsert stores value if the slot is vacant, then returns a pointer to
// the stored value.
//
// Prefer OrInsertWith when constructing a T is expensive.
func (e Entry[T]) OrInsert(value T) *T {
	return e.OrInsertWith(func() T { return value })
}

// OrInsertWith is like OrInsert, but makeValue is only called when the
// slot is vacant.
func (e Entry[T]) OrInsertWith(makeValue func() T) *T {
	guardVersion[T](e.set, e.version)

	if !e.occupied {
		e.set.insertAt(e.idx, erase(makeValue()))
	}

	return downcast[T](e.set.slots[e.idx].value)
}

// OrDefault stores the zero value of T if the slot is vacant, then
// returns a pointer to the stored value.
func (e Entry[T]) OrDefault() *T {
	return e.OrInsertWith(func() (zero T) { return })
}

// AndModify calls modify on the stored value when the slot is occupied
// and leaves a vacant slot alone. It returns the entry, so the Or*
// operations can be chained after it.
func (e Entry[T]) AndModify(modify func(*T)) Entry[T] {
	guardVersion[T](e.set, e.version)

	if e.occupied {
		modify(downcast[T](e.set.slots[e.idx].value))
	}

	return e
}

// Take removes the value from the set if the slot is occupied.
func (e Entry[T]) Take() (T, bool) {
	if occupied, ok := e.Occupied(); ok {
		return occupied.Remove(), true
	}

	var zero T
	return zero, false
}

// Occupied narrows the entry into an OccupiedEntry, or returns false if
// the slot is vacant.
func (e Entry[T]) Occupied() (OccupiedEntry[T], bool) {
	guardVersion[T](e.set, e.version)

	if !e.occupied {
		return OccupiedEntry[T]{}, false
	}

	return OccupiedEntry[T]{set: e.set, version: e.version, idx: e.idx}, true
}

// Vacant narrows the entry into a VacantEntry, or returns false if the
// slot is occupied.
func (e Entry[T]) Vacant() (VacantEntry[T], bool) {
	guardVersion[T](e.set, e.version)

	if e.occupied {
		return VacantEntry[T]{}, false
	}

	return VacantEntry[T]{set: e.set, version: e.version, idx: e.idx}, true
}

// MustOccupied narrows the entry into an OccupiedEntry and panics if the
// slot is vacant.
func (e Entry[T]) MustOccupied() OccupiedEntry[T] {
	occupied, ok := e.Occupied()
	if !ok {
		panic(fmt.Sprintf("expected an occupied type-set entry for %s, but it was vacant",
			reflect.TypeFor[T]()))
	}

	return occupied
}

// MustVacant narrows the entry into a VacantEntry and panics if the slot
// is occupied.
func (e Entry[T]) MustVacant() VacantEntry[T] {
	vacant, ok := e.Vacant()
	if !ok {
		panic(fmt.Sprintf("expected a vacant type-set entry for %s, but it was occupied",
			reflect.TypeFor[T]()))
	}

	return vacant
}

// Mut returns a pointer to the stored value if the slot is occupied. It
// never inserts.
func (e Entry[T]) Mut() (*T, bool) {
	guardVersion[T](e.set, e.version)

	if !e.occupied {
		return nil, false
	}

	return downcast[T](e.set.slots[e.idx].value), true
}

// IsEmpty reports whether the slot is vacant.
func (e Entry[T]) IsEmpty() bool {
	guardVersion[T](e.set, e.version)
	return !e.occupied
}

// Insert stores value in the slot. If the slot was occupied, the previous
// value is returned with replaced set to true.
func (e Entry[T]) Insert(value T) (previous T, replaced bool) {
	guardVersion[T](e.set, e.version)

	if e.occupied {
		return *downcast[T](e.set.replaceAt(e.idx, erase(value))), true
	}

	e.set.insertAt(e.idx, erase(value))

	var zero T
	return zero, false
}

func (e Entry[T]) String() string {
	if e.occupied {
		return fmt.Sprintf("Occupied[%s]", reflect.TypeFor[T]())
	}

	return fmt.Sprintf("Vacant[%s]", reflect.TypeFor[T]())
}

// VacantEntry is a view into a slot known to be empty.
type VacantEntry[T any] struct {
	set     *Set
	version uint64
	idx     int
}

// Insert stores value in the slot and returns a pointer to the stored
// value. A slot known to be vacant cannot fail to accept an insert.
func (v VacantEntry[T]) Insert(value T) *T {
	guardVersion[T](v.set, v.version)

	v.set.insertAt(v.idx, erase(value))

	return downcast[T](v.set.slots[v.idx].value)
}

func (v VacantEntry[T]) String() string {
	return fmt.Sprintf("VacantEntry[%s]", reflect.TypeFor[T]())
}

// OccupiedEntry is a view into a slot known to hold a value.
type OccupiedEntry[T any] struct {
	set     *Set
	version uint64
	idx     int
}

// Get returns a pointer to the stored value. The pointer stays valid
// after the entry itself is gone.
func (o OccupiedEntry[T]) Get() *T {
	guardVersion[T](o.set, o.version)
	return downcast[T](o.set.slots[o.idx].value)
}

// Insert replaces the stored value and returns the previous one. The
// entry stays usable.
func (o OccupiedEntry[T]) Insert(value T) T {
	guardVersion[T](o.set, o.version)
	return *downcast[T](o.set.replaceAt(o.idx, erase(value)))
}

// Remove empties the slot and returns the value it held. The entry is
// consumed.
func (o OccupiedEntry[T]) Remove() T {
	guardVersion[T](o.set, o.version)
	return *downcast[T](o.set.removeAt(o.idx))
}

func (o OccupiedEntry[T]) String() string {
	return fmt.Sprintf("OccupiedEntry[%s]", reflect.TypeFor[T]())
}

// guardVersion panics when the set was structurally mutated after the
// entry holding version was created. Go cannot reject the aliasing at
// compile time, so it is converted into a loud failure instead of a
// silently misplaced slot index.
func guardVersion[T any](s *Set, version uint64) {
	if s.version != version {
		panic(fmt.Sprintf("type-set entry for %s used after the set was mutated",
			reflect.TypeFor[T]()))
	}
}
