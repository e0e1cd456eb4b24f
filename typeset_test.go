package typeset

import (
	"bytes"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSmoke(t *testing.T) {
	set := New()
	require.Equal(t, 0, set.Len())
	require.True(t, set.IsEmpty())
	require.False(t, Contains[bool](set))

	_, replaced := Insert(set, true)
	require.False(t, replaced)
	require.True(t, Contains[bool](set))
	require.False(t, set.IsEmpty())
	require.Equal(t, 1, set.Len())

	value, ok := Get[bool](set)
	require.True(t, ok)
	require.True(t, *value)

	previous, replaced := Insert(set, false)
	require.True(t, replaced)
	require.True(t, previous)
	require.Equal(t, 1, set.Len())

	value, ok = Get[bool](set)
	require.True(t, ok)
	require.False(t, *value)
}

func TestOneSlotPerType(t *testing.T) {
	set := New()

	for idx := range 10 {
		Insert(set, idx)
		Insert(set, fmt.Sprintf("value-%d", idx))
		Insert(set, idx%2 == 0)
	}

	require.Equal(t, 3, set.Len())
}

func TestRemoveRoundTrip(t *testing.T) {
	set := With(With(New(), "hello"), 1)

	value, ok := Remove[string](set)
	require.True(t, ok)
	require.Equal(t, "hello", value)
	require.False(t, Contains[string](set))
	require.Equal(t, 1, set.Len())

	_, ok = Remove[string](set)
	require.False(t, ok)
	require.Equal(t, 1, set.Len())
}

func TestGetMutatesInPlace(t *testing.T) {
	set := With(New(), "hello")

	value, ok := Get[string](set)
	require.True(t, ok)
	*value += " world"

	stored, ok := Get[string](set)
	require.True(t, ok)
	require.Equal(t, "hello world", *stored)
}

func TestGetOrInsert(t *testing.T) {
	set := With(New(), "HELLO WORLD")

	require.Equal(t, "HELLO WORLD", *GetOrInsert(set, "unused"))
	require.Equal(t, "HELLO WORLD", *GetOrInsertWith(set, func() string { return "unused" }))
	require.Equal(t, "HELLO WORLD", *GetOrInsertDefault[string](set))
	require.Equal(t, 1, set.Len())

	value, ok := Remove[string](set)
	require.True(t, ok)
	require.Equal(t, "HELLO WORLD", value)

	_, ok = Remove[string](set)
	require.False(t, ok)
}

func TestGetOrInsertVacant(t *testing.T) {
	set := New()

	value := GetOrInsert(set, 42)
	require.Equal(t, 42, *value)
	require.Equal(t, 1, set.Len())

	*value = 43

	stored, ok := Get[int](set)
	require.True(t, ok)
	require.Equal(t, 43, *stored)
}

func TestGetOrInsertWithIsLazy(t *testing.T) {
	set := With(New(), 1)

	GetOrInsertWith(set, func() int {
		t.Fatal("must not be called for an occupied slot")
		return 0
	})
}

func TestGetOrInsertDefault(t *testing.T) {
	set := New()
	require.Equal(t, "", *GetOrInsertDefault[string](set))
	require.True(t, Contains[string](set))
}

func TestMerge(t *testing.T) {
	setA := With(With(New(), uint8(8)), "hello")
	setB := With(With(New(), uint32(32)), "world")

	setA.Merge(setB)

	require.Equal(t, 3, setA.Len())
	require.True(t, setB.IsEmpty())

	small, ok := Get[uint8](setA)
	require.True(t, ok)
	require.Equal(t, uint8(8), *small)

	big, ok := Get[uint32](setA)
	require.True(t, ok)
	require.Equal(t, uint32(32), *big)

	greeting, ok := Get[string](setA)
	require.True(t, ok)
	require.Equal(t, "world", *greeting)
}

func TestMergeIntoEmpty(t *testing.T) {
	setA := New()
	setB := With(New(), 1)

	setA.Merge(setB)

	require.Equal(t, 1, setA.Len())
	require.True(t, setB.IsEmpty())

	setA.Merge(nil)
	require.Equal(t, 1, setA.Len())
}

func TestString(t *testing.T) {
	require.Equal(t, "Set{}", New().String())
	require.Equal(t, "Set{int, string}", With(With(New(), "hello"), 1).String())
}

func TestObserver(t *testing.T) {
	var events []Event

	set := New().Observe(func(event Event) {
		events = append(events, event)
	})

	Insert(set, 1)
	Insert(set, 2)
	Remove[int](set)

	require.Equal(t, []Event{
		{Type: reflect.TypeFor[int](), Replaced: false},
		{Type: reflect.TypeFor[int](), Replaced: true},
	}, events)
}

func TestObserverSeesEntryInserts(t *testing.T) {
	var events []Event

	set := New().Observe(func(event Event) {
		events = append(events, event)
	})

	EntryOf[string](set).OrInsert("hello")
	EntryOf[string](set).OrInsert("unused")
	EntryOf[string](set).MustOccupied().Insert("world")

	require.Equal(t, []Event{
		{Type: reflect.TypeFor[string](), Replaced: false},
		{Type: reflect.TypeFor[string](), Replaced: true},
	}, events)
}

func TestLogInserts(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	set := New().Observe(LogInserts(logger))
	Insert(set, "hello")
	Insert(set, "world")

	logs := buf.String()
	require.Contains(t, logs, `"message":"inserting"`)
	require.Contains(t, logs, `"message":"replacing"`)
	require.Contains(t, logs, `"type":"string"`)
}
