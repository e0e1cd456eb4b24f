package typeset

import (
	"reflect"

	"github.com/rs/zerolog"
)

// Event describes a value being inserted into a Set.
type Event struct {
	// Type is the concrete type the slot is keyed by.
	Type reflect.Type

	// Replaced is true when the insert displaced a previous value.
	Replaced bool
}

// Observer receives an Event for every insert and replace performed on a
// Set, no matter which operation triggered it. It is purely
// observational and must not mutate the Set it observes.
type Observer func(Event)

// Observe installs observer on the set and returns the set for chaining.
// A nil observer turns tracing off.
func (s *Set) Observe(observer Observer) *Set {
	s.observer = observer
	return s
}

func (s *Set) notify(ty reflect.Type, replaced bool) {
	if s.observer != nil {
		s.observer(Event{Type: ty, Replaced: replaced})
	}
}

// LogInserts returns an Observer that writes a trace-level event to
// logger for every insert and replace.
func LogInserts(logger zerolog.Logger) Observer {
	return func(event Event) {
		msg := "inserting"
		if event.Replaced {
			msg = "replacing"
		}

		logger.Trace().Str("type", event.Type.String()).Msg(msg)
	}
}
