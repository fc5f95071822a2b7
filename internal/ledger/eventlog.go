package ledger

import (
	"fmt"
	"iter"
	"time"

	"agritrace/internal/domain"
)

// EventLog is the append-only history of one batch. Insertion order is
// chronological order; timestamps never decrease.
type EventLog struct {
	events []domain.Event
}

// Append adds e to the log and returns the new length.
func (l *EventLog) Append(e domain.Event) (int, error) {
	if err := l.admits(e.Timestamp); err != nil {
		return len(l.events), err
	}
	l.events = append(l.events, e)
	return len(l.events), nil
}

func (l *EventLog) admits(ts time.Time) error {
	if n := len(l.events); n > 0 && ts.Before(l.events[n-1].Timestamp) {
		return fmt.Errorf("%w: %s before %s", ErrOutOfOrderTimestamp,
			ts.Format(time.RFC3339), l.events[n-1].Timestamp.Format(time.RFC3339))
	}
	return nil
}

// Latest returns the most recent event.
func (l *EventLog) Latest() (domain.Event, error) {
	if len(l.events) == 0 {
		return domain.Event{}, fmt.Errorf("%w: event log is empty", ErrNotFound)
	}
	return l.events[len(l.events)-1], nil
}

// All yields the events in insertion order. The sequence covers the log as
// it was when All was called and may be ranged over any number of times.
func (l *EventLog) All() iter.Seq[domain.Event] {
	events := l.events[:len(l.events):len(l.events)]
	return func(yield func(domain.Event) bool) {
		for _, e := range events {
			if !yield(e) {
				return
			}
		}
	}
}

func (l *EventLog) Len() int { return len(l.events) }

// Last returns a copy of the final n events, oldest first.
func (l *EventLog) Last(n int) []domain.Event {
	if n > len(l.events) {
		n = len(l.events)
	}
	if n <= 0 {
		return []domain.Event{}
	}
	return cloneEvents(l.events[len(l.events)-n:])
}

func cloneEvents(in []domain.Event) []domain.Event {
	out := make([]domain.Event, len(in))
	for i, e := range in {
		if e.Price != nil {
			p := *e.Price
			e.Price = &p
		}
		out[i] = e
	}
	return out
}
