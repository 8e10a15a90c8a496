// Package event models the occasion a ticketed product grants entry to.
package event

import (
	"errors"
	"fmt"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	id    uint
	title string
	start time.Time
	end   time.Time
}

func NewEvent(title string, start, end time.Time) (*Event, error) {
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("event end must not be before its start")
	}

	return &Event{
		title: title,
		start: start,
		end:   end,
	}, nil
}

func ReconstructEvent(id uint, title string, start, end time.Time) (*Event, error) {
	if id == 0 {
		return nil, fmt.Errorf("event ID cannot be zero")
	}

	e, err := NewEvent(title, start, end)
	if err != nil {
		return nil, err
	}
	e.id = id
	return e, nil
}

func (e *Event) ID() uint {
	return e.id
}

func (e *Event) Title() string {
	return e.title
}

func (e *Event) Start() time.Time {
	return e.start
}

func (e *Event) End() time.Time {
	return e.end
}

func (e *Event) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("event ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("event ID cannot be zero")
	}
	e.id = id
	return nil
}

// HasStarted reports whether the event has begun at the given instant.
func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.start)
}

// HasEnded reports whether the event is over at the given instant.
func (e *Event) HasEnded(now time.Time) bool {
	return !now.Before(e.end)
}
