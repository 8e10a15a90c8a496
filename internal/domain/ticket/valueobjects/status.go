package valueobjects

import "fmt"

type TicketStatus string

const (
	// StatusOpen is an issued ticket that has not been presented at the door.
	StatusOpen TicketStatus = "open"
	// StatusScanned is a ticket that has been presented and admitted.
	StatusScanned TicketStatus = "scanned"
	// StatusVoid is a ticket that can no longer be used.
	StatusVoid TicketStatus = "void"
)

// statusRank orders statuses along their only allowed direction of travel.
var statusRank = map[TicketStatus]int{
	StatusOpen:    0,
	StatusScanned: 1,
	StatusVoid:    2,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	_, ok := statusRank[ts]
	return ok
}

// CanTransitionTo reports whether moving from ts to newStatus keeps the status monotonic.
// Staying on the same status is allowed so that repeated scans are idempotent.
func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	from, ok := statusRank[ts]
	if !ok {
		return false
	}
	to, ok := statusRank[newStatus]
	if !ok {
		return false
	}
	return to >= from
}

func (ts TicketStatus) IsOpen() bool {
	return ts == StatusOpen
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
