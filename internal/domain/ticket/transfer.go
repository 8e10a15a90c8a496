package ticket

import (
	"fmt"
	"time"

	"ticketd/internal/domain/event"
)

// NotTransferableReason tells why a transfer was rejected.
type NotTransferableReason string

const (
	ReasonOwnerMismatch   NotTransferableReason = "owner_mismatch"
	ReasonAlreadyUsed     NotTransferableReason = "already_used"
	ReasonEventInProgress NotTransferableReason = "event_in_progress"
	ReasonEventConcluded  NotTransferableReason = "event_concluded"
	ReasonSameOwner       NotTransferableReason = "same_owner"
)

var reasonMessages = map[NotTransferableReason]string{
	ReasonOwnerMismatch:   "ticket is not owned by the requesting customer",
	ReasonAlreadyUsed:     "ticket has already been used",
	ReasonEventInProgress: "event has already started",
	ReasonEventConcluded:  "event has already ended",
	ReasonSameOwner:       "ticket cannot be transferred to its current owner",
}

func (r NotTransferableReason) String() string {
	return string(r)
}

// Message is a customer-facing description of the reason.
func (r NotTransferableReason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return "ticket is not transferable"
}

// NotTransferableError is returned by CanTransfer. It matches ErrNotTransferable.
type NotTransferableError struct {
	TicketKey string
	Reason    NotTransferableReason
}

func (e *NotTransferableError) Error() string {
	return fmt.Sprintf("ticket %s is not transferable: %s", e.TicketKey, e.Reason.Message())
}

func (e *NotTransferableError) Unwrap() error {
	return ErrNotTransferable
}

// CanTransfer checks, in order, that the requester owns the ticket, that the ticket is
// still open, that the event (if any) has not started, and that the ticket changes hands.
// A nil event places no timing restriction.
func CanTransfer(t *Ticket, currentOwnerID, newOwnerID uint, ev *event.Event, now time.Time) error {
	reject := func(reason NotTransferableReason) error {
		return &NotTransferableError{TicketKey: t.Key(), Reason: reason}
	}

	if t.OwnerID() != currentOwnerID {
		return reject(ReasonOwnerMismatch)
	}
	if !t.Status().IsOpen() {
		return reject(ReasonAlreadyUsed)
	}
	if ev != nil {
		if ev.HasEnded(now) {
			return reject(ReasonEventConcluded)
		}
		if ev.HasStarted(now) {
			return reject(ReasonEventInProgress)
		}
	}
	if currentOwnerID == newOwnerID {
		return reject(ReasonSameOwner)
	}
	return nil
}
