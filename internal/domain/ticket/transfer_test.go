package ticket

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketd/internal/domain/event"
	vo "ticketd/internal/domain/ticket/valueobjects"
)

func TestCanTransfer(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	upcoming, err := event.ReconstructEvent(1, "Winter Gala", now.Add(24*time.Hour), now.Add(28*time.Hour))
	require.NoError(t, err)
	running, err := event.ReconstructEvent(2, "Matinee", now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	finished, err := event.ReconstructEvent(3, "Last Night", now.Add(-48*time.Hour), now.Add(-44*time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name       string
		status     vo.TicketStatus
		current    uint
		newOwner   uint
		ev         *event.Event
		wantReason NotTransferableReason
	}{
		{name: "eligible with upcoming event", status: vo.StatusOpen, current: 10, newOwner: 20, ev: upcoming},
		{name: "eligible without event", status: vo.StatusOpen, current: 10, newOwner: 20, ev: nil},
		{name: "requester does not own ticket", status: vo.StatusOpen, current: 11, newOwner: 20, ev: upcoming, wantReason: ReasonOwnerMismatch},
		{name: "scanned ticket", status: vo.StatusScanned, current: 10, newOwner: 20, ev: upcoming, wantReason: ReasonAlreadyUsed},
		{name: "void ticket", status: vo.StatusVoid, current: 10, newOwner: 20, ev: nil, wantReason: ReasonAlreadyUsed},
		{name: "event in progress", status: vo.StatusOpen, current: 10, newOwner: 20, ev: running, wantReason: ReasonEventInProgress},
		{name: "event concluded", status: vo.StatusOpen, current: 10, newOwner: 20, ev: finished, wantReason: ReasonEventConcluded},
		{name: "transfer to self", status: vo.StatusOpen, current: 10, newOwner: 10, ev: upcoming, wantReason: ReasonSameOwner},
		{name: "ownership checked before status", status: vo.StatusScanned, current: 11, newOwner: 20, ev: finished, wantReason: ReasonOwnerMismatch},
		{name: "status checked before event", status: vo.StatusScanned, current: 10, newOwner: 20, ev: finished, wantReason: ReasonAlreadyUsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := reconstructedTicket(t, tt.status)

			err := CanTransfer(tk, tt.current, tt.newOwner, tt.ev, now)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotTransferable))

			var ntErr *NotTransferableError
			require.True(t, errors.As(err, &ntErr))
			assert.Equal(t, tt.wantReason, ntErr.Reason)
			assert.Equal(t, tk.Key(), ntErr.TicketKey)
		})
	}
}

func TestCanTransfer_EventStartBoundary(t *testing.T) {
	start := time.Date(2026, 12, 1, 20, 0, 0, 0, time.UTC)
	ev, err := event.ReconstructEvent(1, "Winter Gala", start, start.Add(3*time.Hour))
	require.NoError(t, err)
	tk := reconstructedTicket(t, vo.StatusOpen)

	assert.NoError(t, CanTransfer(tk, 10, 20, ev, start.Add(-time.Nanosecond)))

	err = CanTransfer(tk, 10, 20, ev, start)
	var ntErr *NotTransferableError
	require.True(t, errors.As(err, &ntErr))
	assert.Equal(t, ReasonEventInProgress, ntErr.Reason)
}

func TestNotTransferableReason_Message(t *testing.T) {
	assert.Equal(t, "ticket has already been used", ReasonAlreadyUsed.Message())
	assert.Equal(t, "ticket is not transferable", NotTransferableReason("unknown").Message())
}
