package ticket

import (
	"time"
)

// TicketTransferredEvent is published after a transfer has been persisted. It never
// carries the unique code.
type TicketTransferredEvent struct {
	TicketKey       string    `json:"ticket_key"`
	OrderID         uint      `json:"order_id"`
	ProductID       uint      `json:"product_id"`
	PreviousOwnerID uint      `json:"previous_owner_id"`
	NewOwnerID      uint      `json:"new_owner_id"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewTicketTransferredEvent(t *Ticket, previousOwnerID uint, timestamp time.Time) TicketTransferredEvent {
	return TicketTransferredEvent{
		TicketKey:       t.Key(),
		OrderID:         t.OrderID(),
		ProductID:       t.ProductID(),
		PreviousOwnerID: previousOwnerID,
		NewOwnerID:      t.OwnerID(),
		Timestamp:       timestamp,
	}
}
