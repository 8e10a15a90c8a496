package usecases

import (
	"context"
	"image"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/order"
	"ticketd/internal/domain/ticket"
)

// Notifier tells the parties of a completed transfer. Failures never undo the transfer.
type Notifier interface {
	SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error
}

type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CodeImageEncoder renders a ticket's unique code as a scannable image.
type CodeImageEncoder interface {
	Encode(t *ticket.Ticket) (image.Image, error)
	EncodePNG(t *ticket.Ticket) ([]byte, error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id uint) (*order.Order, error)
	ClaimTicketIssuance(ctx context.Context, orderID uint) (bool, error)
}

type CustomerRepository interface {
	GetByID(ctx context.Context, id uint) (*customer.Customer, error)
}
