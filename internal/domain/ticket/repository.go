package ticket

import (
	"context"

	vo "ticketd/internal/domain/ticket/valueobjects"
)

// CodeChecker answers whether a unique code is already taken within a product.
type CodeChecker interface {
	ExistsByProductAndCode(ctx context.Context, productID uint, code string) (bool, error)
}

// TicketRepository persists tickets. Single-ticket lookups return ErrTicketNotFound when
// nothing matches; collection lookups return an empty slice.
type TicketRepository interface {
	CodeChecker

	// Save inserts a new ticket and assigns its ID and key. It returns ErrDuplicateCode
	// when the (product, code) pair is already present.
	Save(ctx context.Context, t *Ticket) error
	UpdateStatus(ctx context.Context, t *Ticket) error
	// UpdateOwnership writes the owner and code of t in one statement, provided the stored
	// row still has previousOwnerID and previousCode. Otherwise it returns
	// ErrConcurrentModification.
	UpdateOwnership(ctx context.Context, t *Ticket, previousOwnerID uint, previousCode string) error

	FindByProductAndCode(ctx context.Context, productID uint, code string) (*Ticket, error)
	FindByKey(ctx context.Context, key string) (*Ticket, error)
	FindAllByProduct(ctx context.Context, productID uint) ([]*Ticket, error)
	// FindAllByCustomer returns the owner's tickets, newest first.
	FindAllByCustomer(ctx context.Context, ownerID uint) ([]*Ticket, error)
	FindAllByOrder(ctx context.Context, orderID uint) ([]*Ticket, error)
	FindAllByProductAndCustomer(ctx context.Context, productID, ownerID uint) ([]*Ticket, error)
	FindAll(ctx context.Context, filter TicketFilter) ([]*Ticket, error)
	DeleteAll(ctx context.Context, tickets []*Ticket) error
}

type TicketFilter struct {
	Status    *vo.TicketStatus
	ProductID *uint
}
