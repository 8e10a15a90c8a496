package order

import "context"

type Repository interface {
	Save(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	// ClaimTicketIssuance flips the order's tickets-created flag from false to true in a
	// single conditional write. It returns false when another caller already claimed it.
	ClaimTicketIssuance(ctx context.Context, orderID uint) (bool, error)
}
