package event

import "context"

// Resolver finds the event a product belongs to. Products without an event report
// ErrEventNotFound.
type Resolver interface {
	GetByProduct(ctx context.Context, productID uint) (*Event, error)
}

type Repository interface {
	Resolver
	Save(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	// AttachProduct links a product to the event. A product belongs to at most one event.
	AttachProduct(ctx context.Context, eventID, productID uint) error
}
