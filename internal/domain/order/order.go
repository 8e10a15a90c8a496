// Package order models finalized purchases that tickets are issued from.
package order

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderProduct is a single line of an order: Amount units of one product.
type OrderProduct struct {
	ProductID uint
	Amount    int
}

type Order struct {
	id             uint
	ownerID        uint
	ticketsCreated bool
	products       []OrderProduct
}

func NewOrder(ownerID uint, products []OrderProduct) (*Order, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("order must contain at least one product")
	}
	for i, p := range products {
		if p.ProductID == 0 {
			return nil, fmt.Errorf("product ID is required on line %d", i)
		}
		if p.Amount <= 0 {
			return nil, fmt.Errorf("amount must be positive on line %d, got %d", i, p.Amount)
		}
	}

	lines := make([]OrderProduct, len(products))
	copy(lines, products)

	return &Order{
		ownerID:  ownerID,
		products: lines,
	}, nil
}

func ReconstructOrder(id, ownerID uint, ticketsCreated bool, products []OrderProduct) (*Order, error) {
	if id == 0 {
		return nil, fmt.Errorf("order ID cannot be zero")
	}
	lines := make([]OrderProduct, len(products))
	copy(lines, products)

	return &Order{
		id:             id,
		ownerID:        ownerID,
		ticketsCreated: ticketsCreated,
		products:       lines,
	}, nil
}

func (o *Order) ID() uint {
	return o.id
}

func (o *Order) OwnerID() uint {
	return o.ownerID
}

// TicketsCreated reports whether tickets have already been issued for this order.
func (o *Order) TicketsCreated() bool {
	return o.ticketsCreated
}

func (o *Order) Products() []OrderProduct {
	lines := make([]OrderProduct, len(o.products))
	copy(lines, o.products)
	return lines
}

// TicketCount is the number of tickets issuing this order produces.
func (o *Order) TicketCount() int {
	total := 0
	for _, p := range o.products {
		total += p.Amount
	}
	return total
}

// MarkTicketsCreated records that issuance ran. It fails when it already did.
func (o *Order) MarkTicketsCreated() error {
	if o.ticketsCreated {
		return fmt.Errorf("tickets already created for order %d", o.id)
	}
	o.ticketsCreated = true
	return nil
}

func (o *Order) SetID(id uint) error {
	if o.id != 0 {
		return fmt.Errorf("order ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("order ID cannot be zero")
	}
	o.id = id
	return nil
}
