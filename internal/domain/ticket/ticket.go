// Package ticket holds the ticket aggregate, the unique code generator and the
// transfer policy.
package ticket

import (
	"fmt"
	"time"

	vo "ticketd/internal/domain/ticket/valueobjects"
)

// Ticket is a single right of entry for one purchased unit of a product.
// Order and product never change after creation; owner and code only change together,
// through Transfer.
type Ticket struct {
	id         uint
	key        string
	orderID    uint
	ownerID    uint
	productID  uint
	uniqueCode string
	status     vo.TicketStatus
	createdAt  time.Time
	updatedAt  time.Time
}

func NewTicket(orderID, ownerID, productID uint, uniqueCode string) (*Ticket, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order ID is required")
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("owner ID is required")
	}
	if productID == 0 {
		return nil, fmt.Errorf("product ID is required")
	}
	if !vo.IsCanonicalCode(uniqueCode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCodeFormat, uniqueCode)
	}

	now := time.Now()
	return &Ticket{
		orderID:    orderID,
		ownerID:    ownerID,
		productID:  productID,
		uniqueCode: uniqueCode,
		status:     vo.StatusOpen,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructTicket rebuilds a persisted ticket. The unique code is not shape-checked
// here: tickets issued under older code formats still load.
func ReconstructTicket(
	id uint,
	key string,
	orderID uint,
	ownerID uint,
	productID uint,
	uniqueCode string,
	status vo.TicketStatus,
	createdAt, updatedAt time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("ticket key is required")
	}
	if len(uniqueCode) == 0 {
		return nil, fmt.Errorf("unique code is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status")
	}

	return &Ticket{
		id:         id,
		key:        key,
		orderID:    orderID,
		ownerID:    ownerID,
		productID:  productID,
		uniqueCode: uniqueCode,
		status:     status,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Key() string {
	return t.key
}

func (t *Ticket) OrderID() uint {
	return t.orderID
}

func (t *Ticket) OwnerID() uint {
	return t.ownerID
}

func (t *Ticket) ProductID() uint {
	return t.productID
}

func (t *Ticket) UniqueCode() string {
	return t.uniqueCode
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) UpdatedAt() time.Time {
	return t.updatedAt
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetKey(key string) error {
	if len(t.key) > 0 {
		return fmt.Errorf("ticket key is already set")
	}
	if len(key) == 0 {
		return fmt.Errorf("ticket key cannot be empty")
	}
	t.key = key
	return nil
}

// RegenerateCode replaces the unique code before the ticket is first persisted.
// It is used when the store rejects a code that collided after it was drawn.
func (t *Ticket) RegenerateCode(code string) error {
	if t.id != 0 {
		return fmt.Errorf("code of a persisted ticket only changes through a transfer")
	}
	if !vo.IsCanonicalCode(code) {
		return fmt.Errorf("%w: %q", ErrInvalidCodeFormat, code)
	}
	t.uniqueCode = code
	return nil
}

// ChangeStatus moves the ticket forward along open -> scanned -> void.
// Setting the current status again is a no-op.
func (t *Ticket) ChangeStatus(newStatus vo.TicketStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if !t.status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegression, t.status, newStatus)
	}
	if t.status == newStatus {
		return nil
	}

	t.status = newStatus
	t.updatedAt = time.Now()
	return nil
}

// Transfer hands the ticket to newOwnerID under a fresh code. Eligibility is checked by
// CanTransfer; Transfer only guards the fields it writes.
func (t *Ticket) Transfer(newOwnerID uint, newCode string) error {
	if newOwnerID == 0 {
		return fmt.Errorf("new owner ID is required")
	}
	if !vo.IsCanonicalCode(newCode) {
		return fmt.Errorf("%w: %q", ErrInvalidCodeFormat, newCode)
	}
	if newCode == t.uniqueCode {
		return fmt.Errorf("transfer must rotate the unique code")
	}

	t.ownerID = newOwnerID
	t.uniqueCode = newCode
	t.updatedAt = time.Now()
	return nil
}
