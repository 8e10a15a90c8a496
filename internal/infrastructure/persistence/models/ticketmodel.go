package models

import "ticketd/internal/shared/constants"

// TicketModel is the tickets table. The (product_id, unique_code) unique index is the
// store-side guard of per-product code uniqueness.
type TicketModel struct {
	ID         uint   `gorm:"primaryKey"`
	Key        string `gorm:"column:ticket_key;uniqueIndex;size:32;not null"`
	OrderID    uint   `gorm:"not null;index"`
	OwnerID    uint   `gorm:"not null;index"`
	ProductID  uint   `gorm:"not null;uniqueIndex:uk_tickets_product_code,priority:1"`
	UniqueCode string `gorm:"size:64;not null;uniqueIndex:uk_tickets_product_code,priority:2"`
	Status     string `gorm:"size:20;not null;index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64  `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}
