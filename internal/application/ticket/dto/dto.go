package dto

import (
	"time"

	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/mapper"
)

type TicketDTO struct {
	Key        string    `json:"key" yaml:"key"`
	OrderID    uint      `json:"order_id" yaml:"order_id"`
	OwnerID    uint      `json:"owner_id" yaml:"owner_id"`
	ProductID  uint      `json:"product_id" yaml:"product_id"`
	UniqueCode string    `json:"unique_code" yaml:"unique_code"`
	Status     string    `json:"status" yaml:"status"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}

	return &TicketDTO{
		Key:        t.Key(),
		OrderID:    t.OrderID(),
		OwnerID:    t.OwnerID(),
		ProductID:  t.ProductID(),
		UniqueCode: t.UniqueCode(),
		Status:     t.Status().String(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	}
}

// ToTicketDTOList never returns nil so that empty results encode as [].
func ToTicketDTOList(tickets []*ticket.Ticket) []*TicketDTO {
	if tickets == nil {
		return []*TicketDTO{}
	}
	return mapper.MapSlice(tickets, ToTicketDTO)
}
