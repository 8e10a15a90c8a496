package mappers

import (
	"fmt"
	"time"

	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
	"ticketd/internal/infrastructure/persistence/models"
	"ticketd/internal/shared/mapper"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	// ToModel converts a ticket domain entity to a persistence model.
	ToModel(t *ticket.Ticket) *models.TicketModel

	// ToDomain converts a ticket persistence model to a domain entity.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	// ToDomainList converts a slice of ticket persistence models to domain entities.
	ToDomainList(models []models.TicketModel) ([]*ticket.Ticket, error)
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:         t.ID(),
		Key:        t.Key(),
		OrderID:    t.OrderID(),
		OwnerID:    t.OwnerID(),
		ProductID:  t.ProductID(),
		UniqueCode: t.UniqueCode(),
		Status:     t.Status().String(),
		CreatedAt:  t.CreatedAt().UnixMilli(),
		UpdatedAt:  t.UpdatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to map ticket (id=%d): %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Key,
		model.OrderID,
		model.OwnerID,
		model.ProductID,
		model.UniqueCode,
		status,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

func (m *TicketMapperImpl) ToDomainList(ticketModels []models.TicketModel) ([]*ticket.Ticket, error) {
	return mapper.MapRowsWithID(ticketModels, m.ToDomain, func(model *models.TicketModel) uint { return model.ID })
}

// millisToTime converts Unix milliseconds to time.Time
func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis)
}
