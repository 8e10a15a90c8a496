package usecases

import (
	"context"
	"errors"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
)

// GetTicketQuery selects one ticket, by key or by product and unique code.
type GetTicketQuery struct {
	TicketKey  string
	ProductID  uint
	UniqueCode string
}

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	var (
		t   *ticket.Ticket
		err error
	)

	switch {
	case query.TicketKey != "":
		t, err = uc.ticketRepo.FindByKey(ctx, query.TicketKey)
	case query.ProductID != 0 && query.UniqueCode != "":
		t, err = uc.ticketRepo.FindByProductAndCode(ctx, query.ProductID, query.UniqueCode)
	default:
		return nil, apperrors.NewValidationError("ticket key, or product ID and unique code, are required")
	}

	if err != nil {
		if !errors.Is(err, ticket.ErrTicketNotFound) {
			uc.logger.Errorw("failed to get ticket", "ticket_key", query.TicketKey, "product_id", query.ProductID, "error", err)
		}
		return nil, mapTicketError(err, "get ticket")
	}

	return dto.ToTicketDTO(t), nil
}

// ListTicketsQuery narrows the ticket listing. The most specific lookup wins: order,
// then product and customer together, then customer, then product. Status filters the
// result of any of them.
type ListTicketsQuery struct {
	OrderID    uint
	ProductID  uint
	CustomerID uint
	Status     string
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) ([]*dto.TicketDTO, error) {
	var status *vo.TicketStatus
	if query.Status != "" {
		s, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		status = &s
	}

	var (
		tickets []*ticket.Ticket
		err     error
	)

	switch {
	case query.OrderID != 0:
		tickets, err = uc.ticketRepo.FindAllByOrder(ctx, query.OrderID)
	case query.ProductID != 0 && query.CustomerID != 0:
		tickets, err = uc.ticketRepo.FindAllByProductAndCustomer(ctx, query.ProductID, query.CustomerID)
	case query.CustomerID != 0:
		tickets, err = uc.ticketRepo.FindAllByCustomer(ctx, query.CustomerID)
	case query.ProductID != 0 && status == nil:
		tickets, err = uc.ticketRepo.FindAllByProduct(ctx, query.ProductID)
	default:
		filter := ticket.TicketFilter{Status: status}
		if query.ProductID != 0 {
			filter.ProductID = &query.ProductID
		}
		tickets, err = uc.ticketRepo.FindAll(ctx, filter)
		status = nil
	}

	if err != nil {
		uc.logger.Errorw("failed to list tickets", "query", query, "error", err)
		return nil, apperrors.NewInternalError("failed to list tickets")
	}

	if status != nil {
		tickets = filterByStatus(tickets, *status)
	}

	return dto.ToTicketDTOList(tickets), nil
}

func filterByStatus(tickets []*ticket.Ticket, status vo.TicketStatus) []*ticket.Ticket {
	filtered := make([]*ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status() == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
