package usecases

import (
	"context"

	"ticketd/internal/domain/ticket"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/utils"
)

type DeleteTicketsByOrderCommand struct {
	OrderID uint `json:"order_id" validate:"gt=0"`
}

type DeleteTicketsByOrderResult struct {
	OrderID uint
	Deleted int
}

type DeleteTicketsByOrderUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewDeleteTicketsByOrderUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *DeleteTicketsByOrderUseCase {
	return &DeleteTicketsByOrderUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *DeleteTicketsByOrderUseCase) Execute(ctx context.Context, cmd DeleteTicketsByOrderCommand) (*DeleteTicketsByOrderResult, error) {
	uc.logger.Infow("executing delete tickets by order use case", "order_id", cmd.OrderID)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Errorw("invalid delete tickets command", "error", err)
		return nil, err
	}

	tickets, err := uc.ticketRepo.FindAllByOrder(ctx, cmd.OrderID)
	if err != nil {
		uc.logger.Errorw("failed to list order tickets", "order_id", cmd.OrderID, "error", err)
		return nil, apperrors.NewInternalError("failed to list order tickets")
	}

	result := &DeleteTicketsByOrderResult{OrderID: cmd.OrderID}
	if len(tickets) == 0 {
		uc.logger.Infow("order has no tickets, nothing to delete", "order_id", cmd.OrderID)
		return result, nil
	}

	if err := uc.ticketRepo.DeleteAll(ctx, tickets); err != nil {
		uc.logger.Errorw("failed to delete order tickets", "order_id", cmd.OrderID, "error", err)
		return nil, apperrors.NewInternalError("failed to delete order tickets")
	}

	result.Deleted = len(tickets)
	uc.logger.Infow("order tickets deleted", "order_id", cmd.OrderID, "count", result.Deleted)
	return result, nil
}
