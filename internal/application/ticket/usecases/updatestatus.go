package usecases

import (
	"context"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/utils"
)

type UpdateTicketStatusCommand struct {
	TicketKey string `json:"ticket_key" validate:"required,ticketkey"`
	Status    string `json:"status" validate:"required,oneof=open scanned void"`
}

type UpdateTicketStatusResult struct {
	Ticket    *dto.TicketDTO
	OldStatus string
	// Changed is false when the ticket already had the requested status.
	Changed bool
}

type UpdateTicketStatusUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewUpdateTicketStatusUseCase(
	ticketRepo ticket.TicketRepository,
	logger logger.Interface,
) *UpdateTicketStatusUseCase {
	return &UpdateTicketStatusUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *UpdateTicketStatusUseCase) Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*UpdateTicketStatusResult, error) {
	uc.logger.Infow("executing update ticket status use case", "ticket_key", cmd.TicketKey, "status", cmd.Status)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Errorw("invalid update ticket status command", "error", err)
		return nil, err
	}

	newStatus, err := vo.NewTicketStatus(cmd.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	t, err := uc.ticketRepo.FindByKey(ctx, cmd.TicketKey)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_key", cmd.TicketKey, "error", err)
		return nil, mapTicketError(err, "get ticket")
	}

	oldStatus := t.Status()
	if err := t.ChangeStatus(newStatus); err != nil {
		uc.logger.Warnw("rejected ticket status change",
			"ticket_key", cmd.TicketKey,
			"from", oldStatus,
			"to", newStatus,
		)
		return nil, mapTicketError(err, "change ticket status")
	}

	result := &UpdateTicketStatusResult{
		OldStatus: oldStatus.String(),
		Changed:   oldStatus != newStatus,
	}

	if result.Changed {
		if err := uc.ticketRepo.UpdateStatus(ctx, t); err != nil {
			uc.logger.Errorw("failed to update ticket status", "ticket_key", cmd.TicketKey, "error", err)
			return nil, apperrors.NewInternalError("failed to update ticket status")
		}
	}

	uc.logger.Infow("ticket status updated",
		"ticket_key", cmd.TicketKey,
		"old_status", oldStatus,
		"new_status", newStatus,
		"changed", result.Changed,
	)

	result.Ticket = dto.ToTicketDTO(t)
	return result, nil
}
