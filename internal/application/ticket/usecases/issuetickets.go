package usecases

import (
	"context"
	"errors"
	"fmt"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/domain/order"
	"ticketd/internal/domain/ticket"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/utils"
)

type IssueTicketsCommand struct {
	OrderID uint `json:"order_id" validate:"gt=0"`
}

type IssueTicketsResult struct {
	OrderID uint
	// AlreadyIssued reports that the order's tickets existed before this call. No
	// tickets are returned and nothing was written.
	AlreadyIssued bool
	Tickets       []*dto.TicketDTO
}

// IssueTicketsUseCase turns a finalized order into one ticket per purchased unit.
type IssueTicketsUseCase struct {
	orderRepo     OrderRepository
	ticketRepo    ticket.TicketRepository
	codeGenerator ticket.CodeGenerator
	txManager     TransactionManager
	maxAttempts   int
	logger        logger.Interface
}

func NewIssueTicketsUseCase(
	orderRepo OrderRepository,
	ticketRepo ticket.TicketRepository,
	codeGenerator ticket.CodeGenerator,
	txManager TransactionManager,
	maxAttempts int,
	logger logger.Interface,
) *IssueTicketsUseCase {
	if maxAttempts <= 0 {
		maxAttempts = ticket.DefaultCodeMaxAttempts
	}
	return &IssueTicketsUseCase{
		orderRepo:     orderRepo,
		ticketRepo:    ticketRepo,
		codeGenerator: codeGenerator,
		txManager:     txManager,
		maxAttempts:   maxAttempts,
		logger:        logger,
	}
}

func (uc *IssueTicketsUseCase) Execute(ctx context.Context, cmd IssueTicketsCommand) (*IssueTicketsResult, error) {
	uc.logger.Infow("executing issue tickets use case", "order_id", cmd.OrderID)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Errorw("invalid issue tickets command", "error", err)
		return nil, err
	}

	result := &IssueTicketsResult{OrderID: cmd.OrderID, Tickets: []*dto.TicketDTO{}}

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.GetByID(txCtx, cmd.OrderID)
		if err != nil {
			return err
		}

		if o.TicketsCreated() {
			result.AlreadyIssued = true
			return nil
		}

		claimed, err := uc.orderRepo.ClaimTicketIssuance(txCtx, o.ID())
		if err != nil {
			return fmt.Errorf("failed to claim ticket issuance: %w", err)
		}
		if !claimed {
			// Another issuer committed between the read and the claim.
			result.AlreadyIssued = true
			return nil
		}
		if err := o.MarkTicketsCreated(); err != nil {
			return err
		}

		tickets := make([]*ticket.Ticket, 0, o.TicketCount())
		for _, line := range o.Products() {
			for i := 0; i < line.Amount; i++ {
				t, err := uc.issueOne(txCtx, o, line.ProductID)
				if err != nil {
					return err
				}
				tickets = append(tickets, t)
			}
		}

		result.Tickets = dto.ToTicketDTOList(tickets)
		return nil
	})
	if err != nil {
		return nil, uc.mapError(cmd.OrderID, err)
	}

	if result.AlreadyIssued {
		uc.logger.Infow("tickets already issued for order, nothing to do", "order_id", cmd.OrderID)
		return result, nil
	}

	uc.logger.Infow("tickets issued successfully",
		"order_id", cmd.OrderID,
		"count", len(result.Tickets),
	)
	return result, nil
}

// issueOne persists a ticket for productID. A code rejected by the store's uniqueness
// index is redrawn, within the same attempt ceiling as the generator.
func (uc *IssueTicketsUseCase) issueOne(ctx context.Context, o *order.Order, productID uint) (*ticket.Ticket, error) {
	var t *ticket.Ticket

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		code, err := uc.codeGenerator.Generate(ctx, productID)
		if err != nil {
			return nil, err
		}

		if t == nil {
			t, err = ticket.NewTicket(o.ID(), o.OwnerID(), productID, code)
		} else {
			err = t.RegenerateCode(code)
		}
		if err != nil {
			return nil, err
		}

		err = uc.ticketRepo.Save(ctx, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ticket.ErrDuplicateCode) {
			return nil, err
		}

		uc.logger.Warnw("unique code collided on insert, redrawing",
			"order_id", o.ID(),
			"product_id", productID,
			"attempt", attempt,
		)
	}

	return nil, fmt.Errorf("%w: product %d, insert kept colliding", ticket.ErrCodeSpaceExhausted, productID)
}

func (uc *IssueTicketsUseCase) mapError(orderID uint, err error) error {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		uc.logger.Warnw("order not found", "order_id", orderID)
		return apperrors.NewNotFoundError(fmt.Sprintf("order %d not found", orderID))
	case errors.Is(err, ticket.ErrCodeSpaceExhausted):
		uc.logger.Errorw("unique code space exhausted, check ticket.code_max_attempts and the code source",
			"order_id", orderID,
			"error", err,
		)
		return apperrors.NewInternalError("failed to allocate unique ticket codes")
	default:
		uc.logger.Errorw("failed to issue tickets", "order_id", orderID, "error", err)
		return mapTicketError(err, "issue tickets")
	}
}
