package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketd/internal/application/ticket/dto"
	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/event"
	"ticketd/internal/domain/ticket"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/utils"
)

type TransferTicketCommand struct {
	TicketKey      string `json:"ticket_key" validate:"required,ticketkey"`
	CurrentOwnerID uint   `json:"current_owner_id" validate:"gt=0"`
	NewOwnerID     uint   `json:"new_owner_id" validate:"gt=0"`
}

type TransferTicketResult struct {
	Ticket          *dto.TicketDTO
	PreviousOwnerID uint
	// Notified is false when the confirmation could not be delivered. The transfer
	// itself stands either way.
	Notified bool
}

// TransferTicketUseCase hands a ticket to another customer under a freshly drawn code.
// The previous code stops resolving as soon as the transfer is persisted.
type TransferTicketUseCase struct {
	ticketRepo    ticket.TicketRepository
	customerRepo  CustomerRepository
	eventResolver event.Resolver
	codeGenerator ticket.CodeGenerator
	notifier      Notifier
	maxAttempts   int
	now           func() time.Time
	logger        logger.Interface
}

func NewTransferTicketUseCase(
	ticketRepo ticket.TicketRepository,
	customerRepo CustomerRepository,
	eventResolver event.Resolver,
	codeGenerator ticket.CodeGenerator,
	notifier Notifier,
	maxAttempts int,
	logger logger.Interface,
) *TransferTicketUseCase {
	if maxAttempts <= 0 {
		maxAttempts = ticket.DefaultCodeMaxAttempts
	}
	return &TransferTicketUseCase{
		ticketRepo:    ticketRepo,
		customerRepo:  customerRepo,
		eventResolver: eventResolver,
		codeGenerator: codeGenerator,
		notifier:      notifier,
		maxAttempts:   maxAttempts,
		now:           time.Now,
		logger:        logger,
	}
}

func (uc *TransferTicketUseCase) Execute(ctx context.Context, cmd TransferTicketCommand) (*TransferTicketResult, error) {
	uc.logger.Infow("executing transfer ticket use case",
		"ticket_key", cmd.TicketKey,
		"current_owner_id", cmd.CurrentOwnerID,
		"new_owner_id", cmd.NewOwnerID,
	)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Errorw("invalid transfer ticket command", "error", err)
		return nil, err
	}

	t, err := uc.ticketRepo.FindByKey(ctx, cmd.TicketKey)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_key", cmd.TicketKey, "error", err)
		return nil, mapTicketError(err, "get ticket")
	}

	ev, err := uc.eventResolver.GetByProduct(ctx, t.ProductID())
	if err != nil {
		if !errors.Is(err, event.ErrEventNotFound) {
			uc.logger.Errorw("failed to resolve event", "product_id", t.ProductID(), "error", err)
			return nil, apperrors.NewInternalError("failed to resolve event")
		}
		ev = nil
	}

	if err := ticket.CanTransfer(t, cmd.CurrentOwnerID, cmd.NewOwnerID, ev, uc.now()); err != nil {
		uc.logger.Warnw("ticket not transferable",
			"ticket_key", cmd.TicketKey,
			"error", err,
		)
		return nil, mapTicketError(err, "transfer ticket")
	}

	previousOwner, err := uc.getCustomer(ctx, cmd.CurrentOwnerID)
	if err != nil {
		return nil, err
	}
	newOwner, err := uc.getCustomer(ctx, cmd.NewOwnerID)
	if err != nil {
		return nil, err
	}

	if err := uc.rotate(ctx, t, cmd.NewOwnerID); err != nil {
		uc.logger.Errorw("failed to transfer ticket", "ticket_key", cmd.TicketKey, "error", err)
		if errors.Is(err, ticket.ErrCodeSpaceExhausted) {
			return nil, apperrors.NewInternalError("failed to allocate a unique ticket code")
		}
		return nil, mapTicketError(err, "transfer ticket")
	}

	uc.logger.Infow("ticket transferred successfully",
		"ticket_key", t.Key(),
		"previous_owner_id", cmd.CurrentOwnerID,
		"new_owner_id", cmd.NewOwnerID,
	)

	result := &TransferTicketResult{
		Ticket:          dto.ToTicketDTO(t),
		PreviousOwnerID: cmd.CurrentOwnerID,
		Notified:        true,
	}

	if err := uc.notifier.SendTransferConfirmation(ctx, t, previousOwner, newOwner); err != nil {
		uc.logger.Warnw("failed to send transfer confirmation",
			"ticket_key", t.Key(),
			"error", err,
		)
		result.Notified = false
	}

	return result, nil
}

// rotate draws a new code and writes owner and code together, conditional on the
// ticket still having its previous owner and code.
func (uc *TransferTicketUseCase) rotate(ctx context.Context, t *ticket.Ticket, newOwnerID uint) error {
	previousOwnerID := t.OwnerID()
	previousCode := t.UniqueCode()

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		code, err := uc.codeGenerator.Generate(ctx, t.ProductID())
		if err != nil {
			return err
		}

		if err := t.Transfer(newOwnerID, code); err != nil {
			return err
		}

		err = uc.ticketRepo.UpdateOwnership(ctx, t, previousOwnerID, previousCode)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ticket.ErrDuplicateCode) {
			return err
		}

		uc.logger.Warnw("unique code collided on transfer, redrawing",
			"ticket_key", t.Key(),
			"attempt", attempt,
		)
	}

	return fmt.Errorf("%w: product %d, update kept colliding", ticket.ErrCodeSpaceExhausted, t.ProductID())
}

func (uc *TransferTicketUseCase) getCustomer(ctx context.Context, id uint) (*customer.Customer, error) {
	c, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %d not found", id))
		}
		uc.logger.Errorw("failed to get customer", "customer_id", id, "error", err)
		return nil, apperrors.NewInternalError("failed to get customer")
	}
	return c, nil
}
