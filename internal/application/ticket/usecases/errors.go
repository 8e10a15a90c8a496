package usecases

import (
	"errors"
	"fmt"

	"ticketd/internal/domain/ticket"
	apperrors "ticketd/internal/shared/errors"
)

// mapTicketError converts domain failures shared by several use cases into AppErrors.
// Errors that are already AppErrors pass through unchanged.
func mapTicketError(err error, op string) error {
	if apperrors.IsAppError(err) {
		return err
	}

	var notTransferable *ticket.NotTransferableError
	switch {
	case errors.As(err, &notTransferable):
		return apperrors.NewNotTransferableError(notTransferable.Reason.Message(), notTransferable.Reason.String())
	case errors.Is(err, ticket.ErrTicketNotFound):
		return apperrors.NewNotFoundError("ticket not found")
	case errors.Is(err, ticket.ErrInvalidCodeFormat):
		return apperrors.NewFormatError("ticket code is not in canonical form")
	case errors.Is(err, ticket.ErrCodeEncoding):
		return apperrors.NewEncodingError("failed to encode ticket code")
	case errors.Is(err, ticket.ErrStatusRegression):
		return apperrors.NewValidationError("ticket status cannot move backwards", err.Error())
	case errors.Is(err, ticket.ErrConcurrentModification):
		return apperrors.NewConflictError("ticket was modified concurrently, retry the request")
	default:
		return apperrors.NewInternalError(fmt.Sprintf("failed to %s", op))
	}
}
