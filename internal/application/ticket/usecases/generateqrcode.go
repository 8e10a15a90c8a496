package usecases

import (
	"context"
	"errors"

	"ticketd/internal/domain/ticket"
	"ticketd/internal/shared/logger"
	"ticketd/internal/shared/utils"
)

type GenerateQRCodeQuery struct {
	TicketKey string `json:"ticket_key" validate:"required,ticketkey"`
}

type GenerateQRCodeResult struct {
	TicketKey   string
	ContentType string
	PNG         []byte
}

type GenerateQRCodeUseCase struct {
	ticketRepo ticket.TicketRepository
	encoder    CodeImageEncoder
	logger     logger.Interface
}

func NewGenerateQRCodeUseCase(
	ticketRepo ticket.TicketRepository,
	encoder CodeImageEncoder,
	logger logger.Interface,
) *GenerateQRCodeUseCase {
	return &GenerateQRCodeUseCase{
		ticketRepo: ticketRepo,
		encoder:    encoder,
		logger:     logger,
	}
}

func (uc *GenerateQRCodeUseCase) Execute(ctx context.Context, query GenerateQRCodeQuery) (*GenerateQRCodeResult, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	t, err := uc.ticketRepo.FindByKey(ctx, query.TicketKey)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_key", query.TicketKey, "error", err)
		return nil, mapTicketError(err, "get ticket")
	}

	png, err := uc.encoder.EncodePNG(t)
	if err != nil {
		if errors.Is(err, ticket.ErrInvalidCodeFormat) {
			// A stored code that is not canonical was written by something other than
			// the issuer or the transfer flow.
			uc.logger.Warnw("ticket holds a non-canonical unique code",
				"integrity", "unique_code_format",
				"ticket_key", t.Key(),
				"product_id", t.ProductID(),
			)
		} else {
			uc.logger.Errorw("failed to encode ticket code", "ticket_key", t.Key(), "error", err)
		}
		return nil, mapTicketError(err, "encode ticket code")
	}

	return &GenerateQRCodeResult{
		TicketKey:   t.Key(),
		ContentType: "image/png",
		PNG:         png,
	}, nil
}
