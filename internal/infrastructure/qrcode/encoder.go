// Package qrcode renders a ticket's unique code as a scannable QR image.
package qrcode

import (
	"fmt"
	"image"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"

	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
	"ticketd/internal/shared/config"
)

const DefaultSize = 256

// Encoder is pure: the same code always yields the same image.
type Encoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

func NewEncoder(size int, level goqrcode.RecoveryLevel) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &Encoder{size: size, level: level}
}

// NewEncoderFromConfig builds an Encoder from the ticket section of the configuration.
func NewEncoderFromConfig(cfg *config.TicketConfig) (*Encoder, error) {
	level, err := ParseRecoveryLevel(cfg.QRRecoveryLevel)
	if err != nil {
		return nil, err
	}
	return NewEncoder(cfg.QRSize, level), nil
}

// ParseRecoveryLevel maps low|medium|high|highest to the library's error correction
// levels. An empty name is medium.
func ParseRecoveryLevel(name string) (goqrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return goqrcode.Low, nil
	case "", "medium":
		return goqrcode.Medium, nil
	case "high":
		return goqrcode.High, nil
	case "highest":
		return goqrcode.Highest, nil
	default:
		return goqrcode.Medium, fmt.Errorf("unknown QR recovery level %q", name)
	}
}

// Encode renders t's unique code. A code outside the canonical shape fails with
// ticket.ErrInvalidCodeFormat before the QR library is called.
func (e *Encoder) Encode(t *ticket.Ticket) (image.Image, error) {
	q, err := e.prepare(t)
	if err != nil {
		return nil, err
	}
	return q.Image(e.size), nil
}

// EncodePNG is Encode serialised as PNG.
func (e *Encoder) EncodePNG(t *ticket.Ticket) ([]byte, error) {
	q, err := e.prepare(t)
	if err != nil {
		return nil, err
	}

	png, err := q.PNG(e.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ticket.ErrCodeEncoding, err)
	}
	return png, nil
}

func (e *Encoder) prepare(t *ticket.Ticket) (*goqrcode.QRCode, error) {
	code := t.UniqueCode()
	if !vo.IsCanonicalCode(code) {
		return nil, fmt.Errorf("%w: ticket %s", ticket.ErrInvalidCodeFormat, t.Key())
	}

	q, err := goqrcode.New(code, e.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ticket.ErrCodeEncoding, err)
	}
	return q, nil
}
