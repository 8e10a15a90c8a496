package ticket

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultCodeMaxAttempts bounds the draws per Generate call.
const DefaultCodeMaxAttempts = 16

// CodeGenerator produces unique codes scoped to a product.
type CodeGenerator interface {
	Generate(ctx context.Context, productID uint) (string, error)
}

// UUIDCodeGenerator draws random UUIDs in canonical form and redraws while the code is
// already taken for the product. The store's (product, code) uniqueness constraint remains
// the final guard against two concurrent callers drawing the same fresh code.
type UUIDCodeGenerator struct {
	checker     CodeChecker
	maxAttempts int
	draw        func() (string, error)
}

func NewUUIDCodeGenerator(checker CodeChecker, maxAttempts int) *UUIDCodeGenerator {
	return newCodeGenerator(checker, maxAttempts, drawUUID)
}

func newCodeGenerator(checker CodeChecker, maxAttempts int, draw func() (string, error)) *UUIDCodeGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultCodeMaxAttempts
	}
	return &UUIDCodeGenerator{
		checker:     checker,
		maxAttempts: maxAttempts,
		draw:        draw,
	}
}

func drawUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to draw random code: %w", err)
	}
	return u.String(), nil
}

func (g *UUIDCodeGenerator) Generate(ctx context.Context, productID uint) (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code, err := g.draw()
		if err != nil {
			return "", err
		}

		exists, err := g.checker.ExistsByProductAndCode(ctx, productID, code)
		if err != nil {
			return "", fmt.Errorf("failed to check unique code for product %d: %w", productID, err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: product %d after %d attempts", ErrCodeSpaceExhausted, productID, g.maxAttempts)
}
