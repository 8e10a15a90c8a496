package ticket

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidCodeFormat marks a unique code that does not have the canonical shape.
	ErrInvalidCodeFormat = errors.New("unique code has an invalid format")
	// ErrCodeEncoding marks a unique code that could not be rendered as a scannable image.
	ErrCodeEncoding = errors.New("unique code could not be encoded")
	// ErrCodeSpaceExhausted is returned when every draw of the code generator collided.
	ErrCodeSpaceExhausted = errors.New("no unused unique code found")
	// ErrDuplicateCode is returned by the store when (product, code) is already taken.
	ErrDuplicateCode = errors.New("unique code already issued for product")
	// ErrConcurrentModification is returned when a conditional write lost a race.
	ErrConcurrentModification = errors.New("ticket was modified concurrently")
	ErrStatusRegression       = errors.New("ticket status cannot move backwards")
	ErrNotTransferable        = errors.New("ticket is not transferable")
)
