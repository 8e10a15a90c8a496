// Package customer models ticket owners.
package customer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Customer struct {
	id    uint
	name  string
	email string
}

func NewCustomer(name, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return nil, fmt.Errorf("name is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", email, err)
	}

	return &Customer{
		name:  name,
		email: addr.Address,
	}, nil
}

func ReconstructCustomer(id uint, name, email string) (*Customer, error) {
	if id == 0 {
		return nil, fmt.Errorf("customer ID cannot be zero")
	}
	return &Customer{
		id:    id,
		name:  name,
		email: email,
	}, nil
}

func (c *Customer) ID() uint {
	return c.id
}

func (c *Customer) Name() string {
	return c.name
}

func (c *Customer) Email() string {
	return c.email
}

func (c *Customer) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("customer ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("customer ID cannot be zero")
	}
	c.id = id
	return nil
}

type Repository interface {
	Save(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uint) (*Customer, error)
}
