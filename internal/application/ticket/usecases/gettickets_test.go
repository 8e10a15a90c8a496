package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketd/internal/application/ticket/dto"
	vo "ticketd/internal/domain/ticket/valueobjects"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/logger"
)

const fourthCode = "5e6f7a8b-9c0d-4e1f-a2b3-c4d5e6f7a8b9"

func TestGetTicketUseCase_Execute(t *testing.T) {
	store := newMemTicketStore()
	seeded := store.seed(1, 10, 7, testCode, vo.StatusOpen)
	uc := NewGetTicketUseCase(store, logger.NewNopLogger())

	tests := []struct {
		name    string
		query   GetTicketQuery
		wantKey string
		wantErr func(error) bool
	}{
		{name: "by key", query: GetTicketQuery{TicketKey: seeded.Key()}, wantKey: seeded.Key()},
		{name: "by product and code", query: GetTicketQuery{ProductID: 7, UniqueCode: testCode}, wantKey: seeded.Key()},
		{name: "code on another product", query: GetTicketQuery{ProductID: 8, UniqueCode: testCode}, wantErr: apperrors.IsNotFoundError},
		{name: "unknown key", query: GetTicketQuery{TicketKey: testKey}, wantErr: apperrors.IsNotFoundError},
		{name: "empty query", query: GetTicketQuery{}, wantErr: apperrors.IsValidationError},
		{name: "code without product", query: GetTicketQuery{UniqueCode: testCode}, wantErr: apperrors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Execute(context.Background(), tt.query)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, got.Key)
			assert.Equal(t, testCode, got.UniqueCode)
		})
	}
}

func TestListTicketsUseCase_Execute(t *testing.T) {
	store := newMemTicketStore()
	a := store.seed(1, 10, 7, testCode, vo.StatusOpen)
	b := store.seed(1, 10, 8, testCode, vo.StatusScanned)
	c := store.seed(2, 11, 7, testOtherCode, vo.StatusOpen)
	d := store.seed(3, 10, 7, fourthCode, vo.StatusVoid)

	uc := NewListTicketsUseCase(store, logger.NewNopLogger())

	tests := []struct {
		name     string
		query    ListTicketsQuery
		wantKeys []string
	}{
		{name: "by order", query: ListTicketsQuery{OrderID: 1}, wantKeys: []string{a.Key(), b.Key()}},
		{name: "order wins over customer", query: ListTicketsQuery{OrderID: 2, CustomerID: 10}, wantKeys: []string{c.Key()}},
		{name: "by product", query: ListTicketsQuery{ProductID: 7}, wantKeys: []string{a.Key(), c.Key(), d.Key()}},
		{name: "by customer newest first", query: ListTicketsQuery{CustomerID: 10}, wantKeys: []string{d.Key(), b.Key(), a.Key()}},
		{name: "by product and customer", query: ListTicketsQuery{ProductID: 7, CustomerID: 10}, wantKeys: []string{a.Key(), d.Key()}},
		{name: "by status", query: ListTicketsQuery{Status: "open"}, wantKeys: []string{a.Key(), c.Key()}},
		{name: "by product and status", query: ListTicketsQuery{ProductID: 7, Status: "void"}, wantKeys: []string{d.Key()}},
		{name: "by customer and status", query: ListTicketsQuery{CustomerID: 10, Status: "scanned"}, wantKeys: []string{b.Key()}},
		{name: "no match", query: ListTicketsQuery{OrderID: 99}, wantKeys: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Execute(context.Background(), tt.query)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKeys, dtoKeys(got))
		})
	}
}

func TestListTicketsUseCase_InvalidStatus(t *testing.T) {
	uc := NewListTicketsUseCase(newMemTicketStore(), logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), ListTicketsQuery{Status: "lost"})
	assert.True(t, apperrors.IsValidationError(err))
}

func dtoKeys(tickets []*dto.TicketDTO) []string {
	keys := make([]string, 0, len(tickets))
	for _, t := range tickets {
		keys = append(keys, t.Key)
	}
	return keys
}
