package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ticketd/internal/domain/order"
	"ticketd/internal/infrastructure/persistence/mappers"
	"ticketd/internal/infrastructure/persistence/models"
	db "ticketd/internal/shared/db"
)

type OrderRepository struct {
	db     *gorm.DB
	mapper mappers.OrderMapper
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		mapper: mappers.NewOrderMapper(),
	}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	model, lines := r.mapper.ToModel(o)
	tx := db.GetTxFromContext(ctx, r.db)

	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		for i := range lines {
			lines[i].OrderID = model.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("failed to save order products: %w", err)
			}
		}
		return o.SetID(model.ID)
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID uint) (*order.Order, error) {
	var model models.OrderModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	var lines []models.OrderProductModel
	if err := tx.
		Where("order_id = ?", model.ID).
		Scopes(db.OldestFirst()).
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load order products: %w", err)
	}

	return r.mapper.ToDomain(&model, lines)
}

func (r *OrderRepository) ClaimTicketIssuance(ctx context.Context, orderID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.OrderModel{}).
		Where("id = ? AND tickets_created = ?", orderID, false).
		Update("tickets_created", true)

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim ticket issuance for order %d: %w", orderID, result.Error)
	}

	return result.RowsAffected == 1, nil
}
