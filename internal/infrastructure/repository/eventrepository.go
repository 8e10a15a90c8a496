package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ticketd/internal/domain/event"
	"ticketd/internal/infrastructure/persistence/mappers"
	"ticketd/internal/infrastructure/persistence/models"
	db "ticketd/internal/shared/db"
)

type EventRepository struct {
	db     *gorm.DB
	mapper mappers.EventMapper
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{
		db:     db,
		mapper: mappers.NewEventMapper(),
	}
}

func (r *EventRepository) Save(ctx context.Context, e *event.Event) error {
	model := r.mapper.ToModel(e)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	return e.SetID(model.ID)
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uint) (*event.Event, error) {
	var model models.EventModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

// GetByProduct resolves the event through the product's event_id. A missing product and
// a product without an event both report event.ErrEventNotFound.
func (r *EventRepository) GetByProduct(ctx context.Context, productID uint) (*event.Event, error) {
	var model models.EventModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Joins("JOIN products ON products.event_id = events.id").
		Where("products.id = ?", productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to resolve event for product %d: %w", productID, err)
	}

	return r.mapper.ToDomain(&model)
}

// AttachProduct links the product to the event, creating the product row if needed.
func (r *EventRepository) AttachProduct(ctx context.Context, eventID, productID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	product := models.ProductModel{ID: productID}
	if err := tx.
		Where(models.ProductModel{ID: productID}).
		Attrs(models.ProductModel{Title: fmt.Sprintf("product-%d", productID)}).
		FirstOrCreate(&product).Error; err != nil {
		return fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	if err := tx.
		Model(&models.ProductModel{}).
		Where("id = ?", productID).
		Update("event_id", eventID).Error; err != nil {
		return fmt.Errorf("failed to attach product %d to event %d: %w", productID, eventID, err)
	}

	return nil
}
