package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
	"ticketd/internal/infrastructure/persistence/mappers"
	"ticketd/internal/infrastructure/persistence/models"
	db "ticketd/internal/shared/db"
	apperrors "ticketd/internal/shared/errors"
	"ticketd/internal/shared/id"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) ExistsByProductAndCode(ctx context.Context, productID uint, code string) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Model(&models.TicketModel{}).
		Scopes(db.ForProduct(productID)).
		Where("unique_code = ?", code).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check unique code: %w", err)
	}

	return count > 0, nil
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	if t.Key() == "" {
		key, err := id.NewTicketKey()
		if err != nil {
			return fmt.Errorf("failed to generate ticket key: %w", err)
		}
		if err := t.SetKey(key); err != nil {
			return err
		}
	}

	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		if isDuplicateCodeError(err) {
			return fmt.Errorf("%w: product %d", ticket.ErrDuplicateCode, t.ProductID())
		}
		return fmt.Errorf("failed to save ticket: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", t.ID()).
		Updates(map[string]interface{}{
			"status":     t.Status().String(),
			"updated_at": t.UpdatedAt().UnixMilli(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update ticket status: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.

	return nil
}

// UpdateOwnership writes the rotated owner and code only while the ticket still has the
// previous owner and code and is open. Any other state returns ErrConcurrentModification.
func (r *TicketRepository) UpdateOwnership(ctx context.Context, t *ticket.Ticket, previousOwnerID uint, previousCode string) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND owner_id = ? AND unique_code = ? AND status = ?",
			t.ID(), previousOwnerID, previousCode, vo.StatusOpen.String()).
		Updates(map[string]interface{}{
			"owner_id":    t.OwnerID(),
			"unique_code": t.UniqueCode(),
			"updated_at":  time.Now().UnixMilli(),
		})

	if result.Error != nil {
		if isDuplicateCodeError(result.Error) {
			return fmt.Errorf("%w: product %d", ticket.ErrDuplicateCode, t.ProductID())
		}
		return fmt.Errorf("failed to update ticket ownership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: ticket %s", ticket.ErrConcurrentModification, t.Key())
	}

	return nil
}

func (r *TicketRepository) FindByProductAndCode(ctx context.Context, productID uint, code string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Scopes(db.ForProduct(productID)).
		Where("unique_code = ?", code).
		First(&model).Error; err != nil {
		return nil, r.translateFindError(err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) FindByKey(ctx context.Context, key string) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_key = ?", key).
		First(&model).Error; err != nil {
		return nil, r.translateFindError(err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) FindAllByProduct(ctx context.Context, productID uint) ([]*ticket.Ticket, error) {
	return r.findAll(ctx, db.ForProduct(productID), db.OldestFirst())
}

func (r *TicketRepository) FindAllByCustomer(ctx context.Context, ownerID uint) ([]*ticket.Ticket, error) {
	return r.findAll(ctx, whereOwner(ownerID), db.NewestFirst())
}

func (r *TicketRepository) FindAllByOrder(ctx context.Context, orderID uint) ([]*ticket.Ticket, error) {
	return r.findAll(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("order_id = ?", orderID)
	}, db.OldestFirst())
}

func (r *TicketRepository) FindAllByProductAndCustomer(ctx context.Context, productID, ownerID uint) ([]*ticket.Ticket, error) {
	return r.findAll(ctx, db.ForProduct(productID), whereOwner(ownerID), db.OldestFirst())
}

func (r *TicketRepository) FindAll(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, error) {
	scopes := []func(*gorm.DB) *gorm.DB{db.OldestFirst()}
	if filter.ProductID != nil {
		scopes = append(scopes, db.ForProduct(*filter.ProductID))
	}
	if filter.Status != nil {
		status := filter.Status.String()
		scopes = append(scopes, func(q *gorm.DB) *gorm.DB {
			return q.Where("status = ?", status)
		})
	}
	return r.findAll(ctx, scopes...)
}

func (r *TicketRepository) DeleteAll(ctx context.Context, tickets []*ticket.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.ID())
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Delete(&models.TicketModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete tickets: %w", err)
	}

	return nil
}

func (r *TicketRepository) findAll(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]*ticket.Ticket, error) {
	var ticketModels []models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Scopes(scopes...).Find(&ticketModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return r.mapper.ToDomainList(ticketModels)
}

func (r *TicketRepository) translateFindError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ticket.ErrTicketNotFound
	}
	return fmt.Errorf("failed to find ticket: %w", err)
}

func whereOwner(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ?", ownerID)
	}
}

// isDuplicateCodeError matches violations of the (product_id, unique_code) index across
// MySQL ("for key 'tickets.uk_tickets_product_code'") and SQLite
// ("UNIQUE constraint failed: tickets.product_id, tickets.unique_code").
func isDuplicateCodeError(err error) bool {
	if !apperrors.IsDuplicateError(err) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "uk_tickets_product_code") || strings.Contains(msg, "unique_code")
}
