package mappers

import (
	"ticketd/internal/domain/order"
	"ticketd/internal/infrastructure/persistence/models"
	"ticketd/internal/shared/mapper"
)

// OrderMapper converts between orders and their two tables.
type OrderMapper interface {
	ToModel(o *order.Order) (*models.OrderModel, []models.OrderProductModel)
	ToDomain(model *models.OrderModel, lines []models.OrderProductModel) (*order.Order, error)
}

type OrderMapperImpl struct{}

func NewOrderMapper() OrderMapper {
	return &OrderMapperImpl{}
}

func (m *OrderMapperImpl) ToModel(o *order.Order) (*models.OrderModel, []models.OrderProductModel) {
	model := &models.OrderModel{
		ID:             o.ID(),
		OwnerID:        o.OwnerID(),
		TicketsCreated: o.TicketsCreated(),
	}

	lines := mapper.MapSlice(o.Products(), func(p order.OrderProduct) models.OrderProductModel {
		return models.OrderProductModel{
			OrderID:   o.ID(),
			ProductID: p.ProductID,
			Amount:    p.Amount,
		}
	})

	return model, lines
}

func (m *OrderMapperImpl) ToDomain(model *models.OrderModel, lines []models.OrderProductModel) (*order.Order, error) {
	products := mapper.MapSlice(lines, func(l models.OrderProductModel) order.OrderProduct {
		return order.OrderProduct{
			ProductID: l.ProductID,
			Amount:    l.Amount,
		}
	})
	return order.ReconstructOrder(model.ID, model.OwnerID, model.TicketsCreated, products)
}
