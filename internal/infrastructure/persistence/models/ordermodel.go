package models

import "ticketd/internal/shared/constants"

type OrderModel struct {
	ID             uint  `gorm:"primaryKey"`
	OwnerID        uint  `gorm:"not null;index"`
	TicketsCreated bool  `gorm:"not null;default:false"`
	CreatedAt      int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt      int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (OrderModel) TableName() string {
	return constants.TableOrders
}

type OrderProductModel struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	ProductID uint `gorm:"not null;index"`
	Amount    int  `gorm:"not null"`
}

func (OrderProductModel) TableName() string {
	return constants.TableOrderProducts
}
