package models

import "ticketd/internal/shared/constants"

type EventModel struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:200;not null"`
	StartsAt  int64  `gorm:"not null;index"`
	EndsAt    int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (EventModel) TableName() string {
	return constants.TableEvents
}

// ProductModel carries the product-to-event link consulted by the transfer policy.
type ProductModel struct {
	ID      uint   `gorm:"primaryKey"`
	Title   string `gorm:"size:200;not null"`
	EventID *uint  `gorm:"index"`
}

func (ProductModel) TableName() string {
	return constants.TableProducts
}
