// Package db provides database utilities including transaction management and query scopes.
package db

import (
	"gorm.io/gorm"
)

// NewestFirst orders rows by descending primary key, so the latest inserted row comes first.
//
// Example usage:
//
//	db.Scopes(db.NewestFirst()).Where("owner_id = ?", ownerID).Find(&results)
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id DESC")
	}
}

// OldestFirst orders rows by ascending primary key.
func OldestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}
}

// ForProduct restricts a query to rows scoped to a single product.
func ForProduct(productID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	}
}
