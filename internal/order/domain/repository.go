package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Warehouse string
}

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, orderID string) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)
	Warehouses(ctx context.Context, db *gorm.DB) ([]string, error)
	// Update rewrites the mutable columns of one row. No other component
	// writes to the orders table.
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Insert(ctx context.Context, db *gorm.DB, orders []Order) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
