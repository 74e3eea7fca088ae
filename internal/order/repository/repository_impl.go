package repository

import (
	"context"
	"strings"

	"github.com/stocktrail/stocktrail/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT order_id, warehouse, status, invoice_no, order_date, updated_by, updated_at, extra
		 FROM orders WHERE order_id = ?`,
		orderID,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.OrderID == "" {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Order, error) {
	var orders []domain.Order
	stmt := db.WithContext(ctx).Model(&domain.Order{})
	if warehouse := strings.TrimSpace(filter.Warehouse); warehouse != "" {
		stmt = stmt.Where("warehouse = ?", warehouse)
	}
	err := stmt.
		Order("order_date desc, order_id asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Warehouses(ctx context.Context, db *gorm.DB) ([]string, error) {
	var warehouses []string
	err := db.WithContext(ctx).
		Raw(`SELECT DISTINCT warehouse FROM orders ORDER BY warehouse`).
		Scan(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`UPDATE orders
		 SET status = ?, invoice_no = ?, updated_by = ?, updated_at = ?
		 WHERE order_id = ?`,
		order.Status,
		order.InvoiceNo,
		order.UpdatedBy,
		order.UpdatedAt,
		order.OrderID,
	).Error
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&orders).Error
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Order{}).Count(&count).Error
	return count, err
}
