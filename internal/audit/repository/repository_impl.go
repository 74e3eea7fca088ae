package repository

import (
	"context"
	"strings"

	"github.com/stocktrail/stocktrail/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.AuditRecord) error {
	if record == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (
			id, timestamp, user_name, warehouse, order_id,
			from_status, to_status, from_invoice, to_invoice
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp,
		record.User,
		record.Warehouse,
		record.OrderID,
		record.FromStatus,
		record.ToStatus,
		record.FromInvoice,
		record.ToInvoice,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	stmt := db.WithContext(ctx).Model(&domain.AuditRecord{})

	if orderID := strings.TrimSpace(filter.OrderID); orderID != "" {
		stmt = stmt.Where("order_id = ?", orderID)
	}
	if warehouse := strings.TrimSpace(filter.Warehouse); warehouse != "" {
		stmt = stmt.Where("warehouse = ?", warehouse)
	}
	if user := strings.TrimSpace(filter.User); user != "" {
		stmt = stmt.Where("user_name = ?", user)
	}
	if filter.StartAt != nil {
		stmt = stmt.Where("timestamp >= ?", filter.StartAt.UTC())
	}
	if filter.EndAt != nil {
		stmt = stmt.Where("timestamp <= ?", filter.EndAt.UTC())
	}

	stmt = stmt.Order("timestamp desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}

	if err := stmt.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
