package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Insert appends one record. It is called inside the order update
	// transaction, so db may be a *gorm.DB transaction handle.
	Insert(ctx context.Context, db *gorm.DB, record *AuditRecord) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]AuditRecord, error)
}
