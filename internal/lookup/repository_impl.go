package lookup

import (
	"context"

	"github.com/stocktrail/stocktrail/internal/lookup/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListValues(ctx context.Context, lookupType string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Raw(`SELECT value FROM lookups WHERE type = ? ORDER BY id`, lookupType).
		Scan(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *repository) Insert(ctx context.Context, rows []domain.Lookup) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lookup{}).Count(&count).Error
	return count, err
}
