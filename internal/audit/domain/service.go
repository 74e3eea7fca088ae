package domain

import (
	"context"
	"errors"
	"time"
)

type ListFilter struct {
	OrderID   string
	Warehouse string
	User      string
	StartAt   *time.Time
	EndAt     *time.Time
	Limit     int
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]AuditRecord, error)
}

var ErrInvalidTimeRange = errors.New("invalid_time_range")
