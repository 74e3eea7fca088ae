package service

import (
	"context"

	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultListLimit = 200

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo auditdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo auditdomain.Repository
}

func New(p Params) auditdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("audit.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, filter auditdomain.ListFilter) ([]auditdomain.AuditRecord, error) {
	if filter.StartAt != nil && filter.EndAt != nil && filter.StartAt.After(*filter.EndAt) {
		return nil, auditdomain.ErrInvalidTimeRange
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	return s.repo.List(ctx, s.db, filter)
}
