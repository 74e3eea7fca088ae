package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
	"github.com/stocktrail/stocktrail/internal/cache"
	"github.com/stocktrail/stocktrail/internal/clock"
	"github.com/stocktrail/stocktrail/internal/config"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	"github.com/stocktrail/stocktrail/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ordersCacheKeyAll = "orders|all"

	updateLockTTL = 10 * time.Second
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Holder     *config.DashboardConfigHolder
	Repo       orderdomain.Repository
	AuditRepo  auditdomain.Repository
	Vocabulary lookupdomain.Vocabulary
	Locker     *ratelimit.Locker `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	holder     *config.DashboardConfigHolder
	repo       orderdomain.Repository
	auditRepo  auditdomain.Repository
	vocabulary lookupdomain.Vocabulary
	locker     *ratelimit.Locker

	// Process-wide guard for the read-modify-write. The Redis locker, when
	// configured, extends the same guarantee across processes.
	updateMu sync.Mutex

	orders *cache.TTLCache[string, []orderdomain.Order]
}

func New(p Params) orderdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("order.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		holder:     p.Holder,
		repo:       p.Repo,
		auditRepo:  p.AuditRepo,
		vocabulary: p.Vocabulary,
		locker:     p.Locker,
		orders:     cache.NewTTLCache[string, []orderdomain.Order](),
	}
}

func (s *Service) List(ctx context.Context, req orderdomain.ListRequest) ([]orderdomain.Order, error) {
	key := ordersCacheKey(req.Warehouse)
	if cached, ok := s.orders.Get(key); ok {
		return append([]orderdomain.Order(nil), cached...), nil
	}

	orders, err := s.repo.List(ctx, s.db, orderdomain.ListFilter{Warehouse: req.Warehouse})
	if err != nil {
		return nil, err
	}

	s.orders.Set(key, orders, s.holder.Get().OrdersCacheTTL)
	return append([]orderdomain.Order(nil), orders...), nil
}

func (s *Service) Warehouses(ctx context.Context) ([]string, error) {
	return s.repo.Warehouses(ctx, s.db)
}

func (s *Service) KPIs(ctx context.Context, warehouse string) (orderdomain.KPIReport, error) {
	orders, err := s.List(ctx, orderdomain.ListRequest{Warehouse: warehouse})
	if err != nil {
		return orderdomain.KPIReport{}, err
	}

	cfg := s.holder.Get()
	now := s.clock.Now()
	today := now.Truncate(24 * time.Hour)
	overdueBefore := today.AddDate(0, 0, -cfg.OverdueAfterDays)

	var report orderdomain.KPIReport
	for _, order := range orders {
		if order.Status == cfg.InvoicedStatus {
			report.Invoiced++
		} else {
			report.Open++
		}
		orderDay := order.OrderDate.UTC().Truncate(24 * time.Hour)
		if orderDay.Before(overdueBefore) {
			report.Overdue++
		}
		if orderDay.Equal(today) {
			report.Today++
		}
	}
	return report, nil
}

func (s *Service) Update(ctx context.Context, req orderdomain.UpdateRequest) (*auditdomain.AuditRecord, error) {
	// The UI disables the form for viewers, but that is not a security
	// boundary; the transaction refuses them regardless.
	if !req.Actor.Role.CanWrite() {
		return nil, orderdomain.ErrPermissionDenied
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, orderdomain.ErrOrderNotFound
	}

	newStatus := strings.TrimSpace(req.NewStatus)
	ok, err := s.vocabulary.Contains(ctx, newStatus)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderdomain.ErrInvalidStatus
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	if s.locker != nil {
		lockKey := "order:update:" + orderID
		fence, acquired, lockErr := s.locker.TryLock(ctx, lockKey, updateLockTTL)
		if lockErr != nil {
			s.log.Warn("order update lock unavailable, proceeding with local mutex", zap.Error(lockErr))
		} else if !acquired {
			return nil, orderdomain.ErrOrderLocked
		} else {
			defer func() {
				if releaseErr := s.locker.Release(ctx, lockKey, fence); releaseErr != nil {
					s.log.Warn("order update lock release failed", zap.Error(releaseErr))
				}
			}()
		}
	}

	now := s.clock.Now()
	record := auditdomain.AuditRecord{
		ID:        s.genID.Generate(),
		Timestamp: now,
		User:      req.Actor.Label,
		OrderID:   orderID,
		ToStatus:  newStatus,
		ToInvoice: strings.TrimSpace(req.NewInvoiceNo),
	}

	// Order mutation and audit append commit together or not at all.
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderdomain.ErrOrderNotFound
		}

		record.Warehouse = order.Warehouse
		record.FromStatus = order.Status
		record.FromInvoice = order.InvoiceNo

		order.Status = newStatus
		order.InvoiceNo = record.ToInvoice
		order.UpdatedBy = req.Actor.Label
		order.UpdatedAt = now

		if err := s.repo.Update(ctx, tx, order); err != nil {
			return err
		}
		return s.auditRepo.Insert(ctx, tx, &record)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.orders.InvalidateAll()
	s.log.Info("order updated",
		zap.String("order_id", orderID),
		zap.String("from_status", record.FromStatus),
		zap.String("to_status", record.ToStatus),
		zap.String("user", record.User),
	)
	return &record, nil
}

func ordersCacheKey(warehouse string) string {
	warehouse = strings.TrimSpace(warehouse)
	if warehouse == "" {
		return ordersCacheKeyAll
	}
	return "orders|" + warehouse
}
