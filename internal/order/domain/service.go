package domain

import (
	"context"
	"errors"

	"github.com/stocktrail/stocktrail/internal/access"
	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
)

type ListRequest struct {
	Warehouse string
}

type UpdateRequest struct {
	Actor        access.Identity
	OrderID      string
	NewStatus    string
	NewInvoiceNo string
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Order, error)
	Warehouses(ctx context.Context) ([]string, error)
	KPIs(ctx context.Context, warehouse string) (KPIReport, error)
	// Update runs the audited mutation: re-checks the actor's role, reads
	// the from-values, writes the new status/invoice and appends exactly
	// one audit record, all inside a single transaction.
	Update(ctx context.Context, req UpdateRequest) (*auditdomain.AuditRecord, error)
}

var (
	ErrOrderNotFound    = errors.New("order_not_found")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrOrderLocked      = errors.New("order_locked")
)
