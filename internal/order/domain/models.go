package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Order is one row of the orders table. Orders are created by bulk import
// and mutated only through the update transaction; this subsystem never
// deletes them.
type Order struct {
	OrderID   string            `gorm:"column:order_id;primaryKey;type:text" json:"order_id"`
	Warehouse string            `gorm:"type:text;not null;index" json:"warehouse"`
	Status    string            `gorm:"type:text;not null" json:"status"`
	InvoiceNo string            `gorm:"column:invoice_no;type:text" json:"invoice_no"`
	OrderDate time.Time         `gorm:"column:order_date;not null" json:"order_date"`
	UpdatedBy string            `gorm:"column:updated_by;type:text" json:"updated_by"`
	UpdatedAt time.Time         `gorm:"column:updated_at" json:"updated_at"`
	// Extra preserves columns that came in with the bulk import and are
	// not part of the tracked schema. They round-trip through export.
	Extra datatypes.JSONMap `gorm:"type:jsonb" json:"extra,omitempty"`
}

func (Order) TableName() string { return "orders" }

// KPIReport is the per-warehouse counter block rendered above the table.
type KPIReport struct {
	Open     int `json:"open"`
	Overdue  int `json:"overdue"`
	Today    int `json:"today"`
	Invoiced int `json:"invoiced"`
}
