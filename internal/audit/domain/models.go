package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AuditRecord captures one successful order mutation with its before and
// after values. Records are immutable once appended; listing order is
// append order.
type AuditRecord struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time    `gorm:"column:timestamp;not null;index" json:"timestamp"`
	User        string       `gorm:"column:user_name;type:text;not null" json:"user"`
	Warehouse   string       `gorm:"type:text;not null" json:"warehouse"`
	OrderID     string       `gorm:"column:order_id;type:text;not null;index" json:"order_id"`
	FromStatus  string       `gorm:"column:from_status;type:text;not null" json:"from_status"`
	ToStatus    string       `gorm:"column:to_status;type:text;not null" json:"to_status"`
	FromInvoice string       `gorm:"column:from_invoice;type:text" json:"from_invoice"`
	ToInvoice   string       `gorm:"column:to_invoice;type:text" json:"to_invoice"`
}

func (AuditRecord) TableName() string { return "audit_logs" }
