package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Roles a shareable token may carry. Owner access never goes through a token.
const (
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Token is one issued credential. Rows are append-only: a token is never
// mutated or deleted, it simply dies once ExpiresAt passes.
type Token struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"-"`
	Code      string       `gorm:"column:token;type:text;not null;uniqueIndex:ux_tokens_token" json:"token"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	Company   string       `gorm:"type:text;not null" json:"company"`
	Email     string       `gorm:"type:text" json:"email,omitempty"`
	ExpiresAt time.Time    `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Token) TableName() string { return "tokens" }

// Grant is what a verified token resolves to.
type Grant struct {
	Role    string `json:"role"`
	Company string `json:"company"`
	Email   string `json:"email,omitempty"`
}
