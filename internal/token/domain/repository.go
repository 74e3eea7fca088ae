package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, token *Token) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Token, error)
}
