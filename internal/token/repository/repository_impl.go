package repository

import (
	"context"

	"github.com/stocktrail/stocktrail/internal/token/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, token *domain.Token) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tokens (id, token, role, company, email, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token.ID,
		token.Code,
		token.Role,
		token.Company,
		token.Email,
		token.ExpiresAt,
		token.CreatedAt,
	).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Token, error) {
	var token domain.Token
	err := db.WithContext(ctx).Raw(
		`SELECT id, token, role, company, email, expires_at, created_at
		 FROM tokens WHERE token = ? LIMIT 1`,
		code,
	).Scan(&token).Error
	if err != nil {
		return nil, err
	}
	if token.ID == 0 {
		return nil, nil
	}
	return &token, nil
}
