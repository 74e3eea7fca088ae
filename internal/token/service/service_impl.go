package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/stocktrail/stocktrail/internal/clock"
	"github.com/stocktrail/stocktrail/internal/config"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
	"github.com/stocktrail/stocktrail/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 4 random bytes -> 8 hex chars. Short enough to paste into a chat
	// message, unique codes are still enforced by the store.
	tokenCodeBytes = 4

	issueRetries = 3
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  tokendomain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  tokendomain.Repository
}

func New(p Params) tokendomain.Service {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("token.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Issue(ctx context.Context, req tokendomain.IssueRequest) (*tokendomain.IssueResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role != tokendomain.RoleEditor && role != tokendomain.RoleViewer {
		return nil, tokendomain.ErrInvalidRole
	}

	duration, err := req.Duration()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	token := tokendomain.Token{
		Role:      role,
		Company:   strings.TrimSpace(req.Company),
		Email:     strings.TrimSpace(req.Email),
		ExpiresAt: now.Add(duration),
		CreatedAt: now,
	}

	// Codes are random, so a collision is vanishingly rare but not
	// impossible. The unique index rejects it and we mint a fresh code.
	for attempt := 0; attempt < issueRetries; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		token.ID = s.genID.Generate()
		token.Code = code

		insertErr := s.repo.Insert(ctx, s.db, &token)
		if insertErr == nil {
			return &tokendomain.IssueResponse{
				Token:     token.Code,
				URL:       shareURL(s.cfg.BaseURL, token.Code),
				Role:      token.Role,
				Company:   token.Company,
				Email:     token.Email,
				ExpiresAt: token.ExpiresAt,
			}, nil
		}
		if !db.IsDuplicateKeyErr(insertErr) {
			return nil, insertErr
		}
		s.log.Warn("token code collision, retrying", zap.Int("attempt", attempt+1))
	}

	return nil, tokendomain.ErrDuplicateCode
}

func (s *Service) Verify(ctx context.Context, code string) (*tokendomain.Grant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	token, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		// Fail closed: a broken token store never grants access.
		s.log.Warn("token store read failed, denying access", zap.Error(err))
		return nil, nil
	}
	if token == nil {
		return nil, nil
	}
	if s.clock.Now().After(token.ExpiresAt) {
		return nil, nil
	}

	return &tokendomain.Grant{
		Role:    token.Role,
		Company: token.Company,
		Email:   token.Email,
	}, nil
}

func generateCode() (string, error) {
	buf := make([]byte, tokenCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func shareURL(baseURL, code string) string {
	if baseURL == "" {
		return "?token=" + code
	}
	return fmt.Sprintf("%s?token=%s", strings.TrimRight(baseURL, "/"), code)
}
