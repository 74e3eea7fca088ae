package domain

import (
	"context"
	"errors"
	"time"
)

const (
	ExpiryUnitHours = "hours"
	ExpiryUnitDays  = "days"
)

type Service interface {
	// Issue creates and durably stores a new token. The returned response
	// carries the plaintext code: the code itself is the bearer credential.
	Issue(ctx context.Context, req IssueRequest) (*IssueResponse, error)
	// Verify resolves a presented code to its grant. Expired or unknown
	// codes return (nil, nil); store read failures fail closed the same way.
	Verify(ctx context.Context, code string) (*Grant, error)
}

type IssueRequest struct {
	Role         string `json:"role"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	ExpiryAmount int    `json:"expiry_amount"`
	ExpiryUnit   string `json:"expiry_unit"`
}

// Duration converts the amount/unit pair from the issuance form.
func (r IssueRequest) Duration() (time.Duration, error) {
	if r.ExpiryAmount < 1 {
		return 0, ErrInvalidExpiry
	}
	switch r.ExpiryUnit {
	case ExpiryUnitHours:
		return time.Duration(r.ExpiryAmount) * time.Hour, nil
	case ExpiryUnitDays:
		return time.Duration(r.ExpiryAmount) * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidExpiry
	}
}

type IssueResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	ErrInvalidRole   = errors.New("invalid_role")
	ErrInvalidExpiry = errors.New("invalid_expiry")
	ErrDuplicateCode = errors.New("duplicate_token_code")
)
