package access

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/stocktrail/stocktrail/internal/config"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Role is the single access level a request resolves to. Exactly one of the
// four values results from resolution; roles never stack.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	RoleNone   Role = ""
)

// CanWrite reports whether the role may mutate orders.
func (r Role) CanWrite() bool {
	return r == RoleOwner || r == RoleEditor
}

// CanIssueTokens reports whether the role may mint shareable tokens.
func (r Role) CanIssueTokens() bool {
	return r == RoleOwner
}

// Identity is the resolved caller: its role plus the label recorded as
// UpdatedBy/User on mutations.
type Identity struct {
	Role    Role   `json:"role"`
	Label   string `json:"label"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Credentials are the raw values presented with a request.
type Credentials struct {
	OwnerKey string
	Token    string
}

// Resolver turns presented credentials into an Identity, once per request.
type Resolver struct {
	cfg    config.Config
	log    *zap.Logger
	tokens tokendomain.Service
}

type ResolverParams struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Tokens tokendomain.Service
}

func NewResolver(p ResolverParams) *Resolver {
	return &Resolver{
		cfg:    p.Cfg,
		log:    p.Log.Named("access.resolver"),
		tokens: p.Tokens,
	}
}

// Resolve implements the resolution order from the access contract: an exact
// owner-key match wins, then a valid token, otherwise no access. The owner
// comparison is constant-time; an empty configured key never matches.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) Identity {
	if r.ownerKeyMatches(creds.OwnerKey) {
		return Identity{Role: RoleOwner, Label: "owner"}
	}

	if code := strings.TrimSpace(creds.Token); code != "" {
		grant, err := r.tokens.Verify(ctx, code)
		if err != nil {
			// Verify fails closed already; an error here is unexpected.
			r.log.Warn("token verification error", zap.Error(err))
			return Identity{Role: RoleNone}
		}
		if grant != nil {
			return Identity{
				Role:    Role(grant.Role),
				Label:   grant.Role,
				Company: grant.Company,
				Email:   grant.Email,
			}
		}
	}

	return Identity{Role: RoleNone}
}

func (r *Resolver) ownerKeyMatches(candidate string) bool {
	secret := r.cfg.OwnerKey
	if secret == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) == 1
}

var Module = fx.Module("access.resolver",
	fx.Provide(NewResolver),
)
