package lookup

import (
	"context"
	"strings"

	"github.com/stocktrail/stocktrail/internal/cache"
	"github.com/stocktrail/stocktrail/internal/config"
	"github.com/stocktrail/stocktrail/internal/lookup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const statusCacheKey = "lookups|status"

type VocabularyParams struct {
	fx.In

	Log    *zap.Logger
	Repo   domain.Repository
	Holder *config.DashboardConfigHolder
}

type vocabulary struct {
	log    *zap.Logger
	repo   domain.Repository
	holder *config.DashboardConfigHolder
	values *cache.TTLCache[string, []string]
}

// NewVocabulary returns a read-through cached view of the status vocabulary.
func NewVocabulary(p VocabularyParams) domain.Vocabulary {
	return &vocabulary{
		log:    p.Log.Named("lookup.vocabulary"),
		repo:   p.Repo,
		holder: p.Holder,
		values: cache.NewTTLCache[string, []string](),
	}
}

func (v *vocabulary) Statuses(ctx context.Context) ([]string, error) {
	if cached, ok := v.values.Get(statusCacheKey); ok {
		return append([]string(nil), cached...), nil
	}

	statuses, err := v.repo.ListValues(ctx, domain.TypeStatus)
	if err != nil {
		return nil, err
	}

	v.values.Set(statusCacheKey, statuses, v.holder.Get().LookupsCacheTTL)
	return append([]string(nil), statuses...), nil
}

func (v *vocabulary) Contains(ctx context.Context, status string) (bool, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return false, nil
	}

	statuses, err := v.Statuses(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range statuses {
		if s == status {
			return true, nil
		}
	}
	return false, nil
}

func (v *vocabulary) Invalidate() {
	v.values.Invalidate(statusCacheKey)
}
