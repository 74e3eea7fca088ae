package domain

import "context"

type Repository interface {
	ListValues(ctx context.Context, lookupType string) ([]string, error)
	Insert(ctx context.Context, rows []Lookup) error
	Count(ctx context.Context) (int64, error)
}

// Vocabulary is the read side consumed by the order update transaction and
// the HTTP surface. Reads go through a TTL cache; Invalidate must be called
// after any write to the lookups table.
type Vocabulary interface {
	Statuses(ctx context.Context) ([]string, error)
	Contains(ctx context.Context, status string) (bool, error)
	Invalidate()
}
