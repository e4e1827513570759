package site

import (
	"context"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
)

// Repository manages site aggregate persistence. Each mutation performs
// exactly one Get, an in-memory edit and one Save; there are no
// multi-aggregate transactions.
type Repository interface {
	Create(ctx context.Context, s *Site) error
	Get(ctx context.Context, id string) (*Site, error)
	Save(ctx context.Context, s *Site) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Site, error)
}

// Broadcaster delivers the full site collection to every connected
// session. It is an explicit dependency rather than ambient state so a
// future incremental-diff transport can be substituted without touching
// the mutation pipeline.
type Broadcaster interface {
	PublishSites(ctx context.Context, sites []*Site)
}

// Auditor records one entry per successful mutation, never for denied or
// failed ones.
type Auditor interface {
	Record(ctx context.Context, actor auth.Actor, category, detail string)
}
