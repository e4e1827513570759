package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
)

// Repository manages audit log persistence.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	// Query returns a page of entries newest-first plus the total count of
	// entries matching the search term.
	Query(ctx context.Context, offset, limit int, search string) ([]*Entry, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier pushes each appended record to connected sessions.
type Notifier interface {
	PublishLog(ctx context.Context, e *Entry)
}

// Service is the append-only audit log: one record per successful
// mutation, paginated keyword-filtered reads, time-based retention.
type Service struct {
	entries   Repository
	notifier  Notifier
	retention time.Duration
	logger    *slog.Logger
}

// NewService creates an audit service. A non-positive retention falls
// back to DefaultRetention.
func NewService(entries Repository, notifier Notifier, retention time.Duration, logger *slog.Logger) *Service {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{entries: entries, notifier: notifier, retention: retention, logger: logger}
}

// Record appends one entry. Append failures never fail the mutation that
// produced them; they are logged server-side only.
func (s *Service) Record(ctx context.Context, actor auth.Actor, category, detail string) {
	e := &Entry{
		ID:        ulid.Make().String(),
		Actor:     actor.Name,
		Role:      actor.Role,
		Category:  category,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := s.entries.Append(ctx, e); err != nil {
		s.logger.Error("appending audit entry", "error", err)
		return
	}
	if s.notifier != nil {
		s.notifier.PublishLog(ctx, e)
	}
}

// Query returns one page (PageSize records) newest-first, filtered by a
// case-insensitive substring match over actor, category and detail.
// Pages are 1-based.
func (s *Service) Query(ctx context.Context, page int, search string) ([]*Entry, int, error) {
	if page < 1 {
		page = 1
	}
	entries, total, err := s.entries.Query(ctx, (page-1)*PageSize, PageSize, search)
	if err != nil {
		return nil, 0, fmt.Errorf("querying audit log: %w", err)
	}
	return entries, total, nil
}

// Purge deletes entries older than the retention window. No purge
// confirmation is broadcast.
func (s *Service) Purge(ctx context.Context) error {
	removed, err := s.entries.DeleteOlderThan(ctx, time.Now().Add(-s.retention))
	if err != nil {
		return fmt.Errorf("purging audit log: %w", err)
	}
	if removed > 0 {
		s.logger.Info("purged expired audit entries", "count", removed)
	}
	return nil
}

// RunRetention sweeps the log at the given interval until ctx is done.
func (s *Service) RunRetention(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Purge(ctx); err != nil {
				s.logger.Error("retention sweep failed", "error", err)
			}
		}
	}
}
