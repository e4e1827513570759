package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
)

// AuditRepository implements audit.Repository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts one audit record.
func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor, role, category, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Actor, e.Role, e.Category, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Query returns a page of entries newest-first plus the total matching
// count. The search term is a case-insensitive substring match over
// actor, category and detail.
func (r *AuditRepository) Query(ctx context.Context, offset, limit int, search string) ([]*audit.Entry, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		pattern := "%" + search + "%"
		where = ` WHERE actor LIKE ? OR category LIKE ? OR detail LIKE ?`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `SELECT id, actor, role, category, detail, created_at FROM audit_log` +
		where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0, limit)
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Role, &e.Category, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, total, nil
}

// DeleteOlderThan removes entries created before cutoff and reports how
// many were removed.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit entries: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check purge result: %w", err)
	}
	return removed, nil
}
