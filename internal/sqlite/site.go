package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
)

// SiteRepository implements site.Repository. Each aggregate is stored as
// one JSON document; load and save always move the whole subtree.
type SiteRepository struct {
	db *DB
}

// NewSiteRepository creates a new SiteRepository
func NewSiteRepository(db *DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Create inserts a new site aggregate.
func (r *SiteRepository) Create(ctx context.Context, s *site.Site) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal site: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sites (id, name, position, doc) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.Position, string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}
	return nil
}

// Get loads one aggregate by id.
func (r *SiteRepository) Get(ctx context.Context, id string) (*site.Site, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM sites WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return unmarshalSite(doc)
}

// Save rewrites the whole aggregate document. The name and position
// columns are kept in sync for ordered listing.
func (r *SiteRepository) Save(ctx context.Context, s *site.Site) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal site: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE sites SET name = ?, position = ?, doc = ?, modified_at = CURRENT_TIMESTAMP WHERE id = ?`,
		s.Name, s.Position, string(doc), s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an aggregate and, with it, everything it embeds.
func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List loads every aggregate in position order.
func (r *SiteRepository) List(ctx context.Context) ([]*site.Site, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM sites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	sites := make([]*site.Site, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		s, err := unmarshalSite(doc)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}
	return sites, nil
}

func unmarshalSite(doc string) (*site.Site, error) {
	var s site.Site
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal site: %w", err)
	}
	return &s, nil
}
