package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
)

// GroupRepository implements group.Repository for SQLite
type GroupRepository struct {
	db *DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a new work-group.
func (r *GroupRepository) Create(ctx context.Context, g *group.WorkGroup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_groups (id, name, position) VALUES (?, ?, ?)`,
		g.ID, g.Name, g.Position,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// Update rewrites a work-group's name and position.
func (r *GroupRepository) Update(ctx context.Context, g *group.WorkGroup) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_groups SET name = ?, position = ? WHERE id = ?`,
		g.Name, g.Position, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a work-group by id.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
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

// List returns every work-group in position order.
func (r *GroupRepository) List(ctx context.Context) ([]*group.WorkGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, position FROM work_groups ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*group.WorkGroup, 0)
	for rows.Next() {
		var g group.WorkGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Position); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
