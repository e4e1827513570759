package sqlite

import (
	"context"
	"testing"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGroupRepository(db)

	require.NoError(t, repo.Create(ctx, &group.WorkGroup{ID: "g2", Name: "Electrical", Position: 1}))
	require.NoError(t, repo.Create(ctx, &group.WorkGroup{ID: "g1", Name: "Finishing", Position: 0}))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Finishing", groups[0].Name)

	groups[0].Name = "Finishing works"
	require.NoError(t, repo.Update(ctx, groups[0]))

	groups, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "Finishing works", groups[0].Name)

	require.NoError(t, repo.Delete(ctx, "g1"))
	require.ErrorIs(t, repo.Delete(ctx, "g1"), repository.ErrNotFound)

	groups, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
}

func TestGroupRepository_DuplicateID(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewGroupRepository(db)

	require.NoError(t, repo.Create(ctx, &group.WorkGroup{ID: "g1", Name: "A", Position: 0}))
	require.ErrorIs(t, repo.Create(ctx, &group.WorkGroup{ID: "g1", Name: "B", Position: 1}), repository.ErrDuplicate)
}
