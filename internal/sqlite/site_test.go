package sqlite

import (
	"context"
	"testing"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
	"github.com/stretchr/testify/require"
)

func sampleSite(id, name string, position int) *site.Site {
	return &site.Site{
		ID:       id,
		Name:     name,
		Position: position,
		Contracts: []*site.Contract{
			{
				ID:   id + "-c1",
				Name: "C1",
				Floors: []*site.Floor{
					{
						ID:   id + "-f1",
						Name: "F1",
						Rooms: []*site.Room{
							{
								ID:   id + "-r1",
								Name: "R1",
								WorkItems: []*site.WorkItem{
									{
										ID:     id + "-w1",
										Name:   "Paint walls",
										Volume: 10,
										Unit:   "m2",
										Materials: []*site.Material{
											{ID: id + "-m1", Name: "Paint", Coefficient: 2, Total: 20},
										},
										Comments: []*site.Comment{},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestSiteRepository_RoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	original := sampleSite("s1", "A", 0)
	require.NoError(t, repo.Create(ctx, original))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "A", loaded.Name)
	// The whole embedded subtree survives the document round trip.
	item := loaded.Contracts[0].Floors[0].Rooms[0].WorkItems[0]
	require.Equal(t, "Paint walls", item.Name)
	require.Equal(t, 10.0, item.Volume)
	require.Equal(t, 20.0, item.Materials[0].Total)
}

func TestSiteRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	_, err := repo.Get(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSiteRepository_SaveRewritesDocument(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	s := sampleSite("s1", "A", 0)
	require.NoError(t, repo.Create(ctx, s))

	s.Name = "A renamed"
	s.Contracts[0].Floors[0].Rooms[0].WorkItems[0].Volume = 5
	require.NoError(t, repo.Save(ctx, s))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "A renamed", loaded.Name)
	require.Equal(t, 5.0, loaded.Contracts[0].Floors[0].Rooms[0].WorkItems[0].Volume)
}

func TestSiteRepository_SaveMissing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	err := repo.Save(ctx, sampleSite("ghost", "X", 0))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSiteRepository_DeleteRemovesSubtree(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	require.NoError(t, repo.Create(ctx, sampleSite("s1", "A", 0)))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.Get(ctx, "s1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "s1"), repository.ErrNotFound)
}

func TestSiteRepository_ListInPositionOrder(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSiteRepository(db)

	require.NoError(t, repo.Create(ctx, sampleSite("s2", "B", 1)))
	require.NoError(t, repo.Create(ctx, sampleSite("s1", "A", 0)))
	require.NoError(t, repo.Create(ctx, sampleSite("s3", "C", 2)))

	sites, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 3)
	require.Equal(t, "A", sites[0].Name)
	require.Equal(t, "B", sites[1].Name)
	require.Equal(t, "C", sites[2].Name)
}
