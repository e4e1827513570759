package site_test

import (
	"testing"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/stretchr/testify/require"
)

func sampleRoom() *site.Room {
	start := "2026-03-01"
	end := "2026-04-01"
	return &site.Room{
		ID:   site.NewID(),
		Name: "R1",
		WorkItems: []*site.WorkItem{
			{
				ID:        site.NewID(),
				Name:      "T1",
				GroupID:   "g1",
				Volume:    10,
				Unit:      "m2",
				UnitPower: "2",
				WorkDone:  true,
				DocDone:   true,
				StartDate: &start,
				EndDate:   &end,
				Materials: []*site.Material{
					{ID: site.NewID(), Name: "Primer", Unit: "l", Coefficient: 0.5, Total: 5},
				},
				Comments: []*site.Comment{
					{ID: site.NewID(), Text: "first"},
					{ID: site.NewID(), Text: "second"},
				},
			},
		},
	}
}

func collectRoomIDs(r *site.Room) map[string]bool {
	ids := map[string]bool{r.ID: true}
	for _, w := range r.WorkItems {
		ids[w.ID] = true
		for _, m := range w.Materials {
			ids[m.ID] = true
		}
		for _, c := range w.Comments {
			ids[c.ID] = true
		}
	}
	return ids
}

func TestCloneRoom_FreshIdentitiesAndResetProgress(t *testing.T) {
	src := sampleRoom()

	clone := site.CloneRoom(src)

	require.Equal(t, "R1 (copy)", clone.Name)
	require.Len(t, clone.WorkItems, 1)

	item := clone.WorkItems[0]
	require.Equal(t, "T1", item.Name)
	require.Equal(t, "g1", item.GroupID)
	require.Equal(t, 10.0, item.Volume)
	require.Equal(t, "m2", item.Unit)
	require.False(t, item.WorkDone)
	require.False(t, item.DocDone)
	require.Nil(t, item.StartDate)
	require.Nil(t, item.EndDate)
	require.Empty(t, item.Comments)

	require.Len(t, item.Materials, 1)
	require.Equal(t, 0.5, item.Materials[0].Coefficient)
	require.Equal(t, 5.0, item.Materials[0].Total)

	srcIDs := collectRoomIDs(src)
	for id := range collectRoomIDs(clone) {
		require.False(t, srcIDs[id], "identity %s shared with source", id)
	}
}

func TestCloneRoom_SourceUntouched(t *testing.T) {
	src := sampleRoom()

	clone := site.CloneRoom(src)
	clone.WorkItems[0].Volume = 99
	clone.WorkItems[0].Materials[0].Coefficient = 42

	require.Equal(t, "R1", src.Name)
	require.True(t, src.WorkItems[0].WorkDone)
	require.Len(t, src.WorkItems[0].Comments, 2)
	require.Equal(t, 10.0, src.WorkItems[0].Volume)
	require.Equal(t, 0.5, src.WorkItems[0].Materials[0].Coefficient)
}

func TestCloneFloor_MarksOnlyRootName(t *testing.T) {
	src := &site.Floor{
		ID:    site.NewID(),
		Name:  "F1",
		Rooms: []*site.Room{sampleRoom(), sampleRoom()},
	}
	src.Rooms[1].Name = "R2"

	clone := site.CloneFloor(src)

	require.Equal(t, "F1 (copy)", clone.Name)
	require.NotEqual(t, src.ID, clone.ID)
	require.Len(t, clone.Rooms, 2)
	// Name suffix applies only at the clone root.
	require.Equal(t, "R1", clone.Rooms[0].Name)
	require.Equal(t, "R2", clone.Rooms[1].Name)
	for i, r := range clone.Rooms {
		require.Equal(t, i, r.Position)
		require.NotEqual(t, src.Rooms[i].ID, r.ID)
	}
}

func TestCloneRoom_RecomputesMaterialTotals(t *testing.T) {
	src := sampleRoom()
	// Stale cached total must not survive the clone.
	src.WorkItems[0].Materials[0].Total = 1234

	clone := site.CloneRoom(src)

	require.Equal(t, 10*0.5, clone.WorkItems[0].Materials[0].Total)
}
