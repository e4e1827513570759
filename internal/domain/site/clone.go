package site

// CopySuffix is appended to the name of a clone's root node.
const CopySuffix = " (copy)"

// CloneFloor deep-copies a floor. Every node in the clone, the root
// included, receives a fresh identity; the clone shares nothing with its
// source. Position is set by the caller when appending to the destination.
func CloneFloor(src *Floor) *Floor {
	clone := &Floor{
		ID:    NewID(),
		Name:  src.Name + CopySuffix,
		Rooms: make([]*Room, 0, len(src.Rooms)),
	}
	for _, r := range src.Rooms {
		clone.Rooms = append(clone.Rooms, cloneRoom(r, false))
	}
	Reindex(clone.Rooms)
	return clone
}

// CloneRoom deep-copies a room, marking the clone root's name.
func CloneRoom(src *Room) *Room {
	return cloneRoom(src, true)
}

func cloneRoom(src *Room, markName bool) *Room {
	name := src.Name
	if markName {
		name += CopySuffix
	}
	clone := &Room{
		ID:        NewID(),
		Name:      name,
		Position:  src.Position,
		WorkItems: make([]*WorkItem, 0, len(src.WorkItems)),
	}
	for _, w := range src.WorkItems {
		clone.WorkItems = append(clone.WorkItems, cloneWorkItem(w))
	}
	Reindex(clone.WorkItems)
	return clone
}

// cloneWorkItem copies descriptive fields and materials while resetting
// all progress state: completion flags, schedule and discussion thread.
func cloneWorkItem(src *WorkItem) *WorkItem {
	clone := &WorkItem{
		ID:        NewID(),
		Name:      src.Name,
		GroupID:   src.GroupID,
		Volume:    src.Volume,
		Unit:      src.Unit,
		UnitPower: src.UnitPower,
		WorkDone:  false,
		DocDone:   false,
		Position:  src.Position,
		Materials: make([]*Material, 0, len(src.Materials)),
		Comments:  []*Comment{},
	}
	for _, m := range src.Materials {
		clone.Materials = append(clone.Materials, &Material{
			ID:          NewID(),
			Name:        m.Name,
			Unit:        m.Unit,
			Coefficient: m.Coefficient,
			Total:       clone.Volume * m.Coefficient,
		})
	}
	return clone
}
