package site

// Path is an ordered list of ancestor identities addressing one node in a
// site aggregate. Ids are filled from the root down as far as the
// operation's target requires; every filled hop must resolve.
type Path struct {
	SiteID     string
	ContractID string
	FloorID    string
	RoomID     string
	WorkItemID string
	MaterialID string
}

// index is an arena of per-level id maps with explicit parent references,
// built once per aggregate load. It replaces repeated find-by-id scans
// through the embedded arrays: path resolution is a map lookup per hop and
// a cascading delete is a single slice removal, since subtrees are embedded.
type index struct {
	site      *Site
	contracts map[string]*Contract
	floors    map[string]*Floor
	rooms     map[string]*Room
	items     map[string]*WorkItem
	parent    map[string]string
}

func newIndex(s *Site) *index {
	ix := &index{
		site:      s,
		contracts: make(map[string]*Contract),
		floors:    make(map[string]*Floor),
		rooms:     make(map[string]*Room),
		items:     make(map[string]*WorkItem),
		parent:    make(map[string]string),
	}
	for _, c := range s.Contracts {
		ix.contracts[c.ID] = c
		ix.parent[c.ID] = s.ID
		for _, f := range c.Floors {
			ix.floors[f.ID] = f
			ix.parent[f.ID] = c.ID
			for _, r := range f.Rooms {
				ix.rooms[r.ID] = r
				ix.parent[r.ID] = f.ID
				for _, w := range r.WorkItems {
					ix.items[w.ID] = w
					ix.parent[w.ID] = r.ID
				}
			}
		}
	}
	return ix
}

func (ix *index) contract(p Path) (*Contract, error) {
	if p.SiteID != ix.site.ID {
		return nil, ErrPathNotFound
	}
	c, ok := ix.contracts[p.ContractID]
	if !ok || ix.parent[p.ContractID] != p.SiteID {
		return nil, ErrPathNotFound
	}
	return c, nil
}

func (ix *index) floor(p Path) (*Floor, error) {
	if _, err := ix.contract(p); err != nil {
		return nil, err
	}
	f, ok := ix.floors[p.FloorID]
	if !ok || ix.parent[p.FloorID] != p.ContractID {
		return nil, ErrPathNotFound
	}
	return f, nil
}

func (ix *index) room(p Path) (*Room, error) {
	if _, err := ix.floor(p); err != nil {
		return nil, err
	}
	r, ok := ix.rooms[p.RoomID]
	if !ok || ix.parent[p.RoomID] != p.FloorID {
		return nil, ErrPathNotFound
	}
	return r, nil
}

func (ix *index) workItem(p Path) (*WorkItem, error) {
	if _, err := ix.room(p); err != nil {
		return nil, err
	}
	w, ok := ix.items[p.WorkItemID]
	if !ok || ix.parent[p.WorkItemID] != p.RoomID {
		return nil, ErrPathNotFound
	}
	return w, nil
}

func (ix *index) material(p Path) (*WorkItem, *Material, error) {
	w, err := ix.workItem(p)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range w.Materials {
		if m.ID == p.MaterialID {
			return w, m, nil
		}
	}
	return nil, nil, ErrPathNotFound
}
