package group

// WorkGroup is a named category work-items can be tagged with, kept as a
// flat reference list ordered by position.
type WorkGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func (g *WorkGroup) NodeID() string    { return g.ID }
func (g *WorkGroup) SetPosition(p int) { g.Position = p }
