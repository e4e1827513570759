package site

import (
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/google/uuid"
)

// Site is the root aggregate for one construction project. Everything it
// owns is embedded; the aggregate is always loaded and saved as a whole.
type Site struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Position  int         `json:"position"`
	Contracts []*Contract `json:"contracts"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Contract is a scoped body of work within a site.
type Contract struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Floors   []*Floor `json:"floors"`
}

// Floor is a level within a contract.
type Floor struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
	Rooms    []*Room `json:"rooms"`
}

// Room is a location within a floor.
type Room struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Position  int         `json:"position"`
	WorkItems []*WorkItem `json:"workItems"`
}

// WorkItem is a trackable unit of work with a required volume, completion
// flags, an optional schedule and a discussion thread.
type WorkItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	GroupID   string      `json:"groupId"`
	Volume    float64     `json:"volume"`
	Unit      string      `json:"unit"`
	UnitPower string      `json:"unitPower"`
	WorkDone  bool        `json:"workDone"`
	DocDone   bool        `json:"docDone"`
	StartDate *string     `json:"startDate"`
	EndDate   *string     `json:"endDate"`
	Position  int         `json:"position"`
	Materials []*Material `json:"materials"`
	Comments  []*Comment  `json:"comments"`
}

// Material is a consumable tied to a work-item. Total is derived:
// work-item volume times coefficient, recomputed on every volume or
// coefficient change.
type Material struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Coefficient float64 `json:"coefficient"`
	Total       float64 `json:"total"`
}

// Comment is one entry in a work-item discussion thread. Attachments
// travel inline; there is no separate blob store.
type Comment struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Author      string       `json:"author"`
	Role        auth.Role    `json:"role"`
	CreatedAt   time.Time    `json:"createdAt"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is an inline binary blob on a comment.
type Attachment struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Data []byte `json:"data"`
}

// NewID issues a fresh globally unique identity. Identities are opaque
// and never reused.
func NewID() string {
	return uuid.NewString()
}

// RecalcTotals recomputes every material total from the item's volume.
func (w *WorkItem) RecalcTotals() {
	for _, m := range w.Materials {
		m.Total = w.Volume * m.Coefficient
	}
}

func (s *Site) NodeID() string        { return s.ID }
func (s *Site) SetPosition(p int)     { s.Position = p }
func (c *Contract) NodeID() string    { return c.ID }
func (c *Contract) SetPosition(p int) { c.Position = p }
func (f *Floor) NodeID() string       { return f.ID }
func (f *Floor) SetPosition(p int)    { f.Position = p }
func (r *Room) NodeID() string        { return r.ID }
func (r *Room) SetPosition(p int)     { r.Position = p }
func (w *WorkItem) NodeID() string    { return w.ID }
func (w *WorkItem) SetPosition(p int) { w.Position = p }
