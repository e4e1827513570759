package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
)

// Kind tags the structural level a rename/delete/copy/reorder addresses.
type Kind string

const (
	KindSite     Kind = "site"
	KindContract Kind = "contract"
	KindFloor    Kind = "floor"
	KindRoom     Kind = "room"
	KindWorkItem Kind = "workItem"
	KindMaterial Kind = "material"
)

// Status field names accepted by ToggleField.
const (
	FieldWorkDone = "work-done"
	FieldDocDone  = "doc-done"
)

// Service is the mutation pipeline: capability gate, aggregate load, path
// resolution, apply, persist, audit, broadcast — in that order. Denied and
// unresolvable mutations are dropped silently; no error event reaches the
// caller. There is no per-aggregate lock: two requests racing between load
// and save lose the earlier write (documented hazard, not corrected here).
type Service struct {
	sites       Repository
	audit       Auditor
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewService creates the mutation pipeline.
func NewService(sites Repository, auditor Auditor, broadcaster Broadcaster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		sites:       sites,
		audit:       auditor,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// AddWorkItemInput carries raw client input for a new work-item. Volume is
// parsed permissively; unparsable values become 0.
type AddWorkItemInput struct {
	Name      string
	GroupID   string
	Volume    any
	Unit      string
	UnitPower string
}

// AddMaterialInput carries raw client input for a new material.
// Coefficient parses permissively, defaulting to 1.
type AddMaterialInput struct {
	Name        string
	Unit        string
	Coefficient any
}

// EditWorkItemInput updates a subset of work-item fields; nil pointers
// leave the field untouched.
type EditWorkItemInput struct {
	Name      *string
	GroupID   *string
	Volume    any
	Unit      *string
	UnitPower *string
}

// CreateSite creates a new root aggregate, appended after the existing
// sites. Only privileged actors may create sites.
func (s *Service) CreateSite(ctx context.Context, actor auth.Actor, name string) error {
	if !s.allowed(actor, auth.CategoryStructureEdit, "create-site") {
		return nil
	}
	existing, err := s.sites.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sites: %w", err)
	}
	created := &Site{
		ID:        NewID(),
		Name:      name,
		Position:  len(existing),
		Contracts: []*Contract{},
		CreatedAt: time.Now(),
	}
	if err := s.sites.Create(ctx, created); err != nil {
		return fmt.Errorf("creating site: %w", err)
	}
	s.finish(ctx, actor, "create-site", fmt.Sprintf("created site %q", name))
	return nil
}

// CreateContract appends a contract to a site.
func (s *Service) CreateContract(ctx context.Context, actor auth.Actor, siteID, name string) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "create-contract", siteID,
		func(ag *Site, _ *index) (string, error) {
			contract := &Contract{ID: NewID(), Name: name, Floors: []*Floor{}}
			ag.Contracts = InsertAtEnd(ag.Contracts, contract)
			return fmt.Sprintf("created contract %q in site %q", name, ag.Name), nil
		})
}

// AddFloor appends a floor to a contract.
func (s *Service) AddFloor(ctx context.Context, actor auth.Actor, p Path, name string) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "add-floor", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			contract, err := ix.contract(p)
			if err != nil {
				return "", err
			}
			floor := &Floor{ID: NewID(), Name: name, Rooms: []*Room{}}
			contract.Floors = InsertAtEnd(contract.Floors, floor)
			return fmt.Sprintf("added floor %q to contract %q", name, contract.Name), nil
		})
}

// AddRoom appends a room to a floor.
func (s *Service) AddRoom(ctx context.Context, actor auth.Actor, p Path, name string) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "add-room", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			floor, err := ix.floor(p)
			if err != nil {
				return "", err
			}
			room := &Room{ID: NewID(), Name: name, WorkItems: []*WorkItem{}}
			floor.Rooms = InsertAtEnd(floor.Rooms, room)
			return fmt.Sprintf("added room %q to floor %q", name, floor.Name), nil
		})
}

// AddWorkItem appends a work-item to a room.
func (s *Service) AddWorkItem(ctx context.Context, actor auth.Actor, p Path, in AddWorkItemInput) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "add-work-item", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			room, err := ix.room(p)
			if err != nil {
				return "", err
			}
			item := &WorkItem{
				ID:        NewID(),
				Name:      in.Name,
				GroupID:   in.GroupID,
				Volume:    ParseVolume(in.Volume),
				Unit:      in.Unit,
				UnitPower: in.UnitPower,
				Materials: []*Material{},
				Comments:  []*Comment{},
			}
			room.WorkItems = InsertAtEnd(room.WorkItems, item)
			return fmt.Sprintf("added work-item %q to room %q", in.Name, room.Name), nil
		})
}

// AddMaterial appends a material to a work-item, with its derived total.
func (s *Service) AddMaterial(ctx context.Context, actor auth.Actor, p Path, in AddMaterialInput) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "add-material", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			item, err := ix.workItem(p)
			if err != nil {
				return "", err
			}
			coefficient := ParseCoefficient(in.Coefficient)
			item.Materials = append(item.Materials, &Material{
				ID:          NewID(),
				Name:        in.Name,
				Unit:        in.Unit,
				Coefficient: coefficient,
				Total:       item.Volume * coefficient,
			})
			return fmt.Sprintf("added material %q to work-item %q", in.Name, item.Name), nil
		})
}

// EditWorkItem applies a partial update; a volume change recomputes every
// material total.
func (s *Service) EditWorkItem(ctx context.Context, actor auth.Actor, p Path, in EditWorkItemInput) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "edit-work-item", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			item, err := ix.workItem(p)
			if err != nil {
				return "", err
			}
			if in.Name != nil {
				item.Name = *in.Name
			}
			if in.GroupID != nil {
				item.GroupID = *in.GroupID
			}
			if in.Unit != nil {
				item.Unit = *in.Unit
			}
			if in.UnitPower != nil {
				item.UnitPower = *in.UnitPower
			}
			if in.Volume != nil {
				item.Volume = ParseVolume(in.Volume)
				item.RecalcTotals()
			}
			return fmt.Sprintf("edited work-item %q", item.Name), nil
		})
}

// ToggleField flips a completion flag to the negation of the value the
// client observed, not of the server's current value. Callers pass what
// they saw; concurrent toggles can therefore diverge from true state.
// Preserved as documented behavior.
func (s *Service) ToggleField(ctx context.Context, actor auth.Actor, p Path, field string, observed bool) error {
	var category auth.Category
	switch field {
	case FieldWorkDone:
		category = auth.CategoryMarkWorkDone
	case FieldDocDone:
		category = auth.CategoryMarkDocDone
	default:
		s.logger.Debug("toggle for unknown field dropped", "field", field)
		return nil
	}
	return s.mutate(ctx, actor, category, "toggle-work-item-field", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			item, err := ix.workItem(p)
			if err != nil {
				return "", err
			}
			switch field {
			case FieldWorkDone:
				item.WorkDone = !observed
			case FieldDocDone:
				item.DocDone = !observed
			}
			return fmt.Sprintf("set %s=%t on work-item %q", field, !observed, item.Name), nil
		})
}

// UpdateDates sets the work-item schedule range; nil clears a bound.
func (s *Service) UpdateDates(ctx context.Context, actor auth.Actor, p Path, start, end *string) error {
	return s.mutate(ctx, actor, auth.CategoryEditDates, "update-work-item-dates", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			item, err := ix.workItem(p)
			if err != nil {
				return "", err
			}
			item.StartDate = start
			item.EndDate = end
			return fmt.Sprintf("updated dates on work-item %q", item.Name), nil
		})
}

// AddComment appends a comment to a work-item's thread. Any authenticated
// role may comment. Attachments travel inline with the payload.
func (s *Service) AddComment(ctx context.Context, actor auth.Actor, p Path, text string, attachments []Attachment) error {
	return s.mutate(ctx, actor, auth.CategoryComment, "add-comment", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			item, err := ix.workItem(p)
			if err != nil {
				return "", err
			}
			item.Comments = append(item.Comments, &Comment{
				ID:          NewID(),
				Text:        text,
				Author:      actor.Name,
				Role:        actor.Role,
				CreatedAt:   time.Now(),
				Attachments: attachments,
			})
			return fmt.Sprintf("commented on work-item %q", item.Name), nil
		})
}

// Rename changes the name of the node the path addresses.
func (s *Service) Rename(ctx context.Context, actor auth.Actor, kind Kind, p Path, newName string) error {
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "rename-item", p.SiteID,
		func(ag *Site, ix *index) (string, error) {
			var old string
			switch kind {
			case KindSite:
				old, ag.Name = ag.Name, newName
			case KindContract:
				c, err := ix.contract(p)
				if err != nil {
					return "", err
				}
				old, c.Name = c.Name, newName
			case KindFloor:
				f, err := ix.floor(p)
				if err != nil {
					return "", err
				}
				old, f.Name = f.Name, newName
			case KindRoom:
				r, err := ix.room(p)
				if err != nil {
					return "", err
				}
				old, r.Name = r.Name, newName
			case KindWorkItem:
				w, err := ix.workItem(p)
				if err != nil {
					return "", err
				}
				old, w.Name = w.Name, newName
			case KindMaterial:
				_, m, err := ix.material(p)
				if err != nil {
					return "", err
				}
				old, m.Name = m.Name, newName
			default:
				return "", ErrUnknownKind
			}
			return fmt.Sprintf("renamed %s %q to %q", kind, old, newName), nil
		})
}

// Delete removes the addressed node together with its entire owned
// subtree; siblings are reindexed to stay dense.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, kind Kind, p Path) error {
	if kind == KindSite {
		if !s.allowed(actor, auth.CategoryStructureEdit, "delete-item") {
			return nil
		}
		if err := s.sites.Delete(ctx, p.SiteID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Debug("delete for unknown site dropped", "site", p.SiteID)
				return nil
			}
			return fmt.Errorf("deleting site: %w", err)
		}
		if err := s.reindexSites(ctx); err != nil {
			return err
		}
		s.finish(ctx, actor, "delete-item", fmt.Sprintf("deleted site %s", p.SiteID))
		return nil
	}
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "delete-item", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			switch kind {
			case KindContract:
				if _, err := ix.contract(p); err != nil {
					return "", err
				}
				ix.site.Contracts = RemoveByID(ix.site.Contracts, p.ContractID)
			case KindFloor:
				c, err := ix.contract(p)
				if err != nil {
					return "", err
				}
				if _, err := ix.floor(p); err != nil {
					return "", err
				}
				c.Floors = RemoveByID(c.Floors, p.FloorID)
			case KindRoom:
				f, err := ix.floor(p)
				if err != nil {
					return "", err
				}
				if _, err := ix.room(p); err != nil {
					return "", err
				}
				f.Rooms = RemoveByID(f.Rooms, p.RoomID)
			case KindWorkItem:
				r, err := ix.room(p)
				if err != nil {
					return "", err
				}
				if _, err := ix.workItem(p); err != nil {
					return "", err
				}
				r.WorkItems = RemoveByID(r.WorkItems, p.WorkItemID)
			case KindMaterial:
				w, _, err := ix.material(p)
				if err != nil {
					return "", err
				}
				kept := w.Materials[:0]
				for _, m := range w.Materials {
					if m.ID != p.MaterialID {
						kept = append(kept, m)
					}
				}
				w.Materials = kept
			default:
				return "", ErrUnknownKind
			}
			return fmt.Sprintf("deleted %s %s", kind, deepestID(kind, p)), nil
		})
}

// Copy clones a floor or room subtree and appends the clone as the last
// sibling of its destination collection. Every node in the clone receives
// a fresh identity and all progress state is reset.
func (s *Service) Copy(ctx context.Context, actor auth.Actor, kind Kind, p Path) error {
	if kind != KindFloor && kind != KindRoom {
		s.logger.Debug("copy for unsupported kind dropped", "kind", kind)
		return nil
	}
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "copy-item", p.SiteID,
		func(_ *Site, ix *index) (string, error) {
			switch kind {
			case KindFloor:
				src, err := ix.floor(p)
				if err != nil {
					return "", err
				}
				contract, err := ix.contract(p)
				if err != nil {
					return "", err
				}
				contract.Floors = InsertAtEnd(contract.Floors, CloneFloor(src))
				return fmt.Sprintf("copied floor %q", src.Name), nil
			default:
				src, err := ix.room(p)
				if err != nil {
					return "", err
				}
				floor, err := ix.floor(p)
				if err != nil {
					return "", err
				}
				floor.Rooms = InsertAtEnd(floor.Rooms, CloneRoom(src))
				return fmt.Sprintf("copied room %q", src.Name), nil
			}
		})
}

// Reorder moves a sibling from src to dst within its sequence and
// reindexes the whole sequence.
func (s *Service) Reorder(ctx context.Context, actor auth.Actor, kind Kind, p Path, src, dst int) error {
	if kind == KindSite {
		if !s.allowed(actor, auth.CategoryStructureEdit, "reorder-item") {
			return nil
		}
		sites, err := s.sites.List(ctx)
		if err != nil {
			return fmt.Errorf("listing sites: %w", err)
		}
		sites = Reorder(sites, src, dst)
		for _, ag := range sites {
			if err := s.sites.Save(ctx, ag); err != nil {
				return fmt.Errorf("saving site order: %w", err)
			}
		}
		s.finish(ctx, actor, "reorder-item", fmt.Sprintf("reordered sites %d -> %d", src, dst))
		return nil
	}
	return s.mutate(ctx, actor, auth.CategoryStructureEdit, "reorder-item", p.SiteID,
		func(ag *Site, ix *index) (string, error) {
			switch kind {
			case KindContract:
				ag.Contracts = Reorder(ag.Contracts, src, dst)
			case KindFloor:
				c, err := ix.contract(p)
				if err != nil {
					return "", err
				}
				c.Floors = Reorder(c.Floors, src, dst)
			case KindRoom:
				f, err := ix.floor(p)
				if err != nil {
					return "", err
				}
				f.Rooms = Reorder(f.Rooms, src, dst)
			case KindWorkItem:
				r, err := ix.room(p)
				if err != nil {
					return "", err
				}
				r.WorkItems = Reorder(r.WorkItems, src, dst)
			default:
				return "", ErrUnknownKind
			}
			return fmt.Sprintf("reordered %ss %d -> %d", kind, src, dst), nil
		})
}

// List returns all site aggregates in position order, for init-data.
func (s *Service) List(ctx context.Context) ([]*Site, error) {
	return s.sites.List(ctx)
}

// mutate runs one request through the pipeline. apply edits the loaded
// aggregate in place and returns the audit detail; ErrPathNotFound and
// ErrUnknownKind from apply drop the mutation silently.
func (s *Service) mutate(
	ctx context.Context,
	actor auth.Actor,
	category auth.Category,
	operation, siteID string,
	apply func(*Site, *index) (string, error),
) error {
	if !s.allowed(actor, category, operation) {
		return nil
	}

	aggregate, err := s.sites.Get(ctx, siteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("mutation for unknown site dropped", "op", operation, "site", siteID)
			return nil
		}
		return fmt.Errorf("loading site: %w", err)
	}

	detail, err := apply(aggregate, newIndex(aggregate))
	if err != nil {
		if errors.Is(err, ErrPathNotFound) || errors.Is(err, ErrUnknownKind) {
			s.logger.Debug("mutation target not resolved", "op", operation, "error", err)
			return nil
		}
		return err
	}

	if err := s.sites.Save(ctx, aggregate); err != nil {
		return fmt.Errorf("saving site: %w", err)
	}

	s.finish(ctx, actor, operation, detail)
	return nil
}

func (s *Service) allowed(actor auth.Actor, category auth.Category, operation string) bool {
	if auth.Allowed(actor.Role, category) {
		return true
	}
	s.logger.Debug("mutation denied", "op", operation, "actor", actor.Name, "role", actor.Role)
	return false
}

// finish records the audit entry and republishes the full collection to
// every session. Runs only after a successful persist.
func (s *Service) finish(ctx context.Context, actor auth.Actor, operation, detail string) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, operation, detail)
	}
	s.publish(ctx)
}

func (s *Service) publish(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	sites, err := s.sites.List(ctx)
	if err != nil {
		s.logger.Error("reloading sites for broadcast", "error", err)
		return
	}
	s.broadcaster.PublishSites(ctx, sites)
}

// reindexSites restores dense site positions after a root-level delete.
func (s *Service) reindexSites(ctx context.Context) error {
	sites, err := s.sites.List(ctx)
	if err != nil {
		return fmt.Errorf("listing sites: %w", err)
	}
	Reindex(sites)
	for _, ag := range sites {
		if err := s.sites.Save(ctx, ag); err != nil {
			return fmt.Errorf("saving site order: %w", err)
		}
	}
	return nil
}

func deepestID(kind Kind, p Path) string {
	switch kind {
	case KindContract:
		return p.ContractID
	case KindFloor:
		return p.FloorID
	case KindRoom:
		return p.RoomID
	case KindWorkItem:
		return p.WorkItemID
	case KindMaterial:
		return p.MaterialID
	default:
		return p.SiteID
	}
}
