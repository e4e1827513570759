package group

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/xSp1der42/disk-site-sub000/internal/repository"
)

// Repository manages the flat work-group list.
type Repository interface {
	Create(ctx context.Context, g *WorkGroup) error
	Update(ctx context.Context, g *WorkGroup) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*WorkGroup, error)
}

// Broadcaster delivers the full group list to every connected session.
type Broadcaster interface {
	PublishGroups(ctx context.Context, groups []*WorkGroup)
}

// Auditor records successful group mutations.
type Auditor interface {
	Record(ctx context.Context, actor auth.Actor, category, detail string)
}

// Service handles work-group edits. Group editing is admin-only; denial
// is silent like every other structural mutation.
type Service struct {
	groups      Repository
	audit       Auditor
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewService creates a work-group service.
func NewService(groups Repository, auditor Auditor, broadcaster Broadcaster, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{groups: groups, audit: auditor, broadcaster: broadcaster, logger: logger}
}

// Create appends a group to the reference list.
func (s *Service) Create(ctx context.Context, actor auth.Actor, name string) error {
	if !auth.Allowed(actor.Role, auth.CategoryGroupEdit) {
		s.logger.Debug("group create denied", "actor", actor.Name, "role", actor.Role)
		return nil
	}
	existing, err := s.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("listing groups: %w", err)
	}
	created := &WorkGroup{ID: site.NewID(), Name: name, Position: len(existing)}
	if err := s.groups.Create(ctx, created); err != nil {
		return fmt.Errorf("creating group: %w", err)
	}
	s.finish(ctx, actor, "create-group", fmt.Sprintf("created group %q", name))
	return nil
}

// Delete removes a group and reindexes the remaining positions. Missing
// ids drop silently.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !auth.Allowed(actor.Role, auth.CategoryGroupEdit) {
		s.logger.Debug("group delete denied", "actor", actor.Name, "role", actor.Role)
		return nil
	}
	if err := s.groups.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("delete for unknown group dropped", "group", id)
			return nil
		}
		return fmt.Errorf("deleting group: %w", err)
	}
	remaining, err := s.groups.List(ctx)
	if err != nil {
		return fmt.Errorf("listing groups: %w", err)
	}
	site.Reindex(remaining)
	for _, g := range remaining {
		if err := s.groups.Update(ctx, g); err != nil {
			return fmt.Errorf("saving group order: %w", err)
		}
	}
	s.finish(ctx, actor, "delete-group", fmt.Sprintf("deleted group %s", id))
	return nil
}

// List returns all groups in position order, for init-groups.
func (s *Service) List(ctx context.Context) ([]*WorkGroup, error) {
	return s.groups.List(ctx)
}

func (s *Service) finish(ctx context.Context, actor auth.Actor, operation, detail string) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, operation, detail)
	}
	if s.broadcaster == nil {
		return
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		s.logger.Error("reloading groups for broadcast", "error", err)
		return
	}
	s.broadcaster.PublishGroups(ctx, groups)
}
