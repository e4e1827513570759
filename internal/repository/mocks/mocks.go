// Package mocks provides testify mocks for the repository and broadcast
// interfaces consumed by the domain services.
package mocks

import (
	"context"
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/account"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
	"github.com/stretchr/testify/mock"
)

// SiteRepository mocks site.Repository.
type SiteRepository struct {
	mock.Mock
}

func (m *SiteRepository) Create(ctx context.Context, s *site.Site) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SiteRepository) Get(ctx context.Context, id string) (*site.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*site.Site), args.Error(1)
}

func (m *SiteRepository) Save(ctx context.Context, s *site.Site) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SiteRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SiteRepository) List(ctx context.Context) ([]*site.Site, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*site.Site), args.Error(1)
}

// GroupRepository mocks group.Repository.
type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) Create(ctx context.Context, g *group.WorkGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *GroupRepository) Update(ctx context.Context, g *group.WorkGroup) error {
	return m.Called(ctx, g).Error(0)
}

func (m *GroupRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *GroupRepository) List(ctx context.Context) ([]*group.WorkGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*group.WorkGroup), args.Error(1)
}

// AuditRepository mocks audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *AuditRepository) Query(ctx context.Context, offset, limit int, search string) ([]*audit.Entry, int, error) {
	args := m.Called(ctx, offset, limit, search)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*audit.Entry), args.Int(1), args.Error(2)
}

func (m *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// UserRepository mocks account.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *account.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*account.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.User), args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *UserRepository) List(ctx context.Context) ([]*account.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.User), args.Error(1)
}

// Broadcaster mocks site.Broadcaster and group.Broadcaster.
type Broadcaster struct {
	mock.Mock
}

func (m *Broadcaster) PublishSites(ctx context.Context, sites []*site.Site) {
	m.Called(ctx, sites)
}

func (m *Broadcaster) PublishGroups(ctx context.Context, groups []*group.WorkGroup) {
	m.Called(ctx, groups)
}

// Auditor mocks site.Auditor / group.Auditor.
type Auditor struct {
	mock.Mock
}

func (m *Auditor) Record(ctx context.Context, actor auth.Actor, category, detail string) {
	m.Called(ctx, actor, category, detail)
}
