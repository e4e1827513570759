package ws

import (
	"context"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
)

// Publisher adapts the hub to the domain-side broadcast interfaces. The
// pipeline hands it freshly reloaded state; clients replace their entire
// local tree on receipt, so there is no diffing here.
type Publisher struct {
	hub *Hub
}

// NewPublisher wraps a hub.
func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

// PublishSites implements site.Broadcaster.
func (p *Publisher) PublishSites(_ context.Context, sites []*site.Site) {
	p.hub.Broadcast(EvtInitData, sites)
}

// PublishGroups implements group.Broadcaster.
func (p *Publisher) PublishGroups(_ context.Context, groups []*group.WorkGroup) {
	p.hub.Broadcast(EvtInitGroups, groups)
}

// PublishLog implements audit.Notifier.
func (p *Publisher) PublishLog(_ context.Context, e *audit.Entry) {
	p.hub.Broadcast(EvtNewLog, e)
}
