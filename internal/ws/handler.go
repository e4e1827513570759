package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/account"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/audit"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/group"
	"github.com/xSp1der42/disk-site-sub000/internal/domain/site"
)

// Handler dispatches inbound events to the domain services. Structural
// and status mutations reply with nothing: success is observed through
// the broadcast, denial and unresolved paths through silence. Only login
// and account administration produce explicit error events.
type Handler struct {
	sites              *site.Service
	groups             *group.Service
	accounts           *account.Service
	audit              *audit.Service
	maxAttachmentBytes int64
	logger             *slog.Logger
}

// NewHandler creates an event handler. maxAttachmentBytes is the
// per-attachment ceiling advertised to clients on login; enforcement is
// client-side, the transport message limit is the server-side bound.
func NewHandler(
	sites *site.Service,
	groups *group.Service,
	accounts *account.Service,
	auditSvc *audit.Service,
	maxAttachmentBytes int64,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		sites:              sites,
		groups:             groups,
		accounts:           accounts,
		audit:              auditSvc,
		maxAttachmentBytes: maxAttachmentBytes,
		logger:             logger,
	}
}

type pathPayload struct {
	auth.Actor
	SiteID     string `json:"siteId"`
	ContractID string `json:"contractId"`
	FloorID    string `json:"floorId"`
	RoomID     string `json:"roomId"`
	WorkItemID string `json:"workItemId"`
	MaterialID string `json:"materialId"`
}

func (p pathPayload) path() site.Path {
	return site.Path{
		SiteID:     p.SiteID,
		ContractID: p.ContractID,
		FloorID:    p.FloorID,
		RoomID:     p.RoomID,
		WorkItemID: p.WorkItemID,
		MaterialID: p.MaterialID,
	}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type namePayload struct {
	pathPayload
	Name string `json:"name"`
}

type addWorkItemPayload struct {
	pathPayload
	Name      string `json:"name"`
	GroupID   string `json:"groupId"`
	Volume    any    `json:"volume"`
	Unit      string `json:"unit"`
	UnitPower string `json:"unitPower"`
}

type addMaterialPayload struct {
	pathPayload
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Coefficient any    `json:"coefficient"`
}

type editWorkItemPayload struct {
	pathPayload
	Name      *string `json:"name"`
	GroupID   *string `json:"groupId"`
	Volume    any     `json:"volume"`
	Unit      *string `json:"unit"`
	UnitPower *string `json:"unitPower"`
}

type togglePayload struct {
	pathPayload
	Field string `json:"field"`
	// Value is the flag state the client observed; the server stores its
	// negation.
	Value bool `json:"value"`
}

type datesPayload struct {
	pathPayload
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type commentPayload struct {
	pathPayload
	Text        string            `json:"text"`
	Attachments []site.Attachment `json:"attachments"`
}

type itemPayload struct {
	pathPayload
	Type    string `json:"type"`
	NewName string `json:"newName"`
	Source  int    `json:"sourceIndex"`
	Dest    int    `json:"destinationIndex"`
}

type groupPayload struct {
	auth.Actor
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

type userPayload struct {
	auth.Actor
	Username string    `json:"username"`
	Password string    `json:"password"`
	UserRole auth.Role `json:"userRole"`
}

type logsPayload struct {
	auth.Actor
	Page   int    `json:"page"`
	Search string `json:"search"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// loginReply extends the profile with the attachment ceiling the client
// is expected to enforce before inlining files into comments.
type loginReply struct {
	account.Profile
	MaxAttachmentBytes int64 `json:"maxAttachmentBytes"`
}

// Dispatch decodes one inbound frame and routes it. Malformed frames are
// dropped with a debug log; structural failures stay server-side.
func (h *Handler) Dispatch(ctx context.Context, c *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Debug("malformed frame dropped", "error", err)
		return
	}

	var err error
	switch env.Event {
	case EvtLogin:
		h.handleLogin(ctx, c, env.Payload)
	case EvtCreateSite:
		var p namePayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.CreateSite(ctx, p.Actor, p.Name)
		}
	case EvtCreateContract:
		var p namePayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.CreateContract(ctx, p.Actor, p.SiteID, p.Name)
		}
	case EvtAddFloor:
		var p namePayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.AddFloor(ctx, p.Actor, p.path(), p.Name)
		}
	case EvtAddRoom:
		var p namePayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.AddRoom(ctx, p.Actor, p.path(), p.Name)
		}
	case EvtAddWorkItem:
		var p addWorkItemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.AddWorkItem(ctx, p.Actor, p.path(), site.AddWorkItemInput{
				Name:      p.Name,
				GroupID:   p.GroupID,
				Volume:    p.Volume,
				Unit:      p.Unit,
				UnitPower: p.UnitPower,
			})
		}
	case EvtAddMaterial:
		var p addMaterialPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.AddMaterial(ctx, p.Actor, p.path(), site.AddMaterialInput{
				Name:        p.Name,
				Unit:        p.Unit,
				Coefficient: p.Coefficient,
			})
		}
	case EvtEditWorkItem:
		var p editWorkItemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.EditWorkItem(ctx, p.Actor, p.path(), site.EditWorkItemInput{
				Name:      p.Name,
				GroupID:   p.GroupID,
				Volume:    p.Volume,
				Unit:      p.Unit,
				UnitPower: p.UnitPower,
			})
		}
	case EvtToggleWorkItemField:
		var p togglePayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.ToggleField(ctx, p.Actor, p.path(), p.Field, p.Value)
		}
	case EvtUpdateWorkItemDates:
		var p datesPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.UpdateDates(ctx, p.Actor, p.path(), p.Start, p.End)
		}
	case EvtAddComment:
		var p commentPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.AddComment(ctx, p.Actor, p.path(), p.Text, p.Attachments)
		}
	case EvtRenameItem:
		var p itemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.Rename(ctx, p.Actor, site.Kind(p.Type), p.path(), p.NewName)
		}
	case EvtDeleteItem:
		var p itemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.Delete(ctx, p.Actor, site.Kind(p.Type), p.path())
		}
	case EvtCopyItem:
		var p itemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.Copy(ctx, p.Actor, site.Kind(p.Type), p.path())
		}
	case EvtReorderItem:
		var p itemPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.sites.Reorder(ctx, p.Actor, site.Kind(p.Type), p.path(), p.Source, p.Dest)
		}
	case EvtCreateGroup:
		var p groupPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.groups.Create(ctx, p.Actor, p.Name)
		}
	case EvtDeleteGroup:
		var p groupPayload
		if err = decode(env.Payload, &p); err == nil {
			err = h.groups.Delete(ctx, p.Actor, p.GroupID)
		}
	case EvtCreateUser:
		h.handleCreateUser(ctx, c, env.Payload)
	case EvtDeleteUser:
		h.handleDeleteUser(ctx, c, env.Payload)
	case EvtGetUsers:
		h.handleGetUsers(ctx, c, env.Payload)
	case EvtGetLogs:
		h.handleGetLogs(ctx, c, env.Payload)
	default:
		h.logger.Debug("unknown event dropped", "event", env.Event)
	}

	// Structural failures are logged server-side only; no retry, no
	// guaranteed client notification.
	if err != nil {
		h.logger.Error("event handling failed", "event", env.Event, "error", err)
	}
}

func (h *Handler) handleLogin(ctx context.Context, c *Client, payload json.RawMessage) {
	var p loginPayload
	if err := decode(payload, &p); err != nil {
		c.Send(EvtLoginError, errorPayload{Message: "malformed login request"})
		return
	}
	profile, err := h.accounts.Login(ctx, p.Username, p.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			c.Send(EvtLoginError, errorPayload{Message: err.Error()})
			return
		}
		h.logger.Error("login failed", "error", err)
		c.Send(EvtLoginError, errorPayload{Message: "internal error"})
		return
	}
	c.Send(EvtLoginSuccess, loginReply{Profile: *profile, MaxAttachmentBytes: h.maxAttachmentBytes})
	h.sendInitialData(ctx, c)
}

// sendInitialData delivers the current full dataset to one session.
func (h *Handler) sendInitialData(ctx context.Context, c *Client) {
	sites, err := h.sites.List(ctx)
	if err != nil {
		h.logger.Error("loading sites for init", "error", err)
	} else {
		c.Send(EvtInitData, sites)
	}
	groups, err := h.groups.List(ctx)
	if err != nil {
		h.logger.Error("loading groups for init", "error", err)
	} else {
		c.Send(EvtInitGroups, groups)
	}
}

func (h *Handler) handleCreateUser(ctx context.Context, c *Client, payload json.RawMessage) {
	var p userPayload
	if err := decode(payload, &p); err != nil {
		c.Send(EvtOperationError, errorPayload{Message: "malformed request"})
		return
	}
	if _, err := h.accounts.CreateUser(ctx, p.Actor, p.Username, p.Password, p.UserRole); err != nil {
		// Account administration denial is explicit, unlike structural
		// mutations.
		c.Send(EvtOperationError, errorPayload{Message: err.Error()})
		return
	}
	h.replyUsers(ctx, c, p.Actor)
}

func (h *Handler) handleDeleteUser(ctx context.Context, c *Client, payload json.RawMessage) {
	var p userPayload
	if err := decode(payload, &p); err != nil {
		c.Send(EvtOperationError, errorPayload{Message: "malformed request"})
		return
	}
	if err := h.accounts.DeleteUser(ctx, p.Actor, p.Username); err != nil {
		c.Send(EvtOperationError, errorPayload{Message: err.Error()})
		return
	}
	h.replyUsers(ctx, c, p.Actor)
}

func (h *Handler) handleGetUsers(ctx context.Context, c *Client, payload json.RawMessage) {
	var p userPayload
	if err := decode(payload, &p); err != nil {
		c.Send(EvtOperationError, errorPayload{Message: "malformed request"})
		return
	}
	h.replyUsers(ctx, c, p.Actor)
}

func (h *Handler) replyUsers(ctx context.Context, c *Client, actor auth.Actor) {
	profiles, err := h.accounts.ListUsers(ctx, actor)
	if err != nil {
		c.Send(EvtOperationError, errorPayload{Message: err.Error()})
		return
	}
	c.Send(EvtUsersData, profiles)
}

type logsData struct {
	Records []*audit.Entry `json:"records"`
	Total   int            `json:"total"`
}

func (h *Handler) handleGetLogs(ctx context.Context, c *Client, payload json.RawMessage) {
	var p logsPayload
	if err := decode(payload, &p); err != nil {
		h.logger.Debug("malformed get-logs dropped", "error", err)
		return
	}
	records, total, err := h.audit.Query(ctx, p.Page, p.Search)
	if err != nil {
		h.logger.Error("querying logs", "error", err)
		return
	}
	c.Send(EvtLogsData, logsData{Records: records, Total: total})
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(payload, v)
}
