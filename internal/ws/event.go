package ws

import "encoding/json"

// Envelope frames every message on the channel: one event name per
// operation, JSON payload.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event names.
const (
	EvtLogin               = "login"
	EvtCreateSite          = "create-site"
	EvtCreateContract      = "create-contract"
	EvtAddFloor            = "add-floor"
	EvtAddRoom             = "add-room"
	EvtAddWorkItem         = "add-work-item"
	EvtAddMaterial         = "add-material"
	EvtEditWorkItem        = "edit-work-item"
	EvtToggleWorkItemField = "toggle-work-item-field"
	EvtUpdateWorkItemDates = "update-work-item-dates"
	EvtAddComment          = "add-comment"
	EvtRenameItem          = "rename-item"
	EvtDeleteItem          = "delete-item"
	EvtCopyItem            = "copy-item"
	EvtReorderItem         = "reorder-item"
	EvtCreateGroup         = "create-group"
	EvtDeleteGroup         = "delete-group"
	EvtCreateUser          = "create-user"
	EvtDeleteUser          = "delete-user"
	EvtGetUsers            = "get-users"
	EvtGetLogs             = "get-logs"
)

// Outbound event names.
const (
	EvtLoginSuccess   = "login-success"
	EvtLoginError     = "login-error"
	EvtOperationError = "operation-error"
	EvtInitData       = "init-data"
	EvtInitGroups     = "init-groups"
	EvtUsersData      = "users-data"
	EvtLogsData       = "logs-data"
	EvtNewLog         = "new-log"
)

func mustEnvelope(event string, payload any) []byte {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			// Payloads are our own serializable types; failure here is a
			// programming error surfaced as an empty payload.
			data = nil
		}
		raw = data
	}
	out, _ := json.Marshal(Envelope{Event: event, Payload: raw})
	return out
}
