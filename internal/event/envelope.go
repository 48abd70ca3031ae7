package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors
var (
	ErrMissingType = errors.New("frame has no event type")
)

// Known event types. The server may send types outside this set; they still
// decode and dispatch, they just never produce notifications.
const (
	TypeAuth                  = "auth"
	TypeRoomStatusChanged     = "room-status-changed"
	TypeTaskAssigned          = "task-assigned"
	TypeTaskCompleted         = "task-completed"
	TypeInspectionCompleted   = "inspection-completed"
	TypePanicAlert            = "panic-alert"
	TypeRoomAssignmentCreated = "room-assignment-created"
	TypeRoomAssignmentDeleted = "room-assignment-deleted"
)

// KnownTypes lists every inbound event type the dashboard understands.
var KnownTypes = []string{
	TypeRoomStatusChanged,
	TypeTaskAssigned,
	TypeTaskCompleted,
	TypeInspectionCompleted,
	TypePanicAlert,
	TypeRoomAssignmentCreated,
	TypeRoomAssignmentDeleted,
}

// Envelope is one decoded inbound occurrence. Immutable once decoded.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`        // ISO-8601
	UserID    string          `json:"userId,omitempty"` // target user, when directed
}

// AuthFrame is sent exactly once per connection, immediately after open.
type AuthFrame struct {
	Type   string `json:"type"` // always TypeAuth
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Decode parses a raw text frame into an Envelope. A frame without a type
// tag is rejected; an unrecognized type value is not an error.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, ErrMissingType
	}
	return env, nil
}
