// Package notify decides whether an inbound event warrants a user-facing
// notification and what it should say. The decision is pure: it never
// touches the connection, the registry, or any other state.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/identity"
)

// Severity classifies a notification for the presentation layer.
type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

// Descriptor is a policy-computed recommendation for a user-facing alert.
// Derived per envelope, never stored.
type Descriptor struct {
	Title    string
	Body     string
	Severity Severity
}

// Presenter consumes descriptors for display. The core has no dependency on
// how, or whether, they are rendered.
type Presenter interface {
	Present(Descriptor)
}

// Decide maps an envelope and the local session identity to an optional
// notification descriptor. Unknown event types and known types with
// unexpected payload shapes produce no descriptor.
func Decide(env event.Envelope, id identity.Identity) (Descriptor, bool) {
	switch env.Type {
	case event.TypeRoomStatusChanged:
		var p event.RoomStatusPayload
		if !unmarshal(env.Data, &p) || p.Room == nil || p.UpdatedBy == nil {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "Room status updated",
			Body:     fmt.Sprintf("Room %s is now %s", p.Room.Number, p.Room.Status),
			Severity: SeverityInfo,
		}, true

	case event.TypeTaskAssigned:
		// Assignment events carry the assignee in the envelope; only the
		// session the task is directed at gets notified.
		if env.UserID == "" || env.UserID != id.ID {
			return Descriptor{}, false
		}
		var p event.TaskAssignedPayload
		if !unmarshal(env.Data, &p) || p.Task == nil {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "New task assigned",
			Body:     p.Task.Title,
			Severity: SeverityInfo,
		}, true

	case event.TypeTaskCompleted:
		var p event.TaskCompletedPayload
		if !unmarshal(env.Data, &p) || p.Task == nil || p.CompletedBy == nil {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "Task completed",
			Body:     fmt.Sprintf("%s completed %q", p.CompletedBy.Name, p.Task.Title),
			Severity: SeverityInfo,
		}, true

	case event.TypeInspectionCompleted:
		var p event.InspectionPayload
		if !unmarshal(env.Data, &p) || p.Inspection == nil || p.Inspector == nil {
			return Descriptor{}, false
		}
		severity := SeverityInfo
		title := "Inspection passed"
		if !p.Inspection.Passed {
			severity = SeverityDestructive
			title = "Inspection failed"
		}
		return Descriptor{
			Title:    title,
			Body:     fmt.Sprintf("Room %s inspected by %s", p.Inspection.RoomNumber, p.Inspector.Name),
			Severity: severity,
		}, true

	case event.TypePanicAlert:
		var p event.PanicAlertPayload
		if !unmarshal(env.Data, &p) || p.TriggeredBy == nil || p.Location == "" {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "Panic alert",
			Body:     fmt.Sprintf("%s triggered a panic alert at %s", p.TriggeredBy.Name, p.Location),
			Severity: SeverityDestructive,
		}, true

	case event.TypeRoomAssignmentCreated:
		p, ok := roomAssignment(env.Data)
		if !ok {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "Room assignment added",
			Body:     fmt.Sprintf("%s assigned to room %s", p.Assignee.Name, p.Room.Number),
			Severity: SeverityInfo,
		}, true

	case event.TypeRoomAssignmentDeleted:
		p, ok := roomAssignment(env.Data)
		if !ok {
			return Descriptor{}, false
		}
		return Descriptor{
			Title:    "Room assignment removed",
			Body:     fmt.Sprintf("%s unassigned from room %s", p.Assignee.Name, p.Room.Number),
			Severity: SeverityInfo,
		}, true

	default:
		// Forward-compatible: event kinds the policy does not recognize are
		// silently ignored.
		return Descriptor{}, false
	}
}

func roomAssignment(data json.RawMessage) (event.RoomAssignmentPayload, bool) {
	var p event.RoomAssignmentPayload
	if !unmarshal(data, &p) || p.Assignee == nil || p.Room == nil {
		return event.RoomAssignmentPayload{}, false
	}
	return p, true
}

func unmarshal(data json.RawMessage, v any) bool {
	if len(data) == 0 {
		return false
	}
	return json.Unmarshal(data, v) == nil
}
