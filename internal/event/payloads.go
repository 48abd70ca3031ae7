package event

// Payload shapes for the known event types. Fields the server may omit are
// pointers so that presence can be checked before notifying.

// Room identifies a room and its housekeeping status.
type Room struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Status string `json:"status"`
}

// Actor is the staff member who performed or receives an action.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task is a unit of assignable work.
type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Inspection is the outcome of a room inspection.
type Inspection struct {
	ID         string `json:"id"`
	RoomNumber string `json:"roomNumber"`
	Passed     bool   `json:"passed"`
}

// RoomStatusPayload is the data of a room-status-changed event.
type RoomStatusPayload struct {
	Room      *Room  `json:"room"`
	UpdatedBy *Actor `json:"updatedBy"`
}

// TaskAssignedPayload is the data of a task-assigned event.
type TaskAssignedPayload struct {
	Task       *Task  `json:"task"`
	AssignedBy *Actor `json:"assignedBy"`
}

// TaskCompletedPayload is the data of a task-completed event.
type TaskCompletedPayload struct {
	Task        *Task  `json:"task"`
	CompletedBy *Actor `json:"completedBy"`
}

// InspectionPayload is the data of an inspection-completed event.
type InspectionPayload struct {
	Inspection *Inspection `json:"inspection"`
	Inspector  *Actor      `json:"inspector"`
}

// PanicAlertPayload is the data of a panic-alert event.
type PanicAlertPayload struct {
	TriggeredBy *Actor `json:"triggeredBy"`
	Location    string `json:"location"`
}

// RoomAssignmentPayload is the data of room-assignment-created and
// room-assignment-deleted events.
type RoomAssignmentPayload struct {
	Assignee *Actor `json:"assignee"`
	Room     *Room  `json:"room"`
}
