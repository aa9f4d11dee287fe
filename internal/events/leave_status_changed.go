package events

import "time"

const LeaveStatusTopic = "forestry.hr.leave.status.v1"

type LeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveID        string    `json:"leave_id"`
	EmployeeID     string    `json:"employee_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ResolutionType string    `json:"resolution_type,omitempty"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	OccurredAt     time.Time `json:"occurred_at"`
}
