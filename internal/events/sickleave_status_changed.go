package events

import "time"

const SickLeaveStatusTopic = "forestry.hr.sickleave.status.v1"

type SickLeaveStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	SickLeaveID    string    `json:"sick_leave_id"`
	EmployeeID     string    `json:"employee_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	SourceLeaveID  string    `json:"source_leave_id,omitempty"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	OccurredAt     time.Time `json:"occurred_at"`
}
