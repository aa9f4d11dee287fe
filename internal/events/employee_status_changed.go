package events

import "time"

const EmployeeStatusTopic = "forestry.hr.employee.status.v1"

type EmployeeStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	EmployeeID     string    `json:"employee_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
