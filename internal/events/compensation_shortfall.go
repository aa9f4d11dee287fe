package events

import "time"

const CompensationShortfallTopic = "forestry.hr.payroll.deduction.v1"

// CompensationShortfallEvent marks unworked makeup hours for payroll
// deduction. Monetary computation happens downstream.
type CompensationShortfallEvent struct {
	EventType      string    `json:"event_type"`
	LeaveID        string    `json:"leave_id"`
	EmployeeID     string    `json:"employee_id"`
	HoursOwed      int       `json:"hours_owed"`
	HoursCompleted int       `json:"hours_completed"`
	ShortfallHours int       `json:"shortfall_hours"`
	OccurredAt     time.Time `json:"occurred_at"`
}
