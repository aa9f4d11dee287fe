package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending                 = "PENDING"
	StatusApproved                = "APPROVED"
	StatusApprovedPendingDocument = "APPROVED_PENDING_DOCUMENT"
	StatusApprovedInCompensation  = "APPROVED_IN_COMPENSATION"
	StatusRejected                = "REJECTED"
	StatusCancelled               = "CANCELLED"
	StatusCompleted               = "COMPLETED"
)

// IsTerminalStatus reports whether no further operation may change the
// leave. Terminal leaves are immutable, including their resolution.
func IsTerminalStatus(s string) bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// OpenStatuses are the states counted for overlap checks and absence
// coverage.
var OpenStatuses = []string{
	StatusPending,
	StatusApproved,
	StatusApprovedPendingDocument,
	StatusApprovedInCompensation,
}

type Leave struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status         string `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	ResolutionType string `gorm:"type:varchar(30);not null;default:'PENDING_DEFINITION'"`

	DocumentDeadline    *time.Time
	DocumentDeliveredAt *time.Time
	DocumentRef         *string `gorm:"type:text"`

	CompensationHoursOwed      *int
	CompensationHoursCompleted int `gorm:"not null;default:0"`
	CompensationDeadline       *time.Time

	DiscountPercentage *float64
	// DiscountAmount is the pay deduction basis in days (totalDays scaled
	// by the type's percentage); payroll turns it into money.
	DiscountAmount *float64
	DiscountPeriod *string `gorm:"type:varchar(7)"` // YYYY-MM

	// Overdue flags a missed deadline detected by the sweeper. The record
	// stays open and needs a human decision; it is never auto-cancelled.
	Overdue bool `gorm:"not null;default:false"`

	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Leave) TableName() string { return "leaves" }
