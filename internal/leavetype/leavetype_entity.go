package leavetype

import (
	"time"

	"go-foresthr/internal/transition"

	"github.com/google/uuid"
)

// Resolution types for a leave's pay outcome.
const (
	ResolutionPendingDefinition = "PENDING_DEFINITION"
	ResolutionPaid              = "PAID"
	ResolutionDeducted          = "DEDUCTED"
	ResolutionCompensated       = "COMPENSATED"
)

func ValidResolution(r string) bool {
	switch r {
	case ResolutionPaid, ResolutionDeducted, ResolutionCompensated:
		return true
	}
	return false
}

// LeaveType is immutable reference data describing how a kind of absence
// is approved and settled.
type LeaveType struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code string    `gorm:"type:varchar(40);not null;uniqueIndex"`
	Name string    `gorm:"type:varchar(120);not null"`

	DefaultResolutionType    string `gorm:"type:varchar(30);not null;default:'PAID'"`
	RequiresDocument         bool   `gorm:"not null;default:false"`
	DocumentDeadlineDays     int    `gorm:"not null;default:0"`
	CompensationDeadlineDays int    `gorm:"not null;default:0"`
	HoursToCompensatePerDay  int    `gorm:"not null;default:8"`
	GeneratesDiscount        bool   `gorm:"not null;default:false"`
	DiscountPercentage       float64 `gorm:"not null;default:0"`

	// AbsenceStatus is the employee status an approved leave of this type
	// puts the employee into (ON_VACATION or ON_LEAVE).
	AbsenceStatus transition.EmployeeState `gorm:"type:varchar(20);not null;default:'ON_LEAVE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string { return "leave_types" }
