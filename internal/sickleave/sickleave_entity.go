package sickleave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive      = "ACTIVE"
	StatusFinished    = "FINISHED"
	StatusTranscribed = "TRANSCRIBED"
	StatusCollected   = "COLLECTED"
	StatusCancelled   = "CANCELLED"
)

// IsTerminalStatus reports whether the record can change no further.
// Collected closes the insurer workflow; Cancelled voids it.
func IsTerminalStatus(s string) bool {
	return s == StatusCollected || s == StatusCancelled
}

type SickLeave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	// Type is the medical classification (e.g. COMMON_ILLNESS,
	// WORK_ACCIDENT), free-form reference data from the insurer.
	Type string `gorm:"type:varchar(60);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	TotalDays int       `gorm:"not null;default:1"`

	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`

	// SourceLeaveID back-references the leave this record was converted
	// from, when it did not start as a direct registration.
	SourceLeaveID *uuid.UUID `gorm:"type:uuid"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SickLeave) TableName() string { return "sick_leaves" }
