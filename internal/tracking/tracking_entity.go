package tracking

import (
	"time"

	"github.com/google/uuid"
)

const (
	ParentLeave     = "LEAVE"
	ParentSickLeave = "SICK_LEAVE"
)

// Leave actions.
const (
	ActionSubmitted              = "SUBMITTED"
	ActionApproved               = "APPROVED"
	ActionRejected               = "REJECTED"
	ActionCancelled              = "CANCELLED"
	ActionDocumentDelivered      = "DOCUMENT_DELIVERED"
	ActionCompensationRegistered = "COMPENSATION_REGISTERED"
	ActionResolutionChange       = "RESOLUTION_CHANGE"
	ActionDocumentExpired        = "DOCUMENT_EXPIRED"
	ActionCompensationExpired    = "COMPENSATION_EXPIRED"
)

// Sick-leave actions.
const (
	ActionRegistration       = "REGISTRATION"
	ActionTranscription      = "TRANSCRIPTION"
	ActionFiled              = "FILED"
	ActionCollection         = "COLLECTION"
	ActionExtension          = "EXTENSION"
	ActionCompletion         = "COMPLETION"
	ActionObservation        = "OBSERVATION"
	ActionDocumentAdded      = "DOCUMENT_ADDED"
	ActionConvertedFromLeave = "CONVERTED_FROM_LEAVE"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted, and they outlive soft-deletion of their parent record.
type Entry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ParentType    string    `gorm:"type:varchar(20);not null;index:idx_tracking_parent"`
	ParentID      uuid.UUID `gorm:"type:uuid;not null;index:idx_tracking_parent"`
	ActionType    string    `gorm:"type:varchar(40);not null"`
	ActorID       uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole     string    `gorm:"type:varchar(20);not null"`
	Timestamp     time.Time `gorm:"not null;index:idx_tracking_parent"`
	Note          string    `gorm:"type:text"`
	PreviousState string    `gorm:"type:varchar(40)"`
	NewState      string    `gorm:"type:varchar(40)"`
}

func (Entry) TableName() string { return "tracking_entries" }
