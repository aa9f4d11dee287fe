package employee

import (
	"time"

	"go-foresthr/internal/transition"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"type:varchar(160);not null"`
	Email    string    `gorm:"type:varchar(160);uniqueIndex"`
	Zone     string    `gorm:"type:varchar(80)"` // forestry work zone

	Status transition.EmployeeState `gorm:"type:varchar(20);not null;default:'PENDING_APPROVAL';index"`

	HireDate  time.Time `gorm:"type:date"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string { return "employees" }
