package pet

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a pet record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeceased Status = "deceased"
)

type Pet struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	OwnerID uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`

	Name    string `gorm:"column:name;type:varchar(100);not null"`
	Species string `gorm:"column:species;type:varchar(50);not null"`
	Breed   string `gorm:"column:breed;type:varchar(100)"`
	Status  Status `gorm:"column:status;type:varchar(20);not null;default:'active';index"`

	BirthDate *time.Time `gorm:"column:birth_date"`
	Notes     string     `gorm:"column:notes;type:text"`
}

func (Pet) TableName() string {
	return "pets"
}

func (p *Pet) IsActive() bool {
	return p.Status == StatusActive && p.DeletedAt == nil
}
