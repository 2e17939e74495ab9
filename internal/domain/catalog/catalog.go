package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering from the clinic/retail catalog. Its
// duration is the source of truth for slot length when a booking request
// does not supply one explicitly. Pricing lives elsewhere.
type Service struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Name         string `gorm:"column:name;type:varchar(150);not null"`
	Description  string `gorm:"column:description;type:text"`
	DurationMins int    `gorm:"column:duration_mins;not null;default:20"`
	Active       bool   `gorm:"column:active;default:true;index"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMins) * time.Minute
}
