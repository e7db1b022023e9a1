package model

import (
	"time"

	"github.com/google/uuid"
)

// BusinessPreferences are business-wide feature toggles.
type BusinessPreferences struct {
	TrackServers         bool `gorm:"not null;default:false"`
	SendDaySummaryReport bool `gorm:"not null;default:false"`
}

type Business struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Email       *string
	IsActive    bool                `gorm:"not null;default:true"`
	Preferences BusinessPreferences `gorm:"embedded;embeddedPrefix:pref_"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Business) TableName() string { return "businesses" }
