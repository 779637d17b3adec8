package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserData is the single per-user document holding both date-keyed collections.
// The maps are stored as JSON columns and always written together.
type UserData struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	TodosByDate    TodosByDate    `json:"todosByDate" gorm:"serializer:json;not null"`
	MessagesByDate MessagesByDate `json:"messagesByDate" gorm:"serializer:json;not null"`
	CreatedAt      time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (d *UserData) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.normalize()
	return nil
}

func (d *UserData) AfterFind(*gorm.DB) error {
	d.normalize()
	return nil
}

// normalize replaces nil maps so the document always serializes as {} rather than null.
func (d *UserData) normalize() {
	if d.TodosByDate == nil {
		d.TodosByDate = TodosByDate{}
	}
	if d.MessagesByDate == nil {
		d.MessagesByDate = MessagesByDate{}
	}
}

// Snapshot returns both mappings as a detached copy.
func (d *UserData) Snapshot() Snapshot {
	d.normalize()
	return Snapshot{
		TodosByDate:    d.TodosByDate.Clone(),
		MessagesByDate: d.MessagesByDate.Clone(),
	}
}
