package models

import (
	"time"

	"github.com/PvUtrix/shked-sub003/internal/uuid"

	"gorm.io/gorm"
)

// Base holds the columns every table shares. IDs are UUIDv7 strings and
// timestamps are stored in UTC.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns an ID unless the caller set one.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
