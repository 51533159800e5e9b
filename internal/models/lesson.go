package models

import "time"

// Lesson is a scheduled class of a study group.
type Lesson struct {
	Base
	GroupID  string    `gorm:"type:uuid;not null;index" json:"group_id"`
	Subject  string    `gorm:"not null" json:"subject"`
	Teacher  string    `json:"teacher,omitempty"`
	Room     string    `json:"room,omitempty"`
	StartsAt time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
}

// Homework is an assignment given to a study group.
type Homework struct {
	Base
	GroupID string    `gorm:"type:uuid;not null;index" json:"group_id"`
	Subject string    `gorm:"not null" json:"subject"`
	Title   string    `gorm:"not null" json:"title"`
	DueAt   time.Time `gorm:"not null;index" json:"due_at"`
}

// TableName overrides the inflected table name.
func (Homework) TableName() string { return "homeworks" }
