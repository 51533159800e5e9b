package models

// Group is a study group students belong to (e.g. "ИВТ-21").
type Group struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
