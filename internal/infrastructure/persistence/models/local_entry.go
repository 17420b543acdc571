package models

import "time"

// LocalEntryModel is one JSON-encoded value of the client-local store
type LocalEntryModel struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (LocalEntryModel) TableName() string {
	return "local_entries"
}
