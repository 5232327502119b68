package models

import "time"

// Setting is a key/value policy configuration entry. Known keys include
// "approval_ttl_seconds", "confidence_floor", "high_severity_limit" and
// "history_retention", which override the env-sourced defaults at startup.
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"uniqueIndex"`
	Value     string    `json:"value" gorm:"type:text"`
	Category  string    `json:"category"`
	Type      string    `json:"type" gorm:"default:'string'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
