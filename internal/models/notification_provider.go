package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an external sink (shoutrrr URL or custom webhook)
// that receives pipeline events. Each provider opts into event types.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, gotify, telegram, generic, webhook
	URL     string `json:"url"`  // The shoutrrr URL or webhook URL
	Enabled bool   `json:"enabled"`

	// Notification Preferences
	NotifyPending    bool `json:"notify_pending" gorm:"default:true"`
	NotifyDecisions  bool `json:"notify_decisions" gorm:"default:true"`
	NotifyCompromise bool `json:"notify_compromise" gorm:"default:true"`
	NotifyRules      bool `json:"notify_rules" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
