package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Requester is an already-authenticated agent or server identity allowed to
// submit actions. TrustLevel feeds the risk scorer; the counters are
// maintained by the interceptor via atomic column increments.
type Requester struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UUID       string `json:"uuid" gorm:"uniqueIndex"`
	Name       string `json:"name" gorm:"index"`
	TrustLevel int    `json:"trust_level" gorm:"default:50"` // 0-100
	Enabled    bool   `json:"enabled" gorm:"default:true"`

	ApprovedCount int `json:"approved_count" gorm:"default:0"`
	RejectedCount int `json:"rejected_count" gorm:"default:0"`
	PendingCount  int `json:"pending_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Requester) BeforeCreate(tx *gorm.DB) (err error) {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return
}
