package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingStatus tracks a queued approval. Resolved rows are retained for
// audit; the "pending" status is the only live state.
type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusApproved PendingStatus = "approved"
	PendingStatusRejected PendingStatus = "rejected"
	PendingStatusExpired  PendingStatus = "expired"
)

// PendingApproval is an action awaiting manual review. PriorityRank is
// denormalized from Priority so the database can order the queue
// critical > high > medium > low without a custom collation.
type PendingApproval struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UUID          string        `json:"uuid" gorm:"uniqueIndex"`
	ActionUUID    string        `json:"action_uuid" gorm:"uniqueIndex"`
	RequesterUUID string        `json:"requester_uuid" gorm:"index"`
	Priority      RiskLevel     `json:"priority"`
	PriorityRank  int           `json:"-" gorm:"index"`
	Status        PendingStatus `json:"status" gorm:"index;default:'pending'"`
	Reason        string        `json:"reason,omitempty" gorm:"type:text"`
	EnqueuedAt    time.Time     `json:"enqueued_at" gorm:"index"`
	ExpiresAt     time.Time     `json:"expires_at" gorm:"index"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

func (p *PendingApproval) BeforeCreate(tx *gorm.DB) (err error) {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	if p.PriorityRank == 0 {
		p.PriorityRank = p.Priority.Rank()
	}
	return
}
