package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionStatus tracks the lifecycle of an intercepted action.
type ActionStatus string

const (
	ActionStatusPending  ActionStatus = "pending"
	ActionStatusApproved ActionStatus = "approved"
	ActionStatusRejected ActionStatus = "rejected"
)

// DecisionOutcome is the terminal result recorded for an action.
type DecisionOutcome string

const (
	DecisionApprove DecisionOutcome = "approve"
	DecisionReject  DecisionOutcome = "reject"
)

// Verb is the past-tense form used in audit details and notifications.
func (o DecisionOutcome) Verb() string {
	if o == DecisionReject {
		return "rejected"
	}
	return "approved"
}

// DecisionMethod records how a decision was reached.
type DecisionMethod string

const (
	DecisionMethodAuto   DecisionMethod = "auto"
	DecisionMethodManual DecisionMethod = "manual"
)

// Action is one intercepted request (tool call, transfer, deploy, ...).
// The decision fields are written exactly once: an action that already has
// DecidedAt set is terminal and all later transition attempts are no-ops.
type Action struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	UUID          string       `json:"uuid" gorm:"uniqueIndex"`
	RequesterUUID string       `json:"requester_uuid" gorm:"index"`
	Type          string       `json:"type" gorm:"index"`
	Description   string       `json:"description" gorm:"type:text"`
	Params        string       `json:"params" gorm:"type:text"` // JSON-encoded structured params
	ValueUSD      float64      `json:"value_usd"`
	RiskScore     int          `json:"risk_score"`
	RiskLevel     RiskLevel    `json:"risk_level" gorm:"index"`
	Status        ActionStatus `json:"status" gorm:"index;default:'pending'"`

	DecisionOutcome DecisionOutcome `json:"decision_outcome,omitempty"`
	DecisionMethod  DecisionMethod  `json:"decision_method,omitempty"`
	DecisionReason  string          `json:"decision_reason,omitempty" gorm:"type:text"`
	DecidedAt       *time.Time      `json:"decided_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) (err error) {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return
}

// Decided reports whether the action has reached a terminal decision.
func (a *Action) Decided() bool {
	return a.DecidedAt != nil
}
