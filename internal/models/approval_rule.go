package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleOutcome is what a matching rule resolves an action to.
type RuleOutcome string

const (
	RuleOutcomeApprove RuleOutcome = "approve"
	RuleOutcomeReject  RuleOutcome = "reject"
	RuleOutcomeManual  RuleOutcome = "manual"
)

// ApprovalRule is one policy entry. The engine evaluates enabled rules in
// ascending Priority order; the first rule whose predicate matches decides
// the action. All predicate fields are optional; an empty field matches
// everything, so a rule with no predicates is a catch-all.
type ApprovalRule struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	UUID     string      `json:"uuid" gorm:"uniqueIndex"`
	Name     string      `json:"name"`
	Priority int         `json:"priority" gorm:"index"`
	Enabled  bool        `json:"enabled" gorm:"default:true"`
	Outcome  RuleOutcome `json:"outcome"`
	Reason   string      `json:"reason" gorm:"type:text"`

	// Predicates. Comma-separated lists; empty means "any".
	ActionTypes     string    `json:"action_types"`
	MinRiskLevel    RiskLevel `json:"min_risk_level"` // match if action risk >= this
	MaxRiskLevel    RiskLevel `json:"max_risk_level"` // match if action risk <= this
	MinTrust        *int      `json:"min_trust,omitempty"`
	MaxTrust        *int      `json:"max_trust,omitempty"`
	AllowRequesters string    `json:"allow_requesters"` // requester UUIDs this rule is limited to
	DenyRequesters  string    `json:"deny_requesters"`  // requester UUIDs this rule never matches

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ApprovalRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return
}

// SplitList parses a comma-separated predicate list, dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
